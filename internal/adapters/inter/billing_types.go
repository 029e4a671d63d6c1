package inter

// Person representa o pagador de um boleto
type Person struct {
	CPFCNPJ     string `json:"cpfCnpj"`
	TipoPessoa  string `json:"tipoPessoa"` // FISICA ou JURIDICA
	Nome        string `json:"nome"`
	Endereco    string `json:"endereco"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`
	CEP         string `json:"cep"`
	Email       string `json:"email,omitempty"`
	DDD         string `json:"ddd,omitempty"`
	Telefone    string `json:"telefone,omitempty"`
}

// BillingDiscount é o desconto de um boleto
type BillingDiscount struct {
	Codigo         string  `json:"codigo"`
	QuantidadeDias int     `json:"quantidadeDias,omitempty"`
	Taxa           float64 `json:"taxa,omitempty"`
	Valor          float64 `json:"valor,omitempty"`
}

// BillingFine é a multa ou mora de um boleto
type BillingFine struct {
	Codigo string  `json:"codigo"`
	Taxa   float64 `json:"taxa,omitempty"`
	Valor  float64 `json:"valor,omitempty"`
}

// BillingMessage são as linhas de mensagem impressas no boleto
type BillingMessage struct {
	Linha1 string `json:"linha1,omitempty"`
	Linha2 string `json:"linha2,omitempty"`
	Linha3 string `json:"linha3,omitempty"`
	Linha4 string `json:"linha4,omitempty"`
	Linha5 string `json:"linha5,omitempty"`
}

// BillingRequest representa a emissão de um boleto com pix
type BillingRequest struct {
	SeuNumero         string           `json:"seuNumero"`
	ValorNominal      float64          `json:"valorNominal"`
	DataVencimento    string           `json:"dataVencimento"`
	NumDiasAgenda     int              `json:"numDiasAgenda"`
	Pagador           Person           `json:"pagador"`
	Desconto          *BillingDiscount `json:"desconto,omitempty"`
	Multa             *BillingFine     `json:"multa,omitempty"`
	Mora              *BillingFine     `json:"mora,omitempty"`
	Mensagem          *BillingMessage  `json:"mensagem,omitempty"`
	BeneficiarioFinal *Person          `json:"beneficiarioFinal,omitempty"`
	FormasRecebimento []string         `json:"formasRecebimento,omitempty"` // BOLETO, PIX
}

// BillingIssued é o retorno da emissão
type BillingIssued struct {
	CodigoSolicitacao string `json:"codigoSolicitacao"`
}

// BillingCharge são os dados da cobrança
type BillingCharge struct {
	CodigoSolicitacao  string `json:"codigoSolicitacao"`
	SeuNumero          string `json:"seuNumero"`
	DataEmissao        string `json:"dataEmissao"`
	DataVencimento     string `json:"dataVencimento"`
	ValorNominal       string `json:"valorNominal"`
	TipoCobranca       string `json:"tipoCobranca"`
	Situacao           string `json:"situacao"` // A_RECEBER, RECEBIDO, CANCELADO, ATRASADO, EXPIRADO
	DataSituacao       string `json:"dataSituacao"`
	ValorTotalRecebido string `json:"valorTotalRecebido,omitempty"`
	OrigemRecebimento  string `json:"origemRecebimento,omitempty"`
	Pagador            Person `json:"pagador"`
}

// BillingSlip são os dados do boleto
type BillingSlip struct {
	NossoNumero    string `json:"nossoNumero"`
	CodigoBarras   string `json:"codigoBarras"`
	LinhaDigitavel string `json:"linhaDigitavel"`
}

// BillingPix são os dados do pix associado
type BillingPix struct {
	TxID          string `json:"txid"`
	PixCopiaECola string `json:"pixCopiaECola"`
}

// Billing é a consulta de uma cobrança
type Billing struct {
	Cobranca BillingCharge `json:"cobranca"`
	Boleto   *BillingSlip  `json:"boleto,omitempty"`
	Pix      *BillingPix   `json:"pix,omitempty"`

	Additional AdditionalFields `json:"-"`
}

// UnmarshalJSON preserva campos desconhecidos em Additional
func (b *Billing) UnmarshalJSON(data []byte) error {
	type plain Billing
	var p plain
	extra, err := decodeWithAdditional(data, &p)
	if err != nil {
		return err
	}
	*b = Billing(p)
	b.Additional = extra
	return nil
}

// MarshalJSON reenvia os campos de Additional
func (b Billing) MarshalJSON() ([]byte, error) {
	type plain Billing
	return encodeWithAdditional(plain(b), b.Additional)
}

// BillingPage é uma página da listagem de cobranças
type BillingPage struct {
	TotalPaginas      int       `json:"totalPaginas"`
	TotalElementos    int       `json:"totalElementos"`
	UltimaPagina      bool      `json:"ultimaPagina"`
	PrimeiraPagina    bool      `json:"primeiraPagina"`
	NumeroDeElementos int       `json:"numeroDeElementos"`
	Cobrancas         []Billing `json:"cobrancas"`
}

// BillingSummaryItem agrupa cobranças por situação
type BillingSummaryItem struct {
	Situacao            string  `json:"situacao"`
	Valor               float64 `json:"valor"`
	QuantidadeCobrancas int     `json:"quantidadeCobrancas"`
}
