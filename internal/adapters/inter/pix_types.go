package inter

// ==================== Cobranças ====================

// Calendar define o calendário de uma cobrança PIX
type Calendar struct {
	Criacao                string `json:"criacao,omitempty"`
	Expiracao              int    `json:"expiracao,omitempty"` // Tempo em segundos até expirar (cob)
	DataDeVencimento       string `json:"dataDeVencimento,omitempty"`
	ValidadeAposVencimento int    `json:"validadeAposVencimento,omitempty"` // Dias (cobv)
}

// Debtor representa os dados do devedor/pagador
type Debtor struct {
	CPF        string `json:"cpf,omitempty"`
	CNPJ       string `json:"cnpj,omitempty"`
	Nome       string `json:"nome,omitempty"`
	Email      string `json:"email,omitempty"`
	Logradouro string `json:"logradouro,omitempty"`
	Cidade     string `json:"cidade,omitempty"`
	UF         string `json:"uf,omitempty"`
	CEP        string `json:"cep,omitempty"`
}

// ChargeValue representa o valor de uma cobrança imediata
type ChargeValue struct {
	Original            string `json:"original"` // Valor com 2 casas decimais (ex: "100.00")
	ModalidadeAlteracao int    `json:"modalidadeAlteracao,omitempty"`
}

// ValueModality é o formato comum de multa, juros, abatimento e desconto
type ValueModality struct {
	Modalidade int    `json:"modalidade"`
	ValorPerc  string `json:"valorPerc,omitempty"`
}

// FixedDateDiscount é um desconto válido até uma data
type FixedDateDiscount struct {
	Data      string `json:"data"`
	ValorPerc string `json:"valorPerc"`
}

// DueDiscount é o desconto de uma cobrança com vencimento
type DueDiscount struct {
	Modalidade       int                 `json:"modalidade"`
	ValorPerc        string              `json:"valorPerc,omitempty"`
	DescontoDataFixa []FixedDateDiscount `json:"descontoDataFixa,omitempty"`
}

// DueChargeValue é o valor de uma cobrança com vencimento
type DueChargeValue struct {
	Original   string         `json:"original"`
	Multa      *ValueModality `json:"multa,omitempty"`
	Juros      *ValueModality `json:"juros,omitempty"`
	Abatimento *ValueModality `json:"abatimento,omitempty"`
	Desconto   *DueDiscount   `json:"desconto,omitempty"`
}

// AdditionalInfo representa informações adicionais exibidas ao pagador
type AdditionalInfo struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

// LocationRef referencia um location já criado
type LocationRef struct {
	ID int `json:"id"`
}

// PixChargeRequest representa uma requisição para criar cobrança PIX imediata
type PixChargeRequest struct {
	Calendario         Calendar         `json:"calendario"`
	Devedor            *Debtor          `json:"devedor,omitempty"`
	Loc                *LocationRef     `json:"loc,omitempty"`
	Valor              ChargeValue      `json:"valor"`
	Chave              string           `json:"chave"` // Chave PIX do recebedor
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
}

// PixChargeReview representa a revisão (PATCH) de uma cobrança imediata
type PixChargeReview struct {
	Calendario         *Calendar        `json:"calendario,omitempty"`
	Devedor            *Debtor          `json:"devedor,omitempty"`
	Loc                *LocationRef     `json:"loc,omitempty"`
	Valor              *ChargeValue     `json:"valor,omitempty"`
	Chave              string           `json:"chave,omitempty"`
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
	Status             string           `json:"status,omitempty"` // REMOVIDA_PELO_USUARIO_RECEBEDOR
}

// PixCharge representa uma cobrança PIX imediata retornada pela API
type PixCharge struct {
	Calendario         Calendar         `json:"calendario"`
	TxID               string           `json:"txid"`
	Revisao            int              `json:"revisao"`
	Loc                *Location        `json:"loc,omitempty"`
	Location           string           `json:"location,omitempty"`
	Status             string           `json:"status"` // ATIVA, CONCLUIDA, REMOVIDA_PELO_USUARIO_RECEBEDOR, REMOVIDA_PELO_PSP
	Devedor            *Debtor          `json:"devedor,omitempty"`
	Valor              ChargeValue      `json:"valor"`
	Chave              string           `json:"chave"`
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
	PixCopiaECola      string           `json:"pixCopiaECola,omitempty"`
	Pix                []ReceivedPix    `json:"pix,omitempty"`

	Additional AdditionalFields `json:"-"`
}

// UnmarshalJSON preserva campos desconhecidos em Additional
func (c *PixCharge) UnmarshalJSON(data []byte) error {
	type plain PixCharge
	var p plain
	extra, err := decodeWithAdditional(data, &p)
	if err != nil {
		return err
	}
	*c = PixCharge(p)
	c.Additional = extra
	return nil
}

// MarshalJSON reenvia os campos de Additional
func (c PixCharge) MarshalJSON() ([]byte, error) {
	type plain PixCharge
	return encodeWithAdditional(plain(c), c.Additional)
}

// DueChargeRequest representa uma cobrança com vencimento (cobv)
type DueChargeRequest struct {
	Calendario         Calendar         `json:"calendario"`
	Devedor            Debtor           `json:"devedor"`
	Loc                *LocationRef     `json:"loc,omitempty"`
	Valor              DueChargeValue   `json:"valor"`
	Chave              string           `json:"chave"`
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
}

// DueChargeReview representa a revisão (PATCH) de uma cobrança com vencimento
type DueChargeReview struct {
	Calendario         *Calendar        `json:"calendario,omitempty"`
	Devedor            *Debtor          `json:"devedor,omitempty"`
	Loc                *LocationRef     `json:"loc,omitempty"`
	Valor              *DueChargeValue  `json:"valor,omitempty"`
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
	Status             string           `json:"status,omitempty"`
}

// DueCharge representa uma cobrança com vencimento retornada pela API
type DueCharge struct {
	Calendario         Calendar         `json:"calendario"`
	TxID               string           `json:"txid"`
	Revisao            int              `json:"revisao"`
	Loc                *Location        `json:"loc,omitempty"`
	Status             string           `json:"status"`
	Devedor            *Debtor          `json:"devedor,omitempty"`
	Recebedor          *Debtor          `json:"recebedor,omitempty"`
	Valor              DueChargeValue   `json:"valor"`
	Chave              string           `json:"chave"`
	SolicitacaoPagador string           `json:"solicitacaoPagador,omitempty"`
	InfoAdicionais     []AdditionalInfo `json:"infoAdicionais,omitempty"`
	PixCopiaECola      string           `json:"pixCopiaECola,omitempty"`
	Pix                []ReceivedPix    `json:"pix,omitempty"`

	Additional AdditionalFields `json:"-"`
}

// UnmarshalJSON preserva campos desconhecidos em Additional
func (c *DueCharge) UnmarshalJSON(data []byte) error {
	type plain DueCharge
	var p plain
	extra, err := decodeWithAdditional(data, &p)
	if err != nil {
		return err
	}
	*c = DueCharge(p)
	c.Additional = extra
	return nil
}

// MarshalJSON reenvia os campos de Additional
func (c DueCharge) MarshalJSON() ([]byte, error) {
	type plain DueCharge
	return encodeWithAdditional(plain(c), c.Additional)
}

// Pagination descreve a página retornada nas listagens do Pix
type Pagination struct {
	PaginaAtual            int `json:"paginaAtual"`
	ItensPorPagina         int `json:"itensPorPagina"`
	QuantidadeDePaginas    int `json:"quantidadeDePaginas"`
	QuantidadeTotalDeItens int `json:"quantidadeTotalDeItens"`
}

// PageParameters repete os filtros usados na listagem
type PageParameters struct {
	Inicio    string     `json:"inicio"`
	Fim       string     `json:"fim"`
	Paginacao Pagination `json:"paginacao"`
}

// PixChargePage é uma página de cobranças imediatas
type PixChargePage struct {
	Parametros PageParameters `json:"parametros"`
	Cobs       []PixCharge    `json:"cobs"`
}

// ==================== Pix recebidos e devoluções ====================

// ReceivedPix representa um PIX recebido
type ReceivedPix struct {
	EndToEndID  string       `json:"endToEndId"` // ID único da transação no SPI
	TxID        string       `json:"txid,omitempty"`
	Chave       string       `json:"chave,omitempty"`
	Valor       string       `json:"valor"`
	Horario     string       `json:"horario"`
	InfoPagador string       `json:"infoPagador,omitempty"`
	Devolucoes  []Devolution `json:"devolucoes,omitempty"`
}

// ReceivedPixPage é uma página de PIX recebidos
type ReceivedPixPage struct {
	Parametros PageParameters `json:"parametros"`
	Pix        []ReceivedPix  `json:"pix"`
}

// DevolutionRequest representa a requisição de devolução
type DevolutionRequest struct {
	Valor     string `json:"valor"`
	Natureza  string `json:"natureza,omitempty"` // ORIGINAL, RETIRADA
	Descricao string `json:"descricao,omitempty"`
}

// DevolutionTimes registra os horários de uma devolução
type DevolutionTimes struct {
	Solicitacao string `json:"solicitacao,omitempty"`
	Liquidacao  string `json:"liquidacao,omitempty"`
}

// Devolution representa uma devolução de PIX
type Devolution struct {
	ID        string          `json:"id"`
	RtrID     string          `json:"rtrId"`
	Valor     string          `json:"valor"`
	Natureza  string          `json:"natureza,omitempty"`
	Descricao string          `json:"descricao,omitempty"`
	Horario   DevolutionTimes `json:"horario"`
	Status    string          `json:"status"` // EM_PROCESSAMENTO, DEVOLVIDO, NAO_REALIZADO
	Motivo    string          `json:"motivo,omitempty"`
}

// ==================== Locations ====================

// Location representa um location (payload do QR Code)
type Location struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
	TipoCob  string `json:"tipoCob"` // cob ou cobv
	Criacao  string `json:"criacao,omitempty"`
	TxID     string `json:"txid,omitempty"`
}

// ==================== Webhooks ====================

// PixWebhook representa os dados de um webhook configurado para uma chave
type PixWebhook struct {
	WebhookURL string `json:"webhookUrl"`
	Chave      string `json:"chave,omitempty"`
	Criacao    string `json:"criacao,omitempty"`
}

// Callback representa um disparo de webhook registrado pelo Inter
type Callback struct {
	WebhookURL      string         `json:"webhookUrl"`
	NumeroTentativa int            `json:"numeroTentativa"`
	DataHoraDisparo string         `json:"dataHoraDisparo"`
	Sucesso         bool           `json:"sucesso"`
	HTTPStatus      int            `json:"httpStatus"`
	MensagemErro    string         `json:"mensagemErro,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
}

// CallbackPage é uma página de disparos de webhook
type CallbackPage struct {
	TotalPaginas      int        `json:"totalPaginas"`
	TotalElementos    int        `json:"totalElementos"`
	UltimaPagina      bool       `json:"ultimaPagina"`
	PrimeiraPagina    bool       `json:"primeiraPagina"`
	NumeroDeElementos int        `json:"numeroDeElementos"`
	Data              []Callback `json:"data"`
}
