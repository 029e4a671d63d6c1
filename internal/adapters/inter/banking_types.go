package inter

import (
	"encoding/json"
	"fmt"
)

// ==================== Saldo e extrato ====================

// Balance representa o saldo da conta
type Balance struct {
	Disponivel         float64 `json:"disponivel"`
	BloqueadoCheque    float64 `json:"bloqueadoCheque"`
	BloqueadoJudicial  float64 `json:"bloqueadoJudicialmente"`
	BloqueadoAdm       float64 `json:"bloqueadoAdministrativo"`
	Limite             float64 `json:"limite"`
	LimiteTitulosConta float64 `json:"limiteTitulosConta,omitempty"`
}

// StatementTransaction é um lançamento do extrato
type StatementTransaction struct {
	CPMF            string         `json:"cpmf,omitempty"`
	DataEntrada     string         `json:"dataEntrada"`
	TipoTransacao   string         `json:"tipoTransacao"`
	TipoOperacao    string         `json:"tipoOperacao"` // C ou D
	Valor           string         `json:"valor"`
	Titulo          string         `json:"titulo"`
	Descricao       string         `json:"descricao"`
	IDTransacao     string         `json:"idTransacao,omitempty"`
	DataInclusao    string         `json:"dataInclusao,omitempty"`
	DataTransacao   string         `json:"dataTransacao,omitempty"`
	NumeroDocumento string         `json:"numeroDocumento,omitempty"`
	Detalhes        map[string]any `json:"detalhes,omitempty"`
}

// Statement é o extrato de um período
type Statement struct {
	Transacoes []StatementTransaction `json:"transacoes"`
}

// EnrichedStatementPage é uma página do extrato completo
type EnrichedStatementPage struct {
	TotalPaginas      int                    `json:"totalPaginas"`
	TotalElementos    int                    `json:"totalElementos"`
	UltimaPagina      bool                   `json:"ultimaPagina"`
	PrimeiraPagina    bool                   `json:"primeiraPagina"`
	TamanhoPagina     int                    `json:"tamanhoPagina"`
	NumeroDeElementos int                    `json:"numeroDeElementos"`
	Transacoes        []StatementTransaction `json:"transacoes"`
}

// PDFDocument é a resposta dos endpoints que exportam PDF em base64
type PDFDocument struct {
	PDF string `json:"pdf"`
}

// ==================== Pagamentos ====================

// BilletPayment representa o pagamento de um boleto
type BilletPayment struct {
	CodBarraLinhaDigitavel string  `json:"codBarraLinhaDigitavel"`
	ValorPagar             float64 `json:"valorPagar"`
	DataPagamento          string  `json:"dataPagamento,omitempty"`
	DataVencimento         string  `json:"dataVencimento,omitempty"`
	CPFCNPJBeneficiario    string  `json:"cpfCnpjBeneficiario,omitempty"`
}

// BilletPaymentResult é o retorno do pagamento de boleto
type BilletPaymentResult struct {
	QuantidadeAprovadores int    `json:"quantidadeAprovadores"`
	DataAgendamento       string `json:"dataAgendamento,omitempty"`
	StatusPagamento       string `json:"statusPagamento"`
	CodigoTransacao       string `json:"codigoTransacao"`

	Additional AdditionalFields `json:"-"`
}

// UnmarshalJSON preserva campos desconhecidos em Additional
func (r *BilletPaymentResult) UnmarshalJSON(data []byte) error {
	type plain BilletPaymentResult
	var p plain
	extra, err := decodeWithAdditional(data, &p)
	if err != nil {
		return err
	}
	*r = BilletPaymentResult(p)
	r.Additional = extra
	return nil
}

// DarfPayment representa o pagamento de um DARF
type DarfPayment struct {
	CNPJCPF         string `json:"cnpjCpf"`
	CodigoReceita   string `json:"codigoReceita"`
	DataVencimento  string `json:"dataVencimento"`
	Descricao       string `json:"descricao,omitempty"`
	NomeEmpresa     string `json:"nomeEmpresa"`
	TelefoneEmpresa string `json:"telefoneEmpresa,omitempty"`
	Periodo         string `json:"periodoApuracao"`
	ValorPrincipal  string `json:"valorPrincipal"`
	ValorMulta      string `json:"valorMulta,omitempty"`
	ValorJuros      string `json:"valorJuros,omitempty"`
	Referencia      string `json:"referencia,omitempty"`
}

// DarfPaymentResult é o retorno do pagamento de DARF
type DarfPaymentResult struct {
	Autenticacao      string `json:"autenticacao"`
	DataPagamento     string `json:"dataPagamento"`
	CodigoSolicitacao string `json:"codigoSolicitacao"`
	HoraPagamento     string `json:"horaPagamento,omitempty"`
}

// ==================== Pagamento Pix ====================

// Tipos de destinatário de um pagamento Pix
const (
	RecipientKey         = "CHAVE"
	RecipientBankDetails = "DADOS_BANCARIOS"
	RecipientCopyPaste   = "PIX_COPIA_E_COLA"
)

// FinancialInstitution identifica a instituição do destinatário
type FinancialInstitution struct {
	CodigoBanco string `json:"codigo,omitempty"`
	ISPB        string `json:"ispb"`
	Nome        string `json:"nome,omitempty"`
	Tipo        string `json:"tipo,omitempty"`
}

// Recipient é o destinatário de um pagamento Pix, discriminado pelo campo "tipo".
// Apenas os campos do tipo escolhido são serializados.
type Recipient struct {
	Tipo string

	// CHAVE
	Chave string

	// DADOS_BANCARIOS
	Agencia               string
	Conta                 string
	TipoConta             string
	CPFCNPJ               string
	Nome                  string
	InstituicaoFinanceira *FinancialInstitution

	// PIX_COPIA_E_COLA
	PixCopiaECola string
}

// KeyRecipient cria um destinatário por chave Pix
func KeyRecipient(key string) Recipient {
	return Recipient{Tipo: RecipientKey, Chave: key}
}

// CopyPasteRecipient cria um destinatário a partir do Pix copia e cola
func CopyPasteRecipient(code string) Recipient {
	return Recipient{Tipo: RecipientCopyPaste, PixCopiaECola: code}
}

type keyRecipientWire struct {
	Tipo  string `json:"tipo"`
	Chave string `json:"chave"`
}

type bankDetailsRecipientWire struct {
	Tipo                  string                `json:"tipo"`
	Agencia               string                `json:"agencia"`
	Conta                 string                `json:"contaCorrente"`
	TipoConta             string                `json:"tipoConta"`
	CPFCNPJ               string                `json:"cpfCnpj"`
	Nome                  string                `json:"nome"`
	InstituicaoFinanceira *FinancialInstitution `json:"instituicaoFinanceira"`
}

type copyPasteRecipientWire struct {
	Tipo          string `json:"tipo"`
	PixCopiaECola string `json:"pixCopiaECola"`
}

// MarshalJSON serializa apenas os campos do tipo do destinatário
func (r Recipient) MarshalJSON() ([]byte, error) {
	switch r.Tipo {
	case RecipientKey:
		return json.Marshal(keyRecipientWire{Tipo: r.Tipo, Chave: r.Chave})
	case RecipientBankDetails:
		return json.Marshal(bankDetailsRecipientWire{
			Tipo:                  r.Tipo,
			Agencia:               r.Agencia,
			Conta:                 r.Conta,
			TipoConta:             r.TipoConta,
			CPFCNPJ:               r.CPFCNPJ,
			Nome:                  r.Nome,
			InstituicaoFinanceira: r.InstituicaoFinanceira,
		})
	case RecipientCopyPaste:
		return json.Marshal(copyPasteRecipientWire{Tipo: r.Tipo, PixCopiaECola: r.PixCopiaECola})
	}
	return nil, fmt.Errorf("tipo de destinatário desconhecido: %q", r.Tipo)
}

// UnmarshalJSON lê o campo "tipo" e decodifica o formato correspondente
func (r *Recipient) UnmarshalJSON(data []byte) error {
	var head struct {
		Tipo string `json:"tipo"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Tipo {
	case RecipientKey:
		var w keyRecipientWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*r = Recipient{Tipo: w.Tipo, Chave: w.Chave}
	case RecipientBankDetails:
		var w bankDetailsRecipientWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*r = Recipient{
			Tipo:                  w.Tipo,
			Agencia:               w.Agencia,
			Conta:                 w.Conta,
			TipoConta:             w.TipoConta,
			CPFCNPJ:               w.CPFCNPJ,
			Nome:                  w.Nome,
			InstituicaoFinanceira: w.InstituicaoFinanceira,
		}
	case RecipientCopyPaste:
		var w copyPasteRecipientWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*r = Recipient{Tipo: w.Tipo, PixCopiaECola: w.PixCopiaECola}
	default:
		return fmt.Errorf("tipo de destinatário desconhecido: %q", head.Tipo)
	}
	return nil
}

// PixPayment representa um pagamento Pix a partir da conta
type PixPayment struct {
	Valor         string    `json:"valor"`
	DataPagamento string    `json:"dataPagamento,omitempty"`
	Descricao     string    `json:"descricao,omitempty"`
	Destinatario  Recipient `json:"destinatario"`
}

// PixPaymentResult é o retorno da inclusão de um pagamento Pix
type PixPaymentResult struct {
	TipoRetorno       string `json:"tipoRetorno"` // APROVACAO, PROCESSADO, AGENDADO
	CodigoSolicitacao string `json:"codigoSolicitacao"`
	DataPagamento     string `json:"dataPagamento,omitempty"`
	DataOperacao      string `json:"dataOperacao,omitempty"`
	EndToEndID        string `json:"endToEndId,omitempty"`

	// IdempotencyKey é o valor enviado em x-id-idempotente
	IdempotencyKey string `json:"-"`
}

// PixPaymentDetails é a consulta de um pagamento Pix
type PixPaymentDetails struct {
	Transacao struct {
		ContaCorrente     string `json:"contaCorrente"`
		Recebedor         Debtor `json:"recebedor"`
		Status            string `json:"status"`
		Valor             string `json:"valor"`
		EndToEndID        string `json:"endToEndId,omitempty"`
		DataHoraMovimento string `json:"dataHoraMovimento,omitempty"`
	} `json:"transacao"`
	Historico []map[string]any `json:"historico,omitempty"`

	Additional AdditionalFields `json:"-"`
}

// UnmarshalJSON preserva campos desconhecidos em Additional
func (d *PixPaymentDetails) UnmarshalJSON(data []byte) error {
	type plain PixPaymentDetails
	var p plain
	extra, err := decodeWithAdditional(data, &p)
	if err != nil {
		return err
	}
	*d = PixPaymentDetails(p)
	d.Additional = extra
	return nil
}

// ==================== Webhooks de banking ====================

// Tipos de webhook da API banking
const (
	BankingWebhookPix    = "pix-pagamento"
	BankingWebhookBillet = "boleto-pagamento"
)
