package inter

// Version é a versão do SDK enviada no header x-inter-sdk-version
const Version = "1.0.0"

// Headers enviados pelo SDK
const (
	HeaderSDK         = "x-inter-sdk"
	HeaderSDKVersion  = "x-inter-sdk-version"
	HeaderAccount     = "x-conta-corrente"
	HeaderIdempotency = "x-id-idempotente"

	sdkName = "go"
)

// Endpoints
const (
	PathToken = "/oauth/v2/token"

	// Banking
	PathBanking                  = "/banking/v2"
	PathBankingBalance           = PathBanking + "/saldo"
	PathBankingStatement         = PathBanking + "/extrato"
	PathBankingStatementPDF      = PathBanking + "/extrato/exportar"
	PathBankingEnrichedStatement = PathBanking + "/extrato/completo"
	PathBankingPayment           = PathBanking + "/pagamento"
	PathBankingPaymentDarf       = PathBanking + "/pagamento/darf"
	PathBankingPix               = PathBanking + "/pix"
	PathBankingWebhook           = PathBanking + "/webhooks"

	// Cobrança (boletos com pix)
	PathBilling        = "/cobranca/v3/cobrancas"
	PathBillingSummary = PathBilling + "/sumario"
	PathBillingWebhook = PathBilling + "/webhook"

	// Pix
	PathPix         = "/pix/v2"
	PathPixCob      = PathPix + "/cob"
	PathPixCobv     = PathPix + "/cobv"
	PathPixReceived = PathPix + "/pix"
	PathPixLocation = PathPix + "/loc"
	PathPixWebhook  = PathPix + "/webhook"
)

// Escopos OAuth2
const (
	ScopeStatementRead       = "extrato.read"
	ScopeBilletPaymentWrite  = "pagamento-boleto.write"
	ScopeBilletPaymentRead   = "pagamento-boleto.read"
	ScopeDarfPaymentWrite    = "pagamento-darf.write"
	ScopePixPaymentWrite     = "pagamento-pix.write"
	ScopePixPaymentRead      = "pagamento-pix.read"
	ScopeBankingWebhookRead  = "webhook-banking.read"
	ScopeBankingWebhookWrite = "webhook-banking.write"

	ScopeBillingRead  = "boleto-cobranca.read"
	ScopeBillingWrite = "boleto-cobranca.write"

	ScopeCobRead       = "cob.read"
	ScopeCobWrite      = "cob.write"
	ScopeCobvRead      = "cobv.read"
	ScopeCobvWrite     = "cobv.write"
	ScopePixRead       = "pix.read"
	ScopePixWrite      = "pix.write"
	ScopeLocationRead  = "payloadlocation.read"
	ScopeLocationWrite = "payloadlocation.write"
	ScopeWebhookRead   = "webhook.read"
	ScopeWebhookWrite  = "webhook.write"
)

// Status e tipos usados nas cobranças Pix
const (
	StatusActive            = "ATIVA"
	StatusCompleted         = "CONCLUIDA"
	StatusRemovedByReceiver = "REMOVIDA_PELO_USUARIO_RECEBEDOR"
	StatusRemovedByPSP      = "REMOVIDA_PELO_PSP"

	ChargeTypeCob  = "cob"
	ChargeTypeCobv = "cobv"
)
