// Package ports define as interfaces (portas) para adaptadores externos
// Seguindo o padrão Hexagonal Architecture / Ports & Adapters
package ports

import (
	"context"
	"encoding/json"
	"time"
)

// ──────────────────────────────────────────────
// PIX types
// ──────────────────────────────────────────────

// PixChargeRequest representa uma requisição para criar cobrança PIX
type PixChargeRequest struct {
	TxID        string // Identificador único da transação (opcional, será gerado se vazio)
	Amount      int64  // Valor em centavos
	Description string // Descrição da cobrança
	ExpiresIn   int    // Tempo de expiração em segundos (ex: 3600 para 1 hora)

	// Dados do pagador
	PayerName     string
	PayerDocument string // CPF ou CNPJ
}

// PixChargeResponse representa a resposta de uma cobrança PIX criada
type PixChargeResponse struct {
	TxID     string // Identificador da transação
	Status   string // ATIVA, CONCLUIDA, ...
	Location string // Location do payload
	PixCode  string // Código PIX copia e cola
	Amount   int64  // Valor em centavos
	PaidE2E  []string
}

// Balance é o saldo da conta em centavos
type Balance struct {
	Available int64
	Blocked   int64
	Limit     int64
}

// ──────────────────────────────────────────────
// Webhook types
// ──────────────────────────────────────────────

// Tipos de evento de webhook
const (
	EventPixReceived = "pix"
	EventBilling     = "cobranca"
)

// WebhookEvent é um evento de webhook já validado e normalizado
type WebhookEvent struct {
	Type       string          // EventPixReceived | EventBilling
	EventID    string          // endToEndId (pix) ou codigoSolicitacao (cobrança)
	TxID       string          // txid associado, se houver
	Amount     int64           // Valor em centavos
	Status     string          // Situação (cobrança) ou vazio (pix)
	OccurredAt time.Time       // Horário informado pelo banco
	Payload    json.RawMessage // Item original do payload
}

// ──────────────────────────────────────────────
// Provider interfaces
// ──────────────────────────────────────────────

// PixProvider define a interface para o gateway PIX
type PixProvider interface {
	// CreatePixCharge cria uma nova cobrança PIX imediata
	CreatePixCharge(ctx context.Context, req *PixChargeRequest) (*PixChargeResponse, error)

	// GetPixCharge consulta uma cobrança PIX pelo txid
	GetPixCharge(ctx context.Context, txid string) (*PixChargeResponse, error)

	// CancelPixCharge cancela uma cobrança PIX pendente
	CancelPixCharge(ctx context.Context, txid string) error

	// RefundPix solicita devolução de um PIX recebido
	RefundPix(ctx context.Context, e2eID string, amount int64) error

	// RegisterWebhook registra a URL de webhook para receber notificações PIX
	RegisterWebhook(ctx context.Context, pixKey string, webhookURL string) error
}

// AccountProvider define a interface de consulta da conta
type AccountProvider interface {
	// GetBalance consulta o saldo atual
	GetBalance(ctx context.Context) (*Balance, error)
}

// WebhookParser valida e decodifica notificações recebidas
type WebhookParser interface {
	// ParseWebhookEvents valida a assinatura (se configurada) e retorna os eventos do payload
	ParseWebhookEvents(payload []byte, signature string) ([]WebhookEvent, error)
}
