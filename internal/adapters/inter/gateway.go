package inter

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magnani/inter-sdk-go/internal/ports"
)

// DefaultChargeExpiration é a expiração usada quando ExpiresIn não é informado (1 hora)
const DefaultChargeExpiration = 3600

// Gateway expõe o Client pelas portas genéricas de pagamento
type Gateway struct {
	client *Client
	pixKey string
}

// NewGateway cria o adaptador usando a chave PIX do recebedor
func NewGateway(client *Client, pixKey string) *Gateway {
	return &Gateway{client: client, pixKey: pixKey}
}

// CreatePixCharge cria uma cobrança PIX imediata. Sem txid o Inter gera um.
func (g *Gateway) CreatePixCharge(ctx context.Context, req *ports.PixChargeRequest) (*ports.PixChargeResponse, error) {
	if req.Amount <= 0 {
		return nil, NewValidationError("amount", "deve ser maior que zero")
	}

	expiration := req.ExpiresIn
	if expiration <= 0 {
		expiration = DefaultChargeExpiration
	}

	charge := &PixChargeRequest{
		Calendario:         Calendar{Expiracao: expiration},
		Valor:              ChargeValue{Original: formatCents(req.Amount)},
		Chave:              g.pixKey,
		SolicitacaoPagador: req.Description,
	}

	// Adiciona dados do pagador se informados
	if req.PayerName != "" || req.PayerDocument != "" {
		charge.Devedor = &Debtor{Nome: req.PayerName}
		switch len(req.PayerDocument) {
		case 11:
			charge.Devedor.CPF = req.PayerDocument
		case 14:
			charge.Devedor.CNPJ = req.PayerDocument
		}
	}

	var (
		resp *PixCharge
		err  error
	)
	if req.TxID != "" {
		resp, err = g.client.Pix().IncludeImmediateCharge(ctx, req.TxID, charge)
	} else {
		resp, err = g.client.Pix().CreateImmediateCharge(ctx, charge)
	}
	if err != nil {
		return nil, err
	}
	return toChargeResponse(resp), nil
}

// GetPixCharge consulta uma cobrança PIX pelo txid
func (g *Gateway) GetPixCharge(ctx context.Context, txid string) (*ports.PixChargeResponse, error) {
	resp, err := g.client.Pix().RetrieveImmediateCharge(ctx, txid)
	if err != nil {
		return nil, err
	}
	return toChargeResponse(resp), nil
}

// CancelPixCharge cancela uma cobrança PIX pendente
func (g *Gateway) CancelPixCharge(ctx context.Context, txid string) error {
	_, err := g.client.Pix().CancelImmediateCharge(ctx, txid)
	return err
}

// RefundPix solicita a devolução de um PIX recebido; o id da devolução é gerado
func (g *Gateway) RefundPix(ctx context.Context, e2eID string, amount int64) error {
	if amount <= 0 {
		return NewValidationError("amount", "deve ser maior que zero")
	}
	devolutionID := strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err := g.client.Pix().RequestDevolution(ctx, e2eID, devolutionID, &DevolutionRequest{
		Valor: formatCents(amount),
	})
	return err
}

// RegisterWebhook registra a URL de webhook de uma chave PIX
func (g *Gateway) RegisterWebhook(ctx context.Context, pixKey string, webhookURL string) error {
	if pixKey == "" {
		pixKey = g.pixKey
	}
	return g.client.Pix().IncludeWebhook(ctx, pixKey, webhookURL)
}

// GetBalance consulta o saldo atual
func (g *Gateway) GetBalance(ctx context.Context) (*ports.Balance, error) {
	b, err := g.client.Banking().RetrieveBalance(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return &ports.Balance{
		Available: toCents(b.Disponivel),
		Blocked:   toCents(b.BloqueadoCheque + b.BloqueadoJudicial + b.BloqueadoAdm),
		Limit:     toCents(b.Limite),
	}, nil
}

func toChargeResponse(c *PixCharge) *ports.PixChargeResponse {
	resp := &ports.PixChargeResponse{
		TxID:    c.TxID,
		Status:  c.Status,
		PixCode: c.PixCopiaECola,
		Amount:  parseCents(c.Valor.Original),
	}
	if c.Loc != nil {
		resp.Location = c.Loc.Location
	} else {
		resp.Location = c.Location
	}
	for _, p := range c.Pix {
		resp.PaidE2E = append(resp.PaidE2E, p.EndToEndID)
	}
	return resp
}

// formatCents converte centavos para o formato "100.00" da API
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// parseCents converte "100.00" em centavos; valores inválidos viram zero
func parseCents(value string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return toCents(f)
}

func toCents(f float64) int64 {
	return int64(math.Round(f * 100))
}

var (
	_ ports.PixProvider     = (*Gateway)(nil)
	_ ports.AccountProvider = (*Gateway)(nil)
)
