package inter

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/magnani/inter-sdk-go/internal/ports"
)

// SignatureHeader é o header lido para validação HMAC opcional
const SignatureHeader = "X-Signature"

// ErrInvalidSignature indica assinatura ausente ou diferente da esperada
var ErrInvalidSignature = errors.New("assinatura do webhook inválida")

// BillingEvent representa um item do callback de cobrança
type BillingEvent struct {
	CodigoSolicitacao  string `json:"codigoSolicitacao"`
	SeuNumero          string `json:"seuNumero"`
	Situacao           string `json:"situacao"` // RECEBIDO, CANCELADO, EXPIRADO, ...
	DataHoraSituacao   string `json:"dataHoraSituacao"`
	ValorNominal       string `json:"valorNominal,omitempty"`
	ValorTotalRecebido string `json:"valorTotalRecebido,omitempty"`
	OrigemRecebimento  string `json:"origemRecebimento,omitempty"` // BOLETO ou PIX
	NossoNumero        string `json:"nossoNumero,omitempty"`
	CodigoBarras       string `json:"codigoBarras,omitempty"`
	LinhaDigitavel     string `json:"linhaDigitavel,omitempty"`
	TxID               string `json:"txid,omitempty"`
	PixCopiaECola      string `json:"pixCopiaECola,omitempty"`
}

// Notification é o conteúdo decodificado de um callback do Inter.
// O webhook Pix envia {"pix":[...]}; o de cobrança envia um array de eventos.
type Notification struct {
	Pix     []ReceivedPix
	Billing []BillingEvent

	rawPix     []json.RawMessage
	rawBilling []json.RawMessage
}

// WebhookParser valida e decodifica os callbacks enviados pelo Inter
type WebhookParser struct {
	// Secret ativa a validação HMAC-SHA256 do corpo (vazio desativa)
	Secret string

	logger *zap.Logger
}

// NewWebhookParser cria um novo parser de webhooks
func NewWebhookParser(secret string, logger *zap.Logger) *WebhookParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookParser{Secret: secret, logger: logger}
}

// ValidateSignature valida a assinatura do webhook usando HMAC-SHA256
func (p *WebhookParser) ValidateSignature(body []byte, signature string) bool {
	if p.Secret == "" {
		return true
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(p.Secret))
	mac.Write(body)
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedSig))
}

// ParseNotification decodifica o corpo de um callback
func (p *WebhookParser) ParseNotification(body []byte) (*Notification, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("erro ao decodificar webhook: corpo vazio")
	}

	n := &Notification{}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &n.rawBilling); err != nil {
			return nil, fmt.Errorf("erro ao decodificar webhook: %w", err)
		}
		n.Billing = make([]BillingEvent, len(n.rawBilling))
		for i, raw := range n.rawBilling {
			if err := json.Unmarshal(raw, &n.Billing[i]); err != nil {
				return nil, fmt.Errorf("erro ao decodificar evento de cobrança: %w", err)
			}
		}
		return n, nil
	}

	var envelope struct {
		Pix []json.RawMessage `json:"pix"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("erro ao decodificar webhook: %w", err)
	}
	n.rawPix = envelope.Pix
	n.Pix = make([]ReceivedPix, len(envelope.Pix))
	for i, raw := range envelope.Pix {
		if err := json.Unmarshal(raw, &n.Pix[i]); err != nil {
			return nil, fmt.Errorf("erro ao decodificar pix recebido: %w", err)
		}
	}
	return n, nil
}

// ParseWebhookEvents implementa ports.WebhookParser
func (p *WebhookParser) ParseWebhookEvents(payload []byte, signature string) ([]ports.WebhookEvent, error) {
	if !p.ValidateSignature(payload, signature) {
		p.logger.Warn("Webhook com assinatura inválida")
		return nil, ErrInvalidSignature
	}

	n, err := p.ParseNotification(payload)
	if err != nil {
		return nil, err
	}

	events := make([]ports.WebhookEvent, 0, len(n.Pix)+len(n.Billing))

	for i, pix := range n.Pix {
		p.logger.Info("PIX recebido",
			zap.String("e2e", pix.EndToEndID),
			zap.String("txid", pix.TxID),
			zap.String("valor", pix.Valor),
		)
		events = append(events, ports.WebhookEvent{
			Type:       ports.EventPixReceived,
			EventID:    pix.EndToEndID,
			TxID:       pix.TxID,
			Amount:     parseCents(pix.Valor),
			OccurredAt: parseTimestamp(pix.Horario),
			Payload:    n.rawPix[i],
		})
	}

	for i, ev := range n.Billing {
		p.logger.Info("Cobrança atualizada",
			zap.String("codigo_solicitacao", ev.CodigoSolicitacao),
			zap.String("situacao", ev.Situacao),
		)
		amount := ev.ValorTotalRecebido
		if amount == "" {
			amount = ev.ValorNominal
		}
		events = append(events, ports.WebhookEvent{
			Type:       ports.EventBilling,
			EventID:    ev.CodigoSolicitacao,
			TxID:       ev.TxID,
			Amount:     parseCents(amount),
			Status:     ev.Situacao,
			OccurredAt: parseTimestamp(ev.DataHoraSituacao),
			Payload:    n.rawBilling[i],
		})
	}

	return events, nil
}

// parseTimestamp aceita RFC3339 e o formato sem fuso usado pela cobrança
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var _ ports.WebhookParser = (*WebhookParser)(nil)
