// Package handlers contém os handlers HTTP do receptor de webhooks
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/magnani/inter-sdk-go/internal/ports"
)

// maxWebhookBody limita o corpo aceito (1 MiB)
const maxWebhookBody = 1 << 20

// WebhookHandler recebe os callbacks do Inter e roteia cada evento
type WebhookHandler struct {
	parser        ports.WebhookParser
	logger        *zap.Logger
	eventHandlers map[string]WebhookEventHandler

	// OnError é chamado quando um handler de evento falha
	OnError func(event ports.WebhookEvent, err error)
}

// WebhookEventHandler é uma função que processa um tipo específico de evento
type WebhookEventHandler func(r *http.Request, event ports.WebhookEvent) error

// NewWebhookHandler cria um novo handler de webhooks
func NewWebhookHandler(parser ports.WebhookParser, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		parser:        parser,
		logger:        logger,
		eventHandlers: make(map[string]WebhookEventHandler),
	}
}

// RegisterHandler registra um handler para um tipo de evento
func (wh *WebhookHandler) RegisterHandler(eventType string, handler WebhookEventHandler) {
	wh.eventHandlers[eventType] = handler
}

// ServeHTTP processa webhooks do Inter (POST)
func (wh *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apenas POST é permitido
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		wh.logger.Error("Erro ao ler body do webhook", zap.Error(err))
		http.Error(w, "Erro ao ler requisição", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	wh.logger.Debug("Webhook recebido", zap.ByteString("body", body))

	events, err := wh.parser.ParseWebhookEvents(body, r.Header.Get("X-Signature"))
	if err != nil {
		wh.logger.Warn("Webhook rejeitado", zap.Error(err))
		http.Error(w, "Erro ao processar webhook", http.StatusBadRequest)
		return
	}

	for _, event := range events {
		handler, ok := wh.eventHandlers[event.Type]
		if !ok {
			wh.logger.Info("Tipo de evento não tratado", zap.String("type", event.Type))
			continue
		}
		if err := handler(r, event); err != nil {
			// Respondemos 200 mesmo assim para evitar retentativas
			wh.logger.Error("Erro no handler de webhook",
				zap.String("type", event.Type),
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			if wh.OnError != nil {
				wh.OnError(event, err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"status": "received", "events": len(events)})
}

// LogEvent é um handler que apenas registra o evento no log
func LogEvent(logger *zap.Logger) WebhookEventHandler {
	return func(_ *http.Request, event ports.WebhookEvent) error {
		logger.Info("Evento de webhook",
			zap.String("type", event.Type),
			zap.String("event_id", event.EventID),
			zap.String("txid", event.TxID),
			zap.Int64("amount_cents", event.Amount),
			zap.String("status", event.Status),
		)
		return nil
	}
}
