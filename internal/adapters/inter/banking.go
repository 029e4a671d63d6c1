package inter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// BankingClient agrupa as operações da API banking (/banking/v2)
type BankingClient struct {
	c *Client
}

// Banking retorna o cliente da API banking
func (c *Client) Banking() *BankingClient {
	return &BankingClient{c: c}
}

const dateLayout = "2006-01-02"

// StatementParams filtra o extrato completo
type StatementParams struct {
	Start           time.Time
	End             time.Time
	TransactionType string
	OperationType   string
	Page            int
	PageSize        int
}

func periodQuery(start, end time.Time) (url.Values, error) {
	if start.IsZero() {
		return nil, NewValidationError("dataInicio", "é obrigatório")
	}
	if end.IsZero() {
		return nil, NewValidationError("dataFim", "é obrigatório")
	}
	if end.Before(start) {
		return nil, NewValidationError("dataFim", "deve ser posterior à data de início")
	}

	q := url.Values{}
	q.Set("dataInicio", start.Format(dateLayout))
	q.Set("dataFim", end.Format(dateLayout))
	return q, nil
}

// ==================== Saldo e extrato ====================

// RetrieveBalance consulta o saldo; com date zero retorna o saldo atual
func (b *BankingClient) RetrieveBalance(ctx context.Context, date time.Time) (*Balance, error) {
	var q url.Values
	if !date.IsZero() {
		q = url.Values{"dataSaldo": {date.Format(dateLayout)}}
	}

	var balance Balance
	err := b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBankingBalance,
		Query:   q,
		Scope:   ScopeStatementRead,
		Message: "erro ao consultar saldo",
	}, &balance)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// RetrieveStatement consulta o extrato de um período
func (b *BankingClient) RetrieveStatement(ctx context.Context, start, end time.Time) (*Statement, error) {
	q, err := periodQuery(start, end)
	if err != nil {
		return nil, err
	}

	var statement Statement
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBankingStatement,
		Query:   q,
		Scope:   ScopeStatementRead,
		Message: "erro ao consultar extrato",
	}, &statement)
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// RetrieveStatementPDF exporta o extrato de um período (PDF em base64)
func (b *BankingClient) RetrieveStatementPDF(ctx context.Context, start, end time.Time) (string, error) {
	q, err := periodQuery(start, end)
	if err != nil {
		return "", err
	}

	var doc PDFDocument
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBankingStatementPDF,
		Query:   q,
		Scope:   ScopeStatementRead,
		Message: "erro ao exportar extrato",
	}, &doc)
	if err != nil {
		return "", err
	}
	return doc.PDF, nil
}

// RetrieveEnrichedStatement consulta uma página do extrato completo
func (b *BankingClient) RetrieveEnrichedStatement(ctx context.Context, params StatementParams) (*EnrichedStatementPage, error) {
	q, err := periodQuery(params.Start, params.End)
	if err != nil {
		return nil, err
	}
	if params.TransactionType != "" {
		q.Set("tipoTransacao", params.TransactionType)
	}
	if params.OperationType != "" {
		q.Set("tipoOperacao", params.OperationType)
	}
	if params.Page > 0 {
		q.Set("pagina", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("tamanhoPagina", strconv.Itoa(params.PageSize))
	}

	var page EnrichedStatementPage
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBankingEnrichedStatement,
		Query:   q,
		Scope:   ScopeStatementRead,
		Message: "erro ao consultar extrato completo",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ==================== Pagamentos ====================

// PayBillet paga (ou agenda) um boleto
func (b *BankingClient) PayBillet(ctx context.Context, payment *BilletPayment) (*BilletPaymentResult, error) {
	if err := required("codBarraLinhaDigitavel", payment.CodBarraLinhaDigitavel); err != nil {
		return nil, err
	}
	if payment.ValorPagar <= 0 {
		return nil, NewValidationError("valorPagar", "deve ser maior que zero")
	}

	var result BilletPaymentResult
	err := b.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathBankingPayment,
		Scope:   ScopeBilletPaymentWrite,
		Message: "erro ao pagar boleto",
		Body:    payment,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PayDarf paga um DARF
func (b *BankingClient) PayDarf(ctx context.Context, payment *DarfPayment) (*DarfPaymentResult, error) {
	if err := required("codigoReceita", payment.CodigoReceita); err != nil {
		return nil, err
	}
	if err := required("valorPrincipal", payment.ValorPrincipal); err != nil {
		return nil, err
	}

	var result DarfPaymentResult
	err := b.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathBankingPaymentDarf,
		Scope:   ScopeDarfPaymentWrite,
		Message: "erro ao pagar DARF",
		Body:    payment,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// IncludePixPayment envia um Pix a partir da conta. Se idempotencyKey for
// vazio, um UUID é gerado e devolvido em PixPaymentResult.IdempotencyKey.
func (b *BankingClient) IncludePixPayment(ctx context.Context, payment *PixPayment, idempotencyKey string) (*PixPaymentResult, error) {
	if err := required("valor", payment.Valor); err != nil {
		return nil, err
	}
	if err := required("destinatario.tipo", payment.Destinatario.Tipo); err != nil {
		return nil, err
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	var result PixPaymentResult
	err := b.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathBankingPix,
		Scope:   ScopePixPaymentWrite,
		Message: "erro ao incluir pagamento pix",
		Body:    payment,
		Headers: map[string]string{HeaderIdempotency: idempotencyKey},
	}, &result)
	if err != nil {
		return nil, err
	}
	result.IdempotencyKey = idempotencyKey
	return &result, nil
}

// RetrievePixPayment consulta um pagamento Pix pelo código de solicitação
func (b *BankingClient) RetrievePixPayment(ctx context.Context, requestCode string) (*PixPaymentDetails, error) {
	if err := required("codigoSolicitacao", requestCode); err != nil {
		return nil, err
	}

	var details PixPaymentDetails
	err := b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBankingPix + "/" + url.PathEscape(requestCode),
		Scope:   ScopePixPaymentRead,
		Message: "erro ao consultar pagamento pix",
	}, &details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// ==================== Webhooks ====================

func bankingWebhookPath(hookType string) (string, error) {
	if hookType != BankingWebhookPix && hookType != BankingWebhookBillet {
		return "", NewValidationError("tipoWebhook", "deve ser pix-pagamento ou boleto-pagamento")
	}
	return PathBankingWebhook + "/" + hookType, nil
}

// IncludeWebhook configura o webhook de pagamentos (pix-pagamento ou boleto-pagamento)
func (b *BankingClient) IncludeWebhook(ctx context.Context, hookType, webhookURL string) error {
	path, err := bankingWebhookPath(hookType)
	if err != nil {
		return err
	}
	if err := required("webhookUrl", webhookURL); err != nil {
		return err
	}

	return b.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    path,
		Scope:   ScopeBankingWebhookWrite,
		Message: "erro ao registrar webhook de banking",
		Body:    map[string]string{"webhookUrl": webhookURL},
	}, nil)
}

// RetrieveWebhook consulta o webhook de pagamentos
func (b *BankingClient) RetrieveWebhook(ctx context.Context, hookType string) (*PixWebhook, error) {
	path, err := bankingWebhookPath(hookType)
	if err != nil {
		return nil, err
	}

	var hook PixWebhook
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    path,
		Scope:   ScopeBankingWebhookRead,
		Message: "erro ao consultar webhook de banking",
	}, &hook)
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteWebhook remove o webhook de pagamentos
func (b *BankingClient) DeleteWebhook(ctx context.Context, hookType string) error {
	path, err := bankingWebhookPath(hookType)
	if err != nil {
		return err
	}

	return b.c.Do(ctx, Request{
		Method:  http.MethodDelete,
		Path:    path,
		Scope:   ScopeBankingWebhookWrite,
		Message: "erro ao remover webhook de banking",
	}, nil)
}

// RetrieveCallbacks consulta os disparos do webhook de pagamentos
func (b *BankingClient) RetrieveCallbacks(ctx context.Context, hookType string, start, end time.Time, requestCode string, page, pageSize int) (*CallbackPage, error) {
	path, err := bankingWebhookPath(hookType)
	if err != nil {
		return nil, err
	}
	return retrieveCallbacks(ctx, b.c, path+"/callbacks", ScopeBankingWebhookRead, start, end, requestCode, "codigoSolicitacao", page, pageSize)
}
