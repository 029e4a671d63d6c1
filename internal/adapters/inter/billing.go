package inter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// BillingClient agrupa as operações da API de cobrança (boleto com pix)
type BillingClient struct {
	c *Client
}

// Billing retorna o cliente da API de cobrança
func (c *Client) Billing() *BillingClient {
	return &BillingClient{c: c}
}

// BillingFilter filtra a listagem e o sumário de cobranças
type BillingFilter struct {
	Start      time.Time
	End        time.Time
	DateType   string // VENCIMENTO, EMISSAO, PAGAMENTO
	Situation  string
	Payer      string
	CPFCNPJ    string
	YourNumber string
	Page       int
	PageSize   int
}

func (f BillingFilter) query() (url.Values, error) {
	q, err := periodQuery(f.Start, f.End)
	if err != nil {
		return nil, err
	}
	q.Set("dataInicial", q.Get("dataInicio"))
	q.Set("dataFinal", q.Get("dataFim"))
	q.Del("dataInicio")
	q.Del("dataFim")

	if f.DateType != "" {
		q.Set("filtrarDataPor", f.DateType)
	}
	if f.Situation != "" {
		q.Set("situacao", f.Situation)
	}
	if f.Payer != "" {
		q.Set("pessoaPagadora", f.Payer)
	}
	if f.CPFCNPJ != "" {
		q.Set("cpfCnpjPessoaPagadora", f.CPFCNPJ)
	}
	if f.YourNumber != "" {
		q.Set("seuNumero", f.YourNumber)
	}
	if f.Page > 0 {
		q.Set("paginacao.paginaAtual", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("paginacao.itensPorPagina", strconv.Itoa(f.PageSize))
	}
	return q, nil
}

// IssueBilling emite um boleto com pix
func (b *BillingClient) IssueBilling(ctx context.Context, req *BillingRequest) (*BillingIssued, error) {
	if err := required("seuNumero", req.SeuNumero); err != nil {
		return nil, err
	}
	if err := required("dataVencimento", req.DataVencimento); err != nil {
		return nil, err
	}
	if req.ValorNominal <= 0 {
		return nil, NewValidationError("valorNominal", "deve ser maior que zero")
	}

	var issued BillingIssued
	err := b.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathBilling,
		Scope:   ScopeBillingWrite,
		Message: "erro ao emitir cobrança",
		Body:    req,
	}, &issued)
	if err != nil {
		return nil, err
	}
	return &issued, nil
}

// RetrieveBilling consulta uma cobrança pelo código de solicitação
func (b *BillingClient) RetrieveBilling(ctx context.Context, requestCode string) (*Billing, error) {
	if err := required("codigoSolicitacao", requestCode); err != nil {
		return nil, err
	}

	var billing Billing
	err := b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBilling + "/" + url.PathEscape(requestCode),
		Scope:   ScopeBillingRead,
		Message: "erro ao consultar cobrança",
	}, &billing)
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// RetrieveBillingList lista uma página de cobranças
func (b *BillingClient) RetrieveBillingList(ctx context.Context, filter BillingFilter) (*BillingPage, error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}

	var page BillingPage
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBilling,
		Query:   q,
		Scope:   ScopeBillingRead,
		Message: "erro ao listar cobranças",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrieveBillingPDF retorna o PDF (base64) de uma cobrança
func (b *BillingClient) RetrieveBillingPDF(ctx context.Context, requestCode string) (string, error) {
	if err := required("codigoSolicitacao", requestCode); err != nil {
		return "", err
	}

	var doc PDFDocument
	err := b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBilling + "/" + url.PathEscape(requestCode) + "/pdf",
		Scope:   ScopeBillingRead,
		Message: "erro ao obter pdf da cobrança",
	}, &doc)
	if err != nil {
		return "", err
	}
	return doc.PDF, nil
}

// CancelBilling cancela uma cobrança informando o motivo
func (b *BillingClient) CancelBilling(ctx context.Context, requestCode, reason string) error {
	if err := required("codigoSolicitacao", requestCode); err != nil {
		return err
	}
	if err := required("motivoCancelamento", reason); err != nil {
		return err
	}

	return b.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathBilling + "/" + url.PathEscape(requestCode) + "/cancelar",
		Scope:   ScopeBillingWrite,
		Message: "erro ao cancelar cobrança",
		Body:    map[string]string{"motivoCancelamento": reason},
	}, nil)
}

// RetrieveBillingSummary retorna o sumário das cobranças por situação
func (b *BillingClient) RetrieveBillingSummary(ctx context.Context, filter BillingFilter) ([]BillingSummaryItem, error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}
	q.Del("paginacao.paginaAtual")
	q.Del("paginacao.itensPorPagina")

	var summary []BillingSummaryItem
	err = b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBillingSummary,
		Query:   q,
		Scope:   ScopeBillingRead,
		Message: "erro ao consultar sumário de cobranças",
	}, &summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// IncludeWebhook configura o webhook de cobrança
func (b *BillingClient) IncludeWebhook(ctx context.Context, webhookURL string) error {
	if err := required("webhookUrl", webhookURL); err != nil {
		return err
	}

	return b.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    PathBillingWebhook,
		Scope:   ScopeBillingWrite,
		Message: "erro ao registrar webhook de cobrança",
		Body:    map[string]string{"webhookUrl": webhookURL},
	}, nil)
}

// RetrieveWebhook consulta o webhook de cobrança
func (b *BillingClient) RetrieveWebhook(ctx context.Context) (*PixWebhook, error) {
	var hook PixWebhook
	err := b.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathBillingWebhook,
		Scope:   ScopeBillingRead,
		Message: "erro ao consultar webhook de cobrança",
	}, &hook)
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteWebhook remove o webhook de cobrança
func (b *BillingClient) DeleteWebhook(ctx context.Context) error {
	return b.c.Do(ctx, Request{
		Method:  http.MethodDelete,
		Path:    PathBillingWebhook,
		Scope:   ScopeBillingWrite,
		Message: "erro ao remover webhook de cobrança",
	}, nil)
}

// RetrieveCallbacks consulta os disparos do webhook de cobrança
func (b *BillingClient) RetrieveCallbacks(ctx context.Context, start, end time.Time, requestCode string, page, pageSize int) (*CallbackPage, error) {
	return retrieveCallbacks(ctx, b.c, PathBillingWebhook+"/callbacks", ScopeBillingRead, start, end, requestCode, "codigoSolicitacao", page, pageSize)
}
