package inter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PixClient agrupa as operações da API Pix (/pix/v2)
type PixClient struct {
	c *Client
}

// Pix retorna o cliente da API Pix
func (c *Client) Pix() *PixClient {
	return &PixClient{c: c}
}

// ListParams filtra as listagens paginadas do Pix
type ListParams struct {
	Start          time.Time
	End            time.Time
	CPF            string
	CNPJ           string
	Status         string
	LocationFilled *bool
	Page           int
	ItemsPerPage   int
}

func (p ListParams) query() (url.Values, error) {
	if p.Start.IsZero() {
		return nil, NewValidationError("inicio", "é obrigatório")
	}
	if p.End.IsZero() {
		return nil, NewValidationError("fim", "é obrigatório")
	}
	if p.End.Before(p.Start) {
		return nil, NewValidationError("fim", "deve ser posterior ao início")
	}

	q := url.Values{}
	q.Set("inicio", p.Start.UTC().Format(time.RFC3339))
	q.Set("fim", p.End.UTC().Format(time.RFC3339))
	if p.CPF != "" {
		q.Set("cpf", p.CPF)
	}
	if p.CNPJ != "" {
		q.Set("cnpj", p.CNPJ)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.LocationFilled != nil {
		q.Set("locationPresente", strconv.FormatBool(*p.LocationFilled))
	}
	if p.Page > 0 {
		q.Set("paginacao.paginaAtual", strconv.Itoa(p.Page))
	}
	if p.ItemsPerPage > 0 {
		q.Set("paginacao.itensPorPagina", strconv.Itoa(p.ItemsPerPage))
	}
	return q, nil
}

// ==================== Cobrança imediata (cob) ====================

// CreateImmediateCharge cria uma cobrança imediata com txid gerado pelo Inter
func (p *PixClient) CreateImmediateCharge(ctx context.Context, req *PixChargeRequest) (*PixCharge, error) {
	if err := required("chave", req.Chave); err != nil {
		return nil, err
	}
	if err := required("valor.original", req.Valor.Original); err != nil {
		return nil, err
	}

	var charge PixCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathPixCob,
		Scope:   ScopeCobWrite,
		Message: "erro ao criar cobrança imediata",
		Body:    req,
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// IncludeImmediateCharge cria uma cobrança imediata com o txid informado
func (p *PixClient) IncludeImmediateCharge(ctx context.Context, txid string, req *PixChargeRequest) (*PixCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}
	if err := required("chave", req.Chave); err != nil {
		return nil, err
	}

	var charge PixCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    PathPixCob + "/" + url.PathEscape(txid),
		Scope:   ScopeCobWrite,
		Message: "erro ao incluir cobrança imediata",
		Body:    req,
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// RetrieveImmediateCharge consulta uma cobrança imediata pelo txid
func (p *PixClient) RetrieveImmediateCharge(ctx context.Context, txid string) (*PixCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}

	var charge PixCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixCob + "/" + url.PathEscape(txid),
		Scope:   ScopeCobRead,
		Message: "erro ao consultar cobrança imediata",
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// ReviewImmediateCharge revisa (PATCH) uma cobrança imediata
func (p *PixClient) ReviewImmediateCharge(ctx context.Context, txid string, review *PixChargeReview) (*PixCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}

	var charge PixCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPatch,
		Path:    PathPixCob + "/" + url.PathEscape(txid),
		Scope:   ScopeCobWrite,
		Message: "erro ao revisar cobrança imediata",
		Body:    review,
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// CancelImmediateCharge remove a cobrança (status REMOVIDA_PELO_USUARIO_RECEBEDOR)
func (p *PixClient) CancelImmediateCharge(ctx context.Context, txid string) (*PixCharge, error) {
	return p.ReviewImmediateCharge(ctx, txid, &PixChargeReview{Status: StatusRemovedByReceiver})
}

// ListImmediateCharges lista as cobranças imediatas de um período
func (p *PixClient) ListImmediateCharges(ctx context.Context, params ListParams) (*PixChargePage, error) {
	q, err := params.query()
	if err != nil {
		return nil, err
	}

	var page PixChargePage
	err = p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixCob,
		Query:   q,
		Scope:   ScopeCobRead,
		Message: "erro ao listar cobranças imediatas",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ==================== Cobrança com vencimento (cobv) ====================

// IncludeDueCharge cria uma cobrança com vencimento
func (p *PixClient) IncludeDueCharge(ctx context.Context, txid string, req *DueChargeRequest) (*DueCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}
	if err := required("calendario.dataDeVencimento", req.Calendario.DataDeVencimento); err != nil {
		return nil, err
	}

	var charge DueCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    PathPixCobv + "/" + url.PathEscape(txid),
		Scope:   ScopeCobvWrite,
		Message: "erro ao incluir cobrança com vencimento",
		Body:    req,
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// RetrieveDueCharge consulta uma cobrança com vencimento
func (p *PixClient) RetrieveDueCharge(ctx context.Context, txid string) (*DueCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}

	var charge DueCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixCobv + "/" + url.PathEscape(txid),
		Scope:   ScopeCobvRead,
		Message: "erro ao consultar cobrança com vencimento",
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// ReviewDueCharge revisa (PATCH) uma cobrança com vencimento
func (p *PixClient) ReviewDueCharge(ctx context.Context, txid string, review *DueChargeReview) (*DueCharge, error) {
	if err := required("txid", txid); err != nil {
		return nil, err
	}

	var charge DueCharge
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPatch,
		Path:    PathPixCobv + "/" + url.PathEscape(txid),
		Scope:   ScopeCobvWrite,
		Message: "erro ao revisar cobrança com vencimento",
		Body:    review,
	}, &charge)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// ==================== Pix recebidos ====================

// ListReceivedPix lista os PIX recebidos em um período
func (p *PixClient) ListReceivedPix(ctx context.Context, params ListParams) (*ReceivedPixPage, error) {
	q, err := params.query()
	if err != nil {
		return nil, err
	}

	var page ReceivedPixPage
	err = p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixReceived,
		Query:   q,
		Scope:   ScopePixRead,
		Message: "erro ao listar pix recebidos",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrieveReceivedPix consulta um PIX recebido pelo endToEndId
func (p *PixClient) RetrieveReceivedPix(ctx context.Context, e2eID string) (*ReceivedPix, error) {
	if err := required("e2eId", e2eID); err != nil {
		return nil, err
	}

	var pix ReceivedPix
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixReceived + "/" + url.PathEscape(e2eID),
		Scope:   ScopePixRead,
		Message: "erro ao consultar pix",
	}, &pix)
	if err != nil {
		return nil, err
	}
	return &pix, nil
}

// RequestDevolution solicita a devolução (total ou parcial) de um PIX recebido
func (p *PixClient) RequestDevolution(ctx context.Context, e2eID, devolutionID string, req *DevolutionRequest) (*Devolution, error) {
	if err := required("e2eId", e2eID); err != nil {
		return nil, err
	}
	if err := required("id", devolutionID); err != nil {
		return nil, err
	}
	if err := required("valor", req.Valor); err != nil {
		return nil, err
	}

	var dev Devolution
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    devolutionPath(e2eID, devolutionID),
		Scope:   ScopePixWrite,
		Message: "erro ao solicitar devolução",
		Body:    req,
	}, &dev)
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// RetrieveDevolution consulta uma devolução
func (p *PixClient) RetrieveDevolution(ctx context.Context, e2eID, devolutionID string) (*Devolution, error) {
	if err := required("e2eId", e2eID); err != nil {
		return nil, err
	}
	if err := required("id", devolutionID); err != nil {
		return nil, err
	}

	var dev Devolution
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    devolutionPath(e2eID, devolutionID),
		Scope:   ScopePixRead,
		Message: "erro ao consultar devolução",
	}, &dev)
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

func devolutionPath(e2eID, devolutionID string) string {
	return PathPixReceived + "/" + url.PathEscape(e2eID) + "/devolucao/" + url.PathEscape(devolutionID)
}

// ==================== Locations ====================

// CreateLocation cria um location para cob ou cobv
func (p *PixClient) CreateLocation(ctx context.Context, chargeType string) (*Location, error) {
	if chargeType != ChargeTypeCob && chargeType != ChargeTypeCobv {
		return nil, NewValidationError("tipoCob", "deve ser cob ou cobv")
	}

	var loc Location
	err := p.c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathPixLocation,
		Scope:   ScopeLocationWrite,
		Message: "erro ao criar location",
		Body:    map[string]string{"tipoCob": chargeType},
	}, &loc)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// RetrieveLocation consulta um location pelo id
func (p *PixClient) RetrieveLocation(ctx context.Context, id int) (*Location, error) {
	var loc Location
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixLocation + "/" + strconv.Itoa(id),
		Scope:   ScopeLocationRead,
		Message: "erro ao consultar location",
	}, &loc)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// UnlinkLocation desvincula a cobrança associada ao location
func (p *PixClient) UnlinkLocation(ctx context.Context, id int) (*Location, error) {
	var loc Location
	err := p.c.Do(ctx, Request{
		Method:  http.MethodDelete,
		Path:    PathPixLocation + "/" + strconv.Itoa(id) + "/txid",
		Scope:   ScopeLocationWrite,
		Message: "erro ao desvincular location",
	}, &loc)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// ==================== Webhooks ====================

// IncludeWebhook configura o webhook de uma chave PIX
func (p *PixClient) IncludeWebhook(ctx context.Context, key, webhookURL string) error {
	if err := required("chave", key); err != nil {
		return err
	}
	if err := required("webhookUrl", webhookURL); err != nil {
		return err
	}

	return p.c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    PathPixWebhook + "/" + url.PathEscape(key),
		Scope:   ScopeWebhookWrite,
		Message: "erro ao registrar webhook",
		Body:    map[string]string{"webhookUrl": webhookURL},
	}, nil)
}

// RetrieveWebhook consulta o webhook de uma chave PIX
func (p *PixClient) RetrieveWebhook(ctx context.Context, key string) (*PixWebhook, error) {
	if err := required("chave", key); err != nil {
		return nil, err
	}

	var hook PixWebhook
	err := p.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    PathPixWebhook + "/" + url.PathEscape(key),
		Scope:   ScopeWebhookRead,
		Message: "erro ao consultar webhook",
	}, &hook)
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteWebhook remove o webhook de uma chave PIX
func (p *PixClient) DeleteWebhook(ctx context.Context, key string) error {
	if err := required("chave", key); err != nil {
		return err
	}

	return p.c.Do(ctx, Request{
		Method:  http.MethodDelete,
		Path:    PathPixWebhook + "/" + url.PathEscape(key),
		Scope:   ScopeWebhookWrite,
		Message: "erro ao remover webhook",
	}, nil)
}

// RetrieveCallbacks consulta os disparos do webhook Pix em um período
func (p *PixClient) RetrieveCallbacks(ctx context.Context, start, end time.Time, txid string, page, itemsPerPage int) (*CallbackPage, error) {
	return retrieveCallbacks(ctx, p.c, PathPixWebhook+"/callbacks", ScopeWebhookRead, start, end, txid, "txid", page, itemsPerPage)
}

// retrieveCallbacks é compartilhado pelos webhooks de Pix, cobrança e banking
func retrieveCallbacks(ctx context.Context, c *Client, path, scope string, start, end time.Time, id, idParam string, page, itemsPerPage int) (*CallbackPage, error) {
	if start.IsZero() || end.IsZero() {
		return nil, NewValidationError("dataHoraInicio", "período é obrigatório")
	}

	q := url.Values{}
	q.Set("dataHoraInicio", start.Format("2006-01-02T15:04"))
	q.Set("dataHoraFim", end.Format("2006-01-02T15:04"))
	if id != "" {
		q.Set(idParam, id)
	}
	if page > 0 {
		q.Set("pagina", strconv.Itoa(page))
	}
	if itemsPerPage > 0 {
		q.Set("tamanhoPagina", strconv.Itoa(itemsPerPage))
	}

	var result CallbackPage
	err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    path,
		Query:   q,
		Scope:   scope,
		Message: "erro ao consultar callbacks",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
