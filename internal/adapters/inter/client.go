package inter

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/magnani/inter-sdk-go/internal/config"
)

// Client executa chamadas autenticadas (OAuth2 + mTLS) na API de parceiros do Inter.
// É seguro para uso concorrente.
type Client struct {
	certs   *CertificateManager
	tokens  *TokenManager
	logger  *zap.Logger
	metrics *Metrics
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error

	mu  sync.RWMutex
	cfg config.InterConfig

	// Diagnóstico: última URL e último corpo enviados (a última escrita vence)
	diagMu      sync.Mutex
	lastURL     string
	lastRequest string
}

// Request descreve uma chamada à API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Scope  string

	// Message é o contexto legível usado nos erros (ex: "erro ao consultar saldo")
	Message string

	// Body é serializado como JSON; []byte e json.RawMessage são enviados como estão
	Body any

	Headers map[string]string
}

// Diagnostics contém a última requisição enviada pelo cliente
type Diagnostics struct {
	URL  string
	Body string
}

// Option configura o Client
type Option func(*clientOptions)

type clientOptions struct {
	logger  *zap.Logger
	metrics *Metrics
	store   TokenStore
	rootCAs *x509.CertPool
	now     func() time.Time
}

// WithLogger define o logger usado pelo cliente
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics ativa as métricas Prometheus
func WithMetrics(metrics *Metrics) Option {
	return func(o *clientOptions) { o.metrics = metrics }
}

// WithTokenStore substitui o cache de tokens
func WithTokenStore(store TokenStore) Option {
	return func(o *clientOptions) { o.store = store }
}

// WithRootCAs define as autoridades usadas para validar o servidor
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *clientOptions) { o.rootCAs = pool }
}

// WithClock substitui o relógio (validade de token e de certificado)
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.now = now }
}

// NewClient cria um novo cliente Inter com mTLS configurado
func NewClient(cfg config.InterConfig, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	o := &clientOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if o.store == nil {
		switch cfg.TokenCache {
		case config.TokenCacheRedis:
			store, err := NewRedisTokenStore(context.Background(), cfg.RedisURL, o.logger)
			if err != nil {
				return nil, err
			}
			o.store = store
		default:
			o.store = NewMemoryTokenStore()
		}
	}

	certOpts := CertificateOptionsFor(cfg)
	certOpts.RootCAs = o.rootCAs
	certs := NewCertificateManager(certOpts, o.logger, o.now)

	// Carrega o certificado já na criação para falhar cedo
	if _, err := certs.Certificate(); err != nil {
		return nil, err
	}

	c := &Client{
		certs:   certs,
		tokens:  NewTokenManager(o.store, certs.HTTPClient, o.logger, o.metrics, o.now),
		logger:  o.logger,
		metrics: o.metrics,
		sleep:   sleepContext,
		cfg:     cfg,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c, nil
}

// Config retorna uma cópia da configuração atual
func (c *Client) Config() config.InterConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// SetEnvironment troca o ambiente usado nas próximas chamadas.
// Não tem efeito sobre a URL se BaseURL estiver definida.
func (c *Client) SetEnvironment(env config.Environment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Environment = env
}

// SetAccount define a conta corrente enviada em x-conta-corrente ("" remove o header)
func (c *Client) SetAccount(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Account = account
}

// SetDebug liga ou desliga o log do corpo das respostas
func (c *Client) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Debug = debug
}

// SetRateLimitControl liga ou desliga a repetição automática após 429
func (c *Client) SetRateLimitControl(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.RateLimitControl = enabled
}

// LastRequest retorna a última URL e o último corpo enviados
func (c *Client) LastRequest() Diagnostics {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()
	return Diagnostics{URL: c.lastURL, Body: c.lastRequest}
}

// Token retorna um token válido para o escopo (útil para chamadas fora do SDK)
func (c *Client) Token(ctx context.Context, scope string) (string, error) {
	token, err := c.tokens.Token(ctx, c.Config(), scope)
	if err != nil {
		return "", c.raise(err)
	}
	return token, nil
}

// CertificateStatus informa a expiração mais próxima do certificado, se ela
// cai na janela de aviso e se o certificado já expirou
func (c *Client) CertificateStatus() (expiresAt time.Time, expiringSoon, expired bool) {
	return c.certs.Status()
}

// Do executa a requisição e decodifica o corpo da resposta em out (se não for nil)
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := c.Execute(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.raise(newError(KindSdk, "erro ao decodificar resposta", err))
	}
	return nil
}

// Execute envia a requisição e retorna o corpo cru da resposta 2xx (nil se vazio).
// Com controle de rate limit ligado, um 429 faz o cliente aguardar
// RateLimitDelay e repetir a mesma requisição, até RateLimitMaxRetries vezes
// (0 = nenhuma repetição, negativo = sem limite).
func (c *Client) Execute(ctx context.Context, req Request) ([]byte, error) {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, c.raise(newError(KindSdk, "erro ao serializar body", err))
	}

	for attempt := 0; ; attempt++ {
		cfg := c.Config()

		body, retry, err := c.executeOnce(ctx, cfg, req, payload)
		if !retry {
			if err != nil {
				return nil, c.raise(err)
			}
			return body, nil
		}

		if limit := cfg.MaxRateLimitRetries(); limit >= 0 && attempt >= limit {
			return nil, c.raise(&SdkError{
				Kind:       KindRateLimitExceeded,
				Message:    fmt.Sprintf("%s: rate limit excedido após %d tentativas", req.Message, attempt+1),
				StatusCode: http.StatusTooManyRequests,
			})
		}

		c.metrics.rateLimitRetry()
		c.logger.Warn("Rate limit atingido, aguardando para repetir",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Duration("delay", cfg.RateLimitDelay),
			zap.Int("attempt", attempt+1),
		)

		if err := c.sleep(ctx, cfg.RateLimitDelay); err != nil {
			return nil, c.raise(newError(KindSdk, "chamada cancelada durante espera de rate limit", err))
		}
	}
}

// executeOnce faz uma tentativa. retry indica 429 com controle de rate limit ligado.
func (c *Client) executeOnce(ctx context.Context, cfg config.InterConfig, req Request, payload []byte) ([]byte, bool, error) {
	token, err := c.tokens.Token(ctx, cfg, req.Scope)
	if err != nil {
		return nil, false, err
	}

	httpClient, err := c.certs.HTTPClient(cfg.HostnameVerificationSkipped())
	if err != nil {
		return nil, false, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, newError(KindSdk, "chamada cancelada aguardando limitador local", err)
		}
	}

	target := cfg.URL() + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reqBody)
	if err != nil {
		return nil, false, newError(KindSdk, "erro ao criar requisição", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderSDK, sdkName)
	httpReq.Header.Set(HeaderSDKVersion, Version)
	if cfg.Account != "" {
		httpReq.Header.Set(HeaderAccount, cfg.Account)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.recordRequest(target, payload)

	started := time.Now()
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, false, newError(KindSdk, fmt.Sprintf("%s: erro na requisição HTTP", req.Message), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.observeRequest(req.Method, resp.StatusCode, time.Since(started))
	if err != nil {
		return nil, false, newError(KindSdk, fmt.Sprintf("%s: erro ao ler resposta", req.Message), err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, false, newHTTPError(req.Message, resp.StatusCode, resp.Status, respBody)

	case resp.StatusCode == http.StatusTooManyRequests && cfg.RateLimitControl:
		return nil, true, nil

	case resp.StatusCode >= http.StatusBadRequest:
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.Invalidate(ctx, cfg, req.Scope); err != nil {
				c.logger.Warn("Falha ao invalidar token", zap.Error(err))
			}
		}
		return nil, false, newHTTPError(req.Message, resp.StatusCode, resp.Status, respBody)
	}

	if cfg.Debug {
		c.logger.Debug("Resposta da API",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
	}

	if len(respBody) == 0 {
		return nil, false, nil
	}
	return respBody, false, nil
}

// raise registra o erro (título, detalhe e violações) antes de devolvê-lo
func (c *Client) raise(err error) error {
	sdkErr, ok := AsSdkError(err)
	if !ok {
		sdkErr = newError(KindSdk, "erro inesperado", err)
	}

	c.metrics.errorRaised(sdkErr.Kind)

	fields := []zap.Field{
		zap.String("kind", string(sdkErr.Kind)),
		zap.String("message", sdkErr.Message),
	}
	if sdkErr.StatusCode != 0 {
		fields = append(fields, zap.Int("status", sdkErr.StatusCode))
	}
	if !sdkErr.ExpiresAt.IsZero() {
		fields = append(fields, zap.Time("expires_at", sdkErr.ExpiresAt))
	}
	if sdkErr.Err != nil {
		fields = append(fields, zap.Error(sdkErr.Err))
	}
	if env := sdkErr.Envelope; env != nil {
		fields = append(fields,
			zap.String("title", env.Title),
			zap.String("detail", env.Detail),
			zap.String("correlation_id", env.CorrelationID),
		)
	}
	c.logger.Error("Erro na chamada à API do Inter", fields...)

	if sdkErr.Envelope != nil {
		for _, v := range sdkErr.Envelope.Violations {
			c.logger.Error("Violação",
				zap.String("razao", v.Reason),
				zap.String("propriedade", v.Property),
				zap.String("valor", string(v.Value)),
			)
		}
	}

	return sdkErr
}

func (c *Client) recordRequest(target string, payload []byte) {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()
	c.lastURL = target
	c.lastRequest = string(payload)
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return json.Marshal(body)
}

// sleepContext dorme pela duração ou até o contexto ser cancelado
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
