package inter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/magnani/inter-sdk-go/internal/config"
)

// TransportFunc entrega o cliente HTTP com mTLS usado nas chamadas
type TransportFunc func(skipHostname bool) (*http.Client, error)

// TokenManager obtém e cacheia tokens OAuth2 (client credentials) por
// clientId:clientSecret:scope. Chamadas concorrentes para a mesma chave podem
// buscar o token em duplicidade; a última gravação vence.
type TokenManager struct {
	store     TokenStore
	transport TransportFunc
	logger    *zap.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewTokenManager cria um novo gerenciador de tokens
func NewTokenManager(store TokenStore, transport TransportFunc, logger *zap.Logger, metrics *Metrics, now func() time.Time) *TokenManager {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &TokenManager{
		store:     store,
		transport: transport,
		logger:    logger,
		metrics:   metrics,
		now:       now,
	}
}

// Token retorna um token válido para o escopo, buscando um novo se necessário
func (tm *TokenManager) Token(ctx context.Context, cfg config.InterConfig, scope string) (string, error) {
	key := TokenCacheKey(cfg.ClientID, cfg.ClientSecret, scope)

	entry, found, err := tm.store.Get(ctx, key)
	if err != nil {
		// Falha no cache não impede a chamada; segue buscando um token novo
		tm.logger.Warn("Falha ao consultar cache de token", zap.String("scope", scope), zap.Error(err))
	}
	if found && entry.Valid(tm.now()) {
		tm.metrics.tokenCacheHit()
		return entry.AccessToken, nil
	}

	entry, err = tm.fetch(ctx, cfg, scope)
	tm.metrics.tokenFetched(err == nil)
	if err != nil {
		return "", err
	}

	if err := tm.store.Set(ctx, key, entry); err != nil {
		tm.logger.Warn("Falha ao gravar token no cache", zap.String("scope", scope), zap.Error(err))
	}

	tm.logger.Debug("Token obtido",
		zap.String("scope", scope),
		zap.Int64("expires_in", entry.ExpiresIn),
	)

	return entry.AccessToken, nil
}

// Invalidate força a renovação do token na próxima chamada.
// Usado quando a API responde 401.
func (tm *TokenManager) Invalidate(ctx context.Context, cfg config.InterConfig, scope string) error {
	return tm.store.Delete(ctx, TokenCacheKey(cfg.ClientID, cfg.ClientSecret, scope))
}

// fetch chama o endpoint de token pelo mesmo transporte mTLS das demais chamadas
func (tm *TokenManager) fetch(ctx context.Context, cfg config.InterConfig, scope string) (TokenEntry, error) {
	httpClient, err := tm.transport(cfg.HostnameVerificationSkipped())
	if err != nil {
		return TokenEntry{}, err
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.URL() + PathToken,
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// O SDK carimba a criação no recebimento em vez de confiar no servidor
	createdAt := tm.now()
	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return TokenEntry{}, newHTTPError(
				"erro ao obter token",
				retrieveErr.Response.StatusCode,
				retrieveErr.Response.Status,
				retrieveErr.Body,
			)
		}
		return TokenEntry{}, newError(KindSdk, "erro ao obter token", err)
	}

	// expires_in cru do servidor; Expiry só como último recurso
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		if raw, ok := tok.Extra("expires_in").(float64); ok {
			expiresIn = int64(raw)
		}
	}
	if expiresIn == 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}

	return TokenEntry{
		AccessToken: tok.AccessToken,
		CreatedAt:   createdAt.Unix(),
		ExpiresIn:   expiresIn,
	}, nil
}
