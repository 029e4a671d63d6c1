// Package main é o ponto de entrada do receptor de webhooks do Inter
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
	"github.com/magnani/inter-sdk-go/internal/config"
	"github.com/magnani/inter-sdk-go/internal/handlers"
	"github.com/magnani/inter-sdk-go/internal/logger"
	"github.com/magnani/inter-sdk-go/internal/ports"
)

func main() {
	// Carrega configurações
	var (
		cfg *config.Config
		err error
	)
	if path := os.Getenv("INTER_CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Must(false).Fatal("Erro ao carregar configurações", zap.Error(err))
	}

	log := logger.Must(cfg.IsDevelopment() || cfg.Inter.Debug)
	defer log.Sync()

	log.Info("Iniciando receptor de webhooks",
		zap.String("env", cfg.Env),
		zap.String("inter_environment", string(cfg.Inter.Environment)),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := inter.NewMetrics(reg)

	// O certificado é obrigatório na configuração; o health check acompanha
	// sua expiração mesmo que o cliente não possa ser criado
	certs := inter.NewCertificateManager(inter.CertificateOptionsFor(cfg.Inter), log, nil)
	switch expiresAt, soon, expired := certs.Status(); {
	case expired:
		log.Error("Certificado expirado", zap.Time("expires_at", expiresAt))
	case soon:
		log.Warn("Certificado próximo da expiração", zap.Time("expires_at", expiresAt))
	}

	// O receptor sobe mesmo sem cliente (certificado expirado, senha errada);
	// só o cadastro automático do webhook depende dele
	client, err := inter.NewClient(cfg.Inter, inter.WithLogger(log), inter.WithMetrics(metrics))
	if err != nil {
		log.Warn("Cliente Inter não inicializado", zap.Error(err))
	} else if cfg.Webhook.PublicURL != "" && cfg.Webhook.PixKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := inter.NewGateway(client, cfg.Webhook.PixKey).RegisterWebhook(ctx, "", cfg.Webhook.PublicURL)
		cancel()
		if err != nil {
			log.Error("Erro ao cadastrar webhook Pix", zap.Error(err))
		} else {
			log.Info("Webhook Pix cadastrado",
				zap.String("chave", cfg.Webhook.PixKey),
				zap.String("url", cfg.Webhook.PublicURL),
			)
		}
	}

	parser := inter.NewWebhookParser(cfg.Webhook.Secret, log)
	webhookHandler := handlers.NewWebhookHandler(parser, log)
	webhookHandler.RegisterHandler(ports.EventPixReceived, handlers.LogEvent(log))
	webhookHandler.RegisterHandler(ports.EventBilling, handlers.LogEvent(log))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(cfg.Webhook.Path, webhookHandler, certs.Status, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Servidor rodando",
			zap.String("addr", server.Addr),
			zap.String("webhook_path", cfg.Webhook.Path),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Erro ao encerrar servidor", zap.Error(err))
	}
	log.Info("Servidor encerrado")
}
