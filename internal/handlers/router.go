package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CertificateStatus informa a expiração mais próxima do certificado em uso
type CertificateStatus func() (expiresAt time.Time, expiringSoon, expired bool)

// HealthCheck endpoint para verificar se o servidor está funcionando.
// Com o certificado expirado toda chamada ao Inter falha, então responde 503.
func HealthCheck(cert CertificateStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		resp := map[string]any{
			"status":  "healthy",
			"service": "inter-webhooks",
		}
		if cert != nil {
			expiresAt, soon, expired := cert()
			if !expiresAt.IsZero() {
				resp["certificate_expires_at"] = expiresAt.Format(time.RFC3339)
			}
			resp["certificate_expiring_soon"] = soon
			resp["certificate_expired"] = expired
			if expired {
				status = http.StatusServiceUnavailable
				resp["status"] = "unhealthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}

// NewRouter monta as rotas de health, webhook e métricas
func NewRouter(webhookPath string, webhook http.Handler, cert CertificateStatus, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", HealthCheck(cert))
	mux.Handle(webhookPath, webhook)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}
