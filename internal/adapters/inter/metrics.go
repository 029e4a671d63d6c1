package inter

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os coletores Prometheus do SDK. Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	tokenFetches     *prometheus.CounterVec
	tokenCacheHits   prometheus.Counter
	rateLimitRetries prometheus.Counter
	errors           *prometheus.CounterVec
}

// NewMetrics registra os coletores no Registerer informado
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inter_sdk_requests_total",
				Help: "Total de requisições à API do Inter por método e status",
			},
			[]string{"method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inter_sdk_request_duration_seconds",
				Help:    "Duração das requisições à API do Inter",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		tokenFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inter_sdk_token_fetches_total",
				Help: "Total de chamadas ao endpoint de token por resultado",
			},
			[]string{"result"},
		),
		tokenCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "inter_sdk_token_cache_hits_total",
			Help: "Total de tokens servidos do cache",
		}),
		rateLimitRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "inter_sdk_rate_limit_retries_total",
			Help: "Total de repetições após HTTP 429",
		}),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inter_sdk_errors_total",
				Help: "Total de erros retornados pelo SDK por tipo",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) tokenFetched(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	m.tokenFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) tokenCacheHit() {
	if m == nil {
		return
	}
	m.tokenCacheHits.Inc()
}

func (m *Metrics) rateLimitRetry() {
	if m == nil {
		return
	}
	m.rateLimitRetries.Inc()
}

func (m *Metrics) errorRaised(kind ErrorKind) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(string(kind)).Inc()
}
