// Package config gerencia as configurações do SDK e dos binários,
// carregando variáveis de ambiente (e do arquivo .env) ou um arquivo YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Valores padrão usados quando a configuração não informa nada
const (
	DefaultRateLimitDelay         = 60 * time.Second
	DefaultRateLimitMaxRetries    = 5
	DefaultTimeout                = 30 * time.Second
	DefaultConnectTimeout         = 10 * time.Second
	DefaultCertificateWarningDays = 30
)

// Config armazena todas as configurações da aplicação
type Config struct {
	// Servidor de webhooks
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	// Banco Inter
	Inter InterConfig `yaml:"inter"`

	// Webhook
	Webhook WebhookConfig `yaml:"webhook"`
}

// InterConfig armazena as configurações de acesso à API de parceiros do Inter.
// Environment, Account, Debug e RateLimitControl podem ser alterados pela
// aplicação entre chamadas (ver os setters de inter.Client).
type InterConfig struct {
	ClientID            string      `yaml:"client_id"`
	ClientSecret        string      `yaml:"client_secret"`
	CertificatePath     string      `yaml:"certificate_path"`
	CertificatePassword string      `yaml:"certificate_password"`
	Environment         Environment `yaml:"environment"`

	// BaseURL sobrescreve a URL derivada de Environment (homologação local, testes)
	BaseURL string `yaml:"base_url"`

	// Account é enviada no header x-conta-corrente quando informada
	Account string `yaml:"account"`
	Debug   bool   `yaml:"debug"`

	// RateLimitControl faz o SDK aguardar e repetir a chamada ao receber 429
	RateLimitControl bool          `yaml:"rate_limit_control"`
	RateLimitDelay   time.Duration `yaml:"rate_limit_delay"`
	// RateLimitMaxRetries limita as repetições: nil usa o padrão, 0 desiste
	// no primeiro 429 e negativo repete sem limite
	RateLimitMaxRetries *int `yaml:"rate_limit_max_retries"`

	// RequestsPerSecond ativa um limitador local de requisições (0 = desligado)
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	Timeout        time.Duration `yaml:"timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// CertificateWarningDays define a janela de aviso de expiração do certificado
	CertificateWarningDays int `yaml:"certificate_warning_days"`

	// SkipHostnameVerification sobrescreve o padrão do ambiente (nil = padrão)
	SkipHostnameVerification *bool `yaml:"skip_hostname_verification"`

	// TokenCache seleciona onde os tokens ficam: "memory" (padrão) ou "redis"
	TokenCache string `yaml:"token_cache"`
	RedisURL   string `yaml:"redis_url"`
}

// WebhookConfig armazena configurações do receptor de webhooks
type WebhookConfig struct {
	Path   string `yaml:"path"`
	Secret string `yaml:"secret"`

	// PublicURL e PixKey, quando informados, fazem o receptor cadastrar
	// o próprio endereço como webhook Pix ao iniciar
	PublicURL string `yaml:"public_url"`
	PixKey    string `yaml:"pix_key"`
}

// Load carrega as configurações do arquivo .env e variáveis de ambiente
// O arquivo .env é opcional - variáveis de ambiente têm prioridade
func Load() (*Config, error) {
	// Tenta carregar .env (ignora erro se não existir)
	_ = godotenv.Load()

	cfg := &Config{}
	applyEnv(cfg)

	return finish(cfg)
}

// LoadFile carrega as configurações de um arquivo YAML.
// Variáveis de ambiente, quando definidas, sobrescrevem o arquivo.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("erro ao decodificar arquivo de configuração: %w", err)
	}

	applyEnv(cfg)

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := ResolveSecrets(&cfg.Inter); err != nil {
		return nil, err
	}

	cfg.Inter.ApplyDefaults()
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Webhook.Path == "" {
		cfg.Webhook.Path = "/webhooks/inter"
	}

	// Validação básica
	if err := cfg.Inter.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv sobrescreve os campos com as variáveis de ambiente definidas
func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)

	in := &cfg.Inter
	in.ClientID = getEnv("INTER_CLIENT_ID", in.ClientID)
	in.ClientSecret = getEnv("INTER_CLIENT_SECRET", in.ClientSecret)
	in.CertificatePath = getEnv("INTER_CERTIFICATE_PATH", in.CertificatePath)
	in.CertificatePassword = getEnv("INTER_CERTIFICATE_PASSWORD", in.CertificatePassword)
	in.Environment = Environment(getEnv("INTER_ENVIRONMENT", string(in.Environment)))
	in.BaseURL = getEnv("INTER_BASE_URL", in.BaseURL)
	in.Account = getEnv("INTER_ACCOUNT", in.Account)
	in.Debug = getEnvBool("INTER_DEBUG", in.Debug)
	in.RateLimitControl = getEnvBool("INTER_RATE_LIMIT_CONTROL", in.RateLimitControl)
	in.RateLimitDelay = getDurationEnv("INTER_RATE_LIMIT_DELAY", in.RateLimitDelay)
	in.RequestsPerSecond = getFloatEnv("INTER_REQUESTS_PER_SECOND", in.RequestsPerSecond)
	in.Timeout = getDurationEnv("INTER_TIMEOUT", in.Timeout)
	in.ConnectTimeout = getDurationEnv("INTER_CONNECT_TIMEOUT", in.ConnectTimeout)
	in.CertificateWarningDays = getIntEnv("INTER_CERTIFICATE_WARNING_DAYS", in.CertificateWarningDays)
	in.TokenCache = getEnv("INTER_TOKEN_CACHE", in.TokenCache)
	in.RedisURL = getEnv("INTER_REDIS_URL", in.RedisURL)
	if v := os.Getenv("INTER_RATE_LIMIT_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			in.RateLimitMaxRetries = &parsed
		}
	}
	if v := os.Getenv("INTER_SKIP_HOSTNAME_VERIFICATION"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			in.SkipHostnameVerification = &parsed
		}
	}

	cfg.Webhook.Path = getEnv("WEBHOOK_PATH", cfg.Webhook.Path)
	cfg.Webhook.Secret = getEnv("WEBHOOK_SECRET", cfg.Webhook.Secret)
	cfg.Webhook.PublicURL = getEnv("WEBHOOK_PUBLIC_URL", cfg.Webhook.PublicURL)
	cfg.Webhook.PixKey = getEnv("WEBHOOK_PIX_KEY", cfg.Webhook.PixKey)
}

// ApplyDefaults preenche os campos opcionais não informados
func (c *InterConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvironmentSandbox
	}
	c.Environment = Environment(strings.ToLower(string(c.Environment)))
	if c.RateLimitDelay == 0 {
		c.RateLimitDelay = DefaultRateLimitDelay
	}
	if c.RateLimitMaxRetries == nil {
		retries := DefaultRateLimitMaxRetries
		c.RateLimitMaxRetries = &retries
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.CertificateWarningDays == 0 {
		c.CertificateWarningDays = DefaultCertificateWarningDays
	}
	if c.TokenCache == "" {
		c.TokenCache = TokenCacheMemory
	}
}

// Validate verifica se as configurações obrigatórias estão presentes
func (c *InterConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("INTER_CLIENT_ID é obrigatório")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("INTER_CLIENT_SECRET é obrigatório")
	}
	if c.CertificatePath == "" {
		return fmt.Errorf("INTER_CERTIFICATE_PATH é obrigatório")
	}
	if _, err := ParseEnvironment(string(c.Environment)); err != nil && c.BaseURL == "" {
		return err
	}
	if c.Timeout < 0 || c.ConnectTimeout < 0 || c.RateLimitDelay < 0 {
		return fmt.Errorf("timeouts e atrasos não podem ser negativos")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("INTER_REQUESTS_PER_SECOND não pode ser negativo")
	}
	switch c.TokenCache {
	case TokenCacheMemory:
	case TokenCacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("INTER_REDIS_URL é obrigatório com token_cache=redis")
		}
	default:
		return fmt.Errorf("token_cache inválido: %q", c.TokenCache)
	}
	return nil
}

// URL retorna a URL base efetiva da API
func (c *InterConfig) URL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return c.Environment.BaseURL()
}

// HostnameVerificationSkipped informa se a verificação de hostname do
// servidor deve ser desligada para esta configuração
func (c *InterConfig) HostnameVerificationSkipped() bool {
	if c.SkipHostnameVerification != nil {
		return *c.SkipHostnameVerification
	}
	return c.Environment.SkipsHostnameVerification()
}

// MaxRateLimitRetries retorna o limite efetivo de repetições após 429
func (c *InterConfig) MaxRateLimitRetries() int {
	if c.RateLimitMaxRetries == nil {
		return DefaultRateLimitMaxRetries
	}
	return *c.RateLimitMaxRetries
}

// CertificateWarningWindow retorna a janela de aviso como duração
func (c *InterConfig) CertificateWarningWindow() time.Duration {
	return time.Duration(c.CertificateWarningDays) * 24 * time.Hour
}

// IsDevelopment retorna true se estiver em ambiente de desenvolvimento
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction retorna true se estiver em ambiente de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv obtém uma variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool obtém uma variável de ambiente como bool
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDurationEnv aceita "90s", "1m" ou um número inteiro de segundos
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
