package inter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifica os erros do SDK
type ErrorKind string

const (
	KindCertificateNotFound ErrorKind = "certificate_not_found"
	KindCertificateExpired  ErrorKind = "certificate_expired"
	KindCertificate         ErrorKind = "certificate_error"
	KindClient              ErrorKind = "client_error"
	KindServer              ErrorKind = "server_error"
	KindRateLimitExceeded   ErrorKind = "rate_limit_exceeded"
	KindSdk                 ErrorKind = "sdk_error"
)

// Erros sentinela, um por tipo; errors.Is compara apenas o Kind
var (
	// ErrCertificateNotFound indica que o arquivo do certificado não existe
	ErrCertificateNotFound = &SdkError{Kind: KindCertificateNotFound, Message: "inter: certificado não encontrado"}

	// ErrCertificateExpired indica que algum certificado do arquivo já expirou
	ErrCertificateExpired = &SdkError{Kind: KindCertificateExpired, Message: "inter: certificado expirado"}

	// ErrCertificate indica falha genérica ao carregar o certificado ou montar o TLS
	ErrCertificate = &SdkError{Kind: KindCertificate, Message: "inter: erro de certificado"}

	// ErrClient indica resposta 4xx
	ErrClient = &SdkError{Kind: KindClient, Message: "inter: erro do cliente"}

	// ErrServer indica resposta 5xx
	ErrServer = &SdkError{Kind: KindServer, Message: "inter: erro do servidor"}

	// ErrRateLimitExceeded indica que as repetições após 429 se esgotaram
	ErrRateLimitExceeded = &SdkError{Kind: KindRateLimitExceeded, Message: "inter: rate limit excedido"}

	// ErrSdk indica erro genérico (IO, serialização, cancelamento)
	ErrSdk = &SdkError{Kind: KindSdk, Message: "inter: erro do sdk"}
)

// Scalar guarda como texto qualquer valor JSON (número, booleano, string).
// Objetos e listas ficam com o JSON compactado.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*s = Scalar(buf.String())
	}
	return nil
}

// NumericCode aceita o status como número ou string numérica; outros valores viram 0
type NumericCode int

func (c *NumericCode) UnmarshalJSON(data []byte) error {
	var s Scalar
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil {
		*c = 0
		return nil
	}
	*c = NumericCode(n)
	return nil
}

// Violation representa uma violação de campo retornada pela API
type Violation struct {
	Reason   string `json:"razao,omitempty"`
	Property string `json:"propriedade,omitempty"`
	Value    Scalar `json:"valor,omitempty"`
}

// ErrorEnvelope é o corpo estruturado de erro da API do Inter
type ErrorEnvelope struct {
	Type          string      `json:"type,omitempty"`
	Title         string      `json:"title,omitempty"`
	Status        NumericCode `json:"status,omitempty"`
	Detail        string      `json:"detail,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
	Violations    []Violation `json:"violacoes,omitempty"`
}

// parseEnvelope decodifica o corpo de uma resposta de erro.
// Corpo vazio ou JSON inválido viram um envelope só com a linha de status no título.
func parseEnvelope(statusLine string, body []byte) *ErrorEnvelope {
	if len(strings.TrimSpace(string(body))) == 0 {
		return &ErrorEnvelope{Title: statusLine}
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &ErrorEnvelope{Title: statusLine}
	}
	return &env
}

// SdkError é o erro retornado por todas as operações do SDK
type SdkError struct {
	Kind     ErrorKind
	Message  string
	Envelope *ErrorEnvelope

	// StatusCode é o status HTTP que originou o erro (0 se não houve resposta)
	StatusCode int

	// ExpiresAt é a data de expiração do certificado (KindCertificateExpired)
	ExpiresAt time.Time

	Err error
}

// Error implementa a interface error
func (e *SdkError) Error() string {
	msg := e.Message
	if e.Envelope != nil && e.Envelope.Title != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Envelope.Title)
		if e.Envelope.Detail != "" {
			msg = fmt.Sprintf("%s - %s", msg, e.Envelope.Detail)
		}
	}
	if !e.ExpiresAt.IsZero() {
		msg = fmt.Sprintf("%s (expira em %s)", msg, e.ExpiresAt.Format(time.RFC3339))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap retorna a causa original
func (e *SdkError) Unwrap() error {
	return e.Err
}

// Is compara pelo Kind, permitindo errors.Is(err, ErrClient)
func (e *SdkError) Is(target error) bool {
	t, ok := target.(*SdkError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, message string, cause error) *SdkError {
	return &SdkError{Kind: kind, Message: message, Err: cause}
}

// newHTTPError classifica uma resposta não-2xx em ClientError ou ServerError
func newHTTPError(message string, status int, statusLine string, body []byte) *SdkError {
	kind := KindClient
	if status >= http.StatusInternalServerError {
		kind = KindServer
	}
	return &SdkError{
		Kind:       kind,
		Message:    message,
		Envelope:   parseEnvelope(statusLine, body),
		StatusCode: status,
	}
}

// AsSdkError extrai o *SdkError de uma cadeia de erros
func AsSdkError(err error) (*SdkError, bool) {
	var sdkErr *SdkError
	if errors.As(err, &sdkErr) {
		return sdkErr, true
	}
	return nil, false
}

// IsNotFound retorna true se o erro indica que o recurso não foi encontrado
func IsNotFound(err error) bool {
	sdkErr, ok := AsSdkError(err)
	return ok && sdkErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized retorna true se o erro indica falha de autenticação
func IsUnauthorized(err error) bool {
	sdkErr, ok := AsSdkError(err)
	return ok && (sdkErr.StatusCode == http.StatusUnauthorized || sdkErr.StatusCode == http.StatusForbidden)
}

// IsClientError retorna true para respostas 4xx
func IsClientError(err error) bool {
	return errors.Is(err, ErrClient)
}

// IsServerError retorna true se o erro é do servidor (5xx)
func IsServerError(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsRateLimited retorna true para 429 sem controle de rate limit ou repetições esgotadas
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimitExceeded) {
		return true
	}
	sdkErr, ok := AsSdkError(err)
	return ok && sdkErr.StatusCode == http.StatusTooManyRequests
}

// IsCertificateError retorna true para qualquer problema de certificado
func IsCertificateError(err error) bool {
	return errors.Is(err, ErrCertificate) || errors.Is(err, ErrCertificateNotFound) || errors.Is(err, ErrCertificateExpired)
}

// ValidationError representa um parâmetro inválido detectado antes da chamada
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("erro de validação no campo '%s': %s", e.Field, e.Message)
}

// NewValidationError cria um novo ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// required retorna um ValidationError se value estiver vazio
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "é obrigatório")
	}
	return nil
}
