package config

import (
	"fmt"
	"strings"
)

// Environment seleciona o ambiente da API de parceiros do Inter
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentUAT        Environment = "uat"
	EnvironmentSandbox    Environment = "sandbox"
)

const (
	// Produção
	URLProduction = "https://cdpj.partners.bancointer.com.br"

	// Homologação
	URLUAT = "https://cdpj.partners.uatinter.co"

	// Sandbox
	URLSandbox = "https://cdpj-sandbox.partners.uatinter.co"
)

// Token cache backends
const (
	TokenCacheMemory = "memory"
	TokenCacheRedis  = "redis"
)

// ParseEnvironment converte o nome de um ambiente, aceitando os apelidos usuais
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "producao", "prod":
		return EnvironmentProduction, nil
	case "uat", "homologacao":
		return EnvironmentUAT, nil
	case "sandbox", "":
		return EnvironmentSandbox, nil
	}
	return "", fmt.Errorf("ambiente inválido: %q", s)
}

// BaseURL retorna a URL base do ambiente
func (e Environment) BaseURL() string {
	env, err := ParseEnvironment(string(e))
	if err != nil {
		return ""
	}
	switch env {
	case EnvironmentProduction:
		return URLProduction
	case EnvironmentUAT:
		return URLUAT
	default:
		return URLSandbox
	}
}

// SkipsHostnameVerification informa o padrão de verificação de hostname.
// Os certificados dos ambientes de parceiros não correspondem ao hostname da
// conexão, então os três ambientes conhecidos desligam a verificação; a cadeia
// continua sendo validada. Ambientes desconhecidos (BaseURL customizada) verificam.
func (e Environment) SkipsHostnameVerification() bool {
	_, err := ParseEnvironment(string(e))
	return err == nil
}
