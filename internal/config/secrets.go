package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService é o nome do serviço usado no chaveiro do sistema operacional
const KeyringService = "inter-sdk"

// Nomes dos segredos guardados no chaveiro; o usuário do item é clientID/nome
const (
	SecretClientSecret        = "client_secret"
	SecretCertificatePassword = "certificate_password"
)

// ResolveSecrets preenche client secret e senha do certificado a partir do
// chaveiro do sistema quando não vieram do ambiente nem do arquivo.
// Itens ausentes no chaveiro não são erro; a validação trata campos vazios.
// A senha do certificado pode ser vazia, então falhas do chaveiro ao buscá-la
// são ignoradas.
func ResolveSecrets(c *InterConfig) error {
	if c.ClientID == "" {
		return nil
	}

	if c.ClientSecret == "" {
		secret, err := lookupSecret(c.ClientID, SecretClientSecret)
		if err != nil {
			return err
		}
		c.ClientSecret = secret
	}

	if c.CertificatePassword == "" {
		if password, err := lookupSecret(c.ClientID, SecretCertificatePassword); err == nil {
			c.CertificatePassword = password
		}
	}

	return nil
}

// StoreSecret grava um segredo no chaveiro para o client id informado
func StoreSecret(clientID, name, value string) error {
	if err := keyring.Set(KeyringService, keyringUser(clientID, name), value); err != nil {
		return fmt.Errorf("erro ao gravar segredo no chaveiro: %w", err)
	}
	return nil
}

func lookupSecret(clientID, name string) (string, error) {
	value, err := keyring.Get(KeyringService, keyringUser(clientID, name))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return "", nil
		}
		return "", fmt.Errorf("erro ao consultar chaveiro: %w", err)
	}
	return value, nil
}

func keyringUser(clientID, name string) string {
	return clientID + "/" + name
}
