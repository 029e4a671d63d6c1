// Package cli implementa os comandos do binário inter
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
	"github.com/magnani/inter-sdk-go/internal/config"
	"github.com/magnani/inter-sdk-go/internal/logger"
)

// options são as flags globais compartilhadas pelos subcomandos
type options struct {
	configPath string
	debug      bool
	account    string
	timeout    time.Duration

	// newClient permite substituir a criação do cliente nos testes
	newClient func(cfg config.InterConfig, log *zap.Logger) (*inter.Client, error)
}

// NewRootCommand cria o comando raiz com todos os subcomandos
func NewRootCommand(version string) *cobra.Command {
	opts := &options{
		newClient: func(cfg config.InterConfig, log *zap.Logger) (*inter.Client, error) {
			return inter.NewClient(cfg, inter.WithLogger(log))
		},
	}

	cmd := &cobra.Command{
		Use:   "inter",
		Short: "Cliente de linha de comando da API de parceiros do Banco Inter",
		Long: `Executa chamadas autenticadas (OAuth2 + mTLS) na API de parceiros do Inter.

A configuração vem das variáveis INTER_* (e do arquivo .env) ou de um
arquivo YAML informado em --config. Segredos ausentes são buscados no
chaveiro do sistema (ver "inter secrets set").

Exemplos:
  # Saldo atual
  inter balance

  # Consultar uma cobrança imediata
  inter pix get-cob 7978c0c97ea847e78e8849634473c1f1

  # Chamada arbitrária
  inter raw GET /banking/v2/saldo --scope extrato.read`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "arquivo de configuração YAML")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "loga os corpos das respostas")
	cmd.PersistentFlags().StringVar(&opts.account, "account", "", "conta corrente (header x-conta-corrente)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "tempo máximo do comando")

	cmd.AddCommand(newTokenCmd(opts))
	cmd.AddCommand(newRawCmd(opts))
	cmd.AddCommand(newBankingCmds(opts)...)
	cmd.AddCommand(newPixCmd(opts))
	cmd.AddCommand(newBillingCmd(opts))
	cmd.AddCommand(newSecretsCmd())
	cmd.AddCommand(newCertCmd(opts))

	return cmd
}

// loadConfig carrega o arquivo YAML (se informado) ou o ambiente
func (o *options) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.debug {
		cfg.Inter.Debug = true
	}
	if o.account != "" {
		cfg.Inter.Account = o.account
	}
	return cfg, nil
}

// client cria o cliente Inter e o contexto com timeout do comando
func (o *options) client(cmd *cobra.Command) (*inter.Client, context.Context, context.CancelFunc, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Inter.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("erro ao criar logger: %w", err)
	}

	client, err := o.newClient(cfg.Inter, log)
	if err != nil {
		return nil, nil, nil, err
	}

	if expiresAt, soon, _ := client.CertificateStatus(); soon {
		fmt.Fprintf(cmd.ErrOrStderr(), "aviso: certificado expira em %s\n", expiresAt.Format(time.RFC3339))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	return client, ctx, cancel, nil
}

// printJSON escreve v indentado na saída do comando
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDate aceita datas no formato AAAA-MM-DD
func parseDate(flag, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s inválido (use AAAA-MM-DD): %w", flag, err)
	}
	return t, nil
}
