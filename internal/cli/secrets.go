package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
	"github.com/magnani/inter-sdk-go/internal/config"
)

func newSecretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Gerencia segredos no chaveiro do sistema",
	}

	var clientID string
	set := &cobra.Command{
		Use:   "set <client_secret|certificate_password>",
		Short: "Grava um segredo lido da entrada padrão",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name != config.SecretClientSecret && name != config.SecretCertificatePassword {
				return fmt.Errorf("segredo desconhecido: %q", name)
			}
			if clientID == "" {
				clientID = os.Getenv("INTER_CLIENT_ID")
			}
			if clientID == "" {
				return fmt.Errorf("--client-id (ou INTER_CLIENT_ID) é obrigatório")
			}

			value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && value == "" {
				return fmt.Errorf("erro ao ler segredo: %w", err)
			}

			if err := config.StoreSecret(clientID, name, strings.TrimRight(value, "\r\n")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s gravado para %s\n", name, clientID)
			return nil
		},
	}
	set.Flags().StringVar(&clientID, "client-id", "", "client id dono do segredo")
	cmd.AddCommand(set)

	return cmd
}

func newCertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cert",
		Short: "Verifica o certificado configurado e sua expiração",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			cert, err := inter.LoadCertificate(cfg.Inter.CertificatePath, cfg.Inter.CertificatePassword, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range cert.Entries {
				fmt.Fprintf(out, "%s\texpira em %s\n", entry.Subject.CommonName, entry.NotAfter.Format(time.RFC3339))
			}
			if expiresAt, soon := cert.ExpiringWithin(now, cfg.Inter.CertificateWarningWindow()); soon {
				fmt.Fprintf(out, "aviso: certificado expira em %s\n", expiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
