package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBillingCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Cobranças (boleto com pix)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <codigoSolicitacao>",
		Short: "Consulta uma cobrança",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			billing, err := client.Billing().RetrieveBilling(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), billing)
		},
	})

	var reason string
	cancelCmd := &cobra.Command{
		Use:   "cancel <codigoSolicitacao>",
		Short: "Cancela uma cobrança",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if err := client.Billing().CancelBilling(ctx, args[0], reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cobrança %s cancelada\n", args[0])
			return nil
		},
	}
	cancelCmd.Flags().StringVar(&reason, "reason", "", "motivo do cancelamento")
	_ = cancelCmd.MarkFlagRequired("reason")
	cmd.AddCommand(cancelCmd)

	return cmd
}
