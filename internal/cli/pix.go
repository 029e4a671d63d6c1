package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
	"github.com/magnani/inter-sdk-go/internal/ports"
)

func newPixCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pix",
		Short: "Cobranças e recebimentos Pix",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get-cob <txid>",
		Short: "Consulta uma cobrança imediata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			charge, err := client.Pix().RetrieveImmediateCharge(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), charge)
		},
	})

	var (
		key         string
		txid        string
		amount      int64
		expiresIn   int
		description string
	)
	create := &cobra.Command{
		Use:   "create-cob",
		Short: "Cria uma cobrança imediata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := inter.NewGateway(client, key).CreatePixCharge(ctx, &ports.PixChargeRequest{
				TxID:        txid,
				Amount:      amount,
				Description: description,
				ExpiresIn:   expiresIn,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	create.Flags().StringVar(&key, "key", "", "chave PIX do recebedor")
	create.Flags().StringVar(&txid, "txid", "", "txid (opcional)")
	create.Flags().Int64Var(&amount, "amount-cents", 0, "valor em centavos")
	create.Flags().IntVar(&expiresIn, "expires-in", inter.DefaultChargeExpiration, "expiração em segundos")
	create.Flags().StringVar(&description, "description", "", "mensagem ao pagador")
	_ = create.MarkFlagRequired("key")
	_ = create.MarkFlagRequired("amount-cents")
	cmd.AddCommand(create)

	var since time.Duration
	received := &cobra.Command{
		Use:   "received",
		Short: "Lista os Pix recebidos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			end := time.Now()
			page, err := client.Pix().ListReceivedPix(ctx, inter.ListParams{Start: end.Add(-since), End: end})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	received.Flags().DurationVar(&since, "since", 24*time.Hour, "janela de consulta")
	cmd.AddCommand(received)

	return cmd
}
