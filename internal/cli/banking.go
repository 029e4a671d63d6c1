package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
)

func newTokenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "token <scope>",
		Short: "Obtém um token OAuth2 para o escopo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			token, err := client.Token(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newRawCmd(opts *options) *cobra.Command {
	var (
		scope string
		body  string
		query []string
	)

	cmd := &cobra.Command{
		Use:   "raw <method> <path>",
		Short: "Executa uma chamada arbitrária e imprime a resposta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scope == "" {
				return fmt.Errorf("--scope é obrigatório")
			}

			q := url.Values{}
			for _, kv := range query {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--query deve ser chave=valor: %q", kv)
				}
				q.Add(k, v)
			}

			req := inter.Request{
				Method:  strings.ToUpper(args[0]),
				Path:    args[1],
				Query:   q,
				Scope:   scope,
				Message: "erro na chamada",
			}
			if body != "" {
				if !json.Valid([]byte(body)) {
					return fmt.Errorf("--body não é um JSON válido")
				}
				req.Body = json.RawMessage(body)
			}

			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := client.Execute(ctx, req)
			if err != nil {
				return err
			}
			if len(resp) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), string(resp))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "escopo OAuth2 da chamada")
	cmd.Flags().StringVar(&body, "body", "", "corpo JSON")
	cmd.Flags().StringArrayVar(&query, "query", nil, "parâmetro de query chave=valor (repetível)")
	return cmd
}

func newBankingCmds(opts *options) []*cobra.Command {
	var date string
	balance := &cobra.Command{
		Use:   "balance",
		Short: "Consulta o saldo da conta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var at time.Time
			if date != "" {
				var err error
				if at, err = parseDate("date", date); err != nil {
					return err
				}
			}

			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			b, err := client.Banking().RetrieveBalance(ctx, at)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
	balance.Flags().StringVar(&date, "date", "", "data do saldo (AAAA-MM-DD)")

	var from, to string
	statement := &cobra.Command{
		Use:   "statement",
		Short: "Consulta o extrato de um período",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDate("from", from)
			if err != nil {
				return err
			}
			end, err := parseDate("to", to)
			if err != nil {
				return err
			}

			client, ctx, cancel, err := opts.client(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			s, err := client.Banking().RetrieveStatement(ctx, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	statement.Flags().StringVar(&from, "from", "", "data inicial (AAAA-MM-DD)")
	statement.Flags().StringVar(&to, "to", "", "data final (AAAA-MM-DD)")
	_ = statement.MarkFlagRequired("from")
	_ = statement.MarkFlagRequired("to")

	return []*cobra.Command{balance, statement}
}
