// Package inter implementa o cliente da API de parceiros do Banco Inter.
//
// Este pacote implementa:
//   - mTLS com certificado PKCS12 (.p12/.pfx) e verificação de expiração
//   - Tokens OAuth2 (client credentials) em cache por escopo
//   - Repetição automática após 429 (controle de rate limit)
//   - PIX (cob, cobv, recebidos, devoluções, locations, webhooks)
//   - Banking (saldo, extrato, pagamentos de boleto, DARF e Pix)
//   - Cobrança (boleto com Pix, sumário, webhooks)
//   - Tratamento de webhooks
//
// # Autenticação
//
// A API do Inter usa OAuth2 com mTLS. Você precisa:
//   - Client ID e Client Secret (do Internet Banking PJ)
//   - Certificado .p12 e sua senha
//
// O token de cada escopo fica em cache até 60 segundos antes de expirar.
// Com WithTokenStore(NewRedisTokenStore(...)) o cache é compartilhado
// entre processos.
//
// # Início Rápido
//
// Criar o cliente:
//
//	client, err := inter.NewClient(cfg.Inter, inter.WithLogger(log))
//
// Criar uma cobrança PIX imediata:
//
//	cob, err := client.Pix().CreateImmediateCharge(ctx, &inter.PixChargeRequest{
//	    Calendario: inter.Calendar{Expiracao: 3600},
//	    Valor:      inter.ChargeValue{Original: "99.90"},
//	    Chave:      "sua-chave-pix",
//	})
//
// Consultar o saldo:
//
//	saldo, err := client.Banking().RetrieveBalance(ctx, time.Time{})
//
// # Tratamento de Webhooks
//
// WebhookParser valida a assinatura (opcional) e converte os callbacks
// de PIX e de cobrança em ports.WebhookEvent:
//
//	parser := inter.NewWebhookParser(secret, log)
//	events, err := parser.ParseWebhookEvents(body, r.Header.Get(inter.SignatureHeader))
//
// # Tratamento de Erros
//
// Toda operação retorna *SdkError, comparável com errors.Is:
//
//	if errors.Is(err, inter.ErrCertificateExpired) {
//	    // Renovar o certificado
//	}
//	if inter.IsNotFound(err) {
//	    // Recurso não existe
//	}
//
// Respostas 4xx e 5xx trazem o envelope de erro da API (título, detalhe,
// correlationId e violações) em SdkError.Envelope.
//
// # Documentação da API
//
// Para mais detalhes, consulte a documentação oficial:
// https://developers.inter.co
package inter
