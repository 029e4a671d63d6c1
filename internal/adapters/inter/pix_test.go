package inter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chargeFixture = `{
	"calendario": {"criacao": "2024-03-01T10:00:00Z", "expiracao": 3600},
	"txid": "7978c0c97ea847e78e8849634473c1f1",
	"revisao": 0,
	"loc": {"id": 789, "location": "pix.example.com/qr/v2/9d36b84f", "tipoCob": "cob"},
	"location": "pix.example.com/qr/v2/9d36b84f",
	"status": "ATIVA",
	"devedor": {"cnpj": "12345678000195", "nome": "Empresa de Serviços SA"},
	"valor": {"original": "37.00", "modalidadeAlteracao": 1},
	"chave": "7d9f0335-8dcc-4054-9bf9-0dbd61d36906",
	"solicitacaoPagador": "Serviço realizado.",
	"pixCopiaECola": "00020101021226830014br.gov.bcb.pix",
	"campoNovo": {"nivel": 2}
}`

func TestPix_CreateImmediateCharge(t *testing.T) {
	f := newFakeInter(respond(http.StatusCreated, chargeFixture))
	client := newTestClient(t, f, nil)

	charge, err := client.Pix().CreateImmediateCharge(context.Background(), &PixChargeRequest{
		Calendario: Calendar{Expiracao: 3600},
		Valor:      ChargeValue{Original: "37.00"},
		Chave:      "7d9f0335-8dcc-4054-9bf9-0dbd61d36906",
	})
	require.NoError(t, err)

	assertCall(t, f, http.MethodPost, PathPixCob, ScopeCobWrite)
	assert.JSONEq(t, `{
		"calendario": {"expiracao": 3600},
		"valor": {"original": "37.00"},
		"chave": "7d9f0335-8dcc-4054-9bf9-0dbd61d36906"
	}`, f.lastBody())

	assert.Equal(t, "7978c0c97ea847e78e8849634473c1f1", charge.TxID)
	assert.Equal(t, StatusActive, charge.Status)
	assert.Equal(t, 789, charge.Loc.ID)
	assert.Equal(t, "12345678000195", charge.Devedor.CNPJ)
}

func TestPixCharge_PreservesUnknownFields(t *testing.T) {
	var charge PixCharge
	require.NoError(t, json.Unmarshal([]byte(chargeFixture), &charge))

	require.Len(t, charge.Additional, 1)
	var extra struct {
		Nivel int `json:"nivel"`
	}
	found, err := charge.Additional.Get("campoNovo", &extra)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, extra.Nivel)

	found, err = charge.Additional.Get("inexistente", &extra)
	require.NoError(t, err)
	assert.False(t, found)

	data, err := json.Marshal(charge)
	require.NoError(t, err)

	var again PixCharge
	require.NoError(t, json.Unmarshal(data, &again))
	assert.JSONEq(t, `{"nivel": 2}`, string(again.Additional["campoNovo"]))

	charge.Additional, again.Additional = nil, nil
	assert.Equal(t, charge, again)
}

func TestPix_ImmediateChargeByTxID(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, chargeFixture))
	client := newTestClient(t, f, nil)
	ctx := context.Background()
	txid := "7978c0c97ea847e78e8849634473c1f1"
	path := PathPixCob + "/" + txid

	_, err := client.Pix().IncludeImmediateCharge(ctx, txid, &PixChargeRequest{
		Valor: ChargeValue{Original: "37.00"},
		Chave: "chave",
	})
	require.NoError(t, err)
	assertCall(t, f, http.MethodPut, path, ScopeCobWrite)

	charge, err := client.Pix().RetrieveImmediateCharge(ctx, txid)
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, path, ScopeCobRead)
	assert.Equal(t, "37.00", charge.Valor.Original)

	_, err = client.Pix().ReviewImmediateCharge(ctx, txid, &PixChargeReview{Valor: &ChargeValue{Original: "40.00"}})
	require.NoError(t, err)
	assertCall(t, f, http.MethodPatch, path, ScopeCobWrite)
	assert.JSONEq(t, `{"valor": {"original": "40.00"}}`, f.lastBody())

	_, err = client.Pix().CancelImmediateCharge(ctx, txid)
	require.NoError(t, err)
	assertCall(t, f, http.MethodPatch, path, ScopeCobWrite)
	assert.JSONEq(t, `{"status": "REMOVIDA_PELO_USUARIO_RECEBEDOR"}`, f.lastBody())
}

func TestPix_ListImmediateCharges(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{
		"parametros": {"inicio": "2024-03-01T00:00:00Z", "fim": "2024-03-02T00:00:00Z",
			"paginacao": {"paginaAtual": 1, "itensPorPagina": 10, "quantidadeDePaginas": 1, "quantidadeTotalDeItens": 1}},
		"cobs": [` + chargeFixture + `]
	}`))
	client := newTestClient(t, f, nil)

	sp := time.FixedZone("BRT", -3*3600)
	located := true
	page, err := client.Pix().ListImmediateCharges(context.Background(), ListParams{
		Start:          time.Date(2024, 2, 29, 21, 0, 0, 0, sp),
		End:            time.Date(2024, 3, 1, 21, 0, 0, 0, sp),
		CNPJ:           "12345678000195",
		LocationFilled: &located,
		Page:           1,
		ItemsPerPage:   10,
	})
	require.NoError(t, err)

	req := assertCall(t, f, http.MethodGet, PathPixCob, ScopeCobRead)
	q := req.URL.Query()
	assert.Equal(t, "2024-03-01T00:00:00Z", q.Get("inicio"))
	assert.Equal(t, "2024-03-02T00:00:00Z", q.Get("fim"))
	assert.Equal(t, "12345678000195", q.Get("cnpj"))
	assert.Equal(t, "true", q.Get("locationPresente"))
	assert.Equal(t, "1", q.Get("paginacao.paginaAtual"))
	assert.Equal(t, "10", q.Get("paginacao.itensPorPagina"))
	assert.Empty(t, q.Get("cpf"))

	require.Len(t, page.Cobs, 1)
	assert.Equal(t, 1, page.Parametros.Paginacao.QuantidadeTotalDeItens)
	assert.Contains(t, page.Cobs[0].Additional, "campoNovo")
}

func TestPix_Validation(t *testing.T) {
	f := newFakeInter(nil)
	client := newTestClient(t, f, nil)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name  string
		field string
		call  func() error
	}{
		{"cobrança sem chave", "chave", func() error {
			_, err := client.Pix().CreateImmediateCharge(ctx, &PixChargeRequest{Valor: ChargeValue{Original: "1.00"}})
			return err
		}},
		{"cobrança sem valor", "valor.original", func() error {
			_, err := client.Pix().CreateImmediateCharge(ctx, &PixChargeRequest{Chave: "chave"})
			return err
		}},
		{"consulta sem txid", "txid", func() error {
			_, err := client.Pix().RetrieveImmediateCharge(ctx, " ")
			return err
		}},
		{"listagem sem início", "inicio", func() error {
			_, err := client.Pix().ListImmediateCharges(ctx, ListParams{End: now})
			return err
		}},
		{"listagem com fim antes do início", "fim", func() error {
			_, err := client.Pix().ListReceivedPix(ctx, ListParams{Start: now, End: now.Add(-time.Hour)})
			return err
		}},
		{"cobv sem vencimento", "calendario.dataDeVencimento", func() error {
			_, err := client.Pix().IncludeDueCharge(ctx, "txid", &DueChargeRequest{Chave: "chave"})
			return err
		}},
		{"devolução sem valor", "valor", func() error {
			_, err := client.Pix().RequestDevolution(ctx, "E123", "D1", &DevolutionRequest{})
			return err
		}},
		{"location com tipo inválido", "tipoCob", func() error {
			_, err := client.Pix().CreateLocation(ctx, "boleto")
			return err
		}},
		{"webhook sem url", "webhookUrl", func() error {
			return client.Pix().IncludeWebhook(ctx, "chave", "")
		}},
		{"callbacks sem período", "dataHoraInicio", func() error {
			_, err := client.Pix().RetrieveCallbacks(ctx, time.Time{}, now, "", 0, 0)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "erro inesperado: %v", err)
			assert.Equal(t, tt.field, validation.Field)
		})
	}

	assert.Zero(t, f.apiCalls(), "validação falha antes de chamar a API")
}

func TestPix_DueCharge(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{
		"calendario": {"dataDeVencimento": "2024-12-31", "validadeAposVencimento": 30},
		"txid": "cobv123",
		"status": "ATIVA",
		"valor": {"original": "123.45", "multa": {"modalidade": 2, "valorPerc": "2.00"}},
		"chave": "chave"
	}`))
	client := newTestClient(t, f, nil)
	ctx := context.Background()
	path := PathPixCobv + "/cobv123"

	charge, err := client.Pix().IncludeDueCharge(ctx, "cobv123", &DueChargeRequest{
		Calendario: Calendar{DataDeVencimento: "2024-12-31", ValidadeAposVencimento: 30},
		Devedor:    Debtor{CPF: "12345678909", Nome: "Fulano"},
		Valor:      DueChargeValue{Original: "123.45", Multa: &ValueModality{Modalidade: 2, ValorPerc: "2.00"}},
		Chave:      "chave",
	})
	require.NoError(t, err)
	assertCall(t, f, http.MethodPut, path, ScopeCobvWrite)
	assert.Equal(t, "2.00", charge.Valor.Multa.ValorPerc)

	_, err = client.Pix().RetrieveDueCharge(ctx, "cobv123")
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, path, ScopeCobvRead)

	_, err = client.Pix().ReviewDueCharge(ctx, "cobv123", &DueChargeReview{Status: StatusRemovedByReceiver})
	require.NoError(t, err)
	assertCall(t, f, http.MethodPatch, path, ScopeCobvWrite)
}

func TestPix_ReceivedAndDevolution(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{
		"endToEndId": "E00416968202403011500abcdef",
		"txid": "7978c0c97ea847e78e8849634473c1f1",
		"valor": "37.00",
		"horario": "2024-03-01T15:00:00.000Z",
		"devolucoes": [{"id": "D1", "rtrId": "D0041", "valor": "7.00", "status": "DEVOLVIDO", "horario": {"solicitacao": "2024-03-02T10:00:00Z"}}]
	}`))
	client := newTestClient(t, f, nil)
	ctx := context.Background()
	e2e := "E00416968202403011500abcdef"

	pix, err := client.Pix().RetrieveReceivedPix(ctx, e2e)
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, PathPixReceived+"/"+e2e, ScopePixRead)
	require.Len(t, pix.Devolucoes, 1)
	assert.Equal(t, "DEVOLVIDO", pix.Devolucoes[0].Status)

	_, err = client.Pix().RequestDevolution(ctx, e2e, "D1", &DevolutionRequest{Valor: "7.00", Natureza: "ORIGINAL"})
	require.NoError(t, err)
	assertCall(t, f, http.MethodPut, PathPixReceived+"/"+e2e+"/devolucao/D1", ScopePixWrite)
	assert.JSONEq(t, `{"valor": "7.00", "natureza": "ORIGINAL"}`, f.lastBody())

	_, err = client.Pix().RetrieveDevolution(ctx, e2e, "D1")
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, PathPixReceived+"/"+e2e+"/devolucao/D1", ScopePixRead)

	_, err = client.Pix().ListReceivedPix(ctx, ListParams{Start: time.Now().Add(-time.Hour), End: time.Now()})
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, PathPixReceived, ScopePixRead)
}

func TestPix_Locations(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{"id": 42, "location": "pix.example.com/qr/v2/42", "tipoCob": "cobv"}`))
	client := newTestClient(t, f, nil)
	ctx := context.Background()

	loc, err := client.Pix().CreateLocation(ctx, ChargeTypeCobv)
	require.NoError(t, err)
	assertCall(t, f, http.MethodPost, PathPixLocation, ScopeLocationWrite)
	assert.JSONEq(t, `{"tipoCob": "cobv"}`, f.lastBody())
	assert.Equal(t, 42, loc.ID)

	_, err = client.Pix().RetrieveLocation(ctx, 42)
	require.NoError(t, err)
	assertCall(t, f, http.MethodGet, PathPixLocation+"/42", ScopeLocationRead)

	_, err = client.Pix().UnlinkLocation(ctx, 42)
	require.NoError(t, err)
	assertCall(t, f, http.MethodDelete, PathPixLocation+"/42/txid", ScopeLocationWrite)
}

func TestPix_Webhook(t *testing.T) {
	f := newFakeInter(nil)
	client := newTestClient(t, f, nil)
	ctx := context.Background()
	path := PathPixWebhook + "/chave-pix"

	require.NoError(t, client.Pix().IncludeWebhook(ctx, "chave-pix", "https://example.com/webhooks/inter"))
	assertCall(t, f, http.MethodPut, path, ScopeWebhookWrite)
	assert.JSONEq(t, `{"webhookUrl": "https://example.com/webhooks/inter"}`, f.lastBody())

	require.NoError(t, client.Pix().DeleteWebhook(ctx, "chave-pix"))
	assertCall(t, f, http.MethodDelete, path, ScopeWebhookWrite)
}

func TestPix_Callbacks(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{
		"totalPaginas": 1, "totalElementos": 1, "ultimaPagina": true, "primeiraPagina": true, "numeroDeElementos": 1,
		"data": [{"webhookUrl": "https://example.com/webhooks/inter", "numeroTentativa": 1,
			"dataHoraDisparo": "2024-03-01T15:00:01Z", "sucesso": true, "httpStatus": 200}]
	}`))
	client := newTestClient(t, f, nil)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	page, err := client.Pix().RetrieveCallbacks(context.Background(), start, end, "txid1", 2, 50)
	require.NoError(t, err)

	req := assertCall(t, f, http.MethodGet, PathPixWebhook+"/callbacks", ScopeWebhookRead)
	q := req.URL.Query()
	assert.Equal(t, "2024-03-01T00:00", q.Get("dataHoraInicio"))
	assert.Equal(t, "2024-03-01T23:59", q.Get("dataHoraFim"))
	assert.Equal(t, "txid1", q.Get("txid"))
	assert.Equal(t, "2", q.Get("pagina"))
	assert.Equal(t, "50", q.Get("tamanhoPagina"))

	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].Sucesso)
	assert.Equal(t, 200, page.Data[0].HTTPStatus)
}

func TestPix_NotFound(t *testing.T) {
	f := newFakeInter(respond(http.StatusNotFound, `{"title": "Cobrança não encontrada", "status": 404}`))
	client := newTestClient(t, f, nil)

	_, err := client.Pix().RetrieveImmediateCharge(context.Background(), "nao-existe")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "erro ao consultar cobrança imediata: Cobrança não encontrada")
}
