package inter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnani/inter-sdk-go/internal/ports"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{3750, "37.50"},
		{123456789, "1234567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCents(tt.cents))
	}
}

func TestParseCents(t *testing.T) {
	assert.Equal(t, int64(3750), parseCents("37.50"))
	assert.Equal(t, int64(29), parseCents("0.29"), "sem erro de ponto flutuante")
	assert.Equal(t, int64(100), parseCents(" 1 "))
	assert.Equal(t, int64(0), parseCents(""))
	assert.Equal(t, int64(0), parseCents("abc"))
	assert.Equal(t, int64(115), toCents(1.15))
}

func TestGateway_CreatePixCharge(t *testing.T) {
	f := newFakeInter(respond(http.StatusCreated, chargeFixture))
	client := newTestClient(t, f, nil)
	gw := NewGateway(client, "7d9f0335-8dcc-4054-9bf9-0dbd61d36906")

	resp, err := gw.CreatePixCharge(context.Background(), &ports.PixChargeRequest{
		Amount:        3700,
		Description:   "Serviço realizado.",
		PayerName:     "Empresa de Serviços SA",
		PayerDocument: "12345678000195",
	})
	require.NoError(t, err)

	assertCall(t, f, http.MethodPost, PathPixCob, ScopeCobWrite)
	assert.JSONEq(t, `{
		"calendario": {"expiracao": 3600},
		"devedor": {"cnpj": "12345678000195", "nome": "Empresa de Serviços SA"},
		"valor": {"original": "37.00"},
		"chave": "7d9f0335-8dcc-4054-9bf9-0dbd61d36906",
		"solicitacaoPagador": "Serviço realizado."
	}`, f.lastBody())

	assert.Equal(t, "7978c0c97ea847e78e8849634473c1f1", resp.TxID)
	assert.Equal(t, StatusActive, resp.Status)
	assert.Equal(t, int64(3700), resp.Amount)
	assert.Equal(t, "pix.example.com/qr/v2/9d36b84f", resp.Location)
	assert.Equal(t, "00020101021226830014br.gov.bcb.pix", resp.PixCode)
}

func TestGateway_CreatePixChargeWithTxID(t *testing.T) {
	f := newFakeInter(respond(http.StatusCreated, chargeFixture))
	client := newTestClient(t, f, nil)
	gw := NewGateway(client, "chave")

	_, err := gw.CreatePixCharge(context.Background(), &ports.PixChargeRequest{
		TxID:          "meutxid0123456789012345678",
		Amount:        5,
		ExpiresIn:     600,
		PayerDocument: "12345678909",
	})
	require.NoError(t, err)

	assertCall(t, f, http.MethodPut, PathPixCob+"/meutxid0123456789012345678", ScopeCobWrite)

	var sent PixChargeRequest
	require.NoError(t, json.Unmarshal([]byte(f.lastBody()), &sent))
	assert.Equal(t, 600, sent.Calendario.Expiracao)
	assert.Equal(t, "0.05", sent.Valor.Original)
	require.NotNil(t, sent.Devedor)
	assert.Equal(t, "12345678909", sent.Devedor.CPF)
	assert.Empty(t, sent.Devedor.CNPJ)

	_, err = gw.CreatePixCharge(context.Background(), &ports.PixChargeRequest{Amount: 0})
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "amount", validation.Field)
}

func TestGateway_ChargeLifecycle(t *testing.T) {
	paid := strings.Replace(chargeFixture, `"status": "ATIVA",`,
		`"status": "CONCLUIDA", "pix": [{"endToEndId": "E1", "valor": "37.00", "horario": "2024-03-01T15:00:00Z"}],`, 1)
	f := newFakeInter(respond(http.StatusOK, paid))
	client := newTestClient(t, f, nil)
	gw := NewGateway(client, "chave")
	ctx := context.Background()

	resp, err := gw.GetPixCharge(ctx, "7978c0c97ea847e78e8849634473c1f1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, []string{"E1"}, resp.PaidE2E)

	require.NoError(t, gw.CancelPixCharge(ctx, "7978c0c97ea847e78e8849634473c1f1"))
	assertCall(t, f, http.MethodPatch, PathPixCob+"/7978c0c97ea847e78e8849634473c1f1", ScopeCobWrite)
	assert.JSONEq(t, `{"status": "REMOVIDA_PELO_USUARIO_RECEBEDOR"}`, f.lastBody())
}

func TestGateway_RefundPix(t *testing.T) {
	f := newFakeInter(respond(http.StatusCreated, `{"id": "x", "rtrId": "D1", "valor": "12.34", "status": "EM_PROCESSAMENTO"}`))
	client := newTestClient(t, f, nil)
	gw := NewGateway(client, "chave")

	require.NoError(t, gw.RefundPix(context.Background(), "E00416968202403011500abcdef", 1234))

	req := f.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPut, req.Method)
	prefix := PathPixReceived + "/E00416968202403011500abcdef/devolucao/"
	require.True(t, strings.HasPrefix(req.URL.Path, prefix))
	id := strings.TrimPrefix(req.URL.Path, prefix)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.JSONEq(t, `{"valor": "12.34"}`, f.lastBody())

	err := gw.RefundPix(context.Background(), "E1", -1)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestGateway_RegisterWebhookAndBalance(t *testing.T) {
	f := newFakeInter(respond(http.StatusOK, `{
		"disponivel": 1500.25,
		"bloqueadoCheque": 1.10,
		"bloqueadoJudicialmente": 2.20,
		"bloqueadoAdministrativo": 0.03,
		"limite": 500
	}`))
	client := newTestClient(t, f, nil)
	gw := NewGateway(client, "chave-padrao")
	ctx := context.Background()

	require.NoError(t, gw.RegisterWebhook(ctx, "", "https://example.com/hook"))
	assertCall(t, f, http.MethodPut, PathPixWebhook+"/chave-padrao", ScopeWebhookWrite)

	require.NoError(t, gw.RegisterWebhook(ctx, "outra-chave", "https://example.com/hook"))
	assertCall(t, f, http.MethodPut, PathPixWebhook+"/outra-chave", ScopeWebhookWrite)

	balance, err := gw.GetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ports.Balance{Available: 150025, Blocked: 333, Limit: 50000}, balance)
}
