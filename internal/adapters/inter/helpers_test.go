package inter

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/magnani/inter-sdk-go/internal/config"
)

const testPassword = "senha-do-certificado"

type testCert struct {
	key  *ecdsa.PrivateKey
	cert *x509.Certificate
}

var serialCounter int64 = 1000

// newTestCert gera um certificado ECDSA; sem parent ele é autoassinado e CA
func newTestCert(t *testing.T, cn string, notBefore, notAfter time.Time, parent *testCert) *testCert {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serialCounter++
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(serialCounter),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  parent == nil,
	}

	issuer, signer := tmpl, key
	if parent != nil {
		issuer, signer = parent.cert, parent.key
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, &key.PublicKey, signer)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &testCert{key: key, cert: cert}
}

// writeP12 grava o certificado (e as CAs) em um arquivo PKCS12 temporário
func writeP12(t *testing.T, leaf *testCert, password string, cas ...*testCert) string {
	t.Helper()

	var caCerts []*x509.Certificate
	for _, ca := range cas {
		caCerts = append(caCerts, ca.cert)
	}

	data, err := gopkcs12.LegacyDES.Encode(leaf.key, leaf.cert, caCerts, password)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inter.p12")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// validP12 grava um certificado válido por um ano
func validP12(t *testing.T) string {
	t.Helper()
	now := time.Now()
	return writeP12(t, newTestCert(t, "cliente-inter", now.Add(-time.Hour), now.AddDate(1, 0, 0), nil), testPassword)
}

// fakeInter simula o endpoint de token e a API
type fakeInter struct {
	mu          sync.Mutex
	tokenCalls  map[string]int
	tokenStatus int
	tokenBody   string
	tokenForm   url.Values
	expiresIn   int
	api         http.HandlerFunc
	requests    []*http.Request
	bodies      []string
	clientCerts int
}

func newFakeInter(api http.HandlerFunc) *fakeInter {
	return &fakeInter{tokenCalls: make(map[string]int), expiresIn: 3600, api: api}
}

func (f *fakeInter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	if r.TLS != nil && len(r.TLS.PeerCertificates) > 0 {
		f.clientCerts++
	}
	f.mu.Unlock()

	if r.URL.Path == PathToken {
		f.serveToken(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	if f.api == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	f.api(w, r)
}

func (f *fakeInter) serveToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	scope := r.PostForm.Get("scope")

	f.mu.Lock()
	f.tokenCalls[scope]++
	f.tokenForm = r.PostForm
	n := f.tokenCalls[scope]
	status, body, expiresIn := f.tokenStatus, f.tokenBody, f.expiresIn
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		w.Write([]byte(body))
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": fmt.Sprintf("token-%s-%d", scope, n),
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
		"scope":        scope,
	})
}

func (f *fakeInter) calls(scope string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls[scope]
}

func (f *fakeInter) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeInter) lastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return ""
	}
	return f.bodies[len(f.bodies)-1]
}

func (f *fakeInter) apiCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// startFakeInter sobe um servidor TLS que exige certificado cliente
func startFakeInter(t *testing.T, f *fakeInter) (*httptest.Server, *x509.CertPool) {
	t.Helper()

	srv := httptest.NewUnstartedServer(f)
	srv.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	roots := x509.NewCertPool()
	roots.AddCert(srv.Certificate())
	return srv, roots
}

// testConfig monta uma configuração apontando para o servidor de teste
func testConfig(srv *httptest.Server, certPath string) config.InterConfig {
	return config.InterConfig{
		ClientID:            "client-id",
		ClientSecret:        "client-secret",
		CertificatePath:     certPath,
		CertificatePassword: testPassword,
		BaseURL:             srv.URL,
		RateLimitDelay:      5 * time.Millisecond,
		Timeout:             5 * time.Second,
	}
}

// newTestClient cria um Client ligado a um fakeInter
func newTestClient(t *testing.T, f *fakeInter, mutate func(*config.InterConfig), opts ...Option) *Client {
	t.Helper()

	srv, roots := startFakeInter(t, f)
	cfg := testConfig(srv, validP12(t))
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := NewClient(cfg, append([]Option{WithRootCAs(roots)}, opts...)...)
	require.NoError(t, err)
	return client
}

// writeJSON responde com status e corpo JSON
func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// assertCall confere método, caminho e escopo (pelo token) da última chamada à API
func assertCall(t *testing.T, f *fakeInter, method, path, scope string) *http.Request {
	t.Helper()

	req := f.lastRequest()
	require.NotNil(t, req, "nenhuma chamada à API")
	assert.Equal(t, method, req.Method)
	assert.Equal(t, path, req.URL.Path)
	assert.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "Bearer token-"+scope+"-"),
		"escopo esperado %s, header %q", scope, req.Header.Get("Authorization"))
	return req
}

// respond devolve sempre o mesmo status e corpo
func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	}
}
