package inter

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/magnani/inter-sdk-go/internal/config"
)

// Certificate é o material carregado de um arquivo PKCS12 (.p12/.pfx)
type Certificate struct {
	// TLS é o certificado cliente apresentado no mTLS
	TLS tls.Certificate

	// Entries são todos os certificados X.509 do arquivo
	Entries []*x509.Certificate

	// NotAfter é a expiração mais próxima entre as entradas
	NotAfter time.Time
}

// Check falha com ErrCertificateExpired se alguma entrada já expirou em now
func (c *Certificate) Check(now time.Time) error {
	if now.After(c.NotAfter) {
		return &SdkError{
			Kind:      KindCertificateExpired,
			Message:   "certificado expirado",
			ExpiresAt: c.NotAfter,
		}
	}
	return nil
}

// ExpiringWithin retorna a expiração mais próxima dentro da janela de aviso.
// ok é false se nenhuma entrada expira dentro da janela.
func (c *Certificate) ExpiringWithin(now time.Time, window time.Duration) (time.Time, bool) {
	if window <= 0 {
		return time.Time{}, false
	}
	if c.NotAfter.Before(now.Add(window)) {
		return c.NotAfter, true
	}
	return time.Time{}, false
}

// LoadCertificate carrega um arquivo PKCS12 protegido por senha.
// Retorna ErrCertificateNotFound se o arquivo não existe (sem tentar decodificar),
// ErrCertificateExpired se alguma entrada expirou antes de now e
// ErrCertificate para qualquer outra falha (senha errada, arquivo corrompido).
func LoadCertificate(path, password string, now time.Time) (*Certificate, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindCertificateNotFound, fmt.Sprintf("certificado não encontrado em %s", path), err)
		}
		return nil, newError(KindCertificate, "erro ao acessar certificado", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindCertificate, "erro ao ler certificado", err)
	}

	cert, err := decodePKCS12(data, password)
	if err != nil {
		return nil, err
	}

	if err := cert.Check(now); err != nil {
		return nil, err
	}

	return cert, nil
}

// decodePKCS12 decodifica o arquivo com a chave e todas as entradas X.509.
// Aceita tanto o formato legado (3DES/RC2) quanto o PBES2/AES com SHA-256.
func decodePKCS12(data []byte, password string) (*Certificate, error) {
	rawKey, first, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, newError(KindCertificate, "erro ao decodificar certificado PKCS12", err)
	}

	key, ok := rawKey.(crypto.Signer)
	if !ok {
		return nil, newError(KindCertificate, fmt.Sprintf("tipo de chave não suportado: %T", rawKey), nil)
	}

	entries := append([]*x509.Certificate{first}, caCerts...)

	leaf := matchLeaf(entries, key)
	if leaf == nil {
		return nil, newError(KindCertificate, "nenhum certificado corresponde à chave privada", nil)
	}

	tlsCert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	notAfter := entries[0].NotAfter
	for _, c := range entries {
		if c != leaf {
			tlsCert.Certificate = append(tlsCert.Certificate, c.Raw)
		}
		if c.NotAfter.Before(notAfter) {
			notAfter = c.NotAfter
		}
	}

	return &Certificate{TLS: tlsCert, Entries: entries, NotAfter: notAfter}, nil
}

func matchLeaf(entries []*x509.Certificate, key crypto.Signer) *x509.Certificate {
	pub, ok := key.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return nil
	}
	for _, c := range entries {
		if pub.Equal(c.PublicKey) {
			return c
		}
	}
	return nil
}

// CertificateManager carrega o certificado uma vez e entrega clientes HTTP
// com mTLS. A expiração é verificada novamente a cada uso.
type CertificateManager struct {
	path          string
	password      string
	warningWindow time.Duration
	timeout       time.Duration
	dialTimeout   time.Duration
	rootCAs       *x509.CertPool
	logger        *zap.Logger
	now           func() time.Time

	mu      sync.Mutex
	cert    *Certificate
	warned  bool
	clients map[bool]*http.Client // chave: verificação de hostname desligada
}

// CertificateOptions configura o CertificateManager
type CertificateOptions struct {
	Path          string
	Password      string
	WarningWindow time.Duration
	Timeout       time.Duration
	DialTimeout   time.Duration

	// RootCAs substitui as raízes do sistema (nil = raízes do sistema)
	RootCAs *x509.CertPool
}

// CertificateOptionsFor monta as opções a partir da configuração do cliente
func CertificateOptionsFor(cfg config.InterConfig) CertificateOptions {
	return CertificateOptions{
		Path:          cfg.CertificatePath,
		Password:      cfg.CertificatePassword,
		WarningWindow: cfg.CertificateWarningWindow(),
		Timeout:       cfg.Timeout,
		DialTimeout:   cfg.ConnectTimeout,
	}
}

// NewCertificateManager cria um gerenciador de certificado
func NewCertificateManager(opts CertificateOptions, logger *zap.Logger, now func() time.Time) *CertificateManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &CertificateManager{
		path:          opts.Path,
		password:      opts.Password,
		warningWindow: opts.WarningWindow,
		timeout:       opts.Timeout,
		dialTimeout:   opts.DialTimeout,
		rootCAs:       opts.RootCAs,
		logger:        logger,
		now:           now,
		clients:       make(map[bool]*http.Client),
	}
}

// Certificate retorna o certificado carregado, carregando-o na primeira chamada.
// Falha se o certificado expirou desde o carregamento.
func (m *CertificateManager) Certificate() (*Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certificateLocked()
}

func (m *CertificateManager) certificateLocked() (*Certificate, error) {
	now := m.now()
	if m.cert == nil {
		cert, err := LoadCertificate(m.path, m.password, now)
		if err != nil {
			return nil, err
		}
		m.cert = cert
	}

	if err := m.cert.Check(now); err != nil {
		return nil, err
	}

	if expiry, soon := m.cert.ExpiringWithin(now, m.warningWindow); soon && !m.warned {
		m.warned = true
		m.logger.Warn("Certificado próximo da expiração",
			zap.String("path", m.path),
			zap.Time("expires_at", expiry),
			zap.Int("days_left", int(expiry.Sub(now).Hours()/24)),
		)
	}

	return m.cert, nil
}

// Status retorna a expiração mais próxima, se ela cai na janela de aviso e
// se o certificado já expirou. Falhas de leitura retornam valores zerados.
func (m *CertificateManager) Status() (expiresAt time.Time, expiringSoon, expired bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.cert == nil {
		cert, err := LoadCertificate(m.path, m.password, now)
		if err != nil {
			if sdkErr, ok := AsSdkError(err); ok && sdkErr.Kind == KindCertificateExpired {
				return sdkErr.ExpiresAt, false, true
			}
			return time.Time{}, false, false
		}
		m.cert = cert
	}

	if m.cert.Check(now) != nil {
		return m.cert.NotAfter, false, true
	}
	_, soon := m.cert.ExpiringWithin(now, m.warningWindow)
	return m.cert.NotAfter, soon, false
}

// HTTPClient retorna o cliente HTTP com mTLS restrito a TLS 1.2.
// Com skipHostname a cadeia do servidor é validada mas o hostname não.
func (m *CertificateManager) HTTPClient(skipHostname bool) (*http.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cert, err := m.certificateLocked()
	if err != nil {
		return nil, err
	}

	if client, ok := m.clients[skipHostname]; ok {
		return client, nil
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert.TLS},
		MinVersion:   tls.VersionTLS12,
		MaxVersion:   tls.VersionTLS12,
		RootCAs:      m.rootCAs,
	}
	if skipHostname {
		tlsConfig.InsecureSkipVerify = true
		tlsConfig.VerifyConnection = verifyChainOnly(m.rootCAs)
	}

	client := &http.Client{
		Timeout: m.timeout,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
			DialContext: (&net.Dialer{
				Timeout:   m.dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: m.dialTimeout,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	m.clients[skipHostname] = client

	return client, nil
}

// verifyChainOnly valida a cadeia apresentada pelo servidor sem comparar o hostname
func verifyChainOnly(roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return errors.New("servidor não apresentou certificado")
		}
		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, c := range cs.PeerCertificates[1:] {
			opts.Intermediates.AddCert(c)
		}
		_, err := cs.PeerCertificates[0].Verify(opts)
		return err
	}
}
