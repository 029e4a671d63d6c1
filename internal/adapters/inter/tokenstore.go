package inter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenSafetyMargin é a antecedência, em segundos, com que um token é tratado como vencido
const TokenSafetyMargin = 60

// TokenEntry é um token em cache. Entradas são substituídas inteiras, nunca alteradas.
type TokenEntry struct {
	AccessToken string `json:"access_token"`
	CreatedAt   int64  `json:"created_at"` // epoch em segundos, carimbado pelo SDK
	ExpiresIn   int64  `json:"expires_in"` // segundos
}

// Valid retorna true se now + 60s <= createdAt + expiresIn
func (e TokenEntry) Valid(now time.Time) bool {
	return e.AccessToken != "" && now.Unix()+TokenSafetyMargin <= e.CreatedAt+e.ExpiresIn
}

// ExpiresAt retorna o instante de expiração informado pelo servidor
func (e TokenEntry) ExpiresAt() time.Time {
	return time.Unix(e.CreatedAt+e.ExpiresIn, 0)
}

// TokenCacheKey monta a chave clientId:clientSecret:scope
func TokenCacheKey(clientID, clientSecret, scope string) string {
	return clientID + ":" + clientSecret + ":" + scope
}

// TokenStore guarda tokens por chave
type TokenStore interface {
	// Get retorna o token da chave e se ele foi encontrado
	Get(ctx context.Context, key string) (TokenEntry, bool, error)

	// Set grava (sobrescrevendo) o token da chave
	Set(ctx context.Context, key string, entry TokenEntry) error

	// Delete remove o token da chave
	Delete(ctx context.Context, key string) error
}

// MemoryTokenStore é um TokenStore em memória, sem limite de tamanho
// (uma entrada por combinação clientId/secret/scope usada)
type MemoryTokenStore struct {
	mu      sync.RWMutex
	entries map[string]TokenEntry
}

// NewMemoryTokenStore cria um cache em memória vazio
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]TokenEntry)}
}

// Get implementa TokenStore
func (s *MemoryTokenStore) Get(_ context.Context, key string) (TokenEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

// Set implementa TokenStore
func (s *MemoryTokenStore) Set(_ context.Context, key string, entry TokenEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

// Delete implementa TokenStore
func (s *MemoryTokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len retorna a quantidade de entradas
func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RedisTokenStore compartilha tokens entre processos via Redis.
// A chave é um hash da chave lógica para não gravar o client secret em claro.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisTokenStore conecta ao Redis e valida a conexão
func NewRedisTokenStore(ctx context.Context, redisURL string, logger *zap.Logger) (*RedisTokenStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar URL do redis: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("erro ao conectar no redis: %w", err)
	}

	return NewRedisTokenStoreFromClient(client, logger), nil
}

// NewRedisTokenStoreFromClient usa um cliente Redis já configurado
func NewRedisTokenStoreFromClient(client *redis.Client, logger *zap.Logger) *RedisTokenStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTokenStore{client: client, prefix: "inter:token:", logger: logger}
}

// Close fecha a conexão com o Redis
func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}

func (s *RedisTokenStore) redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return s.prefix + hex.EncodeToString(sum[:])
}

// Get implementa TokenStore
func (s *RedisTokenStore) Get(ctx context.Context, key string) (TokenEntry, bool, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return TokenEntry{}, false, nil
	}
	if err != nil {
		s.logger.Error("Falha ao ler token do redis", zap.Error(err))
		return TokenEntry{}, false, err
	}

	var entry TokenEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		s.logger.Error("Falha ao decodificar token do redis", zap.Error(err))
		return TokenEntry{}, false, err
	}
	return entry, true, nil
}

// Set implementa TokenStore; o TTL acompanha a expiração do token
func (s *RedisTokenStore) Set(ctx context.Context, key string, entry TokenEntry) error {
	ttl := time.Until(entry.ExpiresAt())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.redisKey(key), data, ttl).Err(); err != nil {
		s.logger.Error("Falha ao gravar token no redis", zap.Error(err))
		return err
	}
	return nil
}

// Delete implementa TokenStore
func (s *RedisTokenStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.redisKey(key)).Err()
}

var (
	_ TokenStore = (*MemoryTokenStore)(nil)
	_ TokenStore = (*RedisTokenStore)(nil)
)
