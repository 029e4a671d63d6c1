package inter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenEntry_Valid(t *testing.T) {
	entry := TokenEntry{AccessToken: "abc", CreatedAt: 1000, ExpiresIn: 3600}

	tests := []struct {
		name string
		now  int64
		want bool
	}{
		{"recém criado", 1000, true},
		{"exatamente na margem", 1000 + 3600 - TokenSafetyMargin, true},
		{"um segundo depois da margem", 1000 + 3600 - TokenSafetyMargin + 1, false},
		{"já expirado", 1000 + 3600 + 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.Valid(time.Unix(tt.now, 0)))
		})
	}

	assert.False(t, TokenEntry{CreatedAt: 1000, ExpiresIn: 3600}.Valid(time.Unix(1000, 0)), "sem access token")
	assert.Equal(t, time.Unix(4600, 0), entry.ExpiresAt())
}

func TestTokenCacheKey(t *testing.T) {
	assert.Equal(t, "id:secret:cob.read", TokenCacheKey("id", "secret", "cob.read"))
	assert.NotEqual(t, TokenCacheKey("id", "secret", "cob.read"), TokenCacheKey("id", "secret", "cob.write"))
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k", TokenEntry{AccessToken: "a", CreatedAt: 1, ExpiresIn: 2}))
	require.NoError(t, store.Set(ctx, "k", TokenEntry{AccessToken: "b", CreatedAt: 3, ExpiresIn: 4}))

	entry, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, TokenEntry{AccessToken: "b", CreatedAt: 3, ExpiresIn: 4}, entry, "a entrada é substituída inteira")
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "k"))
	assert.Equal(t, 0, store.Len())
}

func TestRedisTokenStore_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisTokenStore(ctx, "isto-nao-e-url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "erro ao interpretar URL do redis")

	_, err = NewRedisTokenStore(ctx, "redis://127.0.0.1:1/0", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "erro ao conectar no redis")
}

func TestRedisTokenStore_KeyHidesSecret(t *testing.T) {
	store := NewRedisTokenStoreFromClient(nil, nil)

	key := store.redisKey(TokenCacheKey("id", "segredo-muito-secreto", "cob.read"))
	assert.True(t, strings.HasPrefix(key, "inter:token:"))
	assert.NotContains(t, key, "segredo-muito-secreto")
	assert.Equal(t, key, store.redisKey(TokenCacheKey("id", "segredo-muito-secreto", "cob.read")))
}

func TestClientToken_CachesPerScope(t *testing.T) {
	f := newFakeInter(nil)
	now := time.Now()
	clock := now
	client := newTestClient(t, f, nil, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	token, err := client.Token(ctx, ScopeCobRead)
	require.NoError(t, err)
	assert.Equal(t, "token-cob.read-1", token)

	token, err = client.Token(ctx, ScopeCobRead)
	require.NoError(t, err)
	assert.Equal(t, "token-cob.read-1", token)
	assert.Equal(t, 1, f.calls(ScopeCobRead), "entrada válida não chama o endpoint")

	_, err = client.Token(ctx, ScopeCobWrite)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls(ScopeCobWrite), "cada escopo tem seu token")

	f.mu.Lock()
	form := f.tokenForm
	f.mu.Unlock()
	assert.Equal(t, "client-id", form.Get("client_id"))
	assert.Equal(t, "client-secret", form.Get("client_secret"))
	assert.Equal(t, "client_credentials", form.Get("grant_type"))

	// Dentro da margem de segurança o token é renovado
	clock = now.Add(3600*time.Second - TokenSafetyMargin*time.Second + 2*time.Second)

	token, err = client.Token(ctx, ScopeCobRead)
	require.NoError(t, err)
	assert.Equal(t, "token-cob.read-2", token)
	assert.Equal(t, 2, f.calls(ScopeCobRead))
}

func TestClientToken_SharedStore(t *testing.T) {
	f := newFakeInter(nil)
	store := NewMemoryTokenStore()

	first := newTestClient(t, f, nil, WithTokenStore(store))
	second := newTestClient(t, f, nil, WithTokenStore(store))

	_, err := first.Token(context.Background(), ScopeStatementRead)
	require.NoError(t, err)
	_, err = second.Token(context.Background(), ScopeStatementRead)
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls(ScopeStatementRead))
	assert.Equal(t, 1, store.Len())
}

func TestClientToken_Failure(t *testing.T) {
	f := newFakeInter(nil)
	f.tokenStatus = 401
	f.tokenBody = `{"title":"Unauthorized","detail":"credenciais inválidas"}`
	client := newTestClient(t, f, nil)

	_, err := client.Token(context.Background(), ScopeCobRead)
	require.Error(t, err)

	assert.True(t, IsClientError(err))
	assert.True(t, IsUnauthorized(err))

	sdkErr, ok := AsSdkError(err)
	require.True(t, ok)
	require.NotNil(t, sdkErr.Envelope)
	assert.Equal(t, "Unauthorized", sdkErr.Envelope.Title)
	assert.Equal(t, "credenciais inválidas", sdkErr.Envelope.Detail)
}

func TestClientToken_ServerFailure(t *testing.T) {
	f := newFakeInter(nil)
	f.tokenStatus = 503
	client := newTestClient(t, f, nil)

	_, err := client.Token(context.Background(), ScopeCobRead)
	require.Error(t, err)
	assert.True(t, IsServerError(err))

	sdkErr, _ := AsSdkError(err)
	assert.Equal(t, "503 Service Unavailable", sdkErr.Envelope.Title)
}

func TestTokenManager_Invalidate(t *testing.T) {
	f := newFakeInter(nil)
	client := newTestClient(t, f, nil)
	ctx := context.Background()

	_, err := client.Token(ctx, ScopeCobRead)
	require.NoError(t, err)

	cfg := client.Config()
	require.NoError(t, client.tokens.Invalidate(ctx, cfg, ScopeCobRead))

	_, err = client.Token(ctx, ScopeCobRead)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls(ScopeCobRead))
}

func TestNewTokenManager_Defaults(t *testing.T) {
	tm := NewTokenManager(nil, nil, nil, nil, nil)
	assert.NotNil(t, tm.store)
	assert.NotNil(t, tm.logger)
	assert.NotNil(t, tm.now)
}
