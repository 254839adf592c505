// Package integration holds Redis-backed integration tests. They start a
// real Redis container and are skipped in -short runs.
package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dh85/SpotifyWebAPI-sub002/internal/testutil"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/tokenstore"
)

// setupRedis starts a Redis container for the test and returns a connected
// client.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start Redis container")
	t.Cleanup(func() {
		if err := redisC.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(ctx).Err(), "ping Redis")
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := setupRedis(t)
	store := tokenstore.NewRedisStore(client, "integration:token")
	ctx := context.Background()

	// Empty store reads back as no record, not an error.
	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)

	saved := &auth.Token{
		AccessToken:  "integration-access",
		TokenType:    "Bearer",
		RefreshToken: "integration-refresh",
		Scope:        "user-library-read",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Millisecond),
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.Equal(t, saved.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, saved.Scope, loaded.Scope)
	assert.True(t, saved.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	tok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRedisStoreReplacesRecordWholesale(t *testing.T) {
	client := setupRedis(t)
	store := tokenstore.NewRedisStore(client, "integration:token")
	ctx := context.Background()

	first := &auth.Token{
		AccessToken:  "first",
		RefreshToken: "first-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, first))

	// The second record has no refresh token; nothing of the first record
	// may survive the replacement.
	second := &auth.Token{
		AccessToken: "second",
		ExpiresAt:   time.Now().Add(2 * time.Hour),
	}
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "second", loaded.AccessToken)
	assert.Empty(t, loaded.RefreshToken)
}

// TestAuthenticatorSharesTokenThroughRedis exercises the full persistence
// path: one authenticator refreshes over the network and persists the
// record; a second authenticator on the same store serves it without any
// further token-endpoint traffic.
func TestAuthenticatorSharesTokenThroughRedis(t *testing.T) {
	client := setupRedis(t)
	store := tokenstore.NewRedisStore(client, "integration:shared")
	ctx := context.Background()

	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.ClientID = "integration-client"
	accounts.ClientSecret = "integration-secret"

	flow := auth.ClientCredentials{
		ClientID:     "integration-client",
		ClientSecret: "integration-secret",
		Endpoints:    accounts.Endpoints(),
	}

	first, err := auth.New(auth.Config{Flow: flow, Store: store})
	require.NoError(t, err)

	tok, err := first.Token(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, accounts.GetRequestCount())

	second, err := auth.New(auth.Config{Flow: flow, Store: store})
	require.NoError(t, err)

	shared, err := second.Token(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, shared.AccessToken)
	assert.Equal(t, 1, accounts.GetRequestCount(), "second process must reuse the persisted record")
}

// TestConcurrentAuthenticatorsAgainstRedis drives many concurrent token
// lookups through one authenticator backed by the containerized store and
// checks the single-flight guarantee end to end.
func TestConcurrentAuthenticatorsAgainstRedis(t *testing.T) {
	client := setupRedis(t)
	store := tokenstore.NewRedisStore(client, "integration:singleflight")
	ctx := context.Background()

	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.Delay = 50 * time.Millisecond

	authn, err := auth.New(auth.Config{
		Flow: auth.ClientCredentials{
			ClientID:     "integration-client",
			ClientSecret: "integration-secret",
			Endpoints:    accounts.Endpoints(),
		},
		Store: store,
	})
	require.NoError(t, err)

	const callers = 16
	tokens := make([]*auth.Token, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = authn.Token(ctx, false)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, accounts.GetRequestCount(), "concurrent callers must share one exchange")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, tokens[i])
		assert.Equal(t, tokens[0].AccessToken, tokens[i].AccessToken)
	}

	// The single outcome was also persisted.
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, tokens[0].AccessToken, persisted.AccessToken)
}
