package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dh85/SpotifyWebAPI-sub002/internal/testutil"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

var nopLogger = zerolog.Nop()

// memStore is an in-memory TokenStore with call counting.
type memStore struct {
	mu      sync.Mutex
	tok     *auth.Token
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (s *memStore) Load(ctx context.Context) (*auth.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.tok, nil
}

func (s *memStore) Save(ctx context.Context, tok *auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tok = tok
	return nil
}

func newClientCredentialsAuth(t *testing.T, accounts *testutil.MockAccounts, cfg auth.Config) *auth.Authenticator {
	t.Helper()
	cfg.Flow = auth.ClientCredentials{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Endpoints:    accounts.Endpoints(),
	}
	if cfg.Logger == nil {
		cfg.Logger = &nopLogger
	}
	a, err := auth.New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestClientCredentialsToken(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.ClientID = "client-1"
	accounts.ClientSecret = "secret-1"

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "access-token-1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if tok.IsExpired() {
		t.Error("fresh token must not be expired")
	}
	if got := accounts.LastForm().Get("grant_type"); got != "client_credentials" {
		t.Errorf("grant_type = %q", got)
	}

	// Second lookup is served from the in-memory cache.
	again, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if again.AccessToken != tok.AccessToken {
		t.Errorf("cached token = %q, want %q", again.AccessToken, tok.AccessToken)
	}
	if n := accounts.GetRequestCount(); n != 1 {
		t.Errorf("request count = %d, want 1", n)
	}
}

func TestClientCredentialsRejectsBadSecret(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.ClientID = "client-1"
	accounts.ClientSecret = "other-secret"

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	_, err := a.Token(context.Background(), false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !auth.IsInvalidGrant(err) {
		t.Errorf("error = %v, want an invalid-grant rejection", err)
	}
}

func TestClientCredentialsDropsRefreshToken(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.IncludeRefreshInCC = true

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.RefreshToken != "" {
		t.Errorf("RefreshToken = %q, want empty for the client credentials flow", tok.RefreshToken)
	}
}

func TestTokenSingleFlight(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.Gate = make(chan struct{})

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	const callers = 16
	tokens := make([]*auth.Token, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = a.Token(context.Background(), false)
		}(i)
	}

	// Let the callers pile up behind the gated exchange, then release it.
	time.Sleep(100 * time.Millisecond)
	close(accounts.Gate)
	wg.Wait()

	if n := accounts.GetRequestCount(); n != 1 {
		t.Fatalf("request count = %d, want exactly 1 exchange", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if tokens[i].AccessToken != tokens[0].AccessToken {
			t.Errorf("caller %d got %q, want %q", i, tokens[i].AccessToken, tokens[0].AccessToken)
		}
	}
}

func TestSingleFlightSharesFailure(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.Gate = make(chan struct{})

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	const callers = 8
	accounts.FailNext(callers, 400, `{"error":"invalid_grant","error_description":"nope"}`)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Token(context.Background(), false)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(accounts.Gate)
	wg.Wait()

	if n := accounts.GetRequestCount(); n != 1 {
		t.Fatalf("request count = %d, want 1", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] == nil {
			t.Fatalf("caller %d unexpectedly succeeded", i)
		}
		if !auth.IsInvalidGrant(errs[i]) {
			t.Errorf("caller %d error = %v, want the shared invalid-grant failure", i, errs[i])
		}
	}
}

func TestTokenInvalidatePrevious(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	first, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	second, err := a.Token(context.Background(), true)
	if err != nil {
		t.Fatalf("Token(invalidate) failed: %v", err)
	}
	if second.AccessToken == first.AccessToken {
		t.Error("invalidation must force a fresh exchange")
	}
	if n := accounts.GetRequestCount(); n != 2 {
		t.Errorf("request count = %d, want 2", n)
	}
}

func TestWaiterCancellation(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.Gate = make(chan struct{})

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	ownerDone := make(chan error, 1)
	go func() {
		_, err := a.Token(context.Background(), false)
		ownerDone <- err
	}()

	// Give the owner time to start the gated exchange, then attach a
	// waiter with a context that gets cancelled.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	go func() {
		_, err := a.Token(ctx, false)
		waiterDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-waiterDone:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("waiter error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	close(accounts.Gate)
	if err := <-ownerDone; err != nil {
		t.Errorf("owner failed: %v", err)
	}
}

func TestStorePromotion(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	stored := &auth.Token{
		AccessToken: "stored-token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	store := &memStore{tok: stored}

	a := newClientCredentialsAuth(t, accounts, auth.Config{Store: store})

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "stored-token" {
		t.Errorf("AccessToken = %q, want the stored record", tok.AccessToken)
	}
	if n := accounts.GetRequestCount(); n != 0 {
		t.Errorf("request count = %d, want 0 (no network exchange)", n)
	}

	// Promoted to the in-memory cache: the second lookup skips the store.
	if _, err := a.Token(context.Background(), false); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	store.mu.Lock()
	loads := store.loads
	store.mu.Unlock()
	if loads != 1 {
		t.Errorf("store loads = %d, want 1", loads)
	}
}

func TestStoreLoadErrorFallsThroughToNetwork(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	store := &memStore{loadErr: errors.New("disk on fire")}
	a := newClientCredentialsAuth(t, accounts, auth.Config{Store: store})

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken != "access-token-1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if n := accounts.GetRequestCount(); n != 1 {
		t.Errorf("request count = %d, want 1", n)
	}
}

func TestRefreshUsesStoredRefreshToken(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.ClientID = "client-1"
	accounts.ClientSecret = "secret-1"

	expired := &auth.Token{
		AccessToken:  "stale-token",
		TokenType:    "Bearer",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	store := &memStore{tok: expired}

	flow := auth.AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints:    accounts.Endpoints(),
	}
	a, err := auth.New(auth.Config{Flow: flow, Store: store, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	if got := accounts.LastForm().Get("grant_type"); got != "refresh_token" {
		t.Errorf("grant_type = %q, want refresh_token", got)
	}
	if got := accounts.LastForm().Get("refresh_token"); got != "old-refresh" {
		t.Errorf("refresh_token = %q, want old-refresh", got)
	}

	// The server omitted a replacement, so the previous refresh token is
	// retained in the new record.
	if tok.RefreshToken != "old-refresh" {
		t.Errorf("RefreshToken = %q, want old-refresh retained", tok.RefreshToken)
	}

	// The renewed record was persisted.
	store.mu.Lock()
	savedAccess := store.tok.AccessToken
	saves := store.saves
	store.mu.Unlock()
	if saves != 1 {
		t.Errorf("store saves = %d, want 1", saves)
	}
	if savedAccess != tok.AccessToken {
		t.Errorf("persisted token = %q, want %q", savedAccess, tok.AccessToken)
	}
}

func TestRefreshRotatesWhenServerReturnsNewToken(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.RotateRefreshToken = true

	expired := &auth.Token{
		AccessToken:  "stale-token",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}

	flow := auth.AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints:    accounts.Endpoints(),
	}
	a, err := auth.New(auth.Config{Flow: flow, Store: &memStore{tok: expired}, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.RefreshToken == "" || tok.RefreshToken == "old-refresh" {
		t.Errorf("RefreshToken = %q, want a rotated value", tok.RefreshToken)
	}
}

func TestAuthorizationRequiredWithoutCode(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	flow := auth.AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints:    accounts.Endpoints(),
	}
	a, err := auth.New(auth.Config{Flow: flow, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = a.Token(context.Background(), false)
	if !errors.Is(err, auth.ErrAuthorizationRequired) {
		t.Errorf("error = %v, want ErrAuthorizationRequired", err)
	}
	if n := accounts.GetRequestCount(); n != 0 {
		t.Errorf("request count = %d, want 0", n)
	}
}

func TestExchangeAuthorizationCode(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.ClientID = "client-1"
	accounts.ClientSecret = "secret-1"
	accounts.AuthCode = "code-123"
	accounts.RedirectURI = "http://localhost:8888/callback"

	flow := auth.AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints:    accounts.Endpoints(),
	}
	store := &memStore{}
	a, err := auth.New(auth.Config{Flow: flow, Store: store, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tok, err := a.Exchange(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if tok.RefreshToken == "" {
		t.Error("code exchange must yield a refresh token")
	}

	// Exchange seeds both the cache and the store.
	cached, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if cached.AccessToken != tok.AccessToken {
		t.Errorf("cached token = %q, want %q", cached.AccessToken, tok.AccessToken)
	}
	if n := accounts.GetGrantCount("client_credentials"); n != 0 {
		t.Errorf("unexpected client_credentials exchanges: %d", n)
	}
	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	if saves != 1 {
		t.Errorf("store saves = %d, want 1", saves)
	}
}

func TestExchangeRejectsWrongCode(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.AuthCode = "code-123"

	flow := auth.AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints:    accounts.Endpoints(),
	}
	a, err := auth.New(auth.Config{Flow: flow, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = a.Exchange(context.Background(), "code-999")
	if !auth.IsInvalidGrant(err) {
		t.Errorf("error = %v, want an invalid-grant rejection", err)
	}
}

func TestPKCEExchange(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	flow, err := auth.NewPKCE("client-1", "http://localhost:8888/callback", []string{"user-library-read"})
	if err != nil {
		t.Fatalf("NewPKCE failed: %v", err)
	}
	flow.Endpoints = accounts.Endpoints()

	challenge, err := auth.Challenge(flow.Verifier, auth.ChallengeS256)
	if err != nil {
		t.Fatalf("Challenge failed: %v", err)
	}
	accounts.AuthCode = "code-123"
	accounts.Challenge = challenge
	accounts.ChallengeMethod = "S256"

	a, err := auth.New(auth.Config{Flow: flow, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tok, err := a.Exchange(context.Background(), "code-123")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if tok.AccessToken == "" {
		t.Error("expected an access token")
	}

	// The public-client exchange must not use Basic auth.
	if got := accounts.LastForm().Get("client_id"); got != "client-1" {
		t.Errorf("client_id form field = %q", got)
	}
	if got := accounts.LastForm().Get("code_verifier"); got != flow.Verifier {
		t.Errorf("code_verifier = %q, want the flow verifier", got)
	}
}

func TestPKCEExchangeRejectsMismatchedVerifier(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	flow, err := auth.NewPKCE("client-1", "http://localhost:8888/callback", nil)
	if err != nil {
		t.Fatalf("NewPKCE failed: %v", err)
	}
	flow.Endpoints = accounts.Endpoints()

	// The challenge recorded at authorization time belongs to a different
	// verifier.
	other, err := auth.GenerateVerifier(64)
	if err != nil {
		t.Fatalf("GenerateVerifier failed: %v", err)
	}
	challenge, err := auth.Challenge(other, auth.ChallengeS256)
	if err != nil {
		t.Fatalf("Challenge failed: %v", err)
	}
	accounts.Challenge = challenge
	accounts.ChallengeMethod = "S256"

	a, err := auth.New(auth.Config{Flow: flow, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = a.Exchange(context.Background(), "any-code")
	if !auth.IsInvalidGrant(err) {
		t.Errorf("error = %v, want an invalid-grant rejection", err)
	}
}

func TestPKCEPlainMethod(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	flow, err := auth.NewPKCE("client-1", "http://localhost:8888/callback", nil)
	if err != nil {
		t.Fatalf("NewPKCE failed: %v", err)
	}
	flow.Method = auth.ChallengePlain
	flow.Endpoints = accounts.Endpoints()

	accounts.Challenge = flow.Verifier
	accounts.ChallengeMethod = "plain"

	a, err := auth.New(auth.Config{Flow: flow, Logger: &nopLogger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := a.Exchange(context.Background(), "any-code"); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
}

func TestCallbackOrderOnSuccess(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	var mu sync.Mutex
	var events []string
	var startInfo auth.RefreshInfo

	cfg := auth.Config{
		Callbacks: auth.Callbacks{
			OnRefreshStart: func(info auth.RefreshInfo) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "start")
				startInfo = info
			},
			OnRefreshSuccess: func(tok *auth.Token) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "success")
			},
			OnRefreshFailure: func(err error) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "failure")
			},
		},
	}
	a := newClientCredentialsAuth(t, accounts, cfg)

	if _, err := a.Token(context.Background(), false); err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0] != "start" || events[1] != "success" {
		t.Fatalf("events = %v, want [start success]", events)
	}
	if startInfo.Reason != auth.RefreshAutomatic {
		t.Errorf("Reason = %q, want automatic", startInfo.Reason)
	}
	if startInfo.SecondsUntilExpiration != 0 {
		t.Errorf("SecondsUntilExpiration = %v, want 0 with no previous record", startInfo.SecondsUntilExpiration)
	}
}

func TestCallbackOrderOnFailure(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()
	accounts.FailNext(1, 500, `whoops`)

	var mu sync.Mutex
	var events []string

	cfg := auth.Config{
		Callbacks: auth.Callbacks{
			OnRefreshStart: func(auth.RefreshInfo) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "start")
			},
			OnRefreshSuccess: func(*auth.Token) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "success")
			},
			OnRefreshFailure: func(error) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, "failure")
			},
		},
	}
	a := newClientCredentialsAuth(t, accounts, cfg)

	if _, err := a.Token(context.Background(), false); err == nil {
		t.Fatal("expected error, got nil")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0] != "start" || events[1] != "failure" {
		t.Fatalf("events = %v, want [start failure]", events)
	}
}

func TestCallbackReportsManualReasonAndExpiry(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	var mu sync.Mutex
	var infos []auth.RefreshInfo

	cfg := auth.Config{
		Callbacks: auth.Callbacks{
			OnRefreshStart: func(info auth.RefreshInfo) {
				mu.Lock()
				defer mu.Unlock()
				infos = append(infos, info)
			},
		},
	}
	a := newClientCredentialsAuth(t, accounts, cfg)

	if _, err := a.Token(context.Background(), false); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if _, err := a.Token(context.Background(), true); err != nil {
		t.Fatalf("Token(invalidate) failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(infos) != 2 {
		t.Fatalf("start callbacks = %d, want 2", len(infos))
	}
	if infos[1].Reason != auth.RefreshManual {
		t.Errorf("second refresh reason = %q, want manual", infos[1].Reason)
	}
	if infos[1].SecondsUntilExpiration <= 0 {
		t.Errorf("SecondsUntilExpiration = %v, want remaining lifetime of the invalidated record", infos[1].SecondsUntilExpiration)
	}
}

func TestPanickingCallbackDoesNotAffectOutcome(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	cfg := auth.Config{
		Callbacks: auth.Callbacks{
			OnRefreshStart:   func(auth.RefreshInfo) { panic("observer bug") },
			OnRefreshSuccess: func(*auth.Token) { panic("observer bug") },
		},
	}
	a := newClientCredentialsAuth(t, accounts, cfg)

	tok, err := a.Token(context.Background(), false)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.AccessToken == "" {
		t.Error("expected a token despite panicking callbacks")
	}
}

func TestTokenSourceAdapter(t *testing.T) {
	accounts := testutil.NewMockAccounts()
	defer accounts.Close()

	a := newClientCredentialsAuth(t, accounts, auth.Config{})

	src := a.TokenSource(context.Background())
	tok, err := src.Token()
	if err != nil {
		t.Fatalf("TokenSource.Token failed: %v", err)
	}
	if tok.AccessToken != "access-token-1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if tok.TokenType != "Bearer" {
		t.Errorf("TokenType = %q", tok.TokenType)
	}
	if !tok.Valid() {
		t.Error("adapted token must be valid")
	}
}

func TestNewValidatesFlow(t *testing.T) {
	tests := []struct {
		name string
		flow auth.Flow
	}{
		{"nil flow", nil},
		{"client credentials without secret", auth.ClientCredentials{ClientID: "id"}},
		{"authorization code without redirect", auth.AuthorizationCode{ClientID: "id", ClientSecret: "s"}},
		{"pkce with short verifier", auth.PKCE{ClientID: "id", RedirectURI: "http://localhost/cb", Verifier: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.New(auth.Config{Flow: tt.flow, Logger: &nopLogger})
			if !errors.Is(err, auth.ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
