// Package testutil provides mock Spotify services for tests: the accounts
// service (token endpoint) and the Web API (resource endpoints).
package testutil

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

// MockAccounts is a configurable mock of the accounts service token
// endpoint. Configure the exported fields before issuing traffic; counters
// are read through the Get* accessors.
type MockAccounts struct {
	server *httptest.Server

	// Expected client credentials. When ClientSecret is set, confidential
	// grants must present a matching Basic auth header.
	ClientID     string
	ClientSecret string

	// Expected authorization-code parameters. Zero values disable the
	// corresponding check.
	AuthCode        string
	RedirectURI     string
	Challenge       string
	ChallengeMethod string

	// Token issuance knobs.
	ExpiresIn          int    // default 3600
	GrantedScope       string // echoed scope; default: the requested scope
	RotateRefreshToken bool   // refresh grants return a new refresh_token
	IncludeRefreshInCC bool   // leak a refresh_token on client_credentials

	// Delay is applied before every response; Gate, when set, blocks the
	// handler until the channel is closed.
	Delay time.Duration
	Gate  chan struct{}

	mu           sync.Mutex
	requestCount int
	grantCounts  map[string]int
	failuresLeft int
	failStatus   int
	failBody     string
	serial       int
	lastForm     url.Values
	lastAuthOK   bool
}

// NewMockAccounts starts a mock accounts service.
func NewMockAccounts() *MockAccounts {
	m := &MockAccounts{
		ExpiresIn:   3600,
		grantCounts: make(map[string]int),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handleToken))
	return m
}

// URL returns the mock server base URL.
func (m *MockAccounts) URL() string {
	return m.server.URL
}

// TokenURL returns the token endpoint URL.
func (m *MockAccounts) TokenURL() string {
	return m.server.URL + "/api/token"
}

// Endpoints returns auth endpoints pointing at this mock.
func (m *MockAccounts) Endpoints() auth.Endpoints {
	return auth.Endpoints{
		AuthURL:  m.server.URL + "/authorize",
		TokenURL: m.TokenURL(),
	}
}

// Close shuts down the mock server.
func (m *MockAccounts) Close() {
	m.server.Close()
}

// Reset clears counters and scripted failures.
func (m *MockAccounts) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.grantCounts = make(map[string]int)
	m.failuresLeft = 0
	m.serial = 0
	m.lastForm = nil
}

// FailNext makes the next n token requests fail with the given status and
// body.
func (m *MockAccounts) FailNext(n, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failuresLeft = n
	m.failStatus = status
	m.failBody = body
}

// GetRequestCount returns the number of token requests received.
func (m *MockAccounts) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// GetGrantCount returns the number of requests for one grant type.
func (m *MockAccounts) GetGrantCount(grantType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grantCounts[grantType]
}

// LastForm returns the form of the most recent token request.
func (m *MockAccounts) LastForm() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastForm
}

func (m *MockAccounts) handleToken(w http.ResponseWriter, r *http.Request) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.Gate != nil {
		<-m.Gate
	}

	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}
	grantType := r.PostForm.Get("grant_type")

	m.mu.Lock()
	m.requestCount++
	m.grantCounts[grantType]++
	m.lastForm = r.PostForm
	failing := m.failuresLeft > 0
	if failing {
		m.failuresLeft--
	}
	failStatus, failBody := m.failStatus, m.failBody
	m.mu.Unlock()

	if failing {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failStatus)
		fmt.Fprint(w, failBody)
		return
	}

	switch grantType {
	case "client_credentials":
		if !m.checkBasicAuth(w, r) {
			return
		}
		m.issueToken(w, r, m.IncludeRefreshInCC)

	case "authorization_code":
		if !m.checkCodeExchange(w, r) {
			return
		}
		m.issueToken(w, r, true)

	case "refresh_token":
		if r.PostForm.Get("refresh_token") == "" {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
			return
		}
		m.issueToken(w, r, m.RotateRefreshToken)

	default:
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "unknown grant_type "+grantType)
	}
}

// checkBasicAuth enforces the configured client secret, when set.
func (m *MockAccounts) checkBasicAuth(w http.ResponseWriter, r *http.Request) bool {
	if m.ClientSecret == "" {
		return true
	}
	id, secret, ok := r.BasicAuth()
	if !ok || id != m.ClientID || secret != m.ClientSecret {
		writeOAuthError(w, http.StatusUnauthorized, "invalid_client", "bad client credentials")
		return false
	}
	return true
}

// checkCodeExchange validates code, redirect URI, and the PKCE verifier
// against the configured expectations.
func (m *MockAccounts) checkCodeExchange(w http.ResponseWriter, r *http.Request) bool {
	// Confidential clients authenticate with Basic auth; public (PKCE)
	// clients pass client_id in the form.
	if r.PostForm.Get("code_verifier") == "" && !m.checkBasicAuth(w, r) {
		return false
	}

	if m.AuthCode != "" && r.PostForm.Get("code") != m.AuthCode {
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "authorization code not recognized")
		return false
	}
	if m.RedirectURI != "" && r.PostForm.Get("redirect_uri") != m.RedirectURI {
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "redirect_uri mismatch")
		return false
	}
	if m.Challenge != "" {
		if !verifyCodeVerifier(m.ChallengeMethod, m.Challenge, r.PostForm.Get("code_verifier")) {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "code verifier does not match challenge")
			return false
		}
	}
	return true
}

func (m *MockAccounts) issueToken(w http.ResponseWriter, r *http.Request, withRefresh bool) {
	m.mu.Lock()
	m.serial++
	serial := m.serial
	m.mu.Unlock()

	scope := m.GrantedScope
	if scope == "" {
		scope = r.PostForm.Get("scope")
	}

	payload := map[string]any{
		"access_token": fmt.Sprintf("access-token-%d", serial),
		"token_type":   "Bearer",
		"expires_in":   m.ExpiresIn,
	}
	if scope != "" {
		payload["scope"] = scope
	}
	if withRefresh {
		payload["refresh_token"] = fmt.Sprintf("refresh-token-%d", serial)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

// verifyCodeVerifier checks a code verifier against the challenge recorded
// at authorization time.
func verifyCodeVerifier(method, challenge, verifier string) bool {
	switch method {
	case "plain":
		return subtle.ConstantTimeCompare([]byte(challenge), []byte(verifier)) == 1
	case "S256", "":
		sum := sha256.Sum256([]byte(verifier))
		expected := base64.RawURLEncoding.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(challenge), []byte(expected)) == 1
	default:
		return false
	}
}

func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": description,
	})
}
