package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Endpoints locates the account service used for authorization and token
// exchange. The zero value selects the Spotify production endpoints.
type Endpoints struct {
	AuthURL  string
	TokenURL string
}

// DefaultEndpoints returns the Spotify production account service.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AuthURL:  "https://accounts.spotify.com/authorize",
		TokenURL: "https://accounts.spotify.com/api/token",
	}
}

func (e Endpoints) authURL() string {
	if e.AuthURL != "" {
		return e.AuthURL
	}
	return DefaultEndpoints().AuthURL
}

func (e Endpoints) tokenURL() string {
	if e.TokenURL != "" {
		return e.TokenURL
	}
	return DefaultEndpoints().TokenURL
}

// Flow is one of the three grant strategies: ClientCredentials,
// AuthorizationCode, or PKCE. The set is closed; the unexported methods
// keep external packages from adding variants.
type Flow interface {
	// Name returns the flow identifier used in logs and metrics.
	Name() string

	validate() error

	// exchange acquires a first token without an authorization code.
	// Flows that need user consent return ErrAuthorizationRequired.
	exchange(ctx context.Context, w *wire) (*Token, error)

	// exchangeCode trades an authorization code for a token.
	exchangeCode(ctx context.Context, w *wire, code string) (*Token, error)

	// refresh renews prev using its refresh token.
	refresh(ctx context.Context, w *wire, prev *Token) (*Token, error)
}

// ClientCredentials is the app-only grant flow. Tokens carry no refresh
// token and are renewed by a fresh exchange.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	Endpoints    Endpoints
}

// Name implements Flow.
func (f ClientCredentials) Name() string { return "client_credentials" }

func (f ClientCredentials) validate() error {
	if f.ClientID == "" {
		return fmt.Errorf("%w: client ID is required", ErrInvalidConfig)
	}
	if f.ClientSecret == "" {
		return fmt.Errorf("%w: client secret is required", ErrInvalidConfig)
	}
	return nil
}

func (f ClientCredentials) exchange(ctx context.Context, w *wire) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if len(f.Scopes) > 0 {
		form.Set("scope", strings.Join(f.Scopes, " "))
	}

	tok, err := w.postToken(ctx, f.Endpoints.tokenURL(), form, f.ClientID, f.ClientSecret)
	if err != nil {
		return nil, err
	}

	// This flow's grants are not refreshable; drop any refresh token the
	// server happens to return.
	tok.RefreshToken = ""
	return tok, nil
}

func (f ClientCredentials) exchangeCode(ctx context.Context, w *wire, code string) (*Token, error) {
	return nil, fmt.Errorf("client credentials flow has no authorization step")
}

func (f ClientCredentials) refresh(ctx context.Context, w *wire, prev *Token) (*Token, error) {
	return f.exchange(ctx, w)
}

// AuthorizationCode is the confidential-client user grant flow: the client
// secret authenticates both the code exchange and later refreshes.
type AuthorizationCode struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Endpoints    Endpoints
}

// Name implements Flow.
func (f AuthorizationCode) Name() string { return "authorization_code" }

func (f AuthorizationCode) validate() error {
	if f.ClientID == "" {
		return fmt.Errorf("%w: client ID is required", ErrInvalidConfig)
	}
	if f.ClientSecret == "" {
		return fmt.Errorf("%w: client secret is required", ErrInvalidConfig)
	}
	if f.RedirectURI == "" {
		return fmt.Errorf("%w: redirect URI is required", ErrInvalidConfig)
	}
	return nil
}

func (f AuthorizationCode) exchange(ctx context.Context, w *wire) (*Token, error) {
	return nil, fmt.Errorf("%w: authorization code flow needs a user-granted code", ErrAuthorizationRequired)
}

func (f AuthorizationCode) exchangeCode(ctx context.Context, w *wire, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", f.RedirectURI)

	return w.postToken(ctx, f.Endpoints.tokenURL(), form, f.ClientID, f.ClientSecret)
}

func (f AuthorizationCode) refresh(ctx context.Context, w *wire, prev *Token) (*Token, error) {
	if prev == nil || prev.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token held", ErrAuthorizationRequired)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", prev.RefreshToken)

	tok, err := w.postToken(ctx, f.Endpoints.tokenURL(), form, f.ClientID, f.ClientSecret)
	if err != nil {
		return nil, err
	}
	return retainRefreshToken(tok, prev), nil
}

// PKCE is the public-client user grant flow of RFC 7636. No client secret
// is held; the verifier/challenge pair binds the authorization code to this
// client instance instead.
type PKCE struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	Endpoints   Endpoints

	// Verifier is the code verifier for this authorization round. Populate
	// via NewPKCE or GenerateVerifier.
	Verifier string

	// Method defaults to S256 when empty.
	Method ChallengeMethod
}

// NewPKCE returns a PKCE flow with a freshly generated maximum-length
// verifier and the S256 challenge method.
func NewPKCE(clientID, redirectURI string, scopes []string) (PKCE, error) {
	verifier, err := GenerateVerifier(VerifierMaxLength)
	if err != nil {
		return PKCE{}, err
	}
	return PKCE{
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scopes:      scopes,
		Verifier:    verifier,
		Method:      ChallengeS256,
	}, nil
}

// Name implements Flow.
func (f PKCE) Name() string { return "pkce" }

func (f PKCE) method() ChallengeMethod {
	if f.Method == "" {
		return ChallengeS256
	}
	return f.Method
}

func (f PKCE) validate() error {
	if f.ClientID == "" {
		return fmt.Errorf("%w: client ID is required", ErrInvalidConfig)
	}
	if f.RedirectURI == "" {
		return fmt.Errorf("%w: redirect URI is required", ErrInvalidConfig)
	}
	if err := ValidateVerifier(f.Verifier); err != nil {
		return err
	}
	if m := f.method(); m != ChallengeS256 && m != ChallengePlain {
		return fmt.Errorf("%w: unknown challenge method %q", ErrInvalidConfig, m)
	}
	return nil
}

func (f PKCE) exchange(ctx context.Context, w *wire) (*Token, error) {
	return nil, fmt.Errorf("%w: PKCE flow needs a user-granted code", ErrAuthorizationRequired)
}

func (f PKCE) exchangeCode(ctx context.Context, w *wire, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", f.RedirectURI)
	form.Set("client_id", f.ClientID)
	form.Set("code_verifier", f.Verifier)

	return w.postToken(ctx, f.Endpoints.tokenURL(), form, "", "")
}

func (f PKCE) refresh(ctx context.Context, w *wire, prev *Token) (*Token, error) {
	if prev == nil || prev.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token held", ErrAuthorizationRequired)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", prev.RefreshToken)
	form.Set("client_id", f.ClientID)

	tok, err := w.postToken(ctx, f.Endpoints.tokenURL(), form, "", "")
	if err != nil {
		return nil, err
	}
	return retainRefreshToken(tok, prev), nil
}

// retainRefreshToken carries the previous refresh token forward when the
// server omits a replacement, so the renewed record stays refreshable.
func retainRefreshToken(tok, prev *Token) *Token {
	if tok.RefreshToken == "" && prev != nil {
		tok.RefreshToken = prev.RefreshToken
	}
	return tok
}

// wire performs token-endpoint round trips for the flows.
type wire struct {
	hc     *http.Client
	logger zerolog.Logger
}

// postToken sends a form-encoded grant request. A non-empty clientSecret
// authenticates via the Basic scheme; public-client flows pass client_id in
// the form instead.
func (w *wire) postToken(ctx context.Context, tokenURL string, form url.Values, clientID, clientSecret string) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if clientSecret != "" {
		req.SetBasicAuth(clientID, clientSecret)
	}

	w.logger.Debug().
		Str("grant_type", form.Get("grant_type")).
		Str("token_url", tokenURL).
		Msg("Requesting token")

	resp, err := w.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	return parseToken(resp.StatusCode, body, time.Now())
}
