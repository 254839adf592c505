package auth

import (
	"net/url"
	"strings"
	"testing"
)

func TestAuthorizationCodeAuthorizeURL(t *testing.T) {
	flow := AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8888/callback",
		Scopes:       []string{"user-library-read", "user-follow-read"},
	}

	raw, state, err := flow.AuthorizeURL("fixed-state")
	if err != nil {
		t.Fatalf("AuthorizeURL failed: %v", err)
	}
	if state != "fixed-state" {
		t.Errorf("state = %q, want fixed-state", state)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if !strings.HasPrefix(raw, "https://accounts.spotify.com/authorize?") {
		t.Errorf("URL = %q, want the default authorize endpoint", raw)
	}

	q := u.Query()
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-1" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "http://localhost:8888/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("scope") != "user-library-read user-follow-read" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
	if q.Get("state") != "fixed-state" {
		t.Errorf("state param = %q", q.Get("state"))
	}
	if q.Has("code_challenge") {
		t.Error("code flow URL must not carry a code challenge")
	}
}

func TestAuthorizeURLGeneratesState(t *testing.T) {
	flow := AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8888/callback",
	}

	raw, state, err := flow.AuthorizeURL("")
	if err != nil {
		t.Fatalf("AuthorizeURL failed: %v", err)
	}
	if state == "" {
		t.Fatal("expected a generated state")
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if u.Query().Get("state") != state {
		t.Errorf("state param %q does not match returned state %q", u.Query().Get("state"), state)
	}

	_, state2, err := flow.AuthorizeURL("")
	if err != nil {
		t.Fatalf("AuthorizeURL failed: %v", err)
	}
	if state2 == state {
		t.Error("two generated states are identical")
	}
}

func TestPKCEAuthorizeURL(t *testing.T) {
	flow, err := NewPKCE("client-1", "http://localhost:8888/callback", []string{"user-library-read"})
	if err != nil {
		t.Fatalf("NewPKCE failed: %v", err)
	}

	raw, _, err := flow.AuthorizeURL("s1")
	if err != nil {
		t.Fatalf("AuthorizeURL failed: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := u.Query()

	wantChallenge, err := Challenge(flow.Verifier, ChallengeS256)
	if err != nil {
		t.Fatalf("Challenge failed: %v", err)
	}
	if q.Get("code_challenge") != wantChallenge {
		t.Errorf("code_challenge = %q, want %q", q.Get("code_challenge"), wantChallenge)
	}
	if q.Get("code_challenge_method") != "S256" {
		t.Errorf("code_challenge_method = %q", q.Get("code_challenge_method"))
	}
}

func TestCustomEndpointsRespected(t *testing.T) {
	flow := AuthorizationCode{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8888/callback",
		Endpoints: Endpoints{
			AuthURL:  "https://accounts.example.test/authorize",
			TokenURL: "https://accounts.example.test/token",
		},
	}

	raw, _, err := flow.AuthorizeURL("s")
	if err != nil {
		t.Fatalf("AuthorizeURL failed: %v", err)
	}
	if !strings.HasPrefix(raw, "https://accounts.example.test/authorize?") {
		t.Errorf("URL = %q, want the custom authorize endpoint", raw)
	}
}
