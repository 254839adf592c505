package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// AuthorizeURL builds the user consent URL for the authorization code flow.
// A random state is generated when the argument is empty; the returned
// state must match the callback's state parameter. Serving the redirect is
// the caller's concern, this library only exchanges the resulting code.
func (f AuthorizationCode) AuthorizeURL(state string) (authorizeURL, usedState string, err error) {
	params := url.Values{}
	params.Set("client_id", f.ClientID)
	params.Set("redirect_uri", f.RedirectURI)
	if len(f.Scopes) > 0 {
		params.Set("scope", strings.Join(f.Scopes, " "))
	}
	return buildAuthorizeURL(f.Endpoints.authURL(), params, state)
}

// AuthorizeURL builds the user consent URL for the PKCE flow, carrying the
// code challenge derived from the flow's verifier.
func (f PKCE) AuthorizeURL(state string) (authorizeURL, usedState string, err error) {
	challenge, err := Challenge(f.Verifier, f.method())
	if err != nil {
		return "", "", err
	}

	params := url.Values{}
	params.Set("client_id", f.ClientID)
	params.Set("redirect_uri", f.RedirectURI)
	params.Set("code_challenge", challenge)
	params.Set("code_challenge_method", string(f.method()))
	if len(f.Scopes) > 0 {
		params.Set("scope", strings.Join(f.Scopes, " "))
	}
	return buildAuthorizeURL(f.Endpoints.authURL(), params, state)
}

func buildAuthorizeURL(base string, params url.Values, state string) (string, string, error) {
	if state == "" {
		state = uuid.NewString()
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", "", fmt.Errorf("parse authorize endpoint: %w", err)
	}

	params.Set("response_type", "code")
	params.Set("state", state)
	u.RawQuery = params.Encode()

	return u.String(), state, nil
}
