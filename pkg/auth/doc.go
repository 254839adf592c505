// Package auth acquires and renews Spotify access tokens under the three
// OAuth2 grant flows.
//
// The authenticator owns an in-memory token cache and coordinates a
// single-flight refresh: concurrent callers that miss the cache share one
// token-endpoint exchange and all observe its outcome. Records are looked
// up in order (memory cache, optional TokenStore, network) and replaced
// wholesale on refresh, never mutated in place.
//
// # Client Credentials
//
//	a, err := auth.New(auth.Config{
//		Flow: auth.ClientCredentials{
//			ClientID:     id,
//			ClientSecret: secret,
//		},
//	})
//	if err != nil {
//		return err
//	}
//
//	tok, err := a.Token(ctx, false)
//
// Client-credentials records never carry a refresh token; renewal is a
// fresh exchange.
//
// # Authorization Code
//
//	flow := auth.AuthorizationCode{
//		ClientID:     id,
//		ClientSecret: secret,
//		RedirectURI:  "http://localhost:8888/callback",
//		Scopes:       []string{"user-library-read"},
//	}
//	consentURL, state, err := flow.AuthorizeURL("")
//	// direct the user to consentURL, verify state on callback...
//
//	a, err := auth.New(auth.Config{Flow: flow})
//	tok, err := a.Exchange(ctx, callbackCode)
//
// # PKCE
//
//	flow, err := auth.NewPKCE(id, "http://localhost:8888/callback",
//		[]string{"user-library-read"})
//	consentURL, state, err := flow.AuthorizeURL("")
//	// ...exchange as above; no client secret is ever held.
//
// The verifier is 43-128 characters from the RFC 7636 unreserved set; the
// S256 challenge is base64url(SHA-256(verifier)) without padding.
//
// # Lifecycle Callbacks
//
// Config.Callbacks observes refresh attempts: OnRefreshStart fires before
// the exchange, then exactly one of OnRefreshSuccess or OnRefreshFailure.
// Callbacks are advisory; they run after the outcome has been published
// and cannot delay or change what callers receive.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - spotify_token_refreshes_total{grant_type,outcome}
//   - spotify_token_refresh_duration_seconds
//   - spotify_token_lookups_total{source}
package auth
