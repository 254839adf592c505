package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the authenticator to the x/oauth2 TokenSource
// contract, so it can back oauth2.NewClient or any library that consumes
// one. The source shares this authenticator's cache and single-flight
// refresh.
func (a *Authenticator) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, a: a}
}

type tokenSource struct {
	ctx context.Context
	a   *Authenticator
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.a.Token(s.ctx, false)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.ExpiresAt,
	}, nil
}
