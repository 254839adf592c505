package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// Token is an issued access credential together with its expiry and the
// refresh token needed to renew it. Tokens are immutable once published:
// a refresh produces a new record, the cache slot is never updated
// field-by-field.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired reports whether the token's expiry has been reached. The check
// is exact (now >= ExpiresAt, no safety margin); callers that race the
// boundary are covered by the executor's 401 refresh-and-retry path.
func (t *Token) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// Valid reports whether t can still be attached to a request.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != "" && !t.IsExpired()
}

// TTL returns the remaining lifetime, negative once expired.
func (t *Token) TTL() time.Duration {
	return time.Until(t.ExpiresAt)
}

// tokenResponse is the token endpoint's wire payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// oauthErrorResponse is the error payload defined by RFC 6749 §5.2.
type oauthErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// parseToken interprets a token-endpoint response body. Non-2xx statuses
// become *Error (invalid_grant family when the server names one of the RFC
// 6749 rejection codes), malformed or incomplete 2xx payloads become
// unexpected_response.
func parseToken(statusCode int, body []byte, now time.Time) (*Token, error) {
	if statusCode < 200 || statusCode > 299 {
		var oe oauthErrorResponse
		if err := json.Unmarshal(body, &oe); err == nil && oe.Code != "" {
			kind := KindHTTPError
			switch oe.Code {
			case "invalid_grant", "invalid_client", "invalid_request":
				kind = KindInvalidGrant
			}
			return nil, &Error{
				Kind:        kind,
				StatusCode:  statusCode,
				Code:        oe.Code,
				Description: oe.Description,
			}
		}
		return nil, &Error{
			Kind:       KindHTTPError,
			StatusCode: statusCode,
			Body:       string(body),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &Error{
			Kind:       KindUnexpectedResponse,
			StatusCode: statusCode,
			Body:       string(body),
			Err:        fmt.Errorf("decode token payload: %w", err),
		}
	}

	if tr.AccessToken == "" {
		return nil, &Error{
			Kind:       KindUnexpectedResponse,
			StatusCode: statusCode,
			Body:       string(body),
			Err:        fmt.Errorf("token payload missing access_token"),
		}
	}

	// A fresh record must expire strictly in the future.
	if tr.ExpiresIn <= 0 {
		return nil, &Error{
			Kind:       KindUnexpectedResponse,
			StatusCode: statusCode,
			Body:       string(body),
			Err:        fmt.Errorf("token payload has non-positive expires_in %d", tr.ExpiresIn),
		}
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tokenType,
		RefreshToken: tr.RefreshToken,
		Scope:        tr.Scope,
		ExpiresAt:    now.Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
