package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// ChallengeMethod selects how a PKCE verifier is transformed into the
// challenge sent with the authorize request.
type ChallengeMethod string

const (
	// ChallengeS256 sends base64url(SHA-256(verifier)) without padding.
	ChallengeS256 ChallengeMethod = "S256"

	// ChallengePlain sends the verifier unmodified. Only for servers that
	// do not support S256.
	ChallengePlain ChallengeMethod = "plain"
)

// Verifier length bounds from RFC 7636 §4.1.
const (
	VerifierMinLength = 43
	VerifierMaxLength = 128
)

// verifierCharset is the unreserved URI character set allowed in verifiers.
const verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// GenerateVerifier returns a cryptographically random code verifier of the
// given length, drawn uniformly from the RFC 7636 character set.
func GenerateVerifier(length int) (string, error) {
	if length < VerifierMinLength || length > VerifierMaxLength {
		return "", fmt.Errorf("%w: verifier length %d outside [%d, %d]",
			ErrInvalidConfig, length, VerifierMinLength, VerifierMaxLength)
	}

	// Reject bytes >= limit so the modulo below stays unbiased.
	limit := byte(256 - 256%len(verifierCharset))

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, verifierCharset[int(b)%len(verifierCharset)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// ValidateVerifier checks length and character-set constraints.
func ValidateVerifier(verifier string) error {
	if len(verifier) < VerifierMinLength || len(verifier) > VerifierMaxLength {
		return fmt.Errorf("%w: verifier length %d outside [%d, %d]",
			ErrInvalidConfig, len(verifier), VerifierMinLength, VerifierMaxLength)
	}
	for i := 0; i < len(verifier); i++ {
		if !strings.ContainsRune(verifierCharset, rune(verifier[i])) {
			return fmt.Errorf("%w: verifier contains invalid character %q",
				ErrInvalidConfig, verifier[i])
		}
	}
	return nil
}

// Challenge derives the code challenge for a verifier. The S256 result is
// deterministic for a fixed verifier.
func Challenge(verifier string, method ChallengeMethod) (string, error) {
	switch method {
	case ChallengeS256:
		sum := sha256.Sum256([]byte(verifier))
		return base64.RawURLEncoding.EncodeToString(sum[:]), nil
	case ChallengePlain:
		return verifier, nil
	default:
		return "", fmt.Errorf("%w: unknown challenge method %q", ErrInvalidConfig, method)
	}
}
