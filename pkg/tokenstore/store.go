package tokenstore

import (
	"context"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

// Store persists one token record across process restarts. Load follows the
// auth.TokenStore contract and returns (nil, nil) when no record is held;
// only real read failures surface as errors. Implementations are safe for
// concurrent use.
type Store interface {
	auth.TokenStore

	// Clear removes the persisted record. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}
