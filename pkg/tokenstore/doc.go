// Package tokenstore provides persistent backends for OAuth token records.
//
// A store keeps one token record alive across process restarts so that a
// long-lived refresh token is not lost and users are not sent through the
// authorization flow again. Three backends are provided:
//
// - FileStore: a JSON file with 0600 permissions, replaced atomically
// - RedisStore: a single Redis key, shareable between processes
// - SQLiteStore: one row per named profile in a SQLite database
//
// All backends implement the Store interface, which extends
// auth.TokenStore with Clear. Load returns (nil, nil) when no record is
// held; the authenticator treats read failures as a cache miss and falls
// through to a network refresh.
//
// # Basic Usage
//
//	// Persist tokens next to the user's config
//	store, err := tokenstore.NewFileStore("/home/me/.config/spotify/token.json")
//	if err != nil {
//		return err
//	}
//
//	authenticator, err := auth.New(auth.Config{
//		Flow:  flow,
//		Store: store,
//	})
//
// # Sharing an Identity
//
//	// Several workers can share one token through Redis; the
//	// authenticator's single-flight refresh keeps them from racing.
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	store := tokenstore.NewRedisStore(redisClient, "spotify:token:worker-pool")
//
// # Profiles
//
//	// SQLite keyed by profile name supports multiple accounts in one file.
//	store, err := tokenstore.NewSQLiteStore(dbPath, "alice")
package tokenstore
