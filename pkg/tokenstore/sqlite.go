package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

// DefaultProfile names the record used when no profile is given.
const DefaultProfile = "default"

// SQLiteStore keeps token records in a SQLite database, one row per named
// profile. Several stores may share one database file under different
// profiles.
type SQLiteStore struct {
	db      *sql.DB
	profile string
}

// NewSQLiteStore opens (or creates) the database at path and prepares the
// schema. The path can be ":memory:" for tests. An empty profile selects
// DefaultProfile.
func NewSQLiteStore(path, profile string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if profile == "" {
		profile = DefaultProfile
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, profile: profile}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		profile    TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Load reads the record for this profile. A missing row means no record.
func (s *SQLiteStore) Load(ctx context.Context) (*auth.Token, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM tokens WHERE profile = ?`, s.profile).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query token record: %w", err)
	}

	var tok auth.Token
	if err := json.Unmarshal([]byte(payload), &tok); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}
	return &tok, nil
}

// Save writes tok for this profile, replacing any previous record.
func (s *SQLiteStore) Save(ctx context.Context, tok *auth.Token) error {
	if tok == nil {
		return fmt.Errorf("token cannot be nil")
	}

	payload, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tokens (profile, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		s.profile, string(payload))
	if err != nil {
		return fmt.Errorf("upsert token record: %w", err)
	}
	return nil
}

// Clear removes the record for this profile.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("delete token record: %w", err)
	}
	return nil
}
