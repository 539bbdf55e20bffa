package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/dmitrijs2005/jobtrack/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyCurrentUser  = "current_user"
)

// SQLiteStore keeps credentials in the local state database, one row per
// slot.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

// SetTokens stores the token pair atomically.
func (s *SQLiteStore) SetTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return set(ctx, tx, keyRefreshToken, []byte(refresh))
	})
}

// SetAccessToken replaces only the access token, leaving the refresh token
// in place. Used after a successful refresh exchange.
func (s *SQLiteStore) SetAccessToken(ctx context.Context, access string) error {
	return set(ctx, s.db, keyAccessToken, []byte(access))
}

func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	v, err := get(ctx, s.db, keyAccessToken)
	return string(v), err
}

func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	v, err := get(ctx, s.db, keyRefreshToken)
	return string(v), err
}

func (s *SQLiteStore) SetUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return set(ctx, s.db, keyCurrentUser, data)
}

// User returns the cached profile. A missing or unparseable value reads as
// nil without an error.
func (s *SQLiteStore) User(ctx context.Context) (*models.User, error) {
	v, err := get(ctx, s.db, keyCurrentUser)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// Clear wipes all three slots atomically.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?, ?)`,
		keyAccessToken, keyRefreshToken, keyCurrentUser)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
