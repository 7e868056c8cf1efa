// Package postgres implements persisted session storage on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/taita-blog/admin-gateway/session"
	"go.uber.org/zap"
)

// SessionBackend implements session.Backend on a key-value table:
//
//	CREATE TABLE session_entries (
//	    session_id TEXT NOT NULL,
//	    key        TEXT NOT NULL,
//	    value      TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (session_id, key)
//	);
//
// Writes are last-write-wins upserts; there are no cross-key transactions.
type SessionBackend struct {
	db     *DB
	logger *zap.Logger
}

// NewSessionBackend creates a new PostgreSQL session backend.
func NewSessionBackend(db *DB, logger *zap.Logger) session.Backend {
	return &SessionBackend{
		db:     db,
		logger: logger,
	}
}

// Get returns the value for a key, or "" when absent.
func (b *SessionBackend) Get(ctx context.Context, sessionID, key string) (string, error) {
	query := `
		SELECT value
		FROM session_entries
		WHERE session_id = $1 AND key = $2
	`

	var value string
	err := b.db.QueryRowContext(ctx, query, sessionID, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session key: %w", err)
	}

	return value, nil
}

// Set upserts a value under a key.
func (b *SessionBackend) Set(ctx context.Context, sessionID, key, value string) error {
	query := `
		INSERT INTO session_entries (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := b.db.ExecContext(ctx, query, sessionID, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write session key: %w", err)
	}

	b.logger.Debug("session key written",
		zap.String("session_id", sessionID),
		zap.String("key", key))
	return nil
}

// Delete removes the given keys from the session.
func (b *SessionBackend) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := `
		DELETE FROM session_entries
		WHERE session_id = $1 AND key = ANY($2)
	`

	_, err := b.db.ExecContext(ctx, query, sessionID, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}

	return nil
}

// Clear removes all keys of the session.
func (b *SessionBackend) Clear(ctx context.Context, sessionID string) error {
	query := `
		DELETE FROM session_entries
		WHERE session_id = $1
	`

	_, err := b.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	b.logger.Debug("session cleared", zap.String("session_id", sessionID))
	return nil
}
