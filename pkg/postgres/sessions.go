package postgres

import (
	"context"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// InsertSession inserts a new session for an existing user
func (d *DB) InsertSession(ctx context.Context, session *db.Session) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO session (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`, session.Token, session.UserID, session.CreatedAt.UTC())
	if err != nil {
		return mapError("failed to insert session", err)
	}
	return nil
}

// GetSession retrieves a session by token
func (d *DB) GetSession(ctx context.Context, token string) (*db.Session, error) {
	var s db.Session
	err := d.pool.QueryRow(ctx, `
		SELECT token, user_id, created_at FROM session WHERE token = $1
	`, token).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if isNoRows(err) {
		return nil, db.NewError(db.KindNotFound, "session not found")
	}
	if err != nil {
		return nil, mapError("failed to query session", err)
	}
	return &s, nil
}

// DeleteSession removes a session. Unknown tokens are ignored.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM session WHERE token = $1`, token); err != nil {
		return mapError("failed to delete session", err)
	}
	return nil
}
