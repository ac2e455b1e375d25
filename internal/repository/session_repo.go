package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/pkg/database"
)

// SessionRepository handles login session database operations
type SessionRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// Create stores a new session
func (r *SessionRepository) Create(session *models.Session) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (?, ?, ?)`,
		session.Token, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		r.logger.Error("Failed to create session", zap.Error(err))
		return &models.PersistenceError{Op: "create session", Err: err}
	}
	return nil
}

// GetByToken returns a session by its token
func (r *SessionRepository) GetByToken(token string) (*models.Session, error) {
	row := r.db.QueryRow(
		"SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?", token)

	var session models.Session
	err := row.Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Delete removes a session (logout)
func (r *SessionRepository) Delete(token string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		r.logger.Error("Failed to delete session", zap.Error(err))
		return &models.PersistenceError{Op: "delete session", Err: err}
	}
	return nil
}

// DeleteExpired drops every session past its expiry
func (r *SessionRepository) DeleteExpired() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at <= CURRENT_TIMESTAMP"); err != nil {
		r.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return &models.PersistenceError{Op: "delete expired sessions", Err: err}
	}
	return nil
}
