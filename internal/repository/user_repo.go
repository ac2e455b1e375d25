package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/pkg/database"
)

// UserRepository handles user database operations
type UserRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	result, err := r.db.Exec(`
		INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.Role,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return &models.PersistenceError{Op: "create user", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID returns a user by primary key
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(
		"SELECT id, username, password_hash, role FROM users WHERE id = ?", id),
		fmt.Sprintf("user %d", id))
}

// GetByUsername returns a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(
		"SELECT id, username, password_hash, role FROM users WHERE username = ?", username),
		fmt.Sprintf("user %q", username))
}

func (r *UserRepository) scanOne(row *sql.Row, desc string) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, desc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// List returns all users ordered by username
func (r *UserRepository) List() ([]models.User, error) {
	rows, err := r.db.Query("SELECT id, username, password_hash, role FROM users ORDER BY username")
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(id int64, role string) error {
	result, err := r.db.Exec("UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		r.logger.Error("Failed to update user role", zap.Int64("user_id", id), zap.Error(err))
		return &models.PersistenceError{Op: "update user role", Err: err}
	}
	return requireAffected(result, fmt.Sprintf("user %d", id))
}

// UpdatePassword changes a user's password hash
func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	result, err := r.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		r.logger.Error("Failed to update user password", zap.Int64("user_id", id), zap.Error(err))
		return &models.PersistenceError{Op: "update user password", Err: err}
	}
	return requireAffected(result, fmt.Sprintf("user %d", id))
}

// Delete removes a user; their sessions cascade with them
func (r *UserRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		return &models.PersistenceError{Op: "delete user", Err: err}
	}
	return requireAffected(result, fmt.Sprintf("user %d", id))
}

func requireAffected(result sql.Result, desc string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, desc)
	}
	return nil
}
