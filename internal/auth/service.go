package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/internal/repository"
	"github.com/bizhub/backoffice/pkg/utils"
)

// ErrInvalidCredentials is returned when login or password change fails
// verification. The message is deliberately the same for unknown users
// and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service implements login sessions and password management
type Service struct {
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewService creates a new auth service
func NewService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login verifies credentials and issues a session token
func (s *Service) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, nil, err
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return session, user, nil
}

// Logout invalidates the session token
func (s *Service) Logout(token string) error {
	return s.sessions.Delete(token)
}

// Authenticate resolves a session token to its user. Expired sessions are
// deleted on sight.
func (s *Service) Authenticate(token string) (*models.User, error) {
	session, err := s.sessions.GetByToken(token)
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now()) {
		_ = s.sessions.Delete(session.Token)
		return nil, fmt.Errorf("%w: session expired", models.ErrNotFound)
	}

	return s.users.GetByID(session.UserID)
}

// ChangePassword verifies the current password and stores a new hash
func (s *Service) ChangePassword(userID int64, currentPassword, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError("new_password", err.Error())
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	if !CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(userID, hash)
}

// EnsureAdminUser creates the bootstrap admin account when it does not
// exist yet. Called once at startup.
func (s *Service) EnsureAdminUser(username, password string) error {
	if password == "" {
		s.logger.Warn("No admin password configured, skipping bootstrap user")
		return nil
	}

	_, err := s.users.GetByUsername(username)
	if err == nil {
		return nil
	}
	if !models.IsNotFound(err) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.users.Create(admin); err != nil {
		return err
	}

	s.logger.Info("Bootstrap admin user created", zap.String("username", username))
	return nil
}
