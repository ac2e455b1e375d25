package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/auth"
	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/pkg/utils"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. Validation failures
// and bad input become 400, missing records 404, bad credentials 401,
// anything else a logged 500.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}

	session, user, err := s.authService.Login(req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(s.now()).Seconds())
	c.SetCookie(sessionCookie, session.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"role":     user.Role,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err == nil && token != "" {
		if err := s.authService.Logout(token); err != nil {
			s.logger.Warn("Failed to delete session", zap.Error(err))
		}
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "all password fields are required"})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "new passwords do not match"})
		return
	}

	user := currentUser(c)
	if err := s.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List()
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username, password and role are required"})
		return
	}

	if err := utils.ValidateRole(req.Role); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := s.users.GetByUsername(req.Username); err == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username already exists"})
		return
	} else if !models.IsNotFound(err) {
		s.writeError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user := &models.User{Username: req.Username, PasswordHash: hash, Role: req.Role}
	if err := s.users.Create(user); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) handleUpdateUserRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role is required"})
		return
	}
	if err := utils.ValidateRole(req.Role); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Admins cannot demote themselves; someone must stay in charge.
	if actor := currentUser(c); actor.ID == id && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot change your own role"})
		return
	}

	if err := s.users.UpdateRole(id, req.Role); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if actor := currentUser(c); actor.ID == id {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot delete your own account"})
		return
	}

	if err := s.users.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
