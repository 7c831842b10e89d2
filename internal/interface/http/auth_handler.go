package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskman-io/taskman/internal/application"
	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/domain/repository"
	"github.com/taskman-io/taskman/internal/interface/middleware"
	"github.com/taskman-io/taskman/pkg/helpers"
	"github.com/taskman-io/taskman/pkg/response"
	"github.com/taskman-io/taskman/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userPayload is the only serialized form of a user; the password hash never
// leaves the service layer.
func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, userPayload(u), "user registered", nil)
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusBadRequest, "Username already registered", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, "Email already registered", nil)
	case errors.Is(err, repository.ErrConflict):
		// Lost a registration race; the pre-checks passed but the insert hit
		// a unique constraint.
		response.Error[any](c, http.StatusBadRequest, "Username or email already registered", nil)
	default:
		helpers.LogError(h.Logger, "registration failed", err, logrus.Fields{"username": req.Username})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	token, exp, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error[any](c, http.StatusUnauthorized, "incorrect username or password", nil)
			return
		}
		helpers.LogError(h.Logger, "login failed", err, logrus.Fields{"username": req.Username})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	}, "login successful", map[string]any{"expires_at": exp.UTC().Format(time.RFC3339)})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "current user", nil)
}
