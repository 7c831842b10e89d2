package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskman-io/taskman/internal/container"
	"github.com/taskman-io/taskman/internal/domain/repository"
	handlers "github.com/taskman-io/taskman/internal/interface/http"
	"github.com/taskman-io/taskman/internal/interface/middleware"
	"github.com/taskman-io/taskman/pkg/helpers"
)

// AuthModule wires the auth HTTP handlers into routes.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Tight per-IP limits on the credential endpoints to slow brute force
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
