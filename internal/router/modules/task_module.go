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

// TaskModule wires the task CRUD handlers under /api/tasks.
// Every route requires a resolved identity; there is no anonymous path.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, users repository.UserRepository, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, Users: users, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.Users, m.JWT))
	tasks.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
