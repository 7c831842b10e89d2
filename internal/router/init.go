package router

import (
	"github.com/taskman-io/taskman/internal/application"
	"github.com/taskman-io/taskman/internal/container"
	pginfra "github.com/taskman-io/taskman/internal/infrastructure/postgres"
	handlers "github.com/taskman-io/taskman/internal/interface/http"
	"github.com/taskman-io/taskman/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module with the registry.
// Called once during application startup.
func InitModules(r *Registry) {
	users := pginfra.NewUserRepository(container.GetPGPool())
	tasks := pginfra.NewTaskRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetLogger(),
		container.GetConfig().BcryptCost,
	)
	taskSvc := application.NewTaskService(tasks, container.GetLogger())

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	taskHandler := handlers.NewTaskHandler(taskSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, users, container.GetJWT()))
	r.Add(modules.NewTaskModule(taskHandler, users, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
