package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskman-io/taskman/internal/application"
	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/interface/middleware"
	"github.com/taskman-io/taskman/pkg/helpers"
	"github.com/taskman-io/taskman/pkg/response"
	"github.com/taskman-io/taskman/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// updateTaskRequest uses pointers so absent fields can be told apart from
// zero values; only supplied fields are applied.
type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func taskPayload(t *entity.Task) gin.H {
	return gin.H{
		"id":           t.ID,
		"title":        t.Title,
		"description":  t.Description,
		"is_completed": t.IsCompleted,
		"user_id":      t.UserID,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
}

// taskID parses the :id path parameter. A non-numeric id cannot address any
// task, so it shares the not-found outcome.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) owner(c *gin.Context) (*entity.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "could not validate credentials", nil)
	}
	return u, ok
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	u, ok := h.owner(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), u.ID, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmptyTitle) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"title": "must not be empty"})
			return
		}
		helpers.LogError(h.Logger, "task create failed", err, logrus.Fields{"user_id": u.ID})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusCreated, taskPayload(t), "task created", nil)
}

// List GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	u, ok := h.owner(c)
	if !ok {
		return
	}
	tasks, err := h.Svc.List(c.Request.Context(), u.ID)
	if err != nil {
		helpers.LogError(h.Logger, "task list failed", err, logrus.Fields{"user_id": u.ID})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	payload := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		payload = append(payload, taskPayload(&tasks[i]))
	}
	response.Success(c, http.StatusOK, payload, "tasks", map[string]any{"count": len(payload)})
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	u, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "Task not found", nil)
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), u.ID, id)
	if err != nil {
		h.taskError(c, u.ID, id, err)
		return
	}
	response.Success(c, http.StatusOK, taskPayload(t), "task", nil)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	u, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "Task not found", nil)
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), u.ID, id, application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmptyTitle) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"title": "must not be empty"})
			return
		}
		h.taskError(c, u.ID, id, err)
		return
	}
	response.Success(c, http.StatusOK, taskPayload(t), "task updated", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	u, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "Task not found", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), u.ID, id); err != nil {
		h.taskError(c, u.ID, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) taskError(c *gin.Context, userID, taskID int64, err error) {
	if errors.Is(err, application.ErrTaskNotFound) {
		response.Error[any](c, http.StatusNotFound, "Task not found", nil)
		return
	}
	helpers.LogError(h.Logger, "task operation failed", err, logrus.Fields{"user_id": userID, "task_id": taskID})
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
