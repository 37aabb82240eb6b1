package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "youguo-backend/internal/common/errors"
	"youguo-backend/internal/common/middleware"
	"youguo-backend/internal/features/task/models"
	"youguo-backend/internal/features/task/service"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.list)
		tasks.POST("", h.create)
		tasks.POST("/:id/subtasks/:subId/complete", h.completeSubTask)
	}
}

// @Summary List life tasks
// @Description Returns the authenticated user's life tasks with their sub-tasks.
// @Tags tasks
// @Produce json
// @Security GoogleIDToken
// @Success 200 {array} models.LifeTask
// @Router /tasks [get]
func (h *TaskHandler) list(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tasks, err := h.service.List(c.Request.Context(), user.ID)
	if err != nil {
		middleware.Abort(c, apperrors.NewStorageError("list tasks", err))
		return
	}

	if tasks == nil {
		tasks = []models.LifeTask{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary Create a life task
// @Description Breaks the title into three sub-task drafts (EASY/MEDIUM/HARD) and stores the new task. Canned drafts are substituted when generation is unavailable.
// @Tags tasks
// @Accept json
// @Produce json
// @Security GoogleIDToken
// @Param task body models.TaskCreate true "Task title"
// @Success 201 {object} models.LifeTask
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /tasks [post]
func (h *TaskHandler) create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.TaskCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Create(c.Request.Context(), user.ID, input.Title)
	if err != nil {
		middleware.Abort(c, apperrors.NewStorageError("create task", err))
		return
	}

	c.JSON(http.StatusCreated, task)
}

// @Summary Complete a sub-task
// @Description Marks a sub-task done and credits its reward exactly once. Re-completing an already-completed sub-task is rejected and earns nothing.
// @Tags tasks
// @Produce json
// @Security GoogleIDToken
// @Param id path string true "Task ID"
// @Param subId path string true "Sub-task ID"
// @Success 200 {object} service.CompletionResult
// @Failure 404 {object} middleware.ErrorResponse "Task or sub-task not found"
// @Failure 409 {object} middleware.ErrorResponse "Already completed"
// @Router /tasks/{id}/subtasks/{subId}/complete [post]
func (h *TaskHandler) completeSubTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.service.CompleteSubTask(c.Request.Context(), user.ID, c.Param("id"), c.Param("subId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeTaskNotFound, "Task not found"))
		case errors.Is(err, service.ErrSubTaskNotFound):
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeTaskNotFound, "Sub-task not found"))
		case errors.Is(err, service.ErrAlreadyCompleted):
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeAlreadyCompleted, "Sub-task already completed"))
		default:
			middleware.Abort(c, apperrors.NewStorageError("complete sub-task", err))
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
