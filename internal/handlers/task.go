package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/middleware"
	"github.com/mkurosawa/task-manager-api/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns the tasks visible to the caller, optionally filtered by
// status, priority, tag and free-text search.
func (h *TaskHandler) List(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	result, err := h.tasks.List(c.Request.Context(), p, services.ListTasksQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns a single task by id.
func (h *TaskHandler) Get(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	task, err := h.tasks.GetByID(c.Request.Context(), p, c.Param("taskId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create stores a new task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	task, err := h.tasks.Create(c.Request.Context(), p, services.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
		Tags:            req.Tags,
		AssignedUserIDs: req.AssignedUserIDs,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	p := middleware.GetPrincipal(c)
	task, err := h.tasks.Update(c.Request.Context(), p, c.Param("taskId"), services.UpdateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
		Tags:            req.Tags,
		AssignedUserIDs: req.AssignedUserIDs,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete removes a task and its attachment blobs.
func (h *TaskHandler) Delete(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	deleted, err := h.tasks.Delete(c.Request.Context(), p, c.Param("taskId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !deleted {
		apperrors.Internal(c, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
