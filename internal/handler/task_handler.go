package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ChecklistItemRequest is one checklist entry in a request payload.
type ChecklistItemRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CreateTaskRequest represents a task creation payload.
type CreateTaskRequest struct {
	Title         string                 `json:"title" validate:"required"`
	Description   string                 `json:"description"`
	Priority      model.TaskPriority     `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate       time.Time              `json:"dueDate"`
	AssignedTo    []string               `json:"assignedTo"`
	Attachments   []string               `json:"attachments"`
	TodoChecklist []ChecklistItemRequest `json:"todoChecklist"`
}

// UpdateTaskRequest represents a partial general task update.
type UpdateTaskRequest struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	Priority      *model.TaskPriority     `json:"priority"`
	DueDate       *time.Time              `json:"dueDate"`
	AssignedTo    *[]string               `json:"assignedTo"`
	Attachments   *[]string               `json:"attachments"`
	TodoChecklist *[]ChecklistItemRequest `json:"todoChecklist"`
}

// UpdateStatusRequest represents a direct status update. An empty status
// leaves the task unchanged.
type UpdateStatusRequest struct {
	Status model.TaskStatus `json:"status"`
}

// UpdateChecklistRequest represents a checklist replacement. An empty list
// is allowed and resets progress to zero.
type UpdateChecklistRequest struct {
	TodoChecklist []ChecklistItemRequest `json:"todoChecklist"`
}

// TaskResponse is a task annotated with its completed checklist item count.
type TaskResponse struct {
	model.Task
	CompletedTodoCount int `json:"completedTodoCount"`
}

// ListTasks godoc
// @Summary List tasks in the actor's scope
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var status *model.TaskStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.TaskStatus(raw)
		if !s.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: fmt.Sprintf("unknown status %q", raw),
				Code:  "VALIDATION",
			})
		}
		status = &s
	}

	tasks, err := h.taskService.List(c.Request().Context(), actor, status)
	if err != nil {
		return serviceError(err)
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, TaskResponse{Task: task, CompletedTodoCount: task.CompletedTodoCount()})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTask godoc
// @Summary Get task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "TASK_NOT_FOUND", errors.ErrTaskNotFound.Error())
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, TaskResponse{Task: *task, CompletedTodoCount: task.CompletedTodoCount()})
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION",
		})
	}

	assignees, err := parseAssignees(req.AssignedTo)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION",
		})
	}

	task, err := h.taskService.Create(c.Request().Context(), actor, service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    assignees,
		Attachments:   req.Attachments,
		TodoChecklist: toChecklist(req.TodoChecklist),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update task core fields
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "TASK_NOT_FOUND", errors.ErrTaskNotFound.Error())
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION",
		})
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Attachments: req.Attachments,
	}
	if req.AssignedTo != nil {
		assignees, err := parseAssignees(*req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "VALIDATION",
			})
		}
		input.AssignedTo = &assignees
	}
	if req.TodoChecklist != nil {
		items := toChecklist(*req.TodoChecklist)
		input.TodoChecklist = &items
	}

	task, err := h.taskService.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "TASK_NOT_FOUND", errors.ErrTaskNotFound.Error())
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), actor, id); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "task deleted",
	})
}

// UpdateTaskStatus godoc
// @Summary Update task status
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) UpdateTaskStatus(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "TASK_NOT_FOUND", errors.ErrTaskNotFound.Error())
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION",
		})
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTaskChecklist godoc
// @Summary Replace task checklist
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateChecklistRequest true "Checklist items"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/todo [put]
func (h *TaskHandler) UpdateTaskChecklist(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "TASK_NOT_FOUND", errors.ErrTaskNotFound.Error())
	if err != nil {
		return err
	}

	var req UpdateChecklistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION",
		})
	}

	task, err := h.taskService.UpdateChecklist(c.Request().Context(), actor, id, toChecklist(req.TodoChecklist))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// parseAssignees validates assignee ids. The entries are only checked for
// shape; existence is not verified at write time.
func parseAssignees(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toChecklist(items []ChecklistItemRequest) []model.ChecklistItem {
	checklist := make([]model.ChecklistItem, 0, len(items))
	for _, item := range items {
		checklist = append(checklist, model.ChecklistItem{Text: item.Text, Completed: item.Completed})
	}
	return checklist
}
