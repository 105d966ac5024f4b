package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

// CreateTaskInput carries the fields an admin supplies when creating a task.
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      model.TaskPriority
	DueDate       time.Time
	AssignedTo    []uuid.UUID
	Attachments   []string
	TodoChecklist []model.ChecklistItem
}

// UpdateTaskInput carries a partial general update; nil fields are left as-is.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *model.TaskPriority
	DueDate       *time.Time
	AssignedTo    *[]uuid.UUID
	Attachments   *[]string
	TodoChecklist *[]model.ChecklistItem
}

// TaskService exposes role-scoped task operations. Every method takes the
// acting identity explicitly and consults the authorization policy before
// touching the store.
type TaskService interface {
	List(ctx context.Context, actor policy.Actor, status *model.TaskStatus) ([]model.Task, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
	UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, status model.TaskStatus) (*model.Task, error)
	UpdateChecklist(ctx context.Context, actor policy.Actor, id uuid.UUID, items []model.ChecklistItem) (*model.Task, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// List returns tasks in the actor's scope, optionally filtered by status.
func (s *taskService) List(ctx context.Context, actor policy.Actor, status *model.TaskStatus) ([]model.Task, error) {
	tasks, err := s.taskRepo.List(ctx, policy.TaskScope(actor), status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task the actor is allowed to see. A task outside the
// actor's scope is an authorization failure, not a missing record: existence
// is established before the policy check.
func (s *taskService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewTask(actor, task) {
		return nil, apperrors.ErrForbidden
	}
	return task, nil
}

// Create creates a task. Admin only. AssignedTo entries are not checked for
// existence, only for array shape (done at the binding layer).
func (s *taskService) Create(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*model.Task, error) {
	if !policy.CanManageTasks(actor) {
		return nil, apperrors.ErrForbidden
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityLow
	}

	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   actor.ID,
		Attachments: input.Attachments,
	}
	task.ReplaceChecklist(input.TodoChecklist)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update applies a general update to core fields. Admin only. Replacing the
// checklist through this path rederives progress and status like any other
// checklist replacement.
func (s *taskService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, input UpdateTaskInput) (*model.Task, error) {
	if !policy.CanManageTasks(actor) {
		return nil, apperrors.ErrForbidden
	}

	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.TodoChecklist != nil {
		task.ReplaceChecklist(*input.TodoChecklist)
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task. Admin only.
func (s *taskService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if !policy.CanManageTasks(actor) {
		return apperrors.ErrForbidden
	}
	if _, err := s.findTask(ctx, id); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// UpdateStatus sets the task status directly. Allowed for admins and
// assignees. An empty status leaves the task unchanged. Moving to Completed
// completes the whole checklist and pins progress at 100; moving to Pending
// or In Progress leaves progress as it was.
func (s *taskService) UpdateStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateProgress(actor, task) {
		return nil, apperrors.ErrForbidden
	}

	if status == "" {
		return task, nil
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	task.ForceStatus(status)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	return task, nil
}

// UpdateChecklist replaces the task checklist and rederives progress and
// status. Allowed for admins and assignees.
func (s *taskService) UpdateChecklist(ctx context.Context, actor policy.Actor, id uuid.UUID, items []model.ChecklistItem) (*model.Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateProgress(actor, task) {
		return nil, apperrors.ErrForbidden
	}

	task.ReplaceChecklist(items)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task checklist: %w", err)
	}
	return task, nil
}

func (s *taskService) findTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}
