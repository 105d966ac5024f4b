package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hetx19/Task-Manager-Backend/internal/model"
)

// TaskSummary is the projection used for dashboard recent-task listings.
type TaskSummary struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Status    model.TaskStatus   `json:"status"`
	Priority  model.TaskPriority `json:"priority"`
	DueDate   time.Time          `json:"dueDate"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TaskRepository defines task persistence operations. Methods taking an
// assignee pointer are scoped to tasks assigned to that user when non-nil,
// and unscoped otherwise.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, assignee *uuid.UUID, status *model.TaskStatus) ([]model.Task, error)
	FindAssigned(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	DeleteByCreator(ctx context.Context, userID uuid.UUID) error
	CountAll(ctx context.Context, assignee *uuid.UUID) (int64, error)
	CountOverdue(ctx context.Context, assignee *uuid.UUID, now time.Time) (int64, error)
	StatusCounts(ctx context.Context, assignee *uuid.UUID) (map[model.TaskStatus]int64, error)
	PriorityCounts(ctx context.Context, assignee *uuid.UUID) (map[model.TaskPriority]int64, error)
	FindRecent(ctx context.Context, assignee *uuid.UUID, limit int) ([]TaskSummary, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// scoped applies the assignee filter. AssignedTo is a JSON array of user id
// strings, so membership is a JSON_CONTAINS check.
func (r *taskRepository) scoped(ctx context.Context, assignee *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if assignee != nil {
		q = q.Where("JSON_CONTAINS(assigned_to, JSON_QUOTE(?))", assignee.String())
	}
	return q
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, assignee *uuid.UUID, status *model.TaskStatus) ([]model.Task, error) {
	q := r.scoped(ctx, assignee)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var tasks []model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindAssigned(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.scoped(ctx, &userID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) DeleteByCreator(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "created_by = ?", userID).Error
}

func (r *taskRepository) CountAll(ctx context.Context, assignee *uuid.UUID) (int64, error) {
	var count int64
	if err := r.scoped(ctx, assignee).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) CountOverdue(ctx context.Context, assignee *uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.scoped(ctx, assignee).
		Where("status <> ?", model.StatusCompleted).
		Where("due_date < ?", now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) StatusCounts(ctx context.Context, assignee *uuid.UUID) (map[model.TaskStatus]int64, error) {
	var rows []struct {
		Status model.TaskStatus
		Count  int64
	}
	err := r.scoped(ctx, assignee).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *taskRepository) PriorityCounts(ctx context.Context, assignee *uuid.UUID) (map[model.TaskPriority]int64, error) {
	var rows []struct {
		Priority model.TaskPriority
		Count    int64
	}
	err := r.scoped(ctx, assignee).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

func (r *taskRepository) FindRecent(ctx context.Context, assignee *uuid.UUID, limit int) ([]TaskSummary, error) {
	var recent []TaskSummary
	err := r.scoped(ctx, assignee).
		Select("id, title, status, priority, due_date, created_at").
		Order("created_at DESC").
		Limit(limit).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}
