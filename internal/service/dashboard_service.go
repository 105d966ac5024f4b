package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

// DashboardStatistics holds headline counts for a scope. OverDueTasks is
// computed at request time, never persisted.
type DashboardStatistics struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverDueTasks    int64 `json:"overDueTasks"`
}

// DashboardCharts holds the distribution mappings. Distribution keys are
// status names with internal whitespace stripped, plus an All bucket equal
// to the scope's total.
type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// Dashboard is the aggregate payload for the admin or user dashboard.
type Dashboard struct {
	Statistics  DashboardStatistics      `json:"statistics"`
	Charts      DashboardCharts          `json:"charts"`
	RecentTasks []repository.TaskSummary `json:"recentTasks"`
}

const recentTaskLimit = 10

// DashboardService computes per-scope statistics and distributions.
type DashboardService interface {
	Global(ctx context.Context, actor policy.Actor) (*Dashboard, error)
	Scoped(ctx context.Context, actor policy.Actor) (*Dashboard, error)
}

type dashboardService struct {
	taskRepo repository.TaskRepository
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(taskRepo repository.TaskRepository) DashboardService {
	return &dashboardService{taskRepo: taskRepo}
}

// Global builds the unscoped dashboard. Admin only.
func (s *dashboardService) Global(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.build(ctx, nil)
}

// Scoped builds the dashboard over tasks assigned to the actor.
func (s *dashboardService) Scoped(ctx context.Context, actor policy.Actor) (*Dashboard, error) {
	scope := actor.ID
	return s.build(ctx, &scope)
}

func (s *dashboardService) build(ctx context.Context, scope *uuid.UUID) (*Dashboard, error) {
	total, err := s.taskRepo.CountAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	statusCounts, err := s.taskRepo.StatusCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	priorityCounts, err := s.taskRepo.PriorityCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("priority counts: %w", err)
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, scope, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count overdue: %w", err)
	}

	recent, err := s.taskRepo.FindRecent(ctx, scope, recentTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}

	distribution := map[string]int64{
		distributionKey(model.StatusPending):    statusCounts[model.StatusPending],
		distributionKey(model.StatusInProgress): statusCounts[model.StatusInProgress],
		distributionKey(model.StatusCompleted):  statusCounts[model.StatusCompleted],
		"All":                                   total,
	}

	priorities := map[string]int64{
		string(model.PriorityLow):    priorityCounts[model.PriorityLow],
		string(model.PriorityMedium): priorityCounts[model.PriorityMedium],
		string(model.PriorityHigh):   priorityCounts[model.PriorityHigh],
	}

	return &Dashboard{
		Statistics: DashboardStatistics{
			TotalTasks:      total,
			PendingTasks:    statusCounts[model.StatusPending],
			InProgressTasks: statusCounts[model.StatusInProgress],
			CompletedTasks:  statusCounts[model.StatusCompleted],
			OverDueTasks:    overdue,
		},
		Charts: DashboardCharts{
			TaskDistribution:   distribution,
			TaskPriorityLevels: priorities,
		},
		RecentTasks: recent,
	}, nil
}

// distributionKey strips internal whitespace from a status name, so
// "In Progress" charts as "InProgress".
func distributionKey(s model.TaskStatus) string {
	return strings.ReplaceAll(string(s), " ", "")
}
