package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

func TestDashboardService_Global(t *testing.T) {
	t.Run("non-admin is denied", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		service := NewDashboardService(mockRepo)

		dashboard, err := service.Global(context.Background(), userActor())
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, dashboard)
		mockRepo.AssertNotCalled(t, "CountAll")
	})

	t.Run("admin gets distribution with an All bucket", func(t *testing.T) {
		recent := []repository.TaskSummary{{ID: uuid.New(), Title: "latest"}}

		mockRepo := new(MockTaskRepository)
		mockRepo.On("CountAll", mock.Anything, (*uuid.UUID)(nil)).Return(int64(3), nil)
		mockRepo.On("StatusCounts", mock.Anything, (*uuid.UUID)(nil)).Return(map[model.TaskStatus]int64{
			model.StatusPending:    1,
			model.StatusInProgress: 1,
			model.StatusCompleted:  1,
		}, nil)
		mockRepo.On("PriorityCounts", mock.Anything, (*uuid.UUID)(nil)).Return(map[model.TaskPriority]int64{
			model.PriorityLow:  2,
			model.PriorityHigh: 1,
		}, nil)
		mockRepo.On("CountOverdue", mock.Anything, (*uuid.UUID)(nil), mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		mockRepo.On("FindRecent", mock.Anything, (*uuid.UUID)(nil), 10).Return(recent, nil)

		service := NewDashboardService(mockRepo)
		dashboard, err := service.Global(context.Background(), adminActor())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), dashboard.Statistics.TotalTasks)
		assert.Equal(t, int64(1), dashboard.Statistics.PendingTasks)
		assert.Equal(t, int64(1), dashboard.Statistics.InProgressTasks)
		assert.Equal(t, int64(1), dashboard.Statistics.CompletedTasks)
		assert.Equal(t, int64(1), dashboard.Statistics.OverDueTasks)

		// Distribution keys strip whitespace and carry an All bucket equal
		// to the scope's total.
		assert.Equal(t, map[string]int64{
			"Pending":    1,
			"InProgress": 1,
			"Completed":  1,
			"All":        3,
		}, dashboard.Charts.TaskDistribution)

		// Every priority appears even when its count is zero.
		assert.Equal(t, map[string]int64{
			"Low":    2,
			"Medium": 0,
			"High":   1,
		}, dashboard.Charts.TaskPriorityLevels)

		assert.Equal(t, recent, dashboard.RecentTasks)
		mockRepo.AssertExpectations(t)
	})
}

func TestDashboardService_Scoped(t *testing.T) {
	actor := userActor()
	scopeMatcher := mock.MatchedBy(func(scope *uuid.UUID) bool {
		return scope != nil && *scope == actor.ID
	})

	mockRepo := new(MockTaskRepository)
	mockRepo.On("CountAll", mock.Anything, scopeMatcher).Return(int64(2), nil)
	mockRepo.On("StatusCounts", mock.Anything, scopeMatcher).Return(map[model.TaskStatus]int64{
		model.StatusPending:   1,
		model.StatusCompleted: 1,
	}, nil)
	mockRepo.On("PriorityCounts", mock.Anything, scopeMatcher).Return(map[model.TaskPriority]int64{
		model.PriorityMedium: 2,
	}, nil)
	mockRepo.On("CountOverdue", mock.Anything, scopeMatcher, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	mockRepo.On("FindRecent", mock.Anything, scopeMatcher, 10).Return([]repository.TaskSummary{}, nil)

	service := NewDashboardService(mockRepo)
	dashboard, err := service.Scoped(context.Background(), actor)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.Statistics.TotalTasks)
	assert.Equal(t, int64(2), dashboard.Charts.TaskDistribution["All"])
	assert.Equal(t, int64(0), dashboard.Charts.TaskDistribution["InProgress"])
	assert.Equal(t, int64(2), dashboard.Charts.TaskPriorityLevels["Medium"])
	mockRepo.AssertExpectations(t)
}

func TestDistributionKey(t *testing.T) {
	assert.Equal(t, "Pending", distributionKey(model.StatusPending))
	assert.Equal(t, "InProgress", distributionKey(model.StatusInProgress))
	assert.Equal(t, "Completed", distributionKey(model.StatusCompleted))
}
