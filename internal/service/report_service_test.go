package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
)

func TestTaskRows(t *testing.T) {
	alice := model.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	bob := model.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}
	usersByID := map[uuid.UUID]model.User{alice.ID: alice, bob.ID: bob}

	due := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name               string
		task               model.Task
		expectedAssignedTo string
	}{
		{
			name: "two known assignees join as name and email",
			task: model.Task{
				Title:      "Shared",
				AssignedTo: []uuid.UUID{alice.ID, bob.ID},
			},
			expectedAssignedTo: "Alice (alice@example.com), Bob (bob@example.com)",
		},
		{
			name:               "no assignees renders Unassigned",
			task:               model.Task{Title: "Orphan"},
			expectedAssignedTo: "Unassigned",
		},
		{
			name: "assignees pointing at deleted users render Unassigned",
			task: model.Task{
				Title:      "Dangling",
				AssignedTo: []uuid.UUID{uuid.New()},
			},
			expectedAssignedTo: "Unassigned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.task.Priority = model.PriorityHigh
			tt.task.Status = model.StatusPending
			tt.task.DueDate = due

			rows := TaskRows([]model.Task{tt.task}, usersByID)

			assert.Len(t, rows, 1)
			assert.Equal(t, tt.task.Title, rows[0].Title)
			assert.Equal(t, "High", rows[0].Priority)
			assert.Equal(t, "Pending", rows[0].Status)
			assert.Equal(t, "2026-03-15", rows[0].DueDate)
			assert.Equal(t, tt.expectedAssignedTo, rows[0].AssignedTo)
		})
	}
}

func TestUserRow(t *testing.T) {
	user := model.User{Name: "Alice", Email: "alice@example.com"}
	counts := map[model.TaskStatus]int64{
		model.StatusPending:    2,
		model.StatusInProgress: 1,
		model.StatusCompleted:  3,
	}

	row := UserRow(user, counts)

	assert.Equal(t, "Alice", row.Name)
	assert.Equal(t, "alice@example.com", row.Email)
	assert.Equal(t, int64(6), row.TaskCount)
	assert.Equal(t, int64(2), row.PendingTasks)
	assert.Equal(t, int64(1), row.InProgressTasks)
	assert.Equal(t, int64(3), row.CompletedTasks)

	empty := UserRow(user, map[model.TaskStatus]int64{})
	assert.Equal(t, int64(0), empty.TaskCount)
}

func TestReportService_ExportTasks(t *testing.T) {
	t.Run("non-admin is denied", func(t *testing.T) {
		service := NewReportService(new(MockTaskRepository), new(MockUserRepository))

		buf, err := service.ExportTasks(context.Background(), userActor())
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, buf)
	})

	t.Run("admin gets a spreadsheet", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("List", mock.Anything, (*uuid.UUID)(nil), (*model.TaskStatus)(nil)).
			Return([]model.Task{{Title: "a"}}, nil)

		mockUsers := new(MockUserRepository)
		mockUsers.On("List", mock.Anything).Return([]model.User{}, nil)

		service := NewReportService(mockTasks, mockUsers)
		buf, err := service.ExportTasks(context.Background(), adminActor())

		assert.NoError(t, err)
		assert.NotNil(t, buf)
		assert.NotZero(t, buf.Len())
		mockTasks.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})
}

func TestReportService_ExportUsers(t *testing.T) {
	t.Run("non-admin is denied", func(t *testing.T) {
		service := NewReportService(new(MockTaskRepository), new(MockUserRepository))

		buf, err := service.ExportUsers(context.Background(), userActor())
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, buf)
	})

	t.Run("admin gets one row per user", func(t *testing.T) {
		alice := model.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}

		mockUsers := new(MockUserRepository)
		mockUsers.On("List", mock.Anything).Return([]model.User{alice}, nil)

		mockTasks := new(MockTaskRepository)
		mockTasks.On("StatusCounts", mock.Anything, &alice.ID).Return(map[model.TaskStatus]int64{
			model.StatusPending: 1,
		}, nil)

		service := NewReportService(mockTasks, mockUsers)
		buf, err := service.ExportUsers(context.Background(), adminActor())

		assert.NoError(t, err)
		assert.NotNil(t, buf)
		assert.NotZero(t, buf.Len())
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})
}
