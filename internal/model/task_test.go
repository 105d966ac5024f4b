package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTask_ReplaceChecklist(t *testing.T) {
	tests := []struct {
		name             string
		items            []ChecklistItem
		expectedProgress int
		expectedStatus   TaskStatus
	}{
		{
			name:             "empty checklist resets to pending",
			items:            []ChecklistItem{},
			expectedProgress: 0,
			expectedStatus:   StatusPending,
		},
		{
			name:             "nil checklist resets to pending",
			items:            nil,
			expectedProgress: 0,
			expectedStatus:   StatusPending,
		},
		{
			name: "half complete is in progress",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
			},
			expectedProgress: 50,
			expectedStatus:   StatusInProgress,
		},
		{
			name: "no items complete is pending",
			items: []ChecklistItem{
				{Text: "a"},
				{Text: "b"},
			},
			expectedProgress: 0,
			expectedStatus:   StatusPending,
		},
		{
			name: "all items complete is completed",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
			},
			expectedProgress: 100,
			expectedStatus:   StatusCompleted,
		},
		{
			name: "one of three rounds to 33",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
				{Text: "c", Completed: false},
			},
			expectedProgress: 33,
			expectedStatus:   StatusInProgress,
		},
		{
			name: "two of three rounds to 67",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c", Completed: false},
			},
			expectedProgress: 67,
			expectedStatus:   StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: StatusInProgress, Progress: 42}
			task.ReplaceChecklist(tt.items)

			assert.Equal(t, tt.expectedProgress, task.Progress)
			assert.Equal(t, tt.expectedStatus, task.Status)
		})
	}
}

func TestTask_ForceStatus(t *testing.T) {
	t.Run("completed marks every item done and pins progress", func(t *testing.T) {
		task := &Task{
			Status:   StatusInProgress,
			Progress: 50,
			TodoChecklist: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
			},
		}

		task.ForceStatus(StatusCompleted)

		assert.Equal(t, StatusCompleted, task.Status)
		assert.Equal(t, 100, task.Progress)
		for _, item := range task.TodoChecklist {
			assert.True(t, item.Completed)
		}
	})

	t.Run("pending leaves progress and checklist untouched", func(t *testing.T) {
		task := &Task{
			Status:   StatusInProgress,
			Progress: 50,
			TodoChecklist: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
			},
		}

		task.ForceStatus(StatusPending)

		assert.Equal(t, StatusPending, task.Status)
		assert.Equal(t, 50, task.Progress)
		assert.True(t, task.TodoChecklist[0].Completed)
		assert.False(t, task.TodoChecklist[1].Completed)
	})

	t.Run("in progress leaves progress untouched", func(t *testing.T) {
		task := &Task{Status: StatusCompleted, Progress: 100}

		task.ForceStatus(StatusInProgress)

		assert.Equal(t, StatusInProgress, task.Status)
		assert.Equal(t, 100, task.Progress)
	})
}

func TestTask_RemoveAssignee(t *testing.T) {
	keep := uuid.New()
	gone := uuid.New()

	task := &Task{AssignedTo: []uuid.UUID{keep, gone, keep}}
	task.RemoveAssignee(gone)

	assert.Equal(t, []uuid.UUID{keep, keep}, task.AssignedTo)

	// Removing an id that is not present is a no-op.
	task.RemoveAssignee(uuid.New())
	assert.Equal(t, []uuid.UUID{keep, keep}, task.AssignedTo)
}

func TestTask_IsAssignedTo(t *testing.T) {
	assignee := uuid.New()
	task := &Task{AssignedTo: []uuid.UUID{uuid.New(), assignee}}

	assert.True(t, task.IsAssignedTo(assignee))
	assert.False(t, task.IsAssignedTo(uuid.New()))
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, TaskStatus("Done").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTaskPriority_Valid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, TaskPriority("Urgent").Valid())
}
