package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ChecklistItem is a named sub-task whose completion flag feeds progress.
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents a unit of work assigned to zero or more users.
// AssignedTo references users but does not own them; entries are not
// existence-checked at write time.
type Task struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string          `json:"title" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Priority      TaskPriority    `json:"priority" gorm:"type:varchar(10);not null;default:'Low';index"`
	Status        TaskStatus      `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	DueDate       time.Time       `json:"dueDate"`
	AssignedTo    []uuid.UUID     `json:"assignedTo" gorm:"type:json;serializer:json"`
	CreatedBy     uuid.UUID       `json:"createdBy" gorm:"type:char(36);index"`
	Attachments   []string        `json:"attachments" gorm:"type:json;serializer:json"`
	TodoChecklist []ChecklistItem `json:"todoChecklist" gorm:"type:json;serializer:json"`
	Progress      int             `json:"progress" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsAssignedTo reports whether the given user id appears in AssignedTo.
func (t *Task) IsAssignedTo(id uuid.UUID) bool {
	for _, uid := range t.AssignedTo {
		if uid == id {
			return true
		}
	}
	return false
}

// CompletedTodoCount returns the number of completed checklist items.
func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// RemoveAssignee strips the given user id from AssignedTo.
func (t *Task) RemoveAssignee(id uuid.UUID) {
	kept := t.AssignedTo[:0]
	for _, uid := range t.AssignedTo {
		if uid != id {
			kept = append(kept, uid)
		}
	}
	t.AssignedTo = kept
}

// ReplaceChecklist swaps the checklist and rederives progress and status.
// Progress is the completed fraction rounded to the nearest integer percent,
// 0 for an empty checklist. Status follows progress: 0 is Pending, 100 is
// Completed, anything between is In Progress.
func (t *Task) ReplaceChecklist(items []ChecklistItem) {
	t.TodoChecklist = items

	total := len(items)
	if total == 0 {
		t.Progress = 0
	} else {
		completed := t.CompletedTodoCount()
		t.Progress = int(math.Round(float64(completed) / float64(total) * 100))
	}

	switch t.Progress {
	case 0:
		t.Status = StatusPending
	case 100:
		t.Status = StatusCompleted
	default:
		t.Status = StatusInProgress
	}
}

// ForceStatus sets the status directly. Completed additionally marks every
// checklist item done and pins progress at 100. Pending and In Progress leave
// progress untouched; only checklist replacement rederives it.
func (t *Task) ForceStatus(status TaskStatus) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
	t.Progress = 100
}
