package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
	"github.com/hetx19/Task-Manager-Backend/internal/report"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

const assigneeSeparator = ", "

// TaskReportRow is one exported row of the task report.
type TaskReportRow struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	AssignedTo  string
}

// UserReportRow is one exported row of the user report. Counts follow the
// dashboard counting rules, scoped to tasks assigned to the user.
type UserReportRow struct {
	Name            string
	Email           string
	TaskCount       int64
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

// ReportService produces downloadable tabular exports. Admin only.
type ReportService interface {
	ExportTasks(ctx context.Context, actor policy.Actor) (*bytes.Buffer, error)
	ExportUsers(ctx context.Context, actor policy.Actor) (*bytes.Buffer, error)
}

type reportService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewReportService creates a new report service.
func NewReportService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) ReportService {
	return &reportService{taskRepo: taskRepo, userRepo: userRepo}
}

// ExportTasks renders every task as a spreadsheet row.
func (s *reportService) ExportTasks(ctx context.Context, actor policy.Actor) (*bytes.Buffer, error) {
	if !policy.CanExportReports(actor) {
		return nil, apperrors.ErrForbidden
	}

	tasks, err := s.taskRepo.List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	byID := make(map[uuid.UUID]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := TaskRows(tasks, byID)
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{r.Title, r.Description, r.Priority, r.Status, r.DueDate, r.AssignedTo}
	}

	headers := []string{"Title", "Description", "Priority", "Status", "Due Date", "Assigned To"}
	return report.WriteRows(headers, cells)
}

// ExportUsers renders every user with their task counts as a spreadsheet row.
func (s *reportService) ExportUsers(ctx context.Context, actor policy.Actor) (*bytes.Buffer, error) {
	if !policy.CanExportReports(actor) {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	rows := make([]UserReportRow, 0, len(users))
	for _, user := range users {
		scope := user.ID
		counts, err := s.taskRepo.StatusCounts(ctx, &scope)
		if err != nil {
			return nil, fmt.Errorf("task counts for user %s: %w", user.ID, err)
		}
		rows = append(rows, UserRow(user, counts))
	}

	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{r.Name, r.Email, r.TaskCount, r.PendingTasks, r.InProgressTasks, r.CompletedTasks}
	}

	headers := []string{"Name", "Email", "Total Assigned Tasks", "Pending Tasks", "In Progress Tasks", "Completed Tasks"}
	return report.WriteRows(headers, cells)
}

// TaskRows shapes tasks into report rows. Assignees render as "Name (email)"
// joined with a separator; a task with no assignees renders the literal
// string "Unassigned".
func TaskRows(tasks []model.Task, usersByID map[uuid.UUID]model.User) []TaskReportRow {
	rows := make([]TaskReportRow, 0, len(tasks))
	for _, task := range tasks {
		assignees := make([]string, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if user, ok := usersByID[id]; ok {
				assignees = append(assignees, fmt.Sprintf("%s (%s)", user.Name, user.Email))
			}
		}
		assignedTo := "Unassigned"
		if len(assignees) > 0 {
			assignedTo = strings.Join(assignees, assigneeSeparator)
		}

		rows = append(rows, TaskReportRow{
			Title:       task.Title,
			Description: task.Description,
			Priority:    string(task.Priority),
			Status:      string(task.Status),
			DueDate:     task.DueDate.Format("2006-01-02"),
			AssignedTo:  assignedTo,
		})
	}
	return rows
}

// UserRow shapes a user and their status counts into a report row.
func UserRow(user model.User, counts map[model.TaskStatus]int64) UserReportRow {
	return UserReportRow{
		Name:            user.Name,
		Email:           user.Email,
		TaskCount:       counts[model.StatusPending] + counts[model.StatusInProgress] + counts[model.StatusCompleted],
		PendingTasks:    counts[model.StatusPending],
		InProgressTasks: counts[model.StatusInProgress],
		CompletedTasks:  counts[model.StatusCompleted],
	}
}
