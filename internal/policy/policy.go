package policy

import (
	"github.com/google/uuid"

	"github.com/hetx19/Task-Manager-Backend/internal/model"
)

// Actor is the authenticated identity performing a request. It is threaded
// explicitly through service calls, never read from ambient state.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanManageTasks reports whether the actor may create, generally update, or
// delete tasks. Admin only.
func CanManageTasks(a Actor) bool {
	return a.IsAdmin()
}

// CanViewTask reports whether the actor may read the given task: admins see
// everything, users only tasks they are assigned to.
func CanViewTask(a Actor, t *model.Task) bool {
	return a.IsAdmin() || t.IsAssignedTo(a.ID)
}

// CanUpdateProgress reports whether the actor may update the task's status or
// checklist: admin or assignee. Task existence is established by the caller,
// so a false result means authorization denied, not not-found.
func CanUpdateProgress(a Actor, t *model.Task) bool {
	return a.IsAdmin() || t.IsAssignedTo(a.ID)
}

// CanManageUsers reports whether the actor may list users or look them up by
// id. Admin only. Profile operations bypass this: they act on the actor's own
// record.
func CanManageUsers(a Actor) bool {
	return a.IsAdmin()
}

// CanExportReports reports whether the actor may export tabular reports or
// view the global dashboard. Admin only.
func CanExportReports(a Actor) bool {
	return a.IsAdmin()
}

// TaskScope returns the assignee filter for the actor's visible task set:
// nil for admins (all tasks), the actor's own id otherwise.
func TaskScope(a Actor) *uuid.UUID {
	if a.IsAdmin() {
		return nil
	}
	id := a.ID
	return &id
}
