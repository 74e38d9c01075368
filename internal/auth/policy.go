package auth

import (
	"errors"

	"teamtrack/internal/models"
)

// ErrForbidden is returned when the caller's role does not permit an operation.
var ErrForbidden = errors.New("operation requires admin role")

// Policy decides what a session may do with a task. There is one variant per
// role so every handler consults the same rules instead of re-deriving them.
type Policy interface {
	// CanRead reports whether the task is visible to the session.
	CanRead(claims Claims, task *models.Task) bool

	// CanWrite reports whether the session may mutate or delete the task.
	CanWrite(claims Claims, task *models.Task) bool

	// RequireAdmin gates tenant-level operations.
	RequireAdmin() error
}

// PolicyFor returns the policy variant for the session's role.
func PolicyFor(claims Claims) Policy {
	if claims.IsAdmin() {
		return adminPolicy{}
	}
	return memberPolicy{}
}

type adminPolicy struct{}

func (adminPolicy) CanRead(claims Claims, task *models.Task) bool {
	return task.ProjectID == claims.ProjectID
}

func (adminPolicy) CanWrite(claims Claims, task *models.Task) bool {
	return task.ProjectID == claims.ProjectID
}

func (adminPolicy) RequireAdmin() error {
	return nil
}

type memberPolicy struct{}

func (memberPolicy) CanRead(claims Claims, task *models.Task) bool {
	return task.ProjectID == claims.ProjectID
}

// CanWrite allows a member to mutate only tasks currently assigned to them.
// Unassigned tasks are admin-territory.
func (memberPolicy) CanWrite(claims Claims, task *models.Task) bool {
	if task.ProjectID != claims.ProjectID {
		return false
	}
	if task.Unassigned() {
		return false
	}
	return *task.AssignedTo == claims.UserID
}

func (memberPolicy) RequireAdmin() error {
	return ErrForbidden
}
