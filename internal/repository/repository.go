package repository

import (
	"time"

	"teamtrack/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithProject creates a user and their new project within a single
	// transaction. Used for admin registration.
	CreateWithProject(user *models.User, project *models.Project) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(email string) (bool, error)

	// ListByProject lists all users belonging to a project
	ListByProject(projectID uint64) ([]models.User, error)

	// FindProjectAdmin finds an admin user of a project
	FindProjectAdmin(projectID uint64) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByInviteCode finds a project by invite code
	FindByInviteCode(code string) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// DeleteCascade removes a project together with its tasks and users
	// in a single transaction.
	DeleteCascade(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID uint64
	Term      string
}

// WorkloadStat is one row of the per-assignee open task counts
type WorkloadStat struct {
	AssignedTo *uint64
	FullName   string
	Email      string
	Count      int64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// Save persists changes to an existing task
	Save(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// FindByIDInProject finds a task by ID scoped to a project. A task in
	// another project behaves exactly like a missing one.
	FindByIDInProject(id, projectID uint64) (*models.Task, error)

	// List retrieves a project's tasks, optionally filtered by a search term
	List(filter TaskFilter) ([]models.Task, error)

	// WorkloadStats counts non-completed tasks grouped by assignee
	WorkloadStats(projectID uint64) ([]WorkloadStat, error)

	// DueSoonForUser lists a user's non-completed tasks due before the cutoff,
	// ordered by due date ascending
	DueSoonForUser(userID uint64, before time.Time) ([]models.Task, error)

	// OverdueInProject lists a project's non-completed tasks due before the cutoff
	OverdueInProject(projectID uint64, before time.Time) ([]models.Task, error)
}
