package repository

import (
	"time"

	"gorm.io/gorm"

	"teamtrack/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// Save persists changes to an existing task
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// FindByIDInProject finds a task by ID scoped to a project. The project
// predicate is part of the query so a cross-tenant ID is indistinguishable
// from a missing one.
func (r *GormTaskRepository) FindByIDInProject(id, projectID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Preload("AssignedUser").
		Where("tasks.id = ? AND tasks.project_id = ?", id, projectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves a project's tasks, optionally filtered by a search term
// matched against title, description, and assignee name.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).
		Where("tasks.project_id = ?", filter.ProjectID)

	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		query = query.
			Joins("LEFT JOIN users assignees ON assignees.id = tasks.assigned_to").
			Where(
				"LOWER(tasks.title) LIKE LOWER(?) OR LOWER(tasks.description) LIKE LOWER(?) OR LOWER(assignees.full_name) LIKE LOWER(?)",
				pattern, pattern, pattern,
			)
	}

	var tasks []models.Task
	if err := query.
		Order("tasks.created_at DESC").
		Preload("AssignedUser").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// WorkloadStats counts non-completed tasks grouped by assignee. Grouping is
// keyed by the assignee's user ID; two members sharing a display name stay
// separate rows.
func (r *GormTaskRepository) WorkloadStats(projectID uint64) ([]WorkloadStat, error) {
	var stats []WorkloadStat

	err := r.db.Model(&models.Task{}).
		Select("tasks.assigned_to, assignees.full_name, assignees.email, COUNT(*) AS count").
		Joins("LEFT JOIN users assignees ON assignees.id = tasks.assigned_to").
		Where("tasks.project_id = ? AND tasks.status <> ?", projectID, models.TaskStatusCompleted).
		Group("tasks.assigned_to, assignees.full_name, assignees.email").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// DueSoonForUser lists a user's non-completed tasks due before the cutoff
func (r *GormTaskRepository) DueSoonForUser(userID uint64, before time.Time) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("assigned_to = ? AND status <> ? AND due_date < ?", userID, models.TaskStatusCompleted, before).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// OverdueInProject lists a project's non-completed tasks due before the cutoff
func (r *GormTaskRepository) OverdueInProject(projectID uint64, before time.Time) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("AssignedUser").
		Where("project_id = ? AND status <> ? AND due_date < ?", projectID, models.TaskStatusCompleted, before).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
