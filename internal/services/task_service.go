package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"teamtrack/internal/auth"
	"teamtrack/internal/constants"
	"teamtrack/internal/models"
	"teamtrack/internal/repository"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidAssignee      = errors.New("assignee is not a member of the project")
)

// TaskService handles task business logic. Every operation is scoped to the
// caller's project; the session claims are the only source of tenant identity.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasks returns the project's tasks, optionally filtered by a search term
// matched case-insensitively against title, description, and assignee name.
func (s *TaskService) ListTasks(claims auth.Claims, term string) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID: claims.ProjectID,
		Term:      term,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// SaveTaskInput represents input for creating or updating a task. ID of zero
// means create. Tenant and creator are never taken from the client.
type SaveTaskInput struct {
	ID          uint64
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	DueDate     time.Time
	AssignedTo  *uint64
}

// SaveTask creates or updates a task on behalf of the session.
func (s *TaskService) SaveTask(claims auth.Claims, input SaveTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	assignee, err := s.normalizeAssignee(claims, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.DueDate.IsZero() {
		input.DueDate = time.Now().AddDate(0, 0, constants.DefaultDueDays)
	}

	if input.ID == 0 {
		return s.createTask(claims, input, assignee)
	}
	return s.updateTask(claims, input, assignee)
}

// createTask inserts a new task. Any authenticated member of the project may
// create one; the project id comes from the session, never the client.
func (s *TaskService) createTask(claims auth.Claims, input SaveTaskInput, assignee *uint64) (*models.Task, error) {
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
		ProjectID:   claims.ProjectID,
		AssignedTo:  assignee,
		CreatedBy:   claims.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// updateTask applies the input to an existing task after the ownership check.
func (s *TaskService) updateTask(claims auth.Claims, input SaveTaskInput, assignee *uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDInProject(input.ID, claims.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !auth.PolicyFor(claims).CanWrite(claims, task) {
		return nil, ErrTaskPermissionDenied
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Status = input.Status
	task.DueDate = input.DueDate
	task.AssignedTo = assignee
	task.AssignedUser = nil

	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task under the same ownership rule as updates.
func (s *TaskService) DeleteTask(claims auth.Claims, taskID uint64) error {
	task, err := s.taskRepo.FindByIDInProject(taskID, claims.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !auth.PolicyFor(claims).CanWrite(claims, task) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// WorkloadStats counts the project's non-completed tasks per assignee.
func (s *TaskService) WorkloadStats(claims auth.Claims) ([]repository.WorkloadStat, error) {
	stats, err := s.taskRepo.WorkloadStats(claims.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute workload stats: %w", err)
	}

	return stats, nil
}

// MyNotifications lists the caller's open tasks that are overdue, due today,
// or due tomorrow, ordered by due date.
func (s *TaskService) MyNotifications(claims auth.Claims, now time.Time) ([]models.Task, error) {
	startOfDayAfterTomorrow := startOfDay(now).AddDate(0, 0, 2)

	tasks, err := s.taskRepo.DueSoonForUser(claims.UserID, startOfDayAfterTomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return tasks, nil
}

// AdminOverdue lists the project's open tasks whose due date has passed.
// Admin only.
func (s *TaskService) AdminOverdue(claims auth.Claims, now time.Time) ([]models.Task, error) {
	if err := auth.PolicyFor(claims).RequireAdmin(); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.OverdueInProject(claims.ProjectID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue tasks: %w", err)
	}

	return tasks, nil
}

// normalizeAssignee maps the zero sentinel to "unassigned" and verifies a
// real assignee belongs to the caller's project.
func (s *TaskService) normalizeAssignee(claims auth.Claims, assignedTo *uint64) (*uint64, error) {
	if assignedTo == nil || *assignedTo == 0 {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(*assignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}

	if user.ProjectID != claims.ProjectID {
		return nil, ErrInvalidAssignee
	}

	return assignedTo, nil
}

// startOfDay truncates a time to midnight in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
