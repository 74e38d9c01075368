package dto

import (
	"time"

	"teamtrack/internal/auth"
	"teamtrack/internal/models"
)

// UnassignedLabel is the display label for tasks with no assignee.
const UnassignedLabel = "Unassigned"

// TaskView represents a task row in the dashboard listing. CanManage tells
// the presentation layer whether to show edit/delete controls for the caller.
type TaskView struct {
	ID              uint64              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Priority        models.TaskPriority `json:"priority"`
	Status          models.TaskStatus   `json:"status"`
	DueDate         string              `json:"due_date"`
	AssignedTo      *uint64             `json:"assigned_to"`
	AssignedToName  string              `json:"assigned_to_name"`
	AssignedToEmail string              `json:"assigned_to_email"`
	CanManage       bool                `json:"can_manage"`
}

// NotificationDTO is one entry of the caller's due-date alerts.
type NotificationDTO struct {
	Title      string    `json:"title"`
	DueDate    time.Time `json:"due_date"`
	IsOverdue  bool      `json:"is_overdue"`
	IsDueToday bool      `json:"is_due_today"`
}

// OverdueTaskDTO is one entry of the admin overdue report.
type OverdueTaskDTO struct {
	Title           string    `json:"title"`
	DueDate         time.Time `json:"due_date"`
	AssignedToName  string    `json:"assigned_to_name"`
	AssignedToEmail string    `json:"assigned_to_email"`
}

// WorkloadStatDTO is one bar of the workload chart.
type WorkloadStatDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Count int64  `json:"count"`
}

// ToTaskView converts a task to its listing view for the given session.
func ToTaskView(task models.Task, claims auth.Claims) TaskView {
	view := TaskView{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		Status:         task.Status,
		DueDate:        task.DueDate.Format("2006-01-02"),
		AssignedTo:     task.AssignedTo,
		AssignedToName: UnassignedLabel,
		CanManage:      auth.PolicyFor(claims).CanWrite(claims, &task),
	}

	if task.AssignedUser != nil {
		view.AssignedToName = task.AssignedUser.FullName
		view.AssignedToEmail = task.AssignedUser.Email
	}

	return view
}

// ToTaskViews converts a task list for the given session.
func ToTaskViews(tasks []models.Task, claims auth.Claims) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = ToTaskView(task, claims)
	}
	return views
}

// ToNotificationDTO classifies a due-soon task relative to the given moment.
func ToNotificationDTO(task models.Task, now time.Time) NotificationDTO {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	return NotificationDTO{
		Title:      task.Title,
		DueDate:    task.DueDate,
		IsOverdue:  task.DueDate.Before(startOfToday),
		IsDueToday: !task.DueDate.Before(startOfToday) && task.DueDate.Before(startOfTomorrow),
	}
}

// ToNotificationDTOs converts a due-soon task list.
func ToNotificationDTOs(tasks []models.Task, now time.Time) []NotificationDTO {
	dtos := make([]NotificationDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToNotificationDTO(task, now)
	}
	return dtos
}

// ToOverdueTaskDTO converts an overdue task to its report entry.
func ToOverdueTaskDTO(task models.Task) OverdueTaskDTO {
	dto := OverdueTaskDTO{
		Title:          task.Title,
		DueDate:        task.DueDate,
		AssignedToName: UnassignedLabel,
	}

	if task.AssignedUser != nil {
		dto.AssignedToName = task.AssignedUser.FullName
		dto.AssignedToEmail = task.AssignedUser.Email
	}

	return dto
}

// ToOverdueTaskDTOs converts an overdue task list.
func ToOverdueTaskDTOs(tasks []models.Task) []OverdueTaskDTO {
	dtos := make([]OverdueTaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToOverdueTaskDTO(task)
	}
	return dtos
}
