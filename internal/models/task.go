package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	DueDate     time.Time    `gorm:"index" json:"due_date"`
	ProjectID   uint64       `gorm:"not null;index" json:"project_id"`
	AssignedTo  *uint64      `json:"assigned_to"`
	CreatedBy   uint64       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project      Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedUser *User   `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
}

// Unassigned reports whether the task has no assignee.
func (t *Task) Unassigned() bool {
	return t.AssignedTo == nil || *t.AssignedTo == 0
}
