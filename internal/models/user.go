package models

import "time"

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	ProjectID    uint64    `gorm:"not null;index" json:"project_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Project       Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedTasks  []Task  `gorm:"foreignKey:CreatedBy" json:"-"`
	AssignedTasks []Task  `gorm:"foreignKey:AssignedTo" json:"-"`
}
