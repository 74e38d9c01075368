package models

import (
	"time"
)

type Project struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	InviteCode string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Members []User `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
