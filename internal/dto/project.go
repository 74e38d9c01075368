package dto

import (
	"teamtrack/internal/models"
	"teamtrack/internal/repository"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// ProjectDTO represents a project in API responses. The invite code is only
// present in admin-facing payloads.
type ProjectDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code,omitempty"`
}

// OverviewDTO is the dashboard payload.
type OverviewDTO struct {
	Project   ProjectDTO `json:"project"`
	AdminName string     `json:"admin_name"`
	Members   []UserDTO  `json:"members"`
	YourRole  models.Role `json:"your_role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project, includeInviteCode bool) ProjectDTO {
	dto := ProjectDTO{
		ID:   project.ID,
		Name: project.Name,
	}
	if includeInviteCode {
		dto.InviteCode = project.InviteCode
	}
	return dto
}

// ToWorkloadStatDTO labels a workload row, substituting "Unassigned" when the
// group has no assignee.
func ToWorkloadStatDTO(stat repository.WorkloadStat) WorkloadStatDTO {
	dto := WorkloadStatDTO{
		Name:  stat.FullName,
		Email: stat.Email,
		Count: stat.Count,
	}
	if stat.AssignedTo == nil {
		dto.Name = UnassignedLabel
		dto.Email = ""
	}
	return dto
}

// ToWorkloadStatDTOs converts the workload rows for the chart.
func ToWorkloadStatDTOs(stats []repository.WorkloadStat) []WorkloadStatDTO {
	dtos := make([]WorkloadStatDTO, len(stats))
	for i, stat := range stats {
		dtos[i] = ToWorkloadStatDTO(stat)
	}
	return dtos
}
