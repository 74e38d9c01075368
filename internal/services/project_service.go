package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"teamtrack/internal/auth"
	"teamtrack/internal/models"
	"teamtrack/internal/repository"
	"teamtrack/internal/utils"
)

var (
	ErrProjectNotFound            = errors.New("project not found")
	ErrInvalidProjectName         = errors.New("project name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// ProjectService provides tenant-level operations. All of them are gated on
// the admin role via the central policy.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ProjectOverview is the dashboard payload: the project, its admin, and the
// member list that feeds the assignee dropdown.
type ProjectOverview struct {
	Project *models.Project
	Admin   *models.User
	Members []models.User
}

// Overview returns the caller's project details and member roster.
func (s *ProjectService) Overview(claims auth.Claims) (*ProjectOverview, error) {
	project, err := s.projectRepo.FindByID(claims.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	members, err := s.userRepo.ListByProject(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}

	overview := &ProjectOverview{
		Project: project,
		Members: members,
	}

	admin, err := s.userRepo.FindProjectAdmin(project.ID)
	if err == nil {
		overview.Admin = admin
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find project admin: %w", err)
	}

	return overview, nil
}

// Rename updates the project's name. Admin only.
func (s *ProjectService) Rename(claims auth.Claims, newName string) (*models.Project, error) {
	if err := auth.PolicyFor(claims).RequireAdmin(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(newName) == "" {
		return nil, ErrInvalidProjectName
	}

	project, err := s.projectRepo.FindByID(claims.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	project.Name = strings.TrimSpace(newName)
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// RegenerateInviteCode replaces the project's invite code. Admin only.
func (s *ProjectService) RegenerateInviteCode(claims auth.Claims) (*models.Project, error) {
	if err := auth.PolicyFor(claims).RequireAdmin(); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(claims.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	project.InviteCode = code
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return project, nil
}

// Delete removes the project together with all of its tasks and users.
// Admin only. The cascade runs in one transaction so a failure cannot leave
// orphaned rows pointing at a deleted project.
func (s *ProjectService) Delete(claims auth.Claims) error {
	if err := auth.PolicyFor(claims).RequireAdmin(); err != nil {
		return err
	}

	if _, err := s.projectRepo.FindByID(claims.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.DeleteCascade(claims.ProjectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
