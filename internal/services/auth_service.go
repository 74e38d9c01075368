package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamtrack/internal/constants"
	"teamtrack/internal/models"
	"teamtrack/internal/repository"
	"teamtrack/internal/utils"
)

var (
	ErrMissingFields        = errors.New("full name, email and password are required")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmailTaken           = errors.New("email is already in use")
	ErrTeamNameRequired     = errors.New("team name is required to create a team")
	ErrInviteCodeRequired   = errors.New("invite code is required to join a team")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToCreateTeam   = errors.New("failed to create team")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// RegisterInput represents the required information to create a new user.
// Admins create a team and must supply TeamName; members join an existing
// team and must supply InviteCode.
type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	Role       models.Role
	TeamName   string
	InviteCode string
}

// Register creates a new user and, for admins, their team.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if fullName == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if input.Role == models.RoleAdmin {
		return s.registerAdmin(user, input.TeamName)
	}
	return s.registerMember(user, input.InviteCode)
}

// registerAdmin creates a fresh project and its first admin atomically.
func (s *AuthService) registerAdmin(user *models.User, teamName string) (*models.User, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, ErrTeamNameRequired
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrFailedToCreateTeam
	}

	project := &models.Project{
		Name:       teamName,
		InviteCode: inviteCode,
	}

	user.Role = models.RoleAdmin

	if err := s.userRepo.CreateWithProject(user, project); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateProject):
			return nil, ErrFailedToCreateTeam
		case errors.Is(err, repository.ErrCreateUser):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, nil
}

// registerMember resolves the invite code and attaches the user to that project.
func (s *AuthService) registerMember(user *models.User, inviteCode string) (*models.User, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, ErrInviteCodeRequired
	}

	project, err := s.projectRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	user.Role = models.RoleMember
	user.ProjectID = project.ID

	if err := s.userRepo.Create(user); err != nil {
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Lookup is by
// email only; a missing user and a wrong password produce the same error.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
