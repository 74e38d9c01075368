package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"teamtrack/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateProject is returned when creating the project fails inside the registration transaction.
	ErrCreateProject = errors.New("user repository: create project failed")
	// ErrCreateUser is returned when creating the user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithProject creates the project and its first admin atomically.
func (r *GormUserRepository) CreateWithProject(user *models.User, project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		user.ProjectID = project.ID

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with the email exists
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByProject lists all users belonging to a project
func (r *GormUserRepository) ListByProject(projectID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("project_id = ?", projectID).Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindProjectAdmin finds an admin user of a project
func (r *GormUserRepository) FindProjectAdmin(projectID uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("project_id = ? AND role = ?", projectID, models.RoleAdmin).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
