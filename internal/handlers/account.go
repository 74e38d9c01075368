package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/constants"
	"teamtrack/internal/dto"
	apierrors "teamtrack/internal/errors"
	"teamtrack/internal/middleware"
	"teamtrack/internal/models"
	"teamtrack/internal/services"
)

// AccountHandler coordinates registration, login, and logout.
type AccountHandler struct {
	authService *services.AuthService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Register creates a new user. Admins supply a team name and get a fresh
// project; members supply an invite code and join an existing one.
func (h *AccountHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FullName   string `json:"full_name" binding:"required"`
		Email      string `json:"email" binding:"required"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role" binding:"required,oneof=Admin Member"`
		TeamName   string `json:"team_name"`
		InviteCode string `json:"invite_code"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Role:       models.Role(req.Role),
		TeamName:   req.TeamName,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and issues the session cookie carrying the
// caller's id, role, and project id.
func (h *AccountHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := middleware.SetSessionClaims(c, user); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the session. Idempotent: logging out twice is not an error.
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrInviteCodeRequired),
		errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToCreateTeam):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
