package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"teamtrack/internal/auth"
	"teamtrack/internal/dto"
	apierrors "teamtrack/internal/errors"
	"teamtrack/internal/middleware"
	"teamtrack/internal/models"
	"teamtrack/internal/services"
)

// TaskHandler serves the dashboard's AJAX endpoints: task CRUD, search,
// workload stats, notifications, and tenant administration.
type TaskHandler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		projectService: projectService,
	}
}

// GetTasks returns the caller's project tasks, optionally filtered by ?term=.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(claims, c.Query("term"))
	if err != nil {
		logrus.WithError(err).Error("failed to list tasks")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskViews(tasks, claims))
}

// SaveTask creates a task (id 0) or updates an existing one. The project id
// always comes from the session.
func (h *TaskHandler) SaveTask(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type SaveTaskRequest struct {
		ID          uint64  `json:"id"`
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Priority    string  `json:"priority" binding:"omitempty,oneof=Low Medium High"`
		Status      string  `json:"status" binding:"omitempty,oneof=Todo InProgress Completed"`
		DueDate     string  `json:"due_date"`
		AssignedTo  *uint64 `json:"assigned_to"`
	}

	var req SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due date")
		return
	}

	task, err := h.taskService.SaveTask(claims, services.SaveTaskInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		Status:      models.TaskStatus(req.Status),
		DueDate:     dueDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": task.ID})
}

// DeleteTask removes a task under the ownership rule.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type DeleteTaskRequest struct {
		ID uint64 `json:"id" binding:"required"`
	}

	var req DeleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.DeleteTask(claims, req.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// GetTaskStats returns open task counts per assignee for the workload chart.
func (h *TaskHandler) GetTaskStats(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.taskService.WorkloadStats(claims)
	if err != nil {
		logrus.WithError(err).Error("failed to compute workload stats")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkloadStatDTOs(stats))
}

// GetMyNotifications returns the caller's tasks that are overdue, due today,
// or due tomorrow.
func (h *TaskHandler) GetMyNotifications(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	now := time.Now()
	tasks, err := h.taskService.MyNotifications(claims, now)
	if err != nil {
		logrus.WithError(err).Error("failed to fetch notifications")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTOs(tasks, now))
}

// GetAdminOverdueTasks returns the project's overdue open tasks. Admin only.
func (h *TaskHandler) GetAdminOverdueTasks(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.AdminOverdue(claims, time.Now())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOverdueTaskDTOs(tasks))
}

// Overview returns the dashboard payload: project, admin name, member roster.
func (h *TaskHandler) Overview(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	overview, err := h.projectService.Overview(claims)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	members := make([]dto.UserDTO, len(overview.Members))
	for i, member := range overview.Members {
		members[i] = dto.ToUserDTO(member)
	}

	adminName := "System"
	if overview.Admin != nil {
		adminName = overview.Admin.FullName
	}

	c.JSON(http.StatusOK, dto.OverviewDTO{
		Project:   dto.ToProjectDTO(*overview.Project, claims.IsAdmin()),
		AdminName: adminName,
		Members:   members,
		YourRole:  claims.Role,
	})
}

// UpdateProjectName renames the caller's project. Admin only.
func (h *TaskHandler) UpdateProjectName(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProjectNameRequest struct {
		NewName string `json:"new_name" binding:"required"`
	}

	var req UpdateProjectNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Rename(claims, req.NewName)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, true))
}

// RegenerateInviteCode replaces the project's invite code. Admin only.
func (h *TaskHandler) RegenerateInviteCode(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.RegenerateInviteCode(claims)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, true))
}

// DeleteProject removes the project with all its users and tasks, then signs
// the caller out. Admin only.
func (h *TaskHandler) DeleteProject(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.Delete(claims); err != nil {
		respondProjectError(c, err)
		return
	}

	if err := middleware.ClearSession(c); err != nil {
		logrus.WithError(err).Error("failed to clear session after project deletion")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// parseDueDate accepts the dashboard's date-only format as well as RFC 3339.
// Empty input yields the zero time; the service applies the default.
func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		apierrors.Forbidden(c, "")
	default:
		logrus.WithError(err).Error("task operation failed")
		apierrors.InternalError(c, "")
	}
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrInvalidProjectName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logrus.WithError(err).Error("project operation failed")
		apierrors.InternalError(c, "")
	}
}
