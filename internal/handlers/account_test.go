package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamtrack/internal/constants"
	"teamtrack/internal/database"
	"teamtrack/internal/dto"
	"teamtrack/internal/middleware"
	"teamtrack/internal/models"
	"teamtrack/internal/repository"
	"teamtrack/internal/services"
)

type accountTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAccountTestEnv(t *testing.T) accountTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Project{},
		&models.User{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	authService := services.NewAuthService(userRepo, projectRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	accountHandler := NewAccountHandler(authService)
	taskHandler := NewTaskHandler(nil, projectService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/Account/Register", accountHandler.Register)
	r.POST("/Account/Login", accountHandler.Login)
	r.GET("/Account/Logout", accountHandler.Logout)

	tasks := r.Group("/Tasks")
	tasks.Use(middleware.RequireAuth())
	tasks.POST("/UpdateProjectName", taskHandler.UpdateProjectName)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return accountTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAdmin(t *testing.T, env accountTestEnv, email, teamName string) *models.User {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		FullName: "Admin " + teamName,
		Email:    email,
		Password: "supersecret",
		Role:     models.RoleAdmin,
		TeamName: teamName,
	})
	require.NoError(t, err)
	return user
}

func TestAccountHandler_RegisterAdmin_CreatesTeam(t *testing.T) {
	env := setupAccountTestEnv(t)

	w := postJSON(t, env.router, "/Account/Register", map[string]string{
		"full_name": "Alice Admin",
		"email":     "alice@example.com",
		"password":  "supersecret",
		"role":      "Admin",
		"team_name": "Acme",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@example.com", response.Email)
	require.Equal(t, models.RoleAdmin, response.Role)

	var project models.Project
	require.NoError(t, env.db.First(&project).Error)
	require.Equal(t, "Acme", project.Name)
	require.Len(t, project.InviteCode, constants.InviteCodeLength)
}

func TestAccountHandler_RegisterAdmin_RequiresTeamName(t *testing.T) {
	env := setupAccountTestEnv(t)

	w := postJSON(t, env.router, "/Account/Register", map[string]string{
		"full_name": "Alice Admin",
		"email":     "alice@example.com",
		"password":  "supersecret",
		"role":      "Admin",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_RegisterMember_JoinsByInviteCode(t *testing.T) {
	env := setupAccountTestEnv(t)

	admin := registerAdmin(t, env, "alice@example.com", "Acme")

	var project models.Project
	require.NoError(t, env.db.First(&project, admin.ProjectID).Error)

	w := postJSON(t, env.router, "/Account/Register", map[string]string{
		"full_name":   "Bob Member",
		"email":       "bob@example.com",
		"password":    "supersecret",
		"role":        "Member",
		"invite_code": project.InviteCode,
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var member models.User
	require.NoError(t, env.db.Where("email = ?", "bob@example.com").First(&member).Error)
	require.Equal(t, admin.ProjectID, member.ProjectID)
	require.Equal(t, models.RoleMember, member.Role)
}

func TestAccountHandler_RegisterMember_UnknownInviteCode(t *testing.T) {
	env := setupAccountTestEnv(t)

	w := postJSON(t, env.router, "/Account/Register", map[string]string{
		"full_name":   "Bob Member",
		"email":       "bob@example.com",
		"password":    "supersecret",
		"role":        "Member",
		"invite_code": "NOSUCH",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAccountTestEnv(t)

	registerAdmin(t, env, "alice@example.com", "Acme")

	w := postJSON(t, env.router, "/Account/Register", map[string]string{
		"full_name": "Alice Again",
		"email":     "alice@example.com",
		"password":  "supersecret",
		"role":      "Admin",
		"team_name": "Other",
	}, nil)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAccountHandler_Login_RoundTrip(t *testing.T) {
	env := setupAccountTestEnv(t)

	admin := registerAdmin(t, env, "alice@example.com", "Acme")

	w := postJSON(t, env.router, "/Account/Login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, admin.ID, response.ID)
}

func TestAccountHandler_Login_SingleErrorForBadCredentials(t *testing.T) {
	env := setupAccountTestEnv(t)

	registerAdmin(t, env, "alice@example.com", "Acme")

	wrongPassword := postJSON(t, env.router, "/Account/Login", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-password",
	}, nil)
	unknownEmail := postJSON(t, env.router, "/Account/Login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// The body must not reveal whether the email existed.
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAccountHandler_Logout_Idempotent(t *testing.T) {
	env := setupAccountTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/Account/Logout", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// A second logout with no session is still fine.
	req = httptest.NewRequest(http.MethodGet, "/Account/Logout", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

// Session claims are fixed at issuance. Demoting the user in the store must
// not affect requests made with a cookie issued before the change.
func TestAccountHandler_SessionClaimsAreStale(t *testing.T) {
	env := setupAccountTestEnv(t)

	registerAdmin(t, env, "alice@example.com", "Acme")

	login := postJSON(t, env.router, "/Account/Login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	// Demote the admin behind the session's back.
	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", "alice@example.com").
		Update("role", models.RoleMember).Error)

	w := postJSON(t, env.router, "/Tasks/UpdateProjectName", map[string]string{
		"new_name": "Acme Renamed",
	}, cookies)

	require.Equal(t, http.StatusOK, w.Code, "stale admin claim must still permit admin actions until re-login")
}

func TestAccountHandler_Login_FailsAfterProjectDeletion(t *testing.T) {
	env := setupAccountTestEnv(t)

	admin := registerAdmin(t, env, "alice@example.com", "Acme")

	projectRepo := repository.NewProjectRepository(env.db)
	require.NoError(t, projectRepo.DeleteCascade(admin.ProjectID))

	w := postJSON(t, env.router, "/Account/Login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
