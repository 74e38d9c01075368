package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"teamtrack/internal/config"
	"teamtrack/internal/constants"
	"teamtrack/internal/database"
	"teamtrack/internal/handlers"
	"teamtrack/internal/middleware"
	"teamtrack/internal/repository"
	"teamtrack/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	isProduction := cfg.GinMode == "release"
	if isProduction {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logrus.StandardLogger()))

	// Session cookie signed with the configured secret. The claims it carries
	// (user id, role, project id) are fixed at login.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, projectRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)

	accountHandler := handlers.NewAccountHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Account routes (public; logout is idempotent and needs no session)
	account := r.Group("/Account")
	{
		account.POST("/Register", accountHandler.Register)
		account.POST("/Login", accountHandler.Login)
		account.GET("/Logout", accountHandler.Logout)
	}

	// Task and tenant routes (session required)
	tasks := r.Group("/Tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("/GetTasks", taskHandler.GetTasks)
		tasks.POST("/SaveTask", taskHandler.SaveTask)
		tasks.POST("/DeleteTask", taskHandler.DeleteTask)
		tasks.GET("/GetTaskStats", taskHandler.GetTaskStats)
		tasks.GET("/GetMyNotifications", taskHandler.GetMyNotifications)
		tasks.GET("/GetAdminOverdueTasks", taskHandler.GetAdminOverdueTasks)
		tasks.GET("/Overview", taskHandler.Overview)
		tasks.POST("/UpdateProjectName", taskHandler.UpdateProjectName)
		tasks.POST("/RegenerateInviteCode", taskHandler.RegenerateInviteCode)
		tasks.POST("/DeleteProject", taskHandler.DeleteProject)
	}

	// Start server
	logrus.Infof("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
