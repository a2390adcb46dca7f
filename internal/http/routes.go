package http

import (
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires repositories, services and handlers onto the gin
// engine under /api/v1.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config) {
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	tokens := auth.NewTokenManager(cfg.AuthSecret)
	authService := service.NewAuthService(userRepo, sessionRepo, tokens, cfg.SessionTTL)
	taskService := service.NewTaskService(taskRepo)

	h := handlers.NewHandler(taskService, authService)
	h.SecureCookies = cfg.SecureCookies()
	healthHandler := handlers.NewHealthHandler(db)

	// Health checks (no auth, no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Session(authService))

	registerAuthRoutes(v1, h, cfg.AuthRateLimit, cfg.AuthRateWindow)
	registerTaskRoutes(v1, h)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.Handler, rateLimit int, rateWindow time.Duration) {
	authRL := middleware.RedisRateLimit(rateLimit, rateWindow)

	a := api.Group("/auth")
	{
		a.POST("/sign-up/email", authRL, h.SignUp)
		a.POST("/sign-in/email", authRL, h.SignIn)
		a.POST("/sign-out", h.SignOut)
		a.GET("/get-session", h.GetSession)

		admin := a.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/list-users", h.ListUsers)
			admin.POST("/ban-user", h.BanUser)
			admin.POST("/unban-user", h.UnbanUser)
			admin.POST("/update-user", h.UpdateUser)
		}
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
