package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hetx19/Task-Manager-Backend/internal/auth"
	"github.com/hetx19/Task-Manager-Backend/internal/config"
	"github.com/hetx19/Task-Manager-Backend/internal/handler"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
	dashboardHandler *handler.DashboardHandler,
	reportHandler *handler.ReportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes: JWT validation, then actor resolution. Role and
	// ownership checks live in the authorization policy consulted by the
	// services, not in per-route middleware.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: auth.ErrorHandler,
	}), auth.ActorMiddleware(userRepo))

	secured.POST("/auth/upload-image", authHandler.UploadImage)

	// User routes
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/profile", userHandler.GetProfile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.DELETE("/users/profile", userHandler.DeleteProfile)
	secured.GET("/users/:id", userHandler.GetUser)

	// Task routes
	secured.GET("/tasks", taskHandler.ListTasks)
	secured.POST("/tasks", taskHandler.CreateTask)
	secured.GET("/tasks/dashboard-data", dashboardHandler.GetDashboard)
	secured.GET("/tasks/user-dashboard-data", dashboardHandler.GetUserDashboard)
	secured.GET("/tasks/:id", taskHandler.GetTask)
	secured.PUT("/tasks/:id", taskHandler.UpdateTask)
	secured.DELETE("/tasks/:id", taskHandler.DeleteTask)
	secured.PUT("/tasks/:id/status", taskHandler.UpdateTaskStatus)
	secured.PUT("/tasks/:id/todo", taskHandler.UpdateTaskChecklist)

	// Report routes
	secured.GET("/reports/export/tasks", reportHandler.ExportTasks)
	secured.GET("/reports/export/users", reportHandler.ExportUsers)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
