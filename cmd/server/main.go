package main

import (
	"log"
	"net/http"

	"github.com/hetx19/Task-Manager-Backend/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hetx19/Task-Manager-Backend/internal/auth"
	"github.com/hetx19/Task-Manager-Backend/internal/cache"
	"github.com/hetx19/Task-Manager-Backend/internal/config"
	"github.com/hetx19/Task-Manager-Backend/internal/db"
	"github.com/hetx19/Task-Manager-Backend/internal/handler"
	"github.com/hetx19/Task-Manager-Backend/internal/media"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
	"github.com/hetx19/Task-Manager-Backend/internal/router"
	"github.com/hetx19/Task-Manager-Backend/internal/service"
)

// @title Task Manager API
// @version 1.0
// @description Task management API with role-based access, checklist progress tracking, dashboards, and report export.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Task{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize image hosting
	var uploader media.Uploader
	if cfg.CloudinaryURL != "" {
		uploader, err = media.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("cloudinary init: %v", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, image upload disabled")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.AdminInviteToken)
	userService := service.NewUserService(userRepo, taskRepo, cacheClient, uploader)
	taskService := service.NewTaskService(taskRepo)
	dashboardService := service.NewDashboardService(taskRepo)
	reportService := service.NewReportService(taskRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, uploader)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(reportService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		taskHandler,
		dashboardHandler,
		reportHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
