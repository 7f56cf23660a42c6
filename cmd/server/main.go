package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/isengartz/SinExpressBlogApi/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/auth"
	"github.com/isengartz/SinExpressBlogApi/internal/cache"
	"github.com/isengartz/SinExpressBlogApi/internal/config"
	"github.com/isengartz/SinExpressBlogApi/internal/db"
	"github.com/isengartz/SinExpressBlogApi/internal/handler"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
	"github.com/isengartz/SinExpressBlogApi/internal/router"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// @title Sin Express Blog API
// @version 1.0
// @description Blog platform REST API with JWT authentication, password reset and query shaping.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Blog{},
			&model.Tag{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Blog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	emailService, err := service.NewEmailService(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		log.Fatalf("email service init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	blogRepo := repository.NewBlogRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := service.NewAuthService(userRepo, jwtService, emailService, cfg.AppBaseURL)
	blogService := service.NewBlogService(blogRepo, tagRepo, cacheClient)
	tagService := service.NewTagService(tagRepo)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	blogHandler := handler.NewBlogHandler(blogService)
	tagHandler := handler.NewTagHandler(tagService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		authService,
		authHandler,
		blogHandler,
		tagHandler,
		userHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/api-docs/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
