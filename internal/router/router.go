package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/isengartz/SinExpressBlogApi/internal/config"
	"github.com/isengartz/SinExpressBlogApi/internal/handler"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// rate limit for the api group: 100 requests per hour per IP.
const (
	rateLimitPerHour = 100
	rateLimitWindow  = time.Hour
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	blogHandler *handler.BlogHandler,
	tagHandler *handler.TagHandler,
	userHandler *handler.UserHandler,
) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.IsProduction())

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	// Static Files
	e.Static("/", "public")

	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(rateLimitPerHour) / rateLimitWindow.Seconds()),
			Burst:     rateLimitPerHour,
			ExpiresIn: rateLimitWindow,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests from this ip, try again in an hour")
		},
	})

	v1 := e.Group("/api/v1", limiter)

	protect := handler.Protect(authService)
	adminOnly := handler.RestrictTo(authService, model.RoleAdmin)

	// Auth routes
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/forgotPassword", authHandler.ForgotPassword)
	v1.PATCH("/auth/resetPassword/:token", authHandler.ResetPassword)
	v1.PATCH("/auth/updateMyPassword", authHandler.UpdatePassword, protect)

	// Blog routes
	v1.GET("/blogs", blogHandler.GetBlogs)
	v1.GET("/blogs/:id", blogHandler.GetBlog)
	v1.POST("/blogs", blogHandler.CreateBlog, protect)

	// Tag routes
	v1.GET("/tags", tagHandler.GetTags)
	v1.GET("/tags/:id", tagHandler.GetTag)
	v1.POST("/tags", tagHandler.AddTag, protect, adminOnly)
	v1.PATCH("/tags/:id", tagHandler.UpdateTag, protect, adminOnly)
	v1.DELETE("/tags/:id", tagHandler.DeleteTag, protect, adminOnly)

	// User routes (admin only)
	v1.GET("/users", userHandler.GetUsers, protect, adminOnly)
	v1.GET("/users/:id", userHandler.GetUser, protect, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
