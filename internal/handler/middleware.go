package handler

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// userContextKey is where the authenticated user lives on the echo context.
const userContextKey = "user"

// Protect authenticates the request. The token is accepted from the
// Authorization bearer header or the jwt cookie; verification, user lookup
// and the password-staleness check are delegated to the auth service.
func Protect(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ,cookie:jwt",
		ContextKey:  userContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.VerifyToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) {
				return appErr
			}
			return apperrors.Auth("you are not logged in")
		},
	})
}

// RestrictTo gates a route to the given roles. Must run after Protect.
func RestrictTo(authService service.AuthService, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := CurrentUser(c)
			if err != nil {
				return err
			}
			if err := authService.Authorize(user, roles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user set by Protect.
func CurrentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(userContextKey).(*model.User)
	if !ok {
		return nil, apperrors.Auth("you need to login first")
	}
	return user, nil
}
