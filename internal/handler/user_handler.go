package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/query"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// UserHandler handles admin-only user reads.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) GetUsers(c echo.Context) error {
	features := query.New(c.QueryParams(), repository.UserQueryColumns, repository.UserQueryAlways...)
	users, err := h.userService.ListUsers(c.Request().Context(), features)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "users", len(users), users)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user", user)
}
