package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest represents a tag create/update payload.
type TagRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

// UpdateTagRequest patches a tag; empty fields stay untouched.
type UpdateTagRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// AddTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body TagRequest true "Tag payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /tags [post]
func (h *TagHandler) AddTag(c echo.Context) error {
	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tag, err := h.tagService.CreateTag(c.Request().Context(), &model.Tag{Name: req.Name, Icon: req.Icon})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "tag", tag)
}

// GetTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tags [get]
func (h *TagHandler) GetTags(c echo.Context) error {
	features := query.New(c.QueryParams(), repository.TagQueryColumns, "id")
	tags, err := h.tagService.ListTags(c.Request().Context(), features)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "tags", len(tags), tags)
}

// GetTag godoc
// @Summary Get a tag by id
// @Tags tags
// @Produce json
// @Param id path string true "Tag ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tag, err := h.tagService.GetTag(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "tag", tag)
}

// UpdateTag godoc
// @Summary Update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param request body UpdateTagRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [patch]
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	tag, err := h.tagService.UpdateTag(c.Request().Context(), id, req.Name, req.Icon)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "tag", tag)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Tags tags
// @Param id path string true "Tag ID"
// @Success 204
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.tagService.DeleteTag(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
