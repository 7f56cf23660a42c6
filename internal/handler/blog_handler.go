package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/query"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
	"github.com/isengartz/SinExpressBlogApi/internal/service"
)

// BlogHandler handles blog endpoints.
type BlogHandler struct {
	blogService service.BlogService
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// CreateBlogRequest represents a blog creation payload.
type CreateBlogRequest struct {
	Title            string      `json:"title" validate:"required"`
	ShortDescription string      `json:"short_description"`
	Description      string      `json:"description"`
	FeaturedImage    string      `json:"featured_image"`
	Sorting          int         `json:"sorting"`
	TagIDs           []uuid.UUID `json:"tags"`
}

// CreateBlog godoc
// @Summary Create a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Param request body CreateBlogRequest true "Blog payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /blogs [post]
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	var req CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// the author is always the logged-in user
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	blog := &model.Blog{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		FeaturedImage:    req.FeaturedImage,
		Sorting:          req.Sorting,
		UserID:           user.ID,
	}

	created, err := h.blogService.CreateBlog(c.Request().Context(), blog, req.TagIDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "blog", created)
}

// GetBlogs godoc
// @Summary List blog posts
// @Tags blogs
// @Produce json
// @Param sort query string false "Comma-separated sort fields, - prefix for descending"
// @Param fields query string false "Comma-separated projection fields"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /blogs [get]
func (h *BlogHandler) GetBlogs(c echo.Context) error {
	features := query.New(c.QueryParams(), repository.BlogQueryColumns, "id")
	blogs, err := h.blogService.ListBlogs(c.Request().Context(), features)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "blogs", len(blogs), blogs)
}

// GetBlog godoc
// @Summary Get a blog post by id
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /blogs/{id} [get]
func (h *BlogHandler) GetBlog(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	blog, err := h.blogService.GetBlog(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "blog", blog)
}
