package handlers

import (
	"net/http"
	"strconv"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to blog posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/blog/:slug", h.GetPostBySlug)
	g.GET("/profiles/:id/posts", h.GetPostsByAuthor)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, post)
}

// GetPostBySlug retrieves a post by its slug
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.postService.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, post)
}

// GetPostsByAuthor lists an author's posts newest first
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	authorID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	posts, err := h.postService.GetPostsByAuthor(c.Request().Context(), authorID, skip, limit)
	if err != nil {
		return toHTTPError(c, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return respond(c, http.StatusOK, posts)
}

// DeletePost deletes one of the caller's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.postService.DeletePost(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
