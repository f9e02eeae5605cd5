package handlers

import (
	"net/http"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postService *services.PostService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postService *services.PostService) *CommentHandler {
	return &CommentHandler{postService: postService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.postService.AddComment(c.Request().Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, comment)
}

// GetCommentsByPostID lists a post's comments oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	comments, err := h.postService.GetComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return respond(c, http.StatusOK, comments)
}

// DeleteComment deletes one of the caller's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.postService.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
