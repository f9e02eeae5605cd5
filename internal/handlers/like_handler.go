package handlers

import (
	"net/http"

	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	postService *services.PostService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService *services.PostService) *LikeHandler {
	return &LikeHandler{postService: postService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
	g.GET("/posts/:id/likes/status", h.GetUserLikeStatusForPost)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	ctx := c.Request().Context()

	hasLiked, err := h.postService.HasLiked(ctx, userID, postID)
	if err != nil {
		return toHTTPError(c, err)
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}

	if err := h.postService.LikePost(ctx, userID, postID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, echo.Map{"liked": true})
}

// UnlikePost handles removing a like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.postService.UnlikePost(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"liked": false})
}

// GetUserLikeStatusForPost reports whether the caller liked the post
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	liked, err := h.postService.HasLiked(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"liked": liked})
}
