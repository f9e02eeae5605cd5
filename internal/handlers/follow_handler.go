package handlers

import (
	"net/http"

	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	socialService *services.SocialService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(socialService *services.SocialService) *FollowHandler {
	return &FollowHandler{socialService: socialService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/profiles/:id/follow", h.FollowUser)
	g.DELETE("/profiles/:id/follow", h.UnfollowUser)
	g.GET("/profiles/:id/followers", h.GetFollowers)
	g.GET("/profiles/:id/following", h.GetFollowing)
	g.POST("/follow-requests/:id/approve", h.ApproveRequest)
	g.DELETE("/follow-requests/:id", h.DenyRequest)
}

// FollowUser follows a profile, or requests to when it is private
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	status, err := h.socialService.Follow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"status": status})
}

// UnfollowUser unfollows a profile or cancels a pending request
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialService.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"status": "not_following"})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	profiles, err := h.socialService.Followers(c.Request().Context(), targetID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, profiles)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	profiles, err := h.socialService.Following(c.Request().Context(), targetID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, profiles)
}

// ApproveRequest accepts a pending request; :id is the requester's profile id
func (h *FollowHandler) ApproveRequest(c echo.Context) error {
	ownerID, err := requireUser(c)
	if err != nil {
		return err
	}
	requesterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.socialService.ApproveRequest(c.Request().Context(), ownerID, requesterID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"status": "accepted"})
}

// DenyRequest rejects a pending request; :id is the requester's profile id
func (h *FollowHandler) DenyRequest(c echo.Context) error {
	ownerID, err := requireUser(c)
	if err != nil {
		return err
	}
	requesterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.socialService.DenyRequest(c.Request().Context(), ownerID, requesterID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"status": "denied"})
}
