package handlers

import (
	"net/http"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TimelineHandler handles the watch log.
type TimelineHandler struct {
	timelineService *services.TimelineService
	gate            profileGate
}

func NewTimelineHandler(timelineService *services.TimelineService, profileRepo repositories.ProfileRepository, socialService *services.SocialService) *TimelineHandler {
	return &TimelineHandler{
		timelineService: timelineService,
		gate:            profileGate{profiles: profileRepo, social: socialService},
	}
}

func (h *TimelineHandler) RegisterTimelineRoutes(g *echo.Group) {
	g.GET("/timeline", h.GetMyTimeline)
	g.POST("/timeline", h.LogWatch)
	g.DELETE("/timeline/:id", h.DeleteEntry)
	g.GET("/profiles/:id/timeline", h.GetTimeline)
}

func (h *TimelineHandler) GetMyTimeline(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.timelineService.Timeline(c.Request().Context(), userID))
}

// GetTimeline returns another user's watch log, subject to profile privacy.
func (h *TimelineHandler) GetTimeline(c echo.Context) error {
	viewerID, err := requireUser(c)
	if err != nil {
		return err
	}
	ownerID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	ok, err := h.gate.visible(ctx, viewerID, ownerID)
	if err != nil {
		return toHTTPError(c, err)
	}
	if !ok {
		return respond(c, http.StatusOK, []services.TimelineItem{})
	}
	return respond(c, http.StatusOK, h.timelineService.Timeline(ctx, ownerID))
}

func (h *TimelineHandler) LogWatch(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.LogWatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	kind, ok := models.ParseMediaKind(req.MediaType)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media_type")
	}
	watchedOn, err := time.Parse("2006-01-02", req.WatchedOn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid watched_on")
	}

	entry, err := h.timelineService.LogWatch(c.Request().Context(), userID, services.WatchLog{
		Ref:           models.MediaRef{Kind: kind, ID: req.TMDBID},
		WatchedOn:     watchedOn,
		Rating:        req.Rating,
		Notes:         req.Notes,
		ViewingMedium: req.ViewingMedium,
		OTTPlatform:   req.OTTPlatform,
		PostID:        req.PostID,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, entry)
}

func (h *TimelineHandler) DeleteEntry(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	entryID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.timelineService.DeleteEntry(c.Request().Context(), userID, entryID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}
