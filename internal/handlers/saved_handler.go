package handlers

import (
	"net/http"
	"strconv"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedHandler handles bookmarked movies and series
type SavedHandler struct {
	savedService *services.SavedService
}

// NewSavedHandler creates a new SavedHandler
func NewSavedHandler(savedService *services.SavedService) *SavedHandler {
	return &SavedHandler{savedService: savedService}
}

// RegisterSavedRoutes registers saved item routes
func (h *SavedHandler) RegisterSavedRoutes(g *echo.Group) {
	g.GET("/saved", h.GetSaved)
	g.POST("/saved", h.Save)
	g.DELETE("/saved/:kind/:id", h.Unsave)
}

func (h *SavedHandler) GetSaved(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.savedService.View(c.Request().Context(), userID))
}

func (h *SavedHandler) Save(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.SaveItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	kind, ok := models.ParseMediaKind(req.MediaType)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media_type")
	}

	if err := h.savedService.Save(c.Request().Context(), userID, models.MediaRef{Kind: kind, ID: req.TMDBID}); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, echo.Map{"saved": true})
}

// Unsave handles DELETE /saved/:kind/:id where kind is movie, tv or series
func (h *SavedHandler) Unsave(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	kind, ok := models.ParseMediaKind(c.Param("kind"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media kind")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid TMDB id")
	}

	if err := h.savedService.Unsave(c.Request().Context(), userID, models.MediaRef{Kind: kind, ID: id}); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"saved": false})
}
