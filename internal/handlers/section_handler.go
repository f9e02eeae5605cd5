package handlers

import (
	"net/http"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SectionHandler handles the ranked showcases on a profile.
type SectionHandler struct {
	sectionService *services.SectionService
	gate           profileGate
}

func NewSectionHandler(sectionService *services.SectionService, profileRepo repositories.ProfileRepository, socialService *services.SocialService) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		gate:           profileGate{profiles: profileRepo, social: socialService},
	}
}

func (h *SectionHandler) RegisterSectionRoutes(g *echo.Group) {
	g.POST("/sections", h.CreateSection)
	g.DELETE("/sections/:id", h.DeleteSection)
	g.PUT("/sections/:id/items", h.SetItems)
	g.GET("/profiles/:id/sections", h.GetSections)
}

func (h *SectionHandler) GetSections(c echo.Context) error {
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
		return respond(c, http.StatusOK, []services.SectionView{})
	}
	return respond(c, http.StatusOK, h.sectionService.Sections(ctx, ownerID))
}

func (h *SectionHandler) CreateSection(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateSectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	section, err := h.sectionService.CreateSection(c.Request().Context(), userID, req.Title, req.Type)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, section)
}

func (h *SectionHandler) DeleteSection(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	sectionID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.sectionService.DeleteSection(c.Request().Context(), userID, sectionID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}

// SetItems replaces a section's items; the request order becomes the rank.
func (h *SectionHandler) SetItems(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	sectionID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.SetSectionItemsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	refs := make([]models.MediaRef, 0, len(req.Items))
	for _, in := range req.Items {
		kind, ok := models.ParseMediaKind(in.MediaType)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid media_type")
		}
		refs = append(refs, models.MediaRef{Kind: kind, ID: in.TMDBID})
	}

	items, err := h.sectionService.SetItems(c.Request().Context(), userID, sectionID, refs)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, items)
}
