package handlers

import (
	"net/http"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ListHandler handles ranked list HTTP requests
type ListHandler struct {
	listService *services.ListService
}

// NewListHandler creates a new ListHandler
func NewListHandler(listService *services.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// RegisterListRoutes registers list routes
func (h *ListHandler) RegisterListRoutes(g *echo.Group) {
	g.GET("/lists", h.GetMyLists)
	g.POST("/lists", h.CreateList)
	g.GET("/lists/:id", h.GetList)
	g.DELETE("/lists/:id", h.DeleteList)
	g.POST("/lists/:id/entries", h.AddEntry)
	g.PUT("/lists/:id/entries/order", h.ReorderEntries)
	g.PUT("/lists/:id/entries/:entryId/note", h.UpdateEntryNote)
	g.DELETE("/lists/:id/entries/:entryId", h.RemoveEntry)
	g.GET("/profiles/:id/lists", h.GetPublicLists)
}

func (h *ListHandler) GetMyLists(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.listService.GetUserLists(c.Request().Context(), userID))
}

func (h *ListHandler) GetPublicLists(c echo.Context) error {
	ownerID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.listService.GetPublicLists(c.Request().Context(), ownerID))
}

// GetList returns an assembled list. Private lists are only visible to their
// owner; everyone else gets a 404.
func (h *ListHandler) GetList(c echo.Context) error {
	viewerID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	details, err := h.listService.AssembleList(c.Request().Context(), listID)
	if err != nil {
		return toHTTPError(c, err)
	}
	if !details.IsPublic && details.UserID != viewerID {
		return toHTTPError(c, services.ErrListNotFound)
	}
	return respond(c, http.StatusOK, details)
}

func (h *ListHandler) CreateList(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := h.listService.CreateList(c.Request().Context(), userID, req.Title, req.Description, req.IsPublic)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, list)
}

func (h *ListHandler) DeleteList(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.listService.DeleteList(c.Request().Context(), userID, listID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}

func (h *ListHandler) AddEntry(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.AddListEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	kind, ok := models.ParseMediaKind(req.MediaType)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media_type")
	}

	entry, err := h.listService.AddToList(c.Request().Context(), userID, listID, models.MediaRef{Kind: kind, ID: req.TMDBID})
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusCreated, entry)
}

func (h *ListHandler) RemoveEntry(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	entryID, err := uuidParam(c, "entryId")
	if err != nil {
		return err
	}
	if err := h.listService.RemoveFromList(c.Request().Context(), userID, listID, entryID); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"deleted": true})
}

func (h *ListHandler) UpdateEntryNote(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	entryID, err := uuidParam(c, "entryId")
	if err != nil {
		return err
	}
	var req models.UpdateEntryNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.listService.UpdateEntryNote(c.Request().Context(), userID, listID, entryID, req.Note); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"updated": true})
}

func (h *ListHandler) ReorderEntries(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	listID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.ReorderEntriesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(req.EntryIDs))
	for _, raw := range req.EntryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid entry id "+raw)
		}
		ids = append(ids, id)
	}
	if err := h.listService.ReorderEntries(c.Request().Context(), userID, listID, ids); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"updated": true})
}
