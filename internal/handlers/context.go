package handlers

import (
	"errors"
	"net/http"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/services"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated profile id stored by the JWT
// middleware, or uuid.Nil.
func getUserIDFromContext(c echo.Context) uuid.UUID {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func requireUser(c echo.Context) (uuid.UUID, error) {
	id := getUserIDFromContext(c)
	if id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// toHTTPError maps service sentinels onto status codes. Anything else is
// logged and reported as a bare 500.
func toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrListNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "List not found")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidOrder), errors.Is(err, services.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrCannotFollowSelf):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		logging.Ctx(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
