package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hetx19/Task-Manager-Backend/internal/auth"
	"github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
)

// requireActor returns the actor resolved by the auth middleware.
func requireActor(c echo.Context) (policy.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return policy.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "unknown actor",
			Code:  "UNKNOWN_ACTOR",
		})
	}
	return actor, nil
}

// parseID parses a path id. A malformed id gets the same outcome as a
// missing record: the check runs before any existence query, so the caller
// cannot distinguish the two.
func parseID(c echo.Context, notFoundCode, notFoundMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
			Error: notFoundMessage,
			Code:  notFoundCode,
		})
	}
	return id, nil
}

// serviceError maps a domain error to its HTTP response.
func serviceError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
