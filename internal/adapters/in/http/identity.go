package http

import (
	"errors"
	"net/http"

	"supplychain/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the gateway in front of the service.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	actorKey = "actor"
)

// Identity resolves the calling actor from the identity headers and rejects
// requests without a valid one.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := parseActor(c.Request().Header.Get(HeaderActorID), c.Request().Header.Get(HeaderActorRole))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "missing or invalid actor identity: " + err.Error(),
				})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func parseActor(rawID, rawRole string) (kernel.Actor, error) {
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, errors.New(HeaderActorID + " and " + HeaderActorRole + " are required")
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorKey).(kernel.Actor)
	return actor
}
