package auth

import (
	stderrors "errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

// actorContextKey is the echo context key under which the resolved actor is stored.
const actorContextKey = "actor"

// ErrorHandler maps token failures to distinct caller-visible outcomes:
// a missing credential, an expired credential, and an otherwise invalid one
// each get their own code.
func ErrorHandler(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, echojwt.ErrJWTMissing):
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing or malformed credential",
			Code:  "TOKEN_MISSING",
		})
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "credential expired",
			Code:  "TOKEN_EXPIRED",
		})
	default:
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid credential",
			Code:  "TOKEN_INVALID",
		})
	}
}

// ActorMiddleware resolves validated JWT claims into a policy.Actor and makes
// it available to handlers. The user record is loaded so that tokens of
// deleted accounts stop working immediately; role comes from the record, not
// the claims, so demotions take effect without reissuing tokens.
func ActorMiddleware(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unknownActor()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return unknownActor()
			}

			id, err := uuid.Parse(claims.UserID)
			if err != nil {
				return unknownActor()
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return unknownActor()
				}
				httpErr := errors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(actorContextKey, policy.Actor{ID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

// ActorFromContext returns the actor resolved by ActorMiddleware.
func ActorFromContext(c echo.Context) (policy.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(policy.Actor)
	return actor, ok
}

func unknownActor() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "unknown actor",
		Code:  "UNKNOWN_ACTOR",
	})
}
