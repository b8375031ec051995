package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/auth"
	"github.com/umalmyha/rentals/internal/model"
)

const actorContextKey = "actor"

// AuthLogger records authentication outcome as compliance event
type AuthLogger interface {
	LogAuth(ctx context.Context, t audit.EventType, userID string, success bool, ip string, metadata map[string]any)
}

// Actor resolves actor of request from bearer token. Request without token gets the default actor
// unless required is set, invalid token is always rejected.
func Actor(validator *auth.JwtValidator, authLogger AuthLogger, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ip := clientIP(c)

			actor := model.DefaultActor()

			authHdr := req.Header.Get(echo.HeaderAuthorization)
			switch {
			case authHdr != "":
				hdrSplit := strings.Split(authHdr, " ")
				if len(hdrSplit) != 2 || !strings.EqualFold(hdrSplit[0], "Bearer") {
					authLogger.LogAuth(req.Context(), audit.EventLoginFailed, "", false, ip, map[string]any{"reason": "malformed authorization header"})
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
				}

				claims, err := validator.Verify(hdrSplit[1])
				if err != nil {
					authLogger.LogAuth(req.Context(), audit.EventLoginFailed, "", false, ip, map[string]any{"reason": err.Error()})
					return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token - %v", err))
				}
				actor = claims.Actor()
			case required:
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization is required")
			}

			actor.IPAddress = ip
			actor.UserAgent = req.UserAgent()
			actor.RequestID = requestID(c)

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns actor resolved by Actor middleware, default actor when middleware did not run
func ActorFrom(c echo.Context) model.Actor {
	if actor, ok := c.Get(actorContextKey).(model.Actor); ok {
		return actor
	}
	return model.DefaultActor()
}

// WithActor stores actor in context, used where Actor middleware is not installed
func WithActor(c echo.Context, actor model.Actor) {
	c.Set(actorContextKey, actor)
}

func clientIP(c echo.Context) string {
	ip := c.RealIP()
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}

// requestID returns request id only when it is a uuid, audit events accept nothing else
func requestID(c echo.Context) string {
	id := c.Response().Header().Get(echo.HeaderXRequestID)
	if id == "" {
		id = c.Request().Header.Get(echo.HeaderXRequestID)
	}

	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
