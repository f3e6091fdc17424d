package middleware

import (
	"context"
	"net/http"
	"time"

	"shopTrace/business/tracking"
	"shopTrace/domain"
	"shopTrace/pkg/logger"

	jsonres "shopTrace/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName carries the visitor's session id between requests.
	SessionCookieName = "session_id"

	// SessionHeaderName is the header fallback for clients without cookies.
	SessionHeaderName = "X-Session-ID"

	sessionCookieMaxAge = 7 * 24 * time.Hour

	// ContextSessionID is the echo context key the handlers read.
	ContextSessionID = "session_id"
)

// SessionResolver resolves or creates the visitor session for a request.
type SessionResolver interface {
	EnsureSession(ctx context.Context, sessionID string, meta tracking.SessionMeta) (domain.UserSession, error)
	TouchSession(ctx context.Context, sessionID string) error
}

// SessionMiddleware attaches a session to every request: cookie first,
// X-Session-ID header second, fresh uuid otherwise. The cookie is refreshed
// on every response and the session's last activity is bumped after the
// handler runs.
func SessionMiddleware(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = c.Request().Header.Get(SessionHeaderName)
			}

			session, err := resolver.EnsureSession(c.Request().Context(), sessionID, tracking.SessionMeta{
				UserAgent:   c.Request().UserAgent(),
				IPAddress:   c.RealIP(),
				Referrer:    c.Request().Referer(),
				LandingPage: c.Request().URL.Path,
			})
			if err != nil {
				logger.Error("failed to resolve session", err)
				return c.JSON(http.StatusInternalServerError, jsonres.Error(
					"SESSION_ERROR", "failed to resolve session", nil,
				))
			}

			c.Set(ContextSessionID, session.ID)

			// cookie must be written before the handler commits the response
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HttpOnly: true,
			})

			err = next(c)

			if terr := resolver.TouchSession(c.Request().Context(), session.ID); terr != nil {
				logger.Warn("failed to update session activity", "error", terr.Error(), "session_id", session.ID)
			}

			return err
		}
	}
}

// SessionIDFromContext reads the session id the middleware stored.
func SessionIDFromContext(c echo.Context) string {
	if v, ok := c.Get(ContextSessionID).(string); ok {
		return v
	}
	return ""
}
