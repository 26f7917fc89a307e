package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/api/middleware"
	"github.com/UsagiiTsukino/medchain-api/internal/session"
)

// currentSession extracts the session stored by the route guard and performs
// a fast-fail check before any service call: a guarded handler reached
// without an authenticated session means the guard did not run; reject.
func currentSession(c echo.Context) (session.Session, error) {
	sess, ok := c.Get(middleware.SessionKey).(session.Session)
	if !ok || !sess.IsAuthenticated || sess.User == nil {
		return session.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
