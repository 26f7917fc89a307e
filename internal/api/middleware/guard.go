package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/api/metrics"
	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/session"
)

// SessionKey is the echo context key the guard stores the resolved session
// under for downstream handlers.
const SessionKey = "session"

// LoginPath is the client route unauthenticated requests are redirected to.
const LoginPath = "/login"

// DefaultResolveTimeout bounds session resolution. A session store that has
// not answered by then is treated as unauthenticated: the guard fails closed
// rather than hanging the request.
const DefaultResolveTimeout = 1000 * time.Millisecond

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Session, error)
}

// RolePredicate decides whether a canonical role may pass a guard.
// A nil predicate admits any authenticated session.
type RolePredicate func(domain.Role) bool

// AdminOnly admits platform administrators.
func AdminOnly(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// StaffOnly admits vaccination-center staff.
func StaffOnly(role domain.Role) bool {
	return role == domain.RoleDoctor || role == domain.RoleCashier
}

// redirectResponse tells the client where to go and where it came from, so
// it can return after login.
type redirectResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
	From     string `json:"from"`
}

// Guard gates a route group on session state and an optional role predicate.
//
// Per request the guard walks a small state machine: it resolves the session
// under a one-shot timeout; a timeout denies with a login redirect
// (fail-closed), an unauthenticated session denies with a login redirect,
// and an authenticated session with a non-matching role is denied in place
// with 403, no redirect. The timer is stopped as soon as resolution wins
// the race.
func Guard(resolver SessionResolver, name string, allow RolePredicate, timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			type outcome struct {
				sess session.Session
				err  error
			}

			// buffered so a late resolution never leaks the goroutine
			done := make(chan outcome, 1)
			go func() {
				sess, err := resolver.Resolve(c.Request().Context(), bearerToken(c.Request()))
				done <- outcome{sess: sess, err: err}
			}()

			timer := time.NewTimer(timeout)
			defer timer.Stop()

			var sess session.Session
			select {
			case <-timer.C:
				metrics.GuardDecisionsTotal.WithLabelValues(name, "timeout").Inc()
				return denyToLogin(c, "session resolution timed out")
			case out := <-done:
				if out.err != nil {
					// infrastructure failure: fail closed
					metrics.GuardDecisionsTotal.WithLabelValues(name, "timeout").Inc()
					return denyToLogin(c, "session resolution failed")
				}
				sess = out.sess
			}

			if !sess.IsAuthenticated {
				metrics.GuardDecisionsTotal.WithLabelValues(name, "unauthorized").Inc()
				return denyToLogin(c, "not authenticated")
			}

			if allow != nil {
				role, ok := sess.User.Role.Normalize()
				if !ok || !allow(role) {
					metrics.GuardDecisionsTotal.WithLabelValues(name, "forbidden").Inc()
					return c.JSON(http.StatusForbidden, map[string]string{
						"error": "not permitted",
					})
				}
			}

			metrics.GuardDecisionsTotal.WithLabelValues(name, "authorized").Inc()
			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

func denyToLogin(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, redirectResponse{
		Error:    msg,
		Redirect: LoginPath,
		From:     c.Request().URL.Path,
	})
}

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
