// Package middleware contains the route guards. Each guard is a thin
// Echo adapter over the routing.Resolver: it reads a session snapshot,
// asks the resolver for a decision, and acts on it before the page
// handler runs. Guards never write the session.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/otocare/booking-portal/internal/api/metrics"
	"github.com/otocare/booking-portal/internal/core/routing"
	"github.com/otocare/booking-portal/internal/core/session"
)

// serviceHintParam is the optional service-selection hint forwarded to
// the login page so booking can resume after authentication.
const serviceHintParam = "service_id"

// Guard returns a middleware enforcing one resolver scope. The
// decision is resolved before the handler: a redirect can never leak a
// frame of the guarded page.
func Guard(store *session.Store, resolver *routing.Resolver, scope routing.Scope) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := store.Snapshot()
			decision := resolver.Resolve(snap, c.Request().URL.Path, scope)

			switch decision.Kind {
			case routing.Pending:
				metrics.GuardDecisions.WithLabelValues(scope.Name(), "pending").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusOK, map[string]string{"status": "loading"})

			case routing.Redirect:
				metrics.GuardDecisions.WithLabelValues(scope.Name(), "redirect").Inc()
				return c.Redirect(http.StatusFound, redirectTarget(c, decision))

			default:
				metrics.GuardDecisions.WithLabelValues(scope.Name(), "render").Inc()
				return next(c)
			}
		}
	}
}

// redirectTarget builds the final redirect URL. Redirects to the login
// page carry the originating path and, when present on the request,
// the service-selection hint.
func redirectTarget(c echo.Context, decision routing.Decision) string {
	if decision.From == "" {
		return decision.Target
	}

	q := url.Values{}
	q.Set("from", decision.From)
	if hint := c.QueryParam(serviceHintParam); hint != "" {
		q.Set(serviceHintParam, hint)
	}
	return decision.Target + "?" + q.Encode()
}
