package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/domain"
)

// Guard gates a route on the session state and role. While the session is
// still being verified the page answers 503 with Retry-After instead of
// redirecting.
func Guard(req domain.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := domain.Snapshot{State: domain.StateAnonymous}
			if auth := Authenticator(c); auth != nil {
				snap = auth.Snapshot()
			}

			decision := domain.Decide(snap, req)
			metrics.GuardDecisionsTotal.WithLabelValues(string(req), string(decision)).Inc()

			switch decision {
			case domain.DecisionAdmit:
				return next(c)
			case domain.DecisionWait:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"view": "loading"})
			case domain.DecisionRedirectToDefaultDashboard:
				return c.Redirect(http.StatusSeeOther, domain.DefaultDashboardPath)
			default:
				return c.Redirect(http.StatusSeeOther, domain.LoginPath)
			}
		}
	}
}
