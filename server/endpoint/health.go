package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/provider"
)

// Check is one component reported by /health.
type Check struct {
	Checker observability.HealthChecker
	// Required components take the service down when they are down.
	Required bool
}

// ProviderChecker reports a provider as up when IsAvailable succeeds.
func ProviderChecker(p provider.Provider) observability.HealthChecker {
	return providerChecker{p}
}

type providerChecker struct{ p provider.Provider }

func (c providerChecker) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: c.p.Name(), Status: observability.HealthStatusUp}
	if !c.p.IsAvailable(ctx) {
		h.Status = observability.HealthStatusDown
		h.Message = "health endpoint did not answer"
	}
	return h
}

// Health runs all checks concurrently, each bounded by timeout, and answers
// 200 for up or degraded and 503 for down.
func Health(service, version string, timeout time.Duration, checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		results := make([]observability.Health, len(checks))
		var g errgroup.Group
		for i, check := range checks {
			g.Go(func() error {
				results[i] = check.Checker.CheckHealth(ctx)
				return nil
			})
		}
		_ = g.Wait()

		sh := observability.NewServiceHealth(service, version)
		for i, h := range results {
			sh.AddComponent(h, checks[i].Required)
		}

		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}
