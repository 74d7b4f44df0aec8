package observability

import "context"

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one component, such as the whisper sidecar.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth aggregates component health.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
}

// AddComponent records a component. Required components that are down take
// the service down; optional ones only degrade it. Diarization is optional
// because runs fall back to unlabeled transcripts without it.
func (sh *ServiceHealth) AddComponent(ch Health, required bool) {
	sh.Components = append(sh.Components, ch)
	switch {
	case ch.Status == HealthStatusDown && required:
		sh.Status = HealthStatusDown
	case ch.Status != HealthStatusUp && sh.Status != HealthStatusDown:
		sh.Status = HealthStatusDegraded
	}
}
