package server

import (
	"time"

	"github.com/kbukum/podscribe/observability"
	"github.com/kbukum/podscribe/server/endpoint"
)

// Routes describes what the API serves.
type Routes struct {
	Service       string
	Version       string
	Checks        []endpoint.Check
	HealthTimeout time.Duration
	Align         AlignDefaults
	Metrics       *observability.PipelineMetrics
}

// RegisterRoutes mounts the health, info and align endpoints.
func (s *Server) RegisterRoutes(r Routes) {
	if r.HealthTimeout <= 0 {
		r.HealthTimeout = 5 * time.Second
	}
	s.engine.GET("/health", endpoint.Health(r.Service, r.Version, r.HealthTimeout, r.Checks...))
	s.engine.GET("/info", endpoint.Info(r.Service))

	v1 := s.engine.Group("/v1")
	v1.POST("/align", AlignHandler(r.Align, r.Metrics))
}
