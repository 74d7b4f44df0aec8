package bootstrap

import (
	"fmt"
	"io"
	"time"
)

// ComponentInfo is one wired collaborator shown in the startup summary.
type ComponentInfo struct {
	Name    string
	Type    string // "transcription", "diarization", "storage", "server"
	Details string
	Healthy bool
}

// RouteInfo is one served HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary collects what a process wired so it can be shown once at startup.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []ComponentInfo
	routes          []RouteInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackComponent records a wired collaborator.
func (s *Summary) TrackComponent(name, componentType, details string, healthy bool) {
	s.components = append(s.components, ComponentInfo{
		Name:    name,
		Type:    componentType,
		Details: details,
		Healthy: healthy,
	})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// Components returns the tracked components in registration order.
func (s *Summary) Components() []ComponentInfo { return s.components }

// Display writes the summary tree to w.
func (s *Summary) Display(w io.Writer) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.components) > 0 {
		fmt.Fprintf(w, "\nComponents\n")
		healthy := 0
		for i, c := range s.components {
			fmt.Fprintf(w, "   %s %s %s [%s] %s\n", treePrefix(i, len(s.components)), statusIcon(c.Healthy), c.Name, c.Type, c.Details)
			if c.Healthy {
				healthy++
			}
		}
		if healthy != len(s.components) {
			fmt.Fprintf(w, "\n%d/%d components reachable\n", healthy, len(s.components))
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(healthy bool) string {
	if healthy {
		return "✅"
	}
	return "⚠️"
}
