package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/nucleus/component"
)

// RouteInfo is one HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// ContainerInfo describes the started container.
type ContainerInfo struct {
	Modules        []string
	InitialService string
	Registrations  int
}

// Summary collects what started and renders it once the service is ready.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	container       *ContainerInfo
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

// TrackContainer records the loaded modules.
func (s *Summary) TrackContainer(modules []string, initialService string, registrations int) {
	s.container = &ContainerInfo{
		Modules:        append([]string(nil), modules...),
		InitialService: initialService,
		Registrations:  registrations,
	}
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// Routes returns the tracked routes.
func (s *Summary) Routes() []RouteInfo {
	return s.routes
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

// Render writes the summary and the live health of registry to w.
func (s *Summary) Render(w io.Writer, registry *component.Registry) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	if c := s.container; c != nil {
		fmt.Fprintf(w, "\n📦 Container\n")
		fmt.Fprintf(w, "   ├── modules: %s\n", strings.Join(c.Modules, ", "))
		fmt.Fprintf(w, "   ├── initial service: %s\n", c.InitialService)
		fmt.Fprintf(w, "   └── registrations: %d\n", c.Registrations)
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if registry != nil {
		results := registry.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)), healthIcon(h.Status), h.Name, h.Status, msg)
			}
		}
	}
	fmt.Fprintln(w)
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
