package server

import (
	"sort"
	"strings"

	"github.com/kbukum/nucleus/bootstrap"
)

var systemPaths = map[string]bool{
	"/health": true,
	"/livez":  true,
	"/readyz": true,
	"/info":   true,
}

// TrackRoutes adds every registered gin route to summary, browser routes
// first and system routes last. Call it after all routes are registered.
func (s *Server) TrackRoutes(summary *bootstrap.Summary) {
	routes := s.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		iSys, jSys := systemPaths[routes[i].Path], systemPaths[routes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	for _, r := range routes {
		summary.TrackRoute(r.Method, r.Path, handlerName(r.Handler))
	}
}

// handlerName shortens gin's handler names:
// "github.com/kbukum/nucleus/server/endpoint.Component.func1" becomes "component".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		if !strings.HasPrefix(parts[i], "func") {
			return strings.ToLower(parts[i])
		}
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
