package mock

import (
	"regexp"
	"strings"
)

// HandlerFunc serves one API operation. The returned value becomes the
// envelope's data; an *apiError becomes its code and msg.
type HandlerFunc func(req *Request) (any, error)

// Route represents a sandbox route
type Route struct {
	Method      string
	PathPattern string
	PathRegex   *regexp.Regexp
	Name        string
	Handler     HandlerFunc
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// Handle registers handler for method and a pattern such as /assets/{id}/assign.
func (r *Router) Handle(method, pattern, name string, handler HandlerFunc) {
	r.AddRoute(&Route{
		Method:      method,
		PathPattern: pattern,
		PathRegex:   createPathRegex(pattern),
		Name:        name,
		Handler:     handler,
	})
}

// AddRoute adds a route to the router
func (r *Router) AddRoute(route *Route) {
	r.routes = append(r.routes, route)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return r.routes
}

// Match finds a route matching the given method and path
func (r *Router) Match(method, path string) (*Route, map[string]string) {
	path = normalizePath(path)

	for _, route := range r.routes {
		if !strings.EqualFold(route.Method, method) {
			continue
		}

		if params := matchPath(route, path); params != nil {
			return route, params
		}
	}

	return nil, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

var paramPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func createPathRegex(pattern string) *regexp.Regexp {
	parts := paramPattern.Split(pattern, -1)
	names := paramPattern.FindAllStringSubmatch(pattern, -1)

	var b strings.Builder
	b.WriteString("^")
	for i, part := range parts {
		b.WriteString(regexp.QuoteMeta(part))
		if i < len(names) {
			b.WriteString("(?P<" + names[i][1] + ">[^/]+)")
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

func matchPath(route *Route, path string) map[string]string {
	if route.PathRegex != nil {
		matches := route.PathRegex.FindStringSubmatch(path)
		if matches != nil {
			params := make(map[string]string)
			names := route.PathRegex.SubexpNames()
			for i, name := range names {
				if i > 0 && name != "" && i < len(matches) {
					params[name] = matches[i]
				}
			}
			return params
		}
		return nil
	}

	if route.PathPattern == path {
		return make(map[string]string)
	}

	return nil
}
