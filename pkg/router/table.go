package router

import (
	"fmt"
	"net/http"

	"github.com/web-widget/web-server/pkg/routepath"
)

// Route is a compiled mapping from a URL pattern to page metadata and a
// per-method handler lookup. Routes are created once at table-build
// time and never mutated afterwards.
type Route struct {
	Pathname string
	Name     string

	pattern *routepath.Pattern
	module  *Module
	methods map[string]HandlerFunc
}

// Module returns the page module behind the route.
func (r *Route) Module() *Module { return r.module }

// handlerFor resolves the handler for an HTTP method. A Single handler
// answers every method; a method map answers only its keys.
func (r *Route) handlerFor(method string) (HandlerFunc, bool) {
	if fn, ok := r.methods[method]; ok {
		return fn, true
	}
	if fn, ok := r.methods[anyMethod]; ok {
		return fn, true
	}
	return nil, false
}

// Page is a fallback page (not-found or error): a route minus the
// method map, singleton per table.
type Page struct {
	Pathname string
	Name     string

	module  *Module
	handler HandlerFunc
}

// Table is the immutable dispatch table built once from a manifest.
// After construction it is read-only and safe for unsynchronized
// concurrent reads.
type Table struct {
	routes      []*Route
	middlewares []*MiddlewareRoute
	notFound    *Page
	errPage     *Page
}

// Routes returns the priority-ordered route list.
func (t *Table) Routes() []*Route { return t.routes }

// Middlewares returns the priority-ordered middleware list.
func (t *Table) Middlewares() []*MiddlewareRoute { return t.middlewares }

// BuildTable compiles a manifest into a dispatch table:
//
//   - a declared RouteOverride takes precedence over the derived
//     pathname
//   - a page with a component but no GET handler gets a default GET
//     that renders with no explicit data
//   - HEAD is synthesized from GET when absent
//   - middleware patterns are compiled once, not per request
//   - routes and middlewares are independently stable-sorted by
//     segment priority
//   - missing not-found and error pages are populated with built-in
//     defaults, so dispatch never nil-checks them
func BuildTable(m *Manifest) (*Table, error) {
	t := &Table{}

	seen := make(map[string]string, len(m.Routes))
	for _, entry := range m.Routes {
		route, err := buildRoute(entry)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[route.Pathname]; dup {
			return nil, fmt.Errorf("router: duplicate route %q (%s and %s)", route.Pathname, prev, entry.File)
		}
		seen[route.Pathname] = entry.File
		t.routes = append(t.routes, route)
	}

	for _, entry := range m.Middlewares {
		mw, err := buildMiddleware(entry)
		if err != nil {
			return nil, err
		}
		t.middlewares = append(t.middlewares, mw)
	}

	routepath.SortByPriority(t.routes, func(r *Route) string { return r.Pathname })
	routepath.SortByPriority(t.middlewares, func(m *MiddlewareRoute) string { return m.Pathname })

	t.notFound = buildFallback(m.NotFound, defaultNotFound)
	t.errPage = buildFallback(m.Error, defaultErrorPage)

	return t, nil
}

func buildRoute(entry *ManifestEntry) (*Route, error) {
	if entry.Module == nil {
		return nil, fmt.Errorf("router: route %q has no module", entry.Pathname)
	}

	pathname := entry.Pathname
	if override := entry.Module.config().RouteOverride; override != "" {
		pathname = override
	}

	name := entry.Name
	if name == "" {
		name = pathname
	}

	methods := entry.Module.Handler.methods()

	_, hasGet := methods[http.MethodGet]
	_, hasAny := methods[anyMethod]
	if !hasGet && !hasAny && entry.Module.Component != nil {
		methods[http.MethodGet] = func(ctx *Context) (*Response, error) {
			return ctx.Render(nil)
		}
	}

	if get, ok := methods[http.MethodGet]; ok {
		if _, hasHead := methods[http.MethodHead]; !hasHead {
			methods[http.MethodHead] = synthesizeHead(get)
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("router: route %q has neither handler nor component", pathname)
	}

	return &Route{
		Pathname: pathname,
		Name:     name,
		pattern:  routepath.Compile(pathname),
		module:   entry.Module,
		methods:  methods,
	}, nil
}

func buildMiddleware(entry *ManifestEntry) (*MiddlewareRoute, error) {
	if entry.Module == nil || len(entry.Module.Middleware) == 0 {
		return nil, fmt.Errorf("router: middleware %q has no handlers", entry.Pathname)
	}
	name := entry.Name
	if name == "" {
		name = entry.Pathname
	}
	return &MiddlewareRoute{
		Pathname: entry.Pathname,
		Name:     name,
		pattern:  routepath.Compile(entry.Pathname),
		handlers: entry.Module.Middleware,
	}, nil
}

// buildFallback compiles a fallback page entry, or the built-in default
// when the manifest supplies none.
func buildFallback(entry *ManifestEntry, def *Page) *Page {
	if entry == nil || entry.Module == nil {
		return def
	}

	page := &Page{
		Pathname: entry.Pathname,
		Name:     entry.Name,
		module:   entry.Module,
	}
	if page.Name == "" {
		page.Name = entry.Pathname
	}

	switch {
	case entry.Module.Handler != nil && entry.Module.Handler.single != nil:
		page.handler = entry.Module.Handler.single
	case entry.Module.Component != nil:
		page.handler = func(ctx *Context) (*Response, error) {
			return ctx.Render(nil)
		}
	default:
		page.handler = def.handler
	}
	return page
}

// MatchRoute walks the priority-ordered route list and returns the
// first pattern match along with its extracted parameters. Matching is
// deterministic: the same path always resolves to the same route.
func (t *Table) MatchRoute(path string) (*Route, map[string]string, bool) {
	for _, route := range t.routes {
		if params, ok := route.pattern.Match(path); ok {
			return route, params, true
		}
	}
	return nil, nil, false
}

// SelectMiddlewares returns the ordered subset of middlewares whose
// pattern matches the request path, preserving table order: outer
// (shallower) middlewares run before deeper ones. An empty result is
// valid; dispatch then proceeds straight to the terminal handler.
func (t *Table) SelectMiddlewares(path string) []*MiddlewareRoute {
	var selected []*MiddlewareRoute
	for _, mw := range t.middlewares {
		if mw.matches(path) {
			selected = append(selected, mw)
		}
	}
	return selected
}

// Dispatch runs the middleware chain for the request and returns the
// response. Any error raised by a middleware or handler is caught once
// here, logged, attached to the context, and re-dispatched to the error
// page outside the chain (never retried). An error from the error page
// itself (a double fault) is returned to the caller.
func (t *Table) Dispatch(ctx *Context) (*Response, error) {
	resp, err := runChain(ctx, t.SelectMiddlewares(ctx.URL.Path), t.terminal(ctx))
	if err == nil {
		return resp, nil
	}

	ctx.Logger().Error("request failed",
		"method", ctx.Request.Method,
		"path", ctx.URL.Path,
		"error", err,
	)

	ctx.Error = err
	ctx.Destination = DestinationError
	ctx.Pathname = t.errPage.Pathname
	ctx.Name = t.errPage.Name
	ctx.Module = t.errPage.module

	resp, err = t.errPage.handler(ctx)
	if resp == nil && err == nil {
		err = errNoResponse
	}
	return resp, err
}

// terminal builds the chain's final thunk: resolve the route by path
// matching, record the true destination on the context, and invoke the
// resolved handler. Resolution happens here, not before the chain
// starts, so middlewares that read ctx.Destination early observe the
// pre-resolution default.
func (t *Table) terminal(ctx *Context) Next {
	return func() (*Response, error) {
		if route, params, ok := t.MatchRoute(ctx.URL.Path); ok {
			ctx.Params = params
			ctx.Pathname = route.Pathname
			ctx.Name = route.Name
			ctx.Module = route.module
			ctx.Destination = DestinationRoute

			fn, allowed := route.handlerFor(ctx.Request.Method)
			if !allowed {
				return methodNotAllowed(route.methods), nil
			}
			return fn(ctx)
		}

		ctx.Destination = DestinationNotFound
		ctx.Pathname = t.notFound.Pathname
		ctx.Name = t.notFound.Name
		ctx.Module = t.notFound.module
		return t.notFound.handler(ctx)
	}
}
