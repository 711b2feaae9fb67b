package router

import "github.com/web-widget/web-server/pkg/routepath"

// Next resumes the middleware chain and returns the response produced
// downstream. A middleware that never calls next short-circuits the
// chain: later middlewares and the route handler never execute, and the
// response is exactly what that middleware returned.
type Next func() (*Response, error)

// Middleware is a handler invoked around the matched route.
type Middleware interface {
	Handle(ctx *Context, next Next) (*Response, error)
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(ctx *Context, next Next) (*Response, error)

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Context, next Next) (*Response, error) {
	return f(ctx, next)
}

// MiddlewareModule wraps an ordered list of middleware handlers as a
// manifest module.
func MiddlewareModule(mw ...Middleware) *Module {
	return &Module{Middleware: mw}
}

// MiddlewareRoute is a middleware entry of the route table: the pattern
// it is mounted under, the matcher compiled once at build time, and its
// flattened handler list.
type MiddlewareRoute struct {
	Pathname string
	Name     string

	pattern  *routepath.Pattern
	handlers []Middleware
}

// Handlers returns the ordered handler list.
func (m *MiddlewareRoute) Handlers() []Middleware {
	return m.handlers
}

// matches tests the compiled pattern against a request path. Middleware
// patterns match as prefixes: "/" applies everywhere.
func (m *MiddlewareRoute) matches(path string) bool {
	return m.pattern.MatchPrefix(path)
}

// Chain combines several middlewares into one, preserving order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Context, next Next) (*Response, error) {
		c := &chain{thunks: make([]Next, 0, len(middleware)+1)}
		for _, m := range middleware {
			m := m
			c.thunks = append(c.thunks, func() (*Response, error) {
				return m.Handle(ctx, c.next)
			})
		}
		c.thunks = append(c.thunks, Next(next))
		return c.next()
	})
}
