package router

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/web-widget/web-server/pkg/render"
)

// Destination classifies what ultimately serviced a request.
type Destination string

const (
	// DestinationRoute means a registered route matched. It is also the
	// pre-resolution default: middlewares that inspect the destination
	// before the terminal handler resolves the match observe this
	// value, whatever the eventual outcome.
	DestinationRoute Destination = "route"

	// DestinationNotFound means the not-found fallback page answered.
	DestinationNotFound Destination = "notFound"

	// DestinationError means the error page answered after a failure.
	DestinationError Destination = "error"
)

// Context is the per-request router state. A fresh Context is created
// for every request and passed by reference through the middleware
// chain into the final handler and render hook; it must never be
// cached, pooled, or shared across requests.
type Context struct {
	// Request is the incoming HTTP request.
	Request *http.Request

	// URL is the request URL.
	URL *url.URL

	// State is scratch space shared along the chain: writes by one
	// middleware are visible to all later middlewares and the handler
	// of the same request.
	State map[string]any

	// Params holds the named and wildcard parameters extracted by the
	// route match. Empty until the terminal handler resolves.
	Params map[string]string

	// Pathname is the matched route pattern. Empty until resolution.
	Pathname string

	// Name is the matched route name.
	Name string

	// Module is the matched page module.
	Module *Module

	// Error is the error being handled when the error page runs.
	Error error

	// Destination reflects the resolved dispatch target. See the
	// DestinationRoute caveat about pre-resolution reads.
	Destination Destination

	logger *slog.Logger
	render func(*RenderOptions) (*Response, error)
}

// NewContext creates the router state for one request.
func NewContext(r *http.Request, logger *slog.Logger) *Context {
	return &Context{
		Request:     r,
		URL:         r.URL,
		State:       make(map[string]any),
		Destination: DestinationRoute,
		logger:      logger,
	}
}

// Logger returns the request logger, falling back to slog.Default.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// SetRender installs the render closure the page handlers call. The
// app wires this before dispatch.
func (c *Context) SetRender(fn func(*RenderOptions) (*Response, error)) {
	c.render = fn
}

// ErrNoRenderer is returned by Context.Render when no render closure
// was installed for the request.
var ErrNoRenderer = errors.New("router: no renderer installed on context")

// Render invokes the render pipeline for the matched page. A nil opts
// renders with no explicit data.
func (c *Context) Render(opts *RenderOptions) (*Response, error) {
	if c.render == nil {
		return nil, ErrNoRenderer
	}
	if opts == nil {
		opts = &RenderOptions{}
	}
	return c.render(opts)
}

// RenderOptions are the per-call options a handler passes to Render.
// Status, StatusText, and Header are explicit overrides applied on top
// of the headers produced by the render step; they take precedence.
type RenderOptions struct {
	// Data is the page data exposed to the render context.
	Data any

	// Error overrides the context error exposed to the page.
	Error error

	// Status overrides the response status code.
	Status int

	// StatusText overrides the response status text.
	StatusText string

	// Header entries override rendered headers key by key.
	Header http.Header

	// Meta overrides the page's document metadata.
	Meta *render.Meta
}
