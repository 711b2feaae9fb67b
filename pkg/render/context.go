package render

import (
	"io"
	"net/url"

	"github.com/google/uuid"
)

// Component is a page's opaque UI unit. The pipeline never looks inside
// it; it is handed to the page's render function through the Context.
type Component = any

// ComponentRenderFunc is a page module's own render function. It
// produces the page body ("outlet") as a stream.
type ComponentRenderFunc func(ctx *Context) (io.Reader, error)

// Context is the value handed to a page's render function on each
// render pass.
type Context struct {
	// URL is the request URL.
	URL *url.URL

	// Pathname is the matched route pattern.
	Pathname string

	// Params are the extracted route parameters.
	Params map[string]string

	// Data is the handler-supplied page data, if any.
	Data any

	// Component is the page's component reference.
	Component Component

	// Error is the error being rendered on an error page.
	Error error

	inner *InnerContext
}

// Inner returns the per-render inner context shared across passes.
func (c *Context) Inner() *InnerContext { return c.inner }

// InnerContext is the identity of one InternalRender invocation. Its
// state map and style list persist across multiple render passes of the
// same logical render, supporting multi-pass rendering within one
// request. It is exclusively owned by that render and never reused.
type InnerContext struct {
	id     string
	state  map[string]any
	styles []string
	url    *url.URL
	route  string
	lang   string
}

func newInnerContext(u *url.URL, route string) *InnerContext {
	return &InnerContext{
		id:    uuid.NewString(),
		state: make(map[string]any),
		url:   u,
		route: route,
		lang:  "en",
	}
}

// ID returns the unique identifier generated for this render.
func (c *InnerContext) ID() string { return c.id }

// URL returns the request URL.
func (c *InnerContext) URL() *url.URL { return c.url }

// Route returns the matched route pattern.
func (c *InnerContext) Route() string { return c.route }

// Lang returns the document language, "en" by default.
func (c *InnerContext) Lang() string { return c.lang }

// SetLang overrides the document language.
func (c *InnerContext) SetLang(lang string) {
	if lang != "" {
		c.lang = lang
	}
}

// State is scratch space persisted across render passes of the same
// render.
func (c *InnerContext) State() map[string]any { return c.state }

// AppendStyle appends an inline stylesheet to the document. Styles are
// emitted in append order; the list grows monotonically across passes.
func (c *InnerContext) AppendStyle(css string) {
	c.styles = append(c.styles, css)
}

// Styles returns the styles collected so far, in append order.
func (c *InnerContext) Styles() []string { return c.styles }
