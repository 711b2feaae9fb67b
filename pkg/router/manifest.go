package router

import (
	"github.com/web-widget/web-server/pkg/render"
)

// Manifest is the build-time description of an application: ordered
// routes and middlewares plus optional not-found and error pages. It is
// produced externally (code generation, or assembled by hand) and
// consumed once by BuildTable.
type Manifest struct {
	Routes      []*ManifestEntry
	Middlewares []*ManifestEntry
	NotFound    *ManifestEntry
	Error       *ManifestEntry
}

// ManifestEntry is a single manifest record. Pathname is a URL pattern
// (see routepath.FromFile for the filesystem derivation); the order of
// entries in the manifest is the filesystem-priority order.
type ManifestEntry struct {
	// File is the source file the entry was derived from.
	File string

	// Name is an optional route name; defaults to the pathname.
	Name string

	// Pathname is the derived URL pattern.
	Pathname string

	// Module is the loaded page or middleware module.
	Module *Module
}

// Module is what a route or middleware file exposes to the server.
type Module struct {
	// Component is the page's opaque UI unit, handed to Render through
	// the render context.
	Component render.Component

	// Handler responds to requests. Routes without a handler but with
	// a component get a default GET handler that renders the page.
	Handler *Handler

	// Render is the page's own render function, producing the outlet.
	Render render.ComponentRenderFunc

	// Middleware is the ordered handler list of a middleware module.
	Middleware []Middleware

	// Config carries per-page options.
	Config *PageConfig
}

// PageConfig is the declared route configuration of a page module.
type PageConfig struct {
	// RouteOverride replaces the derived pathname when set.
	RouteOverride string

	// CSP opts the page into Content-Security-Policy generation.
	CSP bool

	// CSPReportOnly switches the CSP header to report-only mode.
	CSPReportOnly bool

	// Meta is the page's document metadata.
	Meta render.Meta
}

// config returns the module config, defaulting to the zero value.
func (m *Module) config() PageConfig {
	if m == nil || m.Config == nil {
		return PageConfig{}
	}
	return *m.Config
}
