package webserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/web-widget/web-server/pkg/render"
	"github.com/web-widget/web-server/pkg/router"
)

// App is the top-level handler: an immutable route table plus the
// configuration shared by every request. It is safe for concurrent use;
// all per-request state lives on contexts created in Dispatch.
type App struct {
	table  *router.Table
	config Config
	logger *slog.Logger
}

// New builds an App from a compiled route manifest.
func New(manifest *router.Manifest, cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	table, err := router.BuildTable(manifest)
	if err != nil {
		return nil, err
	}

	return &App{
		table:  table,
		config: cfg,
		logger: cfg.Logger,
	}, nil
}

// Table returns the compiled route table.
func (a *App) Table() *router.Table { return a.table }

// Config returns the app configuration.
func (a *App) Config() Config { return a.config }

// Dispatch services one request and returns the response value. The
// returned error is a double fault (the error page itself failed) and
// is the hosting layer's to isolate.
//
// A path longer than "/" ending in one or more trailing slashes is
// answered with a 307 redirect to the stripped path before any
// middleware executes.
func (a *App) Dispatch(r *http.Request) (*router.Response, error) {
	if resp := redirectTrailingSlash(r); resp != nil {
		return resp, nil
	}

	ctx := router.NewContext(r, a.logger)
	ctx.SetRender(a.renderFor(ctx))
	return a.table.Dispatch(ctx)
}

// ServeHTTP adapts Dispatch to net/http.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := a.Dispatch(r)
	if err != nil {
		// Double fault. Isolate the request and fail plainly.
		a.logger.Error("error page failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeResponse(w, resp)
}

// writeResponse emits a response value and releases its body. The
// status text override is not expressible through net/http and is
// surfaced only to value-level consumers.
func writeResponse(w http.ResponseWriter, resp *router.Response) {
	defer resp.Close()

	header := w.Header()
	for key, values := range resp.Header {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if resp.Body != nil {
		io.Copy(w, resp.Body) //nolint:errcheck // client disconnects are not actionable
	}
}

// redirectTrailingSlash answers "/foo/" with a 307 to "/foo", keeping
// the query string. Root stays as is.
func redirectTrailingSlash(r *http.Request) *router.Response {
	path := r.URL.Path
	if len(path) <= 1 || !strings.HasSuffix(path, "/") {
		return nil
	}

	location := strings.TrimRight(path, "/")
	if location == "" {
		location = "/"
	}
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}

	resp := router.NewResponse(http.StatusTemporaryRedirect)
	resp.Header.Set("Location", location)
	return resp
}

// renderFor bridges the router context to the render pipeline. The
// closure is installed on every request context; handlers reach it via
// ctx.Render.
func (a *App) renderFor(ctx *router.Context) func(*router.RenderOptions) (*router.Response, error) {
	return func(opts *router.RenderOptions) (*router.Response, error) {
		mod := ctx.Module
		if mod == nil {
			return nil, errors.New("webserver: no module resolved for render")
		}

		var pc router.PageConfig
		if mod.Config != nil {
			pc = *mod.Config
		}

		renderErr := ctx.Error
		if opts.Error != nil {
			renderErr = opts.Error
		}

		meta := a.config.Meta.Merge(pc.Meta)
		if opts.Meta != nil {
			meta = meta.Merge(*opts.Meta)
		}

		body, csp, err := render.InternalRender(render.Options{
			URL:           ctx.URL,
			Pathname:      ctx.Pathname,
			Params:        ctx.Params,
			Data:          opts.Data,
			Error:         renderErr,
			Component:     mod.Component,
			Render:        mod.Render,
			CSP:           pc.CSP,
			CSPReportOnly: pc.CSPReportOnly,
			Meta:          meta,
			Lang:          a.config.Lang,
			ModuleScripts: a.config.ModuleScripts,
			ImportMap:     a.config.ImportMap,
			Template:      a.config.Template,
			DevMode:       a.config.DevMode,
			Origin:        requestOrigin(ctx.Request),
		}, a.config.RenderHook)
		if err != nil {
			return nil, err
		}

		resp := router.NewResponse(defaultStatus(ctx))
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		if csp != nil {
			resp.Header.Set(csp.HeaderName(), csp.HeaderValue())
		}
		resp.Body = io.NopCloser(body)

		// Explicit overrides supplied to the render call win over the
		// headers produced by the render step.
		if opts.Status != 0 {
			resp.StatusCode = opts.Status
		}
		if opts.StatusText != "" {
			resp.Status = opts.StatusText
		}
		for key, values := range opts.Header {
			resp.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
		}

		return resp, nil
	}
}

// defaultStatus maps the dispatch destination to the response status
// the render step starts from.
func defaultStatus(ctx *router.Context) int {
	switch ctx.Destination {
	case router.DestinationNotFound:
		return http.StatusNotFound
	case router.DestinationError:
		if sc, ok := ctx.Error.(interface{ StatusCode() int }); ok {
			return sc.StatusCode()
		}
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// requestOrigin reconstructs the page's own origin for the dev-mode
// connect-src augmentation.
func requestOrigin(r *http.Request) string {
	if r == nil || r.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
