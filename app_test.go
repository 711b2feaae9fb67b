package webserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/web-widget/web-server/pkg/render"
	"github.com/web-widget/web-server/pkg/router"
)

func quietConfig() Config {
	return Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func pageModule(body string, cfg *router.PageConfig) *router.Module {
	return &router.Module{
		Component: struct{}{},
		Render: func(ctx *render.Context) (io.Reader, error) {
			return strings.NewReader(body), nil
		},
		Config: cfg,
	}
}

func demoManifest() *router.Manifest {
	return &router.Manifest{
		Routes: []*router.ManifestEntry{
			{Pathname: "/", Module: pageModule("<main>home</main>", nil)},
			{Pathname: "/posts/:id", Module: &router.Module{
				Component: struct{}{},
				Render: func(ctx *render.Context) (io.Reader, error) {
					return strings.NewReader("<main>post " + ctx.Params["id"] + "</main>"), nil
				},
			}},
			{Pathname: "/secure", Module: pageModule("<main>secure</main>", &router.PageConfig{CSP: true})},
		},
	}
}

func newTestApp(t *testing.T, m *router.Manifest) *App {
	t.Helper()
	app, err := New(m, quietConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *App, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAppServesRenderedPage(t *testing.T) {
	app := newTestApp(t, demoManifest())

	rec := doRequest(t, app, http.MethodGet, "/posts/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "<main>post 42</main>") {
		t.Errorf("body missing outlet:\n%s", body)
	}
}

func TestAppTrailingSlashRedirect(t *testing.T) {
	app := newTestApp(t, demoManifest())

	tests := []struct {
		target string
		want   string
	}{
		{"/posts/42/", "/posts/42"},
		{"/posts/42///", "/posts/42"},
		{"/posts/42/?page=2", "/posts/42?page=2"},
	}
	for _, tt := range tests {
		rec := doRequest(t, app, http.MethodGet, tt.target)
		if rec.Code != http.StatusTemporaryRedirect {
			t.Errorf("%s: status = %d, want 307", tt.target, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != tt.want {
			t.Errorf("%s: Location = %q, want %q", tt.target, loc, tt.want)
		}
	}

	// Root is never redirected.
	rec := doRequest(t, app, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("/: status = %d, want 200", rec.Code)
	}
}

func TestAppTrailingSlashBeforeMiddleware(t *testing.T) {
	ran := false
	m := demoManifest()
	m.Middlewares = []*router.ManifestEntry{
		{Pathname: "/", Module: router.MiddlewareModule(router.MiddlewareFunc(
			func(ctx *router.Context, next router.Next) (*router.Response, error) {
				ran = true
				return next()
			},
		))},
	}
	app := newTestApp(t, m)

	doRequest(t, app, http.MethodGet, "/posts/42/")
	if ran {
		t.Error("middleware ran before trailing-slash redirect")
	}
}

func TestAppHeadMatchesGet(t *testing.T) {
	app := newTestApp(t, demoManifest())

	get := doRequest(t, app, http.MethodGet, "/")
	head := doRequest(t, app, http.MethodHead, "/")

	if head.Code != get.Code {
		t.Errorf("HEAD status = %d, GET status = %d", head.Code, get.Code)
	}
	if head.Header().Get("Content-Type") != get.Header().Get("Content-Type") {
		t.Error("HEAD and GET headers differ")
	}
	if head.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", head.Body.String())
	}
	if get.Body.Len() == 0 {
		t.Error("GET body is empty")
	}
}

func TestAppNotFound(t *testing.T) {
	app := newTestApp(t, demoManifest())

	rec := doRequest(t, app, http.MethodGet, "/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAppCSPHeader(t *testing.T) {
	app := newTestApp(t, demoManifest())

	rec := doRequest(t, app, http.MethodGet, "/secure")
	policy := rec.Header().Get("Content-Security-Policy")
	if policy == "" {
		t.Fatal("no Content-Security-Policy header")
	}
	if !strings.Contains(policy, "default-src 'none'") {
		t.Errorf("policy = %q", policy)
	}

	// Pages without the opt-in carry no policy.
	rec = doRequest(t, app, http.MethodGet, "/")
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("policy emitted for page without csp opt-in")
	}
}

func TestAppDevModeConnectSrc(t *testing.T) {
	cfg := quietConfig()
	cfg.DevMode = true
	app, err := New(demoManifest(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := doRequest(t, app, http.MethodGet, "/secure")
	policy := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(policy, "connect-src http://example.com") {
		t.Errorf("policy = %q, want connect-src with request origin", policy)
	}
}

func TestAppHandlerErrorRendersErrorPage(t *testing.T) {
	m := demoManifest()
	m.Routes = append(m.Routes, &router.ManifestEntry{
		Pathname: "/fail",
		Module: &router.Module{Handler: router.Single(
			func(ctx *router.Context) (*router.Response, error) {
				return nil, router.ForbiddenError("no access")
			},
		)},
	})
	app := newTestApp(t, m)

	rec := doRequest(t, app, http.MethodGet, "/fail")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAppErrorPageSeesContextError(t *testing.T) {
	var seen error
	m := demoManifest()
	m.Routes = append(m.Routes, &router.ManifestEntry{
		Pathname: "/fail",
		Module: &router.Module{Handler: router.Single(
			func(ctx *router.Context) (*router.Response, error) {
				return nil, router.InternalError(errors.New("storage offline"))
			},
		)},
	})
	m.Error = &router.ManifestEntry{
		Pathname: "/error",
		Module: &router.Module{Handler: router.Single(
			func(ctx *router.Context) (*router.Response, error) {
				seen = ctx.Error
				return router.TextResponse(http.StatusInternalServerError, "custom error page"), nil
			},
		)},
	}
	app := newTestApp(t, m)

	rec := doRequest(t, app, http.MethodGet, "/fail")
	if seen == nil {
		t.Fatal("error page did not observe ctx.Error")
	}
	if !strings.Contains(rec.Body.String(), "custom error page") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAppRenderOverrides(t *testing.T) {
	m := &router.Manifest{
		Routes: []*router.ManifestEntry{
			{Pathname: "/teapot", Module: &router.Module{
				Component: struct{}{},
				Render: func(ctx *render.Context) (io.Reader, error) {
					return strings.NewReader("<main>teapot</main>"), nil
				},
				Handler: router.Single(func(ctx *router.Context) (*router.Response, error) {
					return ctx.Render(&router.RenderOptions{
						Status: http.StatusTeapot,
						Header: http.Header{"x-flavor": {"earl grey"}},
					})
				}),
			}},
		},
	}
	app := newTestApp(t, m)

	rec := doRequest(t, app, http.MethodGet, "/teapot")
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if got := rec.Header().Get("X-Flavor"); got != "earl grey" {
		t.Errorf("X-Flavor = %q", got)
	}
}

func TestAppSiteMetaMergedIntoDocument(t *testing.T) {
	cfg := quietConfig()
	cfg.Meta = render.Meta{Title: "Site Title"}
	app, err := New(demoManifest(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := doRequest(t, app, http.MethodGet, "/")
	if !strings.Contains(rec.Body.String(), "<title>Site Title</title>") {
		t.Errorf("body missing site title:\n%s", rec.Body.String())
	}
}

func TestAppModuleScriptsInjected(t *testing.T) {
	cfg := quietConfig()
	cfg.ModuleScripts = []string{"/assets/app.js"}
	app, err := New(demoManifest(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := doRequest(t, app, http.MethodGet, "/secure")
	body := rec.Body.String()
	if !strings.Contains(body, `src="/assets/app.js"`) {
		t.Fatalf("script missing:\n%s", body)
	}
	policy := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(policy, "'nonce-") {
		t.Errorf("policy = %q, want nonce source", policy)
	}
}

func TestFetchEvent(t *testing.T) {
	app := newTestApp(t, demoManifest())

	var got *router.Response
	event := NewFetchEvent(httptest.NewRequest(http.MethodGet, "/", nil), func(resp *router.Response) {
		got = resp
	})
	app.HandleEvent(event)

	if got == nil {
		t.Fatal("event did not resolve")
	}
	defer got.Close()
	if got.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", got.StatusCode)
	}

	// Second delivery is ignored.
	event.RespondWith(router.TextResponse(http.StatusTeapot, "late"))
	if got.StatusCode != http.StatusOK {
		t.Error("RespondWith replaced the delivered response")
	}
}
