package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/web-widget/web-server/pkg/middleware"
	"github.com/web-widget/web-server/pkg/render"
	"github.com/web-widget/web-server/pkg/router"
)

// demoManifest assembles the built-in demonstration site: a few pages,
// a JSON-ish API route, a guarded section, and a CSP-enabled page. It
// stands in for a generated manifest until one is wired up.
func demoManifest() *router.Manifest {
	page := func(title, body string) *router.Module {
		return &router.Module{
			Component: title,
			Render: func(ctx *render.Context) (io.Reader, error) {
				return strings.NewReader("<main><h1>" + title + "</h1>" + body + "</main>"), nil
			},
			Config: &router.PageConfig{Meta: render.Meta{Title: title}},
		}
	}

	postModule := &router.Module{
		Component: "post",
		Render: func(ctx *render.Context) (io.Reader, error) {
			return strings.NewReader(fmt.Sprintf("<main><h1>Post %s</h1></main>", ctx.Params["id"])), nil
		},
	}

	secureModule := page("Secure", "<p>This page ships a Content-Security-Policy.</p>")
	secureModule.Config.CSP = true

	timeHandler := router.ByMethod(map[string]router.HandlerFunc{
		http.MethodGet: func(ctx *router.Context) (*router.Response, error) {
			resp := router.TextResponse(http.StatusOK, time.Now().UTC().Format(time.RFC3339))
			resp.Header.Set("Content-Type", "application/json; charset=utf-8")
			return resp, nil
		},
	})

	authGuard := router.MiddlewareFunc(func(ctx *router.Context, next router.Next) (*router.Response, error) {
		if ctx.Request.Header.Get("Authorization") == "" {
			return router.TextResponse(http.StatusUnauthorized, "Unauthorized"), nil
		}
		return next()
	})

	return &router.Manifest{
		Routes: []*router.ManifestEntry{
			{File: "./routes/index.go", Pathname: "/", Module: page("Home", "<p>Welcome.</p>")},
			{File: "./routes/about.go", Pathname: "/about", Module: page("About", "<p>About this site.</p>")},
			{File: "./routes/secure.go", Pathname: "/secure", Module: secureModule},
			{File: "./routes/posts/[id].go", Pathname: "/posts/:id", Module: postModule},
			{File: "./routes/admin/index.go", Pathname: "/admin", Module: page("Admin", "<p>Admin area.</p>")},
			{File: "./routes/api/time.go", Pathname: "/api/time", Module: &router.Module{Handler: timeHandler}},
		},
		Middlewares: []*router.ManifestEntry{
			{File: "./routes/+middleware.go", Pathname: "/", Module: router.MiddlewareModule(
				middleware.Prometheus(),
				middleware.OpenTelemetry(),
			)},
			{File: "./routes/admin/+middleware.go", Pathname: "/admin", Module: router.MiddlewareModule(authGuard)},
		},
	}
}
