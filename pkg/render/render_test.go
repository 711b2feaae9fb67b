package render

import (
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func stringRender(body string) ComponentRenderFunc {
	return func(ctx *Context) (io.Reader, error) {
		return strings.NewReader(body), nil
	}
}

func baseOptions(t *testing.T) Options {
	return Options{
		URL:       mustURL(t, "http://example.com/posts/1"),
		Pathname:  "/posts/:id",
		Params:    map[string]string{"id": "1"},
		Component: struct{}{},
		Render:    stringRender("<main>hello</main>"),
	}
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestInternalRenderDefaultDocument(t *testing.T) {
	opts := baseOptions(t)
	opts.Meta = Meta{Title: "Post <1>", Description: "first post"}

	doc, csp, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if csp != nil {
		t.Error("policy built without csp opt-in")
	}

	html := readAll(t, doc)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Post &lt;1&gt;</title>",
		`<meta name="description" content="first post">`,
		"<main>hello</main>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q:\n%s", want, html)
		}
	}
}

func TestInternalRenderLang(t *testing.T) {
	opts := baseOptions(t)
	opts.Lang = "fr"

	doc, _, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if html := readAll(t, doc); !strings.Contains(html, `<html lang="fr">`) {
		t.Errorf("lang not applied:\n%s", html)
	}
}

func TestInternalRenderContractErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"no render function", func(o *Options) { o.Render = nil }, ErrNoRenderFunction},
		{"no component", func(o *Options) { o.Component = nil }, ErrNoComponent},
		{"function component", func(o *Options) { o.Component = func() {} }, ErrAsyncComponent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(t)
			tt.mutate(&opts)
			_, _, err := InternalRender(opts, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInternalRenderHookMustRender(t *testing.T) {
	skipping := func(inner *InnerContext, render func() (io.Reader, error)) (io.Reader, error) {
		return strings.NewReader("fabricated"), nil
	}
	_, _, err := InternalRender(baseOptions(t), skipping)
	if !errors.Is(err, ErrHookNoOutput) {
		t.Errorf("err = %v, want ErrHookNoOutput", err)
	}

	discarding := func(inner *InnerContext, render func() (io.Reader, error)) (io.Reader, error) {
		if _, err := render(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	_, _, err = InternalRender(baseOptions(t), discarding)
	if !errors.Is(err, ErrHookNoOutput) {
		t.Errorf("err = %v, want ErrHookNoOutput", err)
	}
}

func TestInternalRenderMultiPass(t *testing.T) {
	pass := 0
	opts := baseOptions(t)
	opts.Render = func(ctx *Context) (io.Reader, error) {
		pass++
		inner := ctx.Inner()
		inner.AppendStyle(".pass" + string(rune('0'+pass)) + "{}")
		if pass == 1 {
			inner.State()["seed"] = 42
		} else if got, _ := inner.State()["seed"].(int); got != 42 {
			return nil, errors.New("state lost between passes")
		}
		return strings.NewReader("<main>pass</main>"), nil
	}

	var firstID string
	twice := func(inner *InnerContext, render func() (io.Reader, error)) (io.Reader, error) {
		firstID = inner.ID()
		if _, err := render(); err != nil {
			return nil, err
		}
		return render()
	}

	doc, _, err := InternalRender(opts, twice)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if pass != 2 {
		t.Fatalf("render ran %d times, want 2", pass)
	}
	if firstID == "" {
		t.Error("inner context has no ID")
	}

	html := readAll(t, doc)
	// Styles accumulate across passes in append order.
	i1 := strings.Index(html, ".pass1{}")
	i2 := strings.Index(html, ".pass2{}")
	if i1 < 0 || i2 < 0 || i1 > i2 {
		t.Errorf("styles not accumulated in order:\n%s", html)
	}
}

func TestInternalRenderModuleScriptNonces(t *testing.T) {
	opts := baseOptions(t)
	opts.CSP = true
	opts.ModuleScripts = []string{"/assets/app.js", "/assets/vendor.js"}

	doc, csp, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if csp == nil {
		t.Fatal("no policy despite csp opt-in")
	}

	html := readAll(t, doc)
	if !strings.Contains(html, `src="/assets/app.js"`) || !strings.Contains(html, `src="/assets/vendor.js"`) {
		t.Fatalf("module scripts missing:\n%s", html)
	}

	nonces := csp.Directives.ScriptSrc
	if len(nonces) != 2 {
		t.Fatalf("script-src = %v, want two nonce sources", nonces)
	}
	if nonces[0] == nonces[1] {
		t.Error("nonces are not unique per script")
	}
	for _, nonce := range nonces {
		raw := strings.TrimSuffix(strings.TrimPrefix(nonce, "'nonce-"), "'")
		if !strings.Contains(html, `nonce="`+raw+`"`) {
			t.Errorf("document missing nonce %q:\n%s", raw, html)
		}
	}
}

func TestInternalRenderDevModeConnectSrc(t *testing.T) {
	opts := baseOptions(t)
	opts.CSP = true
	opts.DevMode = true
	opts.Origin = "http://localhost:8080"

	_, csp, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if !strings.Contains(csp.HeaderValue(), "connect-src http://localhost:8080") {
		t.Errorf("header = %q, want connect-src with origin", csp.HeaderValue())
	}
}

func TestInternalRenderPolicyFrozenAfterRender(t *testing.T) {
	opts := baseOptions(t)
	opts.CSP = true

	_, csp, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if err := csp.AddScriptNonce("late"); !errors.Is(err, ErrCSPFrozen) {
		t.Errorf("AddScriptNonce after render = %v, want ErrCSPFrozen", err)
	}
}

func TestInternalRenderCustomTemplate(t *testing.T) {
	opts := baseOptions(t)
	opts.Template = func(data DocumentData) (io.Reader, error) {
		body := readAllString(data.Outlet)
		return strings.NewReader("<!-- shell -->" + body), nil
	}

	doc, _, err := InternalRender(opts, nil)
	if err != nil {
		t.Fatalf("InternalRender: %v", err)
	}
	if html := readAll(t, doc); html != "<!-- shell --><main>hello</main>" {
		t.Errorf("html = %q", html)
	}
}

func readAllString(r io.Reader) string {
	data, _ := io.ReadAll(r)
	return string(data)
}
