package render

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"reflect"
)

// Render contract violations. They surface as fatal errors for the
// request and are handled by the caller's top-level error path.
var (
	// ErrHookNoOutput is returned when the render hook never called the
	// inner render function, or discarded its result.
	ErrHookNoOutput = errors.New("render: render hook did not produce output")

	// ErrNoComponent is returned when rendering is attempted for a page
	// that declares no component.
	ErrNoComponent = errors.New("render: page has no component")

	// ErrNoRenderFunction is returned when the page module carries no
	// render function.
	ErrNoRenderFunction = errors.New("render: page module has no render function")

	// ErrAsyncComponent is returned for function-typed components;
	// components must be resolved values, not deferred producers.
	ErrAsyncComponent = errors.New("render: asynchronous components are not supported")
)

// RenderHook controls when the page's render function is invoked,
// enabling wrapping behavior such as extra document shell logic. The
// hook must call render at least once and return its (possibly
// wrapped) result.
type RenderHook func(inner *InnerContext, render func() (io.Reader, error)) (io.Reader, error)

// defaultHook renders exactly once.
func defaultHook(inner *InnerContext, render func() (io.Reader, error)) (io.Reader, error) {
	return render()
}

// Options carries everything one InternalRender invocation needs.
type Options struct {
	URL      *url.URL
	Pathname string
	Params   map[string]string

	// Data is the handler-supplied page data.
	Data any

	// Error is the error exposed to error pages.
	Error error

	// Component and Render come from the matched page module.
	Component Component
	Render    ComponentRenderFunc

	// CSP opts into policy generation; CSPReportOnly selects the
	// report-only header.
	CSP           bool
	CSPReportOnly bool

	// Meta is the document metadata.
	Meta Meta

	// Lang presets the document language (defaults to "en").
	Lang string

	// ModuleScripts are client-module URLs injected into the document,
	// each carrying a freshly generated nonce.
	ModuleScripts []string

	// ImportMap is an optional import map emitted before the module
	// scripts.
	ImportMap json.RawMessage

	// Template wraps the outlet into a full document; nil selects
	// DefaultDocument.
	Template DocumentTemplate

	// DevMode appends Origin to connect-src so livereload connections
	// are allowed by the page's CSP.
	DevMode bool
	Origin  string
}

// InternalRender runs one logical render: it builds the page's CSP (if
// opted in), creates a fresh inner context, invokes the render hook
// around the page's render function, injects module scripts with
// per-script nonces, and wraps the outlet via the document template.
//
// The render produces output exactly once or fails; partial results are
// never returned. The returned policy is nil unless the page declared
// csp: true.
func InternalRender(opts Options, hook RenderHook) (io.Reader, *ContentSecurityPolicy, error) {
	var csp *ContentSecurityPolicy
	if opts.CSP {
		csp = NewContentSecurityPolicy(opts.CSPReportOnly)
	}

	inner := newInnerContext(opts.URL, opts.Pathname)
	inner.SetLang(opts.Lang)

	called := false
	renderOnce := func() (io.Reader, error) {
		if opts.Render == nil {
			return nil, ErrNoRenderFunction
		}
		if opts.Component == nil {
			return nil, ErrNoComponent
		}
		if reflect.ValueOf(opts.Component).Kind() == reflect.Func {
			return nil, ErrAsyncComponent
		}

		called = true
		return opts.Render(&Context{
			URL:       opts.URL,
			Pathname:  opts.Pathname,
			Params:    opts.Params,
			Data:      opts.Data,
			Component: opts.Component,
			Error:     opts.Error,
			inner:     inner,
		})
	}

	if hook == nil {
		hook = defaultHook
	}

	// A hook may have inspected or mutated the policy it closed over
	// before render is invoked; start the pass from a known state.
	if csp != nil {
		csp.reset()
	}

	outlet, err := hook(inner, renderOnce)
	if err != nil {
		return nil, nil, err
	}
	if !called || outlet == nil {
		return nil, nil, ErrHookNoOutput
	}

	scripts := make([]ModuleScript, 0, len(opts.ModuleScripts))
	for _, src := range opts.ModuleScripts {
		nonce := Nonce()
		if csp != nil {
			if err := csp.AddScriptNonce(nonce); err != nil {
				return nil, nil, err
			}
		}
		scripts = append(scripts, ModuleScript{Src: src, Nonce: nonce})
	}

	if csp != nil {
		if opts.DevMode && opts.Origin != "" {
			csp.Directives.ConnectSrc = append(csp.Directives.ConnectSrc, opts.Origin)
		}
		csp.Freeze()
	}

	tpl := opts.Template
	if tpl == nil {
		tpl = DefaultDocument
	}

	doc, err := tpl(DocumentData{
		Outlet:        outlet,
		Styles:        inner.Styles(),
		ModuleScripts: scripts,
		Lang:          inner.Lang(),
		Meta:          opts.Meta,
		ImportMap:     opts.ImportMap,
	})
	if err != nil {
		return nil, nil, err
	}

	return doc, csp, nil
}
