package webserver

import (
	"encoding/json"
	"log/slog"

	"github.com/web-widget/web-server/pkg/render"
)

// Config configures an App. The zero value is usable.
type Config struct {
	// Logger receives request-level errors. Defaults to slog.Default.
	Logger *slog.Logger

	// DevMode relaxes page CSPs so livereload connections to the
	// page's own origin are allowed.
	DevMode bool

	// Lang presets the document language for every page ("en" when
	// empty).
	Lang string

	// Meta is the site-wide document metadata; page metadata is merged
	// on top of it.
	Meta render.Meta

	// ModuleScripts are client-module URLs injected into every
	// rendered document, each with a per-render nonce.
	ModuleScripts []string

	// ImportMap is an optional import map emitted before the module
	// scripts.
	ImportMap json.RawMessage

	// Template wraps rendered outlets into full documents. Defaults to
	// render.DefaultDocument.
	Template render.DocumentTemplate

	// RenderHook wraps every page render. Defaults to rendering once.
	RenderHook render.RenderHook
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
