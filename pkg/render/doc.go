// Package render runs the per-request render pipeline: it invokes a
// page's render function under an externally supplied render hook,
// collects styles and per-script nonces, assembles the page's
// Content-Security-Policy, and wraps the rendered outlet in a full
// HTML document via the template collaborator.
//
// Nothing in this package is shared across requests: every call to
// InternalRender creates a fresh inner context with its own identity.
package render
