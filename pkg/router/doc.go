// Package router builds an immutable route table from a build-time
// manifest and dispatches requests through it.
//
// A Table is built once from a Manifest and is read-only afterwards, so
// it is safe for unsynchronized concurrent reads. Per-request state
// lives on a Context created fresh for every request; nothing mutable
// is shared across requests.
//
// Dispatch selects the middlewares whose pattern matches the request
// path, runs them as a continuation chain terminating in the matched
// route handler (or the not-found page), and intercepts any error at
// the top of the chain, re-dispatching it to the error page.
package router
