// Package middleware provides optional middlewares for the web server
// request chain: Prometheus metrics and OpenTelemetry tracing.
package middleware
