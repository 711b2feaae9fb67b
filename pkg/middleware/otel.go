package middleware

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/web-widget/web-server/pkg/router"
)

// OTelConfig configures the OpenTelemetry tracing middleware.
type OTelConfig struct {
	// TracerName is the name passed to the global tracer provider
	// (default: "github.com/web-widget/web-server").
	TracerName string

	// Filter decides whether a request should be traced.
	// A nil filter traces every request.
	Filter func(ctx *router.Context) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ctx *router.Context) []attribute.KeyValue

	tracer oteltrace.Tracer
}

// OTelOption configures the OpenTelemetry tracing middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithFilter sets the request filter.
func WithFilter(filter func(ctx *router.Context) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets the custom attribute extractor.
func WithAttributeExtractor(fn func(ctx *router.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = fn
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: "github.com/web-widget/web-server",
	}
}

// OpenTelemetry creates middleware that wraps each dispatch in a server
// span using the global tracer provider. Configure a provider with
// otel.SetTracerProvider before serving traffic; without one the
// middleware is a no-op.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx *router.Context, next router.Next) (*router.Response, error) {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", ctx.Request.Method),
			attribute.String("url.path", ctx.URL.Path),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx.Request.Context(),
			ctx.Request.Method+" "+ctx.URL.Path,
			oteltrace.WithSpanKind(oteltrace.SpanKindServer),
			oteltrace.WithAttributes(attrs...),
			oteltrace.WithTimestamp(time.Now()),
		)
		defer span.End()

		ctx.Request = ctx.Request.WithContext(spanCtx)

		resp, err := next()

		// The route pattern resolves during next(), so record it afterwards.
		if ctx.Pathname != "" {
			span.SetName(ctx.Request.Method + " " + ctx.Pathname)
			span.SetAttributes(attribute.String("http.route", ctx.Pathname))
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			if resp != nil {
				span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			}
			span.SetStatus(codes.Ok, "")
		}

		return resp, err
	})
}
