package router

import (
	"io"
	"net/http"
	"sort"
	"strings"
)

// HandlerFunc responds to a request with a Response value. Responses
// flow back through the middleware chain, so middlewares can observe
// and replace them.
type HandlerFunc func(ctx *Context) (*Response, error)

// Handler is the tagged handler variant of a page module: either a
// single function answering every method, or a per-method map. It is
// resolved once at table-build time into a uniform per-method lookup.
type Handler struct {
	single   HandlerFunc
	byMethod map[string]HandlerFunc
}

// Single wraps one function that handles every HTTP method.
func Single(fn HandlerFunc) *Handler {
	return &Handler{single: fn}
}

// ByMethod wraps a map of HTTP method to handler function.
func ByMethod(m map[string]HandlerFunc) *Handler {
	copied := make(map[string]HandlerFunc, len(m))
	for method, fn := range m {
		copied[strings.ToUpper(method)] = fn
	}
	return &Handler{byMethod: copied}
}

// methods returns the per-method lookup for table construction. A
// single handler is registered under the wildcard key "" and answers
// any method.
func (h *Handler) methods() map[string]HandlerFunc {
	if h == nil {
		return map[string]HandlerFunc{}
	}
	if h.single != nil {
		return map[string]HandlerFunc{anyMethod: h.single}
	}
	out := make(map[string]HandlerFunc, len(h.byMethod))
	for method, fn := range h.byMethod {
		out[method] = fn
	}
	return out
}

// anyMethod is the lookup key of a Single handler.
const anyMethod = ""

// Response is the value produced by handlers and middlewares.
type Response struct {
	// StatusCode is the HTTP status (defaults to 200 when zero).
	StatusCode int

	// Status optionally overrides the status text.
	Status string

	Header http.Header

	// Body may be nil for empty responses.
	Body io.ReadCloser
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{StatusCode: status, Header: make(http.Header)}
}

// TextResponse creates a plain-text response.
func TextResponse(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = io.NopCloser(strings.NewReader(body))
	return resp
}

// HTMLResponse creates an HTML response from a body stream.
func HTMLResponse(status int, body io.Reader) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	if rc, ok := body.(io.ReadCloser); ok {
		resp.Body = rc
	} else if body != nil {
		resp.Body = io.NopCloser(body)
	}
	return resp
}

// Close releases the response body if one is attached.
func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// synthesizeHead derives a HEAD handler from a GET handler: the GET
// response's body stream is actively released and replaced with an
// empty body, keeping status and headers intact.
func synthesizeHead(get HandlerFunc) HandlerFunc {
	return func(ctx *Context) (*Response, error) {
		resp, err := get(ctx)
		if err != nil {
			return nil, err
		}
		if resp.Body != nil {
			resp.Body.Close()
		}
		resp.Body = http.NoBody
		return resp, nil
	}
}

// methodNotAllowed answers a method-map miss with 405 and an Allow
// header listing the methods the route does handle.
func methodNotAllowed(methods map[string]HandlerFunc) *Response {
	allow := make([]string, 0, len(methods))
	for method := range methods {
		if method != anyMethod {
			allow = append(allow, method)
		}
	}
	sort.Strings(allow)

	resp := TextResponse(http.StatusMethodNotAllowed, "Method Not Allowed")
	resp.Header.Set("Allow", strings.Join(allow, ", "))
	return resp
}
