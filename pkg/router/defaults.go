package router

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Built-in fallback pages, used when the manifest supplies none. They
// are populated at construction time so dispatch never nil-checks.
var (
	defaultNotFound = &Page{
		Name:    "NotFound",
		handler: defaultNotFoundHandler,
	}

	defaultErrorPage = &Page{
		Name:    "Error",
		handler: defaultErrorHandler,
	}
)

func defaultNotFoundHandler(ctx *Context) (*Response, error) {
	return TextResponse(http.StatusNotFound, "Not Found"), nil
}

// defaultErrorHandler renders a minimal built-in error page. The status
// follows the attached error when it carries one.
func defaultErrorHandler(ctx *Context) (*Response, error) {
	status := http.StatusInternalServerError
	message := http.StatusText(status)
	if sc, ok := ctx.Error.(interface{ StatusCode() int }); ok {
		status = sc.StatusCode()
		message = http.StatusText(status)
	}

	html := fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>\n",
		status, message, status, message,
	)

	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Body = io.NopCloser(strings.NewReader(html))
	return resp, nil
}
