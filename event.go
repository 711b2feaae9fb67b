package webserver

import (
	"net/http"

	"github.com/web-widget/web-server/pkg/router"
)

// FetchEvent pairs a request with the callback that delivers its
// response, in the style of platform fetch-event listeners.
type FetchEvent struct {
	Request *http.Request

	respond   func(*router.Response)
	responded bool
}

// NewFetchEvent creates a fetch event. respond is invoked exactly once
// with the final response.
func NewFetchEvent(r *http.Request, respond func(*router.Response)) *FetchEvent {
	return &FetchEvent{Request: r, respond: respond}
}

// RespondWith delivers the response. Calls after the first are ignored.
func (e *FetchEvent) RespondWith(resp *router.Response) {
	if e.responded || e.respond == nil {
		return
	}
	e.responded = true
	e.respond(resp)
}

// HandleEvent resolves a fetch event using the app's handler. A double
// fault is answered with a plain 500 so the event always resolves.
func (a *App) HandleEvent(e *FetchEvent) {
	resp, err := a.Dispatch(e.Request)
	if err != nil {
		a.logger.Error("error page failed", "path", e.Request.URL.Path, "error", err)
		resp = router.TextResponse(http.StatusInternalServerError, "Internal Server Error")
	}
	e.RespondWith(resp)
}
