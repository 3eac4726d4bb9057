package hxwidget

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// Request and response headers used by the callback protocol.
const (
	HeaderRequest    = "HX-Request"
	HeaderCurrentURL = "HX-Current-URL"
	HeaderTrigger    = "HX-Trigger"
	HeaderReswap     = "HX-Reswap"

	// DataStarAccept is the Accept value of datastar requests.
	DataStarAccept = "text/event-stream"
)

// Render writes a templ component to the HTTP response.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxwidget.Render(w, r, page.Document("Demo"))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from htmx.
//
// htmx sends HX-Request: true on all requests, including htmx.ajax calls
// made by callback scripts.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// IsDataStar returns true if the request expects a datastar event stream.
// Callback responses are encoded as server-sent events for such requests.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAccept) {
		return true
	}
	return r.URL.Query().Has("datastar")
}

// CurrentURL returns the current URL from the HX-Current-URL header.
//
// This is the URL the browser is on, i.e. the page that owns the callback.
// Returns empty string if header not present (non-htmx request).
func CurrentURL(r *http.Request) string {
	return r.Header.Get(HeaderCurrentURL)
}

// TriggerID returns the id attribute of the element that triggered the request.
//
// Returns empty string if not present.
func TriggerID(r *http.Request) string {
	return r.Header.Get(HeaderTrigger)
}
