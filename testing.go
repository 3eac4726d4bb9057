package hxwidget

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// TestResult holds the response of a simulated callback request.
//
// Provides convenience methods for asserting on the out-of-band swaps and
// scripts of the response.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header

	// Swaps maps the id of every out-of-band element to its swap mode.
	Swaps map[string]string

	// Scripts are the inline scripts of the response, in order.
	Scripts []string

	// Flashes are the flash messages of the response, in order.
	Flashes []Flash
}

// TestCallback simulates a client firing cb with the given parameters and
// returns the response the registry produced.
//
//	result, err := hxwidget.TestCallback(reg, click, map[string]string{"index": "2"})
//	if !result.Rerendered("feedback") {
//	    t.Fatal("feedback panel was not rerendered")
//	}
func TestCallback(reg *Registry, cb *Callback, params map[string]string) (*TestResult, error) {
	return NewTestRequest(cb).WithParams(params).Execute(reg)
}

// TestRequestBuilder provides a fluent interface for building callback
// requests.
//
//	result, err := hxwidget.NewTestRequest(cb).
//	    WithParam("index", "1").
//	    WithMethod(http.MethodPost).
//	    Execute(reg)
type TestRequestBuilder struct {
	cb      *Callback
	method  string
	params  url.Values
	headers map[string]string
	ctx     context.Context
}

// NewTestRequest creates a request builder for cb.
func NewTestRequest(cb *Callback) *TestRequestBuilder {
	return &TestRequestBuilder{
		cb:      cb,
		method:  cb.Method(),
		params:  url.Values{},
		headers: map[string]string{HeaderRequest: "true"},
		ctx:     context.Background(),
	}
}

// WithParam adds a query parameter.
func (b *TestRequestBuilder) WithParam(key, value string) *TestRequestBuilder {
	b.params.Set(key, value)
	return b
}

// WithParams adds multiple query parameters.
func (b *TestRequestBuilder) WithParams(params map[string]string) *TestRequestBuilder {
	for k, v := range params {
		b.params.Set(k, v)
	}
	return b
}

// WithMethod overrides the callback's HTTP method.
func (b *TestRequestBuilder) WithMethod(method string) *TestRequestBuilder {
	b.method = method
	return b
}

// WithHeader sets a request header.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute sends the request to the registry handler.
func (b *TestRequestBuilder) Execute(reg *Registry) (*TestResult, error) {
	target := b.cb.URL()
	if len(b.params) > 0 {
		target += "&" + b.params.Encode()
	}

	req := httptest.NewRequest(b.method, target, nil).WithContext(b.ctx)
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	result.Swaps = parseSwaps(result.HTML)
	result.Scripts = parseScripts(result.HTML)
	result.Flashes = parseFlashes(result.HTML)
	return result, nil
}

// HTMLContains checks if the response contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// Rerendered checks if the component with the given markup id was swapped.
func (r *TestResult) Rerendered(id string) bool {
	_, ok := r.Swaps[id]
	return ok
}

// HasScript checks if any script contains substr.
func (r *TestResult) HasScript(substr string) bool {
	for _, s := range r.Scripts {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message of the given level contains substr.
func (r *TestResult) HasFlash(level, substr string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

// IsEmpty checks if the response carries no instruction.
func (r *TestResult) IsEmpty() bool {
	return strings.TrimSpace(r.HTML) == ""
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// parseSwaps finds elements carrying hx-swap-oob and returns their ids.
// The script container is not reported.
func parseSwaps(html string) map[string]string {
	swaps := make(map[string]string)
	const attr = ` hx-swap-oob="`
	idx := 0
	for {
		at := strings.Index(html[idx:], attr)
		if at == -1 {
			break
		}
		at += idx
		valStart := at + len(attr)
		valEnd := strings.IndexByte(html[valStart:], '"')
		if valEnd == -1 {
			break
		}
		mode := html[valStart : valStart+valEnd]

		tagStart := strings.LastIndexByte(html[:at], '<')
		tagEnd := strings.IndexByte(html[at:], '>')
		if tagStart == -1 || tagEnd == -1 {
			break
		}
		if id := attrValue(html[tagStart:at+tagEnd], "id"); id != "" && id != ScriptContainerID && id != FlashContainerID {
			swaps[id] = mode
		}
		idx = valStart + valEnd
	}
	return swaps
}

// parseScripts extracts the bodies of inline script tags.
func parseScripts(html string) []string {
	var scripts []string
	const open, closing = "<script>", "</script>"
	idx := 0
	for {
		start := strings.Index(html[idx:], open)
		if start == -1 {
			break
		}
		start += idx + len(open)
		end := strings.Index(html[start:], closing)
		if end == -1 {
			break
		}
		scripts = append(scripts, html[start:start+end])
		idx = start + end + len(closing)
	}
	return scripts
}

// parseFlashes extracts the flash entries rendered by renderFlashes.
func parseFlashes(body string) []Flash {
	var flashes []Flash
	const prefix = `<div class="hxwidget-flash hxwidget-flash-`
	idx := 0
	for {
		start := strings.Index(body[idx:], prefix)
		if start == -1 {
			break
		}
		start += idx + len(prefix)
		levelEnd := strings.IndexByte(body[start:], '"')
		tagEnd := strings.IndexByte(body[start:], '>')
		if levelEnd == -1 || tagEnd == -1 {
			break
		}
		msgStart := start + tagEnd + 1
		msgEnd := strings.Index(body[msgStart:], "</div>")
		if msgEnd == -1 {
			break
		}
		flashes = append(flashes, Flash{
			Level:   html.UnescapeString(body[start : start+levelEnd]),
			Message: html.UnescapeString(body[msgStart : msgStart+msgEnd]),
		})
		idx = msgStart + msgEnd
	}
	return flashes
}

func attrValue(tag, name string) string {
	key := " " + name + `="`
	i := strings.Index(tag, key)
	if i == -1 {
		return ""
	}
	rest := tag[i+len(key):]
	j := strings.IndexByte(rest, '"')
	if j == -1 {
		return ""
	}
	return rest[:j]
}
