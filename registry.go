package hxwidget

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Registry keeps the live pages of an application and serves their
// callbacks.
//
//	reg := hxwidget.NewRegistry(settings, hxwidget.WithLogger(logger))
//	mux.Handle(settings.CallbackPath, reg.Handler())
//
//	page, err := reg.NewPage(root)
//	hxwidget.Render(w, r, page.Document("Orders"))
//
// Requests addressed to the same page are handled one at a time; requests
// for different pages run in parallel.
type Registry struct {
	mu       sync.RWMutex
	settings Settings
	encoder  *Encoder
	logger   *slog.Logger
	pages    map[string]*Page
	order    []string

	// OnError is called when a callback fails before any response was
	// written. Customize this to handle errors appropriately for your
	// application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(reg *Registry) {
		if logger != nil {
			reg.logger = logger
		}
	}
}

// WithEncoder replaces the token encoder built from Settings.Key.
func WithEncoder(enc *Encoder) RegistryOption {
	return func(reg *Registry) {
		if enc != nil {
			reg.encoder = enc
		}
	}
}

// NewRegistry creates a registry for pages built with settings.
func NewRegistry(settings Settings, opts ...RegistryOption) *Registry {
	reg := &Registry{
		settings: settings.normalize(),
		logger:   slog.New(slog.DiscardHandler),
		pages:    make(map[string]*Page),
	}
	for _, o := range opts {
		o(reg)
	}
	if reg.encoder == nil {
		enc, err := NewEncoder(reg.settings.encoderKey())
		if err != nil {
			panic(fmt.Sprintf("hxwidget: failed to create encoder: %v", err))
		}
		reg.encoder = enc
	}

	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
	return reg
}

// Settings returns the registry settings.
func (reg *Registry) Settings() Settings { return reg.settings }

// Encoder returns the token encoder shared by the registry's pages.
func (reg *Registry) Encoder() *Encoder { return reg.encoder }

// NewPage mounts root on a new page and keeps it live until Remove is
// called or it is evicted by Settings.MaxPages.
func (reg *Registry) NewPage(root Component) (*Page, error) {
	p, err := NewPage(root, reg.settings, reg.encoder, reg.logger)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.pages[p.id] = p
	reg.order = append(reg.order, p.id)
	for reg.settings.MaxPages > 0 && len(reg.pages) > reg.settings.MaxPages {
		oldest := reg.order[0]
		reg.order = reg.order[1:]
		delete(reg.pages, oldest)
		reg.logger.Debug("page evicted", slog.String("page", oldest))
	}
	return p, nil
}

// Page returns a live page by id.
func (reg *Registry) Page(id string) (*Page, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	p, ok := reg.pages[id]
	return p, ok
}

// Remove drops a page. Its callbacks stop resolving.
func (reg *Registry) Remove(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.pages[id]; !ok {
		return false
	}
	delete(reg.pages, id)
	for i, pid := range reg.order {
		if pid == id {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live pages.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.pages)
}

// Handler returns the HTTP handler for callback requests.
// Mount it at Settings.CallbackPath.
//
// The first query key is the callback token; the remaining query and form
// values are the event parameters. Unknown or malformed tokens get an empty
// 200 response and dispatch nothing.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		datastarRequest := IsDataStar(r)

		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead && !datastarRequest {
			if !IsHTMX(r) {
				http.Error(w, "Forbidden: htmx request required", http.StatusForbidden)
				return
			}
		}

		token, values, err := callbackRequest(r)
		if err != nil {
			reg.logger.Debug("malformed callback request", slog.Any("error", err))
			writeEmpty(w, r, datastarRequest)
			return
		}

		var tok callbackToken
		if err := reg.encoder.Decode(token, reg.settings.Sensitive, &tok); err != nil {
			reg.logger.Debug("invalid callback token", slog.Any("error", wrapEncodingError(err)))
			writeEmpty(w, r, datastarRequest)
			return
		}

		p, ok := reg.Page(tok.Page)
		if !ok {
			reg.logger.Debug("callback for unknown page", slog.String("page", tok.Page))
			writeEmpty(w, r, datastarRequest)
			return
		}

		err = p.locked(func() error {
			return reg.serve(w, r, p, tok.Callback, values, datastarRequest)
		})
		if err != nil {
			p.logger.Error("callback response failed", slog.String("callback", tok.Callback), slog.Any("error", err))
		}
	})
}

// serve dispatches and writes the response. It runs under the page lock.
func (reg *Registry) serve(w http.ResponseWriter, r *http.Request, p *Page, callbackID string, values url.Values, datastarRequest bool) error {
	target, err := p.Dispatch(r.Context(), callbackID, values)
	if err != nil && IsUnknownCallback(err) {
		p.logger.Debug("callback not found", slog.String("callback", callbackID))
		writeEmpty(w, r, datastarRequest)
		return nil
	}
	status := http.StatusOK
	failed := ""
	if err != nil {
		p.logger.Error("callback dispatch failed", slog.String("callback", callbackID), slog.Any("error", err))
		status = http.StatusInternalServerError
		failed = callbackID
	}

	parts, ferr := p.Flush(r.Context(), target)
	if ferr != nil && err == nil {
		reg.OnError(w, r, ferr)
		return nil
	}

	if datastarRequest {
		return writeDatastar(w, r, failed, parts)
	}
	return writeHTMX(w, status, failed, parts)
}

// callbackRequest splits a request into the token and the event
// parameters.
func callbackRequest(r *http.Request) (string, url.Values, error) {
	first, _, _ := strings.Cut(r.URL.RawQuery, "&")
	token, _, _ := strings.Cut(first, "=")
	if token == "" {
		return "", nil, fmt.Errorf("%w: missing callback token", ErrInvalidFormat)
	}

	if err := r.ParseForm(); err != nil {
		return "", nil, err
	}
	values := url.Values{}
	for k, vs := range r.Form {
		if k == token || k == "datastar" {
			continue
		}
		values[k] = vs
	}
	return token, values, nil
}

// writeEmpty answers a request that dispatched nothing.
func writeEmpty(w http.ResponseWriter, r *http.Request, datastarRequest bool) {
	if datastarRequest {
		_ = writeDatastar(w, r, "", nil)
		return
	}
	_ = writeHTMX(w, http.StatusOK, "", nil)
}
