package hxwidget

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/pthm/hxwidget/lib/config"
)

// Settings configures pages and the callback endpoint.
//
// Settings are passed explicitly to NewRegistry; there is no process-wide
// widget configuration. Load them from files and the environment with
// LoadSettings, or build them in code starting from DefaultSettings.
type Settings struct {
	// CallbackPath is the URL path the registry handler is mounted at.
	CallbackPath string `yaml:"callback_path" env:"CALLBACK_PATH"`

	// Key signs or encrypts callback tokens. A random key is generated when
	// empty, which invalidates callback URLs across restarts.
	Key string `yaml:"key" env:"KEY"`

	// Sensitive encrypts callback tokens instead of signing them.
	Sensitive bool `yaml:"sensitive" env:"SENSITIVE"`

	// MaxPages bounds the number of live pages; the oldest page is evicted
	// when a new one would exceed it. Zero means unbounded.
	MaxPages int `yaml:"max_pages" env:"MAX_PAGES"`

	// Debug starts every callback handler function with a comment naming
	// the callback id and event kind.
	Debug bool `yaml:"debug" env:"DEBUG"`

	// Scripts maps script resource names to URLs. Keys may end in "*".
	Scripts map[string]string `yaml:"scripts"`

	// Styles maps stylesheet resource names to URLs.
	Styles map[string]string `yaml:"styles"`
}

// DefaultCallbackPath is the default mount path of the callback handler.
const DefaultCallbackPath = "/_w/"

// DefaultSettings returns settings pointing at public CDN copies of the
// client libraries.
func DefaultSettings() Settings {
	return Settings{
		CallbackPath: DefaultCallbackPath,
		Scripts: map[string]string{
			"htmx":                "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js",
			"jquery":              "https://code.jquery.com/jquery-3.7.1.min.js",
			"jquery-ui":           "https://code.jquery.com/ui/1.13.2/jquery-ui.min.js",
			"globalize":           "https://cdnjs.cloudflare.com/ajax/libs/globalize/0.1.1/globalize.min.js",
			"globalize.culture.*": "https://cdnjs.cloudflare.com/ajax/libs/globalize/0.1.1/cultures/globalize.culture.*.min.js",
		},
		Styles: map[string]string{
			"jquery-ui": "https://code.jquery.com/ui/1.13.2/themes/base/jquery-ui.min.css",
		},
	}
}

// LoadSettings starts from DefaultSettings and applies config sources.
// Environment variables use the HXWIDGET_ prefix unless another prefix is
// given.
//
//	settings, err := hxwidget.LoadSettings(
//	    config.WithOptionalFile("hxwidget.yaml"),
//	    config.WithEnvFiles(".env"),
//	)
func LoadSettings(opts ...config.Option) (Settings, error) {
	s := DefaultSettings()
	opts = append([]config.Option{config.WithPrefix("HXWIDGET_")}, opts...)
	if err := config.Load(&s, opts...); err != nil {
		return s, err
	}
	return s.normalize(), nil
}

func (s Settings) normalize() Settings {
	if s.CallbackPath == "" {
		s.CallbackPath = DefaultCallbackPath
	}
	if !strings.HasPrefix(s.CallbackPath, "/") {
		s.CallbackPath = "/" + s.CallbackPath
	}
	if s.Scripts == nil {
		s.Scripts = map[string]string{}
	}
	if s.Styles == nil {
		s.Styles = map[string]string{}
	}
	return s
}

// Resolve fills in the URL of r from the resource tables.
func (s Settings) Resolve(r Resource) (Resource, error) {
	if r.URL != "" {
		return r, nil
	}
	table := s.Scripts
	if r.Kind == StyleKind {
		table = s.Styles
	}
	u, ok := resolveIn(table, r.Name)
	if !ok {
		return r, fmt.Errorf("%w: %s", ErrResourceResolution, r)
	}
	r.URL = u
	return r, nil
}

func (s Settings) encoderKey() []byte {
	if s.Key != "" {
		return []byte(s.Key)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("hxwidget: generate key: %v", err))
	}
	return key
}
