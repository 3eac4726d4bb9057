package hxwidget

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ResourceKind distinguishes client dependencies.
type ResourceKind int

const (
	// ScriptKind is a JavaScript file delivered with a script tag.
	ScriptKind ResourceKind = iota
	// StyleKind is a stylesheet delivered with a link tag.
	StyleKind
)

// Resource is a client dependency a widget needs in the page head.
//
// Resources are identified by kind and name. The URL is looked up in
// Settings when the page is rendered, unless it was given explicitly.
type Resource struct {
	Kind ResourceKind
	Name string
	URL  string
}

// ScriptResource declares a script dependency by name.
func ScriptResource(name string) Resource {
	return Resource{Kind: ScriptKind, Name: name}
}

// StyleResource declares a stylesheet dependency by name.
func StyleResource(name string) Resource {
	return Resource{Kind: StyleKind, Name: name}
}

// ScriptURL declares a script dependency with a fixed URL.
func ScriptURL(name, url string) Resource {
	return Resource{Kind: ScriptKind, Name: name, URL: url}
}

// StyleURL declares a stylesheet dependency with a fixed URL.
func StyleURL(name, url string) Resource {
	return Resource{Kind: StyleKind, Name: name, URL: url}
}

func (r Resource) key() string {
	if r.Kind == StyleKind {
		return "style:" + r.Name
	}
	return "script:" + r.Name
}

func (r Resource) String() string {
	return r.key()
}

// Component renders the tag for a resolved resource.
func (r Resource) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		if r.Kind == StyleKind {
			_, err = fmt.Fprintf(w, `<link rel="stylesheet" href="%s">`, templ.EscapeString(r.URL))
		} else {
			_, err = fmt.Fprintf(w, `<script src="%s"></script>`, templ.EscapeString(r.URL))
		}
		return err
	})
}

// dedupeResources keeps the first occurrence of each resource, preserving
// order.
func dedupeResources(rs []Resource) []Resource {
	seen := make(map[string]bool, len(rs))
	out := make([]Resource, 0, len(rs))
	for _, r := range rs {
		k := r.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// resolveIn looks name up in table. Keys ending in ".*" match any name with
// that prefix; the "*" in the URL is replaced by the matched suffix.
func resolveIn(table map[string]string, name string) (string, bool) {
	if u, ok := table[name]; ok {
		return u, true
	}
	best := ""
	for k := range table {
		prefix, ok := strings.CutSuffix(k, "*")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if len(k) > len(best) {
			best = k
		}
	}
	if best == "" {
		return "", false
	}
	suffix := strings.TrimPrefix(name, strings.TrimSuffix(best, "*"))
	return strings.ReplaceAll(table[best], "*", suffix), true
}
