package hxwidget

import (
	"net/http/httptest"
	"testing"
)

func TestIsHTMX(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if IsHTMX(req) {
		t.Error("expected IsHTMX to be false without header")
	}

	req.Header.Set("HX-Request", "true")
	if !IsHTMX(req) {
		t.Error("expected IsHTMX to be true with header")
	}
}

func TestIsDataStar(t *testing.T) {
	req := httptest.NewRequest("GET", "/_w/?tok", nil)
	if IsDataStar(req) {
		t.Error("expected IsDataStar to be false for plain request")
	}

	req.Header.Set("Accept", "text/event-stream")
	if !IsDataStar(req) {
		t.Error("expected IsDataStar to be true for event-stream accept")
	}

	req = httptest.NewRequest("GET", "/_w/?tok&datastar=%7B%7D", nil)
	if !IsDataStar(req) {
		t.Error("expected IsDataStar to be true with datastar query param")
	}
}

func TestRequestHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("HX-Current-URL", "http://localhost/orders")
	req.Header.Set("HX-Trigger", "menu")

	if got := CurrentURL(req); got != "http://localhost/orders" {
		t.Errorf("CurrentURL = %q", got)
	}
	if got := TriggerID(req); got != "menu" {
		t.Errorf("TriggerID = %q", got)
	}
}

func TestInjectOOB(t *testing.T) {
	tests := []struct {
		name string
		html string
		swap SwapMode
		want string
	}{
		{"simple", `<div id="a">x</div>`, SwapOuter, `<div hx-swap-oob="outerHTML" id="a">x</div>`},
		{"leading comment", `<!-- c --><ul id="m"></ul>`, SwapInner, `<!-- c --><ul hx-swap-oob="innerHTML" id="m"></ul>`},
		{"default swap", `<p id="p">t</p>`, "", `<p hx-swap-oob="outerHTML" id="p">t</p>`},
		{"no element", `plain text`, SwapOuter, `plain text`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := injectOOB(tt.html, tt.swap); got != tt.want {
				t.Errorf("injectOOB() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSwapModePatchMode(t *testing.T) {
	if SwapInner.PatchMode() == SwapOuter.PatchMode() {
		t.Error("inner and outer swaps must map to different patch modes")
	}
	if SwapMode("unknown").PatchMode() != SwapOuter.PatchMode() {
		t.Error("unknown swap modes should fall back to outer")
	}
}
