package hxwidget

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/pthm/hxwidget/lib/options"
)

// ErrorEvent is the DOM event raised on the client when a callback failed
// on the server. Its detail carries the callback id.
const ErrorEvent = "hxwidget:error"

// writeHTMX encodes parts as out-of-band swaps.
//
// Rerendered markup gets an hx-swap-oob attribute on its root element.
// Flash messages are appended to the flash container. Scripts and late
// dependencies are appended to the script container, where htmx evaluates
// them after the swap.
//
// When failed names a callback, the response carries an HX-Trigger header
// raising ErrorEvent. htmx handles the trigger header on error statuses,
// but only swaps the body of a 5xx response when htmx.config.responseHandling
// allows it.
func writeHTMX(w http.ResponseWriter, status int, failed string, parts []Part) error {
	var buf bytes.Buffer
	var tail bytes.Buffer
	var flashes []Flash

	for _, part := range parts {
		switch {
		case part.Swap == SwapDelete:
			buf.WriteString(`<div id="` + part.Target + `" hx-swap-oob="delete"></div>`)
		case part.HTML != "":
			buf.WriteString(injectOOB(part.HTML, part.Swap))
		case part.Resource != nil:
			if err := part.Resource.Component().Render(context.Background(), &tail); err != nil {
				return err
			}
		case part.Flash != nil:
			flashes = append(flashes, *part.Flash)
		case part.Script != "":
			tail.WriteString("<script>" + part.Script + "</script>")
		}
	}
	if len(flashes) > 0 {
		buf.WriteString(`<div id="` + FlashContainerID + `" hx-swap-oob="beforeend">`)
		buf.WriteString(renderFlashes(flashes))
		buf.WriteString(`</div>`)
	}
	if tail.Len() > 0 {
		buf.WriteString(`<div id="` + ScriptContainerID + `" hx-swap-oob="beforeend">`)
		buf.Write(tail.Bytes())
		buf.WriteString(`</div>`)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(HeaderReswap, string(SwapNone))
	if failed != "" {
		w.Header().Set(HeaderTrigger, `{"`+ErrorEvent+`":{"callback":`+quote(failed)+`}}`)
	}
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// injectOOB adds hx-swap-oob to the first element of html.
func injectOOB(html string, swap SwapMode) string {
	if swap == "" {
		swap = SwapOuter
	}
	start := strings.IndexByte(html, '<')
	for start >= 0 && start+1 < len(html) && !isTagStart(html[start+1]) {
		next := strings.IndexByte(html[start+1:], '<')
		if next < 0 {
			return html
		}
		start += next + 1
	}
	if start < 0 {
		return html
	}
	end := start + 1
	for end < len(html) && !strings.ContainsRune(" \t\n\r/>", rune(html[end])) {
		end++
	}
	return html[:end] + ` hx-swap-oob="` + string(swap) + `"` + html[end:]
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// writeDatastar encodes parts as datastar server-sent events. The stream
// always answers 200; when failed names a callback, a final script
// dispatches ErrorEvent on the document after the collected patches.
func writeDatastar(w http.ResponseWriter, r *http.Request, failed string, parts []Part) error {
	sse := datastar.NewSSE(w, r)
	for _, part := range parts {
		var err error
		switch {
		case part.Swap == SwapDelete:
			err = sse.PatchElements("",
				datastar.WithSelector("#"+part.Target),
				datastar.WithMode(datastar.ElementPatchModeRemove),
			)
		case part.HTML != "":
			opts := []datastar.PatchElementOption{datastar.WithMode(part.Swap.PatchMode())}
			if part.Swap != SwapOuter && part.Swap != "" {
				opts = append(opts, datastar.WithSelector("#"+part.Target))
			}
			err = sse.PatchElements(part.HTML, opts...)
		case part.Resource != nil:
			var tag bytes.Buffer
			if err = part.Resource.Component().Render(r.Context(), &tag); err == nil {
				err = sse.PatchElements(tag.String(),
					datastar.WithSelector("head"),
					datastar.WithMode(datastar.ElementPatchModeAppend),
				)
			}
		case part.Flash != nil:
			err = sse.PatchElements(renderFlashes([]Flash{*part.Flash}),
				datastar.WithSelector("#"+FlashContainerID),
				datastar.WithMode(datastar.ElementPatchModeAppend),
			)
		case part.Script != "":
			err = sse.ExecuteScript(part.Script)
		}
		if err != nil {
			return err
		}
	}
	if failed != "" {
		return sse.ExecuteScript(`document.dispatchEvent(new CustomEvent("` + ErrorEvent + `", {detail: {callback: ` + quote(failed) + `}}))`)
	}
	return nil
}

func quote(s string) string {
	q, _ := options.Script(options.String(s))
	return q
}
