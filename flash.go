package hxwidget

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// FlashContainerID is the id of the element flash messages are appended
// to. Page.Body renders it.
const FlashContainerID = "hxwidget-flashes"

// Flash is a one-time feedback message queued by a listener:
//
//	e.Target().Flash(hxwidget.FlashInfo, "Save has been clicked")
//
// Flashes are appended to the flash container after the rerendered
// components of the same response. The client decides how long they stay;
// data-auto-dismiss carries a suggested delay in milliseconds.
type Flash struct {
	Level   string
	Message string
}

// FlashInstruction shows a flash message.
type FlashInstruction struct {
	Flash Flash
}

func (FlashInstruction) instruction() {}

// renderFlashes renders flash entries without their container.
func renderFlashes(flashes []Flash) string {
	var sb strings.Builder
	for _, f := range flashes {
		sb.WriteString(`<div class="hxwidget-flash hxwidget-flash-`)
		sb.WriteString(templ.EscapeString(f.Level))
		sb.WriteString(`" role="status" data-auto-dismiss="3000">`)
		sb.WriteString(templ.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}
	return sb.String()
}

// FlashContainer renders the empty flash container. Page.Body includes it;
// pages laid out by hand place it once per document.
func FlashContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="`+FlashContainerID+`" class="hxwidget-flashes"></div>`)
		return err
	})
}
