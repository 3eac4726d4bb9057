package hxwidget

import "github.com/starfederation/datastar-go/datastar"

// SwapMode defines how rerendered markup replaces the component's element
// on the client.
//
// The values are htmx hx-swap values; datastar responses map them to the
// closest element patch mode.
type SwapMode string

const (
	// SwapOuter replaces the entire element including its tag (outerHTML).
	// This is the default swap mode.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the element's contents (innerHTML).
	SwapInner SwapMode = "innerHTML"

	// SwapBeforeEnd appends the markup to the element's contents.
	SwapBeforeEnd SwapMode = "beforeend"

	// SwapAfterEnd inserts the markup after the element.
	SwapAfterEnd SwapMode = "afterend"

	// SwapBeforeBegin inserts the markup before the element.
	SwapBeforeBegin SwapMode = "beforebegin"

	// SwapAfterBegin prepends the markup to the element's contents.
	SwapAfterBegin SwapMode = "afterbegin"

	// SwapDelete removes the element.
	SwapDelete SwapMode = "delete"

	// SwapNone discards the markup.
	SwapNone SwapMode = "none"
)

// PatchMode returns the datastar element patch mode for s.
func (s SwapMode) PatchMode() datastar.ElementPatchMode {
	switch s {
	case SwapInner:
		return datastar.ElementPatchModeInner
	case SwapBeforeEnd:
		return datastar.ElementPatchModeAppend
	case SwapAfterBegin:
		return datastar.ElementPatchModePrepend
	case SwapAfterEnd:
		return datastar.ElementPatchModeAfter
	case SwapBeforeBegin:
		return datastar.ElementPatchModeBefore
	case SwapDelete:
		return datastar.ElementPatchModeRemove
	}
	return datastar.ElementPatchModeOuter
}
