package hxwidget

import (
	"errors"

	"github.com/pthm/hxwidget/lib/options"
)

// Sentinel errors for the widget bridge.
var (
	// ErrConfiguration reports an option value that cannot be serialized.
	// Surfaced to the page build.
	ErrConfiguration = options.ErrConfiguration

	// ErrParameterDecode reports a missing or malformed callback parameter.
	// It is recovered locally by falling back to the documented default and
	// only ever appears in debug logs.
	ErrParameterDecode = errors.New("hxwidget: parameter decode failed")

	// ErrDispatch reports a listener failure during broadcast.
	ErrDispatch = errors.New("hxwidget: event dispatch failed")

	// ErrResourceResolution reports a declared script or style dependency
	// that cannot be resolved. Fatal for the page build.
	ErrResourceResolution = errors.New("hxwidget: resource resolution failed")

	// ErrUnknownCallback reports a callback request that does not address a
	// live callback. Nothing is dispatched.
	ErrUnknownCallback = errors.New("hxwidget: unknown callback")

	ErrInvalidFormat    = errors.New("hxwidget: invalid callback token format")
	ErrSignatureInvalid = errors.New("hxwidget: callback token signature verification failed")
	ErrDecryptFailed    = errors.New("hxwidget: callback token decryption failed")
)

// IsConfigurationError checks if err is an option serialization error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDispatchError checks if err is a listener failure.
func IsDispatchError(err error) bool {
	return errors.Is(err, ErrDispatch)
}

// IsResourceError checks if err is a resource resolution error.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrResourceResolution)
}

// IsUnknownCallback checks if err is an unknown or malformed callback
// identifier, including token verification failures.
func IsUnknownCallback(err error) bool {
	return errors.Is(err, ErrUnknownCallback) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrDecryptFailed)
}
