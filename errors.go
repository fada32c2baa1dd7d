package typeset

import "errors"

// Sentinel errors for the typeset package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("typeset: empty font data")

	// ErrEmptyFamilies is returned when no font entries are provided to a group.
	ErrEmptyFamilies = errors.New("typeset: font group requires at least one entry")

	// ErrTableNotFound is returned when a requested font table does not exist.
	ErrTableNotFound = errors.New("typeset: font table not found")

	// ErrUnknownBackend is returned when an unregistered backend is requested.
	ErrUnknownBackend = errors.New("typeset: unknown font backend")

	// ErrCacheShutdown is returned when a font cache is used after Shutdown.
	ErrCacheShutdown = errors.New("typeset: font cache is shut down")

	// ErrShapingFailed is returned when no shaper could shape a piece of text.
	ErrShapingFailed = errors.New("typeset: shaping failed")
)

// FontParseError is returned when font data cannot be parsed by a backend.
type FontParseError struct {
	Backend string
	Err     error
}

func (e *FontParseError) Error() string {
	return "typeset: " + e.Backend + " failed to parse font: " + e.Err.Error()
}

func (e *FontParseError) Unwrap() error {
	return e.Err
}
