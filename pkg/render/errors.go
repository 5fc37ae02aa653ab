package render

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is wrapped by SaveError when the file extension has
// no encoder.
var ErrUnsupportedFormat = errors.New("render: unsupported image format")

// ErrCanvasTooLarge is returned for layouts above MaxPixels.
var ErrCanvasTooLarge = errors.New("render: canvas too large")

// MissingExtensionError is returned by Save when the path has no file
// extension to pick an encoder from.
type MissingExtensionError struct {
	Path string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("render: %q has no file extension", e.Path)
}

// SaveError reports a failure to write a diagram to Path.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("render: save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
