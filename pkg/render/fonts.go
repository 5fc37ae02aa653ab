package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is the point size diagrams are drawn with.
const DefaultFontSize = 12

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("render: parse Go Regular: %w", regularErr)
		}
	})
	return regular, regularErr
}

// NewFace returns a Go Regular face at the given size at 72 DPI. A face is
// not safe for concurrent use; callers create one per goroutine.
func NewFace(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := regularFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create %.1fpt face: %w", size, err)
	}
	return face, nil
}

// MustFace is like NewFace but falls back to the 7x13 bitmap face.
func MustFace(size float64) font.Face {
	face, err := NewFace(size)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
