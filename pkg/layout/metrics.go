package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports text extents in pixels.
type Measurer interface {
	StringWidth(s string) int
	LineHeight() int
	Descent() int
}

// FaceMeasurer measures text with a font face.
type FaceMeasurer struct {
	Face font.Face
}

// NewFaceMeasurer wraps a face. A nil face falls back to the 7x13 bitmap face.
func NewFaceMeasurer(face font.Face) FaceMeasurer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return FaceMeasurer{Face: face}
}

func (m FaceMeasurer) StringWidth(s string) int {
	return font.MeasureString(m.Face, s).Ceil()
}

func (m FaceMeasurer) LineHeight() int {
	met := m.Face.Metrics()
	return (met.Ascent + met.Descent).Ceil()
}

func (m FaceMeasurer) Descent() int {
	return m.Face.Metrics().Descent.Ceil()
}

// CenterText returns the baseline-left point at which s must be drawn so
// that its visual center falls on (cx, cy).
func CenterText(m Measurer, s string, cx, cy int) (x, y int) {
	x = cx - m.StringWidth(s)/2
	y = cy + m.LineHeight()/2 - m.Descent()
	return x, y
}

// MiddleText returns the baseline for text whose left edge is at x and
// whose vertical center falls on cy.
func MiddleText(m Measurer, x, cy int) (int, int) {
	return x, cy + m.LineHeight()/2 - m.Descent()
}
