package layout

import (
	"fmt"
	"image"
)

const (
	// DefaultWidth and DefaultHeight are the canvas size at the start of
	// every layout pass. The canvas only grows from there.
	DefaultWidth  = 800
	DefaultHeight = 600

	// WarningWidth and WarningHeight size the placeholder canvas drawn
	// instead of a diagram with more than MaxEntries entries or bits
	// beyond MaxBits.
	WarningWidth  = 250
	WarningHeight = 100

	// MaxEntries is the largest entry count that is laid out.
	MaxEntries = 256

	// MaxBits is the largest end bit that is laid out. The byte ruler
	// holds one tick per byte up to it.
	MaxBits = 1 << 20

	// DefaultScale is the number of pixels per bit unit.
	DefaultScale = 8

	// DefaultBitHeight is the pixel height of one bit in TopToBottom.
	DefaultBitHeight = 15

	margin      = 50
	topMargin   = 20
	labelMargin = 200
	tickLength  = 8
)

// Options parameterize a layout pass.
type Options struct {
	Scale     int      // Pixels per bit unit, DefaultScale when zero
	BitHeight int      // Pixels per bit in TopToBottom, DefaultBitHeight when zero
	Measurer  Measurer // Text metrics, the 7x13 bitmap face when nil
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.BitHeight <= 0 {
		o.BitHeight = DefaultBitHeight
	}
	if o.Measurer == nil {
		o.Measurer = NewFaceMeasurer(nil)
	}
	return o
}

// TextKind tells backends what a text item annotates.
type TextKind int

const (
	TextLabel     TextKind = iota // Item name, aliases and value
	TextSpan                      // Bit count of a container bracket
	TextContainer                 // Container name
	TextRuler                     // Byte index or ruler summary
	TextWarning                   // Placeholder message
)

// Rect is an entry rectangle.
type Rect struct {
	X, Y, W, H int
	Entry      int // Index into the laid out entries
	Group      int // Container group, in order of first appearance
}

// Max returns the bottom-right corner of the rectangle.
func (r Rect) Max() image.Point {
	return image.Pt(r.X+r.W, r.Y+r.H)
}

// Line is a straight line segment. Dashed applies to this segment only.
type Line struct {
	X1, Y1, X2, Y2 int
	Dashed         bool
}

// Text is a string positioned at its baseline-left point.
type Text struct {
	X, Y int
	S    string
	Kind TextKind
}

// Bracket annotates the bit range held by one container.
type Bracket struct {
	Container string
	StartBit  int
	EndBit    int
	Label     string // Span length or container name; empty when not drawn
}

// Ruler describes the byte ruler of a LeftToRight diagram.
type Ruler struct {
	X, Y  int
	Bits  int
	Bytes int
}

// Result is the complete geometry of one diagram.
type Result struct {
	Orientation Orientation
	Width       int
	Height      int
	Rects       []Rect
	Lines       []Line
	Texts       []Text
	Brackets    []Bracket
	Ruler       *Ruler
	Warning     string
}

// Size returns the canvas size.
func (r *Result) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

func (r *Result) growWidth(w int) {
	if w > r.Width {
		r.Width = w
	}
}

func (r *Result) growHeight(h int) {
	if h > r.Height {
		r.Height = h
	}
}

func (r *Result) line(x1, y1, x2, y2 int) {
	r.Lines = append(r.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (r *Result) dashed(x1, y1, x2, y2 int) {
	r.Lines = append(r.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Dashed: true})
}

func (r *Result) text(x, y int, s string, kind TextKind) {
	r.Texts = append(r.Texts, Text{X: x, Y: y, S: s, Kind: kind})
}

// Compute lays out the entries in the given orientation. Entries must be
// sorted by start bit, as Normalize returns them. Compute does not modify
// the entries.
func Compute(entries []DrawingEntry, orientation Orientation, opts Options) Result {
	opts = opts.withDefaults()

	if len(entries) > MaxEntries {
		return warningResult(orientation, opts.Measurer,
			fmt.Sprintf("Too many entries (%d) to draw", len(entries)))
	}
	if bits := totalBits(entries); bits > MaxBits {
		return warningResult(orientation, opts.Measurer,
			fmt.Sprintf("Bit range too large (%d bits) to draw", bits))
	}

	res := Result{
		Orientation: orientation,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
	}
	if len(entries) == 0 {
		x, y := CenterText(opts.Measurer, "No drawable entries", DefaultWidth/2, DefaultHeight/2)
		res.text(x, y, "No drawable entries", TextWarning)
		return res
	}

	switch orientation {
	case TopToBottom:
		layoutTopToBottom(&res, entries, opts)
	default:
		res.Orientation = LeftToRight
		layoutLeftToRight(&res, entries, opts)
	}
	return res
}

func warningResult(orientation Orientation, m Measurer, msg string) Result {
	res := Result{
		Orientation: orientation,
		Width:       WarningWidth,
		Height:      WarningHeight,
		Warning:     msg,
	}
	x, y := CenterText(m, msg, WarningWidth/2, WarningHeight/2)
	res.text(x, y, msg, TextWarning)
	return res
}

// span is the bit range held by one container between two boundaries.
type span struct {
	container string
	from, to  int
}

// containerSpans walks the sorted entries and closes a span wherever the
// container name changes, and once more after the last entry.
func containerSpans(entries []DrawingEntry) (opening int, spans []span) {
	opening = entries[0].StartBit
	boundary := opening
	prev := entries[0].ContainerName
	for _, e := range entries[1:] {
		if e.ContainerName != prev {
			spans = append(spans, span{container: prev, from: boundary, to: e.StartBit})
			boundary = e.StartBit
			prev = e.ContainerName
		}
	}
	last := entries[len(entries)-1]
	spans = append(spans, span{container: last.ContainerName, from: boundary, to: last.EndBit()})
	return opening, spans
}

// groups assigns every container name an index in order of first appearance.
func groups(entries []DrawingEntry) map[string]int {
	out := make(map[string]int)
	for _, e := range entries {
		if _, ok := out[e.ContainerName]; !ok {
			out[e.ContainerName] = len(out)
		}
	}
	return out
}

func totalBits(entries []DrawingEntry) int {
	total := 0
	for _, e := range entries {
		if end := e.EndBit(); end > total {
			total = end
		}
	}
	return total
}
