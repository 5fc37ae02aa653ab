package layout

import (
	"encoding/binary"
	"hash/fnv"
	"image"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
)

// Drawing holds the normalized entries of one container or telecommand.
// It is immutable once built and may be shared by any number of views.
type Drawing struct {
	name        string
	telecommand bool
	entries     []DrawingEntry
	fingerprint uint64
}

// NewDrawing normalizes the model into a drawing.
func NewDrawing(model *content.Model, prefs content.AliasPreferences) *Drawing {
	d := &Drawing{entries: Normalize(model, prefs)}
	if model != nil {
		d.name = model.Name
		d.telecommand = model.Telecommand
	}
	d.fingerprint = fingerprint(d.entries)
	return d
}

// NewDrawingFromEntries builds a drawing from already extracted entries.
// The entries are copied and sorted by start bit.
func NewDrawingFromEntries(name string, entries []DrawingEntry) *Drawing {
	own := make([]DrawingEntry, len(entries))
	copy(own, entries)
	SortEntries(own)
	return &Drawing{name: name, entries: own, fingerprint: fingerprint(own)}
}

// Name returns the container or telecommand name.
func (d *Drawing) Name() string { return d.name }

// Telecommand reports whether the drawing was built from a telecommand.
func (d *Drawing) Telecommand() bool { return d.telecommand }

// Len returns the number of drawable entries.
func (d *Drawing) Len() int { return len(d.entries) }

// Entries returns a copy of the drawable entries.
func (d *Drawing) Entries() []DrawingEntry {
	out := make([]DrawingEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Entry returns the entry at index i.
func (d *Drawing) Entry(i int) DrawingEntry { return d.entries[i] }

// Fingerprint identifies the entry list.
func (d *Drawing) Fingerprint() uint64 { return d.fingerprint }

// NewView returns a view of the drawing with its own orientation and cache.
func (d *Drawing) NewView(orientation Orientation, opts Options) *View {
	return &View{drawing: d, orientation: orientation, opts: opts.withDefaults()}
}

func fingerprint(entries []DrawingEntry) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(len(s))
		h.Write([]byte(s))
	}
	writeInt(len(entries))
	for _, e := range entries {
		writeString(e.ContainerName)
		writeString(e.ItemName)
		writeString(e.ItemAliases)
		writeString(e.Value)
		writeInt(e.StartBit)
		writeInt(e.SizeInBits)
	}
	return h.Sum64()
}

type cacheKey struct {
	fingerprint uint64
	orientation Orientation
	scale       int
	bitHeight   int
}

// View is one presentation of a drawing. Views are not safe for concurrent
// use; create one view per window or request.
type View struct {
	drawing     *Drawing
	orientation Orientation
	opts        Options

	cached *Result
	key    cacheKey
}

// Drawing returns the shared drawing.
func (v *View) Drawing() *Drawing { return v.drawing }

// Orientation returns the current orientation.
func (v *View) Orientation() Orientation { return v.orientation }

// SetOrientation changes the orientation. The entry list is kept.
func (v *View) SetOrientation(o Orientation) {
	if o != v.orientation {
		v.orientation = o
		v.cached = nil
	}
}

// Toggle flips the orientation.
func (v *View) Toggle() {
	v.SetOrientation(v.orientation.Toggle())
}

// Options returns the layout options of the view.
func (v *View) Options() Options { return v.opts }

// SetOptions replaces the layout options and drops the cached layout.
func (v *View) SetOptions(opts Options) {
	v.opts = opts.withDefaults()
	v.cached = nil
}

// Invalidate drops the cached layout so that the next call recomputes it.
func (v *View) Invalidate() {
	v.cached = nil
}

// Layout returns the layout for the current orientation, computing it only
// when the drawing, orientation or scale changed since the last call.
func (v *View) Layout() Result {
	key := cacheKey{
		fingerprint: v.drawing.fingerprint,
		orientation: v.orientation,
		scale:       v.opts.Scale,
		bitHeight:   v.opts.BitHeight,
	}
	if v.cached != nil && v.key == key {
		return *v.cached
	}
	res := Compute(v.drawing.entries, v.orientation, v.opts)
	v.cached = &res
	v.key = key
	return res
}

// Cached reports whether a layout is currently memoized.
func (v *View) Cached() bool {
	return v.cached != nil
}

// PreferredSize returns the canvas size of the current layout.
func (v *View) PreferredSize() image.Point {
	res := v.Layout()
	return res.Size()
}

// Share returns an independent view of the same drawing that starts with
// the current orientation and options but owns its own cache.
func (v *View) Share() *View {
	return v.drawing.NewView(v.orientation, v.opts)
}
