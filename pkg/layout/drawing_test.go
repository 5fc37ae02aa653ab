package layout

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
)

func TestViewMemoizesLayout(t *testing.T) {
	d := NewDrawingFromEntries("Pkt", exampleEntries())
	v := d.NewView(LeftToRight, Options{})
	if v.Cached() {
		t.Fatalf("fresh view should not hold a layout")
	}

	first := v.Layout()
	if !v.Cached() {
		t.Fatalf("layout was not memoized")
	}
	second := v.Layout()
	if first.Width != second.Width || len(first.Rects) != len(second.Rects) {
		t.Fatalf("memoized layout differs from computed one")
	}

	v.SetOrientation(LeftToRight)
	if !v.Cached() {
		t.Fatalf("setting the same orientation dropped the cache")
	}

	v.Toggle()
	if v.Cached() {
		t.Fatalf("orientation change kept a stale layout")
	}
	if res := v.Layout(); res.Orientation != TopToBottom {
		t.Fatalf("expected TopToBottom layout, got %s", res.Orientation)
	}

	v.Invalidate()
	if v.Cached() {
		t.Fatalf("Invalidate kept the layout")
	}

	v.Layout()
	v.SetOptions(Options{Scale: 4})
	if v.Cached() {
		t.Fatalf("SetOptions kept the layout")
	}
}

func TestViewShare(t *testing.T) {
	d := NewDrawingFromEntries("Pkt", exampleEntries())
	v := d.NewView(TopToBottom, Options{})
	v.Layout()

	other := v.Share()
	if other.Drawing() != v.Drawing() {
		t.Fatalf("shared view does not reference the same drawing")
	}
	if other.Orientation() != TopToBottom {
		t.Fatalf("shared view lost the orientation")
	}
	if other.Cached() {
		t.Fatalf("shared view should own an empty cache")
	}

	other.Toggle()
	if v.Orientation() != TopToBottom || !v.Cached() {
		t.Fatalf("toggling the shared view affected the original")
	}
}

func TestDrawingCopiesEntries(t *testing.T) {
	in := []DrawingEntry{
		{ContainerName: "C", ItemName: "B", StartBit: 8, SizeInBits: 8},
		{ContainerName: "C", ItemName: "A", StartBit: 0, SizeInBits: 8},
	}
	d := NewDrawingFromEntries("C", in)
	in[0].ItemName = "mutated"
	if d.Entry(0).ItemName != "A" || d.Entry(1).ItemName != "B" {
		t.Fatalf("drawing entries not sorted or not copied: %+v", d.Entries())
	}

	out := d.Entries()
	out[0].ItemName = "mutated"
	if d.Entry(0).ItemName != "A" {
		t.Fatalf("Entries exposed internal storage")
	}
}

func TestFingerprint(t *testing.T) {
	a := NewDrawingFromEntries("C", exampleEntries())
	b := NewDrawingFromEntries("C", exampleEntries())
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal entry lists produced different fingerprints")
	}

	changed := exampleEntries()
	changed[1].SizeInBits = 15
	c := NewDrawingFromEntries("C", changed)
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different entry lists share a fingerprint")
	}
}

func TestNewDrawingFromModel(t *testing.T) {
	model := &content.Model{
		Name:        "Cmd",
		Telecommand: true,
		Entries: []content.Entry{
			{Kind: content.KindArgument, Name: "Id", Holder: "Cmd", RawStartBit: "0", RawSizeInBits: "8", InUse: true},
			{Kind: content.KindArgument, Name: "Group", Holder: "Cmd", InUse: true},
		},
	}
	d := NewDrawing(model, content.AliasPreferences{})
	if d.Name() != "Cmd" || !d.Telecommand() || d.Len() != 1 {
		t.Fatalf("unexpected drawing %q telecommand=%v len=%d", d.Name(), d.Telecommand(), d.Len())
	}
	if got := d.NewView(LeftToRight, Options{}).PreferredSize(); got.X < DefaultWidth || got.Y < DefaultHeight {
		t.Fatalf("preferred size %v below default canvas", got)
	}
}
