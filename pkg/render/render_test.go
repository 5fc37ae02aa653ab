package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

func testView(o layout.Orientation) *layout.View {
	d := layout.NewDrawingFromEntries("Pkt", []layout.DrawingEntry{
		{ContainerName: "C1", ItemName: "A", StartBit: 0, SizeInBits: 8},
		{ContainerName: "C1", ItemName: "B", StartBit: 8, SizeInBits: 16},
		{ContainerName: "C2", ItemName: "C", StartBit: 24, SizeInBits: 8, Value: "<5>"},
	})
	return d.NewView(o, layout.Options{})
}

func TestSaveMissingExtension(t *testing.T) {
	v := testView(layout.LeftToRight)
	v.Layout()

	path := filepath.Join(t.TempDir(), "diagram")
	err := Save(v, path)
	var missing *MissingExtensionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingExtensionError, got %v", err)
	}
	if missing.Path != path {
		t.Fatalf("error path %q, want %q", missing.Path, path)
	}
	if !v.Cached() {
		t.Fatalf("view was touched before the extension check")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file was created for a path without extension")
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.xyz")
	err := Save(testView(layout.LeftToRight), path)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("SaveError does not wrap ErrUnsupportedFormat: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file was created for an unsupported format")
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "diagram.png")
	err := Save(testView(layout.LeftToRight), path)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) || saveErr.Path != path {
		t.Fatalf("expected SaveError for %s, got %v", path, err)
	}
}

// failingClose is a file whose Close always fails.
type failingClose struct {
	*os.File
}

func (f failingClose) Close() error {
	f.File.Close()
	return errors.New("disk full")
}

func TestSaveRemovesFileWhenCloseFails(t *testing.T) {
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	createFile = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return failingClose{f}, nil
	}

	path := filepath.Join(t.TempDir(), "diagram.png")
	err := Save(testView(layout.LeftToRight), path)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected SaveError from Close, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial file left at %s", path)
	}
}

func TestSaveCanvasTooLarge(t *testing.T) {
	d := layout.NewDrawingFromEntries("Wide", []layout.DrawingEntry{
		{ContainerName: "C", ItemName: "Far", StartBit: layout.MaxBits - 8, SizeInBits: 8},
	})
	path := filepath.Join(t.TempDir(), "wide.png")
	err := Save(d.NewView(layout.LeftToRight, layout.Options{}), path)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) || !errors.Is(err, ErrCanvasTooLarge) {
		t.Fatalf("expected SaveError wrapping ErrCanvasTooLarge, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file was created for an oversized canvas")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, layout.Result{Width: MaxPixels, Height: 2}, FormatPNG, nil); !errors.Is(err, ErrCanvasTooLarge) {
		t.Fatalf("Encode: expected ErrCanvasTooLarge, got %v", err)
	}
	if err := CheckSize(layout.Result{Width: 4096, Height: 4096}); err != nil {
		t.Fatalf("4096x4096 rejected: %v", err)
	}
}

func TestSaveFarEntryDrawsWarning(t *testing.T) {
	d := layout.NewDrawingFromEntries("Far", []layout.DrawingEntry{
		{ContainerName: "C", ItemName: "Far", StartBit: 2000000000, SizeInBits: 8},
	})
	path := filepath.Join(t.TempDir(), "far.png")
	if err := Save(d.NewView(layout.LeftToRight, layout.Options{}), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != layout.WarningWidth || cfg.Height != layout.WarningHeight {
		t.Fatalf("image is %dx%d, want the warning canvas", cfg.Width, cfg.Height)
	}
}

func TestSaveFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"d.png", "d.jpg", "d.jpeg", "d.gif", "d.bmp", "d.tif", "d.tiff", "d.svg", "D.PNG"} {
		v := testView(layout.TopToBottom)
		path := filepath.Join(dir, name)
		if err := Save(v, path); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("Save(%s) wrote nothing: %v", name, err)
		}
		if !v.Cached() {
			t.Fatalf("Save(%s) did not leave a fresh layout behind", name)
		}
	}
}

func TestEncodePNGSize(t *testing.T) {
	for _, o := range []layout.Orientation{layout.LeftToRight, layout.TopToBottom} {
		res := testView(o).Layout()
		var buf bytes.Buffer
		if err := Encode(&buf, res, FormatPNG, nil); err != nil {
			t.Fatalf("%s: encode: %v", o, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("%s: decode: %v", o, err)
		}
		if got := img.Bounds().Size(); got != res.Size() {
			t.Fatalf("%s: image is %v, layout is %v", o, got, res.Size())
		}
	}
}

func TestEncodeSVG(t *testing.T) {
	res := testView(layout.LeftToRight).Layout()
	var buf bytes.Buffer
	if err := Encode(&buf, res, FormatSVG, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "C = &lt;5&gt;", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg output lacks %q", want)
		}
	}

	ttb := testView(layout.TopToBottom).Layout()
	buf.Reset()
	if err := Encode(&buf, ttb, FormatSVG, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), "stroke-dasharray:4,4") {
		t.Fatalf("TopToBottom svg has no dashed separators")
	}
}

func TestEncodeImageUnsupported(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := EncodeImage(&bytes.Buffer{}, img, Format("webp")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for ext, want := range map[string]Format{
		".png": FormatPNG, "JPEG": FormatJPEG, ".jpg": FormatJPEG,
		".tif": FormatTIFF, "tiff": FormatTIFF, ".svg": FormatSVG,
	} {
		got, err := ParseFormat(ext)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", ext, got, err)
		}
	}
	if _, err := ParseFormat(".pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for pdf, got %v", err)
	}
}

func TestRasterizeFillsAndDashes(t *testing.T) {
	res := testView(layout.TopToBottom).Layout()
	pal := ThemePalette(ThemeClassic)
	img := RasterizeWith(res, nil, pal)

	if got := img.Bounds().Size(); got != res.Size() {
		t.Fatalf("image is %v, layout is %v", got, res.Size())
	}

	r := res.Rects[0]
	center := img.RGBAAt(r.X+r.W/2, r.Y+r.H/2)
	if want := rgba(pal.GroupColor(r.Group)); center != want {
		t.Fatalf("rect fill %v, want %v", center, want)
	}
	corner := img.RGBAAt(r.X, r.Y)
	if want := rgba(pal.Stroke); corner != want {
		t.Fatalf("rect outline %v, want %v", corner, want)
	}

	var sep layout.Line
	for _, l := range res.Lines {
		if l.Dashed {
			sep = l
			break
		}
	}
	stroke, bg := rgba(pal.Stroke), rgba(pal.Background)
	for i := 0; i < dashOn+dashOff; i++ {
		got := img.RGBAAt(sep.X1+i, sep.Y1)
		want := stroke
		if i >= dashOn {
			want = bg
		}
		if got != want {
			t.Fatalf("separator pixel %d is %v, want %v", i, got, want)
		}
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	small := Thumbnail(img, 100)
	if got := small.Bounds().Size(); got != image.Pt(100, 25) {
		t.Fatalf("thumbnail is %v, want 100x25", got)
	}
	if same := Thumbnail(img, 800); same != image.Image(img) {
		t.Fatalf("narrow image was rescaled")
	}
}

func TestGroupColorCycles(t *testing.T) {
	pal := ThemePalette(ThemeNord)
	n := len(pal.Groups)
	if pal.GroupColor(n) != pal.GroupColor(0) {
		t.Fatalf("group colors do not cycle")
	}
	if _, ok := ParseTheme("Blue Tone"); !ok {
		t.Fatalf("Blue Tone theme not found")
	}
}

func TestNewFace(t *testing.T) {
	face, err := NewFace(DefaultFontSize)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	defer face.Close()
	if face.Metrics().Height.Ceil() <= 0 {
		t.Fatalf("face has no height")
	}
}

func rgba(c color.NRGBA) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
