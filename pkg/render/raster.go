package render

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

// Dash pattern of separator lines, in pixels.
const (
	dashOn  = 4
	dashOff = 4
)

// MaxPixels bounds the raster canvas. Larger layouts fail with
// ErrCanvasTooLarge instead of being allocated.
const MaxPixels = 1 << 25

// CheckSize reports whether a layout fits the raster pixel budget.
func CheckSize(res layout.Result) error {
	if res.Width <= 0 || res.Height <= 0 {
		return nil
	}
	if res.Width > MaxPixels || res.Height > MaxPixels/res.Width {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, res.Width, res.Height, MaxPixels)
	}
	return nil
}

// Rasterize paints the layout onto an image of exactly Width×Height pixels
// using the current theme. A nil face draws with the 7x13 bitmap face.
// Callers check the size with CheckSize first.
func Rasterize(res layout.Result, face font.Face) *image.RGBA {
	return RasterizeWith(res, face, DefaultPalette())
}

// RasterizeWith is Rasterize with an explicit palette.
func RasterizeWith(res layout.Result, face font.Face, pal Palette) *image.RGBA {
	if face == nil {
		face = basicfont.Face7x13
	}
	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(pal.Background), image.Point{}, xdraw.Src)

	for _, r := range res.Rects {
		bounds := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
		xdraw.Draw(img, bounds, image.NewUniform(pal.GroupColor(r.Group)), image.Point{}, xdraw.Over)
	}

	if res.Width > 0 && res.Height > 0 {
		z := vector.NewRasterizer(res.Width, res.Height)
		for _, r := range res.Rects {
			strokeRect(z, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H))
		}
		for _, l := range res.Lines {
			strokeLine(z, l)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(pal.Stroke), image.Point{})
	}

	d := &font.Drawer{Dst: img, Face: face}
	for _, t := range res.Texts {
		c := pal.Text
		if t.Kind == layout.TextWarning {
			c = pal.Warning
		}
		d.Src = image.NewUniform(c)
		d.Dot = fixed.P(t.X, t.Y)
		d.DrawString(t.S)
	}
	return img
}

// strokeRect outlines the border pixels of r.
func strokeRect(z *vector.Rasterizer, r image.Rectangle) {
	if r.Empty() {
		return
	}
	x2, y2 := r.Max.X-1, r.Max.Y-1
	strokeLine(z, layout.Line{X1: r.Min.X, Y1: r.Min.Y, X2: x2, Y2: r.Min.Y})
	strokeLine(z, layout.Line{X1: r.Min.X, Y1: y2, X2: x2, Y2: y2})
	strokeLine(z, layout.Line{X1: r.Min.X, Y1: r.Min.Y, X2: r.Min.X, Y2: y2})
	strokeLine(z, layout.Line{X1: x2, Y1: r.Min.Y, X2: x2, Y2: y2})
}

// strokeLine adds a 1 px line between the centers of its end pixels, both
// included. Dashed lines restart the pattern at their own first pixel.
func strokeLine(z *vector.Rasterizer, l layout.Line) {
	ax, ay := float64(l.X1)+0.5, float64(l.Y1)+0.5
	vx, vy := float64(l.X2-l.X1), float64(l.Y2-l.Y1)
	vl := math.Hypot(vx, vy)
	if vl == 0 {
		quad(z, ax-0.5, ay, 1, 0, 1)
		return
	}
	ux, uy := vx/vl, vy/vl
	// Start half a pixel early so the end pixels are fully covered.
	ax, ay = ax-ux*0.5, ay-uy*0.5
	length := vl + 1
	if !l.Dashed {
		quad(z, ax, ay, ux, uy, length)
		return
	}
	for pos := 0.0; pos < length; pos += dashOn + dashOff {
		n := math.Min(dashOn, length-pos)
		quad(z, ax+ux*pos, ay+uy*pos, ux, uy, n)
	}
}

// quad adds a segment of the given length from (x, y) along the unit
// direction (ux, uy) as a 1 px wide rectangle.
func quad(z *vector.Rasterizer, x, y, ux, uy, length float64) {
	const w = 0.5
	nx, ny := -uy*w, ux*w
	ex, ey := x+ux*length, y+uy*length
	z.MoveTo(float32(x+nx), float32(y+ny))
	z.LineTo(float32(ex+nx), float32(ey+ny))
	z.LineTo(float32(ex-nx), float32(ey-ny))
	z.LineTo(float32(x-nx), float32(y-ny))
	z.ClosePath()
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Images already narrow enough are returned as is.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
