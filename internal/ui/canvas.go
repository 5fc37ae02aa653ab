package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	bitlayout "github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

// Dash pattern of separators in layout pixels, matching the image export.
const (
	dashOn  = 4
	dashOff = 4
)

// DiagramStyle controls how a layout result is painted.
type DiagramStyle struct {
	Palette  render.Palette
	TextSize unit.Sp
	Zoom     float32 // Layout pixel to Dp factor, 1 when zero
}

// DrawResult paints a computed layout at the current offset. One layout
// pixel maps to Zoom Dp.
func DrawResult(gtx layout.Context, th *material.Theme, res bitlayout.Result, style DiagramStyle) layout.Dimensions {
	zoom := style.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	scale := gtx.Metric.PxPerDp
	if scale <= 0 {
		scale = 1
	}
	scale *= zoom
	px := func(v int) int { return int(math.Round(float64(float32(v) * scale))) }
	size := image.Pt(px(res.Width), px(res.Height))

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	paint.Fill(gtx.Ops, style.Palette.Background)

	for _, r := range res.Rects {
		bounds := image.Rect(px(r.X), px(r.Y), px(r.X+r.W), px(r.Y+r.H))
		paint.FillShape(gtx.Ops, style.Palette.GroupColor(r.Group), clip.Rect(bounds).Op())
		strokeOutline(gtx, bounds, style.Palette.Stroke)
	}
	for _, l := range res.Lines {
		a := f32.Pt(float32(l.X1)*scale, float32(l.Y1)*scale)
		b := f32.Pt(float32(l.X2)*scale, float32(l.Y2)*scale)
		if l.Dashed {
			strokeDashed(gtx, a, b, float32(dashOn)*scale, float32(dashOff)*scale, style.Palette.Stroke)
			continue
		}
		strokeLine(gtx, a, b, style.Palette.Stroke)
	}

	textSize := style.TextSize
	if textSize <= 0 {
		textSize = unit.Sp(render.DefaultFontSize)
	}
	textSize *= unit.Sp(zoom)
	ascent := gtx.Sp(textSize)
	for _, t := range res.Texts {
		lbl := material.Label(th, textSize, t.S)
		lbl.MaxLines = 1
		lbl.Color = style.Palette.Text
		if t.Kind == bitlayout.TextWarning {
			lbl.Color = style.Palette.Warning
		}
		off := op.Offset(image.Pt(px(t.X), px(t.Y)-ascent)).Push(gtx.Ops)
		tgtx := gtx
		tgtx.Constraints = layout.Constraints{Max: image.Pt(size.X, ascent*2)}
		lbl.Layout(tgtx)
		off.Pop()
	}

	area.Pop()
	return layout.Dimensions{Size: size}
}

func strokeLine(gtx layout.Context, a, b f32.Point, col color.NRGBA) {
	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(a)
	p.LineTo(b)
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: p.End(), Width: 1}.Op())
}

func strokeOutline(gtx layout.Context, r image.Rectangle, col color.NRGBA) {
	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(layoutPt(r.Min.X, r.Min.Y))
	p.LineTo(layoutPt(r.Max.X, r.Min.Y))
	p.LineTo(layoutPt(r.Max.X, r.Max.Y))
	p.LineTo(layoutPt(r.Min.X, r.Max.Y))
	p.Close()
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: p.End(), Width: 1}.Op())
}

// strokeDashed strokes a dashed segment as separate sub-paths, so the
// pattern applies to this segment only.
func strokeDashed(gtx layout.Context, a, b f32.Point, on, off float32, col color.NRGBA) {
	d := b.Sub(a)
	length := float32(math.Hypot(float64(d.X), float64(d.Y)))
	if length == 0 || on <= 0 {
		return
	}
	dir := d.Mul(1 / length)

	var p clip.Path
	p.Begin(gtx.Ops)
	for pos := float32(0); pos < length; pos += on + off {
		end := pos + on
		if end > length {
			end = length
		}
		p.MoveTo(a.Add(dir.Mul(pos)))
		p.LineTo(a.Add(dir.Mul(end)))
	}
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: p.End(), Width: 1}.Op())
}

func layoutPt(x, y int) f32.Point {
	return f32.Pt(float32(x), float32(y))
}
