package render

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

// WriteSVG writes the layout as an SVG document of Width×Height user units.
// Text positions match the raster output; glyphs are left to the viewer's
// sans-serif font.
func WriteSVG(w io.Writer, res layout.Result, pal Palette, fontSize int) {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	canvas := svg.New(w)
	canvas.Start(res.Width, res.Height)
	canvas.Rect(0, 0, res.Width, res.Height, "fill:"+rgb(pal.Background))

	canvas.Gstyle("stroke-width:1;stroke:" + rgb(pal.Stroke))
	for _, r := range res.Rects {
		canvas.Rect(r.X, r.Y, r.W, r.H, "fill:"+rgb(pal.GroupColor(r.Group)))
	}
	for _, l := range res.Lines {
		if l.Dashed {
			canvas.Line(l.X1, l.Y1, l.X2, l.Y2, fmt.Sprintf("stroke-dasharray:%d,%d", dashOn, dashOff))
			continue
		}
		canvas.Line(l.X1, l.Y1, l.X2, l.Y2)
	}
	canvas.Gend()

	canvas.Gstyle(fmt.Sprintf("font-size:%dpx;font-family:sans-serif;fill:%s", fontSize, rgb(pal.Text)))
	for _, t := range res.Texts {
		if t.Kind == layout.TextWarning {
			canvas.Text(t.X, t.Y, t.S, "fill:"+rgb(pal.Warning))
			continue
		}
		canvas.Text(t.X, t.Y, t.S)
	}
	canvas.Gend()
	canvas.End()
}

func rgb(c color.NRGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
