package layout

import (
	"fmt"
	"strconv"
)

// layoutLeftToRight places entries on a horizontal bit timeline.
//
// Each entry gets a name flag rising from its rectangle. The first entry
// has the tallest flag and every following flag is scale(3) shorter, so no
// two labels share a row. Container brackets sit under the rectangles and
// a byte ruler sits under the brackets.
func layoutLeftToRight(res *Result, entries []DrawingEntry, opts Options) {
	m := opts.Measurer
	scale := func(v int) int { return v * opts.Scale }
	lineHeight := m.LineHeight()
	groupOf := groups(entries)

	baseX := margin
	flagStep := scale(3)
	rowY := topMargin + lineHeight + flagStep*len(entries)
	rectH := scale(4)

	offset := flagStep * len(entries)
	for i, e := range entries {
		x := baseX + scale(e.StartBit)
		w := scale(e.SizeInBits)
		res.Rects = append(res.Rects, Rect{X: x, Y: rowY, W: w, H: rectH, Entry: i, Group: groupOf[e.ContainerName]})
		res.growWidth(x + w + margin)

		flagX := x + w/2
		flagTop := rowY - offset
		res.line(flagX, rowY, flagX, flagTop)

		label := e.Label()
		lx, ly := MiddleText(m, flagX+4, flagTop)
		res.text(lx, ly, label, TextLabel)
		// Label extent is estimated as twice the measured width.
		res.growWidth(lx + 2*m.StringWidth(label) + labelMargin)

		offset -= flagStep
	}
	res.growHeight(rowY + rectH + margin)

	bracketY := rowY + rectH + 16
	spanY := bracketY + 4 + lineHeight/2
	nameY := spanY + lineHeight + 2

	opening, spans := containerSpans(entries)
	openX := baseX + scale(opening)
	res.line(openX, bracketY-6, openX, bracketY)

	for _, s := range spans {
		x1 := baseX + scale(s.from)
		x2 := baseX + scale(s.to)
		res.line(x1, bracketY, x2, bracketY)
		res.line(x1, bracketY-6, x1, bracketY)
		res.line(x2, bracketY-6, x2, bracketY)

		cx := (x1 + x2) / 2
		label := ""
		if n := s.to - s.from; n != 0 {
			label = strconv.Itoa(n)
			tx, ty := CenterText(m, label, cx, spanY)
			res.text(tx, ty, label, TextSpan)
		}
		tx, ty := CenterText(m, s.container, cx, nameY)
		res.text(tx, ty, s.container, TextContainer)
		res.growWidth(cx + m.StringWidth(s.container)/2 + margin)

		res.Brackets = append(res.Brackets, Bracket{
			Container: s.container,
			StartBit:  s.from,
			EndBit:    s.to,
			Label:     label,
		})
	}

	rulerY := nameY + lineHeight + 16
	bits := totalBits(entries)
	bytes := (bits + 7) / 8
	endX := baseX + scale(bytes*8)
	res.line(baseX, rulerY, endX, rulerY)
	for k := 0; k <= bytes; k++ {
		x := baseX + scale(k*8)
		res.line(x, rulerY, x, rulerY+tickLength)
		label := strconv.Itoa(k)
		tx, ty := CenterText(m, label, x, rulerY+tickLength+2+lineHeight/2)
		res.text(tx, ty, label, TextRuler)
	}

	summary := fmt.Sprintf("%d bytes (%d bits)", bytes, bits)
	sx, sy := MiddleText(m, endX+20, rulerY)
	res.text(sx, sy, summary, TextRuler)
	res.growWidth(sx + m.StringWidth(summary) + margin)
	res.growHeight(rulerY + tickLength + 2 + lineHeight + margin)

	res.Ruler = &Ruler{X: baseX, Y: rulerY, Bits: bits, Bytes: bytes}
}
