package layout

// layoutTopToBottom stacks entries vertically, BitHeight pixels per bit.
// Container boundaries become dashed separators across the canvas and the
// container name is centered in the gap between two separators.
func layoutTopToBottom(res *Result, entries []DrawingEntry, opts Options) {
	m := opts.Measurer
	groupOf := groups(entries)

	nameColW := 100
	for name := range groupOf {
		if w := m.StringWidth(name) + 20; w > nameColW {
			nameColW = w
		}
	}
	colX := margin
	rectX := colX + nameColW + 20
	rectW := opts.Scale * 20
	top := margin
	bitY := func(bit int) int { return top + bit*opts.BitHeight }

	for i, e := range entries {
		y := bitY(e.StartBit)
		h := e.SizeInBits * opts.BitHeight
		res.Rects = append(res.Rects, Rect{X: rectX, Y: y, W: rectW, H: h, Entry: i, Group: groupOf[e.ContainerName]})
		res.growHeight(y + h + margin)

		label := e.Label()
		lx, ly := MiddleText(m, rectX+rectW+10, y+h/2)
		res.text(lx, ly, label, TextLabel)
		res.growWidth(lx + m.StringWidth(label) + margin)
	}

	opening, spans := containerSpans(entries)
	boundaries := []int{opening}
	for _, s := range spans {
		yA, yB := bitY(s.from), bitY(s.to)
		cx, cy := colX+nameColW/2, (yA+yB)/2
		tx, ty := CenterText(m, s.container, cx, cy)
		res.text(tx, ty, s.container, TextContainer)
		res.Brackets = append(res.Brackets, Bracket{
			Container: s.container,
			StartBit:  s.from,
			EndBit:    s.to,
			Label:     s.container,
		})
		boundaries = append(boundaries, s.to)
	}

	// Separators span the final canvas width, so they are added last.
	for _, bit := range boundaries {
		y := bitY(bit)
		res.dashed(colX, y, res.Width-margin, y)
	}
}
