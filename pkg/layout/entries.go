package layout

import (
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
)

// DrawingEntry is a drawable, read-only view of one content entry.
// StartBit is always >= 0 and SizeInBits always > 0.
type DrawingEntry struct {
	ContainerName string
	ItemName      string
	ItemAliases   string
	StartBit      int
	SizeInBits    int
	Value         string
}

// EndBit returns the first bit after the entry.
func (e DrawingEntry) EndBit() int {
	return e.StartBit + e.SizeInBits
}

// Label is the text drawn next to the entry: the item name, the alias
// string in parentheses and the value after an equals sign.
func (e DrawingEntry) Label() string {
	var b strings.Builder
	b.WriteString(e.ItemName)
	if e.ItemAliases != "" {
		b.WriteString(" (")
		b.WriteString(e.ItemAliases)
		b.WriteString(")")
	}
	if e.Value != "" {
		b.WriteString(" = ")
		b.WriteString(e.Value)
	}
	return b.String()
}

// Normalize extracts the drawable entries of a content model.
//
// Entries without a size or start bit, entries that do not parse, entries
// with a non-positive size or a negative start, and entries that are not in
// use are dropped. The result is sorted by start bit; entries that start at
// the same bit keep their model order.
func Normalize(model *content.Model, prefs content.AliasPreferences) []DrawingEntry {
	if model == nil {
		return nil
	}
	out := make([]DrawingEntry, 0, len(model.Entries))
	for _, e := range model.Entries {
		if !e.HasGeometry() || !e.InUse {
			continue
		}
		start, size, ok := e.Bits()
		if !ok || size <= 0 || start < 0 {
			continue
		}
		out = append(out, DrawingEntry{
			ContainerName: e.Holder,
			ItemName:      e.Name,
			ItemAliases:   e.AliasString(prefs),
			StartBit:      start,
			SizeInBits:    size,
			Value:         e.Value,
		})
	}
	SortEntries(out)
	return out
}

// SortEntries stable-sorts entries ascending by start bit.
func SortEntries(entries []DrawingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartBit < entries[j].StartBit
	})
}
