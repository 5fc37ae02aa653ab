package render

import "image/color"

// ColorTheme selects the palette diagrams are painted with
type ColorTheme int

const (
	ThemeClassic ColorTheme = iota
	ThemeBlueTone
	ThemeNord
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[ColorTheme]string{
	ThemeClassic:  "Classic",
	ThemeBlueTone: "Blue Tone",
	ThemeNord:     "Nord",
}

// Palette holds the colors of one theme.
type Palette struct {
	Background color.NRGBA
	Stroke     color.NRGBA // Outlines, flags, brackets and separators
	Text       color.NRGBA
	Warning    color.NRGBA
	Groups     []color.NRGBA // Rectangle fill, cycled per container group
}

// GroupColor returns the fill for a container group index.
func (p Palette) GroupColor(group int) color.NRGBA {
	if len(p.Groups) == 0 {
		return color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	}
	if group < 0 {
		group = -group
	}
	return p.Groups[group%len(p.Groups)]
}

var classicPalette = Palette{
	Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Stroke:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	Text:       color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	Warning:    color.NRGBA{R: 200, G: 52, B: 52, A: 255},
	Groups: []color.NRGBA{
		{R: 242, G: 237, B: 161, A: 255}, // yellow
		{R: 180, G: 219, B: 210, A: 255}, // teal
		{R: 232, G: 178, B: 167, A: 255}, // pink
		{R: 127, G: 200, B: 127, A: 255}, // green
		{R: 194, G: 194, B: 194, A: 255}, // gray
		{R: 216, G: 200, B: 82, A: 255},  // ochre
	},
}

var blueTonePalette = Palette{
	Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Stroke:     color.NRGBA{R: 20, G: 60, B: 90, A: 255},
	Text:       color.NRGBA{R: 20, G: 60, B: 90, A: 255},
	Warning:    color.NRGBA{R: 72, G: 72, B: 200, A: 255},
	Groups: []color.NRGBA{
		{R: 180, G: 219, B: 255, A: 255},
		{R: 127, G: 200, B: 200, A: 255},
		{R: 194, G: 194, B: 255, A: 255},
		{R: 91, G: 195, B: 235, A: 255},
	},
}

var nordPalette = Palette{
	Background: color.NRGBA{R: 236, G: 239, B: 244, A: 255}, // Nord6
	Stroke:     color.NRGBA{R: 46, G: 52, B: 64, A: 255},    // Nord0
	Text:       color.NRGBA{R: 46, G: 52, B: 64, A: 255},
	Warning:    color.NRGBA{R: 191, G: 97, B: 106, A: 255}, // Nord11
	Groups: []color.NRGBA{
		{R: 136, G: 192, B: 208, A: 255}, // Nord8
		{R: 163, G: 190, B: 140, A: 255}, // Nord14
		{R: 235, G: 203, B: 139, A: 255}, // Nord13
		{R: 180, G: 142, B: 173, A: 255}, // Nord15
		{R: 208, G: 135, B: 112, A: 255}, // Nord12
	},
}

// CurrentTheme is the theme used by DefaultPalette
var CurrentTheme = ThemeClassic

// SetTheme changes the active color theme
func SetTheme(theme ColorTheme) {
	CurrentTheme = theme
}

// ThemePalette returns the palette of a theme, Classic for unknown themes.
func ThemePalette(theme ColorTheme) Palette {
	switch theme {
	case ThemeBlueTone:
		return blueTonePalette
	case ThemeNord:
		return nordPalette
	default:
		return classicPalette
	}
}

// DefaultPalette returns the palette of the current theme.
func DefaultPalette() Palette {
	return ThemePalette(CurrentTheme)
}

// ParseTheme looks a theme up by display name, case-sensitive.
func ParseTheme(name string) (ColorTheme, bool) {
	for t, n := range ThemeNames {
		if n == name {
			return t, true
		}
	}
	return ThemeClassic, false
}
