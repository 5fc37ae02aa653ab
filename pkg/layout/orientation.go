package layout

import (
	"fmt"
	"strings"
)

// Orientation selects the layout direction of a diagram.
type Orientation int

const (
	// LeftToRight lays entries out along a horizontal bit timeline.
	LeftToRight Orientation = iota
	// TopToBottom stacks entries vertically, one rectangle per entry.
	TopToBottom
)

func (o Orientation) String() string {
	switch o {
	case LeftToRight:
		return "ltr"
	case TopToBottom:
		return "ttb"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == LeftToRight {
		return TopToBottom
	}
	return LeftToRight
}

// ParseOrientation accepts "ltr", "ttb" and their long forms.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ltr", "left-to-right", "left_to_right", "horizontal", "":
		return LeftToRight, nil
	case "ttb", "top-to-bottom", "top_to_bottom", "vertical":
		return TopToBottom, nil
	default:
		return LeftToRight, fmt.Errorf("layout: unknown orientation %q", s)
	}
}
