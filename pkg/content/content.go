package content

import "strconv"

// EntryKind distinguishes telemetry parameters from telecommand arguments.
type EntryKind int

const (
	// KindParameter is a parameter occurrence within a container.
	KindParameter EntryKind = iota
	// KindArgument is an argument occurrence within a telecommand.
	KindArgument
)

func (k EntryKind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Alias is an alternate name for an item, scoped to a namespace.
type Alias struct {
	Namespace string
	Name      string
}

// Entry is one row of resolved container or telecommand content.
//
// Size and start bit are kept string-encoded as the resolver produced them:
// structural rows (aggregates, items without a known size) carry empty
// strings and have no bit range.
type Entry struct {
	Kind          EntryKind
	Name          string // Parameter or argument name
	Holder        string // Container or telecommand that holds this entry
	RawSizeInBits string
	RawStartBit   string
	InUse         bool   // False when a conditional inclusion excluded this entry
	Value         string // Optional rendered value
	Aliases       []Alias
}

// HasGeometry reports whether both the size and the start bit are present.
func (e Entry) HasGeometry() bool {
	return e.RawSizeInBits != "" && e.RawStartBit != ""
}

// Bits parses the raw start bit and size. ok is false when either field is
// empty or not an integer.
func (e Entry) Bits() (start, size int, ok bool) {
	if !e.HasGeometry() {
		return 0, 0, false
	}
	start, err := strconv.Atoi(e.RawStartBit)
	if err != nil {
		return 0, 0, false
	}
	size, err = strconv.Atoi(e.RawSizeInBits)
	if err != nil {
		return 0, 0, false
	}
	return start, size, true
}

// Model is the resolved content of a single container or telecommand.
type Model struct {
	Name        string
	Telecommand bool
	Entries     []Entry
}

// TotalBits returns the highest end bit among the entries in use.
func (m *Model) TotalBits() int {
	total := 0
	for _, e := range m.Entries {
		if !e.InUse {
			continue
		}
		start, size, ok := e.Bits()
		if !ok {
			continue
		}
		if end := start + size; end > total {
			total = end
		}
	}
	return total
}
