package cdl

// File is a complete container description file.
type File struct {
	Blocks []*Block `@@*`
}

// Block declares a container or a telecommand.
// Example: container "HK" extends "CCSDS_Primary_Header" { ... }
type Block struct {
	Kind    string  `@( "container" | "telecommand" )`
	Name    string  `@String`
	Extends *string `( "extends" @String )?`
	Items   []*Item `"{" @@* "}"`
}

// IsTelecommand reports whether the block declares a telecommand.
func (b *Block) IsTelecommand() bool {
	return b.Kind == "telecommand"
}

// Item is one statement inside a block.
type Item struct {
	Include   *Include   `  @@`
	Aggregate *Aggregate `| @@`
	Field     *Field     `| @@`
}

// Include inlines the content of another container at the current position.
// Example: include "Extra" if "Type" == "1";
type Include struct {
	Name      string     `"include" @String`
	Condition *Condition `@@? ";"`
}

// Aggregate is a structural row without a bit range.
// Example: aggregate "Status";
type Aggregate struct {
	Name string `"aggregate" @String ";"`
}

// Field is a parameter or argument occurrence.
// Example: parameter "Temp" size 16 start 8 value "21" alias "ops" "T1";
type Field struct {
	Kind      string     `@( "parameter" | "argument" )`
	Name      string     `@String`
	Attrs     []*Attr    `@@*`
	Condition *Condition `@@? ";"`
}

// Attr is a single field attribute.
type Attr struct {
	Size  *int       `  "size" @Int`
	Start *int       `| "start" @Int`
	Value *string    `| "value" @String`
	Alias *AliasSpec `| "alias" @@`
}

// AliasSpec names an alias in a namespace.
type AliasSpec struct {
	Namespace string `@String`
	Name      string `@String`
}

// Condition restricts inclusion to a parameter value seen earlier in the
// same resolution pass.
type Condition struct {
	Parameter string `"if" @String`
	Operator  string `@Operator`
	Value     string `@String`
}

// Size returns the declared size and whether one was given.
func (f *Field) Size() (int, bool) {
	for _, a := range f.Attrs {
		if a.Size != nil {
			return *a.Size, true
		}
	}
	return 0, false
}

// Start returns the declared start offset and whether one was given.
func (f *Field) Start() (int, bool) {
	for _, a := range f.Attrs {
		if a.Start != nil {
			return *a.Start, true
		}
	}
	return 0, false
}

// Value returns the declared value, if any.
func (f *Field) Value() string {
	for _, a := range f.Attrs {
		if a.Value != nil {
			return *a.Value
		}
	}
	return ""
}

// Aliases returns all declared aliases in declaration order.
func (f *Field) Aliases() []*AliasSpec {
	var out []*AliasSpec
	for _, a := range f.Attrs {
		if a.Alias != nil {
			out = append(out, a.Alias)
		}
	}
	return out
}
