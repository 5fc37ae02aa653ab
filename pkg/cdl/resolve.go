package cdl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
)

// ErrUnknownBlock is wrapped by Resolve when a name cannot be found.
var ErrUnknownBlock = errors.New("cdl: unknown container or telecommand")

// Resolve flattens the named block into its content model.
//
// Base blocks (extends) are laid out first, includes are inlined at the
// running bit position, and fields without an explicit start follow the
// previous field. A start offset is relative to the origin of the block
// that declares the field. Conditions are evaluated against parameter
// values resolved earlier in the same pass; a false condition keeps the
// entries but marks them not in use and does not advance the position.
func (c *Catalog) Resolve(name string) (*content.Model, error) {
	b, ok := c.Block(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, name)
	}
	r := &resolver{
		catalog: c,
		values:  make(map[string]string),
		seen:    make(map[string]bool),
	}
	if _, err := r.block(b, 0, true); err != nil {
		return nil, err
	}
	return &content.Model{
		Name:        b.Name,
		Telecommand: b.IsTelecommand(),
		Entries:     r.entries,
	}, nil
}

type resolver struct {
	catalog *Catalog
	values  map[string]string
	seen    map[string]bool
	stack   []string
	entries []content.Entry
}

// block appends the content of b starting at origin and returns the bit
// position following its last active entry.
func (r *resolver) block(b *Block, origin int, inUse bool) (int, error) {
	for _, active := range r.stack {
		if active == b.Name {
			return 0, fmt.Errorf("cdl: reference cycle %s -> %s", strings.Join(r.stack, " -> "), b.Name)
		}
	}
	r.stack = append(r.stack, b.Name)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	pos := origin
	if b.Extends != nil {
		base, ok := r.catalog.Block(*b.Extends)
		if !ok {
			return 0, fmt.Errorf("%w: %q extends %q", ErrUnknownBlock, b.Name, *b.Extends)
		}
		end, err := r.block(base, origin, inUse)
		if err != nil {
			return 0, err
		}
		pos = end
	}

	for _, item := range b.Items {
		switch {
		case item.Include != nil:
			inc, ok := r.catalog.Block(item.Include.Name)
			if !ok {
				return 0, fmt.Errorf("%w: %q includes %q", ErrUnknownBlock, b.Name, item.Include.Name)
			}
			cond, err := r.eval(item.Include.Condition)
			if err != nil {
				return 0, fmt.Errorf("cdl: %s: include %q: %w", b.Name, inc.Name, err)
			}
			active := inUse && cond
			end, err := r.block(inc, pos, active)
			if err != nil {
				return 0, err
			}
			if active {
				pos = end
			}

		case item.Aggregate != nil:
			r.entries = append(r.entries, content.Entry{
				Kind:   defaultKind(b),
				Name:   item.Aggregate.Name,
				Holder: b.Name,
				InUse:  inUse,
			})

		case item.Field != nil:
			end, err := r.field(b, item.Field, origin, pos, inUse)
			if err != nil {
				return 0, err
			}
			pos = end
		}
	}
	return pos, nil
}

func (r *resolver) field(b *Block, f *Field, origin, pos int, inUse bool) (int, error) {
	cond, err := r.eval(f.Condition)
	if err != nil {
		return 0, fmt.Errorf("cdl: %s: %s %q: %w", b.Name, f.Kind, f.Name, err)
	}
	active := inUse && cond

	kind := content.KindParameter
	if f.Kind == "argument" {
		kind = content.KindArgument
	}
	entry := content.Entry{
		Kind:   kind,
		Name:   f.Name,
		Holder: b.Name,
		InUse:  active,
		Value:  f.Value(),
	}
	for _, a := range f.Aliases() {
		entry.Aliases = append(entry.Aliases, content.Alias{Namespace: a.Namespace, Name: a.Name})
	}

	if size, ok := f.Size(); ok {
		start := pos
		if offset, ok := f.Start(); ok {
			start = origin + offset
		}
		entry.RawStartBit = strconv.Itoa(start)
		entry.RawSizeInBits = strconv.Itoa(size)
		if active {
			pos = start + size
		}
	}

	if kind == content.KindParameter {
		r.seen[f.Name] = true
		if active {
			r.values[f.Name] = entry.Value
		}
	}
	r.entries = append(r.entries, entry)
	return pos, nil
}

func (r *resolver) eval(c *Condition) (bool, error) {
	if c == nil {
		return true, nil
	}
	if !r.seen[c.Parameter] {
		return false, fmt.Errorf("condition on unknown parameter %q", c.Parameter)
	}
	value := r.values[c.Parameter]
	switch c.Operator {
	case "==":
		return value == c.Value, nil
	case "!=":
		return value != c.Value, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", c.Operator)
	}
}

func defaultKind(b *Block) content.EntryKind {
	if b.IsTelecommand() {
		return content.KindArgument
	}
	return content.KindParameter
}
