package fact

import (
	"fmt"

	"retenet/internal/atomtab"
	"retenet/internal/template"
)

// Builder is Fact_Builder: constructs a new fact slot by slot. It holds
// an owning template and a slot-value buffer initialized to void;
// put-slot validates against the slot's constraints before storing.
type Builder struct {
	tmpl   *template.Template
	slots  []Value
	filled []bool
	tab    *atomtab.Table
}

// NewBuilder creates a Fact_Builder for tmpl. It fails with
// ErrImpliedTemplate for implied templates, which are built via the
// textual literal form (internal/wire) rather than slot-by-slot, and
// with ErrNullPointer if tmpl is nil.
func NewBuilder(tab *atomtab.Table, tmpl *template.Template) (*Builder, error) {
	if tmpl == nil {
		return nil, ErrNullPointer
	}
	if tmpl.Implied {
		return nil, ErrImpliedTemplate
	}
	b := &Builder{
		tmpl:   tmpl,
		tab:    tab,
		slots:  make([]Value, len(tmpl.Slots)),
		filled: make([]bool, len(tmpl.Slots)),
	}
	for i := range b.slots {
		b.slots[i] = ScalarValue(tab.Void())
	}
	tmpl.Retain()
	return b, nil
}

// PutSlot validates value against the named slot's constraints and
// cardinality and stores it in the builder's buffer. It never mutates
// the fact store.
func (b *Builder) PutSlot(name string, value Value) error {
	slot, idx, ok := b.tmpl.SlotIndex(name)
	if !ok {
		return &template.SlotError{Slot: name, Kind: template.ErrSlotNotFound, Msg: "no such slot"}
	}
	if value.IsMulti() {
		if err := slot.CheckMulti(value.MF); err != nil {
			return err
		}
	} else {
		if err := slot.CheckScalar(value.Atom); err != nil {
			return err
		}
	}
	b.slots[idx] = value
	b.filled[idx] = true
	return nil
}

// Abort discards the builder, releasing any retained values and the
// template's busy hold, without asserting anything.
func (b *Builder) Abort() {
	for i, filled := range b.filled {
		if filled {
			b.slots[i].Release()
		}
	}
	b.tmpl.Release()
}

// Dispose is an alias for Abort, present for parity with the external
// API surface; both simply release resources.
func (b *Builder) Dispose() { b.Abort() }

// AssertFB materializes the fact: unfilled slots are resolved through
// defaultEval, then the fact is submitted to store. On success it
// returns the installed (possibly pre-existing, if duplication is
// disabled and a structural match exists) fact. On failure the
// builder's buffer is left intact so the caller may retry or Abort.
func (b *Builder) AssertFB(store *Store, support Support, defaultEval DefaultFiller) (*Fact, error) {
	resolved := make([]Value, len(b.slots))
	copy(resolved, b.slots)

	for i, slot := range b.tmpl.Slots {
		if b.filled[i] {
			continue
		}
		v, err := defaultEval(slot)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q: %v", ErrCouldNotAssert, slot.Name.Lexeme(), err)
		}
		resolved[i] = v
	}

	if !store.Duplicates {
		if existing, ok := store.FindDuplicate(b.tmpl, resolved); ok {
			if support != nil {
				existing.Supports = append(existing.Supports, support)
			}
			b.releaseUnusedDefaults(resolved)
			b.tmpl.Release() // existing fact already holds its own template retain
			return existing, nil
		}
	}

	for i := range resolved {
		resolved[i].Retain()
	}
	f := &Fact{Template: b.tmpl, Slots: resolved}
	if support != nil {
		f.Supports = append(f.Supports, support)
	}
	store.Install(f)
	return f, nil
}

// releaseUnusedDefaults releases the values computed to fill void slots
// when AssertFB discovers the fact is a duplicate and discards them
// rather than installing a new fact.
func (b *Builder) releaseUnusedDefaults(resolved []Value) {
	for i, filled := range b.filled {
		if !filled {
			resolved[i].Release()
		}
	}
}

// DefaultFiller resolves a slot's value per its DefaultPolicy.
// internal/env constructs the concrete implementation, since
// DefaultDynamic requires calling out to the module's dynamic
// evaluator, an external collaborator.
type DefaultFiller func(slot *template.Slot) (Value, error)
