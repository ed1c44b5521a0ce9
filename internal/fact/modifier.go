package fact

import "retenet/internal/atomtab"

// Modifier is FactModifier: holds a reference to an existing
// non-garbage fact and a change-bitmap of length numberOfSlots. PutSlot
// stores a proposed value and sets the corresponding bit; setting a
// value equal to the fact's current slot value clears the bit. The
// modifier caches the fact so repeated ModifyFM calls accumulate
// against its latest state.
type Modifier struct {
	tab      *atomtab.Table
	f        *Fact
	proposed []Value
	changed  []bool
}

// NewModifier creates a FactModifier for f.
func NewModifier(tab *atomtab.Table, f *Fact) (*Modifier, error) {
	if f == nil {
		return nil, ErrNullPointer
	}
	if f.garbage {
		return nil, ErrRetracted
	}
	if f.Template.Implied {
		return nil, ErrImpliedTemplate
	}
	m := &Modifier{
		tab:      tab,
		f:        f,
		proposed: append([]Value(nil), f.Slots...),
		changed:  make([]bool, len(f.Slots)),
	}
	return m, nil
}

// PutSlot validates value and stages it for the named slot.
func (m *Modifier) PutSlot(name string, value Value) error {
	slot, idx, ok := m.f.Template.SlotIndex(name)
	if !ok {
		return &slotNotFoundError{name}
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
	m.proposed[idx] = value
	m.changed[idx] = !m.f.Slots[idx].Equal(value)
	return nil
}

// HasChanges reports whether any slot is currently staged for change.
func (m *Modifier) HasChanges() bool {
	for _, c := range m.changed {
		if c {
			return true
		}
	}
	return false
}

// ModifyFM performs the fact-replacement protocol: a no-op
// if no change bits are set; otherwise it retains the newly staged
// values, releases the ones they replace, asks store to relink the hash
// bucket and relocate the fact (preserving fact-id and list position),
// and resets the modifier's staged state to the fact's new slots so a
// further ModifyFM call accumulates correctly.
func (m *Modifier) ModifyFM(store *Store) (*Fact, []int, error) {
	if !m.HasChanges() {
		return m.f, nil, nil
	}

	for i, isChanged := range m.changed {
		if isChanged {
			m.proposed[i].Retain()
		}
	}
	oldValues := append([]Value(nil), m.f.Slots...)

	changedIdx := store.Modify(m.f, m.proposed, m.changed)

	for _, i := range changedIdx {
		oldValues[i].Release()
	}

	m.proposed = append([]Value(nil), m.f.Slots...)
	m.changed = make([]bool, len(m.f.Slots))
	return m.f, changedIdx, nil
}

type slotNotFoundError struct{ name string }

func (e *slotNotFoundError) Error() string { return "slot not found: " + e.name }
