// Package fact implements the working-memory fact store:
// content-addressed, hash-deduplicated facts with stable identities
// across modification, plus the Fact_Builder and FactModifier that
// produce them.
package fact

import "retenet/internal/template"

// MatchListEntry is implemented by alpha-network nodes so a Fact can
// carry its own "which alpha memories currently hold me" list without
// this package importing the alpha package. Removal on retraction walks
// this list and asks each entry to remove the fact and notify
// downstream joins.
type MatchListEntry interface {
	RemoveFact(f *Fact)
}

// Support is implemented by the beta/logical layer so a Fact can record
// which partial matches justify its existence under logical dependency
// without this package importing beta/logical.
type Support interface {
	// Facts returns the facts this support depends on, for cascade
	// retraction bookkeeping.
	Facts() []*Fact
}

// Fact is the unit of working memory.
type Fact struct {
	ID       uint64
	Template *template.Template
	Slots    []Value

	hash    uint64
	garbage bool
	busy    int

	// MatchList records every alpha memory currently holding this fact.
	MatchList []MatchListEntry

	// Supports records the partial matches (if any) whose rule assertion
	// justifies this fact's existence under logical support.
	Supports []Support

	// BasisSlots is a snapshot of Slots taken by the first SnapshotBasis
	// call, so a holder that took it keeps reporting stable bindings
	// across a later modification. internal/beta does not call
	// SnapshotBasis.
	BasisSlots []Value
	hasBasis   bool

	// list links, all maintained by Store.
	globalNext, globalPrev     *Fact
	templateNext, templatePrev *Fact
	hashNext                   *Fact
}

// SnapshotBasis records Slots as BasisSlots the first time it is called
// for this fact; later calls are no-ops, matching "snapshot taken when
// the fact first enters a partial match".
func (f *Fact) SnapshotBasis() {
	if f.hasBasis {
		return
	}
	f.BasisSlots = append([]Value(nil), f.Slots...)
	f.hasBasis = true
}

// BasisValue returns the basis-stabilized value for slot i if a basis
// snapshot has been taken, otherwise the live value.
func (f *Fact) BasisValue(i int) Value {
	if f.hasBasis {
		return f.BasisSlots[i]
	}
	return f.Slots[i]
}

// Garbage reports whether the fact has been retracted.
func (f *Fact) Garbage() bool { return f.garbage }

// BusyCount reports the number of external holders.
func (f *Fact) BusyCount() int { return f.busy }

// Retain increments the busy count (a rule, builder, or partial match
// taking a reference).
func (f *Fact) Retain() { f.busy++ }

// Release decrements the busy count. It is a programming error to
// release below zero.
func (f *Fact) Release() {
	if f.busy <= 0 {
		panic("fact: Release() on fact with busy count already zero")
	}
	f.busy--
}

// Hash returns the fact's cached canonical hash.
func (f *Fact) Hash() uint64 { return f.hash }

// Slot returns the value of the named slot, or (Value{}, false) if the
// template has no such slot.
func (f *Fact) Slot(name string) (Value, bool) {
	_, idx, ok := f.Template.SlotIndex(name)
	if !ok {
		if f.Template.Implied && name == "implied" {
			return f.Slots[0], true
		}
		return Value{}, false
	}
	return f.Slots[idx], true
}

// SlotsEqual reports whether two facts of the same template have
// element-for-element equal slot tuples.
func SlotsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
