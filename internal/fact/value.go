package fact

import "retenet/internal/atomtab"

// Value is a single slot's value: either a scalar atom or a multifield,
// never both. The zero Value represents an unfilled (void) slot.
type Value struct {
	Atom *atomtab.Atom
	MF   *atomtab.Multifield
}

// ScalarValue wraps an atom as a single-valued slot value.
func ScalarValue(a *atomtab.Atom) Value { return Value{Atom: a} }

// MultiValue wraps a multifield as a multi-valued slot value.
func MultiValue(mf *atomtab.Multifield) Value { return Value{MF: mf} }

// IsMulti reports whether v holds a multifield.
func (v Value) IsMulti() bool { return v.MF != nil }

// IsVoid reports whether v holds neither an atom nor a multifield.
func (v Value) IsVoid() bool { return v.Atom == nil && v.MF == nil }

// Retain increments the reference count of the held value.
func (v Value) Retain() {
	switch {
	case v.MF != nil:
		v.MF.Retain()
	case v.Atom != nil:
		v.Atom.Retain()
	}
}

// Release decrements the reference count of the held value.
func (v Value) Release() {
	switch {
	case v.MF != nil:
		v.MF.Release()
	case v.Atom != nil:
		v.Atom.Release()
	}
}

// Equal compares two slot values structurally for multifields, by
// identity for scalars.
func (v Value) Equal(o Value) bool {
	if v.IsMulti() != o.IsMulti() {
		return false
	}
	if v.IsMulti() {
		return v.MF.Equal(o.MF)
	}
	return v.Atom == o.Atom
}

// Hash returns the value's contribution to a fact's canonical hash.
func (v Value) Hash() uint64 {
	if v.IsMulti() {
		return v.MF.Hash()
	}
	if v.Atom == nil {
		return 0
	}
	return atomtab.Hash(v.Atom)
}

// String renders the value in CLIPS-like external form.
func (v Value) String() string {
	switch {
	case v.MF != nil:
		return "(" + v.MF.String() + ")"
	case v.Atom != nil:
		return v.Atom.String()
	default:
		return "<void>"
	}
}
