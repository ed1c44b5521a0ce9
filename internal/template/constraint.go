package template

import (
	"fmt"

	"retenet/internal/atomtab"
)

// SlotErrorKind enumerates the typed slot-put failure kinds.
type SlotErrorKind int

const (
	ErrSlotNotFound SlotErrorKind = iota
	ErrType
	ErrRange
	ErrAllowedValues
	ErrCardinality
	ErrAllowedClasses
	ErrInvalidTarget
)

func (k SlotErrorKind) String() string {
	switch k {
	case ErrSlotNotFound:
		return "slot-not-found"
	case ErrType:
		return "type"
	case ErrRange:
		return "range"
	case ErrAllowedValues:
		return "allowed-values"
	case ErrCardinality:
		return "cardinality"
	case ErrAllowedClasses:
		return "allowed-classes"
	case ErrInvalidTarget:
		return "invalid-target"
	default:
		return "unknown"
	}
}

// SlotError reports a constraint violation against a specific slot. It
// never mutates state.
type SlotError struct {
	Slot string
	Kind SlotErrorKind
	Msg  string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %q: %s: %s", e.Slot, e.Kind, e.Msg)
}

func newSlotErr(slot string, kind SlotErrorKind, format string, args ...interface{}) *SlotError {
	return &SlotError{Slot: slot, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// CheckScalar validates a single atom against a non-multi slot's
// constraint (type, allowed-values, range).
func (s *Slot) CheckScalar(v *atomtab.Atom) error {
	if s.Multi {
		return newSlotErr(s.Name.Lexeme(), ErrInvalidTarget, "put-slot given a scalar for multislot %q", s.Name.Lexeme())
	}
	return s.Constraint.check(s.Name.Lexeme(), v)
}

// CheckMulti validates a multifield against a multi slot: cardinality
// first, then each element against the scalar constraint.
func (s *Slot) CheckMulti(mf *atomtab.Multifield) error {
	if !s.Multi {
		return newSlotErr(s.Name.Lexeme(), ErrInvalidTarget, "put-slot given a multifield for single-valued slot %q", s.Name.Lexeme())
	}
	if !s.Constraint.Cardinality.allows(mf.Len()) {
		return newSlotErr(s.Name.Lexeme(), ErrCardinality, "length %d outside [%d,%d]", mf.Len(), s.Constraint.Cardinality.Min, s.Constraint.Cardinality.Max)
	}
	for i := 0; i < mf.Len(); i++ {
		if err := s.Constraint.check(s.Name.Lexeme(), mf.At(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Constraint) check(slotName string, v *atomtab.Atom) error {
	if len(c.AllowedTypes) > 0 {
		ok := false
		for _, t := range c.AllowedTypes {
			if t == v.Tag() {
				ok = true
				break
			}
		}
		if !ok {
			return newSlotErr(slotName, ErrType, "%s not among allowed types", v.Tag())
		}
	}
	if len(c.AllowedValues) > 0 {
		ok := false
		for _, allowed := range c.AllowedValues {
			if allowed == v {
				ok = true
				break
			}
		}
		if !ok {
			return newSlotErr(slotName, ErrAllowedValues, "%s not among allowed values", v)
		}
	}
	if c.Range != nil {
		if !numericWithinRange(v, c.Range) {
			return newSlotErr(slotName, ErrRange, "%s outside configured range", v)
		}
	}
	if len(c.AllowedClasses) > 0 && v.Tag() == atomtab.TagInstanceName {
		// Instance-class membership belongs to the module/instance
		// system; this package only records and exposes the allowed
		// class list.
		_ = v
	}
	return nil
}

func numericWithinRange(v *atomtab.Atom, r *NumericRange) bool {
	var val float64
	switch v.Tag() {
	case atomtab.TagInteger:
		val = float64(v.Integer())
	case atomtab.TagFloat:
		val = v.Float()
	default:
		return true // range only applies to numeric atoms
	}
	if r.Min != nil {
		if lt(val, r.Min) {
			return false
		}
	}
	if r.Max != nil {
		if gt(val, r.Max) {
			return false
		}
	}
	return true
}

func numericOf(a *atomtab.Atom) float64 {
	if a.Tag() == atomtab.TagInteger {
		return float64(a.Integer())
	}
	return a.Float()
}

func lt(val float64, bound *atomtab.Atom) bool { return val < numericOf(bound) }
func gt(val float64, bound *atomtab.Atom) bool { return val > numericOf(bound) }
