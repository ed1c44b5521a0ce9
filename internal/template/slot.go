// Package template implements the named, module-scoped schema model:
// slot descriptors with defaults/constraints, and the Template registry
// itself.
package template

import "retenet/internal/atomtab"

// DefaultPolicy says how a slot left void by a builder is filled on
// assertion.
type DefaultPolicy int

const (
	// DefaultNone means an unfilled slot rejects the assertion.
	DefaultNone DefaultPolicy = iota
	// DefaultStatic copies a fixed value recorded on the descriptor.
	DefaultStatic
	// DefaultDynamic evaluates an expression at assertion time.
	DefaultDynamic
	// DefaultDerived synthesizes a minimal value satisfying constraints.
	DefaultDerived
)

func (p DefaultPolicy) String() string {
	switch p {
	case DefaultNone:
		return "none"
	case DefaultStatic:
		return "static"
	case DefaultDynamic:
		return "dynamic"
	case DefaultDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// DynamicEvaluator evaluates a slot's dynamic-default expression in the
// template's owning module. The expression language itself lives outside
// the core; this is the contract the core calls through.
type DynamicEvaluator func(slot *Slot) (*atomtab.Atom, *atomtab.Multifield, error)

// NumericRange constrains a numeric slot to [Min, Max], either bound may
// be nil to mean unbounded.
type NumericRange struct {
	Min, Max *atomtab.Atom
}

// Cardinality constrains the element count of a multislot to [Min, Max];
// Max < 0 means unbounded.
type Cardinality struct {
	Min, Max int
}

func (c Cardinality) allows(n int) bool {
	if n < c.Min {
		return false
	}
	if c.Max >= 0 && n > c.Max {
		return false
	}
	return true
}

// Facet is a named-value pair attached to slot metadata.
type Facet struct {
	Name  string
	Value *atomtab.Atom
}

// Constraint is the full set of checks applied to a slot value on
// builder/modifier input and on dynamic-default evaluation.
type Constraint struct {
	AllowedTypes  []atomtab.Tag // empty means any type
	AllowedValues []*atomtab.Atom
	Range         *NumericRange
	Cardinality   Cardinality // only meaningful for multislots
	AllowedClasses []string   // instance-valued slots
}

// DefaultCardinality permits any number of elements.
var DefaultCardinality = Cardinality{Min: 0, Max: -1}

// Slot is a named, typed, optionally constrained position within a
// Template.
type Slot struct {
	Name       *atomtab.Atom
	Multi      bool
	Default    DefaultPolicy
	StaticDef  *atomtab.Atom       // for Default == DefaultStatic, single-valued
	StaticMF   *atomtab.Multifield // for Default == DefaultStatic, multi-valued
	DynamicFn  DynamicEvaluator    // for Default == DefaultDynamic
	Facets     []Facet
	Constraint Constraint
}

func (s *Slot) facetValue(name string) (*atomtab.Atom, bool) {
	for _, f := range s.Facets {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// FacetValue returns the value of a named facet and whether it exists.
func (s *Slot) FacetValue(name string) (*atomtab.Atom, bool) { return s.facetValue(name) }
