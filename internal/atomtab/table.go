package atomtab

import "math"

// Table owns the intern tables for one environment. The zero value is
// ready to use.
type Table struct {
	lexemes map[lexemeKey]*Atom
	ints    map[int64]*Atom
	floats  map[uint64]*Atom // keyed by raw IEEE-754 bits, see Hash
	bitmaps map[string]*Atom
	voidA   *Atom
}

type lexemeKey struct {
	tag Tag
	s   string
}

// NewTable constructs an empty intern table.
func NewTable() *Table {
	return &Table{
		lexemes: make(map[lexemeKey]*Atom),
		ints:    make(map[int64]*Atom),
		floats:  make(map[uint64]*Atom),
		bitmaps: make(map[string]*Atom),
	}
}

func (t *Table) internLexeme(tag Tag, s string) *Atom {
	key := lexemeKey{tag, s}
	if a, ok := t.lexemes[key]; ok {
		return a
	}
	a := &Atom{tag: tag, lexeme: s}
	t.lexemes[key] = a
	return a
}

// InternSymbol interns str as a symbol atom.
func (t *Table) InternSymbol(str string) *Atom { return t.internLexeme(TagSymbol, str) }

// InternString interns str as a string atom. Strings and symbols are
// distinguished by tag even when textually equal.
func (t *Table) InternString(str string) *Atom { return t.internLexeme(TagString, str) }

// InternInstanceName interns str as an instance-name atom.
func (t *Table) InternInstanceName(str string) *Atom { return t.internLexeme(TagInstanceName, str) }

// InternInteger interns i as an integer atom.
func (t *Table) InternInteger(i int64) *Atom {
	if a, ok := t.ints[i]; ok {
		return a
	}
	a := &Atom{tag: TagInteger, i: i}
	t.ints[i] = a
	return a
}

// InternFloat interns f as a float atom. Hashing/interning is by raw
// IEEE-754 bit pattern, so +0 and -0 intern distinctly and every NaN
// payload interns distinctly, preserved intentionally — see DESIGN.md.
func (t *Table) InternFloat(f float64) *Atom {
	bits := math.Float64bits(f)
	if a, ok := t.floats[bits]; ok {
		return a
	}
	a := &Atom{tag: TagFloat, f: f}
	t.floats[bits] = a
	return a
}

// InternExternal wraps an opaque external-address value in an atom.
// Unlike the other tags, external addresses are not deduplicated at all:
// every call returns a new, distinct atom, even when the host passes an
// identical ptr, so two atoms for the same address are never the same
// atom.
func (t *Table) InternExternal(ptr uintptr) *Atom {
	return &Atom{tag: TagExternalAddress, ext: ptr}
}

// InternBitmap interns bytes as a bitmap atom, deduplicated by content.
func (t *Table) InternBitmap(bytes []byte) *Atom {
	key := string(bytes)
	if a, ok := t.bitmaps[key]; ok {
		return a
	}
	a := &Atom{tag: TagBitmap, bitmap: key}
	t.bitmaps[key] = a
	return a
}

// Void returns the single shared void atom, used to mark an unfilled
// slot in a Fact_Builder.
func (t *Table) Void() *Atom {
	if t.voidA == nil {
		t.voidA = &Atom{tag: TagVoid}
	}
	return t.voidA
}

// Hash returns a 64-bit hash of the atom's value, used by the fact hash
// index. Equal atoms (same pointer) always hash equal;
// distinct interned atoms may collide, as for any hash function.
func Hash(a *Atom) uint64 {
	switch a.tag {
	case TagSymbol, TagString, TagInstanceName:
		return fnv1a(a.tag, a.lexeme)
	case TagInteger:
		return fnv1aBits(a.tag, uint64(a.i))
	case TagFloat:
		return fnv1aBits(a.tag, math.Float64bits(a.f))
	case TagExternalAddress:
		return fnv1aBits(a.tag, uint64(a.ext))
	case TagBitmap:
		return fnv1a(a.tag, a.bitmap)
	case TagVoid:
		return uint64(TagVoid)
	default:
		return 0
	}
}

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func fnv1a(tag Tag, s string) uint64 {
	h := uint64(fnvOffset64) ^ uint64(tag)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func fnv1aBits(tag Tag, v uint64) uint64 {
	h := uint64(fnvOffset64) ^ uint64(tag)
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * i)) & 0xff
		h *= fnvPrime64
	}
	return h
}
