package alpha

import "retenet/internal/fact"

// FieldTest is one edge's admission test. Key identifies the test for
// trie sharing: two patterns whose corresponding step has the same
// SlotIndex and Key reuse the same child node, the way CLIPS's pattern
// network shares a node across rules whose left-hand sides agree on a
// prefix of field tests.
type FieldTest struct {
	Key   string
	Match func(fact.Value) bool
}

// Equal builds a FieldTest admitting only values structurally/
// identity-equal to want.
func Equal(want fact.Value) FieldTest {
	return FieldTest{
		Key:   "eq:" + want.String(),
		Match: func(v fact.Value) bool { return v.Equal(want) },
	}
}

// Predicate builds a FieldTest from an arbitrary Go closure. key must be
// a stable, unique identifier for this test's semantics so that
// patterns sharing the same (slot, key) pair share a trie node; it is
// the caller's responsibility, since closures are not comparable.
func Predicate(key string, match func(fact.Value) bool) FieldTest {
	return FieldTest{Key: key, Match: match}
}

// PatternStep is one position in a pattern: which slot to test and how.
type PatternStep struct {
	SlotIndex int
	Test      FieldTest
}
