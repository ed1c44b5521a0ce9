package beta

import "retenet/internal/fact"

// Match is a partial match: an ordered tuple of the facts bound so far
// by a chain of joins. Root is the single empty tuple fed into the
// first join of every rule's pattern chain.
type Match struct {
	Facts []*fact.Fact
}

// Root is the dummy top-node token: every rule's first join is seeded
// with it exactly once and it is never deactivated.
var Root = &Match{}

// extend returns a new Match with f appended, leaving m untouched so
// concurrent emissions from the same left match never alias slices.
func (m *Match) extend(f *fact.Fact) *Match {
	facts := make([]*fact.Fact, len(m.Facts)+1)
	copy(facts, m.Facts)
	facts[len(m.Facts)] = f
	return &Match{Facts: facts}
}

// Successor is implemented by anything that consumes a join's output
// stream of partial matches: another JoinNode (chaining the next
// pattern) or a Terminal (completing a rule).
type Successor interface {
	LeftActivate(m *Match)
	LeftDeactivate(m *Match)
}
