package logical

import (
	"errors"

	"retenet/internal/fact"
)

// ErrWouldCreateCycle is returned when a proposed support edge targets
// a fact that is currently mid-retraction.
var ErrWouldCreateCycle = errors.New("logical-support: would create a back-edge to a fact being retracted")

// Court validates a proposed logical-support edge before committing it,
// the same sandbox-first-then-commit discipline used elsewhere in this
// codebase for ratifying a change before it lands: rather than adding
// the support and unwinding on failure, Ratify checks first and only
// mutates state once the check passes.
type Court struct {
	store      *fact.Store
	retracting map[*fact.Fact]bool
}

// NewCourt constructs a Court bound to store; cascading retractions it
// drives go through store.Retract.
func NewCourt(store *fact.Store) *Court {
	return &Court{store: store, retracting: make(map[*fact.Fact]bool)}
}

// Ratify records s as a supporter of f, unless f is currently being
// cascade-retracted — adding support to a fact mid-retraction would
// create a dependency cycle back into the retraction in progress.
func (c *Court) Ratify(f *fact.Fact, s fact.Support) error {
	if c.retracting[f] {
		return ErrWouldCreateCycle
	}
	f.Supports = append(f.Supports, s)
	return nil
}

// Withdraw removes s from f's supporters. If no supporters remain, f is
// cascade-retracted.
func (c *Court) Withdraw(f *fact.Fact, s fact.Support) {
	kept := f.Supports[:0]
	for _, existing := range f.Supports {
		if existing != s {
			kept = append(kept, existing)
		}
	}
	f.Supports = kept
	if len(f.Supports) == 0 {
		c.cascadeRetract(f)
	}
}

func (c *Court) cascadeRetract(f *fact.Fact) {
	if f.Garbage() || c.retracting[f] {
		return
	}
	c.retracting[f] = true
	defer delete(c.retracting, f)
	c.store.Retract(f)
}
