package beta

// Terminal sits at the end of a rule's join chain. It has no memory of
// its own; OnActivate/OnDeactivate are set by whatever host assembles
// the join chain, for example to push and withdraw rule activations on
// its own agenda or to record/remove logical support through
// logical.Court. internal/env builds no join chains and sets neither.
type Terminal struct {
	OnActivate   func(m *Match)
	OnDeactivate func(m *Match)
}

func (t *Terminal) LeftActivate(m *Match) {
	if t.OnActivate != nil {
		t.OnActivate(m)
	}
}

func (t *Terminal) LeftDeactivate(m *Match) {
	if t.OnDeactivate != nil {
		t.OnDeactivate(m)
	}
}
