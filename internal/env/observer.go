package env

import "retenet/internal/fact"

// Observer receives every store-level assert/retract/modify once
// attached via AttachObserver. internal/audit's Logger implements this
// to append a forensic trail without internal/env importing
// internal/audit — the same "hooks instead of a dependency" shape
// Store itself uses for OnAssert/OnRetract/OnModify.
type Observer interface {
	OnAssert(f *fact.Fact)
	OnRetract(f *fact.Fact)
	OnModify(f *fact.Fact, changed []int)
}

// AttachObserver chains o onto the Store's existing assert/retract/
// modify hooks, run after the alpha-network wiring New installs.
// Attaching is optional and additive: an Environment with no observer
// attached behaves exactly as before.
func (e *Environment) AttachObserver(o Observer) {
	prevAssert := e.Store.OnAssert
	prevRetract := e.Store.OnRetract
	prevModify := e.Store.OnModify

	e.Store.OnAssert = func(f *fact.Fact) {
		if prevAssert != nil {
			prevAssert(f)
		}
		o.OnAssert(f)
	}
	e.Store.OnRetract = func(f *fact.Fact) {
		if prevRetract != nil {
			prevRetract(f)
		}
		o.OnRetract(f)
	}
	e.Store.OnModify = func(f *fact.Fact, changed []int) {
		if prevModify != nil {
			prevModify(f, changed)
		}
		o.OnModify(f, changed)
	}
}
