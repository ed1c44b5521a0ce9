package env

import (
	"fmt"

	"retenet/internal/fact"
	"retenet/internal/logging"
	"retenet/internal/template"
	"retenet/internal/wire"
)

// DefineTemplate installs a new template, refused while network
// propagation is in progress.
func (e *Environment) DefineTemplate(mod *template.Module, name string, implied bool, slots []*template.Slot) (*template.Template, error) {
	if e.leaseHeld {
		return nil, statusErr(ErrJoinInProgress, "define-template")
	}
	return e.Templates.DefineTemplate(mod, e.Atoms.InternSymbol(name), implied, slots)
}

// AssertString parses text as a fact literal and asserts it — the
// implementation behind assert-string. support, if non-nil, is
// recorded so the fact is retracted when that logical support is
// withdrawn (internal/logical).
func (e *Environment) AssertString(mod *template.Module, text string, support fact.Support) (*fact.Fact, error) {
	timer := logging.StartTimer(logging.CategoryAssert, "assert-string")
	defer timer.Stop()

	if err := e.acquireLease(); err != nil {
		return nil, statusErr(err, text)
	}
	defer e.releaseLease()

	f, err := wire.Assert(e.Atoms, e.Templates, mod, e.Store, text, support, defaultFiller(e.Atoms))
	if err != nil {
		return nil, statusErr(fact.ErrCouldNotAssert, err.Error())
	}
	e.counters.asserts++
	return f, nil
}

// Retract removes f from working memory, refused while network
// propagation is in progress.
func (e *Environment) Retract(f *fact.Fact) error {
	if err := e.acquireLease(); err != nil {
		return statusErr(err, "retract")
	}
	defer e.releaseLease()

	e.Store.Retract(f)
	e.counters.retracts++
	return nil
}

// Facts returns every live fact in assertion order — facts().
func (e *Environment) Facts() []*fact.Fact { return e.Store.GlobalFacts() }

// FindIndexedFact implements find-indexed-fact.
func (e *Environment) FindIndexedFact(id uint64) (*fact.Fact, bool) { return e.Store.ByID(id) }

// GetFactSlot implements get-fact-slot.
func (e *Environment) GetFactSlot(f *fact.Fact, slot string) (fact.Value, bool) { return f.Slot(slot) }

// PutFactSlot implements put-fact-slot: modifies a single slot of an
// already-asserted fact through a one-shot Modifier.
func (e *Environment) PutFactSlot(f *fact.Fact, slot string, value fact.Value) (*fact.Fact, error) {
	m, err := fact.NewModifier(e.Atoms, f)
	if err != nil {
		return nil, statusErr(fact.ErrCouldNotModify, err.Error())
	}
	if err := m.PutSlot(slot, value); err != nil {
		return nil, statusErr(fact.ErrCouldNotModify, err.Error())
	}
	return e.ApplyModifier(m)
}

// NewFactBuilder starts a slot-by-slot assertion against tmpl.
func (e *Environment) NewFactBuilder(tmpl *template.Template) (*fact.Builder, error) {
	return fact.NewBuilder(e.Atoms, tmpl)
}

// AssertBuilder materializes a Builder's staged fact, refused while
// network propagation is in progress. On failure the builder is
// aborted so the caller never needs to remember to do so themselves.
func (e *Environment) AssertBuilder(b *fact.Builder, support fact.Support) (*fact.Fact, error) {
	if err := e.acquireLease(); err != nil {
		b.Abort()
		return nil, statusErr(err, "assert-fb")
	}
	defer e.releaseLease()

	f, err := b.AssertFB(e.Store, support, defaultFiller(e.Atoms))
	if err != nil {
		b.Abort()
		return nil, statusErr(fact.ErrCouldNotAssert, err.Error())
	}
	e.counters.asserts++
	return f, nil
}

// NewFactModifier starts a modify-fact protocol against f.
func (e *Environment) NewFactModifier(f *fact.Fact) (*fact.Modifier, error) {
	return fact.NewModifier(e.Atoms, f)
}

// ApplyModifier commits a Modifier's staged changes, refused while
// network propagation is in progress.
func (e *Environment) ApplyModifier(m *fact.Modifier) (*fact.Fact, error) {
	if err := e.acquireLease(); err != nil {
		return nil, statusErr(err, "modify-fm")
	}
	defer e.releaseLease()

	f, _, err := m.ModifyFM(e.Store)
	if err != nil {
		return nil, statusErr(fact.ErrCouldNotModify, err.Error())
	}
	e.counters.modifies++
	return f, nil
}

// SaveFacts implements save-facts.
func (e *Environment) SaveFacts(mod *template.Module, path string, scope wire.Scope, templates []*template.Template) error {
	return wire.SaveFacts(e.Store, e.Templates, mod, path, scope, templates)
}

// LoadFacts implements load-facts.
func (e *Environment) LoadFacts(mod *template.Module, path string) (int, error) {
	if err := e.acquireLease(); err != nil {
		return 0, statusErr(err, path)
	}
	defer e.releaseLease()

	n, err := wire.LoadFacts(e.Atoms, e.Templates, mod, e.Store, path, defaultFiller(e.Atoms))
	if err != nil {
		return n, fmt.Errorf("%w: %v", fact.ErrCouldNotAssert, err)
	}
	e.counters.asserts += int64(n)
	return n, nil
}
