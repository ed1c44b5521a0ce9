package wire

import (
	"fmt"

	"retenet/internal/atomtab"
	"retenet/internal/fact"
	"retenet/internal/template"
)

// intern resolves a parsed atom literal against tab, choosing the intern
// table by the literal's lexical kind.
func intern(tab *atomtab.Table, lit atomLit) *atomtab.Atom {
	switch lit.kind {
	case atomString:
		return tab.InternString(lit.text)
	case atomInteger:
		return tab.InternInteger(lit.i)
	case atomFloat:
		return tab.InternFloat(lit.f)
	default:
		return tab.InternSymbol(lit.text)
	}
}

// valueOf builds a fact.Value from a parsed field list: a single value
// becomes a scalar, more than one becomes a multifield. Slot/constraint
// validation (whether the target slot actually accepts that shape)
// happens downstream in fact.Builder.PutSlot or fact.AssertImplied.
func valueOf(tab *atomtab.Table, lits []atomLit) fact.Value {
	if len(lits) == 1 {
		return fact.ScalarValue(intern(tab, lits[0]))
	}
	atoms := make([]*atomtab.Atom, len(lits))
	for i, lit := range lits {
		atoms[i] = intern(tab, lit)
	}
	return fact.MultiValue(atomtab.MultifieldOf(atoms...))
}

// Assert parses text as a single fact literal and asserts it into store,
// defining an implied template on the fly if the named template does
// not already exist and the literal uses the plain-value (not
// slot-grouped) form. It is the implementation behind assert-string.
func Assert(
	tab *atomtab.Table,
	reg *template.Registry,
	mod *template.Module,
	store *fact.Store,
	text string,
	support fact.Support,
	defaultEval fact.DefaultFiller,
) (*fact.Fact, error) {
	lit, err := ParseLiteral(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fact.ErrCouldNotAssert, err)
	}
	return assertLiteral(tab, reg, mod, store, lit, support, defaultEval)
}

func assertLiteral(
	tab *atomtab.Table,
	reg *template.Registry,
	mod *template.Module,
	store *fact.Store,
	lit Literal,
	support fact.Support,
	defaultEval fact.DefaultFiller,
) (*fact.Fact, error) {
	tmpl, ok := reg.FindTemplate(mod, lit.Template)

	if lit.Implied {
		if !ok {
			var err error
			tmpl, err = reg.DefineTemplate(mod, tab.InternSymbol(lit.Template), true, nil)
			if err != nil {
				return nil, err
			}
		} else if !tmpl.Implied {
			return nil, fmt.Errorf("%w: %q is an explicit template, fact literal used plain-value form", fact.ErrCouldNotAssert, lit.Template)
		}
		atoms := make([]*atomtab.Atom, len(lit.Values))
		for i, v := range lit.Values {
			atoms[i] = intern(tab, v)
		}
		value := fact.MultiValue(atomtab.MultifieldOf(atoms...))
		return fact.AssertImplied(store, tmpl, value, support)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %q", fact.ErrTemplateNotFound, lit.Template)
	}
	if tmpl.Implied {
		return nil, fmt.Errorf("%w: %q is an implied template, fact literal used slot-grouped form", fact.ErrCouldNotAssert, lit.Template)
	}

	b, err := fact.NewBuilder(tab, tmpl)
	if err != nil {
		return nil, err
	}
	for _, slot := range lit.Slots {
		if err := b.PutSlot(slot.name, valueOf(tab, slot.values)); err != nil {
			b.Abort()
			return nil, err
		}
	}
	f, err := b.AssertFB(store, support, defaultEval)
	if err != nil {
		b.Abort()
		return nil, err
	}
	return f, nil
}
