package env

import (
	"fmt"

	"retenet/internal/atomtab"
	"retenet/internal/fact"
	"retenet/internal/template"
)

// defaultFiller builds a fact.DefaultFiller bound to tab, implementing
// every template.DefaultPolicy: DefaultNone rejects the assertion (the
// caller left a required slot void), DefaultStatic copies the
// descriptor's fixed value, DefaultDynamic calls out to the slot's
// evaluator, and DefaultDerived synthesizes the minimal value
// satisfying the slot's shape (void atom for a scalar, an empty
// multifield for a multislot) rather than invent plausible business
// data — a real derived value would require the expression evaluator
// spec.md puts out of scope.
func defaultFiller(tab *atomtab.Table) fact.DefaultFiller {
	return func(slot *template.Slot) (fact.Value, error) {
		switch slot.Default {
		case template.DefaultStatic:
			if slot.Multi {
				return fact.MultiValue(slot.StaticMF.Copy()), nil
			}
			return fact.ScalarValue(slot.StaticDef), nil
		case template.DefaultDynamic:
			a, mf, err := slot.DynamicFn(slot)
			if err != nil {
				return fact.Value{}, err
			}
			if mf != nil {
				return fact.MultiValue(mf), nil
			}
			return fact.ScalarValue(a), nil
		case template.DefaultDerived:
			if slot.Multi {
				return fact.MultiValue(atomtab.NewMultifield(0)), nil
			}
			return fact.ScalarValue(tab.Void()), nil
		default:
			return fact.Value{}, fmt.Errorf("%w: slot %q has no default", fact.ErrNoDefault, slot.Name.Lexeme())
		}
	}
}
