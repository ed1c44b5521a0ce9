package mangle

import (
	"context"
	"fmt"

	"retenet/internal/fact"
	"retenet/internal/template"
)

// wmFactPredicate is the name under which the working-memory projector
// exposes facts to Datalog overlay rules.
const wmFactPredicate = "wm_fact"

// WMFactSchema is the Decl statement a host must load (alongside its own
// overlay rules) before LoadProjectedFacts can insert anything — it
// matches the arity and argument types NewAtomValidator already expects
// for wm_fact.
const WMFactSchema = `Decl wm_fact(Template.Type<name>, Slot.Type<name>, Value.Type<string>).`

// ProjectFacts flattens every live fact visible from mod into one
// wm_fact row per named slot: (/TemplateName, /SlotName, stringified
// value). An implied fact (single anonymous multifield slot) projects
// under the slot name /implied, mirroring Fact.Slot's lookup fallback
// for implied templates.
func ProjectFacts(store *fact.Store, reg *template.Registry, mod *template.Module) []Fact {
	var out []Fact
	for _, tmpl := range reg.ListTemplates(mod) {
		name := tmpl.Name.Lexeme()
		for _, f := range store.TemplateFacts(tmpl) {
			if tmpl.Implied {
				out = append(out, wmRow(name, "implied", f.Slots[0]))
				continue
			}
			for i, slot := range tmpl.Slots {
				out = append(out, wmRow(name, slot.Name.Lexeme(), f.Slots[i]))
			}
		}
	}
	return out
}

func wmRow(templateName, slotName string, v fact.Value) Fact {
	return Fact{
		Predicate: wmFactPredicate,
		Args:      []interface{}{"/" + templateName, "/" + slotName, v.String()},
	}
}

// LoadProjectedFacts replaces e's fact store with a fresh projection of
// store as seen from mod, giving overlay rules a consistent snapshot view
// of working memory as of the call. The engine must already have a
// schema loaded that declares wm_fact (see WMFactSchema) along with any
// overlay rules derived from it.
func (e *Engine) LoadProjectedFacts(ctx context.Context, store *fact.Store, reg *template.Registry, mod *template.Module) error {
	e.mu.RLock()
	ready := e.programInfo != nil
	e.mu.RUnlock()
	if !ready {
		return fmt.Errorf("no schemas loaded; call LoadSchema before LoadProjectedFacts")
	}

	e.Clear()
	return e.AddFactsContext(ctx, ProjectFacts(store, reg, mod))
}
