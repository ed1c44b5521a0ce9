package wire

import (
	"fmt"
	"os"
	"strings"

	"retenet/internal/atomtab"
	"retenet/internal/fact"
	"retenet/internal/template"
)

// Scope selects which facts save-facts writes.
type Scope int

const (
	// ScopeLocal writes only facts of templates defined in mod itself.
	ScopeLocal Scope = iota
	// ScopeVisible writes facts of any template mod can see (itself plus
	// imports).
	ScopeVisible
)

// Render writes one fact literal line for f in the `(template-name
// slot-value …)` / `(template-name (slot-name value…)…)` grammar.
func Render(f *fact.Fact) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(f.Template.Name.Lexeme())
	if f.Template.Implied {
		mf := f.Slots[0].MF
		for i := 0; i < mf.Len(); i++ {
			b.WriteByte(' ')
			b.WriteString(mf.At(i).String())
		}
	} else {
		for i, slot := range f.Template.Slots {
			b.WriteString(" (")
			b.WriteString(slot.Name.Lexeme())
			v := f.Slots[i]
			if v.IsMulti() {
				for j := 0; j < v.MF.Len(); j++ {
					b.WriteByte(' ')
					b.WriteString(v.MF.At(j).String())
				}
			} else {
				b.WriteByte(' ')
				b.WriteString(v.Atom.String())
			}
			b.WriteByte(')')
		}
	}
	b.WriteByte(')')
	return b.String()
}

// SaveFacts writes one rendered fact literal per line to path, scoped to
// templates visible (or local, per scope) from mod. If templates is
// non-empty, only facts of those templates are written.
func SaveFacts(store *fact.Store, reg *template.Registry, mod *template.Module, path string, scope Scope, templates []*template.Template) error {
	visible := make(map[*template.Template]bool)
	if len(templates) > 0 {
		for _, t := range templates {
			visible[t] = true
		}
	} else if scope == ScopeLocal {
		for _, t := range reg.ListTemplates(mod) {
			if t.Module == mod {
				visible[t] = true
			}
		}
	} else {
		for _, t := range reg.ListTemplates(mod) {
			visible[t] = true
		}
	}

	var b strings.Builder
	for _, f := range store.GlobalFacts() {
		if !visible[f.Template] {
			continue
		}
		b.WriteString(Render(f))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// LoadFacts reads path and asserts every fact literal it contains, in
// order, against mod. It stops at the first parse or assertion error,
// returning the count of facts successfully asserted before the failure.
func LoadFacts(
	tab *atomtab.Table,
	reg *template.Registry,
	mod *template.Module,
	store *fact.Store,
	path string,
	defaultEval fact.DefaultFiller,
) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	literals, err := ParseLiterals(string(data))
	if err != nil {
		return 0, fmt.Errorf("wire: %s: %w", path, err)
	}
	for i, lit := range literals {
		if _, err := assertLiteral(tab, reg, mod, store, lit, nil, defaultEval); err != nil {
			return i, fmt.Errorf("wire: %s: fact %d: %w", path, i, err)
		}
	}
	return len(literals), nil
}
