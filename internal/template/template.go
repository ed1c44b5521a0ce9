package template

import (
	"fmt"
	"sync/atomic"

	"retenet/internal/atomtab"
)

// Module is a namespace that owns templates and may import others. The
// module/namespace system proper (resolution rules, visibility grammar)
// is an external collaborator; the core only needs enough of
// it to group templates and to let find-template search imports.
type Module struct {
	Name    string
	Imports []*Module
}

// sees reports whether m can resolve names defined in other, following
// imports transitively (cycles tolerated via visited set).
func (m *Module) sees(other *Module, visited map[*Module]bool) bool {
	if m == other {
		return true
	}
	if visited[m] {
		return false
	}
	visited[m] = true
	for _, imp := range m.Imports {
		if imp.sees(other, visited) {
			return true
		}
	}
	return false
}

// Template is the named, module-scoped schema naming a fact's relation.
// Runtime associations that would otherwise create import cycles — the
// per-template fact list (owned by internal/fact.Store) and
// the alpha-network root (owned by internal/alpha.Network) — are kept as
// side-tables in those packages, keyed by *Template, rather than as
// fields here; this Template is pure schema plus lifecycle bookkeeping.
type Template struct {
	ID      uint64
	Name    *atomtab.Atom
	Module  *Module
	Implied bool
	Slots   []*Slot

	busy int64
}

// NumberOfSlots returns len(Slots), or 1 for an implied template.
func (t *Template) NumberOfSlots() int {
	if t.Implied {
		return 1
	}
	return len(t.Slots)
}

// SlotIndex returns the descriptor and 0-based position of the named
// slot, and whether it exists.
func (t *Template) SlotIndex(name string) (*Slot, int, bool) {
	for i, s := range t.Slots {
		if s.Name.Lexeme() == name {
			return s, i, true
		}
	}
	return nil, -1, false
}

// Retain/Release track external holders (rules, builders) preventing
// deletion while busy.
func (t *Template) Retain()   { atomic.AddInt64(&t.busy, 1) }
func (t *Template) Release()  { atomic.AddInt64(&t.busy, -1) }
func (t *Template) Busy() int64 { return atomic.LoadInt64(&t.busy) }

// Registry is the template registry: named schemas grouped
// by module, with find-template import resolution.
type Registry struct {
	byModule map[*Module]map[string]*Template
	modules  map[string]*Module
	nextID   uint64
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byModule: make(map[*Module]map[string]*Template),
		modules:  make(map[string]*Module),
	}
}

// Module returns the named module, creating it if it does not exist yet.
func (r *Registry) Module(name string) *Module {
	if m, ok := r.modules[name]; ok {
		return m
	}
	m := &Module{Name: name}
	r.modules[name] = m
	r.byModule[m] = make(map[string]*Template)
	return m
}

// DefineTemplate installs a new template in the given module. It returns
// an error if a template of that name already exists in the module.
func (r *Registry) DefineTemplate(mod *Module, name *atomtab.Atom, implied bool, slots []*Slot) (*Template, error) {
	if _, ok := r.byModule[mod][name.Lexeme()]; ok {
		return nil, fmt.Errorf("template %s::%s already defined", mod.Name, name.Lexeme())
	}
	r.nextID++
	tmpl := &Template{ID: r.nextID, Name: name, Module: mod, Implied: implied, Slots: slots}
	r.byModule[mod][name.Lexeme()] = tmpl
	return tmpl, nil
}

// FindTemplate searches the current module plus its imports.
func (r *Registry) FindTemplate(from *Module, name string) (*Template, bool) {
	visited := make(map[*Module]bool)
	return r.find(from, name, visited)
}

func (r *Registry) find(from *Module, name string, visited map[*Module]bool) (*Template, bool) {
	if visited[from] {
		return nil, false
	}
	visited[from] = true
	if t, ok := r.byModule[from][name]; ok {
		return t, true
	}
	for _, imp := range from.Imports {
		if t, ok := r.find(imp, name, visited); ok {
			return t, true
		}
	}
	return nil, false
}

// ListTemplates returns every template visible from mod (itself plus
// imports), deduplicated.
func (r *Registry) ListTemplates(mod *Module) []*Template {
	seen := make(map[*Template]bool)
	var out []*Template
	var walk func(*Module, map[*Module]bool)
	walk = func(m *Module, visited map[*Module]bool) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, t := range r.byModule[m] {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
		for _, imp := range m.Imports {
			walk(imp, visited)
		}
	}
	walk(mod, make(map[*Module]bool))
	return out
}

// DeleteTemplate removes tmpl from the registry. It fails unless the
// template's busy count is zero and its alpha network is empty — the
// latter is reported by the caller (internal/alpha), since Registry does
// not reference alpha nodes (see the Template doc comment above).
func (r *Registry) DeleteTemplate(tmpl *Template, alphaEmpty bool) error {
	if tmpl.Busy() != 0 {
		return fmt.Errorf("template %s busy (refcount %d)", tmpl.Name.Lexeme(), tmpl.Busy())
	}
	if !alphaEmpty {
		return fmt.Errorf("template %s still has an alpha network", tmpl.Name.Lexeme())
	}
	delete(r.byModule[tmpl.Module], tmpl.Name.Lexeme())
	return nil
}
