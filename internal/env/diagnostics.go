package env

import (
	"fmt"

	"retenet/internal/logging"
	"retenet/internal/template"
)

// ShowFPN implements show-fpn: one line per terminal path through
// tmpl's discrimination trie, reporting how many field tests it took
// to reach the terminal memory and how many facts currently sit there.
func (e *Environment) ShowFPN(tmpl *template.Template) []string {
	paths := e.Alpha.Describe(tmpl)
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = fmt.Sprintf("%s: depth=%d facts=%d", tmpl.Name.Lexeme(), p.Depth, p.MemorySize)
	}
	return out
}

// ShowFHT implements show-fht: the fact hash table's bucket occupancy,
// one entry per bucket in bucket order.
func (e *Environment) ShowFHT() []int { return e.Store.BucketOccupancy() }

// ValidateFactIntegrity walks every fact on the global list and reports
// a fact marked garbage (I2), a negative busy-count (I3), and a non-void
// slot value whose reference count is below one (I4), returning every
// violation found rather than panicking —
// the relaxation from spec.md's "abort the process" recorded in
// DESIGN.md. An empty result means none of these checks failed; list
// and hash-bucket membership are not checked.
func (e *Environment) ValidateFactIntegrity() []IntegrityError {
	var violations []IntegrityError
	for _, f := range e.Facts() {
		if f.Garbage() {
			violations = append(violations, IntegrityError{Invariant: "I2", Detail: fmt.Sprintf("fact %d reachable from global list but marked garbage", f.ID)})
		}
		if f.BusyCount() < 0 {
			violations = append(violations, IntegrityError{Invariant: "I3", Detail: fmt.Sprintf("fact %d has negative busy-count %d", f.ID, f.BusyCount())})
		}
		for i, v := range f.Slots {
			if v.IsVoid() {
				continue
			}
			refs := int64(1)
			if v.IsMulti() {
				refs = int64(v.MF.BusyCount())
			} else {
				refs = v.Atom.RefCount()
			}
			if refs < 1 {
				violations = append(violations, IntegrityError{Invariant: "I4", Detail: fmt.Sprintf("fact %d slot %d holds a value with refcount %d", f.ID, i, refs)})
			}
		}
	}
	if len(violations) > 0 {
		logging.Get(logging.CategoryIntegrity).Error("fact integrity violations found", "count", len(violations))
	}
	return violations
}

// PrimitivesInfo reports the operation counters tracked since
// construction — the Go analogue of CL_proflfun.c's basic profile.
type PrimitivesInfo struct {
	Asserts, Retracts, Modifies int64
}

// PrimitivesInfo implements primitives-info.
func (e *Environment) PrimitivesInfo() PrimitivesInfo {
	return PrimitivesInfo{
		Asserts:  e.counters.asserts,
		Retracts: e.counters.retracts,
		Modifies: e.counters.modifies,
	}
}

// PrimitivesUsage implements primitives-usage: the same counters
// rendered as a flat string slice for a CLI/TUI listing.
func (e *Environment) PrimitivesUsage() []string {
	info := e.PrimitivesInfo()
	return []string{
		fmt.Sprintf("assert: %d", info.Asserts),
		fmt.Sprintf("retract: %d", info.Retracts),
		fmt.Sprintf("modify: %d", info.Modifies),
	}
}
