// Package env implements the "current environment" spec.md §9 asks
// for as an explicit value rather than package-level globals: it owns
// the atom table, template registry, fact store, alpha/beta networks,
// logical-dependency court, and garbage queue, and exposes every core
// operation as a method taking no hidden state. Unlike the teacher's
// RealKernel, Environment carries no internal mutex: spec.md §5 is
// explicit that the engine is strictly single-threaded and not safe to
// share across goroutines, so the only concurrency-control primitive
// here is the join-operation-in-progress lease (a plain bool, not a
// lock — see errors.go).
package env

import (
	"time"

	"retenet/internal/alpha"
	"retenet/internal/atomtab"
	"retenet/internal/beta"
	"retenet/internal/fact"
	"retenet/internal/gc"
	"retenet/internal/logging"
	"retenet/internal/logical"
	"retenet/internal/template"
)

// Environment owns every piece of mutable state a retenet process
// needs and is the sole entry point through which callers touch it.
type Environment struct {
	Atoms     *atomtab.Table
	Templates *template.Registry
	Store     *fact.Store
	Alpha     *alpha.Network
	Beta      *beta.Network // diagnostic join registry, see beta.Network
	Court     *logical.Court
	GC        *gc.Queue
	gcRunner  *gc.Runner

	leaseHeld bool
	halted    bool

	counters counters
}

// counters backs primitives-info/primitives-usage (CL_proflfun.c's Go
// analogue): simple per-operation tallies, not a sampling profiler.
type counters struct {
	asserts, retracts, modifies int64
}

// New constructs an Environment with an empty MAIN module and wires
// Store's assert/retract/modify hooks through to the alpha network,
// the garbage queue, and a fresh logical.Court.
func New() *Environment {
	store := fact.NewStore()
	e := &Environment{
		Atoms:     atomtab.NewTable(),
		Templates: template.NewRegistry(),
		Store:     store,
		Alpha:     alpha.NewNetwork(),
		Beta:      beta.NewNetwork(),
	}
	e.Court = logical.NewCourt(store)
	e.GC = gc.NewQueue(store)
	e.GC.InProgress = func() bool { return e.leaseHeld }

	store.OnAssert = func(f *fact.Fact) {
		e.Alpha.Assert(f)
		logging.Get(logging.CategoryAssert).Debug("fact asserted", "id", f.ID, "template", f.Template.Name.Lexeme())
	}
	store.OnRetract = func(f *fact.Fact) {
		e.Alpha.Retract(f)
		e.GC.Enqueue(f)
		logging.Get(logging.CategoryRetract).Debug("fact retracted", "id", f.ID, "template", f.Template.Name.Lexeme())
	}
	store.OnModify = func(f *fact.Fact, changed []int) {
		e.Alpha.Modify(f, changed)
		logging.Get(logging.CategoryModify).Debug("fact modified", "id", f.ID, "changed_slots", changed)
	}
	return e
}

// MainModule returns (creating if needed) the MAIN module, the
// default namespace new templates and asserts resolve against.
func (e *Environment) MainModule() *template.Module { return e.Templates.Module("MAIN") }

// StartGC launches the periodic sweep at the given interval (zero
// uses gc.DefaultInterval). Calling it twice without StopGC is a
// no-op, matching gc.Runner.Start.
func (e *Environment) StartGC(interval time.Duration) {
	if e.gcRunner == nil {
		e.gcRunner = gc.NewRunner(e.GC, interval)
	}
	e.gcRunner.Start()
}

// StopGC halts the periodic sweep, if running.
func (e *Environment) StopGC() {
	if e.gcRunner != nil {
		e.gcRunner.Stop()
	}
}

// acquireLease raises the join-operation-in-progress guard, or fails
// with ErrJoinInProgress if it is already held.
func (e *Environment) acquireLease() error {
	if e.leaseHeld {
		return ErrJoinInProgress
	}
	e.leaseHeld = true
	return nil
}

func (e *Environment) releaseLease() { e.leaseHeld = false }

// Halt sets the cooperative halt-execution flag. Nothing in this package
// consults it: Facts and the other listing operations run to completion
// whether or not it is set, and Halted only reports its value.
func (e *Environment) Halt()        { e.halted = true }
func (e *Environment) Resume()      { e.halted = false }
func (e *Environment) Halted() bool { return e.halted }
