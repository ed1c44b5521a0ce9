// Package query implements ad hoc predicate-driven fact enumeration —
// the Go analogue of CL_factqury.c's any-factp/find-fact/find-all-facts/
// do-for-all-facts. The expression evaluator that would normally build
// the predicate closures passed in here is out of scope (spec.md §1);
// this package only owns the enumeration contract.
package query

import "retenet/internal/fact"

// Predicate reports whether f satisfies some caller-defined condition.
type Predicate func(f *fact.Fact) bool

// AnyFact reports whether any fact in facts satisfies pred, short
// circuiting on the first match — any-factp.
func AnyFact(facts []*fact.Fact, pred Predicate) bool {
	for _, f := range facts {
		if pred(f) {
			return true
		}
	}
	return false
}

// FindFact returns the first fact in facts satisfying pred — find-fact.
func FindFact(facts []*fact.Fact, pred Predicate) (*fact.Fact, bool) {
	for _, f := range facts {
		if pred(f) {
			return f, true
		}
	}
	return nil, false
}

// FindAllFacts returns every fact in facts satisfying pred, preserving
// order — find-all-facts.
func FindAllFacts(facts []*fact.Fact, pred Predicate) []*fact.Fact {
	var out []*fact.Fact
	for _, f := range facts {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// DoForAllFacts calls action on every fact in facts satisfying pred, in
// order. action may return false to stop early — do-for-all-facts,
// generalized with a short-circuit return since Go has no implicit loop
// break communicated through a return-value convention worth copying.
func DoForAllFacts(facts []*fact.Fact, pred Predicate, action func(f *fact.Fact) bool) {
	for _, f := range facts {
		if pred == nil || pred(f) {
			if !action(f) {
				return
			}
		}
	}
}

// DoForFactsInTemplates enumerates the per-template fact lists in
// templates, in the order given, applying pred/action exactly as
// DoForAllFacts does within each list — do-for-fact's multi-template
// chain form.
func DoForFactsInTemplates(templateFacts [][]*fact.Fact, pred Predicate, action func(f *fact.Fact) bool) {
	for _, facts := range templateFacts {
		for _, f := range facts {
			if pred == nil || pred(f) {
				if !action(f) {
					return
				}
			}
		}
	}
}
