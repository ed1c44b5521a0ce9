// Package logical implements logical-dependency truth maintenance: a
// fact asserted under logical support from a rule's partial match is
// retracted once that match is withdrawn and no other support remains.
package logical

import (
	"retenet/internal/beta"
	"retenet/internal/fact"
)

// Support records that a specific partial match justifies a fact's
// existence. It implements fact.Support so a Fact can list its
// supporters without the fact package importing beta or logical.
type Support struct {
	Match *beta.Match
}

// NewSupport wraps m as a logical support.
func NewSupport(m *beta.Match) *Support { return &Support{Match: m} }

// Facts implements fact.Support.
func (s *Support) Facts() []*fact.Fact { return s.Match.Facts }
