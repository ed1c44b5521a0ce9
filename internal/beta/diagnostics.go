package beta

// DefaultOversizeThreshold is the entry count above which a join's
// memory is flagged by the diagnostic traversal. This is an
// observability hook, not a correctness constraint — oversize memories
// still function correctly, just slower.
const DefaultOversizeThreshold = 10000

// LeftSize returns the total number of partial matches held across
// every left-memory bucket.
func (j *JoinNode) LeftSize() int {
	n := 0
	for _, bucket := range j.leftBuckets {
		n += len(bucket)
	}
	return n
}

// RightSize returns the number of facts in this join's right alpha
// memory.
func (j *JoinNode) RightSize() int { return j.right.Len() }

// Network tracks every join compiled into the beta network, purely for
// the diagnostic traversal (show-fpn-style introspection, oversize
// memory reporting); it plays no role in activation/deactivation, which
// flows entirely through Successor/alpha.Observer wiring.
type Network struct {
	joins []*JoinNode
}

// NewNetwork constructs an empty diagnostic registry.
func NewNetwork() *Network { return &Network{} }

// Register records j so it appears in diagnostic traversals.
func (n *Network) Register(j *JoinNode) { n.joins = append(n.joins, j) }

// Joins returns every registered join.
func (n *Network) Joins() []*JoinNode { return n.joins }

// OversizeEntry reports a join whose left or right memory exceeds a
// threshold.
type OversizeEntry struct {
	Join      *JoinNode
	LeftSize  int
	RightSize int
}

// Oversize returns every registered join whose left or right memory
// exceeds threshold.
func (n *Network) Oversize(threshold int) []OversizeEntry {
	var out []OversizeEntry
	for _, j := range n.joins {
		l, r := j.LeftSize(), j.RightSize()
		if l > threshold || r > threshold {
			out = append(out, OversizeEntry{Join: j, LeftSize: l, RightSize: r})
		}
	}
	return out
}
