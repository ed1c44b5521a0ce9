package beta

import (
	"retenet/internal/alpha"
	"retenet/internal/fact"
)

// Predicate tests whether f may join with the bindings already present
// in left.
type Predicate func(left *Match, f *fact.Fact) bool

// LeftHash and RightHash compute a join's hash key from, respectively,
// a partial match and a candidate fact. When both are set the join
// consults only the matching bucket instead of scanning every left
// match or the whole right memory; when either is nil the join falls
// back to a full scan on that side.
type LeftHash func(m *Match) (uint64, bool)
type RightHash func(f *fact.Fact) (uint64, bool)

type emission struct {
	left *Match
	fact *fact.Fact
	out  *Match
}

// JoinNode combines a stream of left partial matches with the facts of
// a right alpha memory. It is itself a Successor (so join chains can be
// built by feeding one join's output as the next join's left input) and
// an alpha.Observer (so it reacts to facts entering/leaving its right
// memory directly, without the alpha network knowing about beta).
//
// Join-from-right against another beta memory (CLIPS's and/or/not
// subnetwork compilation strategy) is out of scope here: every join in
// this package reads its right input from an alpha.Memory. Multi-pattern
// rules are still expressed by chaining JoinNodes left-to-right, which
// is the common case and the one the core's join semantics describe.
type JoinNode struct {
	right     *alpha.Memory
	predicate Predicate
	leftHash  LeftHash
	rightHash RightHash

	leftBuckets map[uint64][]*Match
	successors  []Successor
	emissions   []emission
}

// NewJoin constructs a join reading right as its right input. It
// registers itself as an observer of right so alpha activations drive
// this join without a polling loop.
func NewJoin(right *alpha.Memory, predicate Predicate, leftHash LeftHash, rightHash RightHash) *JoinNode {
	j := &JoinNode{
		right:       right,
		predicate:   predicate,
		leftHash:    leftHash,
		rightHash:   rightHash,
		leftBuckets: make(map[uint64][]*Match),
	}
	right.AddObserver(j)
	return j
}

// AddSuccessor registers a downstream join or rule terminal.
func (j *JoinNode) AddSuccessor(s Successor) { j.successors = append(j.successors, s) }

// Seed feeds Root into this join, used only for the first join in a
// rule's pattern chain.
func (j *JoinNode) Seed() { j.LeftActivate(Root) }

func (j *JoinNode) leftKey(m *Match) uint64 {
	if j.leftHash == nil {
		return 0
	}
	k, ok := j.leftHash(m)
	if !ok {
		return 0
	}
	return k
}

// candidateFacts returns the facts to test against m: the matching
// right-hash bucket when both a right selector and a left hash
// expression are present, or the whole right memory otherwise.
func (j *JoinNode) candidateFacts(m *Match) []*fact.Fact {
	if j.leftHash != nil && j.right.Hashed() {
		if k, ok := j.leftHash(m); ok {
			return j.right.Bucket(k)
		}
	}
	return j.right.All()
}

// LeftActivate implements Successor: a new partial match enters from
// the left, tested against every currently-held right fact.
func (j *JoinNode) LeftActivate(m *Match) {
	key := j.leftKey(m)
	j.leftBuckets[key] = append(j.leftBuckets[key], m)
	for _, f := range j.candidateFacts(m) {
		j.tryJoin(m, f)
	}
}

// LeftDeactivate implements Successor: a partial match is withdrawn,
// along with every match this join emitted from it.
func (j *JoinNode) LeftDeactivate(m *Match) {
	key := j.leftKey(m)
	bucket := j.leftBuckets[key]
	for i, g := range bucket {
		if g == m {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(j.leftBuckets, key)
	} else {
		j.leftBuckets[key] = bucket
	}

	kept := j.emissions[:0]
	for _, e := range j.emissions {
		if e.left == m {
			j.notifyDeactivate(e.out)
		} else {
			kept = append(kept, e)
		}
	}
	j.emissions = kept
}

// AlphaFactAdded implements alpha.Observer: the right activation.
func (j *JoinNode) AlphaFactAdded(mem *alpha.Memory, f *fact.Fact) {
	for _, m := range j.allLeft(f) {
		j.tryJoin(m, f)
	}
}

// AlphaFactRemoved implements alpha.Observer: withdraws every emission
// this join produced for f.
func (j *JoinNode) AlphaFactRemoved(mem *alpha.Memory, f *fact.Fact) {
	kept := j.emissions[:0]
	for _, e := range j.emissions {
		if e.fact == f {
			j.notifyDeactivate(e.out)
		} else {
			kept = append(kept, e)
		}
	}
	j.emissions = kept
}

func (j *JoinNode) allLeft(f *fact.Fact) []*Match {
	if j.rightHash != nil && j.leftHash != nil {
		if k, ok := j.rightHash(f); ok {
			if bucket, ok := j.leftBuckets[k]; ok {
				return bucket
			}
			return nil
		}
	}
	var out []*Match
	for _, bucket := range j.leftBuckets {
		out = append(out, bucket...)
	}
	return out
}

func (j *JoinNode) tryJoin(m *Match, f *fact.Fact) {
	if !j.predicate(m, f) {
		return
	}
	out := m.extend(f)
	j.emissions = append(j.emissions, emission{left: m, fact: f, out: out})
	for _, s := range j.successors {
		s.LeftActivate(out)
	}
}

func (j *JoinNode) notifyDeactivate(out *Match) {
	for _, s := range j.successors {
		s.LeftDeactivate(out)
	}
}
