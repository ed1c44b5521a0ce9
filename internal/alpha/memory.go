package alpha

import "retenet/internal/fact"

// Observer is implemented by the beta network so an alpha memory can
// notify every join reading it without this package importing beta.
type Observer interface {
	AlphaFactAdded(mem *Memory, f *fact.Fact)
	AlphaFactRemoved(mem *Memory, f *fact.Fact)
}

// Selector computes a right-hash key for a fact entering a hashed alpha
// memory, so a join that knows its right-hash value can probe a single
// bucket instead of scanning the whole memory. A nil Selector means the
// memory is linear (a single bucket keyed 0).
type Selector func(f *fact.Fact) (uint64, bool)

// Memory is an alpha memory: the terminal collection of facts admitted
// by one path through a template's discrimination trie.
type Memory struct {
	selector  Selector
	buckets   map[uint64][]*fact.Fact
	keyOf     map[*fact.Fact]uint64
	observers []Observer
}

// NewMemory constructs an alpha memory. selector may be nil for a
// linear (unhashed) memory.
func NewMemory(selector Selector) *Memory {
	return &Memory{
		selector: selector,
		buckets:  make(map[uint64][]*fact.Fact),
		keyOf:    make(map[*fact.Fact]uint64),
	}
}

// AddObserver registers a join to be notified of admissions/removals.
func (m *Memory) AddObserver(o Observer) { m.observers = append(m.observers, o) }

// Hashed reports whether this memory partitions by a selector.
func (m *Memory) Hashed() bool { return m.selector != nil }

func (m *Memory) keyFor(f *fact.Fact) uint64 {
	if m.selector == nil {
		return 0
	}
	k, ok := m.selector(f)
	if !ok {
		return 0
	}
	return k
}

// Contains reports whether f currently belongs to this memory.
func (m *Memory) Contains(f *fact.Fact) bool {
	_, ok := m.keyOf[f]
	return ok
}

// Len returns the number of facts currently held.
func (m *Memory) Len() int { return len(m.keyOf) }

// Bucket returns the facts sharing the given right-hash key. For a
// linear memory, key is always 0.
func (m *Memory) Bucket(key uint64) []*fact.Fact { return m.buckets[key] }

// All returns every fact currently held, across all buckets.
func (m *Memory) All() []*fact.Fact {
	out := make([]*fact.Fact, 0, len(m.keyOf))
	for _, bucket := range m.buckets {
		out = append(out, bucket...)
	}
	return out
}

func (m *Memory) insert(f *fact.Fact) {
	if m.Contains(f) {
		return
	}
	k := m.keyFor(f)
	m.buckets[k] = append(m.buckets[k], f)
	m.keyOf[f] = k
	f.MatchList = append(f.MatchList, m)
	for _, o := range m.observers {
		o.AlphaFactAdded(m, f)
	}
}

func (m *Memory) remove(f *fact.Fact) {
	k, ok := m.keyOf[f]
	if !ok {
		return
	}
	bucket := m.buckets[k]
	for i, g := range bucket {
		if g == f {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(m.buckets, k)
	} else {
		m.buckets[k] = bucket
	}
	delete(m.keyOf, f)
	removeMatchListEntry(f, m)
	for _, o := range m.observers {
		o.AlphaFactRemoved(m, f)
	}
}

// RemoveFact implements fact.MatchListEntry: retraction walks a fact's
// match list and asks each alpha memory holding it to remove it and
// notify downstream joins.
func (m *Memory) RemoveFact(f *fact.Fact) { m.remove(f) }

func removeMatchListEntry(f *fact.Fact, entry fact.MatchListEntry) {
	list := f.MatchList
	for i, e := range list {
		if e == entry {
			list[i] = list[len(list)-1]
			f.MatchList = list[:len(list)-1]
			return
		}
	}
}
