// Package store keeps recovered cache entries keyed by entry hash.
//
// Several records may carry the same hash, so each key holds a chain of
// entries. Iteration follows insertion order; Hashes returns the keys in
// ascending order. Adding an entry attaches it to its SharedInfo and
// removing it detaches it again.
package store

import (
	"slices"
	"sync"

	"github.com/joshuapare/thumbkit/pkg/types"
)

// Store is safe for concurrent readers; writers are expected to be
// serialized by the caller but are also guarded here.
type Store struct {
	mu     sync.RWMutex
	chains map[uint64][]*types.Entry
	order  []*types.Entry
}

// New returns an empty store.
func New() *Store {
	return &Store{chains: make(map[uint64][]*types.Entry)}
}

// Add inserts e at the end of its hash chain.
func (s *Store) Add(e *types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(e)
}

// AddAll inserts entries in order.
func (s *Store) AddAll(entries []*types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.addLocked(e)
	}
}

func (s *Store) addLocked(e *types.Entry) {
	s.chains[e.Hash] = append(s.chains[e.Hash], e)
	s.order = append(s.order, e)
	if e.Shared != nil {
		e.Shared.Acquire()
	}
}

// AddFirst inserts e only when no entry with its hash exists yet and
// reports whether it was inserted.
func (s *Store) AddFirst(e *types.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chains[e.Hash]) > 0 {
		return false
	}
	s.addLocked(e)
	return true
}

// Lookup returns the chain for hash. The slice is a copy.
func (s *Store) Lookup(hash uint64) []*types.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chains[hash])
}

// Has reports whether any entry carries hash.
func (s *Store) Has(hash uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chains[hash]) > 0
}

// Len returns the number of entries, counting every chain member.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Entries returns every entry in insertion order.
func (s *Store) Entries() []*types.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Hashes returns the distinct keys in ascending order.
func (s *Store) Hashes() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]uint64, 0, len(s.chains))
	for k := range s.chains {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Versions returns the distinct database versions present.
func (s *Store) Versions() []types.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Version
	for _, e := range s.order {
		if v := e.Version(); v != 0 && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Rename sets the filename of every entry chained under hash and returns
// how many were renamed.
func (s *Store) Rename(hash uint64, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.chains[hash]
	for _, e := range chain {
		e.Filename = name
	}
	return len(chain)
}

// SetExtended replaces the extended information of every entry under hash.
func (s *Store) SetExtended(hash uint64, info []types.ExtendedInfo) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.chains[hash]
	for _, e := range chain {
		e.Extended = slices.Clone(info)
	}
	return len(chain)
}

// Remove deletes the given entries. Entries not in the store are ignored.
// It returns how many were removed.
func (s *Store) Remove(entries ...*types.Entry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[*types.Entry]struct{}, len(entries))
	for _, e := range entries {
		drop[e] = struct{}{}
	}

	removed := 0
	s.order = slices.DeleteFunc(s.order, func(e *types.Entry) bool {
		if _, ok := drop[e]; !ok {
			return false
		}
		removed++
		s.unchain(e)
		if e.Shared != nil {
			e.Shared.Release()
		}
		return true
	})
	return removed
}

func (s *Store) unchain(e *types.Entry) {
	chain := slices.DeleteFunc(s.chains[e.Hash], func(x *types.Entry) bool { return x == e })
	if len(chain) == 0 {
		delete(s.chains, e.Hash)
		return
	}
	s.chains[e.Hash] = chain
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.order {
		if e.Shared != nil {
			e.Shared.Release()
		}
	}
	s.chains = make(map[uint64][]*types.Entry)
	s.order = nil
}
