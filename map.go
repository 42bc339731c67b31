// Copyright 2025 The Probekit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package probekit provides open-addressing hash maps and sets, ordered
// (insertion-order preserving) variants, zero-sentinel tables specialized for
// integer keys, a growable ring-buffer deque, and an array-backed binary heap
// with O(log n) arbitrary removal.
//
// # Probing
//
// The maps and sets in this package resolve collisions with linear probing
// over a power-of-two table. A key's home slot is computed by multiplying its
// 64-bit hash by a per-table odd multiplier and keeping the top bits
// (Fibonacci-style hashing), which spreads low-quality hash codes far better
// than masking the low bits would. Lookup scans forward from the home slot,
// wrapping via a mask, until it finds the key or an empty slot.
//
// Deletion uses backward-shift rather than tombstones: when a slot is freed,
// subsequent entries in the same probe cluster are shifted back into the gap
// if their home slot lies at or behind it. The table therefore never
// accumulates deleted markers and lookups never slow down after heavy
// put/delete churn, at the cost of slightly more work per deletion.
//
// On every resize the table rotates its hash multiplier to a new value drawn
// deterministically from a curated table of well-distributing odd constants.
// An input set engineered to collide under one multiplier decorrelates from
// the next generation, while resizes stay reproducible for a given operation
// sequence.
//
// # Comparison strategies
//
// Placement and key matching go through a Hasher, a pluggable pair of hash
// and equality functions. New uses the runtime's hash for comparable keys;
// NewFunc accepts any Hasher, including the case-insensitive and filtered
// string strategies in this package. See the Hasher documentation for the
// contract a strategy must satisfy.
//
// # Iteration
//
// Every container supports push-style iteration via All and pull-style
// iteration via reusable iterator objects. Acquiring a container's pooled
// iterator invalidates the previously issued one; see Map.Iterator.
//
// None of the types in this package are goroutine-safe. Concurrent mutation
// requires external synchronization.
package probekit

import (
	"fmt"
	"hash/maphash"
	"math/bits"
	"strings"
)

const debug = false

const (
	minCapacity = 4
	maxCapacity = 1 << 30

	defaultLoadFactor = 0.8

	// The multiplier used by a freshly constructed table. Resizes rotate it
	// through the goodMultipliers table.
	initialHashMultiplier = 0xD1B54A32D192ED03
)

// tableSizeFor returns the backing array length for the requested capacity:
// the next power of two, at least minCapacity. It panics if capacity is
// negative or would require a table larger than maxCapacity.
func tableSizeFor(capacity int) int {
	if capacity < 0 {
		panic(fmt.Sprintf("probekit: invalid capacity %d", capacity))
	}
	n := minCapacity
	for n < capacity {
		n <<= 1
		if n > maxCapacity {
			panic(fmt.Sprintf("probekit: capacity %d exceeds maximum table size %d", capacity, maxCapacity))
		}
	}
	return n
}

// thresholdFor returns the occupancy at which a table of the given capacity
// resizes. The threshold is clamped below capacity so that at least one slot
// is always empty; probe loops rely on that to terminate.
func thresholdFor(capacity int, loadFactor float64) int {
	t := int(float64(capacity) * loadFactor)
	if t >= capacity {
		t = capacity - 1
	}
	if t < 1 {
		t = 1
	}
	return t
}

func checkLoadFactor(loadFactor float64) {
	if !(loadFactor > 0 && loadFactor <= 1) {
		panic(fmt.Sprintf("probekit: load factor %v not in (0, 1]", loadFactor))
	}
}

// Map is an unordered map from keys to values with Put, Get, Delete, and All
// operations, built on linear probing with backward-shift deletion. The zero
// value of a Map is not usable; construct one with New or NewFunc.
//
// A Map is NOT goroutine-safe.
type Map[K, V any] struct {
	// hasher supplies the hash and equivalence relation for keys. Never nil.
	hasher Hasher[K]
	seed   maphash.Seed

	// keys and values are parallel arrays of identical power-of-two length.
	// occupied marks the live slots; Go has no spare key value to use as an
	// empty sentinel for arbitrary K.
	keys     []K
	values   []V
	occupied []bool

	size int
	// mask is len(keys)-1, used to wrap probe indices. shift is
	// 64-log2(len(keys)); place keeps the top bits of hash*hashMultiplier.
	mask           uint64
	shift          uint
	hashMultiplier uint64
	loadFactor     float64
	threshold      int

	iter1, iter2 *MapIterator[K, V]
}

// New constructs a Map with space for at least initialCapacity entries before
// the first resize. Keys are hashed and compared the same way Go's builtin
// map hashes and compares them.
func New[K comparable, V any](initialCapacity int, options ...Option) *Map[K, V] {
	return NewFunc[K, V](defaultHasher[K]{}, initialCapacity, options...)
}

// NewFunc constructs a Map that places and matches keys using the supplied
// Hasher. Unlike New, the key type is not required to be comparable.
func NewFunc[K, V any](hasher Hasher[K], initialCapacity int, options ...Option) *Map[K, V] {
	cfg := defaultConfig()
	for _, o := range options {
		o.apply(&cfg)
	}
	checkLoadFactor(cfg.loadFactor)
	m := &Map[K, V]{
		hasher:         hasher,
		seed:           maphash.MakeSeed(),
		hashMultiplier: initialHashMultiplier,
		loadFactor:     cfg.loadFactor,
	}
	m.allocate(tableSizeFor(initialCapacity))
	return m
}

// allocate installs fresh backing arrays of the given power-of-two capacity
// and the derived mask, shift, and threshold. Existing entries are discarded;
// callers reinsert them if needed.
func (m *Map[K, V]) allocate(capacity int) {
	m.keys = make([]K, capacity)
	m.values = make([]V, capacity)
	m.occupied = make([]bool, capacity)
	m.mask = uint64(capacity - 1)
	m.shift = uint(64 - bits.Len64(uint64(capacity-1)))
	m.threshold = thresholdFor(capacity, m.loadFactor)
}

// place returns the home slot for a key hash.
func (m *Map[K, V]) place(h uint64) uint64 {
	return (h * m.hashMultiplier) >> m.shift
}

// findSlot locates key. It returns the key's slot and true if the key is
// present, or the slot at which the key would be inserted and false if not.
// The probe invariant guarantees the scan meets the key, if present, before
// any empty slot.
func (m *Map[K, V]) findSlot(key K) (uint64, bool) {
	i := m.place(m.hasher.Hash(m.seed, key))
	for m.occupied[i] {
		if m.hasher.Equal(m.keys[i], key) {
			return i, true
		}
		i = (i + 1) & m.mask
	}
	return i, false
}

// Put inserts an entry into the map, overwriting an existing value if an
// entry with an equivalent key already exists. It returns the previous value
// and whether one was overwritten.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool) {
	i, found := m.findSlot(key)
	if found {
		prev = m.values[i]
		m.values[i] = value
		return prev, true
	}
	if debug {
		fmt.Printf("put(%v): inserting at slot %d, size=%d threshold=%d\n", key, i, m.size+1, m.threshold)
	}
	m.keys[i] = key
	m.values[i] = value
	m.occupied[i] = true
	m.size++
	if m.size > m.threshold {
		m.resize(m.growCapacity())
	}
	m.checkInvariants()
	return prev, false
}

// Get retrieves the value for key, returning ok=false if the key is not
// present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	i, found := m.findSlot(key)
	if !found {
		return value, false
	}
	return m.values[i], true
}

// MustGet is like Get but panics if the key is not present.
func (m *Map[K, V]) MustGet(key K) V {
	v, ok := m.Get(key)
	if !ok {
		panic(fmt.Sprintf("probekit: key %v not present", key))
	}
	return v
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, found := m.findSlot(key)
	return found
}

// Delete removes the entry for key, returning the removed value and whether
// the key was present. Deleting an absent key is a no-op.
func (m *Map[K, V]) Delete(key K) (prev V, ok bool) {
	i, found := m.findSlot(key)
	if !found {
		return prev, false
	}
	prev = m.values[i]
	m.removeSlot(i)
	m.checkInvariants()
	return prev, true
}

// removeSlot frees slot i and restores the probe invariant by backward
// shifting: entries in the cluster after i move into the gap when their home
// slot lies at or behind it, measured by wrapped distance. Decrements size.
func (m *Map[K, V]) removeSlot(i uint64) {
	mask := m.mask
	next := (i + 1) & mask
	for m.occupied[next] {
		home := m.place(m.hasher.Hash(m.seed, m.keys[next]))
		// next is further from its home slot than the gap is; shifting it
		// back keeps it reachable from home.
		if (next-home)&mask > (i-home)&mask {
			if debug {
				fmt.Printf("remove: shifting slot %d (home %d) back to %d\n", next, home, i)
			}
			m.keys[i] = m.keys[next]
			m.values[i] = m.values[next]
			i = next
		}
		next = (next + 1) & mask
	}
	var zeroK K
	var zeroV V
	m.keys[i] = zeroK
	m.values[i] = zeroV
	m.occupied[i] = false
	m.size--
}

// growCapacity returns the doubled capacity, doubled further if needed until
// the current size fits under the new threshold.
func (m *Map[K, V]) growCapacity() int {
	c := len(m.keys) * 2
	for thresholdFor(c, m.loadFactor) < m.size {
		c *= 2
	}
	return c
}

// resize reallocates the table at newCapacity, rotates the hash multiplier,
// and reinserts every live entry. Reinsertion skips existence checks since
// the keys are known to be distinct.
func (m *Map[K, V]) resize(newCapacity int) {
	if newCapacity > maxCapacity {
		panic(fmt.Sprintf("probekit: resize to %d exceeds maximum table size %d", newCapacity, maxCapacity))
	}
	oldKeys, oldValues, oldOccupied := m.keys, m.values, m.occupied
	m.allocate(newCapacity)
	m.hashMultiplier = nextMultiplier(m.hashMultiplier, m.shift)
	if debug {
		fmt.Printf("resize: capacity=%d->%d multiplier=%016x threshold=%d\n",
			len(oldKeys), newCapacity, m.hashMultiplier, m.threshold)
	}
	for i, occ := range oldOccupied {
		if occ {
			m.putForResize(oldKeys[i], oldValues[i])
		}
	}
	m.checkInvariants()
}

// putForResize writes a key known not to be present into the first free slot
// of its probe sequence.
func (m *Map[K, V]) putForResize(key K, value V) {
	i := m.place(m.hasher.Hash(m.seed, key))
	for m.occupied[i] {
		i = (i + 1) & m.mask
	}
	m.keys[i] = key
	m.values[i] = value
	m.occupied[i] = true
}

// Clear removes all entries, retaining the current capacity.
func (m *Map[K, V]) Clear() {
	var zeroK K
	var zeroV V
	for i := range m.occupied {
		if m.occupied[i] {
			m.keys[i] = zeroK
			m.values[i] = zeroV
			m.occupied[i] = false
		}
	}
	m.size = 0
}

// EnsureCapacity grows the table, if necessary, so that additionalCapacity
// more entries can be inserted without another resize. Pre-sizing for a known
// workload avoids resize pauses on the insertion path.
func (m *Map[K, V]) EnsureCapacity(additionalCapacity int) {
	if additionalCapacity < 0 {
		panic(fmt.Sprintf("probekit: invalid capacity %d", additionalCapacity))
	}
	needed := m.size + additionalCapacity
	if needed <= m.threshold {
		return
	}
	c := len(m.keys)
	for thresholdFor(c, m.loadFactor) < needed {
		c *= 2
		if c > maxCapacity {
			panic(fmt.Sprintf("probekit: capacity %d exceeds maximum table size %d", needed, maxCapacity))
		}
	}
	m.resize(c)
}

// SetHasher replaces the map's comparison strategy. Entries were placed under
// the old strategy and would be unreachable under the new one, so the map is
// cleared first. This is a contract, not an optimization: callers that need
// to keep the contents must copy them out and reinsert.
func (m *Map[K, V]) SetHasher(hasher Hasher[K]) {
	m.Clear()
	m.hasher = hasher
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.size
}

// capacity returns the current backing array length.
func (m *Map[K, V]) capacity() int {
	return len(m.keys)
}

// All calls yield for each entry in the map, in table slot order. If yield
// returns false, iteration stops. The map must not be mutated during All.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for i := range m.occupied {
		if m.occupied[i] {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

// Iterator returns one of the map's two pooled iterators, reset to the start.
// The previously issued pooled iterator is invalidated and panics on next
// use: the pool supports one traversal at a time. For nested traversal,
// construct a throwaway iterator with NewMapIterator.
func (m *Map[K, V]) Iterator() *MapIterator[K, V] {
	if m.iter1 == nil {
		m.iter1 = NewMapIterator(m)
		m.iter2 = NewMapIterator(m)
	}
	if !m.iter1.valid {
		m.iter1.Reset()
		m.iter1.valid = true
		m.iter2.valid = false
		return m.iter1
	}
	m.iter2.Reset()
	m.iter2.valid = true
	m.iter1.valid = false
	return m.iter2
}

// MapIterator iterates a Map in table slot order. Iterators obtained from
// Map.Iterator are pooled and invalidated on reacquisition; iterators from
// NewMapIterator are independent.
type MapIterator[K, V any] struct {
	m *Map[K, V]
	// nextIndex is the slot of the next entry to return, or len(occupied)
	// when exhausted. currentIndex is the slot of the last returned entry, or
	// -1 when Next has not been called or Remove consumed it.
	nextIndex    int
	currentIndex int
	valid        bool
}

// NewMapIterator returns a fresh iterator over m, independent of the pooled
// pair handed out by Map.Iterator.
func NewMapIterator[K, V any](m *Map[K, V]) *MapIterator[K, V] {
	it := &MapIterator[K, V]{m: m, valid: true}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of the map.
func (it *MapIterator[K, V]) Reset() {
	it.currentIndex = -1
	it.nextIndex = -1
	it.advance()
}

// advance moves nextIndex to the next occupied slot after its current value.
func (it *MapIterator[K, V]) advance() {
	occ := it.m.occupied
	for n := it.nextIndex + 1; n < len(occ); n++ {
		if occ[n] {
			it.nextIndex = n
			return
		}
	}
	it.nextIndex = len(occ)
}

func (it *MapIterator[K, V]) mustBeValid() {
	if !it.valid {
		panic("probekit: iterator invalidated by reacquisition; use NewMapIterator for nested iteration")
	}
}

// HasNext reports whether another entry remains.
func (it *MapIterator[K, V]) HasNext() bool {
	it.mustBeValid()
	return it.nextIndex < len(it.m.occupied)
}

// Next returns the next entry. It panics if the iterator is exhausted or
// invalidated.
func (it *MapIterator[K, V]) Next() (K, V) {
	it.mustBeValid()
	if it.nextIndex >= len(it.m.occupied) {
		panic("probekit: Next called on exhausted iterator")
	}
	it.currentIndex = it.nextIndex
	k, v := it.m.keys[it.currentIndex], it.m.values[it.currentIndex]
	it.advance()
	return k, v
}

// Remove deletes the entry most recently returned by Next. It panics if Next
// has not been called, or if the entry was already removed. Backward-shift
// deletion can move a not-yet-visited entry into the vacated slot, so the
// cursor steps back to re-scan from that slot.
func (it *MapIterator[K, V]) Remove() {
	it.mustBeValid()
	if it.currentIndex < 0 {
		panic("probekit: Remove called before Next")
	}
	it.m.removeSlot(uint64(it.currentIndex))
	it.nextIndex = it.currentIndex - 1
	it.advance()
	it.currentIndex = -1
	it.m.checkInvariants()
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		used := 0
		for i := range m.occupied {
			if !m.occupied[i] {
				continue
			}
			used++
			j, found := m.findSlot(m.keys[i])
			if !found || j != uint64(i) {
				panic(fmt.Sprintf("invariant failed: key %v at slot %d locates to (%d, %t)\n%s",
					m.keys[i], i, j, found, m.debugString()))
			}
		}
		if used != m.size {
			panic(fmt.Sprintf("invariant failed: found %d occupied slots, but size is %d\n%s",
				used, m.size, m.debugString()))
		}
		if m.size > m.threshold {
			panic(fmt.Sprintf("invariant failed: size %d exceeds threshold %d\n%s",
				m.size, m.threshold, m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d size=%d threshold=%d multiplier=%016x\n",
		len(m.keys), m.size, m.threshold, m.hashMultiplier)
	for i := range m.occupied {
		if m.occupied[i] {
			home := m.place(m.hasher.Hash(m.seed, m.keys[i]))
			fmt.Fprintf(&buf, "  %4d: %v [home=%d]\n", i, m.keys[i], home)
		} else {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		}
	}
	return buf.String()
}
