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

package probekit

import (
	"fmt"
	"math/bits"
	"strings"

	"golang.org/x/exp/constraints"
)

// IntMap is a map from integer keys to values that stores keys directly in
// its table and uses the key value 0 as the empty-slot sentinel, avoiding
// the occupancy bitmap and indirection Map carries for arbitrary key types.
// The key 0 itself is held in a dedicated field beside the table, so the
// full key range remains usable.
//
// Keys are placed by Fibonacci hashing of the key value itself; no Hasher is
// involved. Deletion and resizing behave exactly as in Map.
//
// An IntMap is NOT goroutine-safe.
type IntMap[K constraints.Integer, V any] struct {
	// keys doubles as the occupancy map: a zero key marks an empty slot.
	// values is parallel to keys.
	keys   []K
	values []V

	// The zero key cannot live in the table; it is tracked here.
	hasZero   bool
	zeroValue V

	// size counts non-zero entries only. Len reports size plus the zero key.
	size           int
	mask           uint64
	shift          uint
	hashMultiplier uint64
	loadFactor     float64
	threshold      int

	iter1, iter2 *IntMapIterator[K, V]
}

// NewIntMap constructs an IntMap with space for at least initialCapacity
// entries before the first resize.
func NewIntMap[K constraints.Integer, V any](initialCapacity int, options ...Option) *IntMap[K, V] {
	cfg := defaultConfig()
	for _, o := range options {
		o.apply(&cfg)
	}
	checkLoadFactor(cfg.loadFactor)
	m := &IntMap[K, V]{
		hashMultiplier: initialHashMultiplier,
		loadFactor:     cfg.loadFactor,
	}
	m.allocate(tableSizeFor(initialCapacity))
	return m
}

func (m *IntMap[K, V]) allocate(capacity int) {
	m.keys = make([]K, capacity)
	m.values = make([]V, capacity)
	m.mask = uint64(capacity - 1)
	m.shift = uint(64 - bits.Len64(uint64(capacity-1)))
	m.threshold = thresholdFor(capacity, m.loadFactor)
}

// place returns the home slot for a key. Signed keys sign-extend into the
// multiplication, so negative keys spread as well as positive ones.
func (m *IntMap[K, V]) place(key K) uint64 {
	return (uint64(key) * m.hashMultiplier) >> m.shift
}

// findSlot locates a non-zero key. It returns the key's slot and true if the
// key is present, or the slot at which the key would be inserted and false
// if not. The caller handles key 0 before probing.
func (m *IntMap[K, V]) findSlot(key K) (uint64, bool) {
	i := m.place(key)
	for m.keys[i] != 0 {
		if m.keys[i] == key {
			return i, true
		}
		i = (i + 1) & m.mask
	}
	return i, false
}

// Put inserts an entry into the map, overwriting an existing value if the
// key already exists. It returns the previous value and whether one was
// overwritten.
func (m *IntMap[K, V]) Put(key K, value V) (prev V, replaced bool) {
	if key == 0 {
		prev = m.zeroValue
		replaced = m.hasZero
		m.hasZero = true
		m.zeroValue = value
		return prev, replaced
	}
	i, found := m.findSlot(key)
	if found {
		prev = m.values[i]
		m.values[i] = value
		return prev, true
	}
	m.keys[i] = key
	m.values[i] = value
	m.size++
	if m.size > m.threshold {
		m.resize(m.growCapacity())
	}
	m.checkInvariants()
	return prev, false
}

// Get retrieves the value for key, returning ok=false if the key is not
// present.
func (m *IntMap[K, V]) Get(key K) (value V, ok bool) {
	if key == 0 {
		return m.zeroValue, m.hasZero
	}
	i, found := m.findSlot(key)
	if !found {
		return value, false
	}
	return m.values[i], true
}

// MustGet is like Get but panics if the key is not present.
func (m *IntMap[K, V]) MustGet(key K) V {
	v, ok := m.Get(key)
	if !ok {
		panic(fmt.Sprintf("probekit: key %v not present", key))
	}
	return v
}

// Contains reports whether key is present.
func (m *IntMap[K, V]) Contains(key K) bool {
	if key == 0 {
		return m.hasZero
	}
	_, found := m.findSlot(key)
	return found
}

// Delete removes the entry for key, returning the removed value and whether
// the key was present. Deleting an absent key is a no-op.
func (m *IntMap[K, V]) Delete(key K) (prev V, ok bool) {
	if key == 0 {
		if !m.hasZero {
			return prev, false
		}
		prev = m.zeroValue
		m.hasZero = false
		var zero V
		m.zeroValue = zero
		return prev, true
	}
	i, found := m.findSlot(key)
	if !found {
		return prev, false
	}
	prev = m.values[i]
	m.removeSlot(i)
	m.checkInvariants()
	return prev, true
}

// removeSlot frees slot i and backward shifts the rest of the probe cluster,
// exactly as Map.removeSlot does. Decrements size.
func (m *IntMap[K, V]) removeSlot(i uint64) {
	mask := m.mask
	next := (i + 1) & mask
	for m.keys[next] != 0 {
		home := m.place(m.keys[next])
		if (next-home)&mask > (i-home)&mask {
			m.keys[i] = m.keys[next]
			m.values[i] = m.values[next]
			i = next
		}
		next = (next + 1) & mask
	}
	var zeroV V
	m.keys[i] = 0
	m.values[i] = zeroV
	m.size--
}

func (m *IntMap[K, V]) growCapacity() int {
	c := len(m.keys) * 2
	for thresholdFor(c, m.loadFactor) < m.size {
		c *= 2
	}
	return c
}

// resize reallocates the table at newCapacity, rotates the hash multiplier,
// and reinserts every non-zero key. The zero entry lives outside the table
// and is untouched.
func (m *IntMap[K, V]) resize(newCapacity int) {
	if newCapacity > maxCapacity {
		panic(fmt.Sprintf("probekit: resize to %d exceeds maximum table size %d", newCapacity, maxCapacity))
	}
	oldKeys, oldValues := m.keys, m.values
	m.allocate(newCapacity)
	m.hashMultiplier = nextMultiplier(m.hashMultiplier, m.shift)
	for i, k := range oldKeys {
		if k != 0 {
			j := m.place(k)
			for m.keys[j] != 0 {
				j = (j + 1) & m.mask
			}
			m.keys[j] = k
			m.values[j] = oldValues[i]
		}
	}
	m.checkInvariants()
}

// Clear removes all entries, retaining the current capacity.
func (m *IntMap[K, V]) Clear() {
	var zeroV V
	for i := range m.keys {
		if m.keys[i] != 0 {
			m.keys[i] = 0
			m.values[i] = zeroV
		}
	}
	m.size = 0
	m.hasZero = false
	m.zeroValue = zeroV
}

// EnsureCapacity grows the table, if necessary, so that additionalCapacity
// more entries can be inserted without another resize.
func (m *IntMap[K, V]) EnsureCapacity(additionalCapacity int) {
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

// Len returns the number of entries in the map, including the zero key if
// present.
func (m *IntMap[K, V]) Len() int {
	if m.hasZero {
		return m.size + 1
	}
	return m.size
}

// All calls yield for each entry, the zero key first if present, then the
// rest in table slot order. If yield returns false, iteration stops. The map
// must not be mutated during All.
func (m *IntMap[K, V]) All(yield func(key K, value V) bool) {
	if m.hasZero {
		if !yield(0, m.zeroValue) {
			return
		}
	}
	for i, k := range m.keys {
		if k != 0 {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Iterator returns one of the map's two pooled iterators, reset to the
// start, invalidating the previously issued one. For nested traversal use
// NewIntMapIterator.
func (m *IntMap[K, V]) Iterator() *IntMapIterator[K, V] {
	if m.iter1 == nil {
		m.iter1 = NewIntMapIterator(m)
		m.iter2 = NewIntMapIterator(m)
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

// IntMapIterator iterates an IntMap: the zero entry first if present, then
// the table in slot order.
type IntMapIterator[K constraints.Integer, V any] struct {
	m *IntMap[K, V]
	// zeroPending is set while the zero entry has yet to be returned.
	// currentZero marks that the last returned entry was the zero entry.
	zeroPending bool
	currentZero bool
	// nextIndex is the slot of the next table entry, or len(keys) when
	// exhausted. currentIndex is the slot of the last returned table entry,
	// or -1.
	nextIndex    int
	currentIndex int
	valid        bool
}

// NewIntMapIterator returns a fresh iterator over m, independent of the
// pooled pair handed out by IntMap.Iterator.
func NewIntMapIterator[K constraints.Integer, V any](m *IntMap[K, V]) *IntMapIterator[K, V] {
	it := &IntMapIterator[K, V]{m: m, valid: true}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of the map.
func (it *IntMapIterator[K, V]) Reset() {
	it.zeroPending = it.m.hasZero
	it.currentZero = false
	it.currentIndex = -1
	it.nextIndex = -1
	it.advance()
}

func (it *IntMapIterator[K, V]) advance() {
	keys := it.m.keys
	for n := it.nextIndex + 1; n < len(keys); n++ {
		if keys[n] != 0 {
			it.nextIndex = n
			return
		}
	}
	it.nextIndex = len(keys)
}

func (it *IntMapIterator[K, V]) mustBeValid() {
	if !it.valid {
		panic("probekit: iterator invalidated by reacquisition; use NewIntMapIterator for nested iteration")
	}
}

// HasNext reports whether another entry remains.
func (it *IntMapIterator[K, V]) HasNext() bool {
	it.mustBeValid()
	return it.zeroPending || it.nextIndex < len(it.m.keys)
}

// Next returns the next entry. It panics if the iterator is exhausted or
// invalidated.
func (it *IntMapIterator[K, V]) Next() (K, V) {
	it.mustBeValid()
	if it.zeroPending {
		it.zeroPending = false
		it.currentZero = true
		it.currentIndex = -1
		return 0, it.m.zeroValue
	}
	if it.nextIndex >= len(it.m.keys) {
		panic("probekit: Next called on exhausted iterator")
	}
	it.currentZero = false
	it.currentIndex = it.nextIndex
	k, v := it.m.keys[it.currentIndex], it.m.values[it.currentIndex]
	it.advance()
	return k, v
}

// Remove deletes the entry most recently returned by Next. The cursor steps
// back over a vacated table slot to re-scan entries shifted into it.
func (it *IntMapIterator[K, V]) Remove() {
	it.mustBeValid()
	if it.currentZero {
		it.currentZero = false
		it.m.hasZero = false
		var zero V
		it.m.zeroValue = zero
		return
	}
	if it.currentIndex < 0 {
		panic("probekit: Remove called before Next")
	}
	it.m.removeSlot(uint64(it.currentIndex))
	it.nextIndex = it.currentIndex - 1
	it.advance()
	it.currentIndex = -1
	it.m.checkInvariants()
}

func (m *IntMap[K, V]) checkInvariants() {
	if invariants {
		used := 0
		for i, k := range m.keys {
			if k == 0 {
				continue
			}
			used++
			j, found := m.findSlot(k)
			if !found || j != uint64(i) {
				panic(fmt.Sprintf("invariant failed: key %v at slot %d locates to (%d, %t)\n%s",
					k, i, j, found, m.debugString()))
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

func (m *IntMap[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d size=%d hasZero=%t threshold=%d multiplier=%016x\n",
		len(m.keys), m.size, m.hasZero, m.threshold, m.hashMultiplier)
	for i, k := range m.keys {
		if k != 0 {
			fmt.Fprintf(&buf, "  %4d: %v [home=%d]\n", i, k, m.place(k))
		} else {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		}
	}
	return buf.String()
}
