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

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// sequence is the dense key order maintained alongside an ordered table. The
// table owns slot->key; the sequence owns position->key. Every public
// mutation updates both before returning, so the multiset of sequence
// entries always equals the multiset of live table keys.
type sequence[K any] interface {
	Len() int
	Get(i int) K
	Set(i int, k K)
	Append(k K)
	Insert(i int, k K)
	RemoveAt(i int) K
	Clear()
	Sort(less func(a, b K) bool)
}

func newSequence[K any](b Backing, initialCapacity int) sequence[K] {
	switch b {
	case BackingArray:
		return &arraySequence[K]{items: make([]K, 0, initialCapacity)}
	case BackingDeque:
		return &dequeSequence[K]{d: NewDeque[K](initialCapacity)}
	case BackingBag:
		return &bagSequence[K]{items: make([]K, 0, initialCapacity)}
	default:
		panic(fmt.Sprintf("probekit: unknown backing %d", b))
	}
}

type arraySequence[K any] struct {
	items []K
}

func (s *arraySequence[K]) Len() int { return len(s.items) }

func (s *arraySequence[K]) Get(i int) K { return s.items[i] }

func (s *arraySequence[K]) Set(i int, k K) { s.items[i] = k }

func (s *arraySequence[K]) Append(k K) { s.items = append(s.items, k) }

func (s *arraySequence[K]) Insert(i int, k K) {
	var zero K
	s.items = append(s.items, zero)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = k
}

func (s *arraySequence[K]) RemoveAt(i int) K {
	k := s.items[i]
	copy(s.items[i:], s.items[i+1:])
	var zero K
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return k
}

func (s *arraySequence[K]) Clear() {
	s.items = s.items[:0]
}

func (s *arraySequence[K]) Sort(less func(a, b K) bool) {
	slices.SortStableFunc(s.items, less)
}

type dequeSequence[K any] struct {
	d *Deque[K]
}

func (s *dequeSequence[K]) Len() int { return s.d.Len() }

func (s *dequeSequence[K]) Get(i int) K { return s.d.Get(i) }

func (s *dequeSequence[K]) Set(i int, k K) { s.d.Set(i, k) }

func (s *dequeSequence[K]) Append(k K) { s.d.PushBack(k) }

func (s *dequeSequence[K]) Insert(i int, k K) { s.d.Insert(i, k) }

func (s *dequeSequence[K]) RemoveAt(i int) K { return s.d.RemoveAt(i) }

func (s *dequeSequence[K]) Clear() { s.d.Clear() }

func (s *dequeSequence[K]) Sort(less func(a, b K) bool) { s.d.Sort(less) }

// bagSequence trades order stability for O(1) removal: RemoveAt moves the
// last element into the gap, and Insert moves the displaced element to the
// end.
type bagSequence[K any] struct {
	items []K
}

func (s *bagSequence[K]) Len() int { return len(s.items) }

func (s *bagSequence[K]) Get(i int) K { return s.items[i] }

func (s *bagSequence[K]) Set(i int, k K) { s.items[i] = k }

func (s *bagSequence[K]) Append(k K) { s.items = append(s.items, k) }

func (s *bagSequence[K]) Insert(i int, k K) {
	if i == len(s.items) {
		s.items = append(s.items, k)
		return
	}
	s.items = append(s.items, s.items[i])
	s.items[i] = k
}

func (s *bagSequence[K]) RemoveAt(i int) K {
	k := s.items[i]
	last := len(s.items) - 1
	s.items[i] = s.items[last]
	var zero K
	s.items[last] = zero
	s.items = s.items[:last]
	return k
}

func (s *bagSequence[K]) Clear() {
	s.items = s.items[:0]
}

func (s *bagSequence[K]) Sort(less func(a, b K) bool) {
	slices.SortStableFunc(s.items, less)
}

// OrderedMap is a Map that additionally maintains a dense sequence of its
// keys, by default in insertion order. Iteration is deterministic, and keys
// can be addressed, replaced, and removed by position. Sorting reorders only
// the sequence; table slots are untouched.
//
// An OrderedMap is NOT goroutine-safe.
type OrderedMap[K, V any] struct {
	m            Map[K, V]
	seq          sequence[K]
	iter1, iter2 *OrderedMapIterator[K, V]
}

// NewOrdered constructs an OrderedMap for comparable keys.
func NewOrdered[K comparable, V any](initialCapacity int, options ...Option) *OrderedMap[K, V] {
	return NewOrderedFunc[K, V](defaultHasher[K]{}, initialCapacity, options...)
}

// NewOrderedFunc constructs an OrderedMap that places and matches keys using
// the supplied Hasher.
func NewOrderedFunc[K, V any](hasher Hasher[K], initialCapacity int, options ...Option) *OrderedMap[K, V] {
	cfg := defaultConfig()
	for _, o := range options {
		o.apply(&cfg)
	}
	om := &OrderedMap[K, V]{
		seq: newSequence[K](cfg.backing, initialCapacity),
	}
	om.m = *NewFunc[K, V](hasher, initialCapacity, options...)
	return om
}

// Put inserts an entry, overwriting the existing value if an equivalent key
// is already present. A new key is appended to the end of the order.
func (om *OrderedMap[K, V]) Put(key K, value V) (prev V, replaced bool) {
	prev, replaced = om.m.Put(key, value)
	if !replaced {
		om.seq.Append(key)
	}
	return prev, replaced
}

// PutAt is Put with an explicit position for a new key. If the key is
// already present only its value changes and its position is kept. i may
// equal Len, appending.
func (om *OrderedMap[K, V]) PutAt(i int, key K, value V) (prev V, replaced bool) {
	if i < 0 || i > om.seq.Len() {
		panic(fmt.Sprintf("probekit: index %d out of range [0, %d]", i, om.seq.Len()))
	}
	prev, replaced = om.m.Put(key, value)
	if !replaced {
		om.seq.Insert(i, key)
	}
	return prev, replaced
}

// Get retrieves the value for key, returning ok=false if the key is not
// present.
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	return om.m.Get(key)
}

// MustGet is like Get but panics if the key is not present.
func (om *OrderedMap[K, V]) MustGet(key K) V {
	return om.m.MustGet(key)
}

// Contains reports whether key is present.
func (om *OrderedMap[K, V]) Contains(key K) bool {
	return om.m.Contains(key)
}

// Len returns the number of entries.
func (om *OrderedMap[K, V]) Len() int {
	return om.m.Len()
}

// Delete removes the entry for key, also removing the key from the order.
// Removal by value is O(n) over the sequence.
func (om *OrderedMap[K, V]) Delete(key K) (prev V, ok bool) {
	prev, ok = om.m.Delete(key)
	if ok {
		if i := om.indexOf(key); i >= 0 {
			om.seq.RemoveAt(i)
		}
	}
	return prev, ok
}

// RemoveAt removes the entry at position i, returning its key and value. The
// key is read from the sequence before either store is touched so both can
// be updated in one step.
func (om *OrderedMap[K, V]) RemoveAt(i int) (K, V) {
	key := om.seq.Get(i)
	om.seq.RemoveAt(i)
	value, _ := om.m.Delete(key)
	return key, value
}

// KeyAt returns the key at position i.
func (om *OrderedMap[K, V]) KeyAt(i int) K {
	return om.seq.Get(i)
}

// IndexOf returns the position of key in the order, or -1 if absent.
func (om *OrderedMap[K, V]) IndexOf(key K) int {
	return om.indexOf(key)
}

func (om *OrderedMap[K, V]) indexOf(key K) int {
	for i, n := 0, om.seq.Len(); i < n; i++ {
		if om.m.hasher.Equal(om.seq.Get(i), key) {
			return i
		}
	}
	return -1
}

// Alter replaces the key before with after, keeping before's position and
// value. It returns false if before is absent or after is already present.
func (om *OrderedMap[K, V]) Alter(before, after K) bool {
	if om.m.Contains(after) {
		return false
	}
	i := om.indexOf(before)
	if i < 0 {
		return false
	}
	return om.alterAt(i, after)
}

// AlterAt replaces the key at position i with after, keeping the position
// and the associated value. It returns false if after is already present.
// The new key is re-placed in the table; only position i of the order is
// touched.
func (om *OrderedMap[K, V]) AlterAt(i int, after K) bool {
	if om.m.Contains(after) {
		return false
	}
	return om.alterAt(i, after)
}

func (om *OrderedMap[K, V]) alterAt(i int, after K) bool {
	before := om.seq.Get(i)
	value, ok := om.m.Delete(before)
	if !ok {
		return false
	}
	om.m.Put(after, value)
	om.seq.Set(i, after)
	return true
}

// Sort reorders the keys with a stable sort under less. Values stay attached
// to their keys; table slots are untouched.
func (om *OrderedMap[K, V]) Sort(less func(a, b K) bool) {
	om.seq.Sort(less)
}

// SortKeys sorts om's keys in ascending natural order. It is a free function
// because the natural order needs a constraint OrderedMap's key type does
// not carry.
func SortKeys[K constraints.Ordered, V any](om *OrderedMap[K, V]) {
	om.Sort(func(a, b K) bool { return a < b })
}

// Clear removes all entries from both the table and the order.
func (om *OrderedMap[K, V]) Clear() {
	om.m.Clear()
	om.seq.Clear()
}

// EnsureCapacity grows the table, if necessary, to hold additionalCapacity
// more entries without resizing.
func (om *OrderedMap[K, V]) EnsureCapacity(additionalCapacity int) {
	om.m.EnsureCapacity(additionalCapacity)
}

// SetHasher replaces the comparison strategy, clearing the map first. See
// Map.SetHasher.
func (om *OrderedMap[K, V]) SetHasher(hasher Hasher[K]) {
	om.m.SetHasher(hasher)
	om.seq.Clear()
}

// All calls yield for each entry in order. If yield returns false, iteration
// stops. The map must not be mutated during All.
func (om *OrderedMap[K, V]) All(yield func(key K, value V) bool) {
	for i, n := 0, om.seq.Len(); i < n; i++ {
		k := om.seq.Get(i)
		v, _ := om.m.Get(k)
		if !yield(k, v) {
			return
		}
	}
}

// Iterator returns one of the map's two pooled iterators, reset to the
// start, invalidating the previously issued one. For nested traversal use
// NewOrderedMapIterator.
func (om *OrderedMap[K, V]) Iterator() *OrderedMapIterator[K, V] {
	if om.iter1 == nil {
		om.iter1 = NewOrderedMapIterator(om)
		om.iter2 = NewOrderedMapIterator(om)
	}
	if !om.iter1.valid {
		om.iter1.Reset()
		om.iter1.valid = true
		om.iter2.valid = false
		return om.iter1
	}
	om.iter2.Reset()
	om.iter2.valid = true
	om.iter1.valid = false
	return om.iter2
}

// OrderedMapIterator iterates an OrderedMap in sequence order.
type OrderedMapIterator[K, V any] struct {
	om *OrderedMap[K, V]
	// nextPos is the order position of the next entry; currentPos the
	// position of the last returned entry, or -1.
	nextPos    int
	currentPos int
	valid      bool
}

// NewOrderedMapIterator returns a fresh iterator over om, independent of the
// pooled pair handed out by OrderedMap.Iterator.
func NewOrderedMapIterator[K, V any](om *OrderedMap[K, V]) *OrderedMapIterator[K, V] {
	it := &OrderedMapIterator[K, V]{om: om, valid: true}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of the order.
func (it *OrderedMapIterator[K, V]) Reset() {
	it.nextPos = 0
	it.currentPos = -1
}

func (it *OrderedMapIterator[K, V]) mustBeValid() {
	if !it.valid {
		panic("probekit: iterator invalidated by reacquisition; use NewOrderedMapIterator for nested iteration")
	}
}

// HasNext reports whether another entry remains.
func (it *OrderedMapIterator[K, V]) HasNext() bool {
	it.mustBeValid()
	return it.nextPos < it.om.Len()
}

// Next returns the next entry in order. It panics if the iterator is
// exhausted or invalidated.
func (it *OrderedMapIterator[K, V]) Next() (K, V) {
	it.mustBeValid()
	if it.nextPos >= it.om.Len() {
		panic("probekit: Next called on exhausted iterator")
	}
	it.currentPos = it.nextPos
	k := it.om.seq.Get(it.currentPos)
	v, _ := it.om.m.Get(k)
	it.nextPos++
	return k, v
}

// Remove deletes the entry most recently returned by Next. The cursor steps
// back over the removed position, since the sequence shifts left to fill it.
func (it *OrderedMapIterator[K, V]) Remove() {
	it.mustBeValid()
	if it.currentPos < 0 {
		panic("probekit: Remove called before Next")
	}
	it.om.RemoveAt(it.currentPos)
	it.nextPos = it.currentPos
	it.currentPos = -1
}

// OrderedSet is a Set that additionally maintains its keys in a dense
// sequence, by default in insertion order.
//
// An OrderedSet is NOT goroutine-safe.
type OrderedSet[K any] struct {
	om           OrderedMap[K, struct{}]
	iter1, iter2 *OrderedSetIterator[K]
}

// NewOrderedSet constructs an OrderedSet for comparable keys.
func NewOrderedSet[K comparable](initialCapacity int, options ...Option) *OrderedSet[K] {
	s := &OrderedSet[K]{}
	s.om = *NewOrdered[K, struct{}](initialCapacity, options...)
	return s
}

// NewOrderedSetFunc constructs an OrderedSet that places and matches keys
// using the supplied Hasher.
func NewOrderedSetFunc[K any](hasher Hasher[K], initialCapacity int, options ...Option) *OrderedSet[K] {
	s := &OrderedSet[K]{}
	s.om = *NewOrderedFunc[K, struct{}](hasher, initialCapacity, options...)
	return s
}

// Add appends key to the set, reporting whether it was newly added.
func (s *OrderedSet[K]) Add(key K) bool {
	_, replaced := s.om.Put(key, struct{}{})
	return !replaced
}

// AddAt is Add with an explicit position for a new key. An existing key
// keeps its position.
func (s *OrderedSet[K]) AddAt(i int, key K) bool {
	_, replaced := s.om.PutAt(i, key, struct{}{})
	return !replaced
}

// Contains reports whether key is present.
func (s *OrderedSet[K]) Contains(key K) bool {
	return s.om.Contains(key)
}

// Remove deletes key, reporting whether it was present.
func (s *OrderedSet[K]) Remove(key K) bool {
	_, ok := s.om.Delete(key)
	return ok
}

// RemoveAt removes and returns the key at position i.
func (s *OrderedSet[K]) RemoveAt(i int) K {
	k, _ := s.om.RemoveAt(i)
	return k
}

// KeyAt returns the key at position i.
func (s *OrderedSet[K]) KeyAt(i int) K {
	return s.om.KeyAt(i)
}

// IndexOf returns the position of key, or -1 if absent.
func (s *OrderedSet[K]) IndexOf(key K) int {
	return s.om.IndexOf(key)
}

// Alter replaces before with after, keeping before's position. It returns
// false if before is absent or after is already present.
func (s *OrderedSet[K]) Alter(before, after K) bool {
	return s.om.Alter(before, after)
}

// AlterAt replaces the key at position i with after, keeping the position.
// It returns false if after is already present.
func (s *OrderedSet[K]) AlterAt(i int, after K) bool {
	return s.om.AlterAt(i, after)
}

// Sort reorders the keys with a stable sort under less.
func (s *OrderedSet[K]) Sort(less func(a, b K) bool) {
	s.om.Sort(less)
}

// SortSetKeys sorts s's keys in ascending natural order.
func SortSetKeys[K constraints.Ordered](s *OrderedSet[K]) {
	s.Sort(func(a, b K) bool { return a < b })
}

// Len returns the number of keys in the set.
func (s *OrderedSet[K]) Len() int {
	return s.om.Len()
}

// Clear removes all keys, retaining the current capacity.
func (s *OrderedSet[K]) Clear() {
	s.om.Clear()
}

// EnsureCapacity grows the set, if necessary, to hold additionalCapacity
// more keys without resizing.
func (s *OrderedSet[K]) EnsureCapacity(additionalCapacity int) {
	s.om.EnsureCapacity(additionalCapacity)
}

// All calls yield for each key in order. If yield returns false, iteration
// stops.
func (s *OrderedSet[K]) All(yield func(key K) bool) {
	s.om.All(func(k K, _ struct{}) bool {
		return yield(k)
	})
}

// Iterator returns one of the set's two pooled iterators, reset to the
// start, invalidating the previously issued one. For nested traversal use
// NewOrderedSetIterator.
func (s *OrderedSet[K]) Iterator() *OrderedSetIterator[K] {
	if s.iter1 == nil {
		s.iter1 = NewOrderedSetIterator(s)
		s.iter2 = NewOrderedSetIterator(s)
	}
	if !s.iter1.it.valid {
		s.iter1.Reset()
		s.iter1.it.valid = true
		s.iter2.it.valid = false
		return s.iter1
	}
	s.iter2.Reset()
	s.iter2.it.valid = true
	s.iter1.it.valid = false
	return s.iter2
}

// OrderedSetIterator iterates an OrderedSet in sequence order.
type OrderedSetIterator[K any] struct {
	it OrderedMapIterator[K, struct{}]
}

// NewOrderedSetIterator returns a fresh iterator over s, independent of the
// pooled pair handed out by OrderedSet.Iterator.
func NewOrderedSetIterator[K any](s *OrderedSet[K]) *OrderedSetIterator[K] {
	si := &OrderedSetIterator[K]{}
	si.it.om = &s.om
	si.it.valid = true
	si.it.Reset()
	return si
}

// Reset rewinds the iterator to the start of the order.
func (it *OrderedSetIterator[K]) Reset() {
	it.it.Reset()
}

// HasNext reports whether another key remains.
func (it *OrderedSetIterator[K]) HasNext() bool {
	return it.it.HasNext()
}

// Next returns the next key in order.
func (it *OrderedSetIterator[K]) Next() K {
	k, _ := it.it.Next()
	return k
}

// Remove deletes the key most recently returned by Next.
func (it *OrderedSetIterator[K]) Remove() {
	it.it.Remove()
}
