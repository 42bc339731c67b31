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

// Set is an unordered set of keys over the same probing engine as Map.
//
// A Set is NOT goroutine-safe.
type Set[K any] struct {
	m            Map[K, struct{}]
	iter1, iter2 *SetIterator[K]
}

// NewSet constructs a Set for comparable keys.
func NewSet[K comparable](initialCapacity int, options ...Option) *Set[K] {
	s := &Set[K]{}
	s.m = *New[K, struct{}](initialCapacity, options...)
	return s
}

// NewSetFunc constructs a Set that places and matches keys using the
// supplied Hasher.
func NewSetFunc[K any](hasher Hasher[K], initialCapacity int, options ...Option) *Set[K] {
	s := &Set[K]{}
	s.m = *NewFunc[K, struct{}](hasher, initialCapacity, options...)
	return s
}

// Add inserts key, reporting whether it was newly added.
func (s *Set[K]) Add(key K) bool {
	_, replaced := s.m.Put(key, struct{}{})
	return !replaced
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.m.Contains(key)
}

// Remove deletes key, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	_, ok := s.m.Delete(key)
	return ok
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.m.Len()
}

// Clear removes all keys, retaining the current capacity.
func (s *Set[K]) Clear() {
	s.m.Clear()
}

// EnsureCapacity grows the set, if necessary, to hold additionalCapacity
// more keys without resizing.
func (s *Set[K]) EnsureCapacity(additionalCapacity int) {
	s.m.EnsureCapacity(additionalCapacity)
}

// SetHasher replaces the set's comparison strategy, clearing the set first.
// See Map.SetHasher for the contract.
func (s *Set[K]) SetHasher(hasher Hasher[K]) {
	s.m.SetHasher(hasher)
}

// All calls yield for each key in the set, in table slot order.
func (s *Set[K]) All(yield func(key K) bool) {
	s.m.All(func(k K, _ struct{}) bool {
		return yield(k)
	})
}

// Iterator returns one of the set's two pooled iterators, reset to the
// start, invalidating the previously issued one. For nested traversal use
// NewSetIterator.
func (s *Set[K]) Iterator() *SetIterator[K] {
	if s.iter1 == nil {
		s.iter1 = NewSetIterator(s)
		s.iter2 = NewSetIterator(s)
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

// SetIterator iterates a Set in table slot order. The iterator protocol is
// identical to MapIterator's.
type SetIterator[K any] struct {
	it MapIterator[K, struct{}]
}

// NewSetIterator returns a fresh iterator over s, independent of the pooled
// pair handed out by Set.Iterator.
func NewSetIterator[K any](s *Set[K]) *SetIterator[K] {
	si := &SetIterator[K]{}
	si.it.m = &s.m
	si.it.valid = true
	si.it.Reset()
	return si
}

// Reset rewinds the iterator to the start of the set.
func (it *SetIterator[K]) Reset() {
	it.it.Reset()
}

// HasNext reports whether another key remains.
func (it *SetIterator[K]) HasNext() bool {
	return it.it.HasNext()
}

// Next returns the next key. It panics if the iterator is exhausted or
// invalidated.
func (it *SetIterator[K]) Next() K {
	k, _ := it.it.Next()
	return k
}

// Remove deletes the key most recently returned by Next.
func (it *SetIterator[K]) Remove() {
	it.it.Remove()
}
