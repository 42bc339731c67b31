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

import "golang.org/x/exp/constraints"

// IntSet is a set of integers built on IntMap's zero-sentinel table. The key
// value 0 is a fully supported member; it is tracked beside the table rather
// than in it.
//
// An IntSet is NOT goroutine-safe.
type IntSet[K constraints.Integer] struct {
	m            IntMap[K, struct{}]
	iter1, iter2 *IntSetIterator[K]
}

// NewIntSet constructs an IntSet with space for at least initialCapacity
// keys before the first resize.
func NewIntSet[K constraints.Integer](initialCapacity int, options ...Option) *IntSet[K] {
	s := &IntSet[K]{}
	s.m = *NewIntMap[K, struct{}](initialCapacity, options...)
	return s
}

// Add inserts key into the set, reporting whether it was newly added.
func (s *IntSet[K]) Add(key K) bool {
	_, replaced := s.m.Put(key, struct{}{})
	return !replaced
}

// Contains reports whether key is present.
func (s *IntSet[K]) Contains(key K) bool {
	return s.m.Contains(key)
}

// Remove deletes key from the set, reporting whether it was present.
func (s *IntSet[K]) Remove(key K) bool {
	_, ok := s.m.Delete(key)
	return ok
}

// Len returns the number of keys in the set.
func (s *IntSet[K]) Len() int {
	return s.m.Len()
}

// Clear removes all keys, retaining the current capacity.
func (s *IntSet[K]) Clear() {
	s.m.Clear()
}

// EnsureCapacity grows the set, if necessary, to hold additionalCapacity
// more keys without resizing.
func (s *IntSet[K]) EnsureCapacity(additionalCapacity int) {
	s.m.EnsureCapacity(additionalCapacity)
}

// All calls yield for each key, 0 first if present, then the rest in table
// slot order. If yield returns false, iteration stops.
func (s *IntSet[K]) All(yield func(key K) bool) {
	s.m.All(func(k K, _ struct{}) bool {
		return yield(k)
	})
}

// Iterator returns one of the set's two pooled iterators, reset to the
// start, invalidating the previously issued one. For nested traversal use
// NewIntSetIterator.
func (s *IntSet[K]) Iterator() *IntSetIterator[K] {
	if s.iter1 == nil {
		s.iter1 = NewIntSetIterator(s)
		s.iter2 = NewIntSetIterator(s)
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

// IntSetIterator iterates an IntSet: 0 first if present, then the table in
// slot order.
type IntSetIterator[K constraints.Integer] struct {
	it IntMapIterator[K, struct{}]
}

// NewIntSetIterator returns a fresh iterator over s, independent of the
// pooled pair handed out by IntSet.Iterator.
func NewIntSetIterator[K constraints.Integer](s *IntSet[K]) *IntSetIterator[K] {
	si := &IntSetIterator[K]{}
	si.it.m = &s.m
	si.it.valid = true
	si.it.Reset()
	return si
}

// Reset rewinds the iterator to the start of the set.
func (it *IntSetIterator[K]) Reset() {
	it.it.Reset()
}

// HasNext reports whether another key remains.
func (it *IntSetIterator[K]) HasNext() bool {
	return it.it.HasNext()
}

// Next returns the next key. It panics if the iterator is exhausted or
// invalidated.
func (it *IntSetIterator[K]) Next() K {
	k, _ := it.it.Next()
	return k
}

// Remove deletes the key most recently returned by Next.
func (it *IntSetIterator[K]) Remove() {
	it.it.Remove()
}
