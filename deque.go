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
	"math/rand"

	"golang.org/x/exp/slices"
)

// Deque is a double-ended queue over a growable power-of-two ring buffer.
// Pushes and pops at either end are O(1) amortized; indexed access is O(1);
// arbitrary insertion and removal are O(n). The zero value is not usable;
// construct one with NewDeque.
//
// A Deque is NOT goroutine-safe.
type Deque[E any] struct {
	items []E
	// head is the physical index of the logical first element; logical index
	// i lives at (head+i)&mask. The ring length is a power of two so the
	// masking arithmetic stays valid.
	head uint64
	mask uint64
	size int
}

// NewDeque constructs a Deque with space for at least initialCapacity
// elements. It panics if initialCapacity is negative.
func NewDeque[E any](initialCapacity int) *Deque[E] {
	capacity := tableSizeFor(initialCapacity)
	return &Deque[E]{
		items: make([]E, capacity),
		mask:  uint64(capacity - 1),
	}
}

// Len returns the number of elements in the deque.
func (d *Deque[E]) Len() int {
	return d.size
}

func (d *Deque[E]) physical(i int) uint64 {
	return (d.head + uint64(i)) & d.mask
}

func (d *Deque[E]) checkIndex(i int) {
	if i < 0 || i >= d.size {
		panic(fmt.Sprintf("probekit: index %d out of range [0, %d)", i, d.size))
	}
}

// grow doubles the ring, linearizing the contents so head restarts at zero.
func (d *Deque[E]) grow() {
	old := d.items
	d.items = make([]E, 2*len(old))
	for i := 0; i < d.size; i++ {
		d.items[i] = old[(d.head+uint64(i))&d.mask]
	}
	d.head = 0
	d.mask = uint64(len(d.items) - 1)
}

// PushBack appends e at the back.
func (d *Deque[E]) PushBack(e E) {
	if d.size == len(d.items) {
		d.grow()
	}
	d.items[d.physical(d.size)] = e
	d.size++
}

// PushFront prepends e at the front.
func (d *Deque[E]) PushFront(e E) {
	if d.size == len(d.items) {
		d.grow()
	}
	d.head = (d.head - 1) & d.mask
	d.items[d.head] = e
	d.size++
}

// Front returns the first element, or ok=false if the deque is empty.
func (d *Deque[E]) Front() (e E, ok bool) {
	if d.size == 0 {
		return e, false
	}
	return d.items[d.head], true
}

// MustFront returns the first element, panicking if the deque is empty.
func (d *Deque[E]) MustFront() E {
	e, ok := d.Front()
	if !ok {
		panic("probekit: MustFront on empty deque")
	}
	return e
}

// Back returns the last element, or ok=false if the deque is empty.
func (d *Deque[E]) Back() (e E, ok bool) {
	if d.size == 0 {
		return e, false
	}
	return d.items[d.physical(d.size-1)], true
}

// MustBack returns the last element, panicking if the deque is empty.
func (d *Deque[E]) MustBack() E {
	e, ok := d.Back()
	if !ok {
		panic("probekit: MustBack on empty deque")
	}
	return e
}

// PopFront removes and returns the first element, or ok=false if the deque
// is empty.
func (d *Deque[E]) PopFront() (e E, ok bool) {
	if d.size == 0 {
		return e, false
	}
	var zero E
	e = d.items[d.head]
	d.items[d.head] = zero
	d.head = (d.head + 1) & d.mask
	d.size--
	return e, true
}

// PopBack removes and returns the last element, or ok=false if the deque is
// empty.
func (d *Deque[E]) PopBack() (e E, ok bool) {
	if d.size == 0 {
		return e, false
	}
	var zero E
	i := d.physical(d.size - 1)
	e = d.items[i]
	d.items[i] = zero
	d.size--
	return e, true
}

// Get returns the element at logical index i. It panics if i is out of
// range.
func (d *Deque[E]) Get(i int) E {
	d.checkIndex(i)
	return d.items[d.physical(i)]
}

// Set overwrites the element at logical index i. It panics if i is out of
// range.
func (d *Deque[E]) Set(i int, e E) {
	d.checkIndex(i)
	d.items[d.physical(i)] = e
}

// Insert places e at logical index i, shifting subsequent elements toward
// the back. i may equal Len, appending.
func (d *Deque[E]) Insert(i int, e E) {
	if i < 0 || i > d.size {
		panic(fmt.Sprintf("probekit: index %d out of range [0, %d]", i, d.size))
	}
	if d.size == len(d.items) {
		d.grow()
	}
	for j := d.size; j > i; j-- {
		d.items[d.physical(j)] = d.items[d.physical(j-1)]
	}
	d.items[d.physical(i)] = e
	d.size++
}

// RemoveAt removes and returns the element at logical index i, shifting
// subsequent elements toward the front. It panics if i is out of range.
func (d *Deque[E]) RemoveAt(i int) E {
	d.checkIndex(i)
	e := d.items[d.physical(i)]
	for j := i; j < d.size-1; j++ {
		d.items[d.physical(j)] = d.items[d.physical(j+1)]
	}
	var zero E
	d.items[d.physical(d.size-1)] = zero
	d.size--
	return e
}

// IndexOf returns the logical index of the first element for which eq
// reports true against e, or -1.
func (d *Deque[E]) IndexOf(e E, eq func(a, b E) bool) int {
	for i := 0; i < d.size; i++ {
		if eq(d.items[d.physical(i)], e) {
			return i
		}
	}
	return -1
}

// Iter calls fn on each element at or after the logical offset, stopping if
// fn returns false.
func (d *Deque[E]) Iter(offset int, fn func(e E) bool) {
	for i := offset; i < d.size; i++ {
		if !fn(d.items[d.physical(i)]) {
			return
		}
	}
}

// Clear removes all elements, retaining the current capacity.
func (d *Deque[E]) Clear() {
	var zero E
	for i := 0; i < d.size; i++ {
		d.items[d.physical(i)] = zero
	}
	d.head = 0
	d.size = 0
}

// Sort stably sorts the elements using less. The ring is linearized first;
// after Sort the logical and physical orders coincide.
func (d *Deque[E]) Sort(less func(a, b E) bool) {
	buf := make([]E, d.size)
	for i := 0; i < d.size; i++ {
		buf[i] = d.items[d.physical(i)]
	}
	slices.SortStableFunc(buf, less)
	var zero E
	for i := range d.items {
		d.items[i] = zero
	}
	copy(d.items, buf)
	d.head = 0
}

// Shuffle permutes the elements uniformly using rng.
func (d *Deque[E]) Shuffle(rng *rand.Rand) {
	for i := d.size - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pi, pj := d.physical(i), d.physical(j)
		d.items[pi], d.items[pj] = d.items[pj], d.items[pi]
	}
}
