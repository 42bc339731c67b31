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

import "fmt"

// Node carries the priority and heap position of an item. Embed it (by
// value) in the item type and the pointer type satisfies HeapItem:
//
//	type task struct {
//		probekit.Node
//		name string
//	}
//
//	h := probekit.NewMinHeap[*task](8)
//	h.Push(&task{Node: probekit.NewNode(1.5), name: "t"})
//
// The index field is what makes Remove and SetValue O(log n): the heap
// records each item's array position in its node as it sifts, so neither
// operation needs to search for the item.
type Node struct {
	value float64
	// index is the item's position in the heap array, or -1 when the item is
	// not in a heap. Maintained by the heap on every sift.
	index int
}

// NewNode returns a Node with the given priority, not yet in any heap.
func NewNode(value float64) Node {
	return Node{value: value, index: -1}
}

// Value returns the item's current priority.
func (n *Node) Value() float64 {
	return n.value
}

// Index returns the item's position in its heap, or -1 if it is not in one.
func (n *Node) Index() int {
	return n.index
}

func (n *Node) heapNode() *Node {
	return n
}

// HeapItem is satisfied by pointer types that embed a Node. The heapNode
// method is deliberately unexported: embedding Node is the only way to
// implement it, which guarantees the heap owns the index field it mutates.
type HeapItem interface {
	comparable
	heapNode() *Node
}

// Heap is an array-backed binary heap over items carrying an embedded Node.
// Besides Push and Pop it supports O(log n) removal and reprioritization of
// arbitrary items via the node's recorded index. The same item instance can
// be in at most one heap at a time.
//
// A Heap is NOT goroutine-safe.
type Heap[N HeapItem] struct {
	nodes []N
	// isMax flips the comparison: a min-heap pops the smallest value first, a
	// max-heap the largest.
	isMax bool
}

// NewMinHeap constructs a heap that pops items in ascending value order.
func NewMinHeap[N HeapItem](initialCapacity int) *Heap[N] {
	return &Heap[N]{nodes: make([]N, 0, initialCapacity)}
}

// NewMaxHeap constructs a heap that pops items in descending value order.
func NewMaxHeap[N HeapItem](initialCapacity int) *Heap[N] {
	return &Heap[N]{nodes: make([]N, 0, initialCapacity), isMax: true}
}

// before reports whether priority a sorts ahead of b for this heap's
// direction.
func (h *Heap[N]) before(a, b float64) bool {
	return (a < b) != h.isMax
}

// Len returns the number of items in the heap.
func (h *Heap[N]) Len() int {
	return len(h.nodes)
}

// IsMax reports whether this is a max-heap.
func (h *Heap[N]) IsMax() bool {
	return h.isMax
}

// Push adds item to the heap. It panics if the item is already in this heap;
// reprioritize with SetValue instead of pushing twice.
func (h *Heap[N]) Push(item N) {
	node := item.heapNode()
	if i := node.index; i >= 0 && i < len(h.nodes) && h.nodes[i] == item {
		panic(fmt.Sprintf("probekit: item %v is already in the heap", item))
	}
	node.index = len(h.nodes)
	h.nodes = append(h.nodes, item)
	h.siftUp(node.index)
}

// Peek returns the item at the top of the heap without removing it,
// returning ok=false if the heap is empty.
func (h *Heap[N]) Peek() (item N, ok bool) {
	if len(h.nodes) == 0 {
		return item, false
	}
	return h.nodes[0], true
}

// MustPeek is like Peek but panics if the heap is empty.
func (h *Heap[N]) MustPeek() N {
	item, ok := h.Peek()
	if !ok {
		panic("probekit: MustPeek called on empty heap")
	}
	return item
}

// Pop removes and returns the item at the top of the heap, returning
// ok=false if the heap is empty.
func (h *Heap[N]) Pop() (item N, ok bool) {
	if len(h.nodes) == 0 {
		return item, false
	}
	item = h.nodes[0]
	h.removeAt(0)
	return item, true
}

// MustPop is like Pop but panics if the heap is empty.
func (h *Heap[N]) MustPop() N {
	item, ok := h.Pop()
	if !ok {
		panic("probekit: MustPop called on empty heap")
	}
	return item
}

// Remove removes item from anywhere in the heap, reporting whether it was
// present.
func (h *Heap[N]) Remove(item N) bool {
	if !h.Contains(item) {
		return false
	}
	h.removeAt(item.heapNode().index)
	return true
}

// Contains reports whether item is in the heap. The embedded index makes
// this O(1).
func (h *Heap[N]) Contains(item N) bool {
	i := item.heapNode().index
	return i >= 0 && i < len(h.nodes) && h.nodes[i] == item
}

// SetValue changes item's priority and restores heap order. It panics if
// item is not in the heap.
func (h *Heap[N]) SetValue(item N, value float64) {
	if !h.Contains(item) {
		panic(fmt.Sprintf("probekit: item %v is not in the heap", item))
	}
	node := item.heapNode()
	node.value = value
	h.siftUp(node.index)
	h.siftDown(node.index)
}

// Clear removes all items, resetting their indices.
func (h *Heap[N]) Clear() {
	var zero N
	for i, item := range h.nodes {
		item.heapNode().index = -1
		h.nodes[i] = zero
	}
	h.nodes = h.nodes[:0]
}

// removeAt detaches the item at position i, moves the last item into the
// gap, and sifts it in both directions to restore order.
func (h *Heap[N]) removeAt(i int) {
	last := len(h.nodes) - 1
	removed := h.nodes[i]
	h.nodes[i] = h.nodes[last]
	h.nodes[i].heapNode().index = i
	var zero N
	h.nodes[last] = zero
	h.nodes = h.nodes[:last]
	removed.heapNode().index = -1
	if i < last {
		h.siftUp(i)
		h.siftDown(i)
	}
}

func (h *Heap[N]) siftUp(i int) {
	item := h.nodes[i]
	v := item.heapNode().value
	for i > 0 {
		parent := (i - 1) / 2
		if !h.before(v, h.nodes[parent].heapNode().value) {
			break
		}
		h.nodes[i] = h.nodes[parent]
		h.nodes[i].heapNode().index = i
		i = parent
	}
	h.nodes[i] = item
	item.heapNode().index = i
}

func (h *Heap[N]) siftDown(i int) {
	n := len(h.nodes)
	item := h.nodes[i]
	v := item.heapNode().value
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		best := left
		if right := left + 1; right < n &&
			h.before(h.nodes[right].heapNode().value, h.nodes[left].heapNode().value) {
			best = right
		}
		if !h.before(h.nodes[best].heapNode().value, v) {
			break
		}
		h.nodes[i] = h.nodes[best]
		h.nodes[i].heapNode().index = i
		i = best
	}
	h.nodes[i] = item
	item.heapNode().index = i
}
