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
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type heapItem struct {
	Node
}

func newHeapItem(value float64) *heapItem {
	return &heapItem{Node: NewNode(value)}
}

func TestMinHeap(t *testing.T) {
	h := NewMinHeap[*heapItem](0)
	for _, v := range []float64{5, 3, 8, 1} {
		h.Push(newHeapItem(v))
	}
	require.Equal(t, 4, h.Len())
	require.Equal(t, 1.0, h.MustPeek().Value())

	// Pops ascend.
	var got []float64
	for h.Len() > 0 {
		got = append(got, h.MustPop().Value())
	}
	require.Equal(t, []float64{1, 3, 5, 8}, got)

	_, ok := h.Pop()
	require.False(t, ok)
	_, ok = h.Peek()
	require.False(t, ok)
	require.Panics(t, func() { h.MustPop() })
	require.Panics(t, func() { h.MustPeek() })
}

func TestMaxHeap(t *testing.T) {
	h := NewMaxHeap[*heapItem](0)
	require.True(t, h.IsMax())
	for _, v := range []float64{5, 3, 8, 1} {
		h.Push(newHeapItem(v))
	}
	var got []float64
	for h.Len() > 0 {
		got = append(got, h.MustPop().Value())
	}
	require.Equal(t, []float64{8, 5, 3, 1}, got)
}

func TestHeapRemove(t *testing.T) {
	h := NewMinHeap[*heapItem](0)
	items := make([]*heapItem, 10)
	for i := range items {
		items[i] = newHeapItem(float64(i))
		h.Push(items[i])
	}

	// Remove from the middle; the index field locates it without a search.
	require.True(t, h.Remove(items[5]))
	require.Equal(t, -1, items[5].Index())
	require.False(t, h.Contains(items[5]))
	require.Equal(t, 9, h.Len())

	// Removing an item that is not in the heap reports false.
	require.False(t, h.Remove(items[5]))
	require.False(t, h.Remove(newHeapItem(42)))

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.MustPop().Value())
	}
	require.Equal(t, []float64{0, 1, 2, 3, 4, 6, 7, 8, 9}, got)
}

func TestHeapSetValue(t *testing.T) {
	h := NewMinHeap[*heapItem](0)
	items := make([]*heapItem, 5)
	for i := range items {
		items[i] = newHeapItem(float64(i))
		h.Push(items[i])
	}

	// Reprioritize downward and upward; heap order holds either way.
	h.SetValue(items[4], -1)
	require.Same(t, items[4], h.MustPeek())
	h.SetValue(items[4], 100)
	require.Same(t, items[0], h.MustPeek())

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.MustPop().Value())
	}
	require.Equal(t, []float64{0, 1, 2, 3, 100}, got)

	require.Panics(t, func() { h.SetValue(newHeapItem(1), 2) })
}

func TestHeapDuplicatePush(t *testing.T) {
	h := NewMinHeap[*heapItem](0)
	item := newHeapItem(1)
	h.Push(item)
	require.Panics(t, func() { h.Push(item) })

	// After popping, the same instance may be pushed again.
	h.MustPop()
	require.NotPanics(t, func() { h.Push(item) })
}

func TestHeapTwoHeaps(t *testing.T) {
	// An item popped from one heap is free to join another.
	a := NewMinHeap[*heapItem](0)
	b := NewMaxHeap[*heapItem](0)
	item := newHeapItem(3)
	a.Push(item)
	require.Same(t, item, a.MustPop())
	b.Push(item)
	require.True(t, b.Contains(item))
	require.False(t, a.Contains(item))
}

func TestHeapClear(t *testing.T) {
	h := NewMinHeap[*heapItem](0)
	items := make([]*heapItem, 5)
	for i := range items {
		items[i] = newHeapItem(float64(i))
		h.Push(items[i])
	}
	h.Clear()
	require.Equal(t, 0, h.Len())
	for _, item := range items {
		require.Equal(t, -1, item.Index())
		require.False(t, h.Contains(item))
	}
	// Cleared items can be reused.
	h.Push(items[3])
	require.Same(t, items[3], h.MustPeek())
}

func TestHeapRandom(t *testing.T) {
	for _, isMax := range []bool{false, true} {
		var h *Heap[*heapItem]
		if isMax {
			h = NewMaxHeap[*heapItem](0)
		} else {
			h = NewMinHeap[*heapItem](0)
		}

		live := make(map[*heapItem]struct{})
		for i := 0; i < 5000; i++ {
			switch r := rand.Float64(); {
			case r < 0.5:
				item := newHeapItem(rand.NormFloat64() * 100)
				h.Push(item)
				live[item] = struct{}{}
			case r < 0.65:
				if h.Len() > 0 {
					item := h.MustPop()
					delete(live, item)
					require.Equal(t, -1, item.Index())
				}
			case r < 0.8:
				for item := range live {
					require.True(t, h.Remove(item))
					delete(live, item)
					break
				}
			case r < 0.9:
				for item := range live {
					h.SetValue(item, rand.NormFloat64()*100)
					break
				}
			default:
				if h.Len() > 0 {
					top := h.MustPeek()
					for item := range live {
						if isMax {
							require.GreaterOrEqual(t, top.Value(), item.Value())
						} else {
							require.LessOrEqual(t, top.Value(), item.Value())
						}
					}
				}
			}
			require.Equal(t, len(live), h.Len())
		}

		// Drain and verify full ordering against a sort.
		var want, got []float64
		for item := range live {
			want = append(want, item.Value())
		}
		sort.Float64s(want)
		if isMax {
			for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
				want[i], want[j] = want[j], want[i]
			}
		}
		for h.Len() > 0 {
			got = append(got, h.MustPop().Value())
		}
		require.Equal(t, want, got)
	}
}
