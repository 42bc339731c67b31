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
	"testing"

	"github.com/stretchr/testify/require"
)

func dequeToSlice[E any](d *Deque[E]) []E {
	var s []E
	d.Iter(0, func(e E) bool {
		s = append(s, e)
		return true
	})
	return s
}

func TestDequeBasic(t *testing.T) {
	d := NewDeque[int](0)
	require.Equal(t, 0, d.Len())
	_, ok := d.Front()
	require.False(t, ok)
	_, ok = d.Back()
	require.False(t, ok)
	require.Panics(t, func() { d.MustFront() })
	require.Panics(t, func() { d.MustBack() })

	d.PushBack(1)
	d.PushBack(2)
	d.PushFront(0)
	require.Equal(t, 3, d.Len())
	require.Equal(t, 0, d.MustFront())
	require.Equal(t, 2, d.MustBack())
	require.Equal(t, []int{0, 1, 2}, dequeToSlice(d))

	e, ok := d.PopFront()
	require.True(t, ok)
	require.Equal(t, 0, e)
	e, ok = d.PopBack()
	require.True(t, ok)
	require.Equal(t, 2, e)
	require.Equal(t, []int{1}, dequeToSlice(d))
}

func TestDequeGrowth(t *testing.T) {
	d := NewDeque[int](0)
	// Alternate ends so the ring wraps repeatedly while growing.
	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			d.PushBack(i)
		} else {
			d.PushFront(i)
		}
	}
	require.Equal(t, 1000, d.Len())
	require.Equal(t, 999, d.MustFront())
	require.Equal(t, 998, d.MustBack())

	for i := 999; i >= 1; i -= 2 {
		e, ok := d.PopFront()
		require.True(t, ok)
		require.Equal(t, i, e)
	}
	for i := 998; i >= 0; i -= 2 {
		e, ok := d.PopBack()
		require.True(t, ok)
		require.Equal(t, i, e)
	}
	require.Equal(t, 0, d.Len())
	_, ok := d.PopFront()
	require.False(t, ok)
	_, ok = d.PopBack()
	require.False(t, ok)
}

func TestDequeGetSet(t *testing.T) {
	d := NewDeque[int](0)
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	// Force a wrapped layout.
	for i := 0; i < 5; i++ {
		e, _ := d.PopFront()
		d.PushBack(e)
	}
	for i := 0; i < 10; i++ {
		d.Set(i, d.Get(i)*10)
	}
	require.Equal(t, []int{50, 60, 70, 80, 90, 0, 10, 20, 30, 40}, dequeToSlice(d))

	require.Panics(t, func() { d.Get(-1) })
	require.Panics(t, func() { d.Get(10) })
	require.Panics(t, func() { d.Set(10, 0) })
}

func TestDequeInsertRemoveAt(t *testing.T) {
	d := NewDeque[string](0)
	d.PushBack("a")
	d.PushBack("c")
	d.Insert(1, "b")
	d.Insert(0, "z")
	d.Insert(4, "d")
	require.Equal(t, []string{"z", "a", "b", "c", "d"}, dequeToSlice(d))

	require.Equal(t, "b", d.RemoveAt(2))
	require.Equal(t, "z", d.RemoveAt(0))
	require.Equal(t, "d", d.RemoveAt(2))
	require.Equal(t, []string{"a", "c"}, dequeToSlice(d))
}

func TestDequeIndexOf(t *testing.T) {
	d := NewDeque[string](0)
	for _, s := range []string{"a", "b", "c"} {
		d.PushBack(s)
	}
	eq := func(a, b string) bool { return a == b }
	require.Equal(t, 1, d.IndexOf("b", eq))
	require.Equal(t, -1, d.IndexOf("x", eq))
}

func TestDequeIter(t *testing.T) {
	d := NewDeque[int](0)
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}

	var got []int
	d.Iter(5, func(e int) bool {
		got = append(got, e)
		return true
	})
	require.Equal(t, []int{5, 6, 7, 8, 9}, got)

	// Early stop.
	n := 0
	d.Iter(0, func(e int) bool {
		n++
		return n < 3
	})
	require.Equal(t, 3, n)
}

func TestDequeSort(t *testing.T) {
	d := NewDeque[int](0)
	for _, v := range []int{5, 1, 4, 2, 3} {
		d.PushBack(v)
	}
	d.PushFront(d.RemoveAt(4)) // wrap the ring before sorting
	d.Sort(func(a, b int) bool { return a < b })
	require.Equal(t, []int{1, 2, 3, 4, 5}, dequeToSlice(d))
}

func TestDequeShuffle(t *testing.T) {
	d := NewDeque[int](0)
	for i := 0; i < 100; i++ {
		d.PushBack(i)
	}
	d.Shuffle(rand.New(rand.NewSource(42)))
	require.Equal(t, 100, d.Len())

	// Same multiset of elements afterwards.
	seen := make(map[int]bool)
	d.Iter(0, func(e int) bool {
		seen[e] = true
		return true
	})
	require.Equal(t, 100, len(seen))
}

func TestDequeClear(t *testing.T) {
	d := NewDeque[int](0)
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	d.Clear()
	require.Equal(t, 0, d.Len())
	d.PushBack(7)
	require.Equal(t, []int{7}, dequeToSlice(d))
}

func TestDequeRandom(t *testing.T) {
	d := NewDeque[int](0)
	var e []int
	for i := 0; i < 10000; i++ {
		switch r := rand.Float64(); {
		case r < 0.3:
			v := rand.Int()
			d.PushBack(v)
			e = append(e, v)
		case r < 0.5:
			v := rand.Int()
			d.PushFront(v)
			e = append([]int{v}, e...)
		case r < 0.65:
			if len(e) > 0 {
				got, ok := d.PopFront()
				require.True(t, ok)
				require.Equal(t, e[0], got)
				e = e[1:]
			}
		case r < 0.8:
			if len(e) > 0 {
				got, ok := d.PopBack()
				require.True(t, ok)
				require.Equal(t, e[len(e)-1], got)
				e = e[:len(e)-1]
			}
		case r < 0.9:
			if len(e) > 0 {
				i := rand.Intn(len(e))
				require.Equal(t, e[i], d.RemoveAt(i))
				e = append(e[:i], e[i+1:]...)
			}
		default:
			if len(e) > 0 {
				i := rand.Intn(len(e))
				require.Equal(t, e[i], d.Get(i))
			}
		}
		require.Equal(t, len(e), d.Len())
	}
}
