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

func TestIteratorBasic(t *testing.T) {
	m := New[int, int](0)
	e := make(map[int]int)
	for i := 0; i < 100; i++ {
		m.Put(i, i*10)
		e[i] = i * 10
	}

	vals := make(map[int]int)
	it := m.Iterator()
	for it.HasNext() {
		k, v := it.Next()
		vals[k] = v
	}
	require.Equal(t, e, vals)

	// Exhausted: one more Next panics.
	require.Panics(t, func() { it.Next() })
}

func TestIteratorPooling(t *testing.T) {
	m := New[int, int](0)
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}

	// The pool holds two iterators and alternates between them.
	it1 := m.Iterator()
	it2 := m.Iterator()
	require.NotSame(t, it1, it2)
	it3 := m.Iterator()
	require.Same(t, it1, it3)

	// Acquiring invalidates the previously issued iterator.
	require.Panics(t, func() { it2.HasNext() })
	require.Panics(t, func() { it2.Next() })
	require.True(t, it3.HasNext())
}

func TestIteratorNested(t *testing.T) {
	m := New[int, int](0)
	for i := 0; i < 5; i++ {
		m.Put(i, i)
	}

	// Freestanding iterators are unaffected by pool churn, so nested
	// traversal works.
	pairs := 0
	outer := NewMapIterator(m)
	for outer.HasNext() {
		outer.Next()
		inner := NewMapIterator(m)
		for inner.HasNext() {
			inner.Next()
			pairs++
		}
	}
	require.Equal(t, 25, pairs)
}

func TestIteratorRemove(t *testing.T) {
	m := New[int, int](0)
	e := make(map[int]int)
	for i := 0; i < 100; i++ {
		m.Put(i, i)
		e[i] = i
	}

	// Remove every even key during iteration. Backward shifting moves
	// entries into vacated slots; the cursor re-scans from the gap so no
	// entry is skipped. (An entry shifted across the table's wrap point can
	// be visited a second time, so we assert coverage, not exact-once.)
	seen := make(map[int]bool)
	it := m.Iterator()
	for it.HasNext() {
		k, v := it.Next()
		seen[k] = true
		require.Equal(t, k, v)
		if k%2 == 0 {
			it.Remove()
			delete(e, k)
		}
	}
	require.Equal(t, 50, m.Len())
	require.Equal(t, 100, len(seen))
	require.Equal(t, e, toBuiltinMap(m))
}

func TestIteratorRemoveAll(t *testing.T) {
	m := NewFunc[int, int](constHasher{h: 7}, 0)
	for i := 0; i < 50; i++ {
		m.Put(i, i)
	}
	it := m.Iterator()
	for it.HasNext() {
		it.Next()
		it.Remove()
	}
	require.Equal(t, 0, m.Len())
}

func TestIteratorRemoveMisuse(t *testing.T) {
	m := New[int, int](0)
	m.Put(1, 1)

	// Remove before any Next.
	it := m.Iterator()
	require.Panics(t, func() { it.Remove() })

	// Double Remove of the same entry.
	it = m.Iterator()
	it.Next()
	it.Remove()
	require.Panics(t, func() { it.Remove() })
}

func TestIteratorReset(t *testing.T) {
	m := New[int, int](0)
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	it := NewMapIterator(m)
	for it.HasNext() {
		it.Next()
	}
	it.Reset()
	n := 0
	for it.HasNext() {
		it.Next()
		n++
	}
	require.Equal(t, 10, n)
}

func TestIteratorRandomRemove(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		m := New[int, int](0)
		e := make(map[int]int)
		for i := 0; i < 500; i++ {
			m.Put(i, i)
			e[i] = i
		}
		it := m.Iterator()
		for it.HasNext() {
			k, _ := it.Next()
			if rand.Float64() < 0.3 {
				it.Remove()
				delete(e, k)
			}
		}
		require.Equal(t, len(e), m.Len())
		require.Equal(t, e, toBuiltinMap(m))
	}
}

func TestSetIterator(t *testing.T) {
	s := NewSet[int](0)
	for i := 0; i < 20; i++ {
		s.Add(i)
	}

	seen := make(map[int]bool)
	it := s.Iterator()
	for it.HasNext() {
		k := it.Next()
		seen[k] = true
		if k%2 == 1 {
			it.Remove()
		}
	}
	require.Equal(t, 20, len(seen))
	require.Equal(t, 10, s.Len())
	for i := 0; i < 20; i += 2 {
		require.True(t, s.Contains(i))
	}

	// Pooled pair invalidation applies to set iterators too.
	it1 := s.Iterator()
	it2 := s.Iterator()
	require.Panics(t, func() { it1.Next() })
	require.True(t, it2.HasNext())
}
