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

func TestSetBasic(t *testing.T) {
	s := NewSet[string](0)
	require.True(t, s.Add("a"))
	require.True(t, s.Add("b"))
	require.False(t, s.Add("a"))
	require.Equal(t, 2, s.Len())

	require.True(t, s.Contains("a"))
	require.False(t, s.Contains("c"))

	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))
	require.Equal(t, 1, s.Len())

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.False(t, s.Contains("b"))
}

func TestSetRandom(t *testing.T) {
	s := NewSet[int](0)
	e := make(map[int]struct{})
	for i := 0; i < 10000; i++ {
		k := rand.Intn(300)
		switch r := rand.Float64(); {
		case r < 0.5:
			_, present := e[k]
			require.Equal(t, !present, s.Add(k))
			e[k] = struct{}{}
		case r < 0.75:
			_, present := e[k]
			require.Equal(t, present, s.Remove(k))
			delete(e, k)
		default:
			_, present := e[k]
			require.Equal(t, present, s.Contains(k))
		}
		require.Equal(t, len(e), s.Len())
	}

	got := make(map[int]struct{})
	s.All(func(k int) bool {
		got[k] = struct{}{}
		return true
	})
	require.Equal(t, e, got)
}

func TestSetCaseInsensitive(t *testing.T) {
	s := NewSetFunc[string](CaseInsensitiveHasher{}, 0)
	require.True(t, s.Add("Hello"))
	require.False(t, s.Add("HELLO"))
	require.False(t, s.Add("hello"))
	require.Equal(t, 1, s.Len())
	require.True(t, s.Contains("hElLo"))
	require.True(t, s.Remove("HELLO"))
	require.Equal(t, 0, s.Len())
}

func TestSetSetHasher(t *testing.T) {
	s := NewSet[string](0)
	s.Add("Hello")
	s.SetHasher(CaseInsensitiveHasher{})
	require.Equal(t, 0, s.Len())
	s.Add("Hello")
	require.True(t, s.Contains("HELLO"))
}

func TestSetEnsureCapacity(t *testing.T) {
	s := NewSet[int](0)
	s.EnsureCapacity(100)
	for i := 0; i < 100; i++ {
		s.Add(i)
	}
	require.Equal(t, 100, s.Len())
}
