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
	"hash/maphash"
	"math/bits"
	"unicode"
	"unicode/utf8"
)

// A Hasher defines a hash function and an equivalence relation over keys of
// type K. Tables derive a key's slot from Hash and match candidate slots with
// Equal.
//
// Implementations must guarantee that Equal(a, b) implies
// Hash(seed, a) == Hash(seed, b) for the same seed. A strategy that breaks
// this rule corrupts any table using it: entries become unreachable even
// though they occupy slots.
//
// The seed is the owning table's per-instance maphash seed. Strategies that
// compute their own mixing (such as the folded string hashers below) may
// ignore it; tables additionally decorrelate placements via hash multiplier
// rotation, so seed use is not required for probe-flooding resistance.
type Hasher[K any] interface {
	Hash(seed maphash.Seed, key K) uint64
	Equal(a, b K) bool
}

// defaultHasher hashes comparable keys with the runtime's hash and compares
// them with ==.
type defaultHasher[K comparable] struct{}

func (defaultHasher[K]) Hash(seed maphash.Seed, key K) uint64 {
	return maphash.Comparable(seed, key)
}

func (defaultHasher[K]) Equal(a, b K) bool {
	return a == b
}

// IdentityHasher is a Hasher for pointer keys that hashes and compares the
// pointer itself, never the pointed-to value. It pins reference-identity
// semantics for a table regardless of what other strategies exist for *T:
// two distinct allocations holding equal contents are distinct keys.
type IdentityHasher[T any] struct{}

func (IdentityHasher[T]) Hash(seed maphash.Seed, key *T) uint64 {
	return maphash.Comparable(seed, key)
}

func (IdentityHasher[T]) Equal(a, b *T) bool {
	return a == b
}

// Odd constants for the folded string hash network below.
const (
	foldMul0 = 0xC6BC279692B5C323
	foldMul1 = 0x9E3779B97F4A7C15
	foldMul2 = 0xAC564B05EDC620F5
	foldMul3 = 0xD1342543DE82EF95
	foldSeed = 0xEBEDEED9D803C815
)

// avalanche finishes a folded hash by xoring it with shifted copies of
// itself, so that the high bits used for placement depend on every input
// position.
func avalanche(h uint64) uint64 {
	h ^= h >> 29
	h *= foldMul1
	h ^= h >> 32
	return h
}

// CaseInsensitiveHasher is a Hasher[string] that ignores letter case. "Hello"
// and "HELLO" are the same key and hash identically.
//
// Hashing folds four case-normalized runes at a time through a
// multiply-rotate-xor network for throughput; equality walks both strings one
// rune at a time, so strings of different rune counts are unequal. Case is
// normalized with unicode simple folding (upper then lower), matching the
// equality used by strings.EqualFold for the common scripts.
type CaseInsensitiveHasher struct{}

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

func (CaseInsensitiveHasher) Hash(_ maphash.Seed, key string) uint64 {
	h := uint64(foldSeed)
	var block [4]uint64
	n := 0
	count := 0
	for _, r := range key {
		block[n] = uint64(foldRune(r))
		n++
		count++
		if n == 4 {
			h = bits.RotateLeft64(h^block[0]*foldMul0, 25)
			h = bits.RotateLeft64(h^block[1]*foldMul1, 29)
			h = bits.RotateLeft64(h^block[2]*foldMul2, 31)
			h = bits.RotateLeft64(h^block[3]*foldMul3, 37)
			n = 0
		}
	}
	for i := 0; i < n; i++ {
		h = bits.RotateLeft64(h^block[i]*foldMul0, 25)
	}
	return avalanche(h ^ uint64(count)*foldMul2)
}

func (CaseInsensitiveHasher) Equal(a, b string) bool {
	for len(a) > 0 {
		if len(b) == 0 {
			return false
		}
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if foldRune(ra) != foldRune(rb) {
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return len(b) == 0
}

// FilteredStringHasher is a Hasher[string] that hashes and compares only the
// runes admitted by Keep, each transformed by Edit. With Keep rejecting
// punctuation and Edit folding case, "device-ID" and "DEVICEID" become the
// same key.
//
// A nil Keep admits every rune; a nil Edit leaves runes unchanged.
//
// Keep and Edit participate in placement, so mutating either while the
// hasher is installed in a table invalidates every existing entry's slot.
// Install a reconfigured hasher through the table's SetHasher, which clears
// the table first.
type FilteredStringHasher struct {
	Keep func(rune) bool
	Edit func(rune) rune
}

func (f FilteredStringHasher) Hash(_ maphash.Seed, key string) uint64 {
	h := uint64(foldSeed)
	count := 0
	for _, r := range key {
		if f.Keep != nil && !f.Keep(r) {
			continue
		}
		if f.Edit != nil {
			r = f.Edit(r)
		}
		h = bits.RotateLeft64(h^uint64(r)*foldMul0, 29)
		count++
	}
	return avalanche(h ^ uint64(count)*foldMul2)
}

func (f FilteredStringHasher) Equal(a, b string) bool {
	ra, restA, okA := f.nextKept(a)
	rb, restB, okB := f.nextKept(b)
	for okA && okB {
		if ra != rb {
			return false
		}
		ra, restA, okA = f.nextKept(restA)
		rb, restB, okB = f.nextKept(restB)
	}
	// A sequence that ran out never matches a surviving rune in the other.
	return okA == okB
}

// nextKept returns the first surviving (edited) rune of s and the remainder
// of s after it.
func (f FilteredStringHasher) nextKept(s string) (rune, string, bool) {
	for len(s) > 0 {
		r, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		if f.Keep != nil && !f.Keep(r) {
			continue
		}
		if f.Edit != nil {
			r = f.Edit(r)
		}
		return r, s, true
	}
	return 0, "", false
}

// FilteredSliceHasher is a Hasher[[]E] that hashes and compares slices by the
// sub-elements admitted by Keep, each transformed by Edit. Surviving elements
// are hashed with the runtime hash under the table's seed and folded into a
// rolling hash; equality compares survivors position by position.
//
// The same reconfiguration contract as FilteredStringHasher applies: swap a
// reconfigured hasher in via SetHasher, never mutate one in place.
type FilteredSliceHasher[E comparable] struct {
	Keep func(E) bool
	Edit func(E) E
}

func (f FilteredSliceHasher[E]) Hash(seed maphash.Seed, key []E) uint64 {
	h := uint64(foldSeed)
	count := 0
	for _, e := range key {
		if f.Keep != nil && !f.Keep(e) {
			continue
		}
		if f.Edit != nil {
			e = f.Edit(e)
		}
		h = bits.RotateLeft64(h^maphash.Comparable(seed, e)*foldMul0, 29)
		count++
	}
	return avalanche(h ^ uint64(count)*foldMul2)
}

func (f FilteredSliceHasher[E]) Equal(a, b []E) bool {
	i, j := 0, 0
	for {
		ea, okA := f.next(a, &i)
		eb, okB := f.next(b, &j)
		if !okA || !okB {
			return okA == okB
		}
		if ea != eb {
			return false
		}
	}
}

func (f FilteredSliceHasher[E]) next(s []E, i *int) (e E, ok bool) {
	for *i < len(s) {
		e = s[*i]
		*i++
		if f.Keep != nil && !f.Keep(e) {
			continue
		}
		if f.Edit != nil {
			e = f.Edit(e)
		}
		return e, true
	}
	return e, false
}
