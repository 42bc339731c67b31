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

// Option configures a container while it is being constructed.
type Option interface {
	apply(*config)
}

type config struct {
	loadFactor float64
	backing    Backing
}

func defaultConfig() config {
	return config{
		loadFactor: defaultLoadFactor,
		backing:    BackingArray,
	}
}

type loadFactorOption float64

func (o loadFactorOption) apply(c *config) {
	c.loadFactor = float64(o)
}

// WithLoadFactor sets the fraction of table capacity that may be occupied
// before a resize is triggered. Valid values are in (0, 1]; constructors
// panic on anything else.
func WithLoadFactor(loadFactor float64) Option {
	return loadFactorOption(loadFactor)
}

// Backing selects the sequence implementation maintaining insertion order in
// the ordered map and set variants.
type Backing int

const (
	// BackingArray keeps order in a growable array. Append is O(1)
	// amortized; removal by index or value is O(n).
	BackingArray Backing = iota
	// BackingDeque keeps order in a ring-buffer deque, adding O(1) amortized
	// removal and insertion at the front.
	BackingDeque
	// BackingBag fills removal gaps with the last element instead of
	// shifting. Removal by index is O(1) but iteration order is only stable
	// while no removals occur.
	BackingBag
)

type backingOption Backing

func (o backingOption) apply(c *config) {
	c.backing = Backing(o)
}

// WithBacking selects the order-sequence implementation for ordered
// containers. Unordered containers ignore it.
func WithBacking(b Backing) Option {
	return backingOption(b)
}
