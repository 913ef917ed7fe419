// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package utils

import (
	"math/rand"
	"sync"
	"time"
)

// LockedRand is a *rand.Rand that can be shared between goroutines.
type LockedRand struct {
	sync.Mutex
	rand *rand.Rand
}

// NewLockedRand returns a LockedRand seeded with seed; the same seed
// produces the same sequence.
func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{rand: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a LockedRand seeded from the clock.
func NewTimeSeededRand() *LockedRand {
	return NewLockedRand(time.Now().UnixNano())
}

// Intn returns a uniformly distributed int in [0, n); it panics if n <= 0.
func (lr *LockedRand) Intn(n int) int {
	lr.Lock()
	defer lr.Unlock()
	return lr.rand.Intn(n)
}
