package selector

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed numbers in [0, 1).
// It must be safe for concurrent use.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// GlobalSource returns a Source backed by the process-wide generator
// of math/rand/v2, which is already safe for concurrent use.
func GlobalSource() Source {
	return globalSource{}
}

// LockedSource is a seeded, reproducible Source guarded by a mutex.
type LockedSource struct {
	rng *rand.Rand
	mu  *sync.Mutex
}

func NewLockedSource(seed1, seed2 uint64) *LockedSource {
	return &LockedSource{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
		mu:  &sync.Mutex{},
	}
}

func (ls *LockedSource) Float64() float64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.rng.Float64()
}
