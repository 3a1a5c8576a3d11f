package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source is the random source used by the calculator. Only the
// resource-hack steal fraction draws from it, so pinning the source pins
// every calculator output.
type Source interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for concurrent calculators.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewSeededSource returns a deterministic source for tests and replays.
func NewSeededSource(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// NewSource returns a source seeded from crypto/rand.
func NewSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// FixedSource always returns the same fraction. Useful to pin the
// resource-hack roll at its bounds.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }
