// Package id generates ULIDs for runs and trades.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out ULIDs stamped with caller supplied times. IDs from a
// generator built with the same seed and fed the same times are identical,
// which keeps replayed simulations and their journals byte-for-byte stable.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator returns a generator whose entropy is derived from seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// At returns a ULID for time t. Within one millisecond IDs stay
// lexicographically increasing.
func (g *Generator) At(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), g.entropy)
	if err != nil {
		// Only monotonic overflow within a single millisecond can get here.
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(randomSeed())

// New returns a ULID for the current time from an unpredictable stream.
func New() string {
	return std.At(time.Now())
}

func randomSeed() int64 {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}
