package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// All call sites that need reproducible deals (tests, --seed) go through it.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewRandom returns a *rand.Rand seeded from the operating system's entropy
// source, falling back to the wall clock if that is unavailable.
func NewRandom() *rand.Rand {
	return New(RandomSeed())
}

// RandomSeed returns a fresh seed suitable for New. Callers log it so a
// table's deals can be replayed.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
