package cfr

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// NewWorkerRNG returns a *rand.Rand seeded independently of any other
// call to NewWorkerRNG. Every training worker and every game's own deal
// gets one of these rather than sharing a single generator: a shared
// global math/rand source would serialize every traversal's random draws
// behind one lock, and would make the "one RNG per worker" requirement
// this package's games and learner both rely on impossible to honor.
func NewWorkerRNG() *mathrand.Rand {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		panic(err)
	}

	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return mathrand.New(mathrand.NewSource(seed))
}
