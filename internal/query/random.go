package query

import "math/rand"

// RandomSource supplies the filler values used when the provider fails.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
	// Float64 returns a value in [0, 1)
	Float64() float64
}

type globalRand struct{}

func (globalRand) Intn(n int) int   { return rand.Intn(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRandom draws from the process-wide math/rand source
var DefaultRandom RandomSource = globalRand{}
