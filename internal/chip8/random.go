package chip8

import "math/rand/v2"

// RandomSource provides the random bytes used by the CXKK instruction.
type RandomSource interface {
	RandomByte() byte
}

// RandomFunc adapts a function to a RandomSource.
type RandomFunc func() byte

// RandomByte returns the result of calling f.
func (f RandomFunc) RandomByte() byte {
	return f()
}

type randomSource struct {
	rnd *rand.Rand
}

// NewRandom returns a random source seeded from the runtime.
func NewRandom() RandomSource {
	return &randomSource{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededRandom returns a deterministic random source.
func NewSeededRandom(seed uint64) RandomSource {
	return &randomSource{
		rnd: rand.New(rand.NewPCG(seed, seed)),
	}
}

func (r *randomSource) RandomByte() byte {
	return byte(r.rnd.UintN(256))
}
