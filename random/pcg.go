// Package random implements the PCG32 generator (XSH RR variant) that feeds
// every stochastic decision in a render.
//
// Reference: PCG Random Number Generation for C, Melissa O'Neill,
// http://www.pcg-random.org (Apache License 2.0).
package random

const (
	multiplier = 6364136223846793005

	defaultState = 0x853c49e6748fea9b
	defaultInc   = 0xda3e39cb94b95bdb
)

// PCG32 holds a 64-bit state and an odd stream increment.
// It is not safe for concurrent use; give each goroutine its own instance.
type PCG32 struct {
	state uint64
	inc   uint64
}

// Default returns a generator with the reference PCG32 initializer.
func Default() *PCG32 {
	return &PCG32{state: defaultState, inc: defaultInc}
}

// New seeds a generator with an initial state and a stream selector,
// matching pcg32_srandom_r. Different seq values yield independent streams.
func New(initState, initSeq uint64) *PCG32 {
	p := &PCG32{inc: initSeq<<1 | 1}
	p.Uint32()
	p.state += initState
	p.Uint32()
	return p
}

// Uint32 advances the state and returns the next 32 random bits.
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.state = old*multiplier + (p.inc | 1)

	// output function uses the old state
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Uint64 combines two draws. With it PCG32 satisfies math/rand/v2.Source.
func (p *PCG32) Uint64() uint64 {
	hi := uint64(p.Uint32())
	return hi<<32 | uint64(p.Uint32())
}

// Float64 returns a uniform value in [0,1).
func (p *PCG32) Float64() float64 {
	return float64(p.Uint32()) / (1 << 32)
}

// Range returns a uniform value in [min,max).
func (p *PCG32) Range(min, max float64) float64 {
	return min + (max-min)*p.Float64()
}
