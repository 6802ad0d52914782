package board

// ZobristKeys holds one random key per (cell, stone) pair.
// Keys for Empty and Boundary are zero, so an empty board hashes to 0.
type ZobristKeys [StorageSize][Boundary + 1]uint64

// Default Zobrist table shared by every board.
// Generated with a fixed seed so hashes are reproducible across runs.
var defaultKeys = NewZobristKeys(0x98F107A2BEEF1234)

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = 1
	}
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewZobristKeys generates a key table from seed.
func NewZobristKeys(seed uint64) *ZobristKeys {
	rng := newPRNG(seed)
	keys := new(ZobristKeys)
	for cell := range keys {
		keys[cell][Engine] = rng.next()
		keys[cell][Forbidden] = rng.next()
		keys[cell][Player] = rng.next()
	}
	return keys
}

// Key returns the key for stone s on cell c.
func (z *ZobristKeys) Key(c Cell, s Stone) uint64 {
	return z[c][s]
}
