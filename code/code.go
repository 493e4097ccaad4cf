package code

import (
	"math/rand"
	"time"
)

const (
	DefaultMin = 1000
	DefaultMax = 9999
)

// Range is an inclusive range of numeric room codes.
type Range struct {
	Min int
	Max int
}

func Default() Range {
	return Range{Min: DefaultMin, Max: DefaultMax}
}

func (r Range) Size() int {
	return r.Max - r.Min + 1
}

func (r Range) Valid() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

func (r Range) Contains(code int) bool {
	return code >= r.Min && code <= r.Max
}

// Generator draws codes from a Range. It is not safe for concurrent use.
type Generator struct {
	rng  Range
	intn func(n int) int
}

func NewGenerator(rng Range) *Generator {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{rng: rng, intn: r.Intn}
}

// NewGeneratorWithSource is used by tests to make draws reproducible.
func NewGeneratorWithSource(rng Range, intn func(n int) int) *Generator {
	return &Generator{rng: rng, intn: intn}
}

func (g *Generator) Range() Range {
	return g.rng
}

func (g *Generator) Random() int {
	return g.rng.Min + g.intn(g.rng.Size())
}

// FirstFree returns the first code, walking the whole range once from a
// random offset, for which taken reports false.
func (g *Generator) FirstFree(taken func(code int) bool) (int, bool) {
	size := g.rng.Size()
	start := g.intn(size)
	for i := 0; i < size; i++ {
		c := g.rng.Min + (start+i)%size
		if !taken(c) {
			return c, true
		}
	}
	return 0, false
}
