package code

import "testing"

func TestRandomStaysInRange(t *testing.T) {
	g := NewGenerator(Default())
	for i := 0; i < 10000; i++ {
		c := g.Random()
		if !g.Range().Contains(c) {
			t.Fatalf("code %d outside [%d, %d]", c, DefaultMin, DefaultMax)
		}
	}
}

func TestFirstFreeWrapsAround(t *testing.T) {
	g := NewGeneratorWithSource(Range{Min: 10, Max: 14}, func(n int) int { return 3 })
	taken := map[int]bool{13: true, 14: true}
	c, ok := g.FirstFree(func(code int) bool { return taken[code] })
	if !ok || c != 10 {
		t.Errorf("wrong code expected: %d got: %d (ok=%v)", 10, c, ok)
	}
}

func TestFirstFreeExhausted(t *testing.T) {
	g := NewGenerator(Range{Min: 1, Max: 3})
	_, ok := g.FirstFree(func(int) bool { return true })
	if ok {
		t.Errorf("expected exhausted range")
	}
}
