package digest

import "testing"

// drainMinimizer collects every position a selector reports until the stream is exhausted
func drainMinimizer(m Minimizer) []int {
	positions := make([]int, 0)
	for m.RollNextMinimizer() {
		positions = append(positions, m.GetPos())
	}
	return positions
}

// intSliceEqual returns true if two []int are identical
func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// the batch helper must stop at the requested count and again at the end of the stream
func TestRollMinimizers(t *testing.T) {
	m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	first := RollMinimizers(m, 3)
	if len(first) != 3 {
		t.Fatalf("expected 3 minimizers, got %d", len(first))
	}
	rest := RollMinimizers(m, len(tSeq))
	all := append(first, rest...)
	fresh, err := NewModMin(tSeq, tK, 0, CanonicalHash, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(all, drainMinimizer(fresh)) {
		t.Fatal("collecting in batches should report the same minimizers as draining")
	}
	if len(RollMinimizers(m, 1)) != 0 {
		t.Fatal("an exhausted selector should not report more minimizers")
	}
}
