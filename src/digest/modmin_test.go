package digest

import "testing"

// refModMin enumerates the positions a modular minimizer scheme must select, straight from
// the oracle hashes
func refModMin(seq []byte, k int, minimizedHash uint, mod, congruence uint64) []int {
	positions := make([]int, 0)
	for _, rk := range refKmers(seq, k, minimizedHash) {
		if rk.valid && rk.sel%mod == congruence {
			positions = append(positions, rk.pos)
		}
	}
	return positions
}

// begin the tests
func TestModMinConstruction(t *testing.T) {
	if _, err := NewModMin(tSeq, tK, 0, CanonicalHash, 0, 0); err != ErrBadConstruction {
		t.Fatal("a modulus of 0 should fail construction")
	}
	if _, err := NewModMin(tSeq, 0, 0, CanonicalHash, 4, 0); err != ErrBadConstruction {
		t.Fatal("a k of 0 should fail construction")
	}
	m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if m.GetMod() != 4 || m.GetCongruence() != 1 {
		t.Fatal("constructor did not store the modulus and congruence")
	}
}

// every position in the congruence class must be reported, and nothing else
func TestModMinSelection(t *testing.T) {
	for _, seq := range [][]byte{tSeq, tSeqGaps} {
		for _, mod := range []uint64{1, 2, 4, 8} {
			m, err := NewModMin(seq, tK, 0, CanonicalHash, mod, 0)
			if err != nil {
				t.Fatal(err)
			}
			want := refModMin(seq, int(tK), CanonicalHash, mod, 0)
			got := drainMinimizer(m)
			if !intSliceEqual(got, want) {
				t.Fatalf("selection with modulus %d does not match the oracle: got %v, want %v", mod, got, want)
			}
		}
	}
}

// the scheme must honour the choice of minimized hash
func TestModMinHashChoices(t *testing.T) {
	for _, minimizedHash := range []uint{CanonicalHash, ForwardHash, ReverseHash} {
		m, err := NewModMin(tSeq, tK, 0, minimizedHash, 2, 0)
		if err != nil {
			t.Fatal(err)
		}
		want := refModMin(tSeq, int(tK), minimizedHash, 2, 0)
		if !intSliceEqual(drainMinimizer(m), want) {
			t.Fatalf("selection with minimized hash %d does not match the oracle", minimizedHash)
		}
	}
}

// no reported k-mer may overlap an unhashable base, and selection must resume after it
func TestModMinInvalidRegion(t *testing.T) {
	m, err := NewModMin([]byte("ACGNACGT"), 3, 0, CanonicalHash, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(drainMinimizer(m), []int{0, 4, 5}) {
		t.Fatal("k-mers overlapping the N must be skipped and selection must resume past it")
	}
}

func TestModMinAppendContinuity(t *testing.T) {
	whole, err := NewModMin(tSeqGaps, tK, 0, CanonicalHash, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := drainMinimizer(whole)
	for split := 1; split < len(tSeqGaps); split++ {
		m, err := NewModMin(tSeqGaps[:split], tK, 0, CanonicalHash, 2, 0)
		if err != nil {
			t.Fatal(err)
		}
		got := drainMinimizer(m)
		if err := m.AppendSeq(tSeqGaps[split:]); err != nil {
			t.Fatalf("append failed at split %d: %v", split, err)
		}
		got = append(got, drainMinimizer(m)...)
		if !intSliceEqual(got, want) {
			t.Fatalf("split at %d changed the selection: got %v, want %v", split, got, want)
		}
	}
}

func TestModMinEndOfStream(t *testing.T) {
	m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	drainMinimizer(m)
	for i := 0; i < 3; i++ {
		if m.RollNextMinimizer() {
			t.Fatal("an exhausted selector must keep reporting false")
		}
	}
}

func TestModMinNewSeq(t *testing.T) {
	m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	drainMinimizer(m)
	if err := m.NewSeq(tSeqGaps, 0); err != nil {
		t.Fatal(err)
	}
	fresh, err := NewModMin(tSeqGaps, tK, 0, CanonicalHash, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(drainMinimizer(m), drainMinimizer(fresh)) {
		t.Fatal("a re-homed selector should behave like a fresh one")
	}
}

func TestModMinCopy(t *testing.T) {
	m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	m.RollNextMinimizer()
	cp := m.Copy()
	if !intSliceEqual(drainMinimizer(m), drainMinimizer(cp)) {
		t.Fatal("a copied selector should repeat the original's remaining selections")
	}
}

// benchmark the modular minimizer scheme
func BenchmarkModMin(b *testing.B) {
	for n := 0; n < b.N; n++ {
		m, err := NewModMin(tSeq, tK, 0, CanonicalHash, 4, 0)
		if err != nil {
			b.Fatal(err)
		}
		for m.RollNextMinimizer() {
		}
	}
}
