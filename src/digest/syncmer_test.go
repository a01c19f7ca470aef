package digest

import "testing"

// refSyncmer slides a window over every run and reports the leading position whenever its
// k-mer attains the window minimum
func refSyncmer(seq []byte, k int, minimizedHash uint, w int) []int {
	positions := make([]int, 0)
	for _, run := range kmerRuns(seq, k, minimizedHash) {
		for i := 0; i+w <= len(run); i++ {
			min := run[i].sel
			for j := i + 1; j < i+w; j++ {
				if run[j].sel < min {
					min = run[j].sel
				}
			}
			if run[i].sel == min {
				positions = append(positions, run[i].pos)
			}
		}
	}
	return positions
}

// begin the tests
func TestSyncmerConstruction(t *testing.T) {
	if _, err := NewSyncmer(tSeq, tK, 0, CanonicalHash, 0); err != ErrBadConstruction {
		t.Fatal("a window of 0 k-mers should fail construction")
	}
	s, err := NewSyncmer(tSeq, tK, 0, CanonicalHash, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.GetWindowSize() != 4 {
		t.Fatal("constructor did not store the window size")
	}
}

// a position must be reported exactly when its k-mer attains the window minimum
func TestSyncmerSelection(t *testing.T) {
	for _, seq := range [][]byte{tSeq, tSeqGaps} {
		for _, w := range []uint{1, 2, 3, 5} {
			s, err := NewSyncmer(seq, tK, 0, CanonicalHash, w)
			if err != nil {
				t.Fatal(err)
			}
			want := refSyncmer(seq, int(tK), CanonicalHash, int(w))
			got := drainMinimizer(s)
			if !intSliceEqual(got, want) {
				t.Fatalf("window of %d does not match the oracle: got %v, want %v", w, got, want)
			}
		}
	}
}

// with a window of two k-mers a position is reported exactly when its hash does not exceed
// its right neighbour's
func TestSyncmerNeighbourPairs(t *testing.T) {
	seq := []byte("ACGTACG")
	s, err := NewSyncmer(seq, 3, 0, CanonicalHash, 2)
	if err != nil {
		t.Fatal(err)
	}
	kmers := validRefKmers(seq, 3, CanonicalHash)
	want := make([]int, 0)
	for i := 0; i+1 < len(kmers); i++ {
		if kmers[i].sel <= kmers[i+1].sel {
			want = append(want, kmers[i].pos)
		}
	}
	if !intSliceEqual(drainMinimizer(s), want) {
		t.Fatal("pairwise syncmer selection does not match the oracle")
	}
}

// a window of one k-mer degenerates to reporting every hashable k-mer
func TestSyncmerSingleKmerWindow(t *testing.T) {
	s, err := NewSyncmer(tSeqGaps, tK, 0, CanonicalHash, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]int, 0)
	for _, rk := range validRefKmers(tSeqGaps, int(tK), CanonicalHash) {
		want = append(want, rk.pos)
	}
	if !intSliceEqual(drainMinimizer(s), want) {
		t.Fatal("a window of 1 should report every hashable k-mer")
	}
}

// reporting a syncmer must seat the digester on the leading k-mer
func TestSyncmerSeatsEmission(t *testing.T) {
	s, err := NewSyncmer(tSeq, tK, 0, CanonicalHash, 3)
	if err != nil {
		t.Fatal(err)
	}
	oracle := refKmers(tSeq, int(tK), CanonicalHash)
	for s.RollNextMinimizer() {
		want := oracle[s.GetPos()]
		if !s.IsValidHash() || s.GetChash() != want.c {
			t.Fatalf("reported hashes at position %d do not match the oracle", s.GetPos())
		}
	}
}

func TestSyncmerAppendContinuity(t *testing.T) {
	for _, w := range []uint{2, 4} {
		whole, err := NewSyncmer(tSeqGaps, tK, 0, CanonicalHash, w)
		if err != nil {
			t.Fatal(err)
		}
		want := drainMinimizer(whole)
		for split := 1; split < len(tSeqGaps); split++ {
			s, err := NewSyncmer(tSeqGaps[:split], tK, 0, CanonicalHash, w)
			if err != nil {
				t.Fatal(err)
			}
			got := drainMinimizer(s)
			if err := s.AppendSeq(tSeqGaps[split:]); err != nil {
				t.Fatalf("append failed at split %d: %v", split, err)
			}
			got = append(got, drainMinimizer(s)...)
			if !intSliceEqual(got, want) {
				t.Fatalf("split at %d changed the selection: got %v, want %v", split, got, want)
			}
		}
	}
}

func TestSyncmerEndOfStream(t *testing.T) {
	s, err := NewSyncmer(tSeq, tK, 0, CanonicalHash, 2)
	if err != nil {
		t.Fatal(err)
	}
	drainMinimizer(s)
	for i := 0; i < 3; i++ {
		if s.RollNextMinimizer() {
			t.Fatal("an exhausted selector must keep reporting false")
		}
	}
}

func TestSyncmerCopy(t *testing.T) {
	s, err := NewSyncmer(tSeqGaps, tK, 0, CanonicalHash, 2)
	if err != nil {
		t.Fatal(err)
	}
	s.RollNextMinimizer()
	cp := s.Copy()
	if !intSliceEqual(drainMinimizer(s), drainMinimizer(cp)) {
		t.Fatal("a copied selector should repeat the original's remaining selections")
	}
}

// benchmark the syncmer scheme
func BenchmarkSyncmer(b *testing.B) {
	for n := 0; n < b.N; n++ {
		s, err := NewSyncmer(tSeq, tK, 0, CanonicalHash, 4)
		if err != nil {
			b.Fatal(err)
		}
		for s.RollNextMinimizer() {
		}
	}
}
