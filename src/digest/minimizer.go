package digest

// Minimizer is the interface satisfied by the three minimizer selection schemes
type Minimizer interface {
	RollNextMinimizer() bool
	RollOne() bool
	NewSeq(seq []byte, pos int) error
	AppendSeq(seq []byte) error
	GetPos() int
	GetK() uint
	GetFhash() uint64
	GetRhash() uint64
	GetChash() uint64
	GetMinimizedHash() uint
	SelectedHash() uint64
	IsValidHash() bool
}

// RollMinimizers rolls the selector forward, collecting the stream positions of up to n
// minimizers. It stops early when the stream is exhausted.
func RollMinimizers(m Minimizer, n int) []int {
	positions := make([]int, 0, n)
	for len(positions) < n && m.RollNextMinimizer() {
		positions = append(positions, m.GetPos())
	}
	return positions
}
