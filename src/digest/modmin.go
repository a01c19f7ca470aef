package digest

// ModMin selects the k-mers whose minimized hash falls in a fixed congruence class. With a
// modulus of m roughly one in m k-mers is selected, without any windowing.
type ModMin struct {
	Digester
	mod         uint64
	congruence  uint64
	lastEmitted int
}

// NewModMin returns a modular minimizer scheme over the given sequence. The modulus must be
// at least 1; a congruence outside [0,mod) simply never selects anything.
func NewModMin(seq []byte, k uint, pos int, minimizedHash uint, mod, congruence uint64) (*ModMin, error) {
	if mod == 0 {
		return nil, ErrBadConstruction
	}
	d, err := NewDigester(seq, k, pos, minimizedHash)
	if err != nil {
		return nil, err
	}
	return &ModMin{
		Digester:    *d,
		mod:         mod,
		congruence:  congruence,
		lastEmitted: -1,
	}, nil
}

// GetMod returns the modulus
func (m *ModMin) GetMod() uint64 {
	return m.mod
}

// GetCongruence returns the congruence class
func (m *ModMin) GetCongruence() uint64 {
	return m.congruence
}

// RollNextMinimizer rolls the window until a k-mer in the congruence class is seated,
// reporting false once the stream is exhausted. The k-mer seated on construction is the first
// candidate; after a hit the window advances before testing again, so reported positions are
// strictly increasing.
func (m *ModMin) RollNextMinimizer() bool {
	for {
		if m.validHash && m.pos != m.lastEmitted {
			if m.SelectedHash()%m.mod == m.congruence {
				m.lastEmitted = m.pos
				return true
			}
		}
		if !m.RollOne() {
			return false
		}
	}
}

// NewSeq re-homes the selector onto a fresh sequence and forgets the selection history
func (m *ModMin) NewSeq(seq []byte, pos int) error {
	if err := m.Digester.NewSeq(seq, pos); err != nil {
		return err
	}
	m.lastEmitted = -1
	return nil
}

// Copy returns an independent selector that will continue from the same point
func (m *ModMin) Copy() *ModMin {
	nm := *m
	nm.Digester = *m.Digester.Copy()
	return &nm
}
