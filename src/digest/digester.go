/*
	the digest package contains a streaming k-mer minimizer engine for DNA sequences.

	A Digester slides a k-mer window along a DNA stream and maintains the forward, reverse
	complement and canonical ntHash values for the seated k-mer. The stream can be longer than
	any single buffer: successive chunks are logically concatenated with AppendSeq and the
	window is allowed to straddle chunk joins. Minimizer selection schemes (ModMin, WindowMin,
	Syncmer) are layered on top of the Digester and differ only in how they pick the next
	k-mer to report.
*/
package digest

import (
	"errors"

	"github.com/will-rowe/digest/src/nthash"
)

// the hash minimized by a selection scheme
const (
	CanonicalHash uint = iota
	ForwardHash
	ReverseHash
)

// ErrBadConstruction is issued when a digester is created or re-homed with bad parameters
var ErrBadConstruction = errors.New("digest: k-mer size must be greater than 0, the start position must be inside the sequence, and the minimized hash must be canonical, forward or reverse")

// ErrNotRolledTillEnd is issued when a sequence is appended before the current one is exhausted
var ErrNotRolledTillEnd = errors.New("digest: iterator must reach the end of the current sequence before another sequence can be appended")

// seqNT4table maps a base to a 2-bit encoding (4 marks a base the digester cannot hash)
var seqNT4table [256]uint8

// init prepares the base lookup table
func init() {
	for i := range seqNT4table {
		seqNT4table[i] = 4
	}
	seqNT4table['A'], seqNT4table['a'] = 0, 0
	seqNT4table['C'], seqNT4table['c'] = 1, 1
	seqNT4table['G'], seqNT4table['g'] = 2, 2
	seqNT4table['T'], seqNT4table['t'] = 3, 3
}

// validBase reports whether the digester can hash the given base
func validBase(b byte) bool {
	return seqNT4table[b] < 4
}

// Digester holds the sliding k-mer window state. It does not copy the sequence it is given;
// the caller must keep the backing buffer alive until the digester is re-homed with NewSeq,
// handed the next chunk with AppendSeq, or dropped.
type Digester struct {
	seq           []byte // current chunk of the sequence being digested (borrowed)
	k             int    // length of the k-mer window
	minimizedHash uint   // the hash compared by the selection scheme
	pos           int    // position of the seated k-mer within the entirety of the digested stream
	offset        int    // stream position of seq[0]
	start         int    // next base of seq to be evicted from the window (junk while couts is not empty)
	end           int    // next base of seq to be ingested into the window
	fhash         uint64 // forward hash
	rhash         uint64 // reverse complement hash
	chash         uint64 // canonical hash
	validHash     bool   // true when the hashes describe the k-mer seated at pos
	couts         []byte // bases left behind by AppendSeq, awaiting eviction front first
}

// NewDigester returns a digester seated on the first full window of hashable bases at or
// after pos. If the chunk holds no such window the digester starts out without a valid hash;
// rolling can resume once more sequence is appended.
func NewDigester(seq []byte, k uint, pos int, minimizedHash uint) (*Digester, error) {
	if k == 0 || pos < 0 || pos >= len(seq) || minimizedHash > ReverseHash {
		return nil, ErrBadConstruction
	}
	d := &Digester{
		seq:           seq,
		k:             int(k),
		minimizedHash: minimizedHash,
		pos:           pos,
		start:         pos,
		end:           pos + int(k),
		couts:         make([]byte, 0, k),
	}
	d.initHash()
	return d, nil
}

// initHash scans forward from the start cursor for the first full window of hashable bases
// and seats the hashes there. On failure the cursors are left just past the last base that
// ruled a window out, so that a later AppendSeq can pick the scan up across the chunk join.
func (d *Digester) initHash() bool {
	p := d.start
	run := 0
	for i := p; i < len(d.seq); i++ {
		if !validBase(d.seq[i]) {
			run = 0
			p = i + 1
			continue
		}
		run++
		if run == d.k {
			d.seat(p)
			return true
		}
	}
	d.start = p
	d.end = p + d.k
	d.validHash = false
	return false
}

// seat computes fresh hashes for the window starting at index p of the current chunk
func (d *Digester) seat(p int) {
	d.fhash, d.rhash = nthash.Init(d.seq[p : p+d.k])
	d.chash = nthash.Canonical(d.fhash, d.rhash)
	d.start = p
	d.end = p + d.k
	d.pos = d.offset + p
	d.validHash = true
}

// RollOne advances the window by one base and reports whether a valid k-mer is now seated.
// If the incoming base cannot be hashed, every window touching it is dead, so the digester
// jumps ahead to the next full window of hashable bases (or to the end of the chunk). Once
// the chunk is exhausted RollOne keeps returning false until more sequence arrives.
func (d *Digester) RollOne() bool {
	if d.end >= len(d.seq) {
		d.validHash = false
		return false
	}
	in := d.seq[d.end]
	if !validBase(in) {
		d.validHash = false
		d.couts = d.couts[:0]
		d.start = d.end + 1
		return d.initHash()
	}
	var out byte
	if len(d.couts) > 0 {
		out = d.couts[0]
		d.couts = d.couts[1:]
	} else {
		out = d.seq[d.start]
		d.start++
	}
	d.fhash, d.rhash = nthash.Roll(uint(d.k), out, in, d.fhash, d.rhash)
	d.chash = nthash.Canonical(d.fhash, d.rhash)
	d.end++
	d.pos++
	return true
}

// NewSeq re-homes the digester onto a fresh sequence, resetting the stream position. The
// k-mer size and minimized hash are kept.
func (d *Digester) NewSeq(seq []byte, pos int) error {
	if pos < 0 || pos >= len(seq) {
		return ErrBadConstruction
	}
	d.seq = seq
	d.pos = pos
	d.offset = 0
	d.start = pos
	d.end = pos + d.k
	d.validHash = false
	d.couts = d.couts[:0]
	d.initHash()
	return nil
}

// AppendSeq logically concatenates another chunk onto the digested stream. The previous
// chunk is dropped but any of its bases still inside the window are carried over, so rolling
// proceeds as if the two chunks were one sequence. The iterator must have run to the end of
// the previous chunk first.
func (d *Digester) AppendSeq(seq []byte) error {
	if d.end < len(d.seq) {
		return ErrNotRolledTillEnd
	}
	// carry the in-window tail of the old chunk over the join
	if len(d.couts) > 0 {
		d.couts = append(d.couts, d.seq...)
	} else if d.start < len(d.seq) {
		d.couts = append(d.couts, d.seq[d.start:]...)
	}
	d.offset += len(d.seq)
	d.seq = seq
	d.start = 0
	if d.validHash {
		// the seated window now lives entirely in couts
		d.end = 0
		return nil
	}
	if len(d.couts) == 0 {
		d.initHash()
		return nil
	}
	// try to seat the first window spanning the join
	need := d.k - len(d.couts)
	checked := need
	if checked > len(d.seq) {
		checked = len(d.seq)
	}
	for i := 0; i < checked; i++ {
		if !validBase(d.seq[i]) {
			// the carried bases cannot reach a full window, restart past the bad base
			d.couts = d.couts[:0]
			d.start = i + 1
			d.initHash()
			return nil
		}
	}
	if need > len(d.seq) {
		// still short of a full window, keep collecting on the next append
		d.end = need
		return nil
	}
	kmer := make([]byte, 0, d.k)
	kmer = append(kmer, d.couts...)
	kmer = append(kmer, d.seq[:need]...)
	d.fhash, d.rhash = nthash.Init(kmer)
	d.chash = nthash.Canonical(d.fhash, d.rhash)
	d.pos = d.offset - len(d.couts)
	d.end = need
	d.validHash = true
	return nil
}

// GetPos returns the position of the seated k-mer within the entirety of the digested stream
func (d *Digester) GetPos() int {
	return d.pos
}

// GetK returns the k-mer size
func (d *Digester) GetK() uint {
	return uint(d.k)
}

// GetLen returns the length of the current sequence chunk
func (d *Digester) GetLen() int {
	return len(d.seq)
}

// GetFhash returns the forward hash of the seated k-mer
func (d *Digester) GetFhash() uint64 {
	return d.fhash
}

// GetRhash returns the reverse complement hash of the seated k-mer
func (d *Digester) GetRhash() uint64 {
	return d.rhash
}

// GetChash returns the canonical hash of the seated k-mer
func (d *Digester) GetChash() uint64 {
	return d.chash
}

// GetMinimizedHash reports which hash the selection scheme compares
func (d *Digester) GetMinimizedHash() uint {
	return d.minimizedHash
}

// IsValidHash reports whether the hashes describe the k-mer seated at the current position
func (d *Digester) IsValidHash() bool {
	return d.validHash
}

// SelectedHash returns the hash value the selection scheme compares for the seated k-mer
func (d *Digester) SelectedHash() uint64 {
	switch d.minimizedHash {
	case ForwardHash:
		return d.fhash
	case ReverseHash:
		return d.rhash
	default:
		return d.chash
	}
}

// GetKmer reconstructs the bases of the k-mer under the scanning window, reading first from
// the carried-over bases and then from the current chunk. Returns nil if no k-mer is seated.
func (d *Digester) GetKmer() []byte {
	if !d.validHash {
		return nil
	}
	kmer := make([]byte, 0, d.k)
	if len(d.couts) > 0 {
		kmer = append(kmer, d.couts...)
		kmer = append(kmer, d.seq[:d.end]...)
	} else {
		kmer = append(kmer, d.seq[d.start:d.end]...)
	}
	return kmer
}

// Copy returns an independent digester that will continue from the same point. The window
// bookkeeping is deeply copied but the sequence buffer is still borrowed, not duplicated.
func (d *Digester) Copy() *Digester {
	nd := *d
	nd.couts = append(make([]byte, 0, cap(d.couts)), d.couts...)
	return &nd
}
