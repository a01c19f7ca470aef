/*
	the seqio package contains custom types and methods for holding and processing sequence data
*/
package seqio

import (
	"fmt"
	"unicode"

	"github.com/will-rowe/digest/src/digest"
)

// encoding used by the FASTQ file
const encoding = 33

// complementBases is the lookup table used during reverse complementation
var complementBases = []byte{
	'A': 'T',
	'T': 'A',
	'C': 'G',
	'G': 'C',
	'N': 'N',
}

// Sequence is the base type for a sequence record
type Sequence struct {
	ID  []byte
	Seq []byte
}

// FASTQread is a type that holds a single FASTQ read
type FASTQread struct {
	Sequence
	Misc []byte
	Qual []byte
	RC   bool
}

// MinimizerOpts describes the minimizer selection scheme to run over a sequence
type MinimizerOpts struct {
	Scheme        string // mod, window or syncmer
	KmerSize      uint
	MinimizedHash uint
	WindowSize    uint   // k-mers per large window (window and syncmer schemes)
	Mod           uint64 // modulus (mod scheme)
	Congruence    uint64 // congruence class (mod scheme)
}

// MinimizerHit records one selected k-mer
type MinimizerHit struct {
	Pos  int
	Hash uint64
}

// NewSelector returns the minimizer scheme described by the options, seated on the given sequence
func NewSelector(seq []byte, opts *MinimizerOpts) (digest.Minimizer, error) {
	switch opts.Scheme {
	case "mod":
		m, err := digest.NewModMin(seq, opts.KmerSize, 0, opts.MinimizedHash, opts.Mod, opts.Congruence)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "window":
		m, err := digest.NewWindowMin(seq, opts.KmerSize, 0, opts.MinimizedHash, opts.WindowSize)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "syncmer":
		m, err := digest.NewSyncmer(seq, opts.KmerSize, 0, opts.MinimizedHash, opts.WindowSize)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unrecognised minimizer scheme: %v", opts.Scheme)
	}
}

// FindMinimizers is a method to run the configured selection scheme over the whole sequence,
// returning the selected positions and their minimized hash values
func (Sequence *Sequence) FindMinimizers(opts *MinimizerOpts) ([]MinimizerHit, error) {
	if uint(len(Sequence.Seq)) < opts.KmerSize {
		return nil, fmt.Errorf("sequence length (%d) is shorter than k-mer length (%d)", len(Sequence.Seq), opts.KmerSize)
	}
	selector, err := NewSelector(Sequence.Seq, opts)
	if err != nil {
		return nil, err
	}
	hits := make([]MinimizerHit, 0)
	for selector.RollNextMinimizer() {
		hits = append(hits, MinimizerHit{Pos: selector.GetPos(), Hash: selector.SelectedHash()})
	}
	return hits, nil
}

// BaseCheck is a method to check for ACTGN bases and also to convert bases to upper case
func (Sequence *Sequence) BaseCheck() error {
	for i, j := 0, len(Sequence.Seq); i < j; i++ {
		switch base := unicode.ToUpper(rune(Sequence.Seq[i])); base {
		case 'A', 'C', 'T', 'G', 'N':
			Sequence.Seq[i] = byte(base)
		default:
			Sequence.Seq[i] = byte('N')
		}
	}
	return nil
}

// RevComplement is a method to reverse complement a sequence held by a FASTQread
func (FASTQread *FASTQread) RevComplement() {
	for i, j := 0, len(FASTQread.Seq); i < j; i++ {
		FASTQread.Seq[i] = complementBases[FASTQread.Seq[i]]
	}
	for i, j := 0, len(FASTQread.Seq)-1; i <= j; i, j = i+1, j-1 {
		FASTQread.Seq[i], FASTQread.Seq[j] = FASTQread.Seq[j], FASTQread.Seq[i]
	}
	if FASTQread.RC == true {
		FASTQread.RC = false
	} else {
		FASTQread.RC = true
	}
}

// QualTrim is a method to quality trim the sequence held by a FASTQread
/* the algorithm is based on bwa/cutadapt read quality trim functions:
-1. for each index position, subtract qual cutoff from the quality score
-2. sum these values across the read and trim at the index where the sum in minimal
-3. return the high-quality region
*/
func (FASTQread *FASTQread) QualTrim(minQual int) {
	start, qualSum, qualMax := 0, 0, 0
	end := len(FASTQread.Qual)
	for i, qual := range FASTQread.Qual {
		qualSum += minQual - (int(qual) - encoding)
		if qualSum < 0 {
			break
		}
		if qualSum > qualMax {
			qualMax = qualSum
			start = i + 1
		}
	}
	qualSum, qualMax = 0, 0
	for i, j := 0, len(FASTQread.Qual)-1; j >= i; j-- {
		qualSum += minQual - (int(FASTQread.Qual[j]) - encoding)
		if qualSum < 0 {
			break
		}
		if qualSum > qualMax {
			qualMax = qualSum
			end = j
		}
	}
	if start >= end {
		start, end = 0, 0
	}
	FASTQread.Seq = FASTQread.Seq[start:end]
	FASTQread.Qual = FASTQread.Qual[start:end]
}

// NewFASTQread generates a new fastq read from 4 lines of data
func NewFASTQread(l1 []byte, l2 []byte, l3 []byte, l4 []byte) (*FASTQread, error) {
	if len(l1) == 0 || l1[0] != '@' {
		return nil, fmt.Errorf("read ID in fastq file does not begin with @: %v", string(l1))
	}
	seq := Sequence{ID: l1, Seq: l2}
	return &FASTQread{
		Sequence: seq,
		Misc:     l3,
		Qual:     l4,
	}, nil
}
