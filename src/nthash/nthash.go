// Package nthash is a port of the ntHash (https://github.com/bcgsc/ntHash) recursive hash
// function for DNA k-mers. It exposes the two low-level operations needed to drive a sliding
// k-mer window: seeding the forward and reverse-complement hashes from a full k-mer, and
// rolling both hashes by one base in constant time.
package nthash

import "math/bits"

// the base seeds used by ntHash
const (
	seedA uint64 = 0x3c8bfbb395c60474
	seedC uint64 = 0x3193c18562a02b4c
	seedG uint64 = 0x20323ed082572324
	seedT uint64 = 0x295549f54be24456
)

// seedTab maps a base to its ntHash seed, rcSeedTab maps a base to the seed of its complement
var seedTab [256]uint64
var rcSeedTab [256]uint64

// init prepares the seed lookup tables
func init() {
	seedTab['A'], seedTab['a'] = seedA, seedA
	seedTab['C'], seedTab['c'] = seedC, seedC
	seedTab['G'], seedTab['g'] = seedG, seedG
	seedTab['T'], seedTab['t'] = seedT, seedT
	rcSeedTab['A'], rcSeedTab['a'] = seedT, seedT
	rcSeedTab['C'], rcSeedTab['c'] = seedG, seedG
	rcSeedTab['G'], rcSeedTab['g'] = seedC, seedC
	rcSeedTab['T'], rcSeedTab['t'] = seedA, seedA
}

// Init seeds the forward and reverse-complement hashes from a full k-mer. Every base must be
// an upper or lower case A, C, G or T.
func Init(kmer []byte) (uint64, uint64) {
	var fh, rh uint64
	for i := 0; i < len(kmer); i++ {
		fh = bits.RotateLeft64(fh, 1) ^ seedTab[kmer[i]]
	}
	for i := len(kmer) - 1; i >= 0; i-- {
		rh = bits.RotateLeft64(rh, 1) ^ rcSeedTab[kmer[i]]
	}
	return fh, rh
}

// Roll moves both hashes one base to the right: out is the base leaving the k-mer window on
// the left, in is the base entering it on the right. Runs in constant time.
func Roll(k uint, out, in byte, fh, rh uint64) (uint64, uint64) {
	fh = bits.RotateLeft64(fh, 1) ^ bits.RotateLeft64(seedTab[out], int(k)) ^ seedTab[in]
	rh = bits.RotateLeft64(rh, -1) ^ bits.RotateLeft64(rcSeedTab[out], -1) ^ bits.RotateLeft64(rcSeedTab[in], int(k)-1)
	return fh, rh
}

// Canonical returns the strand-invariant hash: the smaller of the forward and
// reverse-complement hashes.
func Canonical(fh, rh uint64) uint64 {
	if rh < fh {
		return rh
	}
	return fh
}
