/*
	the minindex package contains an inverted index of minimizers, mapping the selected hash
	values of a reference set back to the records and positions they came from
*/
package minindex

import (
	"fmt"
	"io/ioutil"
	"sync"

	"gopkg.in/vmihailenco/msgpack.v2"
)

// Location records where a minimizer was selected
type Location struct {
	Record string
	Pos    int
}

// Index is an inverted index of minimizers for a reference set. The selection parameters are
// stored alongside the entries so a query run can check it is using the same scheme.
type Index struct {
	Scheme     string
	KmerSize   uint
	WindowSize uint
	Mod        uint64
	Entries    map[uint64][]Location

	filter *BloomFilter
	lock   sync.RWMutex
}

// New is the Index constructor
func New(scheme string, kmerSize, windowSize uint, mod uint64) *Index {
	return &Index{
		Scheme:     scheme,
		KmerSize:   kmerSize,
		WindowSize: windowSize,
		Mod:        mod,
		Entries:    make(map[uint64][]Location),
		filter:     NewDefaultBloomFilter(),
	}
}

// Add is a method to record a minimizer. It is safe for concurrent use.
func (Index *Index) Add(record string, pos int, hash uint64) {
	Index.lock.Lock()
	Index.Entries[hash] = append(Index.Entries[hash], Location{Record: record, Pos: pos})
	Index.lock.Unlock()
	Index.filter.Add(hash)
}

// Query is a method to look up every location a minimizer hash was selected at. The bloom
// filter answers most misses without touching the hash table.
func (Index *Index) Query(hash uint64) []Location {
	if !Index.filter.Check(hash) {
		return nil
	}
	Index.lock.RLock()
	defer Index.lock.RUnlock()
	return Index.Entries[hash]
}

// NumDistinct is a method to report how many distinct minimizer hashes are held
func (Index *Index) NumDistinct() int {
	Index.lock.RLock()
	defer Index.lock.RUnlock()
	return len(Index.Entries)
}

// Dump is a method to write the index to disk
func (Index *Index) Dump(path string) error {
	b, err := msgpack.Marshal(Index)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0644)
}

// Load is a method to populate the index from a file written by Dump. The bloom filter is
// not stored, so it is rebuilt from the entries.
func (Index *Index) Load(path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(b, Index); err != nil {
		return err
	}
	if Index.Entries == nil {
		return fmt.Errorf("loaded index holds no entries: %v", path)
	}
	Index.filter = NewDefaultBloomFilter()
	for hash := range Index.Entries {
		Index.filter.Add(hash)
	}
	return nil
}
