package stream

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/will-rowe/digest/src/seqio"
)

// setup variables
var (
	fastaLines = [][]byte{
		[]byte(">record1"),
		[]byte("ACGTACGTGACCTTAGCAAT"),
		[]byte("TGGCCAACGTTACGGATCCG"),
		[]byte(">record2"),
		[]byte("TTGACCGGTGNNACGTACGTACGA"),
	}
	testOpts = &seqio.MinimizerOpts{Scheme: "window", KmerSize: 5, WindowSize: 3}
)

// expectedTSV builds the expected finder output by running each whole record in one go
func expectedTSV(t *testing.T) string {
	var out bytes.Buffer
	records := []struct {
		id  string
		seq []byte
	}{
		{"record1", append(append([]byte(nil), fastaLines[1]...), fastaLines[2]...)},
		{"record2", append([]byte(nil), fastaLines[4]...)},
	}
	for _, record := range records {
		sequence := &seqio.Sequence{ID: []byte(record.id), Seq: record.seq}
		hits, err := sequence.FindMinimizers(testOpts)
		if err != nil {
			t.Fatal(err)
		}
		for _, hit := range hits {
			fmt.Fprintf(&out, "%s\t%d\t%d\n", record.id, hit.Pos, hit.Hash)
		}
	}
	return out.String()
}

// the fasta handler must chunk records without joining or splitting them
func TestFastaHandler(t *testing.T) {
	fh := NewFastaHandler()
	fh.Input = make(chan []byte, len(fastaLines))
	for _, line := range fastaLines {
		fh.Input <- append([]byte(nil), line...)
	}
	close(fh.Input)
	go fh.Run()
	chunks := make([]SeqChunk, 0)
	for chunk := range fh.Output {
		chunks = append(chunks, chunk)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 sequence chunks, got %d", len(chunks))
	}
	if !chunks[0].First || chunks[1].First || !chunks[2].First {
		t.Fatal("the first chunk of each record must be marked")
	}
	if string(chunks[1].ID) != "record1" || string(chunks[2].ID) != "record2" {
		t.Fatal("chunks carry the wrong record IDs")
	}
}

// streaming a record in chunks must select the same minimizers as digesting it whole
func TestMinimizerFinder(t *testing.T) {
	fh := NewFastaHandler()
	fh.Input = make(chan []byte, len(fastaLines))
	for _, line := range fastaLines {
		fh.Input <- append([]byte(nil), line...)
	}
	close(fh.Input)
	var out bytes.Buffer
	finder := NewMinimizerFinder()
	finder.Input = fh.Output
	finder.Opts = testOpts
	finder.Out = &out
	pipeline := NewPipeline()
	pipeline.AddProcesses(fh, finder)
	pipeline.Run()
	if out.String() != expectedTSV(t) {
		t.Fatalf("streamed selections do not match whole-record selections:\n%v", out.String())
	}
}

// the fastq handler must group reads and pass them on as single chunks
func TestFastqHandler(t *testing.T) {
	fq := NewFastqHandler()
	fq.Input = make(chan []byte, 4)
	fq.Input <- []byte("@read1")
	fq.Input <- []byte("ACGTACGTGACCTTAGCAAT")
	fq.Input <- []byte("+")
	fq.Input <- []byte("IIIIIIIIIIIIIIIIIIII")
	close(fq.Input)
	go fq.Run()
	chunks := make([]SeqChunk, 0)
	for chunk := range fq.Output {
		chunks = append(chunks, chunk)
	}
	if len(chunks) != 1 || !chunks[0].First {
		t.Fatalf("expected a single opening chunk, got %d", len(chunks))
	}
	if string(chunks[0].Seq) != "ACGTACGTGACCTTAGCAAT" {
		t.Fatal("the read sequence was mangled")
	}
}
