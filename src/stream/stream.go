/*
	the stream package contains a streaming implementation based on the Gopher Academy article by S. Lampa - Patterns for composable concurrent pipelines in Go (https://blog.gopheracademy.com/advent-2015/composable-pipelines-improvements/)

	Sequence data is passed between the processes a chunk at a time, so a record never has to
	be held in one buffer: the minimizer process stitches the chunks back together with the
	digester's append operation.
*/
package stream

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/will-rowe/digest/src/digest"
	"github.com/will-rowe/digest/src/misc"
	"github.com/will-rowe/digest/src/seqio"
)

const (
	BUFFERSIZE = 128 // buffer size to use for channels
)

/*
  The process interface
*/
type process interface {
	Run()
}

/*
  The basic pipeline - takes a list of Processes and runs them in Go routines, the last process is ran in the fg
*/
type Pipeline struct {
	Processes []process
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (pl *Pipeline) AddProcess(proc process) {
	pl.Processes = append(pl.Processes, proc)
}

func (pl *Pipeline) AddProcesses(procs ...process) {
	for _, proc := range procs {
		pl.AddProcess(proc)
	}
}

func (pl *Pipeline) Run() {
	for i, proc := range pl.Processes {
		if i < len(pl.Processes)-1 {
			go proc.Run()
		} else {
			proc.Run()
		}
	}
}

/*
  SeqChunk is one piece of a sequence record; First marks the opening chunk of a record
*/
type SeqChunk struct {
	ID    []byte
	Seq   []byte
	First bool
}

/*
  A process to stream data from STDIN/file
*/
type DataStreamer struct {
	process
	Output    chan []byte
	InputFile []string
}

func NewDataStreamer() *DataStreamer {
	return &DataStreamer{Output: make(chan []byte, BUFFERSIZE)}
}

func (proc *DataStreamer) Run() {
	var scanner *bufio.Scanner
	// if an input file path has not been provided, scan the contents of STDIN
	if len(proc.InputFile) == 0 {
		scanner = bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			// important: copy content of scan to a new slice before sending, this avoids race conditions (as we are using multiple go routines) from concurrent slice access
			proc.Output <- append([]byte(nil), scanner.Bytes()...)
		}
		if scanner.Err() != nil {
			log.Fatal(scanner.Err())
		}
	} else {
		for i := 0; i < len(proc.InputFile); i++ {
			fh, err := os.Open(proc.InputFile[i])
			misc.ErrorCheck(err)
			defer fh.Close()
			// handle gzipped input
			splitFilename := strings.Split(proc.InputFile[i], ".")
			if splitFilename[len(splitFilename)-1] == "gz" {
				gz, err := gzip.NewReader(fh)
				misc.ErrorCheck(err)
				defer gz.Close()
				scanner = bufio.NewScanner(gz)
			} else {
				scanner = bufio.NewScanner(fh)
			}
			for scanner.Scan() {
				proc.Output <- append([]byte(nil), scanner.Bytes()...)
			}
			if scanner.Err() != nil {
				log.Fatal(scanner.Err())
			}
		}
	}
	close(proc.Output)
}

/*
  A process to split a stream of FASTA lines into per-record sequence chunks
*/
type FastaHandler struct {
	process
	Input  chan []byte
	Output chan SeqChunk
}

func NewFastaHandler() *FastaHandler {
	return &FastaHandler{Output: make(chan SeqChunk, BUFFERSIZE)}
}

func (proc *FastaHandler) Run() {
	defer close(proc.Output)
	var id []byte
	first := false
	for line := range proc.Input {
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			id = line[1:]
			first = true
			continue
		}
		if id == nil {
			log.Fatal(errors.New("received sequence data before a FASTA header"))
		}
		proc.Output <- SeqChunk{ID: id, Seq: line, First: first}
		first = false
	}
}

/*
  A process to generate sequence chunks from a stream of FASTQ lines, optionally quality
  trimming each read first
*/
type FastqHandler struct {
	process
	Input   chan []byte
	Output  chan SeqChunk
	MinQual int
}

func NewFastqHandler() *FastqHandler {
	return &FastqHandler{Output: make(chan SeqChunk, BUFFERSIZE)}
}

func (proc *FastqHandler) Run() {
	defer close(proc.Output)
	var l1, l2, l3, l4 []byte
	// grab four lines and create a new FASTQread struct from them - perform some format checks and trim low quality bases
	// TODO: support line-wrapped FASTQ records
	for line := range proc.Input {
		if l1 == nil {
			l1 = line
		} else if l2 == nil {
			l2 = line
		} else if l3 == nil {
			l3 = line
		} else if l4 == nil {
			l4 = line
			// create fastq read
			newRead, err := seqio.NewFASTQread(l1, l2, l3, l4)
			if err != nil {
				log.Fatal(err)
			}
			if proc.MinQual > 0 {
				newRead.QualTrim(proc.MinQual)
			}
			// a read is small enough to send on as a single chunk
			if len(newRead.Seq) > 0 {
				proc.Output <- SeqChunk{ID: newRead.ID, Seq: newRead.Seq, First: true}
			}
			// reset the line stores
			l1, l2, l3, l4 = nil, nil, nil, nil
		}
	}
}

/*
  A process to run a minimizer scheme over each record and write the selections out. Chunks
  of one record are stitched back together by appending them to the running digester, so the
  scheme sees each record as one unbroken sequence.
*/
type MinimizerFinder struct {
	process
	Input chan SeqChunk
	Opts  *seqio.MinimizerOpts
	Out   io.Writer
}

func NewMinimizerFinder() *MinimizerFinder {
	return &MinimizerFinder{}
}

func (proc *MinimizerFinder) Run() {
	var selector digest.Minimizer
	var id []byte
	recordTally, miniTally := 0, 0
	drain := func() {
		for selector.RollNextMinimizer() {
			fmt.Fprintf(proc.Out, "%s\t%d\t%d\n", id, selector.GetPos(), selector.SelectedHash())
			miniTally++
		}
	}
	for chunk := range proc.Input {
		if chunk.First {
			id = chunk.ID
			recordTally++
			if selector == nil {
				m, err := seqio.NewSelector(chunk.Seq, proc.Opts)
				misc.ErrorCheck(err)
				selector = m
			} else {
				misc.ErrorCheck(selector.NewSeq(chunk.Seq, 0))
			}
		} else {
			misc.ErrorCheck(selector.AppendSeq(chunk.Seq))
		}
		drain()
	}
	if recordTally == 0 {
		misc.ErrorCheck(errors.New("no sequence records received"))
	}
	log.Printf("\tnumber of records received from input: %d\n", recordTally)
	log.Printf("\tnumber of minimizers selected: %d\n", miniTally)
}
