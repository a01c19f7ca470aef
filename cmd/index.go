// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/will-rowe/digest/src/minindex"
	"github.com/will-rowe/digest/src/misc"
	"github.com/will-rowe/digest/src/seqio"
	"github.com/will-rowe/digest/src/version"
)

// the command line arguments
var (
	indexKsize      *uint   // size of k-mer
	indexScheme     *string // minimizer selection scheme to run
	indexWindowSize *uint   // number of k-mers per large window (window and syncmer schemes)
	indexModulus    *uint64 // modulus (mod scheme)
	indexHashFunc   *string // hash to minimize
	refSeqs         *string // the reference FASTA file to index
	indexOutFile    *string // file to save the index to
)

// the index command (used by cobra)
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the minimizers of a set of reference sequences",
	Long:  `Index the minimizers of a set of reference sequences so they can be looked up by hash`,
	Run: func(cmd *cobra.Command, args []string) {
		runIndex()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	indexKsize = indexCmd.Flags().UintP("kmerSize", "k", 21, "size of k-mer")
	indexScheme = indexCmd.Flags().StringP("scheme", "s", "window", "minimizer selection scheme (mod, window or syncmer)")
	indexWindowSize = indexCmd.Flags().UintP("windowSize", "w", 11, "number of k-mers per window (window and syncmer schemes)")
	indexModulus = indexCmd.Flags().Uint64P("mod", "m", 8, "modulus (mod scheme)")
	indexHashFunc = indexCmd.Flags().String("hash", "canonical", "hash to minimize (canonical, forward or reverse)")
	refSeqs = indexCmd.Flags().StringP("refSeqs", "i", "", "the reference sequences (FASTA) to index - required")
	indexOutFile = indexCmd.Flags().StringP("outFile", "o", "digest-index-"+string(time.Now().Format("20060102150405"))+".mni", "file to save the index to")
	indexCmd.MarkFlagRequired("refSeqs")
	RootCmd.AddCommand(indexCmd)
}

// a function to check user supplied parameters
func indexParamCheck() error {
	misc.ErrorCheck(misc.CheckFile(*refSeqs))
	misc.ErrorCheck(misc.CheckExt(*refSeqs, []string{"fasta", "fa", "fna"}))
	// set number of processors to use
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	return nil
}

/*
  The main function for the index command
*/
func runIndex() {
	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is digest (version %s)", version.GetVersion())
	log.Printf("starting the index subcommand")
	// check the supplied parameters and then log some stuff
	log.Printf("checking parameters...")
	misc.ErrorCheck(indexParamCheck())
	minimizedHash, err := getMinimizedHash(*indexHashFunc)
	misc.ErrorCheck(err)
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tk-mer size: %d", *indexKsize)
	log.Printf("\tscheme: %v", *indexScheme)
	opts := &seqio.MinimizerOpts{
		Scheme:        *indexScheme,
		KmerSize:      *indexKsize,
		MinimizedHash: minimizedHash,
		WindowSize:    *indexWindowSize,
		Mod:           *indexModulus,
	}
	idx := minindex.New(*indexScheme, *indexKsize, *indexWindowSize, *indexModulus)
	// read the reference sequences and index each record in a worker
	log.Printf("indexing reference sequences...")
	fh, err := os.Open(*refSeqs)
	misc.ErrorCheck(err)
	defer fh.Close()
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	scanner := bioseqio.NewScanner(fasta.NewReader(fh, template))
	recordChan := make(chan *seqio.Sequence, *proc)
	var workers errgroup.Group
	for i := 0; i < *proc; i++ {
		workers.Go(func() error {
			for record := range recordChan {
				record.BaseCheck()
				if uint(len(record.Seq)) < opts.KmerSize {
					log.Printf("\tskipping short record: %v", string(record.ID))
					continue
				}
				hits, err := record.FindMinimizers(opts)
				if err != nil {
					return err
				}
				for _, hit := range hits {
					idx.Add(string(record.ID), hit.Pos, hit.Hash)
				}
			}
			return nil
		})
	}
	recordTally := 0
	for scanner.Next() {
		record := scanner.Seq().(*linear.Seq)
		recordChan <- &seqio.Sequence{
			ID:  []byte(record.Name()),
			Seq: alphabet.LettersToBytes(record.Seq),
		}
		recordTally++
	}
	close(recordChan)
	misc.ErrorCheck(scanner.Error())
	misc.ErrorCheck(workers.Wait())
	log.Printf("\tnumber of records indexed: %d", recordTally)
	log.Printf("\tnumber of distinct minimizers: %d", idx.NumDistinct())
	// save the index
	misc.ErrorCheck(idx.Dump(*indexOutFile))
	log.Printf("saved the index to disk: %v", *indexOutFile)
	log.Printf("finished")
}
