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
	"io"
	"log"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/will-rowe/digest/src/misc"
	"github.com/will-rowe/digest/src/seqio"
	"github.com/will-rowe/digest/src/stream"
	"github.com/will-rowe/digest/src/version"
)

// the command line arguments
var (
	kSize      *uint     // size of k-mer
	scheme     *string   // minimizer selection scheme to run
	windowSize *uint     // number of k-mers per large window (window and syncmer schemes)
	modulus    *uint64   // modulus (mod scheme)
	congruence *uint64   // congruence class (mod scheme)
	hashFunc   *string   // hash to minimize (canonical, forward or reverse)
	fastq      *bool     // input is FASTQ, not FASTA
	minQual    *int      // minimum base quality to keep during quality trimming of FASTQ reads
	inputFile  *[]string // input file(s) to digest (empty means STDIN)
	outFile    *string   // file to write the selections to (empty means STDOUT)
)

// the scan command (used by cobra)
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Stream sequences and write out the selected minimizers",
	Long:  `Stream sequences and write out the selected minimizers as record, position and hash`,
	Run: func(cmd *cobra.Command, args []string) {
		runScan()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	kSize = scanCmd.Flags().UintP("kmerSize", "k", 21, "size of k-mer")
	scheme = scanCmd.Flags().StringP("scheme", "s", "window", "minimizer selection scheme (mod, window or syncmer)")
	windowSize = scanCmd.Flags().UintP("windowSize", "w", 11, "number of k-mers per window (window and syncmer schemes)")
	modulus = scanCmd.Flags().Uint64P("mod", "m", 8, "modulus (mod scheme)")
	congruence = scanCmd.Flags().Uint64("congruence", 0, "congruence class (mod scheme)")
	hashFunc = scanCmd.Flags().String("hash", "canonical", "hash to minimize (canonical, forward or reverse)")
	fastq = scanCmd.Flags().Bool("fastq", false, "input is FASTQ, not FASTA")
	minQual = scanCmd.Flags().IntP("minQual", "q", 0, "quality trim FASTQ reads to this minimum base quality (0 = no trimming)")
	inputFile = scanCmd.Flags().StringSliceP("inputFile", "i", []string{}, "input file(s) to digest (omit to read STDIN)")
	outFile = scanCmd.Flags().StringP("outFile", "o", "", "file to write the selections to (omit to write STDOUT)")
	RootCmd.AddCommand(scanCmd)
}

// a function to check user supplied parameters
func scanParamCheck() error {
	if len(*inputFile) == 0 {
		misc.ErrorCheck(misc.CheckSTDIN())
	}
	for _, file := range *inputFile {
		misc.ErrorCheck(misc.CheckFile(file))
		if *fastq {
			misc.ErrorCheck(misc.CheckExt(file, []string{"fastq", "fq"}))
		} else {
			misc.ErrorCheck(misc.CheckExt(file, []string{"fasta", "fa", "fna"}))
		}
	}
	// set number of processors to use
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	return nil
}

/*
  The main function for the scan command
*/
func runScan() {
	// set up profiling
	if *profiling == true {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	// start logging
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	log.SetOutput(logFH)
	log.Printf("this is digest (version %s)", version.GetVersion())
	log.Printf("starting the scan subcommand")
	// check the supplied parameters and then log some stuff
	log.Printf("checking parameters...")
	misc.ErrorCheck(scanParamCheck())
	minimizedHash, err := getMinimizedHash(*hashFunc)
	misc.ErrorCheck(err)
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tk-mer size: %d", *kSize)
	log.Printf("\tscheme: %v", *scheme)
	// open the output
	var out io.Writer = os.Stdout
	if *outFile != "" {
		outFH, err := os.Create(*outFile)
		misc.ErrorCheck(err)
		defer outFH.Close()
		out = outFH
	}
	// build the pipeline
	log.Printf("streaming sequences...")
	pipeline := stream.NewPipeline()
	dataStream := stream.NewDataStreamer()
	dataStream.InputFile = *inputFile
	finder := stream.NewMinimizerFinder()
	finder.Opts = &seqio.MinimizerOpts{
		Scheme:        *scheme,
		KmerSize:      *kSize,
		MinimizedHash: minimizedHash,
		WindowSize:    *windowSize,
		Mod:           *modulus,
		Congruence:    *congruence,
	}
	finder.Out = out
	if *fastq {
		fastqHandler := stream.NewFastqHandler()
		fastqHandler.Input = dataStream.Output
		fastqHandler.MinQual = *minQual
		finder.Input = fastqHandler.Output
		pipeline.AddProcesses(dataStream, fastqHandler, finder)
	} else {
		fastaHandler := stream.NewFastaHandler()
		fastaHandler.Input = dataStream.Output
		finder.Input = fastaHandler.Output
		pipeline.AddProcesses(dataStream, fastaHandler, finder)
	}
	pipeline.Run()
	log.Printf("finished")
}
