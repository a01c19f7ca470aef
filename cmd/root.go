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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/will-rowe/digest/src/digest"
)

// the command line arguments
var (
	proc      *int    // number of processors to use
	profiling *bool   // create profile for go pprof
	logFile   *string // file to log to
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "digest",
	Short: "select k-mer minimizers from DNA sequences using rolling ntHash hashes",
	Long: `
#####################################################################################
		DIGEST: streaming k-mer minimizer selection
#####################################################################################

 DIGEST slides a k-mer window along DNA sequences, keeping rolling ntHash values for
 both strands, and reports the k-mers picked out by a minimizer selection scheme:

 * mod - k-mers whose hash falls in a congruence class
 * window - the lowest hashing k-mer of every window of consecutive k-mers
 * syncmer - k-mers leading a window whenever they attain the window minimum

 Sequences are streamed a chunk at a time, so arbitrarily long references can be
 digested without holding them in memory. Selections can be written out directly or
 collected into an index for later lookups.`,
}

/*
  A function to run the root command, printing any error and exiting with status 1
*/
// This is called by main.main(). Child commands and flags are registered by the init functions.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

/*
  A function to initalise the command line arguments
*/
func init() {
	proc = RootCmd.PersistentFlags().IntP("processors", "p", 1, "number of processors to use")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile DIGEST using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("logFile", "digest.log", "filename for log file")
}

// getMinimizedHash converts a hash name from the command line to the digest constant
func getMinimizedHash(name string) (uint, error) {
	switch name {
	case "canonical":
		return digest.CanonicalHash, nil
	case "forward":
		return digest.ForwardHash, nil
	case "reverse":
		return digest.ReverseHash, nil
	default:
		return 0, fmt.Errorf("unrecognised hash (must be canonical, forward or reverse): %v", name)
	}
}
