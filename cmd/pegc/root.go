// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pegc is the driver: it reads a grammar file, runs the
// bootstrap parser, the checker, and (unless "check" is requested)
// the code emitter, writing diagnostics to stderr and the generated
// parser to the output path. Built on cobra so the default
// single-grammar-argument invocation can grow a "check" subcommand
// alongside it.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:           "pegc <grammar-file>",
	Short:         "Generate a recursive-descent parser from a PEG grammar",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runGenerate,
}

var (
	outputFlag  string
	packageFlag string
)

func init() {
	rootCmd.Flags().StringVar(&outputFlag, "output", "", "path to write the generated parser Go source (default: Parser.go)")
	rootCmd.Flags().StringVar(&packageFlag, "package", "main", "name of the generated package")

	// glog registers its flags (-v, -logtostderr, ...) on the standard
	// flag package; fold that flag set into pflag so cobra's -h/usage
	// and flag parsing cover glog's flags too.
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)

	rootCmd.AddCommand(checkCmd)
}

func main() {
	// glog requires flag.Parse to have run before its first call; cobra
	// parses pflag.CommandLine for us via Execute, so seed it from an
	// empty argument list here and let cobra do the real parsing.
	flag.CommandLine.Parse(nil)
	defer log.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
