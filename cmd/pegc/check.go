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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peglang/pegc/diagnostics"
)

// checkCmd runs the checker alone, printing the nullable-rule set and
// any diagnostics without emitting a parser. Grounded in pigeon's `-x`
// flag (validate the grammar, skip code generation), surfaced here as
// its own subcommand since cobra makes that a natural split rather than
// an extra generate flag.
var checkCmd = &cobra.Command{
	Use:           "check <grammar-file>",
	Short:         "Validate a PEG grammar without generating a parser",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	grammarPath := args[0]
	src, _, res, err := loadGrammar(grammarPath)
	if err != nil {
		return err
	}
	if len(res.Diagnostic) != 0 {
		fmt.Fprintln(os.Stderr, diagnostics.RenderAll(res.Diagnostic, src))
		return fmt.Errorf("%d diagnostic(s) in %s", len(res.Diagnostic), grammarPath)
	}
	if len(res.Nullable) == 0 {
		fmt.Println("no nullable rules")
	} else {
		fmt.Printf("nullable rules: %s\n", strings.Join(res.Nullable, ", "))
	}
	return nil
}
