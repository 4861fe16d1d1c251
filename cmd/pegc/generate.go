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

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/peglang/pegc/bootstrap"
	"github.com/peglang/pegc/check"
	"github.com/peglang/pegc/codegen"
	"github.com/peglang/pegc/compat/file"
	"github.com/peglang/pegc/diagnostics"
	"github.com/peglang/pegc/semantic"
)

// loadGrammar runs the bootstrap parser, semantic conversion and
// checker over the grammar source at path. Both the root (generating)
// command and the "check" subcommand start from this shared pipeline.
func loadGrammar(path string) (src []byte, g *semantic.Grammar, res *check.Result, err error) {
	src, err = file.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root, err := bootstrap.Parse(src)
	if err != nil {
		if pe, ok := err.(*bootstrap.ParseError); ok {
			d := diagnostics.New(diagnostics.TagParseError, pe.Pos, pe.Pos,
				"expected one of: %s", strings.Join(pe.Expected, ", "))
			return src, nil, &check.Result{Diagnostic: diagnostics.List{d}}, nil
		}
		return src, nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	g, err = semantic.Convert(root)
	if err != nil {
		return src, nil, nil, fmt.Errorf("converting %s: %w", path, err)
	}
	res = check.Check(g)
	return src, g, res, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	grammarPath := args[0]
	src, g, res, err := loadGrammar(grammarPath)
	if err != nil {
		return err
	}
	if len(res.Diagnostic) != 0 {
		fmt.Fprintln(os.Stderr, diagnostics.RenderAll(res.Diagnostic, src))
		return fmt.Errorf("%d diagnostic(s) in %s", len(res.Diagnostic), grammarPath)
	}

	out, err := codegen.Generate(g, res.Nullable, packageFlag)
	if err != nil {
		return fmt.Errorf("generating parser for %s: %w", grammarPath, err)
	}

	outPath := outputFlag
	if outPath == "" {
		// No explicit --output: write the generated parser to
		// Parser.go in the working directory.
		outPath = "Parser.go"
	}
	if err := file.WriteFile(outPath, []byte(out)); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.V(1).Infof("pegc: wrote %s (%d rule(s))", outPath, len(g.RuleNames))
	return nil
}
