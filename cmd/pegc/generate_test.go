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
	"strings"
	"testing"

	"github.com/peglang/pegc/compat/file"
)

func TestLoadGrammarParsesAndChecks(t *testing.T) {
	grammarPath := "/memfs/grammar.peg"
	if err := file.WriteFile(grammarPath, []byte(`PEG G (A) A <- "x"+; END ;`)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src, g, res, err := loadGrammar(grammarPath)
	if err != nil {
		t.Fatalf("loadGrammar() error = %v", err)
	}
	if len(res.Diagnostic) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostic)
	}
	if len(src) == 0 {
		t.Fatalf("expected non-empty source")
	}
	if g.StartName != "G" {
		t.Errorf("StartName = %q, want G", g.StartName)
	}
}

func TestLoadGrammarReportsUndefinedIdentifier(t *testing.T) {
	grammarPath := "/memfs/bad.peg"
	if err := file.WriteFile(grammarPath, []byte(`PEG G (A) A <- B; END ;`)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, _, res, err := loadGrammar(grammarPath)
	if err != nil {
		t.Fatalf("loadGrammar() error = %v", err)
	}
	if len(res.Diagnostic) == 0 {
		t.Fatalf("expected a diagnostic for the undefined rule B")
	}
	if res.Diagnostic[0].Tag != "undefined_ident" {
		t.Errorf("Tag = %s, want undefined_ident", res.Diagnostic[0].Tag)
	}
}

func TestRunGenerateWritesOutputFile(t *testing.T) {
	grammarPath := "/memfs/write.peg"
	if err := file.WriteFile(grammarPath, []byte(`PEG G (A) A <- "x"; END ;`)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	outputFlag = "/memfs/write_out.go"
	packageFlag = "genp"
	defer func() { outputFlag = ""; packageFlag = "main" }()

	if err := runGenerate(nil, []string{grammarPath}); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}

	out, err := file.ReadFile(outputFlag)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(out), "package genp") {
		t.Errorf("generated output missing package clause:\n%s", out)
	}
}
