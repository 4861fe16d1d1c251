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

package bootstrap

import (
	"strings"
	"testing"

	"github.com/peglang/pegc/ast"
)

func TestParseTrivialGrammar(t *testing.T) {
	src := `PEG G (A) A <- "x"; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.Kind != ast.KindGrammar {
		t.Fatalf("top node kind = %s, want grammar", n.Kind)
	}
	header := n.Child(ast.KindHeader)
	if header == nil {
		t.Fatalf("no header child")
	}
	id := header.Child(ast.KindIdentifier)
	if id == nil || id.Child(ast.KindIdent).Text() != "G" {
		t.Errorf("header identifier = %v, want G", id)
	}
	defs := n.All(ast.KindDefinition)
	if len(defs) != 1 {
		t.Fatalf("got %d definitions, want 1", len(defs))
	}
}

func TestParseLeftRecursionShapeStillParses(t *testing.T) {
	// left recursion is a *checker* concern, not a bootstrap-parser
	// concern: the grammar below is syntactically well formed.
	src := `PEG G (A) A <- A "x" / "y"; END ;`
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParseIndirectRecursionShape(t *testing.T) {
	src := `PEG G (A) A <- B; B <- A; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(n.All(ast.KindDefinition)) != 2 {
		t.Fatalf("got %d definitions, want 2", len(n.All(ast.KindDefinition)))
	}
}

func TestParseNullableStarShape(t *testing.T) {
	src := `PEG G (A) A <- (B)*; B <- "x"?; END ;`
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParseUndefinedIdentShape(t *testing.T) {
	src := `PEG G (A) A <- B; END ;`
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParseCharacterClassRange(t *testing.T) {
	src := `PEG G (A) A <- [a-c0-9]; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	def := n.All(ast.KindDefinition)[0]
	expr := def.Child(ast.KindExpression)
	primary := expr.Child(ast.KindSequence).Child(ast.KindPrefix).Child(ast.KindSuffix).Child(ast.KindPrimary)
	class := primary.Child(ast.KindClass)
	if class == nil {
		t.Fatalf("no class node found")
	}
	ranges := class.All(ast.KindRange)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not a grammar")); err == nil {
		t.Fatalf("Parse() succeeded on garbage input")
	}
}

func TestParseAttributes(t *testing.T) {
	src := `PEG G (A) void: A <- "x"; leaf: B <- "y"; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defs := n.All(ast.KindDefinition)
	if got := defs[0].Child(ast.KindAttribute).Child(ast.KindVoid); got == nil {
		t.Errorf("first definition missing void attribute")
	}
	if got := defs[1].Child(ast.KindAttribute).Child(ast.KindLeaf); got == nil {
		t.Errorf("second definition missing leaf attribute")
	}
}

func TestParsePredicatesAndRepetition(t *testing.T) {
	src := `PEG G (A) A <- &"x" !"y" "z"* "w"+ "v"?; END ;`
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParseComment(t *testing.T) {
	src := "PEG G (A) # a comment\nA <- \"x\"; END ;"
	if _, err := Parse([]byte(src)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParseEscapes(t *testing.T) {
	src := `PEG G (A) A <- "\n\t\101\u41"; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	def := n.All(ast.KindDefinition)[0]
	lit := def.Child(ast.KindExpression).Child(ast.KindSequence).Child(ast.KindPrefix).
		Child(ast.KindSuffix).Child(ast.KindPrimary).Child(ast.KindLiteral)
	chars := lit.All(ast.KindChar)
	if len(chars) != 4 {
		t.Fatalf("got %d chars, want 4", len(chars))
	}
	want := []rune{'\n', '\t', 'A', 'A'}
	for i, ch := range chars {
		r, err := DecodeChar(ch)
		if err != nil {
			t.Fatalf("DecodeChar(%d) error = %v", i, err)
		}
		if r != want[i] {
			t.Errorf("DecodeChar(%d) = %q, want %q", i, r, want[i])
		}
	}
}

func TestParseCharClassTrailingDash(t *testing.T) {
	src := `PEG G (A) A <- [a-]; END ;`
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	def := n.All(ast.KindDefinition)[0]
	class := def.Child(ast.KindExpression).Child(ast.KindSequence).Child(ast.KindPrefix).
		Child(ast.KindSuffix).Child(ast.KindPrimary).Child(ast.KindClass)
	ranges := class.All(ast.KindRange)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2 (a, and literal -)", len(ranges))
	}
	r, err := DecodeChar(ranges[1].Children[0])
	if err != nil {
		t.Fatalf("DecodeChar error = %v", err)
	}
	if r != '-' {
		t.Errorf("second range char = %q, want '-'", r)
	}
}

func TestParseErrorReportsFurthestPosition(t *testing.T) {
	_, err := Parse([]byte(`PEG G (A) A <- "x" END ;`))
	if err == nil {
		t.Fatalf("expected error for missing ';'")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if !strings.Contains(pe.Error(), "parse error at byte") {
		t.Errorf("Error() = %q, missing position prefix", pe.Error())
	}
}
