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

package check

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/peglang/pegc/bootstrap"
	"github.com/peglang/pegc/diagnostics"
	"github.com/peglang/pegc/semantic"
)

func mustCheck(t *testing.T, src string) *Result {
	t.Helper()
	n, err := bootstrap.Parse([]byte(src))
	if err != nil {
		t.Fatalf("bootstrap.Parse(%q) error = %v", src, err)
	}
	g, err := semantic.Convert(n)
	if err != nil {
		t.Fatalf("semantic.Convert() error = %v", err)
	}
	return Check(g)
}

func tagsOf(r *Result) []diagnostics.Tag {
	var tags []diagnostics.Tag
	for _, d := range r.Diagnostic {
		tags = append(tags, d.Tag)
	}
	return tags
}

func TestTrivialIdentityHasNoDiagnostics(t *testing.T) {
	r := mustCheck(t, `PEG G (A) A <- "x"; END ;`)
	if len(r.Diagnostic) != 0 {
		t.Fatalf("diagnostics = %v, want none", r.Diagnostic)
	}
}

func TestDirectLeftRecursion(t *testing.T) {
	r := mustCheck(t, `PEG G (A) A <- A "x" / "y"; END ;`)
	if len(r.Diagnostic) != 1 || r.Diagnostic[0].Tag != diagnostics.TagLeftRecursion {
		t.Fatalf("diagnostics = %v, want one left_recursion", r.Diagnostic)
	}
	if got, want := r.Diagnostic[0].Message, "A -> A"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestIndirectLeftRecursion(t *testing.T) {
	r := mustCheck(t, `PEG G (A) A <- B; B <- A; END ;`)
	if len(r.Diagnostic) != 1 || r.Diagnostic[0].Tag != diagnostics.TagLeftRecursion {
		t.Fatalf("diagnostics = %v, want one left_recursion", r.Diagnostic)
	}
	if got, want := r.Diagnostic[0].Message, "A -> B -> A"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestNullableStarRejected(t *testing.T) {
	r := mustCheck(t, `PEG G (A) A <- (B)*; B <- "x"?; END ;`)
	var found bool
	for _, d := range r.Diagnostic {
		if d.Tag == diagnostics.TagUnnullable {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want an unnullable entry", r.Diagnostic)
	}
	var bNullable bool
	for _, name := range r.Nullable {
		if name == "B" {
			bNullable = true
		}
	}
	if !bNullable {
		t.Errorf("Nullable = %v, want B included", r.Nullable)
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	r := mustCheck(t, `PEG G (A) A <- B; END ;`)
	if len(r.Diagnostic) != 1 || r.Diagnostic[0].Tag != diagnostics.TagUndefinedIdent {
		t.Fatalf("diagnostics = %v, want one undefined_ident", r.Diagnostic)
	}
}

func TestNullableSetExcludesNonNullableReferences(t *testing.T) {
	// A's own expansion is nullable (every factor is `?`); Z, C and B
	// are each defined as a bare non-empty literal, so only A belongs
	// to the nullable set even though its RHS references all three.
	r := mustCheck(t, `PEG G (A) A <- Z? C? B?; B <- "b"; C <- "c"; Z <- "z"; END ;`)
	want := []string{"A"}
	if diff := cmp.Diff(want, r.Nullable); diff != "" {
		t.Errorf("Nullable mismatch (-want +got):\n%s", diff)
	}
}

func TestPredicateClearsLeftRecursionFlag(t *testing.T) {
	// &A inside A's own expansion is zero-width: the cycle resolves
	// silently to non-nullable rather than reporting left_recursion.
	r := mustCheck(t, `PEG G (A) A <- &A "x" / "y"; END ;`)
	for _, tag := range tagsOf(r) {
		if tag == diagnostics.TagLeftRecursion {
			t.Fatalf("diagnostics = %v, want no left_recursion under &", r.Diagnostic)
		}
	}
}

func TestSequenceProgressClearsLeftRecursionFlag(t *testing.T) {
	// "x" A <- consumes input before recursing into A, so this is
	// ordinary (right) recursion, not left recursion.
	r := mustCheck(t, `PEG G (A) A <- "x" A / "y"; END ;`)
	for _, tag := range tagsOf(r) {
		if tag == diagnostics.TagLeftRecursion {
			t.Fatalf("diagnostics = %v, want no left_recursion after progress", r.Diagnostic)
		}
	}
}
