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

package ast

import "testing"

func TestStringLeaf(t *testing.T) {
	src := []byte("foo")
	n := New(src, KindIdent, 0, 3)
	if got, want := n.String(), `(ident "foo")`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringComposite(t *testing.T) {
	src := []byte("foo")
	leaf := New(src, KindIdent, 0, 3)
	n := NewComposite(src, KindIdentifier, 0, 3, leaf)
	if got, want := n.String(), `(identifier (ident "foo"))`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDumpIncludesSpans(t *testing.T) {
	src := []byte("foo")
	leaf := New(src, KindIdent, 0, 3)
	n := NewComposite(src, KindIdentifier, 0, 3, leaf)
	if got, want := n.Dump(), `(identifier pos(0,3) (ident "foo" pos(0,3)))`; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestExtract(t *testing.T) {
	src := []byte("foo")
	leaf := New(src, KindIdent, 0, 3)
	n := NewComposite(src, KindIdentifier, 0, 3, leaf)

	got, err := Extract(n, []Kind{KindIdent})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Text() != "foo" {
		t.Errorf("Extract() text = %q, want %q", got.Text(), "foo")
	}

	if _, err := Extract(n, []Kind{KindDot}); err == nil {
		t.Errorf("Extract() with missing kind: expected error, got nil")
	}
}
