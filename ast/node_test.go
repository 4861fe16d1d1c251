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

func TestLeafText(t *testing.T) {
	src := []byte("hello world")
	n := New(src, KindIdent, 0, 5)
	if got, want := n.Text(), "hello"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestCompositeChildAndAll(t *testing.T) {
	src := []byte("ab")
	a := New(src, KindIdent, 0, 1)
	b1 := New(src, KindDot, 1, 2)
	b2 := New(src, KindDot, 1, 2)
	n := NewComposite(src, KindSequence, 0, 2, a, b1, b2)

	if got := n.Child(KindIdent); got != a {
		t.Errorf("Child(KindIdent) = %v, want %v", got, a)
	}
	if got := n.Child(KindDot); got != b1 {
		t.Errorf("Child(KindDot) = %v, want first dot %v", got, b1)
	}
	if got := n.All(KindDot); len(got) != 2 {
		t.Errorf("All(KindDot) = %d nodes, want 2", len(got))
	}
	if got := n.Child(KindLeaf); got != nil {
		t.Errorf("Child(KindLeaf) = %v, want nil", got)
	}
}

func TestNewPanicsOnCompositeKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New(KindSequence) did not panic")
		}
	}()
	New(nil, KindSequence, 0, 0)
}

func TestNewCompositePanicsOnLeafKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewComposite(KindIdent) did not panic")
		}
	}()
	NewComposite(nil, KindIdent, 0, 0)
}

func TestNilNodeAccessors(t *testing.T) {
	var n *Node
	if n.Text() != "" {
		t.Errorf("nil.Text() != \"\"")
	}
	if n.Child(KindIdent) != nil {
		t.Errorf("nil.Child() != nil")
	}
	if n.All(KindIdent) != nil {
		t.Errorf("nil.All() != nil")
	}
}
