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

import (
	"fmt"
	"strings"
)

// String renders n as an s-expression, e.g. (identifier (ident "foo")).
// Leaf nodes that carry no useful text are rendered bare.
func (n *Node) String() string {
	return n.toString("", false)
}

// Dump is like String but also prints byte spans, for diagnostics.
func (n *Node) Dump() string {
	return n.toString("", true)
}

func (n *Node) toString(indent string, full bool) string {
	if n == nil {
		return "(nil)"
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Kind.String())
	if n.Kind.IsLeaf() {
		if text := n.Text(); text != "" {
			fmt.Fprintf(&b, " %q", text)
		}
	}
	if full {
		fmt.Fprintf(&b, " pos(%d,%d)", n.Start, n.End)
	}
	nl := false
	for _, ch := range n.Children {
		s := ch.toString(indent+"  ", full)
		if len(s) > 40 {
			nl = true
		}
		if nl {
			b.WriteString("\n")
			b.WriteString(indent)
		}
		b.WriteString(" ")
		b.WriteString(s)
	}
	b.WriteString(")")
	return b.String()
}

// Extract walks a path of kinds and returns the descendant node it
// lands on, used by tests and diagnostic tooling to pick a descendant
// without constructing a full matcher.
func Extract(n *Node, path []Kind) (*Node, error) {
	cur := n
	for _, kind := range path {
		next := cur.Child(kind)
		if next == nil {
			return nil, fmt.Errorf("ast.Extract: no child of kind %s under %s", kind, cur.Kind)
		}
		cur = next
	}
	return cur, nil
}
