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

// Package ast defines the grammar-description syntax tree: a single
// tagged-variant Node type shared by the bootstrap parser, the checker
// and the code emitter.
package ast

// Kind identifies the variant of a Node, playing the role of a sum-type
// tag, closed over a fixed enumeration since every variant this tool
// ever produces is known statically.
type Kind uint8

const (
	// Leaf kinds carry only a span; Children is always nil.
	KindIdent Kind = iota
	KindCharUnescaped
	KindCharSpecial
	KindCharOctalFull
	KindCharOctalPart
	KindCharUnicode
	KindVoid
	KindLeaf
	KindAnd
	KindNot
	KindQuestion
	KindStar
	KindPlus
	KindDot

	// Composite kinds carry an ordered Children slice.
	KindGrammar
	KindHeader
	KindDefinition
	KindAttribute
	KindExpression
	KindSequence
	KindPrefix
	KindSuffix
	KindPrimary
	KindLiteral
	KindClass
	KindRange
	KindStartExpr
	KindIdentifier
	KindChar
)

// IsLeaf reports whether k is a leaf variant (span only, no children).
func (k Kind) IsLeaf() bool {
	return k <= KindDot
}

var kindNames = [...]string{
	KindIdent:         "ident",
	KindCharUnescaped: "charUnescaped",
	KindCharSpecial:   "charSpecial",
	KindCharOctalFull: "charOctalFull",
	KindCharOctalPart: "charOctalPart",
	KindCharUnicode:   "charUnicode",
	KindVoid:          "void",
	KindLeaf:          "leaf",
	KindAnd:           "and",
	KindNot:           "not",
	KindQuestion:      "question",
	KindStar:          "star",
	KindPlus:          "plus",
	KindDot:           "dot",
	KindGrammar:       "grammar",
	KindHeader:        "header",
	KindDefinition:    "definition",
	KindAttribute:     "attribute",
	KindExpression:    "expression",
	KindSequence:      "sequence",
	KindPrefix:        "prefix",
	KindSuffix:        "suffix",
	KindPrimary:       "primary",
	KindLiteral:       "literal",
	KindClass:         "class",
	KindRange:         "range",
	KindStartExpr:     "startExpr",
	KindIdentifier:    "identifier",
	KindChar:          "char",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is the sole AST type. Leaf variants populate only Start/End;
// composite variants additionally populate Children. The bootstrap
// parser builds all nodes through New and NewComposite; the checker and
// the emitter borrow them and never mutate them.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Children []*Node

	// source is the shared byte slice every span indexes into. It is set
	// once, by New or NewComposite, and never copied.
	source []byte
}

// New constructs a leaf node. It panics if kind is not a leaf kind, since
// that would indicate a bug in the bootstrap parser, not a user-facing
// grammar error.
func New(source []byte, kind Kind, start, end int) *Node {
	if !kind.IsLeaf() {
		panic("ast: New called with a composite kind " + kind.String())
	}
	return &Node{Kind: kind, Start: start, End: end, source: source}
}

// NewComposite constructs a composite node from its ordered children.
func NewComposite(source []byte, kind Kind, start, end int, children ...*Node) *Node {
	if kind.IsLeaf() {
		panic("ast: NewComposite called with a leaf kind " + kind.String())
	}
	return &Node{Kind: kind, Start: start, End: end, Children: children, source: source}
}

// Text returns the slice of the original source this node spans.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return string(n.source[n.Start:n.End])
}

// Source returns the full source buffer this node was parsed from.
func (n *Node) Source() []byte {
	if n == nil {
		return nil
	}
	return n.source
}

// Child returns the first child of the given kind, or nil.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// All returns every child of the given kind, in order.
func (n *Node) All(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			r = append(r, c)
		}
	}
	return r
}
