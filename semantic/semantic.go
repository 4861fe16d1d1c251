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

// Package semantic converts the bootstrap parser's raw ast.Node grammar
// tree into the Grammar/Rule shape the checker and code emitter consume.
// The conversion itself is driven by a small reflection-based
// Construct/Accessor pair that dispatches on ast.Kind, since this tool's
// AST shapes are fixed at compile time rather than derived from a rule
// table at run time.
package semantic

import (
	"fmt"
	"reflect"

	"github.com/peglang/pegc/ast"
)

// Attr is a rule's emission attribute, from its optional `attribute`
// child, which wraps one of `void`/`leaf`.
type Attr int

const (
	AttrNone Attr = iota
	AttrVoid
	AttrLeaf
)

func (a Attr) String() string {
	switch a {
	case AttrVoid:
		return "void"
	case AttrLeaf:
		return "leaf"
	default:
		return "none"
	}
}

// Rule is one named grammar rule: its identifier, attribute, and the
// expression ast.Node defining its body. Expr is the raw tree node, not
// a re-expressed sum type, so that check and codegen can walk it with
// the same span-aware ast.Node primitives the bootstrap parser built.
type Rule struct {
	Name  string
	Ident *ast.Node
	Attr  Attr
	Expr  *ast.Node
}

// Grammar is the semantic view of a whole grammar file: its rule table
// (last-definition-wins when a name is defined more than once) plus the
// anonymous start expression from the header.
type Grammar struct {
	Rules     map[string]*Rule
	RuleNames []string
	StartName string
	Start     *ast.Node
	Source    []byte
}

// Convert builds a Grammar from a `grammar` ast.Node produced by
// bootstrap.Parse. It assumes the tree already has the expected shape;
// the bootstrap parser is solely responsible for enforcing that
// invariant.
func Convert(n *ast.Node) (*Grammar, error) {
	if n == nil || n.Kind != ast.KindGrammar {
		return nil, fmt.Errorf("semantic: Convert: expected a grammar node, got %v", n)
	}
	val, err := Construct(n, callback, &AccessorOptions{})
	if err != nil {
		return nil, err
	}
	g, ok := val.(*Grammar)
	if !ok {
		return nil, fmt.Errorf("semantic: Convert: internal error: root constructed to %s, not *Grammar", reflect.TypeOf(val))
	}
	g.Source = n.Source()
	return g, nil
}

// callback implements the per-node construction step passed to
// Construct, keyed on ast.Kind. Only grammar, header and definition
// need semantic assembly here (header reads its startExpr child
// positionally): check and codegen consume the raw expression subtree
// directly.
func callback(kind ast.Kind, n *ast.Node, ca Accessor) (interface{}, error) {
	switch kind {
	case ast.KindGrammar:
		header, ok := ca.Get(ast.KindHeader).(*headerResult)
		if !ok {
			return nil, fmt.Errorf("semantic: grammar node missing header")
		}
		rules := make(map[string]*Rule)
		var names []string
		for _, def := range ca.GetAll(ast.KindDefinition) {
			r := def.(*Rule)
			if _, dup := rules[r.Name]; !dup {
				names = append(names, r.Name)
			}
			// Last definition wins.
			rules[r.Name] = r
		}
		return &Grammar{
			Rules:     rules,
			RuleNames: names,
			StartName: header.name,
			Start:     header.start,
		}, nil
	case ast.KindHeader:
		id := n.Child(ast.KindIdentifier)
		start := n.Child(ast.KindStartExpr)
		return &headerResult{name: identName(id), start: start.Child(ast.KindExpression)}, nil
	case ast.KindDefinition:
		id := n.Child(ast.KindIdentifier)
		attr := AttrNone
		if a := n.Child(ast.KindAttribute); a != nil {
			if a.Child(ast.KindVoid) != nil {
				attr = AttrVoid
			} else if a.Child(ast.KindLeaf) != nil {
				attr = AttrLeaf
			}
		}
		return &Rule{
			Name:  identName(id),
			Ident: id,
			Attr:  attr,
			Expr:  n.Child(ast.KindExpression),
		}, nil
	}
	// Every other node kind (identifiers, expressions, attributes, ...)
	// is read positionally by its parent's callback via ast.Node.Child
	// instead of through an Accessor, so it contributes nothing here.
	return nil, nil
}

type headerResult struct {
	name  string
	start *ast.Node
}

func identName(id *ast.Node) string {
	if id == nil {
		return ""
	}
	if leaf := id.Child(ast.KindIdent); leaf != nil {
		return leaf.Text()
	}
	return id.Text()
}
