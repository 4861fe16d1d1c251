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

package semantic

import (
	"fmt"

	"github.com/peglang/pegc/ast"
)

// Accessor is handed to the callback while constructing one node's
// semantic value; it exposes that node's already-converted children by
// kind, keyed on ast.Kind rather than a dynamic string label.
type Accessor interface {
	// Node returns the ast.Node currently being converted.
	Node() *ast.Node
	// Get returns the single converted child of the given kind, or nil
	// if none was produced (a child kind converts to nil when the
	// callback has nothing useful to contribute for it, e.g. leaves
	// consumed positionally instead).
	Get(kind ast.Kind) interface{}
	// GetAll returns every converted child of the given kind, in order.
	GetAll(kind ast.Kind) []interface{}
}

// AccessorOptions configures Construct's error behavior. It is kept as
// a distinct type even though this tool does not yet use any option: a
// future strict mode (erroring on unused children) has an obvious home
// here.
type AccessorOptions struct{}

type accessor struct {
	node     *ast.Node
	children map[ast.Kind][]interface{}
}

func (ca *accessor) Node() *ast.Node { return ca.node }

func (ca *accessor) Get(kind ast.Kind) interface{} {
	vs := ca.children[kind]
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

func (ca *accessor) GetAll(kind ast.Kind) []interface{} {
	return ca.children[kind]
}

// Construct recursively converts n into a semantic value by calling cb
// bottom-up: every child is converted first, then cb is invoked with an
// Accessor exposing those converted children keyed by ast.Kind. A
// callback may return (nil, nil) to contribute nothing (e.g. bare
// leaves the parent reads positionally via ast.Node.Child instead).
func Construct(n *ast.Node, cb func(ast.Kind, *ast.Node, Accessor) (interface{}, error), opts *AccessorOptions) (interface{}, error) {
	children := make(map[ast.Kind][]interface{})
	for _, ch := range n.Children {
		val, err := Construct(ch, cb, opts)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		children[ch.Kind] = append(children[ch.Kind], val)
	}
	ca := &accessor{node: n, children: children}
	val, err := cb(n.Kind, n, ca)
	if err != nil {
		return nil, fmt.Errorf("semantic: constructing %s: %w", n.Kind, err)
	}
	return val, nil
}
