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

// Package check implements the grammar checker: it resolves identifier
// references against the rule table, computes per-rule nullability, and
// rejects grammars containing undefined references, left recursion, or
// nullable greedy repetition.
package check

import (
	"sort"
	"strings"

	log "github.com/golang/glog"

	"github.com/peglang/pegc/ast"
	"github.com/peglang/pegc/charclass"
	"github.com/peglang/pegc/diagnostics"
	"github.com/peglang/pegc/semantic"
)

// Result is the checker's published output: the set of nullable rule
// names, sorted for reproducible output, and the accumulated
// diagnostics. A grammar with any diagnostic must not be fed to codegen.
type Result struct {
	Nullable   []string
	Diagnostic diagnostics.List
}

type checker struct {
	grammar   *semantic.Grammar
	accessing []string        // DFS stack of rule names, for the cycle path
	onStack   map[string]bool // accessing, as a set
	accessed  map[string]bool // rule name -> nullability, once resolved
	nullable  map[string]bool
	diags     diagnostics.List
}

// Check runs the checker over g, starting from its declared start rule.
// It returns a Result whenever the grammar is well-formed enough to
// walk at all; callers must inspect Result.Diagnostic before trusting
// Result.Nullable or handing g to codegen.
func Check(g *semantic.Grammar) *Result {
	c := &checker{
		grammar:  g,
		onStack:  make(map[string]bool),
		accessed: make(map[string]bool),
		nullable: make(map[string]bool),
	}
	c.nullableExpr(g.Start, true)
	for _, name := range g.RuleNames {
		if !c.accessed[name] {
			// Rules unreachable from the start symbol are still
			// validated, so an undefined reference or nullable-star
			// bug in dead code is still reported.
			c.nullableRule(name)
		}
	}
	var names []string
	for name := range c.nullable {
		names = append(names, name)
	}
	sort.Strings(names)
	log.V(2).Infof("check: %d rules, %d nullable, %d diagnostics", len(g.RuleNames), len(names), len(c.diags))
	return &Result{Nullable: names, Diagnostic: c.diags}
}

func (c *checker) nullableRule(name string) bool {
	if n, ok := c.accessed[name]; ok {
		return n
	}
	rule, ok := c.grammar.Rules[name]
	if !ok {
		// Caller already reported undefined_ident; treat as
		// non-nullable so dependents don't cascade a false positive.
		return false
	}
	if c.onStack[name] {
		// A direct self-reference reached through nullableRule (rather
		// than through nullableExpr's left-recursion bookkeeping) can
		// only happen via the unreachable-rule sweep re-entering a
		// cycle already under resolution; treat as non-nullable and let
		// the original DFS path own the diagnostic.
		return false
	}
	c.onStack[name] = true
	c.accessing = append(c.accessing, name)
	n := c.nullableExpr(rule.Expr, true)
	c.accessing = c.accessing[:len(c.accessing)-1]
	delete(c.onStack, name)
	c.accessed[name] = n
	if n {
		c.nullable[name] = true
	}
	return n
}

// nullableExpr computes nullability of n, threading checkLeftRecursion
// so the flag clears across sequence siblings once one has made
// progress and inside zero-width predicates. The operand of `?`, `*`
// and `+` is visited once, with the flag as passed in.
func (c *checker) nullableExpr(n *ast.Node, checkLeftRecursion bool) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case ast.KindExpression:
		nullable := false
		for _, alt := range n.Children {
			if c.nullableExpr(alt, checkLeftRecursion) {
				nullable = true
			}
		}
		return nullable

	case ast.KindSequence:
		all := true
		flag := checkLeftRecursion
		for _, term := range n.Children {
			n := c.nullableExpr(term, flag)
			if !n {
				all = false
				flag = false // progress made; later siblings are safe
			}
		}
		return all

	case ast.KindPrefix:
		if n.Child(ast.KindAnd) != nil || n.Child(ast.KindNot) != nil {
			suffix := n.Child(ast.KindSuffix)
			c.nullableExpr(suffix, false)
			return true
		}
		return c.nullableExpr(n.Child(ast.KindSuffix), checkLeftRecursion)

	case ast.KindSuffix:
		primary := n.Child(ast.KindPrimary)
		switch {
		case n.Child(ast.KindQuestion) != nil:
			c.nullableExpr(primary, checkLeftRecursion)
			return true
		case n.Child(ast.KindStar) != nil:
			if c.nullableExpr(primary, checkLeftRecursion) {
				c.diags = append(c.diags, diagnostics.New(diagnostics.TagUnnullable, n.Start, n.End,
					"Greedy matches are not allowed to be empty"))
			}
			return true
		case n.Child(ast.KindPlus) != nil:
			nullable := c.nullableExpr(primary, checkLeftRecursion)
			if nullable {
				c.diags = append(c.diags, diagnostics.New(diagnostics.TagUnnullable, n.Start, n.End,
					"Greedy matches are not allowed to be empty"))
			}
			return nullable
		default:
			return c.nullableExpr(primary, checkLeftRecursion)
		}

	case ast.KindPrimary:
		return c.nullablePrimary(n, checkLeftRecursion)

	case ast.KindIdentifier:
		return c.nullableIdentifier(n, checkLeftRecursion)

	case ast.KindLiteral:
		return len(n.Children) == 0

	case ast.KindClass, ast.KindDot:
		return false
	}
	log.Errorf("check: nullableExpr: unexpected node kind %s", n.Kind)
	return false
}

func (c *checker) nullablePrimary(n *ast.Node, checkLeftRecursion bool) bool {
	child := n.Children[0]
	switch child.Kind {
	case ast.KindIdentifier:
		return c.nullableIdentifier(child, checkLeftRecursion)
	case ast.KindExpression:
		return c.nullableExpr(child, checkLeftRecursion)
	case ast.KindLiteral:
		return c.nullableExpr(child, checkLeftRecursion)
	case ast.KindClass:
		return false
	case ast.KindDot:
		return false
	}
	log.Errorf("check: nullablePrimary: unexpected child kind %s", child.Kind)
	return false
}

func (c *checker) nullableIdentifier(id *ast.Node, checkLeftRecursion bool) bool {
	name := id.Child(ast.KindIdent).Text()

	if nullable, ok := c.accessed[name]; ok && !c.onStack[name] {
		return nullable
	}

	if c.onStack[name] {
		if checkLeftRecursion {
			idx := indexOf(c.accessing, name)
			if idx < 0 {
				idx = 0
			}
			cycle := append(append([]string(nil), c.accessing[idx:]...), name)
			c.diags = append(c.diags, diagnostics.New(diagnostics.TagLeftRecursion, id.Start, id.End,
				"%s", strings.Join(cycle, " -> ")))
		}
		// Whether reported or silently resolved, a cycle back to a
		// rule currently under resolution contributes non-nullable to
		// its caller.
		return false
	}

	if _, ok := c.grammar.Rules[name]; !ok {
		if charclass.IsProperty(name) {
			// Reserved character-property predicate: not a rule
			// reference, never nullable, needs no definition.
			return false
		}
		c.diags = append(c.diags, diagnostics.New(diagnostics.TagUndefinedIdent, id.Start, id.End,
			"undefined rule %q", name))
		return false
	}
	return c.nullableRule(name)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
