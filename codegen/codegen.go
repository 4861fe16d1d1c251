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

// Package codegen walks a validated grammar and emits Go source for a
// recursive-descent parser: the combinator runtime prologue (see
// prologue.go), a nullability table, and one parser function per rule
// translated from its expression tree. Output is assembled as a string
// and canonicalized with go/format. Every generated call site's arity
// is static, so the combinator-call expressions are built as text
// rather than through go/ast; there is no dynamic tree shape to
// assemble.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"

	log "github.com/golang/glog"

	"github.com/peglang/pegc/ast"
	"github.com/peglang/pegc/bootstrap"
	"github.com/peglang/pegc/charclass"
	"github.com/peglang/pegc/semantic"
)

var prologueTmpl = template.Must(template.New("prologue").Parse(prologueTemplate))

// reserved names the generated runtime already defines (prologue.go)
// plus Go's own keywords; a rule whose mangled name collides, or whose
// source spelling contains the grammar's ':' namespace separator, is
// quoted via a trailing underscore, the target language's closest
// analogue to a raw-identifier escape for an unexported Go function
// name.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
	"node": true, "cursor": true, "parse": true, "matchfunc": true, "charclass": true,
}

// mangleRule maps a grammar rule name to the Go identifier fragment
// used for its generated function/constant: case is normalized to
// lower, ':' is replaced (it is not legal in a Go identifier), and
// reserved-word collisions and names containing ':' get a trailing
// underscore. The original spelling is preserved as the Node.Kind
// string tag and in error-stack pushRule calls.
func mangleRule(name string) string {
	lower := strings.ToLower(name)
	mangled := strings.ReplaceAll(lower, ":", "_")
	if reserved[mangled] || strings.Contains(name, ":") {
		mangled += "_"
	}
	return mangled
}

type generator struct {
	grammar  *semantic.Grammar
	funcName map[string]string
	buf      strings.Builder
}

// Generate emits a complete Go source file implementing g, named
// package pkg. g must already have passed check.Check with zero
// diagnostics; nullable is that check's published nullable-rule set.
func Generate(g *semantic.Grammar, nullable []string, pkg string) (string, error) {
	sortedNullable := append([]string(nil), nullable...)
	sort.Strings(sortedNullable)

	var pre bytes.Buffer
	if err := prologueTmpl.Execute(&pre, struct {
		Package  string
		Nullable []string
	}{pkg, sortedNullable}); err != nil {
		return "", fmt.Errorf("codegen: rendering prologue: %w", err)
	}

	gen := &generator{grammar: g, funcName: make(map[string]string)}
	for _, name := range g.RuleNames {
		gen.funcName[name] = "Parse" + exportCase(mangleRule(name))
	}

	gen.buf.WriteString(pre.String())
	gen.buf.WriteString("\n")
	gen.emitParseEntry()
	for _, name := range g.RuleNames {
		gen.emitRule(g.Rules[name])
	}

	out, err := format.Source([]byte(gen.buf.String()))
	if err != nil {
		log.Errorf("codegen: generated source failed to format: %s\n%s", err, gen.buf.String())
		return "", fmt.Errorf("codegen: generated source is not valid Go: %w", err)
	}
	return string(out), nil
}

// exportCase title-cases the first rune so generated per-rule parser
// functions are exported, yielding `ParseFoo`-style entry points.
func exportCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (gen *generator) emitParseEntry() {
	fmt.Fprintf(&gen.buf, "// Parse parses source against the grammar's start expression.\n")
	fmt.Fprintf(&gen.buf, "func Parse(source []byte) (*Node, error) {\n")
	fmt.Fprintf(&gen.buf, "\tc := newCursor(source)\n")
	fmt.Fprintf(&gen.buf, "\tok, children := (%s)(c)\n", gen.expr(gen.grammar.Start))
	fmt.Fprintf(&gen.buf, "\tif !ok {\n\t\treturn nil, buildError(c)\n\t}\n")
	fmt.Fprintf(&gen.buf, "\tif len(children) == 1 {\n\t\treturn children[0], nil\n\t}\n")
	fmt.Fprintf(&gen.buf, "\treturn &Node{Kind: %q, Start: 0, End: c.pos, Children: children}, nil\n", "")
	fmt.Fprintf(&gen.buf, "}\n\n")
}

func (gen *generator) emitRule(r *semantic.Rule) {
	fn := gen.funcName[r.Name]
	tag := strconv.Quote(r.Name)
	switch r.Attr {
	case semantic.AttrVoid:
		fmt.Fprintf(&gen.buf, "// %s is a void rule: it matches but contributes no node.\n", fn)
		fmt.Fprintf(&gen.buf, "func %s(c *cursor) bool {\n", fn)
		fmt.Fprintf(&gen.buf, "\tc.pushRule(%s)\n\tdefer c.popRule()\n", tag)
		fmt.Fprintf(&gen.buf, "\tstart := c.pos\n")
		fmt.Fprintf(&gen.buf, "\tok, _ := (%s)(c)\n", gen.expr(r.Expr))
		fmt.Fprintf(&gen.buf, "\tif !ok {\n\t\tc.pos = start\n\t\treturn false\n\t}\n")
		fmt.Fprintf(&gen.buf, "\treturn true\n}\n\n")
	case semantic.AttrLeaf:
		fmt.Fprintf(&gen.buf, "// %s is a leaf rule: its children are discarded, only its span kept.\n", fn)
		fmt.Fprintf(&gen.buf, "func %s(c *cursor) *Node {\n", fn)
		fmt.Fprintf(&gen.buf, "\tc.pushRule(%s)\n\tdefer c.popRule()\n", tag)
		fmt.Fprintf(&gen.buf, "\tstart := c.pos\n")
		fmt.Fprintf(&gen.buf, "\tok, _ := (%s)(c)\n", gen.expr(r.Expr))
		fmt.Fprintf(&gen.buf, "\tif !ok {\n\t\tc.pos = start\n\t\treturn nil\n\t}\n")
		fmt.Fprintf(&gen.buf, "\treturn &Node{Kind: %s, Start: start, End: c.pos}\n}\n\n", tag)
	default:
		fmt.Fprintf(&gen.buf, "func %s(c *cursor) *Node {\n", fn)
		fmt.Fprintf(&gen.buf, "\tc.pushRule(%s)\n\tdefer c.popRule()\n", tag)
		fmt.Fprintf(&gen.buf, "\tstart := c.pos\n")
		fmt.Fprintf(&gen.buf, "\tok, children := (%s)(c)\n", gen.expr(r.Expr))
		fmt.Fprintf(&gen.buf, "\tif !ok {\n\t\tc.pos = start\n\t\treturn nil\n\t}\n")
		fmt.Fprintf(&gen.buf, "\treturn &Node{Kind: %s, Start: start, End: c.pos, Children: children}\n}\n\n", tag)
	}
}

// expr translates an ast.Node expression subtree into a Go expression
// of type matchFunc.
func (gen *generator) expr(n *ast.Node) string {
	if n == nil {
		return "func(c *cursor) (bool, []*Node) { return true, nil }"
	}
	switch n.Kind {
	case ast.KindExpression:
		alts := n.Children
		if len(alts) == 1 {
			return gen.expr(alts[0])
		}
		parts := make([]string, len(alts))
		for i, a := range alts {
			parts[i] = gen.expr(a)
		}
		return fmt.Sprintf("choiceMatch(%s)", strings.Join(parts, ", "))

	case ast.KindSequence:
		terms := n.Children
		if len(terms) == 1 {
			return gen.expr(terms[0])
		}
		parts := make([]string, len(terms))
		for i, t := range terms {
			parts[i] = gen.expr(t)
		}
		return fmt.Sprintf("seqMatch(%s)", strings.Join(parts, ", "))

	case ast.KindPrefix:
		suffix := n.Child(ast.KindSuffix)
		switch {
		case n.Child(ast.KindAnd) != nil:
			return fmt.Sprintf("andMatch(%s)", gen.expr(suffix))
		case n.Child(ast.KindNot) != nil:
			return fmt.Sprintf("notMatch(%s)", gen.expr(suffix))
		default:
			return gen.expr(suffix)
		}

	case ast.KindSuffix:
		primary := n.Child(ast.KindPrimary)
		switch {
		case n.Child(ast.KindQuestion) != nil:
			return fmt.Sprintf("optionalMatch(%s)", gen.expr(primary))
		case n.Child(ast.KindStar) != nil:
			return fmt.Sprintf("starMatch(%s)", gen.expr(primary))
		case n.Child(ast.KindPlus) != nil:
			return fmt.Sprintf("plusMatch(%s)", gen.expr(primary))
		default:
			return gen.expr(primary)
		}

	case ast.KindPrimary:
		return gen.expr(n.Children[0])

	case ast.KindIdentifier:
		return gen.identifierExpr(n)

	case ast.KindLiteral:
		return gen.literalExpr(n)

	case ast.KindClass:
		return gen.classExpr(n)

	case ast.KindDot:
		return "dotMatch"
	}
	log.Errorf("codegen: expr: unexpected node kind %s", n.Kind)
	return "func(c *cursor) (bool, []*Node) { return false, nil }"
}

// identifierExpr resolves an identifier primary to either a reserved
// character-property predicate or a call to another rule's generated
// function. Property names lex as ordinary identifiers and are
// resolved through the grammar's own rule table uniformly with other
// rule references.
func (gen *generator) identifierExpr(id *ast.Node) string {
	name := id.Child(ast.KindIdent).Text()
	fn, ok := gen.funcName[name]
	if !ok {
		// A grammar rule with this name wins over the reserved
		// property predicate of the same name; only an otherwise-
		// undefined identifier falls back to the built-in predicate.
		if charclass.IsProperty(name) {
			return fmt.Sprintf("charClassMatch(&charClass{property: is%s}, %q)", exportCase(name), "<"+name+">")
		}
		// check.Check already rejects undefined references; reaching
		// here means codegen ran on an unchecked grammar.
		log.Errorf("codegen: reference to undefined rule %q reached codegen", name)
		return "func(c *cursor) (bool, []*Node) { return false, nil }"
	}
	if rule := gen.grammar.Rules[name]; rule != nil && rule.Attr == semantic.AttrVoid {
		return fmt.Sprintf("func(c *cursor) (bool, []*Node) { return %s(c), nil }", fn)
	}
	return fmt.Sprintf("func(c *cursor) (bool, []*Node) { n := %s(c); if n == nil { return false, nil }; return true, []*Node{n} }", fn)
}

func (gen *generator) literalExpr(n *ast.Node) string {
	var sb strings.Builder
	for _, ch := range n.All(ast.KindChar) {
		r, err := bootstrap.DecodeChar(ch)
		if err != nil {
			log.Errorf("codegen: literalExpr: %s", err)
			continue
		}
		sb.WriteRune(r)
	}
	return fmt.Sprintf("literalMatch(%s)", strconv.Quote(sb.String()))
}

func (gen *generator) classExpr(n *ast.Node) string {
	b := &charclass.Builder{}
	for _, rg := range n.All(ast.KindRange) {
		chars := rg.All(ast.KindChar)
		lo, err := bootstrap.DecodeChar(chars[0])
		if err != nil {
			log.Errorf("codegen: classExpr: %s", err)
			continue
		}
		if len(chars) == 1 {
			b.AddRune(lo)
			continue
		}
		hi, err := bootstrap.DecodeChar(chars[1])
		if err != nil {
			log.Errorf("codegen: classExpr: %s", err)
			continue
		}
		b.AddRange(lo, hi)
	}
	cc := b.Build()
	return fmt.Sprintf("charClassMatch(%s, %q)", renderCharClass(cc), cc.String())
}

// renderCharClass emits a Go composite-literal expression building an
// equivalent runtime *charClass from the generation-time
// *charclass.CharClass, expanding its unicode.RangeTable back into
// explicit inclusive ranges so generated output needs no import of
// this module's charclass package.
func renderCharClass(cc *charclass.CharClass) string {
	var sb strings.Builder
	sb.WriteString("&charClass{")
	if cc.Negated {
		sb.WriteString("negated: true, ")
	}
	if cc.Map != nil {
		var runes []int
		for r := range cc.Map {
			runes = append(runes, int(r))
		}
		sort.Ints(runes)
		sb.WriteString("singles: map[rune]bool{")
		for _, r := range runes {
			fmt.Fprintf(&sb, "%d: true, ", r)
		}
		sb.WriteString("}, ")
	}
	if cc.RangeTable != nil {
		sb.WriteString("ranges: []runeRange{")
		for _, r := range cc.RangeTable.R16 {
			fmt.Fprintf(&sb, "{lo: %d, hi: %d}, ", r.Lo, r.Hi)
		}
		for _, r := range cc.RangeTable.R32 {
			fmt.Fprintf(&sb, "{lo: %d, hi: %d}, ", r.Lo, r.Hi)
		}
		sb.WriteString("}, ")
	}
	sb.WriteString("}")
	return sb.String()
}
