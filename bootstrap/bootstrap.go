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

// Package bootstrap is the hand-written recursive-descent parser for
// the grammar-description language itself: one function per production,
// built on top of the combinator package's primitive matchers. It
// produces an ast.Node tree and never returns a partially built tree on
// failure; callers get either a complete grammar node or a *ParseError
// describing the furthest position reached and what was expected there.
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	log "github.com/golang/glog"

	"github.com/peglang/pegc/ast"
	"github.com/peglang/pegc/combinator"
)

// ParseError reports the furthest position the parser reached and the
// deduplicated set of things that would have let it advance further,
// the PEG "furthest error" heuristic from combinator.Cursor.
type ParseError struct {
	Pos      int
	Expected []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: expecting %s", e.Pos, strings.Join(e.Expected, " or "))
}

type parser struct {
	source []byte
	c      *combinator.Cursor
}

// Parse parses source as a complete grammar description and returns its
// `grammar` node, or a *ParseError.
func Parse(source []byte) (*ast.Node, error) {
	p := &parser{source: source, c: combinator.NewCursor(source)}
	p.skipWS()
	start := p.c.Pos

	header := p.parseHeader()
	if header == nil {
		return nil, p.parseError()
	}
	log.V(2).Infof("bootstrap: parsed header %s", header)

	var defs []*ast.Node
	for {
		save := p.c.Pos
		def := p.parseDefinition()
		if def == nil {
			p.c.Pos = save
			break
		}
		defs = append(defs, def)
	}
	log.V(2).Infof("bootstrap: parsed %d definitions", len(defs))

	if !p.consumeKeyword("END") {
		return nil, p.parseError()
	}
	if !p.tok(";") {
		return nil, p.parseError()
	}
	if !p.c.AtEOF() {
		p.c.Fail("expecting end of file")
		return nil, p.parseError()
	}
	children := append([]*ast.Node{header}, defs...)
	return ast.NewComposite(source, ast.KindGrammar, start, p.c.Pos, children...), nil
}

func (p *parser) parseError() error {
	expected := append([]string(nil), p.c.Expected...)
	if len(expected) == 0 {
		expected = []string{"more input"}
	}
	return &ParseError{Pos: p.c.Furthest, Expected: expected}
}

// skipWS consumes spaces, tabs, line endings and "#" line comments. It
// is called once by the entry point for leading whitespace, and trails
// every token-producing production thereafter.
func (p *parser) skipWS() {
	for p.c.Pos < len(p.c.Source) {
		switch p.c.Source[p.c.Pos] {
		case ' ', '\t', '\r', '\n':
			p.c.Pos++
			continue
		case '#':
			for p.c.Pos < len(p.c.Source) && p.c.Source[p.c.Pos] != '\n' {
				p.c.Pos++
			}
			continue
		}
		return
	}
}

// tok matches a literal structural token and consumes trailing
// whitespace on success.
func (p *parser) tok(lit string) bool {
	if !combinator.Literal(lit)(p.c) {
		return false
	}
	p.skipWS()
	return true
}

func isIdentStart(b byte) bool {
	return b == '_' || b == ':' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// isKeywordCont reports whether b would extend a bare keyword ("PEG",
// "END", "void", "leaf") into a longer identifier. Unlike isIdentCont,
// it excludes ':'. "void:"/"leaf:" attach their colon directly with no
// space, and ':' is also a legal identifier character, but here it is
// the attribute's own separator token, not a continuation of the
// keyword.
func isKeywordCont(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// peekKeyword reports whether kw matches at the cursor and is not
// followed by a keyword-continuation character (see isKeywordCont),
// without consuming anything.
func (p *parser) peekKeyword(kw string) bool {
	if len(p.c.Source)-p.c.Pos < len(kw) || string(p.c.Source[p.c.Pos:p.c.Pos+len(kw)]) != kw {
		return false
	}
	next := p.c.Pos + len(kw)
	if next < len(p.c.Source) && isKeywordCont(p.c.Source[next]) {
		return false
	}
	return true
}

func (p *parser) consumeKeyword(kw string) bool {
	if !p.peekKeyword(kw) {
		p.c.Fail("expecting %q", kw)
		return false
	}
	p.c.Pos += len(kw)
	p.skipWS()
	return true
}

func (p *parser) parseHeader() *ast.Node {
	start := p.c.Pos
	if !p.consumeKeyword("PEG") {
		return nil
	}
	id := p.parseIdentifier()
	if id == nil {
		p.c.Pos = start
		return nil
	}
	if !p.tok("(") {
		p.c.Pos = start
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		p.c.Pos = start
		return nil
	}
	if !p.tok(")") {
		p.c.Pos = start
		return nil
	}
	startExpr := ast.NewComposite(p.source, ast.KindStartExpr, expr.Start, expr.End, expr)
	return ast.NewComposite(p.source, ast.KindHeader, start, p.c.Pos, id, startExpr)
}

func (p *parser) parseDefinition() *ast.Node {
	start := p.c.Pos
	attr := p.parseAttribute()
	id := p.parseIdentifier()
	if id == nil {
		p.c.Pos = start
		return nil
	}
	if !p.tok("<-") {
		p.c.Pos = start
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		p.c.Pos = start
		return nil
	}
	if !p.tok(";") {
		p.c.Pos = start
		return nil
	}
	var children []*ast.Node
	if attr != nil {
		children = append(children, attr)
	}
	children = append(children, id, expr)
	return ast.NewComposite(p.source, ast.KindDefinition, start, p.c.Pos, children...)
}

func (p *parser) parseAttribute() *ast.Node {
	start := p.c.Pos
	var kind ast.Kind
	var name string
	switch {
	case p.peekKeyword("void"):
		kind, name = ast.KindVoid, "void"
	case p.peekKeyword("leaf"):
		kind, name = ast.KindLeaf, "leaf"
	default:
		return nil
	}
	p.c.Pos = start + len(name)
	p.skipWS()
	if !p.tok(":") {
		p.c.Pos = start
		return nil
	}
	leaf := ast.New(p.source, kind, start, start+len(name))
	return ast.NewComposite(p.source, ast.KindAttribute, start, p.c.Pos, leaf)
}

func (p *parser) parseExpression() *ast.Node {
	start := p.c.Pos
	first := p.parseSequence()
	if first == nil {
		return nil
	}
	seqs := []*ast.Node{first}
	for {
		save := p.c.Pos
		if !p.tok("/") {
			break
		}
		s := p.parseSequence()
		if s == nil {
			p.c.Pos = save
			break
		}
		seqs = append(seqs, s)
	}
	return ast.NewComposite(p.source, ast.KindExpression, start, p.c.Pos, seqs...)
}

func (p *parser) parseSequence() *ast.Node {
	start := p.c.Pos
	first := p.parsePrefix()
	if first == nil {
		return nil
	}
	prefixes := []*ast.Node{first}
	for {
		save := p.c.Pos
		pr := p.parsePrefix()
		if pr == nil {
			p.c.Pos = save
			break
		}
		prefixes = append(prefixes, pr)
	}
	return ast.NewComposite(p.source, ast.KindSequence, start, p.c.Pos, prefixes...)
}

func (p *parser) parsePrefix() *ast.Node {
	start := p.c.Pos
	var predKind ast.Kind
	hasPred := false
	switch {
	case p.tok("&"):
		predKind, hasPred = ast.KindAnd, true
	case p.tok("!"):
		predKind, hasPred = ast.KindNot, true
	}
	suffix := p.parseSuffix()
	if suffix == nil {
		p.c.Pos = start
		return nil
	}
	var children []*ast.Node
	if hasPred {
		children = append(children, ast.New(p.source, predKind, start, start+1))
	}
	children = append(children, suffix)
	return ast.NewComposite(p.source, ast.KindPrefix, start, p.c.Pos, children...)
}

func (p *parser) parseSuffix() *ast.Node {
	start := p.c.Pos
	primary := p.parsePrimary()
	if primary == nil {
		return nil
	}
	suffixStart := p.c.Pos
	var suffixKind ast.Kind
	hasSuffix := false
	switch {
	case p.tok("?"):
		suffixKind, hasSuffix = ast.KindQuestion, true
	case p.tok("*"):
		suffixKind, hasSuffix = ast.KindStar, true
	case p.tok("+"):
		suffixKind, hasSuffix = ast.KindPlus, true
	}
	children := []*ast.Node{primary}
	if hasSuffix {
		children = append(children, ast.New(p.source, suffixKind, suffixStart, suffixStart+1))
	}
	return ast.NewComposite(p.source, ast.KindSuffix, start, p.c.Pos, children...)
}

// Tie-break order within primary: identifier < '(' expression ')' <
// literal < class < '.', so that character-property names (which lex
// as plain identifiers) are resolved through the grammar's own
// identifier rule uniformly with ordinary rule references.
func (p *parser) parsePrimary() *ast.Node {
	start := p.c.Pos
	if id := p.parseIdentifier(); id != nil {
		return ast.NewComposite(p.source, ast.KindPrimary, start, p.c.Pos, id)
	}
	p.c.Pos = start

	if p.tok("(") {
		if expr := p.parseExpression(); expr != nil && p.tok(")") {
			return ast.NewComposite(p.source, ast.KindPrimary, start, p.c.Pos, expr)
		}
		p.c.Pos = start
	}

	if lit := p.parseLiteral(); lit != nil {
		return ast.NewComposite(p.source, ast.KindPrimary, start, p.c.Pos, lit)
	}
	p.c.Pos = start

	if cls := p.parseClass(); cls != nil {
		return ast.NewComposite(p.source, ast.KindPrimary, start, p.c.Pos, cls)
	}
	p.c.Pos = start

	if p.tok(".") {
		dot := ast.New(p.source, ast.KindDot, start, start+1)
		return ast.NewComposite(p.source, ast.KindPrimary, start, p.c.Pos, dot)
	}
	p.c.Pos = start

	p.c.Fail("expecting identifier, '(', a literal, a character class, or '.'")
	return nil
}

func (p *parser) parseLiteral() *ast.Node {
	start := p.c.Pos
	if p.c.Pos >= len(p.c.Source) || (p.c.Source[p.c.Pos] != '\'' && p.c.Source[p.c.Pos] != '"') {
		return nil
	}
	quote := p.c.Source[p.c.Pos]
	p.c.Pos++
	var chars []*ast.Node
	for p.c.Pos < len(p.c.Source) && p.c.Source[p.c.Pos] != quote {
		ch := p.parseChar()
		if ch == nil {
			p.c.Pos = start
			return nil
		}
		chars = append(chars, ch)
	}
	if p.c.Pos >= len(p.c.Source) {
		p.c.Fail("unterminated literal, expecting closing %q", string(quote))
		p.c.Pos = start
		return nil
	}
	p.c.Pos++
	p.skipWS()
	return ast.NewComposite(p.source, ast.KindLiteral, start, p.c.Pos, chars...)
}

func (p *parser) parseClass() *ast.Node {
	start := p.c.Pos
	if p.c.Pos >= len(p.c.Source) || p.c.Source[p.c.Pos] != '[' {
		return nil
	}
	p.c.Pos++
	var ranges []*ast.Node
	for p.c.Pos < len(p.c.Source) && p.c.Source[p.c.Pos] != ']' {
		r := p.parseRange()
		if r == nil {
			p.c.Pos = start
			return nil
		}
		ranges = append(ranges, r)
	}
	if p.c.Pos >= len(p.c.Source) {
		p.c.Fail("unterminated character class, expecting ']'")
		p.c.Pos = start
		return nil
	}
	p.c.Pos++
	p.skipWS()
	return ast.NewComposite(p.source, ast.KindClass, start, p.c.Pos, ranges...)
}

func (p *parser) parseRange() *ast.Node {
	start := p.c.Pos
	lo := p.parseChar()
	if lo == nil {
		return nil
	}
	// A trailing '-' immediately before the closing ']' is a literal
	// dash, not a range separator (otherwise "[a-]" could never place a
	// dash at the end of a class).
	if p.c.Pos < len(p.c.Source) && p.c.Source[p.c.Pos] == '-' &&
		p.c.Pos+1 < len(p.c.Source) && p.c.Source[p.c.Pos+1] != ']' {
		save := p.c.Pos
		p.c.Pos++
		if hi := p.parseChar(); hi != nil {
			return ast.NewComposite(p.source, ast.KindRange, start, p.c.Pos, lo, hi)
		}
		p.c.Pos = save
	}
	return ast.NewComposite(p.source, ast.KindRange, start, p.c.Pos, lo)
}

// parseChar recognizes one Char token and wraps it in a composite
// `char` node over the matching leaf subkind, per the longest-match
// escape rules in the grammar syntax (full octal before part octal).
func (p *parser) parseChar() *ast.Node {
	start := p.c.Pos
	if p.c.Pos >= len(p.c.Source) {
		return nil
	}
	if p.c.Source[p.c.Pos] != '\\' {
		_, w := utf8.DecodeRune(p.c.Source[p.c.Pos:])
		if w == 0 {
			return nil
		}
		p.c.Pos += w
		leaf := ast.New(p.source, ast.KindCharUnescaped, start, p.c.Pos)
		return ast.NewComposite(p.source, ast.KindChar, start, p.c.Pos, leaf)
	}

	if p.c.Pos+1 >= len(p.c.Source) {
		p.c.Fail("expecting an escape sequence after '\\\\'")
		return nil
	}
	next := p.c.Source[p.c.Pos+1]

	switch {
	case strings.IndexByte(`nrt'"[]\-`, next) >= 0:
		p.c.Pos += 2
		leaf := ast.New(p.source, ast.KindCharSpecial, start, p.c.Pos)
		return ast.NewComposite(p.source, ast.KindChar, start, p.c.Pos, leaf)

	case next == 'u':
		i := p.c.Pos + 2
		j := i
		for j < len(p.c.Source) && j < i+5 && isHexDigit(p.c.Source[j]) {
			j++
		}
		if j == i {
			p.c.Fail("expecting 1 to 5 hex digits after '\\\\u'")
			return nil
		}
		p.c.Pos = j
		leaf := ast.New(p.source, ast.KindCharUnicode, start, p.c.Pos)
		return ast.NewComposite(p.source, ast.KindChar, start, p.c.Pos, leaf)

	case isOctalDigit(next):
		// Longest match: try "full" [0-2][0-7][0-7] before "part"
		// [0-7][0-7]?.
		if next >= '0' && next <= '2' &&
			p.c.Pos+3 < len(p.c.Source) &&
			isOctalDigit(p.c.Source[p.c.Pos+2]) && isOctalDigit(p.c.Source[p.c.Pos+3]) {
			p.c.Pos += 4
			leaf := ast.New(p.source, ast.KindCharOctalFull, start, p.c.Pos)
			return ast.NewComposite(p.source, ast.KindChar, start, p.c.Pos, leaf)
		}
		end := p.c.Pos + 2
		if end < len(p.c.Source) && isOctalDigit(p.c.Source[end]) {
			end++
		}
		p.c.Pos = end
		leaf := ast.New(p.source, ast.KindCharOctalPart, start, p.c.Pos)
		return ast.NewComposite(p.source, ast.KindChar, start, p.c.Pos, leaf)

	default:
		p.c.Fail("invalid escape sequence \\%c", next)
		return nil
	}
}

func (p *parser) parseIdentifier() *ast.Node {
	start := p.c.Pos
	if p.c.Pos >= len(p.c.Source) || !isIdentStart(p.c.Source[p.c.Pos]) {
		p.c.Fail("expecting an identifier")
		return nil
	}
	i := p.c.Pos + 1
	for i < len(p.c.Source) && isIdentCont(p.c.Source[i]) {
		i++
	}
	leaf := ast.New(p.source, ast.KindIdent, start, i)
	p.c.Pos = i
	p.skipWS()
	return ast.NewComposite(p.source, ast.KindIdentifier, start, i, leaf)
}

// DecodeChar evaluates a composite `char` node to its scalar rune
// value, handling all four escape subkinds plus unescaped UTF-8. It is
// shared by the emitter (translating `literal`/`class` nodes to byte
// and rune constants) and by tests asserting round-trip behavior.
func DecodeChar(n *ast.Node) (rune, error) {
	if n == nil || n.Kind != ast.KindChar || len(n.Children) != 1 {
		return 0, fmt.Errorf("bootstrap: DecodeChar: not a char node: %v", n)
	}
	leaf := n.Children[0]
	text := leaf.Text()
	switch leaf.Kind {
	case ast.KindCharUnescaped:
		r, _ := utf8.DecodeRuneInString(text)
		return r, nil
	case ast.KindCharSpecial:
		switch text[1] {
		case 'n':
			return '\n', nil
		case 'r':
			return '\r', nil
		case 't':
			return '\t', nil
		case '\'', '"', '[', ']', '\\', '-':
			return rune(text[1]), nil
		}
		return 0, fmt.Errorf("bootstrap: unknown escape %q", text)
	case ast.KindCharOctalFull, ast.KindCharOctalPart:
		v, err := strconv.ParseInt(text[1:], 8, 32)
		if err != nil {
			return 0, fmt.Errorf("bootstrap: bad octal escape %q: %w", text, err)
		}
		return rune(v), nil
	case ast.KindCharUnicode:
		v, err := strconv.ParseInt(text[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bootstrap: bad unicode escape %q: %w", text, err)
		}
		return rune(v), nil
	}
	return 0, fmt.Errorf("bootstrap: unexpected char leaf kind %s", leaf.Kind)
}
