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

// Package charclass builds the character-class sets that back the
// combinator runtime's CharClass matcher and the sets the code emitter
// writes into generated parsers. It builds from already decoded runes,
// since the bootstrap parser has done escape decoding by the time a
// class reaches here, rather than re-lexing a raw bracket string.
package charclass

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// CharClass represents a set of runes, either as an explicit map of
// singletons, a sorted unicode.RangeTable of intervals, or a named
// property predicate ("Special").
type CharClass struct {
	Map        map[rune]bool
	RangeTable *unicode.RangeTable
	Negated    bool
	// Special, when non-empty, names a reserved property predicate
	// (see Properties) instead of an explicit Map/RangeTable.
	Special string
}

// Properties maps the grammar's reserved character-property identifiers
// to the unicode predicate function name used to implement them.
var Properties = map[string]string{
	"alnum":    "alnum", // unicode.IsLetter || unicode.IsDigit, handled specially
	"alpha":    "IsLetter",
	"ascii":    "ascii", // handled specially: rune < 0x80
	"control":  "IsControl",
	"ddigit":   "IsDigit", // decimal digit only, same as Go's unicode.IsDigit
	"digit":    "IsDigit",
	"graph":    "IsGraphic",
	"lower":    "IsLower",
	"print":    "IsPrint",
	"punct":    "IsPunct",
	"space":    "IsSpace",
	"upper":    "IsUpper",
	"wordchar": "wordchar", // handled specially: letter, digit or '_'
	"xdigit":   "xdigit",   // handled specially: 0-9a-fA-F
}

// IsProperty reports whether name is one of the reserved property
// predicate identifiers.
func IsProperty(name string) bool {
	_, ok := Properties[name]
	return ok
}

// MatchProperty evaluates the named property predicate against c. It
// backs CharClass.Match for a Special class and is the reference
// semantics the emitter's generated predicates replicate.
func MatchProperty(name string, c rune) bool {
	switch name {
	case "alnum":
		return unicode.IsLetter(c) || unicode.IsDigit(c)
	case "alpha":
		return unicode.IsLetter(c)
	case "ascii":
		return c < 0x80
	case "control":
		return unicode.IsControl(c)
	case "ddigit", "digit":
		return unicode.IsDigit(c)
	case "graph":
		return unicode.IsGraphic(c)
	case "lower":
		return unicode.IsLower(c)
	case "print":
		return unicode.IsPrint(c)
	case "punct":
		return unicode.IsPunct(c)
	case "space":
		return unicode.IsSpace(c)
	case "upper":
		return unicode.IsUpper(c)
	case "wordchar":
		return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
	case "xdigit":
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}

// Builder accumulates singleton runes and ranges while the emitter walks
// a `class` node's `range` children, then produces an immutable
// CharClass.
type Builder struct {
	singles []rune
	ranges  []unicode.Range32
}

func (b *Builder) AddRune(r rune) {
	b.singles = append(b.singles, r)
}

func (b *Builder) AddRange(lo, hi rune) {
	b.ranges = append(b.ranges, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
}

// Build finalizes the accumulated runes/ranges into a CharClass. An
// empty builder yields a CharClass that matches nothing.
func (b *Builder) Build() *CharClass {
	cc := &CharClass{}
	if len(b.singles) > 0 {
		cc.Map = make(map[rune]bool, len(b.singles))
		for _, r := range b.singles {
			cc.Map[r] = true
		}
	}
	if len(b.ranges) > 0 {
		sort.Slice(b.ranges, func(i, j int) bool { return b.ranges[i].Lo < b.ranges[j].Lo })
		rt := &unicode.RangeTable{}
		for _, rg := range b.ranges {
			if rg.Hi < 1<<16 {
				rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(rg.Lo), Hi: uint16(rg.Hi), Stride: 1})
			} else {
				rt.R32 = append(rt.R32, rg)
			}
		}
		cc.RangeTable = rt
	}
	return cc
}

// Match reports whether c belongs to cc, honoring Negated.
func (cc *CharClass) Match(c rune) bool {
	var match bool
	switch {
	case cc.Special != "":
		match = MatchProperty(cc.Special, c)
	default:
		if cc.Map != nil {
			match = cc.Map[c]
		}
		if !match && cc.RangeTable != nil {
			match = unicode.Is(cc.RangeTable, c)
		}
	}
	if cc.Negated {
		return !match
	}
	return match
}

func runeToString(c rune) string {
	q := strconv.QuoteRune(c)
	return q[1 : len(q)-1]
}

// String renders cc in the grammar's own bracket notation, for
// diagnostics and generated-code comments.
func (cc *CharClass) String() string {
	if cc == nil {
		return "nil"
	}
	var b strings.Builder
	if cc.Negated {
		b.WriteByte('^')
	}
	if cc.Special != "" {
		b.WriteString(cc.Special)
		return b.String()
	}
	var runes []int
	for c := range cc.Map {
		runes = append(runes, int(c))
	}
	sort.Ints(runes)
	for _, c := range runes {
		b.WriteString(runeToString(rune(c)))
	}
	if cc.RangeTable != nil {
		for _, r := range cc.RangeTable.R16 {
			b.WriteString(runeToString(rune(r.Lo)))
			b.WriteByte('-')
			b.WriteString(runeToString(rune(r.Hi)))
		}
		for _, r := range cc.RangeTable.R32 {
			b.WriteString(runeToString(rune(r.Lo)))
			b.WriteByte('-')
			b.WriteString(runeToString(rune(r.Hi)))
		}
	}
	return b.String()
}
