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

// Package combinator implements the primitive matchers and the
// combinators built from them that every PEG reduces to: literal,
// charClass, dot, sequence, choice, optional, star, plus, and the
// non-consuming and/not predicates. It is the runtime the hand-written
// bootstrap parser is built from. The code emitter copies an equivalent
// prologue verbatim into generated parsers (see codegen/prologue.go) so
// that generated output never imports this module.
//
// Each combinator closes over an explicit Cursor rather than a dynamic
// rule table, since the bootstrap parser is hand-written rather than
// built by interpreting rule strings at runtime.
package combinator

import (
	"fmt"
	"unicode/utf8"

	"github.com/peglang/pegc/charclass"
)

// Cursor tracks a parse position over a byte slice, plus the set of
// failure messages reached at the furthest position seen so far. This
// is the "furthest error" heuristic's bookkeeping: among every position
// where some alternative failed during backtracking, only those
// reaching the largest position are worth reporting.
type Cursor struct {
	Source []byte
	Pos    int

	Furthest int
	Expected []string
}

// NewCursor creates a cursor positioned at the start of source.
func NewCursor(source []byte) *Cursor {
	return &Cursor{Source: source}
}

// Fail records a failure at the cursor's current position. If this
// position is further than any seen before, it replaces the expectation
// set; if it ties the furthest position, the message is added to it
// (deduplicated). Fail always returns false so call sites can write
// `return c.Fail(...)`.
func (c *Cursor) Fail(format string, args ...interface{}) bool {
	msg := fmt.Sprintf(format, args...)
	switch {
	case c.Pos > c.Furthest || c.Expected == nil:
		c.Furthest = c.Pos
		c.Expected = []string{msg}
	case c.Pos == c.Furthest:
		for _, e := range c.Expected {
			if e == msg {
				return false
			}
		}
		c.Expected = append(c.Expected, msg)
	}
	return false
}

// AtEOF reports whether the cursor has consumed the entire source.
func (c *Cursor) AtEOF() bool {
	return c.Pos >= len(c.Source)
}

// Func is a single parse step: it attempts to match at c's current
// position, advancing c.Pos on success and leaving it unchanged on
// failure, returning whether it matched.
type Func func(c *Cursor) bool

// Literal matches an exact byte-string literal.
func Literal(lit string) Func {
	return func(c *Cursor) bool {
		if len(c.Source)-c.Pos < len(lit) || string(c.Source[c.Pos:c.Pos+len(lit)]) != lit {
			return c.Fail("expecting %q", lit)
		}
		c.Pos += len(lit)
		return true
	}
}

// Dot matches any single rune, failing only at EOF.
func Dot(c *Cursor) bool {
	if c.AtEOF() {
		return c.Fail("expecting a character, got EOF")
	}
	_, w := utf8.DecodeRune(c.Source[c.Pos:])
	c.Pos += w
	return true
}

// CharClass matches a single rune against cc.
func CharClass(cc *charclass.CharClass) Func {
	return func(c *Cursor) bool {
		if c.AtEOF() {
			return c.Fail("expecting a character matching %s, got EOF", cc)
		}
		r, w := utf8.DecodeRune(c.Source[c.Pos:])
		if !cc.Match(r) {
			return c.Fail("expecting a character matching %s, got %q", cc, r)
		}
		c.Pos += w
		return true
	}
}

// Seq matches each Func in order, restoring the cursor position if any
// step fails.
func Seq(fns ...Func) Func {
	return func(c *Cursor) bool {
		start := c.Pos
		for _, fn := range fns {
			if !fn(c) {
				c.Pos = start
				return false
			}
		}
		return true
	}
}

// Choice tries each alternative in order, committing to the first that
// matches and restoring the cursor between failed attempts.
func Choice(fns ...Func) Func {
	return func(c *Cursor) bool {
		start := c.Pos
		for _, fn := range fns {
			if fn(c) {
				return true
			}
			c.Pos = start
		}
		return false
	}
}

// Optional always succeeds; it applies fn once if possible.
func Optional(fn Func) Func {
	return func(c *Cursor) bool {
		fn(c)
		return true
	}
}

// Star applies fn greedily zero or more times. It always succeeds.
func Star(fn Func) Func {
	return func(c *Cursor) bool {
		for {
			start := c.Pos
			if !fn(c) {
				return true
			}
			if c.Pos == start {
				// Zero-width match: stop to avoid looping forever.
				return true
			}
		}
	}
}

// Plus applies fn greedily one or more times, failing if the first
// application fails.
func Plus(fn Func) Func {
	seq := Seq(fn, Star(fn))
	return func(c *Cursor) bool {
		return seq(c)
	}
}

// And is the non-consuming positive lookahead predicate: it succeeds
// without advancing the cursor iff fn would match.
func And(fn Func) Func {
	return func(c *Cursor) bool {
		start := c.Pos
		ok := fn(c)
		c.Pos = start
		if !ok {
			return c.Fail("lookahead failed")
		}
		return true
	}
}

// Not is the non-consuming negative lookahead predicate: it succeeds
// without advancing the cursor iff fn would fail.
func Not(fn Func) Func {
	return func(c *Cursor) bool {
		start := c.Pos
		ok := fn(c)
		c.Pos = start
		if ok {
			return c.Fail("negative lookahead matched")
		}
		return true
	}
}
