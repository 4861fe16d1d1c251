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

// Package diagnostics defines the Diagnostic value shared by the
// checker and the driver (which wraps a bootstrap *ParseError as a
// parse_error diagnostic), and the pure (span, source) ->
// text renderer the driver uses to print them. Rendering carries no
// knowledge of the target language or file system: it is a function of
// a byte span and the source buffer it indexes into.
package diagnostics

import (
	"fmt"
	"strings"
)

// Tag classifies a Diagnostic by the condition that produced it.
type Tag string

const (
	TagUndefinedIdent Tag = "undefined_ident"
	TagUnnullable     Tag = "unnullable"
	TagLeftRecursion  Tag = "left_recursion"
	TagParseError     Tag = "parse_error"
)

// Diagnostic is one reportable condition, spanning [Start, End) of the
// source the grammar was parsed from.
type Diagnostic struct {
	Tag     Tag
	Start   int
	End     int
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Tag, d.Message)
}

// New builds a Diagnostic with a formatted message.
func New(tag Tag, start, end int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Tag: tag, Start: start, End: end, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of diagnostics accumulated by a single
// pass. It implements error so a pass can return it directly when
// non-empty.
type List []*Diagnostic

func (l List) Error() string {
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

// Render formats d against source as a source line, a caret at Start, a
// run of tildes through min(End, line-end), then the message. It is a
// pure function of (span, source).
func Render(d *Diagnostic, source []byte) string {
	lineStart := 0
	line := 1
	for i := 0; i < d.Start && i < len(source); i++ {
		if source[i] == '\n' {
			lineStart = i + 1
			line++
		}
	}
	lineEnd := len(source)
	for i := lineStart; i < len(source); i++ {
		if source[i] == '\n' {
			lineEnd = i
			break
		}
	}
	tildeEnd := d.End
	if tildeEnd > lineEnd {
		tildeEnd = lineEnd
	}
	col := d.Start - lineStart

	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %s\n", line, string(source[lineStart:lineEnd]))
	b.WriteString(strings.Repeat(" ", len("line ")+len(fmt.Sprint(line))+2+col))
	b.WriteByte('^')
	if tildeEnd > d.Start+1 {
		b.WriteString(strings.Repeat("~", tildeEnd-d.Start-1))
	}
	fmt.Fprintf(&b, " %s", d.Message)
	return b.String()
}

// RenderAll renders every diagnostic in l against source, one per line
// block, in order.
func RenderAll(l List, source []byte) string {
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Render(d, source))
	}
	return b.String()
}
