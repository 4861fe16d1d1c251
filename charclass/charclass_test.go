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

package charclass

import "testing"

func TestBuilderSingles(t *testing.T) {
	var b Builder
	b.AddRune('a')
	b.AddRune('c')
	cc := b.Build()

	for _, c := range []rune{'a', 'c'} {
		if !cc.Match(c) {
			t.Errorf("Match(%q) = false, want true", c)
		}
	}
	if cc.Match('b') {
		t.Errorf("Match('b') = true, want false")
	}
}

func TestBuilderRange(t *testing.T) {
	var b Builder
	b.AddRange('0', '9')
	cc := b.Build()

	if !cc.Match('5') {
		t.Errorf("Match('5') = false, want true")
	}
	if cc.Match('a') {
		t.Errorf("Match('a') = true, want false")
	}
}

func TestNegated(t *testing.T) {
	var b Builder
	b.AddRange('0', '9')
	cc := b.Build()
	cc.Negated = true

	if cc.Match('5') {
		t.Errorf("Negated Match('5') = true, want false")
	}
	if !cc.Match('a') {
		t.Errorf("Negated Match('a') = false, want true")
	}
}

func TestEmptyClassMatchesNothing(t *testing.T) {
	var b Builder
	cc := b.Build()
	if cc.Match('a') {
		t.Errorf("empty class matched 'a'")
	}
}

func TestProperties(t *testing.T) {
	tests := []struct {
		name string
		c    rune
		want bool
	}{
		{"digit", '7', true},
		{"digit", 'x', false},
		{"alpha", 'x', true},
		{"alpha", '7', false},
		{"ascii", 'a', true},
		{"ascii", 'é', false},
		{"wordchar", '_', true},
		{"xdigit", 'f', true},
		{"xdigit", 'g', false},
		{"space", ' ', true},
	}
	for _, tt := range tests {
		if got := MatchProperty(tt.name, tt.c); got != tt.want {
			t.Errorf("MatchProperty(%q, %q) = %v, want %v", tt.name, tt.c, got, tt.want)
		}
	}
}

func TestIsProperty(t *testing.T) {
	if !IsProperty("digit") {
		t.Errorf("IsProperty(digit) = false, want true")
	}
	if IsProperty("notaproperty") {
		t.Errorf("IsProperty(notaproperty) = true, want false")
	}
}

func TestString(t *testing.T) {
	var b Builder
	b.AddRange('a', 'z')
	cc := b.Build()
	if got, want := cc.String(), "a-z"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	cc.Negated = true
	if got, want := cc.String(), "^a-z"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
