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

package ast

import "fmt"

// Diff reports the differences between two trees as a list of
// human-readable messages, recursing structurally.
func Diff(got, want *Node) (diff []string) {
	if got == nil && want == nil {
		return nil
	}
	if got == nil {
		return []string{fmt.Sprintf("expected (%s), got nil", want.Kind)}
	}
	if want == nil {
		return []string{fmt.Sprintf("expected nil, got (%s)", got.Kind)}
	}
	if got.Kind != want.Kind {
		diff = append(diff, fmt.Sprintf("expected kind %s, got %s", want.Kind, got.Kind))
	}
	if want.Kind.IsLeaf() && got.Text() != want.Text() {
		diff = append(diff, fmt.Sprintf("expected text %q, got %q", want.Text(), got.Text()))
	}
	if len(got.Children) != len(want.Children) {
		diff = append(diff, fmt.Sprintf("%s: expected %d children, got %d",
			want.Kind, len(want.Children), len(got.Children)))
	}
	n := len(want.Children)
	if len(got.Children) < n {
		n = len(got.Children)
	}
	for i := 0; i < n; i++ {
		for _, d := range Diff(got.Children[i], want.Children[i]) {
			diff = append(diff, fmt.Sprintf("child[%d]: %s", i, d))
		}
	}
	return diff
}
