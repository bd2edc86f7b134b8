// Copyright the Ward authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ident

import (
	"testing"

	"github.com/consensys/ward/pkg/ast"
)

func TestIdentsAtDifferentPositionsShareAKey(t *testing.T) {
	a := Ident{Key{"f", 1}, ast.Position{Path: "a.c", Line: 1}}
	b := Ident{Key{"f", 1}, ast.Position{Path: "a.c", Line: 9}}

	if a.Key != b.Key {
		t.Errorf("two declarations of the same identifier should share a Key regardless of position")
	}

	if a == b {
		t.Errorf("Ident values at different positions should not compare equal")
	}
}

func TestKeyIsUsableAsMapKey(t *testing.T) {
	m := map[Key]int{
		{"f", 0}: 1,
		{"g", 0}: 2,
	}

	if m[Key{"f", 0}] != 1 {
		t.Errorf("expected to look up the entry stored under Key{f,0}")
	}
}

func TestStaticPrefixFormat(t *testing.T) {
	if got, want := StaticPrefix("a.c", "helper"), "a.c`helper"; got != want {
		t.Errorf("StaticPrefix = %q, want %q", got, want)
	}
}
