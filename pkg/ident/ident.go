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

// Package ident provides function identifiers and the static-name
// disambiguation pass that keeps file-local ("static") C functions from
// colliding across translation units once they are fused into a single
// whole-program call map.
package ident

import (
	"fmt"

	"github.com/consensys/ward/pkg/ast"
)

// Key is the comparable identity of a function identifier: a name (after
// any static-prefixing) together with the hash preserved from the original
// declarator, distinguishing otherwise identical redeclarations within one
// translation unit. Key is safe to use as a map key, which Ident itself is
// not — Ident additionally carries a source position for diagnostics, and
// two declarations of the same function almost always sit at different
// positions, so including Pos in equality would defeat the whole point of
// merging them into one call-map entry.
type Key struct {
	Name string
	Hash ast.Hash
}

func (k Key) String() string {
	return k.Name
}

// Ident is a function identifier: its comparable Key plus the source
// position of the declaration it names. Equality for analysis purposes is
// Key equality (Name+Hash) — compare via Key(), never by comparing Ident
// values directly.
type Ident struct {
	Key
	Pos ast.Position
}

// New constructs an Ident from a parsed function declaration.
func New(d *ast.FuncDecl) Ident {
	return Ident{Key{d.Name, d.Hash}, d.Pos}
}

// WithName returns a copy of this identifier under a new name, used by
// static-name prefixing below.
func (id Ident) WithName(name string) Ident {
	return Ident{Key{name, id.Hash}, id.Pos}
}

func (id Ident) String() string {
	return id.Name
}

// StaticPrefix renames a file-local function so that distinct translation
// units defining the same `static` name cannot collide once fused into a
// single call map: `init` defined static in "a.c" becomes `a.c\`init`.
func StaticPrefix(path, name string) string {
	return fmt.Sprintf("%s`%s", path, name)
}
