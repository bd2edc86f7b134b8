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

// Package callmap builds the whole-program name map and call map described
// for Ward: every declared or defined function, keyed by its (possibly
// static-prefixed) identifier, together with its source position, optional
// body, and the permission actions extracted from its declaration
// attributes.
package callmap

import (
	"fmt"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/permission"
)

// NameEntry is the value type of a NameMap: a function's position, its
// body (nil for a declaration without a definition), and the permission
// actions extracted from every declarator of every declaration of this
// identifier seen so far.
type NameEntry struct {
	Pos     ast.Position
	Body    *ast.Stmt
	Actions permission.ActionSet
}

// NameMap maps a (static-prefixed) function name to its merged entry.
type NameMap map[string]NameEntry

// BuildNameMap collects every function declaration across a (already
// static-disambiguated) list of translation units into a single whole-
// program name map, extracting permission actions from attributes as it
// goes (pkg/callmap's extract.go) and unioning attributes across repeated
// declarations of the same identifier.
func BuildNameMap(units []*ast.TranslationUnit, w Warner) NameMap {
	nm := make(NameMap)

	for _, u := range units {
		for _, d := range u.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}

			entry := NameEntry{
				Pos:     fd.Pos,
				Body:    fd.Body,
				Actions: ExtractActions(fd.Attrs, w),
			}
			nm.merge(fd.Name, entry)
		}
	}

	return nm
}

// merge folds a newly seen declaration of name into the map: actions
// union, and the body is kept once and never silently discarded. Two
// bodies for the same (already static-prefixed, hence whole-program
// unique) name are a "multiple definitions" condition — that can only
// arise via Merge in callmap.go, since a single translation unit cannot
// itself define a function twice.
func (nm NameMap) merge(name string, entry NameEntry) {
	if existing, ok := nm[name]; ok {
		entry.Actions = existing.Actions.Union(entry.Actions)
		if existing.Body != nil {
			entry.Body = existing.Body
			entry.Pos = existing.Pos
		}
	}

	nm[name] = entry
}

// Warner receives structural warnings raised while collecting names or
// extracting attributes (an unrecognised attribute macro, a malformed
// `ward(...)` specifier, …).
type Warner interface {
	Warn(pos ast.Position, msg string)
}

// DuplicateDefinitionError is the fatal setup error raised when two call
// map entries for the same identifier carry distinct, non-empty bodies.
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("multiple definitions of %q", e.Name)
}
