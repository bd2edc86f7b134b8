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
package callmap

import (
	"testing"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/permission"
)

func TestBuildNameMapUnionsActionsAcrossRedeclarations(t *testing.T) {
	body := ast.Stmt(&ast.Empty{})

	decl := &ast.FuncDecl{
		Name:  "lockit",
		Attrs: []ast.Attribute{{Macro: "ward", Args: []string{"need", "lock"}}},
	}
	def := &ast.FuncDecl{
		Name:  "lockit",
		Attrs: []ast.Attribute{{Macro: "ward", Args: []string{"grant", "lock"}}},
		Body:  &body,
	}

	unit := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{decl, def}}

	nm := BuildNameMap([]*ast.TranslationUnit{unit}, nil)

	entry, ok := nm["lockit"]
	if !ok {
		t.Fatalf("expected an entry for lockit")
	}

	if entry.Body == nil {
		t.Errorf("the defining declaration's body should win")
	}

	if !entry.Actions.Contains(permission.NewAction(permission.Need, "lock")) ||
		!entry.Actions.Contains(permission.NewAction(permission.Grant, "lock")) {
		t.Errorf("expected both actions to be unioned, got %v", entry.Actions.Items())
	}
}

func TestBuildNameMapIgnoresNonFuncDecls(t *testing.T) {
	unit := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{&ast.OtherDecl{}}}

	nm := BuildNameMap([]*ast.TranslationUnit{unit}, nil)

	if len(nm) != 0 {
		t.Errorf("expected an empty name map, got %v", nm)
	}
}
