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

func callExprStmt(name string) ast.Stmt {
	return &ast.ExprStmt{Expr: &ast.Call{Callee: &ast.Ident{Name: name}}}
}

func TestDisambiguateRenamesStaticDeclAndSelfCall(t *testing.T) {
	selfCall := callExprStmt("helper")
	fd := &ast.FuncDecl{Name: "helper", Static: true, Body: &selfCall}
	unit := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{fd}}

	Disambiguate([]*ast.TranslationUnit{unit})

	if want := StaticPrefix("a.c", "helper"); fd.Name != want {
		t.Errorf("fd.Name = %q, want %q", fd.Name, want)
	}

	got := (*fd.Body).(*ast.ExprStmt).Expr.(*ast.Call).Callee.Name
	if want := StaticPrefix("a.c", "helper"); got != want {
		t.Errorf("self-recursive call site = %q, want %q", got, want)
	}
}

func TestDisambiguateRewritesSiblingCallSite(t *testing.T) {
	helper := &ast.FuncDecl{Name: "helper", Static: true}
	caller := &ast.FuncDecl{Name: "caller", Body: func() *ast.Stmt {
		s := callExprStmt("helper")
		return &s
	}()}

	unit := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{helper, caller}}

	Disambiguate([]*ast.TranslationUnit{unit})

	got := (*caller.Body).(*ast.ExprStmt).Expr.(*ast.Call).Callee.Name
	if want := StaticPrefix("a.c", "helper"); got != want {
		t.Errorf("sibling call site = %q, want %q", got, want)
	}
}

func TestDisambiguateLeavesNonStaticUntouched(t *testing.T) {
	fd := &ast.FuncDecl{Name: "public_api"}
	unit := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{fd}}

	Disambiguate([]*ast.TranslationUnit{unit})

	if fd.Name != "public_api" {
		t.Errorf("non-static function should not be renamed, got %q", fd.Name)
	}
}

func TestDisambiguateDoesNotCollideAcrossUnits(t *testing.T) {
	a := &ast.FuncDecl{Name: "init", Static: true}
	b := &ast.FuncDecl{Name: "init", Static: true}

	ua := &ast.TranslationUnit{Path: "a.c", Decls: []ast.Decl{a}}
	ub := &ast.TranslationUnit{Path: "b.c", Decls: []ast.Decl{b}}

	Disambiguate([]*ast.TranslationUnit{ua, ub})

	if a.Name == b.Name {
		t.Errorf("static `init` in two files should not collide, both became %q", a.Name)
	}
}
