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

import "github.com/consensys/ward/pkg/ast"

// Disambiguate renames every `static` function declared in a translation
// unit to `path\`name`, and rewrites every direct call site within that
// same translation unit which targets one of those names (whether from
// inside the renamed function's own body, a sibling function, or itself
// recursively). Non-static definitions and calls to functions declared
// elsewhere are untouched.
//
// Units is mutated in place and also returned, for convenience at call
// sites that want to chain this into a pipeline.
func Disambiguate(units []*ast.TranslationUnit) []*ast.TranslationUnit {
	for _, u := range units {
		statics := staticNames(u)
		if len(statics) == 0 {
			continue
		}

		for _, d := range u.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok {
				continue
			}

			if fd.Static {
				fd.Name = StaticPrefix(u.Path, fd.Name)
			}

			if fd.Body != nil {
				renameStmt(*fd.Body, u.Path, statics)
			}
		}
	}

	return units
}

// staticNames collects the set of function names declared `static` within a
// single translation unit.
func staticNames(u *ast.TranslationUnit) map[string]struct{} {
	names := make(map[string]struct{})

	for _, d := range u.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Static {
			names[fd.Name] = struct{}{}
		}
	}

	return names
}

func renameStmt(s ast.Stmt, path string, statics map[string]struct{}) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if n.Expr != nil {
			renameExpr(n.Expr, path, statics)
		}
	case *ast.Compound:
		for _, c := range n.Stmts {
			renameStmt(c, path, statics)
		}
	case *ast.If:
		renameExpr(n.Cond, path, statics)
		renameStmt(n.Then, path, statics)

		if n.Else != nil {
			renameStmt(n.Else, path, statics)
		}
	case *ast.Switch:
		renameExpr(n.Cond, path, statics)
		renameStmt(n.Body, path, statics)
	case *ast.While:
		renameExpr(n.Cond, path, statics)
		renameStmt(n.Body, path, statics)
	case *ast.For:
		renameOptExpr(n.Init, path, statics)
		renameOptExpr(n.Cond, path, statics)
		renameOptExpr(n.Post, path, statics)
		renameStmt(n.Body, path, statics)
	case *ast.DoWhile:
		renameStmt(n.Body, path, statics)
		renameExpr(n.Cond, path, statics)
	case *ast.Empty:
		// contributes nothing
	}
}

func renameOptExpr(e ast.Expr, path string, statics map[string]struct{}) {
	if e != nil {
		renameExpr(e, path, statics)
	}
}

func renameExpr(e ast.Expr, path string, statics map[string]struct{}) {
	switch n := e.(type) {
	case *ast.Ident, *ast.Const:
		// leaf: nothing to rename (bare identifier references other than a
		// direct call target are not renamed, per the static function's own
		// scope rules — only call sites matter to the call map)
	case *ast.Comma:
		for _, a := range n.Exprs {
			renameExpr(a, path, statics)
		}
	case *ast.Assign:
		renameExpr(n.LHS, path, statics)
		renameExpr(n.RHS, path, statics)
	case *ast.BinOp:
		renameExpr(n.LHS, path, statics)
		renameExpr(n.RHS, path, statics)
	case *ast.Index:
		renameExpr(n.Arr, path, statics)
		renameExpr(n.Idx, path, statics)
	case *ast.Member:
		renameExpr(n.Obj, path, statics)
	case *ast.Call:
		for _, a := range n.Args {
			renameExpr(a, path, statics)
		}

		if n.Callee != nil {
			if _, ok := statics[n.Callee.Name]; ok {
				n.Callee.Name = StaticPrefix(path, n.Callee.Name)
			}
		} else if n.Indirect != nil {
			renameExpr(n.Indirect, path, statics)
		}
	case *ast.Cond:
		renameExpr(n.Test, path, statics)
		renameExpr(n.Then, path, statics)
		renameExpr(n.Else, path, statics)
	case *ast.CompoundLiteral:
		for _, i := range n.Inits {
			renameExpr(i, path, statics)
		}
	case *ast.StmtExpr:
		for _, s := range n.Stmts {
			renameStmt(s, path, statics)
		}
	}
}
