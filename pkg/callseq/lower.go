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
package callseq

import "github.com/consensys/ward/pkg/ast"

// Warner receives structural warnings discovered during lowering (an
// indirect call site, most commonly). Lowering itself never fails: every
// construct either contributes call-tree nodes or is silently dropped.
type Warner interface {
	Warn(pos ast.Position, msg string)
}

// Lower reduces a function body to a (not yet simplified) call sequence,
// preserving left-to-right C evaluation order for every construct this
// package models. Call Simplify on the result before using it.
func Lower(body ast.Stmt, w Warner) Sequence {
	return lowerStmt(body, w)
}

func lowerStmt(s ast.Stmt, w Warner) Sequence {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if n.Expr == nil {
			return nil
		}

		return lowerExpr(n.Expr, w)
	case *ast.Compound:
		var seq Sequence
		for _, c := range n.Stmts {
			seq = Concat(seq, lowerStmt(c, w))
		}

		return seq
	case *ast.If:
		cond := lowerExpr(n.Cond, w)
		then := lowerStmt(n.Then, w)

		var els Sequence
		if n.Else != nil {
			els = lowerStmt(n.Else, w)
		}

		return Concat(cond, Sequence{Choice{then, els}})
	case *ast.Switch:
		// No branching introduced at lowering: cases flatten sequentially,
		// conservatively over-approximating which statements can execute.
		return Concat(lowerExpr(n.Cond, w), lowerStmt(n.Body, w))
	case *ast.While:
		cond := lowerExpr(n.Cond, w)
		body := lowerStmt(n.Body, w)

		return Concat(cond, Sequence{Choice{body, nil}})
	case *ast.For:
		var header Sequence
		if n.Init != nil {
			header = Concat(header, lowerExpr(n.Init, w))
		}

		if n.Cond != nil {
			header = Concat(header, lowerExpr(n.Cond, w))
		}

		body := lowerStmt(n.Body, w)
		if n.Post != nil {
			body = Concat(body, lowerExpr(n.Post, w))
		}

		return Concat(header, Sequence{Choice{body, nil}})
	case *ast.DoWhile:
		return Concat(lowerStmt(n.Body, w), lowerExpr(n.Cond, w))
	case *ast.Empty:
		return nil
	default:
		return nil
	}
}

func lowerExpr(e ast.Expr, w Warner) Sequence {
	switch n := e.(type) {
	case *ast.Ident, *ast.Const:
		return nil
	case *ast.Comma:
		var seq Sequence
		for _, a := range n.Exprs {
			seq = Concat(seq, lowerExpr(a, w))
		}

		return seq
	case *ast.Assign:
		return Concat(lowerExpr(n.LHS, w), lowerExpr(n.RHS, w))
	case *ast.BinOp:
		return Concat(lowerExpr(n.LHS, w), lowerExpr(n.RHS, w))
	case *ast.Index:
		return Concat(lowerExpr(n.Arr, w), lowerExpr(n.Idx, w))
	case *ast.Member:
		return lowerExpr(n.Obj, w)
	case *ast.Call:
		var args Sequence
		for _, a := range n.Args {
			args = Concat(args, lowerExpr(a, w))
		}

		if n.Callee != nil {
			return Concat(args, Sequence{Call{n.Callee.Name, n.Pos}})
		}
		// Indirect call: lower the callee expression for its side effects,
		// but append no Call node — resolution is out of scope.
		if n.Indirect != nil {
			args = Concat(args, lowerExpr(n.Indirect, w))
		}

		if w != nil {
			w.Warn(n.Pos, "indirect call site skipped")
		}

		return args
	case *ast.Cond:
		test := lowerExpr(n.Test, w)
		then := lowerExpr(n.Then, w)
		els := lowerExpr(n.Else, w)

		return Concat(test, Sequence{Choice{then, els}})
	case *ast.CompoundLiteral:
		var seq Sequence
		for _, i := range n.Inits {
			seq = Concat(seq, lowerExpr(i, w))
		}

		return seq
	case *ast.StmtExpr:
		var seq Sequence
		for _, s := range n.Stmts {
			seq = Concat(seq, lowerStmt(s, w))
		}

		return seq
	default:
		return nil
	}
}
