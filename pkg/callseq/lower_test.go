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

import (
	"testing"

	"github.com/consensys/ward/pkg/ast"
)

// collectWarner records every warning raised during lowering, for tests
// that need to assert on indirect-call-site detection.
type collectWarner struct {
	msgs []string
}

func (w *collectWarner) Warn(pos ast.Position, msg string) {
	w.msgs = append(w.msgs, msg)
}

func call(name string) *ast.Call {
	return &ast.Call{Callee: &ast.Ident{Name: name}}
}

func callStmt(name string) ast.Stmt {
	return &ast.ExprStmt{Expr: call(name)}
}

func names(seq Sequence) []string {
	var out []string

	for _, t := range seq {
		if c, ok := t.(Call); ok {
			out = append(out, c.Target)
		}
	}

	return out
}

func TestLowerSequentialCompound(t *testing.T) {
	body := &ast.Compound{Stmts: []ast.Stmt{callStmt("a"), callStmt("b")}}

	seq := Simplify(Lower(body, nil))

	if got := names(seq); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("names = %v, want [a b]", got)
	}
}

func TestLowerIfWithoutElseIsOptionalChoice(t *testing.T) {
	body := &ast.If{Cond: call("guard"), Then: callStmt("then")}

	seq := Simplify(Lower(body, nil))

	if len(seq) != 2 {
		t.Fatalf("expected guard call followed by a choice, got %v", seq)
	}

	c, ok := seq[1].(Choice)
	if !ok {
		t.Fatalf("expected second element to be a Choice, got %T", seq[1])
	}

	if len(c.B) != 0 {
		t.Errorf("missing else branch should lower to the empty sequence, got %v", c.B)
	}

	if got := names(c.A); len(got) != 1 || got[0] != "then" {
		t.Errorf("then branch = %v, want [then]", got)
	}
}

func TestLowerWhileGuardCanSkipBody(t *testing.T) {
	body := &ast.While{Cond: call("guard"), Body: callStmt("body")}

	seq := Simplify(Lower(body, nil))

	c, ok := seq[1].(Choice)
	if !ok {
		t.Fatalf("expected a Choice after the guard, got %v", seq)
	}

	if len(c.B) != 0 {
		t.Errorf("a while loop's body arm must have an empty (zero-iteration) sibling")
	}
}

func TestLowerForPlacesPostInsideBodyArm(t *testing.T) {
	body := &ast.For{
		Init: call("init"),
		Cond: call("guard"),
		Post: call("post"),
		Body: callStmt("body"),
	}

	seq := Simplify(Lower(body, nil))

	// header: init, guard
	if got := names(Sequence{seq[0], seq[1]}); len(got) != 2 || got[0] != "init" || got[1] != "guard" {
		t.Fatalf("header = %v, want [init guard]", got)
	}

	c, ok := seq[2].(Choice)
	if !ok {
		t.Fatalf("expected a Choice for the loop body, got %v", seq[2])
	}

	if got := names(c.A); len(got) != 2 || got[0] != "body" || got[1] != "post" {
		t.Errorf("loop body arm = %v, want [body post] (post runs after body)", got)
	}

	if len(c.B) != 0 {
		t.Errorf("a for loop must allow zero iterations")
	}
}

func TestLowerSwitchFlattensSequentially(t *testing.T) {
	body := &ast.Switch{Cond: call("guard"), Body: &ast.Compound{Stmts: []ast.Stmt{
		callStmt("case1"), callStmt("case2"),
	}}}

	seq := Simplify(Lower(body, nil))

	got := names(seq)
	if len(got) != 3 || got[0] != "guard" || got[1] != "case1" || got[2] != "case2" {
		t.Errorf("switch should flatten sequentially with no branching, got %v", got)
	}
}

func TestLowerIndirectCallWarns(t *testing.T) {
	w := &collectWarner{}
	body := &ast.ExprStmt{Expr: &ast.Call{Indirect: &ast.Ident{Name: "fp"}}}

	seq := Simplify(Lower(body, w))

	if len(seq) != 0 {
		t.Errorf("an indirect call should not contribute a Call node, got %v", seq)
	}

	if len(w.msgs) != 1 {
		t.Errorf("expected exactly one warning, got %v", w.msgs)
	}
}

func TestLowerTernaryIsChoice(t *testing.T) {
	body := &ast.ExprStmt{Expr: &ast.Cond{Test: call("t"), Then: call("a"), Else: call("b")}}

	seq := Simplify(Lower(body, nil))

	if len(seq) != 2 {
		t.Fatalf("expected test call then a choice, got %v", seq)
	}

	c, ok := seq[1].(Choice)
	if !ok {
		t.Fatalf("expected a Choice, got %T", seq[1])
	}

	if got := names(c.A); len(got) != 1 || got[0] != "a" {
		t.Errorf("then arm = %v, want [a]", got)
	}

	if got := names(c.B); len(got) != 1 || got[0] != "b" {
		t.Errorf("else arm = %v, want [b]", got)
	}
}
