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
package cparse

import (
	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/util/source"
	"github.com/consensys/ward/pkg/util/source/lex"
)

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// binaryPrecedence lists C's binary operators from lowest to highest
// precedence; operators within a group are left-associative. Assignment,
// the comma operator and the ternary conditional are handled one level up
// in expr/assignExpr/conditionalExpr.
var binaryPrecedence = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

// expr parses a full comma expression.
func (p *parser) expr() (ast.Expr, *source.SyntaxError) {
	pos := p.position(p.peek())

	first, err := p.assignExpr()
	if err != nil {
		return nil, err
	}

	if !p.atPunct(",") {
		return first, nil
	}

	exprs := []ast.Expr{first}

	for p.atPunct(",") {
		p.advance()

		e, err := p.assignExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)
	}

	return &ast.Comma{Pos: pos, Exprs: exprs}, nil
}

func (p *parser) assignExpr() (ast.Expr, *source.SyntaxError) {
	pos := p.position(p.peek())

	lhs, err := p.conditionalExpr()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind != tokPunct || !assignOps[p.text(p.peek())] {
		return lhs, nil
	}

	p.advance()

	rhs, err := p.assignExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Pos: pos, LHS: lhs, RHS: rhs}, nil
}

func (p *parser) conditionalExpr() (ast.Expr, *source.SyntaxError) {
	pos := p.position(p.peek())

	test, err := p.binaryExpr(0)
	if err != nil {
		return nil, err
	}

	if !p.atPunct("?") {
		return test, nil
	}

	p.advance()

	then, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}

	elseExpr, err := p.conditionalExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Cond{Pos: pos, Test: test, Then: then, Else: elseExpr}, nil
}

func (p *parser) binaryExpr(level int) (ast.Expr, *source.SyntaxError) {
	if level >= len(binaryPrecedence) {
		return p.unaryExprWithPostfix()
	}

	pos := p.position(p.peek())

	lhs, err := p.binaryExpr(level + 1)
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == tokPunct && containsOp(binaryPrecedence[level], p.text(p.peek())) {
		op := p.text(p.advance())

		rhs, err := p.binaryExpr(level + 1)
		if err != nil {
			return nil, err
		}

		lhs = &ast.BinOp{Pos: pos, Op: op, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func containsOp(ops []string, s string) bool {
	for _, op := range ops {
		if op == s {
			return true
		}
	}

	return false
}

var unaryPrefixOps = map[string]bool{
	"+": true, "-": true, "!": true, "~": true, "*": true, "&": true,
	"++": true, "--": true,
}

func (p *parser) unaryExprWithPostfix() (ast.Expr, *source.SyntaxError) {
	t := p.peek()
	pos := p.position(t)

	if t.Kind == tokIdent && p.text(t) == "sizeof" {
		return p.sizeofExpr(pos)
	}

	if t.Kind == tokPunct && unaryPrefixOps[p.text(t)] {
		p.advance()
		return p.unaryExprWithPostfix()
	}

	e, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.postfix(e)
}

// sizeofExpr consumes a sizeof expression without interpreting its operand
// further: sizeof never contributes a call, and its operand may be a bare
// type name this parser cannot otherwise represent.
func (p *parser) sizeofExpr(pos ast.Position) (ast.Expr, *source.SyntaxError) {
	p.advance() // 'sizeof'

	if p.atPunct("(") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return nil, err
		}
	} else if _, err := p.unaryExprWithPostfix(); err != nil {
		return nil, err
	}

	return &ast.Const{Pos: pos}, nil
}

func (p *parser) postfix(e ast.Expr) (ast.Expr, *source.SyntaxError) {
	for {
		switch {
		case p.atPunct("("):
			call, err := p.callRest(e)
			if err != nil {
				return nil, err
			}

			e = call

		case p.atPunct("["):
			pos := p.position(p.advance())

			idx, err := p.expr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}

			e = &ast.Index{Pos: pos, Arr: e, Idx: idx}

		case p.atPunct(".") || p.atPunct("->"):
			arrow := p.atPunct("->")
			pos := p.position(p.advance())

			if p.peek().Kind != tokIdent {
				return nil, p.srcfile.SyntaxError(p.peek().Span, "expected member name")
			}

			name := p.text(p.advance())
			e = &ast.Member{Pos: pos, Obj: e, Name: name, Arrow: arrow}

		case p.atPunct("++") || p.atPunct("--"):
			p.advance()

		default:
			return e, nil
		}
	}
}

// callRest parses the argument list of a call whose callee expression has
// already been parsed. A direct call (callee is a bare Ident) is recorded
// with Callee set; anything else is an indirect call through Indirect, left
// for pkg/callseq to report and skip.
func (p *parser) callRest(callee ast.Expr) (ast.Expr, *source.SyntaxError) {
	pos := p.position(p.peek())

	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var args []ast.Expr

	for !p.atPunct(")") {
		if p.atEOF() {
			return nil, p.srcfile.SyntaxError(p.peek().Span, "unterminated call argument list")
		}

		a, err := p.assignExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, a)

		if p.atPunct(",") {
			p.advance()
		}
	}

	p.advance() // ')'

	call := &ast.Call{Pos: pos, Args: args}

	if id, ok := callee.(*ast.Ident); ok {
		call.Callee = id
	} else {
		call.Indirect = callee
	}

	return call, nil
}

func (p *parser) primary() (ast.Expr, *source.SyntaxError) {
	t := p.peek()
	pos := p.position(t)

	switch {
	case p.atPunct("("):
		return p.parenPrimary(pos)

	case t.Kind == tokIdent:
		p.advance()
		return &ast.Ident{Pos: pos, Name: p.text(t)}, nil

	case t.Kind == tokNumber || t.Kind == tokString || t.Kind == tokChar:
		p.advance()
		return &ast.Const{Pos: pos}, nil

	default:
		return nil, p.srcfile.SyntaxError(t.Span, "expected expression")
	}
}

// parenPrimary handles everything that can start with '(': a parenthesized
// expression, a GNU statement-expression `({ … })`, a compound literal
// `(T){ … }`, and — heuristically, since pkg/ast has no Cast node — a cast
// `(T)operand`, recognized when the parenthesized content was a single bare
// identifier (a plausible type name) immediately followed by another
// expression rather than an operator. Casts of pointer/qualified types
// (`(T*)x`) are not recognized this way and fall back to a parse error;
// this is a known gap in a deliberately pragmatic front end (spec.md §2
// treats the real C grammar as the external parser's problem).
func (p *parser) parenPrimary(pos ast.Position) (ast.Expr, *source.SyntaxError) {
	if p.isPunct(p.peekAt(1), "{") {
		p.advance() // '('

		body, err := p.compound()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		return &ast.StmtExpr{Pos: pos, Stmts: body.Stmts}, nil
	}

	if close := p.matchingParenIndex(); close >= 0 && p.isPunct(p.tokenAt(close+1), "{") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return nil, err
		}

		return p.compoundLiteralRest(pos)
	}

	p.advance() // '('

	inner, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	if _, ok := inner.(*ast.Ident); ok && p.startsUnaryExpr() {
		// A cast: "inner" was the type name, now discarded, and what
		// follows is the actual operand — parse and return that instead
		// so any calls within it are still captured.
		return p.unaryExprWithPostfix()
	}

	return inner, nil
}

func (p *parser) startsUnaryExpr() bool {
	t := p.peek()
	if t.Kind == tokIdent || t.Kind == tokNumber || t.Kind == tokString || t.Kind == tokChar {
		return true
	}

	return t.Kind == tokPunct && (p.text(t) == "(" || unaryPrefixOps[p.text(t)])
}

// compoundLiteralRest parses the brace-delimited initializer list of a
// compound literal, ignoring any designators (`.field =` / `[i] =`
// prefixes) on each element: only the initializer expressions matter for
// the call-graph lowering.
func (p *parser) compoundLiteralRest(pos ast.Position) (ast.Expr, *source.SyntaxError) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var inits []ast.Expr

	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, p.srcfile.SyntaxError(p.peek().Span, "unterminated compound literal")
		}

		p.skipDesignator()

		e, err := p.assignExpr()
		if err != nil {
			return nil, err
		}

		inits = append(inits, e)

		if p.atPunct(",") {
			p.advance()
		}
	}

	p.advance() // '}'

	return &ast.CompoundLiteral{Pos: pos, Inits: inits}, nil
}

func (p *parser) skipDesignator() {
	for p.atPunct(".") || p.atPunct("[") {
		if p.atPunct(".") {
			p.advance()

			if p.peek().Kind == tokIdent {
				p.advance()
			}
		} else {
			p.advance()

			depth := 1
			for depth > 0 && !p.atEOF() {
				t := p.advance()

				switch {
				case p.isPunct(t, "["):
					depth++
				case p.isPunct(t, "]"):
					depth--
				}
			}
		}
	}

	if p.atPunct("=") {
		p.advance()
	}
}

// matchingParenIndex returns the absolute token index of the ')' matching
// the '(' at the current position, or -1 if the stream runs out first.
func (p *parser) matchingParenIndex() int {
	depth := 0

	for i := p.index; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.Kind != tokPunct {
			continue
		}

		switch p.textAt(i) {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

func (p *parser) textAt(i int) string {
	span := p.tokens[i].Span
	return string(p.srcfile.Contents()[span.Start():span.End()])
}

func (p *parser) tokenAt(i int) lex.Token {
	if i < 0 || i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[i]
}
