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
)

// keywords that introduce a statement form pkg/ast models explicitly.
// The other statement starters have their own cases in statement: "goto",
// "break", "continue", "case" and "default" yield Empty, a label is skipped
// in front of the statement it labels, and a declaration is skipped as
// Empty; anything left is parsed as an expression statement.
const (
	kwIf      = "if"
	kwElse    = "else"
	kwSwitch  = "switch"
	kwWhile   = "while"
	kwFor     = "for"
	kwDo      = "do"
	kwReturn  = "return"
	kwGoto    = "goto"
	kwBreak   = "break"
	kwContinue = "continue"
	kwCase    = "case"
	kwDefault = "default"
)

func (p *parser) isKeyword(s string) bool {
	t := p.peek()
	return t.Kind == tokIdent && p.text(t) == s
}

// compound parses a brace-delimited statement block. The opening '{' must
// be the current token.
func (p *parser) compound() (*ast.Compound, *source.SyntaxError) {
	openTok, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}

	c := &ast.Compound{Pos: p.position(openTok)}

	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, p.srcfile.SyntaxError(p.peek().Span, "unterminated compound statement")
		}

		s, err := p.statement()
		if err != nil {
			return nil, err
		}

		if s != nil {
			c.Stmts = append(c.Stmts, s)
		}
	}

	p.advance() // '}'

	return c, nil
}

// statement parses a single statement. Declarations at block scope (a
// specifier sequence followed by an initialized or plain declarator) are
// not part of pkg/ast's statement grammar; they are recognized heuristically
// (an identifier or type-looking token not followed by an operator that
// would make it the start of an expression) and skipped to the next ';' or
// balanced '{...}' as an Empty statement, the same way a file-scope
// non-function declaration is skipped by declarationAfterAttrs.
func (p *parser) statement() (ast.Stmt, *source.SyntaxError) {
	t := p.peek()
	pos := p.position(t)

	switch {
	case p.atPunct("{"):
		return p.compound()

	case p.atPunct(";"):
		p.advance()
		return &ast.Empty{Pos: pos}, nil

	case p.isKeyword(kwIf):
		return p.ifStmt()

	case p.isKeyword(kwSwitch):
		return p.switchStmt()

	case p.isKeyword(kwWhile):
		return p.whileStmt()

	case p.isKeyword(kwFor):
		return p.forStmt()

	case p.isKeyword(kwDo):
		return p.doWhileStmt()

	case p.isKeyword(kwReturn):
		return p.returnStmt()

	case p.isKeyword(kwGoto):
		p.advance()

		if p.peek().Kind == tokIdent {
			p.advance()
		}

		return p.finishEmpty(pos)

	case p.isKeyword(kwBreak) || p.isKeyword(kwContinue):
		p.advance()
		return p.finishEmpty(pos)

	case p.isKeyword(kwCase):
		p.advance()

		if _, err := p.expr(); err != nil {
			return nil, err
		}

		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}

		return &ast.Empty{Pos: pos}, nil

	case p.isKeyword(kwDefault):
		p.advance()

		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}

		return &ast.Empty{Pos: pos}, nil

	case p.looksLikeLabel():
		p.advance() // identifier
		p.advance() // ':'

		return p.statement()

	case p.looksLikeDeclaration():
		p.skipDeclaration()
		return &ast.Empty{Pos: pos}, nil

	default:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Pos: pos, Expr: e}, nil
	}
}

func (p *parser) finishEmpty(pos ast.Position) (ast.Stmt, *source.SyntaxError) {
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.Empty{Pos: pos}, nil
}

// looksLikeLabel recognizes "identifier :" where the colon is not part of
// a ternary (no preceding '?' to match) and not "::" — C has no scope
// resolution operator, so a bare ':' following an identifier at statement
// start is always a label.
func (p *parser) looksLikeLabel() bool {
	return p.peek().Kind == tokIdent && p.isPunct(p.peekAt(1), ":")
}

// typeKeywords are specifier tokens that only ever start a declaration,
// never an expression, so seeing one unambiguously identifies a block-scope
// declaration statement.
var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"struct": true, "union": true, "enum": true, "typedef": true,
	"const": true, "volatile": true, "static": true, "extern": true,
	"register": true, "auto": true, "inline": true, "_Bool": true,
}

func (p *parser) looksLikeDeclaration() bool {
	return p.peek().Kind == tokIdent && typeKeywords[p.text(p.peek())]
}

// skipDeclaration consumes a block-scope declaration it has recognized but
// does not model, through its terminating ';'. Parentheses, brackets and
// braces are depth-tracked, so a ';' inside a struct/union body, a
// statement expression or an array-size expression does not end the skip.
func (p *parser) skipDeclaration() {
	depth := 0

	for !p.atEOF() {
		t := p.advance()

		switch {
		case p.isPunct(t, "(") || p.isPunct(t, "[") || p.isPunct(t, "{"):
			depth++
		case p.isPunct(t, ")") || p.isPunct(t, "]") || p.isPunct(t, "}"):
			depth--
		case depth == 0 && p.isPunct(t, ";"):
			return
		}
	}
}

func (p *parser) parenExpr() (ast.Expr, *source.SyntaxError) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	return e, nil
}

func (p *parser) ifStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'if'

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseStmt ast.Stmt

	if p.isKeyword(kwElse) {
		p.advance()

		elseStmt, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Pos: pos, Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *parser) switchStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'switch'

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ast.Switch{Pos: pos, Cond: cond, Body: body}, nil
}

func (p *parser) whileStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'while'

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ast.While{Pos: pos, Cond: cond, Body: body}, nil
}

func (p *parser) doWhileStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'do'

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if !p.isKeyword(kwWhile) {
		return nil, p.srcfile.SyntaxError(p.peek().Span, "expected 'while' after do-block")
	}

	p.advance()

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.DoWhile{Pos: pos, Body: body, Cond: cond}, nil
}

func (p *parser) forStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'for'

	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var init, cond, post ast.Expr

	var err *source.SyntaxError

	if p.looksLikeDeclaration() {
		p.skipDeclaration()
	} else if !p.atPunct(";") {
		init, err = p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	} else {
		p.advance() // ';'
	}

	if !p.atPunct(";") {
		cond, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	if !p.atPunct(")") {
		post, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ast.For{Pos: pos, Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *parser) returnStmt() (ast.Stmt, *source.SyntaxError) {
	pos := p.position(p.advance()) // 'return'

	var e ast.Expr

	if !p.atPunct(";") {
		var err *source.SyntaxError

		e, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.ExprStmt{Pos: pos, Expr: e}, nil
}
