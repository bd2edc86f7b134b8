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

// Package cparse is Ward's own default implementation of the "external
// parser" spec.md §2 step 1 hands translation units in from: it turns a
// preprocessed C source file into the pkg/ast shapes pkg/callmap and
// pkg/callseq consume. It is deliberately not a conformant C front end —
// spec.md frames AST ingest as accepting "(path, translation_unit) pairs
// from the external parser", treating full C grammar as someone else's
// problem. What cparse parses precisely is exactly the subset pkg/ast
// models (function declarations/definitions and the statement/expression
// grammar enumerated there); everything else at file scope (variables,
// typedefs, struct/union/enum bodies, declarations with initializers) is
// recognized only well enough to be skipped as an ast.OtherDecl without
// attempting to represent its contents.
package cparse

import (
	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/util/source"
	"github.com/consensys/ward/pkg/util/source/lex"
)

// Parse reads a single preprocessed translation unit into an
// ast.TranslationUnit, or a list of syntax errors if the token stream
// could not be made sense of. Parse does not invoke a preprocessor itself
// — srcfile is expected to already have macros expanded and comments
// stripped of anything the preprocessor would have rewritten; see
// pkg/cmd's "--preprocessor" flag.
func Parse(srcfile *source.File) (*ast.TranslationUnit, []source.SyntaxError) {
	tokens, err := tokenize(srcfile)
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}

	p := &parser{srcfile: srcfile, tokens: tokens}
	unit := &ast.TranslationUnit{Path: srcfile.Filename()}

	for !p.atEOF() {
		d, err := p.topLevelDecl()
		if err != nil {
			p.errors = append(p.errors, *err)
			p.recover()

			continue
		}

		if d != nil {
			unit.Decls = append(unit.Decls, d)
		}
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}

	return unit, nil
}

type parser struct {
	srcfile *source.File
	tokens  []lex.Token
	index   int
	errors  []source.SyntaxError
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == tokEOF
}

func (p *parser) peek() lex.Token {
	return p.tokens[p.index]
}

func (p *parser) peekAt(offset int) lex.Token {
	i := p.index + offset
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}

	return p.tokens[i]
}

func (p *parser) text(t lex.Token) string {
	span := t.Span
	return string(p.srcfile.Contents()[span.Start():span.End()])
}

func (p *parser) advance() lex.Token {
	t := p.tokens[p.index]
	if p.index < len(p.tokens)-1 {
		p.index++
	}

	return t
}

func (p *parser) isPunct(t lex.Token, s string) bool {
	return t.Kind == tokPunct && p.text(t) == s
}

func (p *parser) atPunct(s string) bool {
	return p.isPunct(p.peek(), s)
}

func (p *parser) expectPunct(s string) (lex.Token, *source.SyntaxError) {
	t := p.peek()
	if !p.isPunct(t, s) {
		return t, p.srcfile.SyntaxError(t.Span, "expected '"+s+"'")
	}

	return p.advance(), nil
}

func (p *parser) position(t lex.Token) ast.Position {
	line := p.srcfile.FindFirstEnclosingLine(t.Span)
	column := int(t.Span.Start()) - line.Start() + 1

	return ast.Position{Path: p.srcfile.Filename(), Line: line.Number(), Column: column}
}

// recover skips to the next top-level declaration boundary (a ';' or '{'
// at bracket depth 0) so one malformed declaration does not prevent
// reporting errors in the rest of the file.
func (p *parser) recover() {
	depth := 0

	for !p.atEOF() {
		t := p.advance()

		switch {
		case p.isPunct(t, "(") || p.isPunct(t, "[") || p.isPunct(t, "{"):
			depth++
		case p.isPunct(t, ")") || p.isPunct(t, "]") || p.isPunct(t, "}"):
			depth--
		case depth <= 0 && p.isPunct(t, ";"):
			return
		}
	}
}

// topLevelDecl parses one file-scope declaration: an optional run of
// attribute expressions, followed by a function declaration/definition or
// any other declaration (opaquely skipped as ast.OtherDecl).
func (p *parser) topLevelDecl() (ast.Decl, *source.SyntaxError) {
	pos := p.position(p.peek())

	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}

	return p.declarationAfterAttrs(pos, attrs)
}

// attributes consumes a run of `macro(args...)` attribute expressions. At
// file scope, outside of a declaration's own body, a bare `identifier(...)`
// can only be an attribute (C has no file-scope statements), so every such
// run found before a declaration's specifiers is collected regardless of
// macro name — pkg/callmap.ExtractActions later decides which of them (the
// "ward" macro) it understands.
func (p *parser) attributes() ([]ast.Attribute, *source.SyntaxError) {
	var attrs []ast.Attribute

	for p.peek().Kind == tokIdent && p.isPunct(p.peekAt(1), "(") {
		nameTok := p.advance()
		pos := p.position(nameTok)

		args, err := p.balancedArgs()
		if err != nil {
			return nil, err
		}

		attrs = append(attrs, ast.Attribute{Macro: p.text(nameTok), Args: args, Pos: pos})
	}

	return attrs, nil
}

// balancedArgs parses the parenthesized argument list of an attribute
// expression, flattening exactly one level of nested call syntax: `ward(
// need(lock))` yields ["need", "lock"], matching the shape
// pkg/callmap.ExtractActions expects. Anything shaped differently (no
// nested call, multiple arguments at either level) is still returned,
// leaving ExtractActions to report it as malformed.
func (p *parser) balancedArgs() ([]string, *source.SyntaxError) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var args []string

	for !p.atPunct(")") {
		if p.atEOF() {
			return nil, p.srcfile.SyntaxError(p.peek().Span, "unterminated attribute")
		}

		if p.peek().Kind == tokIdent && p.isPunct(p.peekAt(1), "(") {
			nameTok := p.advance()
			args = append(args, p.text(nameTok))

			nested, err := p.balancedArgs()
			if err != nil {
				return nil, err
			}

			args = append(args, nested...)
		} else if p.peek().Kind == tokIdent {
			args = append(args, p.text(p.advance()))
		} else {
			p.advance()
		}

		if p.atPunct(",") {
			p.advance()
		}
	}

	p.advance() // ')'

	return args, nil
}

// declarationAfterAttrs scans the specifiers and declarator of a single
// file-scope declaration to find: whether it declares a function (a bare
// identifier immediately followed by a balanced parameter list, itself
// immediately followed by ';' or '{'), whether it carries the `static`
// storage-class specifier, and — for a function definition — its body.
func (p *parser) declarationAfterAttrs(pos ast.Position, attrs []ast.Attribute) (ast.Decl, *source.SyntaxError) {
	var (
		isStatic  bool
		candidate lex.Token
		haveCand  bool
		lastWasRP bool
	)

	depth := 0

	for {
		if p.atEOF() {
			return nil, p.srcfile.SyntaxError(p.peek().Span, "unexpected end of file in declaration")
		}

		t := p.peek()

		if depth == 0 && p.isPunct(t, ";") {
			p.advance()

			if haveCand && lastWasRP {
				return &ast.FuncDecl{Pos: pos, Name: p.text(candidate), Static: isStatic, Attrs: attrs}, nil
			}

			return &ast.OtherDecl{Pos: pos}, nil
		}

		if depth == 0 && p.isPunct(t, "{") {
			if haveCand && lastWasRP {
				return p.functionDefinition(pos, p.text(candidate), isStatic, attrs)
			}

			if err := p.skipBalanced("{", "}"); err != nil {
				return nil, err
			}

			if p.atPunct(";") {
				p.advance()
			}

			return &ast.OtherDecl{Pos: pos}, nil
		}

		if depth == 0 && t.Kind == tokIdent && p.text(t) == "static" {
			isStatic = true
		}

		// Only a depth-0 identifier can be the declarator being declared;
		// an identifier immediately followed by '(' inside a parameter
		// list (e.g. the "void" of a "void (*fp)(void)" parameter type)
		// must not be mistaken for it.
		if depth == 0 && t.Kind == tokIdent && p.isPunct(p.peekAt(1), "(") {
			candidate = t
			haveCand = true
		}

		switch {
		case p.isPunct(t, "(") || p.isPunct(t, "[") :
			depth++
			lastWasRP = false
		case p.isPunct(t, ")") || p.isPunct(t, "]"):
			depth--
			lastWasRP = depth == 0 && p.isPunct(t, ")")
		default:
			lastWasRP = false
		}

		p.advance()
	}
}

// skipBalanced consumes tokens from the already-consumed-or-not opening
// bracket (open must be the current token) through its matching closer,
// inclusive, without attempting to interpret the contents.
func (p *parser) skipBalanced(open, closeTok string) *source.SyntaxError {
	depth := 0

	for {
		if p.atEOF() {
			return p.srcfile.SyntaxError(p.peek().Span, "unterminated block")
		}

		t := p.advance()

		switch {
		case p.isPunct(t, open):
			depth++
		case p.isPunct(t, closeTok):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// functionDefinition parses a function body as a Compound statement via
// the statement grammar of pkg/ast.
func (p *parser) functionDefinition(pos ast.Position, name string, static bool, attrs []ast.Attribute) (ast.Decl, *source.SyntaxError) {
	body, err := p.compound()
	if err != nil {
		return nil, err
	}

	var stmt ast.Stmt = body

	return &ast.FuncDecl{Pos: pos, Name: name, Static: static, Attrs: attrs, Body: &stmt}, nil
}
