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
package config

import (
	"github.com/consensys/ward/pkg/permission"
	"github.com/consensys/ward/pkg/util/source"
	"github.com/consensys/ward/pkg/util/source/lex"
)

// Parse reads a single config file's declarative syntax (§6) into a Config.
// Multiple files are combined by the caller via Config.Merge, in the order
// given on the command line.
func Parse(srcfile *source.File) (*Config, []source.SyntaxError) {
	tokens, err := tokenize(srcfile)
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}

	p := &parser{srcfile: srcfile, tokens: tokens}
	cfg := New()

	for !p.atEOF() {
		if err := p.statement(cfg); err != nil {
			p.errors = append(p.errors, *err)
			p.recover()
		}
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}

	return cfg, nil
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

func (p *parser) expect(kind uint, what string) (lex.Token, *source.SyntaxError) {
	t := p.peek()
	if t.Kind != kind {
		return t, p.srcfile.SyntaxError(t.Span, "expected "+what)
	}

	return p.advance(), nil
}

// recover skips tokens up to and including the next semicolon, so that one
// malformed statement does not prevent reporting errors in the rest of the
// file.
func (p *parser) recover() {
	for !p.atEOF() {
		t := p.advance()
		if t.Kind == tokSemicolon {
			return
		}
	}
}

// stringContents strips the surrounding quotes from a tokString token's text.
func (p *parser) stringContents(t lex.Token) string {
	s := p.text(t)
	return s[1 : len(s)-1]
}

func (p *parser) statement(cfg *Config) *source.SyntaxError {
	t := p.peek()
	if t.Kind != tokIdent {
		return p.srcfile.SyntaxError(t.Span, "expected a statement")
	}

	switch p.text(t) {
	case "implicit":
		return p.implicitStatement(cfg)
	case "enforce":
		return p.enforceStatement(cfg)
	default:
		return p.declarationStatement(cfg)
	}
}

func (p *parser) implicitStatement(cfg *Config) *source.SyntaxError {
	p.advance() // "implicit"

	name, err := p.expect(tokIdent, "a permission name")
	if err != nil {
		return err
	}

	if _, err := p.expect(tokSemicolon, "';'"); err != nil {
		return err
	}

	cfg.Declare(permission.Name(p.text(name)), Declaration{Implicit: true})

	return nil
}

func (p *parser) enforceStatement(cfg *Config) *source.SyntaxError {
	p.advance() // "enforce"

	var (
		path    string
		hasPath bool
		name    string
		hasName bool
	)

	if p.peek().Kind == tokString {
		path = p.stringContents(p.advance())
		hasPath = true
	}

	if p.peek().Kind == tokIdent && p.text(p.peek()) == "fn" {
		p.advance()

		fn, err := p.expect(tokIdent, "a function name")
		if err != nil {
			return err
		}

		name = p.text(fn)
		hasName = true
	}

	if !hasPath && !hasName {
		return p.srcfile.SyntaxError(p.peek().Span, "expected a path string and/or 'fn <name>'")
	}

	if _, err := p.expect(tokSemicolon, "';'"); err != nil {
		return err
	}

	switch {
	case hasPath && hasName:
		cfg.Enforce(EnforcePathFunction{Suffix: path, Name: name})
	case hasName:
		cfg.Enforce(EnforceFunction{Name: name})
	default:
		cfg.Enforce(EnforcePath{Suffix: path})
	}

	return nil
}

func (p *parser) declarationStatement(cfg *Config) *source.SyntaxError {
	nameTok := p.advance()
	name := permission.Name(p.text(nameTok))

	decl := Declaration{}

	if p.peek().Kind == tokString {
		desc := p.stringContents(p.advance())
		decl.Description = &desc
	}

	if p.peek().Kind == tokArrow {
		p.advance()

		expr, err := p.expression()
		if err != nil {
			return err
		}

		restriction := Restriction{Name: name, Expression: expr}

		if p.peek().Kind == tokString {
			desc := p.stringContents(p.advance())
			restriction.Description = &desc
		}

		decl.Restrictions = append(decl.Restrictions, restriction)
	}

	if _, err := p.expect(tokSemicolon, "';'"); err != nil {
		return err
	}

	cfg.Declare(name, decl)

	return nil
}

// expression parses the restriction boolean grammar: Or > And > Not > Atom.
func (p *parser) expression() (Expression, *source.SyntaxError) {
	return p.orExpr()
}

func (p *parser) orExpr() (Expression, *source.SyntaxError) {
	lhs, err := p.andExpr()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == tokOr {
		p.advance()

		rhs, err := p.andExpr()
		if err != nil {
			return nil, err
		}

		lhs = Or{L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) andExpr() (Expression, *source.SyntaxError) {
	lhs, err := p.notExpr()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == tokAnd {
		p.advance()

		rhs, err := p.notExpr()
		if err != nil {
			return nil, err
		}

		lhs = And{L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) notExpr() (Expression, *source.SyntaxError) {
	if p.peek().Kind == tokNot {
		p.advance()

		x, err := p.notExpr()
		if err != nil {
			return nil, err
		}

		return Not{X: x}, nil
	}

	return p.atom()
}

func (p *parser) atom() (Expression, *source.SyntaxError) {
	if p.peek().Kind == tokLParen {
		p.advance()

		e, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return e, nil
	}

	t, err := p.expect(tokIdent, "a permission name")
	if err != nil {
		return nil, err
	}

	return Context{Name: permission.Name(p.text(t)), Presence: permission.Presence{Capability: permission.CapHas}}, nil
}
