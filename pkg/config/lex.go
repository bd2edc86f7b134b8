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
	"github.com/consensys/ward/pkg/util/source"
	"github.com/consensys/ward/pkg/util/source/lex"
)

// Token kinds for the declarative config grammar.
const (
	tokEOF uint = iota
	tokWhitespace
	tokComment
	tokString
	tokIdent
	tokArrow
	tokSemicolon
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

var whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

var commentStart = lex.Unit('#')
var commentRest = lex.Until('\n')
var comment = lex.And(commentStart, commentRest)

var identStart = lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'))
var identRest = lex.Many(lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Within('0', '9')))
var identifier = lex.And(identStart, identRest)

var quoted = lex.Sequence(lex.Unit('"'), lex.Until('"'), lex.Unit('"'))

var rules = []lex.LexRule[rune]{
	lex.Rule(comment, tokComment),
	lex.Rule(whitespace, tokWhitespace),
	lex.Rule(quoted, tokString),
	lex.Rule(lex.Unit('-', '>'), tokArrow),
	lex.Rule(lex.Unit('&', '&'), tokAnd),
	lex.Rule(lex.Unit('|', '|'), tokOr),
	lex.Rule(lex.Unit(';'), tokSemicolon),
	lex.Rule(lex.Unit('!'), tokNot),
	lex.Rule(lex.Unit('('), tokLParen),
	lex.Rule(lex.Unit(')'), tokRParen),
	lex.Rule(identifier, tokIdent),
	lex.Rule(lex.Eof[rune](), tokEOF),
}

// tokenize lexes a config source file into a token stream with whitespace
// and comments dropped, or a syntax error if unrecognised text remains.
func tokenize(srcfile *source.File) ([]lex.Token, *source.SyntaxError) {
	lexer := lex.NewLexer(srcfile.Contents(), rules...)
	tokens := lexer.Collect()

	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		end := start + int(lexer.Remaining())

		return nil, srcfile.SyntaxError(source.NewSpan(start, end), "unrecognised text in config file")
	}

	out := tokens[:0]

	for _, t := range tokens {
		if t.Kind == tokWhitespace || t.Kind == tokComment {
			continue
		}

		out = append(out, t)
	}

	return out, nil
}
