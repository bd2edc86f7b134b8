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
	"github.com/consensys/ward/pkg/util/source"
	"github.com/consensys/ward/pkg/util/source/lex"
)

// Token kinds for the (preprocessed) C token stream. Ward does not need to
// distinguish keywords from other identifiers at the lexical level — "int",
// "static" and "do_work" are all tokIdent, and the parser decides what they
// mean from context, the same way it decides which identifiers are
// attribute macro names.
const (
	tokEOF uint = iota
	tokWhitespace
	tokComment
	tokString
	tokChar
	tokNumber
	tokIdent
	tokPunct
)

var whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

var lineComment = lex.And(lex.Unit('/', '/'), lex.Until('\n'))
var blockComment = lex.Sequence(lex.Unit('/', '*'), blockCommentRest)

var identStart = lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'))
var identRest = lex.Many(lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Within('0', '9')))
var identifier = lex.And(identStart, identRest)

var digit = lex.Within('0', '9')
var digits = lex.Many(digit)
var numSuffix = lex.Many(lex.Or(lex.Unit('u'), lex.Unit('U'), lex.Unit('l'), lex.Unit('L'), lex.Unit('.'), digit))
var number = lex.And(digit, digits, numSuffix)

var stringLit = lex.Sequence(lex.Unit('"'), stringRest, lex.Unit('"'))
var charLit = lex.Sequence(lex.Unit('\''), charRest, lex.Unit('\''))

// multi-character punctuators, longest first so the greedy Or picks them
// over their single-character prefixes.
var punctuators = []string{
	"<<=", ">>=", "...",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "?", ":",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!", "=", "<", ">",
}

func punctuatorScanners() []lex.Scanner[rune] {
	scanners := make([]lex.Scanner[rune], len(punctuators))
	for i, s := range punctuators {
		scanners[i] = runeString(s)
	}

	return scanners
}

func runeString(s string) lex.Scanner[rune] {
	chars := []rune(s)
	return lex.Unit(chars...)
}

// blockCommentRest consumes up to and including the closing "*/" (or to EOF
// if unterminated, which a later pass reports as unrecognised text).
func blockCommentRest(items []rune) uint {
	for i := 0; i+1 < len(items); i++ {
		if items[i] == '*' && items[i+1] == '/' {
			return uint(i + 2)
		}
	}

	return uint(len(items))
}

// stringRest/charRest consume literal contents up to (not including) the
// closing quote, honouring a trailing backslash escape of the quote itself.
func stringRest(items []rune) uint {
	return quotedRest(items, '"')
}

func charRest(items []rune) uint {
	return quotedRest(items, '\'')
}

func quotedRest(items []rune, quote rune) uint {
	i := 0
	for i < len(items) && items[i] != quote {
		if items[i] == '\\' && i+1 < len(items) {
			i += 2
			continue
		}

		i++
	}

	return uint(i)
}

func rules() []lex.LexRule[rune] {
	rs := []lex.LexRule[rune]{
		lex.Rule(blockComment, tokComment),
		lex.Rule(lineComment, tokComment),
		lex.Rule(whitespace, tokWhitespace),
		lex.Rule(stringLit, tokString),
		lex.Rule(charLit, tokChar),
		lex.Rule(number, tokNumber),
		lex.Rule(identifier, tokIdent),
	}

	for _, s := range punctuatorScanners() {
		rs = append(rs, lex.Rule(s, tokPunct))
	}

	rs = append(rs, lex.Rule(lex.Eof[rune](), tokEOF))

	return rs
}

// tokenize lexes a preprocessed C translation unit into a token stream with
// whitespace and comments dropped, or a syntax error if unrecognised text
// remains (stray characters the rule set above does not cover, e.g. a
// wide-character literal prefix).
func tokenize(srcfile *source.File) ([]lex.Token, *source.SyntaxError) {
	lexer := lex.NewLexer(srcfile.Contents(), rules()...)
	tokens := lexer.Collect()

	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		end := start + int(lexer.Remaining())

		return nil, srcfile.SyntaxError(source.NewSpan(start, end), "unrecognised text in translation unit")
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
