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

// Package ast declares the abstraction level at which Ward consumes a C
// translation unit from its external preprocessor/parser. The parser itself
// (and the C grammar beyond what the lowering pass in pkg/callseq touches)
// are treated as a black box; this package only names the shapes that
// black box is expected to hand back.
package ast

import "fmt"

// Position is a source location as reported by the external C parser.
type Position struct {
	Path   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Column)
}

// TranslationUnit is a single parsed C source file: an ordered list of
// top-level declarations.
type TranslationUnit struct {
	Path  string
	Decls []Decl
}
