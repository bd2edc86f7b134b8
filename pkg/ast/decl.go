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
package ast

// Decl is a top-level (or block-scope) C declaration. Ward only cares about
// function declarations/definitions; every other declaration kind
// (variables, typedefs, struct/union/enum tags, …) is modelled as
// OtherDecl and contributes nothing to the analysis.
type Decl interface {
	decl()
	Position() Position
}

// Attribute is a single attribute expression attached to a declaration or
// one of its declarators, of the shape `macro(action(identifier))`. Raw
// here means unvalidated: pkg/callmap's action extraction decides which
// shapes are well-formed `ward(...)` attributes and which are malformed or
// belong to an unrecognised macro.
type Attribute struct {
	Macro string
	Args  []string
	Pos   Position
}

// Hash disambiguates two distinct declarations of the same identifier
// within a single translation unit (e.g. redeclared prototypes), as
// described for FunctionIdent equality in pkg/ident.
type Hash uint64

// FuncDecl is a function declaration or definition.
type FuncDecl struct {
	Pos Position
	// Name is the declarator identifier, as written (before any static
	// prefixing — that happens in pkg/ident).
	Name string
	Hash Hash
	// Static holds when this function was declared with the `static`
	// storage-class specifier.
	Static bool
	// Attrs is the set of attribute expressions found on this declaration's
	// specifiers and declarators.
	Attrs []Attribute
	// Body is nil for a declaration without a definition.
	Body *Stmt
}

func (*FuncDecl) decl() {}

// Position implements Decl.
func (d *FuncDecl) Position() Position { return d.Pos }

// OtherDecl is any declaration Ward does not model further (variables,
// typedefs, tag declarations, …).
type OtherDecl struct {
	Pos Position
}

func (*OtherDecl) decl() {}

// Position implements Decl.
func (d *OtherDecl) Position() Position { return d.Pos }
