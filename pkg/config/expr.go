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
	"fmt"

	"github.com/consensys/ward/pkg/permission"
)

// Expression is a boolean tree over Context atoms, evaluated against a
// permission.PresenceSet by pkg/infer's restriction checker.
type Expression interface {
	expr()
	// Eval evaluates this expression against a presence set.
	Eval(s permission.PresenceSet) bool
	String() string
}

// Context holds iff the presence recorded at Name is ⊒ Presence.
type Context struct {
	Name     permission.Name
	Presence permission.Presence
}

func (Context) expr() {}

// Eval implements Expression.
func (c Context) Eval(s permission.PresenceSet) bool {
	return c.Presence.Leq(s.Get(c.Name))
}

func (c Context) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, c.Presence)
}

// Not negates a sub-expression. Precedence (output only): Not > And > Or.
type Not struct{ X Expression }

func (Not) expr() {}

// Eval implements Expression.
func (n Not) Eval(s permission.PresenceSet) bool {
	return !n.X.Eval(s)
}

func (n Not) String() string {
	return "!" + parenIfLower(n.X, precedenceNot)
}

// And is the conjunction of two sub-expressions.
type And struct{ L, R Expression }

func (And) expr() {}

// Eval implements Expression.
func (a And) Eval(s permission.PresenceSet) bool {
	return a.L.Eval(s) && a.R.Eval(s)
}

func (a And) String() string {
	return parenIfLower(a.L, precedenceAnd) + " && " + parenIfLower(a.R, precedenceAnd)
}

// Or is the disjunction of two sub-expressions.
type Or struct{ L, R Expression }

func (Or) expr() {}

// Eval implements Expression.
func (o Or) Eval(s permission.PresenceSet) bool {
	return o.L.Eval(s) || o.R.Eval(s)
}

func (o Or) String() string {
	return parenIfLower(o.L, precedenceOr) + " || " + parenIfLower(o.R, precedenceOr)
}

const (
	precedenceOr = iota
	precedenceAnd
	precedenceNot
)

func precedenceOf(e Expression) int {
	switch e.(type) {
	case Not:
		return precedenceNot
	case And:
		return precedenceAnd
	case Or:
		return precedenceOr
	default:
		return precedenceNot + 1
	}
}

func parenIfLower(e Expression, min int) string {
	if precedenceOf(e) < min {
		return "(" + e.String() + ")"
	}

	return e.String()
}
