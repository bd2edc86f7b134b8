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

// Package graph implements the on-disk call-graph format named in §6: a
// JSON document mapping every function identifier Ward knows about to its
// position, its lowered call sequence, and its declared permission
// actions. The same format is read back by Parse, and Graph.CallMap turns
// a parsed graph into a call map that callmap.Merge can combine with
// another (e.g. a hand-authored stub for an external function). No command
// reads a graph file back.
package graph

import (
	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

// Unit is the call-graph entry for a single function.
type Unit struct {
	Pos     ast.Position
	Calls   callseq.Sequence
	Actions permission.ActionSet
}

// Graph is the whole-program call graph, keyed by function identifier.
type Graph map[string]Unit

// Dump converts a CallMap into a Graph ready for Marshal.
func Dump(cm callmap.CallMap) Graph {
	g := make(Graph, len(cm))

	for name, entry := range cm {
		g[name] = Unit{Pos: entry.Pos, Calls: entry.Calls, Actions: entry.Actions}
	}

	return g
}

// CallMap converts a Graph back into a callmap.CallMap, e.g. after Parse.
// A graph records no bodies, so HasBody reports false for every entry of
// the result.
func (g Graph) CallMap() callmap.CallMap {
	cm := make(callmap.CallMap, len(g))

	for name, u := range g {
		cm[name] = callmap.Entry{Pos: u.Pos, Calls: u.Calls, Actions: u.Actions}
	}

	return cm
}
