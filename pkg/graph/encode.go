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
package graph

import (
	"encoding/json"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

// Marshal renders a Graph as the §6 JSON document, indented for readability
// since it is meant to double as a human-browsable artifact, not just a
// wire format.
func Marshal(g Graph) ([]byte, error) {
	wire := make(map[string]any, len(g))

	for name, u := range g {
		wire[name] = map[string]any{
			"position":    positionToJSON(u.Pos),
			"calls":       sequenceToJSON(u.Calls),
			"permissions": actionsToJSON(u.Actions),
		}
	}

	return json.MarshalIndent(wire, "", "  ")
}

func positionToJSON(p ast.Position) map[string]any {
	return map[string]any{"path": p.Path, "line": p.Line, "column": p.Column}
}

func actionsToJSON(actions permission.ActionSet) []string {
	items := actions.Items()
	out := make([]string, len(items))

	for i, a := range items {
		out[i] = a.String()
	}

	return out
}

// sequenceToJSON lowers a call sequence to the recursive Call | Choice |
// Sequence JSON shape: a Sequence is a JSON array, a Call is
// {"call": {"target": ..., "position": ...}}, and a Choice is
// {"choice": {"a": [...], "b": [...]}}.
func sequenceToJSON(seq callseq.Sequence) []any {
	out := make([]any, 0, len(seq))

	for _, node := range seq {
		switch n := node.(type) {
		case callseq.Call:
			out = append(out, map[string]any{
				"call": map[string]any{"target": n.Target, "position": positionToJSON(n.Pos)},
			})
		case callseq.Choice:
			out = append(out, map[string]any{
				"choice": map[string]any{"a": sequenceToJSON(n.A), "b": sequenceToJSON(n.B)},
			})
		}
	}

	return out
}
