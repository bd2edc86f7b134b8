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
package callmap

import (
	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

// Entry is the value type of a CallMap: a function's position, its lowered
// and simplified call sequence (Empty for a declaration with no body, or a
// body with no call sites), and the permission actions attached to its
// declaration.
type Entry struct {
	Pos     ast.Position
	Calls   callseq.Sequence
	Actions permission.ActionSet
	hasBody bool
}

// CallMap is the whole-program map from function name to call-graph entry,
// ready for pkg/infer's fixed-point analysis.
type CallMap map[string]Entry

// Build lowers every entry of a NameMap into a CallMap: bodies are reduced
// to simplified call sequences via pkg/callseq, bodyless declarations get
// the empty sequence.
func Build(nm NameMap, w callseq.Warner) CallMap {
	cm := make(CallMap, len(nm))

	for name, ne := range nm {
		e := Entry{Pos: ne.Pos, Actions: ne.Actions}

		if ne.Body != nil {
			e.Calls = callseq.Simplify(callseq.Lower(*ne.Body, w))
			e.hasBody = true
		}

		cm[name] = e
	}

	return cm
}

// HasBody reports whether name's entry came from a function definition
// (as opposed to a bodyless declaration/prototype).
func (e Entry) HasBody() bool {
	return e.hasBody
}

// Merge combines two call maps into one, as required when fusing call
// graphs produced by separate invocations (e.g. a previously dumped call
// graph reloaded via pkg/graph and combined with a freshly analyzed one).
// Actions union; the non-empty body wins; two distinct non-empty bodies
// for the same name is a fatal DuplicateDefinitionError.
func Merge(a, b CallMap) (CallMap, error) {
	out := make(CallMap, len(a)+len(b))

	for name, e := range a {
		out[name] = e
	}

	for name, e := range b {
		existing, ok := out[name]
		if !ok {
			out[name] = e
			continue
		}

		merged, err := mergeEntry(name, existing, e)
		if err != nil {
			return nil, err
		}

		out[name] = merged
	}

	return out, nil
}

func mergeEntry(name string, a, b Entry) (Entry, error) {
	if a.hasBody && b.hasBody {
		return Entry{}, &DuplicateDefinitionError{Name: name}
	}

	merged := Entry{
		Pos:     a.Pos,
		Calls:   a.Calls,
		Actions: a.Actions.Union(b.Actions),
		hasBody: a.hasBody || b.hasBody,
	}

	if b.hasBody {
		merged.Pos = b.Pos
		merged.Calls = b.Calls
	}

	return merged, nil
}
