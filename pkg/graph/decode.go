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
	"fmt"
	"strings"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

// Parse reads a §6 call-graph document. Unlike Marshal's static types,
// decoding works against the untyped map[string]interface{} shape
// json.Unmarshal hands back for arbitrary JSON, then switches on the
// discriminator key present at each node (the same style pkg/binfile uses
// to decode the Rust corset constraint enum). Any shape that does not
// match is reported as a CallMapUnitParseError rather than a panic.
func Parse(data []byte) (Graph, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, CallMapUnitParseError{Reason: err.Error()}
	}

	g := make(Graph, len(raw))

	for name, v := range raw {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, CallMapUnitParseError{Unit: name, Reason: "unit is not a JSON object"}
		}

		u, err := unitFromJSON(name, obj)
		if err != nil {
			return nil, err
		}

		g[name] = u
	}

	return g, nil
}

func unitFromJSON(name string, obj map[string]interface{}) (Unit, error) {
	posRaw, ok := obj["position"]
	if !ok {
		return Unit{}, CallMapUnitParseError{Unit: name, Reason: "missing \"position\""}
	}

	pos, err := positionFromJSON(name, posRaw)
	if err != nil {
		return Unit{}, err
	}

	callsRaw, ok := obj["calls"]
	if !ok {
		return Unit{}, CallMapUnitParseError{Unit: name, Reason: "missing \"calls\""}
	}

	callsArr, ok := callsRaw.([]interface{})
	if !ok {
		return Unit{}, CallMapUnitParseError{Unit: name, Reason: "\"calls\" is not a JSON array"}
	}

	seq, err := sequenceFromJSON(name, callsArr)
	if err != nil {
		return Unit{}, err
	}

	permsRaw, ok := obj["permissions"]
	if !ok {
		return Unit{}, CallMapUnitParseError{Unit: name, Reason: "missing \"permissions\""}
	}

	permsArr, ok := permsRaw.([]interface{})
	if !ok {
		return Unit{}, CallMapUnitParseError{Unit: name, Reason: "\"permissions\" is not a JSON array"}
	}

	actions, err := actionsFromJSON(name, permsArr)
	if err != nil {
		return Unit{}, err
	}

	return Unit{Pos: pos, Calls: seq, Actions: actions}, nil
}

func positionFromJSON(unit string, raw interface{}) (ast.Position, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return ast.Position{}, CallMapUnitParseError{Unit: unit, Reason: "\"position\" is not a JSON object"}
	}

	path, _ := obj["path"].(string)

	line, ok := obj["line"].(float64)
	if !ok {
		return ast.Position{}, CallMapUnitParseError{Unit: unit, Reason: "\"position.line\" is not a number"}
	}

	column, ok := obj["column"].(float64)
	if !ok {
		return ast.Position{}, CallMapUnitParseError{Unit: unit, Reason: "\"position.column\" is not a number"}
	}

	return ast.Position{Path: path, Line: int(line), Column: int(column)}, nil
}

func sequenceFromJSON(unit string, arr []interface{}) (callseq.Sequence, error) {
	seq := make(callseq.Sequence, 0, len(arr))

	for _, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, CallMapUnitParseError{Unit: unit, Reason: "a calls entry is not a JSON object"}
		}

		switch {
		case obj["call"] != nil:
			call, err := callFromJSON(unit, obj["call"])
			if err != nil {
				return nil, err
			}

			seq = seq.Append(call)

		case obj["choice"] != nil:
			choice, err := choiceFromJSON(unit, obj["choice"])
			if err != nil {
				return nil, err
			}

			seq = seq.Append(choice)

		default:
			return nil, CallMapUnitParseError{Unit: unit, Reason: "a calls entry has neither \"call\" nor \"choice\""}
		}
	}

	return seq, nil
}

func callFromJSON(unit string, raw interface{}) (callseq.Call, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return callseq.Call{}, CallMapUnitParseError{Unit: unit, Reason: "\"call\" is not a JSON object"}
	}

	target, ok := obj["target"].(string)
	if !ok {
		return callseq.Call{}, CallMapUnitParseError{Unit: unit, Reason: "\"call.target\" is not a string"}
	}

	pos, err := positionFromJSON(unit, obj["position"])
	if err != nil {
		return callseq.Call{}, err
	}

	return callseq.Call{Target: target, Pos: pos}, nil
}

func choiceFromJSON(unit string, raw interface{}) (callseq.Choice, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return callseq.Choice{}, CallMapUnitParseError{Unit: unit, Reason: "\"choice\" is not a JSON object"}
	}

	aArr, ok := obj["a"].([]interface{})
	if !ok {
		return callseq.Choice{}, CallMapUnitParseError{Unit: unit, Reason: "\"choice.a\" is not a JSON array"}
	}

	bArr, ok := obj["b"].([]interface{})
	if !ok {
		return callseq.Choice{}, CallMapUnitParseError{Unit: unit, Reason: "\"choice.b\" is not a JSON array"}
	}

	a, err := sequenceFromJSON(unit, aArr)
	if err != nil {
		return callseq.Choice{}, err
	}

	b, err := sequenceFromJSON(unit, bArr)
	if err != nil {
		return callseq.Choice{}, err
	}

	return callseq.Choice{A: a, B: b}, nil
}

func actionsFromJSON(unit string, arr []interface{}) (permission.ActionSet, error) {
	set := permission.NewActionSet()

	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return permission.ActionSet{}, CallMapUnitParseError{Unit: unit, Reason: "a permissions entry is not a string"}
		}

		a, err := parseAction(s)
		if err != nil {
			return permission.ActionSet{}, CallMapUnitParseError{Unit: unit, Reason: err.Error()}
		}

		set.Add(a)
	}

	return set, nil
}

// parseAction inverts Action.String()'s "kind(name)" rendering.
func parseAction(s string) (permission.Action, error) {
	open := strings.IndexByte(s, '(')
	if open == -1 || !strings.HasSuffix(s, ")") {
		return permission.Action{}, fmt.Errorf("malformed permission action %q", s)
	}

	kindText, name := s[:open], s[open+1:len(s)-1]

	var kind permission.Kind

	switch kindText {
	case "need":
		kind = permission.Need
	case "use":
		kind = permission.Use
	case "grant":
		kind = permission.Grant
	case "revoke":
		kind = permission.Revoke
	case "deny":
		kind = permission.Deny
	case "waive":
		kind = permission.Waive
	default:
		return permission.Action{}, fmt.Errorf("unknown permission action kind %q", kindText)
	}

	return permission.NewAction(kind, permission.Name(name)), nil
}
