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
	"fmt"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/permission"
)

// attrMacro is the only attribute macro Ward recognises. Every other macro
// name is simply foreign annotation noise (e.g. a compiler __attribute__
// Ward has no opinion on) and is skipped without comment.
const attrMacro = "ward"

var kindNames = map[string]permission.Kind{
	"need":   permission.Need,
	"use":    permission.Use,
	"grant":  permission.Grant,
	"revoke": permission.Revoke,
	"deny":   permission.Deny,
	"waive":  permission.Waive,
}

// ExtractActions parses the permission actions carried by a function
// declaration's `ward(action(permission))` attributes. An attribute under a
// different macro name is ignored. A `ward(...)` attribute whose action
// name is unrecognised, or whose argument shape is not exactly one nested
// action with exactly one permission name, is reported through w as a
// Warning and otherwise ignored — it contributes no action and never fails
// the build.
func ExtractActions(attrs []ast.Attribute, w Warner) permission.ActionSet {
	set := permission.NewActionSet()

	for _, a := range attrs {
		if a.Macro != attrMacro {
			continue
		}

		action, ok := parseWardAttr(a)
		if !ok {
			if w != nil {
				w.Warn(a.Pos, fmt.Sprintf("malformed ward attribute: %s(%v)", a.Macro, a.Args))
			}

			continue
		}

		set.Add(action)
	}

	return set
}

// parseWardAttr decodes a single `ward(...)` attribute's Args into an
// Action. The expected shape, per the declarative attribute grammar, is
// two arguments: an action name and a permission name, e.g. the attribute
// written in source as `ward(need(lock))` arrives here as
// Attribute{Macro: "ward", Args: []string{"need", "lock"}}.
func parseWardAttr(a ast.Attribute) (permission.Action, bool) {
	if len(a.Args) != 2 {
		return permission.Action{}, false
	}

	kind, ok := kindNames[a.Args[0]]
	if !ok {
		return permission.Action{}, false
	}

	name := a.Args[1]
	if name == "" {
		return permission.Action{}, false
	}

	return permission.NewAction(kind, permission.Name(name)), true
}
