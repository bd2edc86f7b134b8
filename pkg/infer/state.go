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

// Package infer is Ward's fixed-point permission-lattice engine (§4.4):
// it seeds each function's pre-state from its own declared actions,
// threads that state through the function's call sequence applying the
// transfer function induced by each callee's actions, and iterates a
// whole-program Need-propagation fixed point before emitting diagnostics.
package infer

import "github.com/consensys/ward/pkg/permission"

// effectiveActions returns the action set the inference engine actually
// uses to seed a function's pre-state: its own declared actions, plus a
// synthesized Need(p) for every config-implicit permission p it does not
// waive, plus whatever Need actions have been propagated to it so far by
// the fixed-point loop (see propagateNeeds in engine.go).
func effectiveActions(declared permission.ActionSet, implicitNames []permission.Name, propagated permission.ActionSet) permission.ActionSet {
	out := declared.Union(propagated)

	for _, name := range implicitNames {
		if declared.Contains(permission.NewAction(permission.Waive, name)) {
			continue
		}

		out.Add(permission.NewAction(permission.Need, name))
	}

	return out
}

// seedState implements §4.4's "Initial state" rule: the pre-state of a
// function is built directly from its effective action set, one update
// per action, independent of any caller (Ward's inference is context-
// insensitive).
func seedState(actions permission.ActionSet) permission.PresenceSet {
	s := permission.NewPresenceSet()

	for _, a := range actions.Items() {
		cur := s.Get(a.Name)

		switch a.Kind {
		case permission.Need:
			cur.Capability = cur.Capability.Join(permission.CapHas)
		case permission.Use:
			cur.Capability = cur.Capability.Join(permission.CapHas)
			cur.Usage = permission.Uses
		case permission.Grant:
			cur.Capability = cur.Capability.Join(permission.CapLacks)
		case permission.Revoke:
			cur.Capability = cur.Capability.Join(permission.CapHas)
		case permission.Deny:
			cur.Capability = cur.Capability.Join(permission.CapLacks)
		case permission.Waive:
			continue
		}

		s.Set(a.Name, cur)
	}

	return s
}
