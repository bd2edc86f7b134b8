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
package infer

import (
	"fmt"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

// callError is a transfer-function violation raised at a call site,
// carrying enough to format BecauseCall(callee) per §4.4's Reporting step.
type callError struct {
	Pos        ast.Position
	Callee     string
	Permission permission.Name
	Kind       permission.Kind
}

func (e callError) message() string {
	switch e.Kind {
	case permission.Need, permission.Use:
		return fmt.Sprintf("call to %q: need permission '%s'", e.Callee, e.Permission)
	case permission.Grant:
		return fmt.Sprintf("call to %q grants permission %q already held", e.Callee, e.Permission)
	case permission.Revoke:
		return fmt.Sprintf("call to %q revokes permission %q not held", e.Callee, e.Permission)
	case permission.Deny:
		return fmt.Sprintf("call to %q denies permission %q currently held", e.Callee, e.Permission)
	default:
		return fmt.Sprintf("call to %q: invalid use of permission %q", e.Callee, e.Permission)
	}
}

// lookupActions resolves a callee's current effective action set. It
// returns false for any name absent from the call map (an external
// function Ward never saw a declaration for), which the transfer treats
// as a no-op call.
type lookupActions func(name string) (permission.ActionSet, bool)

// applyAction runs the §4.4 transfer-function table for a single callee
// action against the incoming state, returning the (possibly updated)
// state, an error if the precondition failed, and whether that failure was
// a Need-shaped one (Need or Use), which makes a.Name a propagation
// candidate.
func applyAction(state permission.PresenceSet, a permission.Action, pos ast.Position, callee string) (permission.PresenceSet, *callError, bool) {
	p := state.Get(a.Name)

	switch a.Kind {
	case permission.Need:
		if !p.Capability.HasCapability() {
			return state, &callError{pos, callee, a.Name, a.Kind}, true
		}

		return state, nil, false

	case permission.Use:
		failed := !p.Capability.HasCapability()
		p.Usage = permission.Uses
		state.Set(a.Name, p)

		if failed {
			return state, &callError{pos, callee, a.Name, a.Kind}, true
		}

		return state, nil, false

	case permission.Grant:
		failed := !p.Capability.Leq(permission.CapLacks)
		p.Capability = permission.CapHas
		state.Set(a.Name, p)

		if failed {
			return state, &callError{pos, callee, a.Name, a.Kind}, false
		}

		return state, nil, false

	case permission.Revoke:
		failed := !p.Capability.HasCapability()
		p.Capability = permission.CapLacks
		state.Set(a.Name, p)

		if failed {
			return state, &callError{pos, callee, a.Name, a.Kind}, false
		}

		return state, nil, false

	case permission.Deny:
		if !p.Capability.Leq(permission.CapLacks) {
			return state, &callError{pos, callee, a.Name, a.Kind}, false
		}

		return state, nil, false

	default: // Waive: n/a, unchanged
		return state, nil, false
	}
}

// evalResult accumulates the outcome of evaluating a call sequence: the
// final state, every call-site error encountered, every intermediate
// state visited (for CapConflict detection, which can appear at any
// program point, not just the final one), and the set of permissions
// whose Need/Use precondition failed (propagation candidates).
type evalResult struct {
	State   permission.PresenceSet
	Errors  []callError
	Visited []permission.PresenceSet
	Needed  map[permission.Name]struct{}
}

func newEvalResult(state permission.PresenceSet) evalResult {
	return evalResult{State: state, Visited: []permission.PresenceSet{state.Clone()}, Needed: make(map[permission.Name]struct{})}
}

func (r *evalResult) merge(o evalResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Visited = append(r.Visited, o.Visited...)

	for n := range o.Needed {
		r.Needed[n] = struct{}{}
	}
}

// evalSequence threads state through a call sequence per §4.4's
// sequence/choice composition rules.
func evalSequence(seq callseq.Sequence, state permission.PresenceSet, lookup lookupActions) evalResult {
	result := newEvalResult(state)

	for _, node := range seq {
		switch n := node.(type) {
		case callseq.Call:
			actions, ok := lookup(n.Target)
			if !ok {
				continue
			}

			for _, a := range actions.Items() {
				var callErr *callError

				var needed bool

				result.State, callErr, needed = applyAction(result.State, a, n.Pos, n.Target)
				result.Visited = append(result.Visited, result.State.Clone())

				if callErr != nil {
					result.Errors = append(result.Errors, *callErr)
				}

				if needed {
					result.Needed[a.Name] = struct{}{}
				}
			}

		case callseq.Choice:
			// Each arm must start from its own independent copy of the
			// pre-state: PresenceSet is a map, and applyAction mutates it
			// in place, so sharing one map between arms would let arm A's
			// updates leak into arm B's starting state.
			armA := evalSequence(n.A, result.State.Clone(), lookup)
			armB := evalSequence(n.B, result.State.Clone(), lookup)

			result.State = choiceJoin(armA.State, armB.State)
			result.Visited = append(result.Visited, result.State.Clone())
			result.merge(armA)
			result.merge(armB)
		}
	}

	return result
}

// choiceJoin joins the two post-states of a Choice's arms. A permission
// that one arm's post-state records and the other arm's leaves at bottom
// (the shared pre-state did not hold it and that arm never assigned it) is
// lifted to CapLacks on the silent side before the pointwise join,
// modelling "this path did not acquire it"; a permission the pre-state
// already held passes through the silent arm unchanged. This is
// what lets a one-sided `if (c) take_lock();` register as a genuine
// CapConflict at the join point: see DESIGN.md's Open Question entry for
// why plain bottom-pass-through would make conflicts unreachable from
// ordinary one-armed conditionals.
func choiceJoin(a, b permission.PresenceSet) permission.PresenceSet {
	a2 := a.Clone()
	b2 := b.Clone()

	for _, name := range a.Names() {
		if b.Get(name).IsBottom() {
			b2.Set(name, permission.Presence{Capability: permission.CapLacks})
		}
	}

	for _, name := range b.Names() {
		if a.Get(name).IsBottom() {
			a2.Set(name, permission.Presence{Capability: permission.CapLacks})
		}
	}

	return a2.Join(b2)
}
