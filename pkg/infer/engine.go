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
	"sort"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/config"
	"github.com/consensys/ward/pkg/diag"
	"github.com/consensys/ward/pkg/permission"
)

// Engine holds the whole-program inputs to the analysis: the call map
// built by pkg/callmap and the merged configuration from every --config
// file. It is the analysis worker of §5's concurrency model.
type Engine struct {
	cm          callmap.CallMap
	cfg         *config.Config
	implicit    []permission.Name
	propagated  map[string]permission.ActionSet
	sortedNames []string
}

// New constructs an Engine. cfg may be nil, equivalent to an empty
// configuration (no implicit permissions, no enforcements, no
// restrictions).
func New(cm callmap.CallMap, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.New()
	}

	names := make([]string, 0, len(cm))
	for name := range cm {
		names = append(names, name)
	}

	sort.Strings(names)

	propagated := make(map[string]permission.ActionSet, len(cm))
	for _, name := range names {
		propagated[name] = permission.NewActionSet()
	}

	return &Engine{cm: cm, cfg: cfg, implicit: cfg.ImplicitNames(), propagated: propagated, sortedNames: names}
}

// effectiveActionsFor returns the current effective action set of a
// named function, or false if the name is not in the call map (an
// external callee).
func (e *Engine) effectiveActionsFor(name string) (permission.ActionSet, bool) {
	entry, ok := e.cm[name]
	if !ok {
		return permission.ActionSet{}, false
	}

	return effectiveActions(entry.Actions, e.implicit, e.propagated[name]), true
}

// Run performs the whole-program Need-propagation fixed point (§4.4) and
// then a single final diagnostics-emitting pass, writing every Note/
// Warning/Error to sink. It does not close sink; the caller owns that,
// typically after draining alongside other diagnostic producers.
func (e *Engine) Run(sink *diag.Sink) {
	e.fixedPoint()
	e.report(sink)
}

// fixedPoint iterates propagateNeeds to a fixed point over the action-set
// lattice: ActionSet only grows (bounded by the finite number of distinct
// permission names in the program), so this always terminates. Grant and
// Revoke are deliberately not propagated to callers — see DESIGN.md for
// why the spec's six worked scenarios never require it.
func (e *Engine) fixedPoint() {
	changed := true

	for changed {
		changed = false

		for _, name := range e.sortedNames {
			if e.propagateNeeds(name) {
				changed = true
			}
		}
	}
}

// propagateNeeds recomputes one function's effective transfer over its
// own call sequence and, for every permission whose Need/Use precondition
// failed against the function's own entry state, adds a synthesized
// Need(p) to that function's propagated set (visible to its own callers
// on the next sweep). Reports true iff the propagated set changed.
func (e *Engine) propagateNeeds(name string) bool {
	entry := e.cm[name]
	eff, _ := e.effectiveActionsFor(name)
	state := seedState(eff)

	result := evalSequence(entry.Calls, state, e.effectiveActionsFor)

	changed := false
	propagated := e.propagated[name]

	for p := range result.Needed {
		needAction := permission.NewAction(permission.Need, p)
		if eff.Contains(needAction) {
			continue
		}

		if propagated.Contains(needAction) {
			continue
		}

		propagated.Add(needAction)

		changed = true
	}

	e.propagated[name] = propagated

	return changed
}

// report runs one final evaluation pass per function, after the fixed
// point has converged, and emits every diagnostic named in §4.4's
// Reporting step.
func (e *Engine) report(sink *diag.Sink) {
	for _, name := range e.sortedNames {
		entry := e.cm[name]
		eff, _ := e.effectiveActionsFor(name)
		state := seedState(eff)

		result := evalSequence(entry.Calls, state, e.effectiveActionsFor)

		for _, callErr := range result.Errors {
			sink.Err(callErr.Pos, callErr.message())
		}

		e.reportConflicts(sink, entry.Pos, result.Visited)
		e.reportEnforcement(sink, name, entry, eff)
		e.reportRestrictions(sink, name, entry.Pos, result.State)
	}
}

// reportConflicts emits one Error per permission name that reached
// CapConflict in any state visited while analyzing a function, per
// §4.4's "any state" wording.
func (e *Engine) reportConflicts(sink *diag.Sink, pos ast.Position, visited []permission.PresenceSet) {
	seen := make(map[permission.Name]struct{})

	for _, s := range visited {
		for _, name := range s.Names() {
			if s.Get(name).Capability != permission.CapConflict {
				continue
			}

			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			sink.Err(pos, fmt.Sprintf("permission %q reaches a conflicting capability (both held and lacked)", name))
		}
	}
}

// reportEnforcement emits an Error for every enforced function (§4.5)
// whose inferred action set differs from its declared one. Under the
// Need-only propagation model, eff is always a superset of declared (it
// is built as declared ∪ implicit ∪ propagated), so in practice only the
// "missing" direction ever fires; "extra" is computed too, defensively,
// in case a future propagation rule narrows rather than only grows.
func (e *Engine) reportEnforcement(sink *diag.Sink, name string, entry callmap.Entry, eff permission.ActionSet) {
	if !e.cfg.IsEnforced(entry.Pos.Path, name) {
		return
	}

	if eff.Equals(entry.Actions) {
		return
	}

	missing := setDifference(eff, entry.Actions)
	extra := setDifference(entry.Actions, eff)

	msg := fmt.Sprintf("enforced function %q: inferred actions differ from declared", name)

	if len(missing) > 0 {
		msg += fmt.Sprintf("; missing %v", missing)
	}

	if len(extra) > 0 {
		msg += fmt.Sprintf("; extra %v", extra)
	}

	sink.Err(entry.Pos, msg)
}

// reportRestrictions evaluates every config restriction on a permission
// against the final post-state of every function whose inferred state
// uses that permission (§4.4's expression-evaluation step). Usage never
// downgrades once set (the transfer table has no Uses-clearing update),
// so the final post-state after the whole call sequence correctly
// reflects whether Uses(p) was reached anywhere in the function.
func (e *Engine) reportRestrictions(sink *diag.Sink, name string, pos ast.Position, state permission.PresenceSet) {
	for _, permName := range state.Names() {
		if state.Get(permName).Usage != permission.Uses {
			continue
		}

		decl, ok := e.cfg.Declarations[permName]
		if !ok {
			continue
		}

		for _, r := range decl.Restrictions {
			if r.Name != permName {
				continue
			}

			if r.Expression.Eval(state) {
				continue
			}

			text := fmt.Sprintf("function %q violates restriction on permission %q", name, permName)
			if r.Description != nil {
				text += ": " + *r.Description
			}

			sink.Err(pos, text)
		}
	}
}

// setDifference returns the actions of a not present in b, sorted.
func setDifference(a, b permission.ActionSet) []permission.Action {
	var out []permission.Action

	for _, act := range a.Items() {
		if !b.Contains(act) {
			out = append(out, act)
		}
	}

	return out
}
