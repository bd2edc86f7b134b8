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
	"testing"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/permission"
)

func TestApplyActionTransferTable(t *testing.T) {
	tests := []struct {
		name       string
		kind       permission.Kind
		pre        permission.Capability
		wantFailed bool
		wantPost   permission.Capability
	}{
		{"need satisfied", permission.Need, permission.CapHas, false, permission.CapHas},
		{"need unsatisfied", permission.Need, permission.CapUnknown, true, permission.CapUnknown},
		{"need satisfied via conflict", permission.Need, permission.CapConflict, false, permission.CapConflict},
		{"use satisfied sets usage", permission.Use, permission.CapHas, false, permission.CapHas},
		{"use unsatisfied still sets usage", permission.Use, permission.CapLacks, true, permission.CapLacks},
		{"grant from unknown", permission.Grant, permission.CapUnknown, false, permission.CapHas},
		{"grant from lacks", permission.Grant, permission.CapLacks, false, permission.CapHas},
		{"grant already held is illegal", permission.Grant, permission.CapHas, true, permission.CapHas},
		{"revoke from has", permission.Revoke, permission.CapHas, false, permission.CapLacks},
		{"revoke without has is illegal", permission.Revoke, permission.CapUnknown, true, permission.CapLacks},
		{"deny from lacks", permission.Deny, permission.CapLacks, false, permission.CapLacks},
		{"deny while held is illegal", permission.Deny, permission.CapHas, true, permission.CapHas},
		{"waive is a no-op", permission.Waive, permission.CapUnknown, false, permission.CapUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := permission.NewPresenceSet()
			state.Set("p", permission.Presence{Capability: tc.pre})

			newState, err, _ := applyAction(state, permission.NewAction(tc.kind, "p"), ast.Position{}, "callee")

			if tc.wantFailed && err == nil {
				t.Errorf("expected a transfer error, got none")
			}

			if !tc.wantFailed && err != nil {
				t.Errorf("unexpected transfer error: %v", err)
			}

			if got := newState.Get("p").Capability; got != tc.wantPost {
				t.Errorf("post capability = %v, want %v", got, tc.wantPost)
			}
		})
	}
}

func TestUseSetsUsageRegardlessOfPrecondition(t *testing.T) {
	state := permission.NewPresenceSet()
	state.Set("p", permission.Presence{Capability: permission.CapLacks})

	newState, _, _ := applyAction(state, permission.NewAction(permission.Use, "p"), ast.Position{}, "callee")
	if newState.Get("p").Usage != permission.Uses {
		t.Errorf("expected Usage to be set to Uses even when the precondition failed")
	}
}

func TestChoiceJoinLiftsUntouchedSideToLacks(t *testing.T) {
	a := permission.NewPresenceSet()
	a.Set("lock", permission.Presence{Capability: permission.CapHas})

	b := permission.NewPresenceSet()

	joined := choiceJoin(a, b)
	if joined.Get("lock").Capability != permission.CapConflict {
		t.Errorf("expected CapHas joined against a silent arm to read as CapConflict, got %v", joined.Get("lock").Capability)
	}
}

func TestChoiceJoinLeavesPermissionsNeitherArmTouchesAtBottom(t *testing.T) {
	a := permission.NewPresenceSet()
	b := permission.NewPresenceSet()

	joined := choiceJoin(a, b)
	if !joined.Get("unrelated").IsBottom() {
		t.Errorf("expected an untouched permission to remain bottom")
	}
}

func TestEvalSequenceThreadsPostStateAsNextPreState(t *testing.T) {
	lookup := func(name string) (permission.ActionSet, bool) {
		switch name {
		case "grant_p":
			return permission.NewActionSet(permission.NewAction(permission.Grant, "p")), true
		case "need_p":
			return permission.NewActionSet(permission.NewAction(permission.Need, "p")), true
		}

		return permission.ActionSet{}, false
	}

	seq := callseq.Sequence{
		callseq.Call{Target: "grant_p"},
		callseq.Call{Target: "need_p"},
	}

	result := evalSequence(seq, permission.NewPresenceSet(), lookup)
	if len(result.Errors) != 0 {
		t.Errorf("expected grant_p's post-state to satisfy need_p's precondition, got %+v", result.Errors)
	}
}

// Inference monotonicity (§8): strengthening a pre-state cannot weaken the
// post-state.
func TestInferenceMonotonicity(t *testing.T) {
	lookup := func(name string) (permission.ActionSet, bool) {
		if name == "use_p" {
			return permission.NewActionSet(permission.NewAction(permission.Use, "p")), true
		}

		return permission.ActionSet{}, false
	}

	seq := callseq.Sequence{callseq.Call{Target: "use_p"}}

	weak := permission.NewPresenceSet()

	strong := permission.NewPresenceSet()
	strong.Set("p", permission.Presence{Capability: permission.CapHas})

	weakResult := evalSequence(seq, weak, lookup)
	strongResult := evalSequence(seq, strong, lookup)

	if !weakResult.State.Get("p").Leq(strongResult.State.Get("p")) {
		t.Errorf("strengthening the pre-state weakened the post-state: weak=%v strong=%v",
			weakResult.State.Get("p"), strongResult.State.Get("p"))
	}
}
