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
	"strings"
	"testing"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/callseq"
	"github.com/consensys/ward/pkg/config"
	"github.com/consensys/ward/pkg/diag"
	"github.com/consensys/ward/pkg/permission"
)

func entryAt(name string, actions permission.ActionSet, calls callseq.Sequence) (string, callmap.Entry) {
	return name, callmap.Entry{Pos: ast.Position{Path: "t.c", Line: 1}, Actions: actions, Calls: calls}
}

func call(name string) callseq.Call {
	return callseq.Call{Target: name, Pos: ast.Position{Path: "t.c", Line: 2}}
}

func drain(cm callmap.CallMap, cfg *config.Config) []diag.Entry {
	sink := diag.NewSink()
	eng := New(cm, cfg)

	go func() {
		eng.Run(sink)
		sink.Close()
	}()

	return sink.Drain()
}

func containsText(entries []diag.Entry, substr string) bool {
	for _, e := range entries {
		if strings.Contains(e.Text, substr) {
			return true
		}
	}

	return false
}

func errorCount(entries []diag.Entry) int {
	n := 0

	for _, e := range entries {
		if e.Kind == diag.Error {
			n++
		}
	}

	return n
}

// Scenario 1: basic need satisfied.
func TestScenarioBasicNeedSatisfied(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("take_lock", permission.NewActionSet(permission.NewAction(permission.Grant, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("do_work", permission.NewActionSet(permission.NewAction(permission.Need, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("main", permission.NewActionSet(), callseq.Sequence{call("take_lock"), call("do_work")})
	cm[name] = entry

	entries := drain(cm, nil)
	if errorCount(entries) != 0 {
		t.Fatalf("expected no errors, got %+v", entries)
	}
}

// Scenario 2: need unsatisfied.
func TestScenarioNeedUnsatisfied(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("do_work", permission.NewActionSet(permission.NewAction(permission.Need, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("main", permission.NewActionSet(), callseq.Sequence{call("do_work")})
	cm[name] = entry

	entries := drain(cm, nil)
	if errorCount(entries) != 1 {
		t.Fatalf("expected exactly one error, got %+v", entries)
	}

	if !containsText(entries, "need permission 'lock'") {
		t.Errorf("expected error text to mention need permission 'lock', got %+v", entries)
	}
}

// Scenario 3: branch conflict.
func TestScenarioBranchConflict(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("take_lock", permission.NewActionSet(permission.NewAction(permission.Grant, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("do_work", permission.NewActionSet(permission.NewAction(permission.Need, "lock")), nil)
	cm[name] = entry

	ifStmt := callseq.Choice{A: callseq.Sequence{call("take_lock")}, B: nil}
	name, entry = entryAt("main", permission.NewActionSet(), callseq.Sequence{ifStmt, call("do_work")})
	cm[name] = entry

	entries := drain(cm, nil)
	if errorCount(entries) != 1 {
		t.Fatalf("expected exactly one error, got %+v", entries)
	}

	if !containsText(entries, "lock") || !containsText(entries, "conflict") {
		t.Errorf("expected a conflict error mentioning lock, got %+v", entries)
	}
}

// Scenario 4: recursive-lock restriction.
func TestScenarioRecursiveLockRestriction(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("take_lock", permission.NewActionSet(permission.NewAction(permission.Grant, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt(
		"recursive_take",
		permission.NewActionSet(permission.NewAction(permission.Use, "lock")),
		callseq.Sequence{call("take_lock")},
	)
	cm[name] = entry

	cfg := config.New()
	desc := "cannot take the lock recursively"
	cfg.Declare("lock", config.Declaration{
		Restrictions: []config.Restriction{{
			Name:        "lock",
			Expression:  config.Not{X: config.Context{Name: "lock", Presence: permission.Presence{Capability: permission.CapHas}}},
			Description: &desc,
		}},
	})

	entries := drain(cm, cfg)
	if !containsText(entries, desc) {
		t.Errorf("expected an error mentioning %q, got %+v", desc, entries)
	}
}

// Scenario 5: implicit permission with a waiver.
func TestScenarioImplicitWithWaiver(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("g", permission.NewActionSet(permission.NewAction(permission.Waive, "gc_safe")), nil)
	cm[name] = entry

	name, entry = entryAt("f", permission.NewActionSet(), callseq.Sequence{call("g")})
	cm[name] = entry

	cfg := config.New()
	cfg.Declare("gc_safe", config.Declaration{Implicit: true})

	eng := New(cm, cfg)

	fActions, _ := eng.effectiveActionsFor("f")
	if !fActions.Contains(permission.NewAction(permission.Need, "gc_safe")) {
		t.Errorf("expected f's inferred actions to include need(gc_safe), got %v", fActions.Items())
	}

	gActions, _ := eng.effectiveActionsFor("g")
	if gActions.Contains(permission.NewAction(permission.Need, "gc_safe")) {
		t.Errorf("expected g's inferred actions to exclude need(gc_safe), got %v", gActions.Items())
	}

	entries := drain(cm, cfg)
	if errorCount(entries) != 0 {
		t.Fatalf("expected no errors when f calls the waiving g, got %+v", entries)
	}
}

// Need-propagation: a caller with no declared actions at all that calls a
// function needing a permission should itself have that Need propagated
// so that ITS OWN callers don't spuriously error.
func TestNeedPropagatesThroughAnUndeclaredIntermediary(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("take_lock", permission.NewActionSet(permission.NewAction(permission.Grant, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("do_work", permission.NewActionSet(permission.NewAction(permission.Need, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("helper", permission.NewActionSet(), callseq.Sequence{call("do_work")})
	cm[name] = entry

	name, entry = entryAt("main", permission.NewActionSet(), callseq.Sequence{call("take_lock"), call("helper")})
	cm[name] = entry

	eng := New(cm, nil)
	eng.fixedPoint()

	helperActions, _ := eng.effectiveActionsFor("helper")
	if !helperActions.Contains(permission.NewAction(permission.Need, "lock")) {
		t.Errorf("expected helper to inherit need(lock) from calling do_work, got %v", helperActions.Items())
	}

	entries := drain(cm, nil)
	if errorCount(entries) != 0 {
		t.Fatalf("expected no errors once main takes the lock before calling helper, got %+v", entries)
	}
}

func TestEnforcementMismatchReportsMissingNeed(t *testing.T) {
	cm := callmap.CallMap{}

	name, entry := entryAt("do_work", permission.NewActionSet(permission.NewAction(permission.Need, "lock")), nil)
	cm[name] = entry

	name, entry = entryAt("checked", permission.NewActionSet(), callseq.Sequence{call("do_work")})
	cm[name] = entry

	cfg := config.New()
	cfg.Declare("lock", config.Declaration{})
	cfg.Enforce(config.EnforceFunction{Name: "checked"})

	entries := drain(cm, cfg)
	if !containsText(entries, "checked") || !containsText(entries, "differ from declared") {
		t.Errorf("expected an enforcement-mismatch error for checked, got %+v", entries)
	}
}
