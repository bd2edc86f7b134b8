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
package permission

import "testing"

func TestActionSetAddIsIdempotent(t *testing.T) {
	s := NewActionSet()
	s.Add(NewAction(Need, "lock"))
	s.Add(NewAction(Need, "lock"))

	if s.Len() != 1 {
		t.Errorf("adding the same action twice should not grow the set, got len %d", s.Len())
	}
}

func TestActionSetUnion(t *testing.T) {
	a := NewActionSet(NewAction(Need, "lock"))
	b := NewActionSet(NewAction(Grant, "lock"), NewAction(Need, "lock"))

	u := a.Union(b)

	if u.Len() != 2 {
		t.Fatalf("expected 2 distinct actions, got %d", u.Len())
	}

	if !u.Contains(NewAction(Need, "lock")) || !u.Contains(NewAction(Grant, "lock")) {
		t.Errorf("union missing an expected action: %v", u.Items())
	}
}

func TestActionSetForKind(t *testing.T) {
	s := NewActionSet(
		NewAction(Need, "lock"),
		NewAction(Need, "gc_safe"),
		NewAction(Grant, "lock"),
	)

	names := s.ForKind(Need)
	if len(names) != 2 || names[0] != "gc_safe" || names[1] != "lock" {
		t.Errorf("ForKind(Need) = %v, want sorted [gc_safe lock]", names)
	}
}

func TestActionSetEquals(t *testing.T) {
	a := NewActionSet(NewAction(Need, "lock"), NewAction(Deny, "io"))
	b := NewActionSet(NewAction(Deny, "io"), NewAction(Need, "lock"))
	c := NewActionSet(NewAction(Need, "lock"))

	if !a.Equals(b) {
		t.Errorf("sets with the same elements in different insertion order should be equal")
	}

	if a.Equals(c) {
		t.Errorf("sets with different elements should not be equal")
	}
}

func TestActionString(t *testing.T) {
	a := NewAction(Waive, "gc_safe")
	if got, want := a.String(), "waive(gc_safe)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
