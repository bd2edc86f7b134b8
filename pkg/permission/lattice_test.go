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

func TestCapabilityJoinDiamond(t *testing.T) {
	cases := []struct {
		a, b, want Capability
	}{
		{CapUnknown, CapUnknown, CapUnknown},
		{CapUnknown, CapHas, CapHas},
		{CapUnknown, CapLacks, CapLacks},
		{CapHas, CapHas, CapHas},
		{CapHas, CapLacks, CapConflict},
		{CapLacks, CapHas, CapConflict},
		{CapHas, CapConflict, CapConflict},
		{CapConflict, CapConflict, CapConflict},
	}

	for _, c := range cases {
		if got := c.a.Join(c.b); got != c.want {
			t.Errorf("%s.Join(%s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestCapabilityLeqIsPartialOrder(t *testing.T) {
	elems := []Capability{CapUnknown, CapHas, CapLacks, CapConflict}

	for _, e := range elems {
		if !e.Leq(e) {
			t.Errorf("%s is not reflexive under Leq", e)
		}

		if !CapUnknown.Leq(e) {
			t.Errorf("CapUnknown should be below %s", e)
		}

		if !e.Leq(CapConflict) {
			t.Errorf("%s should be below CapConflict", e)
		}
	}
}

func TestHasAndLacksCapability(t *testing.T) {
	if !CapHas.HasCapability() || CapHas.LacksCapability() {
		t.Errorf("CapHas should have, not lack, the capability")
	}

	if !CapLacks.LacksCapability() || CapLacks.HasCapability() {
		t.Errorf("CapLacks should lack, not have, the capability")
	}

	if !CapConflict.HasCapability() || !CapConflict.LacksCapability() {
		t.Errorf("CapConflict should both have and lack the capability")
	}

	if CapUnknown.HasCapability() || CapUnknown.LacksCapability() {
		t.Errorf("CapUnknown should neither have nor lack the capability")
	}
}

func TestPresenceJoinIsPointwise(t *testing.T) {
	p := Presence{Usage: Uses, Capability: CapHas}
	q := Presence{Usage: UsageUnknown, Capability: CapLacks}

	got := p.Join(q)
	want := Presence{Usage: Uses, Capability: CapConflict}

	if got != want {
		t.Errorf("Join() = %+v, want %+v", got, want)
	}
}

func TestBottomIsBottom(t *testing.T) {
	if !Bottom.IsBottom() {
		t.Errorf("Bottom.IsBottom() should hold")
	}

	p := Presence{Usage: Uses}
	if p.IsBottom() {
		t.Errorf("a presence with Usage=Uses should not be bottom")
	}

	if !Bottom.Leq(p) {
		t.Errorf("Bottom should be below every presence")
	}
}
