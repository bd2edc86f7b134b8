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

import "sort"

// PresenceSet maps a permission name to its inferred Presence. A permission
// absent from the map reads as Bottom. This is not a free semigroup: the
// only meaningful way to combine two sets is Join (pointwise join of
// presences, absent keys treated as bottom).
type PresenceSet map[Name]Presence

// NewPresenceSet constructs an empty set (all permissions read as bottom).
func NewPresenceSet() PresenceSet {
	return make(PresenceSet)
}

// Get returns the presence recorded for p, or Bottom if absent.
func (s PresenceSet) Get(p Name) Presence {
	if v, ok := s[p]; ok {
		return v
	}

	return Bottom
}

// Set records the presence for p, overwriting any previous value.
func (s PresenceSet) Set(p Name, v Presence) {
	if v.IsBottom() {
		delete(s, p)
		return
	}

	s[p] = v
}

// Clone returns an independent copy of this set.
func (s PresenceSet) Clone() PresenceSet {
	r := make(PresenceSet, len(s))
	for k, v := range s {
		r[k] = v
	}

	return r
}

// Join returns the pointwise join of two presence sets. A key present in
// only one side is lifted by joining with Bottom on the other, which can
// introduce CapConflict when one side holds CapHas and the other CapLacks
// for a key neither explicitly shares — this is deliberate (see Choice
// composition in pkg/infer).
func (s PresenceSet) Join(o PresenceSet) PresenceSet {
	r := s.Clone()

	for k, v := range o {
		r.Set(k, r.Get(k).Join(v))
	}

	return r
}

// Equals compares two presence sets for equality (ignoring bottom entries,
// which are never stored).
func (s PresenceSet) Equals(o PresenceSet) bool {
	if len(s) != len(o) {
		return false
	}

	for k, v := range s {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}

	return true
}

// Names returns the permission names recorded in this set, sorted for
// deterministic iteration (e.g. when reporting diagnostics).
func (s PresenceSet) Names() []Name {
	names := make([]Name, 0, len(s))
	for k := range s {
		names = append(names, k)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
