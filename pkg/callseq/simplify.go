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
package callseq

// Simplify drops every Choice whose two arms are both empty (after
// simplifying the arms themselves) and returns nil for a sequence that ends
// up empty. A Choice with exactly one empty arm is kept as it is, since the
// empty arm is what makes the other one optional. Simplify is idempotent:
// applying it twice yields the same result as applying it once.
func Simplify(s Sequence) Sequence {
	if len(s) == 0 {
		return nil
	}

	out := make(Sequence, 0, len(s))

	for _, t := range s {
		switch n := t.(type) {
		case Choice:
			a, b := Simplify(n.A), Simplify(n.B)

			switch {
			case len(a) == 0 && len(b) == 0:
				// contributes nothing
			default:
				out = append(out, Choice{a, b})
			}
		default:
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
