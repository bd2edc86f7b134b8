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

// Package callseq lowers C function bodies into call sequences: a compact,
// side-effect-preserving summary of a function body that keeps only call
// sites and branching structure, discarding everything that cannot affect
// the permission inference in pkg/infer.
package callseq

import "github.com/consensys/ward/pkg/ast"

// Tree is a node of a call sequence: either a single call site, or a
// branch whose two arms must both be analyzed.
type Tree interface {
	tree()
}

// Call is a single call site to an identifier (already static-prefixed, if
// applicable, by pkg/ident).
type Call struct {
	Target string
	Pos    ast.Position
}

func (Call) tree() {}

// Choice is a branch with two arms. An empty arm (Sequence(nil)) is
// equivalent to that arm being optional, matching a missing `else`, a
// falsy `for`/`while` guard that never enters the loop body, and so on.
type Choice struct {
	A, B Sequence
}

func (Choice) tree() {}

// Sequence is an ordered, finite composition of call trees: sequential
// statement-level composition. The empty sequence denotes "no call".
type Sequence []Tree

// Empty is the empty call sequence.
func Empty() Sequence { return nil }

// Append returns a new sequence with t appended.
func (s Sequence) Append(t Tree) Sequence {
	return append(s, t)
}

// Concat returns a new sequence formed by s followed by o (sequential
// composition). Concatenation is associative with Empty() as identity.
func Concat(seqs ...Sequence) Sequence {
	var out Sequence

	for _, s := range seqs {
		out = append(out, s...)
	}

	return out
}
