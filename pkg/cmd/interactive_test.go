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
package cmd

import (
	"testing"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/permission"
)

func testCallMap() callmap.CallMap {
	return callmap.CallMap{
		"main": {
			Pos:     ast.Position{Path: "a.c", Line: 10, Column: 1},
			Actions: permission.NewActionSet(permission.NewAction(permission.Need, "lock")),
		},
		"helper": {
			Pos: ast.Position{Path: "a.c", Line: 2, Column: 1},
		},
	}
}

func TestNewCallMapSourceSortsRowsByName(t *testing.T) {
	source := newCallMapSource(testCallMap())

	if len(source.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(source.rows))
	}

	if source.rows[0][0] != "helper" || source.rows[1][0] != "main" {
		t.Errorf("expected rows sorted by name, got %v then %v", source.rows[0], source.rows[1])
	}
}

func TestCallMapSourceCellAtReportsActionsAndBody(t *testing.T) {
	source := newCallMapSource(testCallMap())

	mainRow := 1

	if text := source.CellAt(2, uint(mainRow)); string(text.Bytes()) != "need(lock)" {
		t.Errorf("expected action column to read \"need(lock)\", got %q", string(text.Bytes()))
	}

	if text := source.CellAt(3, uint(mainRow)); string(text.Bytes()) != "no" {
		t.Errorf("expected body column to read \"no\" for a bodyless entry, got %q", string(text.Bytes()))
	}

	if text := source.CellAt(2, 0); string(text.Bytes()) != "-" {
		t.Errorf("expected action column to read \"-\" when no actions are declared, got %q", string(text.Bytes()))
	}
}

func TestCallMapSourceCellAtOutOfRange(t *testing.T) {
	source := newCallMapSource(testCallMap())

	if text := source.CellAt(0, 99); string(text.Bytes()) != "" {
		t.Errorf("expected an out-of-range row to yield an empty cell, got %q", string(text.Bytes()))
	}

	if text := source.CellAt(99, 0); string(text.Bytes()) != "" {
		t.Errorf("expected an out-of-range column to yield an empty cell, got %q", string(text.Bytes()))
	}
}

func TestCallMapSourceDimensions(t *testing.T) {
	source := newCallMapSource(testCallMap())

	cols, rows := source.Dimensions()
	if cols != 4 || rows != 2 {
		t.Errorf("expected dimensions (4, 2), got (%d, %d)", cols, rows)
	}
}

func TestCallMapSourceScrollClampsToBounds(t *testing.T) {
	source := newCallMapSource(testCallMap())

	source.scroll(-5)
	if source.offset != 0 {
		t.Errorf("expected scrolling above the top to clamp to 0, got %d", source.offset)
	}

	source.scroll(50)
	if source.offset != len(source.rows)-1 {
		t.Errorf("expected scrolling past the bottom to clamp to %d, got %d", len(source.rows)-1, source.offset)
	}
}

func TestCallMapSourceScrollEmpty(t *testing.T) {
	source := newCallMapSource(callmap.CallMap{})

	source.scroll(3)

	if source.offset != 0 {
		t.Errorf("expected scrolling an empty source to stay at 0, got %d", source.offset)
	}
}
