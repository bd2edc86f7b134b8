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
	"fmt"
	"sort"
	"strings"

	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/util/termio"
	"github.com/consensys/ward/pkg/util/termio/widget"
)

// callMapTabs names the views Tab cycles through in the interactive browser:
// every function, only those with a declared action, and only those without
// a body (externs the analysis never saw a definition for).
var callMapTabs = []string{"all", "declared", "bodyless"}

// browseCallMap opens an interactive, scrollable table over cm: one row per
// function, columns for its name, source position, declared actions and
// whether it has a body. Grounded on the teacher's termio.Terminal +
// widget.Table + TableSource split (pkg/util/termio/widget/table.go) —
// Ward's TableSource is callMapSource below, walking a callmap.CallMap
// instead of whatever the teacher's own callers fed it (a trace/schema
// view). Tab cycles the teacher's widget.Tabs bar above the table to filter
// which rows are shown.
func browseCallMap(cm callmap.CallMap) error {
	source := newCallMapSource(cm)

	term, err := termio.NewTerminal()
	if err != nil {
		return fmt.Errorf("interactive mode requires a terminal: %w", err)
	}

	defer term.Restore()

	title := widget.NewText()
	title.Add(termio.NewText(fmt.Sprintf("ward graph --interactive (%d functions, q to quit, tab to filter)", len(source.all))))

	tabs := widget.NewTabs(callMapTabs...)
	table := widget.NewTable(source)

	term.Add(title)
	term.Add(tabs)
	term.Add(widget.NewSeparator("-"))
	term.Add(table)

	for {
		if err := term.Render(); err != nil {
			return err
		}

		key, err := term.ReadKey()
		if err != nil {
			return err
		}

		switch key {
		case 'q', 'Q', 0x1b: // 'q' or ESC quits
			return nil
		case termio.CURSOR_DOWN:
			source.scroll(1)
		case termio.CURSOR_UP:
			source.scroll(-1)
		case termio.TAB:
			tabs.Select(tabs.Selected() + 1)
			source.setFilter(tabs.Selected())
		}
	}
}

// callMapRow is one function's rendered table row, plus the predicates
// callMapTabs filters on.
type callMapRow struct {
	cells    [4]string
	declared bool
	hasBody  bool
}

// callMapSource adapts a callmap.CallMap into a widget.TableSource: four
// columns (name, position, declared actions, body?), filterable by
// callMapTabs and scrollable by offset so it can be browsed a screenful at a
// time.
type callMapSource struct {
	all    []callMapRow
	rows   [][4]string
	widths [4]uint
	offset int
}

func newCallMapSource(cm callmap.CallMap) *callMapSource {
	names := make([]string, 0, len(cm))
	for name := range cm {
		names = append(names, name)
	}

	sort.Strings(names)

	s := &callMapSource{widths: [4]uint{4, 8, 11, 4}}

	for _, name := range names {
		entry := cm[name]

		cells := [4]string{name, entry.Pos.String(), actionsString(entry), hasBodyString(entry)}
		s.all = append(s.all, callMapRow{cells, len(entry.Actions.Items()) > 0, entry.HasBody()})

		for col, cell := range cells {
			s.widths[col] = max(s.widths[col], uint(len(cell)))
		}
	}

	s.setFilter(0)

	return s
}

func actionsString(e callmap.Entry) string {
	items := e.Actions.Items()
	if len(items) == 0 {
		return "-"
	}

	parts := make([]string, len(items))
	for i, a := range items {
		parts[i] = a.String()
	}

	sort.Strings(parts)

	return strings.Join(parts, ", ")
}

func hasBodyString(e callmap.Entry) string {
	if e.HasBody() {
		return "yes"
	}

	return "no"
}

// setFilter rebuilds rows from all according to which callMapTabs entry is
// selected, and resets the scroll offset since the row count may have
// changed.
func (s *callMapSource) setFilter(tab uint) {
	s.rows = s.rows[:0]
	s.offset = 0

	for _, row := range s.all {
		switch callMapTabs[tab] {
		case "declared":
			if !row.declared {
				continue
			}
		case "bodyless":
			if row.hasBody {
				continue
			}
		}

		s.rows = append(s.rows, row.cells)
	}
}

func (s *callMapSource) scroll(delta int) {
	offset := s.offset + delta
	if offset < 0 {
		offset = 0
	}

	if max := len(s.rows) - 1; max >= 0 && offset > max {
		offset = max
	}

	s.offset = offset
}

// ColumnWidth implements widget.TableSource.
func (s *callMapSource) ColumnWidth(col uint) uint {
	if int(col) >= len(s.widths) {
		return 0
	}

	return s.widths[col]
}

// Dimensions implements widget.TableSource.
func (s *callMapSource) Dimensions() (uint, uint) {
	return uint(len(s.widths)), uint(len(s.rows))
}

// CellAt implements widget.TableSource.
func (s *callMapSource) CellAt(col, row uint) termio.FormattedText {
	i := int(row) + s.offset
	if i < 0 || i >= len(s.rows) || int(col) >= len(s.rows[i]) {
		return termio.NewText("")
	}

	return termio.NewText(s.rows[i][col])
}
