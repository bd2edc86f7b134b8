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
package diag

import (
	"fmt"
	"io"
)

// OutputMode renders a finished batch of diagnostic entries.
type OutputMode interface {
	Render(w io.Writer, entries []Entry)
}

// CompilerOutput renders one "path:line: kind: text" line per entry, no
// header, footer is the "Warnings: W, Errors: E" summary line.
type CompilerOutput struct{}

// Render implements OutputMode.
func (CompilerOutput) Render(w io.Writer, entries []Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s:%d: %s: %s\n", e.Pos.Path, e.Pos.Line, e.Kind, e.Text)
	}

	warnings, errors := countByKind(entries)
	fmt.Fprintf(w, "Warnings: %d, Errors: %d\n", warnings, errors)
}

// HtmlOutput renders entries as an HTML unordered list, one <li> per
// entry classed by kind, with the same summary line appended after the
// closing tags.
type HtmlOutput struct{}

// Render implements OutputMode.
func (HtmlOutput) Render(w io.Writer, entries []Entry) {
	fmt.Fprint(w, "<html><body><ul>\n")

	for _, e := range entries {
		fmt.Fprintf(w, "<li class=\"%s\">%s</li>\n", e.Kind, e.Text)
	}

	fmt.Fprint(w, "</ul></body></html>\n")

	warnings, errors := countByKind(entries)
	fmt.Fprintf(w, "Warnings: %d, Errors: %d\n", warnings, errors)
}

func countByKind(entries []Entry) (warnings, errors int) {
	for _, e := range entries {
		switch e.Kind {
		case Warning:
			warnings++
		case Error:
			errors++
		}
	}

	return warnings, errors
}

// HasErrors reports whether any entry is an Error, the exit-code signal
// per §7: exit non-zero iff at least one Error entry was emitted.
func HasErrors(entries []Entry) bool {
	for _, e := range entries {
		if e.Kind == Error {
			return true
		}
	}

	return false
}
