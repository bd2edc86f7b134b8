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

// Package diag is Ward's diagnostics sink: a single-producer (the analysis
// worker), single-consumer (the main thread) channel of Note/Warning/Error
// entries, terminated by a sentinel, with CompilerOutput and HtmlOutput
// renderings. Grounded on the teacher's channel-based fan-in idiom in
// pkg/ir/builder/parallel.go, simplified from many producers down to the
// one Ward's single-threaded analysis needs.
package diag

import "github.com/consensys/ward/pkg/ast"

// Kind classifies a diagnostic entry.
type Kind uint8

const (
	// Note is progress/informational output, never affects the exit code.
	Note Kind = iota
	// Warning is a structural issue that does not stop analysis.
	Warning
	// Error is an analysis violation; at least one makes the run exit
	// non-zero.
	Error
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "?"
	}
}

// Entry is a single diagnostic: a kind, the source position it concerns,
// and its message text.
type Entry struct {
	Kind Kind
	Pos  ast.Position
	Text string
}

// Sink is the diagnostics channel, terminated by a nil sentinel. Its buffer
// has the fixed capacity set by NewSink, so Emit blocks while that many
// entries are waiting undrained.
type Sink struct {
	ch chan *Entry
}

// NewSink constructs a sink. The channel is given a generous buffer so
// that, in practice, the producer rarely blocks even before the consumer
// starts draining — true unboundedness is approximated the way the
// teacher's own parallel fan-in channels are (see pkg/ir/builder/
// parallel.go), not with an actual infinite buffer.
func NewSink() *Sink {
	return &Sink{ch: make(chan *Entry, 4096)}
}

// Emit sends one entry down the channel. Safe to call only from the single
// analysis producer goroutine.
func (s *Sink) Emit(e Entry) {
	s.ch <- &e
}

// Note emits a Note entry.
func (s *Sink) Note(pos ast.Position, text string) {
	s.Emit(Entry{Kind: Note, Pos: pos, Text: text})
}

// Warn emits a Warning entry. Implements callseq.Warner and callmap.Warner.
func (s *Sink) Warn(pos ast.Position, text string) {
	s.Emit(Entry{Kind: Warning, Pos: pos, Text: text})
}

// Err emits an Error entry.
func (s *Sink) Err(pos ast.Position, text string) {
	s.Emit(Entry{Kind: Error, Pos: pos, Text: text})
}

// Close sends the sentinel terminator. Call exactly once, after the
// producer has emitted its last entry.
func (s *Sink) Close() {
	s.ch <- nil
}

// Drain reads entries from the channel until the sentinel, returning them
// in emission order. Call from the single consumer goroutine (typically
// main).
func (s *Sink) Drain() []Entry {
	var entries []Entry

	for e := range s.ch {
		if e == nil {
			return entries
		}

		entries = append(entries, *e)
	}

	return entries
}
