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
	"strings"
	"testing"

	"github.com/consensys/ward/pkg/util/source"
)

func TestSyntaxErrorsJoinsOneErrorPerLine(t *testing.T) {
	srcfile := source.NewSourceFile("a.c", []byte("int f() {}"))

	errs := []source.SyntaxError{
		*srcfile.SyntaxError(source.NewSpan(0, 3), "first problem"),
		*srcfile.SyntaxError(source.NewSpan(4, 5), "second problem"),
	}

	err := syntaxErrors(errs)

	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), err.Error())
	}

	if !strings.HasSuffix(lines[0], "first problem") || !strings.HasSuffix(lines[1], "second problem") {
		t.Errorf("expected each line to end with its message, got %q", err.Error())
	}
}

func TestSyntaxErrorsEmpty(t *testing.T) {
	err := syntaxErrors(nil)

	if err.Error() != "" {
		t.Errorf("expected an empty joined message for no errors, got %q", err.Error())
	}
}
