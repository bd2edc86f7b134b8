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

	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/diag"
	"github.com/consensys/ward/pkg/graph"
	"github.com/consensys/ward/pkg/ident"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// graphCmd implements the "--action graph" behaviour of §6 as its own
// verb: build the call map and dump it as JSON instead of running
// inference. "--interactive" opens the termio-based browser over the same
// call map instead of printing it.
var graphCmd = &cobra.Command{
	Use:   "graph [flags] file...",
	Short: "Dump the whole-program call graph as JSON.",
	Long:  "Builds the call map for the given translation units and emits it in the JSON format of spec.md §6, or browses it interactively.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("no translation-unit paths given")
			os.Exit(2)
		}

		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		runGraph(cmd, args)
	},
}

func runGraph(cmd *cobra.Command, paths []string) {
	var (
		preprocessor = GetString(cmd, "preprocessor")
		cppFlags     = GetStringArray(cmd, "preprocessor-flag")
		output       = GetString(cmd, "output")
		interactive  = GetFlag(cmd, "interactive")
	)

	units, err := loadUnits(preprocessor, cppFlags, paths)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	units = ident.Disambiguate(units)

	sink := diag.NewSink()

	nm := callmap.BuildNameMap(units, sink)
	cm := callmap.Build(nm, sink)

	sink.Close()

	if warnings := sink.Drain(); len(warnings) > 0 {
		diag.CompilerOutput{}.Render(os.Stderr, warnings)
	}

	if interactive {
		if err := browseCallMap(cm); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		return
	}

	data, err := graph.Marshal(graph.Dump(cm))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if output == "" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("output", "", "write the call-graph JSON to this file instead of stdout")
	graphCmd.Flags().Bool("interactive", false, "browse the call graph interactively instead of dumping it")
}
