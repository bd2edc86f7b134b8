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
	"runtime/debug"

	"github.com/consensys/ward/pkg/callmap"
	"github.com/consensys/ward/pkg/diag"
	"github.com/consensys/ward/pkg/ident"
	"github.com/consensys/ward/pkg/infer"
	"github.com/consensys/ward/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// rootCmd doubles as Ward's "analysis" action (§6): given one or more
// translation-unit paths, it runs the full ingest → disambiguation →
// call-map → inference pipeline and reports diagnostics. "ward graph"
// implements the "--action graph" alternative as its own subcommand.
var rootCmd = &cobra.Command{
	Use:   "ward [flags] file...",
	Short: "A static permission checker for C programs.",
	Long:  "Ward infers, per function, which permissions it needs, uses, grants, revokes, denies or waives, and flags violations against a declarative configuration.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			printVersion()
			return
		}

		if len(args) == 0 {
			fmt.Println("no translation-unit paths given")
			os.Exit(2)
		}

		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		runAnalysis(cmd, args)
	},
}

func printVersion() {
	fmt.Print("ward ")

	if Version != "" {
		// Built via "make"
		fmt.Printf("%s", Version)
	} else if info, ok := debug.ReadBuildInfo(); ok {
		// Built via "go install"
		fmt.Printf("%s", info.Main.Version)
	} else {
		// Unknown, perhaps "go run"
		fmt.Printf("(unknown version)")
	}

	fmt.Println()
}

// runAnalysis wires the pipeline of §2: ingest, static-name disambiguation,
// name-map/call-map construction, inference, and diagnostics rendering.
func runAnalysis(cmd *cobra.Command, paths []string) {
	var (
		preprocessor = GetString(cmd, "preprocessor")
		cppFlags     = GetStringArray(cmd, "preprocessor-flag")
		configPaths  = GetStringArray(cmd, "config")
		mode         = GetString(cmd, "mode")
	)

	ingestStats := util.NewPerfStats()

	units, err := loadUnits(preprocessor, cppFlags, paths)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	units = ident.Disambiguate(units)

	ingestStats.Log("ingest")

	cfg, err := loadConfig(configPaths)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	sink := diag.NewSink()

	callMapStats := util.NewPerfStats()

	nm := callmap.BuildNameMap(units, sink)
	cm := callmap.Build(nm, sink)

	callMapStats.Log("call-map")

	inferStats := util.NewPerfStats()

	engine := infer.New(cm, cfg)

	go func() {
		engine.Run(sink)
		sink.Close()
	}()

	entries := sink.Drain()

	inferStats.Log("inference")

	render(mode, entries)

	if diag.HasErrors(entries) {
		os.Exit(1)
	}
}

// render writes entries to stdout under the requested output mode,
// defaulting to CompilerOutput for anything other than "html".
func render(mode string, entries []diag.Entry) {
	var out diag.OutputMode = diag.CompilerOutput{}
	if mode == "html" {
		out = diag.HtmlOutput{}
	}

	out.Render(os.Stdout, entries)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringArray("config", []string{}, "a config file to merge in (repeatable)")
	rootCmd.PersistentFlags().String("preprocessor", "gcc", "preprocessor executable to run over each translation unit")
	rootCmd.PersistentFlags().StringArrayP("preprocessor-flag", "P", []string{}, "flag passed through to the preprocessor (repeatable)")
	rootCmd.PersistentFlags().String("mode", "compiler", "diagnostics output mode: compiler|html")
}
