// Copyright Consensys Software Inc.
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
	"io"
	"os"

	"github.com/consensys/go-qstats/pkg/circuit"
	"github.com/consensys/go-qstats/pkg/device/statevector"
	"github.com/consensys/go-qstats/pkg/engine"
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/tracker"
	"github.com/consensys/go-qstats/pkg/util/termio"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [program_file]",
	Short: "execute a circuit and report its measurements.",
	Long: `Execute a circuit on a state vector simulator and report its measurements.
	The circuit is either read from a program file, or is one of the built-in
	circuits.  Further measurements can be given on the command line, such as
	--measure "(expval (PauliZ 0))".`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg := runConfig{Repeat: 1}
		//
		if filename := GetString(cmd, "config"); filename != "" {
			if err := readConfigFile(filename, &cfg); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		//
		cfg.applyFlags(cmd)
		//
		if err := cfg.validate(uint(len(args))); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var program *circuit.Script
		if len(args) == 1 {
			program = readProgramFile(args[0])
		}
		//
		results, script, stats := runCircuit(&cfg, program)
		//
		printResults(os.Stdout, script, results)
		//
		if GetFlag(cmd, "dump") {
			for _, result := range results {
				spew.Fdump(os.Stdout, result.Values())
			}
		}
		//
		if GetFlag(cmd, "stats") {
			totals := stats.Totals()
			fmt.Printf("executions: %d, shots: %d\n", totals.Executions, totals.Shots)
		}
	},
}

// Execute the circuit of a run (repeatedly, if requested), returning the
// results along with the circuit which was executed.
func runCircuit(cfg *runConfig, program *circuit.Script) ([]engine.Result, *circuit.Script, *tracker.Tracker) {
	var (
		ops   []gate.Operation
		ms    []measure.Process
		stats = tracker.New(nil)
	)
	//
	if program != nil {
		ops, ms = program.Operations(), program.Measurements()
	}
	//
	if cfg.Builtin != "" {
		if cfg.Wires == 0 && len(cfg.Labels) == 0 {
			cfg.Wires = 2
		}
		//
		config, err := cfg.Device(nil, 0)
		if err != nil {
			exitWith(err)
		} else if ops, err = circuit.Builtin(cfg.Builtin, config.Wires); err != nil {
			exitWith(err)
		}
	}
	//
	ms = append(ms, parseMeasurements("--measure", cfg.Measure)...)
	//
	if len(ms) == 0 {
		ms = append(ms, measure.Probs())
	}
	//
	script := circuit.New(ops, ms...)
	tapes := make([]measure.Tape, cfg.Repeat)
	//
	for i := range tapes {
		tapes[i] = script
	}
	//
	factory := func(index uint) (*engine.Engine, error) {
		config, err := cfg.Device(script.Wires(), uint64(index))
		if err != nil {
			return nil, err
		}
		//
		kernel, err := statevector.New(config.Wires)
		if err != nil {
			return nil, err
		}
		//
		return engine.New(kernel, config, engine.WithTracker(stats))
	}
	//
	stats.Start()
	//
	results, err := engine.ParallelBatch(factory, tapes, cfg.Parallel)
	if err != nil {
		exitWith(err)
	}
	//
	stats.Stop()
	//
	return results, script, stats
}

// Print the results of one or more executions of a circuit as a table, with
// one row per measurement (and per shot vector entry).
func printResults(out io.Writer, script *circuit.Script, results []engine.Result) {
	var (
		rows   [][]string
		labels = make([]string, len(script.Measurements()))
	)
	//
	for i, m := range script.Measurements() {
		labels[i] = m.String()
	}
	//
	for r, result := range results {
		for c, row := range result.Rows() {
			for i, value := range row {
				rows = append(rows, []string{rowLabel(r, len(results), c, result.HasVector()), labels[i],
					value.String()})
			}
		}
	}
	//
	table := termio.NewTablePrinter(3, uint(len(rows)+1))
	table.SetRow(0, "run", "measurement", "value")
	table.SetEscape(0, 0, termio.BoldAnsiEscape())
	table.SetEscape(1, 0, termio.BoldAnsiEscape())
	table.SetEscape(2, 0, termio.BoldAnsiEscape())
	//
	for i, row := range rows {
		table.SetRow(uint(i+1), row...)
	}
	//
	table.SetMaxWidth(2, termio.Width(out, 120)/2)
	table.AnsiEscapes(termio.IsTerminal(out))
	table.Print(out)
}

func rowLabel(run int, runs int, index int, vector bool) string {
	switch {
	case vector && runs > 1:
		return fmt.Sprintf("%d.%d", run, index)
	case vector:
		return fmt.Sprintf("#%d", index)
	default:
		return fmt.Sprintf("%d", run)
	}
}

func exitWith(err error) {
	reportError(err)
	os.Exit(2)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("config", "", "read device and circuit options from a YAML file")
	runCmd.Flags().Uint("wires", 0, "number of device wires (labelled 0..n-1)")
	runCmd.Flags().StringArray("labels", nil, "explicit device wire labels")
	runCmd.Flags().String("shots", "", "shots as a comma separated list of N or NxC entries (analytic if empty)")
	runCmd.Flags().Uint64("seed", 0, "seed for sampling and classical shadows")
	runCmd.Flags().String("real-dtype", "", "dtype of real results (float32 or float64)")
	runCmd.Flags().String("complex-dtype", "", "dtype of complex results (complex64 or complex128)")
	runCmd.Flags().String("builtin", "", fmt.Sprintf("execute a built-in circuit %v", circuit.BuiltinNames()))
	runCmd.Flags().StringArrayP("measure", "m", nil, "add a measurement, such as \"(probs 0 1)\"")
	runCmd.Flags().Uint("repeat", 1, "number of times to execute the circuit")
	runCmd.Flags().Uint("parallel", 0, "maximum number of concurrent executions (0 for no limit)")
	runCmd.Flags().Bool("dump", false, "dump the raw result values")
	runCmd.Flags().Bool("stats", false, "report execution statistics")
}
