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
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/consensys/go-qstats/pkg/gate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags]",
	Short: "generate a random circuit program.",
	Long: `Generate a random circuit program over a given number of wires.  The
	program is written to stdout (or the given output file) and can be executed
	with the run command.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg := generatorConfig{
			wires:    GetUint(cmd, "wires"),
			gates:    GetUint(cmd, "gates"),
			seed:     GetUint64(cmd, "seed"),
			measures: GetStringArray(cmd, "measure"),
		}
		//
		if cfg.wires == 0 {
			fmt.Println("circuit requires at least one wire")
			os.Exit(2)
		}
		//
		var out io.Writer = os.Stdout
		//
		if filename := GetString(cmd, "output"); filename != "" {
			file, err := os.Create(filename)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			//
			defer file.Close()
			//
			out = file
		}
		//
		if _, err := io.WriteString(out, generateProgram(cfg)); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// Gates from which random circuits are drawn.
var generatorGates = []string{
	"Hadamard", "PauliX", "PauliY", "PauliZ", "S", "T", "RX", "RY", "RZ", "PhaseShift", "Rot", "CNOT", "CZ", "SWAP",
}

type generatorConfig struct {
	wires    uint
	gates    uint
	seed     uint64
	measures []string
}

// Generate the text of a random circuit program.  Gates acting on more wires
// than are available are skipped.  When no measurements are given, the
// probabilities of all wires are measured.
func generateProgram(cfg generatorConfig) string {
	var (
		builder strings.Builder
		rng     = rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))
		names   []string
	)
	//
	for _, name := range generatorGates {
		if arity, _, _ := gate.Signature(name); arity <= cfg.wires {
			names = append(names, name)
		}
	}
	//
	builder.WriteString(fmt.Sprintf(";; random circuit (wires=%d, gates=%d, seed=%d)\n", cfg.wires, cfg.gates,
		cfg.seed))
	//
	for range cfg.gates {
		name := names[rng.IntN(len(names))]
		arity, params, _ := gate.Signature(name)
		//
		builder.WriteString("(")
		builder.WriteString(name)
		//
		for range params {
			builder.WriteString(fmt.Sprintf(" %.4f", (2*rng.Float64()-1)*math.Pi))
		}
		// Distinct wires
		for _, w := range rng.Perm(int(cfg.wires))[:arity] {
			builder.WriteString(fmt.Sprintf(" %d", w))
		}
		//
		builder.WriteString(")\n")
	}
	//
	if len(cfg.measures) == 0 {
		builder.WriteString("(probs)\n")
	}
	//
	for _, m := range cfg.measures {
		builder.WriteString(m)
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Uint("wires", 2, "number of wires")
	generateCmd.Flags().Uint("gates", 10, "number of gates")
	generateCmd.Flags().Uint64("seed", 0, "seed for the random generator")
	generateCmd.Flags().StringArrayP("measure", "m", nil, "add a measurement, such as \"(probs 0 1)\"")
	generateCmd.Flags().StringP("output", "o", "", "write the program to a file")
}
