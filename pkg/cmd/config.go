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
	"os"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runConfig describes the device and circuit of a run.  It can be read from a
// YAML file, for example:
//
//	wires: 2
//	shots: 1000,100x4
//	seed: 7
//	builtin: bell
//	measure:
//	  - (probs)
//	  - (expval (PauliZ 0))
//
// Flags given on the command line take precedence over the file.
type runConfig struct {
	// Number of wires, labelled 0..n-1.
	Wires uint `yaml:"wires"`
	// Explicit wire labels, which take precedence over Wires.
	Labels []string `yaml:"labels"`
	// Shot specification, as accepted by shots.Parse.
	Shots        string  `yaml:"shots"`
	Seed         *uint64 `yaml:"seed"`
	RealDType    string  `yaml:"real_dtype"`
	ComplexDType string  `yaml:"complex_dtype"`
	// Name of a built-in circuit to execute.
	Builtin string `yaml:"builtin"`
	// Additional measurements, written as in circuit programs.
	Measure []string `yaml:"measure"`
	// Number of times the circuit is executed.
	Repeat uint `yaml:"repeat"`
	// Maximum number of repetitions executed concurrently (zero for no limit).
	Parallel uint `yaml:"parallel"`
}

// Read a run configuration from a YAML file, on top of some defaults.
func readConfigFile(filename string, cfg *runConfig) error {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return err
	} else if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	//
	return nil
}

// Override the fields of a configuration with any flags given on the command
// line.
func (c *runConfig) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	//
	if flags.Changed("wires") {
		c.Wires = GetUint(cmd, "wires")
	}
	//
	if flags.Changed("labels") {
		c.Labels = GetStringArray(cmd, "labels")
	}
	//
	if flags.Changed("shots") {
		c.Shots = GetString(cmd, "shots")
	}
	//
	if flags.Changed("seed") {
		seed := GetUint64(cmd, "seed")
		c.Seed = &seed
	}
	//
	if flags.Changed("real-dtype") {
		c.RealDType = GetString(cmd, "real-dtype")
	}
	//
	if flags.Changed("complex-dtype") {
		c.ComplexDType = GetString(cmd, "complex-dtype")
	}
	//
	if flags.Changed("builtin") {
		c.Builtin = GetString(cmd, "builtin")
	}
	//
	if flags.Changed("repeat") {
		c.Repeat = GetUint(cmd, "repeat")
	}
	//
	if flags.Changed("parallel") {
		c.Parallel = GetUint(cmd, "parallel")
	}
	//
	c.Measure = append(c.Measure, GetStringArray(cmd, "measure")...)
}

// Device constructs the device configuration for a run, where the wires used
// by a circuit are used when none are configured.  The seed is offset by a
// given amount, such that repetitions draw different samples.
func (c *runConfig) Device(used wire.Wires, offset uint64) (device.Config, error) {
	var config = device.DefaultConfig(1)
	//
	switch {
	case len(c.Labels) > 0:
		config.Wires = make(wire.Wires, len(c.Labels))
		for i, label := range c.Labels {
			config.Wires[i] = wire.Parse(label)
		}
	case c.Wires > 0:
		config.Wires = wire.Range(c.Wires)
	default:
		config.Wires = defaultWires(used)
	}
	//
	spec, err := shots.Parse(c.Shots)
	if err != nil {
		return config, err
	}
	//
	config.Shots = spec
	//
	if c.Seed != nil {
		config.Seed = util.Some(*c.Seed + offset)
	}
	//
	if c.RealDType != "" {
		config.RealDType = c.RealDType
	}
	//
	if c.ComplexDType != "" {
		config.ComplexDType = c.ComplexDType
	}
	//
	return config, config.Validate()
}

// Determine device wires from those used by a circuit.  Integer labels are
// taken to be canonical, so the device covers 0..max.  Otherwise, wires are
// used in order of first use.
func defaultWires(used wire.Wires) wire.Wires {
	var n uint
	//
	for _, w := range used {
		if !w.IsInt() || w.Index() < 0 {
			return used
		}
		//
		n = max(n, uint(w.Index())+1)
	}
	//
	return wire.Range(max(n, 1))
}

// Check the combination of options in a configuration makes sense.
func (c *runConfig) validate(programs uint) error {
	if c.Builtin != "" && programs > 0 {
		return qerr.Configuration("cannot use a built-in circuit with a program file")
	} else if c.Repeat == 0 {
		return qerr.Configuration("circuit must be executed at least once")
	}
	//
	return nil
}
