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

// Package circuit provides scripts: sequences of operations followed by the
// measurements taken at their end.
package circuit

import (
	"fmt"
	"strings"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Script is a circuit whose operations and measurements are fixed at
// construction.
type Script struct {
	operations   []gate.Operation
	measurements []measure.Process
}

// New constructs a script from its operations and measurements.
func New(operations []gate.Operation, measurements ...measure.Process) *Script {
	return &Script{operations, measurements}
}

// Operations implementation for the measure.Tape interface.
func (p *Script) Operations() []gate.Operation {
	return p.operations
}

// Measurements implementation for the measure.Tape interface.
func (p *Script) Measurements() []measure.Process {
	return p.measurements
}

// Wires returns every wire used by an operation or measurement of this script,
// in order of first use.
func (p *Script) Wires() wire.Wires {
	var wires wire.Wires
	//
	for _, op := range p.operations {
		wires = wires.Union(op.Wires())
	}
	//
	for _, m := range p.measurements {
		wires = wires.Union(m.Wires())
	}
	//
	return wires
}

// DiagonalizingGates returns the rotations which take every measured
// observable into the computational basis.  Observables measured more than
// once contribute their rotations once.  Measuring the same wire in two
// different bases is not supported.
func (p *Script) DiagonalizingGates() ([]gate.Operation, error) {
	var (
		rotations []gate.Operation
		seen      = make(map[string]bool)
		bases     = make(map[wire.Wire]string)
	)
	//
	for _, m := range p.measurements {
		// Shadows rotate each snapshot themselves
		if !m.HasObservable() || m.Kind().IsShadow() {
			continue
		}
		//
		for _, c := range observable.Components(m.Observable()) {
			if c.Name() == "Identity" || seen[c.String()] {
				continue
			}
			//
			gates, err := c.DiagonalizingGates()
			if err != nil {
				return nil, fmt.Errorf("cannot measure %s: %w", m, err)
			}
			//
			basis := signature(gates)
			//
			for _, w := range c.Wires() {
				if other, ok := bases[w]; ok && other != basis {
					return nil, qerr.Unsupported("wire %s is measured in more than one basis", w)
				}
				//
				bases[w] = basis
			}
			//
			seen[c.String()] = true
			rotations = append(rotations, gates...)
		}
	}
	//
	return rotations, nil
}

func (p *Script) String() string {
	var builder strings.Builder
	//
	for _, op := range p.operations {
		builder.WriteString(op.String())
		builder.WriteString("\n")
	}
	//
	for _, m := range p.measurements {
		builder.WriteString(m.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func signature(gates []gate.Operation) string {
	if len(gates) == 0 {
		return "computational"
	}
	//
	names := make([]string, len(gates))
	for i, g := range gates {
		names[i] = g.String()
		// Explicit unitaries are only distinguished by their matrices
		if g.Name() == "QubitUnitary" {
			names[i] += g.Matrix().String()
		}
	}
	//
	return strings.Join(names, ";")
}
