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
package engine

import (
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/shadow"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
)

// Execute a circuit whose only measurement is a classical shadow (or an
// expectation estimated from one).  The circuit is executed once per snapshot,
// each time with a single shot.
func (e *Engine) executeShadow(tape measure.Tape, m measure.Process, stats *util.PerfStats) (Result, error) {
	if override, ok := e.overrides[m.Kind()]; ok {
		value, err := override(Request{m, tape, util.None[sample.Range](), util.None[uint]()})
		if err != nil {
			return Result{}, err
		}
		//
		return Result{rows: [][]measure.Value{{value}}}, nil
	} else if e.shots.HasVector() {
		return Result{}, qerr.Unsupported("%s is not supported with a shot vector", m)
	}
	//
	var (
		reg   = e.kernel.Registry()
		wires = m.Wires()
	)
	//
	if len(wires) == 0 {
		wires = reg.Wires()
	}
	//
	indices, err := reg.Map(wires)
	if err != nil {
		return Result{}, err
	}
	//
	diagonalizing, err := tape.DiagonalizingGates()
	if err != nil {
		return Result{}, err
	}
	//
	e.logger.Debugf("Collecting %d snapshot(s) over %s", e.shots.Total(), wires)
	//
	sampler := func(rotations []gate.Operation) ([]uint8, error) {
		e.kernel.Reset()
		//
		if err := e.kernel.Apply(tape.Operations(), append(append([]gate.Operation{}, diagonalizing...),
			rotations...)); err != nil {
			return nil, err
		}
		//
		buf, err := e.generateSamples(1)
		if err != nil {
			return nil, err
		} else if buf.Batch().HasValue() {
			return nil, qerr.Unsupported("%s does not support broadcasting", m)
		}
		//
		outcome := make([]uint8, len(indices))
		for i, index := range indices {
			outcome[i] = buf.Bit(0, 0, index)
		}
		//
		return outcome, nil
	}
	//
	snapshots, err := shadow.Collect(wires, m.Seed(), e.shots.Total(), sampler)
	if err != nil {
		return Result{}, err
	}
	//
	var value measure.Value = snapshots
	//
	if m.Kind() == measure.ShadowExpval {
		estimate, err := snapshots.Expval(m.Observable(), m.K())
		if err != nil {
			return Result{}, err
		}
		//
		value = tensor.Scalar(e.rdt, estimate)
	}
	//
	e.count++
	//
	if e.tracker != nil {
		e.tracker.RecordExecution(e.shots, stats.Elapsed(), value)
	}
	//
	stats.Log("Collecting classical shadow")
	//
	return Result{rows: [][]measure.Value{{value}}}, nil
}
