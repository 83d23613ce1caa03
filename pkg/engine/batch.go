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
	"fmt"

	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/sourcegraph/conc/pool"
)

// BatchExecute executes a sequence of circuits in turn, resetting the kernel
// before each.
func (e *Engine) BatchExecute(tapes []measure.Tape) ([]Result, error) {
	var (
		stats   = util.NewPerfStats()
		results = make([]Result, len(tapes))
	)
	//
	for i, tape := range tapes {
		e.Reset()
		//
		result, err := e.Execute(tape)
		if err != nil {
			return nil, fmt.Errorf("circuit %d: %w", i, err)
		}
		//
		results[i] = result
	}
	//
	if e.tracker != nil {
		e.tracker.RecordBatch(uint(len(tapes)))
	}
	//
	stats.Log(fmt.Sprintf("Executing batch of %d circuit(s)", len(tapes)))
	//
	return results, nil
}

// Factory constructs a fresh engine, with its own kernel, for executing the
// circuit at a given index of a batch.
type Factory func(index uint) (*Engine, error)

// ParallelBatch executes a sequence of circuits concurrently, each on its own
// engine obtained from a factory.  At most maxGoroutines circuits execute at
// once (or one per circuit, when zero).  Results are returned in the order of
// the circuits.
func ParallelBatch(factory Factory, tapes []measure.Tape, maxGoroutines uint) ([]Result, error) {
	var (
		stats   = util.NewPerfStats()
		results = make([]Result, len(tapes))
		workers = pool.New().WithErrors()
	)
	//
	if maxGoroutines > 0 {
		workers = workers.WithMaxGoroutines(int(maxGoroutines))
	}
	//
	for i, tape := range tapes {
		workers.Go(func() error {
			engine, err := factory(uint(i))
			if err != nil {
				return err
			}
			//
			if results[i], err = engine.Execute(tape); err != nil {
				return fmt.Errorf("circuit %d: %w", i, err)
			}
			//
			return nil
		})
	}
	//
	if err := workers.Wait(); err != nil {
		return nil, err
	}
	//
	stats.Log(fmt.Sprintf("Executing %d circuit(s) in parallel", len(tapes)))
	//
	return results, nil
}
