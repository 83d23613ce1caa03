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
	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
)

// Evaluate every measurement of a circuit whose operations have already been
// applied.  With a shot vector, each entry is evaluated over its own range of
// shots, binned into its copies.
func (e *Engine) aggregate(tape measure.Tape) (Result, error) {
	if !e.shots.HasVector() {
		values, err := e.statistics(tape, util.None[sample.Range](), util.None[uint]())
		if err != nil {
			return Result{}, err
		}
		//
		return Result{[][]measure.Value{values}, false}, nil
	}
	//
	var (
		rows  [][]measure.Value
		start uint
	)
	//
	for _, entry := range e.shots.Entries() {
		shotRange := sample.Range{Start: start, End: start + entry.Total()}
		//
		values, err := e.statistics(tape, util.Some(shotRange), util.Some(entry.Shots))
		if err != nil {
			return Result{}, err
		}
		//
		copies := make([][]measure.Value, entry.Copies)
		//
		for i, v := range values {
			_, overridden := e.overrides[tape.Measurements()[i].Kind()]
			binned := tape.Measurements()[i].Kind().IsSampled() && !overridden
			//
			for c, part := range splitCopies(v, entry.Copies, binned) {
				copies[c] = append(copies[c], part)
			}
		}
		//
		rows = append(rows, copies...)
		start = shotRange.End
	}
	//
	return Result{rows, true}, nil
}

// Evaluate every measurement of a circuit over an optional range of shots,
// with an optional bin size.
func (e *Engine) statistics(tape measure.Tape, shotRange util.Option[sample.Range],
	binSize util.Option[uint]) ([]measure.Value, error) {
	var (
		reg    = e.kernel.Registry()
		ms     = tape.Measurements()
		values = make([]measure.Value, len(ms))
		dist   *probability.Distribution
	)
	//
	for i, m := range ms {
		var err error
		//
		if override, ok := e.overrides[m.Kind()]; ok {
			values[i], err = override(Request{m, tape, shotRange, binSize})
		} else if m.Kind() == measure.Transform {
			values[i], err = m.ProcessTape(tape, e.kernel)
		} else if m.Kind().IsAnalyticOnly() {
			// validated to be a state kernel
			st, serr := e.kernel.(device.StateKernel).State()
			if serr != nil {
				return nil, serr
			}
			//
			values[i], err = m.ProcessState(st, reg)
		} else if !e.shots.IsAnalytic() {
			values[i], err = m.ProcessSamples(e.samples, reg, shotRange, binSize)
		} else {
			if dist == nil {
				d, derr := e.kernel.AnalyticProbability()
				if derr != nil {
					return nil, derr
				}
				//
				dist = &d
			}
			//
			values[i], err = m.ProcessProbability(*dist, reg)
		}
		//
		if err != nil {
			return nil, err
		}
	}
	//
	return values, nil
}

// Split a binned value, whose bins are its last axis, into one value per copy.
// Values which are not binned are shared by every copy.
func splitCopies(v measure.Value, copies uint, binned bool) []measure.Value {
	parts := make([]measure.Value, copies)
	//
	switch v := v.(type) {
	case tensor.Array:
		if binned {
			for c := range parts {
				parts[c] = v.SelectLast(uint(c))
			}
			//
			return parts
		}
	case measure.CountsList:
		if !binned {
			break
		}
		//
		rows := uint(len(v)) / copies
		//
		for c := range parts {
			if rows == 1 {
				parts[c] = v[c]
				continue
			}
			//
			list := make(measure.CountsList, rows)
			for r := range list {
				list[r] = v[uint(r)*copies+uint(c)]
			}
			//
			parts[c] = list
		}
		//
		return parts
	}
	//
	for c := range parts {
		parts[c] = v
	}
	//
	return parts
}

// Cast every real or complex value to the configured dtypes, and drop the
// shots axis of samples drawn from a single shot.
func (e *Engine) normalize(ms []measure.Process, result Result) Result {
	var (
		entries = e.shots.Raw()
		rows    = make([][]measure.Value, len(result.rows))
	)
	//
	for r, row := range result.rows {
		rows[r] = make([]measure.Value, len(row))
		//
		for i, v := range row {
			var n uint
			if r < len(entries) {
				n = entries[r]
			}
			//
			rows[r][i] = e.normalizeValue(ms[i], v, n)
		}
	}
	//
	return Result{rows, result.vector}
}

func (e *Engine) normalizeValue(m measure.Process, v measure.Value, shots uint) measure.Value {
	switch v := v.(type) {
	case tensor.Array:
		if _, overridden := e.overrides[m.Kind()]; m.Kind() == measure.Sample && shots == 1 && !overridden {
			// shots follow the batch axis, if any
			if e.samples.Batch().HasValue() {
				v = v.DropAxis(1)
			} else {
				v = v.DropAxis(0)
			}
		}
		//
		if v.DType().IsFloat() {
			return v.Cast(e.rdt)
		}
		//
		return v
	case tensor.CArray:
		return v.Cast(e.cdt)
	default:
		return v
	}
}
