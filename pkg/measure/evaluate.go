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
package measure

import (
	"fmt"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/state"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ProcessState evaluates a process from the state vector of a device whose
// wires are given by a registry.  Only State, VnEntropy and MutualInfo are
// evaluated this way.
func (p Process) ProcessState(st state.Vector, reg *wire.Registry) (Value, error) {
	switch p.kind {
	case State:
		if len(p.wires) == 0 || p.wires.Equals(reg.Wires()) {
			return st.Array(tensor.Complex128), nil
		}
		//
		indices, err := reg.Map(p.wires)
		if err != nil {
			return nil, err
		}
		//
		var (
			dim  = uint(1) << len(indices)
			data []complex128
		)
		//
		for _, row := range st.Rows() {
			rho := state.ReducedDensityMatrix(row, indices, reg.Len())
			for i := uint(0); i < dim; i++ {
				for j := uint(0); j < dim; j++ {
					data = append(data, rho.At(i, j))
				}
			}
		}
		//
		return tensor.NewComplex(tensor.Complex128, batched(st.Batch(), dim, dim), data), nil
	case VnEntropy:
		indices, err := reg.Map(p.wires)
		if err != nil {
			return nil, err
		}
		//
		values, err := st.VnEntropy(indices, p.logBase)
		if err != nil {
			return nil, err
		}
		//
		return realValues(st.Batch(), values), nil
	case MutualInfo:
		a, err := reg.Map(p.wires)
		if err != nil {
			return nil, err
		}
		//
		b, err := reg.Map(p.other)
		if err != nil {
			return nil, err
		}
		//
		values, err := st.MutualInfo(a, b, p.logBase)
		if err != nil {
			return nil, err
		}
		//
		return realValues(st.Batch(), values), nil
	default:
		return nil, qerr.Unsupported("%s cannot be computed from a state", p)
	}
}

// ProcessProbability evaluates a process exactly from the probability of each
// basis state, where the state has already been rotated into the eigenbasis
// of the process's observable.  Only Expectation, Variance and Probability are
// evaluated this way.
func (p Process) ProcessProbability(dist probability.Distribution, reg *wire.Registry) (Value, error) {
	switch p.kind {
	case Probability:
		marginal, err := probability.Marginal(dist, reg, p.Wires())
		if err != nil {
			return nil, err
		}
		//
		return marginal.Array(), nil
	case Expectation, Variance:
		if proj, ok := p.obs.(observable.Projector); ok {
			marginal, err := probability.Marginal(dist, reg, proj.Wires())
			if err != nil {
				return nil, err
			}
			//
			return p.projectorValues(dist.Batch(), marginal.Rows(), proj.Index()), nil
		}
		//
		eigvals, err := p.obs.Eigvals()
		if err != nil {
			return nil, fmt.Errorf("cannot compute analytic %s of %s: %w", p.kind, p.obs.Name(), err)
		}
		// Probabilities must follow the factor order of the observable
		wires, err := reg.PermuteForObservable(p.obs.Wires())
		if err != nil {
			return nil, err
		}
		//
		marginal, err := probability.Marginal(dist, reg, wires)
		if err != nil {
			return nil, err
		}
		//
		squares := make([]float64, len(eigvals))
		floats.MulTo(squares, eigvals, eigvals)
		//
		values := make([]float64, len(marginal.Rows()))
		for i, row := range marginal.Rows() {
			values[i] = floats.Dot(row, eigvals)
			//
			if p.kind == Variance {
				values[i] = floats.Dot(row, squares) - values[i]*values[i]
			}
		}
		//
		return realValues(dist.Batch(), values), nil
	default:
		return nil, qerr.Unsupported("%s cannot be computed from probabilities", p)
	}
}

// ProcessSamples evaluates a process from a buffer of samples taken on a
// device whose wires are given by a registry.  Samples can be restricted to a
// range of shots, and the statistic computed separately over each contiguous
// bin of shots.  Binned results carry the bins as their last axis.
func (p Process) ProcessSamples(buf sample.Buffer, reg *wire.Registry, shotRange util.Option[sample.Range],
	binSize util.Option[uint]) (Value, error) {
	if shotRange.HasValue() {
		r := shotRange.Unwrap()
		buf = buf.Slice(r.Start, r.End)
	}
	//
	if size := binSize.UnwrapOr(1); size == 0 || buf.Shots()%size != 0 {
		return nil, qerr.Configuration("bin size %d does not divide %d shot(s)", size, buf.Shots())
	}
	//
	switch p.kind {
	case Probability:
		indices, err := p.deviceIndices(reg)
		if err != nil {
			return nil, err
		}
		//
		return probability.Estimate(buf, indices, binSize), nil
	case Expectation, Variance:
		return p.sampledMoment(buf, reg, binSize)
	case Sample:
		if p.obs == nil {
			return p.rawSamples(buf, reg, binSize)
		}
		//
		values, dtype, err := p.eigvalSamples(buf, reg)
		if err != nil {
			return nil, err
		}
		//
		return arrange(buf.Batch(), buf.Shots(), 0, binSize, dtype, func(r, s, _ uint) float64 {
			return values[r][s]
		}), nil
	case Counts:
		return p.counts(buf, reg, binSize)
	default:
		return nil, qerr.Unsupported("%s cannot be computed from samples", p)
	}
}

// ProcessTape evaluates a transform on a circuit and the kernel it executes
// on.
func (p Process) ProcessTape(tape Tape, kernel device.Kernel) (Value, error) {
	if p.kind != Transform || p.transform == nil {
		return nil, qerr.Unsupported("%s is not a transform", p)
	}
	//
	return p.transform(tape, kernel)
}

func (p Process) sampledMoment(buf sample.Buffer, reg *wire.Registry, binSize util.Option[uint]) (Value, error) {
	if proj, ok := p.obs.(observable.Projector); ok {
		indices, err := reg.Map(proj.Wires())
		if err != nil {
			return nil, err
		}
		//
		return p.projectorEstimate(probability.Estimate(buf, indices, binSize), proj.Index(), buf.Batch(),
			binSize.HasValue()), nil
	}
	//
	values, _, err := p.eigvalSamples(buf, reg)
	if err != nil {
		return nil, err
	}
	//
	var (
		size   = binSize.UnwrapOr(buf.Shots())
		bins   = buf.Shots() / size
		result []float64
	)
	//
	for _, row := range values {
		for b := uint(0); b < bins; b++ {
			window := row[b*size : (b+1)*size]
			//
			if p.kind == Expectation {
				result = append(result, stat.Mean(window, nil))
			} else {
				result = append(result, stat.PopVariance(window, nil))
			}
		}
	}
	//
	if binSize.HasValue() {
		return tensor.New(tensor.Float64, batched(buf.Batch(), bins), result), nil
	}
	//
	return realValues(buf.Batch(), result), nil
}

// Substitute each sampled outcome on the observable's wires with the
// corresponding eigenvalue.
func (p Process) eigvalSamples(buf sample.Buffer, reg *wire.Registry) ([][]float64, tensor.DType, error) {
	indices, err := reg.Map(p.obs.Wires())
	if err != nil {
		return nil, 0, err
	}
	//
	values := make([][]float64, buf.Rows())
	//
	if observable.IsPauliLike(p.obs) {
		for r := range values {
			values[r] = make([]float64, buf.Shots())
			for s := range values[r] {
				values[r][s] = float64(1 - 2*int(buf.Bit(uint(r), uint(s), indices[0])))
			}
		}
		//
		return values, tensor.Int64, nil
	}
	//
	eigvals, err := p.obs.Eigvals()
	if err != nil {
		return nil, 0, fmt.Errorf("cannot compute samples of %s: %w", p.obs.Name(), err)
	}
	//
	for r, row := range buf.Indices(indices) {
		values[r] = make([]float64, len(row))
		for s, index := range row {
			values[r][s] = eigvals[index]
		}
	}
	//
	if observable.HasIntegerEigvals(p.obs) {
		return values, tensor.Int64, nil
	}
	//
	return values, tensor.Float64, nil
}

func (p Process) rawSamples(buf sample.Buffer, reg *wire.Registry, binSize util.Option[uint]) (Value, error) {
	indices, err := p.deviceIndices(reg)
	if err != nil {
		return nil, err
	}
	//
	restricted := buf.Restrict(indices)
	//
	return arrange(buf.Batch(), buf.Shots(), uint(len(indices)), binSize, tensor.Int64, func(r, s, w uint) float64 {
		return float64(restricted.Bit(r, s, w))
	}), nil
}

func (p Process) counts(buf sample.Buffer, reg *wire.Registry, binSize util.Option[uint]) (Value, error) {
	var (
		keys     [][]string
		outcomes []string
		numeric  = p.obs != nil
	)
	//
	if p.obs == nil {
		indices, err := p.deviceIndices(reg)
		if err != nil {
			return nil, err
		}
		//
		restricted := buf.Restrict(indices)
		keys = make([][]string, buf.Rows())
		//
		for r := range keys {
			keys[r] = make([]string, buf.Shots())
			for s := range keys[r] {
				keys[r][s] = sample.BitString(restricted.Outcome(uint(r), uint(s)))
			}
		}
		//
		if p.allOutcomes {
			for _, bits := range sample.GenerateBasisStates(uint(len(indices))) {
				outcomes = append(outcomes, sample.BitString(bits))
			}
		}
	} else {
		values, _, err := p.eigvalSamples(buf, reg)
		if err != nil {
			return nil, err
		}
		//
		keys = make([][]string, len(values))
		for r, row := range values {
			keys[r] = make([]string, len(row))
			for s, v := range row {
				keys[r][s] = formatEigval(v)
			}
		}
		//
		if p.allOutcomes {
			eigvals, err := p.obs.Eigvals()
			if err != nil {
				return nil, err
			}
			//
			for _, v := range eigvals {
				outcomes = append(outcomes, formatEigval(v))
			}
		}
	}
	//
	var (
		size = binSize.UnwrapOr(buf.Shots())
		list CountsList
	)
	//
	for _, row := range keys {
		for b := uint(0); b < buf.Shots()/size; b++ {
			counts := NewCounts(numeric, outcomes...)
			for _, key := range row[b*size : (b+1)*size] {
				counts.Add(key)
			}
			//
			list = append(list, counts)
		}
	}
	//
	if binSize.IsEmpty() && buf.Batch().IsEmpty() {
		return list[0], nil
	}
	//
	return list, nil
}

// Device indices of this process's wires, or of every device wire when none
// are given.
func (p Process) deviceIndices(reg *wire.Registry) ([]uint, error) {
	if len(p.Wires()) == 0 {
		return reg.Map(reg.Wires())
	}
	//
	return reg.Map(p.Wires())
}

func (p Process) projectorValues(batch util.Option[uint], rows [][]float64, index uint) tensor.Array {
	values := make([]float64, len(rows))
	//
	for i, row := range rows {
		values[i] = row[index]
		//
		if p.kind == Variance {
			values[i] -= row[index] * row[index]
		}
	}
	//
	return realValues(batch, values)
}

// Select the estimated probability of one basis state, from an estimate of
// shape ([batch,] dim [, bins]).
func (p Process) projectorEstimate(est tensor.Array, index uint, batch util.Option[uint], binned bool) tensor.Array {
	var (
		shape = est.Shape()
		rows  = batch.UnwrapOr(1)
		bins  = uint(1)
	)
	//
	if binned {
		bins = shape[len(shape)-1]
	}
	//
	dim := est.Size() / (rows * bins)
	//
	values := make([]float64, 0, rows*bins)
	//
	for r := uint(0); r < rows; r++ {
		for b := uint(0); b < bins; b++ {
			q := est.Data()[(r*dim+index)*bins+b]
			//
			if p.kind == Variance {
				q -= q * q
			}
			//
			values = append(values, q)
		}
	}
	//
	if binned {
		return tensor.New(tensor.Float64, batched(batch, bins), values)
	}
	//
	return realValues(batch, values)
}

// Lay out per-shot values as an array of shape ([batch,] shots [, width]), or
// with binning ([batch,] binSize [, width], bins).  A width of zero denotes
// scalar values per shot.
func arrange(batch util.Option[uint], shots uint, width uint, binSize util.Option[uint], dtype tensor.DType,
	at func(r, s, w uint) float64) tensor.Array {
	var (
		size  = binSize.UnwrapOr(shots)
		bins  = shots / size
		cols  = max(width, 1)
		shape = tensor.Shape{size}
		data  = make([]float64, 0, batch.UnwrapOr(1)*shots*cols)
	)
	//
	if width > 0 {
		shape = append(shape, width)
	}
	//
	if binSize.HasValue() {
		shape = append(shape, bins)
	}
	//
	for r := uint(0); r < batch.UnwrapOr(1); r++ {
		for s := uint(0); s < size; s++ {
			for w := uint(0); w < cols; w++ {
				for b := uint(0); b < bins; b++ {
					data = append(data, at(r, b*size+s, w))
				}
			}
		}
	}
	//
	return tensor.New(dtype, batched(batch, shape...), data)
}

// One scalar per batch row, or a single scalar when not batched.
func realValues(batch util.Option[uint], values []float64) tensor.Array {
	if batch.HasValue() {
		return tensor.New(tensor.Float64, tensor.Shape{batch.Unwrap()}, values)
	}
	//
	return tensor.Scalar(tensor.Float64, values[0])
}

func batched(batch util.Option[uint], shape ...uint) tensor.Shape {
	if batch.HasValue() {
		return append(tensor.Shape{batch.Unwrap()}, shape...)
	}
	//
	return shape
}
