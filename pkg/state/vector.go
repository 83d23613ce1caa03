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

// Package state holds quantum state vectors returned by a device, along with
// the functions of a state (reduced density matrices and entropies) which are
// evaluated analytically.
package state

import (
	"math/cmplx"

	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
)

// Vector is a state vector over 2^n basis states, with the first device wire
// being the most significant, or one per batch row when circuit parameters
// are broadcast.
type Vector struct {
	batch util.Option[uint]
	rows  [][]complex128
}

// Single constructs an unbatched state vector.
func Single(amplitudes []complex128) Vector {
	return Vector{util.None[uint](), [][]complex128{amplitudes}}
}

// Batched constructs a state vector with one row per batch element.
func Batched(rows ...[]complex128) Vector {
	return Vector{util.Some(uint(len(rows))), rows}
}

// Batch returns the broadcast batch size, if any.
func (v Vector) Batch() util.Option[uint] { return v.batch }

// Rows returns the amplitudes of each batch row.
func (v Vector) Rows() [][]complex128 { return v.rows }

// Dim returns the number of basis states.
func (v Vector) Dim() uint { return uint(len(v.rows[0])) }

// NumWires returns the number of wires this state covers.
func (v Vector) NumWires() uint {
	var n uint
	for (uint(1) << n) < v.Dim() {
		n++
	}
	//
	return n
}

// Probabilities returns the probability of each basis state.
func (v Vector) Probabilities() probability.Distribution {
	rows := make([][]float64, len(v.rows))
	//
	for i, row := range v.rows {
		rows[i] = make([]float64, len(row))
		for j, a := range row {
			rows[i][j] = real(a)*real(a) + imag(a)*imag(a)
		}
	}
	//
	if v.batch.HasValue() {
		return probability.Batched(rows...)
	}
	//
	return probability.Single(rows[0])
}

// Array returns this state as a complex array of shape (dim) or (batch, dim).
func (v Vector) Array(dtype tensor.DType) tensor.CArray {
	var data []complex128
	for _, row := range v.rows {
		data = append(data, row...)
	}
	//
	if v.batch.HasValue() {
		return tensor.NewComplex(dtype, tensor.Shape{v.batch.Unwrap(), v.Dim()}, data)
	}
	//
	return tensor.NewComplex(dtype, tensor.Shape{v.Dim()}, data)
}

// Norm returns the squared norm of the first row, which should be one.
func (v Vector) Norm() float64 {
	var norm float64
	for _, a := range v.rows[0] {
		norm += cmplx.Abs(a) * cmplx.Abs(a)
	}
	//
	return norm
}
