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

// Package probability computes probability distributions over computational
// basis states, either exactly (by marginalizing a device's distribution) or
// empirically (from samples).
package probability

import (
	"fmt"

	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
)

// Distribution holds one probability vector over 2^n basis states, or one
// per batch row when circuit parameters are broadcast.
type Distribution struct {
	batch util.Option[uint]
	rows  [][]float64
}

// Single constructs an unbatched distribution.
func Single(probs []float64) Distribution {
	return Distribution{util.None[uint](), [][]float64{probs}}
}

// Batched constructs a distribution with one row per batch element.
func Batched(rows ...[]float64) Distribution {
	return Distribution{util.Some(uint(len(rows))), rows}
}

// Batch returns the broadcast batch size, if any.
func (d Distribution) Batch() util.Option[uint] { return d.batch }

// Rows returns each probability vector of this distribution.
func (d Distribution) Rows() [][]float64 { return d.rows }

// Dim returns the number of basis states covered.
func (d Distribution) Dim() uint { return uint(len(d.rows[0])) }

// Array returns this distribution as an array of shape (dim) or (batch, dim).
func (d Distribution) Array() tensor.Array {
	var data []float64
	for _, row := range d.rows {
		data = append(data, row...)
	}
	//
	if d.batch.HasValue() {
		return tensor.New(tensor.Float64, tensor.Shape{d.batch.Unwrap(), d.Dim()}, data)
	}
	//
	return tensor.New(tensor.Float64, tensor.Shape{d.Dim()}, data)
}

// Map applies a function to every row of this distribution.
func (d Distribution) Map(fn func([]float64) []float64) Distribution {
	rows := make([][]float64, len(d.rows))
	for i, row := range d.rows {
		rows[i] = fn(row)
	}
	//
	return Distribution{d.batch, rows}
}

func (d Distribution) String() string {
	if d.batch.HasValue() {
		return fmt.Sprintf("%v", d.rows)
	}
	//
	return fmt.Sprintf("%v", d.rows[0])
}
