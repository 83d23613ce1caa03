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
package probability

import (
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
)

// Estimate computes the relative frequency of each basis state over the given
// device wires (the first being the most significant) from a buffer of
// samples.  Without binning the result has shape (dim), whilst with binning
// each contiguous bin of samples is histogrammed independently giving shape
// (dim, bins).  Either shape gains a leading batch axis when the buffer is
// batched.  Basis states never observed have probability zero.
func Estimate(buf sample.Buffer, wires []uint, binSize util.Option[uint]) tensor.Array {
	var (
		dim     = uint(1) << len(wires)
		indices = buf.Indices(wires)
		size    = binSize.UnwrapOr(buf.Shots())
		bins    = uint(1)
		shape   tensor.Shape
	)
	//
	if binSize.HasValue() {
		bins = buf.Shots() / size
		shape = tensor.Shape{dim, bins}
	} else {
		shape = tensor.Shape{dim}
	}
	//
	if buf.Batch().HasValue() {
		shape = append(tensor.Shape{buf.Batch().Unwrap()}, shape...)
	}
	//
	result := tensor.Zeros(tensor.Float64, shape...)
	data := result.Data()
	//
	for r, row := range indices {
		for b := uint(0); b < bins; b++ {
			for _, index := range row[b*size : (b+1)*size] {
				// row-major offset of [r, index, b]
				data[(uint(r)*dim+index)*bins+b]++
			}
		}
	}
	//
	for i := range data {
		data[i] /= float64(size)
	}
	//
	return result
}
