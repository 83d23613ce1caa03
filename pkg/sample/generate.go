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
package sample

import (
	"math/rand/v2"

	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/util"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generate draws a number of independent basis outcomes from one or more
// probability distributions over 2^n basis states.  When a batch is given
// there must be one distribution per batch row, each of which is sampled
// independently; otherwise there must be exactly one.
func Generate(probs [][]float64, batch util.Option[uint], shots uint, n uint, src rand.Source) (Buffer, error) {
	if shots == 0 {
		return Buffer{}, qerr.Precondition("the number of shots has to be explicitly set on the device " +
			"when using sample-based measurements")
	} else if uint(len(probs)) != batch.UnwrapOr(1) {
		return Buffer{}, qerr.Configuration("%d distribution(s) given for batch %s", len(probs), batch)
	}
	//
	data := make([]uint8, 0, uint(len(probs))*shots*n)
	indices := make([]uint64, shots)
	//
	for _, p := range probs {
		if uint(len(p)) != 1<<n {
			return Buffer{}, qerr.Configuration("distribution of length %d does not cover %d wire(s)", len(p), n)
		}
		// Categorical sampling is not batched, hence sample each row in turn.
		dist := distuv.NewCategorical(p, src)
		for i := range indices {
			indices[i] = uint64(dist.Rand())
		}
		//
		for _, bits := range StatesToBinary(indices, n) {
			data = append(data, bits...)
		}
	}
	//
	return NewBuffer(batch, shots, n, data), nil
}
