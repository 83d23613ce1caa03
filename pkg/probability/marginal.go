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
	"github.com/consensys/go-qstats/pkg/wire"
)

// Marginal marginalizes a device distribution onto a subset of device wires,
// by summing over every wire not requested.  Basis states of the result are
// then reordered using the ranks of the requested device indices.  When wires
// is empty the full distribution is returned unchanged.
func Marginal(dist Distribution, reg *wire.Registry, wires wire.Wires) (Distribution, error) {
	if len(wires) == 0 || wires.Equals(reg.Wires()) {
		return dist, nil
	}
	//
	indices, err := reg.Map(wires)
	if err != nil {
		return Distribution{}, err
	}
	//
	var (
		n    = reg.Len()
		k    = uint(len(indices))
		rank = wire.Argsort(wire.Argsort(indices))
		// active device wires, in device order
		active = sortedCopy(indices)
		perm   = make([]uint, 1<<k)
	)
	//
	for state := range perm {
		var index uint
		for j := uint(0); j < k; j++ {
			bit := (uint(state) >> (k - 1 - rank[j])) & 1
			index = (index << 1) | bit
		}
		//
		perm[state] = index
	}
	//
	return dist.Map(func(probs []float64) []float64 {
		reduced := make([]float64, 1<<k)
		// Sum over the inactive wires
		for i, p := range probs {
			var sub uint
			for _, w := range active {
				sub = (sub << 1) | ((uint(i) >> (n - 1 - w)) & 1)
			}
			//
			reduced[sub] += p
		}
		//
		result := make([]float64, len(reduced))
		for i, j := range perm {
			result[i] = reduced[j]
		}
		//
		return result
	}), nil
}

func sortedCopy(indices []uint) []uint {
	order := wire.Argsort(indices)
	result := make([]uint, len(indices))
	//
	for i, j := range order {
		result[i] = indices[j]
	}
	//
	return result
}
