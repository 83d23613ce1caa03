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
package shadow

import (
	"slices"

	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"gonum.org/v1/gonum/stat"
)

// Expval estimates the expectation value of an observable from a shadow using
// a median of means over k groups of snapshots.  The observable must be a
// Pauli word or a linear combination of them, acting on the shadow's wires.
func (p Snapshots) Expval(obs observable.Observable, k uint) (float64, error) {
	words, err := decompose(obs)
	if err != nil {
		return 0, err
	} else if k == 0 || k > p.Len() {
		return 0, qerr.Precondition("cannot split %d snapshot(s) into %d group(s)", p.Len(), k)
	}
	//
	var total float64
	//
	for _, w := range words {
		columns, err := p.columns(w)
		if err != nil {
			return 0, err
		}
		//
		total += w.coeff * medianOfMeans(p.snapshotValues(columns), k)
	}
	//
	return total, nil
}

// Map the wires of a Pauli word onto columns of this shadow.
func (p Snapshots) columns(w word) (map[uint]uint8, error) {
	columns := make(map[uint]uint8, len(w.paulis))
	//
	for label, pauli := range w.paulis {
		index := p.wires.IndexOf(label)
		if index < 0 {
			return nil, qerr.UnknownWire(label)
		}
		//
		columns[uint(index)] = pauli
	}
	//
	return columns, nil
}

// The single-snapshot estimate of a Pauli word.  This is the product over the
// word's wires of 3(1-2b) when the wire was measured in the matching basis, and
// zero otherwise.
func (p Snapshots) snapshotValues(columns map[uint]uint8) []float64 {
	values := make([]float64, p.Len())
	//
	for t := range values {
		v := 1.0
		//
		for column, pauli := range columns {
			if p.recipes[t][column] != pauli {
				v = 0
				break
			}
			//
			v *= 3 * float64(1-2*int(p.bits[t][column]))
		}
		//
		values[t] = v
	}
	//
	return values
}

// Split values into k contiguous groups, where the first len%k groups hold one
// extra element, and return the median of the group means.
func medianOfMeans(values []float64, k uint) float64 {
	var (
		n     = uint(len(values))
		means = make([]float64, k)
		start uint
	)
	//
	for i := range k {
		size := n / k
		if i < n%k {
			size++
		}
		//
		means[i] = stat.Mean(values[start:start+size], nil)
		start += size
	}
	//
	slices.Sort(means)
	//
	if k%2 == 1 {
		return means[k/2]
	}
	//
	return (means[k/2-1] + means[k/2]) / 2
}
