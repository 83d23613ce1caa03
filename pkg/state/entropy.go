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
package state

import (
	"math"
	"math/cmplx"

	"github.com/consensys/go-qstats/pkg/linalg"
	"gonum.org/v1/gonum/floats"
)

// ReducedDensityMatrix returns the density matrix of a pure state over n wires
// traced down to a subset of its wires (given as device indices, the first
// being the most significant of the result).
func ReducedDensityMatrix(amplitudes []complex128, wires []uint, n uint) *linalg.CMatrix {
	var (
		k    = uint(len(wires))
		dim  = uint(1) << k
		rho  = linalg.NewCMatrix(dim, dim)
		mask uint
		// groups[rest][sub] is the amplitude with the given bits
		groups = make(map[uint][]complex128)
	)
	//
	for _, w := range wires {
		mask |= 1 << (n - 1 - w)
	}
	//
	for i, a := range amplitudes {
		if a == 0 {
			continue
		}
		//
		var (
			rest = uint(i) &^ mask
			sub  uint
		)
		//
		for _, w := range wires {
			sub = (sub << 1) | ((uint(i) >> (n - 1 - w)) & 1)
		}
		//
		if groups[rest] == nil {
			groups[rest] = make([]complex128, dim)
		}
		//
		groups[rest][sub] = a
	}
	//
	for _, psi := range groups {
		for a := uint(0); a < dim; a++ {
			if psi[a] == 0 {
				continue
			}
			//
			for b := uint(0); b < dim; b++ {
				rho.Set(a, b, rho.At(a, b)+psi[a]*cmplx.Conj(psi[b]))
			}
		}
	}
	//
	return rho
}

// Entropy returns the von Neumann entropy -Tr(ρ log ρ) of a density matrix,
// using logarithms of a given base (or natural logarithms when base is zero).
func Entropy(rho *linalg.CMatrix, base float64) (float64, error) {
	eigvals, err := linalg.HermitianEigenvalues(rho)
	if err != nil {
		return 0, err
	}
	//
	terms := make([]float64, 0, len(eigvals))
	for _, p := range eigvals {
		if p > linalg.Tolerance {
			terms = append(terms, -p*math.Log(p))
		}
	}
	//
	entropy := floats.Sum(terms)
	if base != 0 {
		entropy /= math.Log(base)
	}
	//
	return entropy, nil
}

// VnEntropy returns the von Neumann entropy of the reduced state on some
// wires, for each batch row.
func (v Vector) VnEntropy(wires []uint, base float64) ([]float64, error) {
	n := v.NumWires()
	result := make([]float64, len(v.rows))
	//
	for i, row := range v.rows {
		s, err := Entropy(ReducedDensityMatrix(row, wires, n), base)
		if err != nil {
			return nil, err
		}
		//
		result[i] = s
	}
	//
	return result, nil
}

// MutualInfo returns the mutual information S(A) + S(B) - S(AB) between two
// disjoint sets of wires, for each batch row.
func (v Vector) MutualInfo(a, b []uint, base float64) ([]float64, error) {
	sa, err := v.VnEntropy(a, base)
	if err != nil {
		return nil, err
	}
	//
	sb, err := v.VnEntropy(b, base)
	if err != nil {
		return nil, err
	}
	//
	sab, err := v.VnEntropy(append(append([]uint{}, a...), b...), base)
	if err != nil {
		return nil, err
	}
	//
	for i := range sa {
		sa[i] += sb[i] - sab[i]
	}
	//
	return sa, nil
}
