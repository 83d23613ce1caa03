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
package linalg

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Eigen is the eigendecomposition of a Hermitian matrix.  Eigenvalues are in
// ascending order, and the iᵗʰ column of Vectors is an eigenvector for the iᵗʰ
// eigenvalue.  Together the vectors form a unitary matrix.
type Eigen struct {
	Values  []float64
	Vectors *CMatrix
}

// HermitianEigen computes the eigendecomposition of a Hermitian matrix H = A +
// iB.  This is done through the real symmetric embedding [[A, -B], [B, A]],
// whose spectrum is that of H with every eigenvalue doubled.  For an
// eigenvector x+iy of H both [x; y] and [-y; x] are eigenvectors of the
// embedding, hence n independent complex eigenvectors are recovered by
// orthogonalising the candidates from each cluster of equal eigenvalues.
func HermitianEigen(m *CMatrix) (Eigen, error) {
	if !m.IsHermitian(1e-8) {
		return Eigen{}, errors.New("matrix is not hermitian")
	}
	//
	n := m.rows
	values, vectors, err := factorize(m)
	//
	if err != nil {
		return Eigen{}, err
	}
	//
	order := ascending(values)
	result := Eigen{make([]float64, 0, n), NewCMatrix(n, n)}
	//
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && math.Abs(values[order[end]]-values[order[start]]) < clusterTolerance(values) {
			end++
		}
		// Cluster [start, end) has multiplicity (end-start)/2 in H.
		var basis [][]complex128
		//
		for k := start; k < end && len(basis) < (end-start+1)/2; k++ {
			col := order[k]
			candidate := make([]complex128, n)
			//
			for i := uint(0); i < n; i++ {
				candidate[i] = complex(vectors.At(int(i), col), vectors.At(int(i+n), col))
			}
			//
			if v, ok := orthonormalise(candidate, basis); ok {
				basis = append(basis, v)
			}
		}
		//
		for _, v := range basis {
			j := uint(len(result.Values))
			result.Values = append(result.Values, values[order[start]])
			//
			for i := uint(0); i < n; i++ {
				result.Vectors.Set(i, j, v[i])
			}
		}
		//
		start = end
	}
	//
	if uint(len(result.Values)) != n {
		return Eigen{}, errors.New("failed to recover a complete eigenbasis")
	}
	//
	return result, nil
}

// HermitianEigenvalues computes only the (ascending) eigenvalues of a
// Hermitian matrix.
func HermitianEigenvalues(m *CMatrix) ([]float64, error) {
	values, _, err := factorize(m)
	if err != nil {
		return nil, err
	}
	//
	sort.Float64s(values)
	// Every eigenvalue of the embedding appears twice
	result := make([]float64, len(values)/2)
	for i := range result {
		result[i] = values[2*i]
	}
	//
	return result, nil
}

func factorize(m *CMatrix) ([]float64, *mat.Dense, error) {
	var (
		n     = int(m.rows)
		embed = mat.NewSymDense(2*n, nil)
		es    mat.EigenSym
	)
	//
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(uint(i), uint(j))
			embed.SetSym(i, j, real(v))
			embed.SetSym(i+n, j+n, real(v))
			embed.SetSym(i+n, j, imag(v))
		}
	}
	//
	if ok := es.Factorize(embed, true); !ok {
		return nil, nil, errors.New("eigendecomposition failed to converge")
	}
	//
	var vectors mat.Dense
	//
	es.VectorsTo(&vectors)
	//
	return es.Values(nil), &vectors, nil
}

func ascending(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	//
	sort.SliceStable(order, func(i, j int) bool { return values[order[i]] < values[order[j]] })
	//
	return order
}

func clusterTolerance(values []float64) float64 {
	scale := 1.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}
	//
	return 1e-9 * scale
}

// Gram-Schmidt step: orthogonalise v against an orthonormal basis and
// normalise, reporting false when v lies (numerically) within its span.
func orthonormalise(v []complex128, basis [][]complex128) ([]complex128, bool) {
	w := make([]complex128, len(v))
	copy(w, v)
	//
	for _, b := range basis {
		var dot complex128
		for i := range b {
			dot += cmplx.Conj(b[i]) * w[i]
		}
		//
		for i := range w {
			w[i] -= dot * b[i]
		}
	}
	//
	var norm float64
	for _, x := range w {
		norm += real(x)*real(x) + imag(x)*imag(x)
	}
	//
	norm = math.Sqrt(norm)
	if norm < 1e-6 {
		return nil, false
	}
	//
	for i := range w {
		w[i] /= complex(norm, 0)
	}
	//
	return w, true
}
