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
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Tolerance used when comparing matrix entries.
const Tolerance = 1e-10

// CMatrix is a dense complex matrix stored in row-major order.
type CMatrix struct {
	rows uint
	cols uint
	data []complex128
}

// NewCMatrix constructs a zero matrix of the given dimensions.
func NewCMatrix(rows, cols uint) *CMatrix {
	return &CMatrix{rows, cols, make([]complex128, rows*cols)}
}

// Identity constructs the n x n identity matrix.
func Identity(n uint) *CMatrix {
	m := NewCMatrix(n, n)
	for i := uint(0); i < n; i++ {
		m.Set(i, i, 1)
	}
	//
	return m
}

// FromRows constructs a matrix from a slice of equal-length rows.
func FromRows(rows ...[]complex128) *CMatrix {
	if len(rows) == 0 {
		return NewCMatrix(0, 0)
	}
	//
	m := NewCMatrix(uint(len(rows)), uint(len(rows[0])))
	//
	for i, row := range rows {
		if uint(len(row)) != m.cols {
			panic("ragged matrix rows")
		}
		//
		copy(m.data[uint(i)*m.cols:], row)
	}
	//
	return m
}

// Diagonal constructs a square matrix with the given diagonal.
func Diagonal(diag ...complex128) *CMatrix {
	n := uint(len(diag))
	m := NewCMatrix(n, n)
	//
	for i, d := range diag {
		m.Set(uint(i), uint(i), d)
	}
	//
	return m
}

// Dims returns the number of rows and columns of this matrix.
func (m *CMatrix) Dims() (uint, uint) {
	return m.rows, m.cols
}

// At returns the entry at a given row and column.
func (m *CMatrix) At(i, j uint) complex128 {
	return m.data[i*m.cols+j]
}

// Set the entry at a given row and column.
func (m *CMatrix) Set(i, j uint, v complex128) {
	m.data[i*m.cols+j] = v
}

// Clone creates a copy of this matrix, ensuring no aliasing.
func (m *CMatrix) Clone() *CMatrix {
	data := make([]complex128, len(m.data))
	copy(data, m.data)
	//
	return &CMatrix{m.rows, m.cols, data}
}

// Mul returns the matrix product m * o.
func (m *CMatrix) Mul(o *CMatrix) *CMatrix {
	if m.cols != o.rows {
		panic(fmt.Sprintf("incompatible dimensions %dx%d * %dx%d", m.rows, m.cols, o.rows, o.cols))
	}
	//
	r := NewCMatrix(m.rows, o.cols)
	//
	for i := uint(0); i < m.rows; i++ {
		for k := uint(0); k < m.cols; k++ {
			a := m.At(i, k)
			if a == 0 {
				continue
			}
			//
			for j := uint(0); j < o.cols; j++ {
				r.data[i*r.cols+j] += a * o.At(k, j)
			}
		}
	}
	//
	return r
}

// MulVec returns the matrix-vector product m * v.
func (m *CMatrix) MulVec(v []complex128) []complex128 {
	r := make([]complex128, m.rows)
	//
	for i := uint(0); i < m.rows; i++ {
		var sum complex128
		for j := uint(0); j < m.cols; j++ {
			sum += m.At(i, j) * v[j]
		}
		//
		r[i] = sum
	}
	//
	return r
}

// Scale returns this matrix multiplied by a scalar.
func (m *CMatrix) Scale(c complex128) *CMatrix {
	r := m.Clone()
	for i := range r.data {
		r.data[i] *= c
	}
	//
	return r
}

// Add returns the sum of two matrices of identical dimensions.
func (m *CMatrix) Add(o *CMatrix) *CMatrix {
	r := m.Clone()
	for i := range r.data {
		r.data[i] += o.data[i]
	}
	//
	return r
}

// Dagger returns the conjugate transpose of this matrix.
func (m *CMatrix) Dagger() *CMatrix {
	r := NewCMatrix(m.cols, m.rows)
	//
	for i := uint(0); i < m.rows; i++ {
		for j := uint(0); j < m.cols; j++ {
			r.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}
	//
	return r
}

// Kron returns the Kronecker (tensor) product m ⊗ o.
func (m *CMatrix) Kron(o *CMatrix) *CMatrix {
	r := NewCMatrix(m.rows*o.rows, m.cols*o.cols)
	//
	for i := uint(0); i < m.rows; i++ {
		for j := uint(0); j < m.cols; j++ {
			a := m.At(i, j)
			//
			for k := uint(0); k < o.rows; k++ {
				for l := uint(0); l < o.cols; l++ {
					r.Set(i*o.rows+k, j*o.cols+l, a*o.At(k, l))
				}
			}
		}
	}
	//
	return r
}

// Trace returns the sum of the diagonal entries of a square matrix.
func (m *CMatrix) Trace() complex128 {
	var sum complex128
	for i := uint(0); i < min(m.rows, m.cols); i++ {
		sum += m.At(i, i)
	}
	//
	return sum
}

// IsSquare determines whether this matrix has as many rows as columns.
func (m *CMatrix) IsSquare() bool {
	return m.rows == m.cols
}

// IsHermitian determines whether this matrix equals its conjugate transpose
// (within the given tolerance).
func (m *CMatrix) IsHermitian(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	//
	for i := uint(0); i < m.rows; i++ {
		for j := i; j < m.cols; j++ {
			if cmplx.Abs(m.At(i, j)-cmplx.Conj(m.At(j, i))) > tol {
				return false
			}
		}
	}
	//
	return true
}

// IsUnitary determines whether m†m is the identity (within tolerance).
func (m *CMatrix) IsUnitary(tol float64) bool {
	return m.IsSquare() && m.Dagger().Mul(m).EqualsApprox(Identity(m.rows), tol)
}

// EqualsApprox determines whether two matrices agree entrywise within a
// tolerance.
func (m *CMatrix) EqualsApprox(o *CMatrix, tol float64) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	//
	for i := range m.data {
		if cmplx.Abs(m.data[i]-o.data[i]) > tol {
			return false
		}
	}
	//
	return true
}

// Diag returns the diagonal of a square matrix.
func (m *CMatrix) Diag() []complex128 {
	diag := make([]complex128, min(m.rows, m.cols))
	for i := range diag {
		diag[i] = m.At(uint(i), uint(i))
	}
	//
	return diag
}

// IsDiagonal determines whether all off-diagonal entries vanish.
func (m *CMatrix) IsDiagonal(tol float64) bool {
	for i := uint(0); i < m.rows; i++ {
		for j := uint(0); j < m.cols; j++ {
			if i != j && cmplx.Abs(m.At(i, j)) > tol {
				return false
			}
		}
	}
	//
	return true
}

func (m *CMatrix) String() string {
	var builder strings.Builder
	//
	for i := uint(0); i < m.rows; i++ {
		builder.WriteString("[")
		//
		for j := uint(0); j < m.cols; j++ {
			if j != 0 {
				builder.WriteString(" ")
			}
			//
			builder.WriteString(formatComplex(m.At(i, j)))
		}
		//
		builder.WriteString("]\n")
	}
	//
	return builder.String()
}

func formatComplex(c complex128) string {
	if math.Abs(imag(c)) < Tolerance {
		return fmt.Sprintf("%.4g", real(c))
	}
	//
	return fmt.Sprintf("%.4g%+.4gi", real(c), imag(c))
}
