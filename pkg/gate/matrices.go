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
package gate

import (
	"math"
	"math/cmplx"

	"github.com/consensys/go-qstats/pkg/linalg"
)

type gateInfo struct {
	arity  int
	params int
	matrix func([]float64) *linalg.CMatrix
	// Derivative with respect to the (single) parameter, or nil.
	derivative func(float64) *linalg.CMatrix
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

var standard = map[string]gateInfo{
	"Identity": {1, 0, constant(linalg.Identity(2)), nil},
	"Hadamard": {1, 0, constant(linalg.FromRows(
		[]complex128{invSqrt2, invSqrt2},
		[]complex128{invSqrt2, -invSqrt2})), nil},
	"PauliX": {1, 0, constant(PauliXMatrix()), nil},
	"PauliY": {1, 0, constant(PauliYMatrix()), nil},
	"PauliZ": {1, 0, constant(PauliZMatrix()), nil},
	"S":      {1, 0, constant(linalg.Diagonal(1, 1i)), nil},
	"T":      {1, 0, constant(linalg.Diagonal(1, cmplx.Exp(complex(0, math.Pi/4)))), nil},
	"RX":     {1, 1, func(p []float64) *linalg.CMatrix { return rx(p[0]) }, rotationDerivative(rx, PauliXMatrix())},
	"RY":     {1, 1, func(p []float64) *linalg.CMatrix { return ry(p[0]) }, rotationDerivative(ry, PauliYMatrix())},
	"RZ":     {1, 1, func(p []float64) *linalg.CMatrix { return rz(p[0]) }, rotationDerivative(rz, PauliZMatrix())},
	"PhaseShift": {1, 1, func(p []float64) *linalg.CMatrix {
		return linalg.Diagonal(1, cmplx.Exp(complex(0, p[0])))
	}, func(phi float64) *linalg.CMatrix {
		return linalg.Diagonal(0, 1i*cmplx.Exp(complex(0, phi)))
	}},
	"Rot": {1, 3, func(p []float64) *linalg.CMatrix {
		return rz(p[2]).Mul(ry(p[1])).Mul(rz(p[0]))
	}, nil},
	"CNOT": {2, 0, constant(permutation(0, 1, 3, 2)), nil},
	"CZ":   {2, 0, constant(linalg.Diagonal(1, 1, 1, -1)), nil},
	"SWAP": {2, 0, constant(permutation(0, 2, 1, 3)), nil},
}

// PauliXMatrix returns the matrix of the Pauli X operator.
func PauliXMatrix() *linalg.CMatrix {
	return linalg.FromRows([]complex128{0, 1}, []complex128{1, 0})
}

// PauliYMatrix returns the matrix of the Pauli Y operator.
func PauliYMatrix() *linalg.CMatrix {
	return linalg.FromRows([]complex128{0, -1i}, []complex128{1i, 0})
}

// PauliZMatrix returns the matrix of the Pauli Z operator.
func PauliZMatrix() *linalg.CMatrix {
	return linalg.Diagonal(1, -1)
}

func constant(m *linalg.CMatrix) func([]float64) *linalg.CMatrix {
	return func([]float64) *linalg.CMatrix { return m.Clone() }
}

func rx(theta float64) *linalg.CMatrix {
	c, s := complex(math.Cos(theta/2), 0), complex(0, -math.Sin(theta/2))
	return linalg.FromRows([]complex128{c, s}, []complex128{s, c})
}

func ry(theta float64) *linalg.CMatrix {
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	return linalg.FromRows([]complex128{c, -s}, []complex128{s, c})
}

func rz(theta float64) *linalg.CMatrix {
	return linalg.Diagonal(cmplx.Exp(complex(0, -theta/2)), cmplx.Exp(complex(0, theta/2)))
}

// For U(θ) = exp(-iθP/2) the derivative is -i/2 P U(θ).
func rotationDerivative(u func(float64) *linalg.CMatrix, pauli *linalg.CMatrix) func(float64) *linalg.CMatrix {
	return func(theta float64) *linalg.CMatrix {
		return pauli.Mul(u(theta)).Scale(-0.5i)
	}
}

// Construct the permutation matrix mapping basis state i to basis state perm[i].
func permutation(perm ...uint) *linalg.CMatrix {
	n := uint(len(perm))
	m := linalg.NewCMatrix(n, n)
	//
	for i, j := range perm {
		m.Set(j, uint(i), 1)
	}
	//
	return m
}
