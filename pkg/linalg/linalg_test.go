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
	"math"
	"testing"
)

func Test_CMatrix_00(t *testing.T) {
	x := FromRows([]complex128{0, 1}, []complex128{1, 0})
	z := Diagonal(1, -1)
	xz := x.Kron(z)
	//
	expected := FromRows(
		[]complex128{0, 0, 1, 0},
		[]complex128{0, 0, 0, -1},
		[]complex128{1, 0, 0, 0},
		[]complex128{0, -1, 0, 0},
	)
	//
	if !xz.EqualsApprox(expected, Tolerance) {
		t.Errorf("unexpected kronecker product:\n%s", xz)
	}
}

func Test_CMatrix_01(t *testing.T) {
	y := FromRows([]complex128{0, -1i}, []complex128{1i, 0})
	//
	if !y.IsHermitian(Tolerance) || !y.IsUnitary(Tolerance) {
		t.Errorf("PauliY should be hermitian and unitary")
	}
	//
	if FromRows([]complex128{0, 1i}, []complex128{1i, 0}).IsHermitian(Tolerance) {
		t.Errorf("anti-hermitian matrix reported hermitian")
	}
}

func Test_CMatrix_02(t *testing.T) {
	m := FromRows([]complex128{1, 2i}, []complex128{3, 4})
	//
	if m.Trace() != 5 {
		t.Errorf("unexpected trace %v", m.Trace())
	}
	//
	if d := m.Dagger(); d.At(0, 1) != 3 || d.At(1, 0) != -2i {
		t.Errorf("unexpected dagger:\n%s", d)
	}
	//
	if v := m.MulVec([]complex128{1, 1}); v[0] != 1+2i || v[1] != 7 {
		t.Errorf("unexpected product %v", v)
	}
}

func Test_Eigen_00(t *testing.T) {
	check_Eigen(t, Diagonal(3, -1, 2))
}

func Test_Eigen_01(t *testing.T) {
	// PauliY
	check_Eigen(t, FromRows([]complex128{0, -1i}, []complex128{1i, 0}))
}

func Test_Eigen_02(t *testing.T) {
	check_Eigen(t, FromRows(
		[]complex128{2, 1 - 1i, 0},
		[]complex128{1 + 1i, 3, 0.5i},
		[]complex128{0, -0.5i, -1},
	))
}

func Test_Eigen_03(t *testing.T) {
	// Degenerate spectrum {1, 1, -1, -1}
	z := Diagonal(1, -1)
	y := FromRows([]complex128{0, -1i}, []complex128{1i, 0})
	//
	check_Eigen(t, z.Kron(y))
}

func Test_Eigen_04(t *testing.T) {
	values, err := HermitianEigenvalues(FromRows([]complex128{0, 1}, []complex128{1, 0}))
	//
	if err != nil {
		t.Fatal(err)
	} else if len(values) != 2 || math.Abs(values[0]+1) > 1e-9 || math.Abs(values[1]-1) > 1e-9 {
		t.Errorf("unexpected eigenvalues %v", values)
	}
}

func Test_Eigen_05(t *testing.T) {
	if _, err := HermitianEigen(FromRows([]complex128{0, 1}, []complex128{0, 0})); err == nil {
		t.Errorf("non-hermitian matrix accepted")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Check that H = V·diag(λ)·V† with V unitary and λ ascending.
func check_Eigen(t *testing.T, h *CMatrix) {
	eig, err := HermitianEigen(h)
	if err != nil {
		t.Fatal(err)
	}
	//
	if !eig.Vectors.IsUnitary(1e-8) {
		t.Errorf("eigenvectors are not orthonormal:\n%s", eig.Vectors)
	}
	//
	diag := make([]complex128, len(eig.Values))
	for i, v := range eig.Values {
		diag[i] = complex(v, 0)
		//
		if i > 0 && eig.Values[i-1] > v {
			t.Errorf("eigenvalues not ascending: %v", eig.Values)
		}
	}
	//
	rebuilt := eig.Vectors.Mul(Diagonal(diag...)).Mul(eig.Vectors.Dagger())
	//
	if !rebuilt.EqualsApprox(h, 1e-8) {
		t.Errorf("decomposition does not reproduce matrix:\n%s\nvs\n%s", rebuilt, h)
	}
}
