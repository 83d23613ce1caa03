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
	"testing"

	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/tensor"
)

var (
	r    = complex(1/math.Sqrt2, 0)
	bell = Single([]complex128{r, 0, 0, r})
	// |+⟩ ⊗ |0⟩
	plusZero = Single([]complex128{r, 0, r, 0})
)

func Test_Density_00(t *testing.T) {
	rho := ReducedDensityMatrix(plusZero.Rows()[0], []uint{0}, 2)
	//
	if !rho.EqualsApprox(linalg.FromRows([]complex128{0.5, 0.5}, []complex128{0.5, 0.5}), 1e-12) {
		t.Errorf("unexpected reduced density matrix:\n%s", rho)
	}
	//
	rho = ReducedDensityMatrix(plusZero.Rows()[0], []uint{1}, 2)
	if !rho.EqualsApprox(linalg.Diagonal(1, 0), 1e-12) {
		t.Errorf("unexpected reduced density matrix:\n%s", rho)
	}
}

func Test_Density_01(t *testing.T) {
	// Keeping every wire gives the pure state projector, in the order given.
	psi := []complex128{0, 1, 0, 0}
	rho := ReducedDensityMatrix(psi, []uint{1, 0}, 2)
	//
	if rho.At(2, 2) != 1 || rho.Trace() != 1 {
		t.Errorf("unexpected density matrix:\n%s", rho)
	}
}

func Test_Entropy_00(t *testing.T) {
	check_Entropy(t, bell, []uint{0}, 0, math.Ln2)
	check_Entropy(t, bell, []uint{1}, 2, 1)
	check_Entropy(t, bell, []uint{0, 1}, 0, 0)
	check_Entropy(t, plusZero, []uint{0}, 0, 0)
}

func Test_Entropy_01(t *testing.T) {
	mi, err := bell.MutualInfo([]uint{0}, []uint{1}, 0)
	//
	if err != nil {
		t.Fatal(err)
	} else if math.Abs(mi[0]-2*math.Ln2) > 1e-9 {
		t.Errorf("unexpected mutual information %v", mi)
	}
	//
	if mi, _ := plusZero.MutualInfo([]uint{0}, []uint{1}, 2); math.Abs(mi[0]) > 1e-9 {
		t.Errorf("product state has mutual information %v", mi)
	}
}

func Test_Vector_00(t *testing.T) {
	v := Batched([]complex128{1, 0}, []complex128{r, -r})
	//
	if v.NumWires() != 1 || !v.Batch().HasValue() {
		t.Errorf("unexpected batched state")
	}
	//
	probs := v.Probabilities().Rows()
	if probs[0][0] != 1 || math.Abs(probs[1][1]-0.5) > 1e-12 {
		t.Errorf("unexpected probabilities %v", probs)
	}
	//
	if a := v.Array(tensor.Complex128); a.Shape()[0] != 2 || a.Shape()[1] != 2 {
		t.Errorf("unexpected array shape %s", a.Shape())
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Entropy(t *testing.T, v Vector, wires []uint, base float64, expected float64) {
	s, err := v.VnEntropy(wires, base)
	if err != nil {
		t.Fatal(err)
	}
	//
	if math.Abs(s[0]-expected) > 1e-9 {
		t.Errorf("entropy of %v on %v is %v, expected %v", v.Rows(), wires, s[0], expected)
	}
}
