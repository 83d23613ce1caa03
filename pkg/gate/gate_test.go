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
	"testing"

	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/wire"
)

var w0, w1 = wire.Int(0), wire.Int(1)

func Test_Gate_00(t *testing.T) {
	for _, op := range []Operation{Hadamard(w0), PauliX(w0), PauliY(w0), PauliZ(w0), S(w0), T(w0),
		RX(0.3, w0), RY(1.2, w0), RZ(-0.7, w0), PhaseShift(0.4, w0), Rot(0.1, 0.2, 0.3, w0),
		CNOT(w0, w1), CZ(w0, w1), SWAP(w0, w1)} {
		if !op.Matrix().IsUnitary(1e-12) {
			t.Errorf("%s is not unitary", op)
		}
	}
}

func Test_Gate_01(t *testing.T) {
	// CNOT maps |10> to |11>
	state := CNOT(w0, w1).Matrix().MulVec([]complex128{0, 0, 1, 0})
	//
	if state[3] != 1 || state[2] != 0 {
		t.Errorf("unexpected CNOT action %v", state)
	}
}

func Test_Gate_02(t *testing.T) {
	op := RY(0.9, w0)
	product := op.Matrix().Mul(op.Adjoint().Matrix())
	//
	if !product.EqualsApprox(linalg.Identity(2), 1e-12) {
		t.Errorf("adjoint is not the inverse:\n%s", product)
	}
}

func Test_Gate_03(t *testing.T) {
	check_Derivative(t, func(x float64) Operation { return RX(x, w0) }, 0.37)
}

func Test_Gate_04(t *testing.T) {
	check_Derivative(t, func(x float64) Operation { return RY(x, w0) }, -1.1)
}

func Test_Gate_05(t *testing.T) {
	check_Derivative(t, func(x float64) Operation { return RZ(x, w0) }, 2.5)
}

func Test_Gate_06(t *testing.T) {
	check_Derivative(t, func(x float64) Operation { return PhaseShift(x, w0) }, 0.8)
}

func Test_Gate_07(t *testing.T) {
	rot := Rot(0.4, -0.3, 1.9, w0)
	ops, ok := rot.Decomposition()
	//
	if !ok || len(ops) != 3 {
		t.Fatalf("expected decomposition of %s", rot)
	}
	// Operations are applied left to right
	product := linalg.Identity(2)
	for _, op := range ops {
		product = op.Matrix().Mul(product)
	}
	//
	if !product.EqualsApprox(rot.Matrix(), 1e-12) {
		t.Errorf("decomposition does not reproduce %s", rot)
	}
}

func Test_Gate_08(t *testing.T) {
	if _, err := New("CNOT", wire.Wires{w0}); err == nil {
		t.Errorf("CNOT on one wire accepted")
	}
	//
	if _, err := New("RX", wire.Wires{w0}); err == nil {
		t.Errorf("RX without parameter accepted")
	}
	//
	if _, err := New("Toffoli", wire.Wires{w0}); err == nil {
		t.Errorf("unknown gate accepted")
	}
}

func Test_Gate_09(t *testing.T) {
	if _, err := Unitary(linalg.Diagonal(1, 2), w0); err == nil {
		t.Errorf("non-unitary matrix accepted")
	}
	//
	op, err := Unitary(Hadamard(w0).Matrix(), w0)
	if err != nil {
		t.Fatal(err)
	}
	//
	if op.IsDifferentiable() || op.NumParams() != 0 {
		t.Errorf("unexpected properties for %s", op)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Compare the analytic derivative against a central finite difference.
func check_Derivative(t *testing.T, op func(float64) Operation, x float64) {
	const h = 1e-6
	//
	analytic, err := op(x).Derivative()
	if err != nil {
		t.Fatal(err)
	}
	//
	numeric := op(x + h).Matrix().Add(op(x - h).Matrix().Scale(-1)).Scale(complex(1/(2*h), 0))
	//
	if !analytic.EqualsApprox(numeric, 1e-6) {
		t.Errorf("derivative of %s mismatch:\n%s\nvs\n%s", op(x), analytic, numeric)
	}
	//
	if math.IsNaN(real(analytic.At(0, 0))) {
		t.Errorf("NaN derivative")
	}
}
