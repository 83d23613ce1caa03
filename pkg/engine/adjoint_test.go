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
package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/consensys/go-qstats/pkg/circuit"
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func Test_Adjoint_00(t *testing.T) {
	for _, theta := range []float64{0, 0.3, math.Pi / 2, 2.1} {
		engine := newEngine(wire.Range(1), shots.Analytic())
		script := circuit.New([]gate.Operation{gate.RX(theta, w0)}, measure.Expval(observable.PauliZ(w0)))
		check_Jacobian(t, engine, script, [][]float64{{-math.Sin(theta)}})
	}
}

func Test_Adjoint_01(t *testing.T) {
	engine := newEngine(wire.Range(2), shots.Analytic())
	script := circuit.New(fixture([]float64{0.3, 0.7, -0.4}),
		measure.Expval(observable.PauliZ(w1)), measure.Expval(observable.PauliX(w0)))
	check_Jacobian(t, engine, script, finiteDifferences(t, []float64{0.3, 0.7, -0.4}))
}

func Test_Adjoint_02(t *testing.T) {
	// Rot is differentiated through its decomposition into rotations.
	var (
		engine   = newEngine(wire.Range(1), shots.Analytic())
		rot      = circuit.New([]gate.Operation{gate.Rot(0.1, 0.2, 0.3, w0)}, measure.Expval(observable.PauliX(w0)))
		expanded = circuit.New([]gate.Operation{gate.RZ(0.1, w0), gate.RY(0.2, w0), gate.RZ(0.3, w0)},
			measure.Expval(observable.PauliX(w0)))
	)
	//
	expected, err := engine.AdjointJacobian(expanded, AdjointOptions{})
	if err != nil {
		t.Fatal(err)
	} else if len(expected[0]) != 3 {
		t.Fatalf("expected 3 parameters, got %d", len(expected[0]))
	}
	//
	check_Jacobian(t, engine, rot, expected)
}

func Test_Adjoint_03(t *testing.T) {
	// The backward pass can start from a known state.
	var (
		engine = newEngine(wire.Range(1), shots.Analytic())
		script = circuit.New([]gate.Operation{gate.RY(0.5, w0)}, measure.Expval(observable.PauliZ(w0)))
		state  = []complex128{complex(math.Cos(0.25), 0), complex(math.Sin(0.25), 0)}
	)
	//
	jac, err := engine.AdjointJacobian(script, AdjointOptions{StartingState: util.Some(state)})
	if err != nil {
		t.Fatal(err)
	} else if math.Abs(jac[0][0]+math.Sin(0.5)) > 1e-9 {
		t.Errorf("expected %f, got %f", -math.Sin(0.5), jac[0][0])
	}
}

func Test_Adjoint_04(t *testing.T) {
	engine := newEngine(wire.Range(1), shots.Analytic())
	script := circuit.New([]gate.Operation{gate.RX(0.2, w0)}, measure.Var(observable.PauliZ(w0)))
	check_AdjointError(t, engine, script, qerr.ErrUnsupportedCombination)
}

func Test_Adjoint_05(t *testing.T) {
	engine := newEngine(wire.Range(1), shots.Analytic())
	h, _ := observable.NewHamiltonian([]float64{0.5}, observable.PauliZ(w0))
	script := circuit.New([]gate.Operation{gate.RX(0.2, w0)}, measure.Expval(h))
	check_AdjointError(t, engine, script, qerr.ErrUnsupportedCombination)
}

func Test_Adjoint_06(t *testing.T) {
	engine := newEngine(wire.Range(1), shots.Analytic())
	script := circuit.New([]gate.Operation{gate.Rot(0.1, 0.2, 0.3, w0).Adjoint()},
		measure.Expval(observable.PauliZ(w0)))
	check_AdjointError(t, engine, script, qerr.ErrUnsupportedCombination)
}

func Test_Adjoint_07(t *testing.T) {
	engine := newEngine(wire.Range(1), shots.Sequence(10, 20))
	script := circuit.New([]gate.Operation{gate.RX(0.2, w0)}, measure.Expval(observable.PauliZ(w0)))
	check_AdjointError(t, engine, script, qerr.ErrUnsupportedCombination)
}

func Test_Adjoint_08(t *testing.T) {
	// Finite shots are ignored, but reported.
	logger, hook := logtest.NewNullLogger()
	engine := newEngine(wire.Range(1), shots.Fixed(100), WithLogger(logger))
	script := circuit.New([]gate.Operation{gate.RX(0.3, w0)}, measure.Expval(observable.PauliZ(w0)))
	//
	check_Jacobian(t, engine, script, [][]float64{{-math.Sin(0.3)}})
	//
	if len(hook.Entries) != 1 {
		t.Errorf("expected one warning, got %d", len(hook.Entries))
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func fixture(params []float64) []gate.Operation {
	return []gate.Operation{
		gate.RX(params[0], w0),
		gate.CNOT(w0, w1),
		gate.RY(params[1], w1),
		gate.Hadamard(w0),
		gate.RZ(params[2], w0),
	}
}

// Central differences of the fixture's expectations, evaluated by executing
// the circuit.
func finiteDifferences(t *testing.T, params []float64) [][]float64 {
	const h = 1e-6
	//
	var (
		engine = newEngine(wire.Range(2), shots.Analytic())
		jac    = [][]float64{make([]float64, len(params)), make([]float64, len(params))}
	)
	//
	eval := func(ps []float64) []float64 {
		engine.Reset()
		//
		result, err := engine.Execute(circuit.New(fixture(ps),
			measure.Expval(observable.PauliZ(w1)), measure.Expval(observable.PauliX(w0))))
		if err != nil {
			t.Fatal(err)
		}
		//
		return []float64{arrayOf(result, 0).Item(), arrayOf(result, 1).Item()}
	}
	//
	for p := range params {
		plus := append([]float64{}, params...)
		minus := append([]float64{}, params...)
		plus[p] += h
		minus[p] -= h
		//
		up, down := eval(plus), eval(minus)
		for i := range jac {
			jac[i][p] = (up[i] - down[i]) / (2 * h)
		}
	}
	//
	return jac
}

func check_Jacobian(t *testing.T, engine *Engine, script *circuit.Script, expected [][]float64) {
	actual, err := engine.AdjointJacobian(script, AdjointOptions{})
	if err != nil {
		t.Fatal(err)
	} else if len(actual) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(actual))
	}
	//
	for i := range expected {
		if len(actual[i]) != len(expected[i]) {
			t.Fatalf("expected %d columns, got %d", len(expected[i]), len(actual[i]))
		}
		//
		for j := range expected[i] {
			if math.Abs(actual[i][j]-expected[i][j]) > 1e-6 {
				t.Errorf("jacobian[%d][%d]: expected %f, got %f", i, j, expected[i][j], actual[i][j])
			}
		}
	}
}

func check_AdjointError(t *testing.T, engine *Engine, script *circuit.Script, expected error) {
	if _, err := engine.AdjointJacobian(script, AdjointOptions{}); !errors.Is(err, expected) {
		t.Errorf("expected %v, got %v", expected, err)
	}
}
