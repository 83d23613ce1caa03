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
	"math"
	"testing"

	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
)

func Test_Marginal_00(t *testing.T) {
	// P(w0 w1 w2) with P(011) = 0.5, P(100) = 0.3, P(110) = 0.2
	dist := Single([]float64{0, 0, 0, 0.5, 0.3, 0, 0.2, 0})
	//
	check_Marginal(t, dist, wire.Must(0), 0.5, 0.5)
	check_Marginal(t, dist, wire.Must(1), 0.3, 0.7)
	check_Marginal(t, dist, wire.Must(0, 2), 0, 0.5, 0.5, 0)
	check_Marginal(t, dist, wire.Must(1, 2), 0.3, 0, 0.2, 0.5)
	check_Marginal(t, dist, wire.Must(2, 1), 0.3, 0.2, 0, 0.5)
}

func Test_Marginal_01(t *testing.T) {
	probs := util.GenerateRandomProbabilities(16, 3)
	reg := mustRegistry(4)
	//
	for _, ws := range []wire.Wires{wire.Must(0), wire.Must(3, 1), wire.Must(2, 0, 3), wire.Must(1, 2, 3, 0)} {
		marginal, err := Marginal(Single(probs), reg, ws)
		if err != nil {
			t.Fatal(err)
		}
		//
		var total float64
		for _, p := range marginal.Rows()[0] {
			total += p
		}
		//
		if math.Abs(total-1) > 1e-10 {
			t.Errorf("marginal over %s sums to %v", ws, total)
		}
	}
}

func Test_Marginal_02(t *testing.T) {
	// Marginalizing onto the observable permutation of wires [2, 0, 1] aligns
	// basis states with the factor order (w2, w0, w1).
	reg := mustRegistry(3)
	probs := make([]float64, 8)
	probs[0b011] = 1
	//
	wires, err := reg.PermuteForObservable(wire.Must(2, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	//
	marginal, err := Marginal(Single(probs), reg, wires)
	if err != nil {
		t.Fatal(err)
	}
	//
	if marginal.Rows()[0][0b101] != 1 {
		t.Errorf("unexpected marginal %v", marginal)
	}
}

func Test_Marginal_03(t *testing.T) {
	dist := Batched([]float64{1, 0, 0, 0}, []float64{0, 0, 0, 1})
	marginal, err := Marginal(dist, mustRegistry(2), wire.Must(1))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	a := marginal.Array()
	if !a.Shape().Equals(tensor.Shape{2, 2}) || a.At(0, 0) != 1 || a.At(1, 1) != 1 {
		t.Errorf("unexpected batched marginal %s", a)
	}
}

func Test_Marginal_04(t *testing.T) {
	if _, err := Marginal(Single([]float64{1, 0}), mustRegistry(1), wire.Must("a")); err == nil {
		t.Errorf("unknown wire accepted")
	}
}

func Test_Estimate_00(t *testing.T) {
	buf := sample.FromRows([]uint8{1, 0}, []uint8{1, 0}, []uint8{0, 1}, []uint8{1, 0})
	probs := Estimate(buf, []uint{0, 1}, util.None[uint]())
	//
	check_Array(t, probs, tensor.Shape{4}, 0, 0.25, 0.75, 0)
	// Requested order is honoured directly
	probs = Estimate(buf, []uint{1, 0}, util.None[uint]())
	check_Array(t, probs, tensor.Shape{4}, 0, 0.75, 0.25, 0)
}

func Test_Estimate_01(t *testing.T) {
	buf := estimateSamples()
	//
	check_Array(t, Estimate(buf, []uint{0}, util.Some[uint](2)), tensor.Shape{3, 2, 3},
		0, 0, 0.5, 1, 1, 0.5,
		0.5, 0.5, 0, 0.5, 0.5, 1,
		0, 0.5, 1, 1, 0.5, 0)
}

func Test_Estimate_02(t *testing.T) {
	buf := estimateSamples()
	//
	check_Array(t, Estimate(buf, []uint{0, 1}, util.Some[uint](2)), tensor.Shape{3, 4, 3},
		0, 0, 0, 0, 0, 0.5, 0.5, 0, 0, 0.5, 1, 0.5,
		0.5, 0.5, 0, 0, 0, 0, 0, 0, 0, 0.5, 0.5, 1,
		0, 0.5, 0.5, 0, 0, 0.5, 0.5, 0, 0, 0.5, 0.5, 0)
}

func Test_Estimate_03(t *testing.T) {
	// |10> sampled any number of times is exact
	buf := sample.FromRows([]uint8{1, 0}, []uint8{1, 0}, []uint8{1, 0})
	check_Array(t, Estimate(buf, []uint{0, 1}, util.None[uint]()), tensor.Shape{4}, 0, 0, 1, 0)
}

// ===================================================================
// Test Helpers
// ===================================================================

func estimateSamples() sample.Buffer {
	return sample.NewBuffer(util.Some[uint](3), 6, 2, []uint8{
		1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1,
		0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 1, 1,
		1, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0,
	})
}

func mustRegistry(n uint) *wire.Registry {
	reg, err := wire.NewRegistry(wire.Range(n))
	if err != nil {
		panic(err)
	}
	//
	return reg
}

func check_Marginal(t *testing.T, dist Distribution, wires wire.Wires, expected ...float64) {
	marginal, err := Marginal(dist, mustRegistry(3), wires)
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, marginal.Array(), tensor.Shape{uint(len(expected))}, expected...)
}

func check_Array(t *testing.T, a tensor.Array, shape tensor.Shape, expected ...float64) {
	if !a.Shape().Equals(shape) {
		t.Fatalf("expected shape %s, got %s", shape, a.Shape())
	}
	//
	for i, v := range expected {
		if math.Abs(a.Data()[i]-v) > 1e-12 {
			t.Errorf("expected %v, got %s", expected, a)
			return
		}
	}
}
