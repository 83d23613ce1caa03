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
package measure

import (
	"errors"
	"math"
	"testing"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/state"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

var (
	w0, w1 = wire.Int(0), wire.Int(1)
	bell   = probability.Single([]float64{0.5, 0, 0, 0.5})
	r      = complex(1/math.Sqrt2, 0)
)

func Test_Kind_00(t *testing.T) {
	for k := Expectation; k <= Transform; k++ {
		if parsed, ok := ParseKind(k.String()); !ok || parsed != k {
			t.Errorf("kind %s does not round trip", k)
		}
	}
	//
	if _, ok := ParseKind("expectation"); ok {
		t.Errorf("unknown kind parsed")
	}
}

func Test_Kind_01(t *testing.T) {
	if !State.IsExclusive() || !ClassicalShadow.IsExclusive() || !ShadowExpval.IsExclusive() {
		t.Errorf("state and shadow measurements must be exclusive")
	} else if Expectation.IsExclusive() || Counts.IsExclusive() {
		t.Errorf("expectation and counts must not be exclusive")
	}
	//
	if !VnEntropy.IsAnalyticOnly() || !MutualInfo.IsAnalyticOnly() || Probability.IsAnalyticOnly() {
		t.Errorf("unexpected analytic-only kinds")
	}
}

func Test_Process_00(t *testing.T) {
	check_String(t, Expval(observable.PauliZ(w0)), "expval(PauliZ(0))")
	check_String(t, Probs(w1, w0), "probs(wires=[1, 0])")
	check_String(t, CountsWires(true), "counts(all_outcomes)")
	check_String(t, SampleWires(), "sample()")
}

func Test_Process_01(t *testing.T) {
	if _, err := MutualInformation(wire.Wires{w0}, wire.Wires{w0, w1}, 0); !errors.Is(err, qerr.ErrConfiguration) {
		t.Errorf("overlapping subsystems accepted (%v)", err)
	}
	//
	mi, err := MutualInformation(wire.Wires{w0}, wire.Wires{w1}, 2)
	if err != nil {
		t.Fatal(err)
	} else if ws := mi.Wires(); !ws.Equals(wire.Wires{w0, w1}) {
		t.Errorf("unexpected wires %s", ws)
	}
}

func Test_Process_02(t *testing.T) {
	if _, err := ShadowExpvalOf(observable.PauliZ(w0), 0, util.None[uint64]()); !errors.Is(err, qerr.ErrConfiguration) {
		t.Errorf("zero groups accepted (%v)", err)
	}
	//
	if _, err := ShadowExpvalOf(observable.Hadamard(w0), 1, util.None[uint64]()); err == nil {
		t.Errorf("non-Pauli observable accepted")
	}
	//
	p, err := ShadowExpvalOf(observable.PauliX(w1), 3, util.Some[uint64](9))
	if err != nil {
		t.Fatal(err)
	} else if p.Seed() != 9 || p.K() != 3 {
		t.Errorf("unexpected shadow parameters")
	}
}

func Test_Process_03(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	//
	Expval(observable.NewOpaque("Mystery", w0))
	//
	if entry := hook.LastEntry(); entry == nil || entry.Message != "Mystery might not be hermitian." {
		t.Errorf("missing hermiticity advisory")
	}
	//
	hook.Reset()
	Var(observable.PauliZ(w0))
	//
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected advisory for PauliZ")
	}
}

func Test_Process_04(t *testing.T) {
	if _, err := ProbsOf(observable.NewOpaque("Mystery", w0)); err == nil {
		t.Errorf("probabilities of an opaque observable accepted")
	}
}

// ===================================================================
// Shapes
// ===================================================================

func Test_Shape_00(t *testing.T) {
	check_Shape(t, Expval(observable.PauliZ(w0)), shots.Analytic(), 3, tensor.Shape{})
	check_Shape(t, Probs(w0, w1), shots.Analytic(), 3, tensor.Shape{4})
	check_Shape(t, Probs(), shots.Fixed(10), 3, tensor.Shape{8})
	check_Shape(t, StateOf(), shots.Analytic(), 3, tensor.Shape{8})
	check_Shape(t, StateOf(w1), shots.Analytic(), 3, tensor.Shape{2, 2})
}

func Test_Shape_01(t *testing.T) {
	check_Shape(t, SampleWires(), shots.Fixed(10), 3, tensor.Shape{10, 3})
	check_Shape(t, SampleWires(w0), shots.Fixed(1), 3, tensor.Shape{1})
	check_Shape(t, SampleOf(observable.PauliZ(w0)), shots.Fixed(10), 3, tensor.Shape{10})
	check_Shape(t, SampleOf(observable.PauliZ(w0)), shots.Fixed(1), 3, tensor.Shape{})
	check_Shape(t, Shadow(util.Some[uint64](1), w0, w1), shots.Fixed(5), 3, tensor.Shape{2, 5, 2})
}

func Test_Shape_02(t *testing.T) {
	spec := shots.Vector(shots.Entry{Shots: 5, Copies: 1}, shots.Entry{Shots: 10, Copies: 2})
	shapes, err := SampleWires(w0).Shape(spec, wire.Range(2))
	//
	if err != nil {
		t.Fatal(err)
	} else if len(shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(shapes))
	}
	//
	for i, expected := range []tensor.Shape{{5, 1}, {10, 1}, {10, 1}} {
		if !shapes[i].Equals(expected) {
			t.Errorf("shape %d is %s, expected %s", i, shapes[i], expected)
		}
	}
}

func Test_Shape_03(t *testing.T) {
	if _, err := SampleWires().Shape(shots.Analytic(), wire.Range(2)); !errors.Is(err, qerr.ErrPrecondition) {
		t.Errorf("analytic samples have a shape (%v)", err)
	}
	//
	_, err := CountsWires(false).Shape(shots.Fixed(10), wire.Range(2))
	if !errors.Is(err, qerr.ErrUnsupportedCombination) {
		t.Errorf("counts have a shape (%v)", err)
	}
}

func Test_Shape_04(t *testing.T) {
	var (
		q        = wire.Name("q")
		reversed = wire.Wires{w1, w0}
	)
	// All device wires in device order give the state vector
	check_Shape(t, StateOf(w0, w1), shots.Analytic(), 2, tensor.Shape{4})
	check_ShapeOn(t, StateOf(w1, w0), shots.Analytic(), reversed, tensor.Shape{4})
	check_ShapeOn(t, StateOf(q, w0), shots.Analytic(), wire.Wires{q, w0}, tensor.Shape{4})
	// Reordered or strict subsets give a density matrix
	check_Shape(t, StateOf(w1, w0), shots.Analytic(), 2, tensor.Shape{4, 4})
	check_Shape(t, StateOf(w0, w1), shots.Analytic(), 3, tensor.Shape{4, 4})
	check_ShapeOn(t, StateOf(w0), shots.Analytic(), wire.Wires{q, w0}, tensor.Shape{2, 2})
}

func Test_NumericType_00(t *testing.T) {
	check_NumericType(t, Expval(observable.PauliZ(w0)), tensor.Float64)
	check_NumericType(t, SampleOf(observable.PauliZ(w0)), tensor.Int64)
	check_NumericType(t, SampleWires(), tensor.Int64)
	check_NumericType(t, SampleOf(diagonal(0.5, -0.5)), tensor.Float64)
	check_NumericType(t, StateOf(), tensor.Complex128)
	//
	if _, err := NewTransform(nil).NumericType(); err == nil {
		t.Errorf("transform has a numeric type")
	}
}

// ===================================================================
// States
// ===================================================================

func Test_ProcessState_00(t *testing.T) {
	value, err := StateOf().ProcessState(bellState(), mustRegistry(2))
	if err != nil {
		t.Fatal(err)
	}
	//
	amps := value.(tensor.CArray)
	if !amps.Shape().Equals(tensor.Shape{4}) || amps.At(0) != r || amps.At(3) != r {
		t.Errorf("unexpected state %s", amps)
	}
}

func Test_ProcessState_01(t *testing.T) {
	value, err := StateOf(w1).ProcessState(bellState(), mustRegistry(2))
	if err != nil {
		t.Fatal(err)
	}
	//
	rho := value.(tensor.CArray)
	if !rho.Shape().Equals(tensor.Shape{2, 2}) {
		t.Fatalf("unexpected shape %s", rho.Shape())
	}
	//
	if math.Abs(real(rho.At(0, 0))-0.5) > 1e-12 || math.Abs(real(rho.At(1, 1))-0.5) > 1e-12 ||
		rho.At(0, 1) != 0 {
		t.Errorf("unexpected reduced density matrix %s", rho)
	}
}

func Test_ProcessState_02(t *testing.T) {
	value, err := Entropy(0, w0).ProcessState(bellState(), mustRegistry(2))
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{}, math.Ln2)
	//
	mi, _ := MutualInformation(wire.Wires{w0}, wire.Wires{w1}, 2)
	//
	if value, err = mi.ProcessState(bellState(), mustRegistry(2)); err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{}, 2)
}

func Test_ProcessState_03(t *testing.T) {
	batch := state.Batched([]complex128{r, 0, 0, r}, []complex128{1, 0, 0, 0})
	value, err := Entropy(0, w1).ProcessState(batch, mustRegistry(2))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{2}, math.Ln2, 0)
	//
	if _, err := Expval(observable.PauliZ(w0)).ProcessState(batch, mustRegistry(2)); err == nil {
		t.Errorf("expectation computed from a state")
	}
}

// ===================================================================
// Probabilities
// ===================================================================

func Test_ProcessProbability_00(t *testing.T) {
	zz, _ := observable.NewTensor(observable.PauliZ(w0), observable.PauliZ(w1))
	//
	check_Probability(t, Expval(observable.PauliZ(w0)), bell, tensor.Shape{}, 0)
	check_Probability(t, Var(observable.PauliZ(w0)), bell, tensor.Shape{}, 1)
	check_Probability(t, Expval(zz), bell, tensor.Shape{}, 1)
	check_Probability(t, Var(zz), bell, tensor.Shape{}, 0)
	check_Probability(t, Probs(w1), bell, tensor.Shape{2}, 0.5, 0.5)
	check_Probability(t, Probs(), bell, tensor.Shape{4}, 0.5, 0, 0, 0.5)
}

func Test_ProcessProbability_01(t *testing.T) {
	proj, _ := observable.NewProjector([]uint{1, 1}, w0, w1)
	//
	check_Probability(t, Expval(proj), bell, tensor.Shape{}, 0.5)
	check_Probability(t, Var(proj), bell, tensor.Shape{}, 0.25)
}

func Test_ProcessProbability_02(t *testing.T) {
	dist := probability.Batched([]float64{1, 0, 0, 0}, []float64{0, 0, 0, 1}, []float64{0, 0.5, 0, 0.5})
	//
	check_Probability(t, Expval(observable.PauliZ(w0)), dist, tensor.Shape{3}, 1, -1, 0)
	check_Probability(t, Expval(observable.PauliZ(w1)), dist, tensor.Shape{3}, 1, -1, -1)
	check_Probability(t, Probs(w1), dist, tensor.Shape{3, 2}, 1, 0, 0, 1, 0, 1)
}

func Test_ProcessProbability_03(t *testing.T) {
	_, err := Expval(observable.NewOpaque("Mystery", w0)).ProcessProbability(bell, mustRegistry(2))
	//
	if !errors.Is(err, qerr.ErrEigvalsUndefined) {
		t.Errorf("expected undefined eigenvalues, got %v", err)
	}
	//
	if _, err = Expval(observable.PauliZ(wire.Int(5))).ProcessProbability(bell, mustRegistry(2)); !errors.Is(err,
		qerr.ErrUnknownWire) {
		t.Errorf("expected unknown wire, got %v", err)
	}
}

// ===================================================================
// Samples
// ===================================================================

func Test_ProcessSamples_00(t *testing.T) {
	check_Samples(t, Expval(observable.PauliZ(w0)), tensor.Shape{}, 0)
	check_Samples(t, Var(observable.PauliZ(w0)), tensor.Shape{}, 1)
	check_Samples(t, Expval(observable.PauliZ(w1)), tensor.Shape{}, -0.5)
	check_Samples(t, Var(observable.PauliZ(w1)), tensor.Shape{}, 0.75)
	check_Samples(t, Probs(w1), tensor.Shape{2}, 0.25, 0.75)
}

func Test_ProcessSamples_01(t *testing.T) {
	proj, _ := observable.NewProjector([]uint{1}, w1)
	//
	check_Samples(t, Expval(proj), tensor.Shape{}, 0.75)
	check_Samples(t, Var(proj), tensor.Shape{}, 0.1875)
}

func Test_ProcessSamples_02(t *testing.T) {
	value := check_Samples(t, SampleOf(observable.PauliZ(w0)), tensor.Shape{4}, 1, -1, 1, -1)
	if value.DType() != tensor.Int64 {
		t.Errorf("expected integer samples, got %s", value.DType())
	}
	//
	check_Samples(t, SampleWires(w1), tensor.Shape{4, 1}, 1, 1, 1, 0)
	check_Samples(t, SampleWires(), tensor.Shape{4, 2}, 0, 1, 1, 1, 0, 1, 1, 0)
	//
	value = check_Samples(t, SampleOf(diagonal(0.5, -0.5)), tensor.Shape{4}, -0.5, 0.5, -0.5, 0.5)
	if value.DType() != tensor.Float64 {
		t.Errorf("expected real samples, got %s", value.DType())
	}
}

func Test_ProcessSamples_03(t *testing.T) {
	bins := util.Some[uint](2)
	//
	check_Binned(t, Expval(observable.PauliZ(w1)), bins, tensor.Shape{2}, -1, 0)
	check_Binned(t, Var(observable.PauliZ(w1)), bins, tensor.Shape{2}, 0, 1)
	check_Binned(t, SampleOf(observable.PauliZ(w0)), bins, tensor.Shape{2, 2}, 1, 1, -1, -1)
	check_Binned(t, Probs(w1), bins, tensor.Shape{2, 2}, 0, 0.5, 1, 0.5)
}

func Test_ProcessSamples_04(t *testing.T) {
	var (
		shotRange = util.Some(sample.Range{Start: 1, End: 3})
		reg       = mustRegistry(2)
	)
	//
	value, err := Expval(observable.PauliZ(w1)).ProcessSamples(samples(), reg, shotRange, util.None[uint]())
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{}, -1)
	//
	_, err = Expval(observable.PauliZ(w1)).ProcessSamples(samples(), reg, util.None[sample.Range](), util.Some[uint](3))
	if !errors.Is(err, qerr.ErrConfiguration) {
		t.Errorf("uneven bins accepted (%v)", err)
	}
}

func Test_ProcessSamples_05(t *testing.T) {
	counts := check_Counts(t, CountsWires(false), util.None[uint]())
	//
	if counts.Get("01") != 2 || counts.Get("11") != 1 || counts.Get("10") != 1 || counts.Has("00") {
		t.Errorf("unexpected counts %s", counts)
	}
	//
	counts = check_Counts(t, CountsWires(true), util.None[uint]())
	//
	if counts.Len() != 4 || !counts.Has("00") || counts.Total() != 4 {
		t.Errorf("unexpected counts %s", counts)
	}
}

func Test_ProcessSamples_06(t *testing.T) {
	counts := check_Counts(t, CountsOf(observable.PauliZ(w0), false), util.None[uint]())
	//
	if counts.Get("1") != 2 || counts.Get("-1") != 2 || counts.Len() != 2 {
		t.Errorf("unexpected counts %s", counts)
	}
	//
	counts = check_Counts(t, CountsOf(observable.PauliZ(w1), true), util.None[uint]())
	//
	if counts.Get("1") != 1 || counts.Get("-1") != 3 {
		t.Errorf("unexpected counts %s", counts)
	}
}

func Test_ProcessSamples_07(t *testing.T) {
	value, err := CountsWires(false, w0).ProcessSamples(samples(), mustRegistry(2), util.None[sample.Range](),
		util.Some[uint](2))
	if err != nil {
		t.Fatal(err)
	}
	//
	list, ok := value.(CountsList)
	if !ok || len(list) != 2 {
		t.Fatalf("expected two bins of counts, got %s", value)
	}
	//
	if list[0].Get("0") != 1 || list[0].Get("1") != 1 || list[1].Get("0") != 1 || list[1].Get("1") != 1 {
		t.Errorf("unexpected binned counts %s", list)
	}
}

func Test_ProcessSamples_08(t *testing.T) {
	var (
		buf = sample.NewBuffer(util.Some[uint](2), 2, 1, []uint8{0, 0, 1, 0})
		reg = mustRegistry(1)
	)
	//
	value, err := Expval(observable.PauliZ(w0)).ProcessSamples(buf, reg, util.None[sample.Range](), util.None[uint]())
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{2}, 1, 0)
	//
	if value, err = SampleWires().ProcessSamples(buf, reg, util.None[sample.Range](), util.None[uint]()); err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{2, 2, 1}, 0, 0, 1, 0)
}

func Test_ProcessTape_00(t *testing.T) {
	fn := func(Tape, device.Kernel) (Value, error) { return tensor.Scalar(tensor.Float64, 42), nil }
	value, err := NewTransform(fn).ProcessTape(nil, nil)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	check_Array(t, value.(tensor.Array), tensor.Shape{}, 42)
	//
	if _, err = Probs().ProcessTape(nil, nil); err == nil {
		t.Errorf("probabilities evaluated as a transform")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Four shots on two wires.
func samples() sample.Buffer {
	return sample.FromRows([]uint8{0, 1}, []uint8{1, 1}, []uint8{0, 1}, []uint8{1, 0})
}

func bellState() state.Vector {
	return state.Single([]complex128{r, 0, 0, r})
}

func diagonal(a, b float64) observable.Observable {
	obs, err := observable.NewHermitian(linalg.Diagonal(complex(a, 0), complex(b, 0)), w0)
	if err != nil {
		panic(err)
	}
	//
	return obs
}

func mustRegistry(n uint) *wire.Registry {
	reg, err := wire.NewRegistry(wire.Range(n))
	if err != nil {
		panic(err)
	}
	//
	return reg
}

func check_String(t *testing.T, p Process, expected string) {
	if s := p.String(); s != expected {
		t.Errorf("expected %q, got %q", expected, s)
	}
}

func check_Shape(t *testing.T, p Process, spec shots.Spec, n uint, expected tensor.Shape) {
	check_ShapeOn(t, p, spec, wire.Range(n), expected)
}

func check_ShapeOn(t *testing.T, p Process, spec shots.Spec, wires wire.Wires, expected tensor.Shape) {
	shapes, err := p.Shape(spec, wires)
	//
	if err != nil {
		t.Errorf("%s: %v", p, err)
	} else if len(shapes) != 1 || !shapes[0].Equals(expected) {
		t.Errorf("%s: expected shape %s, got %v", p, expected, shapes)
	}
}

func check_NumericType(t *testing.T, p Process, expected tensor.DType) {
	dtype, err := p.NumericType()
	//
	if err != nil {
		t.Errorf("%s: %v", p, err)
	} else if dtype != expected {
		t.Errorf("%s: expected %s, got %s", p, expected, dtype)
	}
}

func check_Probability(t *testing.T, p Process, dist probability.Distribution, shape tensor.Shape,
	expected ...float64) {
	value, err := p.ProcessProbability(dist, mustRegistry(2))
	if err != nil {
		t.Fatalf("%s: %v", p, err)
	}
	//
	check_Array(t, value.(tensor.Array), shape, expected...)
}

func check_Samples(t *testing.T, p Process, shape tensor.Shape, expected ...float64) tensor.Array {
	return check_Binned(t, p, util.None[uint](), shape, expected...)
}

func check_Binned(t *testing.T, p Process, binSize util.Option[uint], shape tensor.Shape,
	expected ...float64) tensor.Array {
	value, err := p.ProcessSamples(samples(), mustRegistry(2), util.None[sample.Range](), binSize)
	if err != nil {
		t.Fatalf("%s: %v", p, err)
	}
	//
	array := value.(tensor.Array)
	check_Array(t, array, shape, expected...)
	//
	return array
}

func check_Counts(t *testing.T, p Process, binSize util.Option[uint]) OutcomeCounts {
	value, err := p.ProcessSamples(samples(), mustRegistry(2), util.None[sample.Range](), binSize)
	if err != nil {
		t.Fatalf("%s: %v", p, err)
	}
	//
	counts, ok := value.(OutcomeCounts)
	if !ok {
		t.Fatalf("%s: expected counts, got %s", p, value)
	}
	//
	return counts
}

func check_Array(t *testing.T, a tensor.Array, shape tensor.Shape, expected ...float64) {
	if !a.Shape().Equals(shape) {
		t.Fatalf("expected shape %s, got %s", shape, a.Shape())
	} else if a.Size() != uint(len(expected)) {
		t.Fatalf("expected %d element(s), got %s", len(expected), a)
	}
	//
	for i, v := range expected {
		if math.Abs(a.Data()[i]-v) > 1e-9 {
			t.Errorf("expected %v, got %s", expected, a)
			return
		}
	}
}
