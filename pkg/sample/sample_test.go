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
package sample

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/util"
)

func Test_Binary_00(t *testing.T) {
	for n := uint(1); n <= 10; n++ {
		check_RoundTrip(t, n)
	}
}

func Test_Binary_01(t *testing.T) {
	indices := util.GenerateRandomIndices(100, 20, 7)
	//
	masked, shifted := maskStates(indices, 20), shiftStates(indices, 20)
	for i := range indices {
		if !slices.Equal(masked[i], shifted[i]) {
			t.Errorf("conversions of %d disagree: %v vs %v", indices[i], masked[i], shifted[i])
		}
	}
}

func Test_Binary_02(t *testing.T) {
	for n := uint(1); n <= 8; n++ {
		enumerated := enumerateStates(n)
		masked := GenerateBasisStates(n)
		//
		if len(enumerated) != len(masked) {
			t.Fatalf("expected %d states, got %d", len(masked), len(enumerated))
		}
		//
		for i := range masked {
			if !slices.Equal(masked[i], enumerated[i]) {
				t.Errorf("basis state %d differs: %v vs %v", i, masked[i], enumerated[i])
			}
		}
	}
}

func Test_Binary_03(t *testing.T) {
	// Wide states keep their most significant bits
	states := StatesToBinary([]uint64{1<<39 | 1}, 40)
	//
	if states[0][0] != 1 || states[0][39] != 1 || BinaryToIndex(states[0]) != 1<<39|1 {
		t.Errorf("unexpected wide state %s", BitString(states[0]))
	}
}

func Test_Buffer_00(t *testing.T) {
	b := FromRows([]uint8{0, 1}, []uint8{1, 1}, []uint8{1, 0}, []uint8{0, 0})
	//
	if idx := b.Indices([]uint{0, 1}); !slices.Equal(idx[0], []uint{1, 3, 2, 0}) {
		t.Errorf("unexpected indices %v", idx)
	}
	// Reversed wire order
	if idx := b.Indices([]uint{1, 0}); !slices.Equal(idx[0], []uint{2, 3, 1, 0}) {
		t.Errorf("unexpected indices %v", idx)
	}
}

func Test_Buffer_01(t *testing.T) {
	b := FromRows([]uint8{0}, []uint8{1}, []uint8{1}, []uint8{0}, []uint8{1})
	bins := b.Bins(2)
	//
	if len(bins) != 2 || bins[1].Bit(0, 0, 0) != 1 || bins[1].Bit(0, 1, 0) != 0 {
		t.Errorf("unexpected bins %v", bins)
	}
	//
	if s := b.Slice(1, 4); s.Shots() != 3 || s.Bit(0, 2, 0) != 0 {
		t.Errorf("unexpected slice %v", s)
	}
}

func Test_Buffer_02(t *testing.T) {
	// Two batch rows of two shots on two wires
	b := NewBuffer(util.Some[uint](2), 2, 2, []uint8{0, 0, 0, 1, 1, 0, 1, 1})
	idx := b.Indices([]uint{0, 1})
	//
	if len(idx) != 2 || !slices.Equal(idx[0], []uint{0, 1}) || !slices.Equal(idx[1], []uint{2, 3}) {
		t.Errorf("unexpected batched indices %v", idx)
	}
	//
	if r := b.Restrict([]uint{1}).Slice(1, 2); r.Bit(1, 0, 0) != 1 || r.Rows() != 2 {
		t.Errorf("unexpected restriction %v", r)
	}
}

func Test_Generate_00(t *testing.T) {
	// |10> is sampled deterministically
	b, err := Generate([][]float64{{0, 0, 1, 0}}, util.None[uint](), 100, 2, rand.NewPCG(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	//
	for s := uint(0); s < b.Shots(); s++ {
		if BitString(b.Outcome(0, s)) != "10" {
			t.Fatalf("unexpected outcome %s", BitString(b.Outcome(0, s)))
		}
	}
}

func Test_Generate_01(t *testing.T) {
	_, err := Generate([][]float64{{1, 0}}, util.None[uint](), 0, 1, rand.NewPCG(1, 2))
	//
	if !errors.Is(err, qerr.ErrPrecondition) {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func Test_Generate_02(t *testing.T) {
	probs := [][]float64{{1, 0}, {0, 1}}
	b, err := Generate(probs, util.Some[uint](2), 10, 1, rand.NewPCG(3, 4))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	for s := uint(0); s < 10; s++ {
		if b.Bit(0, s, 0) != 0 || b.Bit(1, s, 0) != 1 {
			t.Fatalf("batch rows were not sampled independently")
		}
	}
}

func Test_Generate_03(t *testing.T) {
	probs := [][]float64{util.GenerateRandomProbabilities(8, 11)}
	b1, _ := Generate(probs, util.None[uint](), 50, 3, rand.NewPCG(5, 5))
	b2, _ := Generate(probs, util.None[uint](), 50, 3, rand.NewPCG(5, 5))
	//
	if !slices.Equal(b1.data, b2.data) {
		t.Errorf("sampling with equal seeds differs")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_RoundTrip(t *testing.T, n uint) {
	states := GenerateBasisStates(n)
	//
	for i, bits := range states {
		if BinaryToIndex(bits) != uint64(i) {
			t.Errorf("basis state %s has index %d, expected %d", BitString(bits), BinaryToIndex(bits), i)
		}
		//
		back := StatesToBinary([]uint64{BinaryToIndex(bits)}, n)[0]
		if !slices.Equal(back, bits) {
			t.Errorf("round trip of %s gave %s", BitString(bits), BitString(back))
		}
	}
}
