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

// Package shadow implements classical shadows: randomized single-shot Pauli
// measurements from which expectation values of many Pauli observables can be
// estimated after the fact.
package shadow

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Labels of the single-qubit Pauli bases a wire can be measured in.
const (
	X uint8 = 0
	Y uint8 = 1
	Z uint8 = 2
)

var pauliNames = []string{"PauliX", "PauliY", "PauliZ"}

// Recipes draws the measurement basis of every wire for a given number of
// snapshots.  The same seed always produces the same recipes.
func Recipes(seed uint64, snapshots, wires uint) [][]uint8 {
	var (
		rng     = rand.New(rand.NewPCG(seed, seed))
		recipes = make([][]uint8, snapshots)
	)
	//
	for t := range recipes {
		recipes[t] = make([]uint8, wires)
		for w := range recipes[t] {
			recipes[t][w] = uint8(rng.IntN(3))
		}
	}
	//
	return recipes
}

// DiagonalizingGates returns the rotations which measure a wire in a given
// Pauli basis using a computational basis measurement.
func DiagonalizingGates(recipe uint8, w wire.Wire) []gate.Operation {
	switch recipe {
	case X:
		return []gate.Operation{gate.Hadamard(w)}
	case Y:
		return []gate.Operation{gate.PauliZ(w), gate.S(w), gate.Hadamard(w)}
	default:
		return nil
	}
}

// Sampler executes a circuit once, with the given rotations appended, and
// returns the single-shot outcome over the measured wires.
type Sampler func(rotations []gate.Operation) ([]uint8, error)

// Collect takes a given number of snapshots over some wires.  For each snapshot
// a fresh set of recipes is applied and the sampler invoked once.
func Collect(wires wire.Wires, seed uint64, snapshots uint, sampler Sampler) (Snapshots, error) {
	var (
		recipes = Recipes(seed, snapshots, uint(len(wires)))
		bits    = make([][]uint8, snapshots)
	)
	//
	for t, recipe := range recipes {
		var rotations []gate.Operation
		//
		for i, w := range wires {
			rotations = append(rotations, DiagonalizingGates(recipe[i], w)...)
		}
		//
		outcome, err := sampler(rotations)
		if err != nil {
			return Snapshots{}, err
		} else if len(outcome) != len(wires) {
			return Snapshots{}, fmt.Errorf("snapshot %d has %d bits (expected %d)", t, len(outcome), len(wires))
		}
		//
		bits[t] = outcome
	}
	//
	return Snapshots{wires, bits, recipes}, nil
}

// Snapshots holds the outcome bits and measurement recipes of a classical
// shadow, each with one row per snapshot and one column per wire.
type Snapshots struct {
	wires   wire.Wires
	bits    [][]uint8
	recipes [][]uint8
}

// NewSnapshots constructs a shadow from its bits and recipes.
func NewSnapshots(wires wire.Wires, bits, recipes [][]uint8) Snapshots {
	if len(bits) != len(recipes) {
		panic("mismatched snapshot bits and recipes")
	}
	//
	return Snapshots{wires, bits, recipes}
}

// Wires returns the wires measured by this shadow.
func (p Snapshots) Wires() wire.Wires { return p.wires }

// Bits returns the outcome bits of each snapshot.
func (p Snapshots) Bits() [][]uint8 { return p.bits }

// Recipes returns the measurement bases of each snapshot.
func (p Snapshots) Recipes() [][]uint8 { return p.recipes }

// Len returns the number of snapshots.
func (p Snapshots) Len() uint { return uint(len(p.bits)) }

// Array returns the bits and recipes stacked into an integer array of shape
// (2, snapshots, wires).
func (p Snapshots) Array() tensor.Array {
	var (
		n    = uint(len(p.wires))
		data = make([]float64, 0, 2*p.Len()*n)
	)
	//
	for _, rows := range [][][]uint8{p.bits, p.recipes} {
		for _, row := range rows {
			for _, v := range row {
				data = append(data, float64(v))
			}
		}
	}
	//
	return tensor.New(tensor.Int64, tensor.Shape{2, p.Len(), n}, data)
}

func (p Snapshots) String() string {
	var builder strings.Builder
	//
	builder.WriteString("shadow(")
	builder.WriteString(p.wires.String())
	builder.WriteString(")")
	//
	for t := range p.bits {
		builder.WriteString(" ")
		//
		for i := range p.bits[t] {
			builder.WriteString(fmt.Sprintf("%c%d", "XYZ"[p.recipes[t][i]], p.bits[t][i]))
		}
	}
	//
	return builder.String()
}

// ============================================================================
// Pauli words
// ============================================================================

// Check that an observable is a Pauli word, or a linear combination of Pauli
// words, as required for estimation from a classical shadow.
func Check(obs observable.Observable) error {
	_, err := decompose(obs)
	return err
}

// A weighted Pauli word, mapping each wire it acts upon to a Pauli basis.
type word struct {
	coeff  float64
	paulis map[wire.Wire]uint8
}

func decompose(obs observable.Observable) ([]word, error) {
	if h, ok := obs.(observable.Hamiltonian); ok {
		var (
			coeffs, terms = h.Terms()
			words         = make([]word, len(terms))
		)
		//
		for i, term := range terms {
			paulis, err := pauliWord(term)
			if err != nil {
				return nil, err
			}
			//
			words[i] = word{coeffs[i], paulis}
		}
		//
		return words, nil
	}
	//
	paulis, err := pauliWord(obs)
	if err != nil {
		return nil, err
	}
	//
	return []word{{1, paulis}}, nil
}

func pauliWord(obs observable.Observable) (map[wire.Wire]uint8, error) {
	paulis := make(map[wire.Wire]uint8)
	//
	for _, factor := range observable.Components(obs) {
		s, ok := factor.(observable.Standard)
		if !ok {
			return nil, qerr.Missing("%s is not a Pauli word", obs.Name())
		}
		//
		switch s.Name() {
		case "Identity":
			continue
		case pauliNames[X]:
			paulis[s.Wires()[0]] = X
		case pauliNames[Y]:
			paulis[s.Wires()[0]] = Y
		case pauliNames[Z]:
			paulis[s.Wires()[0]] = Z
		default:
			return nil, qerr.Missing("%s is not a Pauli word", obs.Name())
		}
	}
	//
	return paulis, nil
}
