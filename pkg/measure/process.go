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

// Package measure describes what is measured at the end of a circuit, and how
// each kind of measurement is evaluated from a state, from analytic
// probabilities or from samples.
package measure

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/shadow"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
	log "github.com/sirupsen/logrus"
)

// Tape is a circuit: the operations to apply, followed by the measurements
// to take.
type Tape interface {
	// Operations returns the operations of this circuit, in order.
	Operations() []gate.Operation
	// Measurements returns the measurements of this circuit, in order.
	Measurements() []Process
	// DiagonalizingGates returns the rotations into the eigenbasis of every
	// observable measured.
	DiagonalizingGates() ([]gate.Operation, error)
}

// TransformFunc computes an arbitrary result from a circuit and the kernel it
// executes on.
type TransformFunc func(tape Tape, kernel device.Kernel) (Value, error)

// Process is an immutable description of one measurement.  Depending on its
// kind, a process refers either to an observable or to an explicit (possibly
// empty, meaning all) sequence of wires.
type Process struct {
	kind Kind
	obs  observable.Observable
	// explicit wires, when no observable is given
	wires wire.Wires
	// second partition for mutual information
	other       wire.Wires
	logBase     float64
	allOutcomes bool
	seed        uint64
	k           uint
	transform   TransformFunc
}

// Expval constructs the expectation value of an observable.
func Expval(obs observable.Observable) Process {
	checkHermitian(obs)
	return Process{kind: Expectation, obs: obs}
}

// Var constructs the variance of an observable.
func Var(obs observable.Observable) Process {
	checkHermitian(obs)
	return Process{kind: Variance, obs: obs}
}

// SampleOf constructs raw samples of an observable's eigenvalues.
func SampleOf(obs observable.Observable) Process {
	checkHermitian(obs)
	return Process{kind: Sample, obs: obs}
}

// SampleWires constructs raw computational basis samples of some wires (or of
// all device wires when none are given).
func SampleWires(wires ...wire.Wire) Process {
	return Process{kind: Sample, wires: wires}
}

// CountsOf constructs the occurrence counts of an observable's eigenvalues.
// When allOutcomes is set, every eigenvalue is reported, even if never
// observed.
func CountsOf(obs observable.Observable, allOutcomes bool) Process {
	checkHermitian(obs)
	return Process{kind: Counts, obs: obs, allOutcomes: allOutcomes}
}

// CountsWires constructs the occurrence counts of the computational basis
// states of some wires (or all device wires).  When allOutcomes is set, every
// basis state is reported, even if never observed.
func CountsWires(allOutcomes bool, wires ...wire.Wire) Process {
	return Process{kind: Counts, wires: wires, allOutcomes: allOutcomes}
}

// Probs constructs the probability of each computational basis state of some
// wires (or all device wires).
func Probs(wires ...wire.Wire) Process {
	return Process{kind: Probability, wires: wires}
}

// ProbsOf constructs the probability of each eigenstate of an observable, in
// the basis given by its diagonalizing gates.
func ProbsOf(obs observable.Observable) (Process, error) {
	if _, err := obs.DiagonalizingGates(); err != nil {
		return Process{}, qerr.Missing("%s does not define diagonalizing gates: cannot be used to rotate the " +
			"probability", obs.Name())
	}
	//
	return Process{kind: Probability, obs: obs}, nil
}

// StateOf constructs the state of the device.  When wires are given, this is
// the reduced density matrix over those wires.
func StateOf(wires ...wire.Wire) Process {
	return Process{kind: State, wires: wires}
}

// Entropy constructs the von Neumann entropy of the reduced state on some
// wires.  A logarithm base of zero denotes natural logarithms.
func Entropy(base float64, wires ...wire.Wire) Process {
	return Process{kind: VnEntropy, wires: wires, logBase: base}
}

// MutualInformation constructs the mutual information between two disjoint
// sets of wires.
func MutualInformation(a, b wire.Wires, base float64) (Process, error) {
	if len(a.Difference(b)) != len(a) {
		return Process{}, qerr.Configuration("subsystems %s and %s for computing mutual information must not " +
			"overlap", a, b)
	}
	//
	return Process{kind: MutualInfo, wires: a, other: b, logBase: base}, nil
}

// Shadow constructs a classical shadow over some wires.  Recipes are drawn
// from a generator with the given seed, or from a randomly chosen seed which
// is then fixed for this process.
func Shadow(seed util.Option[uint64], wires ...wire.Wire) Process {
	return Process{kind: ClassicalShadow, wires: wires, seed: seed.UnwrapOr(rand.Uint64())}
}

// ShadowExpvalOf constructs the classical shadow estimate of an observable's
// expectation, using median of means over k groups of snapshots.
func ShadowExpvalOf(obs observable.Observable, k uint, seed util.Option[uint64]) (Process, error) {
	if k == 0 {
		return Process{}, qerr.Configuration("shadow estimator requires at least one group")
	} else if err := shadow.Check(obs); err != nil {
		return Process{}, err
	}
	//
	return Process{kind: ShadowExpval, obs: obs, k: k, seed: seed.UnwrapOr(rand.Uint64())}, nil
}

// NewTransform constructs a measurement computed by an arbitrary function of
// the circuit and kernel.
func NewTransform(fn TransformFunc, wires ...wire.Wire) Process {
	return Process{kind: Transform, wires: wires, transform: fn}
}

// Kind returns the kind of this process.
func (p Process) Kind() Kind { return p.kind }

// Observable returns the observable of this process, or nil.
func (p Process) Observable() observable.Observable { return p.obs }

// HasObservable determines whether this process measures an observable.
func (p Process) HasObservable() bool { return p.obs != nil }

// Wires returns the wires of this process.  This is empty when all device
// wires are implied.
func (p Process) Wires() wire.Wires {
	if p.obs != nil {
		return p.obs.Wires()
	} else if p.kind == MutualInfo {
		return p.wires.Union(p.other)
	}
	//
	return p.wires
}

// Partition returns the two subsystems of a mutual information process.
func (p Process) Partition() (wire.Wires, wire.Wires) { return p.wires, p.other }

// LogBase returns the logarithm base of an entropy (zero for natural).
func (p Process) LogBase() float64 { return p.logBase }

// AllOutcomes determines whether counts include unobserved outcomes.
func (p Process) AllOutcomes() bool { return p.allOutcomes }

// Seed returns the seed of a classical shadow.
func (p Process) Seed() uint64 { return p.seed }

// K returns the number of groups of a shadow expectation estimator.
func (p Process) K() uint { return p.k }

func (p Process) String() string {
	var args []string
	//
	if p.obs != nil {
		args = append(args, p.obs.String())
	} else if p.kind == MutualInfo {
		args = append(args, fmt.Sprintf("wires0=%s", p.wires), fmt.Sprintf("wires1=%s", p.other))
	} else if len(p.wires) > 0 {
		args = append(args, fmt.Sprintf("wires=%s", p.wires))
	}
	//
	if p.allOutcomes {
		args = append(args, "all_outcomes")
	}
	//
	return fmt.Sprintf("%s(%s)", p.kind, strings.Join(args, ", "))
}

func checkHermitian(obs observable.Observable) {
	if !obs.IsHermitian() {
		log.Warnf("%s might not be hermitian.", obs.Name())
	}
}
