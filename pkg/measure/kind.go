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

import "fmt"

// Kind identifies what a measurement process computes.
type Kind uint8

const (
	// Expectation is the expectation value of an observable.
	Expectation Kind = iota
	// Variance is the variance of an observable.
	Variance
	// Sample returns raw samples, of an observable or of basis states.
	Sample
	// Counts aggregates samples into occurrence counts.
	Counts
	// Probability is the probability of each basis state over some wires.
	Probability
	// State is the state vector, or a reduced density matrix.
	State
	// VnEntropy is the von Neumann entropy of a reduced state.
	VnEntropy
	// MutualInfo is the mutual information between two sets of wires.
	MutualInfo
	// ClassicalShadow collects randomized single shot Pauli measurements.
	ClassicalShadow
	// ShadowExpval estimates an expectation value from a classical shadow.
	ShadowExpval
	// Transform is an arbitrary function of a circuit and device.
	Transform
)

var kindNames = [...]string{
	"expval", "var", "sample", "counts", "probs", "state", "vnentropy", "mutualinfo", "shadow", "shadow_expval",
	"transform",
}

// ParseKind returns the kind with a given (short) name, such as "expval".
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	//
	return 0, false
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsAnalyticOnly determines whether this kind is always evaluated from the
// state, even when the device has shots.
func (k Kind) IsAnalyticOnly() bool {
	return k == State || k == VnEntropy || k == MutualInfo
}

// IsExclusive determines whether this kind must be the only measurement of a
// circuit.
func (k Kind) IsExclusive() bool {
	return k == State || k == ClassicalShadow || k == ShadowExpval
}

// IsShadow determines whether this kind uses the classical shadow protocol.
func (k Kind) IsShadow() bool {
	return k == ClassicalShadow || k == ShadowExpval
}

// IsSampled determines whether this kind is computed from samples when the
// device has shots.
func (k Kind) IsSampled() bool {
	switch k {
	case Expectation, Variance, Sample, Counts, Probability:
		return true
	default:
		return false
	}
}
