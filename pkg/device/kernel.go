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

// Package device declares the contract between the measurement core and a
// device kernel, which propagates quantum states through operations.
package device

import (
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/state"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Capabilities describes what a kernel is able to do.
type Capabilities struct {
	// ReturnsState indicates the kernel exposes its state vector.
	ReturnsState bool
	// SupportsFiniteShots indicates the kernel can be sampled.
	SupportsFiniteShots bool
	// SupportsTensorObservables indicates tensor products of observables can
	// be measured.
	SupportsTensorObservables bool
}

// Kernel is a device which can apply operations and report the probability
// of each computational basis state.  A kernel holds one mutable internal
// state, replaced wholesale on every application.
type Kernel interface {
	// Registry returns the wires of this kernel.
	Registry() *wire.Registry
	// Capabilities returns the capabilities of this kernel.
	Capabilities() Capabilities
	// Apply applies a sequence of operations to the current state, followed
	// by a sequence of rotations into the measurement basis.
	Apply(operations []gate.Operation, rotations []gate.Operation) error
	// AnalyticProbability returns the probability of each basis state over
	// all wires, after rotations have been applied.
	AnalyticProbability() (probability.Distribution, error)
	// Reset returns this kernel to its initial state.
	Reset()
}

// StateKernel is a kernel which exposes its state vector.
type StateKernel interface {
	Kernel
	// State returns the state reached by the last application, before any
	// rotations were applied.
	State() (state.Vector, error)
}

// SampleKernel is a kernel with its own means of drawing samples, used in
// place of sampling from its analytic probabilities.
type SampleKernel interface {
	Kernel
	// GenerateSamples draws a number of computational basis outcomes.
	GenerateSamples(shots uint) (sample.Buffer, error)
}

// AdjointKernel is a state kernel which can apply arbitrary matrices to
// arbitrary state vectors, as required for adjoint differentiation.
type AdjointKernel interface {
	StateKernel
	// ApplyMatrix applies a matrix acting on some wires to a state vector
	// over all wires, returning the resulting (unnormalised) vector.
	ApplyMatrix(amplitudes []complex128, m *linalg.CMatrix, wires wire.Wires) ([]complex128, error)
}
