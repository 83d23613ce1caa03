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

// Package observable provides the measurable operators understood by the
// measurement core.  An observable exposes its eigenvalues, in the order of
// the computational basis after its diagonalizing gates have been applied.
package observable

import (
	"fmt"
	"math"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Observable is a Hermitian operator acting on a sequence of wires.
type Observable interface {
	// Name returns the name of this observable.
	Name() string
	// Wires returns the wires of this observable, in the order of its tensor
	// factors.
	Wires() wire.Wires
	// Eigvals returns the eigenvalues of this observable indexed by
	// computational basis state (over Wires) in the diagonalized frame.
	Eigvals() ([]float64, error)
	// DiagonalizingGates returns the operations which rotate the eigenbasis
	// of this observable onto the computational basis.
	DiagonalizingGates() ([]gate.Operation, error)
	// Matrix returns the matrix representation of this observable over its
	// wires.
	Matrix() (*linalg.CMatrix, error)
	// IsHermitian determines whether this observable is known to be
	// Hermitian.
	IsHermitian() bool
	//
	String() string
}

// Standard is one of the fixed single-qubit observables PauliX, PauliY,
// PauliZ, Hadamard or Identity.  Their eigenvalues are integers.
type Standard struct {
	name string
	wire wire.Wire
}

// PauliX constructs the Pauli X observable.
func PauliX(w wire.Wire) Standard { return Standard{"PauliX", w} }

// PauliY constructs the Pauli Y observable.
func PauliY(w wire.Wire) Standard { return Standard{"PauliY", w} }

// PauliZ constructs the Pauli Z observable.
func PauliZ(w wire.Wire) Standard { return Standard{"PauliZ", w} }

// Hadamard constructs the Hadamard observable.
func Hadamard(w wire.Wire) Standard { return Standard{"Hadamard", w} }

// Identity constructs the identity observable.
func Identity(w wire.Wire) Standard { return Standard{"Identity", w} }

// Name implementation for Observable interface.
func (p Standard) Name() string { return p.name }

// Wires implementation for Observable interface.
func (p Standard) Wires() wire.Wires { return wire.Wires{p.wire} }

// IsHermitian implementation for Observable interface.
func (p Standard) IsHermitian() bool { return true }

// Eigvals implementation for Observable interface.
func (p Standard) Eigvals() ([]float64, error) {
	if p.name == "Identity" {
		return []float64{1, 1}, nil
	}
	//
	return []float64{1, -1}, nil
}

// DiagonalizingGates implementation for Observable interface.
func (p Standard) DiagonalizingGates() ([]gate.Operation, error) {
	switch p.name {
	case "PauliX":
		return []gate.Operation{gate.Hadamard(p.wire)}, nil
	case "PauliY":
		return []gate.Operation{gate.PauliZ(p.wire), gate.S(p.wire), gate.Hadamard(p.wire)}, nil
	case "Hadamard":
		return []gate.Operation{gate.RY(-math.Pi/4, p.wire)}, nil
	default:
		return nil, nil
	}
}

// Matrix implementation for Observable interface.
func (p Standard) Matrix() (*linalg.CMatrix, error) {
	op, err := gate.New(p.name, p.Wires())
	if err != nil {
		return nil, err
	}
	//
	return op.Matrix(), nil
}

func (p Standard) String() string {
	return fmt.Sprintf("%s(%s)", p.name, p.wire)
}

// HasIntegerEigvals determines whether every component of an observable is
// one of the Standard observables, such that sampled eigenvalues can be held
// as integers.
func HasIntegerEigvals(obs Observable) bool {
	for _, c := range Components(obs) {
		if _, ok := c.(Standard); !ok {
			return false
		}
	}
	//
	return true
}

// Components returns the tensor factors of an observable, or the observable
// itself when it is not a tensor product.
func Components(obs Observable) []Observable {
	if t, ok := obs.(Tensor); ok {
		return t.factors
	}
	//
	return []Observable{obs}
}

// IsPauliLike determines whether an observable is a single-qubit observable
// with eigenvalues +1 for outcome 0 and -1 for outcome 1.
func IsPauliLike(obs Observable) bool {
	s, ok := obs.(Standard)
	return ok && s.name != "Identity"
}

// ============================================================================
// Opaque
// ============================================================================

// Opaque is an observable known only by name, for which no eigenvalues,
// diagonalizing gates or matrix are available.
type Opaque struct {
	name  string
	wires wire.Wires
}

// NewOpaque constructs an opaque observable with a given name.
func NewOpaque(name string, wires ...wire.Wire) Opaque {
	return Opaque{name, wires}
}

// Name implementation for Observable interface.
func (p Opaque) Name() string { return p.name }

// Wires implementation for Observable interface.
func (p Opaque) Wires() wire.Wires { return p.wires }

// IsHermitian implementation for Observable interface.
func (p Opaque) IsHermitian() bool { return false }

// Eigvals implementation for Observable interface.
func (p Opaque) Eigvals() ([]float64, error) {
	return nil, qerr.EigvalsUndefined("observable %s has no eigenvalues", p.name)
}

// DiagonalizingGates implementation for Observable interface.
func (p Opaque) DiagonalizingGates() ([]gate.Operation, error) {
	return nil, qerr.EigvalsUndefined("observable %s has no diagonalizing gates", p.name)
}

// Matrix implementation for Observable interface.
func (p Opaque) Matrix() (*linalg.CMatrix, error) {
	return nil, qerr.Missing("observable %s has no matrix representation", p.name)
}

func (p Opaque) String() string {
	return fmt.Sprintf("%s%s", p.name, p.wires)
}
