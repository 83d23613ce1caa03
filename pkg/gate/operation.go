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
	"fmt"
	"strings"

	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Operation is a quantum operation applied to a fixed sequence of wires.  The
// matrix of an operation is expressed in the order of its wires, with the
// first wire being the most significant.
type Operation struct {
	name    string
	wires   wire.Wires
	params  []float64
	unitary *linalg.CMatrix
	adjoint bool
}

// New constructs an operation with a given name, wires and parameters.  The
// name must be one of the standard gates recognised by this package.
func New(name string, wires wire.Wires, params ...float64) (Operation, error) {
	info, ok := standard[name]
	if !ok {
		return Operation{}, fmt.Errorf("unknown operation %s", name)
	}
	//
	if len(wires) != info.arity {
		return Operation{}, fmt.Errorf("%s acts on %d wire(s), got %d", name, info.arity, len(wires))
	}
	//
	if len(params) != info.params {
		return Operation{}, fmt.Errorf("%s expects %d parameter(s), got %d", name, info.params, len(params))
	}
	//
	return Operation{name: name, wires: wires, params: params}, nil
}

// Unitary constructs an operation from an explicit unitary matrix acting on
// the given wires.
func Unitary(u *linalg.CMatrix, wires ...wire.Wire) (Operation, error) {
	rows, cols := u.Dims()
	if rows != cols || rows != uint(1)<<len(wires) {
		return Operation{}, fmt.Errorf("a %dx%d matrix cannot act on %d wire(s)", rows, cols, len(wires))
	} else if !u.IsUnitary(1e-8) {
		return Operation{}, fmt.Errorf("matrix is not unitary")
	}
	//
	return Operation{name: "QubitUnitary", wires: wires, unitary: u}, nil
}

// Signature returns the number of wires and parameters of a standard gate, or
// false if no such gate exists.
func Signature(name string) (arity uint, params uint, ok bool) {
	info, ok := standard[name]
	//
	return uint(info.arity), uint(info.params), ok
}

// Name returns the name of this operation.
func (o Operation) Name() string {
	return o.name
}

// Wires returns the wires this operation acts upon.
func (o Operation) Wires() wire.Wires {
	return o.wires
}

// Params returns the (real) parameters of this operation.
func (o Operation) Params() []float64 {
	return o.params
}

// NumParams returns the number of parameters of this operation.
func (o Operation) NumParams() uint {
	return uint(len(o.params))
}

// IsAdjoint determines whether this operation is the adjoint of a standard
// gate.
func (o Operation) IsAdjoint() bool {
	return o.adjoint
}

// Adjoint returns the inverse of this operation.
func (o Operation) Adjoint() Operation {
	o.adjoint = !o.adjoint
	return o
}

// Matrix returns the unitary matrix of this operation.
func (o Operation) Matrix() *linalg.CMatrix {
	var m *linalg.CMatrix
	//
	if o.unitary != nil {
		m = o.unitary
	} else {
		m = standard[o.name].matrix(o.params)
	}
	//
	if o.adjoint {
		return m.Dagger()
	}
	//
	return m
}

// IsDifferentiable determines whether this operation carries a parameter with
// a known generator, such that its derivative can be computed.
func (o Operation) IsDifferentiable() bool {
	if o.unitary != nil {
		return false
	}
	//
	return standard[o.name].derivative != nil
}

// Derivative returns the derivative of this operation's matrix with respect to
// its (single) parameter.
func (o Operation) Derivative() (*linalg.CMatrix, error) {
	if !o.IsDifferentiable() {
		return nil, fmt.Errorf("operation %s has no parameter derivative", o.name)
	}
	//
	d := standard[o.name].derivative(o.params[0])
	if o.adjoint {
		// d/dθ U(θ)† = (dU/dθ)†
		return d.Dagger(), nil
	}
	//
	return d, nil
}

// Decomposition breaks this operation into single parameter operations, when
// such a decomposition is known.  The returned operations are in the order
// they are applied.
func (o Operation) Decomposition() ([]Operation, bool) {
	if o.name != "Rot" || o.adjoint {
		return nil, false
	}
	//
	phi, theta, omega := o.params[0], o.params[1], o.params[2]
	//
	return []Operation{
		RZ(phi, o.wires[0]),
		RY(theta, o.wires[0]),
		RZ(omega, o.wires[0]),
	}, true
}

func (o Operation) String() string {
	var builder strings.Builder
	//
	builder.WriteString(o.name)
	//
	if len(o.params) > 0 {
		builder.WriteString("(")
		//
		for i, p := range o.params {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(fmt.Sprintf("%g", p))
		}
		//
		builder.WriteString(")")
	}
	//
	builder.WriteString(o.wires.String())
	//
	if o.adjoint {
		builder.WriteString("†")
	}
	//
	return builder.String()
}

// ============================================================================
// Constructors
// ============================================================================

// Hadamard constructs the Hadamard gate on a given wire.
func Hadamard(w wire.Wire) Operation { return Operation{name: "Hadamard", wires: wire.Wires{w}} }

// PauliX constructs the Pauli X (NOT) gate on a given wire.
func PauliX(w wire.Wire) Operation { return Operation{name: "PauliX", wires: wire.Wires{w}} }

// PauliY constructs the Pauli Y gate on a given wire.
func PauliY(w wire.Wire) Operation { return Operation{name: "PauliY", wires: wire.Wires{w}} }

// PauliZ constructs the Pauli Z gate on a given wire.
func PauliZ(w wire.Wire) Operation { return Operation{name: "PauliZ", wires: wire.Wires{w}} }

// S constructs the phase gate diag(1, i) on a given wire.
func S(w wire.Wire) Operation { return Operation{name: "S", wires: wire.Wires{w}} }

// T constructs the gate diag(1, exp(iπ/4)) on a given wire.
func T(w wire.Wire) Operation { return Operation{name: "T", wires: wire.Wires{w}} }

// RX constructs a rotation about the X axis.
func RX(theta float64, w wire.Wire) Operation {
	return Operation{name: "RX", wires: wire.Wires{w}, params: []float64{theta}}
}

// RY constructs a rotation about the Y axis.
func RY(theta float64, w wire.Wire) Operation {
	return Operation{name: "RY", wires: wire.Wires{w}, params: []float64{theta}}
}

// RZ constructs a rotation about the Z axis.
func RZ(theta float64, w wire.Wire) Operation {
	return Operation{name: "RZ", wires: wire.Wires{w}, params: []float64{theta}}
}

// PhaseShift constructs the gate diag(1, exp(iφ)).
func PhaseShift(phi float64, w wire.Wire) Operation {
	return Operation{name: "PhaseShift", wires: wire.Wires{w}, params: []float64{phi}}
}

// Rot constructs the general single qubit rotation RZ(ω)RY(θ)RZ(φ).
func Rot(phi, theta, omega float64, w wire.Wire) Operation {
	return Operation{name: "Rot", wires: wire.Wires{w}, params: []float64{phi, theta, omega}}
}

// CNOT constructs the controlled-NOT gate.
func CNOT(control, target wire.Wire) Operation {
	return Operation{name: "CNOT", wires: wire.Wires{control, target}}
}

// CZ constructs the controlled-Z gate.
func CZ(control, target wire.Wire) Operation {
	return Operation{name: "CZ", wires: wire.Wires{control, target}}
}

// SWAP constructs the gate exchanging two wires.
func SWAP(a, b wire.Wire) Operation {
	return Operation{name: "SWAP", wires: wire.Wires{a, b}}
}
