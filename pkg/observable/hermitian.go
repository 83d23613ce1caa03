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
package observable

import (
	"fmt"
	"strings"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Hermitian is an observable given by an explicit matrix.
type Hermitian struct {
	matrix *linalg.CMatrix
	wires  wire.Wires
}

// NewHermitian constructs an observable from an explicit matrix acting on the
// given wires.  The matrix is not required to be Hermitian at this point,
// though its eigenvalues are only available when it is.
func NewHermitian(m *linalg.CMatrix, wires ...wire.Wire) (Hermitian, error) {
	rows, cols := m.Dims()
	//
	if rows != cols || rows != uint(1)<<len(wires) {
		return Hermitian{}, qerr.Configuration("a %dx%d matrix cannot act on %d wire(s)", rows, cols, len(wires))
	}
	//
	return Hermitian{m, wires}, nil
}

// Name implementation for Observable interface.
func (p Hermitian) Name() string { return "Hermitian" }

// Wires implementation for Observable interface.
func (p Hermitian) Wires() wire.Wires { return p.wires }

// IsHermitian implementation for Observable interface.
func (p Hermitian) IsHermitian() bool { return p.matrix.IsHermitian(1e-8) }

// Matrix implementation for Observable interface.
func (p Hermitian) Matrix() (*linalg.CMatrix, error) { return p.matrix.Clone(), nil }

// Eigvals implementation for Observable interface.
func (p Hermitian) Eigvals() ([]float64, error) {
	eig, err := p.eigen()
	if err != nil {
		return nil, err
	}
	//
	return eig.Values, nil
}

// DiagonalizingGates implementation for Observable interface.  This is the
// single unitary U† whose rows are the eigenvectors, in ascending order of
// eigenvalue.
func (p Hermitian) DiagonalizingGates() ([]gate.Operation, error) {
	return diagonalize(p.matrix, p.wires)
}

func (p Hermitian) eigen() (linalg.Eigen, error) {
	eig, err := linalg.HermitianEigen(p.matrix)
	if err != nil {
		return eig, qerr.EigvalsUndefined("%s: %s", p, err)
	}
	//
	return eig, nil
}

func (p Hermitian) String() string {
	return fmt.Sprintf("Hermitian%s", p.wires)
}

func diagonalize(m *linalg.CMatrix, wires wire.Wires) ([]gate.Operation, error) {
	eig, err := linalg.HermitianEigen(m)
	if err != nil {
		return nil, qerr.EigvalsUndefined("%s", err)
	}
	//
	u, err := gate.Unitary(eig.Vectors.Dagger(), wires...)
	if err != nil {
		return nil, err
	}
	//
	return []gate.Operation{u}, nil
}

// ============================================================================
// Projector
// ============================================================================

// Projector is the projector |b⟩⟨b| onto a computational basis state b.  Its
// expectation is the probability of observing b.
type Projector struct {
	basis []uint
	wires wire.Wires
}

// NewProjector constructs the projector onto a given basis state (one bit per
// wire).
func NewProjector(basis []uint, wires ...wire.Wire) (Projector, error) {
	if len(basis) != len(wires) {
		return Projector{}, qerr.Configuration("basis state %v does not match wires %s", basis, wire.Wires(wires))
	}
	//
	for _, b := range basis {
		if b > 1 {
			return Projector{}, qerr.Configuration("basis state %v is not binary", basis)
		}
	}
	//
	return Projector{basis, wires}, nil
}

// Index returns the position of the projected basis state, using big-endian
// bit weighting over the projector's wires.
func (p Projector) Index() uint {
	var index uint
	for _, b := range p.basis {
		index = (index << 1) | b
	}
	//
	return index
}

// Name implementation for Observable interface.
func (p Projector) Name() string { return "Projector" }

// Wires implementation for Observable interface.
func (p Projector) Wires() wire.Wires { return p.wires }

// IsHermitian implementation for Observable interface.
func (p Projector) IsHermitian() bool { return true }

// DiagonalizingGates implementation for Observable interface.
func (p Projector) DiagonalizingGates() ([]gate.Operation, error) { return nil, nil }

// Eigvals implementation for Observable interface.
func (p Projector) Eigvals() ([]float64, error) {
	eigvals := make([]float64, 1<<len(p.basis))
	eigvals[p.Index()] = 1
	//
	return eigvals, nil
}

// Matrix implementation for Observable interface.
func (p Projector) Matrix() (*linalg.CMatrix, error) {
	n := uint(1) << len(p.basis)
	m := linalg.NewCMatrix(n, n)
	m.Set(p.Index(), p.Index(), 1)
	//
	return m, nil
}

func (p Projector) String() string {
	var builder strings.Builder
	//
	for _, b := range p.basis {
		builder.WriteString(fmt.Sprintf("%d", b))
	}
	//
	return fmt.Sprintf("Projector(%s)%s", builder.String(), p.wires)
}
