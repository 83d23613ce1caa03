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

// Tensor is a tensor product of observables acting on disjoint wires.  Its
// eigenvalues follow the order in which factors are written, not the order of
// the device wires.
type Tensor struct {
	factors []Observable
	wires   wire.Wires
}

// NewTensor constructs the tensor product of one or more observables.  Nested
// tensor products are flattened.
func NewTensor(factors ...Observable) (Tensor, error) {
	var (
		flat  []Observable
		wires wire.Wires
	)
	//
	for _, f := range factors {
		for _, c := range Components(f) {
			for _, w := range c.Wires() {
				if wires.Contains(w) {
					return Tensor{}, qerr.Configuration("tensor factors overlap on wire %s", w)
				}
				//
				wires = append(wires, w)
			}
			//
			flat = append(flat, c)
		}
	}
	//
	if len(flat) == 0 {
		return Tensor{}, qerr.Configuration("empty tensor product")
	}
	//
	return Tensor{flat, wires}, nil
}

// Factors returns the factors of this tensor product.
func (p Tensor) Factors() []Observable { return p.factors }

// Name implementation for Observable interface.
func (p Tensor) Name() string {
	names := make([]string, len(p.factors))
	for i, f := range p.factors {
		names[i] = f.Name()
	}
	//
	return strings.Join(names, "@")
}

// Wires implementation for Observable interface.
func (p Tensor) Wires() wire.Wires { return p.wires }

// IsHermitian implementation for Observable interface.
func (p Tensor) IsHermitian() bool {
	for _, f := range p.factors {
		if !f.IsHermitian() {
			return false
		}
	}
	//
	return true
}

// Eigvals implementation for Observable interface.
func (p Tensor) Eigvals() ([]float64, error) {
	eigvals := []float64{1}
	//
	for _, f := range p.factors {
		ev, err := f.Eigvals()
		if err != nil {
			return nil, err
		}
		//
		next := make([]float64, 0, len(eigvals)*len(ev))
		for _, a := range eigvals {
			for _, b := range ev {
				next = append(next, a*b)
			}
		}
		//
		eigvals = next
	}
	//
	return eigvals, nil
}

// DiagonalizingGates implementation for Observable interface.
func (p Tensor) DiagonalizingGates() ([]gate.Operation, error) {
	var gates []gate.Operation
	//
	for _, f := range p.factors {
		g, err := f.DiagonalizingGates()
		if err != nil {
			return nil, err
		}
		//
		gates = append(gates, g...)
	}
	//
	return gates, nil
}

// Matrix implementation for Observable interface.
func (p Tensor) Matrix() (*linalg.CMatrix, error) {
	m := linalg.Identity(1)
	//
	for _, f := range p.factors {
		fm, err := f.Matrix()
		if err != nil {
			return nil, err
		}
		//
		m = m.Kron(fm)
	}
	//
	return m, nil
}

func (p Tensor) String() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = f.String()
	}
	//
	return strings.Join(parts, " @ ")
}

// ============================================================================
// Hamiltonian
// ============================================================================

// Hamiltonian is a real linear combination of observables.
type Hamiltonian struct {
	coeffs []float64
	terms  []Observable
	wires  wire.Wires
}

// NewHamiltonian constructs the linear combination Σ cᵢ·Oᵢ.
func NewHamiltonian(coeffs []float64, terms ...Observable) (Hamiltonian, error) {
	if len(coeffs) != len(terms) {
		return Hamiltonian{}, qerr.Configuration("%d coefficient(s) given for %d term(s)", len(coeffs), len(terms))
	} else if len(terms) == 0 {
		return Hamiltonian{}, qerr.Configuration("empty hamiltonian")
	}
	//
	var wires wire.Wires
	for _, t := range terms {
		wires = wires.Union(t.Wires())
	}
	//
	return Hamiltonian{coeffs, terms, wires}, nil
}

// Terms returns the coefficients and terms of this Hamiltonian.
func (p Hamiltonian) Terms() ([]float64, []Observable) { return p.coeffs, p.terms }

// Name implementation for Observable interface.
func (p Hamiltonian) Name() string { return "Hamiltonian" }

// Wires implementation for Observable interface.
func (p Hamiltonian) Wires() wire.Wires { return p.wires }

// IsHermitian implementation for Observable interface.
func (p Hamiltonian) IsHermitian() bool {
	for _, t := range p.terms {
		if !t.IsHermitian() {
			return false
		}
	}
	//
	return true
}

// Matrix implementation for Observable interface.
func (p Hamiltonian) Matrix() (*linalg.CMatrix, error) {
	n := uint(1) << len(p.wires)
	sum := linalg.NewCMatrix(n, n)
	//
	for i, t := range p.terms {
		m, err := t.Matrix()
		if err != nil {
			return nil, err
		}
		//
		sum = sum.Add(Expand(m, t.Wires(), p.wires).Scale(complex(p.coeffs[i], 0)))
	}
	//
	return sum, nil
}

// Eigvals implementation for Observable interface.
func (p Hamiltonian) Eigvals() ([]float64, error) {
	m, err := p.Matrix()
	if err != nil {
		return nil, qerr.EigvalsUndefined("%s: %s", p.Name(), err)
	}
	//
	eig, err := linalg.HermitianEigen(m)
	if err != nil {
		return nil, qerr.EigvalsUndefined("%s: %s", p.Name(), err)
	}
	//
	return eig.Values, nil
}

// DiagonalizingGates implementation for Observable interface.
func (p Hamiltonian) DiagonalizingGates() ([]gate.Operation, error) {
	m, err := p.Matrix()
	if err != nil {
		return nil, qerr.EigvalsUndefined("%s: %s", p.Name(), err)
	}
	//
	return diagonalize(m, p.wires)
}

func (p Hamiltonian) String() string {
	var builder strings.Builder
	//
	for i, t := range p.terms {
		if i != 0 {
			builder.WriteString(" + ")
		}
		//
		builder.WriteString(fmt.Sprintf("%g*%s", p.coeffs[i], t))
	}
	//
	return builder.String()
}

// Expand embeds a matrix acting on some wires into the space of a larger set
// of wires (which must contain them), acting as the identity elsewhere.  Basis
// states of both spaces use big-endian ordering over their respective wires.
func Expand(m *linalg.CMatrix, sub wire.Wires, all wire.Wires) *linalg.CMatrix {
	var (
		n      = uint(len(all))
		dim    = uint(1) << n
		result = linalg.NewCMatrix(dim, dim)
		// Bit position (from the most significant end) of each sub wire.
		shift = make([]uint, len(sub))
		mask  uint
	)
	//
	for k, w := range sub {
		shift[k] = n - 1 - uint(all.IndexOf(w))
		mask |= 1 << shift[k]
	}
	//
	project := func(i uint) uint {
		var index uint
		for _, s := range shift {
			index = (index << 1) | ((i >> s) & 1)
		}
		//
		return index
	}
	//
	for i := uint(0); i < dim; i++ {
		for j := uint(0); j < dim; j++ {
			if i&^mask == j&^mask {
				result.Set(i, j, m.At(project(i), project(j)))
			}
		}
	}
	//
	return result
}
