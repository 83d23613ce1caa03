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

// Package statevector provides a reference kernel which simulates a circuit by
// evolving a dense state vector.  The first wire of the device is the most
// significant bit of a basis state index.
package statevector

import (
	"fmt"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/probability"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/state"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Kernel simulates operations on one state vector, or on a batch of state
// vectors evolving under the same operations.
type Kernel struct {
	registry *wire.Registry
	batch    util.Option[uint]
	// initial states, one per batch row
	initial [][]complex128
	// state reached before rotations
	current [][]complex128
	// state reached after rotations
	rotated [][]complex128
}

// New constructs a kernel over the given wires, initialised to the all-zero
// basis state.
func New(wires wire.Wires) (*Kernel, error) {
	reg, err := wire.NewRegistry(wires)
	if err != nil {
		return nil, err
	}
	//
	zero := make([]complex128, 1<<reg.Len())
	zero[0] = 1
	//
	return newKernel(reg, util.None[uint](), [][]complex128{zero}), nil
}

// NewBatched constructs a kernel over the given wires which evolves a batch of
// initial states together.
func NewBatched(wires wire.Wires, initial ...[]complex128) (*Kernel, error) {
	reg, err := wire.NewRegistry(wires)
	if err != nil {
		return nil, err
	}
	//
	for i, row := range initial {
		if uint(len(row)) != 1<<reg.Len() {
			return nil, qerr.Configuration("initial state %d has %d amplitude(s), expected %d", i, len(row),
				1<<reg.Len())
		}
	}
	//
	return newKernel(reg, util.Some(uint(len(initial))), initial), nil
}

func newKernel(reg *wire.Registry, batch util.Option[uint], initial [][]complex128) *Kernel {
	k := &Kernel{registry: reg, batch: batch, initial: initial}
	k.Reset()
	//
	return k
}

// Registry implementation for the device.Kernel interface.
func (p *Kernel) Registry() *wire.Registry {
	return p.registry
}

// Capabilities implementation for the device.Kernel interface.
func (p *Kernel) Capabilities() device.Capabilities {
	return device.Capabilities{
		ReturnsState:              true,
		SupportsFiniteShots:       true,
		SupportsTensorObservables: true,
	}
}

// Reset implementation for the device.Kernel interface.
func (p *Kernel) Reset() {
	p.current = clone(p.initial)
	p.rotated = p.current
}

// Apply implementation for the device.Kernel interface.
func (p *Kernel) Apply(operations []gate.Operation, rotations []gate.Operation) error {
	current := clone(p.current)
	//
	for _, op := range operations {
		if err := p.applyAll(current, op); err != nil {
			return err
		}
	}
	//
	rotated := clone(current)
	//
	for _, op := range rotations {
		if err := p.applyAll(rotated, op); err != nil {
			return err
		}
	}
	//
	p.current, p.rotated = current, rotated
	//
	return nil
}

// AnalyticProbability implementation for the device.Kernel interface.
func (p *Kernel) AnalyticProbability() (probability.Distribution, error) {
	return p.vector(p.rotated).Probabilities(), nil
}

// State implementation for the device.StateKernel interface.
func (p *Kernel) State() (state.Vector, error) {
	return p.vector(p.current), nil
}

// SetState replaces the current (unrotated) state of an unbatched kernel.
func (p *Kernel) SetState(amplitudes []complex128) error {
	if p.batch.HasValue() {
		return qerr.Unsupported("cannot set the state of a batched kernel")
	} else if uint(len(amplitudes)) != 1<<p.registry.Len() {
		return qerr.Configuration("state has %d amplitude(s), expected %d", len(amplitudes), 1<<p.registry.Len())
	}
	//
	p.current = [][]complex128{clone1(amplitudes)}
	p.rotated = p.current
	//
	return nil
}

// ApplyMatrix implementation for the device.AdjointKernel interface.
func (p *Kernel) ApplyMatrix(amplitudes []complex128, m *linalg.CMatrix, wires wire.Wires) ([]complex128, error) {
	indices, err := p.registry.Map(wires)
	if err != nil {
		return nil, err
	}
	//
	result := clone1(amplitudes)
	//
	if err := applyMatrix(result, m, indices, p.registry.Len()); err != nil {
		return nil, err
	}
	//
	return result, nil
}

func (p *Kernel) applyAll(rows [][]complex128, op gate.Operation) error {
	indices, err := p.registry.Map(op.Wires())
	if err != nil {
		return fmt.Errorf("cannot apply %s: %w", op, err)
	}
	//
	m := op.Matrix()
	//
	for _, row := range rows {
		if err := applyMatrix(row, m, indices, p.registry.Len()); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *Kernel) vector(rows [][]complex128) state.Vector {
	if p.batch.HasValue() {
		return state.Batched(rows...)
	}
	//
	return state.Single(rows[0])
}

// Apply a 2^k x 2^k matrix acting on k wires (given as device indices, with
// the first being most significant) to a vector over n wires, in place.
func applyMatrix(amplitudes []complex128, m *linalg.CMatrix, wires []uint, n uint) error {
	var (
		k      = uint(len(wires))
		dim    = uint(1) << k
		masks  = make([]uint, k)
		mask   uint
		local  = make([]complex128, dim)
		offset = make([]uint, dim)
	)
	//
	if rows, cols := m.Dims(); rows != dim || cols != dim {
		return qerr.Configuration("a %dx%d matrix cannot act on %d wire(s)", rows, cols, k)
	}
	//
	for i, w := range wires {
		masks[i] = 1 << (n - 1 - w)
		mask |= masks[i]
	}
	// offset of each local basis state within the full index space
	for j := range offset {
		for i := uint(0); i < k; i++ {
			if j&(1<<(k-1-i)) != 0 {
				offset[j] |= masks[i]
			}
		}
	}
	//
	for base := uint(0); base < uint(len(amplitudes)); base++ {
		if base&mask != 0 {
			continue
		}
		//
		for j, o := range offset {
			local[j] = amplitudes[base|o]
		}
		//
		for j, o := range offset {
			var sum complex128
			for l := uint(0); l < dim; l++ {
				sum += m.At(uint(j), l) * local[l]
			}
			//
			amplitudes[base|o] = sum
		}
	}
	//
	return nil
}

func clone(rows [][]complex128) [][]complex128 {
	result := make([][]complex128, len(rows))
	for i, row := range rows {
		result[i] = clone1(row)
	}
	//
	return result
}

func clone1(row []complex128) []complex128 {
	result := make([]complex128, len(row))
	copy(result, row)
	//
	return result
}
