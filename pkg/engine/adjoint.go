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
package engine

import (
	"math/cmplx"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/util"
)

// AdjointOptions controls where the backward pass of adjoint differentiation
// starts from.
type AdjointOptions struct {
	// StartingState is the state reached by the circuit, when already known.
	StartingState util.Option[[]complex128]
	// UseDeviceState uses the kernel's current state as the state reached by
	// the circuit, rather than executing it again.
	UseDeviceState bool
}

// AdjointJacobian computes the derivative of every expectation value of a
// circuit with respect to every differentiable operation parameter, using a
// single backward pass over the circuit.  The result has one row per
// measurement and one column per parameter, in circuit order.  Operations
// with more than one parameter are only supported when they can be
// decomposed.
func (e *Engine) AdjointJacobian(tape measure.Tape, options AdjointOptions) ([][]float64, error) {
	kernel, ok := e.kernel.(device.AdjointKernel)
	//
	if !ok {
		return nil, qerr.Missing("kernel does not support adjoint differentiation")
	} else if e.shots.HasVector() {
		return nil, qerr.Unsupported("adjoint differentiation does not support shot vectors")
	} else if !e.shots.IsAnalytic() {
		e.logger.Warn("Requested adjoint differentiation to be computed with finite shots. The derivative is " +
			"always exact when using the adjoint differentiation method.")
	}
	//
	ms := tape.Measurements()
	//
	for _, m := range ms {
		if m.Kind() != measure.Expectation {
			return nil, qerr.Unsupported("adjoint differentiation method does not support measurement %s", m)
		} else if _, ok := m.Observable().(observable.Hamiltonian); ok {
			return nil, qerr.Unsupported("adjoint differentiation method does not support Hamiltonian observables")
		}
	}
	//
	ops, err := expandOperations(tape.Operations())
	if err != nil {
		return nil, err
	}
	//
	psi, err := e.forwardState(kernel, ops, options)
	if err != nil {
		return nil, err
	}
	// Apply each observable to the final state
	lambdas := make([][]complex128, len(ms))
	//
	for i, m := range ms {
		matrix, err := m.Observable().Matrix()
		if err != nil {
			return nil, err
		}
		//
		if lambdas[i], err = kernel.ApplyMatrix(psi, matrix, m.Observable().Wires()); err != nil {
			return nil, err
		}
	}
	//
	var params int
	//
	for _, op := range ops {
		if op.IsDifferentiable() {
			params++
		}
	}
	//
	jacobian := make([][]float64, len(ms))
	for i := range jacobian {
		jacobian[i] = make([]float64, params)
	}
	// Backward pass
	for j := len(ops) - 1; j >= 0; j-- {
		op := ops[j]
		inverse := op.Adjoint().Matrix()
		//
		phi, err := kernel.ApplyMatrix(psi, inverse, op.Wires())
		if err != nil {
			return nil, err
		}
		//
		if op.IsDifferentiable() {
			params--
			//
			derivative, err := op.Derivative()
			if err != nil {
				return nil, err
			}
			//
			mu, err := kernel.ApplyMatrix(phi, derivative, op.Wires())
			if err != nil {
				return nil, err
			}
			//
			for i, lambda := range lambdas {
				jacobian[i][params] = 2 * real(innerProduct(lambda, mu))
			}
		}
		//
		for i := range lambdas {
			if lambdas[i], err = kernel.ApplyMatrix(lambdas[i], inverse, op.Wires()); err != nil {
				return nil, err
			}
		}
		//
		psi = phi
	}
	//
	return jacobian, nil
}

// Determine the state reached by the circuit.
func (e *Engine) forwardState(kernel device.AdjointKernel, ops []gate.Operation,
	options AdjointOptions) ([]complex128, error) {
	if options.StartingState.HasValue() {
		return options.StartingState.Unwrap(), nil
	}
	//
	if !options.UseDeviceState {
		e.Reset()
		//
		if err := kernel.Apply(ops, nil); err != nil {
			return nil, err
		}
	}
	//
	st, err := kernel.State()
	if err != nil {
		return nil, err
	} else if st.Batch().HasValue() {
		return nil, qerr.Unsupported("adjoint differentiation does not support broadcasting")
	}
	//
	return st.Rows()[0], nil
}

// Replace operations with more than one parameter by their decompositions.
func expandOperations(ops []gate.Operation) ([]gate.Operation, error) {
	var expanded []gate.Operation
	//
	for _, op := range ops {
		if op.NumParams() <= 1 {
			expanded = append(expanded, op)
		} else if decomposition, ok := op.Decomposition(); ok {
			expanded = append(expanded, decomposition...)
		} else {
			return nil, qerr.Unsupported("%s cannot be differentiated with the adjoint method: only operations " +
				"with a single parameter (or Rot) are supported", op.Name())
		}
	}
	//
	return expanded, nil
}

func innerProduct(a, b []complex128) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	//
	return sum
}
