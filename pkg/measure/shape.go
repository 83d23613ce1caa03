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

import (
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/wire"
)

// NumericType returns the element type of this process's result.  Samples and
// counts are integers when no observable is given, or when every component of
// the observable has fixed integer eigenvalues.
func (p Process) NumericType() (tensor.DType, error) {
	switch p.kind {
	case Expectation, Variance, Probability, VnEntropy, MutualInfo, ShadowExpval:
		return tensor.Float64, nil
	case Sample, Counts:
		if p.obs == nil || observable.HasIntegerEigvals(p.obs) {
			return tensor.Int64, nil
		}
		//
		return tensor.Float64, nil
	case State:
		return tensor.Complex128, nil
	case ClassicalShadow:
		return tensor.Int64, nil
	default:
		return 0, qerr.Unsupported("the numeric type of %s is not known in advance", p)
	}
}

// Shape returns the shape of this process's result, without executing it.
// For a shot vector there is one shape per copy of each entry, otherwise a
// single shape is returned.  A single shot yields no shots axis.  The wires
// are those of the device, in order.
func (p Process) Shape(spec shots.Spec, wires wire.Wires) ([]tensor.Shape, error) {
	if !spec.HasVector() {
		shape, err := p.shape(spec.Total(), wires)
		if err != nil {
			return nil, err
		}
		//
		return []tensor.Shape{shape}, nil
	}
	//
	var shapes []tensor.Shape
	//
	for _, n := range spec.Raw() {
		shape, err := p.shape(n, wires)
		if err != nil {
			return nil, err
		}
		//
		shapes = append(shapes, shape)
	}
	//
	return shapes, nil
}

// Shape for a given number of shots, where zero denotes analytic mode.
func (p Process) shape(n uint, wires wire.Wires) (tensor.Shape, error) {
	k := uint(len(p.Wires()))
	if k == 0 {
		k = uint(len(wires))
	}
	//
	switch p.kind {
	case Expectation, Variance, VnEntropy, MutualInfo, ShadowExpval:
		return tensor.Shape{}, nil
	case Probability:
		return tensor.Shape{1 << k}, nil
	case State:
		// Same rule as ProcessState
		if len(p.wires) == 0 || p.wires.Equals(wires) {
			return tensor.Shape{1 << len(wires)}, nil
		}
		//
		return tensor.Shape{1 << k, 1 << k}, nil
	case Sample:
		if n == 0 {
			return nil, qerr.Precondition("the number of shots has to be explicitly set on the device when using " +
				"sample-based measurements such as %s", p)
		} else if p.obs != nil && n == 1 {
			return tensor.Shape{}, nil
		} else if p.obs != nil {
			return tensor.Shape{n}, nil
		} else if n == 1 {
			return tensor.Shape{k}, nil
		}
		//
		return tensor.Shape{n, k}, nil
	case ClassicalShadow:
		if n == 0 {
			return nil, qerr.Precondition("the number of shots has to be explicitly set on the device when using " +
				"classical shadows")
		}
		//
		return tensor.Shape{2, n, k}, nil
	default:
		return nil, qerr.Unsupported("the shape of %s cannot be determined in advance", p)
	}
}
