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
package device

import (
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Config describes how a device is constructed.
type Config struct {
	// Wires of the device, defining the order of basis states.
	Wires wire.Wires
	// Shots determines whether (and how often) the device is sampled.
	Shots shots.Spec
	// RealDType names the dtype of real results ("float32" or "float64").
	RealDType string
	// ComplexDType names the dtype of complex results ("complex64" or
	// "complex128").
	ComplexDType string
	// Seed for sampling, or none for an unpredictable seed.
	Seed util.Option[uint64]
}

// DefaultConfig returns an analytic double precision configuration over n
// wires labelled 0..n-1.
func DefaultConfig(n uint) Config {
	return Config{
		Wires:        wire.Range(n),
		Shots:        shots.Analytic(),
		RealDType:    tensor.Float64.String(),
		ComplexDType: tensor.Complex128.String(),
		Seed:         util.None[uint64](),
	}
}

// Validate checks this configuration, returning a configuration error when it
// is not usable.
func (c Config) Validate() error {
	if len(c.Wires) == 0 {
		return qerr.Configuration("a device requires at least one wire")
	}
	//
	if _, err := wire.NewRegistry(c.Wires); err != nil {
		return err
	}
	//
	_, _, err := c.DTypes()
	//
	return err
}

// DTypes returns the real and complex dtypes of this configuration.
func (c Config) DTypes() (tensor.DType, tensor.DType, error) {
	rdt, ok := tensor.ParseDType(c.RealDType)
	if !ok || !rdt.IsFloat() {
		return 0, 0, qerr.Configuration("real datatype must be a floating point type, got \"%s\"", c.RealDType)
	}
	//
	cdt, ok := tensor.ParseDType(c.ComplexDType)
	if !ok || !cdt.IsComplex() {
		return 0, 0, qerr.Configuration("complex datatype must be a complex floating point type, got \"%s\"",
			c.ComplexDType)
	}
	//
	return rdt, cdt, nil
}
