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

// Package engine executes circuits against a device kernel and evaluates their
// measurements, either exactly from the kernel's state or statistically from
// samples drawn from it.
package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/consensys/go-qstats/pkg/device"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/qerr"
	"github.com/consensys/go-qstats/pkg/sample"
	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/consensys/go-qstats/pkg/tensor"
	"github.com/consensys/go-qstats/pkg/tracker"
	"github.com/consensys/go-qstats/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Request is passed to an override, describing the measurement to evaluate
// and the shots (if any) it is evaluated over.
type Request struct {
	Process   measure.Process
	Tape      measure.Tape
	ShotRange util.Option[sample.Range]
	BinSize   util.Option[uint]
}

// Override evaluates one kind of measurement in place of the engine's own
// evaluation path.
type Override func(Request) (measure.Value, error)

// Option configures an engine at construction.
type Option func(*Engine)

// WithLogger directs advisories and debug output to a given logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTracker records every execution on a given tracker.
func WithTracker(t *tracker.Tracker) Option {
	return func(e *Engine) { e.tracker = t }
}

// WithOverride evaluates every measurement of a given kind using a custom
// function.
func WithOverride(kind measure.Kind, fn Override) Option {
	return func(e *Engine) { e.overrides[kind] = fn }
}

// Engine executes circuits on a kernel.  The samples drawn by the most recent
// execution are retained until the next execution or reset.  An engine is not
// safe for concurrent use.
type Engine struct {
	kernel    device.Kernel
	shots     shots.Spec
	rdt, cdt  tensor.DType
	samples   sample.Buffer
	source    *rand.PCG
	count     uint
	tracker   *tracker.Tracker
	logger    *log.Logger
	overrides map[measure.Kind]Override
}

// New constructs an engine for a kernel from a given configuration, whose
// wires must match those of the kernel.
func New(kernel device.Kernel, config device.Config, options ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	} else if !kernel.Registry().Wires().Equals(config.Wires) {
		return nil, qerr.Configuration("device wires %s do not match kernel wires %s", config.Wires,
			kernel.Registry().Wires())
	} else if !config.Shots.IsAnalytic() && !kernel.Capabilities().SupportsFiniteShots {
		return nil, qerr.Missing("kernel cannot be sampled with %s shots", config.Shots)
	}
	//
	rdt, cdt, _ := config.DTypes()
	seed := config.Seed.UnwrapOr(rand.Uint64())
	//
	engine := &Engine{
		kernel:    kernel,
		shots:     config.Shots,
		rdt:       rdt,
		cdt:       cdt,
		source:    rand.NewPCG(seed, seed),
		logger:    log.StandardLogger(),
		overrides: make(map[measure.Kind]Override),
	}
	//
	for _, option := range options {
		option(engine)
	}
	//
	return engine, nil
}

// Kernel returns the kernel of this engine.
func (e *Engine) Kernel() device.Kernel { return e.kernel }

// Shots returns the current shot specification.
func (e *Engine) Shots() shots.Spec { return e.shots }

// SetShots changes the shot specification used by subsequent executions.
func (e *Engine) SetShots(spec shots.Spec) error {
	if !spec.IsAnalytic() && !e.kernel.Capabilities().SupportsFiniteShots {
		return qerr.Missing("kernel cannot be sampled with %s shots", spec)
	}
	//
	e.shots = spec
	//
	return nil
}

// NumExecutions returns the number of executions performed so far.
func (e *Engine) NumExecutions() uint { return e.count }

// Samples returns the samples drawn by the most recent execution.
func (e *Engine) Samples() sample.Buffer { return e.samples }

// Reset returns the kernel to its initial state and discards any samples.
func (e *Engine) Reset() {
	e.kernel.Reset()
	e.samples = sample.Buffer{}
}

// Execute applies a circuit's operations to the kernel, and evaluates its
// measurements.  Measurements are validated before anything is applied.
func (e *Engine) Execute(tape measure.Tape) (Result, error) {
	var (
		stats = util.NewPerfStats()
		ms    = tape.Measurements()
	)
	//
	if err := e.validate(ms); err != nil {
		return Result{}, err
	}
	//
	e.advise(ms)
	//
	if len(ms) == 1 && ms[0].Kind().IsShadow() {
		return e.executeShadow(tape, ms[0], stats)
	}
	//
	rotations, err := tape.DiagonalizingGates()
	if err != nil {
		return Result{}, err
	}
	//
	e.logger.Debugf("Applying %d operation(s) and %d rotation(s)", len(tape.Operations()), len(rotations))
	//
	if err := e.kernel.Apply(tape.Operations(), rotations); err != nil {
		return Result{}, err
	}
	//
	if !e.shots.IsAnalytic() {
		e.logger.Debugf("Sampling %s shot(s)", e.shots)
		//
		if e.samples, err = e.generateSamples(e.shots.Total()); err != nil {
			return Result{}, err
		}
	}
	//
	e.logger.Debugf("Aggregating %d measurement(s)", len(ms))
	//
	result, err := e.aggregate(tape)
	if err != nil {
		return Result{}, err
	}
	//
	e.logger.Debugf("Normalizing results to %s/%s", e.rdt, e.cdt)
	//
	result = e.normalize(ms, result)
	e.count++
	//
	if e.tracker != nil {
		e.tracker.RecordExecution(e.shots, stats.Elapsed(), result)
	}
	//
	stats.Log("Executing circuit")
	//
	return result, nil
}

// Draw a number of samples from the kernel, using its own sampler when it has
// one.
func (e *Engine) generateSamples(n uint) (sample.Buffer, error) {
	if sampler, ok := e.kernel.(device.SampleKernel); ok {
		return sampler.GenerateSamples(n)
	}
	//
	dist, err := e.kernel.AnalyticProbability()
	if err != nil {
		return sample.Buffer{}, err
	}
	//
	return sample.Generate(dist.Rows(), dist.Batch(), n, e.kernel.Registry().Len(), e.source)
}

// Check a list of measurements can be evaluated on this engine, before any
// operation is applied.
func (e *Engine) validate(ms []measure.Process) error {
	var (
		reg   = e.kernel.Registry()
		caps  = e.kernel.Capabilities()
		_, ok = e.kernel.(device.StateKernel)
	)
	//
	for _, m := range ms {
		if m.Kind().IsExclusive() && len(ms) > 1 {
			return qerr.Unsupported("%s cannot be combined with other measurements (got %s)", m, names(ms))
		}
		//
		if _, err := reg.Map(m.Wires()); err != nil {
			return fmt.Errorf("cannot measure %s: %w", m, err)
		}
		//
		if _, overridden := e.overrides[m.Kind()]; overridden {
			continue
		}
		//
		switch m.Kind() {
		case measure.Expectation, measure.Variance, measure.Sample, measure.Counts:
			if !m.HasObservable() {
				break
			} else if _, err := m.Observable().Eigvals(); err != nil {
				return fmt.Errorf("cannot compute %s: %w", m, err)
			}
		case measure.VnEntropy, measure.MutualInfo:
			if !reg.IsCanonical() {
				return qerr.Unsupported("%s requires device wires labelled 0..n-1 (got %s)", m, reg.Wires())
			} else if e.shots.HasVector() {
				return qerr.Unsupported("%s is not supported with a shot vector", m)
			}
		}
		//
		if _, isTensor := m.Observable().(observable.Tensor); isTensor && !caps.SupportsTensorObservables {
			return qerr.Missing("kernel does not support tensor observables (got %s)", m)
		}
		//
		if m.Kind().IsAnalyticOnly() && (!ok || !caps.ReturnsState) {
			return qerr.Missing("%s requires a kernel which returns its state", m)
		}
		//
		if e.shots.IsAnalytic() && (m.Kind() == measure.Sample || m.Kind() == measure.Counts || m.Kind().IsShadow()) {
			return qerr.Precondition("the number of shots has to be explicitly set on the device when using " +
				"sample-based measurements (got %s)", m)
		}
	}
	//
	return nil
}

// Issue advisories for measurements which ignore the configured shots.
func (e *Engine) advise(ms []measure.Process) {
	if e.shots.IsAnalytic() {
		return
	}
	//
	for _, m := range ms {
		switch m.Kind() {
		case measure.State:
			e.logger.Warn("Requested state or density matrix with finite shots; the returned state information " +
				"is analytic and is unaffected by sampling.")
		case measure.VnEntropy:
			e.logger.Warn("Requested Von Neumann entropy with finite shots; the returned result is analytic " +
				"and is unaffected by sampling.")
		case measure.MutualInfo:
			e.logger.Warn("Requested mutual information with finite shots; the returned result is analytic " +
				"and is unaffected by sampling.")
		}
	}
}

func names(ms []measure.Process) string {
	var parts []string
	for _, m := range ms {
		parts = append(parts, m.String())
	}
	//
	return strings.Join(parts, ", ")
}
