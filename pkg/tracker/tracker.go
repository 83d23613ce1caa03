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

// Package tracker records the executions performed by an engine.  Every
// record is kept in a history, accumulated into totals, reported to an
// optional callback and exported as Prometheus metrics.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/consensys/go-qstats/pkg/shots"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	executionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qstats_executions_total",
		Help: "Total circuit executions",
	})

	shotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qstats_shots_total",
		Help: "Total shots sampled across all executions",
	})

	batchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qstats_batches_total",
		Help: "Total batch executions",
	})

	executionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qstats_execution_duration_seconds",
		Help:    "Circuit execution duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})
)

// Record describes one tracked event: either a single execution, or one batch
// of executions.
type Record struct {
	ID         uuid.UUID
	Time       time.Time
	Executions uint
	// shot specification of an execution, including any shot vector
	ShotSpec shots.Spec
	// samples drawn by an execution (the total over a shot vector)
	Shots    uint
	Batches  uint
	BatchLen uint
	Duration time.Duration
	// rendered results of an execution
	Results []string
}

func (r Record) String() string {
	if r.Batches > 0 {
		return fmt.Sprintf("%s batches=%d batch_len=%d", r.ID, r.Batches, r.BatchLen)
	}
	//
	return fmt.Sprintf("%s executions=%d shots=%s results=%v", r.ID, r.Executions, r.ShotSpec, r.Results)
}

// Totals accumulates the counters of every record.
type Totals struct {
	Executions uint
	Shots      uint
	Batches    uint
	BatchLen   uint
}

// Callback is invoked after every record, with the totals so far.
type Callback func(totals Totals, latest Record)

// Tracker accumulates records whilst active.  A tracker is safe for concurrent
// use.
type Tracker struct {
	mux      sync.Mutex
	active   bool
	totals   Totals
	history  []Record
	callback Callback
}

// New constructs an inactive tracker with an optional callback.
func New(callback Callback) *Tracker {
	return &Tracker{callback: callback}
}

// Start activates this tracker.
func (t *Tracker) Start() {
	t.mux.Lock()
	t.active = true
	t.mux.Unlock()
}

// Stop deactivates this tracker, leaving its records intact.
func (t *Tracker) Stop() {
	t.mux.Lock()
	t.active = false
	t.mux.Unlock()
}

// IsActive determines whether records are currently accepted.
func (t *Tracker) IsActive() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	//
	return t.active
}

// Reset discards all records.
func (t *Tracker) Reset() {
	t.mux.Lock()
	defer t.mux.Unlock()
	//
	t.totals = Totals{}
	t.history = nil
}

// RecordExecution records one execution under a given shot specification.
func (t *Tracker) RecordExecution(spec shots.Spec, duration time.Duration, results ...fmt.Stringer) {
	rendered := make([]string, len(results))
	for i, r := range results {
		rendered[i] = r.String()
	}
	//
	t.record(Record{Executions: 1, ShotSpec: spec, Shots: spec.Total(), Duration: duration, Results: rendered})
}

// RecordBatch records a batch of executions.
func (t *Tracker) RecordBatch(n uint) {
	t.record(Record{Batches: 1, BatchLen: n})
}

// Totals returns the accumulated totals.
func (t *Tracker) Totals() Totals {
	t.mux.Lock()
	defer t.mux.Unlock()
	//
	return t.totals
}

// History returns every record, in order.
func (t *Tracker) History() []Record {
	t.mux.Lock()
	defer t.mux.Unlock()
	//
	return append([]Record(nil), t.history...)
}

// Latest returns the most recent record, if any.
func (t *Tracker) Latest() (Record, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()
	//
	if len(t.history) == 0 {
		return Record{}, false
	}
	//
	return t.history[len(t.history)-1], true
}

func (t *Tracker) record(r Record) {
	t.mux.Lock()
	//
	if !t.active {
		t.mux.Unlock()
		return
	}
	//
	r.ID = uuid.New()
	r.Time = time.Now()
	//
	t.totals.Executions += r.Executions
	t.totals.Shots += r.Shots
	t.totals.Batches += r.Batches
	t.totals.BatchLen += r.BatchLen
	t.history = append(t.history, r)
	totals := t.totals
	//
	t.mux.Unlock()
	//
	executionsTotal.Add(float64(r.Executions))
	shotsTotal.Add(float64(r.Shots))
	batchesTotal.Add(float64(r.Batches))
	//
	if r.Executions > 0 {
		executionDuration.Observe(r.Duration.Seconds())
	}
	//
	if t.callback != nil {
		t.callback(totals, r)
	}
}
