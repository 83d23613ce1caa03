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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the result of evaluating a measurement process.  This is one of
// tensor.Array, tensor.CArray, Counts, CountsList or shadow.Snapshots, or
// whatever a transform returns.
type Value interface {
	String() string
}

// OutcomeCounts maps each observed outcome (a bit string, or an eigenvalue)
// to the number of times it occurred.
type OutcomeCounts struct {
	counts map[string]uint
	// Indicates keys are eigenvalues rather than bit strings.
	numeric bool
}

// NewCounts constructs an empty set of counts, optionally pre-populated with
// outcomes which have not (yet) been observed.
func NewCounts(numeric bool, outcomes ...string) OutcomeCounts {
	counts := make(map[string]uint, len(outcomes))
	for _, o := range outcomes {
		counts[o] = 0
	}
	//
	return OutcomeCounts{counts, numeric}
}

// Add records one occurrence of an outcome.
func (c OutcomeCounts) Add(outcome string) {
	c.counts[outcome]++
}

// Get returns the number of occurrences of an outcome.
func (c OutcomeCounts) Get(outcome string) uint {
	return c.counts[outcome]
}

// Has determines whether an outcome is present (even with a zero count).
func (c OutcomeCounts) Has(outcome string) bool {
	_, ok := c.counts[outcome]
	return ok
}

// Len returns the number of distinct outcomes held.
func (c OutcomeCounts) Len() int {
	return len(c.counts)
}

// Total returns the number of occurrences across all outcomes.
func (c OutcomeCounts) Total() uint {
	var total uint
	for _, n := range c.counts {
		total += n
	}
	//
	return total
}

// Keys returns the outcomes in ascending order.
func (c OutcomeCounts) Keys() []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	//
	if c.numeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			//
			return a < b
		})
	} else {
		sort.Strings(keys)
	}
	//
	return keys
}

func (c OutcomeCounts) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, k := range c.Keys() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%s: %d", k, c.counts[k]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// CountsList holds one set of counts per batch row and bin, in row-major
// order (rows outermost).
type CountsList []OutcomeCounts

func (l CountsList) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	//
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

func formatEigval(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
