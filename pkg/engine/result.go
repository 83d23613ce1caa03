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
	"strings"

	"github.com/consensys/go-qstats/pkg/measure"
)

// Result holds the values of a circuit's measurements, in order.  With a shot
// vector there is one row of values for every copy of every entry, otherwise
// there is exactly one row.
type Result struct {
	rows   [][]measure.Value
	vector bool
}

// Values returns the values of the first (or only) row.
func (r Result) Values() []measure.Value {
	return r.rows[0]
}

// Value returns the value of the ith measurement in the first (or only) row.
func (r Result) Value(i uint) measure.Value {
	return r.rows[0][i]
}

// Rows returns every row of values.
func (r Result) Rows() [][]measure.Value {
	return r.rows
}

// HasVector determines whether this result was computed with a shot vector.
func (r Result) HasVector() bool {
	return r.vector
}

func (r Result) String() string {
	var rows []string
	//
	for _, row := range r.rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = v.String()
		}
		//
		rows = append(rows, "("+strings.Join(values, ", ")+")")
	}
	//
	if !r.vector {
		return rows[0]
	}
	//
	return "(" + strings.Join(rows, ", ") + ")"
}
