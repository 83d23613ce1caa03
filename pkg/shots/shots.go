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

// Package shots describes how many times a circuit is sampled.
package shots

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-qstats/pkg/qerr"
)

// Entry is one element of a shot vector: a number of shots, repeated some
// number of times.
type Entry struct {
	Shots  uint
	Copies uint
}

// Total returns the number of samples consumed by this entry.
func (e Entry) Total() uint {
	return e.Shots * e.Copies
}

func (e Entry) String() string {
	if e.Copies == 1 {
		return fmt.Sprintf("%d", e.Shots)
	}
	//
	return fmt.Sprintf("%dx%d", e.Shots, e.Copies)
}

// Spec is a shot specification.  This is either analytic (no sampling), a
// fixed number of shots, or a shot vector whose statistics are computed
// separately per entry and copy.
type Spec struct {
	entries []Entry
}

// Analytic returns the shot specification for exact computation.
func Analytic() Spec {
	return Spec{}
}

// Fixed returns the shot specification for a fixed number of shots.
func Fixed(n uint) Spec {
	return Spec{[]Entry{{n, 1}}}
}

// Vector returns a shot vector.  Consecutive entries with the same number of
// shots are merged.
func Vector(entries ...Entry) Spec {
	var merged []Entry
	//
	for _, e := range entries {
		if n := len(merged); n > 0 && merged[n-1].Shots == e.Shots {
			merged[n-1].Copies += e.Copies
		} else {
			merged = append(merged, e)
		}
	}
	//
	return Spec{merged}
}

// Sequence returns the shot vector for a raw sequence of shot counts, such as
// [10, 10, 5] which becomes [10x2, 5].
func Sequence(shots ...uint) Spec {
	entries := make([]Entry, len(shots))
	for i, s := range shots {
		entries[i] = Entry{s, 1}
	}
	//
	return Vector(entries...)
}

// Parse reads a shot specification written as a comma separated list of
// entries, each either "N" or "NxC" (N shots, C copies).  The empty string
// and "analytic" denote analytic mode.
func Parse(text string) (Spec, error) {
	text = strings.TrimSpace(text)
	//
	if text == "" || text == "analytic" {
		return Analytic(), nil
	}
	//
	var entries []Entry
	//
	for _, item := range strings.Split(text, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "x", 2)
		copies := uint64(1)
		//
		shots, err := strconv.ParseUint(parts[0], 10, 64)
		if err == nil && len(parts) == 2 {
			copies, err = strconv.ParseUint(parts[1], 10, 64)
		}
		//
		if err != nil || shots == 0 || copies == 0 {
			return Spec{}, qerr.Configuration("invalid shot entry \"%s\"", item)
		}
		//
		entries = append(entries, Entry{uint(shots), uint(copies)})
	}
	//
	return Vector(entries...), nil
}

// IsAnalytic determines whether no sampling is requested.
func (s Spec) IsAnalytic() bool {
	return len(s.entries) == 0
}

// HasVector determines whether this is a genuine shot vector, rather than a
// single fixed number of shots.
func (s Spec) HasVector() bool {
	return len(s.entries) > 1 || (len(s.entries) == 1 && s.entries[0].Copies > 1)
}

// Entries returns the entries of this shot specification.
func (s Spec) Entries() []Entry {
	return s.entries
}

// Total returns the number of samples drawn per execution, or 0 in analytic
// mode.
func (s Spec) Total() uint {
	var total uint
	for _, e := range s.entries {
		total += e.Total()
	}
	//
	return total
}

// Raw returns the shot count of every copy of every entry, in order.
func (s Spec) Raw() []uint {
	var raw []uint
	//
	for _, e := range s.entries {
		for i := uint(0); i < e.Copies; i++ {
			raw = append(raw, e.Shots)
		}
	}
	//
	return raw
}

func (s Spec) String() string {
	if s.IsAnalytic() {
		return "analytic"
	}
	//
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.String()
	}
	//
	return strings.Join(parts, ",")
}
