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
package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire is an opaque label identifying one qubit slot.  A label is either an
// integer or a string; two wires are equal exactly when their labels are.
type Wire struct {
	index int
	name  string
	named bool
}

// Int constructs a wire labelled by an integer.
func Int(index int) Wire {
	return Wire{index: index}
}

// Name constructs a wire labelled by a string.
func Name(name string) Wire {
	return Wire{name: name, named: true}
}

// Parse a wire label, where anything which looks like an integer becomes an
// integer label.
func Parse(label string) Wire {
	if i, err := strconv.Atoi(label); err == nil {
		return Int(i)
	}
	//
	return Name(label)
}

// IsInt determines whether this wire carries an integer label.
func (w Wire) IsInt() bool {
	return !w.named
}

// Index returns the integer label of this wire, or panics for a string label.
func (w Wire) Index() int {
	if w.named {
		panic(fmt.Sprintf("wire %q has no integer label", w.name))
	}
	//
	return w.index
}

func (w Wire) String() string {
	if w.named {
		return w.name
	}
	//
	return strconv.Itoa(w.index)
}

// Wires is an ordered sequence of unique wire labels.  The order is
// significant, since it determines the tensor-index ordering of any state or
// sample associated with the wires.
type Wires []Wire

// New constructs a sequence of wires from integer or string labels (or Wire
// values), failing if a label is duplicated or has an unsupported type.
func New(labels ...any) (Wires, error) {
	wires := make(Wires, len(labels))
	//
	for i, l := range labels {
		switch v := l.(type) {
		case Wire:
			wires[i] = v
		case int:
			wires[i] = Int(v)
		case uint:
			wires[i] = Int(int(v))
		case string:
			wires[i] = Name(v)
		default:
			return nil, fmt.Errorf("unsupported wire label %v (%T)", l, l)
		}
	}
	//
	if dup, ok := wires.duplicate(); ok {
		return nil, fmt.Errorf("duplicate wire label %s", dup)
	}
	//
	return wires, nil
}

// Must is like New, but panics on error.  This is useful for literals in
// tests and examples.
func Must(labels ...any) Wires {
	wires, err := New(labels...)
	if err != nil {
		panic(err)
	}
	//
	return wires
}

// Range constructs the canonical wires 0..n.
func Range(n uint) Wires {
	wires := make(Wires, n)
	for i := range wires {
		wires[i] = Int(i)
	}
	//
	return wires
}

// Contains determines whether a given wire is in this sequence.
func (p Wires) Contains(w Wire) bool {
	return p.IndexOf(w) >= 0
}

// IndexOf returns the position of a given wire, or -1 if absent.
func (p Wires) IndexOf(w Wire) int {
	for i, v := range p {
		if v == w {
			return i
		}
	}
	//
	return -1
}

// Equals determines whether two sequences hold the same wires in the same
// order.
func (p Wires) Equals(other Wires) bool {
	if len(p) != len(other) {
		return false
	}
	//
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	//
	return true
}

// Union returns the wires of this sequence followed by those wires of the
// others not already present.
func (p Wires) Union(others ...Wires) Wires {
	result := append(Wires{}, p...)
	//
	for _, ws := range others {
		for _, w := range ws {
			if !result.Contains(w) {
				result = append(result, w)
			}
		}
	}
	//
	return result
}

// Difference returns the wires of this sequence not contained in other, in
// their original order.
func (p Wires) Difference(other Wires) Wires {
	var result Wires
	//
	for _, w := range p {
		if !other.Contains(w) {
			result = append(result, w)
		}
	}
	//
	return result
}

func (p Wires) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, w := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(w.String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

func (p Wires) duplicate() (Wire, bool) {
	seen := make(map[Wire]bool, len(p))
	//
	for _, w := range p {
		if seen[w] {
			return w, true
		}
		//
		seen[w] = true
	}
	//
	return Wire{}, false
}
