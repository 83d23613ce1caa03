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

// Package sample holds the computational basis samples drawn during one
// execution of a circuit.
package sample

import (
	"fmt"

	"github.com/consensys/go-qstats/pkg/util"
)

// Buffer is a collection of computational basis outcomes of shape (shots,
// wires), or (batch, shots, wires) when circuit parameters are broadcast.  Each
// outcome is a 0/1 bit per device wire, with the first device wire first.
type Buffer struct {
	batch util.Option[uint]
	shots uint
	wires uint
	data  []uint8
}

// NewBuffer constructs a buffer over row-major sample data.
func NewBuffer(batch util.Option[uint], shots, wires uint, data []uint8) Buffer {
	if batch.UnwrapOr(1)*shots*wires != uint(len(data)) {
		panic(fmt.Sprintf("%d bit(s) do not fit %d shot(s) on %d wire(s) with batch %s", len(data), shots, wires,
			batch))
	}
	//
	return Buffer{batch, shots, wires, data}
}

// FromRows constructs an unbatched buffer from a sequence of outcomes.
func FromRows(rows ...[]uint8) Buffer {
	var (
		wires uint
		data  []uint8
	)
	//
	if len(rows) > 0 {
		wires = uint(len(rows[0]))
	}
	//
	for _, row := range rows {
		data = append(data, row...)
	}
	//
	return NewBuffer(util.None[uint](), uint(len(rows)), wires, data)
}

// Range is the half-open range of shots [Start, End).
type Range struct {
	Start uint
	End   uint
}

// Len returns the number of shots in this range.
func (r Range) Len() uint { return r.End - r.Start }

// Batch returns the broadcast batch size, if any.
func (b Buffer) Batch() util.Option[uint] { return b.batch }

// Rows returns the number of batch rows (one when not broadcasting).
func (b Buffer) Rows() uint { return b.batch.UnwrapOr(1) }

// Shots returns the number of outcomes held per batch row.
func (b Buffer) Shots() uint { return b.shots }

// NumWires returns the number of device wires of each outcome.
func (b Buffer) NumWires() uint { return b.wires }

// IsEmpty determines whether this buffer holds any samples.
func (b Buffer) IsEmpty() bool { return b.shots == 0 }

// Bit returns the outcome of a given wire for a given shot.
func (b Buffer) Bit(row, shot, wire uint) uint8 {
	return b.data[(row*b.shots+shot)*b.wires+wire]
}

// Outcome returns the bits of a given shot.
func (b Buffer) Outcome(row, shot uint) []uint8 {
	start := (row*b.shots + shot) * b.wires
	return b.data[start : start+b.wires]
}

// Slice returns the outcomes within the shot range [start, end) of every
// batch row.
func (b Buffer) Slice(start, end uint) Buffer {
	if start > end || end > b.shots {
		panic(fmt.Sprintf("invalid shot range [%d, %d) for %d shot(s)", start, end, b.shots))
	}
	//
	data := make([]uint8, 0, b.Rows()*(end-start)*b.wires)
	//
	for r := uint(0); r < b.Rows(); r++ {
		data = append(data, b.data[(r*b.shots+start)*b.wires:(r*b.shots+end)*b.wires]...)
	}
	//
	return Buffer{b.batch, end - start, b.wires, data}
}

// Bins partitions the shots of this buffer into contiguous bins of a given
// size.  Any trailing shots which do not fill a bin are discarded.
func (b Buffer) Bins(size uint) []Buffer {
	bins := make([]Buffer, b.shots/size)
	for i := range bins {
		bins[i] = b.Slice(uint(i)*size, uint(i+1)*size)
	}
	//
	return bins
}

// Indices returns, for every batch row and shot, the basis index of the
// outcome restricted to the given device wires.  The first wire given is the
// most significant.
func (b Buffer) Indices(wires []uint) [][]uint {
	indices := make([][]uint, b.Rows())
	//
	for r := range indices {
		indices[r] = make([]uint, b.shots)
		//
		for s := range indices[r] {
			var index uint
			for _, w := range wires {
				index = (index << 1) | uint(b.Bit(uint(r), uint(s), w))
			}
			//
			indices[r][s] = index
		}
	}
	//
	return indices
}

// Restrict returns the outcomes of this buffer on a subset of its wires, in
// the order given.
func (b Buffer) Restrict(wires []uint) Buffer {
	data := make([]uint8, 0, b.Rows()*b.shots*uint(len(wires)))
	//
	for r := uint(0); r < b.Rows(); r++ {
		for s := uint(0); s < b.shots; s++ {
			for _, w := range wires {
				data = append(data, b.Bit(r, s, w))
			}
		}
	}
	//
	return Buffer{b.batch, b.shots, uint(len(wires)), data}
}
