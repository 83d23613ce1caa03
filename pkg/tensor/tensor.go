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

// Package tensor provides the dense n-dimensional arrays in which numeric
// measurement results are returned.
package tensor

import (
	"fmt"
	"math"
	"strings"
)

// DType identifies the element type of an array.
type DType uint8

const (
	// Int64 holds integer results (samples of integer-valued observables).
	Int64 DType = iota
	// Float32 holds single precision real results.
	Float32
	// Float64 holds double precision real results.
	Float64
	// Complex64 holds single precision complex results.
	Complex64
	// Complex128 holds double precision complex results.
	Complex128
)

// ParseDType parses the name of a dtype, such as "float64".
func ParseDType(name string) (DType, bool) {
	for d := Int64; d <= Complex128; d++ {
		if d.String() == name {
			return d, true
		}
	}
	//
	return 0, false
}

// IsFloat determines whether this is a real floating point dtype.
func (d DType) IsFloat() bool { return d == Float32 || d == Float64 }

// IsComplex determines whether this is a complex floating point dtype.
func (d DType) IsComplex() bool { return d == Complex64 || d == Complex128 }

// Real returns the real dtype of matching precision.
func (d DType) Real() DType {
	switch d {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return d
	}
}

// Complex returns the complex dtype of matching precision.
func (d DType) Complex() DType {
	switch d {
	case Float32, Complex64:
		return Complex64
	default:
		return Complex128
	}
}

func (d DType) String() string {
	switch d {
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}

// Promote returns the smallest dtype which can hold values of both dtypes,
// following the usual promotion lattice (int64 promotes to float64).
func Promote(a, b DType) DType {
	if a == b {
		return a
	}
	//
	if a.IsComplex() || b.IsComplex() {
		if a.precision() == 32 && b.precision() == 32 {
			return Complex64
		}
		//
		return Complex128
	} else if a == Int64 || b == Int64 {
		return Float64
	}
	//
	return max(a, b)
}

// Number of bits of floating point precision, or 0 for integers.
func (d DType) precision() uint {
	switch d {
	case Float32, Complex64:
		return 32
	case Float64, Complex128:
		return 64
	default:
		return 0
	}
}

// ============================================================================
// Shape
// ============================================================================

// Shape is the extent of each axis of an array.  An empty shape is a scalar.
type Shape []uint

// Size returns the number of elements described by this shape.
func (s Shape) Size() uint {
	size := uint(1)
	for _, n := range s {
		size *= n
	}
	//
	return size
}

// Equals determines whether two shapes are identical.
func (s Shape) Equals(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	//
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	//
	return true
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = fmt.Sprintf("%d", n)
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// ============================================================================
// Real arrays
// ============================================================================

// Array is a dense row-major array of real (or integer) values.  Elements are
// held as float64 and rounded to the precision of the array's dtype.
type Array struct {
	dtype DType
	shape Shape
	data  []float64
}

// New constructs an array of a given dtype and shape over some data, which is
// rounded to the dtype.  This panics if the data does not fit the shape.
func New(dtype DType, shape Shape, data []float64) Array {
	if dtype.IsComplex() {
		panic(fmt.Sprintf("real array cannot have dtype %s", dtype))
	} else if shape.Size() != uint(len(data)) {
		panic(fmt.Sprintf("%d element(s) do not fit shape %s", len(data), shape))
	}
	//
	for i, v := range data {
		data[i] = round(dtype, v)
	}
	//
	return Array{dtype, shape, data}
}

// Vector constructs a one dimensional array.
func Vector(dtype DType, data ...float64) Array {
	return New(dtype, Shape{uint(len(data))}, data)
}

// Scalar constructs a zero dimensional array.
func Scalar(dtype DType, value float64) Array {
	return New(dtype, Shape{}, []float64{value})
}

// Zeros constructs an array of a given shape filled with zeros.
func Zeros(dtype DType, shape ...uint) Array {
	return Array{dtype, shape, make([]float64, Shape(shape).Size())}
}

// DType returns the element type of this array.
func (a Array) DType() DType { return a.dtype }

// Shape returns the shape of this array.
func (a Array) Shape() Shape { return a.shape }

// Data returns the underlying row-major data of this array.
func (a Array) Data() []float64 { return a.data }

// Size returns the number of elements in this array.
func (a Array) Size() uint { return uint(len(a.data)) }

// Item returns the single element of a scalar (or single element) array.
func (a Array) Item() float64 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("array of shape %s is not a scalar", a.shape))
	}
	//
	return a.data[0]
}

// At returns the element at a given index.
func (a Array) At(index ...uint) float64 {
	return a.data[offset(a.shape, index)]
}

// Set assigns the element at a given index.
func (a Array) Set(value float64, index ...uint) {
	a.data[offset(a.shape, index)] = round(a.dtype, value)
}

// Reshape returns an array sharing this array's data under a new shape of the
// same size.
func (a Array) Reshape(shape ...uint) Array {
	if Shape(shape).Size() != a.Size() {
		panic(fmt.Sprintf("cannot reshape %s into %s", a.shape, Shape(shape)))
	}
	//
	return Array{a.dtype, shape, a.data}
}

// Squeeze removes every axis of length one.
func (a Array) Squeeze() Array {
	return Array{a.dtype, squeeze(a.shape), a.data}
}

// DropAxis removes a given axis, which must have length one.
func (a Array) DropAxis(axis uint) Array {
	if a.shape[axis] != 1 {
		panic(fmt.Sprintf("cannot drop axis %d of shape %s", axis, a.shape))
	}
	//
	shape := append(append(Shape{}, a.shape[:axis]...), a.shape[axis+1:]...)
	//
	return Array{a.dtype, shape, a.data}
}

// Cast converts this array into one of a given real dtype.
func (a Array) Cast(dtype DType) Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	//
	return New(dtype, a.shape, data)
}

// Complex converts this array into a complex array of a given dtype.
func (a Array) Complex(dtype DType) CArray {
	data := make([]complex128, len(a.data))
	for i, v := range a.data {
		data[i] = complex(v, 0)
	}
	//
	return NewComplex(dtype, a.shape, data)
}

// SelectLast returns the sub-array obtained by fixing the last axis at a given
// index.
func (a Array) SelectLast(index uint) Array {
	outer, n := splitLast(a.shape)
	data := make([]float64, outer)
	//
	for i := range data {
		data[i] = a.data[uint(i)*n+index]
	}
	//
	return Array{a.dtype, a.shape[:len(a.shape)-1], data}
}

// SplitLast partitions the last axis into a number of equal parts.
func (a Array) SplitLast(parts uint) []Array {
	outer, n := splitLast(a.shape)
	width := n / parts
	result := make([]Array, parts)
	//
	for p := range result {
		shape := append(Shape{}, a.shape...)
		shape[len(shape)-1] = width
		data := make([]float64, 0, outer*width)
		//
		for i := uint(0); i < outer; i++ {
			start := i*n + uint(p)*width
			data = append(data, a.data[start:start+width]...)
		}
		//
		result[p] = Array{a.dtype, shape, data}
	}
	//
	return result
}

func (a Array) String() string {
	return format(a.shape, len(a.data), func(i int) string {
		if a.dtype == Int64 {
			return fmt.Sprintf("%d", int64(a.data[i]))
		}
		//
		return fmt.Sprintf("%.6g", a.data[i])
	})
}

// ============================================================================
// Complex arrays
// ============================================================================

// CArray is a dense row-major array of complex values.
type CArray struct {
	dtype DType
	shape Shape
	data  []complex128
}

// NewComplex constructs a complex array of a given dtype and shape.
func NewComplex(dtype DType, shape Shape, data []complex128) CArray {
	if !dtype.IsComplex() {
		panic(fmt.Sprintf("complex array cannot have dtype %s", dtype))
	} else if shape.Size() != uint(len(data)) {
		panic(fmt.Sprintf("%d element(s) do not fit shape %s", len(data), shape))
	}
	//
	if dtype == Complex64 {
		for i, v := range data {
			data[i] = complex128(complex64(v))
		}
	}
	//
	return CArray{dtype, shape, data}
}

// DType returns the element type of this array.
func (a CArray) DType() DType { return a.dtype }

// Shape returns the shape of this array.
func (a CArray) Shape() Shape { return a.shape }

// Data returns the underlying row-major data of this array.
func (a CArray) Data() []complex128 { return a.data }

// At returns the element at a given index.
func (a CArray) At(index ...uint) complex128 {
	return a.data[offset(a.shape, index)]
}

// Cast converts this array into a given complex dtype.
func (a CArray) Cast(dtype DType) CArray {
	data := make([]complex128, len(a.data))
	copy(data, a.data)
	//
	return NewComplex(dtype, a.shape, data)
}

// Squeeze removes every axis of length one.
func (a CArray) Squeeze() CArray {
	return CArray{a.dtype, squeeze(a.shape), a.data}
}

func (a CArray) String() string {
	return format(a.shape, len(a.data), func(i int) string {
		return fmt.Sprintf("%.6g", a.data[i])
	})
}

// ============================================================================
// Helpers
// ============================================================================

func round(dtype DType, v float64) float64 {
	switch dtype {
	case Int64:
		return math.Round(v)
	case Float32:
		return float64(float32(v))
	default:
		return v
	}
}

func offset(shape Shape, index []uint) uint {
	if len(index) != len(shape) {
		panic(fmt.Sprintf("index %v does not match shape %s", index, shape))
	}
	//
	var off uint
	//
	for i, n := range shape {
		if index[i] >= n {
			panic(fmt.Sprintf("index %v out of bounds for shape %s", index, shape))
		}
		//
		off = off*n + index[i]
	}
	//
	return off
}

func squeeze(shape Shape) Shape {
	result := Shape{}
	//
	for _, n := range shape {
		if n != 1 {
			result = append(result, n)
		}
	}
	//
	return result
}

func splitLast(shape Shape) (uint, uint) {
	if len(shape) == 0 {
		panic("scalar has no last axis")
	}
	//
	n := shape[len(shape)-1]
	//
	return Shape(shape[:len(shape)-1]).Size(), n
}

// Render nested brackets for an array of a given shape.
func format(shape Shape, size int, element func(int) string) string {
	if len(shape) == 0 {
		return element(0)
	}
	//
	var (
		builder strings.Builder
		stride  = int(Shape(shape[1:]).Size())
	)
	//
	builder.WriteString("[")
	//
	for i := 0; i < int(shape[0]); i++ {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		if len(shape) == 1 {
			builder.WriteString(element(i))
		} else {
			builder.WriteString(format(shape[1:], stride, func(j int) string { return element(i*stride + j) }))
		}
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
