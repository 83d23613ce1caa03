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
package sample

// Below this many wires basis states are converted with precomputed bit
// masks; from here on they are enumerated one bit at a time.
const maskedWires = 32

// StatesToBinary converts basis state indices into bit vectors over n wires,
// with the first wire being the most significant bit.
func StatesToBinary(indices []uint64, n uint) [][]uint8 {
	if n < maskedWires {
		return maskStates(indices, n)
	}
	//
	return shiftStates(indices, n)
}

func maskStates(indices []uint64, n uint) [][]uint8 {
	var (
		states = make([][]uint8, len(indices))
		masks  = make([]uint32, n)
	)
	//
	for k := range masks {
		masks[k] = 1 << (n - 1 - uint(k))
	}
	//
	for i, index := range indices {
		states[i] = make([]uint8, n)
		//
		for k, mask := range masks {
			if uint32(index)&mask != 0 {
				states[i][k] = 1
			}
		}
	}
	//
	return states
}

func shiftStates(indices []uint64, n uint) [][]uint8 {
	states := make([][]uint8, len(indices))
	//
	for i, index := range indices {
		states[i] = make([]uint8, n)
		// Fill from the least significant end, stopping once no bits remain.
		for k := n; k > 0 && index != 0; k-- {
			states[i][k-1] = uint8(index & 1)
			index >>= 1
		}
	}
	//
	return states
}

// BinaryToIndex converts a bit vector back into its basis state index, with
// the first bit being the most significant.
func BinaryToIndex(bits []uint8) uint64 {
	var index uint64
	for _, b := range bits {
		index = (index << 1) | uint64(b&1)
	}
	//
	return index
}

// GenerateBasisStates returns every basis state over n wires, in ascending
// order of index.
func GenerateBasisStates(n uint) [][]uint8 {
	if n < maskedWires {
		indices := make([]uint64, 1<<n)
		for i := range indices {
			indices[i] = uint64(i)
		}
		//
		return maskStates(indices, n)
	}
	//
	return enumerateStates(n)
}

// Odometer enumeration of basis states, which never forms 1<<n.
func enumerateStates(n uint) [][]uint8 {
	var (
		states  [][]uint8
		current = make([]uint8, n)
	)
	//
	for {
		states = append(states, append([]uint8{}, current...))
		//
		k := int(n) - 1
		for k >= 0 && current[k] == 1 {
			current[k] = 0
			k--
		}
		//
		if k < 0 {
			return states
		}
		//
		current[k] = 1
	}
}

// BitString renders a bit vector as a string such as "0110".
func BitString(bits []uint8) string {
	chars := make([]byte, len(bits))
	for i, b := range bits {
		chars[i] = '0' + b
	}
	//
	return string(chars)
}
