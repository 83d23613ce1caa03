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
package circuit

import (
	"fmt"
	"slices"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Builtin returns the operations of one of the named built-in circuits over a
// sequence of wires.  These are:
//
//   - "bell": Hadamard on the second wire, then CNOT from the first to the
//     second.
//   - "ghz": Hadamard on the first wire, then a chain of CNOTs.
//   - "flip": PauliX on every wire.
//   - "plus": Hadamard on every wire.
func Builtin(name string, wires wire.Wires) ([]gate.Operation, error) {
	var ops []gate.Operation
	//
	switch name {
	case "bell":
		if len(wires) < 2 {
			return nil, fmt.Errorf("bell circuit requires two wires")
		}
		//
		ops = append(ops, gate.Hadamard(wires[1]), gate.CNOT(wires[0], wires[1]))
	case "ghz":
		ops = append(ops, gate.Hadamard(wires[0]))
		for i := 1; i < len(wires); i++ {
			ops = append(ops, gate.CNOT(wires[i-1], wires[i]))
		}
	case "flip":
		for _, w := range wires {
			ops = append(ops, gate.PauliX(w))
		}
	case "plus":
		for _, w := range wires {
			ops = append(ops, gate.Hadamard(w))
		}
	default:
		return nil, fmt.Errorf("unknown circuit \"%s\" (expected one of %v)", name, BuiltinNames())
	}
	//
	return ops, nil
}

// BuiltinNames returns the names of all built-in circuits.
func BuiltinNames() []string {
	names := []string{"bell", "ghz", "flip", "plus"}
	slices.Sort(names)
	//
	return names
}
