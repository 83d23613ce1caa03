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
	"slices"
	"sort"

	"github.com/consensys/go-qstats/pkg/qerr"
)

// Registry is the fixed, ordered set of wires declared by a device.  It
// defines the canonical basis-state bit ordering: the first registered wire is
// the most significant bit of a basis state index.
type Registry struct {
	wires   Wires
	indices map[Wire]uint
}

// NewRegistry constructs a registry from a sequence of (unique) wires.
func NewRegistry(wires Wires) (*Registry, error) {
	if dup, ok := wires.duplicate(); ok {
		return nil, qerr.Configuration("duplicate wire label %s in device registry", dup)
	}
	//
	indices := make(map[Wire]uint, len(wires))
	for i, w := range wires {
		indices[w] = uint(i)
	}
	//
	return &Registry{slices.Clone(wires), indices}, nil
}

// Wires returns the registered wires in device order.
func (r *Registry) Wires() Wires {
	return slices.Clone(r.wires)
}

// Len returns the number of registered wires.
func (r *Registry) Len() uint {
	return uint(len(r.wires))
}

// IsCanonical determines whether the registered labels are exactly 0..n in
// order.
func (r *Registry) IsCanonical() bool {
	for i, w := range r.wires {
		if w.named || w.index != i {
			return false
		}
	}
	//
	return true
}

// Map translates wire labels into device indices, failing if any label is not
// registered.
func (r *Registry) Map(wires Wires) ([]uint, error) {
	mapped := make([]uint, len(wires))
	//
	for i, w := range wires {
		index, ok := r.indices[w]
		if !ok {
			return nil, qerr.UnknownWire(w)
		}
		//
		mapped[i] = index
	}
	//
	return mapped, nil
}

// Order returns the given wires sorted into device order.
func (r *Registry) Order(wires Wires) (Wires, error) {
	if _, err := r.Map(wires); err != nil {
		return nil, err
	}
	//
	ordered := slices.Clone(wires)
	sort.SliceStable(ordered, func(i, j int) bool {
		return r.indices[ordered[i]] < r.indices[ordered[j]]
	})
	return ordered, nil
}

// PermuteForObservable computes the order in which an observable's wires must
// be marginalised such that the resulting probabilities line up with the
// eigenvalues of the observable.  The eigenvalues of a tensor product follow
// the order in which its factors are written, rather than the device order of
// their wires.  For example, with device wires [0,1,2] and observable wires
// [2,0,1] the result is [1,2,0] (and not [2,0,1]).
func (r *Registry) PermuteForObservable(wires Wires) (Wires, error) {
	ordered, err := r.Order(wires)
	if err != nil {
		return nil, err
	}
	//
	mapped, err := r.Map(wires)
	if err != nil {
		return nil, err
	}
	//
	perm := Argsort(mapped)
	permuted := make(Wires, len(perm))
	//
	for i, p := range perm {
		permuted[i] = ordered[p]
	}
	//
	return permuted, nil
}

// Argsort returns the permutation which stably sorts the given indices.
func Argsort(indices []uint) []uint {
	perm := make([]uint, len(indices))
	for i := range perm {
		perm[i] = uint(i)
	}
	//
	sort.SliceStable(perm, func(i, j int) bool {
		return indices[perm[i]] < indices[perm[j]]
	})
	//
	return perm
}
