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

// Package qerr declares the classes of fatal error reported by the measurement
// core.  Every error returned to a caller wraps exactly one of the sentinels
// below, so callers can classify failures with errors.Is.
package qerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a device misconfiguration, an unknown
	// measurement kind or an unknown wire label.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnsupportedCombination signals measurements (or options) which cannot
	// be evaluated together in a single execution.
	ErrUnsupportedCombination = errors.New("unsupported combination")
	// ErrMissingCapability signals that a device or observable lacks something
	// required by the requested measurement.
	ErrMissingCapability = errors.New("missing capability")
	// ErrPrecondition signals that the device is not in a suitable state, for
	// example sampling without shots.
	ErrPrecondition = errors.New("precondition failed")
	// ErrUnknownWire signals a wire label which is not registered on a device.
	ErrUnknownWire = fmt.Errorf("%w: unknown wire", ErrConfiguration)
	// ErrEigvalsUndefined signals an observable without eigenvalue information.
	ErrEigvalsUndefined = fmt.Errorf("%w: eigenvalues undefined", ErrMissingCapability)
)

// Configuration constructs a configuration error with a formatted message.
func Configuration(format string, args ...any) error {
	return wrap(ErrConfiguration, format, args...)
}

// Unsupported constructs an unsupported combination error with a formatted
// message.
func Unsupported(format string, args ...any) error {
	return wrap(ErrUnsupportedCombination, format, args...)
}

// Missing constructs a missing capability error with a formatted message.
func Missing(format string, args ...any) error {
	return wrap(ErrMissingCapability, format, args...)
}

// Precondition constructs a precondition error with a formatted message.
func Precondition(format string, args ...any) error {
	return wrap(ErrPrecondition, format, args...)
}

// UnknownWire constructs an error for a wire label absent from a registry.
func UnknownWire(label any) error {
	return fmt.Errorf("%w %v", ErrUnknownWire, label)
}

// EigvalsUndefined constructs an error for an operation which needs the
// eigenvalues of an observable that does not define them.
func EigvalsUndefined(format string, args ...any) error {
	return wrap(ErrEigvalsUndefined, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
