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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-qstats/pkg/circuit"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/sexp"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64-bit unsigned integer, or panic if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array, or panic if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read a circuit program from a given file, reporting any syntax errors and
// exiting on failure.
func readProgramFile(filename string) *circuit.Script {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	script, err := circuit.Parse(sexp.NewSourceFile(filename, bytes))
	if err != nil {
		reportError(err)
		os.Exit(2)
	}
	//
	return script
}

// Parse measurements given on the command line, reporting any syntax errors
// and exiting on failure.
func parseMeasurements(source string, texts []string) []measure.Process {
	var ms []measure.Process
	//
	for _, text := range texts {
		m, err := circuit.ParseMeasurement(sexp.NewSourceFile(source, []byte(text)))
		if err != nil {
			reportError(err)
			os.Exit(2)
		}
		//
		ms = append(ms, m)
	}
	//
	return ms
}

// Report an error, highlighting the offending text of syntax errors.
func reportError(err error) {
	var serr *sexp.SyntaxError
	//
	if errors.As(err, &serr) {
		printSyntaxError(serr)
	} else {
		fmt.Println(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *sexp.SyntaxError) {
	span := err.Span()
	line := err.SourceFile().FindFirstEnclosingLine(span)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", err.SourceFile().Filename(), line.Number(), err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", span.Start()-line.Start()))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, span.Length())))
}
