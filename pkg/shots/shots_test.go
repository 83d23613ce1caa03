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
package shots

import (
	"errors"
	"slices"
	"testing"

	"github.com/consensys/go-qstats/pkg/qerr"
)

func Test_Shots_00(t *testing.T) {
	s := Analytic()
	//
	if !s.IsAnalytic() || s.HasVector() || s.Total() != 0 || s.String() != "analytic" {
		t.Errorf("unexpected analytic spec %s", s)
	}
}

func Test_Shots_01(t *testing.T) {
	s := Fixed(100)
	//
	if s.IsAnalytic() || s.HasVector() || s.Total() != 100 {
		t.Errorf("unexpected fixed spec %s", s)
	}
}

func Test_Shots_02(t *testing.T) {
	check_Parse(t, "5,10x3,100", "5,10x3,100", 135, 5, 10, 10, 10, 100)
}

func Test_Shots_03(t *testing.T) {
	check_Parse(t, "10, 10, 5", "10x2,5", 25, 10, 10, 5)
}

func Test_Shots_04(t *testing.T) {
	check_Parse(t, "1x4", "1x4", 4, 1, 1, 1, 1)
}

func Test_Shots_05(t *testing.T) {
	for _, text := range []string{"0", "x2", "5x0", "-1", "3,a"} {
		if _, err := Parse(text); !errors.Is(err, qerr.ErrConfiguration) {
			t.Errorf("parsing \"%s\" should fail, got %v", text, err)
		}
	}
}

func Test_Shots_06(t *testing.T) {
	if s := Sequence(3, 3, 3, 1); s.String() != "3x3,1" || !s.HasVector() {
		t.Errorf("unexpected sequence %s", s)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Parse(t *testing.T, text string, expected string, total uint, raw ...uint) {
	s, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	//
	if s.String() != expected {
		t.Errorf("parsed \"%s\" as %s, expected %s", text, s, expected)
	}
	//
	if s.Total() != total {
		t.Errorf("expected %d total shots, got %d", total, s.Total())
	}
	//
	if !slices.Equal(s.Raw(), raw) {
		t.Errorf("expected raw shots %v, got %v", raw, s.Raw())
	}
}
