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
	"strconv"

	"github.com/consensys/go-qstats/pkg/gate"
	"github.com/consensys/go-qstats/pkg/linalg"
	"github.com/consensys/go-qstats/pkg/measure"
	"github.com/consensys/go-qstats/pkg/observable"
	"github.com/consensys/go-qstats/pkg/sexp"
	"github.com/consensys/go-qstats/pkg/util"
	"github.com/consensys/go-qstats/pkg/wire"
)

// Parse reads a circuit program from a source file.  A program is a sequence
// of operations followed by a sequence of measurements, for example:
//
//	; Bell pair
//	(Hadamard 0)
//	(CNOT 0 1)
//	(RX 0.25 1)
//	(expval (tensor (PauliZ 0) (PauliZ 1)))
//	(counts :all true 0 1)
//
// The parameters of an operation precede its wires.  Measurements are named
// as by measure.ParseKind, with keyword arguments for options such as ":seed"
// or ":base".  Observables are written
// (PauliX w), (PauliY w), (PauliZ w), (Hadamard w), (Identity w),
// (tensor o1 o2 ...), (hamiltonian (c1 o1) (c2 o2) ...), (projector (b1 b2
// ...) w1 w2 ...) and (hermitian ((a b) (c d)) w).
func Parse(srcfile *sexp.SourceFile) (*Script, error) {
	terms, srcmap, err := srcfile.ParseAll()
	if err != nil {
		return nil, err
	}
	//
	var (
		p   = newParser(srcfile, srcmap)
		ops []gate.Operation
		ms  []measure.Process
	)
	//
	for _, term := range terms {
		list, ok := term.(*sexp.List)
		if !ok {
			return nil, p.error(term, "expected operation or measurement")
		}
		//
		name, _ := list.Head()
		//
		if _, _, isGate := gate.Signature(name); isGate {
			if len(ms) > 0 {
				return nil, p.error(term, "operations must precede measurements")
			}
			//
			op, err := p.operation(list)
			if err != nil {
				return nil, err
			}
			//
			ops = append(ops, op)
		} else {
			m, err := p.measurement(list)
			if err != nil {
				return nil, err
			}
			//
			ms = append(ms, m)
		}
	}
	//
	return New(ops, ms...), nil
}

// ParseMeasurement reads a single measurement, such as "(probs 0 1)".
func ParseMeasurement(srcfile *sexp.SourceFile) (measure.Process, error) {
	term, srcmap, err := srcfile.Parse()
	if err != nil {
		return measure.Process{}, err
	} else if term == nil {
		return measure.Process{}, srcfile.SyntaxError(sexp.NewSpan(0, 0), "expected measurement")
	}
	//
	p := newParser(srcfile, srcmap)
	//
	if list, ok := term.(*sexp.List); ok {
		return p.measurement(list)
	}
	//
	return measure.Process{}, p.error(term, "expected measurement")
}

// ============================================================================
// Parser
// ============================================================================

type parser struct {
	observables *sexp.Translator[observable.Observable]
}

func newParser(srcfile *sexp.SourceFile, srcmap *sexp.SourceMap[sexp.SExp]) *parser {
	p := &parser{sexp.NewTranslator[observable.Observable](srcfile, srcmap)}
	//
	for _, name := range []string{"PauliX", "PauliY", "PauliZ", "Hadamard", "Identity"} {
		p.observables.AddListRule(name, p.standardObservable)
	}
	//
	p.observables.AddRecursiveRule("tensor", func(factors []observable.Observable) (observable.Observable, error) {
		return observable.NewTensor(factors...)
	})
	p.observables.AddListRule("hamiltonian", p.hamiltonian)
	p.observables.AddListRule("projector", p.projector)
	p.observables.AddListRule("hermitian", p.hermitian)
	//
	return p
}

func (p *parser) operation(list *sexp.List) (gate.Operation, error) {
	name, _ := list.Head()
	arity, params, _ := gate.Signature(name)
	//
	var (
		args   = list.Elements[1:]
		values = make([]float64, params)
		err    error
	)
	//
	if uint(len(args)) != arity+params {
		return gate.Operation{}, p.error(list, "%s expects %d parameter(s) and %d wire(s)", name, params, arity)
	}
	//
	for i := range values {
		if values[i], err = p.number(args[i]); err != nil {
			return gate.Operation{}, err
		}
	}
	//
	wires, err := p.wires(args[params:])
	if err != nil {
		return gate.Operation{}, err
	}
	//
	op, err := gate.New(name, wires, values...)
	//
	return op, p.observables.Wrap(list, err)
}

func (p *parser) measurement(list *sexp.List) (measure.Process, error) {
	name, _ := list.Head()
	//
	kind, ok := measure.ParseKind(name)
	if !ok || kind == measure.Transform {
		return measure.Process{}, p.error(list, "unknown operation or measurement %s", list)
	}
	//
	keywords, args, err := p.keywords(list, allowedKeywords[kind]...)
	if err != nil {
		return measure.Process{}, err
	}
	//
	switch kind {
	case measure.Expectation, measure.Variance:
		obs, err := p.observable(list, args)
		if err != nil {
			return measure.Process{}, err
		} else if kind == measure.Expectation {
			return measure.Expval(obs), nil
		}
		//
		return measure.Var(obs), nil
	case measure.Sample, measure.Counts:
		return p.sampled(list, kind, keywords, args)
	case measure.Probability:
		if isObservable(args) {
			obs, err := p.observable(list, args)
			if err != nil {
				return measure.Process{}, err
			}
			//
			m, err := measure.ProbsOf(obs)
			//
			return m, p.observables.Wrap(list, err)
		}
		//
		wires, err := p.wires(args)
		//
		return measure.Probs(wires...), err
	case measure.State:
		wires, err := p.wires(args)
		//
		return measure.StateOf(wires...), err
	case measure.VnEntropy:
		base, err := p.floatKeyword(keywords, ":base", 0)
		if err != nil {
			return measure.Process{}, err
		}
		//
		wires, err := p.wires(args)
		//
		return measure.Entropy(base, wires...), err
	case measure.MutualInfo:
		return p.mutualInfo(list, keywords, args)
	default:
		return p.shadow(list, kind, keywords, args)
	}
}

var allowedKeywords = map[measure.Kind][]string{
	measure.Counts:          {":all"},
	measure.VnEntropy:       {":base"},
	measure.MutualInfo:      {":base"},
	measure.ClassicalShadow: {":seed"},
	measure.ShadowExpval:    {":seed", ":k"},
}

func (p *parser) sampled(list *sexp.List, kind measure.Kind, keywords map[string]*sexp.Symbol,
	args []sexp.SExp) (measure.Process, error) {
	all := false
	//
	if s, ok := keywords[":all"]; ok {
		var err error
		if all, err = strconv.ParseBool(s.Value); err != nil {
			return measure.Process{}, p.error(s, "expected true or false, found %s", s.Value)
		}
	}
	//
	if isObservable(args) {
		obs, err := p.observable(list, args)
		if err != nil {
			return measure.Process{}, err
		} else if kind == measure.Sample {
			return measure.SampleOf(obs), nil
		}
		//
		return measure.CountsOf(obs, all), nil
	}
	//
	wires, err := p.wires(args)
	if err != nil {
		return measure.Process{}, err
	} else if kind == measure.Sample {
		return measure.SampleWires(wires...), nil
	}
	//
	return measure.CountsWires(all, wires...), nil
}

func (p *parser) mutualInfo(list *sexp.List, keywords map[string]*sexp.Symbol,
	args []sexp.SExp) (measure.Process, error) {
	var partitions [2]wire.Wires
	//
	if len(args) != 2 {
		return measure.Process{}, p.error(list, "mutualinfo expects two lists of wires")
	}
	//
	for i, arg := range args {
		wires, ok := arg.(*sexp.List)
		if !ok {
			return measure.Process{}, p.error(arg, "expected list of wires")
		}
		//
		var err error
		if partitions[i], err = p.wires(wires.Elements); err != nil {
			return measure.Process{}, err
		}
	}
	//
	base, err := p.floatKeyword(keywords, ":base", 0)
	if err != nil {
		return measure.Process{}, err
	}
	//
	m, err := measure.MutualInformation(partitions[0], partitions[1], base)
	//
	return m, p.observables.Wrap(list, err)
}

func (p *parser) shadow(list *sexp.List, kind measure.Kind, keywords map[string]*sexp.Symbol,
	args []sexp.SExp) (measure.Process, error) {
	seed := util.None[uint64]()
	//
	if s, ok := keywords[":seed"]; ok {
		value, err := strconv.ParseUint(s.Value, 10, 64)
		if err != nil {
			return measure.Process{}, p.error(s, "invalid seed %s", s.Value)
		}
		//
		seed = util.Some(value)
	}
	//
	if kind == measure.ClassicalShadow {
		wires, err := p.wires(args)
		//
		return measure.Shadow(seed, wires...), err
	}
	//
	k := uint64(1)
	//
	if s, ok := keywords[":k"]; ok {
		var err error
		if k, err = strconv.ParseUint(s.Value, 10, 32); err != nil {
			return measure.Process{}, p.error(s, "invalid group count %s", s.Value)
		}
	}
	//
	obs, err := p.observable(list, args)
	if err != nil {
		return measure.Process{}, err
	}
	//
	m, err := measure.ShadowExpvalOf(obs, uint(k), seed)
	//
	return m, p.observables.Wrap(list, err)
}

// Separate keyword arguments (e.g. ":seed 7") from the positional arguments of
// a list.
func (p *parser) keywords(list *sexp.List, allowed ...string) (map[string]*sexp.Symbol, []sexp.SExp, error) {
	var (
		keywords = make(map[string]*sexp.Symbol)
		args     []sexp.SExp
		elements = list.Elements[1:]
	)
	//
	for i := 0; i < len(elements); i++ {
		symbol, ok := elements[i].(*sexp.Symbol)
		//
		if !ok || !symbol.IsKeyword() {
			args = append(args, elements[i])
			continue
		} else if !slices.Contains(allowed, symbol.Value) {
			return nil, nil, p.error(symbol, "unknown keyword %s", symbol.Value)
		} else if i+1 == len(elements) || !elements[i+1].IsSymbol() {
			return nil, nil, p.error(symbol, "missing value for keyword %s", symbol.Value)
		}
		//
		keywords[symbol.Value] = elements[i+1].(*sexp.Symbol)
		i++
	}
	//
	return keywords, args, nil
}

func (p *parser) floatKeyword(keywords map[string]*sexp.Symbol, key string, def float64) (float64, error) {
	if s, ok := keywords[key]; ok {
		return p.number(s)
	}
	//
	return def, nil
}

// ============================================================================
// Observables
// ============================================================================

func (p *parser) observable(list *sexp.List, args []sexp.SExp) (observable.Observable, error) {
	if !isObservable(args) {
		return nil, p.error(list, "expected a single observable")
	}
	//
	return p.observables.Translate(args[0])
}

func (p *parser) standardObservable(list *sexp.List) (observable.Observable, error) {
	name, _ := list.Head()
	//
	if list.Len() != 2 {
		return nil, p.error(list, "%s expects one wire", name)
	}
	//
	wires, err := p.wires(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	switch name {
	case "PauliX":
		return observable.PauliX(wires[0]), nil
	case "PauliY":
		return observable.PauliY(wires[0]), nil
	case "PauliZ":
		return observable.PauliZ(wires[0]), nil
	case "Hadamard":
		return observable.Hadamard(wires[0]), nil
	default:
		return observable.Identity(wires[0]), nil
	}
}

func (p *parser) hamiltonian(list *sexp.List) (observable.Observable, error) {
	var (
		coeffs = make([]float64, list.Len()-1)
		terms  = make([]observable.Observable, list.Len()-1)
	)
	//
	for i, e := range list.Elements[1:] {
		term, ok := e.(*sexp.List)
		if !ok || term.Len() != 2 {
			return nil, p.error(e, "expected (coefficient observable)")
		}
		//
		var err error
		if coeffs[i], err = p.number(term.Elements[0]); err != nil {
			return nil, err
		} else if terms[i], err = p.observables.Translate(term.Elements[1]); err != nil {
			return nil, err
		}
	}
	//
	return observable.NewHamiltonian(coeffs, terms...)
}

func (p *parser) projector(list *sexp.List) (observable.Observable, error) {
	if list.Len() < 2 || !list.Elements[1].IsList() {
		return nil, p.error(list, "projector expects a basis state followed by wires")
	}
	//
	var (
		states = list.Elements[1].(*sexp.List).Elements
		basis  = make([]uint, len(states))
	)
	//
	for i, s := range states {
		b, err := p.number(s)
		if err != nil {
			return nil, err
		} else if b != 0 && b != 1 {
			return nil, p.error(s, "expected bit, found %s", s)
		}
		//
		basis[i] = uint(b)
	}
	//
	wires, err := p.wires(list.Elements[2:])
	if err != nil {
		return nil, err
	}
	//
	return observable.NewProjector(basis, wires...)
}

func (p *parser) hermitian(list *sexp.List) (observable.Observable, error) {
	if list.Len() < 2 || !list.Elements[1].IsList() || list.Elements[1].(*sexp.List).Len() == 0 {
		return nil, p.error(list, "hermitian expects a matrix followed by wires")
	}
	//
	var (
		rows   = list.Elements[1].(*sexp.List).Elements
		matrix = make([][]complex128, len(rows))
	)
	//
	for i, r := range rows {
		row, ok := r.(*sexp.List)
		if !ok || row.Len() != len(rows) {
			return nil, p.error(r, "expected row of %d entries", len(rows))
		}
		//
		matrix[i] = make([]complex128, len(rows))
		//
		for j, e := range row.Elements {
			v, err := p.number(e)
			if err != nil {
				return nil, err
			}
			//
			matrix[i][j] = complex(v, 0)
		}
	}
	//
	wires, err := p.wires(list.Elements[2:])
	if err != nil {
		return nil, err
	}
	//
	return observable.NewHermitian(linalg.FromRows(matrix...), wires...)
}

// ============================================================================
// Helpers
// ============================================================================

func (p *parser) number(e sexp.SExp) (float64, error) {
	if s, ok := e.(*sexp.Symbol); ok {
		if v, err := strconv.ParseFloat(s.Value, 64); err == nil {
			return v, nil
		}
	}
	//
	return 0, p.error(e, "expected number, found %s", e)
}

func (p *parser) wires(elements []sexp.SExp) (wire.Wires, error) {
	wires := make(wire.Wires, len(elements))
	//
	for i, e := range elements {
		s, ok := e.(*sexp.Symbol)
		if !ok || s.IsKeyword() {
			return nil, p.error(e, "expected wire, found %s", e)
		}
		//
		wires[i] = wire.Parse(s.Value)
	}
	//
	return wires, nil
}

func (p *parser) error(node sexp.SExp, format string, args ...any) error {
	return p.observables.SyntaxError(node, fmt.Sprintf(format, args...))
}

func isObservable(args []sexp.SExp) bool {
	return len(args) == 1 && args[0].IsList()
}
