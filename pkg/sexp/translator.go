package sexp

import (
	"errors"
	"fmt"
)

// SymbolRule is a symbol generator is responsible for converting a terminating
// expression (i.e. a symbol) into an expression type T.  For example, a
// number or a wire label.
type SymbolRule[T any] func(string) (T, error)

// ListRule is a list translator is responsible converting a list with a given
// sequence of zero or more arguments into an expression type T.  The head of
// the list has already been matched against the rule's name.
type ListRule[T any] func(*List) (T, error)

// RecursiveRule is a recursive translator is a wrapper for translating lists whose
// elements can be built by recursively reusing the enclosing
// translator.
type RecursiveRule[T any] func([]T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a
// structured form.  Errors are reported as syntax errors over the span of the
// offending S-Expression.
type Translator[T any] struct {
	srcfile *SourceFile
	srcmap  *SourceMap[SExp]
	lists   map[string]ListRule[T]
	symbols []SymbolRule[T]
}

// NewTranslator constructs a new Translator instance for S-Expressions parsed
// from a given source file.
func NewTranslator[T any](srcfile *SourceFile, srcmap *SourceMap[SExp]) *Translator[T] {
	return &Translator[T]{
		srcfile: srcfile,
		srcmap:  srcmap,
		lists:   make(map[string]ListRule[T]),
		symbols: make([]SymbolRule[T], 0),
	}
}

// ===================================================================
// Public
// ===================================================================

// Translate a given S-Expression into a given structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, error) {
	var empty T
	//
	switch e := sexp.(type) {
	case *List:
		name, ok := e.Head()
		if !ok {
			return empty, p.SyntaxError(e, "invalid list")
		}
		// Lookup appropriate translator
		if rule, ok := p.lists[name]; ok {
			t, err := rule(e)
			return t, p.Wrap(e, err)
		}
		//
		return empty, p.SyntaxError(e, fmt.Sprintf("unknown list %s", name))
	case *Symbol:
		var err error = errors.New("unknown symbol")
		//
		for _, rule := range p.symbols {
			var t T
			if t, err = rule(e.Value); err == nil {
				return t, nil
			}
		}
		//
		return empty, p.Wrap(e, err)
	}
	//
	return empty, fmt.Errorf("invalid S-Expression %v", sexp)
}

// AddListRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddListRule(name string, rule ListRule[T]) {
	p.lists[name] = rule
}

// AddRecursiveRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddRecursiveRule(name string, t RecursiveRule[T]) {
	// Construct a recursive list translator as a wrapper around a generic list translator.
	p.lists[name] = func(list *List) (T, error) {
		var (
			empty T
			err   error
		)
		// Translate arguments
		args := make([]T, len(list.Elements)-1)
		for i, s := range list.Elements[1:] {
			if args[i], err = p.Translate(s); err != nil {
				return empty, err
			}
		}

		return t(args)
	}
}

// AddSymbolRule adds a new symbol translator to this expression translator.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxError constructs a syntax error over the span of a given S-Expression.
func (p *Translator[T]) SyntaxError(node SExp, msg string) *SyntaxError {
	return p.srcfile.SyntaxError(p.srcmap.Get(node), msg)
}

// Wrap reports an error against the span of a given S-Expression, unless it is
// already a syntax error.  Nil is returned for a nil error.
func (p *Translator[T]) Wrap(node SExp, err error) error {
	var serr *SyntaxError
	//
	if err == nil || errors.As(err, &serr) {
		return err
	}
	//
	return &SyntaxError{p.srcfile, p.srcmap.Get(node), err.Error(), err}
}
