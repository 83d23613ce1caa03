package sexp

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestSexp_0(t *testing.T) {
	CheckOk(t, nil, "")
}

func TestSexp_1(t *testing.T) {
	e1 := List{nil}
	CheckOk(t, &e1, "()")
}

func TestSexp_2(t *testing.T) {
	e1 := List{nil}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "(())")
}

func TestSexp_3(t *testing.T) {
	e1 := Symbol{"symbol"}
	CheckOk(t, &e1, "symbol")
}

func TestSexp_4(t *testing.T) {
	e1 := Symbol{"-0.125"}
	CheckOk(t, &e1, "  -0.125 ")
}

func TestSexp_5(t *testing.T) {
	e1 := Symbol{"PauliZ"}
	e2 := Symbol{"0"}
	e3 := List{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "(PauliZ 0)")
}

func TestSexp_6(t *testing.T) {
	e1 := Symbol{"expval"}
	e2 := Symbol{"PauliZ"}
	e3 := Symbol{"q"}
	e4 := List{[]SExp{&e2, &e3}}
	e5 := List{[]SExp{&e1, &e4}}
	CheckOk(t, &e5, "(expval ; comment\n\t(PauliZ q))")
}

func TestSexp_7(t *testing.T) {
	terms, _, err := NewSourceFile("test", []byte("(H 0) ; one\n(CNOT 0 1)\n")).ParseAll()
	if err != nil {
		t.Fatal(err)
	} else if len(terms) != 2 || terms[1].String() != "(CNOT 0 1)" {
		t.Errorf("unexpected terms %v", terms)
	}
}

func TestSexp_8(t *testing.T) {
	list := &List{[]SExp{&Symbol{"shadow"}, &Symbol{":seed"}, &Symbol{"1"}}}
	//
	if !list.MatchSymbols(2, "shadow") || list.MatchSymbols(2, "probs") || list.MatchSymbols(4) {
		t.Errorf("unexpected match on %s", list)
	} else if !list.Elements[1].(*Symbol).IsKeyword() || list.Elements[2].(*Symbol).IsKeyword() {
		t.Errorf("unexpected keyword in %s", list)
	}
}

// ============================================================================
// Negative Tests
// ============================================================================

func TestSexp_Invalid_0(t *testing.T) {
	CheckErr(t, "(", 1)
}

func TestSexp_Invalid_1(t *testing.T) {
	CheckErr(t, ")", 0)
}

func TestSexp_Invalid_2(t *testing.T) {
	CheckErr(t, "(x))", 3)
}

func TestSexp_Invalid_3(t *testing.T) {
	CheckErr(t, "(x) y", 4)
}

// ============================================================================
// Translation Tests
// ============================================================================

func TestTranslate_0(t *testing.T) {
	CheckTranslate(t, "(+ 1 2 (+ 3 4))", 10)
}

func TestTranslate_1(t *testing.T) {
	CheckTranslate(t, "(+ 1 (+))", 1)
}

func TestTranslate_2(t *testing.T) {
	// Errors are reported against the offending symbol
	srcfile := NewSourceFile("test", []byte("(+ 1\n (+ x))"))
	_, err := translate(srcfile)
	//
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	} else if serr.Span().Start() != 9 || srcfile.FindFirstEnclosingLine(serr.Span()).Number() != 2 {
		t.Errorf("unexpected span %d", serr.Span().Start())
	} else if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected underlying error, got %v", err)
	}
}

func TestTranslate_3(t *testing.T) {
	srcfile := NewSourceFile("test", []byte("(* 1 2)"))
	//
	if _, err := translate(srcfile); err == nil || err.Error() != "test:1: unknown list *" {
		t.Errorf("unexpected error %v", err)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func CheckOk(t *testing.T, sexp1 SExp, input string) {
	sexp2, _, err := NewSourceFile("test", []byte(input)).Parse()
	//
	if err != nil {
		t.Error(err)
	} else if !reflect.DeepEqual(sexp1, sexp2) {
		t.Errorf("%s != %s", sexp1, sexp2)
	}
}

func CheckErr(t *testing.T, input string, start int) {
	_, _, err := NewSourceFile("test", []byte(input)).Parse()
	//
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Errorf("input should not have parsed: %s", input)
	} else if serr.Span().Start() != start {
		t.Errorf("error reported at %d, expected %d", serr.Span().Start(), start)
	}
}

func CheckTranslate(t *testing.T, input string, expected int) {
	actual, err := translate(NewSourceFile("test", []byte(input)))
	//
	if err != nil {
		t.Error(err)
	} else if actual != expected {
		t.Errorf("expected %d, got %d", expected, actual)
	}
}

func translate(srcfile *SourceFile) (int, error) {
	sexp, srcmap, err := srcfile.Parse()
	if err != nil {
		return 0, err
	}
	//
	translator := NewTranslator[int](srcfile, srcmap)
	translator.AddSymbolRule(strconv.Atoi)
	translator.AddRecursiveRule("+", func(args []int) (int, error) {
		sum := 0
		for _, arg := range args {
			sum += arg
		}
		//
		return sum, nil
	})
	//
	return translator.Translate(sexp)
}
