package parser

import (
	"testing"

	"github.com/sunholo/piekernel/internal/surface"
)

func parseOne(t *testing.T, src string) surface.Expr {
	t.Helper()
	e, err := ParseExpr(src, "test.pie")
	if err != nil {
		t.Fatalf("ParseExpr(%q) error: %v", src, err)
	}
	return e
}

func TestNatLiteralDesugars(t *testing.T) {
	e := parseOne(t, "2")
	a1, ok := e.(*surface.Add1)
	if !ok {
		t.Fatalf("2 parsed as %T, want add1", e)
	}
	a2, ok := a1.N.(*surface.Add1)
	if !ok {
		t.Fatalf("inner of 2 is %T, want add1", a1.N)
	}
	if _, ok := a2.N.(*surface.Zero); !ok {
		t.Fatalf("core of 2 is %T, want zero", a2.N)
	}
}

func TestArrowDesugarsRightAssociative(t *testing.T) {
	e := parseOne(t, "(-> Nat Atom U)")
	outer, ok := e.(*surface.Pi)
	if !ok {
		t.Fatalf("arrow parsed as %T, want Pi", e)
	}
	if outer.Name != "_" {
		t.Errorf("arrow binder = %q, want _", outer.Name)
	}
	inner, ok := outer.Ran.(*surface.Pi)
	if !ok {
		t.Fatalf("arrow range = %T, want nested Pi", outer.Ran)
	}
	if _, ok := inner.Ran.(*surface.U); !ok {
		t.Errorf("innermost range = %T, want U", inner.Ran)
	}
}

func TestPiTelescopeDesugars(t *testing.T) {
	e := parseOne(t, "(Pi ((A U) (x A)) A)")
	outer := e.(*surface.Pi)
	if outer.Name != "A" {
		t.Errorf("outer binder = %q, want A", outer.Name)
	}
	inner, ok := outer.Ran.(*surface.Pi)
	if !ok || inner.Name != "x" {
		t.Fatalf("inner = %v, want Pi binding x", outer.Ran)
	}
}

func TestLambdaMultiParamDesugars(t *testing.T) {
	e := parseOne(t, "(lambda (A x) x)")
	outer := e.(*surface.Lambda)
	if outer.Param != "A" {
		t.Errorf("outer param = %q, want A", outer.Param)
	}
	inner, ok := outer.Body.(*surface.Lambda)
	if !ok || inner.Param != "x" {
		t.Fatalf("inner = %v, want lambda binding x", outer.Body)
	}
}

func TestUnicodeAliases(t *testing.T) {
	for _, src := range []string{"(λ (x) x)", "(Π ((x Nat)) Nat)", "(Σ ((x Nat)) Nat)", "(→ Nat Nat)"} {
		if _, err := ParseExpr(src, "t"); err != nil {
			t.Errorf("ParseExpr(%q) error: %v", src, err)
		}
	}
}

func TestApplicationCurries(t *testing.T) {
	e := parseOne(t, "(f a b)")
	outer, ok := e.(*surface.App)
	if !ok {
		t.Fatalf("parsed as %T, want App", e)
	}
	inner, ok := outer.Fun.(*surface.App)
	if !ok {
		t.Fatalf("function position = %T, want the curried inner App", outer.Fun)
	}
	if v, ok := inner.Fun.(*surface.Var); !ok || v.Name != "f" {
		t.Errorf("head = %s, want f", inner.Fun)
	}
}

func TestParenthesizedFunctionPosition(t *testing.T) {
	e := parseOne(t, "((id Nat) zero)")
	outer, ok := e.(*surface.App)
	if !ok {
		t.Fatalf("parsed as %T, want App", e)
	}
	if _, ok := outer.Fun.(*surface.App); !ok {
		t.Errorf("function position = %T, want App", outer.Fun)
	}
}

func TestParseMatch(t *testing.T) {
	e := parseOne(t, "(match b (true zero) ((just x) x) ((cons a d) a) ('red 1) (_ 2))")
	m, ok := e.(*surface.Match)
	if !ok {
		t.Fatalf("parsed as %T, want Match", e)
	}
	if len(m.Arms) != 5 {
		t.Fatalf("arm count = %d, want 5", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pattern.(*surface.PatternVar); !ok {
		t.Errorf("arm 0 pattern = %T, want bare name", m.Arms[0].Pattern)
	}
	ctor, ok := m.Arms[1].Pattern.(*surface.PatternCtor)
	if !ok || ctor.Name != "just" || len(ctor.Args) != 1 {
		t.Errorf("arm 1 pattern = %v, want (just x)", m.Arms[1].Pattern)
	}
	if _, ok := m.Arms[2].Pattern.(*surface.PatternCons); !ok {
		t.Errorf("arm 2 pattern = %T, want cons", m.Arms[2].Pattern)
	}
	if at, ok := m.Arms[3].Pattern.(*surface.PatternAtom); !ok || at.Sym != "red" {
		t.Errorf("arm 3 pattern = %v, want 'red", m.Arms[3].Pattern)
	}
	if _, ok := m.Arms[4].Pattern.(*surface.PatternHole); !ok {
		t.Errorf("arm 4 pattern = %T, want hole", m.Arms[4].Pattern)
	}
}

func TestParseProgramToplevels(t *testing.T) {
	src := `(claim id (Pi ((A U) (x A)) A))
(define id (lambda (A x) x))
(check-same Nat ((id Nat) zero) zero)`
	forms, err := ParseProgram(src, "test.pie")
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("form count = %d, want 3", len(forms))
	}
	if c, ok := forms[0].(*surface.Claim); !ok || c.Name != "id" {
		t.Errorf("form 0 = %T, want claim of id", forms[0])
	}
	if d, ok := forms[1].(*surface.Define); !ok || d.Name != "id" {
		t.Errorf("form 1 = %T, want define of id", forms[1])
	}
	if _, ok := forms[2].(*surface.CheckSame); !ok {
		t.Errorf("form 2 = %T, want check-same", forms[2])
	}
}

func TestParseDataDeclaration(t *testing.T) {
	src := `(data Maybe ((A U)) () (nothing (Maybe A)) (just (x A) (Maybe A)))`
	forms, err := ParseProgram(src, "test.pie")
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	d, ok := forms[0].(*surface.Data)
	if !ok {
		t.Fatalf("parsed as %T, want Data", forms[0])
	}
	if d.Name != "Maybe" || len(d.Params) != 1 || len(d.Indices) != 0 {
		t.Fatalf("header = %s %d params %d indices", d.Name, len(d.Params), len(d.Indices))
	}
	if d.Params[0].Name != "A" {
		t.Errorf("param = %q, want A", d.Params[0].Name)
	}
	if len(d.Constructors) != 2 {
		t.Fatalf("constructor count = %d, want 2", len(d.Constructors))
	}
	nothing := d.Constructors[0]
	if nothing.Name != "nothing" || len(nothing.Args) != 0 || nothing.ResultName != "Maybe" || len(nothing.ResultIdxs) != 1 {
		t.Errorf("nothing = %+v", nothing)
	}
	just := d.Constructors[1]
	if just.Name != "just" || len(just.Args) != 1 || just.Args[0].Name != "x" || just.ResultName != "Maybe" {
		t.Errorf("just = %+v", just)
	}
}

func TestParseDataWithIndices(t *testing.T) {
	src := `(data Even () ((n Nat)) (even-zero (Even zero)) (even-ss (k Nat) (e (Even k)) (Even (add1 (add1 k)))))`
	forms, err := ParseProgram(src, "test.pie")
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	d := forms[0].(*surface.Data)
	if len(d.Indices) != 1 || d.Indices[0].Name != "n" {
		t.Fatalf("indices = %+v", d.Indices)
	}
	ss := d.Constructors[1]
	if len(ss.Args) != 2 || len(ss.ResultIdxs) != 1 {
		t.Errorf("even-ss = %+v", ss)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"(claim x", "(unknown-form x)", ")"} {
		if _, err := ParseProgram(src, "t"); err == nil {
			t.Errorf("ParseProgram(%q) should fail", src)
		}
	}
	if _, err := ParseExpr("(lambda () x)", "t"); err == nil {
		t.Errorf("lambda with no parameters should fail")
	}
}

func TestParseResultIdxMaybeConfusable(t *testing.T) {
	// A constructor whose result-type group follows an argument group:
	// the parser must treat only the final group as the result type.
	src := `(data Wrap ((A U)) () (wrap (x A) (Wrap A)))`
	forms, err := ParseProgram(src, "t")
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	d := forms[0].(*surface.Data)
	w := d.Constructors[0]
	if len(w.Args) != 1 || w.Args[0].Name != "x" {
		t.Errorf("args = %+v, want exactly (x A)", w.Args)
	}
	if w.ResultName != "Wrap" || len(w.ResultIdxs) != 1 {
		t.Errorf("result = %s %v", w.ResultName, w.ResultIdxs)
	}
}
