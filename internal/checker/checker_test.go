package checker_test

import (
	"testing"

	"github.com/sunholo/piekernel/internal/checker"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/parser"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

func parse(t *testing.T, src string) surface.Expr {
	t.Helper()
	e, err := parser.ParseExpr(src, "test.pie")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return e
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error %s, got success", code)
	}
	rep, ok := kerrors.AsReport(err)
	if !ok {
		t.Fatalf("want a %s report, got plain error %v", code, err)
	}
	if rep.Code != code {
		t.Fatalf("error code = %s (%s), want %s", rep.Code, rep.Message, code)
	}
}

func TestSynthTheAnnotation(t *testing.T) {
	e := parse(t, "(the (Pi ((A U) (x A)) A) (lambda (A x) x))")
	ty, c, err := checker.Synth(e, ctx.Empty)
	if err != nil {
		t.Fatalf("Synth error: %v", err)
	}
	if _, ok := ty.(value.VPi); !ok {
		t.Errorf("synthesized type = %s, want a Pi", ty)
	}
	if c == nil {
		t.Error("no core term elaborated")
	}
}

func TestSynthUnbound(t *testing.T) {
	_, _, err := checker.Synth(parse(t, "ghost"), ctx.Empty)
	wantCode(t, err, kerrors.CHK001)
}

func TestSynthBareLambdaImpossible(t *testing.T) {
	_, _, err := checker.Synth(parse(t, "(lambda (x) x)"), ctx.Empty)
	wantCode(t, err, kerrors.CHK006)
}

func TestCheckLambdaAgainstNonPi(t *testing.T) {
	_, err := checker.Check(parse(t, "(lambda (x) x)"), ctx.Empty, value.VNat{})
	wantCode(t, err, kerrors.CHK007)
}

func TestCheckTickAgainstNat(t *testing.T) {
	_, err := checker.Check(parse(t, "'hello"), ctx.Empty, value.VNat{})
	wantCode(t, err, kerrors.CHK005)
}

func TestCheckListLiteral(t *testing.T) {
	listNat := value.VList{Elem: value.VNat{}}
	if _, err := checker.Check(parse(t, "(:: zero (:: 1 nil))"), ctx.Empty, listNat); err != nil {
		t.Errorf("list literal should check: %v", err)
	}
	_, err := checker.Check(parse(t, "(:: 'a nil)"), ctx.Empty, listNat)
	wantCode(t, err, kerrors.CHK005)
}

func TestCheckVecNilLength(t *testing.T) {
	okTy := value.VVec{Elem: value.VNat{}, Len: value.VZero{}}
	if _, err := checker.Check(parse(t, "vecnil"), ctx.Empty, okTy); err != nil {
		t.Errorf("vecnil at length zero should check: %v", err)
	}
	badTy := value.VVec{Elem: value.VNat{}, Len: value.VAdd1{N: value.VZero{}}}
	_, err := checker.Check(parse(t, "vecnil"), ctx.Empty, badTy)
	wantCode(t, err, kerrors.CHK005)
}

func TestCheckVecConsTracksLength(t *testing.T) {
	vec1 := value.VVec{Elem: value.VAtom{}, Len: value.VAdd1{N: value.VZero{}}}
	if _, err := checker.Check(parse(t, "(vec:: 'a vecnil)"), ctx.Empty, vec1); err != nil {
		t.Errorf("singleton vec at length one should check: %v", err)
	}
	vec2 := value.VVec{Elem: value.VAtom{}, Len: value.VAdd1{N: value.VAdd1{N: value.VZero{}}}}
	if _, err := checker.Check(parse(t, "(vec:: 'a vecnil)"), ctx.Empty, vec2); err == nil {
		t.Error("singleton vec at length two must not check")
	}
}

func TestCheckConsAgainstDependentSigma(t *testing.T) {
	// Σ n:Nat. Vec Atom n — the second component's type depends on the
	// first.
	sig := value.VSigma{Name: "n", Fst: value.VNat{}, Snd: value.NativeClosure(func(n value.Value) (value.Value, error) {
		return value.VVec{Elem: value.VAtom{}, Len: n}, nil
	})}
	if _, err := checker.Check(parse(t, "(cons 1 (vec:: 'a vecnil))"), ctx.Empty, sig); err != nil {
		t.Errorf("dependent pair should check: %v", err)
	}
	if _, err := checker.Check(parse(t, "(cons 2 (vec:: 'a vecnil))"), ctx.Empty, sig); err == nil {
		t.Error("pair with mismatched length must not check")
	}
}

func TestCheckSameRequiresMatchingEndpoints(t *testing.T) {
	eq := value.VEqual{Ty: value.VNat{}, From: value.VZero{}, To: value.VZero{}}
	if _, err := checker.Check(parse(t, "(same zero)"), ctx.Empty, eq); err != nil {
		t.Errorf("(same zero) at (= Nat zero zero) should check: %v", err)
	}
	neq := value.VEqual{Ty: value.VNat{}, From: value.VZero{}, To: value.VAdd1{N: value.VZero{}}}
	if _, err := checker.Check(parse(t, "(same zero)"), ctx.Empty, neq); err == nil {
		t.Error("(same zero) at (= Nat zero (add1 zero)) must not check")
	}
}

func TestSynthAppDependentRange(t *testing.T) {
	// f : Π A:U. Π x:A. A, so (f Nat) synthesizes Π x:Nat. Nat.
	g := ctx.Empty.Claim("f", value.VPi{
		Name: "A", Dom: value.VU{},
		Ran: value.NativeClosure(func(a value.Value) (value.Value, error) {
			return value.VPi{Name: "x", Dom: a, Ran: value.ConstClosure(a)}, nil
		}),
	})
	ty, _, err := checker.Synth(parse(t, "(f Nat)"), g)
	if err != nil {
		t.Fatalf("Synth error: %v", err)
	}
	pi, ok := ty.(value.VPi)
	if !ok {
		t.Fatalf("type = %s, want Pi", ty)
	}
	if _, ok := pi.Dom.(value.VNat); !ok {
		t.Errorf("instantiated domain = %s, want Nat", pi.Dom)
	}
}

func TestSynthAppNonFunction(t *testing.T) {
	_, _, err := checker.Synth(parse(t, "(zero zero)"), ctx.Empty)
	wantCode(t, err, kerrors.CHK007)
}

func TestCheckIterNatAgainstExpected(t *testing.T) {
	g := ctx.Empty.Claim("n", value.VNat{})
	if _, err := checker.Check(parse(t, "(iter-Nat n 1 (lambda (k) (add1 k)))"), g, value.VNat{}); err != nil {
		t.Errorf("iter-Nat should check against Nat: %v", err)
	}
	_, err := checker.Check(parse(t, "(iter-Nat n 'a (lambda (k) k))"), g, value.VNat{})
	wantCode(t, err, kerrors.CHK005)
}

func TestSynthIndNatMotiveShape(t *testing.T) {
	g := ctx.Empty.Claim("n", value.VNat{})
	// Well-shaped: motive (λ k. Nat), base Nat, step adds one.
	src := "(ind-Nat n (lambda (k) Nat) zero (lambda (k so-far) (add1 so-far)))"
	if _, _, err := checker.Synth(parse(t, src), g); err != nil {
		t.Errorf("ind-Nat should synthesize: %v", err)
	}
	// Motive of the wrong shape is rejected while checking the motive.
	bad := "(ind-Nat n zero zero (lambda (k so-far) so-far))"
	if _, _, err := checker.Synth(parse(t, bad), g); err == nil {
		t.Error("ind-Nat with a non-function motive must fail")
	}
}

func TestSynthIndAbsurd(t *testing.T) {
	g := ctx.Empty.Claim("bottom", value.VAbsurd{})
	ty, _, err := checker.Synth(parse(t, "(ind-Absurd bottom Nat)"), g)
	if err != nil {
		t.Fatalf("Synth error: %v", err)
	}
	if _, ok := ty.(value.VNat); !ok {
		t.Errorf("type = %s, want the motive Nat", ty)
	}
}
