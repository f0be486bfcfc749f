package value

import (
	"testing"

	"github.com/sunholo/piekernel/internal/core"
)

func mustReadBack(t *testing.T, bound Bound, ty, v Value) core.Term {
	t.Helper()
	term, err := ReadBack(bound, ty, v)
	if err != nil {
		t.Fatalf("ReadBack error: %v", err)
	}
	return term
}

func mustReadBackType(t *testing.T, bound Bound, ty Value) core.Term {
	t.Helper()
	term, err := ReadBackType(bound, ty)
	if err != nil {
		t.Fatalf("ReadBackType error: %v", err)
	}
	return term
}

func TestReadBackNat(t *testing.T) {
	got := mustReadBack(t, Bound{}, VNat{}, natVal(2))
	want := "(add1 (add1 zero))"
	if got.String() != want {
		t.Errorf("read-back = %s, want %s", got, want)
	}
}

// Property P4: every value of a Pi type reads back eta-expanded, so a
// bare neutral f and λx.(f x) have the same normal form.
func TestReadBackEtaExpandsPi(t *testing.T) {
	piTy := VPi{Name: "x", Dom: VNat{}, Ran: ConstClosure(VNat{})}
	f := neutralAt(piTy, "f")
	got := mustReadBack(t, Bound{}, piTy, f)
	lam, ok := got.(*core.Lambda)
	if !ok {
		t.Fatalf("neutral at Pi read back as %T, want a lambda wrapper", got)
	}
	app, ok := lam.Body.(*core.App)
	if !ok {
		t.Fatalf("eta body = %T, want an application", lam.Body)
	}
	if fn, ok := app.Fun.(*core.Var); !ok || fn.Name != "f" {
		t.Errorf("eta body applies %s, want f", app.Fun)
	}
	if arg, ok := app.Arg.(*core.Var); !ok || arg.Name != lam.Name {
		t.Errorf("eta body argument %s, want the fresh binder %s", app.Arg, lam.Name)
	}
}

// Property P4: a neutral at a Sigma type reads back as a cons of its
// projections.
func TestReadBackEtaExpandsSigma(t *testing.T) {
	sigTy := VSigma{Name: "x", Fst: VNat{}, Snd: ConstClosure(VAtom{})}
	p := neutralAt(sigTy, "p")
	got := mustReadBack(t, Bound{}, sigTy, p)
	cons, ok := got.(*core.Cons)
	if !ok {
		t.Fatalf("neutral at Sigma read back as %T, want cons", got)
	}
	if _, ok := cons.Fst.(*core.Car); !ok {
		t.Errorf("first component = %s, want (car p)", cons.Fst)
	}
	if _, ok := cons.Snd.(*core.Cdr); !ok {
		t.Errorf("second component = %s, want (cdr p)", cons.Snd)
	}
}

// Property P4: every term of type Trivial reads back as sole.
func TestReadBackTrivialIsSole(t *testing.T) {
	n := neutralAt(VTrivial{}, "u")
	got := mustReadBack(t, Bound{}, VTrivial{}, n)
	if _, ok := got.(*core.Sole); !ok {
		t.Errorf("neutral at Trivial read back as %s, want sole", got)
	}
}

func TestReadBackFreshensAgainstBound(t *testing.T) {
	_, bound := Bound{}.Fresh("x")
	piTy := VPi{Name: "x", Dom: VNat{}, Ran: ConstClosure(VNat{})}
	got := mustReadBack(t, bound, piTy, neutralAt(piTy, "f"))
	lam := got.(*core.Lambda)
	if lam.Name == "x" {
		t.Errorf("binder %q collides with a name already in Bound", lam.Name)
	}
}

// Property P2: read-back of a type is idempotent through eval.
func TestReadBackTypeIdempotent(t *testing.T) {
	src := &core.Pi{Name: "A", Dom: &core.U{},
		Ran: &core.Pi{Name: "x", Dom: &core.Var{Name: "A"}, Ran: &core.Var{Name: "A"}}}
	ty := mustEval(t, src, EmptyRho)

	rb1 := mustReadBackType(t, Bound{}, ty)
	ty2 := mustEval(t, rb1, EmptyRho)
	rb2 := mustReadBackType(t, Bound{}, ty2)

	if !core.AlphaEquiv(rb1, rb2, core.NewRenamings()) {
		t.Errorf("read-back not idempotent:\n  first:  %s\n  second: %s", rb1, rb2)
	}
}

func TestReadBackNeutralTypeRequiresU(t *testing.T) {
	// A neutral whose recorded type is U reads back as a type term; a
	// neutral of any other type reaching ReadBackType is an error.
	ok := neutralAt(VU{}, "T")
	if _, err := ReadBackType(Bound{}, ok); err != nil {
		t.Errorf("neutral at U should read back as a type: %v", err)
	}
	bad := neutralAt(VNat{}, "n")
	if _, err := ReadBackType(Bound{}, bad); err == nil {
		t.Errorf("neutral at Nat must not read back as a type")
	}
}

func TestReadBackEqual(t *testing.T) {
	eqTy := VEqual{Ty: VNat{}, From: natVal(1), To: natVal(1)}
	got := mustReadBack(t, Bound{}, eqTy, VSame{Mid: natVal(1)})
	same, ok := got.(*core.Same)
	if !ok {
		t.Fatalf("read-back = %T, want same", got)
	}
	if same.Mid.String() != "(add1 zero)" {
		t.Errorf("witness = %s, want (add1 zero)", same.Mid)
	}
}

func TestReadBackListAndVec(t *testing.T) {
	listTy := VList{Elem: VAtom{}}
	lst := VListCons{Head: VTick{Sym: "a"}, Tail: VNil{}}
	if got := mustReadBack(t, Bound{}, listTy, lst); got.String() != "(:: 'a nil)" {
		t.Errorf("list read-back = %s", got)
	}

	vecTy := VVec{Elem: VAtom{}, Len: natVal(1)}
	vec := VVecCons{Head: VTick{Sym: "a"}, Tail: VVecNil{}}
	if got := mustReadBack(t, Bound{}, vecTy, vec); got.String() != "(vec:: 'a vecnil)" {
		t.Errorf("vec read-back = %s", got)
	}
}

// Round-trip: eval of a read-back yields a value that reads back to
// the same term (the NbE normal form is a fixed point).
func TestReadBackEvalRoundTrip(t *testing.T) {
	rho := EmptyRho.Extend("n", neutralAt(VNat{}, "n"))
	term := &core.IterNat{
		Target: &core.Var{Name: "n"},
		BaseTy: &core.Nat{},
		Base:   &core.Zero{},
		Step:   &core.Lambda{Name: "k", Body: &core.Add1{N: &core.Var{Name: "k"}}},
	}
	v := mustEval(t, term, rho)
	_, bound := Bound{}.Fresh("n")
	rb1 := mustReadBack(t, bound, VNat{}, v)
	v2 := mustEval(t, rb1, rho)
	rb2 := mustReadBack(t, bound, VNat{}, v2)
	if !core.AlphaEquiv(rb1, rb2, core.NewRenamings()) {
		t.Errorf("round-trip changed the normal form:\n  first:  %s\n  second: %s", rb1, rb2)
	}
}
