package value

import (
	"testing"

	"github.com/sunholo/piekernel/internal/core"
)

func natLit(n int) core.Term {
	var t core.Term = &core.Zero{}
	for i := 0; i < n; i++ {
		t = &core.Add1{N: t}
	}
	return t
}

func natOf(t *testing.T, v Value) int {
	t.Helper()
	n := 0
	for {
		switch vv := v.(type) {
		case VZero:
			return n
		case VAdd1:
			n++
			v = vv.N
		default:
			t.Fatalf("not a canonical Nat: %s", v)
		}
	}
}

func mustEval(t *testing.T, term core.Term, rho *Rho) Value {
	t.Helper()
	v, err := Eval(term, rho)
	if err != nil {
		t.Fatalf("Eval(%s) error: %v", term, err)
	}
	return v
}

func TestEvalUnboundVar(t *testing.T) {
	if _, err := Eval(&core.Var{Name: "ghost"}, EmptyRho); err == nil {
		t.Fatal("evaluating an unbound variable should fail")
	}
}

func TestEvalLambdaAndApp(t *testing.T) {
	// ((λ x. add1 x) zero) => add1 zero
	term := &core.App{
		Fun: &core.Lambda{Name: "x", Body: &core.Add1{N: &core.Var{Name: "x"}}},
		Arg: &core.Zero{},
	}
	if got := natOf(t, mustEval(t, term, EmptyRho)); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestEvalClosureCapturesEnv(t *testing.T) {
	// The closure must read y from the rho in force at the lambda, not
	// at the application (invariant I3).
	rho := EmptyRho.Extend("y", VAdd1{N: VZero{}})
	lam := mustEval(t, &core.Lambda{Name: "x", Body: &core.Var{Name: "y"}}, rho)
	got, err := ApplyFun(lam, VZero{})
	if err != nil {
		t.Fatal(err)
	}
	if natOf(t, got) != 1 {
		t.Errorf("closure read %s for y, want (add1 zero)", got)
	}
}

func TestEvalIterNatAddition(t *testing.T) {
	// (iter-Nat 2 2 (λ n. add1 n)) => 4
	term := &core.IterNat{
		Target: natLit(2),
		BaseTy: &core.Nat{},
		Base:   natLit(2),
		Step:   &core.Lambda{Name: "n", Body: &core.Add1{N: &core.Var{Name: "n"}}},
	}
	if got := natOf(t, mustEval(t, term, EmptyRho)); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestEvalRecNatSeesPredecessor(t *testing.T) {
	// (rec-Nat 3 zero (λ n rec. n)) => 2: the step receives the
	// predecessor of the number being eliminated.
	term := &core.RecNat{
		Target: natLit(3),
		BaseTy: &core.Nat{},
		Base:   &core.Zero{},
		Step:   &core.Lambda{Name: "n", Body: &core.Lambda{Name: "rec", Body: &core.Var{Name: "n"}}},
	}
	if got := natOf(t, mustEval(t, term, EmptyRho)); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestEvalWhichNat(t *testing.T) {
	step := &core.Lambda{Name: "n", Body: &core.Var{Name: "n"}}
	onZero := &core.WhichNat{Target: &core.Zero{}, BaseTy: &core.Nat{}, Base: natLit(7), Step: step}
	if got := natOf(t, mustEval(t, onZero, EmptyRho)); got != 7 {
		t.Errorf("which-Nat zero: got %d, want base 7", got)
	}
	onSucc := &core.WhichNat{Target: natLit(3), BaseTy: &core.Nat{}, Base: natLit(7), Step: step}
	if got := natOf(t, mustEval(t, onSucc, EmptyRho)); got != 2 {
		t.Errorf("which-Nat (add1 n): got %d, want n = 2", got)
	}
}

func TestEvalRecListLength(t *testing.T) {
	// (rec-List (:: 'a (:: 'b nil)) zero (λ e es n. add1 n)) => 2
	lst := &core.ConsL{Head: &core.Tick{Sym: "a"}, Tail: &core.ConsL{Head: &core.Tick{Sym: "b"}, Tail: &core.Nil{}}}
	term := &core.RecList{
		Target: lst,
		BaseTy: &core.Nat{},
		Base:   &core.Zero{},
		Step: &core.Lambda{Name: "e", Body: &core.Lambda{Name: "es",
			Body: &core.Lambda{Name: "n", Body: &core.Add1{N: &core.Var{Name: "n"}}}}},
	}
	if got := natOf(t, mustEval(t, term, EmptyRho)); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestEvalCarCdr(t *testing.T) {
	pair := &core.Cons{Fst: &core.Zero{}, Snd: &core.Tick{Sym: "ok"}}
	fst := mustEval(t, &core.Car{Pair: pair}, EmptyRho)
	if _, isZero := fst.(VZero); !isZero {
		t.Errorf("car = %s, want zero", fst)
	}
	snd := mustEval(t, &core.Cdr{Pair: pair}, EmptyRho)
	if tick, ok := snd.(VTick); !ok || tick.Sym != "ok" {
		t.Errorf("cdr = %s, want 'ok", snd)
	}
}

func neutralAt(ty Value, name string) Value {
	return VNeutral{Ty: ty, Neu: NVar{Name: name}}
}

func TestApplyFunNeutral(t *testing.T) {
	f := neutralAt(NonDepPi(VNat{}, VNat{}), "f")
	got, err := ApplyFun(f, VZero{})
	if err != nil {
		t.Fatal(err)
	}
	neu, ok := got.(VNeutral)
	if !ok {
		t.Fatalf("applying a neutral should stay neutral, got %T", got)
	}
	if _, isNat := neu.Ty.(VNat); !isNat {
		t.Errorf("neutral application type = %s, want the Pi's range", neu.Ty)
	}
	app, ok := neu.Neu.(NApp)
	if !ok {
		t.Fatalf("neutral form = %T, want NApp", neu.Neu)
	}
	if _, isNat := app.Arg.Ty.(VNat); !isNat {
		t.Errorf("argument Normal typed %s, want the Pi's domain", app.Arg.Ty)
	}
}

func TestDoCarCdrNeutralTypes(t *testing.T) {
	// p : Σ x:Nat. Vec Atom x — cdr's type depends on car p.
	sigma := VSigma{Name: "x", Fst: VNat{}, Snd: NativeClosure(func(x Value) (Value, error) {
		return VVec{Elem: VAtom{}, Len: x}, nil
	})}
	p := neutralAt(sigma, "p")

	fst, err := DoCar(p)
	if err != nil {
		t.Fatal(err)
	}
	fstNeu, ok := fst.(VNeutral)
	if !ok {
		t.Fatalf("car of a neutral should be neutral, got %T", fst)
	}
	if _, isNat := fstNeu.Ty.(VNat); !isNat {
		t.Errorf("car type = %s, want Nat", fstNeu.Ty)
	}

	snd, err := DoCdr(p)
	if err != nil {
		t.Fatal(err)
	}
	sndNeu := snd.(VNeutral)
	vec, ok := sndNeu.Ty.(VVec)
	if !ok {
		t.Fatalf("cdr type = %s, want a Vec instantiated at (car p)", sndNeu.Ty)
	}
	if _, ok := vec.Len.(VNeutral); !ok {
		t.Errorf("cdr's Vec length = %s, want the neutral (car p)", vec.Len)
	}
}

func TestEvalSymm(t *testing.T) {
	// Canonical: symm (same v) = same v, its own inverse.
	got, err := evalSymm(VSame{Mid: VZero{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(VSame); !ok {
		t.Errorf("symm of same = %T, want same", got)
	}

	// Neutral: endpoints flip.
	eq := neutralAt(VEqual{Ty: VNat{}, From: VZero{}, To: VAdd1{N: VZero{}}}, "e")
	got, err = evalSymm(eq)
	if err != nil {
		t.Fatal(err)
	}
	neu := got.(VNeutral)
	et := neu.Ty.(VEqual)
	if natOf(t, et.From) != 1 || natOf(t, et.To) != 0 {
		t.Errorf("symm neutral type = %s, want endpoints flipped", neu.Ty)
	}
	if _, ok := neu.Neu.(NSymm); !ok {
		t.Errorf("symm neutral form = %T, want NSymm", neu.Neu)
	}
}

func TestEvalTransBothCanonical(t *testing.T) {
	term := &core.Trans{
		Left:  &core.Same{Mid: natLit(1)},
		Right: &core.Same{Mid: natLit(1)},
	}
	got := mustEval(t, term, EmptyRho)
	same, ok := got.(VSame)
	if !ok {
		t.Fatalf("trans of two same = %T, want same", got)
	}
	if natOf(t, same.Mid) != 1 {
		t.Errorf("trans witness = %s, want 1", same.Mid)
	}
}

func TestEvalTransLeftNeutral(t *testing.T) {
	rho := EmptyRho.Extend("e", neutralAt(VEqual{Ty: VNat{}, From: VZero{}, To: natVal(1)}, "e"))
	term := &core.Trans{Left: &core.Var{Name: "e"}, Right: &core.Same{Mid: natLit(1)}}
	got := mustEval(t, term, rho)
	neu, ok := got.(VNeutral)
	if !ok {
		t.Fatalf("trans with a neutral side = %T, want neutral", got)
	}
	et := neu.Ty.(VEqual)
	if natOf(t, et.From) != 0 || natOf(t, et.To) != 1 {
		t.Errorf("trans type endpoints = %s, want 0 and 1", neu.Ty)
	}
	if _, ok := neu.Neu.(NTrans); !ok {
		t.Errorf("neutral form = %T, want NTrans", neu.Neu)
	}
}

func natVal(n int) Value {
	var v Value = VZero{}
	for i := 0; i < n; i++ {
		v = VAdd1{N: v}
	}
	return v
}

func TestEvalIndNatNeutralType(t *testing.T) {
	rho := EmptyRho.Extend("k", neutralAt(VNat{}, "k"))
	motive := &core.Lambda{Name: "n", Body: &core.VecT{Elem: &core.Atom{}, Len: &core.Var{Name: "n"}}}
	term := &core.IndNat{
		Target: &core.Var{Name: "k"},
		Motive: motive,
		Base:   &core.VecNil{},
		Step: &core.Lambda{Name: "n", Body: &core.Lambda{Name: "so-far",
			Body: &core.VecCons{Head: &core.Tick{Sym: "a"}, Tail: &core.Var{Name: "so-far"}}}},
	}
	got := mustEval(t, term, rho)
	neu, ok := got.(VNeutral)
	if !ok {
		t.Fatalf("ind-Nat on a neutral = %T, want neutral", got)
	}
	// The neutral's type must be the motive applied to the target.
	vec, ok := neu.Ty.(VVec)
	if !ok {
		t.Fatalf("neutral type = %s, want (Vec Atom k)", neu.Ty)
	}
	if _, ok := vec.Len.(VNeutral); !ok {
		t.Errorf("motive instantiation lost the neutral target: %s", neu.Ty)
	}
}

func TestEvalIndEither(t *testing.T) {
	left := &core.Inl{Val: natLit(3)}
	term := &core.IndEither{
		Target:    left,
		Motive:    &core.Lambda{Name: "e", Body: &core.Nat{}},
		BaseLeft:  &core.Lambda{Name: "l", Body: &core.Var{Name: "l"}},
		BaseRight: &core.Lambda{Name: "r", Body: &core.Zero{}},
	}
	if got := natOf(t, mustEval(t, term, EmptyRho)); got != 3 {
		t.Errorf("ind-Either on left = %d, want 3", got)
	}
}
