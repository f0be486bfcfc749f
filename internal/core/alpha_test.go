package core

import "testing"

func lam(name string, body Term) Term { return &Lambda{Name: name, Body: body} }
func v(name string) Term              { return &Var{Name: name} }

func TestAlphaEquivBoundRenaming(t *testing.T) {
	a := lam("x", v("x"))
	b := lam("y", v("y"))
	if !AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("λx.x and λy.y should be alpha-equivalent")
	}
}

func TestAlphaEquivFreeNamesLiteral(t *testing.T) {
	a := lam("x", v("free"))
	b := lam("y", v("other"))
	if AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("distinct free variables must not compare equal")
	}
	c := lam("y", v("free"))
	if !AlphaEquiv(a, c, NewRenamings()) {
		t.Errorf("identical free variables under different binders should compare equal")
	}
}

func TestAlphaEquivBoundVsFree(t *testing.T) {
	// λx.x vs λy.x: left occurrence is bound, right is free.
	a := lam("x", v("x"))
	b := lam("y", v("x"))
	if AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("a bound variable must not match a free one of the same name")
	}
}

func TestAlphaEquivPi(t *testing.T) {
	a := &Pi{Name: "x", Dom: &Nat{}, Ran: &VecT{Elem: &Atom{}, Len: v("x")}}
	b := &Pi{Name: "n", Dom: &Nat{}, Ran: &VecT{Elem: &Atom{}, Len: v("n")}}
	if !AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("Pi types differing only in binder name should be equivalent")
	}
	c := &Pi{Name: "x", Dom: &Atom{}, Ran: &VecT{Elem: &Atom{}, Len: v("x")}}
	if AlphaEquiv(a, c, NewRenamings()) {
		t.Errorf("Pi types with different domains must not be equivalent")
	}
}

func TestAlphaEquivShapeMismatch(t *testing.T) {
	if AlphaEquiv(&Zero{}, &Nat{}, NewRenamings()) {
		t.Errorf("zero and Nat must not be equivalent")
	}
	if AlphaEquiv(&Add1{N: &Zero{}}, &Zero{}, NewRenamings()) {
		t.Errorf("add1 zero and zero must not be equivalent")
	}
}

// Property P3: alpha-equivalence is an equivalence relation. Spot-check
// reflexivity, symmetry, and transitivity over a set of representative
// terms.
func TestAlphaEquivIsEquivalence(t *testing.T) {
	terms := []Term{
		lam("x", v("x")),
		lam("y", v("y")),
		lam("z", &App{Fun: v("z"), Arg: &Zero{}}),
		&Pi{Name: "A", Dom: &U{}, Ran: &Pi{Name: "x", Dom: v("A"), Ran: v("A")}},
		&Cons{Fst: &Zero{}, Snd: &Tick{Sym: "ok"}},
	}
	for _, a := range terms {
		if !AlphaEquiv(a, a, NewRenamings()) {
			t.Errorf("reflexivity failed for %s", a)
		}
	}
	for _, a := range terms {
		for _, b := range terms {
			ab := AlphaEquiv(a, b, NewRenamings())
			ba := AlphaEquiv(b, a, NewRenamings())
			if ab != ba {
				t.Errorf("symmetry failed for %s vs %s", a, b)
			}
			if !ab {
				continue
			}
			for _, c := range terms {
				if AlphaEquiv(b, c, NewRenamings()) && !AlphaEquiv(a, c, NewRenamings()) {
					t.Errorf("transitivity failed for %s, %s, %s", a, b, c)
				}
			}
		}
	}
}

func TestAlphaEquivMatchArms(t *testing.T) {
	armX := Arm{Pattern: PatternVar{Name: "x"}, Body: v("x")}
	armY := Arm{Pattern: PatternVar{Name: "y"}, Body: v("y")}
	a := &Match{Target: v("t"), Arms: []Arm{armX}, Motive: &Nat{}}
	b := &Match{Target: v("t"), Arms: []Arm{armY}, Motive: &Nat{}}
	if !AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("match arms binding different names in lock-step should be equivalent")
	}

	c := &Match{Target: v("t"), Arms: []Arm{{Pattern: PatternHole{}, Body: v("x")}}, Motive: &Nat{}}
	if AlphaEquiv(a, c, NewRenamings()) {
		t.Errorf("a variable pattern and a hole are different shapes")
	}
}

func TestAlphaEquivCtorPatterns(t *testing.T) {
	a := &Match{Target: v("t"), Arms: []Arm{{
		Pattern: PatternCtor{Name: "just", Args: []Pattern{PatternVar{Name: "a"}}},
		Body:    v("a"),
	}}, Motive: &Nat{}}
	b := &Match{Target: v("t"), Arms: []Arm{{
		Pattern: PatternCtor{Name: "just", Args: []Pattern{PatternVar{Name: "b"}}},
		Body:    v("b"),
	}}, Motive: &Nat{}}
	if !AlphaEquiv(a, b, NewRenamings()) {
		t.Errorf("constructor patterns binding different names should be equivalent")
	}
	c := &Match{Target: v("t"), Arms: []Arm{{
		Pattern: PatternCtor{Name: "nothing"},
		Body:    &Zero{},
	}}, Motive: &Nat{}}
	if AlphaEquiv(a, c, NewRenamings()) {
		t.Errorf("different constructors must not be equivalent")
	}
}

func TestRenamingsImmutable(t *testing.T) {
	r := NewRenamings()
	r2 := r.Bind("x", "y")
	if !r.SameVar("x", "x") {
		t.Errorf("binding in a derived Renamings must not affect the original")
	}
	if !r2.SameVar("x", "y") {
		t.Errorf("derived Renamings should map the bound pair to one index")
	}
	if r2.SameVar("x", "x") {
		t.Errorf("x is bound on the left but free on the right")
	}
}
