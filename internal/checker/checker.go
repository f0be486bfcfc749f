// Package checker implements the bidirectional type checker of
// spec.md §4.4: synth (type synthesis), check (type checking against
// an expected value-type), and isType, all consulting a ctx.Context
// (Gamma) and elaborating surface.Expr into core.Term.
package checker

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

// boundOf collects every name currently bound in g into a value.Bound,
// so read-back (called during type-equality checks) never picks a
// fresh name that collides with something already in scope.
func boundOf(g *ctx.Context) value.Bound {
	return g.Bound()
}

func typesEqual(bound value.Bound, t1, t2 value.Value) (bool, error) {
	c1, err := value.ReadBackType(bound, t1)
	if err != nil {
		return false, err
	}
	c2, err := value.ReadBackType(bound, t2)
	if err != nil {
		return false, err
	}
	return core.AlphaEquiv(c1, c2, core.NewRenamings()), nil
}

func valuesEqual(bound value.Bound, ty, v1, v2 value.Value) (bool, error) {
	t1, err := value.ReadBack(bound, ty, v1)
	if err != nil {
		return false, err
	}
	t2, err := value.ReadBack(bound, ty, v2)
	if err != nil {
		return false, err
	}
	return core.AlphaEquiv(t1, t2, core.NewRenamings()), nil
}

func describeExpr(e surface.Expr) string {
	return fmt.Sprintf("%s", e)
}

// IsType is check(e, Gamma, U) with no special fast paths beyond what
// Synth/Check already provide for the type-former surface nodes.
func IsType(e surface.Expr, g *ctx.Context) (core.Term, error) {
	return Check(e, g, value.VU{})
}

// Synth implements synth(e, Gamma) -> (T, c): the expressions whose
// type is determined entirely by their own form and the types of
// their subexpressions.
func Synth(e surface.Expr, g *ctx.Context) (value.Value, core.Term, error) {
	switch ex := e.(type) {
	case *surface.The:
		tc, err := IsType(ex.Type, g)
		if err != nil {
			return nil, nil, err
		}
		tv, err := value.Eval(tc, g.ToRho())
		if err != nil {
			return nil, nil, err
		}
		vc, err := Check(ex.Value, g, tv)
		if err != nil {
			return nil, nil, err
		}
		return tv, vc, nil

	case *surface.Var:
		t, ok := g.TypeOf(ex.Name)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.Unbound("check", ex.Name))
		}
		return t, &core.Var{Node: core.Node{Pos: ex.Pos}, Name: ex.Name}, nil

	case *surface.U:
		return value.VU{}, &core.U{Node: core.Node{Pos: ex.Pos}}, nil
	case *surface.Atom:
		return value.VU{}, &core.Atom{Node: core.Node{Pos: ex.Pos}}, nil
	case *surface.NatT:
		return value.VU{}, &core.Nat{Node: core.Node{Pos: ex.Pos}}, nil
	case *surface.Trivial:
		return value.VU{}, &core.Trivial{Node: core.Node{Pos: ex.Pos}}, nil
	case *surface.Absurd:
		return value.VU{}, &core.Absurd{Node: core.Node{Pos: ex.Pos}}, nil

	case *surface.ListT:
		elemC, err := IsType(ex.Elem, g)
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.ListT{Node: core.Node{Pos: ex.Pos}, Elem: elemC}, nil

	case *surface.VecT:
		elemC, err := IsType(ex.Elem, g)
		if err != nil {
			return nil, nil, err
		}
		lenC, err := Check(ex.Len, g, value.VNat{})
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.VecT{Node: core.Node{Pos: ex.Pos}, Elem: elemC, Len: lenC}, nil

	case *surface.EitherT:
		lc, err := IsType(ex.L, g)
		if err != nil {
			return nil, nil, err
		}
		rc, err := IsType(ex.R, g)
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.EitherT{Node: core.Node{Pos: ex.Pos}, L: lc, R: rc}, nil

	case *surface.EqualT:
		tyC, err := IsType(ex.Ty, g)
		if err != nil {
			return nil, nil, err
		}
		tyV, err := value.Eval(tyC, g.ToRho())
		if err != nil {
			return nil, nil, err
		}
		fromC, err := Check(ex.From, g, tyV)
		if err != nil {
			return nil, nil, err
		}
		toC, err := Check(ex.To, g, tyV)
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.EqualT{Node: core.Node{Pos: ex.Pos}, Ty: tyC, From: fromC, To: toC}, nil

	case *surface.Sigma:
		fstC, err := IsType(ex.Fst, g)
		if err != nil {
			return nil, nil, err
		}
		fstV, err := value.Eval(fstC, g.ToRho())
		if err != nil {
			return nil, nil, err
		}
		g2 := g.HasType(ex.Name, fstV)
		sndC, err := IsType(ex.Snd, g2)
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.SigmaT{Node: core.Node{Pos: ex.Pos}, Name: ex.Name, Fst: fstC, Snd: sndC}, nil

	case *surface.Pi:
		domC, err := IsType(ex.Dom, g)
		if err != nil {
			return nil, nil, err
		}
		domV, err := value.Eval(domC, g.ToRho())
		if err != nil {
			return nil, nil, err
		}
		g2 := g.HasType(ex.Name, domV)
		ranC, err := IsType(ex.Ran, g2)
		if err != nil {
			return nil, nil, err
		}
		return value.VU{}, &core.Pi{Node: core.Node{Pos: ex.Pos}, Name: ex.Name, Dom: domC, Ran: ranC}, nil

	case *surface.Zero:
		return value.VNat{}, &core.Zero{Node: core.Node{Pos: ex.Pos}}, nil
	case *surface.Add1:
		nc, err := Check(ex.N, g, value.VNat{})
		if err != nil {
			return nil, nil, err
		}
		return value.VNat{}, &core.Add1{Node: core.Node{Pos: ex.Pos}, N: nc}, nil

	case *surface.Tick:
		return value.VAtom{}, &core.Tick{Node: core.Node{Pos: ex.Pos}, Sym: ex.Sym}, nil
	case *surface.Sole:
		return value.VTrivial{}, &core.Sole{Node: core.Node{Pos: ex.Pos}}, nil

	case *surface.App:
		return synthApp(ex, g)
	case *surface.Car:
		return synthCar(ex, g)
	case *surface.Cdr:
		return synthCdr(ex, g)
	case *surface.Cons:
		return synthCons(ex, g)

	case *surface.ConsL:
		tailTy, tailC, err := Synth(ex.Tail, g)
		if err != nil {
			return nil, nil, err
		}
		lt, ok := tailTy.(value.VList)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("List", fmt.Sprintf("%T", tailTy)))
		}
		headC, err := Check(ex.Head, g, lt.Elem)
		if err != nil {
			return nil, nil, err
		}
		return lt, &core.ConsL{Node: core.Node{Pos: ex.Pos}, Head: headC, Tail: tailC}, nil

	case *surface.VecCons:
		tailTy, tailC, err := Synth(ex.Tail, g)
		if err != nil {
			return nil, nil, err
		}
		vt, ok := tailTy.(value.VVec)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", tailTy)))
		}
		headC, err := Check(ex.Head, g, vt.Elem)
		if err != nil {
			return nil, nil, err
		}
		resTy := value.VVec{Elem: vt.Elem, Len: value.VAdd1{N: vt.Len}}
		return resTy, &core.VecCons{Node: core.Node{Pos: ex.Pos}, Head: headC, Tail: tailC}, nil

	case *surface.Head:
		vecTy, vecC, err := Synth(ex.Vec, g)
		if err != nil {
			return nil, nil, err
		}
		vt, ok := vecTy.(value.VVec)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", vecTy)))
		}
		return vt.Elem, &core.Head{Node: core.Node{Pos: ex.Pos}, Vec: vecC}, nil

	case *surface.Tail:
		vecTy, vecC, err := Synth(ex.Vec, g)
		if err != nil {
			return nil, nil, err
		}
		vt, ok := vecTy.(value.VVec)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", vecTy)))
		}
		rho := g.ToRho()
		lenC, err := value.ReadBack(boundOf(g), value.VNat{}, vt.Len)
		if err != nil {
			return nil, nil, err
		}
		lenV, err := value.Eval(lenC, rho)
		if err != nil {
			return nil, nil, err
		}
		predV := predNat(lenV)
		return value.VVec{Elem: vt.Elem, Len: predV}, &core.Tail{Node: core.Node{Pos: ex.Pos}, Vec: vecC}, nil

	case *surface.Symm:
		eqTy, eqC, err := Synth(ex.Eq, g)
		if err != nil {
			return nil, nil, err
		}
		et, ok := eqTy.(value.VEqual)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", eqTy)))
		}
		return value.VEqual{Ty: et.Ty, From: et.To, To: et.From}, &core.Symm{Node: core.Node{Pos: ex.Pos}, Eq: eqC}, nil

	case *surface.Cong:
		return synthCong(ex, g)
	case *surface.Trans:
		return synthTrans(ex, g)
	case *surface.Replace:
		return synthReplace(ex, g)
	case *surface.IndEqual:
		return synthIndEqual(ex, g)

	case *surface.WhichNat, *surface.IterNat, *surface.RecNat, *surface.Nil, *surface.VecNil,
		*surface.Lambda, *surface.Same, *surface.Inl, *surface.Inr, *surface.RecList:
		return nil, nil, kerrors.WrapReport(kerrors.CannotSynth(describeExpr(e)))

	case *surface.Match:
		return synthMatch(ex, g)

	case *surface.IndNat:
		return synthIndNat(ex, g)
	case *surface.IndList:
		return synthIndList(ex, g)
	case *surface.IndVec:
		return synthIndVec(ex, g)
	case *surface.IndEither:
		return synthIndEither(ex, g)
	case *surface.IndAbsurd:
		return synthIndAbsurd(ex, g)

	default:
		return nil, nil, kerrors.WrapReport(kerrors.CannotSynth(fmt.Sprintf("%T", e)))
	}
}

func predNat(v value.Value) value.Value {
	if a, ok := v.(value.VAdd1); ok {
		return a.N
	}
	return v
}

// Check implements check(e, Gamma, T): the forms whose elaboration is
// driven by the expected type, plus a default fallback to Synth
// followed by a type-equality check (spec §4.4).
func Check(e surface.Expr, g *ctx.Context, expected value.Value) (core.Term, error) {
	switch ex := e.(type) {
	case *surface.Lambda:
		pi, ok := expected.(value.VPi)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("Pi", fmt.Sprintf("%T", expected)))
		}
		argVal := value.VNeutral{Ty: pi.Dom, Neu: value.NVar{Name: ex.Param}}
		ranVal, err := pi.Ran.Instantiate(argVal)
		if err != nil {
			return nil, err
		}
		g2 := g.HasType(ex.Param, pi.Dom)
		bodyC, err := Check(ex.Body, g2, ranVal)
		if err != nil {
			return nil, err
		}
		return &core.Lambda{Node: core.Node{Pos: ex.Pos}, Name: ex.Param, Body: bodyC}, nil

	case *surface.Cons:
		sig, ok := expected.(value.VSigma)
		if !ok {
			// A cons with no Sigma expected still synthesizes its
			// non-dependent pair type; compare that against expected.
			return checkViaSynth(e, g, expected)
		}
		fstC, err := Check(ex.Fst, g, sig.Fst)
		if err != nil {
			return nil, err
		}
		fstV, err := value.Eval(fstC, g.ToRho())
		if err != nil {
			return nil, err
		}
		sndTy, err := sig.Snd.Instantiate(fstV)
		if err != nil {
			return nil, err
		}
		sndC, err := Check(ex.Snd, g, sndTy)
		if err != nil {
			return nil, err
		}
		return &core.Cons{Node: core.Node{Pos: ex.Pos}, Fst: fstC, Snd: sndC}, nil

	case *surface.Nil:
		if _, ok := expected.(value.VList); !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("List", fmt.Sprintf("%T", expected)))
		}
		return &core.Nil{Node: core.Node{Pos: ex.Pos}}, nil

	case *surface.VecNil:
		vt, ok := expected.(value.VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", expected)))
		}
		if _, isZero := vt.Len.(value.VZero); !isZero {
			if _, isNeu := vt.Len.(value.VNeutral); !isNeu {
				return nil, kerrors.WrapReport(kerrors.TypeMismatch("Vec _ zero", expected.String()))
			}
		}
		return &core.VecNil{Node: core.Node{Pos: ex.Pos}}, nil

	case *surface.ConsL:
		lt, ok := expected.(value.VList)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("List", fmt.Sprintf("%T", expected)))
		}
		headC, err := Check(ex.Head, g, lt.Elem)
		if err != nil {
			return nil, err
		}
		tailC, err := Check(ex.Tail, g, lt)
		if err != nil {
			return nil, err
		}
		return &core.ConsL{Node: core.Node{Pos: ex.Pos}, Head: headC, Tail: tailC}, nil

	case *surface.VecCons:
		vt, ok := expected.(value.VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", expected)))
		}
		a1, ok := vt.Len.(value.VAdd1)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeMismatch("Vec _ (add1 _)", expected.String()))
		}
		headC, err := Check(ex.Head, g, vt.Elem)
		if err != nil {
			return nil, err
		}
		tailC, err := Check(ex.Tail, g, value.VVec{Elem: vt.Elem, Len: a1.N})
		if err != nil {
			return nil, err
		}
		return &core.VecCons{Node: core.Node{Pos: ex.Pos}, Head: headC, Tail: tailC}, nil

	case *surface.Same:
		et, ok := expected.(value.VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", expected)))
		}
		midC, err := Check(ex.Mid, g, et.Ty)
		if err != nil {
			return nil, err
		}
		rho := g.ToRho()
		midV, err := value.Eval(midC, rho)
		if err != nil {
			return nil, err
		}
		bound := boundOf(g)
		okFrom, err := valuesEqual(bound, et.Ty, midV, et.From)
		if err != nil {
			return nil, err
		}
		okTo, err := valuesEqual(bound, et.Ty, midV, et.To)
		if err != nil {
			return nil, err
		}
		if !okFrom || !okTo {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(et.From.String(), et.To.String()))
		}
		return &core.Same{Node: core.Node{Pos: ex.Pos}, Mid: midC}, nil

	case *surface.Inl:
		et, ok := expected.(value.VEither)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("Either", fmt.Sprintf("%T", expected)))
		}
		valC, err := Check(ex.Val, g, et.L)
		if err != nil {
			return nil, err
		}
		return &core.Inl{Node: core.Node{Pos: ex.Pos}, Val: valC}, nil

	case *surface.Inr:
		et, ok := expected.(value.VEither)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.ShapeMismatch("Either", fmt.Sprintf("%T", expected)))
		}
		valC, err := Check(ex.Val, g, et.R)
		if err != nil {
			return nil, err
		}
		return &core.Inr{Node: core.Node{Pos: ex.Pos}, Val: valC}, nil

	case *surface.WhichNat:
		return checkWhichNat(ex, g, expected)
	case *surface.IterNat:
		return checkIterNat(ex, g, expected)
	case *surface.RecNat:
		return checkRecNat(ex, g, expected)
	case *surface.RecList:
		return checkRecList(ex, g, expected)

	case *surface.Match:
		return checkMatch(ex, g, expected)

	default:
		return checkViaSynth(e, g, expected)
	}
}

// checkViaSynth is the default checking rule: synthesize, then compare
// the synthesized type against the expected one by read-back plus
// alpha-equivalence (spec §4.4).
func checkViaSynth(e surface.Expr, g *ctx.Context, expected value.Value) (core.Term, error) {
	ty, c, err := Synth(e, g)
	if err != nil {
		return nil, err
	}
	eq, err := typesEqual(boundOf(g), expected, ty)
	if err != nil {
		return nil, err
	}
	if !eq {
		return nil, kerrors.WrapReport(kerrors.TypeMismatch(expected.String(), ty.String()))
	}
	return c, nil
}
