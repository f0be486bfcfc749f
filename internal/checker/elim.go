package checker

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

func synthApp(ex *surface.App, g *ctx.Context) (value.Value, core.Term, error) {
	funTy, funC, err := Synth(ex.Fun, g)
	if err != nil {
		return nil, nil, err
	}
	pi, ok := funTy.(value.VPi)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Pi", fmt.Sprintf("%T", funTy)))
	}
	argC, err := Check(ex.Arg, g, pi.Dom)
	if err != nil {
		return nil, nil, err
	}
	argV, err := value.Eval(argC, g.ToRho())
	if err != nil {
		return nil, nil, err
	}
	ranV, err := pi.Ran.Instantiate(argV)
	if err != nil {
		return nil, nil, err
	}
	return ranV, &core.App{Node: core.Node{Pos: ex.Pos}, Fun: funC, Arg: argC}, nil
}

func synthCar(ex *surface.Car, g *ctx.Context) (value.Value, core.Term, error) {
	pairTy, pairC, err := Synth(ex.Pair, g)
	if err != nil {
		return nil, nil, err
	}
	sig, ok := pairTy.(value.VSigma)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Sigma", fmt.Sprintf("%T", pairTy)))
	}
	return sig.Fst, &core.Car{Node: core.Node{Pos: ex.Pos}, Pair: pairC}, nil
}

func synthCdr(ex *surface.Cdr, g *ctx.Context) (value.Value, core.Term, error) {
	pairTy, pairC, err := Synth(ex.Pair, g)
	if err != nil {
		return nil, nil, err
	}
	sig, ok := pairTy.(value.VSigma)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Sigma", fmt.Sprintf("%T", pairTy)))
	}
	pairV, err := value.Eval(pairC, g.ToRho())
	if err != nil {
		return nil, nil, err
	}
	fstV, err := value.DoCar(pairV)
	if err != nil {
		return nil, nil, err
	}
	sndTy, err := sig.Snd.Instantiate(fstV)
	if err != nil {
		return nil, nil, err
	}
	return sndTy, &core.Cdr{Node: core.Node{Pos: ex.Pos}, Pair: pairC}, nil
}

func synthCons(ex *surface.Cons, g *ctx.Context) (value.Value, core.Term, error) {
	fstTy, fstC, err := Synth(ex.Fst, g)
	if err != nil {
		return nil, nil, err
	}
	sndTy, sndC, err := Synth(ex.Snd, g)
	if err != nil {
		return nil, nil, err
	}
	resTy := value.VSigma{Name: "_", Fst: fstTy, Snd: value.ConstClosure(sndTy)}
	return resTy, &core.Cons{Node: core.Node{Pos: ex.Pos}, Fst: fstC, Snd: sndC}, nil
}

func synthCong(ex *surface.Cong, g *ctx.Context) (value.Value, core.Term, error) {
	eqTy, eqC, err := Synth(ex.Eq, g)
	if err != nil {
		return nil, nil, err
	}
	et, ok := eqTy.(value.VEqual)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", eqTy)))
	}
	funTy, funC, err := Synth(ex.Fun, g)
	if err != nil {
		return nil, nil, err
	}
	pi, ok := funTy.(value.VPi)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Pi", fmt.Sprintf("%T", funTy)))
	}
	bound := boundOf(g)
	domEq, err := typesEqual(bound, pi.Dom, et.Ty)
	if err != nil {
		return nil, nil, err
	}
	if !domEq {
		return nil, nil, kerrors.WrapReport(kerrors.TypeMismatch(et.Ty.String(), pi.Dom.String()))
	}
	rho := g.ToRho()
	funV, err := value.Eval(funC, rho)
	if err != nil {
		return nil, nil, err
	}
	codTo, err := pi.Ran.Instantiate(et.To)
	if err != nil {
		return nil, nil, err
	}
	resFrom, err := value.ApplyFun(funV, et.From)
	if err != nil {
		return nil, nil, err
	}
	resTo, err := value.ApplyFun(funV, et.To)
	if err != nil {
		return nil, nil, err
	}
	tyC, err := value.ReadBackType(bound, codTo)
	if err != nil {
		return nil, nil, err
	}
	resTy := value.VEqual{Ty: codTo, From: resFrom, To: resTo}
	return resTy, &core.Cong{Node: core.Node{Pos: ex.Pos}, Eq: eqC, Fun: funC, Ty: tyC}, nil
}

func synthTrans(ex *surface.Trans, g *ctx.Context) (value.Value, core.Term, error) {
	leftTy, leftC, err := Synth(ex.Left, g)
	if err != nil {
		return nil, nil, err
	}
	rightTy, rightC, err := Synth(ex.Right, g)
	if err != nil {
		return nil, nil, err
	}
	lt, ok := leftTy.(value.VEqual)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", leftTy)))
	}
	rt, ok := rightTy.(value.VEqual)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", rightTy)))
	}
	bound := boundOf(g)
	tyEq, err := typesEqual(bound, lt.Ty, rt.Ty)
	if err != nil {
		return nil, nil, err
	}
	if !tyEq {
		return nil, nil, kerrors.WrapReport(kerrors.TypeMismatch(lt.Ty.String(), rt.Ty.String()))
	}
	midEq, err := valuesEqual(bound, lt.Ty, lt.To, rt.From)
	if err != nil {
		return nil, nil, err
	}
	if !midEq {
		return nil, nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(lt.To.String(), rt.From.String()))
	}
	resTy := value.VEqual{Ty: lt.Ty, From: lt.From, To: rt.To}
	return resTy, &core.Trans{Node: core.Node{Pos: ex.Pos}, Left: leftC, Right: rightC}, nil
}

// motivePiType builds `A -> U`, the shape every replace/ind-= motive
// must check against.
func motivePiType(a value.Value) value.Value {
	return value.NonDepPi(a, value.VU{})
}

func synthReplace(ex *surface.Replace, g *ctx.Context) (value.Value, core.Term, error) {
	eqTy, eqC, err := Synth(ex.Eq, g)
	if err != nil {
		return nil, nil, err
	}
	et, ok := eqTy.(value.VEqual)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", eqTy)))
	}
	motiveC, err := Check(ex.Motive, g, motivePiType(et.Ty))
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	fromTy, err := value.ApplyFun(motiveV, et.From)
	if err != nil {
		return nil, nil, err
	}
	baseC, err := Check(ex.Base, g, fromTy)
	if err != nil {
		return nil, nil, err
	}
	toTy, err := value.ApplyFun(motiveV, et.To)
	if err != nil {
		return nil, nil, err
	}
	return toTy, &core.Replace{Node: core.Node{Pos: ex.Pos}, Eq: eqC, Motive: motiveC, Base: baseC}, nil
}

func synthIndEqual(ex *surface.IndEqual, g *ctx.Context) (value.Value, core.Term, error) {
	eqTy, eqC, err := Synth(ex.Eq, g)
	if err != nil {
		return nil, nil, err
	}
	et, ok := eqTy.(value.VEqual)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("=", fmt.Sprintf("%T", eqTy)))
	}
	// Motive : (x : A) -> (= A from x) -> U
	motiveTy := value.VPi{Name: "x", Dom: et.Ty, Ran: value.NativeClosure(func(x value.Value) (value.Value, error) {
		return value.NonDepPi(value.VEqual{Ty: et.Ty, From: et.From, To: x}, value.VU{}), nil
	})}
	motiveC, err := Check(ex.Motive, g, motiveTy)
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	motiveAtFrom, err := value.ApplyFun(motiveV, et.From)
	if err != nil {
		return nil, nil, err
	}
	baseTy, err := value.ApplyFun(motiveAtFrom, value.VSame{Mid: et.From})
	if err != nil {
		return nil, nil, err
	}
	baseC, err := Check(ex.Base, g, baseTy)
	if err != nil {
		return nil, nil, err
	}
	motiveAtTo, err := value.ApplyFun(motiveV, et.To)
	if err != nil {
		return nil, nil, err
	}
	eqV, err := value.Eval(eqC, rho)
	if err != nil {
		return nil, nil, err
	}
	resTy, err := value.ApplyFun(motiveAtTo, eqV)
	if err != nil {
		return nil, nil, err
	}
	return resTy, &core.IndEqual{Node: core.Node{Pos: ex.Pos}, Eq: eqC, Motive: motiveC, Base: baseC}, nil
}

func synthIndAbsurd(ex *surface.IndAbsurd, g *ctx.Context) (value.Value, core.Term, error) {
	targetC, err := Check(ex.Target, g, value.VAbsurd{})
	if err != nil {
		return nil, nil, err
	}
	motiveC, err := IsType(ex.Motive, g)
	if err != nil {
		return nil, nil, err
	}
	motiveV, err := value.Eval(motiveC, g.ToRho())
	if err != nil {
		return nil, nil, err
	}
	return motiveV, &core.IndAbsurd{Node: core.Node{Pos: ex.Pos}, Target: targetC, Motive: motiveC}, nil
}

func synthIndEither(ex *surface.IndEither, g *ctx.Context) (value.Value, core.Term, error) {
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, nil, err
	}
	et, ok := targetTy.(value.VEither)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Either", fmt.Sprintf("%T", targetTy)))
	}
	motiveTy := value.NonDepPi(et, value.VU{})
	motiveC, err := Check(ex.Motive, g, motiveTy)
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	baseLeftTy := value.VPi{Name: "l", Dom: et.L, Ran: value.NativeClosure(func(l value.Value) (value.Value, error) {
		return value.ApplyFun(motiveV, value.VInl{Val: l})
	})}
	baseLeftC, err := Check(ex.BaseLeft, g, baseLeftTy)
	if err != nil {
		return nil, nil, err
	}
	baseRightTy := value.VPi{Name: "r", Dom: et.R, Ran: value.NativeClosure(func(r value.Value) (value.Value, error) {
		return value.ApplyFun(motiveV, value.VInr{Val: r})
	})}
	baseRightC, err := Check(ex.BaseRight, g, baseRightTy)
	if err != nil {
		return nil, nil, err
	}
	targetV, err := value.Eval(targetC, rho)
	if err != nil {
		return nil, nil, err
	}
	resTy, err := value.ApplyFun(motiveV, targetV)
	if err != nil {
		return nil, nil, err
	}
	return resTy, &core.IndEither{Node: core.Node{Pos: ex.Pos}, Target: targetC, Motive: motiveC,
		BaseLeft: baseLeftC, BaseRight: baseRightC}, nil
}

func synthIndNat(ex *surface.IndNat, g *ctx.Context) (value.Value, core.Term, error) {
	targetC, err := Check(ex.Target, g, value.VNat{})
	if err != nil {
		return nil, nil, err
	}
	motiveTy := value.NonDepPi(value.VNat{}, value.VU{})
	motiveC, err := Check(ex.Motive, g, motiveTy)
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	baseTy, err := value.ApplyFun(motiveV, value.VZero{})
	if err != nil {
		return nil, nil, err
	}
	baseC, err := Check(ex.Base, g, baseTy)
	if err != nil {
		return nil, nil, err
	}
	// step : (n : Nat) -> motive(n) -> motive(add1 n)
	stepTy := value.VPi{Name: "n", Dom: value.VNat{}, Ran: value.NativeClosure(func(n value.Value) (value.Value, error) {
		mn, err := value.ApplyFun(motiveV, n)
		if err != nil {
			return nil, err
		}
		mn1, err := value.ApplyFun(motiveV, value.VAdd1{N: n})
		if err != nil {
			return nil, err
		}
		return value.NonDepPi(mn, mn1), nil
	})}
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, nil, err
	}
	targetV, err := value.Eval(targetC, rho)
	if err != nil {
		return nil, nil, err
	}
	resTy, err := value.ApplyFun(motiveV, targetV)
	if err != nil {
		return nil, nil, err
	}
	return resTy, &core.IndNat{Node: core.Node{Pos: ex.Pos}, Target: targetC, Motive: motiveC, Base: baseC, Step: stepC}, nil
}

func synthIndList(ex *surface.IndList, g *ctx.Context) (value.Value, core.Term, error) {
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, nil, err
	}
	lt, ok := targetTy.(value.VList)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("List", fmt.Sprintf("%T", targetTy)))
	}
	motiveTy := value.NonDepPi(lt, value.VU{})
	motiveC, err := Check(ex.Motive, g, motiveTy)
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	baseTy, err := value.ApplyFun(motiveV, value.VNil{})
	if err != nil {
		return nil, nil, err
	}
	baseC, err := Check(ex.Base, g, baseTy)
	if err != nil {
		return nil, nil, err
	}
	// step : (h : E) -> (t : List E) -> motive(t) -> motive(:: h t)
	stepTy := value.VPi{Name: "h", Dom: lt.Elem, Ran: value.NativeClosure(func(h value.Value) (value.Value, error) {
		return value.VPi{Name: "t", Dom: lt, Ran: value.NativeClosure(func(t value.Value) (value.Value, error) {
			mt, err := value.ApplyFun(motiveV, t)
			if err != nil {
				return nil, err
			}
			mht, err := value.ApplyFun(motiveV, value.VListCons{Head: h, Tail: t})
			if err != nil {
				return nil, err
			}
			return value.NonDepPi(mt, mht), nil
		})}, nil
	})}
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, nil, err
	}
	targetV, err := value.Eval(targetC, rho)
	if err != nil {
		return nil, nil, err
	}
	resTy, err := value.ApplyFun(motiveV, targetV)
	if err != nil {
		return nil, nil, err
	}
	return resTy, &core.IndList{Node: core.Node{Pos: ex.Pos}, Target: targetC, Motive: motiveC, Base: baseC, Step: stepC}, nil
}

func synthIndVec(ex *surface.IndVec, g *ctx.Context) (value.Value, core.Term, error) {
	lenC, err := Check(ex.Len, g, value.VNat{})
	if err != nil {
		return nil, nil, err
	}
	rho := g.ToRho()
	lenV, err := value.Eval(lenC, rho)
	if err != nil {
		return nil, nil, err
	}
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, nil, err
	}
	vt, ok := targetTy.(value.VVec)
	if !ok {
		return nil, nil, kerrors.WrapReport(kerrors.ShapeMismatch("Vec", fmt.Sprintf("%T", targetTy)))
	}
	bound := boundOf(g)
	lenEq, err := valuesEqual(bound, value.VNat{}, lenV, vt.Len)
	if err != nil {
		return nil, nil, err
	}
	if !lenEq {
		return nil, nil, kerrors.WrapReport(kerrors.TypeMismatch(lenV.String(), vt.Len.String()))
	}
	// Motive : (k : Nat) -> Vec E k -> U
	motiveTy := value.VPi{Name: "k", Dom: value.VNat{}, Ran: value.NativeClosure(func(k value.Value) (value.Value, error) {
		return value.NonDepPi(value.VVec{Elem: vt.Elem, Len: k}, value.VU{}), nil
	})}
	motiveC, err := Check(ex.Motive, g, motiveTy)
	if err != nil {
		return nil, nil, err
	}
	motiveV, err := value.Eval(motiveC, rho)
	if err != nil {
		return nil, nil, err
	}
	motiveAtZero, err := value.ApplyFun(motiveV, value.VZero{})
	if err != nil {
		return nil, nil, err
	}
	baseTy, err := value.ApplyFun(motiveAtZero, value.VVecNil{})
	if err != nil {
		return nil, nil, err
	}
	baseC, err := Check(ex.Base, g, baseTy)
	if err != nil {
		return nil, nil, err
	}
	// step : (k : Nat) -> (h : E) -> (t : Vec E k) -> motive(k,t) -> motive(add1 k, vec:: h t)
	stepTy := value.VPi{Name: "k", Dom: value.VNat{}, Ran: value.NativeClosure(func(k value.Value) (value.Value, error) {
		return value.VPi{Name: "h", Dom: vt.Elem, Ran: value.NativeClosure(func(h value.Value) (value.Value, error) {
			vecKTy := value.VVec{Elem: vt.Elem, Len: k}
			return value.VPi{Name: "t", Dom: vecKTy, Ran: value.NativeClosure(func(t value.Value) (value.Value, error) {
				mk, err := value.ApplyFun(motiveV, k)
				if err != nil {
					return nil, err
				}
				mkt, err := value.ApplyFun(mk, t)
				if err != nil {
					return nil, err
				}
				mAdd1, err := value.ApplyFun(motiveV, value.VAdd1{N: k})
				if err != nil {
					return nil, err
				}
				mAdd1HT, err := value.ApplyFun(mAdd1, value.VVecCons{Head: h, Tail: t})
				if err != nil {
					return nil, err
				}
				return value.NonDepPi(mkt, mAdd1HT), nil
			})}, nil
		})}, nil
	})}
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, nil, err
	}
	targetV, err := value.Eval(targetC, rho)
	if err != nil {
		return nil, nil, err
	}
	mLen, err := value.ApplyFun(motiveV, lenV)
	if err != nil {
		return nil, nil, err
	}
	resTy, err := value.ApplyFun(mLen, targetV)
	if err != nil {
		return nil, nil, err
	}
	return resTy, &core.IndVec{Node: core.Node{Pos: ex.Pos}, Len: lenC, Target: targetC, Motive: motiveC, Base: baseC, Step: stepC}, nil
}

// checkWhichNat, checkIterNat, checkRecNat, checkRecList all share the
// same shape: the expected type T stands in for BaseTy (spec §9's
// design note on Cong.Ty applies equally here: the checker reifies the
// expected type into the core eliminator's BaseTy field, so evaluation
// never has to re-infer it).

func checkWhichNat(ex *surface.WhichNat, g *ctx.Context, expected value.Value) (core.Term, error) {
	targetC, err := Check(ex.Target, g, value.VNat{})
	if err != nil {
		return nil, err
	}
	baseC, err := Check(ex.Base, g, expected)
	if err != nil {
		return nil, err
	}
	stepTy := value.NonDepPi(value.VNat{}, expected)
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, err
	}
	baseTyC, err := value.ReadBackType(boundOf(g), expected)
	if err != nil {
		return nil, err
	}
	return &core.WhichNat{Node: core.Node{Pos: ex.Pos}, Target: targetC, BaseTy: baseTyC, Base: baseC, Step: stepC}, nil
}

func checkIterNat(ex *surface.IterNat, g *ctx.Context, expected value.Value) (core.Term, error) {
	targetC, err := Check(ex.Target, g, value.VNat{})
	if err != nil {
		return nil, err
	}
	baseC, err := Check(ex.Base, g, expected)
	if err != nil {
		return nil, err
	}
	stepTy := value.NonDepPi(expected, expected)
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, err
	}
	baseTyC, err := value.ReadBackType(boundOf(g), expected)
	if err != nil {
		return nil, err
	}
	return &core.IterNat{Node: core.Node{Pos: ex.Pos}, Target: targetC, BaseTy: baseTyC, Base: baseC, Step: stepC}, nil
}

func checkRecNat(ex *surface.RecNat, g *ctx.Context, expected value.Value) (core.Term, error) {
	targetC, err := Check(ex.Target, g, value.VNat{})
	if err != nil {
		return nil, err
	}
	baseC, err := Check(ex.Base, g, expected)
	if err != nil {
		return nil, err
	}
	stepTy := value.NonDepPi(value.VNat{}, value.NonDepPi(expected, expected))
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, err
	}
	baseTyC, err := value.ReadBackType(boundOf(g), expected)
	if err != nil {
		return nil, err
	}
	return &core.RecNat{Node: core.Node{Pos: ex.Pos}, Target: targetC, BaseTy: baseTyC, Base: baseC, Step: stepC}, nil
}

func checkRecList(ex *surface.RecList, g *ctx.Context, expected value.Value) (core.Term, error) {
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, err
	}
	lt, ok := targetTy.(value.VList)
	if !ok {
		return nil, kerrors.WrapReport(kerrors.ShapeMismatch("List", fmt.Sprintf("%T", targetTy)))
	}
	baseC, err := Check(ex.Base, g, expected)
	if err != nil {
		return nil, err
	}
	stepTy := value.NonDepPi(lt.Elem, value.NonDepPi(lt, value.NonDepPi(expected, expected)))
	stepC, err := Check(ex.Step, g, stepTy)
	if err != nil {
		return nil, err
	}
	baseTyC, err := value.ReadBackType(boundOf(g), expected)
	if err != nil {
		return nil, err
	}
	return &core.RecList{Node: core.Node{Pos: ex.Pos}, Target: targetC, BaseTy: baseTyC, Base: baseC, Step: stepC}, nil
}
