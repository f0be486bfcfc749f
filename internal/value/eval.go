package value

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
	kerrors "github.com/sunholo/piekernel/internal/errors"
)

// Eval is the purely structural NbE evaluator: eval(term, rho) -> Value.
// It never inspects Sigma/Gamma directly; callers derive rho from Gamma
// (ctx.GammaToRho) before calling in.
func Eval(term core.Term, rho *Rho) (Value, error) {
	switch t := term.(type) {
	case *core.Var:
		v, ok := rho.Get(t.Name)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.UnboundEval(t.Name))
		}
		return v, nil

	case *core.U:
		return VU{}, nil
	case *core.Atom:
		return VAtom{}, nil
	case *core.Tick:
		return VTick{Sym: t.Sym}, nil

	case *core.Pi:
		dom, err := Eval(t.Dom, rho)
		if err != nil {
			return nil, err
		}
		return VPi{Name: t.Name, Dom: dom, Ran: &Closure{Env: rho, Param: t.Name, Body: t.Ran}}, nil

	case *core.Lambda:
		return VLambda{Name: t.Name, Body: &Closure{Env: rho, Param: t.Name, Body: t.Body}}, nil

	case *core.App:
		f, err := Eval(t.Fun, rho)
		if err != nil {
			return nil, err
		}
		a, err := Eval(t.Arg, rho)
		if err != nil {
			return nil, err
		}
		return ApplyFun(f, a)

	case *core.SigmaT:
		fst, err := Eval(t.Fst, rho)
		if err != nil {
			return nil, err
		}
		return VSigma{Name: t.Name, Fst: fst, Snd: &Closure{Env: rho, Param: t.Name, Body: t.Snd}}, nil

	case *core.Cons:
		fst, err := Eval(t.Fst, rho)
		if err != nil {
			return nil, err
		}
		snd, err := Eval(t.Snd, rho)
		if err != nil {
			return nil, err
		}
		return VPair{Fst: fst, Snd: snd}, nil

	case *core.Car:
		p, err := Eval(t.Pair, rho)
		if err != nil {
			return nil, err
		}
		return DoCar(p)

	case *core.Cdr:
		p, err := Eval(t.Pair, rho)
		if err != nil {
			return nil, err
		}
		return DoCdr(p)

	case *core.Nat:
		return VNat{}, nil
	case *core.Zero:
		return VZero{}, nil
	case *core.Add1:
		n, err := Eval(t.N, rho)
		if err != nil {
			return nil, err
		}
		return VAdd1{N: n}, nil

	case *core.WhichNat:
		return evalWhichNat(t, rho)
	case *core.IterNat:
		return evalIterNat(t, rho)
	case *core.RecNat:
		return evalRecNat(t, rho)
	case *core.IndNat:
		return evalIndNat(t, rho)

	case *core.ListT:
		elem, err := Eval(t.Elem, rho)
		if err != nil {
			return nil, err
		}
		return VList{Elem: elem}, nil
	case *core.Nil:
		return VNil{}, nil
	case *core.ConsL:
		h, err := Eval(t.Head, rho)
		if err != nil {
			return nil, err
		}
		tl, err := Eval(t.Tail, rho)
		if err != nil {
			return nil, err
		}
		return VListCons{Head: h, Tail: tl}, nil
	case *core.RecList:
		return evalRecList(t, rho)
	case *core.IndList:
		return evalIndList(t, rho)

	case *core.VecT:
		elem, err := Eval(t.Elem, rho)
		if err != nil {
			return nil, err
		}
		n, err := Eval(t.Len, rho)
		if err != nil {
			return nil, err
		}
		return VVec{Elem: elem, Len: n}, nil
	case *core.VecNil:
		return VVecNil{}, nil
	case *core.VecCons:
		h, err := Eval(t.Head, rho)
		if err != nil {
			return nil, err
		}
		tl, err := Eval(t.Tail, rho)
		if err != nil {
			return nil, err
		}
		return VVecCons{Head: h, Tail: tl}, nil
	case *core.Head:
		v, err := Eval(t.Vec, rho)
		if err != nil {
			return nil, err
		}
		return evalHead(v)
	case *core.Tail:
		v, err := Eval(t.Vec, rho)
		if err != nil {
			return nil, err
		}
		return evalTail(v)
	case *core.IndVec:
		return evalIndVec(t, rho)

	case *core.EqualT:
		ty, err := Eval(t.Ty, rho)
		if err != nil {
			return nil, err
		}
		from, err := Eval(t.From, rho)
		if err != nil {
			return nil, err
		}
		to, err := Eval(t.To, rho)
		if err != nil {
			return nil, err
		}
		return VEqual{Ty: ty, From: from, To: to}, nil
	case *core.Same:
		m, err := Eval(t.Mid, rho)
		if err != nil {
			return nil, err
		}
		return VSame{Mid: m}, nil
	case *core.Symm:
		eq, err := Eval(t.Eq, rho)
		if err != nil {
			return nil, err
		}
		return evalSymm(eq)
	case *core.Cong:
		return evalCong(t, rho)
	case *core.Replace:
		return evalReplace(t, rho)
	case *core.Trans:
		return evalTrans(t, rho)
	case *core.IndEqual:
		return evalIndEqual(t, rho)

	case *core.EitherT:
		l, err := Eval(t.L, rho)
		if err != nil {
			return nil, err
		}
		r, err := Eval(t.R, rho)
		if err != nil {
			return nil, err
		}
		return VEither{L: l, R: r}, nil
	case *core.Inl:
		v, err := Eval(t.Val, rho)
		if err != nil {
			return nil, err
		}
		return VInl{Val: v}, nil
	case *core.Inr:
		v, err := Eval(t.Val, rho)
		if err != nil {
			return nil, err
		}
		return VInr{Val: v}, nil
	case *core.IndEither:
		return evalIndEither(t, rho)

	case *core.Trivial:
		return VTrivial{}, nil
	case *core.Sole:
		return VSole{}, nil
	case *core.Absurd:
		return VAbsurd{}, nil
	case *core.IndAbsurd:
		return evalIndAbsurd(t, rho)

	case *core.Datatype:
		return evalDatatype(t, rho)
	case *core.Constructor:
		args, err := evalAll(t.Args, rho)
		if err != nil {
			return nil, err
		}
		return VConstr{Name: t.Name, DataName: t.DataName, Args: args}, nil
	case *core.Match:
		return evalMatch(t, rho)
	}
	return nil, fmt.Errorf("eval: unhandled core term %T", term)
}

func evalAll(terms []core.Term, rho *Rho) ([]Value, error) {
	out := make([]Value, len(terms))
	for i, t := range terms {
		v, err := Eval(t, rho)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalDatatype(t *core.Datatype, rho *Rho) (Value, error) {
	def := &DatatypeDef{
		Name:      t.Name,
		ParamTele: t.ParamTele,
		IndexTele: t.IndexTele,
		Env:       rho,
	}
	def.Ctors = make([]CtorSpec, len(t.Constructors))
	for i, c := range t.Constructors {
		def.Ctors[i] = CtorSpec{Name: c.Name, ArgTele: c.ArgTele}
	}
	params, err := evalAll(t.Params, rho)
	if err != nil {
		return nil, err
	}
	indices, err := evalAll(t.Indices, rho)
	if err != nil {
		return nil, err
	}
	return VDatatype{Def: def, Params: params, Indices: indices}, nil
}

// ---- Nat eliminators ----

func evalWhichNat(t *core.WhichNat, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	baseTy, err := Eval(t.BaseTy, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	switch tv := target.(type) {
	case VZero:
		return base, nil
	case VAdd1:
		return ApplyFun(step, tv.N)
	case VNeutral:
		stepTy := NonDepPi(VNat{}, baseTy)
		return VNeutral{Ty: baseTy, Neu: NWhichNat{
			Target: tv.Neu,
			BaseTy: Normal{Val: baseTy, Ty: VU{}},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("which-Nat", target.String()))
	}
}

func evalIterNat(t *core.IterNat, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	baseTy, err := Eval(t.BaseTy, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	switch tv := target.(type) {
	case VZero:
		return base, nil
	case VAdd1:
		rec, err := evalIterNatRec(tv.N, baseTy, base, step)
		if err != nil {
			return nil, err
		}
		return ApplyFun(step, rec)
	case VNeutral:
		stepTy := NonDepPi(baseTy, baseTy)
		return VNeutral{Ty: baseTy, Neu: NIterNat{
			Target: tv.Neu,
			BaseTy: Normal{Val: baseTy, Ty: VU{}},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("iter-Nat", target.String()))
	}
}

func evalIterNatRec(n Value, baseTy, base, step Value) (Value, error) {
	switch nv := n.(type) {
	case VZero:
		return base, nil
	case VAdd1:
		rec, err := evalIterNatRec(nv.N, baseTy, base, step)
		if err != nil {
			return nil, err
		}
		return ApplyFun(step, rec)
	case VNeutral:
		stepTy := NonDepPi(baseTy, baseTy)
		return VNeutral{Ty: baseTy, Neu: NIterNat{
			Target: nv.Neu,
			BaseTy: Normal{Val: baseTy, Ty: VU{}},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("iter-Nat", n.String()))
	}
}

func evalRecNat(t *core.RecNat, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	baseTy, err := Eval(t.BaseTy, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	return recNat(target, baseTy, base, step)
}

func recNat(target, baseTy, base, step Value) (Value, error) {
	switch tv := target.(type) {
	case VZero:
		return base, nil
	case VAdd1:
		rec, err := recNat(tv.N, baseTy, base, step)
		if err != nil {
			return nil, err
		}
		stepped, err := ApplyFun(step, tv.N)
		if err != nil {
			return nil, err
		}
		return ApplyFun(stepped, rec)
	case VNeutral:
		stepTy := NonDepPi(VNat{}, NonDepPi(baseTy, baseTy))
		return VNeutral{Ty: baseTy, Neu: NRecNat{
			Target: tv.Neu,
			BaseTy: Normal{Val: baseTy, Ty: VU{}},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("rec-Nat", target.String()))
	}
}

func evalIndNat(t *core.IndNat, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	return indNat(target, motive, base, step)
}

func indNat(target, motive, base, step Value) (Value, error) {
	switch tv := target.(type) {
	case VZero:
		return base, nil
	case VAdd1:
		rec, err := indNat(tv.N, motive, base, step)
		if err != nil {
			return nil, err
		}
		stepped, err := ApplyFun(step, tv.N)
		if err != nil {
			return nil, err
		}
		return ApplyFun(stepped, rec)
	case VNeutral:
		mt, err := ApplyFun(motive, tv)
		if err != nil {
			return nil, err
		}
		motiveTy := NonDepPi(VNat{}, VU{})
		baseTy, err := ApplyFun(motive, VZero{})
		if err != nil {
			return nil, err
		}
		stepTy, err := indNatStepType(motive)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: mt, Neu: NIndNat{
			Target: tv.Neu,
			Motive: Normal{Val: motive, Ty: motiveTy},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Nat", target.String()))
	}
}

// indNatStepType builds `Pi n:Nat. m(n) -> m(add1 n)`.
func indNatStepType(motive Value) (Value, error) {
	return VPi{Name: "n", Dom: VNat{}, Ran: NativeClosure(func(n Value) (Value, error) {
		mn, err := ApplyFun(motive, n)
		if err != nil {
			return nil, err
		}
		mAdd1n, err := ApplyFun(motive, VAdd1{N: n})
		if err != nil {
			return nil, err
		}
		return NonDepPi(mn, mAdd1n), nil
	})}, nil
}

// ---- List eliminators ----

func evalRecList(t *core.RecList, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	baseTy, err := Eval(t.BaseTy, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	return recList(target, baseTy, base, step)
}

func recList(target, baseTy, base, step Value) (Value, error) {
	switch tv := target.(type) {
	case VNil:
		return base, nil
	case VListCons:
		rec, err := recList(tv.Tail, baseTy, base, step)
		if err != nil {
			return nil, err
		}
		s1, err := ApplyFun(step, tv.Head)
		if err != nil {
			return nil, err
		}
		s2, err := ApplyFun(s1, tv.Tail)
		if err != nil {
			return nil, err
		}
		return ApplyFun(s2, rec)
	case VNeutral:
		listTy, ok := tv.Ty.(VList)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("rec-List", tv.Ty.String()))
		}
		stepTy := NonDepPi(listTy.Elem, NonDepPi(VList{Elem: listTy.Elem}, NonDepPi(baseTy, baseTy)))
		return VNeutral{Ty: baseTy, Neu: NRecList{
			Target: tv.Neu,
			BaseTy: Normal{Val: baseTy, Ty: VU{}},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("rec-List", target.String()))
	}
}

func evalIndList(t *core.IndList, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	return indList(target, motive, base, step)
}

func indList(target, motive, base, step Value) (Value, error) {
	switch tv := target.(type) {
	case VNil:
		return base, nil
	case VListCons:
		rec, err := indList(tv.Tail, motive, base, step)
		if err != nil {
			return nil, err
		}
		s1, err := ApplyFun(step, tv.Head)
		if err != nil {
			return nil, err
		}
		s2, err := ApplyFun(s1, tv.Tail)
		if err != nil {
			return nil, err
		}
		return ApplyFun(s2, rec)
	case VNeutral:
		listTy, ok := tv.Ty.(VList)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-List", tv.Ty.String()))
		}
		mt, err := ApplyFun(motive, tv)
		if err != nil {
			return nil, err
		}
		baseTy, err := ApplyFun(motive, VNil{})
		if err != nil {
			return nil, err
		}
		stepTy := indListStepType(listTy.Elem, motive)
		return VNeutral{Ty: mt, Neu: NIndList{
			Target: tv.Neu,
			Motive: Normal{Val: motive, Ty: NonDepPi(VList{Elem: listTy.Elem}, VU{})},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-List", target.String()))
	}
}

// indListStepType builds `Pi e:E. Pi es:List E. m(es) -> m(cons e es)`.
func indListStepType(elem, motive Value) Value {
	return VPi{Name: "e", Dom: elem, Ran: NativeClosure(func(e Value) (Value, error) {
		return VPi{Name: "es", Dom: VList{Elem: elem}, Ran: NativeClosure(func(es Value) (Value, error) {
			mEs, err := ApplyFun(motive, es)
			if err != nil {
				return nil, err
			}
			mCons, err := ApplyFun(motive, VListCons{Head: e, Tail: es})
			if err != nil {
				return nil, err
			}
			return NonDepPi(mEs, mCons), nil
		})}, nil
	})}
}

// ---- Vectors ----

func evalHead(v Value) (Value, error) {
	switch vv := v.(type) {
	case VVecCons:
		return vv.Head, nil
	case VNeutral:
		vt, ok := vv.Ty.(VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("head", vv.Ty.String()))
		}
		return VNeutral{Ty: vt.Elem, Neu: NHead{Vec: vv.Neu}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("head", fmt.Sprintf("%T", v)))
	}
}

func evalTail(v Value) (Value, error) {
	switch vv := v.(type) {
	case VVecCons:
		return vv.Tail, nil
	case VNeutral:
		vt, ok := vv.Ty.(VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("tail", vv.Ty.String()))
		}
		pred, err := predNat(vt.Len)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: VVec{Elem: vt.Elem, Len: pred}, Neu: NTail{Vec: vv.Neu}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("tail", fmt.Sprintf("%T", v)))
	}
}

func predNat(v Value) (Value, error) {
	if a, ok := v.(VAdd1); ok {
		return a.N, nil
	}
	return v, nil // neutral length: leave as-is (still well-typed as Nat)
}

func evalIndVec(t *core.IndVec, rho *Rho) (Value, error) {
	length, err := Eval(t.Len, rho)
	if err != nil {
		return nil, err
	}
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	step, err := Eval(t.Step, rho)
	if err != nil {
		return nil, err
	}
	return indVec(length, target, motive, base, step)
}

func indVec(length, target, motive, base, step Value) (Value, error) {
	switch tv := target.(type) {
	case VVecNil:
		return base, nil
	case VVecCons:
		k, err := predNat(length)
		if err != nil {
			return nil, err
		}
		rec, err := indVec(k, tv.Tail, motive, base, step)
		if err != nil {
			return nil, err
		}
		s1, err := ApplyFun(step, k)
		if err != nil {
			return nil, err
		}
		s2, err := ApplyFun(s1, tv.Head)
		if err != nil {
			return nil, err
		}
		s3, err := ApplyFun(s2, tv.Tail)
		if err != nil {
			return nil, err
		}
		return ApplyFun(s3, rec)
	case VNeutral:
		vt, ok := tv.Ty.(VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Vec", tv.Ty.String()))
		}
		mt, err := applyMotive2(motive, length, tv)
		if err != nil {
			return nil, err
		}
		baseTy, err := applyMotive2(motive, VZero{}, VVecNil{})
		if err != nil {
			return nil, err
		}
		stepTy := indVecStepType(vt.Elem, motive)
		return VNeutral{Ty: mt, Neu: NIndVec{
			Len:    Normal{Val: length, Ty: VNat{}},
			Target: tv.Neu,
			Motive: Normal{Val: motive, Ty: indVecMotiveType(vt.Elem)},
			Base:   Normal{Val: base, Ty: baseTy},
			Step:   Normal{Val: step, Ty: stepTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Vec", target.String()))
	}
}

func applyMotive2(motive, a, b Value) (Value, error) {
	f, err := ApplyFun(motive, a)
	if err != nil {
		return nil, err
	}
	return ApplyFun(f, b)
}

func indVecMotiveType(elem Value) Value {
	return VPi{Name: "k", Dom: VNat{}, Ran: NativeClosure(func(k Value) (Value, error) {
		return NonDepPi(VVec{Elem: elem, Len: k}, VU{}), nil
	})}
}

// indVecStepType builds
// `Pi k:Nat. Pi e:E. Pi es:Vec E k. m k es -> m (add1 k) (vec:: e es)`.
func indVecStepType(elem, motive Value) Value {
	return VPi{Name: "k", Dom: VNat{}, Ran: NativeClosure(func(k Value) (Value, error) {
		return VPi{Name: "e", Dom: elem, Ran: NativeClosure(func(e Value) (Value, error) {
			return VPi{Name: "es", Dom: VVec{Elem: elem, Len: k}, Ran: NativeClosure(func(es Value) (Value, error) {
				mBefore, err := applyMotive2(motive, k, es)
				if err != nil {
					return nil, err
				}
				mAfter, err := applyMotive2(motive, VAdd1{N: k}, VVecCons{Head: e, Tail: es})
				if err != nil {
					return nil, err
				}
				return NonDepPi(mBefore, mAfter), nil
			})}, nil
		})}, nil
	})}
}

// ---- Equality ----

func evalSymm(eq Value) (Value, error) {
	switch e := eq.(type) {
	case VSame:
		return VSame{Mid: e.Mid}, nil
	case VNeutral:
		et, ok := e.Ty.(VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("symm", e.Ty.String()))
		}
		return VNeutral{Ty: VEqual{Ty: et.Ty, From: et.To, To: et.From}, Neu: NSymm{Eq: e.Neu}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("symm", fmt.Sprintf("%T", eq)))
	}
}

func evalCong(t *core.Cong, rho *Rho) (Value, error) {
	eq, err := Eval(t.Eq, rho)
	if err != nil {
		return nil, err
	}
	fn, err := Eval(t.Fun, rho)
	if err != nil {
		return nil, err
	}
	codomain, err := Eval(t.Ty, rho)
	if err != nil {
		return nil, err
	}
	switch e := eq.(type) {
	case VSame:
		w, err := ApplyFun(fn, e.Mid)
		if err != nil {
			return nil, err
		}
		return VSame{Mid: w}, nil
	case VNeutral:
		et, ok := e.Ty.(VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("cong", e.Ty.String()))
		}
		fFrom, err := ApplyFun(fn, et.From)
		if err != nil {
			return nil, err
		}
		fTo, err := ApplyFun(fn, et.To)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: VEqual{Ty: codomain, From: fFrom, To: fTo}, Neu: NCong{
			Eq:  e.Neu,
			Fun: Normal{Val: fn, Ty: NonDepPi(et.Ty, codomain)},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("cong", fmt.Sprintf("%T", eq)))
	}
}

func evalReplace(t *core.Replace, rho *Rho) (Value, error) {
	eq, err := Eval(t.Eq, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	switch e := eq.(type) {
	case VSame:
		return base, nil
	case VNeutral:
		et, ok := e.Ty.(VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("replace", e.Ty.String()))
		}
		mTo, err := ApplyFun(motive, et.To)
		if err != nil {
			return nil, err
		}
		mFrom, err := ApplyFun(motive, et.From)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: mTo, Neu: NReplace{
			Target: e.Neu,
			Motive: Normal{Val: motive, Ty: NonDepPi(et.Ty, VU{})},
			Base:   Normal{Val: base, Ty: mFrom},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("replace", fmt.Sprintf("%T", eq)))
	}
}

func evalTrans(t *core.Trans, rho *Rho) (Value, error) {
	left, err := Eval(t.Left, rho)
	if err != nil {
		return nil, err
	}
	right, err := Eval(t.Right, rho)
	if err != nil {
		return nil, err
	}
	lNeu, lIsNeu := left.(VNeutral)
	rNeu, rIsNeu := right.(VNeutral)

	if !lIsNeu && !rIsNeu {
		// both canonical: both are `same`, collapse to one witness.
		return VSame{Mid: left.(VSame).Mid}, nil
	}

	var eqTy, from, to Value
	switch {
	case lIsNeu && rIsNeu:
		lt := lNeu.Ty.(VEqual)
		rt := rNeu.Ty.(VEqual)
		eqTy, from, to = lt.Ty, lt.From, rt.To
	case lIsNeu && !rIsNeu:
		lt := lNeu.Ty.(VEqual)
		eqTy, from = lt.Ty, lt.From
		to = right.(VSame).Mid
	default: // !lIsNeu && rIsNeu
		rt := rNeu.Ty.(VEqual)
		eqTy, to = rt.Ty, rt.To
		from = left.(VSame).Mid
	}

	leftTy := VEqual{Ty: eqTy, From: from, To: from}
	rightTy := VEqual{Ty: eqTy, From: to, To: to}
	if lIsNeu {
		leftTy = lNeu.Ty.(VEqual)
	}
	if rIsNeu {
		rightTy = rNeu.Ty.(VEqual)
	}
	return VNeutral{Ty: VEqual{Ty: eqTy, From: from, To: to}, Neu: NTrans{
		Left:  Normal{Val: left, Ty: leftTy},
		Right: Normal{Val: right, Ty: rightTy},
	}}, nil
}

func evalIndEqual(t *core.IndEqual, rho *Rho) (Value, error) {
	eq, err := Eval(t.Eq, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	base, err := Eval(t.Base, rho)
	if err != nil {
		return nil, err
	}
	switch e := eq.(type) {
	case VSame:
		return base, nil
	case VNeutral:
		et, ok := e.Ty.(VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-=", e.Ty.String()))
		}
		mt, err := applyMotive2(motive, et.To, e)
		if err != nil {
			return nil, err
		}
		baseTy, err := applyMotive2(motive, et.From, VSame{Mid: et.From})
		if err != nil {
			return nil, err
		}
		motiveTy := VPi{Name: "to", Dom: et.Ty, Ran: NativeClosure(func(to Value) (Value, error) {
			return NonDepPi(VEqual{Ty: et.Ty, From: et.From, To: to}, VU{}), nil
		})}
		return VNeutral{Ty: mt, Neu: NIndEqual{
			Target: e.Neu,
			Motive: Normal{Val: motive, Ty: motiveTy},
			Base:   Normal{Val: base, Ty: baseTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-=", fmt.Sprintf("%T", eq)))
	}
}

// ---- Either ----

func evalIndEither(t *core.IndEither, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	baseLeft, err := Eval(t.BaseLeft, rho)
	if err != nil {
		return nil, err
	}
	baseRight, err := Eval(t.BaseRight, rho)
	if err != nil {
		return nil, err
	}
	switch tv := target.(type) {
	case VInl:
		return ApplyFun(baseLeft, tv.Val)
	case VInr:
		return ApplyFun(baseRight, tv.Val)
	case VNeutral:
		et, ok := tv.Ty.(VEither)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Either", tv.Ty.String()))
		}
		mt, err := ApplyFun(motive, tv)
		if err != nil {
			return nil, err
		}
		motiveTy := NonDepPi(et, VU{})
		blTy := VPi{Name: "l", Dom: et.L, Ran: NativeClosure(func(l Value) (Value, error) {
			return ApplyFun(motive, VInl{Val: l})
		})}
		brTy := VPi{Name: "r", Dom: et.R, Ran: NativeClosure(func(r Value) (Value, error) {
			return ApplyFun(motive, VInr{Val: r})
		})}
		return VNeutral{Ty: mt, Neu: NIndEither{
			Target:    tv.Neu,
			Motive:    Normal{Val: motive, Ty: motiveTy},
			BaseLeft:  Normal{Val: baseLeft, Ty: blTy},
			BaseRight: Normal{Val: baseRight, Ty: brTy},
		}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Either", target.String()))
	}
}

// ---- Absurd ----

func evalIndAbsurd(t *core.IndAbsurd, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	nv, ok := target.(VNeutral)
	if !ok {
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("ind-Absurd", target.String()))
	}
	return VNeutral{Ty: motive, Neu: NIndAbsurd{
		Target: nv.Neu,
		Motive: Normal{Val: motive, Ty: VU{}},
	}}, nil
}
