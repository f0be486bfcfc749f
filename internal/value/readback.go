package value

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
	kerrors "github.com/sunholo/piekernel/internal/errors"
)

// Bound is the ordered set of names already in scope during read-back,
// used to freshen binder names so nested Pi/Sigma/lambda bodies never
// shadow an outer name by accident (spec §3).
type Bound struct {
	names []string
}

func (b Bound) contains(name string) bool {
	for _, n := range b.names {
		if n == name {
			return true
		}
	}
	return false
}

// Fresh returns a name derived from base that isn't already bound,
// plus the Bound extended with it.
func (b Bound) Fresh(base string) (string, Bound) {
	name := base
	if name == "" || name == "_" {
		name = "x"
	}
	for i := 1; b.contains(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	next := make([]string, len(b.names), len(b.names)+1)
	copy(next, b.names)
	next = append(next, name)
	return name, Bound{names: next}
}

// ReadBackType reads a type-valued Value back into a core term, the
// entry point used whenever a Value appears in a position where only
// its identity as a type matters (Pi domains/ranges, motives' own
// classifying type, etc).
func ReadBackType(bound Bound, ty Value) (core.Term, error) {
	switch tv := ty.(type) {
	case VU:
		return &core.U{}, nil
	case VNat:
		return &core.Nat{}, nil
	case VAtom:
		return &core.Atom{}, nil
	case VTrivial:
		return &core.Trivial{}, nil
	case VAbsurd:
		return &core.Absurd{}, nil
	case VList:
		elem, err := ReadBackType(bound, tv.Elem)
		if err != nil {
			return nil, err
		}
		return &core.ListT{Elem: elem}, nil
	case VVec:
		elem, err := ReadBackType(bound, tv.Elem)
		if err != nil {
			return nil, err
		}
		n, err := ReadBack(bound, VNat{}, tv.Len)
		if err != nil {
			return nil, err
		}
		return &core.VecT{Elem: elem, Len: n}, nil
	case VEither:
		l, err := ReadBackType(bound, tv.L)
		if err != nil {
			return nil, err
		}
		r, err := ReadBackType(bound, tv.R)
		if err != nil {
			return nil, err
		}
		return &core.EitherT{L: l, R: r}, nil
	case VEqual:
		ty, err := ReadBackType(bound, tv.Ty)
		if err != nil {
			return nil, err
		}
		from, err := ReadBack(bound, tv.Ty, tv.From)
		if err != nil {
			return nil, err
		}
		to, err := ReadBack(bound, tv.Ty, tv.To)
		if err != nil {
			return nil, err
		}
		return &core.EqualT{Ty: ty, From: from, To: to}, nil
	case VPi:
		name, inner := bound.Fresh(tv.Name)
		dom, err := ReadBackType(bound, tv.Dom)
		if err != nil {
			return nil, err
		}
		argVal := VNeutral{Ty: tv.Dom, Neu: NVar{Name: name}}
		ran, err := tv.Ran.Instantiate(argVal)
		if err != nil {
			return nil, err
		}
		ranTerm, err := ReadBackType(inner, ran)
		if err != nil {
			return nil, err
		}
		return &core.Pi{Name: name, Dom: dom, Ran: ranTerm}, nil
	case VSigma:
		name, inner := bound.Fresh(tv.Name)
		fst, err := ReadBackType(bound, tv.Fst)
		if err != nil {
			return nil, err
		}
		argVal := VNeutral{Ty: tv.Fst, Neu: NVar{Name: name}}
		snd, err := tv.Snd.Instantiate(argVal)
		if err != nil {
			return nil, err
		}
		sndTerm, err := ReadBackType(inner, snd)
		if err != nil {
			return nil, err
		}
		return &core.SigmaT{Name: name, Fst: fst, Snd: sndTerm}, nil
	case VDatatype:
		return readBackDatatype(bound, tv)
	case VNeutral:
		// Design note (spec §9, open question 3): a neutral only reads
		// back as a type term when its own recorded type is U; a
		// neutral of any other type reaching ReadBackType is an
		// ill-typed core term, not a stuck type.
		if _, isU := tv.Ty.(VU); !isU {
			return nil, kerrors.WrapReport(kerrors.NotAType(tv.String()))
		}
		return readBackNeutral(bound, tv.Neu)
	default:
		return nil, kerrors.WrapReport(kerrors.NotAType(fmt.Sprintf("%T", ty)))
	}
}

func readBackDatatype(bound Bound, d VDatatype) (core.Term, error) {
	params := make([]core.Term, len(d.Params))
	env := d.Def.Env
	for i, p := range d.Def.ParamTele {
		ty, err := Eval(p.Type, env)
		if err != nil {
			return nil, err
		}
		term, err := ReadBack(bound, ty, d.Params[i])
		if err != nil {
			return nil, err
		}
		params[i] = term
		env = env.Extend(p.Name, d.Params[i])
	}
	indices := make([]core.Term, len(d.Indices))
	for i, p := range d.Def.IndexTele {
		ty, err := Eval(p.Type, env)
		if err != nil {
			return nil, err
		}
		term, err := ReadBack(bound, ty, d.Indices[i])
		if err != nil {
			return nil, err
		}
		indices[i] = term
		env = env.Extend(p.Name, d.Indices[i])
	}
	ctors := make([]core.ConstructorSig, len(d.Def.Ctors))
	for i, c := range d.Def.Ctors {
		ctors[i] = core.ConstructorSig{Name: c.Name, ArgTele: c.ArgTele}
	}
	return &core.Datatype{
		Name:         d.Def.Name,
		Params:       params,
		Indices:      indices,
		ParamTele:    d.Def.ParamTele,
		IndexTele:    d.Def.IndexTele,
		Constructors: ctors,
	}, nil
}

// ReadBack reads a value back into a core term at type ty, performing
// eta-expansion for Pi/Sigma/Trivial so that definitional equality can
// be decided by alpha-equivalence on the read-back terms alone.
func ReadBack(bound Bound, ty Value, v Value) (core.Term, error) {
	if _, ok := ty.(VU); ok {
		return ReadBackType(bound, v)
	}

	switch tv := ty.(type) {
	case VPi:
		name, inner := bound.Fresh(tv.Name)
		argVal := VNeutral{Ty: tv.Dom, Neu: NVar{Name: name}}
		applied, err := ApplyFun(v, argVal)
		if err != nil {
			return nil, err
		}
		ran, err := tv.Ran.Instantiate(argVal)
		if err != nil {
			return nil, err
		}
		body, err := ReadBack(inner, ran, applied)
		if err != nil {
			return nil, err
		}
		return &core.Lambda{Name: name, Body: body}, nil

	case VSigma:
		fst, err := DoCar(v)
		if err != nil {
			return nil, err
		}
		snd, err := DoCdr(v)
		if err != nil {
			return nil, err
		}
		fstTerm, err := ReadBack(bound, tv.Fst, fst)
		if err != nil {
			return nil, err
		}
		sndTy, err := tv.Snd.Instantiate(fst)
		if err != nil {
			return nil, err
		}
		sndTerm, err := ReadBack(bound, sndTy, snd)
		if err != nil {
			return nil, err
		}
		return &core.Cons{Fst: fstTerm, Snd: sndTerm}, nil

	case VTrivial:
		return &core.Sole{}, nil
	}

	switch vv := v.(type) {
	case VNeutral:
		return readBackNeutral(bound, vv.Neu)

	case VZero:
		return &core.Zero{}, nil
	case VAdd1:
		n, err := ReadBack(bound, VNat{}, vv.N)
		if err != nil {
			return nil, err
		}
		return &core.Add1{N: n}, nil

	case VNil:
		return &core.Nil{}, nil
	case VListCons:
		lt, ok := ty.(VList)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		h, err := ReadBack(bound, lt.Elem, vv.Head)
		if err != nil {
			return nil, err
		}
		t, err := ReadBack(bound, lt, vv.Tail)
		if err != nil {
			return nil, err
		}
		return &core.ConsL{Head: h, Tail: t}, nil

	case VVecNil:
		return &core.VecNil{}, nil
	case VVecCons:
		vt, ok := ty.(VVec)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		h, err := ReadBack(bound, vt.Elem, vv.Head)
		if err != nil {
			return nil, err
		}
		pred, err := predNat(vt.Len)
		if err != nil {
			return nil, err
		}
		t, err := ReadBack(bound, VVec{Elem: vt.Elem, Len: pred}, vv.Tail)
		if err != nil {
			return nil, err
		}
		return &core.VecCons{Head: h, Tail: t}, nil

	case VSame:
		et, ok := ty.(VEqual)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		m, err := ReadBack(bound, et.Ty, vv.Mid)
		if err != nil {
			return nil, err
		}
		return &core.Same{Mid: m}, nil

	case VInl:
		et, ok := ty.(VEither)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		val, err := ReadBack(bound, et.L, vv.Val)
		if err != nil {
			return nil, err
		}
		return &core.Inl{Val: val}, nil
	case VInr:
		et, ok := ty.(VEither)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		val, err := ReadBack(bound, et.R, vv.Val)
		if err != nil {
			return nil, err
		}
		return &core.Inr{Val: val}, nil

	case VTick:
		return &core.Tick{Sym: vv.Sym}, nil
	case VSole:
		return &core.Sole{}, nil

	case VConstr:
		dt, ok := ty.(VDatatype)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), v.String()))
		}
		spec, ok := dt.Def.Lookup(vv.Name)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.NonConstructorPattern(vv.Name))
		}
		boundNames := make([]string, len(vv.Args))
		for i := range vv.Args {
			boundNames[i] = fmt.Sprintf("_arg%d", i)
		}
		argTypes, err := dt.Def.InstantiateArgTypes(spec, dt.Params, boundNames)
		if err != nil {
			return nil, err
		}
		args := make([]core.Term, len(vv.Args))
		for i, a := range vv.Args {
			term, err := ReadBack(bound, argTypes[i], a)
			if err != nil {
				return nil, err
			}
			args[i] = term
		}
		return &core.Constructor{Name: vv.Name, DataName: vv.DataName, Args: args}, nil

	case VLambda:
		// Only reachable if the caller passed a non-Pi expected type for
		// a function value, which well-typed core terms never do.
		return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), "lambda"))

	default:
		return nil, kerrors.WrapReport(kerrors.NotStructurallyEquiv(ty.String(), fmt.Sprintf("%T", v)))
	}
}

// readBackNeutral reconstructs the core term a stuck computation
// stands for; the type-directed checks above only strip eta, so a
// neutral's own recorded types (carried in its Normal arguments) are
// what keeps this part unambiguous.
func readBackNeutral(bound Bound, neu Neutral) (core.Term, error) {
	switch n := neu.(type) {
	case NVar:
		return &core.Var{Name: n.Name}, nil

	case NApp:
		fun, err := readBackNeutral(bound, n.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := ReadBack(bound, n.Arg.Ty, n.Arg.Val)
		if err != nil {
			return nil, err
		}
		return &core.App{Fun: fun, Arg: arg}, nil

	case NCar:
		pair, err := readBackNeutral(bound, n.Pair)
		if err != nil {
			return nil, err
		}
		return &core.Car{Pair: pair}, nil

	case NCdr:
		pair, err := readBackNeutral(bound, n.Pair)
		if err != nil {
			return nil, err
		}
		return &core.Cdr{Pair: pair}, nil

	case NWhichNat:
		return readBackNatElim(bound, n.Target, n.BaseTy, n.Base, n.Step, func(target, baseTy, base, step core.Term) core.Term {
			return &core.WhichNat{Target: target, BaseTy: baseTy, Base: base, Step: step}
		})
	case NIterNat:
		return readBackNatElim(bound, n.Target, n.BaseTy, n.Base, n.Step, func(target, baseTy, base, step core.Term) core.Term {
			return &core.IterNat{Target: target, BaseTy: baseTy, Base: base, Step: step}
		})
	case NRecNat:
		return readBackNatElim(bound, n.Target, n.BaseTy, n.Base, n.Step, func(target, baseTy, base, step core.Term) core.Term {
			return &core.RecNat{Target: target, BaseTy: baseTy, Base: base, Step: step}
		})
	case NIndNat:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		base, err := ReadBack(bound, n.Base.Ty, n.Base.Val)
		if err != nil {
			return nil, err
		}
		step, err := ReadBack(bound, n.Step.Ty, n.Step.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndNat{Target: target, Motive: motive, Base: base, Step: step}, nil

	case NRecList:
		return readBackNatElim(bound, n.Target, n.BaseTy, n.Base, n.Step, func(target, baseTy, base, step core.Term) core.Term {
			return &core.RecList{Target: target, BaseTy: baseTy, Base: base, Step: step}
		})
	case NIndList:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		base, err := ReadBack(bound, n.Base.Ty, n.Base.Val)
		if err != nil {
			return nil, err
		}
		step, err := ReadBack(bound, n.Step.Ty, n.Step.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndList{Target: target, Motive: motive, Base: base, Step: step}, nil

	case NHead:
		vec, err := readBackNeutral(bound, n.Vec)
		if err != nil {
			return nil, err
		}
		return &core.Head{Vec: vec}, nil
	case NTail:
		vec, err := readBackNeutral(bound, n.Vec)
		if err != nil {
			return nil, err
		}
		return &core.Tail{Vec: vec}, nil

	case NIndVec:
		length, err := ReadBack(bound, VNat{}, n.Len.Val)
		if err != nil {
			return nil, err
		}
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		base, err := ReadBack(bound, n.Base.Ty, n.Base.Val)
		if err != nil {
			return nil, err
		}
		step, err := ReadBack(bound, n.Step.Ty, n.Step.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndVec{Len: length, Target: target, Motive: motive, Base: base, Step: step}, nil

	case NSymm:
		eq, err := readBackNeutral(bound, n.Eq)
		if err != nil {
			return nil, err
		}
		return &core.Symm{Eq: eq}, nil

	case NCong:
		eq, err := readBackNeutral(bound, n.Eq)
		if err != nil {
			return nil, err
		}
		fun, err := ReadBack(bound, n.Fun.Ty, n.Fun.Val)
		if err != nil {
			return nil, err
		}
		pi, ok := n.Fun.Ty.(VPi)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("cong", n.Fun.Ty.String()))
		}
		codomain, err := pi.Ran.Instantiate(VNeutral{Ty: pi.Dom, Neu: NVar{Name: "_"}})
		if err != nil {
			return nil, err
		}
		ty, err := ReadBackType(bound, codomain)
		if err != nil {
			return nil, err
		}
		return &core.Cong{Eq: eq, Fun: fun, Ty: ty}, nil

	case NReplace:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		base, err := ReadBack(bound, n.Base.Ty, n.Base.Val)
		if err != nil {
			return nil, err
		}
		return &core.Replace{Eq: target, Motive: motive, Base: base}, nil

	case NIndEqual:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		base, err := ReadBack(bound, n.Base.Ty, n.Base.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndEqual{Eq: target, Motive: motive, Base: base}, nil

	case NTrans:
		left, err := ReadBack(bound, n.Left.Ty, n.Left.Val)
		if err != nil {
			return nil, err
		}
		right, err := ReadBack(bound, n.Right.Ty, n.Right.Val)
		if err != nil {
			return nil, err
		}
		return &core.Trans{Left: left, Right: right}, nil

	case NIndEither:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		baseLeft, err := ReadBack(bound, n.BaseLeft.Ty, n.BaseLeft.Val)
		if err != nil {
			return nil, err
		}
		baseRight, err := ReadBack(bound, n.BaseRight.Ty, n.BaseRight.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndEither{Target: target, Motive: motive, BaseLeft: baseLeft, BaseRight: baseRight}, nil

	case NIndAbsurd:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBackType(bound, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		return &core.IndAbsurd{Target: target, Motive: motive}, nil

	case NMatch:
		target, err := readBackNeutral(bound, n.Target)
		if err != nil {
			return nil, err
		}
		motive, err := ReadBack(bound, n.Motive.Ty, n.Motive.Val)
		if err != nil {
			return nil, err
		}
		return &core.Match{Target: target, Arms: n.Arms, Motive: motive}, nil

	default:
		return nil, fmt.Errorf("readBackNeutral: unhandled neutral %T", neu)
	}
}

func readBackNatElim(bound Bound, target Neutral, baseTy, base, step Normal, build func(target, baseTy, base, step core.Term) core.Term) (core.Term, error) {
	targetTerm, err := readBackNeutral(bound, target)
	if err != nil {
		return nil, err
	}
	baseTyTerm, err := ReadBackType(bound, baseTy.Val)
	if err != nil {
		return nil, err
	}
	baseTerm, err := ReadBack(bound, base.Ty, base.Val)
	if err != nil {
		return nil, err
	}
	stepTerm, err := ReadBack(bound, step.Ty, step.Val)
	if err != nil {
		return nil, err
	}
	return build(targetTerm, baseTyTerm, baseTerm, stepTerm), nil
}
