package checker

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

// lowerPattern maps a surface pattern onto its core form. Shape is
// preserved one-to-one; type admission happens separately in
// admitPattern.
func lowerPattern(p surface.Pattern) core.Pattern {
	switch pt := p.(type) {
	case *surface.PatternHole:
		return core.PatternHole{Node: core.Node{Pos: pt.Pos}}
	case *surface.PatternVar:
		return core.PatternVar{Node: core.Node{Pos: pt.Pos}, Name: pt.Name}
	case *surface.PatternAtom:
		return core.PatternAtom{Node: core.Node{Pos: pt.Pos}, Sym: pt.Sym}
	case *surface.PatternCons:
		return core.PatternCons{
			Node: core.Node{Pos: pt.Pos},
			Head: lowerPattern(pt.Head),
			Tail: lowerPattern(pt.Tail),
		}
	case *surface.PatternCtor:
		args := make([]core.Pattern, len(pt.Args))
		for i, a := range pt.Args {
			args[i] = lowerPattern(a)
		}
		return core.PatternCtor{Node: core.Node{Pos: pt.Pos}, Name: pt.Name, Args: args}
	default:
		return core.PatternHole{}
	}
}

// bindingName returns the name under which a pattern position is
// visible to dependent types further right in a telescope: the
// pattern's own variable if it is one, a fresh name otherwise.
func bindingName(g *ctx.Context, p core.Pattern) (string, bool) {
	if v, ok := p.(core.PatternVar); ok {
		return v.Name, true
	}
	return g.Fresh("p"), false
}

// admitPattern implements the pattern's extend_Gamma operation (spec
// §4.6): add every binding the pattern introduces, using the scrutinee
// type to unpack constructor field types. It doubles as the pattern's
// admission check against the type — a pattern whose shape cannot
// inhabit ty is rejected here, before coverage ever runs — and returns
// the type-resolved pattern: a bare name that happens to name a
// constructor of a datatype scrutinee is a nullary constructor
// pattern, not a variable, and only the type can tell the two apart.
func admitPattern(g *ctx.Context, p core.Pattern, ty value.Value) (core.Pattern, *ctx.Context, error) {
	switch pt := p.(type) {
	case core.PatternHole:
		return pt, g, nil

	case core.PatternVar:
		if dt, ok := ty.(value.VDatatype); ok {
			if _, isCtor := dt.Def.Lookup(pt.Name); isCtor {
				return admitPattern(g, core.PatternCtor{Node: core.Node{Pos: pt.Pos}, Name: pt.Name}, ty)
			}
		}
		return pt, g.HasType(pt.Name, ty), nil

	case core.PatternAtom:
		if _, ok := ty.(value.VAtom); !ok {
			return nil, nil, kerrors.WrapReport(kerrors.PatternIllTyped(pt.String(), ty.String()))
		}
		return pt, g, nil

	case core.PatternCons:
		sig, ok := ty.(value.VSigma)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.PatternIllTyped(pt.String(), ty.String()))
		}
		headName, isVar := bindingName(g, pt.Head)
		head, g2, err := admitPattern(g, pt.Head, sig.Fst)
		if err != nil {
			return nil, nil, err
		}
		if !isVar {
			g2 = g2.HasType(headName, sig.Fst)
		}
		sndTy, err := sig.Snd.Instantiate(value.VNeutral{Ty: sig.Fst, Neu: value.NVar{Name: headName}})
		if err != nil {
			return nil, nil, err
		}
		tail, g3, err := admitPattern(g2, pt.Tail, sndTy)
		if err != nil {
			return nil, nil, err
		}
		return core.PatternCons{Node: pt.Node, Head: head, Tail: tail}, g3, nil

	case core.PatternCtor:
		dt, ok := ty.(value.VDatatype)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.PatternIllTyped(pt.String(), ty.String()))
		}
		spec, ok := dt.Def.Lookup(pt.Name)
		if !ok {
			return nil, nil, kerrors.WrapReport(kerrors.NonConstructorPattern(pt.String()))
		}
		if len(pt.Args) != len(spec.ArgTele) {
			return nil, nil, kerrors.WrapReport(kerrors.PatternIllTyped(pt.String(), ty.String()))
		}
		boundNames := make([]string, len(pt.Args))
		isVar := make([]bool, len(pt.Args))
		for i, sub := range pt.Args {
			boundNames[i], isVar[i] = bindingName(g, sub)
		}
		argTypes, err := dt.Def.InstantiateArgTypes(spec, dt.Params, boundNames)
		if err != nil {
			return nil, nil, err
		}
		args := make([]core.Pattern, len(pt.Args))
		for i, sub := range pt.Args {
			args[i], g, err = admitPattern(g, sub, argTypes[i])
			if err != nil {
				return nil, nil, err
			}
			if !isVar[i] {
				g = g.HasType(boundNames[i], argTypes[i])
			}
		}
		return core.PatternCtor{Node: pt.Node, Name: pt.Name, Args: args}, g, nil

	default:
		return nil, nil, kerrors.WrapReport(kerrors.PatternIllTyped(fmt.Sprintf("%T", p), ty.String()))
	}
}

func isWildcard(p core.Pattern) bool {
	switch p.(type) {
	case core.PatternHole, core.PatternVar:
		return true
	default:
		return false
	}
}

// checkCoverage implements the coverage rules of spec §4.6, dispatching
// on the scrutinee's type. Pattern/type admission has already been
// checked per arm, so this only decides exhaustiveness.
func checkCoverage(arms []core.Arm, ty value.Value) error {
	switch tv := ty.(type) {
	case value.VAtom:
		// Open set: no exhaustiveness requirement; the evaluator raises
		// a stuck-match error at run time for an unmatched atom.
		return nil

	case value.VSigma:
		consArms := 0
		for _, arm := range arms {
			switch arm.Pattern.(type) {
			case core.PatternCons:
				consArms++
			case core.PatternHole, core.PatternVar:
			default:
				return kerrors.WrapReport(kerrors.PatternIllTyped(arm.Pattern.String(), ty.String()))
			}
		}
		if consArms != 1 {
			return kerrors.WrapReport(kerrors.NonExhaustiveMatch([]string{"(cons _ _)"}))
		}
		return nil

	case value.VDatatype:
		seen := map[string]bool{}
		hasWildcard := false
		for _, arm := range arms {
			switch pt := arm.Pattern.(type) {
			case core.PatternCtor:
				seen[pt.Name] = true
			case core.PatternHole, core.PatternVar:
				hasWildcard = true
			default:
				return kerrors.WrapReport(kerrors.NonConstructorPattern(arm.Pattern.String()))
			}
		}
		if hasWildcard {
			return nil
		}
		var missing []string
		for _, c := range tv.Def.Ctors {
			if !seen[c.Name] {
				missing = append(missing, c.Name)
			}
		}
		if len(missing) > 0 {
			return kerrors.WrapReport(kerrors.NonExhaustiveMatch(missing))
		}
		return nil

	default:
		// No constructor patterns exist for this type, so a match on it
		// is only exhaustive through a catch-all arm.
		for _, arm := range arms {
			if isWildcard(arm.Pattern) {
				return nil
			}
		}
		return kerrors.WrapReport(kerrors.NonExhaustiveMatch([]string{"_"}))
	}
}

// synthMatch elaborates `match t arm+` by synthesizing the target,
// synthesizing the first arm's body for the result type, and checking
// every later arm against it (spec §4.6).
func synthMatch(ex *surface.Match, g *ctx.Context) (value.Value, core.Term, error) {
	if len(ex.Arms) == 0 {
		return nil, nil, kerrors.WrapReport(kerrors.CannotSynth(describeExpr(ex)))
	}
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, nil, err
	}

	arms := make([]core.Arm, len(ex.Arms))
	var resultTy value.Value
	for i, arm := range ex.Arms {
		pat, g2, err := admitPattern(g, lowerPattern(arm.Pattern), targetTy)
		if err != nil {
			return nil, nil, err
		}
		var bodyC core.Term
		if i == 0 {
			resultTy, bodyC, err = Synth(arm.Body, g2)
		} else {
			bodyC, err = Check(arm.Body, g2, resultTy)
		}
		if err != nil {
			return nil, nil, err
		}
		arms[i] = core.Arm{Pattern: pat, Body: bodyC}
	}

	if err := checkCoverage(arms, targetTy); err != nil {
		return nil, nil, err
	}
	motiveC, err := value.ReadBackType(boundOf(g), resultTy)
	if err != nil {
		return nil, nil, err
	}
	return resultTy, &core.Match{Node: core.Node{Pos: ex.Pos}, Target: targetC, Arms: arms, Motive: motiveC}, nil
}

// checkMatch is the checking-mode counterpart: with the result type
// already known, every arm's body is checked against it directly, so
// an empty arm list is admissible when coverage allows it (a datatype
// with no constructors).
func checkMatch(ex *surface.Match, g *ctx.Context, expected value.Value) (core.Term, error) {
	targetTy, targetC, err := Synth(ex.Target, g)
	if err != nil {
		return nil, err
	}

	arms := make([]core.Arm, len(ex.Arms))
	for i, arm := range ex.Arms {
		pat, g2, err := admitPattern(g, lowerPattern(arm.Pattern), targetTy)
		if err != nil {
			return nil, err
		}
		bodyC, err := Check(arm.Body, g2, expected)
		if err != nil {
			return nil, err
		}
		arms[i] = core.Arm{Pattern: pat, Body: bodyC}
	}

	if err := checkCoverage(arms, targetTy); err != nil {
		return nil, err
	}
	motiveC, err := value.ReadBackType(boundOf(g), expected)
	if err != nil {
		return nil, err
	}
	return &core.Match{Node: core.Node{Pos: ex.Pos}, Target: targetC, Arms: arms, Motive: motiveC}, nil
}
