package value

import (
	"github.com/sunholo/piekernel/internal/core"
	kerrors "github.com/sunholo/piekernel/internal/errors"
)

// PatternAdmits decides whether pattern p matches value v (spec
// §4.6's `admits` operation). It never inspects types: shape alone
// decides, since the checker has already confirmed the pattern is
// well-typed against the scrutinee's type before this ever runs.
func PatternAdmits(p core.Pattern, v Value) bool {
	switch pt := p.(type) {
	case core.PatternHole:
		return true
	case core.PatternVar:
		return true
	case core.PatternAtom:
		t, ok := v.(VTick)
		return ok && t.Sym == pt.Sym
	case core.PatternCons:
		switch vv := v.(type) {
		case VPair:
			return PatternAdmits(pt.Head, vv.Fst) && PatternAdmits(pt.Tail, vv.Snd)
		case VListCons:
			return PatternAdmits(pt.Head, vv.Head) && PatternAdmits(pt.Tail, vv.Tail)
		case VVecCons:
			return PatternAdmits(pt.Head, vv.Head) && PatternAdmits(pt.Tail, vv.Tail)
		default:
			return false
		}
	case core.PatternCtor:
		vv, ok := v.(VConstr)
		if !ok || vv.Name != pt.Name || len(vv.Args) != len(pt.Args) {
			return false
		}
		for i, sub := range pt.Args {
			if !PatternAdmits(sub, vv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ExtendRhoWithPattern binds every variable a pattern introduces to
// the corresponding sub-value of v (spec §4.6's `extend_rho`); callers
// must only invoke this once PatternAdmits(p, v) holds.
func ExtendRhoWithPattern(p core.Pattern, rho *Rho, v Value) *Rho {
	switch pt := p.(type) {
	case core.PatternHole:
		return rho
	case core.PatternVar:
		return rho.Extend(pt.Name, v)
	case core.PatternAtom:
		return rho
	case core.PatternCons:
		var head, tail Value
		switch vv := v.(type) {
		case VPair:
			head, tail = vv.Fst, vv.Snd
		case VListCons:
			head, tail = vv.Head, vv.Tail
		case VVecCons:
			head, tail = vv.Head, vv.Tail
		}
		rho = ExtendRhoWithPattern(pt.Head, rho, head)
		return ExtendRhoWithPattern(pt.Tail, rho, tail)
	case core.PatternCtor:
		vv := v.(VConstr)
		for i, sub := range pt.Args {
			rho = ExtendRhoWithPattern(sub, rho, vv.Args[i])
		}
		return rho
	default:
		return rho
	}
}

// evalMatch implements reduction of a core Match (spec §4.6): on a
// non-neutral target it selects the first admitting arm and evaluates
// its body under rho extended by the pattern's bindings; a non-neutral
// target admitted by no arm is a runtime-stuck match (a coverage-check
// escape, since an accepted match is supposed to make this
// unreachable on well-typed targets — spec property P7). On a neutral
// target the whole match stays stuck, carrying the arms verbatim.
func evalMatch(t *core.Match, rho *Rho) (Value, error) {
	target, err := Eval(t.Target, rho)
	if err != nil {
		return nil, err
	}
	motive, err := Eval(t.Motive, rho)
	if err != nil {
		return nil, err
	}
	if nv, ok := target.(VNeutral); ok {
		return VNeutral{Ty: motive, Neu: NMatch{
			Target: nv.Neu,
			Arms:   t.Arms,
			Motive: Normal{Val: motive, Ty: VU{}},
		}}, nil
	}
	for _, arm := range t.Arms {
		if PatternAdmits(arm.Pattern, target) {
			armRho := ExtendRhoWithPattern(arm.Pattern, rho, target)
			return Eval(arm.Body, armRho)
		}
	}
	return nil, kerrors.WrapReport(kerrors.StuckMatch(target.String()))
}
