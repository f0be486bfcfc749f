package toplevel

import (
	"strings"

	"github.com/sunholo/piekernel/internal/checker"
	"github.com/sunholo/piekernel/internal/core"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

// handleData elaborates a `data` declaration (spec §4.5): check the
// parameter and index telescopes, check every constructor's argument
// telescope and result type, then emit into Sigma, in order, one
// claim+define per constructor followed by the claim+define for the
// datatype former itself.
func (d *Driver) handleData(f *surface.Data) (Outcome, error) {
	if d.Sigma.Has(f.Name) {
		return Outcome{}, kerrors.WrapReport(kerrors.DuplicateName("data", f.Name))
	}
	seen := map[string]bool{f.Name: true}
	for _, c := range f.Constructors {
		if seen[c.Name] || d.Sigma.Has(c.Name) {
			return Outcome{}, kerrors.WrapReport(kerrors.DuplicateName("data", c.Name))
		}
		seen[c.Name] = true
		if c.ResultName != f.Name {
			return Outcome{}, kerrors.WrapReport(kerrors.DatatypeIllFormed(
				"constructor " + c.Name + " constructs " + c.ResultName + ", not " + f.Name))
		}
	}

	// Telescopes are checked left-to-right: earlier parameters may
	// appear in later parameter types, and indices see all parameters.
	paramTele, g, err := elaborateTelescope(f.Params, d.Sigma)
	if err != nil {
		return Outcome{}, err
	}
	indexTele, _, err := elaborateTelescope(f.Indices, g)
	if err != nil {
		return Outcome{}, err
	}

	// The datatype former's claimed type, Pi(params) Pi(indices) U,
	// never mentions the datatype itself, so it can be built and
	// evaluated before anything else; its value then stands in for the
	// datatype while constructor telescopes are checked, which is what
	// lets constructors take recursive arguments.
	dClaimTy := telescopePis(paramTele, telescopePis(indexTele, &core.U{}))
	rho := d.Sigma.ToRho()
	dClaimTyVal, err := value.Eval(dClaimTy, rho)
	if err != nil {
		return Outcome{}, err
	}

	ctorSigs := make([]core.ConstructorSig, len(f.Constructors))
	for j, c := range f.Constructors {
		sig, err := elaborateConstructor(c, f, paramTele, indexTele, dClaimTyVal, d.Sigma)
		if err != nil {
			return Outcome{}, err
		}
		ctorSigs[j] = sig
	}

	dDefine := telescopeLambdas(paramTele, telescopeLambdas(indexTele, &core.Datatype{
		Name:         f.Name,
		Params:       varRefs(paramTele),
		Indices:      varRefs(indexTele),
		ParamTele:    paramTele,
		IndexTele:    indexTele,
		Constructors: ctorSigs,
	}))

	// The datatype's runtime value closes over an environment that
	// already binds the datatype's own name, so recursive constructor
	// argument types resolve when telescopes are instantiated later.
	rhoRec, _, err := rho.ExtendRec(f.Name, func(r *value.Rho) (value.Value, error) {
		return value.Eval(dDefine, r)
	})
	if err != nil {
		return Outcome{}, err
	}

	sigma := d.Sigma
	names := make([]string, len(f.Constructors))
	for j, c := range f.Constructors {
		claimTy := telescopePis(paramTele, telescopePis(ctorSigs[j].ArgTele, &core.Datatype{
			Name:         f.Name,
			Params:       varRefs(paramTele),
			Indices:      ctorSigs[j].ResultIdx,
			ParamTele:    paramTele,
			IndexTele:    indexTele,
			Constructors: ctorSigs,
		}))
		claimTyVal, err := value.Eval(claimTy, rhoRec)
		if err != nil {
			return Outcome{}, err
		}
		define := telescopeLambdas(paramTele, telescopeLambdas(ctorSigs[j].ArgTele, &core.Constructor{
			Name:     c.Name,
			DataName: f.Name,
			Args:     varRefs(ctorSigs[j].ArgTele),
		}))
		defineVal, err := value.Eval(define, rhoRec)
		if err != nil {
			return Outcome{}, err
		}
		sigma = sigma.Claim(c.Name, claimTyVal).Define(c.Name, defineVal)
		names[j] = c.Name
	}
	dVal, err := value.Eval(dDefine, rhoRec)
	if err != nil {
		return Outcome{}, err
	}
	d.Sigma = sigma.Claim(f.Name, dClaimTyVal).Define(f.Name, dVal)
	return Outcome{Kind: "data", Name: f.Name, Detail: strings.Join(names, ", ")}, nil
}

// elaborateTelescope checks each entry's type against U in a context
// extended with all earlier entries, returning the core telescope and
// the fully extended context.
func elaborateTelescope(params []surface.Param, g *ctx.Context) ([]core.Param, *ctx.Context, error) {
	tele := make([]core.Param, len(params))
	for i, p := range params {
		tc, err := checker.IsType(p.Type, g)
		if err != nil {
			return nil, nil, err
		}
		tv, err := value.Eval(tc, g.ToRho())
		if err != nil {
			return nil, nil, err
		}
		tele[i] = core.Param{Name: p.Name, Type: tc}
		g = g.HasType(p.Name, tv)
	}
	return tele, g, nil
}

// elaborateConstructor checks one constructor clause: its argument
// telescope (under the datatype's claim, so recursive occurrences are
// in scope), then its result indices against the index telescope.
func elaborateConstructor(c surface.DataConstr, f *surface.Data,
	paramTele, indexTele []core.Param, dClaimTyVal value.Value, sigma *ctx.Context) (core.ConstructorSig, error) {

	g := sigma.Claim(f.Name, dClaimTyVal)
	for _, p := range paramTele {
		tv, err := value.Eval(p.Type, g.ToRho())
		if err != nil {
			return core.ConstructorSig{}, err
		}
		g = g.HasType(p.Name, tv)
	}
	argTele, g, err := elaborateTelescope(c.Args, g)
	if err != nil {
		return core.ConstructorSig{}, err
	}

	// The explicit result type applies the datatype to its parameters
	// and then this constructor's index choices: D p i'. The parameter
	// positions must be exactly the declared parameter variables; only
	// the indices may vary per constructor.
	if len(c.ResultIdxs) != len(paramTele)+len(indexTele) {
		return core.ConstructorSig{}, kerrors.WrapReport(kerrors.ArityError(
			len(paramTele)+len(indexTele), len(c.ResultIdxs)))
	}
	for k, p := range paramTele {
		v, ok := c.ResultIdxs[k].(*surface.Var)
		if !ok || v.Name != p.Name {
			return core.ConstructorSig{}, kerrors.WrapReport(kerrors.DatatypeIllFormed(
				"constructor " + c.Name + " must apply " + f.Name + " to its declared parameters"))
		}
	}
	idxExprs := c.ResultIdxs[len(paramTele):]
	resultIdx := make([]core.Term, len(idxExprs))
	env := g.ToRho()
	for k, idxExpr := range idxExprs {
		ityV, err := value.Eval(indexTele[k].Type, env)
		if err != nil {
			return core.ConstructorSig{}, err
		}
		ic, err := checker.Check(idxExpr, g, ityV)
		if err != nil {
			return core.ConstructorSig{}, err
		}
		iv, err := value.Eval(ic, g.ToRho())
		if err != nil {
			return core.ConstructorSig{}, err
		}
		resultIdx[k] = ic
		env = env.Extend(indexTele[k].Name, iv)
	}
	return core.ConstructorSig{Name: c.Name, ArgTele: argTele, ResultIdx: resultIdx}, nil
}

func telescopePis(tele []core.Param, body core.Term) core.Term {
	for i := len(tele) - 1; i >= 0; i-- {
		body = &core.Pi{Name: tele[i].Name, Dom: tele[i].Type, Ran: body}
	}
	return body
}

func telescopeLambdas(tele []core.Param, body core.Term) core.Term {
	for i := len(tele) - 1; i >= 0; i-- {
		body = &core.Lambda{Name: tele[i].Name, Body: body}
	}
	return body
}

func varRefs(tele []core.Param) []core.Term {
	out := make([]core.Term, len(tele))
	for i, p := range tele {
		out[i] = &core.Var{Name: p.Name}
	}
	return out
}
