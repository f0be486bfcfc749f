package value

import "github.com/sunholo/piekernel/internal/core"

// DatatypeDef is the shared, once-built definition behind every
// VDatatype/VConstr value of a given user-defined datatype. It is
// built by the data-declaration elaborator (package toplevel) when a
// `data` form is admitted into Sigma, and from then on referenced by
// pointer everywhere the datatype is used.
type DatatypeDef struct {
	Name      string
	ParamTele []core.Param
	IndexTele []core.Param
	Ctors     []CtorSpec
	// Env is the Sigma-derived environment in force when the `data`
	// declaration was elaborated, captured once. Instantiating a
	// telescope always re-binds every ParamTele/earlier-arg name over
	// Env, so whatever Env already contains is safely shadowed.
	Env *Rho
}

// CtorSpec is one constructor's argument telescope.
type CtorSpec struct {
	Name    string
	ArgTele []core.Param
}

// Lookup returns the constructor spec with the given name, if any.
func (d *DatatypeDef) Lookup(name string) (CtorSpec, bool) {
	for _, c := range d.Ctors {
		if c.Name == name {
			return c, true
		}
	}
	return CtorSpec{}, false
}

// InstantiateArgTypes evaluates a constructor's argument telescope
// against a concrete set of datatype parameters, returning the type
// of each argument in turn. boundNames supplies, for each earlier
// argument position, the name under which that argument is bound in
// the caller's context (a pattern variable, or a fresh name) so later
// argument types that depend on earlier ones read back correctly; it
// may be shorter than ArgTele (equal to the number of argument types
// already needed).
func (d *DatatypeDef) InstantiateArgTypes(spec CtorSpec, params []Value, boundNames []string) ([]Value, error) {
	env := d.Env
	for i, p := range d.ParamTele {
		if i < len(params) {
			env = env.Extend(p.Name, params[i])
		}
	}
	types := make([]Value, len(spec.ArgTele))
	for i, a := range spec.ArgTele {
		ty, err := Eval(a.Type, env)
		if err != nil {
			return nil, err
		}
		types[i] = ty
		if i < len(boundNames) {
			env = env.Extend(a.Name, VNeutral{Ty: ty, Neu: NVar{Name: boundNames[i]}})
		}
	}
	return types, nil
}
