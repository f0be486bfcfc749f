// Package value defines the semantic domain that the core evaluator
// (eval.go) produces and that read-back (readback.go) turns back into
// core terms for definitional-equality checking.
//
// This package imports core (for Closure bodies and datatype
// telescopes) but core never imports value, which breaks what would
// otherwise be a Term/Value mutual-recursion import cycle.
package value

import (
	"fmt"
	"strings"

	"github.com/sunholo/piekernel/internal/core"
)

// Value is the base interface for every member of the semantic domain:
// types, canonical constructors, and neutrals.
type Value interface {
	String() string
	isValue()
}

// Closure pairs an environment with an unevaluated core body; forcing
// it (Instantiate) evaluates the body under the environment extended
// by the bound name. Spec invariant I3: a closure's reads never leak
// names unbound in its Env plus its eventual argument.
type Closure struct {
	Env   *Rho
	Param string
	Body  core.Term
	// Native, when set, is used instead of Body/Env: a closure computed
	// from values rather than arising from surface syntax (e.g. the
	// non-dependent step type of iter-Nat, or a motive-derived Pi built
	// by an eliminator). See ConstClosure/NonDepPi in apply.go.
	Native func(Value) (Value, error)
}

// Instantiate evaluates the closure's body under Env extended by
// Param -> arg, or invokes Native if this is a computed closure.
func (c *Closure) Instantiate(arg Value) (Value, error) {
	if c.Native != nil {
		return c.Native(arg)
	}
	return Eval(c.Body, c.Env.Extend(c.Param, arg))
}

// Normal pairs a value with the type it was read back at, which is
// what makes read-back unambiguous (spec §3).
type Normal struct {
	Val Value
	Ty  Value
}

// ---- Types ----

type VU struct{}
type VAtom struct{}
type VNat struct{}
type VTrivial struct{}
type VAbsurd struct{}

type VList struct{ Elem Value }
type VVec struct {
	Elem Value
	Len  Value
}
type VPi struct {
	Name string
	Dom  Value
	Ran  *Closure
}
type VSigma struct {
	Name string
	Fst  Value
	Snd  *Closure
}
type VEither struct{ L, R Value }
type VEqual struct{ Ty, From, To Value }

// VDatatype is a use of a user-defined datatype: `D params indices`.
type VDatatype struct {
	Def     *DatatypeDef
	Params  []Value
	Indices []Value
}

// ---- Constructors (canonical forms) ----

type VZero struct{}
type VAdd1 struct{ N Value }

type VNil struct{}
type VListCons struct{ Head, Tail Value }

type VVecNil struct{}
type VVecCons struct{ Head, Tail Value }

type VPair struct{ Fst, Snd Value }

type VSame struct{ Mid Value }

type VInl struct{ Val Value }
type VInr struct{ Val Value }

type VTick struct{ Sym string }
type VSole struct{}

type VLambda struct {
	Name string
	Body *Closure
}

// VConstr is a saturated application of a user-defined constructor,
// tagged with the name of the datatype it belongs to.
type VConstr struct {
	Name     string
	DataName string
	Args     []Value
}

// ---- Neutral ----

// VNeutral is a stuck computation paired with the type it would have
// if it could reduce (spec invariant I1).
type VNeutral struct {
	Ty  Value
	Neu Neutral
}

func (VU) isValue()        {}
func (VAtom) isValue()     {}
func (VNat) isValue()      {}
func (VTrivial) isValue()  {}
func (VAbsurd) isValue()   {}
func (VList) isValue()     {}
func (VVec) isValue()      {}
func (VPi) isValue()       {}
func (VSigma) isValue()    {}
func (VEither) isValue()   {}
func (VEqual) isValue()    {}
func (VDatatype) isValue() {}
func (VZero) isValue()     {}
func (VAdd1) isValue()     {}
func (VNil) isValue()      {}
func (VListCons) isValue() {}
func (VVecNil) isValue()   {}
func (VVecCons) isValue()  {}
func (VPair) isValue()     {}
func (VSame) isValue()     {}
func (VInl) isValue()      {}
func (VInr) isValue()      {}
func (VTick) isValue()     {}
func (VSole) isValue()     {}
func (VLambda) isValue()   {}
func (VConstr) isValue()   {}
func (VNeutral) isValue()  {}

func (VU) String() string       { return "U" }
func (VAtom) String() string    { return "Atom" }
func (VNat) String() string     { return "Nat" }
func (VTrivial) String() string { return "Trivial" }
func (VAbsurd) String() string  { return "Absurd" }
func (l VList) String() string  { return fmt.Sprintf("(List %s)", l.Elem) }
func (v VVec) String() string   { return fmt.Sprintf("(Vec %s %s)", v.Elem, v.Len) }
func (p VPi) String() string    { return fmt.Sprintf("(Pi ((%s %s)) ...)", p.Name, p.Dom) }
func (s VSigma) String() string { return fmt.Sprintf("(Sigma ((%s %s)) ...)", s.Name, s.Fst) }
func (e VEither) String() string {
	return fmt.Sprintf("(Either %s %s)", e.L, e.R)
}
func (e VEqual) String() string { return fmt.Sprintf("(= %s %s %s)", e.Ty, e.From, e.To) }
func (d VDatatype) String() string {
	parts := make([]string, 0, len(d.Params)+len(d.Indices))
	for _, p := range d.Params {
		parts = append(parts, p.String())
	}
	for _, i := range d.Indices {
		parts = append(parts, i.String())
	}
	if len(parts) == 0 {
		return d.Def.Name
	}
	return fmt.Sprintf("(%s %s)", d.Def.Name, strings.Join(parts, " "))
}
func (VZero) String() string       { return "zero" }
func (a VAdd1) String() string     { return fmt.Sprintf("(add1 %s)", a.N) }
func (VNil) String() string        { return "nil" }
func (c VListCons) String() string { return fmt.Sprintf("(:: %s %s)", c.Head, c.Tail) }
func (VVecNil) String() string     { return "vecnil" }
func (c VVecCons) String() string  { return fmt.Sprintf("(vec:: %s %s)", c.Head, c.Tail) }
func (p VPair) String() string     { return fmt.Sprintf("(cons %s %s)", p.Fst, p.Snd) }
func (s VSame) String() string     { return fmt.Sprintf("(same %s)", s.Mid) }
func (i VInl) String() string      { return fmt.Sprintf("(left %s)", i.Val) }
func (i VInr) String() string      { return fmt.Sprintf("(right %s)", i.Val) }
func (t VTick) String() string     { return "'" + t.Sym }
func (VSole) String() string       { return "sole" }
func (l VLambda) String() string   { return fmt.Sprintf("(lambda (%s) ...)", l.Name) }
func (c VConstr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	if len(parts) == 0 {
		return c.Name
	}
	return fmt.Sprintf("(%s %s)", c.Name, strings.Join(parts, " "))
}
func (n VNeutral) String() string { return n.Neu.String() }
