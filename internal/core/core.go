// Package core defines the well-typed core term language that the
// checker elaborates surface expressions into, and the purely
// structural operations (alpha-equivalence) that do not require the
// value domain.
//
// Evaluation (core.Term, rho -> value.Value) and read-back live in
// package value, which imports this package; this package never
// imports value, so that the Term/Value mutual recursion does not
// become a Go import cycle.
package core

import (
	"fmt"
	"strings"

	"github.com/sunholo/piekernel/internal/ast"
)

// Node is embedded by every Term to carry source position.
type Node struct {
	Pos ast.Pos
}

func (n Node) Span() ast.Pos { return n.Pos }

// Term is the base interface for every core expression.
type Term interface {
	Span() ast.Pos
	String() string
	coreTerm()
}

// ---- Variables and universes ----

type Var struct {
	Node
	Name string
}

type U struct{ Node }

type Atom struct{ Node }

type Tick struct {
	Node
	Sym string
}

// ---- Dependent products ----

type Pi struct {
	Node
	Name string
	Dom  Term
	Ran  Term
}

type Lambda struct {
	Node
	Name string
	Body Term
}

type App struct {
	Node
	Fun Term
	Arg Term
}

// ---- Dependent sums ----

type SigmaT struct {
	Node
	Name string
	Fst  Term
	Snd  Term
}

type Cons struct {
	Node
	Fst, Snd Term
}

type Car struct {
	Node
	Pair Term
}

type Cdr struct {
	Node
	Pair Term
}

// ---- Naturals ----

type Nat struct{ Node }
type Zero struct{ Node }
type Add1 struct {
	Node
	N Term
}

type WhichNat struct {
	Node
	Target Term
	BaseTy Term
	Base   Term
	Step   Term
}

type IterNat struct {
	Node
	Target Term
	BaseTy Term
	Base   Term
	Step   Term
}

type RecNat struct {
	Node
	Target Term
	BaseTy Term
	Base   Term
	Step   Term
}

type IndNat struct {
	Node
	Target Term
	Motive Term
	Base   Term
	Step   Term
}

// ---- Lists ----

type ListT struct {
	Node
	Elem Term
}
type Nil struct{ Node }
type ConsL struct {
	Node
	Head, Tail Term
}

type RecList struct {
	Node
	Target Term
	BaseTy Term
	Base   Term
	Step   Term
}

type IndList struct {
	Node
	Target Term
	Motive Term
	Base   Term
	Step   Term
}

// ---- Vectors ----

type VecT struct {
	Node
	Elem Term
	Len  Term
}
type VecNil struct{ Node }
type VecCons struct {
	Node
	Head, Tail Term
}
type Head struct {
	Node
	Vec Term
}
type Tail struct {
	Node
	Vec Term
}
type IndVec struct {
	Node
	Len    Term
	Target Term
	Motive Term
	Base   Term
	Step   Term
}

// ---- Equality ----

type EqualT struct {
	Node
	Ty   Term
	From Term
	To   Term
}
type Same struct {
	Node
	Mid Term
}
type Symm struct {
	Node
	Eq Term
}

// Cong's Ty is the codomain of Fun, reified by the checker (which
// always synthesizes Fun's Pi type in order to check Cong itself) so
// that evaluation never needs to re-infer a function value's type.
type Cong struct {
	Node
	Eq  Term
	Fun Term
	Ty  Term
}
type Replace struct {
	Node
	Eq     Term
	Motive Term
	Base   Term
}
type Trans struct {
	Node
	Left, Right Term
}
type IndEqual struct {
	Node
	Eq     Term
	Motive Term
	Base   Term
}

// ---- Coproducts ----

type EitherT struct {
	Node
	L, R Term
}
type Inl struct {
	Node
	Val Term
}
type Inr struct {
	Node
	Val Term
}
type IndEither struct {
	Node
	Target    Term
	Motive    Term
	BaseLeft  Term
	BaseRight Term
}

// ---- Units and the empty type ----

type Trivial struct{ Node }
type Sole struct{ Node }
type Absurd struct{ Node }
type IndAbsurd struct {
	Node
	Target Term
	Motive Term
}

// ---- User-defined datatypes ----

// Param is a single entry of a telescope: a name and its type (the
// type may mention earlier names in the same telescope).
type Param struct {
	Name string
	Type Term
}

// Datatype is the core form produced by elaborating a `data`
// declaration's type former: `D(params, indices, constructors)`.
type Datatype struct {
	Node
	Name         string
	Params       []Term // actual parameter arguments at this use site
	Indices      []Term // actual index arguments at this use site
	ParamTele    []Param
	IndexTele    []Param
	Constructors []ConstructorSig
}

// ConstructorSig names a constructor owned by a Datatype together with
// the argument telescope used to check/build its applications.
type ConstructorSig struct {
	Name      string
	ArgTele   []Param
	ResultIdx []Term // the indices the constructor's result type fixes
}

// Constructor is the core form of a saturated constructor application:
// `c(args)` tagged with the datatype it belongs to.
type Constructor struct {
	Node
	Name     string
	DataName string
	Args     []Term
}

// Match is the core form of a `match` expression/neutral.
type Match struct {
	Node
	Target Term
	Arms   []Arm
	Motive Term // T_b, the result type of every arm
}

type Arm struct {
	Pattern Pattern
	Body    Term
}

func (Var) coreTerm()         {}
func (U) coreTerm()           {}
func (Atom) coreTerm()        {}
func (Tick) coreTerm()        {}
func (Pi) coreTerm()          {}
func (Lambda) coreTerm()      {}
func (App) coreTerm()         {}
func (SigmaT) coreTerm()      {}
func (Cons) coreTerm()        {}
func (Car) coreTerm()         {}
func (Cdr) coreTerm()         {}
func (Nat) coreTerm()         {}
func (Zero) coreTerm()        {}
func (Add1) coreTerm()        {}
func (WhichNat) coreTerm()    {}
func (IterNat) coreTerm()     {}
func (RecNat) coreTerm()      {}
func (IndNat) coreTerm()      {}
func (ListT) coreTerm()       {}
func (Nil) coreTerm()         {}
func (ConsL) coreTerm()       {}
func (RecList) coreTerm()     {}
func (IndList) coreTerm()     {}
func (VecT) coreTerm()        {}
func (VecNil) coreTerm()      {}
func (VecCons) coreTerm()     {}
func (Head) coreTerm()        {}
func (Tail) coreTerm()        {}
func (IndVec) coreTerm()      {}
func (EqualT) coreTerm()      {}
func (Same) coreTerm()        {}
func (Symm) coreTerm()        {}
func (Cong) coreTerm()        {}
func (Replace) coreTerm()     {}
func (Trans) coreTerm()       {}
func (IndEqual) coreTerm()    {}
func (EitherT) coreTerm()     {}
func (Inl) coreTerm()         {}
func (Inr) coreTerm()         {}
func (IndEither) coreTerm()   {}
func (Trivial) coreTerm()     {}
func (Sole) coreTerm()        {}
func (Absurd) coreTerm()      {}
func (IndAbsurd) coreTerm()   {}
func (Datatype) coreTerm()    {}
func (Constructor) coreTerm() {}
func (Match) coreTerm()       {}

func (v *Var) String() string  { return v.Name }
func (U) String() string       { return "U" }
func (Atom) String() string    { return "Atom" }
func (t *Tick) String() string { return "'" + t.Sym }
func (p *Pi) String() string {
	return fmt.Sprintf("(Pi ((%s %s)) %s)", p.Name, p.Dom, p.Ran)
}
func (l *Lambda) String() string { return fmt.Sprintf("(lambda (%s) %s)", l.Name, l.Body) }
func (a *App) String() string    { return fmt.Sprintf("(%s %s)", a.Fun, a.Arg) }
func (s *SigmaT) String() string {
	return fmt.Sprintf("(Sigma ((%s %s)) %s)", s.Name, s.Fst, s.Snd)
}
func (c *Cons) String() string { return fmt.Sprintf("(cons %s %s)", c.Fst, c.Snd) }
func (c *Car) String() string  { return fmt.Sprintf("(car %s)", c.Pair) }
func (c *Cdr) String() string  { return fmt.Sprintf("(cdr %s)", c.Pair) }
func (Nat) String() string     { return "Nat" }
func (Zero) String() string    { return "zero" }
func (a *Add1) String() string { return fmt.Sprintf("(add1 %s)", a.N) }
func (w *WhichNat) String() string {
	return fmt.Sprintf("(which-Nat %s %s %s)", w.Target, w.Base, w.Step)
}
func (n *IterNat) String() string {
	return fmt.Sprintf("(iter-Nat %s %s %s)", n.Target, n.Base, n.Step)
}
func (n *RecNat) String() string {
	return fmt.Sprintf("(rec-Nat %s %s %s)", n.Target, n.Base, n.Step)
}
func (n *IndNat) String() string {
	return fmt.Sprintf("(ind-Nat %s %s %s %s)", n.Target, n.Motive, n.Base, n.Step)
}
func (l *ListT) String() string { return fmt.Sprintf("(List %s)", l.Elem) }
func (Nil) String() string      { return "nil" }
func (c *ConsL) String() string { return fmt.Sprintf("(:: %s %s)", c.Head, c.Tail) }
func (r *RecList) String() string {
	return fmt.Sprintf("(rec-List %s %s %s)", r.Target, r.Base, r.Step)
}
func (i *IndList) String() string {
	return fmt.Sprintf("(ind-List %s %s %s %s)", i.Target, i.Motive, i.Base, i.Step)
}
func (v *VecT) String() string { return fmt.Sprintf("(Vec %s %s)", v.Elem, v.Len) }
func (VecNil) String() string  { return "vecnil" }
func (v *VecCons) String() string {
	return fmt.Sprintf("(vec:: %s %s)", v.Head, v.Tail)
}
func (h *Head) String() string { return fmt.Sprintf("(head %s)", h.Vec) }
func (t *Tail) String() string { return fmt.Sprintf("(tail %s)", t.Vec) }
func (i *IndVec) String() string {
	return fmt.Sprintf("(ind-Vec %s %s %s %s %s)", i.Len, i.Target, i.Motive, i.Base, i.Step)
}
func (e *EqualT) String() string { return fmt.Sprintf("(= %s %s %s)", e.Ty, e.From, e.To) }
func (s *Same) String() string   { return fmt.Sprintf("(same %s)", s.Mid) }
func (s *Symm) String() string   { return fmt.Sprintf("(symm %s)", s.Eq) }
func (c *Cong) String() string   { return fmt.Sprintf("(cong %s %s)", c.Eq, c.Fun) }
func (r *Replace) String() string {
	return fmt.Sprintf("(replace %s %s %s)", r.Eq, r.Motive, r.Base)
}
func (t *Trans) String() string { return fmt.Sprintf("(trans %s %s)", t.Left, t.Right) }
func (i *IndEqual) String() string {
	return fmt.Sprintf("(ind-= %s %s %s)", i.Eq, i.Motive, i.Base)
}
func (e *EitherT) String() string { return fmt.Sprintf("(Either %s %s)", e.L, e.R) }
func (i *Inl) String() string     { return fmt.Sprintf("(left %s)", i.Val) }
func (i *Inr) String() string     { return fmt.Sprintf("(right %s)", i.Val) }
func (i *IndEither) String() string {
	return fmt.Sprintf("(ind-Either %s %s %s %s)", i.Target, i.Motive, i.BaseLeft, i.BaseRight)
}
func (Trivial) String() string { return "Trivial" }
func (Sole) String() string    { return "sole" }
func (Absurd) String() string  { return "Absurd" }
func (i *IndAbsurd) String() string {
	return fmt.Sprintf("(ind-Absurd %s %s)", i.Target, i.Motive)
}
func (d *Datatype) String() string { return fmt.Sprintf("%s(...)", d.Name) }
func (c *Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s %s)", c.Name, strings.Join(parts, " "))
}
func (m *Match) String() string {
	parts := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		parts[i] = fmt.Sprintf("(%s %s)", a.Pattern, a.Body)
	}
	return fmt.Sprintf("(match %s %s)", m.Target, strings.Join(parts, " "))
}
