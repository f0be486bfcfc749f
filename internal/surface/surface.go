// Package surface defines the surface-expression and top-level-form
// AST that package parser produces, and that the bidirectional
// checker (package checker) consumes to elaborate into package core
// terms (spec.md §4.4, §6).
package surface

import (
	"fmt"
	"strings"

	"github.com/sunholo/piekernel/internal/ast"
)

// Node is embedded by every Expr to carry source position.
type Node struct{ Pos ast.Pos }

func (n Node) Span() ast.Pos { return n.Pos }

// Expr is the base interface for every surface expression.
type Expr interface {
	Span() ast.Pos
	String() string
	surfaceExpr()
}

type Var struct {
	Node
	Name string
}
type Tick struct {
	Node
	Sym string
}

// The destructured n-ary Pi/Sigma/Pair/-> forms from spec.md §6 are
// desugared by the parser into these binary nodes before the checker
// ever sees them (spec §4.4: "n-ary Pair/Sigma/Pi/-> desugar
// right-associatively into binary core forms with fresh binders for
// non-dependent positions" — the parser performs that desugaring at
// the surface level so the checker only ever handles the binary
// shape).
type Pi struct {
	Node
	Name     string
	Dom, Ran Expr
}
type Sigma struct {
	Node
	Name     string
	Fst, Snd Expr
}

type The struct {
	Node
	Type, Value Expr
}
type Lambda struct {
	Node
	Param string
	Body  Expr
}
type App struct {
	Node
	Fun, Arg Expr
}
type Cons struct {
	Node
	Fst, Snd Expr
}
type Car struct {
	Node
	Pair Expr
}
type Cdr struct {
	Node
	Pair Expr
}

type U struct{ Node }
type Atom struct{ Node }
type NatT struct{ Node }
type Zero struct{ Node }
type Add1 struct {
	Node
	N Expr
}

type WhichNat struct {
	Node
	Target, Base, Step Expr
}
type IterNat struct {
	Node
	Target, Base, Step Expr
}
type RecNat struct {
	Node
	Target, Base, Step Expr
}
type IndNat struct {
	Node
	Target, Motive, Base, Step Expr
}

type ListT struct {
	Node
	Elem Expr
}
type Nil struct{ Node }
type ConsL struct {
	Node
	Head, Tail Expr
}
type RecList struct {
	Node
	Target, Base, Step Expr
}
type IndList struct {
	Node
	Target, Motive, Base, Step Expr
}

type VecT struct {
	Node
	Elem, Len Expr
}
type VecNil struct{ Node }
type VecCons struct {
	Node
	Head, Tail Expr
}
type Head struct {
	Node
	Vec Expr
}
type Tail struct {
	Node
	Vec Expr
}
type IndVec struct {
	Node
	Len, Target, Motive, Base, Step Expr
}

type EqualT struct {
	Node
	Ty, From, To Expr
}
type Same struct {
	Node
	Mid Expr
}
type Symm struct {
	Node
	Eq Expr
}
type Cong struct {
	Node
	Eq, Fun Expr
}
type Replace struct {
	Node
	Eq, Motive, Base Expr
}
type Trans struct {
	Node
	Left, Right Expr
}
type IndEqual struct {
	Node
	Eq, Motive, Base Expr
}

type EitherT struct {
	Node
	L, R Expr
}
type Inl struct {
	Node
	Val Expr
}
type Inr struct {
	Node
	Val Expr
}
type IndEither struct {
	Node
	Target, Motive, BaseLeft, BaseRight Expr
}

type Trivial struct{ Node }
type Sole struct{ Node }
type Absurd struct{ Node }
type IndAbsurd struct {
	Node
	Target, Motive Expr
}

// Match is the surface `match` expression. The grammar carries no
// explicit motive; the checker infers the result type from the first
// arm (or from the expected type, in checking mode).
type Match struct {
	Node
	Target Expr
	Arms   []Arm
}
type Arm struct {
	Pattern Pattern
	Body    Expr
}

func (Var) surfaceExpr()       {}
func (Tick) surfaceExpr()      {}
func (Pi) surfaceExpr()        {}
func (Sigma) surfaceExpr()     {}
func (The) surfaceExpr()       {}
func (Lambda) surfaceExpr()    {}
func (App) surfaceExpr()       {}
func (Cons) surfaceExpr()      {}
func (Car) surfaceExpr()       {}
func (Cdr) surfaceExpr()       {}
func (U) surfaceExpr()         {}
func (Atom) surfaceExpr()      {}
func (NatT) surfaceExpr()      {}
func (Zero) surfaceExpr()      {}
func (Add1) surfaceExpr()      {}
func (WhichNat) surfaceExpr()  {}
func (IterNat) surfaceExpr()   {}
func (RecNat) surfaceExpr()    {}
func (IndNat) surfaceExpr()    {}
func (ListT) surfaceExpr()     {}
func (Nil) surfaceExpr()       {}
func (ConsL) surfaceExpr()     {}
func (RecList) surfaceExpr()   {}
func (IndList) surfaceExpr()   {}
func (VecT) surfaceExpr()      {}
func (VecNil) surfaceExpr()    {}
func (VecCons) surfaceExpr()   {}
func (Head) surfaceExpr()      {}
func (Tail) surfaceExpr()      {}
func (IndVec) surfaceExpr()    {}
func (EqualT) surfaceExpr()    {}
func (Same) surfaceExpr()      {}
func (Symm) surfaceExpr()      {}
func (Cong) surfaceExpr()      {}
func (Replace) surfaceExpr()   {}
func (Trans) surfaceExpr()     {}
func (IndEqual) surfaceExpr()  {}
func (EitherT) surfaceExpr()   {}
func (Inl) surfaceExpr()       {}
func (Inr) surfaceExpr()       {}
func (IndEither) surfaceExpr() {}
func (Trivial) surfaceExpr()   {}
func (Sole) surfaceExpr()      {}
func (Absurd) surfaceExpr()    {}
func (IndAbsurd) surfaceExpr() {}
func (Match) surfaceExpr()     {}

func (v *Var) String() string  { return v.Name }
func (t *Tick) String() string { return "'" + t.Sym }
func (p *Pi) String() string {
	return fmt.Sprintf("(Pi ((%s %s)) %s)", p.Name, p.Dom, p.Ran)
}
func (s *Sigma) String() string {
	return fmt.Sprintf("(Sigma ((%s %s)) %s)", s.Name, s.Fst, s.Snd)
}
func (t *The) String() string    { return fmt.Sprintf("(the %s %s)", t.Type, t.Value) }
func (l *Lambda) String() string { return fmt.Sprintf("(lambda (%s) %s)", l.Param, l.Body) }
func (a *App) String() string    { return fmt.Sprintf("(%s %s)", a.Fun, a.Arg) }
func (c *Cons) String() string   { return fmt.Sprintf("(cons %s %s)", c.Fst, c.Snd) }
func (c *Car) String() string    { return fmt.Sprintf("(car %s)", c.Pair) }
func (c *Cdr) String() string    { return fmt.Sprintf("(cdr %s)", c.Pair) }
func (U) String() string         { return "U" }
func (Atom) String() string      { return "Atom" }
func (NatT) String() string      { return "Nat" }
func (Zero) String() string      { return "zero" }
func (a *Add1) String() string   { return fmt.Sprintf("(add1 %s)", a.N) }
func (w *WhichNat) String() string {
	return fmt.Sprintf("(which-Nat %s %s %s)", w.Target, w.Base, w.Step)
}
func (n *IterNat) String() string {
	return fmt.Sprintf("(iter-Nat %s %s %s)", n.Target, n.Base, n.Step)
}
func (n *RecNat) String() string { return fmt.Sprintf("(rec-Nat %s %s %s)", n.Target, n.Base, n.Step) }
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
func (m *Match) String() string {
	parts := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		parts[i] = fmt.Sprintf("(%s %s)", a.Pattern, a.Body)
	}
	return fmt.Sprintf("(match %s %s)", m.Target, strings.Join(parts, " "))
}

// Pattern is the surface form of a match arm's pattern (spec §6, §4.6).
type Pattern interface {
	Span() ast.Pos
	String() string
	surfacePattern()
}

type PatternHole struct{ Node }
type PatternVar struct {
	Node
	Name string
}
type PatternAtom struct {
	Node
	Sym string
}
type PatternCons struct {
	Node
	Head, Tail Pattern
}
type PatternCtor struct {
	Node
	Name string
	Args []Pattern
}

func (PatternHole) surfacePattern() {}
func (PatternVar) surfacePattern()  {}
func (PatternAtom) surfacePattern() {}
func (PatternCons) surfacePattern() {}
func (PatternCtor) surfacePattern() {}

func (PatternHole) String() string   { return "_" }
func (v PatternVar) String() string  { return v.Name }
func (a PatternAtom) String() string { return "'" + a.Sym }
func (c PatternCons) String() string { return fmt.Sprintf("(cons %s %s)", c.Head, c.Tail) }
func (c PatternCtor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s %s)", c.Name, strings.Join(parts, " "))
}

// ---- Top-level forms ----

type Toplevel interface {
	Span() ast.Pos
	surfaceToplevel()
}

type Claim struct {
	Node
	Name string
	Type Expr
}
type Define struct {
	Node
	Name  string
	Value Expr
}
type CheckSame struct {
	Node
	Type, Lhs, Rhs Expr
}

// Param is one telescope entry of a `data` declaration: a name and
// its (surface) type, which may mention earlier names in the same
// telescope (spec §4.5).
type Param struct {
	Name string
	Type Expr
}

// DataConstr is one constructor clause of a `data` declaration:
// `(NAME (NAME expr)* (DNAME expr*))` — an argument telescope
// followed by an explicit result type naming the owning datatype;
// ResultIdxs holds its parameter arguments followed by its index
// arguments.
type DataConstr struct {
	Name       string
	Args       []Param
	ResultName string
	ResultIdxs []Expr
}

type Data struct {
	Node
	Name         string
	Params       []Param
	Indices      []Param
	Constructors []DataConstr
}

func (Claim) surfaceToplevel()     {}
func (Define) surfaceToplevel()    {}
func (CheckSame) surfaceToplevel() {}
func (Data) surfaceToplevel()      {}
