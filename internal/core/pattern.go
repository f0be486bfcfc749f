package core

import (
	"fmt"
	"strings"

	"github.com/sunholo/piekernel/internal/ast"
)

// Pattern is the core form of a match arm's pattern: a hole, a bound
// variable, an atom literal, a cons pattern, or a saturated
// constructor pattern naming one of a datatype's constructors.
type Pattern interface {
	Span() ast.Pos
	String() string
	corePattern()
}

// PatternHole is `_`: matches anything, binds nothing.
type PatternHole struct{ Node }

// PatternVar binds the scrutinee (or scrutinee component) to Name.
type PatternVar struct {
	Node
	Name string
}

// PatternAtom matches the literal atom 'Sym.
type PatternAtom struct {
	Node
	Sym string
}

// PatternCons is the pattern (cons p p). The checker admits it only
// against a Sigma type; at evaluation it also matches List and Vec
// cons cells.
type PatternCons struct {
	Node
	Head, Tail Pattern
}

// PatternCtor matches a saturated application of constructor Name,
// binding each argument to the corresponding sub-pattern.
type PatternCtor struct {
	Node
	Name string
	Args []Pattern
}

func (PatternHole) corePattern() {}
func (PatternVar) corePattern()  {}
func (PatternAtom) corePattern() {}
func (PatternCons) corePattern() {}
func (PatternCtor) corePattern() {}

func (PatternHole) String() string   { return "_" }
func (v PatternVar) String() string  { return v.Name }
func (a PatternAtom) String() string { return "'" + a.Sym }
func (c PatternCons) String() string {
	return fmt.Sprintf("(cons %s %s)", c.Head, c.Tail)
}
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
