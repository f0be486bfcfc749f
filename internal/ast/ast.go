// Package ast provides the source-position types shared by the lexer,
// parser, surface syntax, and core terms.
package ast

import "fmt"

// Pos represents a single point in source code.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

// Span represents a range in source code.
type Span struct {
	Start Pos
	End   Pos
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}
