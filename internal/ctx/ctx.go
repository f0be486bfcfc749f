// Package ctx implements the ordered, immutable, append-only contexts
// of spec.md §3: Sigma (global program state) and Gamma (Sigma plus
// local HasType bindings introduced under binders). Both are modelled
// by the same persistent linked structure, since Gamma is literally
// "Sigma plus more entries of a third kind" and every operation
// (lookup, fresh, GammaToRho) treats them uniformly.
package ctx

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/value"
)

// Kind distinguishes the three entry shapes spec §3 describes:
// Claim/Define live in Sigma (and are visible through Gamma); HasType
// only ever appears in a local Gamma built by the checker under a
// binder.
type Kind int

const (
	ClaimKind Kind = iota
	DefineKind
	HasTypeKind
)

// Entry is one binding in a Context.
type Entry struct {
	Kind Kind
	Name string
	Type value.Value // Claim, HasType
	Val  value.Value // Define
}

// Context is a persistent, append-only, ordered sequence of Entry,
// shared structure with its predecessor on Extend (spec §5: no
// mutation in place).
type Context struct {
	entry  Entry
	parent *Context
}

// Empty is the context with no bindings (the starting Sigma/Gamma of
// a fresh top-level driver run).
var Empty = (*Context)(nil)

// Extend returns a new Context with entry appended, shadowing any
// earlier entry of the same name for subsequent lookups.
func (c *Context) Extend(e Entry) *Context {
	return &Context{entry: e, parent: c}
}

// Claim appends a Claim(name, type) entry.
func (c *Context) Claim(name string, typ value.Value) *Context {
	return c.Extend(Entry{Kind: ClaimKind, Name: name, Type: typ})
}

// Define appends a Define(name, val) entry.
func (c *Context) Define(name string, val value.Value) *Context {
	return c.Extend(Entry{Kind: DefineKind, Name: name, Val: val})
}

// HasType appends a local HasType(name, type) entry (Gamma-only; used
// when the checker extends Gamma under a binder).
func (c *Context) HasType(name string, typ value.Value) *Context {
	return c.Extend(Entry{Kind: HasTypeKind, Name: name, Type: typ})
}

// Entries returns the context's entries, oldest first (the canonical
// Sigma ordering; used by the REPL's :sigma listing).
func (c *Context) Entries() []Entry {
	var rev []Entry
	for f := c; f != nil; f = f.parent {
		rev = append(rev, f.entry)
	}
	out := make([]Entry, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}

// Has reports whether any entry of the given name exists.
func (c *Context) Has(name string) bool {
	for f := c; f != nil; f = f.parent {
		if f.entry.Name == name {
			return true
		}
	}
	return false
}

// Fresh returns a name derived from base unused anywhere in c, by
// monotone suffixing (spec §9's freshening scheme, shared with
// read-back's Bound.Fresh): base, base1, base2, ...
func (c *Context) Fresh(base string) string {
	name := base
	if name == "" || name == "_" {
		name = "x"
	}
	for i := 1; c.Has(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}

// Bound collects every name bound in c into a read-back Bound, oldest
// entry first, so fresh names picked during read-back never collide
// with a name already in scope.
func (c *Context) Bound() value.Bound {
	var names []string
	for f := c; f != nil; f = f.parent {
		names = append(names, f.entry.Name)
	}
	var b value.Bound
	seen := map[string]bool{}
	for i := len(names) - 1; i >= 0; i-- {
		if !seen[names[i]] {
			seen[names[i]] = true
			_, b = b.Fresh(names[i])
		}
	}
	return b
}

// TypeOf implements the Var rule of spec §4.4: look up the latest
// HasType, or the Claim corresponding to the latest Define, or a bare
// forward Claim, for name.
func (c *Context) TypeOf(name string) (value.Value, bool) {
	for f := c; f != nil; f = f.parent {
		if f.entry.Name != name {
			continue
		}
		switch f.entry.Kind {
		case HasTypeKind, ClaimKind:
			return f.entry.Type, true
		case DefineKind:
			// Invariant I2: a claim precedes every define for the same
			// name; keep scanning backward past this Define for it.
			for g := f.parent; g != nil; g = g.parent {
				if g.entry.Name == name && g.entry.Kind == ClaimKind {
					return g.entry.Type, true
				}
			}
			return nil, false
		}
	}
	return nil, false
}

// ValueOf returns the Define'd value for name, if this context (or an
// ancestor) defines it — used by GammaToRho to decide between binding
// the claimed value or a neutral placeholder.
func (c *Context) ValueOf(name string) (value.Value, bool) {
	for f := c; f != nil; f = f.parent {
		if f.entry.Name != name {
			continue
		}
		switch f.entry.Kind {
		case DefineKind:
			return f.entry.Val, true
		case ClaimKind, HasTypeKind:
			return nil, false
		}
	}
	return nil, false
}

// ToRho derives the runtime environment the evaluator uses from this
// context (spec §3: "rho... Derived from Gamma by replacing every
// Claim(x,T) with a neutral x:T"). Entries are folded oldest-first so
// later entries correctly shadow earlier ones in the result.
func (c *Context) ToRho() *value.Rho {
	if c == nil {
		return value.EmptyRho
	}
	rho := c.parent.ToRho()
	switch c.entry.Kind {
	case DefineKind:
		return rho.Extend(c.entry.Name, c.entry.Val)
	case ClaimKind, HasTypeKind:
		return rho.Extend(c.entry.Name, value.VNeutral{
			Ty:  c.entry.Type,
			Neu: value.NVar{Name: c.entry.Name},
		})
	default:
		return rho
	}
}
