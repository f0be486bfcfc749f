package core

// Renamings holds two parallel maps (left, right) from a name to a
// shared monotone index, used while deciding alpha-equivalence of two
// core terms (spec §3, §4.3): each time a binder is crossed on both
// sides at once, both names get the next index, so bound names that
// differ but occupy the same structural position compare equal while
// free names only match another free occurrence of the identical name.
type Renamings struct {
	left, right map[string]int
	next        int
}

// NewRenamings returns the empty renaming used at the top of a
// fresh alpha-equivalence check.
func NewRenamings() *Renamings {
	return &Renamings{left: map[string]int{}, right: map[string]int{}}
}

// Bind extends both sides with a fresh shared index for lName/rName,
// returning the extended Renamings (structure is copied so the
// receiver is left untouched, matching the immutable-context style
// used by Sigma/Gamma/Rho elsewhere in this kernel).
func (r *Renamings) Bind(lName, rName string) *Renamings {
	nl := make(map[string]int, len(r.left)+1)
	nr := make(map[string]int, len(r.right)+1)
	for k, v := range r.left {
		nl[k] = v
	}
	for k, v := range r.right {
		nr[k] = v
	}
	nl[lName] = r.next
	nr[rName] = r.next
	return &Renamings{left: nl, right: nr, next: r.next + 1}
}

// SameVar decides whether lName (from the left term) and rName (from
// the right term) refer to the same variable under this renaming:
// either both are bound here to the same index, or neither is bound
// here and the names are literally identical (both free).
func (r *Renamings) SameVar(lName, rName string) bool {
	li, lok := r.left[lName]
	ri, rok := r.right[rName]
	if lok != rok {
		return false
	}
	if lok {
		return li == ri
	}
	return lName == rName
}

// AlphaEquiv decides whether two core terms are equal up to renaming
// of bound variables (spec §4.3, invariant I5). It is called on terms
// already produced by read-back of the same value family, so shape
// mismatches simply report "not equivalent" rather than a checker-level
// error.
func AlphaEquiv(a, b Term, r *Renamings) bool {
	switch at := a.(type) {
	case *Var:
		bt, ok := b.(*Var)
		return ok && r.SameVar(at.Name, bt.Name)
	case *U:
		_, ok := b.(*U)
		return ok
	case *Atom:
		_, ok := b.(*Atom)
		return ok
	case *Tick:
		bt, ok := b.(*Tick)
		return ok && at.Sym == bt.Sym
	case *Pi:
		bt, ok := b.(*Pi)
		if !ok || !AlphaEquiv(at.Dom, bt.Dom, r) {
			return false
		}
		return AlphaEquiv(at.Ran, bt.Ran, r.Bind(at.Name, bt.Name))
	case *Lambda:
		bt, ok := b.(*Lambda)
		if !ok {
			return false
		}
		return AlphaEquiv(at.Body, bt.Body, r.Bind(at.Name, bt.Name))
	case *App:
		bt, ok := b.(*App)
		return ok && AlphaEquiv(at.Fun, bt.Fun, r) && AlphaEquiv(at.Arg, bt.Arg, r)
	case *SigmaT:
		bt, ok := b.(*SigmaT)
		if !ok || !AlphaEquiv(at.Fst, bt.Fst, r) {
			return false
		}
		return AlphaEquiv(at.Snd, bt.Snd, r.Bind(at.Name, bt.Name))
	case *Cons:
		bt, ok := b.(*Cons)
		return ok && AlphaEquiv(at.Fst, bt.Fst, r) && AlphaEquiv(at.Snd, bt.Snd, r)
	case *Car:
		bt, ok := b.(*Car)
		return ok && AlphaEquiv(at.Pair, bt.Pair, r)
	case *Cdr:
		bt, ok := b.(*Cdr)
		return ok && AlphaEquiv(at.Pair, bt.Pair, r)
	case *Nat:
		_, ok := b.(*Nat)
		return ok
	case *Zero:
		_, ok := b.(*Zero)
		return ok
	case *Add1:
		bt, ok := b.(*Add1)
		return ok && AlphaEquiv(at.N, bt.N, r)
	case *WhichNat:
		bt, ok := b.(*WhichNat)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.BaseTy, bt.BaseTy, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *IterNat:
		bt, ok := b.(*IterNat)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.BaseTy, bt.BaseTy, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *RecNat:
		bt, ok := b.(*RecNat)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.BaseTy, bt.BaseTy, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *IndNat:
		bt, ok := b.(*IndNat)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.Motive, bt.Motive, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *ListT:
		bt, ok := b.(*ListT)
		return ok && AlphaEquiv(at.Elem, bt.Elem, r)
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *ConsL:
		bt, ok := b.(*ConsL)
		return ok && AlphaEquiv(at.Head, bt.Head, r) && AlphaEquiv(at.Tail, bt.Tail, r)
	case *RecList:
		bt, ok := b.(*RecList)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.BaseTy, bt.BaseTy, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *IndList:
		bt, ok := b.(*IndList)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.Motive, bt.Motive, r) &&
			AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *VecT:
		bt, ok := b.(*VecT)
		return ok && AlphaEquiv(at.Elem, bt.Elem, r) && AlphaEquiv(at.Len, bt.Len, r)
	case *VecNil:
		_, ok := b.(*VecNil)
		return ok
	case *VecCons:
		bt, ok := b.(*VecCons)
		return ok && AlphaEquiv(at.Head, bt.Head, r) && AlphaEquiv(at.Tail, bt.Tail, r)
	case *Head:
		bt, ok := b.(*Head)
		return ok && AlphaEquiv(at.Vec, bt.Vec, r)
	case *Tail:
		bt, ok := b.(*Tail)
		return ok && AlphaEquiv(at.Vec, bt.Vec, r)
	case *IndVec:
		bt, ok := b.(*IndVec)
		return ok && AlphaEquiv(at.Len, bt.Len, r) && AlphaEquiv(at.Target, bt.Target, r) &&
			AlphaEquiv(at.Motive, bt.Motive, r) && AlphaEquiv(at.Base, bt.Base, r) && AlphaEquiv(at.Step, bt.Step, r)
	case *EqualT:
		bt, ok := b.(*EqualT)
		return ok && AlphaEquiv(at.Ty, bt.Ty, r) && AlphaEquiv(at.From, bt.From, r) && AlphaEquiv(at.To, bt.To, r)
	case *Same:
		bt, ok := b.(*Same)
		return ok && AlphaEquiv(at.Mid, bt.Mid, r)
	case *Symm:
		bt, ok := b.(*Symm)
		return ok && AlphaEquiv(at.Eq, bt.Eq, r)
	case *Cong:
		bt, ok := b.(*Cong)
		return ok && AlphaEquiv(at.Eq, bt.Eq, r) && AlphaEquiv(at.Fun, bt.Fun, r) && AlphaEquiv(at.Ty, bt.Ty, r)
	case *Replace:
		bt, ok := b.(*Replace)
		return ok && AlphaEquiv(at.Eq, bt.Eq, r) && AlphaEquiv(at.Motive, bt.Motive, r) && AlphaEquiv(at.Base, bt.Base, r)
	case *Trans:
		bt, ok := b.(*Trans)
		return ok && AlphaEquiv(at.Left, bt.Left, r) && AlphaEquiv(at.Right, bt.Right, r)
	case *IndEqual:
		bt, ok := b.(*IndEqual)
		return ok && AlphaEquiv(at.Eq, bt.Eq, r) && AlphaEquiv(at.Motive, bt.Motive, r) && AlphaEquiv(at.Base, bt.Base, r)
	case *EitherT:
		bt, ok := b.(*EitherT)
		return ok && AlphaEquiv(at.L, bt.L, r) && AlphaEquiv(at.R, bt.R, r)
	case *Inl:
		bt, ok := b.(*Inl)
		return ok && AlphaEquiv(at.Val, bt.Val, r)
	case *Inr:
		bt, ok := b.(*Inr)
		return ok && AlphaEquiv(at.Val, bt.Val, r)
	case *IndEither:
		bt, ok := b.(*IndEither)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.Motive, bt.Motive, r) &&
			AlphaEquiv(at.BaseLeft, bt.BaseLeft, r) && AlphaEquiv(at.BaseRight, bt.BaseRight, r)
	case *Trivial:
		_, ok := b.(*Trivial)
		return ok
	case *Sole:
		_, ok := b.(*Sole)
		return ok
	case *Absurd:
		_, ok := b.(*Absurd)
		return ok
	case *IndAbsurd:
		bt, ok := b.(*IndAbsurd)
		return ok && AlphaEquiv(at.Target, bt.Target, r) && AlphaEquiv(at.Motive, bt.Motive, r)
	case *Datatype:
		bt, ok := b.(*Datatype)
		if !ok || at.Name != bt.Name || len(at.Params) != len(bt.Params) || len(at.Indices) != len(bt.Indices) {
			return false
		}
		for i := range at.Params {
			if !AlphaEquiv(at.Params[i], bt.Params[i], r) {
				return false
			}
		}
		for i := range at.Indices {
			if !AlphaEquiv(at.Indices[i], bt.Indices[i], r) {
				return false
			}
		}
		return true
	case *Constructor:
		bt, ok := b.(*Constructor)
		if !ok || at.Name != bt.Name || at.DataName != bt.DataName || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !AlphaEquiv(at.Args[i], bt.Args[i], r) {
				return false
			}
		}
		return true
	case *Match:
		bt, ok := b.(*Match)
		if !ok || !AlphaEquiv(at.Target, bt.Target, r) || !AlphaEquiv(at.Motive, bt.Motive, r) || len(at.Arms) != len(bt.Arms) {
			return false
		}
		for i := range at.Arms {
			r2, ok := alphaEquivPattern(at.Arms[i].Pattern, bt.Arms[i].Pattern, r)
			if !ok {
				return false
			}
			if !AlphaEquiv(at.Arms[i].Body, bt.Arms[i].Body, r2) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// alphaEquivPattern checks two patterns have the same shape and
// extends the Renamings in lock-step over the variables each binds,
// for use by the arm bodies that follow (spec §4.6's
// extend_renamings operation).
func alphaEquivPattern(a, b Pattern, r *Renamings) (*Renamings, bool) {
	switch at := a.(type) {
	case PatternHole:
		_, ok := b.(PatternHole)
		return r, ok
	case PatternVar:
		bt, ok := b.(PatternVar)
		if !ok {
			return r, false
		}
		return r.Bind(at.Name, bt.Name), true
	case PatternAtom:
		bt, ok := b.(PatternAtom)
		return r, ok && at.Sym == bt.Sym
	case PatternCons:
		bt, ok := b.(PatternCons)
		if !ok {
			return r, false
		}
		r1, ok := alphaEquivPattern(at.Head, bt.Head, r)
		if !ok {
			return r, false
		}
		return alphaEquivPattern(at.Tail, bt.Tail, r1)
	case PatternCtor:
		bt, ok := b.(PatternCtor)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return r, false
		}
		cur := r
		for i := range at.Args {
			next, ok := alphaEquivPattern(at.Args[i], bt.Args[i], cur)
			if !ok {
				return r, false
			}
			cur = next
		}
		return cur, true
	default:
		return r, false
	}
}
