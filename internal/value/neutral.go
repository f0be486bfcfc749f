package value

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/core"
)

// Neutral is a stuck computation: an eliminator applied, directly or
// transitively, to a free variable. Each core eliminator gets its own
// constructor here (design note: do not coalesce into one generic
// Stuck(name, args) — read-back needs to reconstruct the exact
// surrounding syntax for each).
type Neutral interface {
	String() string
	isNeutral()
}

type NVar struct{ Name string }

type NApp struct {
	Fun Neutral
	Arg Normal
}

type NCar struct{ Pair Neutral }
type NCdr struct{ Pair Neutral }

type NWhichNat struct {
	Target Neutral
	BaseTy Normal
	Base   Normal
	Step   Normal
}

type NIterNat struct {
	Target Neutral
	BaseTy Normal
	Base   Normal
	Step   Normal
}

type NRecNat struct {
	Target Neutral
	BaseTy Normal
	Base   Normal
	Step   Normal
}

type NIndNat struct {
	Target Neutral
	Motive Normal
	Base   Normal
	Step   Normal
}

type NRecList struct {
	Target Neutral
	BaseTy Normal
	Base   Normal
	Step   Normal
}

type NIndList struct {
	Target Neutral
	Motive Normal
	Base   Normal
	Step   Normal
}

type NHead struct{ Vec Neutral }
type NTail struct{ Vec Neutral }

type NIndVec struct {
	Len    Normal
	Target Neutral
	Motive Normal
	Base   Normal
	Step   Normal
}

type NSymm struct{ Eq Neutral }

type NCong struct {
	Eq  Neutral
	Fun Normal
}

type NReplace struct {
	Target Neutral
	Motive Normal
	Base   Normal
}

type NIndEqual struct {
	Target Neutral
	Motive Normal
	Base   Normal
}

// NTrans represents a stuck `trans`. Of the four evaluation cases in
// spec §4.1 (both-neutral, left-neutral, right-neutral, both-canonical)
// only "both canonical" reduces; the other three all produce this one
// neutral shape, since Left/Right are Normals and a Normal wrapping a
// VNeutral vs. a canonical `same` value read back correctly either way.
type NTrans struct {
	Left  Normal
	Right Normal
}

type NIndEither struct {
	Target    Neutral
	Motive    Normal
	BaseLeft  Normal
	BaseRight Normal
}

type NIndAbsurd struct {
	Target Neutral
	Motive Normal
}

// NMatch is a stuck `match`: the target is neutral, so the arms are
// carried verbatim (their bodies are closed over the pattern's own
// binders at elaboration time) together with the result-type motive.
type NMatch struct {
	Target Neutral
	Arms   []core.Arm
	Motive Normal
}

func (NVar) isNeutral()       {}
func (NApp) isNeutral()       {}
func (NCar) isNeutral()       {}
func (NCdr) isNeutral()       {}
func (NWhichNat) isNeutral()  {}
func (NIterNat) isNeutral()   {}
func (NRecNat) isNeutral()    {}
func (NIndNat) isNeutral()    {}
func (NRecList) isNeutral()   {}
func (NIndList) isNeutral()   {}
func (NHead) isNeutral()      {}
func (NTail) isNeutral()      {}
func (NIndVec) isNeutral()    {}
func (NSymm) isNeutral()      {}
func (NCong) isNeutral()      {}
func (NReplace) isNeutral()   {}
func (NIndEqual) isNeutral()  {}
func (NTrans) isNeutral()     {}
func (NIndEither) isNeutral() {}
func (NIndAbsurd) isNeutral() {}
func (NMatch) isNeutral()     {}

func (v NVar) String() string { return v.Name }
func (a NApp) String() string { return fmt.Sprintf("(%s %s)", a.Fun, a.Arg.Val) }
func (c NCar) String() string { return fmt.Sprintf("(car %s)", c.Pair) }
func (c NCdr) String() string { return fmt.Sprintf("(cdr %s)", c.Pair) }
func (w NWhichNat) String() string {
	return fmt.Sprintf("(which-Nat %s %s %s)", w.Target, w.Base.Val, w.Step.Val)
}
func (n NIterNat) String() string {
	return fmt.Sprintf("(iter-Nat %s %s %s)", n.Target, n.Base.Val, n.Step.Val)
}
func (n NRecNat) String() string {
	return fmt.Sprintf("(rec-Nat %s %s %s)", n.Target, n.Base.Val, n.Step.Val)
}
func (n NIndNat) String() string {
	return fmt.Sprintf("(ind-Nat %s %s %s %s)", n.Target, n.Motive.Val, n.Base.Val, n.Step.Val)
}
func (r NRecList) String() string {
	return fmt.Sprintf("(rec-List %s %s %s)", r.Target, r.Base.Val, r.Step.Val)
}
func (i NIndList) String() string {
	return fmt.Sprintf("(ind-List %s %s %s %s)", i.Target, i.Motive.Val, i.Base.Val, i.Step.Val)
}
func (h NHead) String() string { return fmt.Sprintf("(head %s)", h.Vec) }
func (t NTail) String() string { return fmt.Sprintf("(tail %s)", t.Vec) }
func (i NIndVec) String() string {
	return fmt.Sprintf("(ind-Vec %s %s %s %s %s)", i.Len.Val, i.Target, i.Motive.Val, i.Base.Val, i.Step.Val)
}
func (s NSymm) String() string { return fmt.Sprintf("(symm %s)", s.Eq) }
func (c NCong) String() string { return fmt.Sprintf("(cong %s %s)", c.Eq, c.Fun.Val) }
func (r NReplace) String() string {
	return fmt.Sprintf("(replace %s %s %s)", r.Target, r.Motive.Val, r.Base.Val)
}
func (i NIndEqual) String() string {
	return fmt.Sprintf("(ind-= %s %s %s)", i.Target, i.Motive.Val, i.Base.Val)
}
func (t NTrans) String() string { return fmt.Sprintf("(trans %s %s)", t.Left.Val, t.Right.Val) }
func (i NIndEither) String() string {
	return fmt.Sprintf("(ind-Either %s %s %s %s)", i.Target, i.Motive.Val, i.BaseLeft.Val, i.BaseRight.Val)
}
func (i NIndAbsurd) String() string {
	return fmt.Sprintf("(ind-Absurd %s %s)", i.Target, i.Motive.Val)
}
func (m NMatch) String() string { return fmt.Sprintf("(match %s ...)", m.Target) }
