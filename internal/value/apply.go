package value

import (
	"fmt"

	kerrors "github.com/sunholo/piekernel/internal/errors"
)

// ConstClosure returns a closure that ignores its argument and always
// yields ret. Used for the non-dependent function types that
// which-Nat/iter-Nat/rec-Nat/rec-List's step/base-type positions need,
// and anywhere else a Pi/Sigma closure's body isn't actual surface
// syntax but a value computed from a motive.
func ConstClosure(ret Value) *Closure {
	return &Closure{Native: func(Value) (Value, error) { return ret, nil }}
}

// NativeClosure wraps a Go function as a closure.
func NativeClosure(f func(Value) (Value, error)) *Closure {
	return &Closure{Native: f}
}

// NonDepPi builds a non-dependent Pi type `dom -> ret`.
func NonDepPi(dom, ret Value) Value {
	return VPi{Name: "_", Dom: dom, Ran: ConstClosure(ret)}
}

// ApplyFun applies a function value to an argument, the one
// operation shared by Eval(App), read-back's eta-expansion, and the
// checker's motive-shape construction.
func ApplyFun(f Value, a Value) (Value, error) {
	switch fv := f.(type) {
	case VLambda:
		return fv.Body.Instantiate(a)
	case VNeutral:
		pi, ok := fv.Ty.(VPi)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("application", fv.Ty.String()))
		}
		ran, err := pi.Ran.Instantiate(a)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: ran, Neu: NApp{Fun: fv.Neu, Arg: Normal{Val: a, Ty: pi.Dom}}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("application", fmt.Sprintf("%T", f)))
	}
}

// DoCar projects the first component of a pair-like value.
func DoCar(v Value) (Value, error) {
	switch p := v.(type) {
	case VPair:
		return p.Fst, nil
	case VNeutral:
		sig, ok := p.Ty.(VSigma)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("car", p.Ty.String()))
		}
		return VNeutral{Ty: sig.Fst, Neu: NCar{Pair: p.Neu}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("car", fmt.Sprintf("%T", v)))
	}
}

// DoCdr projects the second component of a pair-like value.
func DoCdr(v Value) (Value, error) {
	switch p := v.(type) {
	case VPair:
		return p.Snd, nil
	case VNeutral:
		sig, ok := p.Ty.(VSigma)
		if !ok {
			return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("cdr", p.Ty.String()))
		}
		fst, err := DoCar(v)
		if err != nil {
			return nil, err
		}
		ran, err := sig.Snd.Instantiate(fst)
		if err != nil {
			return nil, err
		}
		return VNeutral{Ty: ran, Neu: NCdr{Pair: p.Neu}}, nil
	default:
		return nil, kerrors.WrapReport(kerrors.TypeTagMismatch("cdr", fmt.Sprintf("%T", v)))
	}
}
