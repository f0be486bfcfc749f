// Package toplevel is the batch driver of spec.md §2: it threads the
// global Sigma context across a sequence of top-level forms (claim,
// define, data, check-same), reporting one outcome or one structured
// error per form. Errors leave Sigma unchanged; the caller decides
// whether to continue with the next form (spec §7: no local recovery).
package toplevel

import (
	"fmt"

	"github.com/sunholo/piekernel/internal/checker"
	"github.com/sunholo/piekernel/internal/core"
	"github.com/sunholo/piekernel/internal/ctx"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/surface"
	"github.com/sunholo/piekernel/internal/value"
)

// Outcome describes one successfully handled top-level form.
type Outcome struct {
	Kind   string // "claim", "define", "data", "check-same"
	Name   string // the name bound (empty for check-same)
	Detail string // human-readable payload, e.g. the common normal form
}

func (o Outcome) String() string {
	switch o.Kind {
	case "claim":
		return fmt.Sprintf("claimed %s : %s", o.Name, o.Detail)
	case "define":
		return fmt.Sprintf("defined %s", o.Name)
	case "data":
		return fmt.Sprintf("data %s with constructors %s", o.Name, o.Detail)
	case "check-same":
		return fmt.Sprintf("same: %s", o.Detail)
	default:
		return o.Kind
	}
}

// Driver holds the Sigma being threaded through a program.
type Driver struct {
	Sigma *ctx.Context
}

// New returns a driver over an empty Sigma.
func New() *Driver {
	return &Driver{Sigma: ctx.Empty}
}

// Handle elaborates one top-level form, extending Sigma on success.
func (d *Driver) Handle(form surface.Toplevel) (Outcome, error) {
	switch f := form.(type) {
	case *surface.Claim:
		return d.handleClaim(f)
	case *surface.Define:
		return d.handleDefine(f)
	case *surface.CheckSame:
		return d.handleCheckSame(f)
	case *surface.Data:
		return d.handleData(f)
	default:
		return Outcome{}, kerrors.WrapReport(kerrors.CannotSynth(fmt.Sprintf("%T", form)))
	}
}

func (d *Driver) handleClaim(f *surface.Claim) (Outcome, error) {
	if d.Sigma.Has(f.Name) {
		return Outcome{}, kerrors.WrapReport(kerrors.DuplicateName("check", f.Name))
	}
	tc, err := checker.IsType(f.Type, d.Sigma)
	if err != nil {
		return Outcome{}, err
	}
	tv, err := value.Eval(tc, d.Sigma.ToRho())
	if err != nil {
		return Outcome{}, err
	}
	d.Sigma = d.Sigma.Claim(f.Name, tv)
	return Outcome{Kind: "claim", Name: f.Name, Detail: tc.String()}, nil
}

func (d *Driver) handleDefine(f *surface.Define) (Outcome, error) {
	if _, defined := d.Sigma.ValueOf(f.Name); defined {
		return Outcome{}, kerrors.WrapReport(kerrors.DuplicateName("check", f.Name))
	}
	claimed, ok := d.Sigma.TypeOf(f.Name)
	if !ok {
		return Outcome{}, kerrors.WrapReport(kerrors.MissingClaim(f.Name))
	}
	c, err := checker.Check(f.Value, d.Sigma, claimed)
	if err != nil {
		return Outcome{}, err
	}
	v, err := value.Eval(c, d.Sigma.ToRho())
	if err != nil {
		return Outcome{}, err
	}
	d.Sigma = d.Sigma.Define(f.Name, v)
	return Outcome{Kind: "define", Name: f.Name}, nil
}

// handleCheckSame decides definitional equality the NbE way: check
// both sides at the given type, evaluate, read both values back to
// beta-normal eta-long core terms, and compare those up to renaming of
// bound variables (spec §1, §4.2-4.3).
func (d *Driver) handleCheckSame(f *surface.CheckSame) (Outcome, error) {
	tc, err := checker.IsType(f.Type, d.Sigma)
	if err != nil {
		return Outcome{}, err
	}
	rho := d.Sigma.ToRho()
	tv, err := value.Eval(tc, rho)
	if err != nil {
		return Outcome{}, err
	}
	lc, err := checker.Check(f.Lhs, d.Sigma, tv)
	if err != nil {
		return Outcome{}, err
	}
	rc, err := checker.Check(f.Rhs, d.Sigma, tv)
	if err != nil {
		return Outcome{}, err
	}
	lv, err := value.Eval(lc, rho)
	if err != nil {
		return Outcome{}, err
	}
	rv, err := value.Eval(rc, rho)
	if err != nil {
		return Outcome{}, err
	}
	bound := d.Sigma.Bound()
	lNorm, err := value.ReadBack(bound, tv, lv)
	if err != nil {
		return Outcome{}, err
	}
	rNorm, err := value.ReadBack(bound, tv, rv)
	if err != nil {
		return Outcome{}, err
	}
	if !core.AlphaEquiv(lNorm, rNorm, core.NewRenamings()) {
		return Outcome{}, kerrors.WrapReport(kerrors.NotStructurallyEquiv(lNorm.String(), rNorm.String()))
	}
	return Outcome{Kind: "check-same", Detail: lNorm.String()}, nil
}
