package ctx

import (
	"testing"

	"github.com/sunholo/piekernel/internal/value"
)

func TestShadowingLatestWins(t *testing.T) {
	g := Empty.HasType("x", value.VNat{}).HasType("x", value.VAtom{})
	ty, ok := g.TypeOf("x")
	if !ok {
		t.Fatal("TypeOf(x) not found")
	}
	if _, isAtom := ty.(value.VAtom); !isAtom {
		t.Errorf("TypeOf(x) = %s, want the later Atom binding", ty)
	}
}

func TestFreshAvoidsBoundNames(t *testing.T) {
	g := Empty.HasType("x", value.VNat{}).HasType("x1", value.VNat{})
	got := g.Fresh("x")
	if g.Has(got) {
		t.Errorf("Fresh(x) = %q, still bound", got)
	}
	if got != "x2" {
		t.Errorf("Fresh(x) = %q, want x2", got)
	}
	if g.Fresh("y") != "y" {
		t.Errorf("Fresh(y) should return y unchanged when unbound")
	}
}

func TestFreshNormalizesHole(t *testing.T) {
	if got := Empty.Fresh("_"); got != "x" {
		t.Errorf("Fresh(_) = %q, want x", got)
	}
}

func TestTypeOfDefineFindsPrecedingClaim(t *testing.T) {
	g := Empty.Claim("n", value.VNat{}).Define("n", value.VZero{})
	ty, ok := g.TypeOf("n")
	if !ok {
		t.Fatal("TypeOf(n) not found")
	}
	if _, isNat := ty.(value.VNat); !isNat {
		t.Errorf("TypeOf(n) = %s, want the claimed Nat", ty)
	}
	v, ok := g.ValueOf("n")
	if !ok {
		t.Fatal("ValueOf(n) not found")
	}
	if _, isZero := v.(value.VZero); !isZero {
		t.Errorf("ValueOf(n) = %s, want zero", v)
	}
}

func TestValueOfBareClaim(t *testing.T) {
	g := Empty.Claim("n", value.VNat{})
	if _, ok := g.ValueOf("n"); ok {
		t.Error("ValueOf on a bare claim should report no value")
	}
}

func TestToRhoBindsClaimsAsNeutrals(t *testing.T) {
	g := Empty.Claim("n", value.VNat{}).Define("m", value.VZero{})
	rho := g.ToRho()

	nv, ok := rho.Get("n")
	if !ok {
		t.Fatal("rho has no binding for claimed n")
	}
	neu, ok := nv.(value.VNeutral)
	if !ok {
		t.Fatalf("rho[n] = %T, want a neutral", nv)
	}
	if _, isNat := neu.Ty.(value.VNat); !isNat {
		t.Errorf("rho[n] neutral type = %s, want Nat", neu.Ty)
	}

	mv, ok := rho.Get("m")
	if !ok {
		t.Fatal("rho has no binding for defined m")
	}
	if _, isZero := mv.(value.VZero); !isZero {
		t.Errorf("rho[m] = %s, want zero", mv)
	}
}

func TestBoundSeedsFreshening(t *testing.T) {
	g := Empty.Claim("x", value.VNat{})
	b := g.Bound()
	name, _ := b.Fresh("x")
	if name != "x1" {
		t.Errorf("Fresh over Bound(ctx with x) = %q, want x1", name)
	}
}

func TestEntriesOldestFirst(t *testing.T) {
	g := Empty.Claim("a", value.VNat{}).Define("a", value.VZero{}).Claim("b", value.VAtom{})
	entries := g.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(entries))
	}
	if entries[0].Name != "a" || entries[0].Kind != ClaimKind {
		t.Errorf("entries[0] = %+v, want the claim of a", entries[0])
	}
	if entries[2].Name != "b" {
		t.Errorf("entries[2] = %+v, want the claim of b", entries[2])
	}
}
