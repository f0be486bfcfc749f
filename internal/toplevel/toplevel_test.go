package toplevel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/parser"
	"github.com/sunholo/piekernel/internal/toplevel"
)

// run elaborates a program the way the batch CLI does: one outcome or
// one error per form, Sigma unchanged after a failing form.
func run(t *testing.T, src string) ([]toplevel.Outcome, []error) {
	t.Helper()
	forms, err := parser.ParseProgram(src, "test.pie")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	driver := toplevel.New()
	var outcomes []toplevel.Outcome
	var errs []error
	for _, form := range forms {
		outcome, err := driver.Handle(form)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, errs
}

func runOK(t *testing.T, src string) []toplevel.Outcome {
	t.Helper()
	outcomes, errs := run(t, src)
	for _, err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	return outcomes
}

func firstCode(t *testing.T, errs []error) string {
	t.Helper()
	if len(errs) == 0 {
		t.Fatal("expected at least one error")
	}
	rep, ok := kerrors.AsReport(errs[0])
	if !ok {
		t.Fatalf("expected a report, got %v", errs[0])
	}
	return rep.Code
}

// Scenario 1: the polymorphic identity.
func TestScenarioIdentity(t *testing.T) {
	runOK(t, `
(claim id (Pi ((A U) (x A)) A))
(define id (λ (A x) x))
(check-same Nat ((id Nat) zero) zero)`)
}

// Scenario 2: list length via rec-List, with numeric literal desugaring.
func TestScenarioListLength(t *testing.T) {
	runOK(t, `
(claim length (-> (List Nat) Nat))
(define length (λ (l) (rec-List l zero (λ (e es n) (add1 n)))))
(check-same Nat (length (:: zero (:: zero nil))) 2)`)
}

// Scenario 3: an ill-typed define is rejected with a type mismatch.
func TestScenarioDefineMismatch(t *testing.T) {
	_, errs := run(t, `
(claim silly Nat)
(define silly 'hello)`)
	if got := firstCode(t, errs); got != kerrors.CHK005 {
		t.Errorf("error code = %s, want CHK005 (type mismatch)", got)
	}
}

// Scenario 4: a user datatype with an exhaustive match.
func TestScenarioBoolNegation(t *testing.T) {
	outcomes := runOK(t, `
(data Bool () () (true (Bool)) (false (Bool)))
(claim neg (-> Bool Bool))
(define neg (λ (b) (match b (true false) (false true))))
(check-same Bool (neg true) false)`)
	want := []toplevel.Outcome{
		{Kind: "data", Name: "Bool", Detail: "true, false"},
		{Kind: "claim", Name: "neg", Detail: "(Pi ((_ Bool)) Bool)"},
		{Kind: "define", Name: "neg"},
		{Kind: "check-same", Detail: "false"},
	}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

// Scenario 5: a non-exhaustive match is rejected at elaboration time,
// naming the missing constructor.
func TestScenarioNonExhaustiveMatch(t *testing.T) {
	_, errs := run(t, `
(data Bool () () (true (Bool)) (false (Bool)))
(claim bad (-> Bool Bool))
(define bad (λ (b) (match b (true false))))`)
	if len(errs) != 1 {
		t.Fatalf("error count = %d, want 1", len(errs))
	}
	rep, _ := kerrors.AsReport(errs[0])
	if rep.Code != kerrors.MAT002 {
		t.Fatalf("error code = %s, want MAT002", rep.Code)
	}
	missing, _ := rep.Data["missing"].([]string)
	if diff := cmp.Diff([]string{"false"}, missing); diff != "" {
		t.Errorf("missing constructors (-want +got):\n%s", diff)
	}
}

// Scenario 6: reflexive equality witnesses compare equal.
func TestScenarioSameness(t *testing.T) {
	runOK(t, `(check-same (= Nat (add1 zero) (add1 zero)) (same (add1 zero)) (same (add1 zero)))`)
}

func TestCheckSameRejectsDifferentNats(t *testing.T) {
	_, errs := run(t, `(check-same Nat zero (add1 zero))`)
	if got := firstCode(t, errs); got != kerrors.EQV001 {
		t.Errorf("error code = %s, want EQV001", got)
	}
}

// Property P4: eta for Pi — a function and its eta-expansion share a
// normal form.
func TestEtaForFunctions(t *testing.T) {
	runOK(t, `
(claim f (-> Nat Nat))
(check-same (-> Nat Nat) (λ (x) (f x)) f)`)
}

// Property P4: eta for Sigma — a pair and the cons of its projections
// share a normal form.
func TestEtaForPairs(t *testing.T) {
	runOK(t, `
(claim p (Sigma ((n Nat)) Atom))
(check-same (Sigma ((n Nat)) Atom) (cons (car p) (cdr p)) p)`)
}

// Property P4: everything of type Trivial is sole.
func TestEtaForTrivial(t *testing.T) {
	runOK(t, `
(claim u Trivial)
(check-same Trivial u sole)`)
}

func TestIterNatAddition(t *testing.T) {
	runOK(t, `
(claim plus (-> Nat Nat Nat))
(define plus (λ (a b) (iter-Nat a b (λ (n) (add1 n)))))
(check-same Nat (plus 2 2) 4)`)
}

func TestIndNatDependentMotive(t *testing.T) {
	runOK(t, `
(claim mot (-> Nat U))
(define mot (λ (k) (Vec Atom k)))
(claim fill (Pi ((n Nat)) (Vec Atom n)))
(define fill (λ (n) (ind-Nat n mot vecnil (λ (k so-far) (vec:: 'x so-far)))))
(check-same (Vec Atom 2) (fill 2) (vec:: 'x (vec:: 'x vecnil)))`)
}

func TestVectorHeadTail(t *testing.T) {
	runOK(t, `
(claim v (Vec Atom 2))
(define v (vec:: 'a (vec:: 'b vecnil)))
(check-same Atom (head v) 'a)
(check-same Atom (head (tail v)) 'b)`)
}

func TestEqualityEliminators(t *testing.T) {
	runOK(t, `
(check-same (= Nat 1 1) (symm (the (= Nat 1 1) (same 1))) (same 1))
(check-same (= Nat 2 2) (cong (the (= Nat 1 1) (same 1)) (the (-> Nat Nat) (λ (n) (add1 n)))) (same 2))
(check-same Nat (replace (the (= Nat 1 1) (same 1)) (λ (n) Nat) zero) zero)
(check-same (= Nat 1 1) (trans (the (= Nat 1 1) (same 1)) (the (= Nat 1 1) (same 1))) (same 1))
(check-same Nat (ind-= (the (= Nat 1 1) (same 1)) (λ (x e) Nat) zero) zero)`)
}

func TestEitherElimination(t *testing.T) {
	runOK(t, `
(claim pick (-> (Either Nat Atom) Nat))
(define pick (λ (e) (ind-Either e (λ (x) Nat) (λ (l) l) (λ (r) zero))))
(check-same Nat (pick (the (Either Nat Atom) (left 3))) 3)
(check-same Nat (pick (the (Either Nat Atom) (right 'a))) zero)`)
}

func TestDuplicateClaimRejected(t *testing.T) {
	_, errs := run(t, `
(claim x Nat)
(claim x Nat)`)
	if got := firstCode(t, errs); got != kerrors.CHK003 {
		t.Errorf("error code = %s, want CHK003", got)
	}
}

func TestDefineWithoutClaimRejected(t *testing.T) {
	_, errs := run(t, `(define y zero)`)
	if got := firstCode(t, errs); got != kerrors.CHK002 {
		t.Errorf("error code = %s, want CHK002", got)
	}
}

func TestErrorLeavesSigmaUnchanged(t *testing.T) {
	// The failing define must not pollute Sigma: a later correct define
	// of the same name still works.
	runOKAfterError(t, `
(claim n Nat)
(define n 'oops)
(define n zero)
(check-same Nat n zero)`, 1)
}

func runOKAfterError(t *testing.T, src string, wantErrs int) {
	t.Helper()
	_, errs := run(t, src)
	if len(errs) != wantErrs {
		t.Fatalf("error count = %d, want %d: %v", len(errs), wantErrs, errs)
	}
}

func TestDataWrongResultTypeRejected(t *testing.T) {
	_, errs := run(t, `(data Bool () () (true (Nat)))`)
	if got := firstCode(t, errs); got != kerrors.DAT001 {
		t.Errorf("error code = %s, want DAT001", got)
	}
}

func TestDataDuplicateConstructorRejected(t *testing.T) {
	_, errs := run(t, `(data Bool () () (yes (Bool)) (yes (Bool)))`)
	if got := firstCode(t, errs); got != kerrors.CHK003 {
		t.Errorf("error code = %s, want CHK003", got)
	}
}

func TestParameterizedDatatype(t *testing.T) {
	runOK(t, `
(data Maybe ((A U)) () (nothing (Maybe A)) (just (x A) (Maybe A)))
(claim unwrap (-> (Maybe Nat) Nat))
(define unwrap (λ (m) (match m ((just x) x) (nothing zero))))
(check-same Nat (unwrap (just Nat 1)) 1)
(check-same Nat (unwrap (nothing Nat)) zero)`)
}

func TestRecursiveDatatype(t *testing.T) {
	runOK(t, `
(data MyNat () () (z (MyNat)) (s (n MyNat) (MyNat)))
(claim two MyNat)
(define two (s (s z)))
(check-same MyNat two (s (s z)))`)
}

func TestIndexedDatatype(t *testing.T) {
	runOK(t, `
(data Even () ((n Nat)) (even-zero (Even zero)) (even-ss (k Nat) (e (Even k)) (Even (add1 (add1 k)))))
(claim e4 (Even 4))
(define e4 (even-ss 2 (even-ss zero even-zero)))`)
}

func TestMatchOnAtoms(t *testing.T) {
	// Atom scrutinees form an open set: no exhaustiveness is enforced
	// at elaboration time.
	runOK(t, `
(claim to-nat (-> Atom Nat))
(define to-nat (λ (a) (match a ('one 1) ('two 2) (_ zero))))
(check-same Nat (to-nat 'two) 2)
(check-same Nat (to-nat 'other) zero)`)
}

func TestMatchOnPairs(t *testing.T) {
	runOK(t, `
(claim swap (-> (Pair Nat Atom) (Pair Atom Nat)))
(define swap (λ (p) (match p ((cons a d) (cons d a)))))
(check-same (Pair Atom Nat) (swap (cons 1 'a)) (cons 'a 1))`)
}

func TestMatchWildcardCoversDatatype(t *testing.T) {
	runOK(t, `
(data Color () () (red (Color)) (green (Color)) (blue (Color)))
(claim is-red (-> Color Nat))
(define is-red (λ (c) (match c (red 1) (_ zero))))
(check-same Nat (is-red green) zero)`)
}

func TestMatchPatternFromWrongDatatype(t *testing.T) {
	_, errs := run(t, `
(data Bool () () (true (Bool)) (false (Bool)))
(data Color () () (red (Color)) (blue (Color)))
(claim f (-> Bool Nat))
(define f (λ (b) (match b ((red) 1) (_ zero))))`)
	if got := firstCode(t, errs); got != kerrors.MAT004 {
		t.Errorf("error code = %s, want MAT004", got)
	}
}

func TestBareNamePatternBindsWhenNotAConstructor(t *testing.T) {
	// A bare name that does not name a constructor of the scrutinee's
	// datatype is a binding pattern, and it catches everything.
	runOK(t, `
(data Bool () () (true (Bool)) (false (Bool)))
(claim f (-> Bool Bool))
(define f (λ (b) (match b (whatever whatever))))
(check-same Bool (f true) true)`)
}

func TestDefinedNameUnfoldsInCheckSame(t *testing.T) {
	// Definitions unfold during evaluation: a defined name and its body
	// share a normal form.
	runOK(t, `
(claim three Nat)
(define three 3)
(check-same Nat three (add1 2))`)
}
