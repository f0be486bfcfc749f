package errors

// Fix represents a suggested fix, kept for parity with the report
// format even though the kernel never fills in Confidence > 0.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// The constructors below build one *Report per member of the closed
// error-kind set in spec.md §7. Call sites that need to tell kinds
// apart programmatically (tests, the driver) compare the Report's
// Code.

// Unbound reports a reference to a name with no binding in scope.
func Unbound(phase, name string) *Report {
	return &Report{Schema: schemaV1, Code: CHK001, Phase: phase,
		Message: "unbound name: " + name,
		Data:    map[string]any{"name": name}}
}

// MissingClaim reports a `define` with no preceding `claim`.
func MissingClaim(name string) *Report {
	return &Report{Schema: schemaV1, Code: CHK002, Phase: "check",
		Message: "define without a claim: " + name,
		Data:    map[string]any{"name": name}}
}

// DuplicateName reports a name bound twice where shadowing is not permitted.
func DuplicateName(phase, name string) *Report {
	return &Report{Schema: schemaV1, Code: CHK003, Phase: phase,
		Message: "duplicate name: " + name,
		Data:    map[string]any{"name": name}}
}

// NotAType reports a `the`/motive/telescope position that did not
// synthesize U.
func NotAType(got string) *Report {
	return &Report{Schema: schemaV1, Code: CHK004, Phase: "check",
		Message: "not a type: " + got,
		Data:    map[string]any{"got": got}}
}

// TypeMismatch reports check(e, T) failing because e synthesized (or
// read back to) a type different from the expected T.
func TypeMismatch(expected, actual string) *Report {
	return &Report{Schema: schemaV1, Code: CHK005, Phase: "check",
		Message: "type mismatch: expected " + expected + ", got " + actual,
		Data:    map[string]any{"expected": expected, "actual": actual}}
}

// CannotSynth reports a surface expression whose type synth cannot
// determine (e.g. a bare lambda with no expected type).
func CannotSynth(desc string) *Report {
	return &Report{Schema: schemaV1, Code: CHK006, Phase: "check",
		Message: "cannot synthesize a type for: " + desc,
		Data:    map[string]any{"expr": desc}}
}

// ShapeMismatch reports e.g. a λ checked against a non-Π.
func ShapeMismatch(expectedForm, actualForm string) *Report {
	return &Report{Schema: schemaV1, Code: CHK007, Phase: "check",
		Message: "expected a " + expectedForm + ", expression requires a " + actualForm,
		Data:    map[string]any{"expected_form": expectedForm, "actual_form": actualForm}}
}

// ArityError reports an n-ary surface form applied to the wrong number
// of arguments.
func ArityError(expected, actual int) *Report {
	return &Report{Schema: schemaV1, Code: CHK008, Phase: "check",
		Message: "arity mismatch",
		Data:    map[string]any{"expected": expected, "actual": actual}}
}

// UnboundEval reports an unbound variable found during evaluation; this
// indicates a bug in the elaborator, not a user error, since the
// checker should have rejected it first.
func UnboundEval(name string) *Report {
	return &Report{Schema: schemaV1, Code: EVL001, Phase: "eval",
		Message: "unbound variable at eval time: " + name,
		Data:    map[string]any{"name": name}}
}

// TypeTagMismatch reports an eliminator applied to a value of the
// wrong canonical shape; only reachable on ill-typed core terms.
func TypeTagMismatch(form string, got string) *Report {
	return &Report{Schema: schemaV1, Code: EVL002, Phase: "eval",
		Message: "ill-typed core term: " + form + " applied to " + got,
		Data:    map[string]any{"form": form, "got": got}}
}

// NotStructurallyEquiv reports check-same failing after read-back.
func NotStructurallyEquiv(lhs, rhs string) *Report {
	return &Report{Schema: schemaV1, Code: EQV001, Phase: "equiv",
		Message: "not the same: " + lhs + " vs " + rhs,
		Data:    map[string]any{"lhs": lhs, "rhs": rhs}}
}

// NotAlphaEquiv reports two core terms differing by more than bound names.
func NotAlphaEquiv(x, y string) *Report {
	return &Report{Schema: schemaV1, Code: EQV002, Phase: "equiv",
		Message: "not alpha-equivalent: " + x + " vs " + y,
		Data:    map[string]any{"x": x, "y": y}}
}

// PatternIllTyped reports a pattern whose shape cannot match its
// scrutinee's type (e.g. a cons pattern against Nat).
func PatternIllTyped(pattern, typ string) *Report {
	return &Report{Schema: schemaV1, Code: MAT001, Phase: "match",
		Message: "pattern " + pattern + " cannot have type " + typ,
		Data:    map[string]any{"pattern": pattern, "type": typ}}
}

// NonExhaustiveMatch reports a match rejected at compile time, naming
// the constructors (or value) left uncovered.
func NonExhaustiveMatch(missing []string) *Report {
	return &Report{Schema: schemaV1, Code: MAT002, Phase: "match",
		Message: "non-exhaustive match, missing: " + joinComma(missing),
		Data:    map[string]any{"missing": missing}}
}

// StuckMatch reports a match that reduced against a target no arm admits.
func StuckMatch(target string) *Report {
	return &Report{Schema: schemaV1, Code: MAT003, Phase: "match",
		Message: "stuck match: no arm admits " + target,
		Data:    map[string]any{"target": target}}
}

// NonConstructorPattern reports a non-constructor pattern used against
// a datatype-typed target whose coverage requires naming constructors.
func NonConstructorPattern(pattern string) *Report {
	return &Report{Schema: schemaV1, Code: MAT004, Phase: "match",
		Message: "pattern is not a constructor of the scrutinee's datatype: " + pattern,
		Data:    map[string]any{"pattern": pattern}}
}

// DatatypeIllFormed reports a `data` declaration rejected by the driver,
// e.g. because a constructor's result type names a different datatype.
func DatatypeIllFormed(reason string) *Report {
	return &Report{Schema: schemaV1, Code: DAT001, Phase: "data",
		Message: "ill-formed datatype declaration: " + reason,
		Data:    map[string]any{"reason": reason}}
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
