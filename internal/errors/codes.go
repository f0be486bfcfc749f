package errors

// schemaV1 tags every Report produced by this module.
const schemaV1 = "pie.error/v1"

// Error code taxonomy, one prefix per phase.
const (
	LEX001 = "LEX001" // unexpected character
	LEX002 = "LEX002" // unterminated string/atom

	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing paren
	PAR003 = "PAR003" // malformed top-level form
	PAR004 = "PAR004" // malformed pattern

	CHK001 = "CHK001" // Unbound(name)
	CHK002 = "CHK002" // MissingClaim(name)
	CHK003 = "CHK003" // DuplicateName(name)
	CHK004 = "CHK004" // NotAType(got)
	CHK005 = "CHK005" // TypeMismatch(expected, actual)
	CHK006 = "CHK006" // CannotSynth(expr-description)
	CHK007 = "CHK007" // ShapeMismatch(expected-form, actual-form)
	CHK008 = "CHK008" // ArityError(expected, actual)

	EVL001 = "EVL001" // unbound variable (evaluator-internal)
	EVL002 = "EVL002" // type tag mismatch (ill-typed core)

	EQV001 = "EQV001" // NotStructurallyEquiv(lhs, rhs)
	EQV002 = "EQV002" // NotAlphaEquiv(x, y)

	MAT001 = "MAT001" // PatternIllTyped
	MAT002 = "MAT002" // NonExhaustiveMatch(missing)
	MAT003 = "MAT003" // StuckMatch(runtime)
	MAT004 = "MAT004" // non-constructor pattern on constructor target

	DAT001 = "DAT001" // DatatypeIllFormed(reason)
	DAT002 = "DAT002" // not emitted: duplicate constructor/datatype names report CHK003 via DuplicateName
)
