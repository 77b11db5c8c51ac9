package diag

// Code is a stable diagnostic identifier, grouped by the error taxonomy of
// the expression compiler.
type Code string

const (
	// CodeSyntax covers lexical-structure errors in the expression: unmatched
	// delimiters, stray ternary colon, operator without required operand,
	// mismatched for/array keyword sequence.
	CodeSyntax Code = "EXP001"
	// CodeName covers name-resolution errors: undefined identifier, duplicate
	// declaration, dot collision, visibility violations.
	CodeName Code = "EXP002"
	// CodeType covers type errors: no case rule, promotion failure,
	// non-indexable subscript, non-lvalue assignment, const modification.
	CodeType Code = "EXP003"
	// CodeInit covers initialization errors.
	CodeInit Code = "EXP004"
	// CodeConstArith covers compile-time arithmetic errors: overflow,
	// division by zero, floating-point exception during folding.
	CodeConstArith Code = "EXP005"
	// CodeComplexLit covers structural errors in complex literals.
	CodeComplexLit Code = "EXP006"
	// CodeInternal covers internal consistency failures (asserts).
	CodeInternal Code = "EXP007"
	// CodeNotComputable reports an expression rejected by compile-time
	// evaluation because it is not foldable.
	CodeNotComputable Code = "EXP008"
	// CodeUnusedVar warns about a variable never read as a source.
	CodeUnusedVar Code = "WRN001"
	// CodeUnreachable warns about an unreachable branch.
	CodeUnreachable Code = "WRN002"
	// CodeDiscarded warns about a computed result that nothing consumes.
	CodeDiscarded Code = "WRN003"
)

func (c Code) String() string { return string(c) }
