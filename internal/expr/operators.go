package expr

import "ember/internal/token"

// Operator enumerates the expression operators.
type Operator uint8

const (
	// OpPostfixInc is postfix increment (returns the original operand).
	OpPostfixInc Operator = iota
	// OpPostfixDec is postfix decrement (returns the original operand).
	OpPostfixDec
	// OpPrefixInc is prefix increment (returns the modified operand).
	OpPrefixInc
	// OpPrefixDec is prefix decrement (returns the modified operand).
	OpPrefixDec
	// OpUnaryPlus is unary plus.
	OpUnaryPlus
	// OpUnaryMinus is unary minus.
	OpUnaryMinus
	// OpLogicalNot is logical not.
	OpLogicalNot
	// OpBitwiseNot is bitwise not.
	OpBitwiseNot
	// OpTypeCast is the (type) cast operator.
	OpTypeCast
	// OpMultiplication is multiplication.
	OpMultiplication
	// OpDivision is division.
	OpDivision
	// OpModulus is the modulo remainder.
	OpModulus
	// OpAddition is addition (and string concatenation).
	OpAddition
	// OpSubstraction is subtraction.
	OpSubstraction
	// OpShiftLeft is the bitwise left shift.
	OpShiftLeft
	// OpShiftRight is the bitwise right shift.
	OpShiftRight
	// OpLess is the less-than comparison.
	OpLess
	// OpLessEqual is the less-or-equal comparison.
	OpLessEqual
	// OpGreater is the greater-than comparison.
	OpGreater
	// OpGreaterEqual is the greater-or-equal comparison.
	OpGreaterEqual
	// OpEqual is the equality comparison.
	OpEqual
	// OpDistinct is the inequality comparison.
	OpDistinct
	// OpBitwiseAnd is bitwise and.
	OpBitwiseAnd
	// OpBitwiseXor is bitwise exclusive or.
	OpBitwiseXor
	// OpBitwiseOr is bitwise inclusive or.
	OpBitwiseOr
	// OpLogicalAnd is logical and.
	OpLogicalAnd
	// OpLogicalOr is logical or.
	OpLogicalOr
	// OpInitializ initializes a freshly declared variable.
	OpInitializ
	// OpAssign is direct assignment.
	OpAssign
	// OpAddAssign is assignment by sum.
	OpAddAssign
	// OpSubAssign is assignment by difference.
	OpSubAssign
	// OpMulAssign is assignment by product.
	OpMulAssign
	// OpDivAssign is assignment by quotient.
	OpDivAssign
	// OpModAssign is assignment by remainder.
	OpModAssign
	// OpShlAssign is assignment by left shift.
	OpShlAssign
	// OpShrAssign is assignment by right shift.
	OpShrAssign
	// OpAndAssign is assignment by bitwise and.
	OpAndAssign
	// OpXorAssign is assignment by bitwise xor.
	OpXorAssign
	// OpOrAssign is assignment by bitwise or.
	OpOrAssign
	// OpSeqOper is the sequence operator.
	OpSeqOper

	operatorCount
)

// OprAssoc is operator associativity.
type OprAssoc uint8

const (
	// LeftAssoc groups left to right.
	LeftAssoc OprAssoc = iota
	// RightAssoc groups right to left.
	RightAssoc
)

// OprClass is the operator sub-class.
type OprClass uint8

const (
	// ClassArithmetic marks arithmetic operators.
	ClassArithmetic OprClass = iota
	// ClassLogical marks logical operators.
	ClassLogical
	// ClassComparison marks comparison operators.
	ClassComparison
	// ClassBitwise marks bitwise operators.
	ClassBitwise
	// ClassAssignment marks assignment operators.
	ClassAssignment
	// ClassConversion marks the type cast.
	ClassConversion
	// ClassSequence marks the sequence operator.
	ClassSequence
)

// OprInfo is one row of the fixed operator table.
type OprInfo struct {
	Text      string
	Assoc     OprAssoc
	OperandNr int
	Class     OprClass
	// Prec runs 1 (sequence) to 13 (postfix increment/decrement).
	Prec int
	// IsResultFirst / IsResultSecond: the result aliases an operand and no
	// temporary is allocated.
	IsResultFirst  bool
	IsResultSecond bool
	// Init1/Init2: the operand at that position must be initialized.
	Init1 bool
	Init2 bool
	// Lvalue1/Lvalue2: the operand at that position must be an lvalue.
	Lvalue1 bool
	Lvalue2 bool
	// Overloadable operators may be redefined by user operator functions.
	Overloadable bool
	// Computable operators participate in constant folding.
	Computable bool
}

// operatorTable is the fixed 40-entry operator table, indexed by Operator.
var operatorTable = [operatorCount]OprInfo{
	OpPostfixInc:     {Text: "++", Assoc: LeftAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 13, Init1: true, Lvalue1: true},
	OpPostfixDec:     {Text: "--", Assoc: LeftAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 13, Init1: true, Lvalue1: true},
	OpPrefixInc:      {Text: "++", Assoc: RightAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 12, IsResultFirst: true, Init1: true, Lvalue1: true},
	OpPrefixDec:      {Text: "--", Assoc: RightAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 12, IsResultFirst: true, Init1: true, Lvalue1: true},
	OpUnaryPlus:      {Text: "+", Assoc: RightAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 12, IsResultFirst: true, Init1: true, Overloadable: true, Computable: true},
	OpUnaryMinus:     {Text: "-", Assoc: RightAssoc, OperandNr: 1, Class: ClassArithmetic, Prec: 12, Init1: true, Overloadable: true, Computable: true},
	OpLogicalNot:     {Text: "!", Assoc: RightAssoc, OperandNr: 1, Class: ClassLogical, Prec: 12, Init1: true, Overloadable: true, Computable: true},
	OpBitwiseNot:     {Text: "~", Assoc: RightAssoc, OperandNr: 1, Class: ClassBitwise, Prec: 12, Init1: true, Overloadable: true, Computable: true},
	OpTypeCast:       {Text: "(cast)", Assoc: RightAssoc, OperandNr: 1, Class: ClassConversion, Prec: 12, Init1: true, Computable: true},
	OpMultiplication: {Text: "*", Assoc: LeftAssoc, OperandNr: 2, Class: ClassArithmetic, Prec: 11, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpDivision:       {Text: "/", Assoc: LeftAssoc, OperandNr: 2, Class: ClassArithmetic, Prec: 11, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpModulus:        {Text: "%", Assoc: LeftAssoc, OperandNr: 2, Class: ClassArithmetic, Prec: 11, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpAddition:       {Text: "+", Assoc: LeftAssoc, OperandNr: 2, Class: ClassArithmetic, Prec: 10, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpSubstraction:   {Text: "-", Assoc: LeftAssoc, OperandNr: 2, Class: ClassArithmetic, Prec: 10, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpShiftLeft:      {Text: "<<", Assoc: LeftAssoc, OperandNr: 2, Class: ClassBitwise, Prec: 9, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpShiftRight:     {Text: ">>", Assoc: LeftAssoc, OperandNr: 2, Class: ClassBitwise, Prec: 9, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpLess:           {Text: "<", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpLessEqual:      {Text: "<=", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpGreater:        {Text: ">", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpGreaterEqual:   {Text: ">=", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpEqual:          {Text: "==", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpDistinct:       {Text: "!=", Assoc: LeftAssoc, OperandNr: 2, Class: ClassComparison, Prec: 8, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpBitwiseAnd:     {Text: "&", Assoc: LeftAssoc, OperandNr: 2, Class: ClassBitwise, Prec: 7, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpBitwiseXor:     {Text: "^", Assoc: LeftAssoc, OperandNr: 2, Class: ClassBitwise, Prec: 6, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpBitwiseOr:      {Text: "|", Assoc: LeftAssoc, OperandNr: 2, Class: ClassBitwise, Prec: 5, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpLogicalAnd:     {Text: "&&", Assoc: LeftAssoc, OperandNr: 2, Class: ClassLogical, Prec: 4, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpLogicalOr:      {Text: "||", Assoc: LeftAssoc, OperandNr: 2, Class: ClassLogical, Prec: 3, Init1: true, Init2: true, Overloadable: true, Computable: true},
	OpInitializ:      {Text: "=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init2: true, Lvalue1: true},
	OpAssign:         {Text: "=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpAddAssign:      {Text: "+=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpSubAssign:      {Text: "-=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpMulAssign:      {Text: "*=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpDivAssign:      {Text: "/=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpModAssign:      {Text: "%=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true, Overloadable: true},
	OpShlAssign:      {Text: "<<=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true},
	OpShrAssign:      {Text: ">>=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true},
	OpAndAssign:      {Text: "&=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true},
	OpXorAssign:      {Text: "^=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true},
	OpOrAssign:       {Text: "|=", Assoc: RightAssoc, OperandNr: 2, Class: ClassAssignment, Prec: 2, IsResultFirst: true, Init1: true, Init2: true, Lvalue1: true},
	OpSeqOper:        {Text: "->", Assoc: LeftAssoc, OperandNr: 2, Class: ClassSequence, Prec: 1, IsResultSecond: true},
}

// Info returns the table row for the operator.
func (o Operator) Info() *OprInfo {
	return &operatorTable[o]
}

func (o Operator) String() string {
	return operatorTable[o].Text
}

// IsOverloadableOperator reports whether a user operator function may take
// over the operator.
func IsOverloadableOperator(o Operator) bool {
	return operatorTable[o].Overloadable
}

// binaryOperatorFor maps a parser token kind to the binary expression
// operator, or false when the kind is not a binary operator symbol.
func binaryOperatorFor(k token.Kind) (Operator, bool) {
	switch k {
	case token.Star:
		return OpMultiplication, true
	case token.Slash:
		return OpDivision, true
	case token.Percent:
		return OpModulus, true
	case token.Plus:
		return OpAddition, true
	case token.Minus:
		return OpSubstraction, true
	case token.Shl:
		return OpShiftLeft, true
	case token.Shr:
		return OpShiftRight, true
	case token.Lt:
		return OpLess, true
	case token.LtEq:
		return OpLessEqual, true
	case token.Gt:
		return OpGreater, true
	case token.GtEq:
		return OpGreaterEqual, true
	case token.EqEq:
		return OpEqual, true
	case token.BangEq:
		return OpDistinct, true
	case token.Amp:
		return OpBitwiseAnd, true
	case token.Caret:
		return OpBitwiseXor, true
	case token.Pipe:
		return OpBitwiseOr, true
	case token.AndAnd:
		return OpLogicalAnd, true
	case token.OrOr:
		return OpLogicalOr, true
	case token.Assign:
		return OpAssign, true
	case token.PlusAssign:
		return OpAddAssign, true
	case token.MinusAssign:
		return OpSubAssign, true
	case token.StarAssign:
		return OpMulAssign, true
	case token.SlashAssign:
		return OpDivAssign, true
	case token.PercentAssign:
		return OpModAssign, true
	case token.ShlAssign:
		return OpShlAssign, true
	case token.ShrAssign:
		return OpShrAssign, true
	case token.AmpAssign:
		return OpAndAssign, true
	case token.PipeAssign:
		return OpOrAssign, true
	case token.CaretAssign:
		return OpXorAssign, true
	case token.Arrow:
		return OpSeqOper, true
	default:
		return 0, false
	}
}
