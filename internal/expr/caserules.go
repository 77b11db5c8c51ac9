package expr

import "ember/internal/sym"

// PromMode selects where the operands of a case rule promote to.
type PromMode uint8

const (
	// ToResult promotes flagged operands to the rule's result master.
	ToResult PromMode = iota + 1
	// ToMaximum promotes flagged operands to the maximum of the two operand
	// masters; the rule's result is that maximum.
	ToMaximum
	// ToOther promotes flagged operands to the rule's explicit target.
	ToOther
)

// MstMax is the result sentinel of ToMaximum rules: the result master is
// the operand maximum, not a declared type.
const MstMax sym.MasterType = 0xFF

// CaseRule is one row of the operand-case table: for an operator and a pair
// of allowed operand-master sets, the result master and promotion policy.
type CaseRule struct {
	Opr       Operator
	Mask1     uint32
	Mask2     uint32
	Prom1     bool
	Prom2     bool
	PromMode  PromMode
	MstProm   sym.MasterType
	MstResult sym.MasterType
}

// FindCaseRule scans the table sequentially; the first row whose operand
// masks include both operand masters wins. mst2 is ignored for unary
// operators. Returns nil when the combination is a type error.
func FindCaseRule(opr Operator, mst1, mst2 sym.MasterType) *CaseRule {
	unary := operatorTable[opr].OperandNr == 1
	for i := range caseRules {
		r := &caseRules[i]
		if r.Opr != opr {
			continue
		}
		if r.Mask1&mst1.Mask() == 0 {
			continue
		}
		if !unary && r.Mask2&mst2.Mask() == 0 {
			continue
		}
		return r
	}
	return nil
}

// ResultMaster resolves the result master of a rule for concrete operands.
func (r *CaseRule) ResultMaster(mst1, mst2 sym.MasterType) sym.MasterType {
	if r.MstResult == MstMax {
		if operatorTable[r.Opr].OperandNr == 1 {
			return mst1
		}
		return sym.MaxMaster(mst1, mst2)
	}
	return r.MstResult
}

// PromTarget resolves the promotion target for concrete operands.
func (r *CaseRule) PromTarget(mst1, mst2 sym.MasterType) sym.MasterType {
	switch r.PromMode {
	case ToResult:
		return r.ResultMaster(mst1, mst2)
	case ToMaximum:
		if operatorTable[r.Opr].OperandNr == 1 {
			return mst1
		}
		return sym.MaxMaster(mst1, mst2)
	default:
		return r.MstProm
	}
}

// Shorthand masks local to the table.
const (
	mB  = sym.MaskBol
	mC  = sym.MaskChr
	mS  = sym.MaskShr
	mI  = sym.MaskInt
	mL  = sym.MaskLon
	mF  = sym.MaskFlo
	mT  = sym.MaskStr
	mE  = sym.MaskEnu
	mK  = sym.MaskCla
	mX  = sym.MaskFix
	mD  = sym.MaskDyn
	mIA = sym.MaskIntAll
	mNA = sym.MaskNumAll
)

// caseRules is the fixed operand-case table. First match wins; a missing
// combination is a type error for the operator.
var caseRules = []CaseRule{
	// Postfix and prefix increment/decrement keep the operand master.
	{Opr: OpPostfixInc, Mask1: mC, MstResult: sym.MstChar, PromMode: ToResult},
	{Opr: OpPostfixInc, Mask1: mS, MstResult: sym.MstShort, PromMode: ToResult},
	{Opr: OpPostfixInc, Mask1: mI, MstResult: sym.MstInteger, PromMode: ToResult},
	{Opr: OpPostfixInc, Mask1: mL, MstResult: sym.MstLong, PromMode: ToResult},
	{Opr: OpPostfixDec, Mask1: mC, MstResult: sym.MstChar, PromMode: ToResult},
	{Opr: OpPostfixDec, Mask1: mS, MstResult: sym.MstShort, PromMode: ToResult},
	{Opr: OpPostfixDec, Mask1: mI, MstResult: sym.MstInteger, PromMode: ToResult},
	{Opr: OpPostfixDec, Mask1: mL, MstResult: sym.MstLong, PromMode: ToResult},
	{Opr: OpPrefixInc, Mask1: mC, MstResult: sym.MstChar, PromMode: ToResult},
	{Opr: OpPrefixInc, Mask1: mS, MstResult: sym.MstShort, PromMode: ToResult},
	{Opr: OpPrefixInc, Mask1: mI, MstResult: sym.MstInteger, PromMode: ToResult},
	{Opr: OpPrefixInc, Mask1: mL, MstResult: sym.MstLong, PromMode: ToResult},
	{Opr: OpPrefixDec, Mask1: mC, MstResult: sym.MstChar, PromMode: ToResult},
	{Opr: OpPrefixDec, Mask1: mS, MstResult: sym.MstShort, PromMode: ToResult},
	{Opr: OpPrefixDec, Mask1: mI, MstResult: sym.MstInteger, PromMode: ToResult},
	{Opr: OpPrefixDec, Mask1: mL, MstResult: sym.MstLong, PromMode: ToResult},

	// Unary sign operators and bitwise not keep the operand master.
	{Opr: OpUnaryPlus, Mask1: mNA, MstResult: MstMax, PromMode: ToMaximum},
	{Opr: OpUnaryMinus, Mask1: mNA, MstResult: MstMax, PromMode: ToMaximum},
	{Opr: OpBitwiseNot, Mask1: mIA, MstResult: MstMax, PromMode: ToMaximum},
	{Opr: OpLogicalNot, Mask1: mB, MstResult: sym.MstBoolean, PromMode: ToResult},

	// Multiplicative and additive arithmetic promotes to the maximum.
	{Opr: OpMultiplication, Mask1: mNA, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpDivision, Mask1: mNA, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpModulus, Mask1: mIA, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpAddition, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAddition, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAddition, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAddition, Mask1: mNA, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpSubstraction, Mask1: mNA, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},

	// Shifts keep the first operand's master; the count promotes to integer.
	{Opr: OpShiftLeft, Mask1: mC, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstChar},
	{Opr: OpShiftLeft, Mask1: mS, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstShort},
	{Opr: OpShiftLeft, Mask1: mI, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstInteger},
	{Opr: OpShiftLeft, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstLong},
	{Opr: OpShiftRight, Mask1: mC, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstChar},
	{Opr: OpShiftRight, Mask1: mS, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstShort},
	{Opr: OpShiftRight, Mask1: mI, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstInteger},
	{Opr: OpShiftRight, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstLong},

	// Ordered comparisons: the numeric ladder is spelled out so the result
	// stays Boolean while operands meet at their common master.
	{Opr: OpLess, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpLess, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpLessEqual, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpGreater, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpGreaterEqual, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},

	// Equality accepts booleans and enums on top of the ordered ladder.
	{Opr: OpEqual, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mE, Mask2: mE, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpEqual, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mE, Mask2: mE, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mC, Mask2: mT, Prom1: true, PromMode: ToOther, MstProm: sym.MstString, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mF, Mask2: mNA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mNA, Mask2: mF, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstFloat, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mL, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mIA, Mask2: mL, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstLong, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mI, Mask2: mC | mS | mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mC | mS, Mask2: mI, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mS, Mask2: mC | mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mC, Mask2: mS, Prom1: true, Prom2: true, PromMode: ToOther, MstProm: sym.MstShort, MstResult: sym.MstBoolean},
	{Opr: OpDistinct, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstBoolean},

	// Bitwise binary operators promote to the maximum integer master.
	{Opr: OpBitwiseAnd, Mask1: mIA, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpBitwiseXor, Mask1: mIA, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},
	{Opr: OpBitwiseOr, Mask1: mIA, Mask2: mIA, Prom1: true, Prom2: true, PromMode: ToMaximum, MstResult: MstMax},

	// Logical operators.
	{Opr: OpLogicalAnd, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpLogicalOr, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},

	// Assignment: same-master rows first, then the automatic widenings.
	{Opr: OpAssign, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpAssign, Mask1: mS, Mask2: mS, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpAssign, Mask1: mI, Mask2: mI, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpAssign, Mask1: mL, Mask2: mL, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpAssign, Mask1: mF, Mask2: mF, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpAssign, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAssign, Mask1: mE, Mask2: mE, PromMode: ToResult, MstResult: sym.MstEnum},
	{Opr: OpAssign, Mask1: mK, Mask2: mK, PromMode: ToResult, MstResult: sym.MstClass},
	{Opr: OpAssign, Mask1: mX, Mask2: mX, PromMode: ToResult, MstResult: sym.MstFixArray},
	{Opr: OpAssign, Mask1: mD, Mask2: mD, PromMode: ToResult, MstResult: sym.MstDynArray},
	{Opr: OpAssign, Mask1: mS, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpAssign, Mask1: mI, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpAssign, Mask1: mL, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpAssign, Mask1: mF, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpAssign, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpInitializ, Mask1: mB, Mask2: mB, PromMode: ToResult, MstResult: sym.MstBoolean},
	{Opr: OpInitializ, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpInitializ, Mask1: mS, Mask2: mS, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpInitializ, Mask1: mI, Mask2: mI, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpInitializ, Mask1: mL, Mask2: mL, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpInitializ, Mask1: mF, Mask2: mF, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpInitializ, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpInitializ, Mask1: mE, Mask2: mE, PromMode: ToResult, MstResult: sym.MstEnum},
	{Opr: OpInitializ, Mask1: mK, Mask2: mK, PromMode: ToResult, MstResult: sym.MstClass},
	{Opr: OpInitializ, Mask1: mX, Mask2: mX, PromMode: ToResult, MstResult: sym.MstFixArray},
	{Opr: OpInitializ, Mask1: mD, Mask2: mD, PromMode: ToResult, MstResult: sym.MstDynArray},
	{Opr: OpInitializ, Mask1: mS, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpInitializ, Mask1: mI, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpInitializ, Mask1: mL, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpInitializ, Mask1: mF, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpInitializ, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstString},

	// Compound assignment: the left side fixes the result master.
	{Opr: OpAddAssign, Mask1: mT, Mask2: mT, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAddAssign, Mask1: mT, Mask2: mC, Prom2: true, PromMode: ToResult, MstResult: sym.MstString},
	{Opr: OpAddAssign, Mask1: mF, Mask2: mNA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpAddAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpAddAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpAddAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpAddAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpSubAssign, Mask1: mF, Mask2: mNA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpSubAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpSubAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpSubAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpSubAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpMulAssign, Mask1: mF, Mask2: mNA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpMulAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpMulAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpMulAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpMulAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpDivAssign, Mask1: mF, Mask2: mNA, Prom2: true, PromMode: ToResult, MstResult: sym.MstFloat},
	{Opr: OpDivAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpDivAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpDivAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpDivAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpModAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpModAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpModAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpModAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpShlAssign, Mask1: mC, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstChar},
	{Opr: OpShlAssign, Mask1: mS, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstShort},
	{Opr: OpShlAssign, Mask1: mI, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstInteger},
	{Opr: OpShlAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstLong},
	{Opr: OpShrAssign, Mask1: mC, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstChar},
	{Opr: OpShrAssign, Mask1: mS, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstShort},
	{Opr: OpShrAssign, Mask1: mI, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstInteger},
	{Opr: OpShrAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToOther, MstProm: sym.MstInteger, MstResult: sym.MstLong},
	{Opr: OpAndAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpAndAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpAndAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpAndAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpXorAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpXorAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpXorAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpXorAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
	{Opr: OpOrAssign, Mask1: mL, Mask2: mIA, Prom2: true, PromMode: ToResult, MstResult: sym.MstLong},
	{Opr: OpOrAssign, Mask1: mI, Mask2: mC | mS | mI, Prom2: true, PromMode: ToResult, MstResult: sym.MstInteger},
	{Opr: OpOrAssign, Mask1: mS, Mask2: mC | mS, Prom2: true, PromMode: ToResult, MstResult: sym.MstShort},
	{Opr: OpOrAssign, Mask1: mC, Mask2: mC, PromMode: ToResult, MstResult: sym.MstChar},
}

// IsDataTypePromotionAutomatic reports whether a value of master frm may be
// silently widened to master to.
func IsDataTypePromotionAutomatic(frm, to sym.MasterType) bool {
	if frm == to {
		return true
	}
	switch to {
	case sym.MstShort:
		return frm == sym.MstChar
	case sym.MstInteger:
		return frm == sym.MstChar || frm == sym.MstShort
	case sym.MstLong:
		return frm == sym.MstChar || frm == sym.MstShort || frm == sym.MstInteger
	case sym.MstFloat:
		return frm.IsNumeric() && frm != sym.MstFloat
	case sym.MstString:
		return frm == sym.MstChar
	default:
		return false
	}
}
