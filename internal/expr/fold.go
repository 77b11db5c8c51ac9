package expr

import (
	"math"

	"fortio.org/safecast"

	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/sym"
)

// compute is the stage-5 mini-interpreter: it runs the RPN pushing only
// literal operands and refusing anything else, so a foldable expression
// reduces to one literal token without emitting a single instruction.
func (e *Expression) compute() (Token, bool) {
	var stack []Token
	for i := range e.tokens {
		t := e.tokens[i]
		switch t.id {
		case IDOperand:
			if !t.IsComputableOperand() {
				return Token{}, e.err(diag.CodeNotComputable, t.pos, "operand is not a literal value")
			}
			stack = append(stack, t)
		case IDOperator:
			if !t.IsComputableOperator() {
				return Token{}, e.err(diag.CodeNotComputable, t.pos, "operator %s is not computable", t.Operator)
			}
			arity := t.Operator.Info().OperandNr
			if !e.assertStack(len(stack), arity, "operator "+t.Operator.Info().Text, t.pos) {
				return Token{}, false
			}
			var op1, op2 Token
			if arity == 2 {
				op2 = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
			op1 = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			res, ok := e.computeOperation(&t, &op1, &op2)
			if !ok {
				return Token{}, false
			}
			stack = append(stack, res)
		default:
			return Token{}, e.err(diag.CodeNotComputable, t.pos, "%s is not computable", t.id)
		}
	}
	if len(stack) != 1 {
		pos := e.tokens[0].pos
		return Token{}, e.err(diag.CodeNotComputable, pos, "expression does not reduce to a single value")
	}
	return stack[0], true
}

// computeOperation applies one operator to literal operands. It shares the
// promotion routine with the compiled path so folded promotions always
// agree with emitted ones.
func (e *Expression) computeOperation(t *Token, op1, op2 *Token) (Token, bool) {
	opr := t.Operator
	info := opr.Info()

	if opr == OpTypeCast {
		res := *op1
		tm := e.tab.TypeMaster(t.CastTypIndex)
		if !tm.IsAtomic() {
			return Token{}, e.err(diag.CodeNotComputable, t.pos, "cast to %s is not computable", tm)
		}
		if err := res.ToMaster(tm); err != nil {
			return Token{}, e.err(diag.CodeConstArith, t.pos, "%s", err.Error())
		}
		res.LitNumTypIndex = t.CastTypIndex
		return res, true
	}

	m1 := op1.MstType()
	m2 := sym.MstBoolean
	if info.OperandNr == 2 {
		m2 = op2.MstType()
	}
	rule := FindCaseRule(opr, m1, m2)
	if rule == nil {
		if info.OperandNr == 1 {
			return Token{}, e.err(diag.CodeType, t.pos, "operator %s does not accept a %s operand", info.Text, m1)
		}
		return Token{}, e.err(diag.CodeType, t.pos, "operator %s does not accept %s and %s operands", info.Text, m1, m2)
	}
	if !e.promoteOperands(sym.Scope{}, 0, rule, op1, op2, false) {
		return Token{}, false
	}
	target := rule.PromTarget(m1, m2)
	resMst := rule.ResultMaster(m1, m2)

	res := Token{}
	pos := t.pos
	switch info.Class {
	case ClassArithmetic:
		return e.computeArithmetic(t, op1, op2, target, resMst)

	case ClassComparison:
		var c bool
		if op1.MstType() == sym.MstString {
			switch opr {
			case OpLess:
				c = op1.Value.Str < op2.Value.Str
			case OpLessEqual:
				c = op1.Value.Str <= op2.Value.Str
			case OpGreater:
				c = op1.Value.Str > op2.Value.Str
			case OpGreaterEqual:
				c = op1.Value.Str >= op2.Value.Str
			case OpEqual:
				c = op1.Value.Str == op2.Value.Str
			case OpDistinct:
				c = op1.Value.Str != op2.Value.Str
			}
		} else if op1.MstType() == sym.MstBoolean {
			switch opr {
			case OpEqual:
				c = op1.Value.Bol == op2.Value.Bol
			case OpDistinct:
				c = op1.Value.Bol != op2.Value.Bol
			}
		} else if op1.MstType() == sym.MstFloat {
			a, b := op1.Value.Flo, op2.Value.Flo
			switch opr {
			case OpLess:
				c = a < b
			case OpLessEqual:
				c = a <= b
			case OpGreater:
				c = a > b
			case OpGreaterEqual:
				c = a >= b
			case OpEqual:
				c = a == b
			case OpDistinct:
				c = a != b
			}
		} else {
			a, b := op1.litLon(), op2.litLon()
			switch opr {
			case OpLess:
				c = a < b
			case OpLessEqual:
				c = a <= b
			case OpGreater:
				c = a > b
			case OpGreaterEqual:
				c = a >= b
			case OpEqual:
				c = a == b
			case OpDistinct:
				c = a != b
			}
		}
		res.ThisBol(e.tab, c, pos)
		return res, true

	case ClassLogical:
		switch opr {
		case OpLogicalNot:
			res.ThisBol(e.tab, !op1.Value.Bol, pos)
		case OpLogicalAnd:
			res.ThisBol(e.tab, op1.Value.Bol && op2.Value.Bol, pos)
		case OpLogicalOr:
			res.ThisBol(e.tab, op1.Value.Bol || op2.Value.Bol, pos)
		}
		return res, true

	case ClassBitwise:
		a := op1.litLon()
		b := int64(0)
		if info.OperandNr == 2 {
			b = op2.litLon()
		}
		var r int64
		switch opr {
		case OpBitwiseNot:
			r = ^a
		case OpBitwiseAnd:
			r = a & b
		case OpBitwiseXor:
			r = a ^ b
		case OpBitwiseOr:
			r = a | b
		case OpShiftLeft, OpShiftRight:
			if b < 0 {
				return Token{}, e.err(diag.CodeConstArith, pos, "negative shift count %d", b)
			}
			if b >= 64 {
				b = 63
			}
			if opr == OpShiftLeft {
				r = a << uint(b)
			} else {
				r = a >> uint(b)
			}
		}
		return e.litFromLon(r, resMst, pos, "operator "+info.Text)

	default:
		return Token{}, e.err(diag.CodeNotComputable, pos, "operator %s is not computable", info.Text)
	}
}

// computeArithmetic folds the arithmetic operators with explicit safe-op
// predicates on the integer masters and exception checks on floats.
func (e *Expression) computeArithmetic(t *Token, op1, op2 *Token, target, resMst sym.MasterType) (Token, bool) {
	opr := t.Operator
	pos := t.pos
	res := Token{}

	if target == sym.MstString {
		if opr != OpAddition {
			return Token{}, e.err(diag.CodeNotComputable, pos, "operator %s is not computable on strings", opr)
		}
		res.ThisStr(e.tab, op1.Value.Str+op2.Value.Str, pos)
		return res, true
	}

	if target == sym.MstFloat {
		a := op1.Value.Flo
		b := 0.0
		if opr != OpUnaryMinus && opr != OpUnaryPlus {
			b = op2.Value.Flo
		}
		var r float64
		switch opr {
		case OpUnaryPlus:
			r = a
		case OpUnaryMinus:
			r = -a
		case OpAddition:
			r = a + b
		case OpSubstraction:
			r = a - b
		case OpMultiplication:
			r = a * b
		case OpDivision:
			if b == 0 {
				return Token{}, e.err(diag.CodeConstArith, pos, "division by zero")
			}
			r = a / b
		default:
			return Token{}, e.err(diag.CodeNotComputable, pos, "operator %s is not computable on floats", opr)
		}
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return Token{}, e.err(diag.CodeConstArith, pos, "floating-point exception computing %g %s %g", a, opr, b)
		}
		res.ThisFlo(e.tab, r, pos)
		return res, true
	}

	a := op1.litLon()
	b := int64(0)
	binary := opr != OpUnaryMinus && opr != OpUnaryPlus
	if binary {
		b = op2.litLon()
	}
	var r int64
	switch opr {
	case OpUnaryPlus:
		r = a
	case OpUnaryMinus:
		if a == math.MinInt64 {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow negating %d", a)
		}
		r = -a
	case OpAddition:
		var ok bool
		if r, ok = safeAdd(a, b); !ok {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow adding %d + %d as %s", a, b, target)
		}
	case OpSubstraction:
		var ok bool
		if r, ok = safeSub(a, b); !ok {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow subtracting %d - %d as %s", a, b, target)
		}
	case OpMultiplication:
		var ok bool
		if r, ok = safeMul(a, b); !ok {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow multiplying %d * %d as %s", a, b, target)
		}
	case OpDivision:
		if b == 0 {
			return Token{}, e.err(diag.CodeConstArith, pos, "division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow dividing %d / %d", a, b)
		}
		r = a / b
	case OpModulus:
		if b == 0 {
			return Token{}, e.err(diag.CodeConstArith, pos, "modulo by zero")
		}
		r = a % b
	default:
		return Token{}, e.err(diag.CodeNotComputable, pos, "operator %s is not computable", opr)
	}
	return e.litFromLon(r, resMst, pos, "operator "+opr.Info().Text)
}

// litFromLon narrows a folded 64-bit result to the rule's result master,
// rejecting anything out of range instead of wrapping.
func (e *Expression) litFromLon(r int64, resMst sym.MasterType, pos source.Pos, what string) (Token, bool) {
	res := Token{}
	switch resMst {
	case sym.MstChar:
		v, err := safecast.Conv[uint8](r)
		if err != nil {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow in %s: %d does not fit Char", what, r)
		}
		res.ThisChr(e.tab, v, pos)
	case sym.MstShort:
		v, err := safecast.Conv[int16](r)
		if err != nil {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow in %s: %d does not fit Short", what, r)
		}
		res.ThisShr(e.tab, v, pos)
	case sym.MstInteger:
		v, err := safecast.Conv[int32](r)
		if err != nil {
			return Token{}, e.err(diag.CodeConstArith, pos, "overflow in %s: %d does not fit Integer", what, r)
		}
		res.ThisInt(e.tab, v, pos)
	case sym.MstLong:
		res.ThisLon(e.tab, r, pos)
	default:
		return Token{}, e.err(diag.CodeInternal, pos, "unexpected fold result master %s", resMst)
	}
	return res, true
}

func safeAdd(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func safeSub(a, b int64) (int64, bool) {
	r := a - b
	if (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func safeMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}
