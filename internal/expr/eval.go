package expr

import (
	"ember/internal/diag"
	"ember/internal/emit"
	"ember/internal/isa"
	"ember/internal/source"
	"ember/internal/sym"
)

// ternarySeed is one entry of the ternary label stack: the seed shared by
// the ? : pair and the result temporary both branches write into.
type ternarySeed struct {
	seed     int64
	varIndex int
	reused   bool
}

// flowCtx is one active flow-operator context.
type flowCtx struct {
	kind      FlowOpr
	label     int64
	baseDepth int

	origArray    Token
	onVarIndex   int
	ixVarIndex   int
	resArray     Token
	elemTypIndex int
	hasIf        bool
}

// evaluator is the stage-4 stack machine over the RPN tokens.
type evaluator struct {
	e     *Expression
	scope sym.Scope
	stack []Token
	seeds []ternarySeed
	flows []flowCtx
}

func (v *evaluator) codeBlockID() int64 {
	if len(v.flows) == 0 {
		return 0
	}
	return v.flows[len(v.flows)-1].label
}

func (v *evaluator) push(t Token) {
	v.stack = append(v.stack, t)
}

func (v *evaluator) pop() Token {
	t := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return t
}

// sameOperand compares only address-mode operands by variable index.
// Indirection-aliased operands are never considered the same even if they
// alias at runtime; the conservative answer keeps reuse sound.
func sameOperand(a, b *Token) bool {
	return a.id == IDOperand && b.id == IDOperand &&
		a.AdrMode == isa.Address && b.AdrMode == isa.Address &&
		a.VarIndex == b.VarIndex
}

// compile runs the RPN evaluator, emitting VM instructions.
func (e *Expression) compile(scope sym.Scope, needResult bool) (Token, bool) {
	v := &evaluator{e: e, scope: scope}
	tab := e.tab

	i := 0
	for i < len(e.tokens) {
		t := e.tokens[i]
		switch t.id {
		case IDOperand:
			if t.HasInitialization {
				if !e.initOperand(&t) {
					return Token{}, false
				}
				tab.SetInitialized(t.VarIndex)
			}
			v.push(t)
			i++

		case IDUndefVar:
			// a sibling flow operator may have defined the name meanwhile
			if varIndex := tab.VarSearch(t.Name, scope); varIndex != -1 {
				nt := Token{}
				nt.ThisVar(tab, varIndex, t.pos)
				v.push(nt)
			} else {
				v.push(t)
			}
			i++

		case IDOperator:
			skip, ok := v.operatorCall(i)
			if !ok {
				return Token{}, false
			}
			i += 1 + skip

		case IDField:
			if !v.fieldCall(&t) {
				return Token{}, false
			}
			i++

		case IDSubscript:
			if !v.subscriptCall(&t) {
				return Token{}, false
			}
			i++

		case IDFunction:
			if !v.functionMethodCall(&t, callFunction) {
				return Token{}, false
			}
			i++

		case IDMethod:
			if !v.functionMethodCall(&t, callMethod) {
				return Token{}, false
			}
			i++

		case IDConstructor:
			if !v.functionMethodCall(&t, callConstructor) {
				return Token{}, false
			}
			i++

		case IDComplex:
			if !v.complexValueCall(&t) {
				return Token{}, false
			}
			i++

		case IDLowLevelOpr:
			if !v.lowLevelOperatorCall(&t) {
				return Token{}, false
			}
			i++

		case IDFlowOpr:
			if !v.flowOperatorCall(&t) {
				return Token{}, false
			}
			i++

		case IDVoidRes:
			v.push(t)
			i++

		default:
			return Token{}, e.err(diag.CodeInternal, t.pos, "unexpected %s token during evaluation", t.id)
		}
	}

	// end-of-RPN stack discipline (property P1): one entry for expressions
	// with a result, zero for void expressions
	switch {
	case needResult:
		if len(v.stack) != 1 {
			var pos source.Pos
			if len(e.tokens) > 0 {
				pos = e.tokens[len(e.tokens)-1].pos
			}
			return Token{}, e.err(diag.CodeSyntax, pos, "expression has no result")
		}
		res := v.pop()
		if res.id == IDVoidRes {
			return Token{}, e.err(diag.CodeType, res.pos, "void function %s produces no value", res.Name)
		}
		if res.id == IDUndefVar {
			return Token{}, e.err(diag.CodeName, res.pos, "undefined identifier %s", res.Name)
		}
		if res.id == IDOperand && res.DimNr > 0 {
			return Token{}, e.err(diag.CodeType, res.pos, "subscript names only %d of the array's %d dimensions", res.DimNr, e.tab.Types[res.TypIndex()].DimNr)
		}
		return res, true
	default:
		for len(v.stack) > 0 {
			left := v.pop()
			if left.id == IDOperand && left.IsCalculated {
				e.warn(diag.CodeDiscarded, left.pos, "expression result is discarded")
			}
			left.Release()
		}
		return Token{}, true
	}
}

// operatorCall pops the operator's operands, runs the pre-checks, resolves
// the case rule or a user overload, promotes, allocates the result and
// emits the instruction. It returns how many extra RPN tokens were
// consumed (the assign-lookahead optimization eats the following Assign).
func (v *evaluator) operatorCall(idx int) (int, bool) {
	e := v.e
	t := &e.tokens[idx]
	opr := t.Operator
	info := opr.Info()

	if opr == OpSeqOper {
		if !e.assertStack(len(v.stack), 2, "operator ->", t.pos) {
			return 0, false
		}
		op2 := v.pop()
		op1 := v.pop()
		if op1.id != IDVoidRes {
			op1.Release()
		}
		v.push(op2)
		return 0, true
	}

	if !e.assertStack(len(v.stack), info.OperandNr, "operator "+info.Text, t.pos) {
		return 0, false
	}
	var op1, op2 Token
	if info.OperandNr == 2 {
		op2 = v.pop()
	}
	op1 = v.pop()

	if op1.id == IDVoidRes || op2.id == IDVoidRes {
		name := op1.Name
		if op2.id == IDVoidRes {
			name = op2.Name
		}
		return 0, e.err(diag.CodeType, t.pos, "void function %s cannot feed operator %s", name, info.Text)
	}

	// late definition of an undefined variable by initialization
	if op1.id == IDUndefVar {
		if opr != OpInitializ {
			return 0, e.err(diag.CodeName, op1.pos, "undefined identifier %s", op1.Name)
		}
		typ := op2.TypIndex()
		if typ < 0 {
			return 0, e.err(diag.CodeType, op1.pos, "cannot infer a type for %s", op1.Name)
		}
		varIndex := e.tab.StoreVariable(sym.Variable{
			Name:        op1.Name,
			TypIndex:    typ,
			Scope:       v.scope,
			CodeBlockID: op1.FlowLabel,
		})
		e.asm.OutVarDecl(e.tab.TypeName(typ), op1.Name, e.tab.Vars[varIndex].Address, false)
		nt := Token{}
		nt.ThisVar(e.tab, varIndex, op1.pos)
		op1 = nt
	}
	if op2.id == IDUndefVar {
		return 0, e.err(diag.CodeName, op2.pos, "undefined identifier %s", op2.Name)
	}

	if opr == OpTypeCast {
		res, ok := v.castCall(t, &op1)
		if !ok {
			return 0, false
		}
		v.push(res)
		return 0, true
	}

	// pre-checks: lvalue, const, initialization
	if info.Lvalue1 && !op1.IsLValue() {
		return 0, e.err(diag.CodeType, op1.pos, "operator %s needs a modifiable operand on its left side", info.Text)
	}
	if info.Lvalue2 && !op2.IsLValue() {
		return 0, e.err(diag.CodeType, op2.pos, "operator %s needs a modifiable operand on its right side", info.Text)
	}
	if info.IsResultFirst && info.Lvalue1 && op1.IsConst {
		return 0, e.err(diag.CodeType, op1.pos, "cannot modify constant operand")
	}
	if info.Init1 && !op1.IsInitialized() {
		return 0, e.err(diag.CodeInit, op1.pos, "operand is not initialized")
	}
	if info.OperandNr == 2 && info.Init2 && !op2.IsInitialized() {
		return 0, e.err(diag.CodeInit, op2.pos, "operand is not initialized")
	}

	// short-circuit constant folding
	if info.Computable && op1.IsComputableOperand() &&
		(info.OperandNr == 1 || op2.IsComputableOperand()) {
		res, ok := e.computeOperation(t, &op1, &op2)
		if !ok {
			return 0, false
		}
		v.push(res)
		return 0, true
	}

	// user operator overloads run before the case rules
	if info.Overloadable {
		typ2 := -1
		if info.OperandNr == 2 {
			typ2 = op2.TypIndex()
		}
		if funIndex := e.tab.OprSearch(info.Text, op1.TypIndex(), typ2); funIndex != -1 {
			res, ok := v.operatorOverloadCall(t, funIndex, &op1, &op2)
			if !ok {
				return 0, false
			}
			v.push(res)
			return 0, true
		}
	}

	m1 := op1.MstType()
	m2 := sym.MstBoolean
	if info.OperandNr == 2 {
		m2 = op2.MstType()
	}
	rule := FindCaseRule(opr, m1, m2)
	if rule == nil {
		if info.OperandNr == 1 {
			return 0, e.err(diag.CodeType, t.pos, "operator %s does not accept a %s operand", info.Text, m1)
		}
		return 0, e.err(diag.CodeType, t.pos, "operator %s does not accept %s and %s operands", info.Text, m1, m2)
	}

	// assignment between composite operands additionally needs matching
	// element geometry
	if info.Class == ClassAssignment && !m1.IsAtomic() && m1 != sym.MstEnum {
		if !e.tab.SameType(op1.TypIndex(), op2.TypIndex()) {
			return 0, e.err(diag.CodeType, t.pos, "cannot assign %s to %s",
				e.tab.TypeName(op2.TypIndex()), e.tab.TypeName(op1.TypIndex()))
		}
	}

	if !e.promoteOperands(v.scope, v.codeBlockID(), rule, &op1, &op2, true) {
		return 0, false
	}

	// source-use propagation on the consumed reads; plain assignment only
	// writes its left side
	if opr != OpAssign && opr != OpInitializ {
		op1.SetSourceUsed(v.scope, false)
	}
	if info.OperandNr == 2 {
		op2.SetSourceUsed(v.scope, false)
	}

	// result selection: aliasing wins over the assign lookahead
	skip := 0
	var result Token
	switch {
	case info.IsResultFirst:
		result = op1
	case info.IsResultSecond:
		result = op2
	default:
		resMst := rule.ResultMaster(m1, m2)
		resTyp := e.tab.SystemTypeFor(resMst)
		if resTyp == -1 {
			resTyp = op1.TypIndex()
		}
		op1.Release()
		if info.OperandNr == 2 {
			op2.Release()
		}
		if lv, consumed := v.assignLookahead(idx, resTyp); lv != nil {
			result = *lv
			skip = consumed
		} else {
			result.NewVarTyp(e.tab, v.scope, v.codeBlockID(), resTyp, t.pos, sym.TempRegular)
		}
	}

	if !v.emitOperation(t, &result, &op1, &op2) {
		return 0, false
	}

	if info.IsResultFirst && info.OperandNr == 2 {
		op2.Release()
	}
	if info.IsResultSecond {
		op1.Release()
	}
	if info.IsResultFirst || skip > 0 {
		e.tab.SetInitialized(result.VarIndex)
	}
	if !info.IsResultFirst && !info.IsResultSecond {
		result.IsCalculated = true
		result.Lock()
	}
	v.push(result)
	return skip, true
}

// assignLookahead implements the result-reuse optimization: when the next
// RPN token is Assign and the value beneath the operands is a matching
// lvalue, that lvalue becomes the operator's output and the Assign token is
// consumed here.
func (v *evaluator) assignLookahead(idx int, resTyp int) (*Token, int) {
	e := v.e
	if idx+1 >= len(e.tokens) {
		return nil, 0
	}
	next := &e.tokens[idx+1]
	if next.id != IDOperator || next.Operator != OpAssign {
		return nil, 0
	}
	if len(v.stack) == 0 {
		return nil, 0
	}
	lv := &v.stack[len(v.stack)-1]
	if !lv.IsLValue() || lv.IsConst {
		return nil, 0
	}
	if !e.tab.SameType(lv.TypIndex(), resTyp) {
		return nil, 0
	}
	out := v.pop()
	return &out, 1
}

// emitOperation writes the VM instruction for one operator application.
func (v *evaluator) emitOperation(t *Token, result, op1, op2 *Token) bool {
	e := v.e
	info := t.Operator.Info()
	switch t.Operator {
	case OpAssign, OpInitializ:
		return v.emitCopy(result, op2)
	case OpAddAssign:
		if op1.MstType() == sym.MstString {
			e.asm.WriteCode(isa.SCONC, op1.Asm(), op1.Asm(), op2.Asm())
			return true
		}
		e.asm.WriteCode(isa.MVAD, op1.Asm(), op2.Asm())
	case OpSubAssign:
		e.asm.WriteCode(isa.MVSU, op1.Asm(), op2.Asm())
	case OpMulAssign:
		e.asm.WriteCode(isa.MVMU, op1.Asm(), op2.Asm())
	case OpDivAssign:
		e.asm.WriteCode(isa.MVDI, op1.Asm(), op2.Asm())
	case OpModAssign:
		e.asm.WriteCode(isa.MVMO, op1.Asm(), op2.Asm())
	case OpShlAssign:
		e.asm.WriteCode(isa.MVSL, op1.Asm(), op2.Asm())
	case OpShrAssign:
		e.asm.WriteCode(isa.MVSR, op1.Asm(), op2.Asm())
	case OpAndAssign:
		e.asm.WriteCode(isa.MVAN, op1.Asm(), op2.Asm())
	case OpXorAssign:
		e.asm.WriteCode(isa.MVXO, op1.Asm(), op2.Asm())
	case OpOrAssign:
		e.asm.WriteCode(isa.MVOR, op1.Asm(), op2.Asm())
	case OpPostfixInc:
		e.asm.WriteCode(isa.PINC, result.Asm(), op1.Asm())
	case OpPostfixDec:
		e.asm.WriteCode(isa.PDEC, result.Asm(), op1.Asm())
	case OpPrefixInc:
		e.asm.WriteCode(isa.INC, op1.Asm())
	case OpPrefixDec:
		e.asm.WriteCode(isa.DEC, op1.Asm())
	case OpUnaryPlus:
		// the result aliases the operand; nothing to emit
	case OpUnaryMinus:
		e.asm.WriteCode(isa.NEG, result.Asm(), op1.Asm())
	case OpLogicalNot:
		e.asm.WriteCode(isa.LNOT, result.Asm(), op1.Asm())
	case OpBitwiseNot:
		e.asm.WriteCode(isa.BNOT, result.Asm(), op1.Asm())
	case OpMultiplication:
		e.asm.WriteCode(isa.MUL, result.Asm(), op1.Asm(), op2.Asm())
	case OpDivision:
		e.asm.WriteCode(isa.DIV, result.Asm(), op1.Asm(), op2.Asm())
	case OpModulus:
		e.asm.WriteCode(isa.MOD, result.Asm(), op1.Asm(), op2.Asm())
	case OpAddition:
		if op1.MstType() == sym.MstString {
			e.asm.WriteCode(isa.SCONC, result.Asm(), op1.Asm(), op2.Asm())
			return true
		}
		e.asm.WriteCode(isa.ADD, result.Asm(), op1.Asm(), op2.Asm())
	case OpSubstraction:
		e.asm.WriteCode(isa.SUB, result.Asm(), op1.Asm(), op2.Asm())
	case OpShiftLeft:
		e.asm.WriteCode(isa.SHL, result.Asm(), op1.Asm(), op2.Asm())
	case OpShiftRight:
		e.asm.WriteCode(isa.SHR, result.Asm(), op1.Asm(), op2.Asm())
	case OpLess:
		e.asm.WriteCode(isa.LES, result.Asm(), op1.Asm(), op2.Asm())
	case OpLessEqual:
		e.asm.WriteCode(isa.LEQ, result.Asm(), op1.Asm(), op2.Asm())
	case OpGreater:
		e.asm.WriteCode(isa.GRE, result.Asm(), op1.Asm(), op2.Asm())
	case OpGreaterEqual:
		e.asm.WriteCode(isa.GEQ, result.Asm(), op1.Asm(), op2.Asm())
	case OpEqual:
		e.asm.WriteCode(isa.EQU, result.Asm(), op1.Asm(), op2.Asm())
	case OpDistinct:
		e.asm.WriteCode(isa.DIS, result.Asm(), op1.Asm(), op2.Asm())
	case OpBitwiseAnd:
		e.asm.WriteCode(isa.BAND, result.Asm(), op1.Asm(), op2.Asm())
	case OpBitwiseXor:
		e.asm.WriteCode(isa.BXOR, result.Asm(), op1.Asm(), op2.Asm())
	case OpBitwiseOr:
		e.asm.WriteCode(isa.BOR, result.Asm(), op1.Asm(), op2.Asm())
	case OpLogicalAnd:
		e.asm.WriteCode(isa.LAND, result.Asm(), op1.Asm(), op2.Asm())
	case OpLogicalOr:
		e.asm.WriteCode(isa.LOR, result.Asm(), op1.Asm(), op2.Asm())
	default:
		return e.err(diag.CodeInternal, t.pos, "no emission rule for operator %s", info.Text)
	}
	return true
}

// emitCopy writes src into dst, replicating inner blocks for composite
// values so owned heap blocks never alias.
func (v *evaluator) emitCopy(dst, src *Token) bool {
	if sameOperand(dst, src) {
		return true
	}
	if v.e.tab.HasInnerBlocks(dst.TypIndex()) || !dst.IsMasterAtomic() {
		return v.e.copyOperand(dst, src)
	}
	v.e.asm.WriteCode(isa.MV, dst.Asm(), src.Asm())
	return true
}

// castCall applies the type-cast operator to one operand.
func (v *evaluator) castCall(t *Token, opnd *Token) (Token, bool) {
	e := v.e
	target := t.CastTypIndex
	tm := e.tab.TypeMaster(target)
	om := opnd.MstType()

	if !opnd.IsInitialized() {
		return Token{}, e.err(diag.CodeInit, opnd.pos, "operand of type cast is not initialized")
	}
	opnd.SetSourceUsed(v.scope, false)

	// identical master: the result is the operand itself, retyped
	if tm == om {
		res := *opnd
		if res.AdrMode == isa.LitValue {
			res.LitNumTypIndex = target
		} else if tm == sym.MstFixArray || tm == sym.MstDynArray {
			if !e.tab.EquivalentArrays(target, opnd.TypIndex()) {
				return v.arrayShapeCast(t, opnd, target)
			}
		}
		return res, true
	}

	// literal folding for atomic targets
	if opnd.AdrMode == isa.LitValue && tm.IsAtomic() {
		res := *opnd
		if err := res.ToMaster(tm); err != nil {
			return Token{}, e.err(diag.CodeConstArith, t.pos, "%s", err.Error())
		}
		res.LitNumTypIndex = target
		return res, true
	}

	// array shape conversions
	if (om == sym.MstFixArray || om == sym.MstDynArray) && (tm == sym.MstFixArray || tm == sym.MstDynArray) {
		return v.arrayShapeCast(t, opnd, target)
	}

	if !tm.IsAtomic() || !om.IsAtomic() {
		return Token{}, e.err(diag.CodeType, t.pos, "cannot cast %s to %s", om, tm)
	}
	op := convOpcode(om, tm)
	if op == isa.NOP {
		return Token{}, e.err(diag.CodeType, t.pos, "cannot cast %s to %s", om, tm)
	}
	var res Token
	opnd.Release()
	res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), target, t.pos, sym.TempRegular)
	e.asm.WriteCode(op, res.Asm(), opnd.Asm())
	return res, true
}

// arrayShapeCast emits the fixed/dynamic array conversions with their
// dimension and cell-size arguments.
func (v *evaluator) arrayShapeCast(t *Token, opnd *Token, target int) (Token, bool) {
	e := v.e
	om := opnd.MstType()
	tm := e.tab.TypeMaster(target)
	tgt := &e.tab.Types[target]
	cellSize := e.tab.TypeLength(tgt.ElemTypIndex)

	var res Token
	opnd.Release()
	res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), target, t.pos, sym.TempRegular)
	switch {
	case om == sym.MstFixArray && tm == sym.MstDynArray:
		e.asm.WriteCode(isa.AF2D, res.Asm(), opnd.Asm(), isa.AsmLitWrd(int64(tgt.DimNr)), isa.AsmLitWrd(cellSize))
	case om == sym.MstFixArray && tm == sym.MstFixArray:
		def := emitGeometry(e, target)
		var sizes [5]int64
		copy(sizes[:], e.tab.Dims[tgt.DimIndex].DimSize[:])
		e.asm.UpdateLnkSymDimension(def, sizes)
		e.asm.WriteCode(isa.AF2F, res.Asm(), opnd.Asm(), isa.AsmAgx(def), isa.AsmLitWrd(cellSize))
	case om == sym.MstDynArray && tm == sym.MstFixArray:
		def := emitGeometry(e, target)
		e.asm.WriteCode(isa.ATOCA, res.Asm(), opnd.Asm(), isa.AsmAgx(def), isa.AsmLitWrd(cellSize))
	default:
		e.asm.WriteCode(isa.ACOPY, res.Asm(), opnd.Asm())
	}
	return res, true
}

// fieldCall resolves a field access on a class operand.
func (v *evaluator) fieldCall(t *Token) bool {
	e := v.e
	if !e.assertStack(len(v.stack), 1, "field access", t.pos) {
		return false
	}
	opnd := v.pop()
	if opnd.MstType() != sym.MstClass {
		return e.err(diag.CodeType, t.pos, "member access on non-class operand of type %s", e.tab.TypeName(opnd.TypIndex()))
	}
	fldIndex := e.tab.FldSearch(opnd.TypIndex(), t.Name)
	if fldIndex == -1 {
		return e.err(diag.CodeName, t.pos, "class %s has no field %s", e.tab.TypeName(opnd.TypIndex()), t.Name)
	}
	if !e.tab.IsMemberVisible(v.scope, fldIndex) {
		return e.err(diag.CodeName, t.pos, "field %s is not visible here", t.Name)
	}
	fld := &e.tab.Fields[fldIndex]

	if fld.IsStatic {
		// static fields live in a module-level variable
		opnd.Release()
		res := Token{}
		res.ThisVar(e.tab, fld.StaticVarIndex, t.pos)
		v.push(res)
		return true
	}
	if !opnd.IsInitialized() {
		return e.err(diag.CodeInit, opnd.pos, "object is not initialized before member access")
	}
	var res Token
	opnd.Release()
	res.NewInd(e.tab, v.scope, v.codeBlockID(), fld.TypIndex, opnd.IsConst, t.pos, sym.TempRegular)
	e.asm.WriteCode(isa.REFOF, res.Asm(), opnd.Asm(), isa.AsmLitWrd(fld.Offset))
	res.SourceVarIndex = opnd.SourceVarIndex
	v.push(res)
	return true
}

// subscriptCall resolves an array or string subscript.
func (v *evaluator) subscriptCall(t *Token) bool {
	e := v.e
	if !e.assertStack(len(v.stack), t.DimNr+1, "subscript", t.pos) {
		return false
	}
	indexes := make([]Token, t.DimNr)
	for n := t.DimNr - 1; n >= 0; n-- {
		indexes[n] = v.pop()
	}
	opnd := v.pop()

	var elemTyp int
	var wantDims int
	switch opnd.MstType() {
	case sym.MstString:
		elemTyp = e.tab.ChrTypIndex
		wantDims = 1
	case sym.MstFixArray, sym.MstDynArray:
		ty := &e.tab.Types[opnd.TypIndex()]
		elemTyp = ty.ElemTypIndex
		wantDims = ty.DimNr
	default:
		return e.err(diag.CodeType, t.pos, "type %s is not indexable", e.tab.TypeName(opnd.TypIndex()))
	}
	if !opnd.IsInitialized() {
		return e.err(diag.CodeInit, opnd.pos, "operand is not initialized")
	}

	// successive single subscripts peel dimensions off a multi-dimensional
	// array one at a time; DimNr on the intermediate operand counts the
	// dimensions already consumed
	consumed := 0
	if opnd.MstType() != sym.MstString {
		consumed = opnd.DimNr
	}
	if consumed+t.DimNr > wantDims {
		return e.err(diag.CodeType, t.pos, "subscript uses %d dimensions but %s has %d", consumed+t.DimNr, e.tab.TypeName(opnd.TypIndex()), wantDims)
	}

	for n := range indexes {
		if !indexes[n].IsInitialized() {
			return e.err(diag.CodeInit, indexes[n].pos, "subscript index is not initialized")
		}
		if !indexes[n].MstType().IsNumeric() || indexes[n].MstType() == sym.MstFloat {
			return e.err(diag.CodeType, indexes[n].pos, "subscript index must be an integer, not %s", indexes[n].MstType())
		}
		if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), &indexes[n], sym.WordMaster) {
			return false
		}
		indexes[n].SetSourceUsed(v.scope, false)
	}
	opnd.SetSourceUsed(v.scope, false)

	single := wantDims == 1 && t.DimNr == 1
	if !single {
		switch opnd.MstType() {
		case sym.MstFixArray:
			def := emitGeometry(e, opnd.TypIndex())
			for n := range indexes {
				e.asm.WriteCode(isa.AFIDX, isa.AsmAgx(def), indexes[n].Asm())
			}
		case sym.MstDynArray:
			for n := range indexes {
				e.asm.WriteCode(isa.ADIDX, indexes[n].Asm())
			}
		}
	}
	for n := range indexes {
		indexes[n].Release()
	}

	if consumed+t.DimNr < wantDims {
		// partial subscript: hand the array back with the consumed count
		part := opnd
		part.DimNr = consumed + t.DimNr
		v.push(part)
		return true
	}

	var res Token
	opnd.Release()
	res.NewInd(e.tab, v.scope, v.codeBlockID(), elemTyp, opnd.IsConst, t.pos, sym.TempRegular)
	switch {
	case opnd.MstType() == sym.MstString:
		e.asm.WriteCode(isa.AD1RF, res.Asm(), opnd.Asm(), indexes[0].Asm())
	case single && opnd.MstType() == sym.MstFixArray:
		e.asm.WriteCode(isa.AF1RF, res.Asm(), opnd.Asm(), indexes[0].Asm())
	case single:
		e.asm.WriteCode(isa.AD1RF, res.Asm(), opnd.Asm(), indexes[0].Asm())
	case opnd.MstType() == sym.MstFixArray:
		e.asm.WriteCode(isa.AFREF, res.Asm(), opnd.Asm())
	default:
		e.asm.WriteCode(isa.ADREF, res.Asm(), opnd.Asm())
	}
	res.SourceVarIndex = opnd.SourceVarIndex
	v.push(res)
	return true
}

// emitGeometry stores the fixed-array geometry of typIndex in the emitter's
// geometry table and returns its index.
func emitGeometry(e *Expression, typIndex int) int {
	ty := &e.tab.Types[typIndex]
	dim := e.tab.Dims[ty.DimIndex]
	var sizes [5]int64
	copy(sizes[:], dim.DimSize[:])
	return e.asm.StoreArrFixDef(emit.ArrFixDef{
		DimNr:    ty.DimNr,
		DimSize:  sizes,
		CellSize: e.tab.TypeLength(ty.ElemTypIndex),
	})
}
