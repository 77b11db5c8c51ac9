package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
	"ember/internal/token"
)

// flowOperatorParse scans a for(...) or array(...) group from the keyword:
// it locates the inner keywords at parenthesis level 1, verifies their
// order, and attaches a fresh flow label to every position.
func (e *Expression) flowOperatorParse(stn *token.Sentence, kwIdx, endToken int) (map[int]flowAttr, int64, bool) {
	kw := stn.At(kwIdx)
	pos := kw.Pos
	if !stn.Is(kwIdx+1, token.LParen) {
		e.err(diag.CodeSyntax, pos, "%s must be followed by (", kw.Kind)
		return nil, 0, false
	}
	label := e.tab.GetFlowLabelGenerator()
	e.tab.IncreaseFlowLabelGenerator()
	attrs := map[int]flowAttr{}

	level := 0
	closeIdx := -1
	type kwPos struct {
		kind token.Kind
		idx  int
	}
	var inner []kwPos
	for i := kwIdx + 1; i <= endToken; i++ {
		switch stn.At(i).Kind {
		case token.LParen, token.LBracket, token.LBrace:
			level++
		case token.RBracket, token.RBrace:
			level--
		case token.RParen:
			level--
			if level == 0 {
				closeIdx = i
			}
		case token.KwIf, token.KwDo, token.KwReturn, token.KwOn, token.KwIndex, token.KwAs:
			if level == 1 {
				inner = append(inner, kwPos{stn.At(i).Kind, i})
			}
		}
		if closeIdx != -1 {
			break
		}
	}
	if closeIdx == -1 {
		e.err(diag.CodeSyntax, pos, "%s group is missing its closing parenthesis", kw.Kind)
		return nil, 0, false
	}

	if kw.Kind == token.KwFor {
		if len(inner) != 3 || inner[0].kind != token.KwIf || inner[1].kind != token.KwDo || inner[2].kind != token.KwReturn {
			e.err(diag.CodeSyntax, pos, "for group must hold the keywords if, do and return in that order")
			return nil, 0, false
		}
		attrs[inner[0].idx] = flowAttr{flow: ForIf, label: label}
		attrs[inner[1].idx] = flowAttr{flow: ForDo, label: label}
		attrs[inner[2].idx] = flowAttr{flow: ForRet, label: label}
		attrs[closeIdx] = flowAttr{flow: ForEnd, label: label}
		return attrs, label, true
	}

	// array group: on is required, index and if optional, as required, in
	// one of the four permitted keyword sequences
	seq := make([]token.Kind, len(inner))
	for n := range inner {
		seq[n] = inner[n].kind
	}
	okSeq := func(kinds ...token.Kind) bool {
		if len(seq) != len(kinds) {
			return false
		}
		for n := range kinds {
			if seq[n] != kinds[n] {
				return false
			}
		}
		return true
	}
	hasIndex := false
	hasIf := false
	switch {
	case okSeq(token.KwOn, token.KwAs):
	case okSeq(token.KwOn, token.KwIf, token.KwAs):
		hasIf = true
	case okSeq(token.KwOn, token.KwIndex, token.KwAs):
		hasIndex = true
	case okSeq(token.KwOn, token.KwIndex, token.KwIf, token.KwAs):
		hasIndex, hasIf = true, true
	default:
		e.err(diag.CodeSyntax, pos, "array group keywords must follow one of: on..as, on..if..as, on..index..as, on..index..if..as")
		return nil, 0, false
	}

	for _, p := range inner {
		switch p.kind {
		case token.KwOn:
			if !stn.Is(p.idx+1, token.Ident) {
				e.err(diag.CodeSyntax, stn.At(p.idx).Pos, "on must be followed by the element variable name")
				return nil, 0, false
			}
			flow := ArrOnvar
			if hasIndex {
				flow = ArrOxvar
			}
			attrs[p.idx] = flowAttr{flow: flow, label: label, name: stn.At(p.idx + 1).Text, skip: 1}
		case token.KwIndex:
			if !stn.Is(p.idx+1, token.Ident) {
				e.err(diag.CodeSyntax, stn.At(p.idx).Pos, "index must be followed by the index variable name")
				return nil, 0, false
			}
			attrs[p.idx] = flowAttr{flow: ArrIxvar, label: label, name: stn.At(p.idx + 1).Text, skip: 1}
		case token.KwIf:
			attrs[p.idx] = flowAttr{flow: ArrInit, label: label}
		case token.KwAs:
			if hasIf {
				attrs[p.idx] = flowAttr{flow: ArrAsif, label: label}
			} else {
				attrs[p.idx] = flowAttr{flow: ArrInit, label: label}
			}
		}
	}
	attrs[closeIdx] = flowAttr{flow: ArrEnd, label: label}
	return attrs, label, true
}

// flowOperatorCall drives the for and array state machines during
// evaluation.
func (v *evaluator) flowOperatorCall(t *Token) bool {
	e := v.e
	switch t.Flow {
	case ForBeg:
		v.flows = append(v.flows, flowCtx{kind: ForBeg, label: t.FlowLabel, baseDepth: len(v.stack), onVarIndex: -1, ixVarIndex: -1})
		e.asm.StoreJumpDestination(labelName(true, t.FlowLabel, "BEG"), v.scope.Depth, e.asm.CurrentCodeAddress())
		return true

	case ForIf:
		if !v.flowTop(t, ForBeg) {
			return false
		}
		v.dropAboveBase()
		e.asm.StoreJumpDestination(labelName(true, t.FlowLabel, "IF"), v.scope.Depth, e.asm.CurrentCodeAddress())
		return true

	case ForDo:
		if !v.flowTop(t, ForBeg) {
			return false
		}
		if !e.assertStack(len(v.stack), 1, "for condition", t.pos) {
			return false
		}
		cond := v.pop()
		if cond.MstType() != sym.MstBoolean {
			return e.err(diag.CodeType, cond.pos, "for condition must be Boolean, not %s", cond.MstType())
		}
		if !cond.IsInitialized() {
			return e.err(diag.CodeInit, cond.pos, "for condition is not initialized")
		}
		cond.SetSourceUsed(v.scope, false)
		cond.Release()
		e.asm.WriteCode(isa.JMPFL, cond.Asm(), isa.AsmJmp(labelName(true, t.FlowLabel, "RET")))
		return true

	case ForRet:
		if !v.flowTop(t, ForBeg) {
			return false
		}
		v.dropAboveBase()
		e.asm.WriteCode(isa.JMP, isa.AsmJmp(labelName(true, t.FlowLabel, "IF")))
		e.asm.StoreJumpDestination(labelName(true, t.FlowLabel, "RET"), v.scope.Depth, e.asm.CurrentCodeAddress())
		return true

	case ForEnd:
		if !v.flowTop(t, ForBeg) {
			return false
		}
		ctx := v.flows[len(v.flows)-1]
		v.flows = v.flows[:len(v.flows)-1]
		if len(v.stack) <= ctx.baseDepth {
			return e.err(diag.CodeSyntax, t.pos, "for expression produces no value at return")
		}
		res := v.pop()
		res.IsCalculated = true
		res.Lock()
		e.tab.HideLocalVariables(v.scope, ctx.label)
		e.asm.StoreJumpDestination(labelName(true, t.FlowLabel, "END"), v.scope.Depth, e.asm.CurrentCodeAddress())
		v.push(res)
		return true

	case ArrBeg:
		v.flows = append(v.flows, flowCtx{kind: ArrBeg, label: t.FlowLabel, baseDepth: len(v.stack), onVarIndex: -1, ixVarIndex: -1})
		return true

	case ArrOnvar, ArrOxvar:
		if !v.flowTop(t, ArrBeg) {
			return false
		}
		ctx := &v.flows[len(v.flows)-1]
		if !e.assertStack(len(v.stack), 1, "array source", t.pos) {
			return false
		}
		src := v.pop()
		sm := src.MstType()
		if sm != sym.MstFixArray && sm != sym.MstDynArray {
			return e.err(diag.CodeType, src.pos, "array source must be an array, not %s", e.tab.TypeName(src.TypIndex()))
		}
		if !src.IsInitialized() {
			return e.err(diag.CodeInit, src.pos, "array source is not initialized")
		}
		if e.tab.Types[src.TypIndex()].DimNr != 1 {
			return e.err(diag.CodeType, src.pos, "array expressions walk one-dimensional arrays")
		}
		src.SetSourceUsed(v.scope, false)
		ctx.origArray = src
		ctx.elemTypIndex = e.tab.Types[src.TypIndex()].ElemTypIndex
		if e.tab.VarSearch(t.Name, v.scope) != -1 {
			return e.err(diag.CodeName, t.pos, "variable %s is already declared", t.Name)
		}
		varIndex := e.tab.StoreVariable(sym.Variable{
			Name:        t.Name,
			TypIndex:    ctx.elemTypIndex,
			Scope:       v.scope,
			CodeBlockID: ctx.label,
		})
		e.tab.SetInitialized(varIndex)
		e.asm.OutVarDecl(e.tab.TypeName(ctx.elemTypIndex), t.Name, e.tab.Vars[varIndex].Address, false)
		ctx.onVarIndex = varIndex
		return true

	case ArrIxvar:
		if !v.flowTop(t, ArrBeg) {
			return false
		}
		ctx := &v.flows[len(v.flows)-1]
		if varIndex := e.tab.VarSearch(t.Name, v.scope); varIndex != -1 {
			vr := &e.tab.Vars[varIndex]
			if e.tab.TypeMaster(vr.TypIndex) != sym.WordMaster {
				return e.err(diag.CodeType, t.pos, "index variable %s must be word typed", t.Name)
			}
			if vr.IsConst {
				return e.err(diag.CodeType, t.pos, "index variable %s cannot be constant", t.Name)
			}
			if vr.IsTempVar {
				return e.err(diag.CodeType, t.pos, "index variable %s cannot be a temporary", t.Name)
			}
			ctx.ixVarIndex = varIndex
			e.tab.SetInitialized(varIndex)
			return true
		}
		varIndex := e.tab.StoreVariable(sym.Variable{
			Name:        t.Name,
			TypIndex:    e.tab.WrdTypIndex,
			Scope:       v.scope,
			CodeBlockID: ctx.label,
		})
		e.tab.SetInitialized(varIndex)
		e.asm.OutVarDecl(e.tab.TypeName(e.tab.WrdTypIndex), t.Name, e.tab.Vars[varIndex].Address, false)
		ctx.ixVarIndex = varIndex
		return true

	case ArrInit:
		if !v.flowTop(t, ArrBeg) {
			return false
		}
		ctx := &v.flows[len(v.flows)-1]
		if ctx.onVarIndex == -1 {
			return e.err(diag.CodeInternal, t.pos, "array loop initialized before its element variable")
		}
		resTyp := e.tab.DefineDynArray(v.scope, ctx.elemTypIndex, 1)
		ctx.resArray.NewVarTyp(e.tab, v.scope, ctx.label, resTyp, t.pos, sym.TempRegular)
		e.asm.WriteCode(isa.AD1DF, ctx.resArray.Asm(), isa.AsmLitWrd(e.tab.TypeLength(ctx.elemTypIndex)))

		onVar := Token{}
		onVar.ThisVar(e.tab, ctx.onVarIndex, t.pos)
		walkArgs := []isa.Arg{ctx.origArray.Asm(), onVar.Asm()}
		if ctx.ixVarIndex != -1 {
			ixVar := Token{}
			ixVar.ThisVar(e.tab, ctx.ixVarIndex, t.pos)
			walkArgs = append(walkArgs, ixVar.Asm())
		}
		walkArgs = append(walkArgs, isa.AsmJmp(labelName(true, ctx.label, "END")))
		if ctx.origArray.MstType() == sym.MstFixArray {
			e.asm.WriteCode(isa.AF1FO, walkArgs...)
		} else {
			e.asm.WriteCode(isa.AD1FO, walkArgs...)
		}
		e.asm.StoreJumpDestination(labelName(true, ctx.label, "NXT"), v.scope.Depth, e.asm.CurrentCodeAddress())
		return true

	case ArrAsif:
		if !v.flowTop(t, ArrBeg) {
			return false
		}
		ctx := &v.flows[len(v.flows)-1]
		ctx.hasIf = true
		if !e.assertStack(len(v.stack), 1, "array filter", t.pos) {
			return false
		}
		cond := v.pop()
		if cond.MstType() != sym.MstBoolean {
			return e.err(diag.CodeType, cond.pos, "array filter must be Boolean, not %s", cond.MstType())
		}
		if !cond.IsInitialized() {
			return e.err(diag.CodeInit, cond.pos, "array filter is not initialized")
		}
		cond.SetSourceUsed(v.scope, false)
		cond.Release()
		e.asm.WriteCode(isa.JMPFL, cond.Asm(), isa.AsmJmp(labelName(true, ctx.label, "SKP")))
		return true

	case ArrEnd:
		if !v.flowTop(t, ArrBeg) {
			return false
		}
		ctx := v.flows[len(v.flows)-1]
		v.flows = v.flows[:len(v.flows)-1]
		if len(v.stack) <= ctx.baseDepth {
			return e.err(diag.CodeSyntax, t.pos, "array expression produces no value at as")
		}
		elem := v.pop()
		if !elem.IsInitialized() {
			return e.err(diag.CodeInit, elem.pos, "array element value is not initialized")
		}
		em := e.tab.TypeMaster(ctx.elemTypIndex)
		if elem.MstType() != em {
			if !IsDataTypePromotionAutomatic(elem.MstType(), em) {
				return e.err(diag.CodeType, elem.pos, "array element value must be %s, not %s", em, elem.MstType())
			}
			if !e.compileDataTypePromotion(v.scope, ctx.label, &elem, em) {
				return false
			}
		}
		elem.SetSourceUsed(v.scope, false)

		var slot Token
		slot.NewInd(e.tab, v.scope, ctx.label, ctx.elemTypIndex, false, t.pos, sym.TempRegular)
		e.asm.WriteCode(isa.AD1AP, slot.Asm(), ctx.resArray.Asm())
		if !v.emitCopy(&slot, &elem) {
			return false
		}
		elem.Release()
		slot.Release()

		e.asm.StoreJumpDestination(labelName(true, ctx.label, "SKP"), v.scope.Depth, e.asm.CurrentCodeAddress())
		if ctx.origArray.MstType() == sym.MstFixArray {
			e.asm.WriteCode(isa.AF1NX, ctx.origArray.Asm(), isa.AsmJmp(labelName(true, ctx.label, "NXT")))
		} else {
			e.asm.WriteCode(isa.AD1NX, ctx.origArray.Asm(), isa.AsmJmp(labelName(true, ctx.label, "NXT")))
		}
		e.asm.StoreJumpDestination(labelName(true, ctx.label, "END"), v.scope.Depth, e.asm.CurrentCodeAddress())

		ctx.origArray.Release()
		e.tab.HideLocalVariables(v.scope, ctx.label)
		res := ctx.resArray
		res.IsCalculated = true
		res.Lock()
		v.push(res)
		return true

	default:
		return e.err(diag.CodeInternal, t.pos, "unknown flow operator")
	}
}

// flowTop verifies the active flow context kind.
func (v *evaluator) flowTop(t *Token, kind FlowOpr) bool {
	if len(v.flows) == 0 {
		return v.e.err(diag.CodeInternal, t.pos, "flow label stack empty at %s", t.Flow)
	}
	if v.flows[len(v.flows)-1].kind != kind {
		return v.e.err(diag.CodeInternal, t.pos, "flow operator %s inside the wrong group", t.Flow)
	}
	return true
}

// dropAboveBase releases and discards values the previous flow section left
// on the operand stack.
func (v *evaluator) dropAboveBase() {
	base := v.flows[len(v.flows)-1].baseDepth
	for len(v.stack) > base {
		left := v.pop()
		if left.id == IDOperand {
			left.Release()
		}
	}
}
