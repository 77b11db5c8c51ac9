package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
)

// lowLevelOperatorCall drives the ternary state machine. Both branches
// write the same result temporary so the merged value has a single storage
// cell (property P6).
func (v *evaluator) lowLevelOperatorCall(t *Token) bool {
	e := v.e
	switch t.LowLevel {
	case TernaryCond:
		if !e.assertStack(len(v.stack), 1, "ternary condition", t.pos) {
			return false
		}
		cond := v.pop()
		if cond.MstType() != sym.MstBoolean {
			return e.err(diag.CodeType, cond.pos, "ternary condition must be Boolean, not %s", cond.MstType())
		}
		if !cond.IsInitialized() {
			return e.err(diag.CodeInit, cond.pos, "ternary condition is not initialized")
		}
		cond.SetSourceUsed(v.scope, false)
		cond.Release()
		e.asm.WriteCode(isa.JMPFL, cond.Asm(), isa.AsmJmp(labelName(false, t.LabelSeed, "FAL")))
		v.seeds = append(v.seeds, ternarySeed{seed: t.LabelSeed, varIndex: -1})
		return true

	case TernaryMid:
		if len(v.seeds) == 0 || v.seeds[len(v.seeds)-1].seed != t.LabelSeed {
			return e.err(diag.CodeInternal, t.pos, "seed not found for ternary branch")
		}
		if !e.assertStack(len(v.stack), 1, "ternary true branch", t.pos) {
			return false
		}
		trueVal := v.pop()
		if !trueVal.IsInitialized() {
			return e.err(diag.CodeInit, trueVal.pos, "ternary branch value is not initialized")
		}
		trueVal.SetSourceUsed(v.scope, false)
		trueVal.Release()
		var res Token
		reused := res.NewVarTypReused(e.tab, v.scope, v.codeBlockID(), trueVal.TypIndex(), t.pos)
		if !v.emitCopy(&res, &trueVal) {
			return false
		}
		e.asm.WriteCode(isa.JMP, isa.AsmJmp(labelName(false, t.LabelSeed, "END")))
		e.asm.StoreJumpDestination(labelName(false, t.LabelSeed, "FAL"), v.scope.Depth, e.asm.CurrentCodeAddress())
		top := &v.seeds[len(v.seeds)-1]
		top.varIndex = res.VarIndex
		top.reused = reused
		return true

	case TernaryEnd:
		if len(v.seeds) == 0 || v.seeds[len(v.seeds)-1].seed != t.LabelSeed {
			return e.err(diag.CodeInternal, t.pos, "seed not found for ternary end")
		}
		seed := v.seeds[len(v.seeds)-1]
		v.seeds = v.seeds[:len(v.seeds)-1]
		if seed.varIndex < 0 {
			return e.err(diag.CodeInternal, t.pos, "ternary end without a bound result")
		}
		if !e.assertStack(len(v.stack), 1, "ternary false branch", t.pos) {
			return false
		}
		falseVal := v.pop()
		if !falseVal.IsInitialized() {
			return e.err(diag.CodeInit, falseVal.pos, "ternary branch value is not initialized")
		}
		var res Token
		res.ThisVar(e.tab, seed.varIndex, t.pos)
		res.IsCalculated = true
		resMst := e.tab.TypeMaster(e.tab.Vars[seed.varIndex].TypIndex)
		if falseVal.MstType() != resMst {
			if !IsDataTypePromotionAutomatic(falseVal.MstType(), resMst) {
				return e.err(diag.CodeType, falseVal.pos, "ternary branches disagree: %s versus %s", resMst, falseVal.MstType())
			}
			if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), &falseVal, resMst) {
				return false
			}
		}
		falseVal.SetSourceUsed(v.scope, false)
		falseVal.Release()
		if !v.emitCopy(&res, &falseVal) {
			return false
		}
		e.asm.StoreJumpDestination(labelName(false, t.LabelSeed, "END"), v.scope.Depth, e.asm.CurrentCodeAddress())
		res.Lock()
		v.push(res)
		return true

	default:
		return e.err(diag.CodeInternal, t.pos, "unknown low level operator")
	}
}
