package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
)

// copyOperand writes src into dst, then replicates every owning inner
// block so that dst shares no heap storage with src (property P5). It is
// the single entry point for value construction of composite values.
func (e *Expression) copyOperand(dst, src *Token) bool {
	typIndex := dst.TypIndex()
	length := e.tab.TypeLength(typIndex)
	e.asm.WriteCode(isa.COPY, dst.Asm(), src.Asm(), isa.AsmLitWrd(length))
	if !e.tab.HasInnerBlocks(typIndex) {
		return true
	}
	e.asm.WriteCode(isa.RPBEG, dst.Asm())
	e.innerBlockRecur(false, 1, typIndex, 0, 0)
	e.innerBlockRecur(false, 2, typIndex, 0, 0)
	e.asm.WriteCode(isa.RPEND)
	if dst.VarIndex >= 0 {
		e.tab.SetInitialized(dst.VarIndex)
	}
	return true
}

// initOperand builds a default value in dst: zero for atomic cells, fresh
// empty blocks for every owning field of a composite.
func (e *Expression) initOperand(dst *Token) bool {
	typIndex := dst.TypIndex()
	if typIndex < 0 {
		return e.err(diag.CodeInternal, dst.pos, "initialization of untyped operand")
	}
	mst := e.tab.TypeMaster(typIndex)
	if mst.IsAtomic() && mst != sym.MstString {
		zero := Token{}
		switch mst {
		case sym.MstBoolean:
			zero.ThisBol(e.tab, false, dst.pos)
		case sym.MstChar:
			zero.ThisChr(e.tab, 0, dst.pos)
		case sym.MstShort:
			zero.ThisShr(e.tab, 0, dst.pos)
		case sym.MstInteger:
			zero.ThisInt(e.tab, 0, dst.pos)
		case sym.MstLong:
			zero.ThisLon(e.tab, 0, dst.pos)
		case sym.MstFloat:
			zero.ThisFlo(e.tab, 0, dst.pos)
		}
		e.asm.WriteCode(isa.MV, dst.Asm(), zero.Asm())
		if dst.VarIndex >= 0 {
			e.tab.SetInitialized(dst.VarIndex)
		}
		return true
	}
	if mst == sym.MstEnum {
		zero := Token{}
		zero.ThisEnu(e.tab, typIndex, 0, dst.pos)
		e.asm.WriteCode(isa.MV, dst.Asm(), zero.Asm())
		if dst.VarIndex >= 0 {
			e.tab.SetInitialized(dst.VarIndex)
		}
		return true
	}
	e.asm.WriteCode(isa.BIBEG, dst.Asm(), isa.AsmLitWrd(e.tab.TypeLength(typIndex)))
	e.innerBlockRecur(true, 1, typIndex, 0, 0)
	e.innerBlockRecur(true, 2, typIndex, 0, 0)
	e.asm.WriteCode(isa.BIEND)
	if dst.VarIndex >= 0 {
		e.tab.SetInitialized(dst.VarIndex)
	}
	return true
}

// innerBlockRecur is the two-pass walker over the type graph. Pass 1 emits
// one block instruction per owning leaf (string buffers and dynamic-array
// headers) at its cumulative offset; pass 2 opens a loop for every array
// whose elements own blocks, recurses into the element type with both
// passes, and closes the loop. Together the passes touch every owning
// block exactly once before any containing loop runs. Static class fields
// are initialized at module level and skipped here.
func (e *Expression) innerBlockRecur(init bool, phase, typIndex int, cumulOffset int64, recurLevel int) {
	ty := &e.tab.Types[typIndex]
	pick := func(rp, bi isa.Opcode) isa.Opcode {
		if init {
			return bi
		}
		return rp
	}
	switch ty.Mst {
	case sym.MstString:
		if phase == 1 {
			e.asm.WriteCode(pick(isa.RPSTR, isa.BISTR), isa.AsmLitWrd(cumulOffset))
		}
	case sym.MstDynArray:
		if phase == 1 {
			e.asm.WriteCode(pick(isa.RPARR, isa.BIARR), isa.AsmLitWrd(cumulOffset))
			return
		}
		if e.tab.HasInnerBlocks(ty.ElemTypIndex) {
			e.asm.WriteCode(pick(isa.RPLOD, isa.BILOF), isa.AsmLitWrd(cumulOffset), isa.AsmLitWrd(e.tab.TypeLength(ty.ElemTypIndex)))
			e.innerBlockRecur(init, 1, ty.ElemTypIndex, 0, recurLevel+1)
			e.innerBlockRecur(init, 2, ty.ElemTypIndex, 0, recurLevel+1)
			e.asm.WriteCode(pick(isa.RPEND, isa.BIEND))
		}
	case sym.MstFixArray:
		if phase == 2 && e.tab.HasInnerBlocks(ty.ElemTypIndex) {
			total := int64(1)
			for d := 0; d < ty.DimNr; d++ {
				total *= e.tab.Dims[ty.DimIndex].DimSize[d]
			}
			e.asm.WriteCode(pick(isa.RPLOF, isa.BILOF), isa.AsmLitWrd(cumulOffset), isa.AsmLitWrd(total), isa.AsmLitWrd(e.tab.TypeLength(ty.ElemTypIndex)))
			e.innerBlockRecur(init, 1, ty.ElemTypIndex, 0, recurLevel+1)
			e.innerBlockRecur(init, 2, ty.ElemTypIndex, 0, recurLevel+1)
			e.asm.WriteCode(pick(isa.RPEND, isa.BIEND))
		}
	case sym.MstClass:
		for f := ty.FieldLow; ty.FieldLow != -1 && f <= ty.FieldHigh; f++ {
			fld := &e.tab.Fields[f]
			if fld.IsStatic {
				continue
			}
			e.innerBlockRecur(init, phase, fld.TypIndex, cumulOffset+fld.Offset, recurLevel)
		}
	}
}

// complexValueCall builds a composite value from its flattened leaf
// operands: field writes through a moving reference for classes and fixed
// arrays, appends for dynamic arrays. Static class fields write straight to
// their module-level variable.
func (v *evaluator) complexValueCall(t *Token) bool {
	e := v.e
	typIndex := t.ComplexTypIndex
	mst := e.tab.TypeMaster(typIndex)
	n := t.CallParmNr
	if !e.assertStack(len(v.stack), n, "complex value", t.pos) {
		return false
	}
	args := make([]Token, n)
	for k := n - 1; k >= 0; k-- {
		args[k] = v.pop()
	}
	for k := range args {
		if !args[k].IsInitialized() {
			return e.err(diag.CodeInit, args[k].pos, "entry %d of the complex value is not initialized", k+1)
		}
	}

	var res Token
	switch mst {
	case sym.MstClass, sym.MstFixArray:
		res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), typIndex, t.pos, sym.TempRegular)
		if !e.initOperand(&res) {
			return false
		}
		slots := complexFlatten(e.tab, typIndex, 0, nil, nil)
		if len(slots) != n {
			return e.err(diag.CodeInternal, t.pos, "complex value holds %d entries for %d slots", n, len(slots))
		}
		for k := range slots {
			if !v.complexWriteSlot(t, &res, &slots[k], &args[k], k) {
				return false
			}
		}

	case sym.MstDynArray:
		ty := &e.tab.Types[typIndex]
		res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), typIndex, t.pos, sym.TempRegular)
		e.asm.WriteCode(isa.ADDEF, res.Asm(), isa.AsmLitWrd(int64(ty.DimNr)), isa.AsmLitWrd(e.tab.TypeLength(ty.ElemTypIndex)))
		setArgs := []isa.Arg{res.Asm()}
		for d := 0; d < ty.DimNr; d++ {
			setArgs = append(setArgs, isa.AsmLitWrd(t.DimSize[d]))
		}
		e.asm.WriteCode(isa.ADSET, setArgs...)
		slots := complexFlatten(e.tab, typIndex, 0, &t.DimSize, nil)
		if len(slots) != n {
			return e.err(diag.CodeComplexLit, t.pos, "initializer holds %d entries for %d elements", n, len(slots))
		}
		for k := range slots {
			if !v.complexWriteSlot(t, &res, &slots[k], &args[k], k) {
				return false
			}
		}

	default:
		return e.err(diag.CodeInternal, t.pos, "complex value over non-composite type")
	}

	for k := range args {
		args[k].SetSourceUsed(v.scope, false)
		args[k].Release()
	}
	res.IsCalculated = true
	v.push(res)
	return true
}

// complexWriteSlot writes one leaf operand into its slot of the value
// under construction.
func (v *evaluator) complexWriteSlot(t *Token, res *Token, slot *complexSlot, arg *Token, ordinal int) bool {
	e := v.e
	sm := e.tab.TypeMaster(slot.TypIndex)
	am := arg.MstType()
	if !e.tab.SameType(arg.TypIndex(), slot.TypIndex) {
		if !IsDataTypePromotionAutomatic(am, sm) {
			return e.err(diag.CodeType, arg.pos, "entry %d must be %s, not %s", ordinal+1, e.tab.TypeName(slot.TypIndex), e.tab.TypeName(arg.TypIndex()))
		}
		if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), arg, sm) {
			return false
		}
	}

	// static class fields live in a module-level variable
	if slot.FldIndex >= 0 && e.tab.Fields[slot.FldIndex].IsStatic {
		dst := Token{}
		dst.ThisVar(e.tab, e.tab.Fields[slot.FldIndex].StaticVarIndex, t.pos)
		return v.emitCopy(&dst, arg)
	}

	var ref Token
	ref.NewInd(e.tab, v.scope, v.codeBlockID(), slot.TypIndex, false, t.pos, sym.TempRegular)
	if e.tab.TypeMaster(t.ComplexTypIndex) == sym.MstDynArray {
		e.asm.WriteCode(isa.AD1AP, ref.Asm(), res.Asm())
	} else {
		e.asm.WriteCode(isa.REFOF, ref.Asm(), res.Asm(), isa.AsmLitWrd(slot.Offset))
	}
	ok := v.emitCopy(&ref, arg)
	ref.Release()
	return ok
}
