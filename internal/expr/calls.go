package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
)

// callType distinguishes the three call-shaped tokens.
type callType uint8

const (
	callFunction callType = iota
	callMethod
	callConstructor
)

// cellKindFor maps an atomic master to the instruction cell suffix.
func cellKindFor(mst sym.MasterType) isa.CellKind {
	switch mst {
	case sym.MstBoolean:
		return isa.CellBol
	case sym.MstChar:
		return isa.CellChr
	case sym.MstShort:
		return isa.CellShr
	case sym.MstInteger, sym.MstEnum:
		return isa.CellInt
	case sym.MstLong:
		return isa.CellLon
	case sym.MstFloat:
		return isa.CellFlo
	default:
		return isa.CellAdr
	}
}

// functionMethodCall pops the arguments (and the receiver for methods),
// resolves the callee, validates and moves or pushes the arguments per the
// callee's convention, emits the call and pushes the result.
func (v *evaluator) functionMethodCall(t *Token, ct callType) bool {
	e := v.e
	parmNr := t.CallParmNr
	need := parmNr
	if ct == callMethod {
		need++
	}
	if !e.assertStack(len(v.stack), need, "call of "+t.Name, t.pos) {
		return false
	}
	args := make([]Token, parmNr)
	for n := parmNr - 1; n >= 0; n-- {
		args[n] = v.pop()
	}
	var self Token
	if ct == callMethod {
		self = v.pop()
	}
	for n := range args {
		if args[n].id == IDVoidRes {
			return e.err(diag.CodeType, args[n].pos, "void function %s cannot be an argument", args[n].Name)
		}
		if args[n].id == IDUndefVar {
			return e.err(diag.CodeName, args[n].pos, "undefined identifier %s", args[n].Name)
		}
	}

	argTypes := make([]int, parmNr)
	for n := range args {
		argTypes[n] = args[n].TypIndex()
	}
	promotes := func(from, to int) bool {
		return IsDataTypePromotionAutomatic(e.tab.TypeMaster(from), e.tab.TypeMaster(to))
	}

	var funIndex int
	switch ct {
	case callFunction:
		funIndex = e.tab.FunSearch(t.Name, v.scope, argTypes, promotes)
		if funIndex == -1 {
			e.bag.Delay(diag.Errorf(diag.CodeName, t.pos, "candidate signature: %s%s", t.Name, e.tab.ParmTypeString(argTypes)))
			return e.err(diag.CodeName, t.pos, "no function %s matches the arguments", t.Name)
		}
	case callMethod:
		if self.MstType() == sym.MstClass {
			funIndex = e.tab.FmbSearch(self.TypIndex(), t.Name, v.scope, argTypes, promotes)
			if funIndex != -1 {
				break
			}
		}
		// master methods of the receiver type
		return v.masterMethodExecute(t, &self, args)
	case callConstructor:
		funIndex = e.constructorSearch(t.CCTypIndex, parmNr)
		if funIndex == -1 {
			if parmNr == 0 {
				// default construction: a fresh initialized instance
				var res Token
				res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), t.CCTypIndex, t.pos, sym.TempRegular)
				if !e.initOperand(&res) {
					return false
				}
				v.push(res)
				return true
			}
			return e.err(diag.CodeName, t.pos, "class %s has no constructor taking %d arguments", e.tab.TypeName(t.CCTypIndex), parmNr)
		}
	}
	fun := &e.tab.Funs[funIndex]

	// receiver discipline: initialized unless the callee initializes
	if ct == callMethod && !fun.IsInitializer && !fun.IsMetaMethod && !self.IsInitialized() {
		return e.err(diag.CodeInit, self.pos, "object is not initialized before method call")
	}

	if !v.validateArguments(t, fun, args) {
		return false
	}

	if !v.emitArguments(fun, &self, args, ct == callMethod) {
		return false
	}

	// release arguments before the result allocation so slots recycle
	for n := range args {
		args[n].SetSourceUsed(v.scope, false)
		args[n].Release()
	}
	if ct == callMethod {
		self.SetSourceUsed(v.scope, false)
		self.Release()
	}

	return v.emitCall(t, funIndex)
}

// constructorSearch looks for the initializer member of a class with the
// given arity.
func (e *Expression) constructorSearch(typIndex, parmNr int) int {
	for i := range e.tab.Funs {
		f := &e.tab.Funs[i]
		if f.Kind == sym.FunMember && f.OwnerTypIndex == typIndex && f.IsInitializer && e.tab.ParmCount(i) == parmNr {
			return i
		}
	}
	return -1
}

// validateArguments applies the per-position argument rules.
func (v *evaluator) validateArguments(t *Token, fun *sym.Function, args []Token) bool {
	e := v.e
	for n := range args {
		arg := &args[n]
		parm := &e.tab.Parms[fun.ParmLow+n]
		if !arg.IsInitialized() {
			return e.err(diag.CodeInit, arg.pos, "argument %d of %s is not initialized", n+1, fun.Name)
		}
		pm := e.tab.TypeMaster(parm.TypIndex)
		am := arg.MstType()
		if parm.IsReference {
			if arg.AdrMode == isa.LitValue {
				if pm != sym.MstString && pm != sym.MstDynArray {
					return e.err(diag.CodeType, arg.pos, "argument %d of %s must be a storage location", n+1, fun.Name)
				}
			} else {
				if !arg.IsLValue() && !arg.IsCalculated {
					return e.err(diag.CodeType, arg.pos, "argument %d of %s must be a storage location", n+1, fun.Name)
				}
				if arg.IsConst && !parm.IsConst {
					return e.err(diag.CodeType, arg.pos, "cannot pass constant argument %d of %s by reference", n+1, fun.Name)
				}
			}
			if !e.tab.SameType(arg.TypIndex(), parm.TypIndex) {
				return e.err(diag.CodeType, arg.pos, "argument %d of %s must be %s, not %s",
					n+1, fun.Name, e.tab.TypeName(parm.TypIndex), e.tab.TypeName(arg.TypIndex()))
			}
			continue
		}
		if e.tab.SameType(arg.TypIndex(), parm.TypIndex) {
			continue
		}
		if !IsDataTypePromotionAutomatic(am, pm) {
			return e.err(diag.CodeType, arg.pos, "argument %d of %s does not promote from %s to %s",
				n+1, fun.Name, am, pm)
		}
		if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), arg, pm) {
			return false
		}
	}
	return true
}

// emitArguments moves or pushes the arguments following the callee's
// calling convention: local callees take direct moves into their parameter
// slots, public and private callees use the parameter stack, and dynamic
// library callees push with reference and const flags.
func (v *evaluator) emitArguments(fun *sym.Function, self *Token, args []Token, withSelf bool) bool {
	e := v.e
	emitOne := func(parm *sym.Parameter, arg *Token) {
		// empty-class sentinels push nothing
		if e.tab.IsEmptyClass(arg.TypIndex()) {
			return
		}
		cell := cellKindFor(arg.MstType())
		switch fun.Kind {
		case sym.FunDlFunction:
			e.asm.WriteCode(isa.LibPushFor(cell, parm.IsReference), arg.Asm())
		default:
			switch {
			case fun.Scope.IsLocal() || fun.IsNested:
				e.asm.WriteCode(isa.MoveFor(cell), isa.AsmPar(parm.Address, parm.Name), arg.Asm())
			case parm.IsReference:
				e.asm.WriteCode(isa.REFPU, arg.Asm())
			default:
				e.asm.WriteCode(isa.PushFor(cell), arg.Asm())
			}
		}
		if parm.IsReference {
			arg.SetSourceUsed(v.scope, true)
			if arg.AdrMode != isa.LitValue && arg.VarIndex >= 0 {
				e.tab.SetInitialized(arg.VarIndex)
			}
		}
	}
	base := fun.ParmLow
	if withSelf {
		selfParm := sym.Parameter{Name: "self", TypIndex: self.TypIndex(), IsReference: true}
		emitOne(&selfParm, self)
	}
	for n := range args {
		emitOne(&e.tab.Parms[base+n], &args[n])
	}
	return true
}

// emitCall writes the call instruction and pushes the result token.
func (v *evaluator) emitCall(t *Token, funIndex int) bool {
	e := v.e
	fun := &e.tab.Funs[funIndex]
	var res Token
	hasResult := !fun.IsVoid && fun.TypIndex != -1
	if hasResult {
		res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), fun.TypIndex, t.pos, sym.TempRegular)
	}

	funArg := isa.AsmFun(funIndex, fun.Name)
	resArg := isa.AsmNva()
	if hasResult {
		resArg = res.Asm()
	}
	switch fun.Kind {
	case sym.FunDlFunction:
		callIdx := e.asm.StoreDlCall(fun.DlName, fun.DlFunction)
		e.asm.WriteCode(isa.LCALL, isa.AsmLitWrd(int64(callIdx)), resArg)
	case sym.FunSystemCall:
		e.asm.WriteCode(isa.SCALL, isa.AsmLitWrd(int64(fun.SysCallNr)), resArg)
	default:
		if fun.IsNested {
			e.asm.WriteCode(isa.CALLN, funArg, resArg)
		} else {
			e.asm.WriteCode(isa.CALL, funArg, resArg)
		}
	}

	if hasResult {
		res.IsCalculated = true
		v.push(res)
		return true
	}
	void := newToken(e.tab, IDVoidRes, t.pos)
	void.Name = fun.Name
	v.push(void)
	return true
}

// operatorOverloadCall routes an overloadable operator to a user-declared
// operator function; the normal case rule is skipped.
func (v *evaluator) operatorOverloadCall(t *Token, funIndex int, op1, op2 *Token) (Token, bool) {
	e := v.e
	fun := &e.tab.Funs[funIndex]
	args := []Token{*op1}
	if t.Operator.Info().OperandNr == 2 {
		args = append(args, *op2)
	}
	if !v.validateArguments(t, fun, args) {
		return Token{}, false
	}
	if !v.emitArguments(fun, nil, args, false) {
		return Token{}, false
	}
	for n := range args {
		args[n].SetSourceUsed(v.scope, false)
		args[n].Release()
	}
	if !v.emitCall(t, funIndex) {
		return Token{}, false
	}
	return v.pop(), true
}
