package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
)

// mmForm selects how a master method's instruction is shaped.
type mmForm uint8

const (
	// mmSelf emits op result, self.
	mmSelf mmForm = iota
	// mmSelfArgs emits op result, self, args...
	mmSelfArgs
	// mmMutate emits op self, args... and produces no value.
	mmMutate
)

// mmResult selects the result type of a master method.
type mmResult uint8

const (
	mmResNone mmResult = iota
	mmResBol
	mmResChr
	mmResShr
	mmResInt
	mmResLon
	mmResFlo
	mmResStr
	mmResWrd
	mmResStrArr
	mmResElem
	mmResDynOfElem
)

// mmEntry describes one built-in method of a master type. parmMst lists the
// expected argument masters; mmParmElem marks a parameter bound to the
// receiver's element type at each call site. The binding is not stored: the
// table entry is never patched, so every call site binds independently.
const mmParmElem sym.MasterType = 0xFE
const mmParmWord sym.MasterType = 0xFD

type mmEntry struct {
	mst     sym.MasterType
	name    string
	parmMst []sym.MasterType
	op      isa.Opcode
	chrOp   isa.Opcode // alternate opcode for char-element receivers
	form    mmForm
	res     mmResult
}

var masterMethodTable = []mmEntry{
	// string methods
	{mst: sym.MstString, name: "len", op: isa.SLEN, form: mmSelf, res: mmResWrd},
	{mst: sym.MstString, name: "sub", parmMst: []sym.MasterType{mmParmWord, mmParmWord}, op: isa.SMID, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "left", parmMst: []sym.MasterType{mmParmWord}, op: isa.SLEFT, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "right", parmMst: []sym.MasterType{mmParmWord}, op: isa.SRGHT, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "find", parmMst: []sym.MasterType{sym.MstString}, op: isa.SFIND, form: mmSelfArgs, res: mmResWrd},
	{mst: sym.MstString, name: "replace", parmMst: []sym.MasterType{sym.MstString, sym.MstString}, op: isa.SREPL, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "upper", op: isa.SUPPR, form: mmSelf, res: mmResStr},
	{mst: sym.MstString, name: "lower", op: isa.SLOWR, form: mmSelf, res: mmResStr},
	{mst: sym.MstString, name: "trim", op: isa.STRIM, form: mmSelf, res: mmResStr},
	{mst: sym.MstString, name: "ljust", parmMst: []sym.MasterType{mmParmWord}, op: isa.SLJUS, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "rjust", parmMst: []sym.MasterType{mmParmWord}, op: isa.SRJUS, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "zpad", parmMst: []sym.MasterType{mmParmWord}, op: isa.SZPAD, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstString, name: "split", parmMst: []sym.MasterType{sym.MstString}, op: isa.SSPLI, form: mmSelfArgs, res: mmResStrArr},
	{mst: sym.MstString, name: "startswith", parmMst: []sym.MasterType{sym.MstString}, op: isa.SSTWI, form: mmSelfArgs, res: mmResBol},
	{mst: sym.MstString, name: "endswith", parmMst: []sym.MasterType{sym.MstString}, op: isa.SENWI, form: mmSelfArgs, res: mmResBol},
	{mst: sym.MstString, name: "isbool", op: isa.SISBO, form: mmSelf, res: mmResBol},
	{mst: sym.MstString, name: "isint", op: isa.SISIN, form: mmSelf, res: mmResBol},
	{mst: sym.MstString, name: "isfloat", op: isa.SISFL, form: mmSelf, res: mmResBol},
	{mst: sym.MstString, name: "empty", op: isa.SEMP, form: mmSelf, res: mmResBol},
	{mst: sym.MstString, name: "swapcase", op: isa.SSWCP, form: mmSelf, res: mmResStr},
	{mst: sym.MstString, name: "tobool", op: isa.ST2BO, form: mmSelf, res: mmResBol},
	{mst: sym.MstString, name: "tochar", op: isa.ST2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstString, name: "toshort", op: isa.ST2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstString, name: "toint", op: isa.ST2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstString, name: "tolong", op: isa.ST2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstString, name: "tofloat", op: isa.ST2FL, form: mmSelf, res: mmResFlo},

	// boolean conversions
	{mst: sym.MstBoolean, name: "tochar", op: isa.BO2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstBoolean, name: "toshort", op: isa.BO2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstBoolean, name: "toint", op: isa.BO2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstBoolean, name: "tolong", op: isa.BO2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstBoolean, name: "tostring", op: isa.BO2ST, form: mmSelf, res: mmResStr},

	// char conversions
	{mst: sym.MstChar, name: "toshort", op: isa.CH2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstChar, name: "toint", op: isa.CH2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstChar, name: "tolong", op: isa.CH2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstChar, name: "tofloat", op: isa.CH2FL, form: mmSelf, res: mmResFlo},
	{mst: sym.MstChar, name: "tostring", op: isa.CH2ST, form: mmSelf, res: mmResStr},

	// short conversions
	{mst: sym.MstShort, name: "tochar", op: isa.SH2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstShort, name: "toint", op: isa.SH2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstShort, name: "tolong", op: isa.SH2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstShort, name: "tofloat", op: isa.SH2FL, form: mmSelf, res: mmResFlo},
	{mst: sym.MstShort, name: "tostring", op: isa.SH2ST, form: mmSelf, res: mmResStr},

	// integer conversions
	{mst: sym.MstInteger, name: "tochar", op: isa.IN2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstInteger, name: "toshort", op: isa.IN2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstInteger, name: "tolong", op: isa.IN2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstInteger, name: "tofloat", op: isa.IN2FL, form: mmSelf, res: mmResFlo},
	{mst: sym.MstInteger, name: "tostring", op: isa.IN2ST, form: mmSelf, res: mmResStr},

	// long conversions
	{mst: sym.MstLong, name: "tochar", op: isa.LO2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstLong, name: "toshort", op: isa.LO2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstLong, name: "toint", op: isa.LO2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstLong, name: "tofloat", op: isa.LO2FL, form: mmSelf, res: mmResFlo},
	{mst: sym.MstLong, name: "tostring", op: isa.LO2ST, form: mmSelf, res: mmResStr},

	// float conversions
	{mst: sym.MstFloat, name: "tochar", op: isa.FL2CH, form: mmSelf, res: mmResChr},
	{mst: sym.MstFloat, name: "toshort", op: isa.FL2SH, form: mmSelf, res: mmResShr},
	{mst: sym.MstFloat, name: "toint", op: isa.FL2IN, form: mmSelf, res: mmResInt},
	{mst: sym.MstFloat, name: "tolong", op: isa.FL2LO, form: mmSelf, res: mmResLon},
	{mst: sym.MstFloat, name: "tostring", op: isa.FL2ST, form: mmSelf, res: mmResStr},

	// dynamic arrays
	{mst: sym.MstDynArray, name: "len", op: isa.ADSIZ, form: mmSelf, res: mmResWrd},
	{mst: sym.MstDynArray, name: "append", parmMst: []sym.MasterType{mmParmElem}, op: isa.AD1AP, form: mmMutate},
	{mst: sym.MstDynArray, name: "insert", parmMst: []sym.MasterType{mmParmWord, mmParmElem}, op: isa.AD1IN, form: mmMutate},
	{mst: sym.MstDynArray, name: "delete", parmMst: []sym.MasterType{mmParmWord}, op: isa.AD1DE, form: mmMutate},
	{mst: sym.MstDynArray, name: "empty", op: isa.ADEMP, form: mmSelf, res: mmResBol},
	{mst: sym.MstDynArray, name: "reset", op: isa.ADRST, form: mmMutate},
	{mst: sym.MstDynArray, name: "join", parmMst: []sym.MasterType{sym.MstString}, op: isa.AD1SJ, chrOp: isa.AD1CJ, form: mmSelfArgs, res: mmResStr},

	// fixed arrays
	{mst: sym.MstFixArray, name: "join", parmMst: []sym.MasterType{sym.MstString}, op: isa.AF1SJ, chrOp: isa.AF1CJ, form: mmSelfArgs, res: mmResStr},
	{mst: sym.MstFixArray, name: "todynamic", op: isa.AF2D, form: mmSelf, res: mmResDynOfElem},
}

// masterMethodExecute dispatches a method call on a master type. The
// generic methods name, typename, sizeof, tobytes and frombytes apply to
// every master type; the rest come from the fixed table.
func (v *evaluator) masterMethodExecute(t *Token, self *Token, args []Token) bool {
	e := v.e
	mst := self.MstType()

	switch t.Name {
	case "name", "typename", "sizeof", "tobytes", "frombytes":
		return v.genericMethodExecute(t, self, args)
	}

	var entry *mmEntry
	for i := range masterMethodTable {
		en := &masterMethodTable[i]
		if en.mst == mst && en.name == t.Name && len(en.parmMst) == len(args) {
			entry = en
			break
		}
	}
	if entry == nil {
		return e.err(diag.CodeName, t.pos, "type %s has no method %s taking %d arguments", e.tab.TypeName(self.TypIndex()), t.Name, len(args))
	}
	if !self.IsInitialized() {
		return e.err(diag.CodeInit, self.pos, "receiver of %s is not initialized", t.Name)
	}
	if entry.form == mmMutate || mst == sym.MstDynArray && entry.op == isa.AD1AP {
		if !self.IsLValue() {
			return e.err(diag.CodeType, self.pos, "method %s needs a modifiable receiver", t.Name)
		}
		if self.IsConst {
			return e.err(diag.CodeType, self.pos, "method %s cannot modify a constant receiver", t.Name)
		}
	}

	// bind and check the declared parameters; mmParmElem specializes to the
	// receiver's element type at the call site
	for n := range args {
		arg := &args[n]
		if !arg.IsInitialized() {
			return e.err(diag.CodeInit, arg.pos, "argument %d of %s is not initialized", n+1, t.Name)
		}
		switch entry.parmMst[n] {
		case mmParmElem:
			elem := e.tab.Types[self.TypIndex()].ElemTypIndex
			if !e.tab.SameType(arg.TypIndex(), elem) {
				am := arg.MstType()
				em := e.tab.TypeMaster(elem)
				if !IsDataTypePromotionAutomatic(am, em) {
					return e.err(diag.CodeType, arg.pos, "argument %d of %s must be %s", n+1, t.Name, e.tab.TypeName(elem))
				}
				if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), arg, em) {
					return false
				}
			}
		case mmParmWord:
			if !arg.MstType().IsNumeric() || arg.MstType() == sym.MstFloat {
				return e.err(diag.CodeType, arg.pos, "argument %d of %s must be an integer", n+1, t.Name)
			}
			if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), arg, sym.WordMaster) {
				return false
			}
		default:
			if !e.compileDataTypePromotion(v.scope, v.codeBlockID(), arg, entry.parmMst[n]) {
				return false
			}
		}
	}

	self.SetSourceUsed(v.scope, false)
	for n := range args {
		args[n].SetSourceUsed(v.scope, false)
	}
	op := entry.op
	if entry.chrOp != isa.NOP && e.tab.TypeMaster(e.tab.Types[self.TypIndex()].ElemTypIndex) == sym.MstChar {
		op = entry.chrOp
	}

	self.Release()
	for n := range args {
		args[n].Release()
	}

	switch entry.form {
	case mmMutate:
		asmArgs := []isa.Arg{self.Asm()}
		for n := range args {
			asmArgs = append(asmArgs, args[n].Asm())
		}
		e.asm.WriteCode(op, asmArgs...)
		void := newToken(e.tab, IDVoidRes, t.pos)
		void.Name = t.Name
		v.push(void)
		return true
	default:
		var res Token
		resTyp := v.mmResultType(entry, self)
		res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), resTyp, t.pos, sym.TempMaster)
		asmArgs := []isa.Arg{res.Asm(), self.Asm()}
		if entry.form == mmSelfArgs {
			for n := range args {
				asmArgs = append(asmArgs, args[n].Asm())
			}
		}
		e.asm.WriteCode(op, asmArgs...)
		res.IsCalculated = true
		v.push(res)
		return true
	}
}

func (v *evaluator) mmResultType(entry *mmEntry, self *Token) int {
	tab := v.e.tab
	switch entry.res {
	case mmResBol:
		return tab.BolTypIndex
	case mmResChr:
		return tab.ChrTypIndex
	case mmResShr:
		return tab.ShrTypIndex
	case mmResInt:
		return tab.IntTypIndex
	case mmResLon:
		return tab.LonTypIndex
	case mmResFlo:
		return tab.FloTypIndex
	case mmResStr:
		return tab.StrTypIndex
	case mmResWrd:
		return tab.WrdTypIndex
	case mmResStrArr:
		return tab.DefineDynArray(v.scope, tab.StrTypIndex, 1)
	case mmResElem:
		return tab.Types[self.TypIndex()].ElemTypIndex
	case mmResDynOfElem:
		return tab.DefineDynArray(v.scope, tab.Types[self.TypIndex()].ElemTypIndex, 1)
	default:
		return tab.BolTypIndex
	}
}

// genericMethodExecute handles the reflective methods defined uniformly for
// all master types.
func (v *evaluator) genericMethodExecute(t *Token, self *Token, args []Token) bool {
	e := v.e
	switch t.Name {
	case "name":
		if len(args) != 0 {
			return e.err(diag.CodeType, t.pos, "method name takes no arguments")
		}
		res := Token{}
		if self.AdrMode != isa.LitValue && self.SourceVarIndex >= 0 {
			res.AsMetaVarName(e.tab, self.SourceVarIndex, t.pos)
		} else {
			res.AsMetaVarName(e.tab, self.VarIndex, t.pos)
		}
		self.Release()
		v.push(res)
		return true
	case "typename":
		if len(args) != 0 {
			return e.err(diag.CodeType, t.pos, "method typename takes no arguments")
		}
		res := Token{}
		res.AsMetaTypName(e.tab, self.TypIndex(), t.pos)
		self.Release()
		v.push(res)
		return true
	case "sizeof":
		if len(args) != 0 {
			return e.err(diag.CodeType, t.pos, "method sizeof takes no arguments")
		}
		res := Token{}
		res.ThisWrd(e.tab, e.tab.TypeLength(self.TypIndex()), t.pos)
		self.Release()
		v.push(res)
		return true
	case "tobytes":
		if len(args) != 0 {
			return e.err(diag.CodeType, t.pos, "method tobytes takes no arguments")
		}
		if !self.IsInitialized() {
			return e.err(diag.CodeInit, self.pos, "receiver of tobytes is not initialized")
		}
		self.SetSourceUsed(v.scope, false)
		var res Token
		self.Release()
		res.NewVarTyp(e.tab, v.scope, v.codeBlockID(), e.tab.DefineDynArray(v.scope, e.tab.ChrTypIndex, 1), t.pos, sym.TempMaster)
		op := isa.TOCA
		switch self.MstType() {
		case sym.MstString:
			op = isa.STOCA
		case sym.MstFixArray, sym.MstDynArray:
			op = isa.ATOCA
		}
		e.asm.WriteCode(op, res.Asm(), self.Asm())
		res.IsCalculated = true
		v.push(res)
		return true
	case "frombytes":
		if len(args) != 1 {
			return e.err(diag.CodeType, t.pos, "method frombytes takes one argument")
		}
		if !self.IsLValue() {
			return e.err(diag.CodeType, self.pos, "method frombytes needs a modifiable receiver")
		}
		if self.IsConst {
			return e.err(diag.CodeType, self.pos, "method frombytes cannot modify a constant receiver")
		}
		arg := args[0]
		if e.tab.TypeMaster(arg.TypIndex()) != sym.MstDynArray ||
			e.tab.TypeMaster(e.tab.Types[arg.TypIndex()].ElemTypIndex) != sym.MstChar {
			return e.err(diag.CodeType, arg.pos, "frombytes takes a char array")
		}
		arg.SetSourceUsed(v.scope, false)
		op := isa.FRCA
		switch self.MstType() {
		case sym.MstString:
			op = isa.SFRCA
		case sym.MstFixArray, sym.MstDynArray:
			op = isa.AFRCA
		}
		arg.Release()
		e.asm.WriteCode(op, self.Asm(), arg.Asm())
		if self.VarIndex >= 0 {
			e.tab.SetInitialized(self.VarIndex)
		}
		res := *self
		v.push(res)
		return true
	default:
		return e.err(diag.CodeInternal, t.pos, "unknown generic method %s", t.Name)
	}
}
