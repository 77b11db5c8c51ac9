package expr

import (
	"fmt"
	"strconv"

	"ember/internal/isa"
	"ember/internal/source"
	"ember/internal/sym"
)

// TokenID discriminates the expression-token variants.
type TokenID uint8

const (
	// IDOperand is an expression operand.
	IDOperand TokenID = iota
	// IDUndefVar is a not-yet-defined variable name.
	IDUndefVar
	// IDOperator is an expression operator.
	IDOperator
	// IDLowLevelOpr is a ternary low-level operator.
	IDLowLevelOpr
	// IDFlowOpr is a flow operator.
	IDFlowOpr
	// IDField is a field member access.
	IDField
	// IDMethod is a member function call.
	IDMethod
	// IDConstructor is a class constructor call.
	IDConstructor
	// IDSubscript is an array subscript.
	IDSubscript
	// IDFunction is a function call.
	IDFunction
	// IDComplex is a complex literal value.
	IDComplex
	// IDDelimiter is an expression delimiter.
	IDDelimiter
	// IDVoidRes is a void function result marker.
	IDVoidRes
)

var tokenIDNames = [...]string{
	IDOperand:     "operand",
	IDUndefVar:    "undefined variable",
	IDOperator:    "operator",
	IDLowLevelOpr: "low level operator",
	IDFlowOpr:     "flow operator",
	IDField:       "field",
	IDMethod:      "method",
	IDConstructor: "constructor",
	IDSubscript:   "subscript",
	IDFunction:    "function",
	IDComplex:     "complex value",
	IDDelimiter:   "delimiter",
	IDVoidRes:     "void result",
}

func (id TokenID) String() string {
	if int(id) < len(tokenIDNames) {
		return tokenIDNames[id]
	}
	return "unknown"
}

// LowLevelOpr drives the ternary state machine.
type LowLevelOpr uint8

const (
	// TernaryCond is the question mark.
	TernaryCond LowLevelOpr = iota
	// TernaryMid is the colon.
	TernaryMid
	// TernaryEnd is the synthetic end token inserted before the closing paren.
	TernaryEnd
)

// FlowOpr sequences code inside for(...) and array(...) expressions.
type FlowOpr uint8

const (
	// ForBeg opens a for expression.
	ForBeg FlowOpr = iota
	// ForIf stamps the condition label.
	ForIf
	// ForDo tests the condition.
	ForDo
	// ForRet closes the body and stamps the return label.
	ForRet
	// ForEnd closes the for expression.
	ForEnd
	// ArrBeg opens an array expression.
	ArrBeg
	// ArrOnvar declares the element variable.
	ArrOnvar
	// ArrOxvar declares the element variable when an index follows.
	ArrOxvar
	// ArrIxvar declares or binds the index variable.
	ArrIxvar
	// ArrInit starts the result-array loop.
	ArrInit
	// ArrAsif tests the optional filter.
	ArrAsif
	// ArrEnd appends the element and closes the loop.
	ArrEnd
)

var flowNames = [...]string{
	ForBeg: "for.beg", ForIf: "for.if", ForDo: "for.do", ForRet: "for.ret", ForEnd: "for.end",
	ArrBeg: "arr.beg", ArrOnvar: "arr.on", ArrOxvar: "arr.ox", ArrIxvar: "arr.ix",
	ArrInit: "arr.init", ArrAsif: "arr.asif", ArrEnd: "arr.end",
}

func (f FlowOpr) String() string {
	if int(f) < len(flowNames) {
		return flowNames[f]
	}
	return "flow?"
}

// Delimiter is a grouping token kept during infix parsing.
type Delimiter uint8

const (
	// BegParen is an opening parenthesis.
	BegParen Delimiter = iota
	// EndParen is a closing parenthesis.
	EndParen
	// BegBracket is an opening bracket.
	BegBracket
	// EndBracket is a closing bracket.
	EndBracket
	// BegCurly is an opening curly brace.
	BegCurly
	// EndCurly is a closing curly brace.
	EndCurly
	// CommaSep is a comma separator.
	CommaSep
)

var delimNames = [...]string{
	BegParen: "(", EndParen: ")", BegBracket: "[", EndBracket: "]",
	BegCurly: "{", EndCurly: "}", CommaSep: ",",
}

func (d Delimiter) String() string {
	if int(d) < len(delimNames) {
		return delimNames[d]
	}
	return "?"
}

// MetaCase selects a reflective constant.
type MetaCase uint8

const (
	// MetaNone marks an ordinary token.
	MetaNone MetaCase = iota
	// MetaFldNames is the field-names table of a class.
	MetaFldNames
	// MetaFldTypes is the field-types table of a class.
	MetaFldTypes
	// MetaTypName is the type name string.
	MetaTypName
	// MetaVarName is the variable name string.
	MetaVarName
)

// MetaAttr carries the reflective-constant payload.
type MetaAttr struct {
	Case     MetaCase
	TypIndex int
	VarIndex int
}

// LitVal is the tagged literal payload of an operand token. Only the field
// matching the literal type index is meaningful (invariant I1).
type LitVal struct {
	Bol bool
	Chr byte
	Shr int16
	Int int32
	Lon int64
	Flo float64
	Enu int32
	Adr int64
	// Str mirrors the pooled text for literal strings so folding can
	// operate without the runtime heap.
	Str string
}

// Token is one expression token. The variant payload fields are grouped at
// the top; the orthogonal attributes every token carries follow.
type Token struct {
	id  TokenID
	tab *sym.Table
	pos source.Pos

	// Variant payloads.
	Operator        Operator
	LowLevel        LowLevelOpr
	Flow            FlowOpr
	Delim           Delimiter
	VarIndex        int
	Name            string // undefined-variable / function / field / method / void-result name
	CCTypIndex      int    // constructor class type
	ComplexTypIndex int
	DimNr           int
	Value           LitVal

	// Orthogonal attributes.
	AdrMode           isa.AdrMode
	IsConst           bool
	IsCalculated      bool
	HasInitialization bool
	LitNumTypIndex    int
	CastTypIndex      int
	CallParmNr        int
	FunModIndex       int
	SourceVarIndex    int
	LabelSeed         int64
	FlowLabel         int64
	Meta              MetaAttr
	DimSize           sym.ArrayIndexes
	DimSizeNr         int
}

// ID returns the variant tag.
func (t *Token) ID() TokenID { return t.id }

// SetID re-tags the token. The evaluator re-wraps tokens as results; the
// payloads of the previous variant become meaningless.
func (t *Token) SetID(id TokenID) { t.id = id }

// Pos returns the source position of the token.
func (t *Token) Pos() source.Pos { return t.pos }

// SetPos stamps the source position.
func (t *Token) SetPos(pos source.Pos) { t.pos = pos }

// Table returns the attached symbol table.
func (t *Token) Table() *sym.Table { return t.tab }

func newToken(tab *sym.Table, id TokenID, pos source.Pos) Token {
	return Token{
		id:             id,
		tab:            tab,
		pos:            pos,
		VarIndex:       -1,
		LitNumTypIndex: -1,
		CastTypIndex:   -1,
		SourceVarIndex: -1,
		FunModIndex:    -1,
		LabelSeed:      -1,
		FlowLabel:      -1,
	}
}

// ThisBol rebuilds the token as a boolean literal operand.
func (t *Token) ThisBol(tab *sym.Table, v bool, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.BolTypIndex
	t.Value.Bol = v
}

// ThisChr rebuilds the token as a char literal operand.
func (t *Token) ThisChr(tab *sym.Table, v byte, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.ChrTypIndex
	t.Value.Chr = v
}

// ThisShr rebuilds the token as a short literal operand.
func (t *Token) ThisShr(tab *sym.Table, v int16, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.ShrTypIndex
	t.Value.Shr = v
}

// ThisInt rebuilds the token as an integer literal operand.
func (t *Token) ThisInt(tab *sym.Table, v int32, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.IntTypIndex
	t.Value.Int = v
}

// ThisLon rebuilds the token as a long literal operand.
func (t *Token) ThisLon(tab *sym.Table, v int64, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.LonTypIndex
	t.Value.Lon = v
}

// ThisFlo rebuilds the token as a float literal operand.
func (t *Token) ThisFlo(tab *sym.Table, v float64, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.FloTypIndex
	t.Value.Flo = v
}

// ThisWrd rebuilds the token as a machine-word literal operand.
func (t *Token) ThisWrd(tab *sym.Table, v int64, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.WrdTypIndex
	t.Value.Lon = v
}

// ThisStr rebuilds the token as a literal string operand, interning the
// text into the literal pool.
func (t *Token) ThisStr(tab *sym.Table, s string, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.StrTypIndex
	t.Value.Adr = tab.StoreLitString(s)
	t.Value.Str = s
}

// ThisEnu rebuilds the token as a literal enum member.
func (t *Token) ThisEnu(tab *sym.Table, enumTypIndex int, v int32, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = enumTypIndex
	t.Value.Enu = v
}

// ThisVar rebuilds the token as a direct variable operand.
func (t *Token) ThisVar(tab *sym.Table, varIndex int, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.Address
	t.VarIndex = varIndex
	t.SourceVarIndex = varIndex
	t.IsConst = tab.Vars[varIndex].IsConst
}

// ThisInd rebuilds the token as an indirection through a reference slot.
func (t *Token) ThisInd(tab *sym.Table, varIndex int, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.Indirection
	t.VarIndex = varIndex
	t.SourceVarIndex = -1
	t.IsConst = tab.Vars[varIndex].IsConst
}

// AsMetaFldNames rebuilds the token as the field-names meta constant.
func (t *Token) AsMetaFldNames(tab *sym.Table, typIndex int, pos source.Pos) {
	t.asMeta(tab, MetaAttr{Case: MetaFldNames, TypIndex: typIndex, VarIndex: -1}, pos)
}

// AsMetaFldTypes rebuilds the token as the field-types meta constant.
func (t *Token) AsMetaFldTypes(tab *sym.Table, typIndex int, pos source.Pos) {
	t.asMeta(tab, MetaAttr{Case: MetaFldTypes, TypIndex: typIndex, VarIndex: -1}, pos)
}

// AsMetaTypName rebuilds the token as the type-name meta constant.
func (t *Token) AsMetaTypName(tab *sym.Table, typIndex int, pos source.Pos) {
	t.asMeta(tab, MetaAttr{Case: MetaTypName, TypIndex: typIndex, VarIndex: -1}, pos)
}

// AsMetaVarName rebuilds the token as the variable-name meta constant.
func (t *Token) AsMetaVarName(tab *sym.Table, varIndex int, pos source.Pos) {
	t.asMeta(tab, MetaAttr{Case: MetaVarName, TypIndex: -1, VarIndex: varIndex}, pos)
}

func (t *Token) asMeta(tab *sym.Table, meta MetaAttr, pos source.Pos) {
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.LitValue
	t.IsConst = true
	t.LitNumTypIndex = tab.StrTypIndex
	t.Meta = meta
	switch meta.Case {
	case MetaTypName:
		t.Value.Str = tab.TypeName(meta.TypIndex)
	case MetaVarName:
		t.Value.Str = tab.VarName(meta.VarIndex)
	}
}

// NewConst allocates a fresh constant temporary of a master type.
func (t *Token) NewConst(tab *sym.Table, scope sym.Scope, codeBlockID int64, mst sym.MasterType, pos source.Pos) {
	t.NewVarTyp(tab, scope, codeBlockID, tab.SystemTypeFor(mst), pos, sym.TempRegular)
	tab.Vars[t.VarIndex].IsConst = true
	t.IsConst = true
}

// NewVar allocates a fresh temporary of a master type and points the token
// at it. The temporary comes back locked.
func (t *Token) NewVar(tab *sym.Table, scope sym.Scope, codeBlockID int64, mst sym.MasterType, pos source.Pos, kind sym.TempVarKind) {
	t.NewVarTyp(tab, scope, codeBlockID, tab.SystemTypeFor(mst), pos, kind)
}

// NewVarTyp allocates a fresh temporary of an arbitrary type index.
func (t *Token) NewVarTyp(tab *sym.Table, scope sym.Scope, codeBlockID int64, typIndex int, pos source.Pos, kind sym.TempVarKind) {
	varIndex, _ := tab.TempVarNew(scope, codeBlockID, typIndex, kind)
	tab.SetInitialized(varIndex)
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.Address
	t.VarIndex = varIndex
	t.SourceVarIndex = -1
	t.IsCalculated = true
}

// NewVarTypReused is NewVarTyp reporting whether the allocator reused a
// free slot; the ternary machinery records that in its seed.
func (t *Token) NewVarTypReused(tab *sym.Table, scope sym.Scope, codeBlockID int64, typIndex int, pos source.Pos) bool {
	varIndex, reused := tab.TempVarNew(scope, codeBlockID, typIndex, sym.TempRegular)
	tab.SetInitialized(varIndex)
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.Address
	t.VarIndex = varIndex
	t.SourceVarIndex = -1
	t.IsCalculated = true
	return reused
}

// NewInd allocates a fresh reference temporary and points the token at it
// as an indirection.
func (t *Token) NewInd(tab *sym.Table, scope sym.Scope, codeBlockID int64, typIndex int, isConst bool, pos source.Pos, kind sym.TempVarKind) {
	varIndex, _ := tab.TempVarNew(scope, codeBlockID, typIndex, kind)
	tab.SetInitialized(varIndex)
	tab.Vars[varIndex].IsReference = true
	*t = newToken(tab, IDOperand, pos)
	t.AdrMode = isa.Indirection
	t.VarIndex = varIndex
	t.SourceVarIndex = -1
	t.IsCalculated = true
	t.IsConst = isConst
}

// Release unlocks the backing temporary so the allocator may reuse it
// (invariant I2).
func (t *Token) Release() {
	if t.id == IDOperand && t.AdrMode != isa.LitValue && t.VarIndex >= 0 {
		t.tab.TempVarUnlock(t.VarIndex)
	}
}

// Lock re-locks the backing temporary while the token stays live.
func (t *Token) Lock() {
	if t.id == IDOperand && t.AdrMode != isa.LitValue && t.VarIndex >= 0 {
		t.tab.TempVarLock(t.VarIndex)
	}
}

// SetSourceUsed propagates a source-read to the variable behind the token,
// following SourceVarIndex through field and subscript chains.
func (t *Token) SetSourceUsed(scope sym.Scope, forced bool) {
	if t.id != IDOperand {
		return
	}
	if t.SourceVarIndex >= 0 {
		t.tab.SetSourceUsed(t.SourceVarIndex, scope, forced)
	} else if t.AdrMode != isa.LitValue && t.VarIndex >= 0 {
		t.tab.SetSourceUsed(t.VarIndex, scope, forced)
	}
}

// IsLValue reports whether the token denotes writable storage: a variable,
// or an indirection through a reference slot. Computed value temporaries
// are not lvalues; reference temporaries produced by field and subscript
// fetches are.
func (t *Token) IsLValue() bool {
	if t.id != IDOperand {
		return false
	}
	switch t.AdrMode {
	case isa.Indirection:
		return true
	case isa.Address:
		return !t.IsCalculated
	default:
		return false
	}
}

// IsInitialized reports whether the token may be read (invariant I3):
// literals and calculated results always, variables per their flag.
func (t *Token) IsInitialized() bool {
	if t.id != IDOperand {
		return false
	}
	if t.AdrMode == isa.LitValue || t.IsCalculated {
		return true
	}
	if t.VarIndex < 0 {
		return false
	}
	return t.tab.Vars[t.VarIndex].IsInitialized
}

// TypIndex returns the type of the operand: the literal type for literal
// values, the variable type otherwise. -1 for non-operands.
func (t *Token) TypIndex() int {
	if t.id != IDOperand {
		return -1
	}
	if t.AdrMode == isa.LitValue {
		return t.LitNumTypIndex
	}
	if t.VarIndex < 0 {
		return -1
	}
	return t.tab.Vars[t.VarIndex].TypIndex
}

// MstType returns the master type of the operand.
func (t *Token) MstType() sym.MasterType {
	return t.tab.TypeMaster(t.TypIndex())
}

// IsMasterAtomic reports whether the operand's master type is atomic.
func (t *Token) IsMasterAtomic() bool {
	return t.MstType().IsAtomic()
}

// IsComputableOperand reports whether the token can participate in constant
// folding: a literal value of an atomic master type.
func (t *Token) IsComputableOperand() bool {
	return t.id == IDOperand && t.AdrMode == isa.LitValue && t.Meta.Case == MetaNone &&
		t.MstType().IsAtomic()
}

// IsComputableOperator reports whether the token is an operator in the
// foldable set.
func (t *Token) IsComputableOperator() bool {
	return t.id == IDOperator && operatorTable[t.Operator].Computable
}

// Asm converts the operand into an instruction argument.
func (t *Token) Asm() isa.Arg {
	if t.id != IDOperand {
		return isa.AsmErr()
	}
	switch t.AdrMode {
	case isa.LitValue:
		switch t.Meta.Case {
		case MetaFldNames:
			return isa.AsmMta(t.Meta.TypIndex, t.tab.TypeName(t.Meta.TypIndex)+".fieldnames")
		case MetaFldTypes:
			return isa.AsmMta(t.Meta.TypIndex, t.tab.TypeName(t.Meta.TypIndex)+".fieldtypes")
		}
		switch t.tab.TypeMaster(t.LitNumTypIndex) {
		case sym.MstBoolean:
			return isa.AsmLitBol(t.Value.Bol)
		case sym.MstChar:
			return isa.AsmLitChr(t.Value.Chr)
		case sym.MstShort:
			return isa.AsmLitShr(t.Value.Shr)
		case sym.MstInteger:
			return isa.AsmLitInt(t.Value.Int)
		case sym.MstLong:
			if t.LitNumTypIndex == t.tab.WrdTypIndex {
				return isa.AsmLitWrd(t.Value.Lon)
			}
			return isa.AsmLitLon(t.Value.Lon)
		case sym.MstFloat:
			return isa.AsmLitFlo(t.Value.Flo)
		case sym.MstString:
			return isa.AsmLitStr(t.Value.Adr, t.Value.Str)
		case sym.MstEnum:
			return isa.AsmLitInt(t.Value.Enu)
		default:
			return isa.AsmErr()
		}
	case isa.Address:
		return isa.AsmVar(t.VarIndex, t.tab.VarName(t.VarIndex))
	case isa.Indirection:
		return isa.AsmInd(t.VarIndex, t.tab.VarName(t.VarIndex))
	default:
		return isa.AsmErr()
	}
}

// Print returns a compact printable form for listings and diagnostics.
func (t *Token) Print() string {
	switch t.id {
	case IDOperand:
		if t.AdrMode == isa.LitValue {
			return t.litText()
		}
		return t.tab.VarName(t.VarIndex)
	case IDUndefVar:
		return t.Name
	case IDOperator:
		return operatorTable[t.Operator].Text
	case IDLowLevelOpr:
		switch t.LowLevel {
		case TernaryCond:
			return "?"
		case TernaryMid:
			return ":"
		default:
			return "?)"
		}
	case IDFlowOpr:
		return t.Flow.String()
	case IDField:
		return "." + t.Name
	case IDMethod:
		return "." + t.Name + "()"
	case IDConstructor:
		return t.tab.TypeName(t.CCTypIndex) + "()"
	case IDSubscript:
		return fmt.Sprintf("[%d]", t.DimNr)
	case IDFunction:
		return t.Name + "()"
	case IDComplex:
		return "{" + t.tab.TypeName(t.ComplexTypIndex) + "}"
	case IDDelimiter:
		return t.Delim.String()
	case IDVoidRes:
		return "void:" + t.Name
	default:
		return "?"
	}
}

func (t *Token) litText() string {
	switch t.tab.TypeMaster(t.LitNumTypIndex) {
	case sym.MstBoolean:
		return strconv.FormatBool(t.Value.Bol)
	case sym.MstChar:
		return fmt.Sprintf("'%c'", t.Value.Chr)
	case sym.MstShort:
		return strconv.FormatInt(int64(t.Value.Shr), 10) + "S"
	case sym.MstInteger:
		return strconv.FormatInt(int64(t.Value.Int), 10) + "I"
	case sym.MstLong:
		return strconv.FormatInt(t.Value.Lon, 10) + "L"
	case sym.MstFloat:
		return strconv.FormatFloat(t.Value.Flo, 'g', -1, 64) + "F"
	case sym.MstString:
		return strconv.Quote(t.Value.Str)
	case sym.MstEnum:
		return t.tab.TypeName(t.LitNumTypIndex) + "#" + strconv.FormatInt(int64(t.Value.Enu), 10)
	default:
		return "?"
	}
}
