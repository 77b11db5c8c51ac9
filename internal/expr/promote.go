package expr

import (
	"ember/internal/diag"
	"ember/internal/isa"
	"ember/internal/sym"
)

type convPair struct{ from, to sym.MasterType }

// convTable maps atomic master pairs to the VM conversion instruction.
var convTable = map[convPair]isa.Opcode{
	{sym.MstBoolean, sym.MstChar}:    isa.BO2CH,
	{sym.MstBoolean, sym.MstShort}:   isa.BO2SH,
	{sym.MstBoolean, sym.MstInteger}: isa.BO2IN,
	{sym.MstBoolean, sym.MstLong}:    isa.BO2LO,
	{sym.MstBoolean, sym.MstString}:  isa.BO2ST,
	{sym.MstChar, sym.MstShort}:      isa.CH2SH,
	{sym.MstChar, sym.MstInteger}:    isa.CH2IN,
	{sym.MstChar, sym.MstLong}:       isa.CH2LO,
	{sym.MstChar, sym.MstFloat}:      isa.CH2FL,
	{sym.MstChar, sym.MstString}:     isa.CH2ST,
	{sym.MstShort, sym.MstChar}:      isa.SH2CH,
	{sym.MstShort, sym.MstInteger}:   isa.SH2IN,
	{sym.MstShort, sym.MstLong}:      isa.SH2LO,
	{sym.MstShort, sym.MstFloat}:     isa.SH2FL,
	{sym.MstShort, sym.MstString}:    isa.SH2ST,
	{sym.MstInteger, sym.MstChar}:    isa.IN2CH,
	{sym.MstInteger, sym.MstShort}:   isa.IN2SH,
	{sym.MstInteger, sym.MstLong}:    isa.IN2LO,
	{sym.MstInteger, sym.MstFloat}:   isa.IN2FL,
	{sym.MstInteger, sym.MstString}:  isa.IN2ST,
	{sym.MstLong, sym.MstChar}:       isa.LO2CH,
	{sym.MstLong, sym.MstShort}:      isa.LO2SH,
	{sym.MstLong, sym.MstInteger}:    isa.LO2IN,
	{sym.MstLong, sym.MstFloat}:      isa.LO2FL,
	{sym.MstLong, sym.MstString}:     isa.LO2ST,
	{sym.MstFloat, sym.MstChar}:      isa.FL2CH,
	{sym.MstFloat, sym.MstShort}:     isa.FL2SH,
	{sym.MstFloat, sym.MstInteger}:   isa.FL2IN,
	{sym.MstFloat, sym.MstLong}:      isa.FL2LO,
	{sym.MstFloat, sym.MstString}:    isa.FL2ST,
	{sym.MstString, sym.MstBoolean}:  isa.ST2BO,
	{sym.MstString, sym.MstChar}:     isa.ST2CH,
	{sym.MstString, sym.MstShort}:    isa.ST2SH,
	{sym.MstString, sym.MstInteger}:  isa.ST2IN,
	{sym.MstString, sym.MstLong}:     isa.ST2LO,
	{sym.MstString, sym.MstFloat}:    isa.ST2FL,
}

// convOpcode returns the VM conversion instruction between two atomic
// masters, or NOP when none applies.
func convOpcode(from, to sym.MasterType) isa.Opcode {
	if op, ok := convTable[convPair{from, to}]; ok {
		return op
	}
	return isa.NOP
}

// compileDataTypePromotion brings an operand to the target master type.
// Literal operands fold in place; everything else emits a conversion
// instruction into a fresh promotion temporary.
func (e *Expression) compileDataTypePromotion(scope sym.Scope, codeBlockID int64, opnd *Token, toMst sym.MasterType) bool {
	from := opnd.MstType()
	if from == toMst {
		return true
	}
	if opnd.AdrMode == isa.LitValue {
		if err := opnd.ToMaster(toMst); err != nil {
			return e.err(diag.CodeConstArith, opnd.pos, "%s", err.Error())
		}
		return true
	}
	op := convOpcode(from, toMst)
	if op == isa.NOP {
		return e.err(diag.CodeType, opnd.pos, "no promotion from %s to %s", from, toMst)
	}
	var result Token
	result.NewVar(e.tab, scope, codeBlockID, toMst, opnd.pos, sym.TempPromotion)
	e.asm.WriteCode(op, result.Asm(), opnd.Asm())
	opnd.Release()
	result.SourceVarIndex = opnd.SourceVarIndex
	*opnd = result
	return true
}

// computeDataTypePromotion is the fold-path twin: it refuses non-literal
// operands so folded promotions always agree with compiled ones.
func (e *Expression) computeDataTypePromotion(opnd *Token, toMst sym.MasterType) bool {
	if opnd.MstType() == toMst {
		return true
	}
	if opnd.AdrMode != isa.LitValue {
		return e.err(diag.CodeNotComputable, opnd.pos, "operand is not a literal value")
	}
	if err := opnd.ToMaster(toMst); err != nil {
		return e.err(diag.CodeConstArith, opnd.pos, "%s", err.Error())
	}
	return true
}

// promoteOperands applies a case rule's promotion policy to both operands.
func (e *Expression) promoteOperands(scope sym.Scope, codeBlockID int64, rule *CaseRule, opnd1, opnd2 *Token, compile bool) bool {
	m1 := opnd1.MstType()
	m2 := sym.MstBoolean
	binary := rule.Opr.Info().OperandNr == 2
	if binary {
		m2 = opnd2.MstType()
	}
	target := rule.PromTarget(m1, m2)
	if rule.Prom1 && m1 != target {
		if compile {
			if !e.compileDataTypePromotion(scope, codeBlockID, opnd1, target) {
				return false
			}
		} else if !e.computeDataTypePromotion(opnd1, target) {
			return false
		}
	}
	if binary && rule.Prom2 && m2 != target {
		if compile {
			if !e.compileDataTypePromotion(scope, codeBlockID, opnd2, target) {
				return false
			}
		} else if !e.computeDataTypePromotion(opnd2, target) {
			return false
		}
	}
	return true
}
