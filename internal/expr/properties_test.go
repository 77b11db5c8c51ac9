package expr

import (
	"testing"

	"ember/internal/sym"
)

func TestProperty_OperatorTableShape(t *testing.T) {
	for op := Operator(0); op < operatorCount; op++ {
		info := op.Info()
		if info.Text == "" {
			t.Fatalf("operator %d has no printable form", op)
		}
		if info.Prec < 1 || info.Prec > 13 {
			t.Fatalf("operator %s has precedence %d outside 1..13", info.Text, info.Prec)
		}
		if info.OperandNr != 1 && info.OperandNr != 2 {
			t.Fatalf("operator %s has arity %d", info.Text, info.OperandNr)
		}
		if info.IsResultFirst && info.IsResultSecond {
			t.Fatalf("operator %s aliases both operands", info.Text)
		}
	}
	if operatorTable[OpSeqOper].Prec != 1 {
		t.Fatal("sequence operator is not the loosest")
	}
	if operatorTable[OpPostfixInc].Prec != 13 {
		t.Fatal("postfix increment is not the tightest")
	}
}

func TestProperty_CaseRuleFirstMatchWins(t *testing.T) {
	// property P2: lookup returns the first row whose masks include both
	// operand masters
	r := FindCaseRule(OpAddition, sym.MstString, sym.MstChar)
	if r == nil || r.MstResult != sym.MstString || !r.Prom2 {
		t.Fatal("string+char did not hit the dedicated concatenation row")
	}
	r = FindCaseRule(OpAddition, sym.MstChar, sym.MstChar)
	if r == nil || r.PromMode != ToMaximum {
		t.Fatal("char+char did not fall through to the numeric row")
	}
	if r.ResultMaster(sym.MstChar, sym.MstChar) != sym.MstChar {
		t.Fatal("ToMaximum result is not the operand maximum")
	}
	if r.ResultMaster(sym.MstChar, sym.MstFloat) != sym.MstFloat {
		t.Fatal("ToMaximum result is not the wider master")
	}

	// equality accepts booleans, ordering does not
	if FindCaseRule(OpEqual, sym.MstBoolean, sym.MstBoolean) == nil {
		t.Fatal("bool == bool has no rule")
	}
	if FindCaseRule(OpLess, sym.MstBoolean, sym.MstBoolean) != nil {
		t.Fatal("bool < bool unexpectedly has a rule")
	}
	// composite masters never reach arithmetic
	if FindCaseRule(OpAddition, sym.MstClass, sym.MstClass) != nil {
		t.Fatal("class + class unexpectedly has a rule")
	}
}

func TestProperty_StackDiscipline(t *testing.T) {
	// property P1 at the observable level: a result compile rejects dangling
	// operands, and a void compile of an assignment succeeds
	s := newSession(t)
	s.intVar(t, "a")
	if _, ok := s.compile(t, "a 1"); ok {
		t.Fatal("two dangling operands were accepted")
	}

	s2 := newSession(t)
	s2.intVar(t, "a")
	if !s2.compileVoid(t, "a = 1") {
		t.Fatalf("void compile failed: %v", s2.diagText())
	}
}

func TestProperty_PromotionAutomatic(t *testing.T) {
	cases := []struct {
		from, to sym.MasterType
		want     bool
	}{
		{sym.MstChar, sym.MstInteger, true},
		{sym.MstInteger, sym.MstChar, false},
		{sym.MstInteger, sym.MstLong, true},
		{sym.MstLong, sym.MstFloat, true},
		{sym.MstFloat, sym.MstLong, false},
		{sym.MstChar, sym.MstString, true},
		{sym.MstString, sym.MstChar, false},
		{sym.MstBoolean, sym.MstInteger, false},
	}
	for _, tc := range cases {
		if got := IsDataTypePromotionAutomatic(tc.from, tc.to); got != tc.want {
			t.Fatalf("promotion %s -> %s is %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
