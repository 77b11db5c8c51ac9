package expr

import (
	"testing"

	"ember/internal/sym"
)

func TestTernary_LabelLayoutAndSharedResult(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	s.intVar(t, "x")
	s.intVar(t, "y")

	res := s.mustCompile(t, "(b ? x : y)")
	wantOps(t, s, "JMPFL", "MV", "JMP", "MV")

	// JMPFL targets the false label which binds to the second move
	if got := s.asm.JumpDestination("CN0000FAL"); got != 3 {
		t.Fatalf("false label resolves to %d, want 3", got)
	}
	if got := s.asm.JumpDestination("CN0000END"); got != 4 {
		t.Fatalf("end label resolves to %d, want 4", got)
	}

	// both branches write the same storage cell (property P6)
	trueMove := s.asm.Code[1]
	falseMove := s.asm.Code[3]
	if trueMove.Args[0].VarIndex != falseMove.Args[0].VarIndex {
		t.Fatalf("branches write %d and %d; the result temporary must be shared",
			trueMove.Args[0].VarIndex, falseMove.Args[0].VarIndex)
	}
	if res.VarIndex != trueMove.Args[0].VarIndex {
		t.Fatalf("result refers to %d, want the shared temporary %d", res.VarIndex, trueMove.Args[0].VarIndex)
	}
	if res.MstType() != sym.MstInteger {
		t.Fatalf("ternary result master is %s, want Integer", res.MstType())
	}
}

func TestTernary_FalseBranchPromotes(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	s.typedVar(t, "l", s.tab.LonTypIndex)
	s.typedVar(t, "i", s.tab.IntTypIndex)

	res := s.mustCompile(t, "(b ? l : i)")
	// the false branch converts into the long result cell
	wantOps(t, s, "JMPFL", "MV", "JMP", "IN2LO", "MV")
	if res.MstType() != sym.MstLong {
		t.Fatalf("result master is %s, want Long", res.MstType())
	}
}

func TestTernary_MissingColon(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	if _, ok := s.compile(t, "(b ? 1)"); ok {
		t.Fatal("ternary without : was accepted")
	}
}

func TestTernary_OutsideParens(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	if _, ok := s.compile(t, "b ? 1 : 2"); ok {
		t.Fatal("ternary outside parentheses was accepted")
	}
}

func TestTernary_NonBooleanCondition(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "n")
	if _, ok := s.compile(t, "(n ? 1 : 2)"); ok {
		t.Fatal("non-boolean ternary condition was accepted")
	}
}

func TestTernary_Nested(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	s.typedVar(t, "c", s.tab.BolTypIndex)
	res := s.mustCompile(t, "(b ? (c ? 1 : 2) : 3)")
	if res.MstType() != sym.MstInteger {
		t.Fatalf("nested ternary result master is %s, want Integer", res.MstType())
	}
	// two distinct seeds were spent
	if s.tab.GetLabelGenerator() != 2 {
		t.Fatalf("label generator advanced to %d, want 2", s.tab.GetLabelGenerator())
	}
}
