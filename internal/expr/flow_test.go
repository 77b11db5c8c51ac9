package expr

import (
	"testing"

	"ember/internal/sym"
)

func TestFlow_ForExpression(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "for(int n = 0 if n < 10 do n++ return n)")
	wantOps(t, s, "MV", "LES", "JMPFL", "PINC", "JMP")

	if got := s.asm.JumpDestination("FW0000BEG"); got != 0 {
		t.Fatalf("BEG label resolves to %d, want 0", got)
	}
	if got := s.asm.JumpDestination("FW0000IF"); got != 1 {
		t.Fatalf("IF label resolves to %d, want 1", got)
	}
	if got := s.asm.JumpDestination("FW0000RET"); got != 5 {
		t.Fatalf("RET label resolves to %d, want 5", got)
	}

	// the loop variable is hidden once the flow operator ends
	if s.tab.VarSearch("n", s.scope) != -1 {
		t.Fatal("n is still visible after the for expression")
	}
	if res.MstType() != sym.MstInteger {
		t.Fatalf("for result master is %s, want Integer", res.MstType())
	}
}

func TestFlow_ForKeywordOrder(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "for(int n = 0 do n++ if n < 10 return n)"); ok {
		t.Fatal("for with do before if was accepted")
	}
}

func TestFlow_ArrayExpression(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.LonTypIndex, 1)
	s.typedVar(t, "xs", dynTyp)

	res := s.mustCompile(t, "array(xs on x if x > 2L as x * 2L)")
	wantOps(t, s, "AD1DF", "AD1FO", "GRE", "JMPFL", "MUL", "AD1AP", "MV", "AD1NX")

	if s.tab.TypeMaster(res.TypIndex()) != sym.MstDynArray {
		t.Fatalf("array result master is %s, want DynArray", s.tab.TypeMaster(res.TypIndex()))
	}
	if elem := s.tab.Types[res.TypIndex()].ElemTypIndex; elem != s.tab.LonTypIndex {
		t.Fatalf("array result element is %s, want long", s.tab.TypeName(elem))
	}
	// the element variable is hidden after the loop
	if s.tab.VarSearch("x", s.scope) != -1 {
		t.Fatal("x is still visible after the array expression")
	}
}

func TestFlow_ArrayWithIndex(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.LonTypIndex, 1)
	s.typedVar(t, "xs", dynTyp)

	s.mustCompile(t, "array(xs on x index i as x)")
	// the walk start carries the index variable
	found := false
	for _, ins := range s.asm.Code {
		if ins.Op.String() == "AD1FO" && len(ins.Args) == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no AD1FO with an index argument: %v", s.ops())
	}
	if s.tab.VarSearch("i", s.scope) != -1 {
		t.Fatal("i is still visible after the array expression")
	}
}

func TestFlow_ArrayKeywordSequence(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.LonTypIndex, 1)
	s.typedVar(t, "xs", dynTyp)
	if _, ok := s.compile(t, "array(xs index i on x as x)"); ok {
		t.Fatal("array with index before on was accepted")
	}
}

func TestFlow_ArraySourceMustBeArray(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "n")
	if _, ok := s.compile(t, "array(n on x as x)"); ok {
		t.Fatal("array over a non-array source was accepted")
	}
}
