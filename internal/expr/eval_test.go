package expr

import (
	"strings"
	"testing"

	"ember/internal/isa"
	"ember/internal/sym"
)

func TestEval_TempReuseAcrossOperators(t *testing.T) {
	s := newSession(t)
	if !s.compileVoid(t, "int a = 5") {
		t.Fatalf("declaration failed: %v", s.diagText())
	}
	wantOps(t, s, "MV")

	res := s.mustCompile(t, "a * a - 1")
	wantOps(t, s, "MV", "MUL", "SUB")

	mul := s.asm.Code[1]
	sub := s.asm.Code[2]
	if mul.Args[0].VarIndex != sub.Args[0].VarIndex {
		t.Fatalf("MUL writes %d but SUB writes %d; the temporary must be reused", mul.Args[0].VarIndex, sub.Args[0].VarIndex)
	}
	if res.VarIndex != sub.Args[0].VarIndex {
		t.Fatalf("result refers to %d, want the shared temporary %d", res.VarIndex, sub.Args[0].VarIndex)
	}

	aIdx := s.tab.VarSearch("a", s.scope)
	if aIdx == -1 {
		t.Fatal("variable a vanished")
	}
	if !s.tab.Vars[aIdx].IsSourceUsed {
		t.Fatal("a was read as a source but IsSourceUsed is false")
	}
	// exactly one temporary was allocated
	temps := 0
	for i := range s.tab.Vars {
		if s.tab.Vars[i].IsTempVar {
			temps++
		}
	}
	if temps != 1 {
		t.Fatalf("allocated %d temporaries, want 1", temps)
	}
}

func TestEval_CharPromotesToString(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "c", s.tab.ChrTypIndex)
	res := s.mustCompile(t, `"x" + c`)
	wantOps(t, s, "CH2ST", "SCONC")
	if res.MstType() != sym.MstString {
		t.Fatalf("result master is %s, want String", res.MstType())
	}
}

func TestEval_FixArraySubscriptAssign(t *testing.T) {
	s := newSession(t)
	arrTyp := s.fixArrayType(t, s.tab.IntTypIndex, 3, 4)
	aIdx := s.typedVar(t, "a", arrTyp)
	s.typedVar(t, "i", s.tab.WrdTypIndex)
	s.typedVar(t, "j", s.tab.WrdTypIndex)
	vIdx := s.intVar(t, "v")

	s.mustCompile(t, "a[i][j] = v")
	wantOps(t, s, "AFIDX", "AFIDX", "AFREF", "MV")

	mv := s.asm.Code[3]
	if mv.Args[0].Mode != isa.Indirection {
		t.Fatalf("assignment target mode is %s, want indirection", mv.Args[0].Mode)
	}
	if !s.tab.Vars[aIdx].IsSourceUsed {
		t.Fatal("a.IsSourceUsed is false")
	}
	if !s.tab.Vars[vIdx].IsSourceUsed {
		t.Fatal("v.IsSourceUsed is false")
	}
}

func TestEval_CombinedSubscript(t *testing.T) {
	s := newSession(t)
	arrTyp := s.fixArrayType(t, s.tab.IntTypIndex, 3, 4)
	s.typedVar(t, "a", arrTyp)
	s.typedVar(t, "i", s.tab.WrdTypIndex)
	s.typedVar(t, "j", s.tab.WrdTypIndex)

	// a[i,j] and a[i][j] compile to the same chain
	s.mustCompile(t, "a[i,j]")
	wantOps(t, s, "AFIDX", "AFIDX", "AFREF")
}

func TestEval_SubscriptDimensionMismatch(t *testing.T) {
	s := newSession(t)
	arrTyp := s.fixArrayType(t, s.tab.IntTypIndex, 3, 4)
	s.typedVar(t, "a", arrTyp)
	s.typedVar(t, "i", s.tab.WrdTypIndex)
	if _, ok := s.compile(t, "a[i]"); ok {
		t.Fatal("partial subscript as the expression result was accepted")
	}
}

func TestEval_AssignLookaheadReuse(t *testing.T) {
	// property P4 flavor: x = a*b writes straight into x, no temporary
	s := newSession(t)
	s.intVar(t, "x")
	s.intVar(t, "a")
	s.intVar(t, "b")
	s.mustCompile(t, "x = a * b")
	wantOps(t, s, "MUL")
	for i := range s.tab.Vars {
		if s.tab.Vars[i].IsTempVar {
			t.Fatal("a temporary was allocated; the assignment target must be reused")
		}
	}
	mul := s.asm.Code[0]
	xIdx := s.tab.VarSearch("x", s.scope)
	if mul.Args[0].VarIndex != xIdx {
		t.Fatalf("MUL writes %d, want x (%d)", mul.Args[0].VarIndex, xIdx)
	}
}

func TestEval_CompoundAssign(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	s.mustCompile(t, "a += 2")
	wantOps(t, s, "MVAD")
	s2 := newSession(t)
	s2.intVar(t, "b")
	s2.mustCompile(t, "b <<= 1")
	wantOps(t, s2, "MVSL")
}

func TestEval_IncrementForms(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	s.mustCompile(t, "a++")
	wantOps(t, s, "PINC")

	s2 := newSession(t)
	s2.intVar(t, "a")
	s2.mustCompile(t, "++a")
	wantOps(t, s2, "INC")
}

func TestEval_SequenceOperator(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	s.intVar(t, "b")
	res := s.mustCompile(t, "a -> b")
	bIdx := s.tab.VarSearch("b", s.scope)
	if res.VarIndex != bIdx {
		t.Fatalf("sequence result refers to %d, want b (%d)", res.VarIndex, bIdx)
	}
}

func TestEval_UninitializedRead(t *testing.T) {
	s := newSession(t)
	s.tab.StoreVariable(sym.Variable{Name: "u", TypIndex: s.tab.IntTypIndex, Scope: s.scope})
	if _, ok := s.compile(t, "u + 1"); ok {
		t.Fatal("reading an uninitialized variable was accepted")
	}
	if !strings.Contains(s.diagText(), "not initialized") {
		t.Fatalf("diagnostics %q do not mention initialization", s.diagText())
	}
}

func TestEval_ConstTargetRejected(t *testing.T) {
	s := newSession(t)
	idx := s.intVar(t, "k")
	s.tab.Vars[idx].IsConst = true
	if _, ok := s.compile(t, "k = 2"); ok {
		t.Fatal("assignment to a constant was accepted")
	}
}

func TestEval_NonLValueAssignRejected(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "3 = 2"); ok {
		t.Fatal("assignment to a literal was accepted")
	}
}

func TestEval_TypeErrorNamesMasters(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	if _, ok := s.compile(t, "b + 1"); ok {
		t.Fatal("adding a boolean was accepted")
	}
	d := s.diagText()
	if !strings.Contains(d, "Boolean") || !strings.Contains(d, "Integer") {
		t.Fatalf("diagnostic %q does not name the operand masters", d)
	}
}

func TestEval_VarDeclarationWithInference(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "var n = 41 + 1")
	nIdx := s.tab.VarSearch("n", s.scope)
	if nIdx == -1 {
		t.Fatal("var declaration did not store n")
	}
	if s.tab.Vars[nIdx].TypIndex != s.tab.IntTypIndex {
		t.Fatalf("n inferred type %s, want int", s.tab.TypeName(s.tab.Vars[nIdx].TypIndex))
	}
	if !s.tab.Vars[nIdx].IsInitialized {
		t.Fatal("n is not marked initialized after var =")
	}
	if res.VarIndex != nIdx {
		t.Fatalf("result refers to %d, want n (%d)", res.VarIndex, nIdx)
	}
}

func TestEval_DeclarationWithStarInitializer(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "int z *")
	zIdx := s.tab.VarSearch("z", s.scope)
	if zIdx == -1 {
		t.Fatal("declaration did not store z")
	}
	if !s.tab.Vars[zIdx].IsInitialized {
		t.Fatal("z with * initializer is not marked initialized")
	}
	wantOps(t, s, "MV")
	if res.VarIndex != zIdx {
		t.Fatalf("result refers to %d, want z (%d)", res.VarIndex, zIdx)
	}
}

func TestEval_StringSubscript(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "str", s.tab.StrTypIndex)
	s.typedVar(t, "i", s.tab.WrdTypIndex)
	res := s.mustCompile(t, "str[i]")
	wantOps(t, s, "AD1RF")
	if res.MstType() != sym.MstChar {
		t.Fatalf("string subscript yields %s, want Char", res.MstType())
	}
}

func TestEval_CastEmitsConversion(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	res := s.mustCompile(t, "(long)a")
	wantOps(t, s, "IN2LO")
	if res.MstType() != sym.MstLong {
		t.Fatalf("cast result is %s, want Long", res.MstType())
	}
}

func TestEval_CastIdenticalMasterIsFree(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	res := s.mustCompile(t, "(int)a")
	if s.asm.CodeLen() != 0 {
		t.Fatalf("identity cast emitted %d instructions", s.asm.CodeLen())
	}
	aIdx := s.tab.VarSearch("a", s.scope)
	if res.VarIndex != aIdx {
		t.Fatal("identity cast did not return the operand itself")
	}
}
