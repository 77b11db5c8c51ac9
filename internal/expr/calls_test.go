package expr

import (
	"strings"
	"testing"

	"ember/internal/sym"
)

// declareFunction installs a public free function taking the given
// parameter types.
func declareFunction(s *session, name string, result int, parms ...int) int {
	low, high := -1, -1
	for _, p := range parms {
		idx := s.tab.StoreParameter(sym.Parameter{Name: "p", TypIndex: p})
		if low == -1 {
			low = idx
		}
		high = idx
	}
	return s.tab.StoreFunction(sym.Function{
		Name:     name,
		Kind:     sym.FunFunction,
		Scope:    sym.GlobalScope(sym.ScopePublic, 0),
		TypIndex: result,
		ParmLow:  low,
		ParmHigh: high,
		IsVoid:   result == -1,
	})
}

func TestCall_PublicFunction(t *testing.T) {
	s := newSession(t)
	declareFunction(s, "twice", s.tab.IntTypIndex, s.tab.IntTypIndex)
	res := s.mustCompile(t, "twice(3)")
	wantOps(t, s, "PUSHi", "CALL")
	if res.MstType() != sym.MstInteger {
		t.Fatalf("call result master is %s, want Integer", res.MstType())
	}
	if !res.IsInitialized() {
		t.Fatal("function result is not considered initialized")
	}
}

func TestCall_ArgumentPromotion(t *testing.T) {
	s := newSession(t)
	declareFunction(s, "wide", s.tab.LonTypIndex, s.tab.LonTypIndex)
	s.intVar(t, "n")
	s.mustCompile(t, "wide(n)")
	wantOps(t, s, "IN2LO", "PUSHl", "CALL")
}

func TestCall_ArgumentTypeMismatch(t *testing.T) {
	s := newSession(t)
	declareFunction(s, "f", s.tab.IntTypIndex, s.tab.IntTypIndex)
	s.typedVar(t, "b", s.tab.BolTypIndex)
	if _, ok := s.compile(t, "f(b)"); ok {
		t.Fatal("boolean argument for an int parameter was accepted")
	}
}

func TestCall_UnknownFunction(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "ghost(1)"); ok {
		t.Fatal("call of an unknown function was accepted")
	}
	if !strings.Contains(s.diagText(), "candidate signature") {
		t.Fatalf("diagnostics %q do not carry the delayed candidate note", s.diagText())
	}
}

func TestCall_VoidInMidExpression(t *testing.T) {
	s := newSession(t)
	declareFunction(s, "ping", -1)
	if _, ok := s.compile(t, "1 + ping()"); ok {
		t.Fatal("void result feeding an operator was accepted")
	}
}

func TestCall_VoidBehindSequence(t *testing.T) {
	s := newSession(t)
	declareFunction(s, "ping", -1)
	s.intVar(t, "a")
	// the sequence operator accepts a void left side
	res := s.mustCompile(t, "ping() -> a")
	aIdx := s.tab.VarSearch("a", s.scope)
	if res.VarIndex != aIdx {
		t.Fatalf("sequence result refers to %d, want a (%d)", res.VarIndex, aIdx)
	}
}

func TestCall_OperatorOverload(t *testing.T) {
	s := newSession(t)
	// a user operator + over booleans takes over from the case rules
	low := s.tab.StoreParameter(sym.Parameter{Name: "l", TypIndex: s.tab.BolTypIndex})
	high := s.tab.StoreParameter(sym.Parameter{Name: "r", TypIndex: s.tab.BolTypIndex})
	s.tab.StoreFunction(sym.Function{
		Name:     "+",
		Kind:     sym.FunOperator,
		Scope:    sym.GlobalScope(sym.ScopePublic, 0),
		TypIndex: s.tab.BolTypIndex,
		ParmLow:  low,
		ParmHigh: high,
	})
	s.typedVar(t, "p", s.tab.BolTypIndex)
	s.typedVar(t, "q", s.tab.BolTypIndex)
	res := s.mustCompile(t, "p + q")
	wantOps(t, s, "PUSHb", "PUSHb", "CALL")
	if res.MstType() != sym.MstBoolean {
		t.Fatalf("overload result master is %s, want Boolean", res.MstType())
	}
}

func TestMasterMethod_StringLen(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "txt", s.tab.StrTypIndex)
	res := s.mustCompile(t, "txt.len()")
	wantOps(t, s, "SLEN")
	if res.TypIndex() != s.tab.WrdTypIndex {
		t.Fatalf("len result type is %s, want word", s.tab.TypeName(res.TypIndex()))
	}
}

func TestMasterMethod_StringSub(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "txt", s.tab.StrTypIndex)
	res := s.mustCompile(t, "txt.sub(1, 2)")
	// the word-typed positions promote from integer literals in place
	wantOps(t, s, "SMID")
	if res.MstType() != sym.MstString {
		t.Fatalf("sub result master is %s, want String", res.MstType())
	}
}

func TestMasterMethod_DynArrayAppend(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.LonTypIndex, 1)
	s.typedVar(t, "xs", dynTyp)
	if !s.compileVoid(t, "xs.append(4L)") {
		t.Fatalf("append failed: %v", s.diagText())
	}
	wantOps(t, s, "AD1AP")
}

func TestMasterMethod_AppendElementTypeSpecializes(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.LonTypIndex, 1)
	s.typedVar(t, "xs", dynTyp)
	// an int element binds against the receiver's long element type
	if !s.compileVoid(t, "xs.append(4)") {
		t.Fatalf("append with promotable element failed: %v", s.diagText())
	}
	wantOps(t, s, "AD1AP")
}

func TestMasterMethod_Generic(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "n")
	res := s.mustCompile(t, "n.sizeof()")
	if res.Value.Lon != 4 {
		t.Fatalf("sizeof int is %d, want 4", res.Value.Lon)
	}

	s2 := newSession(t)
	s2.intVar(t, "n")
	name := s2.mustCompile(t, "n.name()")
	if name.Value.Str != "n" {
		t.Fatalf("name meta is %q, want n", name.Value.Str)
	}
}

func TestMasterMethod_Unknown(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "n")
	if _, ok := s.compile(t, "n.frobnicate()"); ok {
		t.Fatal("unknown master method was accepted")
	}
}

func TestMasterMethod_ToBytes(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "txt", s.tab.StrTypIndex)
	res := s.mustCompile(t, "txt.tobytes()")
	wantOps(t, s, "STOCA")
	if s.tab.TypeMaster(res.TypIndex()) != sym.MstDynArray {
		t.Fatalf("tobytes result is %s, want a char array", s.tab.TypeName(res.TypIndex()))
	}
}
