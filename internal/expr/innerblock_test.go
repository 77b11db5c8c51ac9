package expr

import (
	"strings"
	"testing"

	"ember/internal/sym"
)

// declarePoint installs a two-int-field class.
func declarePoint(s *session) int {
	fx := s.tab.StoreField(sym.Field{Name: "x", TypIndex: s.tab.IntTypIndex, Offset: 0, StaticVarIndex: -1})
	fy := s.tab.StoreField(sym.Field{Name: "y", TypIndex: s.tab.IntTypIndex, Offset: 4, StaticVarIndex: -1})
	cls := s.tab.StoreType(sym.Type{
		Name: "point", Mst: sym.MstClass, Scope: s.scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: fx, FieldHigh: fy,
		Length: 8,
	})
	s.tab.Fields[fx].OwnerTypIndex = cls
	s.tab.Fields[fy].OwnerTypIndex = cls
	return cls
}

func TestInnerBlock_StringAssignReplicates(t *testing.T) {
	s := newSession(t)
	s.typedVar(t, "s1", s.tab.StrTypIndex)
	s.typedVar(t, "s2", s.tab.StrTypIndex)
	s.mustCompile(t, "s1 = s2")
	// the raw copy is followed by a replication of the owned buffer, so the
	// two strings never alias (property P5)
	wantOps(t, s, "COPY", "RPBEG", "RPSTR", "RPEND")
}

func TestInnerBlock_StringArrayAssign(t *testing.T) {
	s := newSession(t)
	dynTyp := s.tab.DefineDynArray(s.scope, s.tab.StrTypIndex, 1)
	s.typedVar(t, "a1", dynTyp)
	s.typedVar(t, "a2", dynTyp)
	s.mustCompile(t, "a1 = a2")
	// pass 1 replicates the array header, pass 2 loops over the elements
	// replicating each string buffer
	wantOps(t, s, "COPY", "RPBEG", "RPARR", "RPLOD", "RPSTR", "RPEND", "RPEND")
}

func TestInnerBlock_PlainClassAssign(t *testing.T) {
	s := newSession(t)
	cls := declarePoint(s)
	s.typedVar(t, "p1", cls)
	s.typedVar(t, "p2", cls)
	s.mustCompile(t, "p1 = p2")
	// no owning fields: a raw copy suffices
	wantOps(t, s, "COPY")
}

func TestComplex_FixArrayLiteral(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "(int[2,2]){{1,2},{3,4}}")
	wantOps(t, s, "BIBEG", "BIEND", "REFOF", "MV", "REFOF", "MV", "REFOF", "MV", "REFOF", "MV")
	if s.tab.TypeMaster(res.TypIndex()) != sym.MstFixArray {
		t.Fatalf("literal result master is %s, want FixArray", s.tab.TypeMaster(res.TypIndex()))
	}
	// element writes land at the row-major offsets
	offsets := []int64{}
	for _, ins := range s.asm.Code {
		if ins.Op.String() == "REFOF" {
			offsets = append(offsets, ins.Args[2].Wrd)
		}
	}
	for i, want := range []int64{0, 4, 8, 12} {
		if offsets[i] != want {
			t.Fatalf("write %d lands at offset %d, want %d", i, offsets[i], want)
		}
	}
}

func TestComplex_RowLengthMismatch(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "(int[2,2]){{1,2},{3}}"); ok {
		t.Fatal("ragged rows were accepted")
	}
	if !strings.Contains(s.diagText(), "first row") {
		t.Fatalf("diagnostics %q do not mention the row rule", s.diagText())
	}
}

func TestComplex_FixSizeMismatch(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "(int[3]){1,2}"); ok {
		t.Fatal("wrong element count for a fixed array was accepted")
	}
}

func TestComplex_ClassLiteral(t *testing.T) {
	s := newSession(t)
	declarePoint(s)
	res := s.mustCompile(t, "(point){1,2}")
	wantOps(t, s, "BIBEG", "BIEND", "REFOF", "MV", "REFOF", "MV")
	if s.tab.TypeMaster(res.TypIndex()) != sym.MstClass {
		t.Fatalf("literal result master is %s, want Class", s.tab.TypeMaster(res.TypIndex()))
	}
}

func TestComplex_ClassFieldCount(t *testing.T) {
	s := newSession(t)
	declarePoint(s)
	if _, ok := s.compile(t, "(point){1}"); ok {
		t.Fatal("class literal with too few entries was accepted")
	}
	if _, ok := s.compile(t, "(point){1,2,3}"); ok {
		t.Fatal("class literal with too many entries was accepted")
	}
}

func TestComplex_DynArrayLiteral(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "(int[]){1,2,3}")
	got := s.ops()
	if got[0] != "ADDEF" || got[1] != "ADSET" {
		t.Fatalf("dynamic literal starts with %v, want ADDEF then ADSET", got[:2])
	}
	appends := 0
	for _, op := range got {
		if op == "AD1AP" {
			appends++
		}
	}
	if appends != 3 {
		t.Fatalf("emitted %d appends, want 3", appends)
	}
	if s.tab.TypeMaster(res.TypIndex()) != sym.MstDynArray {
		t.Fatalf("literal result master is %s, want DynArray", s.tab.TypeMaster(res.TypIndex()))
	}
}

func TestComplex_RequiresCast(t *testing.T) {
	s := newSession(t)
	if _, ok := s.compile(t, "{1,2}"); ok {
		t.Fatal("a bare brace initializer was accepted")
	}
}

func TestField_AccessAndAssign(t *testing.T) {
	s := newSession(t)
	cls := declarePoint(s)
	s.typedVar(t, "p", cls)
	res := s.mustCompile(t, "p.x + 1")
	wantOps(t, s, "REFOF", "ADD")
	if res.MstType() != sym.MstInteger {
		t.Fatalf("field read master is %s, want Integer", res.MstType())
	}

	s2 := newSession(t)
	cls2 := declarePoint(s2)
	s2.typedVar(t, "p", cls2)
	s2.mustCompile(t, "p.y = 7")
	wantOps(t, s2, "REFOF", "MV")
	refof := s2.asm.Code[0]
	if refof.Args[2].Wrd != 4 {
		t.Fatalf("field y offset is %d, want 4", refof.Args[2].Wrd)
	}
}

func TestField_UnknownOrNonClass(t *testing.T) {
	s := newSession(t)
	cls := declarePoint(s)
	s.typedVar(t, "p", cls)
	if _, ok := s.compile(t, "p.z"); ok {
		t.Fatal("unknown field was accepted")
	}

	s2 := newSession(t)
	s2.intVar(t, "n")
	if _, ok := s2.compile(t, "n.x"); ok {
		t.Fatal("field access on an int was accepted")
	}
}
