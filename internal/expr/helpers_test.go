package expr

import (
	"testing"

	"ember/internal/diag"
	"ember/internal/emit"
	"ember/internal/sym"
	"ember/internal/token"
)

// session bundles the collaborators of one expression-compiler test.
type session struct {
	tab   *sym.Table
	asm   *emit.Assembler
	bag   *diag.Bag
	ex    *Expression
	scope sym.Scope
}

func newSession(t *testing.T) *session {
	t.Helper()
	tab := sym.NewTable()
	tab.StoreModule(sym.Module{Name: "main", Path: "<test>"})
	asm := emit.NewAssembler(true)
	bag := diag.NewBag(50)
	return &session{
		tab:   tab,
		asm:   asm,
		bag:   bag,
		ex:    New(tab, asm, bag),
		scope: sym.LocalScope(0, 0),
	}
}

// intVar declares an initialized int variable and returns its index.
func (s *session) intVar(t *testing.T, name string) int {
	t.Helper()
	return s.typedVar(t, name, s.tab.IntTypIndex)
}

func (s *session) typedVar(t *testing.T, name string, typIndex int) int {
	t.Helper()
	idx := s.tab.StoreVariable(sym.Variable{
		Name:          name,
		TypIndex:      typIndex,
		Scope:         s.scope,
		IsInitialized: true,
	})
	return idx
}

// fixArrayType builds a fixed-array type over the element type.
func (s *session) fixArrayType(t *testing.T, elem int, sizes ...int64) int {
	t.Helper()
	var dims sym.ArrayIndexes
	length := s.tab.TypeLength(elem)
	for i, sz := range sizes {
		dims[i] = sz
		length *= sz
	}
	dimIndex := s.tab.StoreDimension(len(sizes), dims)
	return s.tab.StoreType(sym.Type{
		Name:         "fix",
		Mst:          sym.MstFixArray,
		Scope:        s.scope,
		ElemTypIndex: elem,
		DimNr:        len(sizes),
		DimIndex:     dimIndex,
		FieldLow:     -1,
		FieldHigh:    -1,
		Length:       length,
	})
}

// compile scans and compiles one expression, returning the result token.
func (s *session) compile(t *testing.T, text string) (Token, bool) {
	t.Helper()
	stn, err := token.Scan("test.em", 1, text)
	if err != nil {
		t.Fatalf("scan %q: %v", text, err)
	}
	return s.ex.CompileResult(s.scope, stn, 0, stn.Len()-1)
}

func (s *session) compileVoid(t *testing.T, text string) bool {
	t.Helper()
	stn, err := token.Scan("test.em", 1, text)
	if err != nil {
		t.Fatalf("scan %q: %v", text, err)
	}
	return s.ex.CompileVoid(s.scope, stn, 0, stn.Len()-1)
}

func (s *session) computeText(t *testing.T, text string) (Token, bool) {
	t.Helper()
	stn, err := token.Scan("test.em", 1, text)
	if err != nil {
		t.Fatalf("scan %q: %v", text, err)
	}
	return s.ex.Compute(s.scope, stn, 0, stn.Len()-1)
}

// mustCompile fails the test when the expression does not compile.
func (s *session) mustCompile(t *testing.T, text string) Token {
	t.Helper()
	res, ok := s.compile(t, text)
	if !ok {
		t.Fatalf("compile %q failed: %v", text, s.diagText())
	}
	return res
}

func (s *session) diagText() string {
	out := ""
	for _, d := range s.bag.Items() {
		out += d.String() + "; "
	}
	return out
}

// ops lists the emitted opcodes.
func (s *session) ops() []string {
	out := make([]string, 0, len(s.asm.Code))
	for _, ins := range s.asm.Code {
		out = append(out, ins.Op.String())
	}
	return out
}

func wantOps(t *testing.T, s *session, want ...string) {
	t.Helper()
	got := s.ops()
	if len(got) != len(want) {
		t.Fatalf("emitted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d is %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}
