package expr

import (
	"strings"
	"testing"

	"ember/internal/sym"
	"ember/internal/token"
)

// prepareText runs stages 1-3 only.
func prepareText(t *testing.T, s *session, text string) bool {
	t.Helper()
	stn, err := token.Scan("test.em", 1, text)
	if err != nil {
		t.Fatalf("scan %q: %v", text, err)
	}
	return s.ex.prepare(s.scope, stn, 0, stn.Len()-1)
}

func rpnText(t *testing.T, s *session, text string) string {
	t.Helper()
	if !prepareText(t, s, text) {
		t.Fatalf("prepare %q failed: %v", text, s.diagText())
	}
	return s.ex.Print()
}

func TestRPN_OperatorPrecedence(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"1 + 2 * 3", "1I 2I 3I * +"},
		{"1 * 2 + 3", "1I 2I * 3I +"},
		{"(1 + 2) * 3", "1I 2I + 3I *"},
		{"1 < 2 && 3 < 4", "1I 2I < 3I 4I < &&"},
		{"1 + 2 << 3", "1I 2I + 3I <<"},
		{"1 & 2 | 3", "1I 2I & 3I |"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := newSession(t)
			if got := rpnText(t, s, tc.text); got != tc.want {
				t.Fatalf("rpn of %q is %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestRPN_RightAssociativeAssign(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	s.intVar(t, "b")
	if got := rpnText(t, s, "a = b = 1"); got != "a b 1I = =" {
		t.Fatalf("rpn is %q, want %q", got, "a b 1I = =")
	}
}

func TestRPN_SubscriptDimensions(t *testing.T) {
	s := newSession(t)
	arrTyp := s.fixArrayType(t, s.tab.IntTypIndex, 3, 4)
	s.typedVar(t, "a", arrTyp)
	s.typedVar(t, "i", s.tab.WrdTypIndex)
	s.typedVar(t, "j", s.tab.WrdTypIndex)
	if got := rpnText(t, s, "a[i,j]"); got != "a i j [2]" {
		t.Fatalf("rpn is %q, want %q", got, "a i j [2]")
	}
	s2 := newSession(t)
	s2.typedVar(t, "a", s2.fixArrayType(t, s2.tab.IntTypIndex, 3, 4))
	s2.typedVar(t, "i", s2.tab.WrdTypIndex)
	s2.typedVar(t, "j", s2.tab.WrdTypIndex)
	if got := rpnText(t, s2, "a[i][j]"); got != "a i [1] j [1]" {
		t.Fatalf("rpn is %q, want %q", got, "a i [1] j [1]")
	}
}

func TestTokenize_IncrementDisambiguation(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "a")
	if got := rpnText(t, s, "a++"); got != "a ++" {
		t.Fatalf("postfix rpn is %q", got)
	}
	s2 := newSession(t)
	s2.intVar(t, "a")
	if got := rpnText(t, s2, "++a"); got != "a ++" {
		t.Fatalf("prefix rpn is %q", got)
	}
	// postfix and prefix map to different operators
	s3 := newSession(t)
	s3.intVar(t, "a")
	prepareText(t, s3, "a++")
	if s3.ex.tokens[1].Operator != OpPostfixInc {
		t.Fatalf("a++ mapped to %v", s3.ex.tokens[1].Operator)
	}
	s4 := newSession(t)
	s4.intVar(t, "a")
	prepareText(t, s4, "++a")
	if s4.ex.tokens[1].Operator != OpPrefixInc {
		t.Fatalf("++a mapped to %v", s4.ex.tokens[1].Operator)
	}
}

func TestTokenize_Errors(t *testing.T) {
	cases := []struct {
		text    string
		setup   func(*session)
		wantMsg string
	}{
		{"(1 + 2", nil, "unmatched ("},
		{"1 + 2)", nil, "unmatched )"},
		{"nope + 1", nil, "undefined identifier nope"},
		{"1 + + ", nil, "operand"},
		{"f(1,)", func(s *session) {}, "comma"},
		{"f(,1)", nil, "comma"},
		{"int x int x", nil, "already declared"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := newSession(t)
			if tc.setup != nil {
				tc.setup(s)
			}
			if _, ok := s.compile(t, tc.text); ok {
				t.Fatalf("compiling %q succeeded, want error", tc.text)
			}
			if !strings.Contains(s.diagText(), tc.wantMsg) {
				t.Fatalf("diagnostics %q do not mention %q", s.diagText(), tc.wantMsg)
			}
		})
	}
}

func TestTokenize_EnumLiteral(t *testing.T) {
	s := newSession(t)
	low := s.tab.StoreField(sym.Field{Name: "red", OwnerTypIndex: -1, EnumValue: 0, StaticVarIndex: -1})
	high := s.tab.StoreField(sym.Field{Name: "blue", OwnerTypIndex: -1, EnumValue: 1, StaticVarIndex: -1})
	enumTyp := s.tab.StoreType(sym.Type{
		Name: "color", Mst: sym.MstEnum, Scope: s.scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: low, FieldHigh: high,
		Length: sym.MstEnum.Size(),
	})
	s.tab.Fields[low].OwnerTypIndex = enumTyp
	s.tab.Fields[high].OwnerTypIndex = enumTyp

	res := s.mustCompile(t, "color.blue")
	if res.TypIndex() != enumTyp {
		t.Fatalf("enum literal type is %s", s.tab.TypeName(res.TypIndex()))
	}
	if res.Value.Enu != 1 {
		t.Fatalf("enum literal value is %d, want 1", res.Value.Enu)
	}

	if _, ok := s.compile(t, "color.green"); ok {
		t.Fatal("unknown enum member was accepted")
	}
}

func TestTokenize_MetaConstants(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "int.typename")
	if res.Meta.Case != MetaTypName {
		t.Fatalf("meta case is %v, want type name", res.Meta.Case)
	}
	if res.Value.Str != "int" {
		t.Fatalf("type name meta value is %q, want int", res.Value.Str)
	}
}

func TestTokenize_CastTargets(t *testing.T) {
	s := newSession(t)
	low := s.tab.StoreField(sym.Field{Name: "a", OwnerTypIndex: -1, EnumValue: 0, StaticVarIndex: -1})
	enumTyp := s.tab.StoreType(sym.Type{
		Name: "col", Mst: sym.MstEnum, Scope: s.scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: low, FieldHigh: low,
		Length: sym.MstEnum.Size(),
	})
	s.tab.Fields[low].OwnerTypIndex = enumTyp
	if _, ok := s.compile(t, "(col)1"); ok {
		t.Fatal("cast to an enumerated type was accepted")
	}
}

func TestTokenize_DotCollision(t *testing.T) {
	s := newSession(t)
	low := s.tab.StoreField(sym.Field{Name: "width", OwnerTypIndex: -1, StaticVarIndex: -1})
	claTyp := s.tab.StoreType(sym.Type{
		Name: "box", Mst: sym.MstClass, Scope: s.scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: low, FieldHigh: low,
		Length: 4,
	})
	s.tab.Fields[low].OwnerTypIndex = claTyp
	s.tab.Fields[low].TypIndex = s.tab.IntTypIndex

	if _, ok := s.compile(t, "int width"); ok {
		t.Fatal("declaration colliding with a member name was accepted")
	}
	if !strings.Contains(s.diagText(), "collides") {
		t.Fatalf("diagnostics %q do not mention the collision", s.diagText())
	}
}
