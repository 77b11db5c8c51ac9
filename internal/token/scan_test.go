package token

import "testing"

func kinds(s *Sentence) []Kind {
	out := make([]Kind, len(s.Tokens))
	for i, tk := range s.Tokens {
		out[i] = tk.Kind
	}
	return out
}

func TestScan_Kinds(t *testing.T) {
	cases := []struct {
		text string
		want []Kind
	}{
		{"a + b", []Kind{Ident, Plus, Ident}},
		{"a++ - --b", []Kind{Ident, PlusPlus, Minus, MinusMinus, Ident}},
		{"x <<= 2", []Kind{Ident, ShlAssign, IntLit}},
		{"a -> b", []Kind{Ident, Arrow, Ident}},
		{"(b ? x : y)", []Kind{LParen, Ident, Question, Ident, Colon, Ident, RParen}},
		{"for(int s=0 if s<10 do s++ return s)", []Kind{
			KwFor, LParen, Ident, Ident, Assign, IntLit, KwIf, Ident, Lt, IntLit,
			KwDo, Ident, PlusPlus, KwReturn, Ident, RParen,
		}},
		{"array(xs on x index i as x)", []Kind{
			KwArray, LParen, Ident, KwOn, Ident, KwIndex, Ident, KwAs, Ident, RParen,
		}},
		{"true && false", []Kind{BoolLit, AndAnd, BoolLit}},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			stn, err := Scan("t.em", 1, tc.text)
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			got := kinds(stn)
			if len(got) != len(tc.want) {
				t.Fatalf("scanned %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("token %d is %s, want %s (all: %v)", i, got[i], tc.want[i], got)
				}
			}
		})
	}
}

func TestScan_Literals(t *testing.T) {
	stn, err := Scan("t.em", 1, `5 5S 5L 2147483648 1.5 2e3 'x' "hi\n" 0xFF`)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []Kind{IntLit, ShortLit, LongLit, LongLit, FloatLit, FloatLit, CharLit, StringLit, IntLit}
	got := kinds(stn)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d is %s, want %s", i, got[i], want[i])
		}
	}
	if stn.Tokens[3].Int != 2147483648 {
		t.Fatalf("wide literal value %d", stn.Tokens[3].Int)
	}
	if stn.Tokens[5].Flo != 2000 {
		t.Fatalf("exponent literal value %g", stn.Tokens[5].Flo)
	}
	if stn.Tokens[6].Chr != 'x' {
		t.Fatalf("char literal value %q", stn.Tokens[6].Chr)
	}
	if stn.Tokens[7].Text != "hi\n" {
		t.Fatalf("string literal value %q", stn.Tokens[7].Text)
	}
	if stn.Tokens[8].Int != 255 {
		t.Fatalf("hex literal value %d", stn.Tokens[8].Int)
	}
}

func TestScan_Positions(t *testing.T) {
	stn, err := Scan("mod.em", 3, "a + bb")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if p := stn.Tokens[0].Pos; p.Line != 3 || p.Col != 1 {
		t.Fatalf("first token at %v", p)
	}
	if p := stn.Tokens[2].Pos; p.Col != 5 {
		t.Fatalf("bb at column %d, want 5", p.Col)
	}
}

func TestScan_Errors(t *testing.T) {
	for _, text := range []string{`"open`, "'ab'", "@", "32768S"} {
		if _, err := Scan("t.em", 1, text); err == nil {
			t.Fatalf("scanning %q succeeded", text)
		}
	}
}
