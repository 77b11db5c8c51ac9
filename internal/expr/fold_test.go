package expr

import (
	"strings"
	"testing"
)

func TestFold_LiteralArithmetic(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"1 + 2 * 3", "7I"},
		{"2 + 3", "5I"},
		{"10 / 3", "3I"},
		{"10 % 3", "1I"},
		{"-5 + 2", "-3I"},
		{"1 << 4", "16I"},
		{"255 >> 4", "15I"},
		{"6 & 3", "2I"},
		{"6 | 3", "7I"},
		{"6 ^ 3", "5I"},
		{"~0", "-1I"},
		{"2147483648 + 1", "2147483649L"},
		{"1.5 + 2.25", "3.75F"},
		{"true && false", "false"},
		{"true || false", "true"},
		{"!false", "true"},
		{"1 < 2", "true"},
		{"2 <= 1", "false"},
		{"3 == 3", "true"},
		{"3 != 3", "false"},
		{`"ab" + "cd"`, `"abcd"`},
		{`"ab" == "ab"`, "true"},
		{`"ab" < "ac"`, "true"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := newSession(t)
			res := s.mustCompile(t, tc.text)
			if got := res.Print(); got != tc.want {
				t.Fatalf("folded %q to %s, want %s", tc.text, got, tc.want)
			}
			if s.asm.CodeLen() != 0 {
				t.Fatalf("folding %q emitted %d instructions", tc.text, s.asm.CodeLen())
			}
		})
	}
}

func TestFold_CompileAndComputeAgree(t *testing.T) {
	// property P3: both entry points produce the same literal
	for _, text := range []string{"1 + 2 * 3", "7 % 4", `"a" + "b"`, "2.5 * 4.0"} {
		s1 := newSession(t)
		viaCompile := s1.mustCompile(t, text)
		s2 := newSession(t)
		viaCompute, ok := s2.computeText(t, text)
		if !ok {
			t.Fatalf("compute %q failed: %v", text, s2.diagText())
		}
		if viaCompile.Print() != viaCompute.Print() {
			t.Fatalf("compile folded %q to %s, compute to %s", text, viaCompile.Print(), viaCompute.Print())
		}
	}
}

func TestFold_CastChain(t *testing.T) {
	s := newSession(t)
	res := s.mustCompile(t, "(int)(char)65")
	if got := res.Print(); got != "65I" {
		t.Fatalf("cast chain folded to %s, want 65I", got)
	}
	if s.asm.CodeLen() != 0 {
		t.Fatalf("cast chain emitted %d instructions", s.asm.CodeLen())
	}

	// (T)(T)x is the same as (T)x for atomic T
	s2 := newSession(t)
	once := s2.mustCompile(t, "(long)7")
	s3 := newSession(t)
	twice := s3.mustCompile(t, "(long)(long)7")
	if once.Print() != twice.Print() {
		t.Fatalf("(long)(long)7 folded to %s, (long)7 to %s", twice.Print(), once.Print())
	}
}

func TestFold_Errors(t *testing.T) {
	cases := []struct {
		text    string
		wantMsg string
	}{
		{"1 / 0", "division by zero"},
		{"1 % 0", "modulo by zero"},
		{"2147483647 * 2", "does not fit Integer"},
		{"2147483647 + 1", "does not fit Integer"},
		{"(char)300", "does not fit Char"},
		{"1 << -1", "negative shift count"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := newSession(t)
			if _, ok := s.compile(t, tc.text); ok {
				t.Fatalf("compiling %q succeeded, want error", tc.text)
			}
			if !strings.Contains(s.diagText(), tc.wantMsg) {
				t.Fatalf("diagnostics %q do not mention %q", s.diagText(), tc.wantMsg)
			}
		})
	}
}

func TestFold_NoAlgebraicSimplification(t *testing.T) {
	// x + 0 must evaluate, not fold away: the compiler performs constant
	// folding only, never algebraic rewrites
	s := newSession(t)
	s.intVar(t, "x")
	res := s.mustCompile(t, "x + 0")
	if s.asm.CodeLen() == 0 {
		t.Fatal("x + 0 emitted no instructions")
	}
	if res.AdrMode == 0 && res.VarIndex < 0 {
		t.Fatal("x + 0 produced no storage-backed result")
	}
	wantOps(t, s, "ADD")
}

func TestCompute_RefusesNonFoldable(t *testing.T) {
	s := newSession(t)
	s.intVar(t, "x")
	if _, ok := s.computeText(t, "x + 1"); ok {
		t.Fatal("compute accepted an expression over a variable")
	}
}

func TestFold_PromotionAcrossMasters(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"1 + 2L", "3L"},
		{"1 + 1.5", "2.5F"},
		{"'A' + 1", "66I"},
		{`"x" + 'y'`, `"xy"`},
		{"1 < 2L", "true"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := newSession(t)
			res := s.mustCompile(t, tc.text)
			if got := res.Print(); got != tc.want {
				t.Fatalf("folded %q to %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}
