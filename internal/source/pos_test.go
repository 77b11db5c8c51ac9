package source

import "testing"

func TestPos_StringAndValid(t *testing.T) {
	p := Pos{File: "m.em", Line: 3, Col: 9}
	if !p.Valid() {
		t.Fatal("positioned Pos is not valid")
	}
	if p.String() != "m.em:3:9" {
		t.Fatalf("String is %q", p.String())
	}
	zero := Pos{File: "m.em"}
	if zero.Valid() {
		t.Fatal("zero line counts as valid")
	}
	if zero.String() != "m.em" {
		t.Fatalf("zero String is %q", zero.String())
	}
}

func TestPos_Before(t *testing.T) {
	a := Pos{File: "m.em", Line: 1, Col: 5}
	b := Pos{File: "m.em", Line: 1, Col: 9}
	c := Pos{File: "m.em", Line: 2, Col: 1}
	if !a.Before(b) || !b.Before(c) || c.Before(a) {
		t.Fatal("ordering disagrees")
	}
}
