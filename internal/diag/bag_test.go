package diag

import (
	"testing"

	"ember/internal/source"
)

func at(line, col int) source.Pos {
	return source.Pos{File: "m.em", Line: line, Col: col}
}

func TestBag_LimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Warnf(CodeUnusedVar, at(1, 1), "w")) {
		t.Fatal("first add failed")
	}
	if bag.HasErrors() {
		t.Fatal("warning counts as error")
	}
	if !bag.Add(Errorf(CodeType, at(1, 2), "e")) {
		t.Fatal("second add failed")
	}
	if bag.Add(Errorf(CodeType, at(1, 3), "overflow")) {
		t.Fatal("add past the limit succeeded")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("severity queries disagree with contents")
	}
	if bag.First().Message != "e" {
		t.Fatalf("first error is %q", bag.First().Message)
	}
}

func TestBag_DelayedFlush(t *testing.T) {
	bag := NewBag(10)
	bag.Delay(Errorf(CodeName, at(2, 1), "candidate one"))
	bag.Delay(Errorf(CodeName, at(2, 1), "candidate two"))
	if bag.Len() != 0 {
		t.Fatal("delayed diagnostics leaked into the bag")
	}
	bag.Flush()
	if bag.Len() != 2 {
		t.Fatalf("flush produced %d diagnostics, want 2", bag.Len())
	}
	bag.Delay(Errorf(CodeName, at(2, 2), "dropped"))
	bag.DropDelayed()
	bag.Flush()
	if bag.Len() != 2 {
		t.Fatal("dropped diagnostics were flushed anyway")
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Errorf(CodeType, at(3, 1), "later"))
	bag.Add(Errorf(CodeType, at(1, 1), "earlier"))
	bag.Add(Errorf(CodeType, at(1, 1), "earlier twin"))
	bag.Sort()
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("dedup left %d diagnostics, want 2", bag.Len())
	}
	if bag.Items()[0].Message != "earlier" {
		t.Fatalf("sort put %q first", bag.Items()[0].Message)
	}
}
