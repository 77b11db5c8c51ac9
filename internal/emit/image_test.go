package emit

import (
	"path/filepath"
	"testing"

	"ember/internal/isa"
)

func TestImage_SaveLoadRoundTrip(t *testing.T) {
	asm := NewAssembler(false)
	asm.WriteCode(isa.MV, isa.AsmVar(3, "a"), isa.AsmLitInt(5))
	asm.WriteCode(isa.JMP, isa.AsmJmp("FW0000END"))
	asm.StoreJumpDestination("FW0000END", 0, asm.CurrentCodeAddress())
	asm.StoreDlCall("mathlib", "sqrt")

	img := asm.BuildImage("main", []string{"hello"}, 128)
	if img.BuildID == "" {
		t.Fatal("image misses its build identifier")
	}

	path := filepath.Join(t.TempDir(), "main.emo")
	if err := img.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.BuildID != img.BuildID {
		t.Fatal("build identifier changed across the round trip")
	}
	if len(back.Code) != 2 {
		t.Fatalf("loaded %d instructions, want 2", len(back.Code))
	}
	if back.Code[0].Op != uint16(isa.MV) {
		t.Fatalf("first opcode is %d, want MV", back.Code[0].Op)
	}
	if back.Code[0].Args[1].Lon != 5 {
		t.Fatalf("literal payload is %d, want 5", back.Code[0].Args[1].Lon)
	}
	if back.Code[1].Args[0].Label != "FW0000END" {
		t.Fatalf("jump label is %q", back.Code[1].Args[0].Label)
	}
	if len(back.DlCalls) != 1 || back.DlCalls[0].DlFunction != "sqrt" {
		t.Fatal("dynamic-library call table did not survive")
	}
	if back.GlobValuePointer != 128 || back.LitStrings[0] != "hello" {
		t.Fatal("header fields did not survive")
	}
}

func TestImage_RejectsMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "absent.emo")); err == nil {
		t.Fatal("loading a missing image succeeded")
	}
}
