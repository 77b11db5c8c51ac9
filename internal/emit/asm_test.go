package emit

import (
	"strings"
	"testing"

	"ember/internal/isa"
)

func TestAssembler_AddressesAndLabels(t *testing.T) {
	asm := NewAssembler(false)
	if asm.CurrentCodeAddress() != 0 {
		t.Fatal("fresh assembler does not start at address 0")
	}
	addr := asm.WriteCode(isa.JMP, isa.AsmJmp("FW0001END"))
	if addr != 0 {
		t.Fatalf("first instruction got address %d", addr)
	}
	// forward reference resolves after the jump was emitted
	asm.StoreJumpDestination("FW0001END", 0, asm.CurrentCodeAddress())
	if got := asm.JumpDestination("FW0001END"); got != 1 {
		t.Fatalf("label resolves to %d, want 1", got)
	}
	if err := asm.CheckJumps(); err != nil {
		t.Fatalf("CheckJumps: %v", err)
	}
}

func TestAssembler_UnresolvedJump(t *testing.T) {
	asm := NewAssembler(false)
	asm.WriteCode(isa.JMP, isa.AsmJmp("FW9999END"))
	if err := asm.CheckJumps(); err == nil {
		t.Fatal("unresolved label passed CheckJumps")
	}
}

func TestAssembler_Listing(t *testing.T) {
	asm := NewAssembler(true)
	asm.OutCommentLine("one expression")
	asm.WriteCode(isa.MV, isa.AsmVar(0, "a"), isa.AsmLitInt(5))
	listing := asm.Listing()
	if !strings.Contains(listing, "; one expression") {
		t.Fatalf("listing %q misses the comment line", listing)
	}
	if !strings.Contains(listing, "MV a, 5I") {
		t.Fatalf("listing %q misses the instruction", listing)
	}
}

func TestAssembler_GeometryDedup(t *testing.T) {
	asm := NewAssembler(false)
	def := ArrFixDef{DimNr: 2, DimSize: [5]int64{3, 4}, CellSize: 4}
	first := asm.StoreArrFixDef(def)
	second := asm.StoreArrFixDef(def)
	if first != second {
		t.Fatalf("identical geometries stored twice: %d and %d", first, second)
	}
}

func TestAssembler_DlCallDedup(t *testing.T) {
	asm := NewAssembler(false)
	a := asm.StoreDlCall("mathlib", "sqrt")
	b := asm.StoreDlCall("mathlib", "sqrt")
	c := asm.StoreDlCall("mathlib", "pow")
	if a != b {
		t.Fatal("identical dynamic-library callees stored twice")
	}
	if a == c {
		t.Fatal("distinct dynamic-library callees share an index")
	}
}
