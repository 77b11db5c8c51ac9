package emit

import (
	"fmt"
	"strings"

	"ember/internal/isa"
)

// JumpDest records a resolved label: the code address it points at and the
// scope depth where it was stamped.
type JumpDest struct {
	Label      string
	ScopeDepth int
	Address    int64
}

// ArrFixDef is one fixed-array geometry record referenced by AFDEF/AGX
// arguments.
type ArrFixDef struct {
	DimNr    int
	DimSize  [5]int64
	CellSize int64
}

// DlCall is one dynamic-library call-table record.
type DlCall struct {
	DlName     string
	DlFunction string
}

// Assembler is the binary emitter collaborator: an append-only instruction
// stream plus the side tables the linker needs. The expression compiler
// only ever appends.
type Assembler struct {
	Code []isa.Instr

	jumpDests  []JumpDest
	arrFixDefs []ArrFixDef
	dlCalls    []DlCall

	listing []string
	listOn  bool
}

// NewAssembler creates an emitter. When listing is true, the textual
// assembler stream is kept.
func NewAssembler(listing bool) *Assembler {
	return &Assembler{listOn: listing}
}

// WriteCode appends one instruction and returns its address.
func (a *Assembler) WriteCode(op isa.Opcode, args ...isa.Arg) int64 {
	addr := int64(len(a.Code))
	a.Code = append(a.Code, isa.Instr{Op: op, Args: args})
	if a.listOn {
		a.listing = append(a.listing, fmt.Sprintf("%06d  %s", addr, isa.Instr{Op: op, Args: args}))
	}
	return addr
}

// CurrentCodeAddress returns the address of the next instruction to be
// emitted. Labels stamped here bind to that instruction.
func (a *Assembler) CurrentCodeAddress() int64 {
	return int64(len(a.Code))
}

// StoreJumpDestination resolves a label to a code address. Forward
// references are legal: jumps may name the label before it is stored.
func (a *Assembler) StoreJumpDestination(label string, scopeDepth int, address int64) {
	a.jumpDests = append(a.jumpDests, JumpDest{Label: label, ScopeDepth: scopeDepth, Address: address})
	if a.listOn {
		a.listing = append(a.listing, fmt.Sprintf("%06d %s:", address, label))
	}
}

// JumpDestination returns the resolved address for a label, or -1.
func (a *Assembler) JumpDestination(label string) int64 {
	for i := range a.jumpDests {
		if a.jumpDests[i].Label == label {
			return a.jumpDests[i].Address
		}
	}
	return -1
}

// CheckJumps verifies that every jump argument in the stream resolves.
func (a *Assembler) CheckJumps() error {
	for addr, ins := range a.Code {
		for _, arg := range ins.Args {
			if arg.Label != "" && a.JumpDestination(arg.Label) == -1 {
				return fmt.Errorf("unresolved label %s at address %d", arg.Label, addr)
			}
		}
	}
	return nil
}

// StoreArrFixDef records a fixed-array geometry and returns its index.
// Identical geometries share one record.
func (a *Assembler) StoreArrFixDef(def ArrFixDef) int {
	for i := range a.arrFixDefs {
		if a.arrFixDefs[i] == def {
			return i
		}
	}
	a.arrFixDefs = append(a.arrFixDefs, def)
	return len(a.arrFixDefs) - 1
}

// StoreDlCall records a dynamic-library callee and returns its call-table
// index.
func (a *Assembler) StoreDlCall(dlName, dlFunction string) int {
	for i := range a.dlCalls {
		if a.dlCalls[i].DlName == dlName && a.dlCalls[i].DlFunction == dlFunction {
			return i
		}
	}
	a.dlCalls = append(a.dlCalls, DlCall{DlName: dlName, DlFunction: dlFunction})
	return len(a.dlCalls) - 1
}

// UpdateLnkSymDimension patches the linker-symbol dimension record of a
// geometry after a cast attached concrete sizes.
func (a *Assembler) UpdateLnkSymDimension(defIndex int, dimSize [5]int64) {
	if defIndex >= 0 && defIndex < len(a.arrFixDefs) {
		a.arrFixDefs[defIndex].DimSize = dimSize
	}
}

// OutVarDecl prints a variable declaration line into the listing stream.
func (a *Assembler) OutVarDecl(typeName, varName string, address int64, temp bool) {
	if !a.listOn {
		return
	}
	tag := "var"
	if temp {
		tag = "tmp"
	}
	a.listing = append(a.listing, fmt.Sprintf(";%s %s %s @%d", tag, typeName, varName, address))
}

// OutNewLine appends a blank listing line.
func (a *Assembler) OutNewLine() {
	if a.listOn {
		a.listing = append(a.listing, "")
	}
}

// OutCommentLine appends a comment to the listing stream.
func (a *Assembler) OutCommentLine(text string) {
	if a.listOn {
		a.listing = append(a.listing, "; "+text)
	}
}

// OutLine appends a raw listing line.
func (a *Assembler) OutLine(text string) {
	if a.listOn {
		a.listing = append(a.listing, text)
	}
}

// Listing returns the textual assembler stream.
func (a *Assembler) Listing() string {
	return strings.Join(a.listing, "\n")
}

// CodeLen returns the number of emitted instructions.
func (a *Assembler) CodeLen() int {
	return len(a.Code)
}
