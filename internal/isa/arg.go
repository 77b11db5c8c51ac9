package isa

import (
	"fmt"
	"strconv"
)

// AdrMode says how an instruction argument names its storage.
type AdrMode uint8

const (
	// LitValue inlines a literal in the instruction.
	LitValue AdrMode = iota
	// Address names a variable slot directly.
	Address
	// Indirection reads through a reference slot.
	Indirection
)

func (m AdrMode) String() string {
	switch m {
	case LitValue:
		return "lit"
	case Address:
		return "adr"
	case Indirection:
		return "ind"
	default:
		return "?"
	}
}

// CellKind tags the payload cell of a literal argument.
type CellKind uint8

const (
	// CellBol holds a boolean.
	CellBol CellKind = iota
	// CellChr holds a char.
	CellChr
	// CellShr holds a short.
	CellShr
	// CellInt holds an integer.
	CellInt
	// CellLon holds a long.
	CellLon
	// CellFlo holds a float.
	CellFlo
	// CellAdr holds an address (literal strings, block handles).
	CellAdr
	// CellWrd holds a machine word.
	CellWrd
	// CellNone marks non-literal arguments.
	CellNone
)

// Arg is one instruction argument: a literal, a variable address, an
// indirection, a callee, a jump label, or a meta-constant reference.
type Arg struct {
	Mode AdrMode
	Cell CellKind

	Bol bool
	Chr byte
	Shr int16
	Int int32
	Lon int64
	Flo float64
	Adr int64
	Wrd int64

	// VarIndex backs Address and Indirection arguments.
	VarIndex int
	// FunIndex backs callee arguments.
	FunIndex int
	// Label backs jump arguments, resolved by the destination table.
	Label string
	// Name is the printable form used by the listing stream.
	Name string
}

// AsmLitBol builds a boolean literal argument.
func AsmLitBol(v bool) Arg {
	return Arg{Mode: LitValue, Cell: CellBol, Bol: v, Name: strconv.FormatBool(v)}
}

// AsmLitChr builds a char literal argument.
func AsmLitChr(v byte) Arg {
	return Arg{Mode: LitValue, Cell: CellChr, Chr: v, Name: fmt.Sprintf("'%c'", v)}
}

// AsmLitShr builds a short literal argument.
func AsmLitShr(v int16) Arg {
	return Arg{Mode: LitValue, Cell: CellShr, Shr: v, Name: strconv.FormatInt(int64(v), 10) + "S"}
}

// AsmLitInt builds an integer literal argument.
func AsmLitInt(v int32) Arg {
	return Arg{Mode: LitValue, Cell: CellInt, Int: v, Name: strconv.FormatInt(int64(v), 10) + "I"}
}

// AsmLitLon builds a long literal argument.
func AsmLitLon(v int64) Arg {
	return Arg{Mode: LitValue, Cell: CellLon, Lon: v, Name: strconv.FormatInt(v, 10) + "L"}
}

// AsmLitFlo builds a float literal argument.
func AsmLitFlo(v float64) Arg {
	return Arg{Mode: LitValue, Cell: CellFlo, Flo: v, Name: strconv.FormatFloat(v, 'g', -1, 64) + "F"}
}

// AsmLitStr builds a literal string argument from its pool address.
func AsmLitStr(addr int64, text string) Arg {
	return Arg{Mode: LitValue, Cell: CellAdr, Adr: addr, Name: strconv.Quote(text)}
}

// AsmLitWrd builds a machine-word literal argument.
func AsmLitWrd(v int64) Arg {
	return Arg{Mode: LitValue, Cell: CellWrd, Wrd: v, Name: strconv.FormatInt(v, 10) + "W"}
}

// AsmVar builds a direct variable argument.
func AsmVar(varIndex int, name string) Arg {
	return Arg{Mode: Address, Cell: CellNone, VarIndex: varIndex, Name: name}
}

// AsmInd builds an indirection argument through a reference slot.
func AsmInd(varIndex int, name string) Arg {
	return Arg{Mode: Indirection, Cell: CellNone, VarIndex: varIndex, Name: "*" + name}
}

// AsmPar builds a parameter-slot argument.
func AsmPar(address int64, name string) Arg {
	return Arg{Mode: Address, Cell: CellNone, VarIndex: -1, Adr: address, Name: name}
}

// AsmFun builds a callee argument.
func AsmFun(funIndex int, name string) Arg {
	return Arg{Mode: LitValue, Cell: CellNone, FunIndex: funIndex, Name: name}
}

// AsmAgx builds a fixed-array geometry index argument.
func AsmAgx(dimIndex int) Arg {
	return Arg{Mode: LitValue, Cell: CellWrd, Wrd: int64(dimIndex), Name: fmt.Sprintf("geom#%d", dimIndex)}
}

// AsmVad builds a variable-address argument (the address itself as a value).
func AsmVad(varIndex int, name string) Arg {
	return Arg{Mode: LitValue, Cell: CellAdr, VarIndex: varIndex, Name: "&" + name}
}

// AsmNva builds a no-value placeholder argument.
func AsmNva() Arg {
	return Arg{Mode: LitValue, Cell: CellNone, VarIndex: -1, FunIndex: -1, Name: "_"}
}

// AsmJmp builds a jump-label argument; the emitter resolves it through the
// jump-destination table, forward references included.
func AsmJmp(label string) Arg {
	return Arg{Mode: LitValue, Cell: CellAdr, Label: label, Name: label}
}

// AsmMta builds a meta-constant argument (field-name tables and friends).
func AsmMta(metaIndex int, name string) Arg {
	return Arg{Mode: LitValue, Cell: CellWrd, Wrd: int64(metaIndex), Name: name}
}

// AsmErr builds a poisoned argument for error recovery paths.
func AsmErr() Arg {
	return Arg{Mode: LitValue, Cell: CellNone, VarIndex: -1, FunIndex: -1, Name: "<err>"}
}

func (a Arg) String() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Mode.String()
}

// Instr is one emitted instruction.
type Instr struct {
	Op   Opcode
	Args []Arg
}

func (i Instr) String() string {
	s := i.Op.String()
	for n, a := range i.Args {
		if n == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += a.String()
	}
	return s
}
