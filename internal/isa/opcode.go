package isa

// Opcode enumerates the VM instruction set surfaced by the expression
// compiler. Mnemonic families: MV (moves and compound assignment), plain
// arithmetic and comparison, conversions (XX2YY), S (string), AF (fixed
// array), AD (dynamic array), REF/PUSH/CALL (references and calls), RP/BI
// (inner-block replication and initialization).
type Opcode uint16

const (
	// NOP performs no operation.
	NOP Opcode = iota

	// Moves into parameter slots, one per cell kind.
	MVb // move boolean
	MVc // move char
	MVw // move short (word-half)
	MVi // move integer
	MVl // move long
	MVf // move float
	MVr // move reference

	// MV moves a full cell between data addresses.
	MV

	// Compound assignment family.
	MVAD // add assign
	MVSU // sub assign
	MVMU // mul assign
	MVDI // div assign
	MVMO // mod assign
	MVSL // shl assign
	MVSR // shr assign
	MVAN // and assign
	MVXO // xor assign
	MVOR // or assign

	// Arithmetic.
	ADD
	SUB
	MUL
	DIV
	MOD
	NEG
	INC
	DEC
	PINC // postfix increment
	PDEC // postfix decrement
	BNOT // bitwise not
	SHL
	SHR
	BAND
	BXOR
	BOR

	// Comparison.
	LES
	LEQ
	GRE
	GEQ
	EQU
	DIS

	// Logical and jumps.
	LAND
	LOR
	LNOT
	JMPFL // jump when false
	JMPTR // jump when true
	JMP

	// Conversions: <from>2<to> over BO/CH/SH/IN/LO/FL/ST.
	BO2CH
	BO2SH
	BO2IN
	BO2LO
	BO2ST
	CH2SH
	CH2IN
	CH2LO
	CH2FL
	CH2ST
	SH2CH
	SH2IN
	SH2LO
	SH2FL
	SH2ST
	IN2CH
	IN2SH
	IN2LO
	IN2FL
	IN2ST
	LO2CH
	LO2SH
	LO2IN
	LO2FL
	LO2ST
	FL2CH
	FL2SH
	FL2IN
	FL2LO
	FL2ST
	ST2BO
	ST2CH
	ST2SH
	ST2IN
	ST2LO
	ST2FL

	// Strings.
	SLEN  // length
	SMID  // substring
	SLEFT // left part
	SRGHT // right part
	SCONC // concatenate
	SFIND // search
	SREPL // replace
	SUPPR // to upper
	SLOWR // to lower
	STRIM // trim
	SLJUS // left justify
	SRJUS // right justify
	SZPAD // zero pad
	SSPLI // split into array
	SSTWI // starts with
	SENWI // ends with
	SISBO // parses as boolean
	SISIN // parses as integer
	SISFL // parses as float
	SEMP  // is empty / empty string
	SSWCP // swap case
	SMVRC // move char into string cell
	SMVCO // string copy replicate

	// Fixed-array geometry.
	AFDEF // define geometry
	AFSSZ // set dimension size
	AFIDX // subscript one dimension
	AFREF // fetch element reference
	AF1RF // one-dim element reference
	AF1FO // one-dim walk start
	AF1NX // one-dim walk next
	AF1RW // one-dim rewind
	AF2F  // fixed to fixed conversion
	AF2D  // fixed to dynamic conversion
	AF1SJ // one-dim string join
	AF1CJ // one-dim char join

	// Dynamic arrays.
	ADDEF // define array
	ADSET // set dimensions
	ADRSZ // resize
	ADIDX // subscript one dimension
	ADREF // fetch element reference
	AD1RF // one-dim element reference
	AD1FO // one-dim walk start
	AD1NX // one-dim walk next
	AD1RW // one-dim rewind
	AD1AP // one-dim append
	AD1EM // one-dim empty test
	AD1DF // one-dim define
	AD1IN // one-dim insert
	AD1DE // one-dim delete
	AD1SJ // one-dim string join
	AD1CJ // one-dim char join
	ADSIZ // dimension size
	ADGET // element get
	ADEMP // empty test
	ADRST // reset
	ACOPY // array copy
	ATOCA // array to char array

	// References and calls.
	REFER // load reference to variable
	REFOF // reference at offset
	REFAD // advance reference
	REFPU // push reference on parameter stack
	PUSHb
	PUSHc
	PUSHw
	PUSHi
	PUSHl
	PUSHf
	PUSHr
	LPUb // library push by value
	LPUc
	LPUw
	LPUi
	LPUl
	LPUf
	LPUr
	LRPUb // library push by reference
	LRPUc
	LRPUw
	LRPUi
	LRPUl
	LRPUf
	LRPUr
	LPAb // library push by address
	LPAc
	LPAw
	LPAi
	LPAl
	LPAf
	LPAr
	CALL  // local call
	CALLN // call with nested frame
	SCALL // system call
	LCALL // dynamic library call
	RET

	// Block management.
	COPY
	RPBEG // replication begin
	RPSTR // replicate string block
	RPARR // replicate array block
	RPLOF // replication loop over fixed array
	RPLOD // replication loop over dynamic array
	RPEND
	BIBEG // initialization begin
	BISTR // initialize string block
	BIARR // initialize array block
	BILOF // initialization loop over fixed array
	BIEND
	TOCA  // to char array
	STOCA // string to char array
	FRCA  // from char array
	SFRCA // string from char array
	AFRCA // array from char array

	opcodeCount
)

var opcodeNames = [...]string{
	NOP: "NOP",
	MVb: "MVb", MVc: "MVc", MVw: "MVw", MVi: "MVi", MVl: "MVl", MVf: "MVf", MVr: "MVr",
	MV:   "MV",
	MVAD: "MVAD", MVSU: "MVSU", MVMU: "MVMU", MVDI: "MVDI", MVMO: "MVMO",
	MVSL: "MVSL", MVSR: "MVSR", MVAN: "MVAN", MVXO: "MVXO", MVOR: "MVOR",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", MOD: "MOD",
	NEG: "NEG", INC: "INC", DEC: "DEC", PINC: "PINC", PDEC: "PDEC", BNOT: "BNOT",
	SHL: "SHL", SHR: "SHR", BAND: "BAND", BXOR: "BXOR", BOR: "BOR",
	LES: "LES", LEQ: "LEQ", GRE: "GRE", GEQ: "GEQ", EQU: "EQU", DIS: "DIS",
	LAND: "LAND", LOR: "LOR", LNOT: "LNOT",
	JMPFL: "JMPFL", JMPTR: "JMPTR", JMP: "JMP",
	BO2CH: "BO2CH", BO2SH: "BO2SH", BO2IN: "BO2IN", BO2LO: "BO2LO", BO2ST: "BO2ST",
	CH2SH: "CH2SH", CH2IN: "CH2IN", CH2LO: "CH2LO", CH2FL: "CH2FL", CH2ST: "CH2ST",
	SH2CH: "SH2CH", SH2IN: "SH2IN", SH2LO: "SH2LO", SH2FL: "SH2FL", SH2ST: "SH2ST",
	IN2CH: "IN2CH", IN2SH: "IN2SH", IN2LO: "IN2LO", IN2FL: "IN2FL", IN2ST: "IN2ST",
	LO2CH: "LO2CH", LO2SH: "LO2SH", LO2IN: "LO2IN", LO2FL: "LO2FL", LO2ST: "LO2ST",
	FL2CH: "FL2CH", FL2SH: "FL2SH", FL2IN: "FL2IN", FL2LO: "FL2LO", FL2ST: "FL2ST",
	ST2BO: "ST2BO", ST2CH: "ST2CH", ST2SH: "ST2SH", ST2IN: "ST2IN", ST2LO: "ST2LO", ST2FL: "ST2FL",
	SLEN: "SLEN", SMID: "SMID", SLEFT: "SLEFT", SRGHT: "SRGHT", SCONC: "SCONC",
	SFIND: "SFIND", SREPL: "SREPL", SUPPR: "SUPPR", SLOWR: "SLOWR", STRIM: "STRIM",
	SLJUS: "SLJUS", SRJUS: "SRJUS", SZPAD: "SZPAD", SSPLI: "SSPLI",
	SSTWI: "SSTWI", SENWI: "SENWI", SISBO: "SISBO", SISIN: "SISIN", SISFL: "SISFL",
	SEMP: "SEMP", SSWCP: "SSWCP", SMVRC: "SMVRC", SMVCO: "SMVCO",
	AFDEF: "AFDEF", AFSSZ: "AFSSZ", AFIDX: "AFIDX", AFREF: "AFREF",
	AF1RF: "AF1RF", AF1FO: "AF1FO", AF1NX: "AF1NX", AF1RW: "AF1RW",
	AF2F: "AF2F", AF2D: "AF2D", AF1SJ: "AF1SJ", AF1CJ: "AF1CJ",
	ADDEF: "ADDEF", ADSET: "ADSET", ADRSZ: "ADRSZ", ADIDX: "ADIDX", ADREF: "ADREF",
	AD1RF: "AD1RF", AD1FO: "AD1FO", AD1NX: "AD1NX", AD1RW: "AD1RW", AD1AP: "AD1AP",
	AD1EM: "AD1EM", AD1DF: "AD1DF", AD1IN: "AD1IN", AD1DE: "AD1DE",
	AD1SJ: "AD1SJ", AD1CJ: "AD1CJ",
	ADSIZ: "ADSIZ", ADGET: "ADGET", ADEMP: "ADEMP", ADRST: "ADRST",
	ACOPY: "ACOPY", ATOCA: "ATOCA",
	REFER: "REFER", REFOF: "REFOF", REFAD: "REFAD", REFPU: "REFPU",
	PUSHb: "PUSHb", PUSHc: "PUSHc", PUSHw: "PUSHw", PUSHi: "PUSHi",
	PUSHl: "PUSHl", PUSHf: "PUSHf", PUSHr: "PUSHr",
	LPUb: "LPUb", LPUc: "LPUc", LPUw: "LPUw", LPUi: "LPUi", LPUl: "LPUl", LPUf: "LPUf", LPUr: "LPUr",
	LRPUb: "LRPUb", LRPUc: "LRPUc", LRPUw: "LRPUw", LRPUi: "LRPUi", LRPUl: "LRPUl", LRPUf: "LRPUf", LRPUr: "LRPUr",
	LPAb: "LPAb", LPAc: "LPAc", LPAw: "LPAw", LPAi: "LPAi", LPAl: "LPAl", LPAf: "LPAf", LPAr: "LPAr",
	CALL: "CALL", CALLN: "CALLN", SCALL: "SCALL", LCALL: "LCALL", RET: "RET",
	COPY: "COPY",
	RPBEG: "RPBEG", RPSTR: "RPSTR", RPARR: "RPARR", RPLOF: "RPLOF", RPLOD: "RPLOD", RPEND: "RPEND",
	BIBEG: "BIBEG", BISTR: "BISTR", BIARR: "BIARR", BILOF: "BILOF", BIEND: "BIEND",
	TOCA: "TOCA", STOCA: "STOCA", FRCA: "FRCA", SFRCA: "SFRCA", AFRCA: "AFRCA",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return "OP?"
}

// Count returns the number of defined opcodes.
func Count() int { return int(opcodeCount) }

// MoveFor returns the per-cell move opcode for a master-type cell kind
// expressed as its conversion suffix letter.
func MoveFor(cell CellKind) Opcode {
	switch cell {
	case CellBol:
		return MVb
	case CellChr:
		return MVc
	case CellShr:
		return MVw
	case CellInt:
		return MVi
	case CellLon:
		return MVl
	case CellFlo:
		return MVf
	default:
		return MVr
	}
}

// PushFor returns the parameter-stack push opcode for a cell kind.
func PushFor(cell CellKind) Opcode {
	switch cell {
	case CellBol:
		return PUSHb
	case CellChr:
		return PUSHc
	case CellShr:
		return PUSHw
	case CellInt:
		return PUSHi
	case CellLon:
		return PUSHl
	case CellFlo:
		return PUSHf
	default:
		return PUSHr
	}
}

// LibPushFor returns the dynamic-library push opcode for a cell kind,
// by reference or by value.
func LibPushFor(cell CellKind, byRef bool) Opcode {
	if byRef {
		switch cell {
		case CellBol:
			return LRPUb
		case CellChr:
			return LRPUc
		case CellShr:
			return LRPUw
		case CellInt:
			return LRPUi
		case CellLon:
			return LRPUl
		case CellFlo:
			return LRPUf
		default:
			return LRPUr
		}
	}
	switch cell {
	case CellBol:
		return LPUb
	case CellChr:
		return LPUc
	case CellShr:
		return LPUw
	case CellInt:
		return LPUi
	case CellLon:
		return LPUl
	case CellFlo:
		return LPUf
	default:
		return LPUr
	}
}
