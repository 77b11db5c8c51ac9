package sym

// Table aggregates the append-only symbol arenas. All cross-references are
// small integer indexes; -1 marks absence. The expression compiler reads and
// extends the table but never owns it.
type Table struct {
	Types  []Type
	Vars   []Variable
	Fields []Field
	Funs   []Function
	Parms  []Parameter
	Mods   []Module
	Dims   []Dimension

	// LitStrings is the literal-string pool addressed from the global value
	// segment.
	LitStrings []string

	globAddress int64
	locAddress  int64
	tempSeq     int

	labelSeed     int64
	flowLabelSeed int64

	// Cached indexes of the system types installed by the prelude.
	BolTypIndex int
	ChrTypIndex int
	ShrTypIndex int
	IntTypIndex int
	LonTypIndex int
	FloTypIndex int
	StrTypIndex int
	WrdTypIndex int
}

// NewTable builds a table with the system prelude installed.
func NewTable() *Table {
	t := &Table{}
	sys := func(name string, mst MasterType) int {
		return t.StoreType(Type{
			Name:         name,
			Mst:          mst,
			ElemTypIndex: -1,
			DimIndex:     -1,
			FieldLow:     -1,
			FieldHigh:    -1,
			Length:       mst.Size(),
			IsSystemDef:  true,
		})
	}
	t.BolTypIndex = sys("bool", MstBoolean)
	t.ChrTypIndex = sys("char", MstChar)
	t.ShrTypIndex = sys("short", MstShort)
	t.IntTypIndex = sys("int", MstInteger)
	t.LonTypIndex = sys("long", MstLong)
	t.FloTypIndex = sys("float", MstFloat)
	t.StrTypIndex = sys("string", MstString)
	t.WrdTypIndex = sys("word", WordMaster)
	return t
}

// SystemTypeFor returns the prelude type index matching a master type.
// Composite masters have no single system type and return -1.
func (t *Table) SystemTypeFor(mst MasterType) int {
	switch mst {
	case MstBoolean:
		return t.BolTypIndex
	case MstChar:
		return t.ChrTypIndex
	case MstShort:
		return t.ShrTypIndex
	case MstInteger:
		return t.IntTypIndex
	case MstLong:
		return t.LonTypIndex
	case MstFloat:
		return t.FloTypIndex
	case MstString:
		return t.StrTypIndex
	default:
		return -1
	}
}

// TypeMaster returns the master type of a type index.
func (t *Table) TypeMaster(typIndex int) MasterType {
	if typIndex < 0 || typIndex >= len(t.Types) {
		return MstBoolean
	}
	return t.Types[typIndex].Mst
}

// TypeName returns a printable name for a type index.
func (t *Table) TypeName(typIndex int) string {
	if typIndex < 0 || typIndex >= len(t.Types) {
		return "void"
	}
	return t.Types[typIndex].Name
}

// StoreLitString interns a literal string into the pool and returns its
// address in the global value segment.
func (t *Table) StoreLitString(s string) int64 {
	t.LitStrings = append(t.LitStrings, s)
	addr := t.globAddress
	t.globAddress += int64(len(s)) + 1
	return addr
}

// GlobValuePointer returns the next free address of the global value
// segment; the emitter stamps it into the object image header.
func (t *Table) GlobValuePointer() int64 {
	return t.globAddress
}
