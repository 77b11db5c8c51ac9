package sym

import "strings"

// FunKind classifies callable entries.
type FunKind uint8

const (
	// FunFunction is a free function.
	FunFunction FunKind = iota
	// FunMember is a class member function.
	FunMember
	// FunMasterMethod is a built-in method on a master type.
	FunMasterMethod
	// FunOperator is a user-declared operator overload.
	FunOperator
	// FunSystemCall is a VM system call.
	FunSystemCall
	// FunDlFunction lives in a dynamic library.
	FunDlFunction
)

func (k FunKind) String() string {
	switch k {
	case FunFunction:
		return "function"
	case FunMember:
		return "member"
	case FunMasterMethod:
		return "master method"
	case FunOperator:
		return "operator"
	case FunSystemCall:
		return "system call"
	case FunDlFunction:
		return "library function"
	default:
		return "unknown"
	}
}

// Function is one entry of the function arena.
type Function struct {
	Name  string
	Kind  FunKind
	Scope Scope

	// TypIndex is the result type, -1 for void functions.
	TypIndex int
	// OwnerTypIndex is the receiver class for members, -1 otherwise.
	OwnerTypIndex int
	// MstType is the receiver master type for master methods.
	MstType MasterType

	// ParmLow/ParmHigh delimit the parameter range (inclusive, -1/-1 empty).
	ParmLow  int
	ParmHigh int

	Address int64

	IsVoid        bool
	IsInitializer bool
	IsMetaMethod  bool
	IsNested      bool

	// SysCallNr selects the VM service for system calls.
	SysCallNr int
	// DlName/DlFunction identify a dynamic-library callee.
	DlName     string
	DlFunction string
}

// Parameter is one entry of the parameter arena.
type Parameter struct {
	Name        string
	TypIndex    int
	FunIndex    int
	Address     int64
	IsReference bool
	IsConst     bool
}

// StoreFunction appends a function entry and returns its index.
func (t *Table) StoreFunction(entry Function) int {
	t.Funs = append(t.Funs, entry)
	return len(t.Funs) - 1
}

// StoreParameter appends a parameter entry and returns its index.
func (t *Table) StoreParameter(entry Parameter) int {
	t.Parms = append(t.Parms, entry)
	return len(t.Parms) - 1
}

// ParmCount returns the number of parameters of a function, excluding the
// implicit receiver of members and master methods.
func (t *Table) ParmCount(funIndex int) int {
	f := &t.Funs[funIndex]
	if f.ParmLow == -1 {
		return 0
	}
	return f.ParmHigh - f.ParmLow + 1
}

// ParmTypeString builds the canonical parameter-type string used by
// overload search, e.g. "(int,string)".
func (t *Table) ParmTypeString(typIndexes []int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, ti := range typIndexes {
		if i > 0 {
			sb.WriteByte(',')
		}
		if ti < 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteString(t.Types[ti].Name)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// funMatches checks name, kind and arity against an entry.
func (t *Table) funMatches(f *Function, name string, kind FunKind, parmNr int) bool {
	return f.Name == name && f.Kind == kind && t.parmNrOf(f) == parmNr
}

func (t *Table) parmNrOf(f *Function) int {
	if f.ParmLow == -1 {
		return 0
	}
	return f.ParmHigh - f.ParmLow + 1
}

// FunSearch finds a free function by name and argument count, preferring an
// exact parameter-type match and falling back to the first
// promotion-compatible candidate. Returns -1 when not found.
func (t *Table) FunSearch(name string, scope Scope, argTypes []int, promotes func(from, to int) bool) int {
	return t.searchCallable(FunFunction, name, -1, scope, argTypes, promotes)
}

// FmbSearch finds a member function of a class.
func (t *Table) FmbSearch(ownerTypIndex int, name string, scope Scope, argTypes []int, promotes func(from, to int) bool) int {
	return t.searchCallable(FunMember, name, ownerTypIndex, scope, argTypes, promotes)
}

// MmtSearch finds a master method for the given master type and name.
// Master methods are arity-matched only; their parameter binding is checked
// by the caller.
func (t *Table) MmtSearch(mst MasterType, name string, parmNr int) int {
	for i := range t.Funs {
		f := &t.Funs[i]
		if f.Kind == FunMasterMethod && f.MstType == mst && f.Name == name && t.parmNrOf(f) == parmNr {
			return i
		}
	}
	return -1
}

// OprSearch finds a user operator overload by printable operator text and
// canonical operand types.
func (t *Table) OprSearch(oprText string, typIndex1, typIndex2 int) int {
	for i := range t.Funs {
		f := &t.Funs[i]
		if f.Kind != FunOperator || f.Name != oprText {
			continue
		}
		switch t.parmNrOf(f) {
		case 1:
			if typIndex2 == -1 && t.SameType(t.Parms[f.ParmLow].TypIndex, typIndex1) {
				return i
			}
		case 2:
			if typIndex2 != -1 &&
				t.SameType(t.Parms[f.ParmLow].TypIndex, typIndex1) &&
				t.SameType(t.Parms[f.ParmLow+1].TypIndex, typIndex2) {
				return i
			}
		}
	}
	return -1
}

func (t *Table) searchCallable(kind FunKind, name string, ownerTypIndex int, scope Scope, argTypes []int, promotes func(from, to int) bool) int {
	// exact pass
	for i := range t.Funs {
		f := &t.Funs[i]
		if !t.funMatches(f, name, kind, len(argTypes)) {
			continue
		}
		if kind == FunMember && f.OwnerTypIndex != ownerTypIndex {
			continue
		}
		if !t.funVisible(f, scope) {
			continue
		}
		if t.parmTypesEqual(f, argTypes) {
			return i
		}
	}
	// promotion pass
	if promotes == nil {
		return -1
	}
	for i := range t.Funs {
		f := &t.Funs[i]
		if !t.funMatches(f, name, kind, len(argTypes)) {
			continue
		}
		if kind == FunMember && f.OwnerTypIndex != ownerTypIndex {
			continue
		}
		if !t.funVisible(f, scope) {
			continue
		}
		if t.parmTypesPromote(f, argTypes, promotes) {
			return i
		}
	}
	return -1
}

func (t *Table) funVisible(f *Function, scope Scope) bool {
	if f.Scope.Kind == ScopePublic || f.Kind == FunMasterMethod || f.Kind == FunSystemCall {
		return true
	}
	return f.Scope.ModIndex == scope.ModIndex
}

func (t *Table) parmTypesEqual(f *Function, argTypes []int) bool {
	for i, at := range argTypes {
		if !t.SameType(t.Parms[f.ParmLow+i].TypIndex, at) {
			return false
		}
	}
	return true
}

func (t *Table) parmTypesPromote(f *Function, argTypes []int, promotes func(from, to int) bool) bool {
	for i, at := range argTypes {
		pt := t.Parms[f.ParmLow+i].TypIndex
		if t.SameType(pt, at) {
			continue
		}
		if !promotes(at, pt) {
			return false
		}
	}
	return true
}
