package sym

import "fmt"

// TempVarKind affects eligibility for temporary reuse.
type TempVarKind uint8

const (
	// TempRegular is a plain operation result temporary.
	TempRegular TempVarKind = iota
	// TempPromotion holds a promoted operand.
	TempPromotion
	// TempMaster holds a master-method result.
	TempMaster
)

func (k TempVarKind) String() string {
	switch k {
	case TempRegular:
		return "regular"
	case TempPromotion:
		return "promotion"
	case TempMaster:
		return "master"
	default:
		return "unknown"
	}
}

// Variable is one entry of the variable arena.
type Variable struct {
	Name     string
	TypIndex int
	Scope    Scope
	Address  int64

	// CodeBlockID tags variables declared inside a flow-operator scope so
	// they can be retired on exit.
	CodeBlockID int64

	TempKind TempVarKind

	IsTempVar     bool
	IsTempLocked  bool
	IsReference   bool
	IsConst       bool
	IsParameter   bool
	IsInitialized bool
	IsSourceUsed  bool
	IsComputed    bool
	IsStatic      bool
	IsHidden      bool
}

// StoreVariable appends a variable entry, assigns its address within the
// scope data segment, and returns its index.
func (t *Table) StoreVariable(entry Variable) int {
	length := t.TypeLength(entry.TypIndex)
	if entry.Scope.IsLocal() {
		entry.Address = t.locAddress
		t.locAddress += length
	} else {
		entry.Address = t.globAddress
		t.globAddress += length
	}
	t.Vars = append(t.Vars, entry)
	return len(t.Vars) - 1
}

// ReuseVariable rebinds an existing hidden or temporary entry in place,
// keeping its address, and returns the same index.
func (t *Table) ReuseVariable(varIndex int, entry Variable) int {
	entry.Address = t.Vars[varIndex].Address
	t.Vars[varIndex] = entry
	return varIndex
}

// VarSearch finds a visible variable by name. Local scope shadows module
// scope; hidden entries never match. Returns -1 when not found.
func (t *Table) VarSearch(name string, scope Scope) int {
	// function-local pass
	if scope.IsLocal() {
		for i := len(t.Vars) - 1; i >= 0; i-- {
			v := &t.Vars[i]
			if v.Name == name && !v.IsHidden && v.Scope.Same(scope) {
				return i
			}
		}
	}
	// module-level pass
	for i := len(t.Vars) - 1; i >= 0; i-- {
		v := &t.Vars[i]
		if v.Name != name || v.IsHidden || v.Scope.IsLocal() {
			continue
		}
		if v.Scope.ModIndex == scope.ModIndex || v.Scope.Kind == ScopePublic {
			return i
		}
	}
	return -1
}

// HideLocalVariables hides every non-temporary variable of the scope tagged
// with the given code block, so names declared inside a flow operator stop
// resolving after the operator ends.
func (t *Table) HideLocalVariables(scope Scope, codeBlockID int64) {
	for i := range t.Vars {
		v := &t.Vars[i]
		if v.Scope.Same(scope) && v.CodeBlockID == codeBlockID && !v.IsTempVar {
			v.IsHidden = true
		}
	}
}

// CleanHidden blanks the names of the scope's hidden entries once the
// enclosing statement finishes. Addresses are kept; entries stay in the
// arena for the debugger.
func (t *Table) CleanHidden(scope Scope) {
	for i := range t.Vars {
		v := &t.Vars[i]
		if v.Scope.Same(scope) && v.IsHidden {
			v.Name = ""
		}
	}
}

// SetInitialized marks the variable initialized. Monotonic within a scope:
// never reset (invariant I3).
func (t *Table) SetInitialized(varIndex int) {
	if varIndex >= 0 {
		t.Vars[varIndex].IsInitialized = true
	}
}

// SetSourceUsed records a read of the variable as a data source. Every
// non-temporary variable is marked; temporaries are marked only when forced.
// The scope argument is not consulted.
func (t *Table) SetSourceUsed(varIndex int, scope Scope, forced bool) {
	if varIndex < 0 {
		return
	}
	v := &t.Vars[varIndex]
	if !forced && v.IsTempVar {
		// temporaries never count as program sources
		return
	}
	_ = scope
	v.IsSourceUsed = true
}

// VarName returns a printable name for the variable.
func (t *Table) VarName(varIndex int) string {
	if varIndex < 0 || varIndex >= len(t.Vars) {
		return fmt.Sprintf("var#%d", varIndex)
	}
	return t.Vars[varIndex].Name
}

// DotCollissionCheck reports the colliding member name when a new variable
// called name would be ambiguous against a field or enum member reachable
// from scope, or "" when the name is free.
func (t *Table) DotCollissionCheck(name string, scope Scope) string {
	for i := range t.Fields {
		fld := &t.Fields[i]
		if fld.Name != name {
			continue
		}
		owner := &t.Types[fld.OwnerTypIndex]
		if owner.Scope.ModIndex == scope.ModIndex {
			return owner.Name + "." + fld.Name
		}
	}
	return ""
}
