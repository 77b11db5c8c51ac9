package sym

// Field is one entry of the field arena, owned by a class or enum type.
type Field struct {
	Name          string
	OwnerTypIndex int
	TypIndex      int
	Offset        int64
	// EnumValue holds the value for enum members.
	EnumValue int32
	IsStatic  bool
	IsPrivate bool
	// StaticVarIndex points at the module-level variable backing a static
	// field, -1 for instance fields.
	StaticVarIndex int
}

// StoreField appends a field entry and returns its index.
func (t *Table) StoreField(entry Field) int {
	t.Fields = append(t.Fields, entry)
	return len(t.Fields) - 1
}

// FldSearch finds a field by name within the owner type's field range.
// Returns -1 when not found.
func (t *Table) FldSearch(ownerTypIndex int, name string) int {
	if ownerTypIndex < 0 {
		return -1
	}
	ty := &t.Types[ownerTypIndex]
	if ty.FieldLow == -1 {
		return -1
	}
	for f := ty.FieldLow; f <= ty.FieldHigh; f++ {
		if t.Fields[f].Name == name {
			return f
		}
	}
	return -1
}

// IsMemberVisible reports whether a field can be accessed from scope.
// Private members are reachable only from their defining module.
func (t *Table) IsMemberVisible(scope Scope, fldIndex int) bool {
	fld := &t.Fields[fldIndex]
	if !fld.IsPrivate {
		return true
	}
	return t.Types[fld.OwnerTypIndex].Scope.ModIndex == scope.ModIndex
}

// AreAllFieldsVisible reports whether every field of the class is reachable
// from scope. Complex literals require full visibility.
func (t *Table) AreAllFieldsVisible(scope Scope, typIndex int) bool {
	ty := &t.Types[typIndex]
	if ty.FieldLow == -1 {
		return true
	}
	for f := ty.FieldLow; f <= ty.FieldHigh; f++ {
		if !t.IsMemberVisible(scope, f) {
			return false
		}
	}
	return true
}

// FieldCount returns the number of non-static fields of a class.
func (t *Table) FieldCount(typIndex int) int {
	ty := &t.Types[typIndex]
	if ty.FieldLow == -1 {
		return 0
	}
	n := 0
	for f := ty.FieldLow; f <= ty.FieldHigh; f++ {
		if !t.Fields[f].IsStatic {
			n++
		}
	}
	return n
}
