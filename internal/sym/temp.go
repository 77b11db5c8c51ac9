package sym

import "fmt"

// TempVarNew returns an expression temporary of the given type and kind:
// an existing unlocked temporary of matching type, kind and scope when one
// is free, otherwise a fresh entry. The returned temporary is locked.
// reused reports whether an existing slot was handed back.
func (t *Table) TempVarNew(scope Scope, codeBlockID int64, typIndex int, kind TempVarKind) (varIndex int, reused bool) {
	for i := range t.Vars {
		v := &t.Vars[i]
		if v.IsTempVar && !v.IsTempLocked && v.TempKind == kind &&
			v.Scope.Same(scope) && t.SameType(v.TypIndex, typIndex) {
			v.IsTempLocked = true
			v.CodeBlockID = codeBlockID
			return i, true
		}
	}
	t.tempSeq++
	varIndex = t.StoreVariable(Variable{
		Name:         fmt.Sprintf("tmp%03d", t.tempSeq),
		TypIndex:     typIndex,
		Scope:        scope,
		CodeBlockID:  codeBlockID,
		TempKind:     kind,
		IsTempVar:    true,
		IsTempLocked: true,
	})
	return varIndex, false
}

// TempVarLock re-locks a temporary referenced by a live token (invariant I2).
func (t *Table) TempVarLock(varIndex int) {
	if varIndex >= 0 && t.Vars[varIndex].IsTempVar {
		t.Vars[varIndex].IsTempLocked = true
	}
}

// TempVarUnlock releases a temporary for reuse by the allocator.
func (t *Table) TempVarUnlock(varIndex int) {
	if varIndex >= 0 && t.Vars[varIndex].IsTempVar {
		t.Vars[varIndex].IsTempLocked = false
	}
}

// TempVarUnlockAll releases every temporary of the scope. Called by the
// statement compiler between expressions; temporaries never outlive the
// enclosing expression.
func (t *Table) TempVarUnlockAll(scope Scope) {
	for i := range t.Vars {
		v := &t.Vars[i]
		if v.IsTempVar && v.Scope.Same(scope) {
			v.IsTempLocked = false
		}
	}
}
