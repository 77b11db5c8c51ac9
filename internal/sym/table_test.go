package sym

import "testing"

func testScope() Scope {
	return LocalScope(0, 0)
}

func TestTempVar_LockAndReuse(t *testing.T) {
	tab := NewTable()
	scope := testScope()

	first, reused := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempRegular)
	if reused {
		t.Fatal("first allocation reported reuse")
	}
	if !tab.Vars[first].IsTempLocked {
		t.Fatal("fresh temporary is not locked")
	}

	// a locked temporary must not be handed out again
	second, reused := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempRegular)
	if reused || second == first {
		t.Fatal("locked temporary was reused")
	}

	tab.TempVarUnlock(first)
	third, reused := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempRegular)
	if !reused || third != first {
		t.Fatalf("unlocked temporary was not reused: got %d reused=%v", third, reused)
	}
}

func TestTempVar_KindSeparation(t *testing.T) {
	tab := NewTable()
	scope := testScope()
	first, _ := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempRegular)
	tab.TempVarUnlock(first)
	second, reused := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempPromotion)
	if reused || second == first {
		t.Fatal("temporary was reused across kinds")
	}
}

func TestTempVar_TypeSeparation(t *testing.T) {
	tab := NewTable()
	scope := testScope()
	first, _ := tab.TempVarNew(scope, 0, tab.IntTypIndex, TempRegular)
	tab.TempVarUnlock(first)
	second, reused := tab.TempVarNew(scope, 0, tab.LonTypIndex, TempRegular)
	if reused || second == first {
		t.Fatal("temporary was reused across types")
	}
}

func TestHasInnerBlocks(t *testing.T) {
	tab := NewTable()
	scope := testScope()

	if tab.HasInnerBlocks(tab.IntTypIndex) {
		t.Fatal("int reports inner blocks")
	}
	if !tab.HasInnerBlocks(tab.StrTypIndex) {
		t.Fatal("string reports no inner blocks")
	}

	dyn := tab.DefineDynArray(scope, tab.IntTypIndex, 1)
	if !tab.HasInnerBlocks(dyn) {
		t.Fatal("dynamic array reports no inner blocks")
	}

	// a class owning a string field transitively has inner blocks
	fld := tab.StoreField(Field{Name: "s", TypIndex: tab.StrTypIndex, StaticVarIndex: -1})
	cls := tab.StoreType(Type{
		Name: "holder", Mst: MstClass, Scope: scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: fld, FieldHigh: fld,
		Length: 8,
	})
	tab.Fields[fld].OwnerTypIndex = cls
	if !tab.HasInnerBlocks(cls) {
		t.Fatal("class with a string field reports no inner blocks")
	}

	// a class of plain cells does not
	fld2 := tab.StoreField(Field{Name: "n", TypIndex: tab.IntTypIndex, StaticVarIndex: -1})
	cls2 := tab.StoreType(Type{
		Name: "plain", Mst: MstClass, Scope: scope,
		ElemTypIndex: -1, DimIndex: -1, FieldLow: fld2, FieldHigh: fld2,
		Length: 4,
	})
	tab.Fields[fld2].OwnerTypIndex = cls2
	if tab.HasInnerBlocks(cls2) {
		t.Fatal("class of atomic fields reports inner blocks")
	}
}

func TestHideLocalVariables(t *testing.T) {
	tab := NewTable()
	scope := testScope()
	idx := tab.StoreVariable(Variable{Name: "s", TypIndex: tab.IntTypIndex, Scope: scope, CodeBlockID: 7})
	keep := tab.StoreVariable(Variable{Name: "k", TypIndex: tab.IntTypIndex, Scope: scope, CodeBlockID: 0})

	tab.HideLocalVariables(scope, 7)
	if tab.VarSearch("s", scope) != -1 {
		t.Fatal("s is still visible after hiding its code block")
	}
	if tab.VarSearch("k", scope) != keep {
		t.Fatal("k was hidden although it belongs to another code block")
	}
	// arena entry survives for the debugger
	if tab.Vars[idx].Name != "s" {
		t.Fatal("hidden entry was destroyed")
	}
}

func TestEquivalentArrays(t *testing.T) {
	tab := NewTable()
	scope := testScope()
	d1 := tab.DefineDynArray(scope, tab.IntTypIndex, 1)
	d2 := tab.DefineDynArray(scope, tab.IntTypIndex, 1)
	if d1 != d2 {
		// DefineDynArray interns, but equivalence must hold regardless
		if !tab.EquivalentArrays(d1, d2) {
			t.Fatal("identical dynamic arrays are not equivalent")
		}
	}
	dL := tab.DefineDynArray(scope, tab.LonTypIndex, 1)
	if tab.EquivalentArrays(d1, dL) {
		t.Fatal("arrays of different elements are equivalent")
	}

	var sizes ArrayIndexes
	sizes[0] = 3
	dimA := tab.StoreDimension(1, sizes)
	fixA := tab.StoreType(Type{Name: "a", Mst: MstFixArray, Scope: scope, ElemTypIndex: tab.IntTypIndex, DimNr: 1, DimIndex: dimA, FieldLow: -1, FieldHigh: -1, Length: 12})
	dimB := tab.StoreDimension(1, sizes)
	fixB := tab.StoreType(Type{Name: "b", Mst: MstFixArray, Scope: scope, ElemTypIndex: tab.IntTypIndex, DimNr: 1, DimIndex: dimB, FieldLow: -1, FieldHigh: -1, Length: 12})
	if !tab.EquivalentArrays(fixA, fixB) {
		t.Fatal("fixed arrays with the same geometry are not equivalent")
	}
	if tab.EquivalentArrays(fixA, d1) {
		t.Fatal("fixed and dynamic arrays are equivalent")
	}
}

func TestVarSearch_Shadowing(t *testing.T) {
	tab := NewTable()
	local := LocalScope(0, 0)
	global := GlobalScope(ScopePrivate, 0)
	gIdx := tab.StoreVariable(Variable{Name: "x", TypIndex: tab.IntTypIndex, Scope: global})
	lIdx := tab.StoreVariable(Variable{Name: "x", TypIndex: tab.LonTypIndex, Scope: local})

	if got := tab.VarSearch("x", local); got != lIdx {
		t.Fatalf("local search found %d, want the shadowing local %d", got, lIdx)
	}
	if got := tab.VarSearch("x", global); got != gIdx {
		t.Fatalf("global search found %d, want %d", got, gIdx)
	}
}

func TestLabelGenerators(t *testing.T) {
	tab := NewTable()
	if tab.GetLabelGenerator() != 0 || tab.GetFlowLabelGenerator() != 0 {
		t.Fatal("generators do not start at zero")
	}
	tab.IncreaseLabelGenerator()
	tab.IncreaseFlowLabelGenerator()
	tab.IncreaseFlowLabelGenerator()
	if tab.GetLabelGenerator() != 1 {
		t.Fatal("ternary generator did not advance")
	}
	if tab.GetFlowLabelGenerator() != 2 {
		t.Fatal("flow generator did not advance")
	}
}

func TestIsEmptyAndStaticClass(t *testing.T) {
	tab := NewTable()
	scope := testScope()
	empty := tab.StoreType(Type{Name: "unit", Mst: MstClass, Scope: scope, ElemTypIndex: -1, DimIndex: -1, FieldLow: -1, FieldHigh: -1})
	if !tab.IsEmptyClass(empty) {
		t.Fatal("field-less class is not empty")
	}
	sIdx := tab.StoreVariable(Variable{Name: "shared", TypIndex: tab.IntTypIndex, Scope: GlobalScope(ScopePrivate, 0), IsStatic: true})
	fld := tab.StoreField(Field{Name: "shared", TypIndex: tab.IntTypIndex, IsStatic: true, StaticVarIndex: sIdx})
	cls := tab.StoreType(Type{Name: "stat", Mst: MstClass, Scope: scope, ElemTypIndex: -1, DimIndex: -1, FieldLow: fld, FieldHigh: fld})
	tab.Fields[fld].OwnerTypIndex = cls
	if !tab.IsStaticClass(cls) {
		t.Fatal("class of static fields is not static")
	}
	if tab.IsEmptyClass(cls) {
		t.Fatal("class with fields is empty")
	}
}
