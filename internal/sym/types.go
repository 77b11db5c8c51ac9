package sym

// MaxArrayDims bounds the dimension count of fixed and dynamic arrays.
const MaxArrayDims = 5

// ArrayIndexes carries the per-dimension sizes of an array geometry.
type ArrayIndexes [MaxArrayDims]int64

// Dimension is one geometry entry: the declared sizes of a fixed array.
type Dimension struct {
	DimNr   int
	DimSize ArrayIndexes
}

// Type is one entry of the type arena.
type Type struct {
	Name  string
	Mst   MasterType
	Scope Scope

	// ElemTypIndex is the element type for arrays, -1 otherwise.
	ElemTypIndex int
	// DimNr and DimIndex describe fixed-array geometry.
	DimNr    int
	DimIndex int
	// FieldLow/FieldHigh delimit the field range for classes and enums
	// (inclusive, -1/-1 when empty).
	FieldLow  int
	FieldHigh int
	// Length is the byte length of one value of the type.
	Length int64

	IsSystemDef bool
}

// StoreType appends a type entry and returns its index.
func (t *Table) StoreType(entry Type) int {
	t.Types = append(t.Types, entry)
	return len(t.Types) - 1
}

// TypSearch finds a type by name visible from scope. Returns -1 when not
// found.
func (t *Table) TypSearch(name string, scope Scope) int {
	for i := len(t.Types) - 1; i >= 0; i-- {
		ty := &t.Types[i]
		if ty.Name != name || ty.Name == "" {
			continue
		}
		if ty.IsSystemDef || ty.Scope.Same(scope) || ty.Scope.ModIndex == scope.ModIndex {
			return i
		}
	}
	return -1
}

// StoreDimension appends a geometry entry and returns its index.
func (t *Table) StoreDimension(dimNr int, sizes ArrayIndexes) int {
	t.Dims = append(t.Dims, Dimension{DimNr: dimNr, DimSize: sizes})
	return len(t.Dims) - 1
}

// TypeLength returns the byte length of a type.
func (t *Table) TypeLength(typIndex int) int64 {
	if typIndex < 0 || typIndex >= len(t.Types) {
		return 0
	}
	return t.Types[typIndex].Length
}

// IsMasterAtomic reports whether the type's master is atomic.
func (t *Table) IsMasterAtomic(typIndex int) bool {
	if typIndex < 0 {
		return false
	}
	return t.Types[typIndex].Mst.IsAtomic()
}

// IsEmptyClass reports whether the type is a class with no fields. Empty
// classes act as sentinels and push nothing on call argument lists.
func (t *Table) IsEmptyClass(typIndex int) bool {
	if typIndex < 0 {
		return false
	}
	ty := &t.Types[typIndex]
	return ty.Mst == MstClass && ty.FieldLow == -1
}

// IsStaticClass reports whether every field of the class is static.
func (t *Table) IsStaticClass(typIndex int) bool {
	if typIndex < 0 || t.Types[typIndex].Mst != MstClass {
		return false
	}
	ty := &t.Types[typIndex]
	if ty.FieldLow == -1 {
		return false
	}
	for f := ty.FieldLow; f <= ty.FieldHigh; f++ {
		if !t.Fields[f].IsStatic {
			return false
		}
	}
	return true
}

// HasInnerBlocks reports whether the type is String, DynArray, or
// transitively contains a field or element of one of those types. This is a
// structural property of the type graph (invariant I4).
func (t *Table) HasInnerBlocks(typIndex int) bool {
	if typIndex < 0 {
		return false
	}
	ty := &t.Types[typIndex]
	switch ty.Mst {
	case MstString, MstDynArray:
		return true
	case MstFixArray:
		return t.HasInnerBlocks(ty.ElemTypIndex)
	case MstClass:
		if ty.FieldLow == -1 {
			return false
		}
		for f := ty.FieldLow; f <= ty.FieldHigh; f++ {
			fld := &t.Fields[f]
			if !fld.IsStatic && t.HasInnerBlocks(fld.TypIndex) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// EquivalentArrays reports whether two array types are interchangeable:
// same master, same dimension count and geometry, equivalent element types.
func (t *Table) EquivalentArrays(typIndex1, typIndex2 int) bool {
	if typIndex1 < 0 || typIndex2 < 0 {
		return false
	}
	t1, t2 := &t.Types[typIndex1], &t.Types[typIndex2]
	if t1.Mst != t2.Mst {
		return false
	}
	if t1.Mst != MstFixArray && t1.Mst != MstDynArray {
		return false
	}
	if t1.DimNr != t2.DimNr {
		return false
	}
	if t1.Mst == MstFixArray {
		d1, d2 := t.Dims[t1.DimIndex], t.Dims[t2.DimIndex]
		if d1.DimSize != d2.DimSize {
			return false
		}
	}
	e1, e2 := t1.ElemTypIndex, t2.ElemTypIndex
	if e1 == e2 {
		return true
	}
	m1, m2 := t.Types[e1].Mst, t.Types[e2].Mst
	if m1 != m2 {
		return false
	}
	if m1 == MstFixArray || m1 == MstDynArray {
		return t.EquivalentArrays(e1, e2)
	}
	return m1.IsAtomic()
}

// SameType reports whether two type indexes denote the same or an
// equivalent-array type.
func (t *Table) SameType(typIndex1, typIndex2 int) bool {
	if typIndex1 == typIndex2 {
		return true
	}
	return t.EquivalentArrays(typIndex1, typIndex2)
}

// DefineDynArray returns (creating on demand) the dynamic-array type with
// the given element type and dimension count, scoped to the module.
func (t *Table) DefineDynArray(scope Scope, elemTypIndex, dimNr int) int {
	for i := range t.Types {
		ty := &t.Types[i]
		if ty.Mst == MstDynArray && ty.ElemTypIndex == elemTypIndex && ty.DimNr == dimNr {
			return i
		}
	}
	name := t.Types[elemTypIndex].Name + "[]"
	return t.StoreType(Type{
		Name:         name,
		Mst:          MstDynArray,
		Scope:        scope,
		ElemTypIndex: elemTypIndex,
		DimNr:        dimNr,
		DimIndex:     -1,
		FieldLow:     -1,
		FieldHigh:    -1,
		Length:       MstDynArray.Size(),
	})
}
