package expr

import (
	"ember/internal/diag"
	"ember/internal/sym"
	"ember/internal/token"
)

// CurlyClass distinguishes the outer braces of a complex literal from the
// inner row braces of a multi-dimensional initializer.
type CurlyClass uint8

const (
	// CurlyOuter is the brace at array dimension 1 or around a class.
	CurlyOuter CurlyClass = iota
	// CurlyInner is a brace at array dimension greater than 1 or around a
	// composite field.
	CurlyInner
)

// complexSlot is one flattened leaf of a complex value: the byte offset
// within the whole value and the leaf type.
type complexSlot struct {
	Offset   int64
	TypIndex int
	// FldIndex is set for class-field leaves so static fields can be
	// redirected to their module variable.
	FldIndex int
}

// complexFlatten lists the leaf slots of a composite type in row-major
// field-then-element order. Dynamic-array leaves stop the recursion: their
// geometry is only known from the literal itself.
func complexFlatten(tab *sym.Table, typIndex int, base int64, dims *sym.ArrayIndexes, out []complexSlot) []complexSlot {
	ty := &tab.Types[typIndex]
	switch ty.Mst {
	case sym.MstClass:
		for f := ty.FieldLow; ty.FieldLow != -1 && f <= ty.FieldHigh; f++ {
			fld := &tab.Fields[f]
			if fld.IsStatic {
				out = append(out, complexSlot{Offset: -1, TypIndex: fld.TypIndex, FldIndex: f})
				continue
			}
			if tab.TypeMaster(fld.TypIndex) == sym.MstClass || tab.TypeMaster(fld.TypIndex) == sym.MstFixArray {
				out = complexFlatten(tab, fld.TypIndex, base+fld.Offset, nil, out)
			} else {
				out = append(out, complexSlot{Offset: base + fld.Offset, TypIndex: fld.TypIndex, FldIndex: f})
			}
		}
		return out
	case sym.MstFixArray:
		elemLen := tab.TypeLength(ty.ElemTypIndex)
		total := int64(1)
		for d := 0; d < ty.DimNr; d++ {
			total *= tab.Dims[ty.DimIndex].DimSize[d]
		}
		for n := int64(0); n < total; n++ {
			em := tab.TypeMaster(ty.ElemTypIndex)
			if em == sym.MstClass || em == sym.MstFixArray {
				out = complexFlatten(tab, ty.ElemTypIndex, base+n*elemLen, nil, out)
			} else {
				out = append(out, complexSlot{Offset: base + n*elemLen, TypIndex: ty.ElemTypIndex, FldIndex: -1})
			}
		}
		return out
	case sym.MstDynArray:
		total := int64(1)
		for d := 0; d < ty.DimNr; d++ {
			total *= dims[d]
		}
		elemLen := tab.TypeLength(ty.ElemTypIndex)
		for n := int64(0); n < total; n++ {
			out = append(out, complexSlot{Offset: n * elemLen, TypIndex: ty.ElemTypIndex, FldIndex: -1})
		}
		return out
	default:
		return append(out, complexSlot{Offset: base, TypIndex: typIndex, FldIndex: -1})
	}
}

// complexLitOpen handles the outer '{' of a complex literal. It must have
// been preceded by a type cast to a class or array type; that cast operator
// is replaced by the Complex token.
func (e *Expression) complexLitOpen(scope sym.Scope, stn *token.Sentence, braceIdx, endToken int) (int, bool) {
	pos := stn.At(braceIdx).Pos
	if len(e.tokens) == 0 {
		e.err(diag.CodeSyntax, pos, "complex value requires a preceding type cast")
		return 0, false
	}
	last := &e.tokens[len(e.tokens)-1]
	if last.id != IDOperator || last.Operator != OpTypeCast {
		e.err(diag.CodeSyntax, pos, "complex value requires a preceding type cast")
		return 0, false
	}
	typIndex := last.CastTypIndex
	mst := e.tab.TypeMaster(typIndex)
	if mst != sym.MstClass && mst != sym.MstFixArray && mst != sym.MstDynArray {
		e.err(diag.CodeType, pos, "complex values require a class or array type, not %s", mst)
		return 0, false
	}
	if mst == sym.MstClass && !e.tab.AreAllFieldsVisible(scope, typIndex) {
		e.err(diag.CodeName, pos, "class %s has hidden members here; initializer not allowed", e.tab.TypeName(typIndex))
		return 0, false
	}

	leaves, dims, _, ok := e.complexLitValueTokenize(stn, typIndex, braceIdx, 0)
	if !ok {
		return 0, false
	}

	// replace the cast operator by the complex token
	t := newToken(e.tab, IDComplex, pos)
	t.ComplexTypIndex = typIndex
	t.CallParmNr = leaves
	t.DimSize = dims
	t.DimSizeNr = e.tab.Types[typIndex].DimNr
	e.tokens[len(e.tokens)-1] = t
	e.pushDelim(BegCurly, pos)
	return 1, true
}

// complexLitValueTokenize walks one braced group, recursively for nested
// rows and composite fields, and verifies its structure: fixed-array sizes
// match the declaration, every row matches the first row's length, and a
// class literal has exactly as many entries as the class has fields.
// It returns the flattened leaf count and the measured outer dimensions.
func (e *Expression) complexLitValueTokenize(stn *token.Sentence, typIndex, braceIdx, recurLevel int) (leaves int, dims sym.ArrayIndexes, readTokens int, ok bool) {
	pos := stn.At(braceIdx).Pos
	if !stn.Is(braceIdx, token.LBrace) {
		e.err(diag.CodeComplexLit, pos, "expected { to open a complex value")
		return 0, dims, 0, false
	}
	ty := &e.tab.Types[typIndex]

	// collect the entry ranges of this group at relative brace level 1
	type entry struct{ beg, end int }
	var entries []entry
	level := 0
	cur := braceIdx + 1
	i := braceIdx
scan:
	for {
		if i >= stn.Len() {
			e.err(diag.CodeComplexLit, pos, "unmatched { in complex value")
			return 0, dims, 0, false
		}
		switch stn.At(i).Kind {
		case token.LBrace, token.LParen, token.LBracket:
			level++
		case token.RParen, token.RBracket:
			level--
		case token.RBrace:
			level--
			if level == 0 {
				if i > braceIdx+1 {
					if cur > i-1 {
						e.err(diag.CodeComplexLit, stn.At(i).Pos, "empty entry in complex value")
						return 0, dims, 0, false
					}
					entries = append(entries, entry{cur, i - 1})
				}
				break scan
			}
		case token.Comma:
			if level == 1 {
				if cur > i-1 {
					e.err(diag.CodeComplexLit, stn.At(i).Pos, "empty entry in complex value")
					return 0, dims, 0, false
				}
				entries = append(entries, entry{cur, i - 1})
				cur = i + 1
			}
		}
		i++
	}
	readTokens = i - braceIdx + 1

	switch ty.Mst {
	case sym.MstClass:
		want := ty.FieldHigh - ty.FieldLow + 1
		if ty.FieldLow == -1 {
			want = 0
		}
		if len(entries) != want {
			e.err(diag.CodeComplexLit, pos, "class %s has %d fields but the initializer has %d entries", ty.Name, want, len(entries))
			return 0, dims, 0, false
		}
		for n, en := range entries {
			fld := &e.tab.Fields[ty.FieldLow+n]
			fm := e.tab.TypeMaster(fld.TypIndex)
			if stn.Is(en.beg, token.LBrace) {
				if fm != sym.MstClass && fm != sym.MstFixArray {
					e.err(diag.CodeComplexLit, stn.At(en.beg).Pos, "field %s takes a single value, not a nested initializer", fld.Name)
					return 0, dims, 0, false
				}
				sub, _, _, sok := e.complexLitValueTokenize(stn, fld.TypIndex, en.beg, recurLevel+1)
				if !sok {
					return 0, dims, 0, false
				}
				leaves += sub
			} else {
				leaves++
			}
		}
		return leaves, dims, readTokens, true

	case sym.MstFixArray, sym.MstDynArray:
		if ty.DimNr > 1 {
			// rows: every entry is a nested group of the remaining dims
			rowLeaves := -1
			for _, en := range entries {
				if !stn.Is(en.beg, token.LBrace) {
					e.err(diag.CodeComplexLit, stn.At(en.beg).Pos, "expected { to open a row of a %d-dimensional array", ty.DimNr)
					return 0, dims, 0, false
				}
				sub, _, _, sok := e.complexRow(stn, typIndex, en.beg, 1, recurLevel+1)
				if !sok {
					return 0, dims, 0, false
				}
				if rowLeaves == -1 {
					rowLeaves = sub
				} else if sub != rowLeaves {
					e.err(diag.CodeComplexLit, stn.At(en.beg).Pos, "array rows must all match the first row's length")
					return 0, dims, 0, false
				}
				leaves += sub
			}
		} else {
			for _, en := range entries {
				em := e.tab.TypeMaster(ty.ElemTypIndex)
				if stn.Is(en.beg, token.LBrace) {
					if em != sym.MstClass && em != sym.MstFixArray {
						e.err(diag.CodeComplexLit, stn.At(en.beg).Pos, "array element type %s takes no nested initializer", e.tab.TypeName(ty.ElemTypIndex))
						return 0, dims, 0, false
					}
					sub, _, _, sok := e.complexLitValueTokenize(stn, ty.ElemTypIndex, en.beg, recurLevel+1)
					if !sok {
						return 0, dims, 0, false
					}
					leaves += sub
				} else {
					leaves++
				}
			}
		}
		dims = e.measureDims(stn, braceIdx, ty.DimNr)
		if ty.Mst == sym.MstFixArray {
			declared := e.tab.Dims[ty.DimIndex].DimSize
			for d := 0; d < ty.DimNr; d++ {
				if dims[d] != declared[d] {
					e.err(diag.CodeComplexLit, pos, "initializer dimension %d holds %d entries but the type declares %d", d+1, dims[d], declared[d])
					return 0, dims, 0, false
				}
			}
		}
		return leaves, dims, readTokens, true

	default:
		e.err(diag.CodeInternal, pos, "complex value over non-composite type")
		return 0, dims, 0, false
	}
}

// complexRow validates one inner row at dimension dim of a multi-dim array.
func (e *Expression) complexRow(stn *token.Sentence, arrTypIndex, braceIdx, dim, recurLevel int) (leaves int, dims sym.ArrayIndexes, readTokens int, ok bool) {
	ty := &e.tab.Types[arrTypIndex]
	// one row behaves like an array of the same element with one dimension
	// less; recursion bottoms out on scalar entries
	if dim >= ty.DimNr {
		return e.complexLitValueTokenize(stn, ty.ElemTypIndex, braceIdx, recurLevel)
	}
	pos := stn.At(braceIdx).Pos
	level := 0
	rowLeaves := -1
	i := braceIdx
	cur := braceIdx + 1
	var entries [][2]int
scan:
	for {
		if i >= stn.Len() {
			e.err(diag.CodeComplexLit, pos, "unmatched { in complex value")
			return 0, dims, 0, false
		}
		switch stn.At(i).Kind {
		case token.LBrace, token.LParen, token.LBracket:
			level++
		case token.RParen, token.RBracket:
			level--
		case token.RBrace:
			level--
			if level == 0 {
				if i > braceIdx+1 {
					if cur > i-1 {
						e.err(diag.CodeComplexLit, stn.At(i).Pos, "empty entry in complex value")
						return 0, dims, 0, false
					}
					entries = append(entries, [2]int{cur, i - 1})
				}
				break scan
			}
		case token.Comma:
			if level == 1 {
				if cur > i-1 {
					e.err(diag.CodeComplexLit, stn.At(i).Pos, "empty entry in complex value")
					return 0, dims, 0, false
				}
				entries = append(entries, [2]int{cur, i - 1})
				cur = i + 1
			}
		}
		i++
	}
	readTokens = i - braceIdx + 1
	for _, en := range entries {
		if dim == ty.DimNr-1 {
			if stn.Is(en[0], token.LBrace) {
				sub, _, _, sok := e.complexLitValueTokenize(stn, ty.ElemTypIndex, en[0], recurLevel+1)
				if !sok {
					return 0, dims, 0, false
				}
				leaves += sub
			} else {
				leaves++
			}
			continue
		}
		if !stn.Is(en[0], token.LBrace) {
			e.err(diag.CodeComplexLit, stn.At(en[0]).Pos, "expected { to open a nested array row")
			return 0, dims, 0, false
		}
		sub, _, _, sok := e.complexRow(stn, arrTypIndex, en[0], dim+1, recurLevel+1)
		if !sok {
			return 0, dims, 0, false
		}
		if rowLeaves == -1 {
			rowLeaves = sub
		} else if sub != rowLeaves {
			e.err(diag.CodeComplexLit, stn.At(en[0]).Pos, "array rows must all match the first row's length")
			return 0, dims, 0, false
		}
		leaves += sub
	}
	return leaves, dims, readTokens, true
}

// measureDims counts the entry breadth of the literal at every dimension,
// descending into the first row for the inner dimensions.
func (e *Expression) measureDims(stn *token.Sentence, braceIdx, dimNr int) sym.ArrayIndexes {
	var dims sym.ArrayIndexes
	idx := braceIdx
	for d := 0; d < dimNr && d < sym.MaxArrayDims; d++ {
		dims[d] = countEntries(stn, idx)
		idx++
		if !stn.Is(idx, token.LBrace) {
			break
		}
	}
	return dims
}

// countEntries counts the level-1 entries of the brace pair at braceIdx.
func countEntries(stn *token.Sentence, braceIdx int) int64 {
	level := 0
	count := int64(0)
	saw := false
	for i := braceIdx; i < stn.Len(); i++ {
		switch stn.At(i).Kind {
		case token.LBrace, token.LParen, token.LBracket:
			if level >= 1 {
				saw = true
			}
			level++
		case token.RParen, token.RBracket:
			level--
		case token.RBrace:
			level--
			if level == 0 {
				if saw {
					count++
				}
				return count
			}
		case token.Comma:
			if level == 1 {
				count++
				saw = false
			}
		default:
			if level >= 1 {
				saw = true
			}
		}
	}
	return count
}
