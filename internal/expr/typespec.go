package expr

import (
	"fmt"

	"ember/internal/sym"
	"ember/internal/token"
)

// ReadTypeSpec parses a full type specification out of a sentence starting
// at startToken: a type name optionally followed by fixed-array geometry
// ("[3,4]") or dynamic-array brackets ("[]", "[,]"). Array types are
// created on demand. Returns the type index and the number of tokens
// consumed.
func ReadTypeSpec(tab *sym.Table, stn *token.Sentence, scope sym.Scope, startToken int) (typIndex, readTokens int, err error) {
	base := stn.At(startToken)
	if base.Kind != token.Ident {
		return -1, 0, fmt.Errorf("expected type name, found %s", base.Kind)
	}
	typIndex = tab.TypSearch(base.Text, scope)
	if typIndex == -1 {
		return -1, 0, fmt.Errorf("unknown type %s", base.Text)
	}
	readTokens = 1
	if !stn.Is(startToken+1, token.LBracket) {
		return typIndex, readTokens, nil
	}

	// Array geometry. Literal sizes make a fixed array; bare commas make a
	// dynamic one. Mixing the two is an error.
	i := startToken + 2
	var sizes sym.ArrayIndexes
	dimNr := 0
	fixed := false
	dynamic := false
	expectSize := true
	for {
		tk := stn.At(i)
		switch tk.Kind {
		case token.IntLit, token.LongLit:
			if !expectSize || dynamic {
				return -1, 0, fmt.Errorf("unexpected size in array type specification")
			}
			if dimNr >= sym.MaxArrayDims {
				return -1, 0, fmt.Errorf("array types support at most %d dimensions", sym.MaxArrayDims)
			}
			if tk.Int <= 0 {
				return -1, 0, fmt.Errorf("array dimension size must be positive")
			}
			sizes[dimNr] = tk.Int
			dimNr++
			fixed = true
			expectSize = false
			i++
		case token.Comma:
			if expectSize && fixed {
				return -1, 0, fmt.Errorf("missing size in array type specification")
			}
			if !fixed {
				if dimNr == 0 {
					dimNr = 1
				}
				dimNr++
				dynamic = true
			}
			expectSize = true
			i++
		case token.RBracket:
			if fixed && expectSize && dimNr > 0 {
				return -1, 0, fmt.Errorf("missing size in array type specification")
			}
			if !fixed {
				if dimNr == 0 {
					dimNr = 1
				}
				dynamic = true
			}
			i++
			goto done
		default:
			return -1, 0, fmt.Errorf("unexpected %s in array type specification", tk.Kind)
		}
	}
done:
	readTokens = i - startToken
	elem := typIndex
	if dynamic {
		return tab.DefineDynArray(scope, elem, dimNr), readTokens, nil
	}
	// fixed array: reuse an existing equivalent geometry when present
	for ti := range tab.Types {
		ty := &tab.Types[ti]
		if ty.Mst == sym.MstFixArray && ty.ElemTypIndex == elem && ty.DimNr == dimNr &&
			tab.Dims[ty.DimIndex].DimSize == sizes {
			return ti, readTokens, nil
		}
	}
	dimIndex := tab.StoreDimension(dimNr, sizes)
	length := tab.TypeLength(elem)
	for d := 0; d < dimNr; d++ {
		length *= sizes[d]
	}
	name := tab.Types[elem].Name + "["
	for d := 0; d < dimNr; d++ {
		if d > 0 {
			name += ","
		}
		name += fmt.Sprintf("%d", sizes[d])
	}
	name += "]"
	return tab.StoreType(sym.Type{
		Name:         name,
		Mst:          sym.MstFixArray,
		Scope:        scope,
		ElemTypIndex: elem,
		DimNr:        dimNr,
		DimIndex:     dimIndex,
		FieldLow:     -1,
		FieldHigh:    -1,
		Length:       length,
	}), readTokens, nil
}
