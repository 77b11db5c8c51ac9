package expr

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"ember/internal/sym"
)

// Literal coercions used by folding and literal promotion. Each rewrites
// the literal payload in place and fails on out-of-range values instead of
// silently wrapping.

func (t *Token) litLon() int64 {
	switch t.MstType() {
	case sym.MstChar:
		return int64(t.Value.Chr)
	case sym.MstShort:
		return int64(t.Value.Shr)
	case sym.MstInteger:
		return int64(t.Value.Int)
	case sym.MstLong:
		return t.Value.Lon
	case sym.MstEnum:
		return int64(t.Value.Enu)
	default:
		return 0
	}
}

func (t *Token) litFlo() float64 {
	if t.MstType() == sym.MstFloat {
		return t.Value.Flo
	}
	return float64(t.litLon())
}

// ToBol coerces the literal to boolean.
func (t *Token) ToBol() error {
	switch t.MstType() {
	case sym.MstBoolean:
		return nil
	case sym.MstChar, sym.MstShort, sym.MstInteger, sym.MstLong:
		v := t.litLon() != 0
		t.LitNumTypIndex = t.tab.BolTypIndex
		t.Value = LitVal{Bol: v}
		return nil
	default:
		return fmt.Errorf("cannot convert %s literal to Boolean", t.MstType())
	}
}

// ToChr coerces the literal to char.
func (t *Token) ToChr() error {
	if t.MstType() == sym.MstChar {
		return nil
	}
	v, err := safecast.Conv[uint8](t.litLon())
	if err != nil {
		return fmt.Errorf("value %d does not fit Char", t.litLon())
	}
	t.LitNumTypIndex = t.tab.ChrTypIndex
	t.Value = LitVal{Chr: v}
	return nil
}

// ToShr coerces the literal to short.
func (t *Token) ToShr() error {
	if t.MstType() == sym.MstShort {
		return nil
	}
	v, err := safecast.Conv[int16](t.litLon())
	if err != nil {
		return fmt.Errorf("value %d does not fit Short", t.litLon())
	}
	t.LitNumTypIndex = t.tab.ShrTypIndex
	t.Value = LitVal{Shr: v}
	return nil
}

// ToInt coerces the literal to integer.
func (t *Token) ToInt() error {
	switch t.MstType() {
	case sym.MstInteger:
		return nil
	case sym.MstFloat:
		v, err := safecast.Conv[int32](int64(t.Value.Flo))
		if err != nil {
			return fmt.Errorf("value %g does not fit Integer", t.Value.Flo)
		}
		t.LitNumTypIndex = t.tab.IntTypIndex
		t.Value = LitVal{Int: v}
		return nil
	default:
		v, err := safecast.Conv[int32](t.litLon())
		if err != nil {
			return fmt.Errorf("value %d does not fit Integer", t.litLon())
		}
		t.LitNumTypIndex = t.tab.IntTypIndex
		t.Value = LitVal{Int: v}
		return nil
	}
}

// ToLon coerces the literal to long.
func (t *Token) ToLon() error {
	switch t.MstType() {
	case sym.MstLong:
		return nil
	case sym.MstFloat:
		t.LitNumTypIndex = t.tab.LonTypIndex
		t.Value = LitVal{Lon: int64(t.Value.Flo)}
		return nil
	default:
		v := t.litLon()
		t.LitNumTypIndex = t.tab.LonTypIndex
		t.Value = LitVal{Lon: v}
		return nil
	}
}

// ToFlo coerces the literal to float.
func (t *Token) ToFlo() error {
	if t.MstType() == sym.MstFloat {
		return nil
	}
	v := float64(t.litLon())
	t.LitNumTypIndex = t.tab.FloTypIndex
	t.Value = LitVal{Flo: v}
	return nil
}

// ToWrd coerces the literal to the subscript word type.
func (t *Token) ToWrd() error {
	if t.LitNumTypIndex == t.tab.WrdTypIndex {
		return nil
	}
	v := t.litLon()
	t.LitNumTypIndex = t.tab.WrdTypIndex
	t.Value = LitVal{Lon: v}
	return nil
}

// ToStr coerces the literal to string.
func (t *Token) ToStr() error {
	switch t.MstType() {
	case sym.MstString:
		return nil
	case sym.MstBoolean:
		t.setStr(strconv.FormatBool(t.Value.Bol))
		return nil
	case sym.MstChar:
		t.setStr(string(rune(t.Value.Chr)))
		return nil
	case sym.MstShort, sym.MstInteger, sym.MstLong:
		t.setStr(strconv.FormatInt(t.litLon(), 10))
		return nil
	case sym.MstFloat:
		t.setStr(strconv.FormatFloat(t.Value.Flo, 'g', -1, 64))
		return nil
	default:
		return fmt.Errorf("cannot convert %s literal to String", t.MstType())
	}
}

func (t *Token) setStr(s string) {
	addr := t.tab.StoreLitString(s)
	t.LitNumTypIndex = t.tab.StrTypIndex
	t.Value = LitVal{Adr: addr, Str: s}
}

// ToMaster dispatches the coercion matching a master type.
func (t *Token) ToMaster(mst sym.MasterType) error {
	switch mst {
	case sym.MstBoolean:
		return t.ToBol()
	case sym.MstChar:
		return t.ToChr()
	case sym.MstShort:
		return t.ToShr()
	case sym.MstInteger:
		return t.ToInt()
	case sym.MstLong:
		return t.ToLon()
	case sym.MstFloat:
		return t.ToFlo()
	case sym.MstString:
		return t.ToStr()
	default:
		return fmt.Errorf("cannot convert literal to %s", mst)
	}
}
