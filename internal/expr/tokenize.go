package expr

import (
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/sym"
	"ember/internal/token"
)

// flowAttr tags a parser-token index with the flow operator to emit there.
type flowAttr struct {
	flow  FlowOpr
	label int64
	// name is the declared variable for on/index positions.
	name string
	// skip is the number of extra parser tokens the position consumes.
	skip int
}

// tokenize maps the parser-token range [begToken..endToken] to expression
// tokens, resolving identifiers, type casts, constructor calls, flow
// operators and complex initializers.
func (e *Expression) tokenize(scope sym.Scope, stn *token.Sentence, begToken, endToken int) bool {
	if endToken >= stn.Len() {
		endToken = stn.Len() - 1
	}
	pendingInit := false
	justDeclared := false
	curlyLevel := 0
	var flowStack []int64
	flowAttrs := map[int]flowAttr{}
	codeBlock := func() int64 {
		if len(flowStack) == 0 {
			return 0
		}
		return flowStack[len(flowStack)-1]
	}

	i := begToken
	for i <= endToken {
		tk := stn.At(i)
		pos := tk.Pos
		if e.fileName == "" {
			e.fileName = pos.File
		}
		wasDeclared := justDeclared
		justDeclared = false

		// Positions claimed by a flow-operator parse emit their flow token.
		if fa, ok := flowAttrs[i]; ok {
			switch fa.flow {
			case ArrOnvar, ArrOxvar, ArrIxvar:
				t := newToken(e.tab, IDFlowOpr, pos)
				t.Flow = fa.flow
				t.FlowLabel = fa.label
				t.Name = fa.name
				e.tokens = append(e.tokens, t)
			case ForEnd, ArrEnd:
				t := newToken(e.tab, IDFlowOpr, pos)
				t.Flow = fa.flow
				t.FlowLabel = fa.label
				e.tokens = append(e.tokens, t)
				if len(flowStack) == 0 {
					return e.err(diag.CodeInternal, pos, "flow label stack empty at flow end")
				}
				flowStack = flowStack[:len(flowStack)-1]
				// the closing parenthesis follows
				d := newToken(e.tab, IDDelimiter, pos)
				d.Delim = EndParen
				e.tokens = append(e.tokens, d)
			default:
				t := newToken(e.tab, IDFlowOpr, pos)
				t.Flow = fa.flow
				t.FlowLabel = fa.label
				e.tokens = append(e.tokens, t)
			}
			i += 1 + fa.skip
			continue
		}

		switch tk.Kind {
		case token.PlusPlus, token.MinusMinus:
			opr := OpPrefixInc
			if e.hasOperandOnLeft() {
				if tk.Kind == token.PlusPlus {
					opr = OpPostfixInc
				} else {
					opr = OpPostfixDec
				}
			} else if tk.Kind == token.MinusMinus {
				opr = OpPrefixDec
			}
			e.pushOperator(opr, pos)
			i++

		case token.Plus, token.Minus:
			var opr Operator
			if e.hasOperandOnLeft() {
				if tk.Kind == token.Plus {
					opr = OpAddition
				} else {
					opr = OpSubstraction
				}
			} else {
				if tk.Kind == token.Plus {
					opr = OpUnaryPlus
				} else {
					opr = OpUnaryMinus
				}
			}
			e.pushOperator(opr, pos)
			i++

		case token.Star:
			if wasDeclared {
				// declaration initializer sigil
				e.tokens[len(e.tokens)-1].HasInitialization = true
				justDeclared = true
				i++
				continue
			}
			if !e.hasOperandOnLeft() {
				return e.err(diag.CodeSyntax, pos, "operator * has no operand on its left side")
			}
			e.pushOperator(OpMultiplication, pos)
			i++

		case token.Assign:
			if pendingInit {
				pendingInit = false
				e.pushOperator(OpInitializ, pos)
			} else {
				e.pushOperator(OpAssign, pos)
			}
			i++

		case token.Bang:
			e.pushOperator(OpLogicalNot, pos)
			i++

		case token.Tilde:
			e.pushOperator(OpBitwiseNot, pos)
			i++

		case token.Question:
			t := newToken(e.tab, IDLowLevelOpr, pos)
			t.LowLevel = TernaryCond
			e.tokens = append(e.tokens, t)
			i++

		case token.Colon:
			if i == endToken {
				return e.err(diag.CodeSyntax, pos, "stray colon at end of expression")
			}
			t := newToken(e.tab, IDLowLevelOpr, pos)
			t.LowLevel = TernaryMid
			e.tokens = append(e.tokens, t)
			i++

		case token.Dot:
			consumed, ok := e.memberAccess(stn, i, endToken)
			if !ok {
				return false
			}
			i += consumed

		case token.LParen:
			consumed, ok := e.openParen(scope, stn, i, endToken)
			if !ok {
				return false
			}
			i += consumed

		case token.RParen:
			e.pushDelim(EndParen, pos)
			i++

		case token.LBracket:
			e.pushDelim(BegBracket, pos)
			i++

		case token.RBracket:
			e.pushDelim(EndBracket, pos)
			i++

		case token.LBrace:
			if curlyLevel > 0 {
				e.pushDelim(BegCurly, pos)
				curlyLevel++
				i++
				continue
			}
			consumed, ok := e.complexLitOpen(scope, stn, i, endToken)
			if !ok {
				return false
			}
			curlyLevel++
			i += consumed

		case token.RBrace:
			if curlyLevel == 0 {
				return e.err(diag.CodeSyntax, pos, "unmatched }")
			}
			curlyLevel--
			e.pushDelim(EndCurly, pos)
			i++

		case token.Comma:
			e.pushDelim(CommaSep, pos)
			i++

		case token.BoolLit:
			t := Token{}
			t.ThisBol(e.tab, tk.Bol, pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.CharLit:
			t := Token{}
			t.ThisChr(e.tab, tk.Chr, pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.ShortLit:
			t := Token{}
			t.ThisShr(e.tab, int16(tk.Int), pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.IntLit:
			t := Token{}
			t.ThisInt(e.tab, int32(tk.Int), pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.LongLit:
			t := Token{}
			t.ThisLon(e.tab, tk.Int, pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.FloatLit:
			t := Token{}
			t.ThisFlo(e.tab, tk.Flo, pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.StringLit:
			t := Token{}
			t.ThisStr(e.tab, tk.Text, pos)
			e.tokens = append(e.tokens, t)
			i++

		case token.KwVar:
			if !stn.Is(i+1, token.Ident) || !stn.Is(i+2, token.Assign) {
				return e.err(diag.CodeSyntax, pos, "var requires an identifier and an initializer")
			}
			name := stn.At(i + 1).Text
			t := newToken(e.tab, IDUndefVar, stn.At(i+1).Pos)
			t.Name = name
			t.FlowLabel = codeBlock()
			e.tokens = append(e.tokens, t)
			pendingInit = true
			i += 2

		case token.KwFor, token.KwArray:
			attrs, label, ok := e.flowOperatorParse(stn, i, endToken)
			if !ok {
				return false
			}
			for idx, fa := range attrs {
				flowAttrs[idx] = fa
			}
			e.pushDelim(BegParen, stn.At(i+1).Pos)
			t := newToken(e.tab, IDFlowOpr, pos)
			if tk.Kind == token.KwFor {
				t.Flow = ForBeg
			} else {
				t.Flow = ArrBeg
			}
			t.FlowLabel = label
			e.tokens = append(e.tokens, t)
			flowStack = append(flowStack, label)
			i += 2

		case token.KwIf, token.KwDo, token.KwReturn, token.KwOn, token.KwIndex, token.KwAs:
			return e.err(diag.CodeSyntax, pos, "keyword %s is not valid at this position", tk.Kind)

		case token.Ident:
			consumed, declared, arm, ok := e.identifier(scope, stn, i, endToken, codeBlock())
			if !ok {
				return false
			}
			justDeclared = declared
			if arm {
				pendingInit = true
			}
			i += consumed

		default:
			opr, ok := binaryOperatorFor(tk.Kind)
			if !ok {
				return e.err(diag.CodeSyntax, pos, "unexpected %s in expression", tk.Kind)
			}
			if !e.hasOperandOnLeft() {
				return e.err(diag.CodeSyntax, pos, "operator %s has no operand on its left side", tk.Kind)
			}
			e.pushOperator(opr, pos)
			i++
		}

		// the pending-initialization flag only survives from a declaration
		// to the assignment sign that immediately follows it
		if !justDeclared && tk.Kind != token.KwVar && tk.Kind != token.Assign {
			pendingInit = false
		}
	}
	return true
}

func (e *Expression) pushOperator(opr Operator, pos source.Pos) {
	t := newToken(e.tab, IDOperator, pos)
	t.Operator = opr
	e.tokens = append(e.tokens, t)
}

func (e *Expression) pushDelim(d Delimiter, pos source.Pos) {
	t := newToken(e.tab, IDDelimiter, pos)
	t.Delim = d
	e.tokens = append(e.tokens, t)
}

// hasOperandOnLeft is the operand-detection predicate: the previous token
// is an operand when it is an operand, an undefined variable, a field, a
// closing delimiter, or a postfix increment or decrement.
func (e *Expression) hasOperandOnLeft() bool {
	if len(e.tokens) == 0 {
		return false
	}
	last := &e.tokens[len(e.tokens)-1]
	switch last.id {
	case IDOperand, IDUndefVar, IDField:
		return true
	case IDDelimiter:
		return last.Delim == EndParen || last.Delim == EndBracket || last.Delim == EndCurly
	case IDOperator:
		return last.Operator == OpPostfixInc || last.Operator == OpPostfixDec
	default:
		return false
	}
}

// countParameters counts call arguments by paren-balanced comma counting
// from the opening parenthesis at openIdx.
func (e *Expression) countParameters(stn *token.Sentence, openIdx, endToken int) (int, bool) {
	level := 0
	count := 0
	sawAny := false
	prevComma := false
	for i := openIdx; i <= endToken; i++ {
		switch stn.At(i).Kind {
		case token.LParen, token.LBracket, token.LBrace:
			if level >= 1 {
				sawAny = true
				prevComma = false
			}
			level++
		case token.RParen:
			level--
			if level == 0 {
				if prevComma {
					e.err(diag.CodeSyntax, stn.At(i).Pos, "trailing comma in parameter list")
					return 0, false
				}
				if sawAny {
					count++
				}
				return count, true
			}
		case token.RBracket, token.RBrace:
			level--
		case token.Comma:
			if level == 1 {
				if !sawAny || prevComma {
					e.err(diag.CodeSyntax, stn.At(i).Pos, "misplaced comma in parameter list")
					return 0, false
				}
				count++
				prevComma = true
				continue
			}
		default:
			if level >= 1 {
				sawAny = true
				prevComma = false
			}
		}
	}
	e.err(diag.CodeSyntax, stn.At(openIdx).Pos, "unmatched ( in parameter list")
	return 0, false
}

// memberAccess handles the '.' operator: a field access or a method call.
func (e *Expression) memberAccess(stn *token.Sentence, dotIdx, endToken int) (int, bool) {
	pos := stn.At(dotIdx).Pos
	if !stn.Is(dotIdx+1, token.Ident) {
		e.err(diag.CodeSyntax, pos, "member operator must be followed by an identifier")
		return 0, false
	}
	name := stn.At(dotIdx + 1).Text
	if stn.Is(dotIdx+2, token.LParen) {
		parmNr, ok := e.countParameters(stn, dotIdx+2, endToken)
		if !ok {
			return 0, false
		}
		t := newToken(e.tab, IDMethod, pos)
		t.Name = name
		t.CallParmNr = parmNr
		e.tokens = append(e.tokens, t)
		return 2, true
	}
	t := newToken(e.tab, IDField, pos)
	t.Name = name
	e.tokens = append(e.tokens, t)
	return 2, true
}

// openParen disambiguates '(': a type cast, a declaration grouping, or a
// plain grouping delimiter.
func (e *Expression) openParen(scope sym.Scope, stn *token.Sentence, parIdx, endToken int) (int, bool) {
	pos := stn.At(parIdx).Pos
	next := stn.At(parIdx + 1)
	if next.Kind == token.Ident {
		if typIndex := e.tab.TypSearch(next.Text, scope); typIndex != -1 {
			specTyp, read, err := ReadTypeSpec(e.tab, stn, scope, parIdx+1)
			if err == nil {
				inside := stn.At(parIdx + 1 + read)
				switch inside.Kind {
				case token.Ident:
					// embedded declaration: "(int x" keeps the paren as a
					// grouping delimiter
					e.pushDelim(BegParen, pos)
					return 1, true
				case token.RParen:
					after := stn.At(parIdx + 2 + read)
					mst := e.tab.TypeMaster(specTyp)
					if mst == sym.MstEnum {
						e.err(diag.CodeType, pos, "cannot cast to enumerated type %s", e.tab.TypeName(specTyp))
						return 0, false
					}
					if mst == sym.MstClass && after.Kind != token.LBrace {
						e.err(diag.CodeType, pos, "class type %s is only a valid cast target for an initializer", e.tab.TypeName(specTyp))
						return 0, false
					}
					t := newToken(e.tab, IDOperator, pos)
					t.Operator = OpTypeCast
					t.CastTypIndex = specTyp
					e.tokens = append(e.tokens, t)
					return 2 + read, true
				}
			}
		}
	}
	e.pushDelim(BegParen, pos)
	return 1, true
}

// identifier resolves a plain identifier: module tracker alias, type name,
// variable, earlier undefined variable, or function call.
func (e *Expression) identifier(scope sym.Scope, stn *token.Sentence, idx, endToken int, codeBlockID int64) (consumed int, declared, armInit bool, ok bool) {
	tk := stn.At(idx)
	pos := tk.Pos
	name := tk.Text

	// module tracker alias: mod.name or mod.fn(...)
	if modIndex := e.tab.TrkSearch(name); modIndex != -1 && stn.Is(idx+1, token.Dot) && stn.Is(idx+2, token.Ident) {
		qname := stn.At(idx + 2).Text
		if stn.Is(idx+3, token.LParen) {
			parmNr, pok := e.countParameters(stn, idx+3, endToken)
			if !pok {
				return 0, false, false, false
			}
			t := newToken(e.tab, IDFunction, pos)
			t.Name = qname
			t.CallParmNr = parmNr
			t.FunModIndex = modIndex
			e.tokens = append(e.tokens, t)
			return 3, false, false, true
		}
		qualScope := sym.GlobalScope(sym.ScopePublic, modIndex)
		if varIndex := e.tab.VarSearch(qname, qualScope); varIndex != -1 {
			t := Token{}
			t.ThisVar(e.tab, varIndex, pos)
			e.tokens = append(e.tokens, t)
			return 3, false, false, true
		}
		e.err(diag.CodeName, pos, "module %s has no visible member %s", name, qname)
		return 0, false, false, false
	}

	// type name cases
	if typIndex := e.tab.TypSearch(name, scope); typIndex != -1 {
		return e.typeName(scope, stn, idx, endToken, typIndex, codeBlockID)
	}

	// variable
	if varIndex := e.tab.VarSearch(name, scope); varIndex != -1 {
		if stn.Is(idx+1, token.LParen) {
			e.err(diag.CodeName, pos, "%s is a variable, not a function", name)
			return 0, false, false, false
		}
		t := Token{}
		t.ThisVar(e.tab, varIndex, pos)
		e.tokens = append(e.tokens, t)
		return 1, false, false, true
	}

	// function call
	if stn.Is(idx+1, token.LParen) {
		parmNr, pok := e.countParameters(stn, idx+1, endToken)
		if !pok {
			return 0, false, false, false
		}
		t := newToken(e.tab, IDFunction, pos)
		t.Name = name
		t.CallParmNr = parmNr
		e.tokens = append(e.tokens, t)
		return 1, false, false, true
	}

	// undefined variable already introduced earlier in this expression,
	// including the element and index names of an array group
	for j := range e.tokens {
		prev := &e.tokens[j]
		arrName := prev.id == IDFlowOpr && (prev.Flow == ArrOnvar || prev.Flow == ArrOxvar || prev.Flow == ArrIxvar)
		if (prev.id == IDUndefVar || arrName) && prev.Name == name {
			t := newToken(e.tab, IDUndefVar, pos)
			t.Name = name
			t.FlowLabel = e.tokens[j].FlowLabel
			e.tokens = append(e.tokens, t)
			return 1, false, false, true
		}
	}

	e.err(diag.CodeName, pos, "undefined identifier %s", name)
	return 0, false, false, false
}

// typeName handles the three type-name sub-cases: enum literal or meta
// constant (Type.ident), constructor call (Type '('), and local declaration
// (Type identifier).
func (e *Expression) typeName(scope sym.Scope, stn *token.Sentence, idx, endToken, typIndex int, codeBlockID int64) (consumed int, declared, armInit bool, ok bool) {
	pos := stn.At(idx).Pos

	if stn.Is(idx+1, token.Dot) && stn.Is(idx+2, token.Ident) {
		member := stn.At(idx + 2).Text
		t := Token{}
		switch member {
		case "fieldnames":
			t.AsMetaFldNames(e.tab, typIndex, pos)
		case "fieldtypes":
			t.AsMetaFldTypes(e.tab, typIndex, pos)
		case "typename":
			t.AsMetaTypName(e.tab, typIndex, pos)
		default:
			if e.tab.TypeMaster(typIndex) != sym.MstEnum {
				e.err(diag.CodeName, pos, "type %s has no member %s", e.tab.TypeName(typIndex), member)
				return 0, false, false, false
			}
			fldIndex := e.tab.FldSearch(typIndex, member)
			if fldIndex == -1 {
				e.err(diag.CodeName, pos, "enumerated type %s has no member %s", e.tab.TypeName(typIndex), member)
				return 0, false, false, false
			}
			t.ThisEnu(e.tab, typIndex, e.tab.Fields[fldIndex].EnumValue, pos)
		}
		e.tokens = append(e.tokens, t)
		return 3, false, false, true
	}

	if stn.Is(idx+1, token.LParen) {
		if e.tab.TypeMaster(typIndex) != sym.MstClass {
			e.err(diag.CodeType, pos, "type %s has no constructor", e.tab.TypeName(typIndex))
			return 0, false, false, false
		}
		parmNr, pok := e.countParameters(stn, idx+1, endToken)
		if !pok {
			return 0, false, false, false
		}
		t := newToken(e.tab, IDConstructor, pos)
		t.CCTypIndex = typIndex
		t.CallParmNr = parmNr
		e.tokens = append(e.tokens, t)
		return 1, false, false, true
	}

	// local declaration: full type spec then identifier
	specTyp, read, err := ReadTypeSpec(e.tab, stn, scope, idx)
	if err != nil {
		e.err(diag.CodeType, pos, "%s", err.Error())
		return 0, false, false, false
	}
	nameTk := stn.At(idx + read)
	if nameTk.Kind != token.Ident {
		e.err(diag.CodeSyntax, pos, "expected identifier after type %s", e.tab.TypeName(specTyp))
		return 0, false, false, false
	}
	if e.tab.VarSearch(nameTk.Text, scope) != -1 {
		e.err(diag.CodeName, nameTk.Pos, "variable %s is already declared", nameTk.Text)
		return 0, false, false, false
	}
	if coll := e.tab.DotCollissionCheck(nameTk.Text, scope); coll != "" {
		e.err(diag.CodeName, nameTk.Pos, "variable name %s collides with member %s", nameTk.Text, coll)
		return 0, false, false, false
	}
	varIndex := e.tab.StoreVariable(sym.Variable{
		Name:        nameTk.Text,
		TypIndex:    specTyp,
		Scope:       scope,
		CodeBlockID: codeBlockID,
	})
	t := Token{}
	t.ThisVar(e.tab, varIndex, nameTk.Pos)
	e.tokens = append(e.tokens, t)
	e.asm.OutVarDecl(e.tab.TypeName(specTyp), nameTk.Text, e.tab.Vars[varIndex].Address, false)
	return read + 1, true, true, true
}
