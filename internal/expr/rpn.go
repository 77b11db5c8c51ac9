package expr

import "ember/internal/diag"

// checkConsistency runs surface checks over the infix tokens before
// conversion: operand presence around operators and balanced delimiters.
func (e *Expression) checkConsistency() bool {
	bra, par, cly := 0, 0, 0
	for i := range e.tokens {
		t := &e.tokens[i]
		switch t.id {
		case IDOperator:
			info := t.Operator.Info()
			if info.OperandNr == 2 && t.Operator != OpTypeCast {
				if !e.operandOnLeftOf(i) {
					return e.err(diag.CodeSyntax, t.pos, "operator %s has no operand on its left side", info.Text)
				}
				if !e.operandOnRightOf(i) {
					return e.err(diag.CodeSyntax, t.pos, "operator %s has no operand on its right side", info.Text)
				}
			}
			if info.OperandNr == 1 {
				post := t.Operator == OpPostfixInc || t.Operator == OpPostfixDec
				if post && !e.operandOnLeftOf(i) {
					return e.err(diag.CodeSyntax, t.pos, "operator %s has no operand on its left side", info.Text)
				}
				if !post && t.Operator != OpTypeCast && !e.operandOnRightOf(i) {
					return e.err(diag.CodeSyntax, t.pos, "operator %s has no operand on its right side", info.Text)
				}
			}
		case IDDelimiter:
			switch t.Delim {
			case BegParen:
				par++
			case EndParen:
				par--
			case BegBracket:
				bra++
			case EndBracket:
				bra--
			case BegCurly:
				cly++
			case EndCurly:
				cly--
			}
			if par < 0 {
				return e.err(diag.CodeSyntax, t.pos, "unmatched )")
			}
			if bra < 0 {
				return e.err(diag.CodeSyntax, t.pos, "unmatched ]")
			}
			if cly < 0 {
				return e.err(diag.CodeSyntax, t.pos, "unmatched }")
			}
		}
	}
	if par != 0 {
		return e.err(diag.CodeSyntax, e.tokens[len(e.tokens)-1].pos, "unmatched (")
	}
	if bra != 0 {
		return e.err(diag.CodeSyntax, e.tokens[len(e.tokens)-1].pos, "unmatched [")
	}
	if cly != 0 {
		return e.err(diag.CodeSyntax, e.tokens[len(e.tokens)-1].pos, "unmatched {")
	}
	return true
}

// operandOnLeftOf applies the operand-detection predicate to the token left
// of index i.
func (e *Expression) operandOnLeftOf(i int) bool {
	if i == 0 {
		return false
	}
	t := &e.tokens[i-1]
	switch t.id {
	case IDOperand, IDUndefVar, IDField:
		return true
	case IDDelimiter:
		return t.Delim == EndParen || t.Delim == EndBracket || t.Delim == EndCurly
	case IDOperator:
		return t.Operator == OpPostfixInc || t.Operator == OpPostfixDec
	default:
		return false
	}
}

// operandOnRightOf applies the symmetric predicate to the token right of
// index i.
func (e *Expression) operandOnRightOf(i int) bool {
	if i+1 >= len(e.tokens) {
		return false
	}
	t := &e.tokens[i+1]
	switch t.id {
	case IDOperand, IDUndefVar, IDFunction, IDConstructor, IDComplex:
		return true
	case IDDelimiter:
		return t.Delim == BegParen || t.Delim == BegCurly
	case IDOperator:
		switch t.Operator {
		case OpPrefixInc, OpPrefixDec, OpUnaryPlus, OpUnaryMinus, OpLogicalNot, OpBitwiseNot, OpTypeCast:
			return true
		}
		return false
	case IDFlowOpr:
		return true
	default:
		return false
	}
}

// infix2RPN converts the token list to reverse polish notation with the
// classical shunting-yard algorithm extended for subscripts, calls, complex
// values and the precedence-0 ternary and flow operators.
func (e *Expression) infix2RPN() bool {
	var out, stack []Token

	isOpener := func(t *Token) bool {
		return t.id == IDDelimiter && (t.Delim == BegParen || t.Delim == BegBracket || t.Delim == BegCurly)
	}
	isCallShaped := func(t *Token) bool {
		return t.id == IDFunction || t.id == IDMethod || t.id == IDConstructor
	}
	// flush pops operators to the output until a delimiter or a call-shaped
	// token; minPrec stops the pop for lower-precedence stack tops.
	flush := func(minPrec int, rightAssoc bool) {
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if isOpener(top) || isCallShaped(top) || top.id == IDComplex {
				return
			}
			p := top.Operator.Info().Prec
			if p < minPrec || (rightAssoc && p == minPrec) {
				return
			}
			out = append(out, *top)
			stack = stack[:len(stack)-1]
		}
	}

	for i := range e.tokens {
		t := e.tokens[i]
		switch t.id {
		case IDOperand, IDUndefVar, IDField, IDVoidRes:
			out = append(out, t)

		case IDOperator:
			info := t.Operator.Info()
			flush(info.Prec, info.Assoc == RightAssoc)
			stack = append(stack, t)

		case IDLowLevelOpr, IDFlowOpr:
			// precedence 0: flush everything down to the nearest opener and
			// go straight to the output so the evaluator sees the marker in
			// program order
			flush(0, false)
			out = append(out, t)

		case IDFunction, IDMethod, IDConstructor, IDComplex:
			stack = append(stack, t)

		case IDDelimiter:
			switch t.Delim {
			case BegParen, BegCurly:
				stack = append(stack, t)

			case BegBracket:
				flush(14, false)
				t.DimNr = 0
				stack = append(stack, t)

			case EndParen:
				for len(stack) > 0 && !isOpener(&stack[len(stack)-1]) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 || stack[len(stack)-1].Delim != BegParen {
					return e.err(diag.CodeSyntax, t.pos, "unmatched )")
				}
				stack = stack[:len(stack)-1]
				if len(stack) > 0 && isCallShaped(&stack[len(stack)-1]) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}

			case EndBracket:
				for len(stack) > 0 && !isOpener(&stack[len(stack)-1]) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 || stack[len(stack)-1].Delim != BegBracket {
					return e.err(diag.CodeSyntax, t.pos, "unmatched ]")
				}
				sub := newToken(e.tab, IDSubscript, t.pos)
				sub.DimNr = stack[len(stack)-1].DimNr + 1
				stack = stack[:len(stack)-1]
				out = append(out, sub)

			case EndCurly:
				for len(stack) > 0 && !isOpener(&stack[len(stack)-1]) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 || stack[len(stack)-1].Delim != BegCurly {
					return e.err(diag.CodeSyntax, t.pos, "unmatched }")
				}
				stack = stack[:len(stack)-1]
				if len(stack) > 0 && stack[len(stack)-1].id == IDComplex {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}

			case CommaSep:
				for len(stack) > 0 && !isOpener(&stack[len(stack)-1]) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 {
					return e.err(diag.CodeSyntax, t.pos, "comma outside of any call, subscript or initializer")
				}
				if stack[len(stack)-1].Delim == BegBracket {
					stack[len(stack)-1].DimNr++
				}
			}

		default:
			return e.err(diag.CodeInternal, t.pos, "unexpected %s token during conversion", t.id)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if isOpener(&top) {
			return e.err(diag.CodeSyntax, top.pos, "unmatched %s", top.Delim)
		}
		out = append(out, top)
		stack = stack[:len(stack)-1]
	}
	e.tokens = out
	return true
}
