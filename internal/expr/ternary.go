package expr

import "ember/internal/diag"

// ternaryOperatorTokenize binds every ? : pair to a fresh label seed and
// inserts the synthetic TernaryEnd token just before the parenthesis that
// closes the conditional. The scan repeats until no unlabeled ? remains.
func (e *Expression) ternaryOperatorTokenize() bool {
	for {
		qIdx := -1
		var qBra, qPar, qCly int
		bra, par, cly := 0, 0, 0
		for i := range e.tokens {
			t := &e.tokens[i]
			if t.id == IDDelimiter {
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
				continue
			}
			if t.id == IDLowLevelOpr && t.LowLevel == TernaryCond && t.LabelSeed == -1 {
				if par <= 0 {
					return e.err(diag.CodeSyntax, t.pos, "ternary operator must be enclosed in parentheses")
				}
				qIdx, qBra, qPar, qCly = i, bra, par, cly
				break
			}
		}
		if qIdx == -1 {
			return true
		}

		seed := e.tab.GetLabelGenerator()
		e.tab.IncreaseLabelGenerator()
		e.tokens[qIdx].LabelSeed = seed

		// locate the matching ':' at the same nesting levels
		bra, par, cly = qBra, qPar, qCly
		midIdx := -1
		i := qIdx + 1
		for ; i < len(e.tokens); i++ {
			t := &e.tokens[i]
			if t.id == IDDelimiter {
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
				continue
			}
			if t.id == IDLowLevelOpr && t.LowLevel == TernaryMid && t.LabelSeed == -1 &&
				bra == qBra && par == qPar && cly == qCly {
				midIdx = i
				e.tokens[i].LabelSeed = seed
				break
			}
		}
		if midIdx == -1 {
			return e.err(diag.CodeSyntax, e.tokens[qIdx].pos, "ternary ? without a matching :")
		}

		// locate the parenthesis closing the conditional and insert the
		// synthetic end token just before it
		endIdx := -1
		for i = midIdx + 1; i < len(e.tokens); i++ {
			t := &e.tokens[i]
			if t.id != IDDelimiter {
				continue
			}
			switch t.Delim {
			case BegParen:
				par++
			case EndParen:
				par--
				if par < qPar {
					endIdx = i
				}
			case BegBracket:
				bra++
			case EndBracket:
				bra--
			case BegCurly:
				cly++
			case EndCurly:
				cly--
			}
			if endIdx != -1 {
				break
			}
		}
		if endIdx == -1 {
			return e.err(diag.CodeSyntax, e.tokens[qIdx].pos, "ternary operator without a closing parenthesis")
		}
		end := newToken(e.tab, IDLowLevelOpr, e.tokens[endIdx].pos)
		end.LowLevel = TernaryEnd
		end.LabelSeed = seed
		e.tokens = append(e.tokens, Token{})
		copy(e.tokens[endIdx+1:], e.tokens[endIdx:])
		e.tokens[endIdx] = end
	}
}
