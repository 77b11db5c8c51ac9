package expr

import (
	"fmt"

	"ember/internal/diag"
	"ember/internal/emit"
	"ember/internal/source"
	"ember/internal/sym"
	"ember/internal/token"
)

// Expression compiles one expression at a time: it tokenizes a parser-token
// range, binds ternaries, converts to RPN, and either folds the result to a
// literal or evaluates the RPN emitting VM instructions.
//
// The expression owns only its tokens and stacks; symbol tables and the
// emitter are external collaborators reached through narrow interfaces.
// Compilation is single-threaded and fail-fast: the first error aborts the
// current expression and the statement compiler decides what happens next.
type Expression struct {
	tab *sym.Table
	asm *emit.Assembler
	bag *diag.Bag

	fileName string
	tokens   []Token
	origin   string
}

// New creates an expression compiler bound to its collaborators.
func New(tab *sym.Table, asm *emit.Assembler, bag *diag.Bag) *Expression {
	return &Expression{tab: tab, asm: asm, bag: bag}
}

// err reports an error diagnostic and returns false so call sites can
// propagate failure in one line.
func (e *Expression) err(code diag.Code, pos source.Pos, format string, args ...any) bool {
	e.bag.Add(diag.Errorf(code, pos, format, args...))
	return false
}

// warn reports a warning diagnostic.
func (e *Expression) warn(code diag.Code, pos source.Pos, format string, args ...any) {
	e.bag.Add(diag.Warnf(code, pos, format, args...))
}

// Print returns the expression tokens in a compact printable form.
func (e *Expression) Print() string {
	s := ""
	for i := range e.tokens {
		if i > 0 {
			s += " "
		}
		s += e.tokens[i].Print()
	}
	return s
}

// prepare runs stages 1-3: tokenize, surface checks, ternary binding and
// the infix to RPN conversion.
func (e *Expression) prepare(scope sym.Scope, stn *token.Sentence, begToken, endToken int) bool {
	e.tokens = nil
	e.origin = stn.Origin
	if !e.tokenize(scope, stn, begToken, endToken) {
		return false
	}
	if !e.checkConsistency() {
		return false
	}
	if !e.ternaryOperatorTokenize() {
		return false
	}
	if !e.infix2RPN() {
		return false
	}
	return true
}

// CompileResult compiles the expression and returns its result token.
// Literal-foldable expressions reduce to a single literal operand without
// emitting any instruction.
func (e *Expression) CompileResult(scope sym.Scope, stn *token.Sentence, begToken, endToken int) (Token, bool) {
	defer e.bag.Flush()
	if !e.prepare(scope, stn, begToken, endToken) {
		return Token{}, false
	}
	if comp, ok := e.isComputable(); ok && comp {
		return e.compute()
	}
	return e.compile(scope, true)
}

// CompileVoid compiles an expression whose result is discarded.
func (e *Expression) CompileVoid(scope sym.Scope, stn *token.Sentence, begToken, endToken int) bool {
	defer e.bag.Flush()
	if !e.prepare(scope, stn, begToken, endToken) {
		return false
	}
	_, ok := e.compile(scope, false)
	return ok
}

// Compute evaluates the expression at compile time and refuses anything not
// foldable. No instruction is ever emitted.
func (e *Expression) Compute(scope sym.Scope, stn *token.Sentence, begToken, endToken int) (Token, bool) {
	defer e.bag.Flush()
	if !e.prepare(scope, stn, begToken, endToken) {
		return Token{}, false
	}
	comp, ok := e.isComputable()
	if !ok {
		return Token{}, false
	}
	if !comp {
		pos := source.Pos{File: e.fileName}
		if len(e.tokens) > 0 {
			pos = e.tokens[0].pos
		}
		e.err(diag.CodeNotComputable, pos, "expression is not computable at compile time")
		return Token{}, false
	}
	return e.compute()
}

// isComputable reports whether the RPN holds only literal-foldable
// operators over literal operands.
func (e *Expression) isComputable() (bool, bool) {
	for i := range e.tokens {
		t := &e.tokens[i]
		switch t.id {
		case IDOperand:
			if !t.IsComputableOperand() {
				return false, true
			}
		case IDOperator:
			if !t.IsComputableOperator() {
				return false, true
			}
		default:
			return false, true
		}
	}
	return len(e.tokens) > 0, true
}

// CopyOperand writes src into dst with inner-block replication; the
// statement compiler uses it for value construction outside expressions.
func (e *Expression) CopyOperand(dst, src *Token) bool {
	return e.copyOperand(dst, src)
}

// InitOperand builds a default value in dst.
func (e *Expression) InitOperand(dst *Token) bool {
	return e.initOperand(dst)
}

// CompileDataTypePromotion promotes an operand to the target master type,
// folding literals and emitting conversions for everything else.
func (e *Expression) CompileDataTypePromotion(scope sym.Scope, codeBlockID int64, opnd *Token, toMst sym.MasterType) bool {
	return e.compileDataTypePromotion(scope, codeBlockID, opnd, toMst)
}

// assertStack flags an internal inconsistency when the operand stack does
// not hold what an operator needs.
func (e *Expression) assertStack(have, need int, what string, pos source.Pos) bool {
	if have < need {
		return e.err(diag.CodeInternal, pos, "operand stack holds %d entries, %s needs %d", have, what, need)
	}
	return true
}

// labelName formats a generated label: ternary labels use the CN prefix,
// flow labels the FW prefix, both with a zero-padded seed.
func labelName(flow bool, seed int64, suffix string) string {
	prefix := "CN"
	if flow {
		prefix = "FW"
	}
	return fmt.Sprintf("%s%04d%s", prefix, seed, suffix)
}
