package token

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ember/internal/source"
)

var keywords = map[string]Kind{
	"var":    KwVar,
	"for":    KwFor,
	"array":  KwArray,
	"if":     KwIf,
	"do":     KwDo,
	"return": KwReturn,
	"on":     KwOn,
	"index":  KwIndex,
	"as":     KwAs,
	"true":   BoolLit,
	"false":  BoolLit,
}

// operator and punctuation spellings, longest first
var punct = []struct {
	text string
	kind Kind
}{
	{"<<=", ShlAssign}, {">>=", ShrAssign},
	{"++", PlusPlus}, {"--", MinusMinus}, {"+=", PlusAssign}, {"-=", MinusAssign},
	{"*=", StarAssign}, {"/=", SlashAssign}, {"%=", PercentAssign},
	{"&=", AmpAssign}, {"|=", PipeAssign}, {"^=", CaretAssign},
	{"==", EqEq}, {"!=", BangEq}, {"<=", LtEq}, {">=", GtEq},
	{"<<", Shl}, {">>", Shr}, {"&&", AndAnd}, {"||", OrOr}, {"->", Arrow},
	{"+", Plus}, {"-", Minus}, {"*", Star}, {"/", Slash}, {"%", Percent},
	{"=", Assign}, {"!", Bang}, {"~", Tilde}, {"<", Lt}, {">", Gt},
	{"&", Amp}, {"|", Pipe}, {"^", Caret}, {"?", Question}, {":", Colon},
	{",", Comma}, {".", Dot}, {"(", LParen}, {")", RParen},
	{"[", LBracket}, {"]", RBracket}, {"{", LBrace}, {"}", RBrace},
	{";", Semicolon},
}

// Scan tokenizes one line of source text into a sentence. The scanner covers
// only what the expression compiler consumes; statement-level syntax lives in
// the front-end proper.
func Scan(file string, line int, text string) (*Sentence, error) {
	stn := &Sentence{Origin: text}
	col := 1
	for len(text) > 0 {
		ws := len(text) - len(strings.TrimLeft(text, " \t"))
		col += ws
		text = text[ws:]
		if text == "" {
			break
		}
		pos := source.Pos{File: file, Line: line, Col: col}
		c := text[0]
		switch {
		case isIdentStart(c):
			n := 1
			for n < len(text) && isIdentPart(text[n]) {
				n++
			}
			word := text[:n]
			tok := Token{Kind: Ident, Pos: pos, Text: word}
			if kw, ok := keywords[word]; ok {
				tok.Kind = kw
				if kw == BoolLit {
					tok.Bol = word == "true"
				}
			}
			stn.Tokens = append(stn.Tokens, tok)
			text, col = text[n:], col+n
		case c >= '0' && c <= '9':
			tok, n, err := scanNumber(text, pos)
			if err != nil {
				return nil, err
			}
			stn.Tokens = append(stn.Tokens, tok)
			text, col = text[n:], col+n
		case c == '"':
			body, n, err := scanQuoted(text, '"')
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pos, err)
			}
			stn.Tokens = append(stn.Tokens, Token{Kind: StringLit, Pos: pos, Text: body})
			text, col = text[n:], col+n
		case c == '\'':
			body, n, err := scanQuoted(text, '\'')
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pos, err)
			}
			if len(body) != 1 {
				return nil, fmt.Errorf("%s: char literal must hold exactly one character", pos)
			}
			stn.Tokens = append(stn.Tokens, Token{Kind: CharLit, Pos: pos, Chr: body[0]})
			text, col = text[n:], col+n
		default:
			matched := false
			for _, p := range punct {
				if strings.HasPrefix(text, p.text) {
					stn.Tokens = append(stn.Tokens, Token{Kind: p.kind, Pos: pos, Text: p.text})
					text, col = text[len(p.text):], col+len(p.text)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("%s: unexpected character %q", pos, c)
			}
		}
	}
	return stn, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func scanNumber(text string, pos source.Pos) (Token, int, error) {
	n := 0
	isFloat := false
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n = 2
		for n < len(text) && isHexDigit(text[n]) {
			n++
		}
	} else {
		for n < len(text) && text[n] >= '0' && text[n] <= '9' {
			n++
		}
		if n < len(text) && text[n] == '.' && n+1 < len(text) && text[n+1] >= '0' && text[n+1] <= '9' {
			isFloat = true
			n++
			for n < len(text) && text[n] >= '0' && text[n] <= '9' {
				n++
			}
		}
		if n < len(text) && (text[n] == 'e' || text[n] == 'E') {
			m := n + 1
			if m < len(text) && (text[m] == '+' || text[m] == '-') {
				m++
			}
			if m < len(text) && text[m] >= '0' && text[m] <= '9' {
				isFloat = true
				n = m
				for n < len(text) && text[n] >= '0' && text[n] <= '9' {
					n++
				}
			}
		}
	}
	digits := text[:n]
	if isFloat {
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return Token{}, 0, fmt.Errorf("%s: bad float literal %q", pos, digits)
		}
		return Token{Kind: FloatLit, Pos: pos, Flo: f, Text: digits}, n, nil
	}
	// Optional width designator.
	kind := Kind(0)
	if n < len(text) {
		switch text[n] {
		case 'S':
			kind, n = ShortLit, n+1
		case 'L':
			kind, n = LongLit, n+1
		}
	}
	v, err := strconv.ParseInt(digits, 0, 64)
	if err != nil {
		return Token{}, 0, fmt.Errorf("%s: bad integer literal %q", pos, digits)
	}
	if kind == 0 {
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			kind = IntLit
		} else {
			kind = LongLit
		}
	}
	if kind == ShortLit && (v < math.MinInt16 || v > math.MaxInt16) {
		return Token{}, 0, fmt.Errorf("%s: short literal %q out of range", pos, digits)
	}
	if kind == IntLit && (v < math.MinInt32 || v > math.MaxInt32) {
		return Token{}, 0, fmt.Errorf("%s: integer literal %q out of range", pos, digits)
	}
	return Token{Kind: kind, Pos: pos, Int: v, Text: digits}, n, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func scanQuoted(text string, quote byte) (string, int, error) {
	var sb strings.Builder
	i := 1
	for i < len(text) {
		c := text[i]
		switch c {
		case quote:
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(text) {
				return "", 0, fmt.Errorf("unterminated escape sequence")
			}
			switch text[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case quote:
				sb.WriteByte(quote)
			case '0':
				sb.WriteByte(0)
			default:
				return "", 0, fmt.Errorf("unknown escape \\%c", text[i+1])
			}
			i += 2
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated literal")
}
