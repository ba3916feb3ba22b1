package bexpr

import (
	"unicode"
)

// Lexer is responsible for scanning an equation and producing tokens.
type Lexer struct {
	src      string
	input    []rune // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer for the given equation text.
func NewLexer(input string) *Lexer {
	return &Lexer{
		src:    input,
		input:  []rune(input),
		tokens: make([]Token, 0),
	}
}

// Tokenize is a shortcut for NewLexer(text).Tokenize().
func Tokenize(text string) ([]Token, error) {
	return NewLexer(text).Tokenize()
}

// Tokenize scans the whole input. The result always ends with a TokenEOF
// positioned just past the last rune. The first unrecognised character stops
// scanning with a *GrammarError pointing at it.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		start := l.position
		switch c := l.input[l.position]; {
		case unicode.IsSpace(c):
			l.position++

		case c == '(':
			l.addToken(TokenLParen, "(", start, 0)
			l.position++

		case c == ')':
			l.addToken(TokenRParen, ")", start, 0)
			l.position++

		case c == '=':
			l.addToken(TokenAssign, "=", start, 0)
			l.position++

		case isIdentStart(c):
			l.lexWord(start)

		case unicode.IsDigit(c):
			return nil, l.errorf(ReasonUnknownToken, start, "operand names cannot start with a digit")

		default:
			if !l.lexSymbol(start) {
				return nil, l.errorf(ReasonUnknownToken, start, "unexpected character %q", c)
			}
		}
	}

	l.addToken(TokenEOF, "", len(l.input), 0)
	return l.tokens, nil
}

// lexWord scans an identifier and classifies it as an operator word or an
// operand name. Scanning the whole word first keeps e.g. "andy" an operand.
func (l *Lexer) lexWord(start int) {
	for l.position < len(l.input) && isIdentRune(l.input[l.position]) {
		l.position++
	}
	word := string(l.input[start:l.position])
	if op, ok := lookupWord(word); ok {
		l.addToken(TokenOperator, word, start, op)
		return
	}
	l.addToken(TokenOperand, word, start, 0)
}

// lexSymbol consumes the longest symbolic operator at the current position.
func (l *Lexer) lexSymbol(start int) bool {
	for _, sym := range symbolOperators {
		n := len(sym.text)
		if start+n > len(l.input) {
			continue
		}
		if string(l.input[start:start+n]) == sym.text {
			l.addToken(TokenOperator, sym.text, start, sym.op)
			l.position += n
			return true
		}
	}
	return false
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(kind TokenKind, text string, pos int, op Operator) {
	l.tokens = append(l.tokens, Token{
		Kind: kind,
		Text: text,
		Pos:  pos,
		Op:   op,
	})
}

func (l *Lexer) errorf(reason Reason, pos int, format string, args ...any) error {
	return newGrammarError(reason, l.src, pos, format, args...)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
