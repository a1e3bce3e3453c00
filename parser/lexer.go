package parser

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"strings"
	"unicode"
)

// Lexer turns the query string into tokens on demand. It provides exactly one token of lookahead and remembers the
// most recently consumed token. A Lexer must not be used by multiple goroutines at the same time.
type Lexer struct {
	input     []rune
	index     int // Position in input.
	lookahead *Token
	token     *Token
}

func NewLexer() *Lexer {
	return &Lexer{}
}

// Reset clears the input and all tokens.
func (l *Lexer) Reset() {
	l.input = nil
	l.index = 0
	l.lookahead = nil
	l.token = nil
}

// SetInput stores the text to tokenize and moves the cursor to its start. The first call to MoveNext then fills the
// lookahead.
func (l *Lexer) SetInput(text string) {
	l.input = []rune(text)
	l.index = 0
}

// MoveNext makes the lookahead the current token and scans the next lookahead. It returns false when the lookahead
// became nil, i.e. the end of the input has been reached. Lexical errors stop the lexer.
func (l *Lexer) MoveNext() (bool, error) {
	l.token = l.lookahead

	next, err := l.nextToken()
	if err != nil {
		l.lookahead = nil
		return false, err
	}
	l.lookahead = next

	if next == nil {
		l.tracef("Reached end of input")
		return false, nil
	}

	l.tracef("Found token kind=%s, pos=%d, lexeme=\"%s\"", next.kind.String(), next.startPosition, next.lexeme)
	return true, nil
}

// IsNextToken returns true if the lookahead is of the given kind. Nothing is consumed.
func (l *Lexer) IsNextToken(kind TokenKind) bool {
	return l.lookahead != nil && l.lookahead.kind == kind
}

// Lookahead returns the next token or nil at the end of the input.
func (l *Lexer) Lookahead() *Token {
	return l.lookahead
}

// Token returns the most recently consumed token.
func (l *Lexer) Token() *Token {
	return l.token
}

// Literal returns the human-readable name of the token kind for error messages.
func (l *Lexer) Literal(kind TokenKind) string {
	return kind.Lexeme()
}

// char returns the rune at the current location or the rune '-1' if there is no next char.
func (l *Lexer) char() rune {
	if l.index >= len(l.input) {
		return -1
	}
	return l.input[l.index]
}

// nextChar returns the next rune, so the one after the rune char() returns, or the rune '-1' if there is no next char.
func (l *Lexer) nextChar() rune {
	if l.index+1 >= len(l.input) {
		return -1
	}
	return l.input[l.index+1]
}

// nextToken returns the token starting at the current index or nil if only whitespace is left.
func (l *Lexer) nextToken() (*Token, error) {
	for ; l.index < len(l.input); l.index++ {
		char := l.char()
		l.tracef("Process next char")

		if unicode.IsSpace(char) {
			continue
		}

		// Single-char token and literals with a distinct first char
		switch char {
		case ',':
			return l.currentSingleCharToken(TokenKindComma), nil
		case '.':
			return l.currentSingleCharToken(TokenKindDot), nil
		case '*':
			return l.currentSingleCharToken(TokenKindFindAll), nil
		case '\'', '"':
			return l.currentString()
		case ':':
			return l.currentNamedPlaceholder()
		case '?':
			return nil, NewLexicalError(l.index, "positional placeholder '?' without value or not following '=', ',' or '('")
		}

		// Keywords and identifier
		if isIdentifierStart(char) {
			return l.currentWord(), nil
		}

		// Numbers, optionally negative
		if unicode.IsDigit(char) || (char == '-' && unicode.IsDigit(l.nextChar())) {
			return l.currentNumber(), nil
		}

		// Operators
		switch char {
		case '!':
			if l.nextChar() == '=' {
				return l.currentMultiCharToken(TokenKindOperator, 2), nil
			}
			return nil, NewLexicalError(l.index, "expected '=' after '!'")
		case '<', '>':
			if l.nextChar() == '=' {
				return l.currentMultiCharToken(TokenKindOperator, 2), nil
			}
			return l.currentSingleCharToken(TokenKindOperator), nil
		case '=':
			return l.currentSingleCharToken(TokenKindOperator), nil
		}

		return nil, NewLexicalError(l.index, "unexpected character '%c'", char)
	}

	return nil, nil
}

func isIdentifierStart(char rune) bool {
	return unicode.IsLetter(char) || char == '_' || char == '$'
}

func isIdentifierPart(char rune) bool {
	return isIdentifierStart(char) || unicode.IsDigit(char)
}

func (l *Lexer) currentSingleCharToken(tokenKind TokenKind) *Token {
	token := &Token{
		kind:          tokenKind,
		lexeme:        string(l.char()),
		startPosition: l.index,
	}
	l.index++
	return token
}

func (l *Lexer) currentMultiCharToken(tokenKind TokenKind, chars int) *Token {
	token := &Token{
		kind:          tokenKind,
		lexeme:        string(l.input[l.index : l.index+chars]),
		startPosition: l.index,
	}
	l.index += chars
	return token
}

// currentWord returns the keyword or identifier starting at the current index. Keywords are case-insensitive but the
// lexeme keeps the spelling of the input.
func (l *Lexer) currentWord() *Token {
	startIndex := l.index

	for ; l.index < len(l.input) && isIdentifierPart(l.char()); l.index++ {
	}

	lexeme := string(l.input[startIndex:l.index])
	kind := TokenKindIdentifier
	if keyword, isKeyword := keywordKind(lexeme); isKeyword {
		kind = keyword
	}

	return &Token{
		kind:          kind,
		lexeme:        lexeme,
		startPosition: startIndex,
	}
}

// currentNamedPlaceholder handles ":name". The result is an identifier token with the lexeme "name", which is resolved
// against the named parameters when the value is prepared.
func (l *Lexer) currentNamedPlaceholder() (*Token, error) {
	startIndex := l.index
	if !isIdentifierStart(l.nextChar()) {
		return nil, NewLexicalError(startIndex, "expected parameter name after ':'")
	}
	l.index++

	token := l.currentWord()
	return &Token{
		kind:          TokenKindIdentifier,
		lexeme:        token.lexeme,
		startPosition: startIndex,
	}, nil
}

// currentNumber reads integers and decimals. Right after a '.' token (e.g. "tags.0.name") only the integer part is
// read, since the following '.' separates path segments.
func (l *Lexer) currentNumber() *Token {
	startIndex := l.index
	isPathSegment := l.lookahead != nil && l.lookahead.kind == TokenKindDot

	if l.char() == '-' {
		l.index++
	}
	for ; l.index < len(l.input) && unicode.IsDigit(l.char()); l.index++ {
	}

	if !isPathSegment && l.char() == '.' && unicode.IsDigit(l.nextChar()) {
		l.index++
		for ; l.index < len(l.input) && unicode.IsDigit(l.char()); l.index++ {
		}
	}

	return &Token{
		kind:          TokenKindNumber,
		lexeme:        string(l.input[startIndex:l.index]),
		startPosition: startIndex,
	}
}

// currentString reads a single- or double-quoted string literal. The lexeme is the content without the surrounding
// quotes and with escape sequences resolved.
func (l *Lexer) currentString() (*Token, error) {
	quote := l.char()
	startIndex := l.index
	var lexeme strings.Builder

	for l.index++; l.index < len(l.input); l.index++ {
		char := l.char()

		if char == quote {
			l.index++
			return &Token{
				kind:          TokenKindString,
				lexeme:        lexeme.String(),
				startPosition: startIndex,
			}, nil
		}

		if char == '\\' {
			l.index++
			switch l.char() {
			case -1:
				return nil, NewLexicalError(startIndex, "unterminated string literal")
			case 'n':
				lexeme.WriteRune('\n')
			case 't':
				lexeme.WriteRune('\t')
			default:
				lexeme.WriteRune(l.char())
			}
			continue
		}

		lexeme.WriteRune(char)
	}

	return nil, NewLexicalError(startIndex, "unterminated string literal")
}

func (l *Lexer) tracef(format string, args ...any) {
	formattedMessage := format
	if len(args) > 0 {
		formattedMessage = fmt.Sprintf(format, args...)
	}
	sigolo.Traceb(1, "[%d, %q] %s", l.index, l.char(), formattedMessage)
}
