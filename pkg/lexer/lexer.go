package lexer

// Lexer splits OBJ source into tokens. `%` starts a comment running to end of
// line. Identifiers may end in `?` or `!` (zero?, not?).
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
	column  int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token, consuming it.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = EOF
		return tok
	case '=':
		tok.Type, tok.Literal = ASSIGN, "="
	case '<':
		tok.Type, tok.Literal = LT, "<"
	case '>':
		tok.Type, tok.Literal = GT, ">"
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '{':
		tok.Type, tok.Literal = LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = RBRACE, "}"
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case '.':
		tok.Type, tok.Literal = DOT, "."
	case '!':
		if l.peekChar() == '@' {
			l.readChar()
			tok.Type, tok.Literal = BANGAT, "!@"
		} else {
			tok.Type, tok.Literal = ILLEGAL, string(l.ch)
		}
	case '+', '-', '*', '/':
		tok.Type, tok.Literal = PRIM, string(l.ch)
	default:
		switch {
		case isLetter(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		case isDigit(l.ch):
			tok.Type = INT
			tok.Literal = l.readNumber()
			return tok
		default:
			tok.Type, tok.Literal = ILLEGAL, string(l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '%':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	// trailing ? or ! so predicates like zero? lex as one identifier
	if l.ch == '?' || l.ch == '!' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
