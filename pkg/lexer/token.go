package lexer

// TokenType identifies a lexical class of the OBJ surface syntax.
type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT TokenType = "IDENT" // counter, add1, zero?
	INT   TokenType = "INT"   // 42
	PRIM  TokenType = "PRIM"  // + - * /

	ASSIGN    TokenType = "="
	LT        TokenType = "<"
	GT        TokenType = ">"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	SEMICOLON TokenType = ";"
	COMMA     TokenType = ","
	DOT       TokenType = "."
	BANGAT    TokenType = "!@"

	CLASS      TokenType = "CLASS"
	EXTENDS    TokenType = "EXTENDS"
	END        TokenType = "END"
	FIELD      TokenType = "FIELD"
	STATIC     TokenType = "STATIC"
	METHOD     TokenType = "METHOD"
	PROC       TokenType = "PROC"
	DEFINE     TokenType = "DEFINE"
	SET        TokenType = "SET"
	NEW        TokenType = "NEW"
	LET        TokenType = "LET"
	IN         TokenType = "IN"
	IF         TokenType = "IF"
	THEN       TokenType = "THEN"
	ELSE       TokenType = "ELSE"
	THIS       TokenType = "THIS"
	SELF       TokenType = "SELF"
	SUPER      TokenType = "SUPER"
	MYCLASS    TokenType = "MYCLASS"
	SUPERCLASS TokenType = "SUPERCLASS"
)

// Token carries the lexeme plus its 1-based source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"class":      CLASS,
	"extends":    EXTENDS,
	"end":        END,
	"field":      FIELD,
	"static":     STATIC,
	"method":     METHOD,
	"proc":       PROC,
	"define":     DEFINE,
	"set":        SET,
	"new":        NEW,
	"let":        LET,
	"in":         IN,
	"if":         IF,
	"then":       THEN,
	"else":       ELSE,
	"this":       THIS,
	"self":       SELF,
	"super":      SUPER,
	"myclass":    MYCLASS,
	"superclass": SUPERCLASS,
}

// LookupIdent resolves keywords, leaving everything else as IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
