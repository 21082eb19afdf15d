package parser

import "github.com/deepnoodle-ai/emergent/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	OR          // or
	AND         // and
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // + or -
	PRODUCT     // * or / or %
	PREFIX      // -X or not X
	CALL        // myFunction(X)
	INDEX       // array[index]
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.OR:        OR,
	token.AND:       AND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.LT_EQUALS: LESSGREATER,
	token.GT:        LESSGREATER,
	token.GT_EQUALS: LESSGREATER,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.SLASH:     PRODUCT,
	token.ASTERISK:  PRODUCT,
	token.MOD:       PRODUCT,
	token.LPAREN:    CALL,
	token.LBRACKET:  INDEX,
}
