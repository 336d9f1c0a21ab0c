// Package mathexpr evaluates arithmetic expressions from untrusted
// input. It exists so tool calls produced by a language model can
// request calculations without any possibility of code execution.
//
// The grammar is deliberately tiny: numeric literals, unary + and -,
// the binary operators + - * / // % **, parentheses, and a fixed
// function set (abs, round, min, max, pow, sqrt). Everything else is
// rejected at parse time. The evaluator is default-deny: unknown
// tokens, identifiers and call forms are errors, never ignored.
package mathexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// Eval parses and evaluates an arithmetic expression.
// Malformed or disallowed input returns domain.ErrInvalidInput;
// arithmetic failures such as division by zero return their own
// evaluation errors.
func Eval(expression string) (float64, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return 0, err
	}

	p := &parser{tokens: tokens}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if !p.atEnd() {
		return 0, fmt.Errorf("%w: unexpected %q", domain.ErrInvalidInput, p.peek().text)
	}
	return value, nil
}

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenOp
	tokenLParen
	tokenRParen
	tokenComma
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// tokenize splits an expression into tokens. Any character outside
// the allowed set fails immediately.
func tokenize(expression string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expression) {
		ch := expression[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++

		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			seenDot := false
			for i < len(expression) {
				c := expression[i]
				if c == '.' {
					if seenDot {
						break
					}
					seenDot = true
				} else if c < '0' || c > '9' {
					break
				}
				i++
			}
			text := expression[start:i]
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", domain.ErrInvalidInput, text)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, num: num})

		case ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_':
			start := i
			for i < len(expression) {
				c := expression[i]
				if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
					break
				}
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: expression[start:i]})

		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "("})
			i++

		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")"})
			i++

		case ch == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ","})
			i++

		case strings.ContainsRune("+-*/%", rune(ch)):
			op := string(ch)
			// ** and // are two-character operators.
			if (ch == '*' || ch == '/') && i+1 < len(expression) && expression[i+1] == ch {
				op = expression[i : i+2]
				i++
			}
			tokens = append(tokens, token{kind: tokenOp, text: op})
			i++

		default:
			return nil, fmt.Errorf("%w: unexpected character %q", domain.ErrInvalidInput, string(ch))
		}
	}

	tokens = append(tokens, token{kind: tokenEOF})
	return tokens, nil
}

// parser is a recursive-descent parser that evaluates as it goes.
// Precedence follows Python: ** binds tightest (right-associative),
// then unary +/-, then * / // %, then binary +/-.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool {
	return p.peek().kind == tokenEOF
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokenOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "//", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, domain.ErrDivisionByZero
			}
			left /= right
		case "//":
			if right == 0 {
				return 0, domain.ErrDivisionByZero
			}
			left = math.Floor(left / right)
		case "%":
			if right == 0 {
				return 0, domain.ErrDivisionByZero
			}
			// Floored modulo: the result takes the divisor's sign,
			// matching // so that a == (a//b)*b + a%b holds.
			left = left - right*math.Floor(left/right)
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	if op, ok := p.acceptOp("+", "-"); ok {
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == "-" {
			return -value, nil
		}
		return value, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (float64, error) {
	base, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if _, ok := p.acceptOp("**"); ok {
		// Right-associative; the exponent may carry its own sign.
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		return t.num, nil

	case tokenLParen:
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.next().kind != tokenRParen {
			return 0, fmt.Errorf("%w: missing closing parenthesis", domain.ErrInvalidInput)
		}
		return value, nil

	case tokenIdent:
		return p.parseCall(t.text)

	default:
		return 0, fmt.Errorf("%w: unexpected %q", domain.ErrInvalidInput, t.text)
	}
}

// parseCall evaluates an allow-listed function call. A bare identifier
// is rejected: there are no variables in this language.
func (p *parser) parseCall(name string) (float64, error) {
	if p.next().kind != tokenLParen {
		return 0, fmt.Errorf("%w: unknown identifier %q", domain.ErrInvalidInput, name)
	}

	var args []float64
	if p.peek().kind != tokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, arg)
			if p.peek().kind == tokenComma {
				p.next()
				continue
			}
			break
		}
	}
	if p.next().kind != tokenRParen {
		return 0, fmt.Errorf("%w: missing closing parenthesis in call to %q", domain.ErrInvalidInput, name)
	}

	return apply(name, args)
}

// apply dispatches to the fixed function set.
func apply(name string, args []float64) (float64, error) {
	switch name {
	case "abs":
		if len(args) != 1 {
			return 0, argCountError(name, 1, len(args))
		}
		return math.Abs(args[0]), nil

	case "round":
		switch len(args) {
		case 1:
			return math.Round(args[0]), nil
		case 2:
			shift := math.Pow(10, args[1])
			return math.Round(args[0]*shift) / shift, nil
		default:
			return 0, argCountError(name, 1, len(args))
		}

	case "min":
		if len(args) == 0 {
			return 0, argCountError(name, 1, 0)
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Min(result, arg)
		}
		return result, nil

	case "max":
		if len(args) == 0 {
			return 0, argCountError(name, 1, 0)
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Max(result, arg)
		}
		return result, nil

	case "pow":
		if len(args) != 2 {
			return 0, argCountError(name, 2, len(args))
		}
		return math.Pow(args[0], args[1]), nil

	case "sqrt":
		if len(args) != 1 {
			return 0, argCountError(name, 1, len(args))
		}
		if args[0] < 0 {
			return 0, fmt.Errorf("%w: sqrt of negative number", domain.ErrInvalidInput)
		}
		return math.Sqrt(args[0]), nil

	default:
		return 0, fmt.Errorf("%w: unknown function %q", domain.ErrInvalidInput, name)
	}
}

func argCountError(name string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d argument(s), got %d", domain.ErrInvalidInput, name, want, got)
}
