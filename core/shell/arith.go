package shell

import (
	"strconv"
	"strings"
)

// evalArithmetic evaluates an arithmetic expression where variable and
// nested-expansion references have already been substituted with their
// values. Supported: integer literals, + - * / with standard precedence,
// unary minus, and parentheses. Division truncates toward zero.
func evalArithmetic(expr string) (int64, error) {
	p := &arithParser{expr: expr, input: strings.TrimSpace(expr)}
	if p.input == "" {
		return 0, &ArithmeticError{Expr: expr, Message: "empty expression"}
	}

	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, &ArithmeticError{Expr: expr, Message: "unexpected " + strconv.Quote(p.input[p.pos:])}
	}
	return value, nil
}

type arithParser struct {
	expr  string // original expression for error messages
	input string
	pos   int
}

func (p *arithParser) errorf(message string) error {
	return &ArithmeticError{Expr: p.expr, Message: message}
}

func (p *arithParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *arithParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// parseSum handles + and -.
func (p *arithParser) parseSum() (int64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++

		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// parseProduct handles * and /, binding tighter than sums.
func (p *arithParser) parseProduct() (int64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++

		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			left *= right
		case '/':
			if right == 0 {
				return 0, p.errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *arithParser) parseUnary() (int64, error) {
	p.skipSpace()
	switch p.peek() {
	case '-':
		p.pos++
		value, err := p.parseUnary()
		return -value, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parseAtom()
}

func (p *arithParser) parseAtom() (int64, error) {
	p.skipSpace()

	if p.peek() == '(' {
		p.pos++
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}

	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, p.errorf("unexpected end of expression")
		}
		return 0, p.errorf("unexpected " + strconv.Quote(string(p.input[p.pos])))
	}

	value, err := strconv.ParseInt(p.input[start:p.pos], 10, 64)
	if err != nil {
		return 0, p.errorf("bad number")
	}
	return value, nil
}
