package derive

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// maxExponent bounds |y| in x**y and pow(x, y).
const maxExponent = 64

// ErrUnsafeExpression is returned for any input outside the arithmetic
// grammar accepted by Eval.
var ErrUnsafeExpression = errors.New("unsafe expression")

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokFunc
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// Eval evaluates an arithmetic expression over numeric literals, + - * /,
// ** (right-associative), unary signs, parentheses, sqrt(x) and pow(x, y).
// Any other input, division by zero and non-finite results yield an error
// wrapping ErrUnsafeExpression.
func Eval(expr string) (float64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEOF {
		return 0, fmt.Errorf("%w: unexpected %q", ErrUnsafeExpression, p.peek().text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite result", ErrUnsafeExpression)
	}
	return v, nil
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j+1 < len(s) && s[j] == '.' && s[j+1] >= '0' && s[j+1] <= '9' {
				j++
				for j < len(s) && s[j] >= '0' && s[j] <= '9' {
					j++
				}
			}
			v, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrUnsafeExpression, s[i:j])
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j], num: v})
			i = j
		case c == '*' && i+1 < len(s) && s[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**"})
			i += 2
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOp, text: string(c)})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		case c >= 'a' && c <= 'z':
			j := i
			for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
				j++
			}
			name := s[i:j]
			if name != "sqrt" && name != "pow" {
				return nil, fmt.Errorf("%w: identifier %q", ErrUnsafeExpression, name)
			}
			toks = append(toks, token{kind: tokFunc, text: name})
			i = j
		default:
			return nil, fmt.Errorf("%w: character %q", ErrUnsafeExpression, string(rune(c)))
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

// maxDepth caps nesting so hostile input cannot exhaust the stack.
const maxDepth = 64

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

// expr := term (("+" | "-") term)*
func (p *parser) expr() (float64, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, fmt.Errorf("%w: nesting too deep", ErrUnsafeExpression)
	}

	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		r, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += r
		} else {
			v -= r
		}
	}
	return v, nil
}

// term := unary (("*" | "/") unary)*
func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text
		r, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			v *= r
			continue
		}
		if r == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrUnsafeExpression)
		}
		v /= r
	}
	return v, nil
}

// unary := ("+" | "-") unary | power
func (p *parser) unary() (float64, error) {
	if p.isOp("-") || p.isOp("+") {
		neg := p.next().text == "-"
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > maxDepth {
			return 0, fmt.Errorf("%w: nesting too deep", ErrUnsafeExpression)
		}
		v, err := p.unary()
		if neg {
			v = -v
		}
		return v, err
	}
	return p.power()
}

// power := primary ("**" unary)?
func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	return safePow(base, exp)
}

// primary := number | "(" expr ")" | "sqrt" "(" expr ")" | "pow" "(" expr "," expr ")"
func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return v, nil
	case tokFunc:
		if err := p.expect(tokLParen); err != nil {
			return 0, err
		}
		x, err := p.expr()
		if err != nil {
			return 0, err
		}
		if t.text == "sqrt" {
			if err := p.expect(tokRParen); err != nil {
				return 0, err
			}
			if x < 0 {
				return 0, fmt.Errorf("%w: sqrt of negative", ErrUnsafeExpression)
			}
			return math.Sqrt(x), nil
		}
		if err := p.expect(tokComma); err != nil {
			return 0, err
		}
		y, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return safePow(x, y)
	}
	if t.kind == tokEOF {
		return 0, fmt.Errorf("%w: unexpected end", ErrUnsafeExpression)
	}
	return 0, fmt.Errorf("%w: unexpected %q", ErrUnsafeExpression, t.text)
}

func (p *parser) expect(kind tokenKind) error {
	t := p.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return fmt.Errorf("%w: unexpected end", ErrUnsafeExpression)
		}
		return fmt.Errorf("%w: unexpected %q", ErrUnsafeExpression, t.text)
	}
	return nil
}

func safePow(x, y float64) (float64, error) {
	if math.Abs(y) > maxExponent {
		return 0, fmt.Errorf("%w: exponent %s too large", ErrUnsafeExpression, strconv.FormatFloat(y, 'g', -1, 64))
	}
	if x == 0 && y < 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrUnsafeExpression)
	}
	v := math.Pow(x, y)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite power", ErrUnsafeExpression)
	}
	return v, nil
}
