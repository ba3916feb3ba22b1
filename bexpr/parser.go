package bexpr

// Grammar, loosest binding first:
//
//	Equation = [ name "=" ] Expr
//	Expr     = Expr BinOp Expr | Not | "(" Expr ")" | name
//	Not      = NotOp Expr
//
// Binary operators are left-associative. Precedence from tight to loose is
// NOT, AND/NAND, XOR/XNOR, OR/NOR, IMPLIES, IFF.

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	maxSymbols int
}

// WithMaxSymbols sets the symbol ceiling. Values below 1 select
// DefaultMaxSymbols; values above HardMaxSymbols make Parse fail with an
// *InvalidArgumentError.
func WithMaxSymbols(n int) ParseOption {
	return func(c *parseConfig) {
		if n < 1 {
			n = DefaultMaxSymbols
		}
		c.maxSymbols = n
	}
}

func newParseConfig(opts []ParseOption) (parseConfig, error) {
	cfg := parseConfig{maxSymbols: DefaultMaxSymbols}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxSymbols > HardMaxSymbols {
		return cfg, &InvalidArgumentError{
			Arg: "max symbols",
			Msg: "must be at most 24",
		}
	}
	return cfg, nil
}

// Parse tokenizes and parses an equation.
func Parse(text string, opts ...ParseOption) (*Expression, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(text, tokens, opts...)
}

// ParseTokens parses tokens produced by Tokenize. src is the text they were
// scanned from and is only used for diagnostics.
func ParseTokens(src string, tokens []Token, opts ...ParseOption) (*Expression, error) {
	cfg, err := newParseConfig(opts)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Kind: TokenEOF, Pos: len([]rune(src))})
	}

	p := &parser{
		src:     src,
		tokens:  tokens,
		symbols: newSymbolTable(cfg.maxSymbols),
	}
	name, root, err := p.parseEquation()
	if err != nil {
		return nil, err
	}
	if err := p.symbols.check(); err != nil {
		return nil, err
	}
	root.owned = true
	return &Expression{
		raw:     src,
		name:    name,
		root:    root,
		symbols: p.symbols,
	}, nil
}

type parser struct {
	src     string
	tokens  []Token
	pos     int
	depth   int // open parentheses
	symbols *SymbolTable
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) next() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(reason Reason, pos int, format string, args ...any) error {
	return newGrammarError(reason, p.src, pos, format, args...)
}

func (p *parser) parseEquation() (string, *Node, error) {
	if p.peek().Kind == TokenEOF {
		return "", nil, p.errorf(ReasonEmpty, 0, "empty expression")
	}

	var name string
	if len(p.tokens) > 2 && p.tokens[0].Kind == TokenOperand && p.tokens[1].Kind == TokenAssign {
		name = p.tokens[0].Text
		assign := p.tokens[1]
		p.pos = 2
		if p.peek().Kind == TokenEOF {
			return "", nil, p.errorf(ReasonMissingOperand, assign.Pos, "nothing to assign to %q", name)
		}
	}

	root, err := p.parseExpr(1)
	if err != nil {
		return "", nil, err
	}

	switch t := p.peek(); t.Kind {
	case TokenEOF:
		return name, root, nil
	case TokenRParen:
		return "", nil, p.errorf(ReasonUnbalancedParen, t.Pos, "unmatched %q", t.Text)
	case TokenAssign:
		return "", nil, p.errorf(ReasonBadAssignment, t.Pos, "unexpected %q; only a leading name may be assigned", t.Text)
	default:
		return "", nil, p.errorf(ReasonUnexpectedToken, t.Pos, "unexpected %s %q", describe(t), t.Text)
	}
}

// parseExpr parses a chain of binary operators binding at least as tightly
// as minPrec. Each new operator takes the result so far as its left child.
func (p *parser) parseExpr(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokenOperator || t.Op.IsUnary() {
			return left, nil
		}
		prec := t.Op.precedence()
		if prec < minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = NewBinary(t.Op, t.Text, left, right)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	t := p.next()
	switch t.Kind {
	case TokenOperand:
		p.symbols.add(t.Text)
		return NewOperand(t.Text), nil

	case TokenOperator:
		if !t.Op.IsUnary() {
			return nil, p.errorf(ReasonMissingOperand, t.Pos, "operator %q is missing its left operand", t.Text)
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewNot(t.Text, x), nil

	case TokenLParen:
		return p.parseParen(t)

	case TokenRParen:
		if p.depth == 0 {
			return nil, p.errorf(ReasonUnbalancedParen, t.Pos, "unmatched %q", t.Text)
		}
		return nil, p.missingOperand(t)

	case TokenAssign:
		return nil, p.errorf(ReasonBadAssignment, t.Pos, "unexpected %q; only a leading name may be assigned", t.Text)

	default:
		return nil, p.missingOperand(t)
	}
}

func (p *parser) parseParen(open Token) (*Node, error) {
	if t := p.peek(); t.Kind == TokenRParen {
		return nil, p.errorf(ReasonMissingOperand, t.Pos, "empty parentheses")
	}
	p.depth++
	x, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	p.depth--

	switch t := p.next(); t.Kind {
	case TokenRParen:
		return x, nil
	case TokenEOF:
		return nil, p.errorf(ReasonUnbalancedParen, open.Pos, "unclosed %q", open.Text)
	case TokenAssign:
		return nil, p.errorf(ReasonBadAssignment, t.Pos, "unexpected %q; only a leading name may be assigned", t.Text)
	default:
		return nil, p.errorf(ReasonUnexpectedToken, t.Pos, "unexpected %s %q", describe(t), t.Text)
	}
}

// missingOperand reports t (EOF or ")") found where an operand was required.
// The caret goes under the operator left without an operand when there is
// one.
func (p *parser) missingOperand(t Token) error {
	i := p.pos - 2 // next already stepped past t
	if t.Kind == TokenEOF {
		i = p.pos - 1
	}
	if i >= 0 {
		switch prev := p.tokens[i]; {
		case prev.Kind == TokenOperator:
			return p.errorf(ReasonMissingOperand, prev.Pos, "operator %q is missing its right operand", prev.Text)
		case prev.Kind == TokenLParen && t.Kind == TokenEOF:
			return p.errorf(ReasonUnbalancedParen, prev.Pos, "unclosed %q", prev.Text)
		}
	}
	return p.errorf(ReasonMissingOperand, t.Pos, "expected an operand before %s", describe(t))
}

func describe(t Token) string {
	switch t.Kind {
	case TokenOperand:
		return "operand"
	case TokenOperator:
		return "operator"
	case TokenLParen, TokenRParen:
		return "parenthesis"
	case TokenAssign:
		return "assignment"
	case TokenEOF:
		return "end of input"
	default:
		return "token"
	}
}
