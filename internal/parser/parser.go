// Package parser builds the surface-expression and top-level-form AST
// (package surface) from the token stream produced by package lexer,
// implementing the grammar of spec.md §6: a whitespace-insensitive,
// parenthesized prefix syntax.
package parser

import (
	"fmt"
	"strconv"

	"github.com/sunholo/piekernel/internal/ast"
	kerrors "github.com/sunholo/piekernel/internal/errors"
	"github.com/sunholo/piekernel/internal/lexer"
	"github.com/sunholo/piekernel/internal/surface"
)

// Parser consumes a flat token slice (one recursive-descent parse
// function per surface form, mirroring the teacher's parser
// organization) and produces surface.Toplevel/surface.Expr nodes.
type Parser struct {
	toks []lexer.Token
	pos  int
	file string
}

// New builds a Parser over src, tokenizing it first.
func New(src, filename string) *Parser {
	return &Parser{toks: lexer.Tokens(src, filename), file: filename}
}

func (p *Parser) peek() lexer.Token { return p.toks[p.pos] }
func (p *Parser) atEOF() bool       { return p.peek().Type == lexer.EOF }
func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errAt(tok lexer.Token, code, msg string) error {
	rep := &kerrors.Report{
		Schema:  "pie.error/v1",
		Code:    code,
		Phase:   "parse",
		Message: msg,
		Span:    &ast.Span{Start: tok.Pos, End: tok.Pos},
	}
	return kerrors.WrapReport(rep)
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errAt(tok, "PAR001", fmt.Sprintf("unexpected token %s(%q), want %s", tok.Type, tok.Literal, tt))
	}
	return p.advance(), nil
}

// ParseProgram parses a full sequence of top-level forms.
func ParseProgram(src, filename string) ([]surface.Toplevel, error) {
	p := New(src, filename)
	var forms []surface.Toplevel
	for !p.atEOF() {
		form, err := p.parseToplevel()
		if err != nil {
			return forms, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// ParseExpr parses a single expression, as entered at the REPL.
func ParseExpr(src, filename string) (surface.Expr, error) {
	p := New(src, filename)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errAt(p.peek(), "PAR001", "trailing input after expression")
	}
	return e, nil
}

func (p *Parser) parseToplevel() (surface.Toplevel, error) {
	start, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	head := p.peek()
	if head.Type != lexer.SYMBOL {
		return nil, p.errAt(head, "PAR003", "expected a top-level form keyword")
	}
	switch head.Literal {
	case "claim":
		p.advance()
		name, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return nil, err
		}
		typ, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &surface.Claim{Node: surface.Node{Pos: start.Pos}, Name: name.Literal, Type: typ}, nil

	case "define":
		p.advance()
		name, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &surface.Define{Node: surface.Node{Pos: start.Pos}, Name: name.Literal, Value: val}, nil

	case "check-same":
		p.advance()
		ty, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &surface.CheckSame{Node: surface.Node{Pos: start.Pos}, Type: ty, Lhs: lhs, Rhs: rhs}, nil

	case "data":
		return p.parseData(start)

	default:
		return nil, p.errAt(head, "PAR003", "unknown top-level form: "+head.Literal)
	}
}

func (p *Parser) parseData(start lexer.Token) (surface.Toplevel, error) {
	p.advance() // "data"
	name, err := p.expect(lexer.SYMBOL)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	indices, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var ctors []surface.DataConstr
	for p.peek().Type == lexer.LPAREN {
		ctor, err := p.parseDataConstr()
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, ctor)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &surface.Data{
		Node: surface.Node{Pos: start.Pos}, Name: name.Literal,
		Params: params, Indices: indices, Constructors: ctors,
	}, nil
}

// parseParamList parses `()` or `((NAME expr) ...)`.
func (p *Parser) parseParamList() ([]surface.Param, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var out []surface.Param
	for p.peek().Type == lexer.LPAREN {
		p.advance()
		name, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return nil, err
		}
		typ, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		out = append(out, surface.Param{Name: name.Literal, Type: typ})
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return out, nil
}

// parseDataConstr parses `(NAME (NAME expr)* (DNAME expr*))`.
func (p *Parser) parseDataConstr() (surface.DataConstr, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return surface.DataConstr{}, err
	}
	name, err := p.expect(lexer.SYMBOL)
	if err != nil {
		return surface.DataConstr{}, err
	}
	var args []surface.Param
	for p.peek().Type == lexer.LPAREN {
		// Peek two tokens ahead: is this an arg `(NAME expr)` or the
		// trailing result-type form `(DNAME expr*)`? We distinguish by
		// checking whether the form has exactly two children where the
		// first is a bare SYMBOL and there is a following expr AND this
		// isn't the last paren group before RPAREN. Since both shapes
		// are syntactically `(SYMBOL ...)`, and a constructor telescope
		// entry always has exactly one expr after the name while the
		// result-type form is also `(SYMBOL expr*)`, we resolve the
		// ambiguity the same way the grammar resolves it: the result
		// type is always the last paren-group in the constructor form.
		if p.isLastGroupBeforeClose() {
			break
		}
		p.advance()
		argName, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return surface.DataConstr{}, err
		}
		typ, err := p.parseExpr()
		if err != nil {
			return surface.DataConstr{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return surface.DataConstr{}, err
		}
		args = append(args, surface.Param{Name: argName.Literal, Type: typ})
	}
	// Trailing result type: (DNAME expr*)
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return surface.DataConstr{}, err
	}
	dname, err := p.expect(lexer.SYMBOL)
	if err != nil {
		return surface.DataConstr{}, err
	}
	var idxs []surface.Expr
	for p.peek().Type != lexer.RPAREN {
		e, err := p.parseExpr()
		if err != nil {
			return surface.DataConstr{}, err
		}
		idxs = append(idxs, e)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return surface.DataConstr{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return surface.DataConstr{}, err
	}
	return surface.DataConstr{Name: name.Literal, Args: args, ResultName: dname.Literal, ResultIdxs: idxs}, nil
}

// isLastGroupBeforeClose reports whether the paren group starting at
// the current position is immediately followed (after its matching
// close) by the constructor's closing paren — i.e. it is the trailing
// result-type group, not another argument telescope entry.
func (p *Parser) isLastGroupBeforeClose() bool {
	depth := 0
	i := p.pos
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				i++
				goto after
			}
		case lexer.EOF:
			return false
		}
	}
after:
	return i < len(p.toks) && p.toks[i].Type == lexer.RPAREN
}

// parseExpr parses one surface expression.
func (p *Parser) parseExpr() (surface.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.NAT:
		p.advance()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errAt(tok, "PAR001", "malformed numeral: "+tok.Literal)
		}
		return natLit(tok.Pos, n), nil
	case lexer.TICK:
		p.advance()
		return &surface.Tick{Node: surface.Node{Pos: tok.Pos}, Sym: tok.Literal}, nil
	case lexer.SYMBOL:
		p.advance()
		return p.keywordOrVar(tok)
	case lexer.LPAREN:
		return p.parseList()
	default:
		return nil, p.errAt(tok, "PAR001", "unexpected token in expression: "+tok.Literal)
	}
}

func natLit(pos ast.Pos, n int) surface.Expr {
	var e surface.Expr = &surface.Zero{Node: surface.Node{Pos: pos}}
	for i := 0; i < n; i++ {
		e = &surface.Add1{Node: surface.Node{Pos: pos}, N: e}
	}
	return e
}

func (p *Parser) keywordOrVar(tok lexer.Token) (surface.Expr, error) {
	pos := tok.Pos
	switch tok.Literal {
	case "U":
		return &surface.U{Node: surface.Node{Pos: pos}}, nil
	case "Atom":
		return &surface.Atom{Node: surface.Node{Pos: pos}}, nil
	case "Nat":
		return &surface.NatT{Node: surface.Node{Pos: pos}}, nil
	case "zero":
		return &surface.Zero{Node: surface.Node{Pos: pos}}, nil
	case "nil":
		return &surface.Nil{Node: surface.Node{Pos: pos}}, nil
	case "vecnil":
		return &surface.VecNil{Node: surface.Node{Pos: pos}}, nil
	case "Trivial":
		return &surface.Trivial{Node: surface.Node{Pos: pos}}, nil
	case "sole":
		return &surface.Sole{Node: surface.Node{Pos: pos}}, nil
	case "Absurd":
		return &surface.Absurd{Node: surface.Node{Pos: pos}}, nil
	default:
		return &surface.Var{Node: surface.Node{Pos: pos}, Name: tok.Literal}, nil
	}
}

func (p *Parser) parseList() (surface.Expr, error) {
	start, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	head := p.peek()
	if head.Type != lexer.SYMBOL {
		// An application whose function position is itself parenthesized,
		// e.g. ((id Nat) zero).
		return p.finishApp(start, nil)
	}

	switch head.Literal {
	case "the":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.The{Node: surface.Node{Pos: start.Pos}, Type: a, Value: b}
		})
	case "cons":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.Cons{Node: surface.Node{Pos: start.Pos}, Fst: a, Snd: b}
		})
	case "car":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Car{Node: surface.Node{Pos: start.Pos}, Pair: a}
		})
	case "cdr":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Cdr{Node: surface.Node{Pos: start.Pos}, Pair: a}
		})
	case "Pair":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.Sigma{Node: surface.Node{Pos: start.Pos}, Name: "_", Fst: a, Snd: b}
		})
	case "Sigma", "Σ":
		p.advance()
		return p.parseBinderForm(start, func(name string, dom, ran surface.Expr) surface.Expr {
			return &surface.Sigma{Node: surface.Node{Pos: start.Pos}, Name: name, Fst: dom, Snd: ran}
		})
	case "Pi", "Π":
		p.advance()
		return p.parseBinderForm(start, func(name string, dom, ran surface.Expr) surface.Expr {
			return &surface.Pi{Node: surface.Node{Pos: start.Pos}, Name: name, Dom: dom, Ran: ran}
		})
	case "->", "→":
		p.advance()
		return p.parseArrow(start)
	case "lambda", "λ":
		p.advance()
		return p.parseLambda(start)
	case "::":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.ConsL{Node: surface.Node{Pos: start.Pos}, Head: a, Tail: b}
		})
	case "List":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.ListT{Node: surface.Node{Pos: start.Pos}, Elem: a}
		})
	case "rec-List":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.RecList{Node: surface.Node{Pos: start.Pos}, Target: a, Base: b, Step: c}
		})
	case "ind-List":
		p.advance()
		return p.fourArgs(start, func(a, b, c, d surface.Expr) surface.Expr {
			return &surface.IndList{Node: surface.Node{Pos: start.Pos}, Target: a, Motive: b, Base: c, Step: d}
		})
	case "Vec":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.VecT{Node: surface.Node{Pos: start.Pos}, Elem: a, Len: b}
		})
	case "vec::":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.VecCons{Node: surface.Node{Pos: start.Pos}, Head: a, Tail: b}
		})
	case "head":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Head{Node: surface.Node{Pos: start.Pos}, Vec: a}
		})
	case "tail":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Tail{Node: surface.Node{Pos: start.Pos}, Vec: a}
		})
	case "ind-Vec":
		p.advance()
		return p.fiveArgs(start, func(a, b, c, d, e surface.Expr) surface.Expr {
			return &surface.IndVec{Node: surface.Node{Pos: start.Pos}, Len: a, Target: b, Motive: c, Base: d, Step: e}
		})
	case "which-Nat":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.WhichNat{Node: surface.Node{Pos: start.Pos}, Target: a, Base: b, Step: c}
		})
	case "iter-Nat":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.IterNat{Node: surface.Node{Pos: start.Pos}, Target: a, Base: b, Step: c}
		})
	case "rec-Nat":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.RecNat{Node: surface.Node{Pos: start.Pos}, Target: a, Base: b, Step: c}
		})
	case "ind-Nat":
		p.advance()
		return p.fourArgs(start, func(a, b, c, d surface.Expr) surface.Expr {
			return &surface.IndNat{Node: surface.Node{Pos: start.Pos}, Target: a, Motive: b, Base: c, Step: d}
		})
	case "add1":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Add1{Node: surface.Node{Pos: start.Pos}, N: a}
		})
	case "=":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.EqualT{Node: surface.Node{Pos: start.Pos}, Ty: a, From: b, To: c}
		})
	case "same":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Same{Node: surface.Node{Pos: start.Pos}, Mid: a}
		})
	case "symm":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Symm{Node: surface.Node{Pos: start.Pos}, Eq: a}
		})
	case "cong":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.Cong{Node: surface.Node{Pos: start.Pos}, Eq: a, Fun: b}
		})
	case "replace":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.Replace{Node: surface.Node{Pos: start.Pos}, Eq: a, Motive: b, Base: c}
		})
	case "trans":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.Trans{Node: surface.Node{Pos: start.Pos}, Left: a, Right: b}
		})
	case "ind-=":
		p.advance()
		return p.threeArgs(start, func(a, b, c surface.Expr) surface.Expr {
			return &surface.IndEqual{Node: surface.Node{Pos: start.Pos}, Eq: a, Motive: b, Base: c}
		})
	case "Either":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.EitherT{Node: surface.Node{Pos: start.Pos}, L: a, R: b}
		})
	case "left":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Inl{Node: surface.Node{Pos: start.Pos}, Val: a}
		})
	case "right":
		p.advance()
		return p.oneArg(start, func(a surface.Expr) surface.Expr {
			return &surface.Inr{Node: surface.Node{Pos: start.Pos}, Val: a}
		})
	case "ind-Either":
		p.advance()
		return p.fourArgs(start, func(a, b, c, d surface.Expr) surface.Expr {
			return &surface.IndEither{Node: surface.Node{Pos: start.Pos}, Target: a, Motive: b, BaseLeft: c, BaseRight: d}
		})
	case "ind-Absurd":
		p.advance()
		return p.twoArgs(start, func(a, b surface.Expr) surface.Expr {
			return &surface.IndAbsurd{Node: surface.Node{Pos: start.Pos}, Target: a, Motive: b}
		})
	case "match":
		p.advance()
		return p.parseMatch(start)
	default:
		return p.finishApp(start, nil)
	}
}

// finishApp parses the remainder of an application form starting
// right after its opening LPAREN; fn, if non-nil, is the
// already-parsed function position (used when the function itself
// was a bare keyword that fell through to application, which never
// happens for this grammar's reserved words, but kept general).
func (p *Parser) finishApp(start lexer.Token, fn surface.Expr) (surface.Expr, error) {
	if fn == nil {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fn = first
	}
	for p.peek().Type != lexer.RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fn = &surface.App{Node: surface.Node{Pos: start.Pos}, Fun: fn, Arg: arg}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) oneArg(start lexer.Token, build func(surface.Expr) surface.Expr) (surface.Expr, error) {
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return build(a), nil
}

func (p *Parser) twoArgs(start lexer.Token, build func(a, b surface.Expr) surface.Expr) (surface.Expr, error) {
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return build(a, b), nil
}

func (p *Parser) threeArgs(start lexer.Token, build func(a, b, c surface.Expr) surface.Expr) (surface.Expr, error) {
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	c, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return build(a, b, c), nil
}

func (p *Parser) fourArgs(start lexer.Token, build func(a, b, c, d surface.Expr) surface.Expr) (surface.Expr, error) {
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	c, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	d, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return build(a, b, c, d), nil
}

func (p *Parser) fiveArgs(start lexer.Token, build func(a, b, c, d, e surface.Expr) surface.Expr) (surface.Expr, error) {
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	c, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	d, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return build(a, b, c, d, e), nil
}

// parseBinderForm parses `((x A) (y B) ...) C` (already past the
// Pi/Sigma keyword) and desugars the n-ary binder telescope
// right-associatively into nested binary nodes via build.
func (p *Parser) parseBinderForm(start lexer.Token, build func(name string, dom, ran surface.Expr) surface.Expr) (surface.Expr, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	type binder struct {
		name string
		typ  surface.Expr
	}
	var binders []binder
	for p.peek().Type == lexer.LPAREN {
		p.advance()
		name, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return nil, err
		}
		typ, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		binders = append(binders, binder{name.Literal, typ})
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if len(binders) == 0 {
		return nil, p.errAt(start, "PAR003", "Pi/Sigma requires at least one binder")
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	result := body
	for i := len(binders) - 1; i >= 0; i-- {
		result = build(binders[i].name, binders[i].typ, result)
	}
	return result, nil
}

// parseArrow parses `(-> A B C ...)` (already past `->`/`→`) and
// desugars right-associatively into nested non-dependent Pi nodes.
func (p *Parser) parseArrow(start lexer.Token) (surface.Expr, error) {
	var parts []surface.Expr
	for p.peek().Type != lexer.RPAREN {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		rep := kerrors.ArityError(2, len(parts))
		rep.Span = &ast.Span{Start: start.Pos, End: start.Pos}
		return nil, kerrors.WrapReport(rep)
	}
	result := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		result = &surface.Pi{Node: surface.Node{Pos: start.Pos}, Name: "_", Dom: parts[i], Ran: result}
	}
	return result, nil
}

// parseLambda parses `(lambda (x y z) body)`, desugaring the n-ary
// parameter list right-associatively into nested Lambda nodes.
func (p *Parser) parseLambda(start lexer.Token) (surface.Expr, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.peek().Type == lexer.SYMBOL {
		params = append(params, p.advance().Literal)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, p.errAt(start, "PAR003", "lambda requires at least one parameter")
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	result := body
	for i := len(params) - 1; i >= 0; i-- {
		result = &surface.Lambda{Node: surface.Node{Pos: start.Pos}, Param: params[i], Body: result}
	}
	return result, nil
}

func (p *Parser) parseMatch(start lexer.Token) (surface.Expr, error) {
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var arms []surface.Arm
	for p.peek().Type == lexer.LPAREN {
		p.advance()
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		arms = append(arms, surface.Arm{Pattern: pat, Body: body})
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &surface.Match{Node: surface.Node{Pos: start.Pos}, Target: target, Arms: arms}, nil
}

func (p *Parser) parsePattern() (surface.Pattern, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TICK:
		p.advance()
		return &surface.PatternAtom{Node: surface.Node{Pos: tok.Pos}, Sym: tok.Literal}, nil
	case lexer.SYMBOL:
		p.advance()
		if tok.Literal == "_" {
			return &surface.PatternHole{Node: surface.Node{Pos: tok.Pos}}, nil
		}
		return &surface.PatternVar{Node: surface.Node{Pos: tok.Pos}, Name: tok.Literal}, nil
	case lexer.LPAREN:
		p.advance()
		head, err := p.expect(lexer.SYMBOL)
		if err != nil {
			return nil, err
		}
		if head.Literal == "cons" {
			h, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			t, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			return &surface.PatternCons{Node: surface.Node{Pos: head.Pos}, Head: h, Tail: t}, nil
		}
		var args []surface.Pattern
		for p.peek().Type != lexer.RPAREN {
			a, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &surface.PatternCtor{Node: surface.Node{Pos: head.Pos}, Name: head.Literal, Args: args}, nil
	default:
		return nil, p.errAt(tok, "PAR004", "malformed pattern")
	}
}
