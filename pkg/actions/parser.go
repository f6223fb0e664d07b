package actions

import (
	"fmt"
	"strconv"
	"strings"
)

// Agent code is a sequence of call statements, one action per statement:
//
//	# comments run to end of line
//	goto('https://example.com')
//	fill('237', "multi-line\nexample")
//	click('b22', button="right")
//	select_option('c48', ["red", "green", "blue"])
//
// Literals are strings (single or double quoted), numbers, booleans and
// lists; trailing arguments may be keyword-form. Statements are separated by
// newlines or semicolons. The code is parsed and validated against the
// catalog before anything touches the page; there is no host-language
// evaluation of agent input.

// Call is one parsed action invocation: a name, positional arguments and
// keyword arguments.
type Call struct {
	Name   string
	Args   []any
	Kwargs map[string]any
}

// ParseError reports invalid agent code with the offending line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent
	tokString
	tokNumber
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokEquals
)

type token struct {
	kind tokenKind
	text string
	num  float64
	line int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "end of line"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokNumber:
		return fmt.Sprintf("number %s", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type lexer struct {
	src  string
	pos  int
	line int
}

func (l *lexer) errf(format string, v ...any) *ParseError {
	return &ParseError{Line: l.line, Message: fmt.Sprintf(format, v...)}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '\n' || c == ';':
			l.pos++
			tok := token{kind: tokNewline, text: string(c), line: l.line}
			if c == '\n' {
				l.line++
			}
			return tok, nil
		case c == '(':
			l.pos++
			return token{kind: tokLParen, text: "(", line: l.line}, nil
		case c == ')':
			l.pos++
			return token{kind: tokRParen, text: ")", line: l.line}, nil
		case c == '[':
			l.pos++
			return token{kind: tokLBracket, text: "[", line: l.line}, nil
		case c == ']':
			l.pos++
			return token{kind: tokRBracket, text: "]", line: l.line}, nil
		case c == ',':
			l.pos++
			return token{kind: tokComma, text: ",", line: l.line}, nil
		case c == '=':
			l.pos++
			return token{kind: tokEquals, text: "=", line: l.line}, nil
		case c == '\'' || c == '"':
			return l.lexString(c)
		case c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.':
			return l.lexNumber()
		case isIdentStart(c):
			start := l.pos
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			return token{kind: tokIdent, text: l.src[start:l.pos], line: l.line}, nil
		default:
			l.pos++ // consume it so lenient recovery makes progress
			return token{}, l.errf("unexpected character %q", c)
		}
	}
	return token{kind: tokEOF, line: l.line}, nil
}

func (l *lexer) lexString(quote byte) (token, error) {
	line := l.line
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{kind: tokString, text: sb.String(), line: line}, nil
		case '\\':
			l.pos++
			if l.pos >= len(l.src) {
				return token{}, l.errf("unterminated string literal")
			}
			switch l.src[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(l.src[l.pos])
			default:
				return token{}, l.errf("unsupported escape \\%c in string literal", l.src[l.pos])
			}
			l.pos++
		case '\n':
			return token{}, l.errf("unterminated string literal")
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return token{}, l.errf("unterminated string literal")
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if c := l.src[l.pos]; c == '-' || c == '+' {
		l.pos++
	}
	digits := false
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
		digits = true
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
			digits = true
		}
	}
	text := l.src[start:l.pos]
	if !digits {
		return token{}, l.errf("invalid number literal %q", text)
	}
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, l.errf("invalid number literal %q", text)
	}
	return token{kind: tokNumber, text: text, num: num, line: l.line}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type parser struct {
	lex    *lexer
	tok    token
	peeked *token
}

func (p *parser) advance() error {
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return nil
	}
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errf(format string, v ...any) *ParseError {
	return &ParseError{Line: p.tok.line, Message: fmt.Sprintf(format, v...)}
}

// skipNewlines consumes statement separators between calls and inside
// argument lists.
func (p *parser) skipNewlines() error {
	for p.tok.kind == tokNewline {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// parseCall parses one `name(args...)` statement. The current token must be
// the call's identifier.
func (p *parser) parseCall() (*Call, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errf("expected an action call, found %s", p.tok.describe())
	}
	call := &Call{Name: p.tok.text}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokLParen {
		return nil, p.errf("expected '(' after %q, found %s", call.Name, p.tok.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRParen {
			break
		}

		if p.tok.kind == tokIdent && p.isKeywordArg() {
			name := p.tok.text
			if err := p.advance(); err != nil { // name
				return nil, err
			}
			if err := p.advance(); err != nil { // '='
				return nil, err
			}
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			if call.Kwargs == nil {
				call.Kwargs = make(map[string]any)
			}
			if _, dup := call.Kwargs[name]; dup {
				return nil, p.errf("duplicate keyword argument %q", name)
			}
			call.Kwargs[name] = value
		} else {
			if len(call.Kwargs) > 0 {
				return nil, p.errf("positional argument after keyword argument")
			}
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, value)
		}

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRParen:
		default:
			return nil, p.errf("expected ',' or ')' in argument list, found %s", p.tok.describe())
		}
	}

	if err := p.advance(); err != nil { // ')'
		return nil, err
	}
	switch p.tok.kind {
	case tokNewline, tokEOF:
		return call, nil
	default:
		return nil, p.errf("unexpected %s after call to %q", p.tok.describe(), call.Name)
	}
}

// isKeywordArg reports whether the current identifier starts a `name=value`
// pair rather than a bare literal.
func (p *parser) isKeywordArg() bool {
	if p.peeked == nil {
		tok, err := p.lex.next()
		if err != nil {
			return false
		}
		p.peeked = &tok
	}
	return p.peeked.kind == tokEquals
}

func (p *parser) parseValue() (any, error) {
	switch p.tok.kind {
	case tokString:
		v := p.tok.text
		return v, p.advance()
	case tokNumber:
		v := p.tok.num
		return v, p.advance()
	case tokIdent:
		switch p.tok.text {
		case "true", "True":
			return true, p.advance()
		case "false", "False":
			return false, p.advance()
		case "none", "None", "null":
			return nil, p.advance()
		default:
			return nil, p.errf("unexpected identifier %q in argument position", p.tok.text)
		}
	case tokLBracket:
		return p.parseList()
	default:
		return nil, p.errf("expected a value, found %s", p.tok.describe())
	}
}

func (p *parser) parseList() (any, error) {
	if err := p.advance(); err != nil { // '['
		return nil, err
	}
	var items []any
	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRBracket {
			break
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRBracket:
		default:
			return nil, p.errf("expected ',' or ']' in list, found %s", p.tok.describe())
		}
	}
	if items == nil {
		items = []any{}
	}
	return items, p.advance() // ']'
}

// skipStatement discards tokens to the end of the current statement. Used in
// lenient mode to tolerate non-action lines in submitted code. Lexing errors
// always consume input, so this terminates.
func (p *parser) skipStatement() {
	for p.tok.kind != tokNewline && p.tok.kind != tokEOF {
		if err := p.advance(); err != nil {
			p.tok = token{kind: tokNewline, line: p.lex.line}
		}
	}
}

// ParseCalls parses agent code into its ordered action calls. When strict is
// false, statements that are not valid call expressions are skipped;
// when strict is true they fail the whole parse.
func ParseCalls(code string, strict bool) ([]*Call, error) {
	p := &parser{lex: &lexer{src: code, line: 1}}
	if err := p.advance(); err != nil {
		if strict {
			return nil, err
		}
		p.skipStatement()
	}

	var calls []*Call
	for {
		if err := p.skipNewlines(); err != nil {
			if strict {
				return nil, err
			}
			p.skipStatement()
			continue
		}
		if p.tok.kind == tokEOF {
			return calls, nil
		}

		call, err := p.parseCall()
		if err != nil {
			if strict {
				return nil, err
			}
			p.skipStatement()
			continue
		}
		calls = append(calls, call)
	}
}
