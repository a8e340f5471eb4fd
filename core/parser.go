package elder

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNesting bounds how deeply lists and quotes may nest in source text, so
// hostile input fails with a ParseError instead of exhausting the stack.
const maxNesting = DefaultMaxDepth

type parser struct {
	input []rune
	pos   int
	depth int
}

// Parse reads exactly one form from input.
func Parse(input string) (Value, error) {
	p := &parser{input: []rune(input)}
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return Value{}, p.incomplete("empty input")
	}
	v, err := p.parseForm()
	if err != nil {
		return Value{}, err
	}
	p.skipWhitespace()
	if p.pos < len(p.input) {
		return Value{}, p.errorf("unexpected input after expression")
	}
	return v, nil
}

// ParseAll reads every top-level form in input, in order.
func ParseAll(input string) ([]Value, error) {
	p := &parser{input: []rune(input)}
	var forms []Value
	for {
		p.skipWhitespace()
		if p.pos >= len(p.input) {
			return forms, nil
		}
		v, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
}

func (p *parser) errorf(msg string) *ParseError {
	return &ParseError{Pos: p.pos, Msg: msg}
}

func (p *parser) incomplete(msg string) *ParseError {
	return &ParseError{Pos: p.pos, Msg: msg, incomplete: true}
}

func (p *parser) parseForm() (Value, error) {
	if p.pos >= len(p.input) {
		return Value{}, p.incomplete("unexpected end of input")
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return Value{}, p.errorf(fmt.Sprintf("forms nested deeper than %d", maxNesting))
	}
	switch ch := p.input[p.pos]; {
	case ch == '\'':
		return p.parseQuote()
	case ch == '(':
		return p.parseList()
	case ch == ')':
		return Value{}, p.errorf("unexpected ')'")
	case ch == '"':
		return p.parseString()
	case ch == '#' && p.peek(1) == '\\':
		return p.parseChar()
	default:
		return p.parseAtom()
	}
}

func (p *parser) peek(off int) rune {
	if p.pos+off < len(p.input) {
		return p.input[p.pos+off]
	}
	return 0
}

func (p *parser) parseQuote() (Value, error) {
	p.pos++ // skip '\''
	p.skipWhitespace()
	inner, err := p.parseForm()
	if err != nil {
		return Value{}, err
	}
	return ListVal([]Value{SymbolVal("quote"), inner}), nil
}

func (p *parser) parseList() (Value, error) {
	p.pos++ // skip '('
	var elems []Value
	for {
		p.skipWhitespace()
		if p.pos >= len(p.input) {
			return Value{}, p.incomplete("unclosed list")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return ListVal(elems), nil
		}
		v, err := p.parseForm()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
}

func (p *parser) parseString() (Value, error) {
	p.pos++ // skip opening '"'
	var buf strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '\\' {
			if err := p.parseEscape(&buf); err != nil {
				return Value{}, err
			}
			continue
		}
		if ch == '"' {
			p.pos++
			return StringVal(buf.String()), nil
		}
		buf.WriteRune(ch)
		p.pos++
	}
	return Value{}, p.incomplete("unclosed string")
}

// maxEscapeLen is the longest Go escape sequence, \UXXXXXXXX.
const maxEscapeLen = 10

// parseEscape decodes one backslash escape with Go string-literal rules, which
// is everything the printer can emit.
func (p *parser) parseEscape(buf *strings.Builder) error {
	end := p.pos + maxEscapeLen
	if end > len(p.input) {
		end = len(p.input)
	}
	chunk := string(p.input[p.pos:end])
	value, multibyte, tail, err := strconv.UnquoteChar(chunk, '"')
	if err != nil {
		if end == len(p.input) && !strings.ContainsRune(chunk[1:], '"') {
			return p.incomplete("unexpected end of input in string escape")
		}
		return p.errorf("invalid escape sequence in string")
	}
	if value < utf8.RuneSelf || multibyte {
		buf.WriteRune(value)
	} else {
		buf.WriteByte(byte(value))
	}
	p.pos += utf8.RuneCountInString(chunk) - utf8.RuneCountInString(tail)
	return nil
}

var charNames = map[string]rune{
	"space":   ' ',
	"newline": '\n',
	"tab":     '\t',
}

func (p *parser) parseChar() (Value, error) {
	p.pos += 2 // skip '#\'
	if p.pos >= len(p.input) {
		return Value{}, p.incomplete("unexpected end of input in character literal")
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.input) && !isDelimiter(p.input[p.pos]) {
		p.pos++
	}
	name := string(p.input[start:p.pos])
	if len([]rune(name)) == 1 {
		return CharVal([]rune(name)[0]), nil
	}
	if c, ok := charNames[name]; ok {
		return CharVal(c), nil
	}
	return Value{}, p.errorf("unknown character name: " + name)
}

func (p *parser) parseAtom() (Value, error) {
	start := p.pos
	for p.pos < len(p.input) && !isDelimiter(p.input[p.pos]) {
		p.pos++
	}
	token := string(p.input[start:p.pos])
	if token == "" {
		return Value{}, p.errorf("unexpected character: " + string(p.input[start]))
	}

	switch token {
	case "true", "#t":
		return BoolVal(true), nil
	case "false", "#f":
		return BoolVal(false), nil
	case "nil":
		return NilVal(), nil
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntVal(i), nil
	}

	if num, den, ok := strings.Cut(token, "/"); ok {
		n, nerr := strconv.ParseInt(num, 10, 64)
		d, derr := strconv.ParseInt(den, 10, 64)
		if nerr == nil && derr == nil {
			if d == 0 {
				return Value{}, &ParseError{Pos: start, Msg: "zero denominator in " + token}
			}
			v, err := Simplify(n, d)
			if err != nil {
				return Value{}, &ParseError{Pos: start, Msg: err.Error()}
			}
			return v, nil
		}
	}

	return SymbolVal(token), nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == ';' {
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if !unicode.IsSpace(ch) {
			break
		}
		p.pos++
	}
}

func isDelimiter(ch rune) bool {
	return unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';' || ch == '\''
}
