// Package parser parses the type expressions used in model files
// into ir descriptors.
//
// Grammar:
//
//	type     = "int" | "bool" | "string" | "opaque"
//	         | "seq" "[" type "]"
//	         | "set" "[" type "]"
//	         | "map" "[" type "," type "]"
//	         | "(" [ type { "," type } ] ")"
//	         | Name [ "[" type { "," type } "]" ]
//
// A bare Name parses as a datatype reference; the loader rewrites
// references matching a declared generic parameter into parameter
// descriptors afterwards.
package parser

import (
	"fmt"
	"unicode"

	"github.com/modelbind/jsbridge/ir"
)

type token struct {
	text string
	col  int // 1-based rune column, for errors
}

// ParseType parses a single type expression.
func ParseType(src string) (ir.Type, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.i < len(p.toks) {
		return nil, p.errorHere("unexpected %q after type", p.toks[p.i].text)
	}
	return t, nil
}

func scan(src string) ([]token, error) {
	var toks []token
	col := 0
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		col = i + 1
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[' || r == ']' || r == '(' || r == ')' || r == ',':
			toks = append(toks, token{text: string(r), col: col})
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			toks = append(toks, token{text: string(runes[start:i]), col: col})
		default:
			return nil, fmt.Errorf("col %v: invalid character %q in type expression %q", col, r, src)
		}
	}
	return toks, nil
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) errorHere(format string, args ...any) error {
	col := len([]rune(p.src)) + 1
	if p.i < len(p.toks) {
		col = p.toks[p.i].col
	}
	return fmt.Errorf("col %v: %v (in type expression %q)", col, fmt.Sprintf(format, args...), p.src)
}

func (p *parser) next() (token, bool) {
	if p.i >= len(p.toks) {
		return token{}, false
	}
	t := p.toks[p.i]
	p.i++
	return t, true
}

func (p *parser) expect(text string) error {
	tok, ok := p.next()
	if !ok {
		return p.errorHere("expected %q at end of expression", text)
	}
	if tok.text != text {
		p.i--
		return p.errorHere("expected %q, got %q", text, tok.text)
	}
	return nil
}

func (p *parser) parseType() (ir.Type, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.errorHere("expected type")
	}

	switch tok.text {
	case "int":
		return ir.Int{}, nil
	case "bool":
		return ir.Bool{}, nil
	case "string":
		return ir.String{}, nil
	case "opaque":
		return ir.Opaque{}, nil
	case "seq", "set":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		if tok.text == "seq" {
			return ir.Seq{Elem: elem}, nil
		}
		return ir.Set{Elem: elem}, nil
	case "map":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return ir.Map{Key: key, Val: val}, nil
	case "(":
		var elems []ir.Type
		if p.i < len(p.toks) && p.toks[p.i].text == ")" {
			p.i++
			return ir.Tuple{}, nil
		}
		for {
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			tok, ok := p.next()
			if !ok {
				return nil, p.errorHere(`expected "," or ")" at end of expression`)
			}
			if tok.text == ")" {
				break
			}
			if tok.text != "," {
				p.i--
				return nil, p.errorHere(`expected "," or ")", got %q`, tok.text)
			}
		}
		return ir.Tuple{Elems: elems}, nil
	case "[", "]", ")", ",":
		p.i--
		return nil, p.errorHere("unexpected %q", tok.text)
	}

	if !isTypeName(tok.text) {
		return nil, p.errorHere("invalid type name %q", tok.text)
	}

	// Datatype reference, optionally with type arguments.
	name := tok.text
	var args []ir.Type
	if p.i < len(p.toks) && p.toks[p.i].text == "[" {
		p.i++
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			tok, ok := p.next()
			if !ok {
				return nil, p.errorHere(`expected "," or "]" at end of expression`)
			}
			if tok.text == "]" {
				break
			}
			if tok.text != "," {
				p.i--
				return nil, p.errorHere(`expected "," or "]", got %q`, tok.text)
			}
		}
	}
	return ir.Named{Name: name, Args: args}, nil
}

func isTypeName(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return r == '_' || unicode.IsLetter(r)
}

// MustParseType is ParseType for tests and hand-built models.
func MustParseType(src string) ir.Type {
	t, err := ParseType(src)
	if err != nil {
		panic(fmt.Sprintf("parse type %q: %v", src, err))
	}
	return t
}
