package score

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kingrea/harpist/internal/harp"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("score: syntax error")

// Parse reads .hrp notation:
//
//	$ comments run to the end of the line
//	~~~|^^^^                      optional starting pedals
//	[c e g] [*Eb r] | [a c# e]    beats in brackets, bars between measures
//	~~~|-~~~                      optional final pedals
//
// A note is a letter with an optional accidental (b f ♭, n ♮, s # ♯). A
// leading * keeps its spelling; r is a rest.
func Parse(text string) (*Score, error) {
	p := &parser{src: []rune(stripComments(text)), line: 1, col: 1}
	return p.file()
}

func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if head, _, ok := strings.Cut(line, "$"); ok {
			lines[i] = head
		}
	}
	return strings.Join(lines, "\n")
}

type parser struct {
	src  []rune
	pos  int
	line int
	col  int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d, column %d: %s", ErrSyntax, p.line, p.col, fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func isPedalSymbol(r rune) bool {
	return strings.ContainsRune("~^-v", r)
}

func (p *parser) file() (*Score, error) {
	s := &Score{}
	p.skipSpace()
	if isPedalSymbol(p.peek()) {
		h, err := p.diagram()
		if err != nil {
			return nil, err
		}
		s.Start = h
	}
	measures, err := p.music()
	if err != nil {
		return nil, err
	}
	s.Measures = measures
	p.skipSpace()
	if isPedalSymbol(p.peek()) {
		h, err := p.diagram()
		if err != nil {
			return nil, err
		}
		s.End = h
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return s, nil
}

func (p *parser) diagram() (harp.Harp, error) {
	line, col := p.line, p.col
	var b strings.Builder
	for i := 0; i < harp.NumPedals+1 && !p.eof(); i++ {
		b.WriteRune(p.next())
	}
	h, err := harp.ParseDiagram(b.String())
	if err != nil {
		return h, fmt.Errorf("%w: line %d, column %d: %v", ErrSyntax, line, col, err)
	}
	return h, nil
}

func (p *parser) music() ([]Measure, error) {
	p.skipSpace()
	if p.peek() == '|' {
		p.next()
	}
	var out []Measure
	for {
		m, err := p.measure()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		p.skipSpace()
		if p.peek() != '|' {
			return out, nil
		}
		p.next()
		p.skipSpace()
		if p.peek() != '[' {
			// Closing bar line.
			return out, nil
		}
	}
}

func (p *parser) measure() (Measure, error) {
	p.skipSpace()
	if p.peek() != '[' {
		if p.eof() {
			return nil, p.errorf("expected a beat, found end of input")
		}
		return nil, p.errorf("expected a beat, found %q", p.peek())
	}
	var m Measure
	for p.peek() == '[' {
		b, err := p.beat()
		if err != nil {
			return nil, err
		}
		m = append(m, b)
		p.skipSpace()
	}
	return m, nil
}

func (p *parser) beat() (Beat, error) {
	p.next() // [
	b := Beat{}
	for {
		p.skipSpace()
		switch r := p.peek(); {
		case p.eof():
			return nil, p.errorf("unterminated beat")
		case r == ']':
			p.next()
			return b, nil
		case r == 'r' || r == 'R':
			p.next()
			b = append(b, Request{Kind: Rest})
		case r == '*':
			p.next()
			n, err := p.note()
			if err != nil {
				return nil, err
			}
			b = append(b, Request{Kind: Fixed, Note: n})
		default:
			n, err := p.note()
			if err != nil {
				return nil, err
			}
			b = append(b, Request{Kind: Free, Note: n})
		}
	}
}

func (p *parser) note() (harp.Note, error) {
	if p.eof() {
		return harp.Note{}, p.errorf("expected a note, found end of input")
	}
	name, ok := harp.ParseName(p.peek())
	if !ok {
		return harp.Note{}, p.errorf("expected a note, found %q", p.peek())
	}
	p.next()
	n := harp.Note{Name: name, Accidental: harp.Natural}
	if !p.eof() {
		if a, ok := harp.ParseAccidental(p.peek()); ok {
			p.next()
			n.Accidental = a
		}
	}
	return n, nil
}
