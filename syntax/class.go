package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/segment"
)

var posixNames = map[string]charclass.Builtin{
	"alnum":  charclass.Alnum,
	"alpha":  charclass.Alpha,
	"ascii":  charclass.ASCII,
	"blank":  charclass.Blank,
	"cntrl":  charclass.Cntrl,
	"digit":  charclass.Digit,
	"graph":  charclass.Graph,
	"lower":  charclass.Lower,
	"print":  charclass.Print,
	"punct":  charclass.Punct,
	"space":  charclass.Whitespace,
	"upper":  charclass.Upper,
	"word":   charclass.Word,
	"xdigit": charclass.HexDigit,
}

// parseClass parses a bracketed class. p.pos is on the '['.
//
// Between the brackets: members and ranges, \d style shorthands,
// \p{...} properties, [:posix:] names, nested [...] sets, \q{...}
// sequence members, and the binary operators && (intersection),
// -- (subtraction) and ~~ (symmetric difference), which bind looser than
// the implicit union of adjacent members and associate left.
//
// Members are read at the active semantic level, so a combining sequence
// in the pattern is one member. A member or range endpoint that
// canonically composes to a single scalar is stored as that scalar.
func (p *parser) parseClass() (*charclass.Class, error) {
	start := p.pos
	p.pos++
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxNesting {
		return nil, p.errorf(start, "expression nests too deeply")
	}

	negate := p.peek() == '^'
	if negate {
		p.pos++
	}

	var (
		result  *charclass.Class
		pendOp  byte
		scalars []rune
		ranges  []charclass.Range
		seqs    []string
		pieces  []*charclass.Class
	)
	operand := func(pos int) (*charclass.Class, error) {
		var ops []*charclass.Class
		if len(scalars) > 0 {
			ops = append(ops, charclass.FromScalars(scalars...))
		}
		if len(ranges) > 0 {
			ops = append(ops, charclass.FromRanges(ranges...))
		}
		if len(seqs) > 0 {
			ops = append(ops, charclass.FromSequences(seqs...))
		}
		ops = append(ops, pieces...)
		scalars, ranges, seqs, pieces = nil, nil, nil, nil
		if len(ops) == 0 {
			return nil, p.errorf(pos, "missing class operand")
		}
		return charclass.Union(ops...), nil
	}
	fold := func(pos int) error {
		right, err := operand(pos)
		if err != nil {
			return err
		}
		switch pendOp {
		case 0:
			result = right
		case '&':
			result = charclass.Intersect(result, right)
		case '-':
			result = charclass.Subtract(result, right)
		case '~':
			result = charclass.SymDiff(result, right)
		}
		return nil
	}
	addMember := func(text string) error {
		if p.peek() == '-' && p.peekAt(1) != 0 && p.peekAt(1) != ']' && p.peekAt(1) != '-' {
			dash := p.pos
			p.pos++
			var hi string
			var err error
			if p.peek() == '\\' {
				if next := p.peekAt(1); next == 0 || strings.IndexByte("dDwWsShHvVpPqX", next) >= 0 {
					return p.errorf(dash, "invalid range end")
				}
				hi, err = p.escapeText()
			} else {
				hi, err = p.rawMember()
			}
			if err != nil {
				return err
			}
			lo, ok1 := composedScalar(text)
			hiR, ok2 := composedScalar(hi)
			if !ok1 || !ok2 {
				return p.errorf(dash, "range endpoint is not a single scalar")
			}
			if lo > hiR {
				return p.errorf(dash, "range out of order")
			}
			ranges = append(ranges, charclass.Range{Lo: lo, Hi: hiR})
			return nil
		}
		if r, ok := composedScalar(text); ok {
			scalars = append(scalars, r)
		} else {
			seqs = append(seqs, text)
		}
		return nil
	}

	for first := true; ; first = false {
		if p.eof() {
			return nil, p.errorf(start, "missing ]")
		}
		c := p.peek()
		switch {
		case c == ']' && !first:
			p.pos++
			if err := fold(p.pos); err != nil {
				return nil, err
			}
			if negate {
				result = charclass.Negate(result)
			}
			return result, nil
		case c == ']':
			scalars = append(scalars, ']')
			p.pos++
		case (c == '&' || c == '-' || c == '~') && p.peekAt(1) == c:
			opPos := p.pos
			if err := fold(opPos); err != nil {
				return nil, err
			}
			pendOp = c
			p.pos += 2
		case c == '[' && p.peekAt(1) == ':':
			cls, err := p.parsePosix()
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, cls)
		case c == '[':
			cls, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, cls)
		case c == '\\':
			next := p.peekAt(1)
			switch {
			case next == 0:
				return nil, p.errorf(p.pos, "trailing backslash")
			case next == 'p' || next == 'P':
				cls, err := p.parseUnicodeClass()
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, cls)
			case strings.IndexByte("dDwWsShHvV", next) >= 0:
				p.pos += 2
				pieces = append(pieces, shorthandClass(next))
			case next == 'b':
				// backspace inside a class
				p.pos += 2
				if err := addMember("\x08"); err != nil {
					return nil, err
				}
			case next == 'q':
				if err := p.parseQuotedMember(&scalars, &seqs); err != nil {
					return nil, err
				}
			default:
				text, err := p.escapeText()
				if err != nil {
					return nil, err
				}
				if err := addMember(text); err != nil {
					return nil, err
				}
			}
		case c == '-':
			scalars = append(scalars, '-')
			p.pos++
		default:
			text, err := p.rawMember()
			if err != nil {
				return nil, err
			}
			if err := addMember(text); err != nil {
				return nil, err
			}
		}
	}
}

// rawMember reads one literal class member at the active semantic level.
func (p *parser) rawMember() (string, error) {
	if p.opts.Level == option.LevelScalar {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == utf8.RuneError && size == 1 {
			return "", p.errorf(p.pos, "invalid UTF-8 in pattern")
		}
		p.pos += size
		return string(r), nil
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(p.src[p.pos:], -1)
	if !utf8.ValidString(cluster) {
		return "", p.errorf(p.pos, "invalid UTF-8 in pattern")
	}
	p.pos += len(cluster)
	return cluster, nil
}

// parseQuotedMember adds a \q{...} sequence member, which may span
// several scalars.
func (p *parser) parseQuotedMember(scalars *[]rune, seqs *[]string) error {
	start := p.pos
	p.pos += 2
	if p.peek() != '{' {
		return p.errorf(start, "malformed \\q member")
	}
	p.pos++
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return p.errorf(start, "missing } in \\q member")
	}
	text := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	if text == "" {
		return p.errorf(start, "empty \\q member")
	}
	if r, ok := composedScalar(text); ok {
		*scalars = append(*scalars, r)
	} else {
		*seqs = append(*seqs, text)
	}
	return nil
}

// parsePosix parses a [:name:] or [:^name:] item. p.pos is on the '['.
func (p *parser) parsePosix() (*charclass.Class, error) {
	start := p.pos
	p.pos += 2
	neg := p.peek() == '^'
	if neg {
		p.pos++
	}
	end := strings.Index(p.src[p.pos:], ":]")
	if end < 0 {
		return nil, p.errorf(start, "missing :] in POSIX class")
	}
	name := p.src[p.pos : p.pos+end]
	p.pos += end + 2
	b, ok := posixNames[name]
	if !ok {
		return nil, p.errorf(start, "unknown POSIX class %q", name)
	}
	cls := charclass.FromBuiltin(b)
	if neg {
		cls = charclass.Negate(cls)
	}
	return cls, nil
}

// composedScalar reports whether text canonically composes to a single
// scalar, and which.
func composedScalar(text string) (rune, bool) {
	c := segment.Compose(text)
	r, size := utf8.DecodeRuneInString(c)
	if size == len(c) && (r != utf8.RuneError || c == string(utf8.RuneError)) {
		return r, true
	}
	return 0, false
}
