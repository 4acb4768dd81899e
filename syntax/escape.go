package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
)

// parseEscape scans an escape outside a class. p.pos is on the backslash.
// It yields either literal text or a node, never both.
func (p *parser) parseEscape() (string, *ir.Node, error) {
	if p.pos+1 >= len(p.src) {
		return "", nil, p.errorf(p.pos, "trailing backslash")
	}
	switch c := p.src[p.pos+1]; c {
	case 'd', 'D', 'w', 'W', 's', 'S', 'h', 'H', 'v', 'V':
		p.pos += 2
		return "", ir.Class(shorthandClass(c)), nil
	case 'p', 'P':
		cls, err := p.parseUnicodeClass()
		if err != nil {
			return "", nil, err
		}
		return "", ir.Class(cls), nil
	case 'X':
		p.pos += 2
		return "", p.clusterNode(), nil
	case 'A':
		p.pos += 2
		return "", ir.Anchor(ir.AnchorInputStart), nil
	case 'z':
		p.pos += 2
		return "", ir.Anchor(ir.AnchorInputEnd), nil
	case 'b':
		p.pos += 2
		return "", ir.Anchor(ir.AnchorWordBoundary), nil
	case 'B':
		p.pos += 2
		return "", ir.Anchor(ir.AnchorNoWordBoundary), nil
	case 'Q':
		p.pos += 2
		quoted := p.src[p.pos:]
		if i := strings.Index(quoted, `\E`); i >= 0 {
			quoted = quoted[:i]
			p.pos += i + 2
		} else {
			p.pos = len(p.src)
		}
		return quoted, nil, nil
	default:
		text, err := p.escapeText()
		return text, nil, err
	}
}

// escapeText scans an escape denoting literal text. p.pos is on the
// backslash.
func (p *parser) escapeText() (string, error) {
	start := p.pos
	c := p.src[p.pos+1]
	p.pos += 2
	switch {
	case c == 'n':
		return "\n", nil
	case c == 'r':
		return "\r", nil
	case c == 't':
		return "\t", nil
	case c == 'f':
		return "\f", nil
	case c == 'a':
		return "\a", nil
	case c == 'e':
		return "\x1b", nil
	case c == '0':
		if isDigit(p.peek()) {
			return "", p.errorf(start, "octal escapes are not supported")
		}
		return "\x00", nil
	case c >= '1' && c <= '9':
		return "", p.errorf(start, "backreferences are not supported")
	case c == 'x':
		return p.hexEscape(start)
	case c >= utf8.RuneSelf:
		return "", p.errorf(start, "unrecognized escape")
	case isAlnum(c):
		return "", p.errorf(start, "unrecognized escape \\%c", c)
	default:
		return string(rune(c)), nil
	}
}

// hexEscape scans the tail of \xHH or \x{HEX}. p.pos is past the x.
func (p *parser) hexEscape(start int) (string, error) {
	if p.peek() == '{' {
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return "", p.errorf(start, "missing } in hex escape")
		}
		digits := p.src[p.pos : p.pos+end]
		p.pos += end + 1
		r, ok := parseHexRune(digits)
		if !ok {
			return "", p.errorf(start, "invalid code point in hex escape")
		}
		return string(r), nil
	}
	if p.pos+2 > len(p.src) || !isHexDigit(p.src[p.pos]) || !isHexDigit(p.src[p.pos+1]) {
		return "", p.errorf(start, "invalid hex escape")
	}
	r := rune(hexVal(p.src[p.pos]))<<4 | rune(hexVal(p.src[p.pos+1]))
	p.pos += 2
	return string(r), nil
}

func parseHexRune(digits string) (rune, bool) {
	if digits == "" || len(digits) > 6 {
		return 0, false
	}
	var r rune
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return 0, false
		}
		r = r<<4 | rune(hexVal(digits[i]))
	}
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

// parseUnicodeClass scans \pL, \p{Name} or \p{^Name}, and the \P negated
// forms. p.pos is on the backslash.
func (p *parser) parseUnicodeClass() (*charclass.Class, error) {
	start := p.pos
	neg := p.src[p.pos+1] == 'P'
	p.pos += 2
	var name string
	if p.peek() == '{' {
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return nil, p.errorf(start, "missing } in property name")
		}
		name = p.src[p.pos : p.pos+end]
		p.pos += end + 1
	} else {
		if p.eof() {
			return nil, p.errorf(start, "missing property name")
		}
		name = p.src[p.pos : p.pos+1]
		p.pos++
	}
	if strings.HasPrefix(name, "^") {
		neg = !neg
		name = name[1:]
	}
	table, ok := charclass.LookupProperty(name)
	if !ok {
		return nil, p.errorf(start, "unknown Unicode property %q", name)
	}
	cls := charclass.FromProperty(name, table)
	if neg {
		cls = charclass.Negate(cls)
	}
	return cls, nil
}

// clusterNode builds the \X construct: one whole grapheme cluster
// regardless of the active semantic level.
func (p *parser) clusterNode() *ir.Node {
	any := ir.Class(charclass.Any())
	if p.opts.Level == option.LevelGrapheme {
		return any
	}
	return ir.Scope(any, option.Delta{Set: option.FieldLevel, Level: option.LevelGrapheme})
}

// shorthandClass maps a \d style letter to its class; an uppercase letter
// negates.
func shorthandClass(c byte) *charclass.Class {
	var cls *charclass.Class
	switch c | 0x20 {
	case 'd':
		cls = charclass.FromBuiltin(charclass.Digit)
	case 'w':
		cls = charclass.FromBuiltin(charclass.Word)
	case 's':
		cls = charclass.FromBuiltin(charclass.Whitespace)
	case 'h':
		cls = charclass.FromBuiltin(charclass.HorizSpace)
	case 'v':
		cls = charclass.FromBuiltin(charclass.VertSpace)
	}
	if c <= 'Z' {
		cls = charclass.Negate(cls)
	}
	return cls
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func hexVal(c byte) int {
	if isDigit(c) {
		return int(c - '0')
	}
	return int(c|0x20-'a') + 10
}
