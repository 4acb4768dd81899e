package uregex

import (
	"bytes"
)

// ReplaceAllLiteral returns a copy of src with every match replaced by
// repl. The replacement is inserted as-is, without $ expansion.
//
// Example:
//
//	p := uregex.MustCompile(`\d+`)
//	out, _ := p.ReplaceAllLiteral([]byte("age: 42"), []byte("XX"))
//	// out = []byte("age: XX")
func (p *Pattern) ReplaceAllLiteral(src, repl []byte) ([]byte, error) {
	ms, err := p.collect(src, -1)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return append([]byte(nil), src...), nil
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, m := range ms {
		out = append(out, src[last:m.Start()]...)
		out = append(out, repl...)
		last = m.End()
	}
	return append(out, src[last:]...), nil
}

// ReplaceAllLiteralString is ReplaceAllLiteral for string arguments.
func (p *Pattern) ReplaceAllLiteralString(src, repl string) (string, error) {
	out, err := p.ReplaceAllLiteral([]byte(src), []byte(repl))
	return string(out), err
}

// ReplaceAll returns a copy of src with every match replaced by repl,
// expanding $ references: $0 is the whole match, $1 through $9 are capture
// slots, ${name} and ${number} look a slot up explicitly, and $$ is a
// literal dollar sign. References to unset slots expand to nothing.
//
// Example:
//
//	p := uregex.MustCompile(`(?P<user>\w+)@(?P<host>\w+)`)
//	out, _ := p.ReplaceAll([]byte("mail dev@example"), []byte("${user} at ${host}"))
//	// out = []byte("mail dev at example")
func (p *Pattern) ReplaceAll(src, repl []byte) ([]byte, error) {
	if bytes.IndexByte(repl, '$') < 0 {
		return p.ReplaceAllLiteral(src, repl)
	}
	ms, err := p.collect(src, -1)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return append([]byte(nil), src...), nil
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, m := range ms {
		out = append(out, src[last:m.Start()]...)
		out = p.expand(out, repl, m)
		last = m.End()
	}
	return append(out, src[last:]...), nil
}

// ReplaceAllString is ReplaceAll for string arguments.
func (p *Pattern) ReplaceAllString(src, repl string) (string, error) {
	out, err := p.ReplaceAll([]byte(src), []byte(repl))
	return string(out), err
}

// expand appends repl to dst, substituting $ references from m.
func (p *Pattern) expand(dst, repl []byte, m *Match) []byte {
	for i := 0; i < len(repl); {
		if repl[i] != '$' || i+1 >= len(repl) {
			dst = append(dst, repl[i])
			i++
			continue
		}
		next := repl[i+1]

		if next >= '0' && next <= '9' {
			if g := m.Group(int(next - '0')); g != nil {
				dst = append(dst, g...)
			}
			i += 2
			continue
		}

		if next == '{' {
			end := bytes.IndexByte(repl[i+2:], '}')
			if end < 0 {
				dst = append(dst, '$')
				i++
				continue
			}
			if g := lookupGroup(m, string(repl[i+2:i+2+end])); g != nil {
				dst = append(dst, g...)
			}
			i += end + 3
			continue
		}

		if next == '$' {
			dst = append(dst, '$')
			i += 2
			continue
		}

		// A lone $ before anything else stays literal.
		dst = append(dst, '$')
		i++
	}
	return dst
}

func lookupGroup(m *Match, ref string) []byte {
	if ref == "" {
		return nil
	}
	slot := 0
	for i := 0; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return m.GroupByName(ref)
		}
		slot = slot*10 + int(ref[i]-'0')
	}
	return m.Group(slot)
}

// ReplaceAllFunc returns a copy of src with every match replaced by the
// return of repl applied to the matched bytes. No $ expansion is done on
// the returned text.
//
// Example:
//
//	p := uregex.MustCompile(`\w+`)
//	out, _ := p.ReplaceAllFunc([]byte("ab cd"), bytes.ToUpper)
//	// out = []byte("AB CD")
func (p *Pattern) ReplaceAllFunc(src []byte, repl func([]byte) []byte) ([]byte, error) {
	ms, err := p.collect(src, -1)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return append([]byte(nil), src...), nil
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, m := range ms {
		out = append(out, src[last:m.Start()]...)
		out = append(out, repl(m.Bytes())...)
		last = m.End()
	}
	return append(out, src[last:]...), nil
}

// ReplaceAllStringFunc is ReplaceAllFunc for string arguments.
func (p *Pattern) ReplaceAllStringFunc(src string, repl func(string) string) (string, error) {
	out, err := p.ReplaceAllFunc([]byte(src), func(b []byte) []byte {
		return []byte(repl(string(b)))
	})
	return string(out), err
}

// Split slices s into the substrings between matches of the pattern and
// returns them. The count n limits the number of substrings as in the
// strings package: n > 0 yields at most n substrings, the last of which is
// the unsplit remainder; n <= 0 yields them all; n == 0 yields nil.
//
// Example:
//
//	p := uregex.MustCompile(`\s*,\s*`)
//	parts, _ := p.Split("a, b ,c", -1)
//	// parts = []string{"a", "b", "c"}
func (p *Pattern) Split(s string, n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	if len(p.pattern) > 0 && len(s) == 0 {
		return []string{""}, nil
	}
	ms, err := p.collect([]byte(s), n)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ms)+1)
	beg := 0
	end := 0
	for _, m := range ms {
		if n > 0 && len(out) >= n-1 {
			break
		}
		end = m.Start()
		// An empty match at the start of the input separates nothing.
		if m.End() != 0 {
			out = append(out, s[beg:end])
		}
		beg = m.End()
	}
	if end != len(s) {
		out = append(out, s[beg:])
	}
	return out, nil
}
