// Package syntax parses the textual pattern dialect into an ir tree.
//
// The dialect is the familiar one: literals, . and [...] classes,
// alternation with |, quantifiers * + ? {n,m} with ? and + policy
// suffixes, plain and named captures, atomic groups (?>...), lookaround
// (?= (?! (?<= (?<!, inline options (?i) and (?i:...), and external
// components (?C{name}).
//
// Literal text is segmented at the lexically active semantic level, so a
// quantifier after a combining sequence repeats the whole cluster:
//
//	e\x{301}+    one or more é clusters, not an e and repeated marks
//
// Inline options change both how the rest of the enclosing group is read
// (anchor forms, literal segmentation) and how it matches (case folding,
// ASCII class gating, semantic level). The parser lowers them to option
// scope nodes so the match-time option stack sees the same state the
// lexical scan did.
package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/uregex/charclass"
	"github.com/coregx/uregex/component"
	"github.com/coregx/uregex/ir"
	"github.com/coregx/uregex/option"
	"github.com/coregx/uregex/segment"
)

// Parse compiles pattern text under the given global options. External
// component references resolve against reg; a nil reg means the default
// registry.
func Parse(pattern string, opts option.Options, reg *component.Registry) (*ir.Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = component.Default
	}
	p := &parser{
		src:    pattern,
		opts:   opts,
		ctx:    opts,
		reg:    reg,
		schema: ir.NewSchema(),
	}
	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf(p.pos, "unmatched )")
	}
	t := &ir.Tree{Root: root, Schema: p.schema, Options: opts}
	if err := ir.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

type parser struct {
	src    string
	pos    int
	opts   option.Options // lexical option state
	ctx    option.Options // state the match-time option stack holds here
	reg    *component.Registry
	schema *ir.Schema
	depth  int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) parseAlternation() (*ir.Node, error) {
	var branches []*ir.Node
	for {
		b, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
		if p.eof() || p.peek() == ')' {
			break
		}
		p.pos++ // '|'
	}
	return ir.Alternation(branches...), nil
}

// parseConcat parses a branch up to '|', ')' or the end of the pattern.
//
// Atoms accumulate in runs sharing one lexical option state. A run whose
// state differs from the match-time context gets wrapped in a scope node,
// so bare inline flags like (?i) behave exactly like an explicit
// (?i:...) around the rest of the branch. Cluster boundary anchors go in
// wherever matching switches from scalar back to grapheme level.
func (p *parser) parseConcat() (*ir.Node, error) {
	var (
		parts    []*ir.Node
		run      []*ir.Node
		lit      strings.Builder
		runDelta = runtimeDelta(p.ctx, p.opts)
		runLevel = p.opts.Level
	)
	flushLit := func() {
		if lit.Len() == 0 {
			return
		}
		run = append(run, segmentLiteral(lit.String(), runLevel)...)
		lit.Reset()
	}
	flushRun := func() {
		flushLit()
		if len(run) == 0 {
			return
		}
		seg := ir.Concat(run...)
		if !runDelta.IsZero() {
			seg = ir.Scope(seg, runDelta)
		}
		parts = append(parts, seg)
		run = nil
	}

	for !p.eof() {
		c := p.peek()
		if c == '|' || c == ')' {
			break
		}
		switch c {
		case '(':
			if p.isInlineFlags() {
				flushRun()
				start := p.pos
				p.pos += 2
				newOpts, err := p.parseFlags(start)
				if err != nil {
					return nil, err
				}
				p.pos++ // ')'
				if runLevel == option.LevelScalar && newOpts.Level == option.LevelGrapheme {
					parts = append(parts, ir.Anchor(ir.AnchorClusterBoundary))
				}
				p.opts = newOpts
				runDelta = runtimeDelta(p.ctx, p.opts)
				runLevel = p.opts.Level
				continue
			}
			flushLit()
			g, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			run = append(run, g)
		case '[':
			flushLit()
			cls, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			run = append(run, ir.Class(cls))
		case '.':
			flushLit()
			p.pos++
			if p.opts.DotNewline {
				run = append(run, ir.Class(charclass.Any()))
			} else {
				run = append(run, ir.Class(charclass.AnyNoNewline()))
			}
		case '^':
			flushLit()
			p.pos++
			if p.opts.Multiline {
				run = append(run, ir.Anchor(ir.AnchorLineStart))
			} else {
				run = append(run, ir.Anchor(ir.AnchorInputStart))
			}
		case '$':
			flushLit()
			p.pos++
			if p.opts.Multiline {
				run = append(run, ir.Anchor(ir.AnchorLineEnd))
			} else {
				run = append(run, ir.Anchor(ir.AnchorInputEnd))
			}
		case '*', '+', '?':
			flushLit()
			if len(run) == 0 {
				return nil, p.errorf(p.pos, "missing target for %q", rune(c))
			}
			last := run[len(run)-1]
			if last.Kind == ir.KindQuantifier {
				return nil, p.errorf(p.pos, "multiple repeat")
			}
			var min, max int
			switch c {
			case '*':
				min, max = 0, ir.Unbounded
			case '+':
				min, max = 1, ir.Unbounded
			case '?':
				min, max = 0, 1
			}
			p.pos++
			run[len(run)-1] = ir.Quantify(last, min, max, p.quantPolicy())
		case '{':
			min, max, end, ok, err := p.tryCounts()
			if err != nil {
				return nil, err
			}
			if !ok {
				lit.WriteByte('{')
				p.pos++
				break
			}
			flushLit()
			if len(run) == 0 {
				return nil, p.errorf(p.pos, "missing target for repetition")
			}
			last := run[len(run)-1]
			if last.Kind == ir.KindQuantifier {
				return nil, p.errorf(p.pos, "multiple repeat")
			}
			p.pos = end
			run[len(run)-1] = ir.Quantify(last, min, max, p.quantPolicy())
		case '\\':
			text, node, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			if node != nil {
				flushLit()
				run = append(run, node)
			} else {
				lit.WriteString(text)
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return nil, p.errorf(p.pos, "invalid UTF-8 in pattern")
			}
			lit.WriteRune(r)
			p.pos += size
		}
	}
	flushRun()
	if runLevel == option.LevelScalar && p.ctx.Level == option.LevelGrapheme {
		parts = append(parts, ir.Anchor(ir.AnchorClusterBoundary))
	}
	return ir.Concat(parts...), nil
}

// parseGroup parses a parenthesized construct. p.pos is on the '('. Bare
// inline flag groups are recognized by parseConcat before this is called.
func (p *parser) parseGroup() (*ir.Node, error) {
	start := p.pos
	p.pos++
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxNesting {
		return nil, p.errorf(start, "expression nests too deeply")
	}

	if p.peek() != '?' {
		slot, _ := p.schema.Add("", false)
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		return ir.Capture(body, slot, "", nil), nil
	}
	p.pos++
	switch c := p.peek(); c {
	case ':':
		p.pos++
		return p.parseBody()
	case '>':
		p.pos++
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		return ir.Group(body, true), nil
	case '=', '!':
		p.pos++
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		return ir.Look(body, false, c == '!'), nil
	case '<':
		if n := p.peekAt(1); n == '=' || n == '!' {
			p.pos += 2
			body, err := p.parseBody()
			if err != nil {
				return nil, err
			}
			return ir.Look(body, true, n == '!'), nil
		}
		p.pos++
		return p.parseNamedCapture(start)
	case 'P':
		if p.peekAt(1) != '<' {
			return nil, p.errorf(start, "malformed named capture")
		}
		p.pos += 2
		return p.parseNamedCapture(start)
	case 'C':
		return p.parseComponent(start)
	default:
		return p.parseScopedFlags(start)
	}
}

func (p *parser) parseNamedCapture(start int) (*ir.Node, error) {
	name, err := p.parseGroupName()
	if err != nil {
		return nil, err
	}
	slot, err := p.schema.Add(name, false)
	if err != nil {
		return nil, p.errorf(start, "duplicate capture name %q", name)
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ir.Capture(body, slot, name, nil), nil
}

func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	for !p.eof() && p.peek() != '>' {
		c := p.peek()
		if !isAlnum(c) && c != '_' {
			return "", p.errorf(p.pos, "invalid capture name character %q", rune(c))
		}
		p.pos++
	}
	if p.eof() {
		return "", p.errorf(start, "missing > in capture name")
	}
	name := p.src[start:p.pos]
	p.pos++
	if name == "" {
		return "", p.errorf(start, "empty capture name")
	}
	if isDigit(name[0]) {
		return "", p.errorf(start, "capture name starts with a digit")
	}
	return name, nil
}

func (p *parser) parseComponent(start int) (*ir.Node, error) {
	if p.peekAt(1) != '{' {
		return nil, p.errorf(start, "malformed component reference")
	}
	p.pos += 2
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return nil, p.errorf(start, "missing } in component reference")
	}
	name := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	if name == "" {
		return nil, p.errorf(start, "empty component name")
	}
	if p.peek() != ')' {
		return nil, p.errorf(p.pos, "missing ) after component reference")
	}
	p.pos++
	consumer, ok := p.reg.Lookup(name)
	if !ok {
		return nil, p.errorf(start, "unknown component %q", name)
	}
	slot, _ := p.schema.Add("", true)
	return ir.External(name, consumer, slot), nil
}

// parseScopedFlags parses the (?flags:...) form. p.pos is on the first
// flag letter.
func (p *parser) parseScopedFlags(start int) (*ir.Node, error) {
	newOpts, err := p.parseFlags(start)
	if err != nil {
		return nil, err
	}
	if p.peek() == ')' {
		return nil, p.errorf(start, "missing flags")
	}
	p.pos++ // ':'
	delta := runtimeDelta(p.opts, newOpts)
	outer := p.opts.Level
	savedOpts, savedCtx := p.opts, p.ctx
	p.opts, p.ctx = newOpts, newOpts
	body, err := p.parseAlternation()
	p.opts, p.ctx = savedOpts, savedCtx
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != ')' {
		return nil, p.errorf(p.pos, "missing )")
	}
	p.pos++
	if delta.IsZero() {
		return body, nil
	}
	if outer == option.LevelScalar && newOpts.Level == option.LevelGrapheme {
		body = ir.Concat(ir.Anchor(ir.AnchorClusterBoundary), body)
	}
	node := ir.Scope(body, delta)
	if outer == option.LevelGrapheme && newOpts.Level == option.LevelScalar {
		node = ir.Concat(node, ir.Anchor(ir.AnchorClusterBoundary))
	}
	return node, nil
}

// parseBody parses a group body up to and including its ')'. Flag changes
// inside the group do not escape it.
func (p *parser) parseBody() (*ir.Node, error) {
	savedOpts, savedCtx := p.opts, p.ctx
	p.ctx = p.opts
	n, err := p.parseAlternation()
	p.opts, p.ctx = savedOpts, savedCtx
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != ')' {
		return nil, p.errorf(p.pos, "missing )")
	}
	p.pos++
	return n, nil
}

// isInlineFlags reports whether p.pos starts a bare flag group like (?i)
// or (?m-s), as opposed to a scoped (?i:...) or any other (?  construct.
func (p *parser) isInlineFlags() bool {
	if p.peekAt(1) != '?' {
		return false
	}
	for i := p.pos + 2; i < len(p.src); i++ {
		switch c := p.src[i]; {
		case c == ')':
			return i > p.pos+2
		case c == ':':
			return false
		case strings.IndexByte("imsaubUp-", c) < 0:
			return false
		}
	}
	return false
}

// parseFlags scans flag letters and an optional cleared section after '-',
// leaving p.pos on the terminating ':' or ')'. It returns the option state
// with the flags applied.
func (p *parser) parseFlags(start int) (option.Options, error) {
	o := p.opts
	clear := false
	for {
		if p.eof() {
			return o, p.errorf(start, "missing ) in flag group")
		}
		switch c := p.peek(); c {
		case ':', ')':
			return o, nil
		case '-':
			if clear {
				return o, p.errorf(p.pos, "repeated - in flags")
			}
			clear = true
		case 'i':
			o.CaseInsensitive = !clear
		case 'm':
			o.Multiline = !clear
		case 's':
			o.DotNewline = !clear
		case 'a':
			if clear {
				o.ASCIIClasses = 0
			} else {
				o.ASCIIClasses = option.ASCIIAll
			}
		case 'u':
			if clear {
				o.Level = option.LevelScalar
			} else {
				o.Level = option.LevelGrapheme
			}
		case 'b':
			if clear {
				o.WordBoundary = option.WordBoundaryDefault
			} else {
				o.WordBoundary = option.WordBoundarySimple
			}
		case 'U':
			if clear {
				o.Repetition = option.RepeatEager
			} else {
				o.Repetition = option.RepeatReluctant
			}
		case 'p':
			if clear {
				o.Repetition = option.RepeatEager
			} else {
				o.Repetition = option.RepeatPossessive
			}
		default:
			return o, p.errorf(p.pos, "unknown flag %q", rune(c))
		}
		p.pos++
	}
}

// quantPolicy resolves the policy of the quantifier just parsed: an
// explicit ? or + suffix, or the scoped default.
func (p *parser) quantPolicy() option.Repetition {
	pol := p.opts.Repetition
	switch p.peek() {
	case '?':
		pol = option.RepeatReluctant
		p.pos++
	case '+':
		pol = option.RepeatPossessive
		p.pos++
	}
	return pol
}

// tryCounts scans a counted repetition {n}, {n,} or {n,m} at p.pos.
// Braces that do not form one are literal text: ok is false and err nil.
func (p *parser) tryCounts() (min, max, end int, ok bool, err error) {
	src := p.src
	i := p.pos + 1
	d0 := i
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i == d0 {
		return 0, 0, 0, false, nil
	}
	n1 := src[d0:i]
	var n2 string
	comma := false
	if i < len(src) && src[i] == ',' {
		comma = true
		i++
		d1 := i
		for i < len(src) && isDigit(src[i]) {
			i++
		}
		n2 = src[d1:i]
	}
	if i >= len(src) || src[i] != '}' {
		return 0, 0, 0, false, nil
	}
	end = i + 1

	brace := p.pos
	min, aerr := strconv.Atoi(n1)
	if aerr != nil || min > p.opts.MaxRepeat {
		return 0, 0, 0, false, p.errorf(brace, "repetition count above limit %d", p.opts.MaxRepeat)
	}
	max = min
	if comma {
		max = ir.Unbounded
		if n2 != "" {
			max, aerr = strconv.Atoi(n2)
			if aerr != nil || max > p.opts.MaxRepeat {
				return 0, 0, 0, false, p.errorf(brace, "repetition count above limit %d", p.opts.MaxRepeat)
			}
			if max < min {
				return 0, 0, 0, false, p.errorf(brace, "repetition interval out of order")
			}
		}
	}
	return min, max, end, true, nil
}

// runtimeDelta encodes the difference between two option states as the
// scope delta that takes the match-time stack from one to the other.
// Parse-time fields (multiline, dot-matches-newline) have no match-time
// representation and do not contribute.
func runtimeDelta(from, to option.Options) option.Delta {
	var d option.Delta
	if from.CaseInsensitive != to.CaseInsensitive {
		d.Set |= option.FieldCase
		d.CaseInsensitive = to.CaseInsensitive
	}
	if from.ASCIIClasses != to.ASCIIClasses {
		d.Set |= option.FieldASCII
		d.ASCIIClasses = to.ASCIIClasses
	}
	if from.Level != to.Level {
		d.Set |= option.FieldLevel
		d.Level = to.Level
	}
	if from.WordBoundary != to.WordBoundary {
		d.Set |= option.FieldWordBoundary
		d.WordBoundary = to.WordBoundary
	}
	if from.Repetition != to.Repetition {
		d.Set |= option.FieldRepetition
		d.Repetition = to.Repetition
	}
	return d
}

// segmentLiteral splits literal pattern text into one node per element of
// the given level.
func segmentLiteral(text string, level option.Level) []*ir.Node {
	elems := segment.Elements(text, level)
	nodes := make([]*ir.Node, len(elems))
	for i, el := range elems {
		nodes[i] = ir.Literal(el)
	}
	return nodes
}
