package charclass

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/coregx/uregex/option"
)

// ContainsScalar reports whether a single scalar belongs to the class. This
// is the membership test at scalar semantic level. Only CaseInsensitive and
// ASCIIClasses are consulted from the options.
//
// Explicit multi-scalar members of a set can never equal one scalar, so they
// are ignored here.
func (c *Class) ContainsScalar(r rune, o option.Options) bool {
	switch c.op {
	case opAny:
		return !c.noNewline || r != '\n'
	case opBuiltin:
		return foldMatch(r, o.CaseInsensitive, func(f rune) bool {
			return c.builtin.member(f, o.ASCIIClasses)
		})
	case opProperty:
		return foldMatch(r, o.CaseInsensitive, func(f rune) bool {
			return c.propertyMember(f, o.ASCIIClasses)
		})
	case opSet:
		return foldMatch(r, o.CaseInsensitive, c.setMember)
	case opUnion:
		for _, k := range c.kids {
			if k.ContainsScalar(r, o) {
				return true
			}
		}
		return false
	case opIntersect:
		return c.kids[0].ContainsScalar(r, o) && c.kids[1].ContainsScalar(r, o)
	case opSubtract:
		return c.kids[0].ContainsScalar(r, o) && !c.kids[1].ContainsScalar(r, o)
	case opSymDiff:
		return c.kids[0].ContainsScalar(r, o) != c.kids[1].ContainsScalar(r, o)
	case opNegate:
		return !c.kids[0].ContainsScalar(r, o)
	default:
		return false
	}
}

// ContainsCluster reports whether one extended grapheme cluster belongs to
// the class. This is the membership test at grapheme semantic level: each
// leaf extends its scalar definition to the cluster by its extension rule,
// and explicit set members compare under canonical equivalence.
func (c *Class) ContainsCluster(cluster []byte, o option.Options) bool {
	var p probe
	p.init(cluster)
	return c.matchCluster(&p, o)
}

func (c *Class) matchCluster(p *probe, o option.Options) bool {
	switch c.op {
	case opAny:
		return !c.noNewline || bytes.IndexByte(p.raw, '\n') < 0
	case opBuiltin:
		return p.applyRule(c.builtin.rule(), o.CaseInsensitive, func(f rune) bool {
			return c.builtin.member(f, o.ASCIIClasses)
		})
	case opProperty:
		return p.applyRule(RuleFirstScalar, o.CaseInsensitive, func(f rune) bool {
			return c.propertyMember(f, o.ASCIIClasses)
		})
	case opSet:
		// Scalars and ranges admit only clusters that compose to a
		// single scalar; explicit sequences compare canonically.
		if p.applyRule(RuleSingleScalar, o.CaseInsensitive, c.setMember) {
			return true
		}
		return c.seqMember(p, o.CaseInsensitive)
	case opUnion:
		for _, k := range c.kids {
			if k.matchCluster(p, o) {
				return true
			}
		}
		return false
	case opIntersect:
		return c.kids[0].matchCluster(p, o) && c.kids[1].matchCluster(p, o)
	case opSubtract:
		return c.kids[0].matchCluster(p, o) && !c.kids[1].matchCluster(p, o)
	case opSymDiff:
		return c.kids[0].matchCluster(p, o) != c.kids[1].matchCluster(p, o)
	case opNegate:
		return !c.kids[0].matchCluster(p, o)
	default:
		return false
	}
}

func (c *Class) propertyMember(r rune, mode option.ASCIIMode) bool {
	if mode.Has(option.ASCIIOther) && r >= 0x80 {
		return false
	}
	return unicode.Is(c.table, r)
}

func (c *Class) setMember(r rune) bool {
	for _, s := range c.scalars {
		if s == r {
			return true
		}
	}
	for _, rg := range c.ranges {
		if r >= rg.Lo && r <= rg.Hi {
			return true
		}
	}
	return false
}

func (c *Class) seqMember(p *probe, fold bool) bool {
	if len(c.seqs) == 0 {
		return false
	}
	nfd := p.decomposed()
	for _, s := range c.seqsNFD {
		if nfd == s || fold && strings.EqualFold(nfd, s) {
			return true
		}
	}
	return false
}

// foldMatch tests r against member, widening to r's simple case-folding
// orbit when fold is set.
func foldMatch(r rune, fold bool, member func(rune) bool) bool {
	if member(r) {
		return true
	}
	if !fold {
		return false
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if member(f) {
			return true
		}
	}
	return false
}

// probe is the decoded view of one cluster, built once per ContainsCluster
// call and shared across the class tree.
type probe struct {
	raw      []byte
	scalars  []rune
	composed rune // NFC composition when it is a single scalar, else -1
	buf      [12]rune
	nfd      string
	nfdOK    bool
}

func (p *probe) init(cluster []byte) {
	p.raw = cluster
	p.scalars = p.buf[:0]
	for i := 0; i < len(cluster); {
		r, size := utf8.DecodeRune(cluster[i:])
		p.scalars = append(p.scalars, r)
		i += size
	}
	p.composed = -1
	switch len(p.scalars) {
	case 0:
	case 1:
		p.composed = p.scalars[0]
	default:
		comp := norm.NFC.Bytes(cluster)
		if r, size := utf8.DecodeRune(comp); size == len(comp) && r != utf8.RuneError {
			p.composed = r
		}
	}
}

func (p *probe) decomposed() string {
	if !p.nfdOK {
		p.nfd = string(norm.NFD.Bytes(p.raw))
		p.nfdOK = true
	}
	return p.nfd
}

func (p *probe) applyRule(rule Rule, fold bool, member func(rune) bool) bool {
	if len(p.scalars) == 0 {
		return false
	}
	switch rule {
	case RuleSingleScalar:
		return p.composed >= 0 && foldMatch(p.composed, fold, member)
	case RuleFirstScalar:
		return foldMatch(p.scalars[0], fold, member)
	case RuleAnyScalar:
		for _, r := range p.scalars {
			if foldMatch(r, fold, member) {
				return true
			}
		}
		return false
	case RuleAllScalars:
		for _, r := range p.scalars {
			if !foldMatch(r, fold, member) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
