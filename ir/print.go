package ir

import (
	"fmt"
	"strings"

	"github.com/coregx/uregex/option"
)

// String renders the tree as approximate pattern syntax for diagnostics.
func (t *Tree) String() string { return t.Root.String() }

// String renders the node as approximate pattern syntax. The output is
// meant for humans and error messages; transforms and resolved consumers
// render as their names only.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	switch n.Kind {
	case KindLiteral:
		for _, r := range n.Text {
			if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	case KindClass:
		b.WriteString(n.Class.String())
	case KindConcat:
		for _, c := range n.Children {
			if c.Kind == KindAlternation {
				b.WriteString("(?:")
				c.render(b)
				b.WriteByte(')')
				continue
			}
			c.render(b)
		}
	case KindAlternation:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('|')
			}
			c.render(b)
		}
	case KindQuantifier:
		child := n.Children[0]
		switch child.Kind {
		case KindLiteral, KindClass, KindGroup, KindCapture:
			child.render(b)
		default:
			b.WriteString("(?:")
			child.render(b)
			b.WriteByte(')')
		}
		switch {
		case n.Min == 0 && n.Max == Unbounded:
			b.WriteByte('*')
		case n.Min == 1 && n.Max == Unbounded:
			b.WriteByte('+')
		case n.Min == 0 && n.Max == 1:
			b.WriteByte('?')
		case n.Max == Unbounded:
			fmt.Fprintf(b, "{%d,}", n.Min)
		case n.Min == n.Max:
			fmt.Fprintf(b, "{%d}", n.Min)
		default:
			fmt.Fprintf(b, "{%d,%d}", n.Min, n.Max)
		}
		switch n.Policy {
		case option.RepeatReluctant:
			b.WriteByte('?')
		case option.RepeatPossessive:
			b.WriteByte('+')
		}
	case KindGroup:
		if n.Atomic {
			b.WriteString("(?>")
		} else {
			b.WriteString("(?:")
		}
		n.Children[0].render(b)
		b.WriteByte(')')
	case KindCapture:
		if n.Name != "" {
			fmt.Fprintf(b, "(?P<%s>", n.Name)
		} else {
			b.WriteByte('(')
		}
		n.Children[0].render(b)
		b.WriteByte(')')
	case KindLook:
		switch {
		case !n.Behind && !n.Negative:
			b.WriteString("(?=")
		case !n.Behind && n.Negative:
			b.WriteString("(?!")
		case n.Behind && !n.Negative:
			b.WriteString("(?<=")
		default:
			b.WriteString("(?<!")
		}
		n.Children[0].render(b)
		b.WriteByte(')')
	case KindAnchor:
		b.WriteString(n.Anchor.String())
	case KindScope:
		b.WriteString("(?")
		b.WriteString(deltaFlags(n.Delta))
		b.WriteByte(':')
		n.Children[0].render(b)
		b.WriteByte(')')
	case KindExternal:
		fmt.Fprintf(b, "(?C{%s})", n.Component)
	}
}

// deltaFlags renders an option delta with the inline-flag letters: i for
// case folding, a for ASCII-only classes, u for grapheme level, b for
// simple word boundaries, U and p for reluctant and possessive default
// repetition. Cleared flags render after a dash.
func deltaFlags(d option.Delta) string {
	var set, clear []byte
	if d.Set&option.FieldCase != 0 {
		if d.CaseInsensitive {
			set = append(set, 'i')
		} else {
			clear = append(clear, 'i')
		}
	}
	if d.Set&option.FieldASCII != 0 {
		if d.ASCIIClasses != 0 {
			set = append(set, 'a')
		} else {
			clear = append(clear, 'a')
		}
	}
	if d.Set&option.FieldLevel != 0 {
		if d.Level == option.LevelGrapheme {
			set = append(set, 'u')
		} else {
			clear = append(clear, 'u')
		}
	}
	if d.Set&option.FieldWordBoundary != 0 {
		if d.WordBoundary == option.WordBoundarySimple {
			set = append(set, 'b')
		} else {
			clear = append(clear, 'b')
		}
	}
	if d.Set&option.FieldRepetition != 0 {
		switch d.Repetition {
		case option.RepeatReluctant:
			set = append(set, 'U')
		case option.RepeatPossessive:
			set = append(set, 'p')
		default:
			clear = append(clear, 'U')
			clear = append(clear, 'p')
		}
	}
	out := string(set)
	if len(clear) > 0 {
		out += "-" + string(clear)
	}
	return out
}
