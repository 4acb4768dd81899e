package ir

// Width returns the minimum and maximum number of input elements the node
// can consume. A negative max means unbounded. Lookbehind compilation uses
// this to bound how far behind the cursor candidate starts can lie; an
// unbounded child makes the lookbehind uncompilable.
//
// External consumers report unbounded width: their consumed span is known
// only at run time.
func Width(n *Node) (min, max int) {
	switch n.Kind {
	case KindLiteral, KindClass:
		return 1, 1
	case KindExternal:
		return 1, Unbounded
	case KindAnchor, KindLook:
		return 0, 0
	case KindConcat:
		for _, c := range n.Children {
			cmin, cmax := Width(c)
			min += cmin
			if max >= 0 {
				if cmax < 0 {
					max = Unbounded
				} else {
					max += cmax
				}
			}
		}
		return min, max
	case KindAlternation:
		if len(n.Children) == 0 {
			return 0, 0
		}
		min, max = Width(n.Children[0])
		for _, c := range n.Children[1:] {
			cmin, cmax := Width(c)
			if cmin < min {
				min = cmin
			}
			if max >= 0 && (cmax < 0 || cmax > max) {
				max = cmax
			}
		}
		return min, max
	case KindQuantifier:
		if n.Max == 0 {
			return 0, 0
		}
		cmin, cmax := Width(n.Children[0])
		min = n.Min * cmin
		if n.Max < 0 || cmax < 0 {
			if cmax == 0 {
				// Repeating a zero-width child any number of times
				// still consumes nothing.
				return min, 0
			}
			return min, Unbounded
		}
		return min, n.Max * cmax
	case KindGroup, KindCapture, KindScope:
		return Width(n.Children[0])
	default:
		return 0, 0
	}
}
