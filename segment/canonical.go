package segment

import (
	"bytes"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/coregx/uregex/internal/ascii"
)

// Decompose returns the canonical decomposition (NFD) of s. Compiled
// patterns store literal elements in this form so that match-time comparison
// is a plain byte comparison against the decomposed input span.
func Decompose(s string) string {
	if ascii.ValidString(s) {
		return s
	}
	return norm.NFD.String(s)
}

// Compose returns the canonical composition (NFC) of s. The class resolver
// uses it to reduce range endpoints and probes to single scalars.
func Compose(s string) string {
	if ascii.ValidString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// EqualNFD reports whether span is canonically equivalent to nfd, which must
// already be in decomposed form. With fold set, scalars compare under simple
// case folding.
//
// ASCII spans never change under decomposition, so the common case is a
// direct comparison with no allocation.
func EqualNFD(span []byte, nfd string, fold bool) bool {
	if ascii.Valid(span) {
		if fold {
			return len(span) == len(nfd) && strings.EqualFold(string(span), nfd)
		}
		return string(span) == nfd
	}
	d := norm.NFD.Bytes(span)
	if fold {
		return strings.EqualFold(string(d), nfd)
	}
	return string(d) == nfd
}

// CanonicalEqual reports whether a and b are canonically equivalent: their
// NFD forms are identical.
func CanonicalEqual(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	if ascii.Valid(a) && ascii.Valid(b) {
		return false
	}
	return bytes.Equal(norm.NFD.Bytes(a), norm.NFD.Bytes(b))
}

// CanonicalEqualFold is CanonicalEqual under simple case folding.
func CanonicalEqualFold(a, b []byte) bool {
	if ascii.Valid(a) && ascii.Valid(b) {
		return len(a) == len(b) && strings.EqualFold(string(a), string(b))
	}
	return strings.EqualFold(string(norm.NFD.Bytes(a)), string(norm.NFD.Bytes(b)))
}
