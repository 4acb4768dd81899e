package component

import (
	"errors"
	"net/netip"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateTime parses date and time tokens with time.Parse. The zero value
// tries a set of common layouts; set Layouts to control them. The longest
// parseable span wins.
type DateTime struct {
	Layouts []string
}

var defaultLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"15:04:05",
}

// maxDateTimeLen caps how far DateTime scans for a parseable span.
const maxDateTimeLen = 48

// Consume implements Consumer. A span that no layout parses is a decline,
// never an abort.
func (d DateTime) Consume(data []byte, start, bounds int) (*Consumed, error) {
	layouts := d.Layouts
	if len(layouts) == 0 {
		layouts = defaultLayouts
	}
	limit := bounds
	if limit > start+maxDateTimeLen {
		limit = start + maxDateTimeLen
	}
	for end := limit; end > start+3; end-- {
		s := string(data[start:end])
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &Consumed{End: end, Output: t}, nil
			}
		}
	}
	return nil, nil
}

// Number parses a decimal integer or decimal fraction with strconv,
// producing an int64 or float64 output.
//
// A span that is not a number is a decline. A span that is syntactically a
// number but does not fit the output type (strconv range error) is an
// abort: the token was recognized and still could not be evaluated.
type Number struct{}

// ErrNumberRange reports a numeric token that overflows the output type.
var ErrNumberRange = errors.New("component: number out of range")

const maxNumberLen = 64

// Consume implements Consumer.
func (Number) Consume(data []byte, start, bounds int) (*Consumed, error) {
	pos := start
	if pos < bounds && (data[pos] == '+' || data[pos] == '-') {
		pos++
	}
	digits := countDigits(data, pos, bounds)
	if digits == 0 {
		return nil, nil
	}
	pos += digits
	isFloat := false
	if pos+1 < bounds && data[pos] == '.' && isDigit(data[pos+1]) {
		isFloat = true
		pos += 1 + countDigits(data, pos+1, bounds)
	}
	if pos-start > maxNumberLen {
		return nil, nil
	}
	text := string(data[start:pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Join(ErrNumberRange, err)
		}
		return &Consumed{End: pos, Output: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrNumberRange, err)
	}
	return &Consumed{End: pos, Output: n}, nil
}

// Amount is the output of the Currency consumer: a currency code plus the
// amount split into whole units and cents.
type Amount struct {
	Currency string
	Units    int64
	Cents    int64
}

// Currency parses amounts like "$12.50", "€5" or "USD 10.25" into Amount.
// Symbols cover the common major currencies; three-letter codes are taken
// as written.
type Currency struct{}

// Consume implements Consumer. Declines on anything that is not a currency
// token; aborts only when the recognized amount overflows int64.
func (Currency) Consume(data []byte, start, bounds int) (*Consumed, error) {
	code, pos := currencyHead(data, start, bounds)
	if code == "" {
		return nil, nil
	}
	if pos < bounds && data[pos] == ' ' {
		pos++
	}
	digits := countDigits(data, pos, bounds)
	if digits == 0 || digits > maxNumberLen {
		return nil, nil
	}
	units, err := strconv.ParseInt(string(data[pos:pos+digits]), 10, 64)
	if err != nil {
		return nil, errors.Join(ErrNumberRange, err)
	}
	pos += digits
	var cents int64
	if pos+1 < bounds && data[pos] == '.' && isDigit(data[pos+1]) {
		frac := countDigits(data, pos+1, bounds)
		if frac > 2 {
			return nil, nil
		}
		cents, _ = strconv.ParseInt(string(data[pos+1:pos+1+frac]), 10, 64)
		if frac == 1 {
			cents *= 10
		}
		pos += 1 + frac
	}
	return &Consumed{End: pos, Output: Amount{Currency: code, Units: units, Cents: cents}}, nil
}

// currencyHead recognizes a leading currency symbol or code and returns the
// ISO code and the position after it.
func currencyHead(data []byte, start, bounds int) (string, int) {
	if start >= bounds {
		return "", start
	}
	rest := data[start:bounds]
	r, size := utf8.DecodeRune(rest)
	switch r {
	case '$':
		return "USD", start + size
	case '€':
		return "EUR", start + size
	case '£':
		return "GBP", start + size
	case '¥':
		return "JPY", start + size
	}
	if len(rest) >= 3 && isUpperASCII(rest[0]) && isUpperASCII(rest[1]) && isUpperASCII(rest[2]) {
		if len(rest) > 3 && isUpperASCII(rest[3]) {
			return "", start
		}
		return string(rest[:3]), start + 3
	}
	return "", start
}

// UUID matches a canonical 8-4-4-4-12 UUID and outputs a uuid.UUID.
type UUID struct{}

// Consume implements Consumer.
func (UUID) Consume(data []byte, start, bounds int) (*Consumed, error) {
	if bounds-start < 36 {
		return nil, nil
	}
	span := data[start : start+36]
	for i, c := range span {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return nil, nil
			}
		default:
			if !isHexDigit(c) {
				return nil, nil
			}
		}
	}
	u, err := uuid.Parse(string(span))
	if err != nil {
		return nil, nil
	}
	return &Consumed{End: start + 36, Output: u}, nil
}

// IPAddr matches an IPv4 or IPv6 address and outputs a netip.Addr. The
// longest parseable span wins, so "10.1.2.34x" consumes "10.1.2.34".
type IPAddr struct{}

const maxAddrLen = 64

// Consume implements Consumer.
func (IPAddr) Consume(data []byte, start, bounds int) (*Consumed, error) {
	limit := bounds
	if limit > start+maxAddrLen {
		limit = start + maxAddrLen
	}
	run := start
	for run < limit && isAddrByte(data[run]) {
		run++
	}
	for end := run; end >= start+2; end-- {
		if addr, err := netip.ParseAddr(string(data[start:end])); err == nil {
			return &Consumed{End: end, Output: addr}, nil
		}
	}
	return nil, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isUpperASCII(c byte) bool { return c >= 'A' && c <= 'Z' }

func isAddrByte(c byte) bool {
	return isHexDigit(c) || c == ':' || c == '.'
}

func countDigits(data []byte, pos, bounds int) int {
	n := 0
	for pos+n < bounds && isDigit(data[pos+n]) {
		n++
	}
	return n
}
