package segment

import (
	"math/bits"

	"github.com/rivo/uniseg"

	"github.com/coregx/uregex/internal/ascii"
)

// Clusters is a grapheme-cluster boundary index over one input: a bitset
// with one bit per byte offset, set where a cluster starts. It answers
// boundary membership in constant time and next/previous boundary in a few
// word scans, which is what backtracking needs when it jumps around the
// input instead of walking it once.
type Clusters struct {
	data  []byte
	start []uint64
	count int
}

// NewClusters segments data and returns its boundary index.
func NewClusters(data []byte) *Clusters {
	c := &Clusters{
		data:  data,
		start: make([]uint64, (len(data)+63)/64),
	}
	if ascii.Valid(data) {
		c.buildASCII()
		return c
	}
	state := -1
	rest := data
	pos := 0
	var cluster []byte
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		c.setStart(pos)
		pos += len(cluster)
		c.count++
	}
	return c
}

// buildASCII marks every byte as a cluster start except the LF of a CRLF
// pair, which UAX #29 keeps joined to the CR.
func (c *Clusters) buildASCII() {
	for i := 0; i < len(c.data); i++ {
		if c.data[i] == '\n' && i > 0 && c.data[i-1] == '\r' {
			continue
		}
		c.setStart(i)
		c.count++
	}
}

func (c *Clusters) setStart(pos int) {
	c.start[pos>>6] |= 1 << (pos & 63)
}

// Count returns the number of clusters in the input.
func (c *Clusters) Count() int { return c.count }

// IsBoundary reports whether pos is a cluster boundary. Both ends of the
// input are boundaries; positions outside [0, len] are not.
func (c *Clusters) IsBoundary(pos int) bool {
	if pos == len(c.data) {
		return true
	}
	if pos < 0 || pos > len(c.data) {
		return false
	}
	return c.start[pos>>6]&(1<<(pos&63)) != 0
}

// Next returns the first boundary after pos, which for a cluster starting at
// pos is that cluster's end. pos must be below len.
func (c *Clusters) Next(pos int) int {
	pos++
	if pos >= len(c.data) {
		return len(c.data)
	}
	word := pos >> 6
	w := c.start[word] >> (pos & 63)
	if w != 0 {
		return pos + bits.TrailingZeros64(w)
	}
	for word++; word < len(c.start); word++ {
		if c.start[word] != 0 {
			return word<<6 + bits.TrailingZeros64(c.start[word])
		}
	}
	return len(c.data)
}

// Prev returns the last boundary before pos, which for a cluster ending at
// pos is that cluster's start. pos must be above 0.
func (c *Clusters) Prev(pos int) int {
	pos--
	if pos <= 0 {
		return 0
	}
	if pos >= len(c.data) {
		pos = len(c.data) - 1
	}
	word := pos >> 6
	w := c.start[word] << (63 - pos&63)
	if w != 0 {
		return pos - bits.LeadingZeros64(w)
	}
	for word--; word >= 0; word-- {
		if c.start[word] != 0 {
			return word<<6 + 63 - bits.LeadingZeros64(c.start[word])
		}
	}
	return 0
}
