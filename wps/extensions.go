package wps

import "fmt"

// extCounter is a three-digit base-26 counter over A–Z, least
// significant digit last. The trailing digit cycles through the full
// alphabet, but the middle and leading digits restart at 'B' after
// overflowing, so "AAA" appears exactly once and later blocks skip
// every all-'A' prefix: AAA..AAZ, ABA..ABZ, .., AZZ, BBA, BBB, ..
//
// The restart-at-'B' policy is inherited behavior. Downstream tooling
// matches GRIBFILE names against the sequence produced this way, so it
// is kept as-is even though a plain positional counter would restart
// at 'A'. It leaves 16926 usable extensions: 676 under the leading 'A'
// and 650 under each of the remaining 25 leading letters.
type extCounter struct {
	lead, mid, trail int
	exhausted        bool
}

func (c *extCounter) ext() string {
	return string([]byte{byte('A' + c.lead), byte('A' + c.mid), byte('A' + c.trail)})
}

func (c *extCounter) advance() {
	c.trail++
	if c.trail < 26 {
		return
	}
	c.trail = 0
	c.mid++
	if c.mid < 26 {
		return
	}
	c.mid = 1
	c.lead++
	if c.lead >= 26 {
		c.exhausted = true
	}
}

// Extensions returns the first n GRIBFILE link name extensions, unique
// and in ascending order. It fails with ErrExtensionsExhausted when n
// exceeds the representable space.
func Extensions(n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("extension count must be positive, got %d", n)
	}
	exts := make([]string, 0, n)
	var c extCounter
	for len(exts) < n {
		if c.exhausted {
			return nil, fmt.Errorf("%w: %d files", ErrExtensionsExhausted, n)
		}
		exts = append(exts, c.ext())
		c.advance()
	}
	return exts, nil
}
