package tui

import "time"

// DefaultDoubleClick is the longest gap between two clicks on the same
// target that still counts as a double-click.
const DefaultDoubleClick = 500 * time.Millisecond

// clickDetector recognises double-clicks on named targets such as desktop
// icons or file manager rows.
type clickDetector struct {
	timeout    time.Duration
	now        func() time.Time
	lastTarget string
	lastTime   time.Time
	armed      bool
}

func newClickDetector(timeout time.Duration) *clickDetector {
	if timeout <= 0 {
		timeout = DefaultDoubleClick
	}
	return &clickDetector{timeout: timeout, now: time.Now}
}

// Click records a click on target and reports whether it completes a
// double-click. A third click starts a new sequence.
func (c *clickDetector) Click(target string) bool {
	now := c.now()
	if c.armed && target == c.lastTarget && now.Sub(c.lastTime) < c.timeout {
		c.Reset()
		return true
	}
	c.armed = true
	c.lastTarget = target
	c.lastTime = now
	return false
}

// Reset forgets the previous click.
func (c *clickDetector) Reset() {
	c.armed = false
	c.lastTarget = ""
	c.lastTime = time.Time{}
}
