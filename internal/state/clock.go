package state

// Clock counts history mutations. Hosts compare revisions to skip redundant
// redraws; a no-op undo or redo leaves it untouched.
type Clock struct {
	counter uint64
}

// Tick advances the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.counter++
	return c.counter
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	return c.counter
}
