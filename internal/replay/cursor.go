package replay

// BeforeStart is the cursor position before any action has been applied: the
// board shows the initial position.
const BeforeStart = -1

// Intent is one of the four directional navigation requests a host can feed
// the cursor. Device specifics (keys, buttons, timers) stay outside.
type Intent uint8

const (
	IntentToStart Intent = iota
	IntentBackward
	IntentForward
	IntentToEnd
)

func (in Intent) String() string {
	switch in {
	case IntentToStart:
		return "to_start"
	case IntentBackward:
		return "backward"
	case IntentForward:
		return "forward"
	case IntentToEnd:
		return "to_end"
	}
	return "unknown"
}

// Availability is the derived enable/disable state for the four direction
// controls. It is recomputed after every transition and is the only signal a
// UI consults; no other logic decides control state.
type Availability struct {
	ToStart  bool
	Backward bool
	Forward  bool
	ToEnd    bool
}

// Cursor tracks the current position in an action sequence of fixed length.
// Every transition is total: out-of-range requests are no-ops, never errors,
// so callers need no bounds checks. Cursor is not safe for concurrent use;
// confine it to the input-handling goroutine.
type Cursor struct {
	length int
	pos    int
}

// NewCursor returns a cursor over a sequence of n actions, positioned at
// BeforeStart.
func NewCursor(n int) *Cursor {
	if n < 0 {
		n = 0
	}
	return &Cursor{length: n, pos: BeforeStart}
}

// Pos returns BeforeStart or the current action index in [0, Len()-1].
func (c *Cursor) Pos() int { return c.pos }

// Len returns the sequence length.
func (c *Cursor) Len() int { return c.length }

// AtEnd reports whether the cursor sits on the final action.
func (c *Cursor) AtEnd() bool { return c.length > 0 && c.pos == c.length-1 }

// ToStart rewinds to the initial position. Always legal.
func (c *Cursor) ToStart() { c.pos = BeforeStart }

// ToEnd jumps to the final action; no-op for an empty sequence.
func (c *Cursor) ToEnd() {
	if c.length > 0 {
		c.pos = c.length - 1
	}
}

// Forward advances one action, saturating at the end.
func (c *Cursor) Forward() {
	if c.pos < c.length-1 {
		c.pos++
	}
}

// Backward retreats one action; from the first action it returns to
// BeforeStart, where it stays.
func (c *Cursor) Backward() {
	if c.pos > BeforeStart {
		c.pos--
	}
}

// Apply dispatches one directional intent.
func (c *Cursor) Apply(in Intent) {
	switch in {
	case IntentToStart:
		c.ToStart()
	case IntentBackward:
		c.Backward()
	case IntentForward:
		c.Forward()
	case IntentToEnd:
		c.ToEnd()
	}
}

// Availability derives the enable state of all four controls from the current
// position.
func (c *Cursor) Availability() Availability {
	back := c.pos != BeforeStart
	fwd := c.length > 0 && !c.AtEnd()
	return Availability{
		ToStart:  back,
		Backward: back,
		Forward:  fwd,
		ToEnd:    fwd,
	}
}
