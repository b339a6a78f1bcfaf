package replay

import "testing"

func TestCursorStartsBeforeStart(t *testing.T) {
	c := NewCursor(3)
	if c.Pos() != BeforeStart {
		t.Fatalf("pos = %d", c.Pos())
	}
	avail := c.Availability()
	if avail.ToStart || avail.Backward {
		t.Fatalf("backward controls enabled at the start: %+v", avail)
	}
	if !avail.Forward || !avail.ToEnd {
		t.Fatalf("forward controls disabled with actions remaining: %+v", avail)
	}
}

func TestCursorForwardBackwardRoundTrip(t *testing.T) {
	c := NewCursor(5)
	for i := 0; i < 3; i++ {
		c.Apply(IntentForward)
	}
	pos := c.Pos()
	c.Apply(IntentForward)
	c.Apply(IntentBackward)
	if c.Pos() != pos {
		t.Fatalf("forward then backward moved %d -> %d", pos, c.Pos())
	}
	c.Apply(IntentBackward)
	c.Apply(IntentForward)
	if c.Pos() != pos {
		t.Fatalf("backward then forward moved %d -> %d", pos, c.Pos())
	}
}

func TestCursorBoundariesAreNoOps(t *testing.T) {
	c := NewCursor(2)
	c.Apply(IntentBackward)
	if c.Pos() != BeforeStart {
		t.Fatalf("backward at start moved to %d", c.Pos())
	}
	c.Apply(IntentToStart)
	if c.Pos() != BeforeStart {
		t.Fatalf("to-start at start moved to %d", c.Pos())
	}

	c.Apply(IntentToEnd)
	if !c.AtEnd() {
		t.Fatalf("not at end: pos = %d", c.Pos())
	}
	c.Apply(IntentForward)
	if c.Pos() != 1 {
		t.Fatalf("forward at end moved to %d", c.Pos())
	}
	c.Apply(IntentToEnd)
	if c.Pos() != 1 {
		t.Fatalf("to-end at end moved to %d", c.Pos())
	}
}

func TestCursorJumps(t *testing.T) {
	c := NewCursor(4)
	c.Apply(IntentToEnd)
	if c.Pos() != 3 {
		t.Fatalf("to-end pos = %d", c.Pos())
	}
	c.Apply(IntentToStart)
	if c.Pos() != BeforeStart {
		t.Fatalf("to-start pos = %d", c.Pos())
	}
	c.Apply(IntentToEnd)
	if c.Pos() != 3 {
		t.Fatalf("to-end after to-start pos = %d", c.Pos())
	}
}

func TestCursorAvailabilityTracksPosition(t *testing.T) {
	c := NewCursor(3)
	for i := 0; i < 10; i++ {
		avail := c.Availability()
		if back := c.Pos() != BeforeStart; avail.Backward != back || avail.ToStart != back {
			t.Fatalf("pos %d: backward availability %+v", c.Pos(), avail)
		}
		if fwd := !c.AtEnd(); avail.Forward != fwd || avail.ToEnd != fwd {
			t.Fatalf("pos %d: forward availability %+v", c.Pos(), avail)
		}
		c.Apply(IntentForward)
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(0)
	for _, in := range []Intent{IntentForward, IntentToEnd, IntentBackward, IntentToStart} {
		c.Apply(in)
		if c.Pos() != BeforeStart {
			t.Fatalf("%s on empty cursor moved to %d", in, c.Pos())
		}
	}
	avail := c.Availability()
	if avail.ToStart || avail.Backward || avail.Forward || avail.ToEnd {
		t.Fatalf("empty cursor has enabled controls: %+v", avail)
	}
}
