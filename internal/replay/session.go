package replay

import (
	"errors"
	"fmt"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sulan/reconchess/internal/history"
	"github.com/sulan/reconchess/internal/obslog"
)

// ErrEmptyHistory rejects a record with nothing to replay; the host must not
// open a replay view for it.
var ErrEmptyHistory = errors.New("match record is empty")

// PieceFilter selects which side's pieces (and move highlights) renderers may
// draw. The session only records the choice; enforcement is the renderer's.
type PieceFilter uint8

const (
	ShowBoth PieceFilter = iota
	ShowWhiteOnly
	ShowBlackOnly
)

// Hides reports whether the filter hides the given side.
func (f PieceFilter) Hides(c nchess.Color) bool {
	switch f {
	case ShowWhiteOnly:
		return c == nchess.Black
	case ShowBlackOnly:
		return c == nchess.White
	}
	return false
}

// Options configures a replay session. Perspective only affects coordinate
// mapping; AutoAdvance of zero disables timed stepping.
type Options struct {
	Perspective nchess.Color
	Filter      PieceFilter
	AutoAdvance time.Duration
}

// Session owns one loaded match: the immutable action sequence, the cursor
// over it, and the presentation options. It replaces the ambient window state
// of older viewers; the render layer receives it by reference and never
// mutates it. Transitions must come from a single goroutine.
type Session struct {
	ID string

	rec     *history.Record
	actions []Action
	cursor  *Cursor
	opts    Options
	auto    *AutoAdvance
}

// NewSession builds the action sequence for rec and positions the cursor at
// BeforeStart. Fails with ErrEmptyHistory when there is nothing to replay.
func NewSession(rec *history.Record, opts Options) (*Session, error) {
	if rec.Empty() {
		return nil, ErrEmptyHistory
	}
	actions, err := Build(rec)
	if err != nil {
		return nil, fmt.Errorf("build action sequence: %w", err)
	}
	if len(actions) == 0 {
		return nil, ErrEmptyHistory
	}
	s := &Session{
		ID:      uuid.NewString(),
		rec:     rec,
		actions: actions,
		cursor:  NewCursor(len(actions)),
		opts:    opts,
		auto:    NewAutoAdvance(opts.AutoAdvance, time.Now()),
	}
	obslog.L().Info("replay_session",
		zap.String("session_id", s.ID),
		zap.String("white", rec.WhiteName),
		zap.String("black", rec.BlackName),
		zap.Int("actions", len(actions)),
		zap.Bool("lossy", s.Lossy()),
	)
	return s, nil
}

// Frame is everything a renderer needs for one drawn frame.
type Frame struct {
	// Position is BeforeStart or the current action index.
	Position int
	// Action is nil at BeforeStart.
	Action Action
	// FEN is the board snapshot for the frame; the start position at
	// BeforeStart.
	FEN string
	// Avail drives the four direction controls.
	Avail Availability
}

// Frame snapshots the current navigation state.
func (s *Session) Frame() Frame {
	f := Frame{
		Position: s.cursor.Pos(),
		FEN:      history.StartingFEN,
		Avail:    s.cursor.Availability(),
	}
	if f.Position != BeforeStart {
		f.Action = s.actions[f.Position]
		f.FEN = f.Action.FEN()
	}
	return f
}

// Apply performs one manual transition and rearms the auto-advance timer, so
// user input always wins over the timer.
func (s *Session) Apply(in Intent) {
	s.cursor.Apply(in)
	s.auto.Rearm(time.Now())
}

// Tick drives auto-advance. The returned done is true once the timer fires
// with the cursor already at the end; the host should close the view.
func (s *Session) Tick(now time.Time) (stepped, done bool) {
	return s.auto.Tick(now, s.cursor)
}

// AutoAdvancing reports whether a timer is armed.
func (s *Session) AutoAdvancing() bool { return s.auto != nil }

// Len returns the action sequence length.
func (s *Session) Len() int { return len(s.actions) }

// Actions returns the full sequence for read-only iteration (exports, dumps).
func (s *Session) Actions() []Action { return s.actions }

// Options returns the presentation options the session was opened with.
func (s *Session) Options() Options { return s.opts }

// Record returns the underlying match record.
func (s *Session) Record() *history.Record { return s.rec }

// Lossy reports whether any record fields were synthesized at import.
func (s *Session) Lossy() bool { return len(s.rec.Synthesized) > 0 }

// Rounds returns the highest turn number present plus one, for "Turn i/N"
// labels.
func (s *Session) Rounds() int {
	if len(s.actions) == 0 {
		return 0
	}
	return s.actions[len(s.actions)-1].Turn().Number + 1
}

// TurnLabel renders the HUD line for the current position.
func (s *Session) TurnLabel() string {
	f := s.Frame()
	if f.Action == nil {
		return fmt.Sprintf("Turn: - / %d", s.Rounds())
	}
	return fmt.Sprintf("Turn: %d / %d", f.Action.Turn().Number+1, s.Rounds())
}

// MatchLabel renders the HUD match-up line.
func (s *Session) MatchLabel() string {
	return fmt.Sprintf("%s vs %s", s.rec.WhiteName, s.rec.BlackName)
}

// PlayerLabel names the side acting at the current position.
func (s *Session) PlayerLabel() string {
	f := s.Frame()
	if f.Action == nil {
		return "Player: -"
	}
	t := f.Action.Turn()
	name := s.rec.WhiteName
	if t.Color == nchess.Black {
		name = s.rec.BlackName
	}
	return "Player: " + name
}
