package history

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// StartingFEN is the board snapshot shown before any action has been applied.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrResourceUnavailable marks a match record source that could not be opened or
// fetched, as opposed to one whose content is malformed.
var ErrResourceUnavailable = errors.New("match record unavailable")

// MalformedError reports a structural violation in a match record, naming the
// offending turn and field so the user sees a precise diagnostic.
type MalformedError struct {
	Turn   *Turn
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Turn != nil {
		return fmt.Sprintf("malformed history: turn %s: %s: %s", e.Turn, e.Field, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed history: %s: %s", e.Field, e.Reason)
	}
	return "malformed history: " + e.Reason
}

// Move is a record-level move: squares only, no legality attached. Requested
// moves in a hidden-information game may be illegal against the true board, so
// records cannot carry engine-validated moves.
type Move struct {
	From  nchess.Square
	To    nchess.Square
	Promo nchess.PieceType
}

func (m Move) String() string {
	s := squareName(m.From) + squareName(m.To)
	switch m.Promo {
	case nchess.Queen:
		s += "q"
	case nchess.Rook:
		s += "r"
	case nchess.Bishop:
		s += "b"
	case nchess.Knight:
		s += "n"
	}
	return s
}

// ParseMove decodes a UCI move string ("e2e4", "e7e8q").
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	from, ok := parseSquare(s[0:2])
	if !ok {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	to, ok := parseSquare(s[2:4])
	if !ok {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	mv := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			mv.Promo = nchess.Queen
		case 'r':
			mv.Promo = nchess.Rook
		case 'b':
			mv.Promo = nchess.Bishop
		case 'n':
			mv.Promo = nchess.Knight
		default:
			return Move{}, fmt.Errorf("bad promotion in %q", s)
		}
	}
	return mv, nil
}

func parseSquare(s string) (nchess.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, false
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), true
}

func squareName(sq nchess.Square) string {
	return string([]byte{byte('a' + int(sq.File())), byte('1' + int(sq.Rank()))})
}

// MoveRecord is one side's move phase for a single turn. Taken implies Requested;
// a requested move may fail (blocked by a hidden piece) leaving Taken nil, in
// which case FEN equals the pre-turn position.
type MoveRecord struct {
	Turn      Turn
	Requested *Move
	Taken     *Move
	Capture   *nchess.Square
	FEN       string
}

// SquarePiece is one revealed square from a sense: the piece is a FEN symbol
// ("N", "p", ...) or empty for an empty square.
type SquarePiece struct {
	Square nchess.Square
	Piece  string
}

// SenseRecord is one side's perception phase for a single turn.
type SenseRecord struct {
	Turn     Turn
	Square   nchess.Square
	Revealed []SquarePiece
}

// Record is the full persisted match. It is read-only once loaded; the replay
// layer never mutates it.
type Record struct {
	WhiteName string
	BlackName string
	Winner    *nchess.Color
	WinReason string

	Moves  map[nchess.Color][]MoveRecord
	Senses map[nchess.Color][]SenseRecord

	// Source names the loader that produced the record ("native", "pgn").
	// Synthesized lists fields the loader had to invent because the source
	// format cannot express them; consumers must treat those as lossy.
	Source      string
	Synthesized []string
}

// NumTurns reports how many turns the given color has recorded.
func (r *Record) NumTurns(c nchess.Color) int {
	return len(r.Moves[c])
}

// Empty reports whether the record has nothing to replay.
func (r *Record) Empty() bool {
	return r.NumTurns(nchess.White) == 0 && r.NumTurns(nchess.Black) == 0
}

// Validate checks the structural invariants every loader must establish before
// handing a Record to the replay layer.
func (r *Record) Validate() error {
	w, b := r.NumTurns(nchess.White), r.NumTurns(nchess.Black)
	if b > w {
		return &MalformedError{Field: "moves", Reason: fmt.Sprintf("black has %d turns but white only %d", b, w)}
	}
	if w-b > 1 {
		return &MalformedError{Field: "moves", Reason: fmt.Sprintf("turn counts differ by %d (white %d, black %d)", w-b, w, b)}
	}
	for _, c := range []nchess.Color{nchess.White, nchess.Black} {
		for i := range r.Moves[c] {
			rec := &r.Moves[c][i]
			if rec.Turn.Number != i || rec.Turn.Color != c {
				return &MalformedError{Turn: &rec.Turn, Field: "turn", Reason: fmt.Sprintf("expected %s", Turn{Number: i, Color: c})}
			}
			if rec.Taken != nil && rec.Requested == nil {
				return &MalformedError{Turn: &rec.Turn, Field: "requested_move", Reason: "taken move without a requested move"}
			}
			if rec.FEN == "" {
				return &MalformedError{Turn: &rec.Turn, Field: "fen", Reason: "missing board snapshot"}
			}
			if rec.Taken != nil {
				if prior, err := priorFEN(r, rec.Turn); err != nil || prior == "" {
					return &MalformedError{Turn: &rec.Turn, Field: "taken_move", Reason: "no prior position establishes the move"}
				}
			}
			if rec.Capture != nil && rec.Taken == nil {
				return &MalformedError{Turn: &rec.Turn, Field: "capture_square", Reason: "capture recorded without a taken move"}
			}
		}
		// Sense records may be sparse (not every turn senses) but must stay in
		// turn order under the recording color.
		prev := -1
		for i := range r.Senses[c] {
			rec := &r.Senses[c][i]
			if rec.Turn.Color != c {
				return &MalformedError{Turn: &rec.Turn, Field: "turn", Reason: "sense recorded under the wrong color"}
			}
			if rec.Turn.Number <= prev {
				return &MalformedError{Turn: &rec.Turn, Field: "turn", Reason: "sense records out of order"}
			}
			prev = rec.Turn.Number
			if p, err := rec.Turn.Previous(); err == nil && p.Number >= len(r.Moves[p.Color]) {
				return &MalformedError{Turn: &rec.Turn, Field: "turn", Reason: "sense recorded for a turn with no prior position"}
			}
		}
	}
	return nil
}

// priorFEN resolves the board snapshot in effect before the given turn: the
// previous turn's FEN, or the start position for the game's first turn.
func priorFEN(r *Record, t Turn) (string, error) {
	prev, err := t.Previous()
	if err != nil {
		// First turn of the game plays from the start position.
		return StartingFEN, nil
	}
	recs := r.Moves[prev.Color]
	if prev.Number >= len(recs) {
		return "", fmt.Errorf("turn %s not recorded", prev)
	}
	return recs[prev.Number].FEN, nil
}
