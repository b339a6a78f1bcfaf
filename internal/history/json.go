package history

import (
	"encoding/json"
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

// The native persisted format: one JSON object with per-color arrays indexed by
// round number. Square and move fields use algebraic names ("d5", "e2e4").
type jsonRecord struct {
	WhiteName string                  `json:"white_name"`
	BlackName string                  `json:"black_name"`
	Winner    *string                 `json:"winner,omitempty"`
	WinReason string                  `json:"win_reason,omitempty"`
	Moves     map[string][]jsonMove   `json:"moves"`
	Senses    map[string][]*jsonSense `json:"senses,omitempty"`
}

type jsonMove struct {
	Requested string `json:"requested,omitempty"`
	Taken     string `json:"taken,omitempty"`
	Capture   string `json:"capture_square,omitempty"`
	FEN       string `json:"fen_after"`
}

type jsonSense struct {
	Square   string           `json:"square"`
	Revealed []jsonSeenSquare `json:"revealed"`
}

type jsonSeenSquare struct {
	Square string `json:"square"`
	Piece  string `json:"piece,omitempty"`
}

// DecodeJSON parses a native match record and validates it.
func DecodeJSON(data []byte) (*Record, error) {
	var raw jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedError{Field: "json", Reason: err.Error()}
	}
	rec := &Record{
		WhiteName: raw.WhiteName,
		BlackName: raw.BlackName,
		WinReason: raw.WinReason,
		Moves:     map[nchess.Color][]MoveRecord{},
		Senses:    map[nchess.Color][]SenseRecord{},
		Source:    "native",
	}
	if raw.Winner != nil {
		c, err := parseColor(*raw.Winner)
		if err != nil {
			return nil, &MalformedError{Field: "winner", Reason: err.Error()}
		}
		rec.Winner = &c
	}
	for name, list := range raw.Moves {
		c, err := parseColor(name)
		if err != nil {
			return nil, &MalformedError{Field: "moves", Reason: err.Error()}
		}
		for i, jm := range list {
			t := Turn{Number: i, Color: c}
			mr := MoveRecord{Turn: t, FEN: jm.FEN}
			if jm.Requested != "" {
				mv, err := ParseMove(jm.Requested)
				if err != nil {
					return nil, &MalformedError{Turn: &t, Field: "requested", Reason: err.Error()}
				}
				mr.Requested = &mv
			}
			if jm.Taken != "" {
				mv, err := ParseMove(jm.Taken)
				if err != nil {
					return nil, &MalformedError{Turn: &t, Field: "taken", Reason: err.Error()}
				}
				mr.Taken = &mv
			}
			if jm.Capture != "" {
				sq, ok := parseSquare(jm.Capture)
				if !ok {
					return nil, &MalformedError{Turn: &t, Field: "capture_square", Reason: fmt.Sprintf("bad square %q", jm.Capture)}
				}
				mr.Capture = &sq
			}
			rec.Moves[c] = append(rec.Moves[c], mr)
		}
	}
	for name, list := range raw.Senses {
		c, err := parseColor(name)
		if err != nil {
			return nil, &MalformedError{Field: "senses", Reason: err.Error()}
		}
		for i, js := range list {
			if js == nil {
				// A turn without a sense phase is recorded as null.
				continue
			}
			t := Turn{Number: i, Color: c}
			sq, ok := parseSquare(js.Square)
			if !ok {
				return nil, &MalformedError{Turn: &t, Field: "sense_square", Reason: fmt.Sprintf("bad square %q", js.Square)}
			}
			sr := SenseRecord{Turn: t, Square: sq}
			for _, seen := range js.Revealed {
				ssq, ok := parseSquare(seen.Square)
				if !ok {
					return nil, &MalformedError{Turn: &t, Field: "revealed", Reason: fmt.Sprintf("bad square %q", seen.Square)}
				}
				sr.Revealed = append(sr.Revealed, SquarePiece{Square: ssq, Piece: seen.Piece})
			}
			rec.Senses[c] = append(rec.Senses[c], sr)
		}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseColor(s string) (nchess.Color, error) {
	switch s {
	case "white", "w":
		return nchess.White, nil
	case "black", "b":
		return nchess.Black, nil
	}
	return nchess.NoColor, fmt.Errorf("bad color %q", s)
}
