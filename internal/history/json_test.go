package history

import (
	"errors"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

const fenAfterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

var nativeRecord = []byte(`{
  "white_name": "Alice",
  "black_name": "Bob",
  "winner": "white",
  "win_reason": "king capture",
  "moves": {
    "white": [
      {"requested": "e2e4", "taken": "e2e4", "fen_after": "` + fenAfterE4 + `"}
    ],
    "black": [
      {"requested": "d7d5", "fen_after": "` + fenAfterE4 + `"}
    ]
  },
  "senses": {
    "white": [
      {"square": "d5", "revealed": [
        {"square": "d5", "piece": "p"},
        {"square": "d4"}
      ]}
    ],
    "black": [null]
  }
}`)

func TestDecodeJSON(t *testing.T) {
	rec, err := DecodeJSON(nativeRecord)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if rec.WhiteName != "Alice" || rec.BlackName != "Bob" {
		t.Fatalf("names = %q vs %q", rec.WhiteName, rec.BlackName)
	}
	if rec.Winner == nil || *rec.Winner != nchess.White {
		t.Fatalf("winner = %v", rec.Winner)
	}
	if rec.WinReason != "king capture" {
		t.Fatalf("win reason = %q", rec.WinReason)
	}
	if rec.Source != "native" || len(rec.Synthesized) != 0 {
		t.Fatalf("source = %q, synthesized = %v", rec.Source, rec.Synthesized)
	}
	if rec.NumTurns(nchess.White) != 1 || rec.NumTurns(nchess.Black) != 1 {
		t.Fatalf("turns = %d/%d", rec.NumTurns(nchess.White), rec.NumTurns(nchess.Black))
	}

	white := rec.Moves[nchess.White][0]
	if white.Requested == nil || white.Taken == nil || white.Taken.String() != "e2e4" {
		t.Fatalf("white move = %+v", white)
	}
	black := rec.Moves[nchess.Black][0]
	if black.Requested == nil || black.Taken != nil {
		t.Fatalf("rejected move should keep Taken nil: %+v", black)
	}

	if len(rec.Senses[nchess.White]) != 1 {
		t.Fatalf("white senses = %d", len(rec.Senses[nchess.White]))
	}
	sense := rec.Senses[nchess.White][0]
	if len(sense.Revealed) != 2 {
		t.Fatalf("revealed = %d", len(sense.Revealed))
	}
	if sense.Revealed[0].Piece != "p" || sense.Revealed[1].Piece != "" {
		t.Fatalf("revealed pieces = %q, %q", sense.Revealed[0].Piece, sense.Revealed[1].Piece)
	}
	// Null entries mark turns without a sense phase.
	if len(rec.Senses[nchess.Black]) != 0 {
		t.Fatalf("black senses = %d", len(rec.Senses[nchess.Black]))
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		field string
	}{
		{
			name:  "bad move",
			data:  `{"moves":{"white":[{"requested":"zz9x","fen_after":"` + fenAfterE4 + `"}]}}`,
			field: "requested",
		},
		{
			name:  "black ahead",
			data:  `{"moves":{"black":[{"requested":"d7d5","fen_after":"` + fenAfterE4 + `"}]}}`,
			field: "moves",
		},
		{
			name:  "missing fen",
			data:  `{"moves":{"white":[{"requested":"e2e4"}]}}`,
			field: "fen",
		},
		{
			name:  "capture without taken",
			data:  `{"moves":{"white":[{"requested":"e2e4","capture_square":"e4","fen_after":"` + fenAfterE4 + `"}]}}`,
			field: "capture_square",
		},
		{
			name:  "bad color",
			data:  `{"moves":{"red":[{"requested":"e2e4","fen_after":"` + fenAfterE4 + `"}]}}`,
			field: "moves",
		},
		{
			name:  "sense without prior position",
			data:  `{"moves":{"white":[{"requested":"e2e4","taken":"e2e4","fen_after":"` + fenAfterE4 + `"}]},"senses":{"white":[null,{"square":"e4","revealed":[]}]}}`,
			field: "turn",
		},
		{
			name:  "not json",
			data:  `[1,2,3]`,
			field: "json",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tc.data))
			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedError, got %v", err)
			}
			if malformed.Field != tc.field {
				t.Fatalf("field = %q, want %q (%v)", malformed.Field, tc.field, err)
			}
		})
	}
}
