package replay

import (
	"errors"
	"fmt"

	nchess "github.com/corentings/chess/v2"

	"github.com/sulan/reconchess/internal/history"
)

// ErrInconsistentHistory marks a record that violates the loader's contract.
// A validated Record never trips this; it guards against adapter bugs.
var ErrInconsistentHistory = errors.New("inconsistent history")

// Build flattens a validated match record into the replay action sequence.
// Turns are visited in total order across both colors; a turn's sense action,
// if recorded, precedes its move action; a turn with neither record emits
// nothing. The returned slice is complete and never mutated afterwards.
func Build(rec *history.Record) ([]Action, error) {
	senses := map[nchess.Color]map[int]*history.SenseRecord{
		nchess.White: {},
		nchess.Black: {},
	}
	for _, c := range []nchess.Color{nchess.White, nchess.Black} {
		for i := range rec.Senses[c] {
			sr := &rec.Senses[c][i]
			senses[c][sr.Turn.Number] = sr
		}
	}

	rounds := rec.NumTurns(nchess.White)
	if n := rec.NumTurns(nchess.Black); n > rounds {
		return nil, fmt.Errorf("%w: black ahead of white", ErrInconsistentHistory)
	}
	// A trailing sense with no move (game ended mid-turn) still gets its round.
	for _, c := range []nchess.Color{nchess.White, nchess.Black} {
		for number := range senses[c] {
			if number+1 > rounds {
				rounds = number + 1
			}
		}
	}

	var actions []Action
	for number := 0; number < rounds; number++ {
		for _, c := range []nchess.Color{nchess.White, nchess.Black} {
			t := history.Turn{Number: number, Color: c}

			var mr *history.MoveRecord
			if number < rec.NumTurns(c) {
				mr = &rec.Moves[c][number]
				if mr.Turn != t {
					return nil, fmt.Errorf("%w: record %s filed under turn %s", ErrInconsistentHistory, mr.Turn, t)
				}
			}
			sr := senses[c][number]

			if sr != nil {
				fen, err := fenBefore(rec, t)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInconsistentHistory, err)
				}
				actions = append(actions, &SenseAction{
					turn:     t,
					fen:      fen,
					Square:   sr.Square,
					Revealed: sr.Revealed,
				})
			}
			if mr != nil {
				actions = append(actions, &MoveAction{
					turn:      t,
					fen:       mr.FEN,
					Requested: mr.Requested,
					Taken:     mr.Taken,
					Capture:   mr.Capture,
				})
			}
		}
	}
	return actions, nil
}

// fenBefore is the snapshot a sense action is drawn over: the position before
// the turn's own move, i.e. the previous turn's resulting position.
func fenBefore(rec *history.Record, t history.Turn) (string, error) {
	prev, err := t.Previous()
	if err != nil {
		return history.StartingFEN, nil
	}
	recs := rec.Moves[prev.Color]
	if prev.Number >= len(recs) {
		return "", fmt.Errorf("turn %s has no recorded predecessor", t)
	}
	return recs[prev.Number].FEN, nil
}
