// Package history models a recorded reconnaissance-chess match: per-turn move and
// sense records plus the loaders that produce them from persisted sources.
package history

import (
	"errors"
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

// ErrNoPreviousTurn is returned by Turn.Previous for the game's very first turn.
var ErrNoPreviousTurn = errors.New("no previous turn")

// Turn identifies one side's opportunity to act: round number plus color.
// White acts first within a round.
type Turn struct {
	Number int
	Color  nchess.Color
}

// Order returns the linear sort key for the turn across both colors.
func (t Turn) Order() int {
	bit := 0
	if t.Color == nchess.Black {
		bit = 1
	}
	return t.Number*2 + bit
}

// Previous returns the turn immediately before t.
func (t Turn) Previous() (Turn, error) {
	if t.Color == nchess.Black {
		return Turn{Number: t.Number, Color: nchess.White}, nil
	}
	if t.Number == 0 {
		return Turn{}, ErrNoPreviousTurn
	}
	return Turn{Number: t.Number - 1, Color: nchess.Black}, nil
}

func (t Turn) String() string {
	return fmt.Sprintf("%d-%s", t.Number+1, colorName(t.Color))
}

func colorName(c nchess.Color) string {
	if c == nchess.Black {
		return "black"
	}
	return "white"
}
