// Package replay turns a recorded match into an immutable, index-addressable
// action sequence and drives a bounded cursor over it.
package replay

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/sulan/reconchess/internal/history"
)

// Action is one renderable replay event, anchored to a single turn. It is a
// sealed variant: consumers match on *MoveAction and *SenseAction exhaustively.
type Action interface {
	// Turn identifies the turn the event belongs to.
	Turn() history.Turn
	// FEN is the board snapshot to draw while this action is current.
	FEN() string

	sealedAction()
}

// MoveAction is a move phase: what was asked for, what actually happened.
type MoveAction struct {
	turn history.Turn
	fen  string

	Requested *history.Move
	Taken     *history.Move
	Capture   *nchess.Square
}

func (a *MoveAction) Turn() history.Turn { return a.turn }
func (a *MoveAction) FEN() string        { return a.fen }
func (a *MoveAction) sealedAction()      {}

// Rejected reports whether the requested move failed to execute.
func (a *MoveAction) Rejected() bool { return a.Requested != nil && a.Taken == nil }

// SenseAction is a perception phase: the scanned square and what it revealed.
type SenseAction struct {
	turn history.Turn
	fen  string

	Square   nchess.Square
	Revealed []history.SquarePiece
}

func (a *SenseAction) Turn() history.Turn { return a.turn }
func (a *SenseAction) FEN() string        { return a.fen }
func (a *SenseAction) sealedAction()      {}
