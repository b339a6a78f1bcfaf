package render

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/muesli/termenv"

	"github.com/sulan/reconchess/internal/replay"
)

var pieceGlyphs = map[nchess.Color]map[nchess.PieceType]string{
	nchess.White: {
		nchess.King:   "♔",
		nchess.Queen:  "♕",
		nchess.Rook:   "♖",
		nchess.Bishop: "♗",
		nchess.Knight: "♘",
		nchess.Pawn:   "♙",
	},
	nchess.Black: {
		nchess.King:   "♚",
		nchess.Queen:  "♛",
		nchess.Rook:   "♜",
		nchess.Bishop: "♝",
		nchess.Knight: "♞",
		nchess.Pawn:   "♟",
	},
}

// PieceGlyph returns the unicode figurine for a piece, or a space for
// nchess.NoPiece.
func PieceGlyph(piece nchess.Piece) string {
	if piece == nchess.NoPiece {
		return " "
	}
	return pieceGlyphs[piece.Color()][piece.Type()]
}

// TextBoard writes a colored board to a string for terminal dumps. Output
// degrades with the terminal's color profile; highlights follow the same
// rules as the PNG renderer.
type TextBoard struct {
	profile     termenv.Profile
	perspective nchess.Color
	filter      replay.PieceFilter

	light     termenv.Color
	dark      termenv.Color
	moveHi    termenv.Color
	badHi     termenv.Color
	captureHi termenv.Color
	senseHi   termenv.Color
	whiteInk  termenv.Color
	blackInk  termenv.Color
}

func NewTextBoard(perspective nchess.Color, filter replay.PieceFilter) *TextBoard {
	profile := termenv.ColorProfile()
	return &TextBoard{
		profile:     profile,
		perspective: perspective,
		filter:      filter,
		light:       profile.Color("#b58863"),
		dark:        profile.Color("#8b5a2b"),
		moveHi:      profile.Color("#b8b800"),
		badHi:       profile.Color("#b80000"),
		captureHi:   profile.Color("#d03030"),
		senseHi:     profile.Color("#2060b0"),
		whiteInk:    profile.Color("#ffffff"),
		blackInk:    profile.Color("#000000"),
	}
}

// Render draws one frame as ranks of 2-cell squares with coordinates.
func (tb *TextBoard) Render(frame replay.Frame) (string, error) {
	pieces, err := BoardMap(frame.FEN)
	if err != nil {
		return "", err
	}
	marks := ActionMarks(frame.Action, tb.filter)

	var sb strings.Builder
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if tb.perspective == nchess.Black {
			rank = row
		}
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < 8; file++ {
			sq := nchess.NewSquare(nchess.File(file), nchess.Rank(rank))
			sb.WriteString(tb.cell(sq, pieces[sq], marks[sq]))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	for file := 0; file < 8; file++ {
		sb.WriteString(string(rune('a'+file)) + " ")
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

// Mark classifies how a square relates to the current action.
type Mark int

const (
	MarkNone Mark = iota
	MarkMove
	MarkRejected
	MarkCapture
	MarkSense
)

// ActionMarks maps squares to their highlight for one action. Empty when the
// acting side is hidden by the filter.
func ActionMarks(action replay.Action, filter replay.PieceFilter) map[nchess.Square]Mark {
	marks := make(map[nchess.Square]Mark)
	if action == nil || filter.Hides(action.Turn().Color) {
		return marks
	}
	switch a := action.(type) {
	case *replay.MoveAction:
		if a.Rejected() {
			marks[a.Requested.From] = MarkRejected
			marks[a.Requested.To] = MarkRejected
			return marks
		}
		if a.Requested != nil {
			marks[a.Requested.From] = MarkMove
			marks[a.Requested.To] = MarkMove
		}
		if a.Taken != nil {
			marks[a.Taken.From] = MarkMove
			marks[a.Taken.To] = MarkMove
		}
		if a.Capture != nil {
			marks[*a.Capture] = MarkCapture
		}
	case *replay.SenseAction:
		for _, seen := range a.Revealed {
			marks[seen.Square] = MarkSense
		}
	}
	return marks
}

func (tb *TextBoard) cell(sq nchess.Square, piece nchess.Piece, mark Mark) string {
	bg := tb.light
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		bg = tb.dark
	}
	switch mark {
	case MarkMove:
		bg = tb.moveHi
	case MarkRejected:
		bg = tb.badHi
	case MarkCapture:
		bg = tb.captureHi
	case MarkSense:
		bg = tb.senseHi
	}

	glyph := " "
	ink := tb.whiteInk
	if piece != nchess.NoPiece && !tb.filter.Hides(piece.Color()) {
		glyph = PieceGlyph(piece)
		if piece.Color() == nchess.Black {
			ink = tb.blackInk
		}
	}
	styled := termenv.String(glyph + " ").Foreground(ink).Background(bg)
	return styled.String()
}
