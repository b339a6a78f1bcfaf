package render

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/sulan/reconchess/internal/history"
	"github.com/sulan/reconchess/internal/replay"
)

const testFENAfterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

func testSession(t *testing.T, opts replay.Options) *replay.Session {
	t.Helper()
	e4 := nchess.NewSquare(nchess.FileE, nchess.Rank4)
	requested, err := history.ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	rec := &history.Record{
		WhiteName: "Alice",
		BlackName: "Bob",
		Moves: map[nchess.Color][]history.MoveRecord{
			nchess.White: {{
				Turn:      history.Turn{Number: 0, Color: nchess.White},
				Requested: &requested,
				Taken:     &requested,
				FEN:       testFENAfterE4,
			}},
		},
		Senses: map[nchess.Color][]history.SenseRecord{
			nchess.White: {{
				Turn:     history.Turn{Number: 0, Color: nchess.White},
				Square:   e4,
				Revealed: []history.SquarePiece{{Square: e4}},
			}},
		},
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	s, err := replay.NewSession(rec, opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestRenderPNG(t *testing.T) {
	s := testSession(t, replay.Options{})
	renderer := NewFrameRenderer(Options{SquareSize: 32})

	data, err := renderer.RenderPNG(context.Background(), s.Frame(), HUD{
		Title:  s.MatchLabel(),
		Turn:   s.TurnLabel(),
		Player: s.PlayerLabel(),
		Result: "Alice wins by king capture",
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if img.Bounds().Dx() < 8*32 || img.Bounds().Dy() < 8*32 {
		t.Fatalf("image too small: %v", img.Bounds())
	}
}

func TestRenderPNGPerspectiveDiffers(t *testing.T) {
	s := testSession(t, replay.Options{})
	s.Apply(replay.IntentToEnd)
	frame := s.Frame()

	white := NewFrameRenderer(Options{SquareSize: 32, Perspective: nchess.White})
	black := NewFrameRenderer(Options{SquareSize: 32, Perspective: nchess.Black})

	a, err := white.RenderPNG(context.Background(), frame, HUD{})
	if err != nil {
		t.Fatalf("white render: %v", err)
	}
	b, err := black.RenderPNG(context.Background(), frame, HUD{})
	if err != nil {
		t.Fatalf("black render: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("rotated board rendered identically")
	}
}

func TestRenderPNGCancelled(t *testing.T) {
	s := testSession(t, replay.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFrameRenderer(Options{}).RenderPNG(ctx, s.Frame(), HUD{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestActionMarks(t *testing.T) {
	s := testSession(t, replay.Options{})
	s.Apply(replay.IntentForward)
	sense := s.Frame().Action
	s.Apply(replay.IntentForward)
	move := s.Frame().Action

	e2 := nchess.NewSquare(nchess.FileE, nchess.Rank2)
	e4 := nchess.NewSquare(nchess.FileE, nchess.Rank4)

	marks := ActionMarks(move, replay.ShowBoth)
	if marks[e2] != MarkMove || marks[e4] != MarkMove {
		t.Fatalf("move marks = %v", marks)
	}

	marks = ActionMarks(sense, replay.ShowBoth)
	if marks[e4] != MarkSense {
		t.Fatalf("sense marks = %v", marks)
	}

	// A hidden side's actions draw nothing.
	if marks := ActionMarks(move, replay.ShowBlackOnly); len(marks) != 0 {
		t.Fatalf("hidden side produced marks: %v", marks)
	}
}

func TestTextBoardRender(t *testing.T) {
	s := testSession(t, replay.Options{})
	tb := NewTextBoard(nchess.White, replay.ShowBoth)
	out, err := tb.Render(s.Frame())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "♙") || !strings.Contains(out, "♟") {
		t.Fatalf("missing pieces in output:\n%s", out)
	}
	if !strings.Contains(out, "a b c d e f g h") {
		t.Fatalf("missing file coordinates:\n%s", out)
	}

	// The filter hides black's pieces entirely.
	tb = NewTextBoard(nchess.White, replay.ShowWhiteOnly)
	out, err = tb.Render(s.Frame())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "♟") || strings.Contains(out, "♚") {
		t.Fatalf("hidden pieces drawn:\n%s", out)
	}
}

func TestPieceSpriteCache(t *testing.T) {
	pieces, err := BoardMap(history.StartingFEN)
	if err != nil {
		t.Fatalf("BoardMap: %v", err)
	}
	e2 := nchess.NewSquare(nchess.FileE, nchess.Rank2)
	e8 := nchess.NewSquare(nchess.FileE, nchess.Rank8)
	for _, piece := range []nchess.Piece{
		pieces[e2], pieces[e8],
	} {
		img, err := pieceSprite(piece, 32)
		if err != nil {
			t.Fatalf("pieceSprite(%v): %v", piece, err)
		}
		if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
			t.Fatalf("sprite bounds = %v", img.Bounds())
		}
		again, err := pieceSprite(piece, 32)
		if err != nil {
			t.Fatalf("cached pieceSprite: %v", err)
		}
		if img != again {
			t.Fatalf("cache miss on second lookup")
		}
	}
}
