package ui

import (
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sulan/reconchess/internal/config"
	"github.com/sulan/reconchess/internal/history"
	"github.com/sulan/reconchess/internal/replay"
)

const viewerFENAfterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

func viewerSession(t *testing.T) *replay.Session {
	t.Helper()
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
				FEN:       viewerFENAfterE4,
			}},
		},
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	s, err := replay.NewSession(rec, replay.Options{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestViewerThemeColors(t *testing.T) {
	theme := config.DefaultTheme
	theme.CaptureMark = "#102030"
	theme.StatusText = "#405060"

	hint := tview.NewTextView()
	v := NewReplayViewer(tview.NewApplication(), viewerSession(t), theme, hint)
	t.Cleanup(v.Close)

	if v.captureHi != tcell.GetColor("#102030") {
		t.Fatalf("capture highlight = %v", v.captureHi)
	}
	if v.statusInk != tcell.GetColor("#405060") {
		t.Fatalf("status color = %v", v.statusInk)
	}
}

func TestViewerHintMatchLine(t *testing.T) {
	hint := tview.NewTextView()
	v := NewReplayViewer(tview.NewApplication(), viewerSession(t), config.DefaultTheme, hint)
	t.Cleanup(v.Close)

	text := hint.GetText(false)
	if !strings.Contains(text, "Alice vs Bob") {
		t.Fatalf("hint missing match line: %q", text)
	}
	if !strings.Contains(text, "Player: -") || !strings.Contains(text, "Turn: - / 1") {
		t.Fatalf("hint missing labels: %q", text)
	}

	v.Forward()
	if text := hint.GetText(false); !strings.Contains(text, "Player: Alice") {
		t.Fatalf("hint after forward: %q", text)
	}
}
