// Package ui provides the terminal replay viewer built on tview.
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sulan/reconchess/internal/config"
	"github.com/sulan/reconchess/internal/render"
	"github.com/sulan/reconchess/internal/replay"
)

const (
	boardLeftPad = 4
	tickInterval = 100 * time.Millisecond
)

type ReplayViewer struct {
	Box  *tview.Box
	hint *tview.TextView

	app     *tview.Application
	session *replay.Session

	mu      sync.Mutex
	playing bool
	stopped chan struct{}

	light     tcell.Color
	dark      tcell.Color
	moveHi    tcell.Color
	badHi     tcell.Color
	captureHi tcell.Color
	senseHi   tcell.Color
	whiteInk  tcell.Color
	blackInk  tcell.Color
	statusInk tcell.Color
}

func NewReplayViewer(app *tview.Application, session *replay.Session, theme config.Theme, hint *tview.TextView) *ReplayViewer {
	v := &ReplayViewer{
		Box:       tview.NewBox(),
		hint:      hint,
		app:       app,
		session:   session,
		playing:   session.AutoAdvancing(),
		stopped:   make(chan struct{}),
		light:     tcell.GetColor(theme.LightSquare),
		dark:      tcell.GetColor(theme.DarkSquare),
		moveHi:    tcell.GetColor(theme.MoveHighlight),
		badHi:     tcell.GetColor(theme.RejectedMove),
		captureHi: tcell.GetColor(theme.CaptureMark),
		senseHi:   tcell.GetColor(theme.SenseRegion),
		whiteInk:  tcell.GetColor(theme.WhitePiece),
		blackInk:  tcell.GetColor(theme.BlackPiece),
		statusInk: tcell.GetColor(theme.StatusText),
	}
	hint.SetTextColor(v.statusInk)
	v.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		v.mu.Lock()
		frame := v.session.Frame()
		v.mu.Unlock()
		v.drawBoard(screen, x, y, frame)
		// 2 characters per cell for square appearance
		return x, y, 8*2 + boardLeftPad, 8 + 2
	})
	v.refreshHint()
	return v
}

func (v *ReplayViewer) drawBoard(screen tcell.Screen, x, y int, frame replay.Frame) {
	pieces, err := render.BoardMap(frame.FEN)
	if err != nil {
		// A record that validated cannot carry a bad FEN; show nothing.
		return
	}
	opts := v.session.Options()
	marks := render.ActionMarks(frame.Action, opts.Filter)

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := v.squareAt(col, row, opts.Perspective)
			bg := v.light
			if (int(sq.File())+int(sq.Rank()))%2 == 0 {
				bg = v.dark
			}
			switch marks[sq] {
			case render.MarkMove:
				bg = v.moveHi
			case render.MarkRejected:
				bg = v.badHi
			case render.MarkCapture:
				bg = v.captureHi
			case render.MarkSense:
				bg = v.senseHi
			}

			glyph := ' '
			ink := v.whiteInk
			if piece, ok := pieces[sq]; ok && piece != nchess.NoPiece && !opts.Filter.Hides(piece.Color()) {
				glyph = []rune(render.PieceGlyph(piece))[0]
				if piece.Color() == nchess.Black {
					ink = v.blackInk
				}
			}
			style := tcell.StyleDefault.Background(bg).Foreground(ink)
			screen.SetContent(x+boardLeftPad+col*2, y+row, glyph, nil, style)
			screen.SetContent(x+boardLeftPad+col*2+1, y+row, ' ', nil, style)
		}
	}
	v.drawCoordinates(screen, x, y, opts.Perspective)
}

// squareAt maps a screen cell to its square. Files always run a..h left to
// right; the rank axis flips with the perspective.
func (v *ReplayViewer) squareAt(col, row int, perspective nchess.Color) nchess.Square {
	rank := 7 - row
	if perspective == nchess.Black {
		rank = row
	}
	return nchess.NewSquare(nchess.File(col), nchess.Rank(rank))
}

func (v *ReplayViewer) drawCoordinates(screen tcell.Screen, x, y int, perspective nchess.Color) {
	style := tcell.StyleDefault
	for col := 0; col < 8; col++ {
		screen.SetContent(x+boardLeftPad+col*2, y+9, rune('a'+col), nil, style)
	}
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if perspective == nchess.Black {
			rank = row
		}
		screen.SetContent(x+1, y+row, rune('1'+rank), nil, style)
	}
}

// GoToStart, Backward, Forward, and GoToEnd apply navigation intents.
// Unavailable transitions are ignored, matching the button state.
func (v *ReplayViewer) GoToStart() { v.apply(replay.IntentToStart) }
func (v *ReplayViewer) Backward()  { v.apply(replay.IntentBackward) }
func (v *ReplayViewer) Forward()   { v.apply(replay.IntentForward) }
func (v *ReplayViewer) GoToEnd()   { v.apply(replay.IntentToEnd) }

func (v *ReplayViewer) apply(in replay.Intent) {
	v.mu.Lock()
	v.session.Apply(in)
	v.mu.Unlock()
	v.refreshHint()
}

// ToggleAutoplay pauses or resumes automatic advancing. Returns the new
// state; false when no advance interval was configured.
func (v *ReplayViewer) ToggleAutoplay() bool {
	v.mu.Lock()
	if v.session.AutoAdvancing() {
		v.playing = !v.playing
	}
	playing := v.playing
	v.mu.Unlock()
	v.refreshHint()
	return playing
}

// Run starts the auto-advance loop. It returns when the replay reaches the
// end while playing, or when Close is called. The viewer closes the whole
// application once the final action has been shown.
func (v *ReplayViewer) Run() {
	if !v.session.AutoAdvancing() {
		return
	}
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-v.stopped:
				return
			case now := <-ticker.C:
				v.mu.Lock()
				if !v.playing {
					v.mu.Unlock()
					continue
				}
				stepped, done := v.session.Tick(now)
				v.mu.Unlock()
				if done {
					v.app.Stop()
					return
				}
				if stepped {
					v.refreshHint()
					go func() {
						v.app.QueueUpdateDraw(func() {})
					}()
				}
			}
		}
	}()
}

// Close stops the auto-advance loop.
func (v *ReplayViewer) Close() {
	select {
	case <-v.stopped:
	default:
		close(v.stopped)
	}
}

func (v *ReplayViewer) refreshHint() {
	v.mu.Lock()
	frame := v.session.Frame()
	turn := v.session.TurnLabel()
	player := v.session.PlayerLabel()
	lossy := v.session.Lossy()
	auto := v.session.AutoAdvancing()
	playing := v.playing
	v.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s\n  %s\n  %s\n", v.session.MatchLabel(), player, turn))
	if a, ok := frame.Action.(*replay.SenseAction); ok {
		label := fmt.Sprintf("  Sense: %s%s", a.Square.File(), a.Square.Rank())
		if lossy {
			label += " (synthesized)"
		}
		sb.WriteString(label + "\n")
	}
	if a, ok := frame.Action.(*replay.MoveAction); ok && a.Rejected() {
		sb.WriteString(fmt.Sprintf("  Move rejected: %s\n", a.Requested))
	}
	sb.WriteString("\n")
	sb.WriteString(controlsLine(frame.Avail))
	if auto {
		if playing {
			sb.WriteString("\n  space pause")
		} else {
			sb.WriteString("\n  space play")
		}
	}
	sb.WriteString("\n  q quit")
	v.hint.SetText(sb.String())
}

// controlsLine lists only the keys whose transitions are currently allowed.
func controlsLine(avail replay.Availability) string {
	var parts []string
	if avail.ToStart {
		parts = append(parts, "g start")
	}
	if avail.Backward {
		parts = append(parts, "←/h back")
	}
	if avail.Forward {
		parts = append(parts, "→/l next")
	}
	if avail.ToEnd {
		parts = append(parts, "G end")
	}
	if len(parts) == 0 {
		return "  (no navigation)"
	}
	return "  " + strings.Join(parts, "   ")
}
