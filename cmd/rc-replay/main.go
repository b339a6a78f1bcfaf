// rc-replay plays back recorded reconnaissance chess matches in the terminal,
// or dumps/exports them as text and PNG frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	appcfg "github.com/sulan/reconchess/internal/config"
	"github.com/sulan/reconchess/internal/history"
	"github.com/sulan/reconchess/internal/obslog"
	"github.com/sulan/reconchess/internal/render"
	"github.com/sulan/reconchess/internal/replay"
	"github.com/sulan/reconchess/internal/ui"
)

var (
	flagPerspective = flag.String("perspective", "white", "Board orientation (white or black)")
	flagDrawPieces  = flag.String("draw-pieces", "both", "Which side's pieces and actions to show (white, black, or both)")
	flagAutoAdvance = flag.Int("automatic-advance", 0, "Milliseconds between automatic steps, 0 disables")
	flagExportDir   = flag.String("export-dir", "", "Write every frame as a PNG into this directory and exit")
	flagDump        = flag.Bool("dump", false, "Print every frame to stdout and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <match record>\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "The match record is a file path, an http(s):// URL, or a redis:// URL")
		fmt.Fprintln(flag.CommandLine.Output(), "with a ?key= query, holding a native JSON record or a PGN game.")
		fmt.Fprintln(flag.CommandLine.Output(), "")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := obslog.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer obslog.L().Sync()

	cfg, err := appcfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	opts, err := buildOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	loader := history.NewLoader(
		history.WithTimeout(cfg.HTTPTimeout),
		history.WithRedisTimeout(cfg.RedisTimeout),
	)
	rec, err := loader.Load(ctx, flag.Arg(0))
	if err != nil {
		var malformed *history.MalformedError
		switch {
		case errors.Is(err, history.ErrResourceUnavailable):
			fmt.Fprintf(os.Stderr, "cannot open match record: %v\n", err)
		case errors.As(err, &malformed):
			fmt.Fprintf(os.Stderr, "malformed match record: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}

	session, err := replay.NewSession(rec, opts)
	if err != nil {
		if errors.Is(err, replay.ErrEmptyHistory) {
			fmt.Println("Game History is empty.")
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch {
	case *flagDump:
		err = dumpFrames(session)
	case *flagExportDir != "":
		err = exportFrames(ctx, session, *flagExportDir, cfg.ExportSquareSize)
	default:
		err = runViewer(session, cfg)
	}
	if err != nil {
		obslog.L().Error("replay_failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func buildOptions() (replay.Options, error) {
	opts := replay.Options{
		Perspective: nchess.White,
		Filter:      replay.ShowBoth,
	}
	switch *flagPerspective {
	case "white":
	case "black":
		opts.Perspective = nchess.Black
	default:
		return opts, fmt.Errorf("invalid --perspective %q (want white or black)", *flagPerspective)
	}
	switch *flagDrawPieces {
	case "both":
	case "white":
		opts.Filter = replay.ShowWhiteOnly
	case "black":
		opts.Filter = replay.ShowBlackOnly
	default:
		return opts, fmt.Errorf("invalid --draw-pieces %q (want white, black, or both)", *flagDrawPieces)
	}
	if *flagAutoAdvance < 0 {
		return opts, fmt.Errorf("invalid --automatic-advance %d (want milliseconds >= 0)", *flagAutoAdvance)
	}
	opts.AutoAdvance = time.Duration(*flagAutoAdvance) * time.Millisecond
	return opts, nil
}

// dumpFrames prints the initial position and every action as a colored text
// board.
func dumpFrames(session *replay.Session) error {
	opts := session.Options()
	tb := render.NewTextBoard(opts.Perspective, opts.Filter)
	fmt.Println(session.MatchLabel())
	for {
		frame := session.Frame()
		board, err := tb.Render(frame)
		if err != nil {
			return err
		}
		fmt.Printf("%s   %s\n%s\n", session.TurnLabel(), session.PlayerLabel(), board)
		if !frame.Avail.Forward {
			return nil
		}
		session.Apply(replay.IntentForward)
	}
}

// exportFrames writes one PNG per frame, numbered in replay order.
func exportFrames(ctx context.Context, session *replay.Session, dir string, squareSize int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	opts := session.Options()
	renderer := render.NewFrameRenderer(render.Options{
		SquareSize:  squareSize,
		Perspective: opts.Perspective,
		Filter:      opts.Filter,
	})
	for i := 0; ; i++ {
		frame := session.Frame()
		data, err := renderer.RenderPNG(ctx, frame, render.HUD{
			Title:  session.MatchLabel(),
			Turn:   session.TurnLabel(),
			Player: session.PlayerLabel(),
			Result: resultLine(session.Record()),
		})
		if err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if !frame.Avail.Forward {
			obslog.L().Info("frames_exported", zap.String("dir", dir), zap.Int("frames", i+1))
			return nil
		}
		session.Apply(replay.IntentForward)
	}
}

func resultLine(rec *history.Record) string {
	if rec.Winner == nil {
		if rec.WinReason != "" {
			return fmt.Sprintf("Draw (%s)", rec.WinReason)
		}
		return ""
	}
	winner := "White"
	if *rec.Winner == nchess.Black {
		winner = "Black"
	}
	if rec.WinReason != "" {
		return fmt.Sprintf("%s wins by %s", winner, rec.WinReason)
	}
	return fmt.Sprintf("%s wins", winner)
}

func runViewer(session *replay.Session, cfg *appcfg.AppConfig) error {
	theme, err := appcfg.LoadTheme(cfg.ThemeFile)
	if err != nil {
		obslog.L().Warn("theme_load_error", zap.Error(err))
	}

	app := tview.NewApplication()

	hint := tview.NewTextView()
	hint.SetBorder(true)
	hint.SetBorderPadding(0, 0, 1, 1)
	hint.SetTitle(" Replay ")
	hint.SetTitleAlign(tview.AlignLeft)

	viewer := ui.NewReplayViewer(app, session, theme, hint)
	defer viewer.Close()

	viewer.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft:
			viewer.Backward()
		case tcell.KeyRight:
			viewer.Forward()
		case tcell.KeyHome:
			viewer.GoToStart()
		case tcell.KeyEnd:
			viewer.GoToEnd()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				viewer.Backward()
			case 'l':
				viewer.Forward()
			case 'g':
				viewer.GoToStart()
			case 'G':
				viewer.GoToEnd()
			case ' ':
				viewer.ToggleAutoplay()
			case 'q':
				app.Stop()
			}
		}
		return event
	})

	layout := tview.NewFlex().
		AddItem(viewer.Box, 0, 3, true).
		AddItem(hint, 40, 1, false)

	viewer.Run()
	return app.SetRoot(layout, true).Run()
}
