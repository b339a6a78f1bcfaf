// Package render draws replay frames: PNG exports with SVG piece sprites and
// colored text boards for terminal dumps.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sulan/reconchess/internal/board"
	"github.com/sulan/reconchess/internal/replay"
)

var (
	lightSquare    = color.RGBA{240, 217, 181, 255}
	darkSquare     = color.RGBA{181, 136, 99, 255}
	marginColor    = color.RGBA{238, 238, 238, 255}
	hudTextColor   = color.NRGBA{30, 30, 30, 255}
	coordTextColor = color.NRGBA{90, 90, 90, 255}

	rejectedHighlight = color.NRGBA{220, 30, 30, 255}
	captureHighlight  = color.NRGBA{255, 0, 0, 255}
	whiteTurnOutline  = color.NRGBA{255, 255, 255, 255}
	blackTurnOutline  = color.NRGBA{0, 0, 0, 255}
	senseOverlay      = color.NRGBA{80, 160, 255, 70}
)

// Options fixes the geometry and presentation of rendered frames.
type Options struct {
	SquareSize  int
	Perspective nchess.Color
	Filter      replay.PieceFilter
}

// HUD is the text drawn above the board: the match-up line, the turn and
// player lines, and the result once the game is decided.
type HUD struct {
	Title  string
	Turn   string
	Player string
	Result string
}

// FrameRenderer rasterizes replay frames to PNG. Safe for reuse across frames;
// the piece sprite cache is shared.
type FrameRenderer struct {
	opts Options
	geo  board.Geometry
}

const (
	sideMargin = 24
	topMargin  = 80
	botMargin  = 24
)

func NewFrameRenderer(opts Options) *FrameRenderer {
	if opts.SquareSize <= 0 {
		opts.SquareSize = 72
	}
	return &FrameRenderer{
		opts: opts,
		geo: board.Geometry{
			SquareSize: opts.SquareSize,
			Origin:     image.Pt(sideMargin, topMargin),
		},
	}
}

// RenderPNG draws one frame: board, pieces (honoring the piece filter), the
// current action's highlights, coordinates, and the HUD.
func (r *FrameRenderer) RenderPNG(ctx context.Context, frame replay.Frame, hud HUD) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pieces, err := BoardMap(frame.FEN)
	if err != nil {
		return nil, err
	}

	size := r.opts.SquareSize
	total := image.Rect(0, 0, 8*size+2*sideMargin, 8*size+topMargin+botMargin)
	img := image.NewRGBA(total)
	imagedraw.Draw(img, total, image.NewUniform(marginColor), image.Point{}, imagedraw.Src)

	r.drawSquares(img)
	if err := r.drawPieces(img, pieces); err != nil {
		return nil, err
	}
	r.drawAction(img, frame.Action)
	r.drawCoordinates(img)
	r.drawHUD(img, hud)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *FrameRenderer) drawSquares(img *image.RGBA) {
	for f := 0; f < 8; f++ {
		for rk := 0; rk < 8; rk++ {
			sq := nchess.NewSquare(nchess.File(f), nchess.Rank(rk))
			clr := lightSquare
			if (f+rk)%2 == 0 {
				clr = darkSquare
			}
			rect := r.geo.SquareRect(sq, r.opts.Perspective)
			imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func (r *FrameRenderer) drawPieces(img *image.RGBA, pieces map[nchess.Square]nchess.Piece) error {
	for sq, piece := range pieces {
		if piece == nchess.NoPiece || r.opts.Filter.Hides(piece.Color()) {
			continue
		}
		sprite, err := pieceSprite(piece, r.opts.SquareSize)
		if err != nil {
			return err
		}
		rect := r.geo.SquareRect(sq, r.opts.Perspective)
		imagedraw.Draw(img, rect, sprite, image.Point{}, imagedraw.Over)
	}
	return nil
}

// drawAction marks the current event on the board. Nothing is drawn at
// BeforeStart or when the acting side is hidden by the piece filter.
func (r *FrameRenderer) drawAction(img *image.RGBA, action replay.Action) {
	if action == nil || r.opts.Filter.Hides(action.Turn().Color) {
		return
	}
	outline := whiteTurnOutline
	if action.Turn().Color == nchess.Black {
		outline = blackTurnOutline
	}
	switch a := action.(type) {
	case *replay.MoveAction:
		if a.Rejected() {
			r.outlineSquare(img, a.Requested.From, rejectedHighlight)
			r.outlineSquare(img, a.Requested.To, rejectedHighlight)
			return
		}
		if a.Requested != nil {
			r.outlineSquare(img, a.Requested.From, outline)
			r.outlineSquare(img, a.Requested.To, outline)
		}
		if a.Taken != nil {
			r.outlineSquare(img, a.Taken.From, outline)
			r.outlineSquare(img, a.Taken.To, outline)
		}
		if a.Capture != nil {
			r.outlineSquare(img, *a.Capture, captureHighlight)
		}
	case *replay.SenseAction:
		for _, seen := range a.Revealed {
			rect := r.geo.SquareRect(seen.Square, r.opts.Perspective)
			imagedraw.Draw(img, rect, image.NewUniform(senseOverlay), image.Point{}, imagedraw.Over)
		}
		r.outlineSquare(img, a.Square, outline)
	}
}

// outlineSquare draws a 3px border inside the square's rectangle.
func (r *FrameRenderer) outlineSquare(img *image.RGBA, sq nchess.Square, clr color.Color) {
	rect := r.geo.SquareRect(sq, r.opts.Perspective)
	const thickness = 3
	fill := image.NewUniform(clr)
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y)
	right := image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		imagedraw.Draw(img, edge, fill, image.Point{}, imagedraw.Over)
	}
}

func (r *FrameRenderer) drawCoordinates(img *image.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordTextColor),
		Face: basicfont.Face7x13,
	}
	bounds := r.geo.Bounds()
	for f := 0; f < 8; f++ {
		sq := nchess.NewSquare(nchess.File(f), nchess.Rank1)
		rect := r.geo.SquareRect(sq, r.opts.Perspective)
		label := string(rune('a' + f))
		w := drawer.MeasureString(label).Round()
		drawer.Dot = fixed.P(rect.Min.X+(r.opts.SquareSize-w)/2, bounds.Max.Y+14)
		drawer.DrawString(label)
	}
	for rk := 0; rk < 8; rk++ {
		sq := nchess.NewSquare(nchess.FileA, nchess.Rank(rk))
		rect := r.geo.SquareRect(sq, r.opts.Perspective)
		label := string(rune('1' + rk))
		drawer.Dot = fixed.P(bounds.Min.X-14, rect.Min.Y+r.opts.SquareSize/2+4)
		drawer.DrawString(label)
	}
}

func (r *FrameRenderer) drawHUD(img *image.RGBA, hud HUD) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(hudTextColor),
		Face: basicfont.Face7x13,
	}
	y := 18
	for _, line := range []string{hud.Title, hud.Turn, hud.Player, hud.Result} {
		if line != "" {
			drawer.Dot = fixed.P(sideMargin, y)
			drawer.DrawString(line)
		}
		y += 16
	}
}

// BoardMap parses a FEN snapshot into its piece placement.
func BoardMap(fen string) (map[nchess.Square]nchess.Piece, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	game := nchess.NewGame(opt)
	return game.Position().Board().SquareMap(), nil
}
