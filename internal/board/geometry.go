// Package board maps chess squares to screen rectangles and back under a
// viewing perspective. Pure geometry: no board state, no rendering.
package board

import (
	"image"

	nchess "github.com/corentings/chess/v2"
)

// Geometry fixes the tile edge length and the top-left corner of the board.
// The file axis always runs left to right a..h; only the rank axis depends on
// the perspective: white at the bottom puts rank 8 at the top row, black at
// the bottom puts rank 1 at the top row. SquareRect and SquareAt are inverses
// for every (square, perspective) pair.
type Geometry struct {
	SquareSize int
	Origin     image.Point
}

// SquareRect returns the pixel rectangle covering sq.
func (g Geometry) SquareRect(sq nchess.Square, perspective nchess.Color) image.Rectangle {
	col := int(sq.File())
	row := int(sq.Rank())
	if perspective != nchess.Black {
		row = 7 - row
	}
	x := g.Origin.X + col*g.SquareSize
	y := g.Origin.Y + row*g.SquareSize
	return image.Rect(x, y, x+g.SquareSize, y+g.SquareSize)
}

// SquareAt returns the square under the pixel (x, y), or ok=false when the
// point lies outside the 8x8 grid.
func (g Geometry) SquareAt(x, y int, perspective nchess.Color) (nchess.Square, bool) {
	if g.SquareSize <= 0 {
		return 0, false
	}
	col := (x - g.Origin.X) / g.SquareSize
	row := (y - g.Origin.Y) / g.SquareSize
	if x < g.Origin.X || y < g.Origin.Y || col > 7 || row > 7 {
		return 0, false
	}
	rank := row
	if perspective != nchess.Black {
		rank = 7 - row
	}
	return nchess.NewSquare(nchess.File(col), nchess.Rank(rank)), true
}

// Bounds returns the rectangle covering the whole board.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rect(g.Origin.X, g.Origin.Y, g.Origin.X+8*g.SquareSize, g.Origin.Y+8*g.SquareSize)
}
