// FILE: internal/engine/attack.go
package engine

import (
	"github.com/notnil/chess"
)

type offset struct{ df, dr int }

var (
	knightJumps = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = []offset{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightRay = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalRay = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// squareAt returns the square at file f, rank r (both 0-7); A1 is square 0
func squareAt(f, r int) (chess.Square, bool) {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return chess.NoSquare, false
	}
	return chess.Square(r*8 + f), true
}

// inCheck reports whether the king of color c stands on an attacked square.
// A board without that king is never in check.
func inCheck(b *chess.Board, c chess.Color) bool {
	for sq, p := range b.SquareMap() {
		if p.Type() == chess.King && p.Color() == c {
			return attacked(b, sq, c.Other())
		}
	}
	return false
}

// attacked reports whether any piece of color by attacks sq
func attacked(b *chess.Board, sq chess.Square, by chess.Color) bool {
	f, r := int(sq.File()), int(sq.Rank())

	holds := func(df, dr int, types ...chess.PieceType) bool {
		s, ok := squareAt(f+df, r+dr)
		if !ok {
			return false
		}
		p := b.Piece(s)
		if p == chess.NoPiece || p.Color() != by {
			return false
		}
		for _, t := range types {
			if p.Type() == t {
				return true
			}
		}
		return false
	}

	// Pawns capture toward the opponent, so look one rank back from their side
	pawnRank := -1
	if by == chess.Black {
		pawnRank = 1
	}
	if holds(-1, pawnRank, chess.Pawn) || holds(1, pawnRank, chess.Pawn) {
		return true
	}

	for _, o := range knightJumps {
		if holds(o.df, o.dr, chess.Knight) {
			return true
		}
	}
	for _, o := range kingSteps {
		if holds(o.df, o.dr, chess.King) {
			return true
		}
	}

	slides := func(rays []offset, types ...chess.PieceType) bool {
		for _, o := range rays {
			for step := 1; ; step++ {
				s, ok := squareAt(f+o.df*step, r+o.dr*step)
				if !ok {
					break
				}
				if b.Piece(s) == chess.NoPiece {
					continue
				}
				if holds(o.df*step, o.dr*step, types...) {
					return true
				}
				break
			}
		}
		return false
	}
	return slides(straightRay, chess.Rook, chess.Queen) ||
		slides(diagonalRay, chess.Bishop, chess.Queen)
}
