// FILE: internal/board/board.go
package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"chessbind/internal/core"
)

// Board is a read-only view of a published FEN position, used for display
type Board struct {
	pos       *chess.Position
	enPassant string
	fullmove  int
}

func ParseFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, core.NewError(core.ErrCodeInvalidFEN, "invalid FEN", err)
	}

	// chess.FEN accepted the string, so all six fields are present
	parts := strings.Fields(fen)
	fullmove, _ := strconv.Atoi(parts[5])

	return &Board{
		pos:       chess.NewGame(opt).Position(),
		enPassant: parts[3],
		fullmove:  fullmove,
	}, nil
}

// ToASCII renders the board with '.' for empty squares, rank 8 first
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			if piece := b.PieceAt(Square(r, f)); piece == 0 {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func (b *Board) Turn() core.Color {
	if b.pos.Turn() == chess.Black {
		return core.ColorBlack
	}
	return core.ColorWhite
}

func (b *Board) Castling() string {
	return b.pos.CastleRights().String()
}

func (b *Board) EnPassant() string {
	return b.enPassant
}

func (b *Board) FullMove() int {
	return b.fullmove
}

// PieceAt returns the FEN letter on square ("e4"), or 0 when empty or off board
func (b *Board) PieceAt(square string) byte {
	p := b.piece(square)
	if p == chess.NoPiece {
		return 0
	}
	letter := p.Type().String()[0]
	if p.Color() == chess.White {
		letter -= 'a' - 'A'
	}
	return letter
}

// GlyphAt returns the Unicode symbol on square, or "" when empty or off board
func (b *Board) GlyphAt(square string) string {
	p := b.piece(square)
	if p == chess.NoPiece {
		return ""
	}
	return p.String()
}

func (b *Board) piece(square string) chess.Piece {
	if len(square) != 2 {
		return chess.NoPiece
	}
	if square[0] < 'a' || square[0] > 'h' || square[1] < '1' || square[1] > '8' {
		return chess.NoPiece
	}
	file := int(square[0] - 'a')
	rank := int(square[1] - '1')
	return b.pos.Board().Piece(chess.Square(rank*8 + file))
}

// Square returns the name of the square at row r (0 is rank 8) and file f
func Square(r, f int) string {
	return fmt.Sprintf("%c%c", 'a'+f, '8'-r)
}

// IsLight reports whether the square at row r, file f is a light square
func IsLight(r, f int) bool {
	return (r+f)%2 == 0
}

func IsWhite(piece byte) bool {
	return piece >= 'A' && piece <= 'Z'
}
