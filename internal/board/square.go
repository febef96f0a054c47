// Package board implements chess board representation using bitboards.
package board

import "fmt"

// Square represents a square on the 10x10 board (0-99).
// File-major within rank: index = rank*10 + file, A1=0, J1=9, A10=90, J10=99.
type Square uint8

// Square constants for the first two ranks; the rest are built with
// NewSquare/ParseSquare.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	I1
	J1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	I2
	J2

	NoSquare Square = 100
)

// NumFiles and NumRanks are the board's geometry.
const (
	NumFiles   = 10
	NumRanks   = 10
	NumSquares = NumFiles * NumRanks
)

// File returns the file (column) of the square (0-9, where 0=a, 9=j).
func (sq Square) File() int {
	return int(sq) % NumFiles
}

// Rank returns the rank (row) of the square (0-9, where 0=rank1, 9=rank10).
func (sq Square) Rank() int {
	return int(sq) / NumFiles
}

// String returns the algebraic notation for the square (e.g., "e4", "a10").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank()+1)
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*NumFiles + file)
}

// ParseSquare parses algebraic notation ("e4", "a10", "j10") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) < 2 || len(s) > 3 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	if file < 0 || file >= NumFiles {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	rank := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return NoSquare, fmt.Errorf("invalid square: %s", s)
		}
		rank = rank*10 + int(c-'0')
	}
	rank--
	if rank < 0 || rank >= NumRanks {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-99).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (for black's perspective).
func (sq Square) Mirror() Square {
	return NewSquare(sq.File(), NumRanks-1-sq.Rank())
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 10th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return NumRanks - 1 - sq.Rank()
}

// Distance returns the Chebyshev (king) distance between two squares.
func Distance(a, b Square) int {
	return squareDistance[a][b]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
