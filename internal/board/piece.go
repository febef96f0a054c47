package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece. Princess sorts between
// Rook and Queen, Prince between Queen and King: the numeric ordering
// matters for SEE and hash-table layout.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Princess
	Queen
	Prince
	King
	NoPieceType PieceType = 8
)

// NumPieceTypes is the number of real piece types.
const NumPieceTypes = 8

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Princess:
		return "Princess"
	case Queen:
		return "Queen"
	case Prince:
		return "Prince"
	case King:
		return "King"
	default:
		return "None"
	}
}

// IsRoyal reports whether pt is a Prince or Princess (the non-standard
// royal pieces sharing the king-step + gated-two-step attack pattern).
func (pt PieceType) IsRoyal() bool {
	return pt == Prince || pt == Princess
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 's', 'q', 't', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceValue returns the material value of the piece type in centipawns.
// Ordering per spec: Pawn < Knight <= Bishop < Rook < Princess <= Queen,
// Prince >= Queen.
var PieceValue = [9]int{100, 320, 330, 500, 900, 900, 950, 20000, 0}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*8.
type Piece uint8

const (
	WhitePawn     Piece = Piece(Pawn) + Piece(White)*NumPieceTypes
	WhiteKnight   Piece = Piece(Knight) + Piece(White)*NumPieceTypes
	WhiteBishop   Piece = Piece(Bishop) + Piece(White)*NumPieceTypes
	WhiteRook     Piece = Piece(Rook) + Piece(White)*NumPieceTypes
	WhitePrincess Piece = Piece(Princess) + Piece(White)*NumPieceTypes
	WhiteQueen    Piece = Piece(Queen) + Piece(White)*NumPieceTypes
	WhitePrince   Piece = Piece(Prince) + Piece(White)*NumPieceTypes
	WhiteKing     Piece = Piece(King) + Piece(White)*NumPieceTypes
	BlackPawn     Piece = Piece(Pawn) + Piece(Black)*NumPieceTypes
	BlackKnight   Piece = Piece(Knight) + Piece(Black)*NumPieceTypes
	BlackBishop   Piece = Piece(Bishop) + Piece(Black)*NumPieceTypes
	BlackRook     Piece = Piece(Rook) + Piece(Black)*NumPieceTypes
	BlackPrincess Piece = Piece(Princess) + Piece(Black)*NumPieceTypes
	BlackQueen    Piece = Piece(Queen) + Piece(Black)*NumPieceTypes
	BlackPrince   Piece = Piece(Prince) + Piece(Black)*NumPieceTypes
	BlackKing     Piece = Piece(King) + Piece(Black)*NumPieceTypes
	NoPiece       Piece = 2 * NumPieceTypes
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*NumPieceTypes
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % NumPieceTypes)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / NumPieceTypes)
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	chars := "PNBRSQTKpnbrsqtk"
	return string(chars[p])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'S':
		return WhitePrincess
	case 'Q':
		return WhiteQueen
	case 'T':
		return WhitePrince
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 's':
		return BlackPrincess
	case 'q':
		return BlackQueen
	case 't':
		return BlackPrince
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
