package board

import "fmt"

// Move encodes a chess move in 32 bits (spec §4.3):
// bits 0-6:   from square (0-99)
// bits 7-13:  to square (0-99)
// bits 14-15: move kind {Normal, Promotion, En-passant, Castling}
// bits 16-18: promotion piece type index (Knight,Bishop,Rook,Princess,Queen)
// bit 19:     promote-princess flag, independent of the move kind
type Move uint32

// Move kind tags.
const (
	KindNormal    uint32 = 0
	KindPromotion uint32 = 1
	KindEnPassant uint32 = 2
	KindCastling  uint32 = 3
)

const (
	fromShift        = 0
	toShift          = 7
	kindShift        = 14
	promoShift       = 16
	princessBitShift = 19

	squareMask = 0x7F
	kindMask   = 0x3
	promoMask  = 0x7
)

// promoTable/promoIndex map the five legal promotion piece types to a
// 3-bit index and back.
var promoTable = [5]PieceType{Knight, Bishop, Rook, Princess, Queen}

func promoIndex(pt PieceType) uint32 {
	for i, t := range promoTable {
		if t == pt {
			return uint32(i)
		}
	}
	return 0
}

// NoMove represents an invalid or null move.
const NoMove Move = 0xFFFFFFFF

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(uint32(from)<<fromShift | uint32(to)<<toShift | KindNormal<<kindShift)
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(uint32(from)<<fromShift | uint32(to)<<toShift | KindPromotion<<kindShift | promoIndex(promo)<<promoShift)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(uint32(from)<<fromShift | uint32(to)<<toShift | KindEnPassant<<kindShift)
}

// NewCastling creates a castling move (king's movement, to its final square).
func NewCastling(from, to Square) Move {
	return Move(uint32(from)<<fromShift | uint32(to)<<toShift | KindCastling<<kindShift)
}

// WithPrincessPromotion returns m with the promote-princess flag set,
// per spec §4.2's princess-promotion move duplication.
func (m Move) WithPrincessPromotion() Move {
	return m | Move(1<<princessBitShift)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(uint32(m)>>fromShift) & squareMask
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(uint32(m)>>toShift) & squareMask
}

// Kind returns the move kind tag.
func (m Move) Kind() uint32 {
	return (uint32(m) >> kindShift) & kindMask
}

// Promotion returns the promotion piece type (only valid if IsPromotion()).
func (m Move) Promotion() PieceType {
	return promoTable[(uint32(m)>>promoShift)&promoMask]
}

// PromotesPrincess reports whether the promote-princess flag is set.
func (m Move) PromotesPrincess() bool {
	return uint32(m)&(1<<princessBitShift) != 0
}

// IsPromotion returns true if this is a pawn-promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind() == KindPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Kind() == KindCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == KindEnPassant
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// String returns the wire format of the move: fromTo plus an optional
// promotion letter and a trailing "=S" when it promotes the Princess
// (spec §6), using two-character ranks on rank 10.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	if m.PromotesPrincess() {
		s += "=S"
	}

	return s
}

// ParseMove parses a wire-format move string against a position to detect
// special move kinds (castling, en passant, princess promotion suffix).
func ParseMove(s string, pos *Position) (Move, error) {
	princess := false
	if len(s) >= 2 && s[len(s)-2:] == "=S" {
		princess = true
		s = s[:len(s)-2]
	}

	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	// A trailing promotion letter is tried first; if stripping it still
	// leaves a valid from/to token, the move is a promotion.
	var promo PieceType
	isPromo := false
	if pc := promoCharToType(s[len(s)-1]); pc != NoPieceType {
		if from, to, err := splitFromTo(s[:len(s)-1]); err == nil {
			promo, isPromo = pc, true
			s = s[:len(s)-1]
			_ = from
			_ = to
		}
	}

	from, to, err := splitFromTo(s)
	if err != nil {
		return NoMove, err
	}

	var mv Move
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()

	switch {
	case isPromo:
		mv = NewPromotion(from, to, promo)
	case pt == King && abs(int(to)-int(from)) == 2 && from.Rank() == to.Rank():
		mv = NewCastling(from, to)
	case pt == Pawn && pos.st().EnPassantTargets.IsSet(to):
		mv = NewEnPassant(from, to)
	default:
		mv = NewMove(from, to)
	}

	if princess {
		mv = mv.WithPrincessPromotion()
	}
	return mv, nil
}

func promoCharToType(c byte) PieceType {
	switch c {
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 's':
		return Princess
	case 'q':
		return Queen
	default:
		return NoPieceType
	}
}

// splitFromTo disambiguates the from/to squares in a concatenated move
// token, accounting for the two-character rank-10 suffix.
func splitFromTo(s string) (Square, Square, error) {
	for splitAt := 2; splitAt <= 3 && splitAt < len(s); splitAt++ {
		from, err := ParseSquare(s[:splitAt])
		if err != nil {
			continue
		}
		rest := s[splitAt:]
		for toLen := 2; toLen <= 3 && toLen <= len(rest); toLen++ {
			to, err := ParseSquare(rest[:toLen])
			if err == nil && toLen == len(rest) {
				return from, to, nil
			}
		}
	}
	return NoSquare, NoSquare, fmt.Errorf("invalid move string: %s", s)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [512]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
