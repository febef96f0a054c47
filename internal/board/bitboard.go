package board

import (
	"fmt"
	"math/bits"
)

// Bitboard represents a 128-bit board where each bit corresponds to a
// square of the 100-square board. Lo holds squares 0-63, Hi holds squares
// 64-99 in its low 36 bits; bits 100-127 (Hi's top 28 bits) are always
// zero, matching the spec's invariant for AllSquares.
type Bitboard struct {
	Lo uint64
	Hi uint64
}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	if sq < 64 {
		return Bitboard{Lo: 1 << uint(sq)}
	}
	return Bitboard{Hi: 1 << uint(sq-64)}
}

// Empty is the empty bitboard.
var Empty Bitboard

// AllSquares is the bitboard with every one of the 100 real squares set.
var AllSquares = Bitboard{Lo: ^uint64(0), Hi: (uint64(1) << 36) - 1}

// File masks, computed once at init since Go has no 128-bit const
// arithmetic.
var (
	FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH, FileI, FileJ Bitboard
	FileMask                                                            [NumFiles]Bitboard

	Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10 Bitboard
	RankMask                                                              [NumRanks]Bitboard

	NotFileA, NotFileJ Bitboard

	// DarkSquares is the set of squares with (file+rank) odd, mirroring the
	// classical chessboard coloring generalized to 10 files/ranks.
	DarkSquares Bitboard

	QueenSide   Bitboard
	KingSideBB  Bitboard
	CenterFiles Bitboard
	Center      Bitboard
	EPRanks     Bitboard

	// KingFlank[file] is the 3- or 4-file "wing" a king on that file belongs
	// to (3 files for the a- and j-files); no evaluation term reads it.
	KingFlank [NumFiles]Bitboard
)

func init() {
	for f := 0; f < NumFiles; f++ {
		var fb Bitboard
		for r := 0; r < NumRanks; r++ {
			fb = fb.Or(SquareBB(NewSquare(f, r)))
		}
		FileMask[f] = fb
	}
	FileA, FileB, FileC, FileD, FileE = FileMask[0], FileMask[1], FileMask[2], FileMask[3], FileMask[4]
	FileF, FileG, FileH, FileI, FileJ = FileMask[5], FileMask[6], FileMask[7], FileMask[8], FileMask[9]
	NotFileA = AllSquares.AndNot(FileA)
	NotFileJ = AllSquares.AndNot(FileJ)

	for r := 0; r < NumRanks; r++ {
		var rb Bitboard
		for f := 0; f < NumFiles; f++ {
			rb = rb.Or(SquareBB(NewSquare(f, r)))
		}
		RankMask[r] = rb
	}
	Rank1, Rank2, Rank3, Rank4, Rank5 = RankMask[0], RankMask[1], RankMask[2], RankMask[3], RankMask[4]
	Rank6, Rank7, Rank8, Rank9, Rank10 = RankMask[5], RankMask[6], RankMask[7], RankMask[8], RankMask[9]

	for sq := Square(0); sq < NumSquares; sq++ {
		if (sq.File()+sq.Rank())%2 == 1 {
			DarkSquares = DarkSquares.Or(SquareBB(sq))
		}
	}

	QueenSide = FileA.Or(FileB).Or(FileC).Or(FileD)
	CenterFiles = FileD.Or(FileE).Or(FileF).Or(FileG)
	KingSideBB = FileG.Or(FileH).Or(FileI).Or(FileJ)
	Center = FileE.Or(FileF).And(RankMask[4].Or(RankMask[5]))
	EPRanks = Rank3.Or(Rank4).Or(Rank7).Or(Rank8)

	KingFlank[0] = QueenSide.Xor(FileD)
	KingFlank[1] = QueenSide
	KingFlank[2] = QueenSide
	KingFlank[3] = CenterFiles
	KingFlank[4] = CenterFiles
	KingFlank[5] = CenterFiles
	KingFlank[6] = KingSideBB
	KingFlank[7] = KingSideBB
	KingFlank[8] = KingSideBB
	KingFlank[9] = KingSideBB.Xor(FileG)
}

// Set sets a bit at the given square.
func (b Bitboard) Set(sq Square) Bitboard {
	return b.Or(SquareBB(sq))
}

// Clear clears a bit at the given square.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b.AndNot(SquareBB(sq))
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return !b.And(SquareBB(sq)).Empty()
}

// Toggle flips the bit at the given square.
func (b Bitboard) Toggle(sq Square) Bitboard {
	return b.Xor(SquareBB(sq))
}

// And, Or, Xor, AndNot: the 128-bit bitwise primitives.
func (b Bitboard) And(o Bitboard) Bitboard    { return Bitboard{b.Lo & o.Lo, b.Hi & o.Hi} }
func (b Bitboard) Or(o Bitboard) Bitboard     { return Bitboard{b.Lo | o.Lo, b.Hi | o.Hi} }
func (b Bitboard) Xor(o Bitboard) Bitboard    { return Bitboard{b.Lo ^ o.Lo, b.Hi ^ o.Hi} }
func (b Bitboard) AndNot(o Bitboard) Bitboard { return Bitboard{b.Lo &^ o.Lo, b.Hi &^ o.Hi} }
func (b Bitboard) Not() Bitboard              { return AllSquares.Xor(b) }

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

// LSB returns the least significant bit (lowest square index). Undefined
// (returns NoSquare) if the bitboard is empty.
func (b Bitboard) LSB() Square {
	if b.Lo != 0 {
		return Square(bits.TrailingZeros64(b.Lo))
	}
	if b.Hi != 0 {
		return Square(64 + bits.TrailingZeros64(b.Hi))
	}
	return NoSquare
}

// MSB returns the most significant bit (highest square index). Only
// well-defined for a bitboard masked to AllSquares with at least one bit
// set; callers must not invoke it on an empty board or one with stray bits
// above square 99.
func (b Bitboard) MSB() Square {
	if b.Hi != 0 {
		return Square(64 + 63 - bits.LeadingZeros64(b.Hi))
	}
	if b.Lo != 0 {
		return Square(63 - bits.LeadingZeros64(b.Lo))
	}
	return NoSquare
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	if sq == NoSquare {
		return sq
	}
	*b = b.AndNot(SquareBB(sq))
	return sq
}

// More returns true if there are any bits set.
func (b Bitboard) More() bool {
	return b.Lo != 0 || b.Hi != 0
}

// MoreThanOne returns true if at least two bits are set.
func (b Bitboard) MoreThanOne() bool {
	return b.PopCount() > 1
}

// Empty returns true if no bits are set.
func (b Bitboard) Empty() bool {
	return b.Lo == 0 && b.Hi == 0
}

// Equals reports bitboard equality.
func (b Bitboard) Equals(o Bitboard) bool {
	return b.Lo == o.Lo && b.Hi == o.Hi
}

// shiftLeft treats (Hi:Lo) as a 128-bit value and shifts it left by n bits
// (0 <= n < 64), carrying bits from Lo into Hi.
func shiftLeft(b Bitboard, n uint) Bitboard {
	if n == 0 {
		return b
	}
	return Bitboard{
		Lo: b.Lo << n,
		Hi: (b.Hi << n) | (b.Lo >> (64 - n)),
	}
}

// shiftRight is the inverse of shiftLeft.
func shiftRight(b Bitboard, n uint) Bitboard {
	if n == 0 {
		return b
	}
	return Bitboard{
		Lo: (b.Lo >> n) | (b.Hi << (64 - n)),
		Hi: b.Hi >> n,
	}
}

// Shift operations for move generation. Each masks away file-wrap
// artifacts the same way the teacher's 8x8 version does, generalized to
// 10 files and a NORTH/SOUTH step of 10 instead of 8.

// North shifts the bitboard one rank up (toward rank 10).
func (b Bitboard) North() Bitboard { return shiftLeft(b, 10).And(AllSquares) }

// South shifts the bitboard one rank down (toward rank 1).
func (b Bitboard) South() Bitboard { return shiftRight(b, 10) }

// East shifts the bitboard one file right (toward file j).
func (b Bitboard) East() Bitboard { return shiftLeft(b, 1).And(NotFileA).And(AllSquares) }

// West shifts the bitboard one file left (toward file a).
func (b Bitboard) West() Bitboard { return shiftRight(b, 1).And(NotFileJ) }

// NorthEast shifts the bitboard one square north and one east.
func (b Bitboard) NorthEast() Bitboard { return shiftLeft(b, 11).And(NotFileA).And(AllSquares) }

// NorthWest shifts the bitboard one square north and one west.
func (b Bitboard) NorthWest() Bitboard { return shiftLeft(b, 9).And(NotFileJ).And(AllSquares) }

// SouthEast shifts the bitboard one square south and one east.
func (b Bitboard) SouthEast() Bitboard { return shiftRight(b, 9).And(NotFileA) }

// SouthWest shifts the bitboard one square south and one west.
func (b Bitboard) SouthWest() Bitboard { return shiftRight(b, 11).And(NotFileJ) }

// Fill operations for sliding pieces.

// NorthFill fills all squares north of the set bits. Ranges over every
// rank with a fixed one-rank shift rather than the teacher's doubling
// 8/16/32 trick: doubling past a 4-rank shift would need a single shift of
// 80 bits, past shiftLeft's 64-bit limit on this board's 10-rank height.
func (b Bitboard) NorthFill() Bitboard {
	for i := 0; i < NumRanks-1; i++ {
		b = b.Or(shiftLeft(b, 10).And(AllSquares))
	}
	return b
}

// SouthFill fills all squares south of the set bits.
func (b Bitboard) SouthFill() Bitboard {
	for i := 0; i < NumRanks-1; i++ {
		b = b.Or(shiftRight(b, 10))
	}
	return b
}

// FileFill fills the entire file(s) containing any set bit.
func (b Bitboard) FileFill() Bitboard {
	return b.NorthFill().Or(b.SouthFill())
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	s := ""
	for rank := NumRanks - 1; rank >= 0; rank-- {
		s += fmt.Sprintf("%2d ", rank+1)
		for file := 0; file < NumFiles; file++ {
			sq := NewSquare(file, rank)
			if b.IsSet(sq) {
				s += "1 "
			} else {
				s += ". "
			}
		}
		s += "\n"
	}
	s += "   a b c d e f g h i j\n"
	return s
}

// ForEach calls the function for each set square.
func (b Bitboard) ForEach(f func(Square)) {
	for b.More() {
		sq := b.PopLSB()
		f(sq)
	}
}

// Squares returns a slice of all squares that are set.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b.More() {
		squares = append(squares, b.PopLSB())
	}
	return squares
}
