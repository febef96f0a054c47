package board

// Pre-computed attack tables for non-sliding pieces.
var (
	knightAttacks   [NumSquares]Bitboard
	kingStepAttacks [NumSquares]Bitboard // one-step king/royal neighbours
	pawnAttacks     [2][NumSquares]Bitboard
	pawnPushes      [2][NumSquares]Bitboard // single push targets

	// PseudoAttacks on an empty board, indexed by PieceType; used for cheap
	// containment pre-checks before the real (occupancy-aware) computation.
	pseudoAttacks [NumPieceTypes][NumSquares]Bitboard

	// Between and Line bitboards for pins/checks.
	betweenBB [NumSquares][NumSquares]Bitboard
	lineBB    [NumSquares][NumSquares]Bitboard

	squareDistance [NumSquares][NumSquares]int
)

// direction is a (file, rank) step.
type direction struct{ df, dr int }

// The eight compass directions, in a fixed order reused by the royal-wall
// and sliding-ray code: N, S, E, W, NE, SE, NW, SW.
var compass = [8]direction{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var bishopDirs = compass[4:8]
var rookDirs = compass[0:4]

func step(s Square, d direction) (Square, bool) {
	f := s.File() + d.df
	r := s.Rank() + d.dr
	if f < 0 || f >= NumFiles || r < 0 || r >= NumRanks {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initDistanceAndLines()
	initPseudoAttacks()
}

func initKnightAttacks() {
	knightDirs := [8]direction{
		{1, 2}, {-1, 2}, {1, -2}, {-1, -2},
		{2, 1}, {-2, 1}, {2, -1}, {-2, -1},
	}
	for sq := Square(0); sq < NumSquares; sq++ {
		var attacks Bitboard
		for _, d := range knightDirs {
			if dst, ok := step(sq, d); ok {
				attacks = attacks.Set(dst)
			}
		}
		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := Square(0); sq < NumSquares; sq++ {
		var attacks Bitboard
		for _, d := range compass {
			if dst, ok := step(sq, d); ok {
				attacks = attacks.Set(dst)
			}
		}
		kingStepAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := Square(0); sq < NumSquares; sq++ {
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast().Or(bb.NorthWest())
		pawnAttacks[Black][sq] = bb.SouthEast().Or(bb.SouthWest())
		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

func initDistanceAndLines() {
	for sq1 := Square(0); sq1 < NumSquares; sq1++ {
		f1, r1 := sq1.File(), sq1.Rank()
		for sq2 := Square(0); sq2 < NumSquares; sq2++ {
			f2, r2 := sq2.File(), sq2.Rank()
			df, dr := abs(f2-f1), abs(r2-r1)
			if df > dr {
				squareDistance[sq1][sq2] = df
			} else {
				squareDistance[sq1][sq2] = dr
			}

			if sq1 == sq2 {
				continue
			}
			sdf, sdr := sign(f2-f1), sign(r2-r1)
			aligned := sdf == 0 || sdr == 0 || df == dr
			if !aligned {
				continue
			}

			var between Bitboard
			f, r := f1+sdf, r1+sdr
			for f != f2 || r != r2 {
				between = between.Set(NewSquare(f, r))
				f += sdf
				r += sdr
			}
			betweenBB[sq1][sq2] = between

			var line Bitboard
			f, r = f1, r1
			for f >= 0 && f < NumFiles && r >= 0 && r < NumRanks {
				line = line.Set(NewSquare(f, r))
				f -= sdf
				r -= sdr
			}
			f, r = f1+sdf, r1+sdr
			for f >= 0 && f < NumFiles && r >= 0 && r < NumRanks {
				line = line.Set(NewSquare(f, r))
				f += sdf
				r += sdr
			}
			lineBB[sq1][sq2] = line
		}
	}
}

func initPseudoAttacks() {
	for sq := Square(0); sq < NumSquares; sq++ {
		pseudoAttacks[Knight][sq] = knightAttacks[sq]
		pseudoAttacks[King][sq] = kingStepAttacks[sq]
		pseudoAttacks[Bishop][sq] = slideAttacks(sq, Empty, bishopDirs)
		pseudoAttacks[Rook][sq] = slideAttacks(sq, Empty, rookDirs)
		pseudoAttacks[Queen][sq] = pseudoAttacks[Bishop][sq].Or(pseudoAttacks[Rook][sq])
		pseudoAttacks[Princess][sq] = RoyalAttacks(sq, Empty)
		pseudoAttacks[Prince][sq] = pseudoAttacks[Princess][sq]
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// slideAttacks ray-walks from sq in each of dirs, stopping at (and
// including) the first occupied square. No magic-bitboard tables are used:
// spec §4.1 explicitly licenses any functionally equivalent technique, and
// fancy-magic shift constants are keyed to a 64-square board that does not
// generalize to 100 squares without re-deriving a new magic set.
func slideAttacks(sq Square, occupied Bitboard, dirs []direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := step(cur, d)
			if !ok {
				break
			}
			attacks = attacks.Set(next)
			if occupied.IsSet(next) {
				break
			}
			cur = next
		}
	}
	return attacks
}

// RoyalAttacks computes the Prince/Princess attack set per spec §4.1: the
// eight king-step neighbours, plus, for each of the eight directions, the
// square two steps away in that direction. A diagonal two-step needs its
// one-step square empty; a straight two-step needs at least one of its three
// wall squares (see RoyalWallSquares) empty.
func RoyalAttacks(sq Square, occupied Bitboard) Bitboard {
	attacks := kingStepAttacks[sq]
	open := func(d direction) bool {
		one, ok := step(sq, d)
		return ok && !occupied.IsSet(one)
	}
	for _, d := range compass {
		two, ok := step(sq, direction{2 * d.df, 2 * d.dr})
		if !ok {
			continue
		}
		reach := open(d)
		if !reach && d.df == 0 {
			reach = open(direction{1, d.dr}) || open(direction{-1, d.dr})
		} else if !reach && d.dr == 0 {
			reach = open(direction{d.df, 1}) || open(direction{d.df, -1})
		}
		if reach {
			attacks = attacks.Set(two)
		}
	}
	return attacks
}

// RoyalWallSquares returns the three "wall" squares between a royal piece
// on s1 and a target s2 exactly two squares away along a rank or file
// (spec §4.1's "royal wall"), and whether s1/s2 are in such a relationship
// at all. Diagonal two-square relationships are not wall cases (per the
// Open Question resolution in DESIGN.md, those are handled by the
// bishop-ray sniper/pin logic instead).
func RoyalWallSquares(s1, s2 Square) (wall [3]Square, ok bool) {
	f1, r1 := s1.File(), s1.Rank()
	f2, r2 := s2.File(), s2.Rank()
	df, dr := f2-f1, r2-r1
	switch {
	case df == 0 && abs(dr) == 2:
		mid := NewSquare(f1, r1+dr/2)
		wall[0] = mid
		wall[1] = NoSquare
		wall[2] = NoSquare
		n := 1
		if f1 > 0 {
			wall[n] = NewSquare(f1-1, r1+dr/2)
			n++
		}
		if f1 < NumFiles-1 {
			wall[n] = NewSquare(f1+1, r1+dr/2)
			n++
		}
		return wall, true
	case dr == 0 && abs(df) == 2:
		mid := NewSquare(f1+df/2, r1)
		wall[0] = mid
		wall[1] = NoSquare
		wall[2] = NoSquare
		n := 1
		if r1 > 0 {
			wall[n] = NewSquare(f1+df/2, r1-1)
			n++
		}
		if r1 < NumRanks-1 {
			wall[n] = NewSquare(f1+df/2, r1+1)
			n++
		}
		return wall, true
	default:
		return wall, false
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king (one-step) attack bitboard for a square.
func KingAttacks(sq Square) Bitboard { return kingStepAttacks[sq] }

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// PawnPushes returns the single pawn push target bitboard for a square and color.
func PawnPushes(sq Square, c Color) Bitboard { return pawnPushes[c][sq] }

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, bishopDirs)
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return slideAttacks(sq, occupied, rookDirs)
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied).Or(RookAttacks(sq, occupied))
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}

// Aligned returns true if three squares are on the same line.
func Aligned(sq1, sq2, sq3 Square) bool {
	return lineBB[sq1][sq2].IsSet(sq3)
}

// AttackersTo returns a bitboard of all pieces attacking a square.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return p.AttackersByColor(sq, White, occupied).Or(p.AttackersByColor(sq, Black, occupied))
}

// AttackersByColor returns a bitboard of pieces of the given color attacking a square.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	enemy := c.Other()
	attackers := pawnAttacks[enemy][sq].And(p.Pieces[c][Pawn])
	attackers = attackers.Or(knightAttacks[sq].And(p.Pieces[c][Knight]))
	attackers = attackers.Or(kingStepAttacks[sq].And(p.Pieces[c][King]))
	diag := BishopAttacks(sq, occupied)
	straight := RookAttacks(sq, occupied)
	attackers = attackers.Or(diag.And(p.Pieces[c][Bishop].Or(p.Pieces[c][Queen])))
	attackers = attackers.Or(straight.And(p.Pieces[c][Rook].Or(p.Pieces[c][Queen])))
	royal := RoyalAttacks(sq, occupied)
	attackers = attackers.Or(royal.And(p.Pieces[c][Princess].Or(p.Pieces[c][Prince])))
	return attackers
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied).More()
}

// UpdateCheckers updates the Checkers bitboard for the side to move.
func (p *Position) UpdateCheckers() {
	us := p.SideToMove
	kingBB := p.Pieces[us][King]
	if kingBB.Empty() {
		p.Checkers = Empty
		return
	}
	kingSq := kingBB.LSB()
	p.Checkers = p.AttackersByColor(kingSq, us.Other(), p.AllOccupied)
}
