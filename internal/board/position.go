package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                             // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Fixed castling geometry for this variant: King starts on the E-file,
// Rooks on the A- and J-files; final squares match standard chess
// (King->G/C, Rook->F/D) regardless of the wider board, per spec §4.3.
const (
	kingStartFile  = 4 // E
	rookKFile      = 9 // J, kingside rook origin
	rookQFile      = 0 // A, queenside rook origin
	kingDestKFile  = 6 // G
	kingDestQFile  = 2 // C
	rookDestKFile  = 5 // F
	rookDestQFile  = 3 // D
)

func backRank(c Color) int {
	if c == White {
		return 0
	}
	return NumRanks - 1
}

func kingHomeSquare(c Color) Square  { return NewSquare(kingStartFile, backRank(c)) }
func rookKSquare(c Color) Square     { return NewSquare(rookKFile, backRank(c)) }
func rookQSquare(c Color) Square     { return NewSquare(rookQFile, backRank(c)) }
func kingDestKSquare(c Color) Square { return NewSquare(kingDestKFile, backRank(c)) }
func kingDestQSquare(c Color) Square { return NewSquare(kingDestQFile, backRank(c)) }
func rookDestKSquare(c Color) Square { return NewSquare(rookDestKFile, backRank(c)) }
func rookDestQSquare(c Color) Square { return NewSquare(rookDestQFile, backRank(c)) }

// castlingEmptyPath returns the squares strictly between the king's and the
// rook's home squares, which must be empty for the given castle to be
// generated.
func castlingEmptyPath(c Color, kingSide bool) Bitboard {
	r := backRank(c)
	var lo, hi int
	if kingSide {
		lo, hi = kingStartFile+1, rookKFile-1
	} else {
		lo, hi = rookQFile+1, kingStartFile-1
	}
	var bb Bitboard
	for f := lo; f <= hi; f++ {
		bb = bb.Set(NewSquare(f, r))
	}
	return bb
}

// castlingKingTransit returns the squares the king passes through
// (inclusive of its start and destination) which must be unattacked.
func castlingKingTransit(c Color, kingSide bool) []Square {
	r := backRank(c)
	lo, hi := kingStartFile, kingDestKFile
	if !kingSide {
		lo, hi = kingDestQFile, kingStartFile
	}
	sqs := make([]Square, 0, 3)
	for f := lo; f <= hi; f++ {
		sqs = append(sqs, NewSquare(f, r))
	}
	return sqs
}

// StateInfo holds everything needed to undo a half-move and the
// incremental bookkeeping that is cheap to recompute on do_move (spec §3).
type StateInfo struct {
	Key             uint64
	PawnKey         uint64
	MaterialKey     uint64
	NonPawnMaterial [2]int

	CastlingRights CastlingRights
	EnPassant      Square
	// EnPassantTargets holds the square(s) a capturing pawn may land on to
	// take the pawn recorded at EnPassant - one per square the pushed pawn
	// passed through (spec §4.2: a double push yields one, a triple push
	// yields two), per the original engine's movegen.cpp.
	EnPassantTargets Bitboard
	Rule50           int
	PliesFromNull    int

	CheckersBB      Bitboard
	BlockersForKing [2]Bitboard
	Pinners         [2]Bitboard

	CapturedPiece Piece

	PrincessRights [2]bool
	PrincessSquare Square // square where a Princess->Queen promotion happened this move, else NoSquare

	Repetition int
}

// Position represents a complete chess position on the 10x10 variant
// board.
type Position struct {
	board [NumSquares]Piece

	Pieces      [2][NumPieceTypes]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove Color
	GamePly    int

	KingSquare  [2]Square
	pieceCount  [2][NumPieceTypes]int
	MaterialKey uint64

	Checkers Bitboard

	history []StateInfo

	// EnPassant/CastlingRights/HalfMoveClock mirror the top-of-stack
	// StateInfo for convenient direct access.
	EnPassant      Square
	CastlingRights CastlingRights
	HalfMoveClock  int
	FullMoveNumber int

	Hash    uint64
	PawnKey uint64
}

// st returns the current (top) state frame.
func (p *Position) st() *StateInfo {
	return &p.history[len(p.history)-1]
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position, including its state history
// (each searching thread owns an independent Position, spec §5).
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = make([]StateInfo, len(p.history))
	copy(newPos.history, p.history)
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.board[sq] == NoPiece
}

// setPiece places a piece on a square (does not update hash).
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)

	p.board[sq] = piece
	p.Pieces[c][pt] = p.Pieces[c][pt].Or(bb)
	p.Occupied[c] = p.Occupied[c].Or(bb)
	p.AllOccupied = p.AllOccupied.Or(bb)
	p.pieceCount[c][pt]++

	if pt == King {
		p.KingSquare[c] = sq
	}
}

// removePiece removes a piece from a square (does not update hash).
func (p *Position) removePiece(sq Square) Piece {
	piece := p.board[sq]
	if piece == NoPiece {
		return NoPiece
	}

	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)

	p.board[sq] = NoPiece
	p.Pieces[c][pt] = p.Pieces[c][pt].AndNot(bb)
	p.Occupied[c] = p.Occupied[c].AndNot(bb)
	p.AllOccupied = p.AllOccupied.AndNot(bb)
	p.pieceCount[c][pt]--

	return piece
}

// movePiece moves a piece from one square to another (does not update hash).
func (p *Position) movePiece(from, to Square) {
	piece := p.board[from]
	if piece == NoPiece {
		return
	}

	c := piece.Color()
	pt := piece.Type()
	fromBB := SquareBB(from)
	toBB := SquareBB(to)
	moveBB := fromBB.Or(toBB)

	p.board[from] = NoPiece
	p.board[to] = piece
	p.Pieces[c][pt] = p.Pieces[c][pt].Xor(moveBB)
	p.Occupied[c] = p.Occupied[c].Xor(moveBB)
	p.AllOccupied = p.AllOccupied.Xor(moveBB)

	if pt == King {
		p.KingSquare[c] = to
	}
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty

	for pt := Pawn; pt < NoPieceType; pt++ {
		p.Occupied[White] = p.Occupied[White].Or(p.Pieces[White][pt])
		p.Occupied[Black] = p.Occupied[Black].Or(p.Pieces[Black][pt])
	}

	p.AllOccupied = p.Occupied[White].Or(p.Occupied[Black])
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := NumRanks - 1; rank >= 0; rank-- {
		s += fmt.Sprintf("%2d  ", rank+1)
		for file := 0; file < NumFiles; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n    a b c d e f g h i j\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}

// Clear resets the position to an empty board with a fresh state stack.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		history:        []StateInfo{{EnPassant: NoSquare}},
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for i := range p.board {
		p.board[i] = NoPiece
	}
}

// Validate checks invariants that should hold for every reachable position
// (spec §8). Gated by callers that want the (slower) consistency check;
// release builds of the engine simply never call it on the hot path,
// matching spec §7's "compiled out in release" treatment of pos_is_ok.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if !p.Pieces[White][Pawn].Or(p.Pieces[Black][Pawn]).And(Rank1.Or(RankMask[NumRanks-1])).Empty() {
		return fmt.Errorf("pawns cannot be on rank 1 or %d", NumRanks)
	}
	if !p.Occupied[White].And(p.Occupied[Black]).Empty() {
		return fmt.Errorf("white and black occupancy overlap")
	}
	if !p.Occupied[White].Or(p.Occupied[Black]).Equals(p.AllOccupied) {
		return fmt.Errorf("occupied != union of color occupancies")
	}
	return nil
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers.More()
}

// GameOver reports whether the position is checkmate, stalemate, or a draw.
// Per the Open Question resolution in DESIGN.md, in-check/no-legal-move
// (mate) detection takes precedence over the rule50 draw check.
func (p *Position) GameOver() bool {
	if !p.HasLegalMoves() {
		return true
	}
	return p.IsDraw()
}

// IsDraw reports fifty-move and repetition draws. Checkmate detection is
// handled separately via GameOver/HasLegalMoves, consulted first by
// callers per the Open Question resolution.
func (p *Position) IsDraw() bool {
	if p.st().Rule50 > 99 {
		if p.Checkers.Empty() {
			return true
		}
		// A forced-mate-or-escape position at the rule50 boundary: only a
		// real checkmate search result should report game over, not this
		// draw check (spec §9 open question resolution).
		return p.HasLegalMoves()
	}
	if p.st().Repetition != 0 {
		return true
	}
	return false
}

// Material returns the material balance (positive favors white).
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += p.Pieces[White][pt].PopCount() * PieceValue[pt]
		score -= p.Pieces[Black][pt].PopCount() * PieceValue[pt]
	}
	return score
}

// computeBlockersAndPinners computes, for the king of color us, the set of
// blockers (own or enemy pieces standing between a would-be-sniper and the
// king) and the snipers that pin them (spec §3's blockersForKing/pinners).
func (p *Position) computeBlockersAndPinners(us Color) (blockers, pinners Bitboard) {
	them := us.Other()
	ksq := p.KingSquare[us]
	if ksq == NoSquare {
		return Empty, Empty
	}

	snipers := RookAttacks(ksq, Empty).And(p.Pieces[them][Rook].Or(p.Pieces[them][Queen]))
	snipers = snipers.Or(BishopAttacks(ksq, Empty).And(p.Pieces[them][Bishop].Or(p.Pieces[them][Queen])))
	// A Prince/Princess two diagonal steps away reaches the king only
	// through the square between them, so it pins like a bishop.
	royals := p.Pieces[them][Princess].Or(p.Pieces[them][Prince])
	diagTwo := BishopAttacks(ksq, Empty).And(RoyalAttacks(ksq, Empty)).AndNot(kingStepAttacks[ksq])
	snipers = snipers.Or(diagTwo.And(royals))

	occupiedMinusSnipers := p.AllOccupied
	for snipers.More() {
		sq := snipers.PopLSB()
		between := Between(sq, ksq).And(occupiedMinusSnipers)
		if between.PopCount() == 1 {
			blockers = blockers.Or(between)
			pinners = pinners.Set(sq)
		}
	}
	return blockers, pinners
}

// ComputePinned computes pieces pinned to the king for the side to move
// (legacy convenience wrapper kept for the search/eval code paths that
// only need the blockers, not the pinning sniper set).
func (p *Position) ComputePinned() Bitboard {
	blockers, _ := p.computeBlockersAndPinners(p.SideToMove)
	return blockers
}

// NullMoveUndo stores state for unmake of null move.
type NullMoveUndo struct {
	EnPassant        Square
	EnPassantTargets Bitboard
	PliesFromNull    int
	Hash             uint64
}

// MakeNullMove makes a null move (passes the turn without moving).
func (p *Position) MakeNullMove() NullMoveUndo {
	undo := NullMoveUndo{
		EnPassant:        p.EnPassant,
		EnPassantTargets: p.st().EnPassantTargets,
		PliesFromNull:    p.st().PliesFromNull,
		Hash:             p.Hash,
	}

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare
	p.st().EnPassant = NoSquare
	p.st().EnPassantTargets = Empty
	p.st().PliesFromNull = 0

	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove

	p.UpdateCheckers()

	return undo
}

// UnmakeNullMove undoes a null move.
func (p *Position) UnmakeNullMove(undo NullMoveUndo) {
	p.EnPassant = undo.EnPassant
	p.st().EnPassant = undo.EnPassant
	p.st().EnPassantTargets = undo.EnPassantTargets
	p.st().PliesFromNull = undo.PliesFromNull
	p.Hash = undo.Hash
	p.SideToMove = p.SideToMove.Other()

	p.UpdateCheckers()
}

// HasNonPawnMaterial returns true if the side to move has non-pawn material.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	return p.st().NonPawnMaterial[us] > 0
}

// IsInsufficientMaterial reports whether neither side has enough material
// to ever force checkmate: no pawns, rooks, queens, princesses or princes
// on the board, and at most one minor piece total between both sides.
// Two-or-more-minors and any royal-promotion-capable piece are left as
// "sufficient", since mating nets with the Prince/Princess in play are not
// covered by the classical draw heuristics this generalizes.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		for _, pt := range [5]PieceType{Pawn, Rook, Princess, Queen, Prince} {
			if !p.Pieces[c][pt].Empty() {
				return false
			}
		}
	}
	minors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount() +
		p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()
	return minors <= 1
}

// HasPrince reports whether color c still has its Prince on the board.
func (p *Position) HasPrince(c Color) bool {
	return !p.Pieces[c][Prince].Empty()
}

// HasPrincess reports whether color c still has its Princess on the board.
func (p *Position) HasPrincess(c Color) bool {
	return !p.Pieces[c][Princess].Empty()
}

// PrincessRights reports whether color c may still promote its Princess
// should its Queen be captured, per spec §3.
func (p *Position) PrincessRights(c Color) bool {
	return p.st().PrincessRights[c]
}

// PreviousMoveCapturedQueen reports whether the half-move that produced
// the current position captured c's Queen (the trigger for c's one-shot
// princess-promotion window, spec §4.2/§4.3).
func (p *Position) PreviousMoveCapturedQueen(c Color) bool {
	cap := p.st().CapturedPiece
	return cap != NoPiece && cap.Type() == Queen && cap.Color() == c
}

// AttackingEnemyKing reports whether the side to move's own pieces
// currently attack the enemy King - the abnormal post-royal-promotion
// situation spec §4.2's legal filter calls "you must capture the enemy
// king when you have the chance".
func (p *Position) AttackingEnemyKing() bool {
	us := p.SideToMove
	them := us.Other()
	enemyKingSq := p.KingSquare[them]
	if enemyKingSq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(enemyKingSq, us)
}
