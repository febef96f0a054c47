package board

import (
	"reflect"
	"testing"
)

// TestStartPositionInvariants checks the occupancy/piece-count invariants of
// §8 against the starting position.
func TestStartPositionInvariants(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	if err := pos.Validate(); err != nil {
		t.Fatal("Validate:", err)
	}

	if pos.Occupied[White].And(pos.Occupied[Black]).More() {
		t.Error("white and black occupancy overlap")
	}
	if !pos.Occupied[White].Or(pos.Occupied[Black]).Equals(pos.AllOccupied) {
		t.Error("AllOccupied != union of per-color occupancy")
	}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if got := pos.Pieces[c][pt].PopCount(); got != pos.pieceCount[c][pt] {
				t.Errorf("color %v piece %v: popcount=%d pieceCount=%d", c, pt, got, pos.pieceCount[c][pt])
			}
		}
	}

	for sq := Square(0); sq < NumSquares; sq++ {
		empty := pos.board[sq] == NoPiece
		set := pos.AllOccupied.IsSet(sq)
		if empty == set {
			t.Errorf("square %v: board empty=%v but occupied bit set=%v", sq, empty, set)
		}
	}
}

// TestDoMoveUndoMoveRoundTrip verifies do_move/undo_move is the identity on
// the whole position, for every legal move from the starting position
// (spec §8's round-trip law).
func TestDoMoveUndoMoveRoundTrip(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	before := pos.Copy()
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("expected legal moves from the starting position")
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.DoMove(m)
		pos.UndoMove(m)

		if !reflect.DeepEqual(before, pos) {
			t.Fatalf("move %s: position after do/undo does not match original\nbefore: %+v\nafter:  %+v", m, before, pos)
		}
	}
}

// TestFENRoundTrip verifies fen() is a left inverse of set(fen, ...): parsing
// a position's own FEN string reproduces the same hash and placement.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"5k4/55/55/55/55/55/55/55/p9/4K5 w - Ss - 0 1",
		"rnbskqtbnr/1111111111/11S1111111/1111111111/1111111111/1111111111/1111111111/1111111111/PPPPPPPPPP/RNB1KQTBNR w KQkq Ss - 0 1",
	}

	for _, f := range fens {
		pos, err := ParseFEN(f)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", f, err)
		}

		again, err := ParseFEN(pos.ToFEN())
		if err != nil {
			t.Fatalf("ParseFEN(ToFEN(%q)) = %v", f, err)
		}

		if again.Hash != pos.Hash {
			t.Errorf("FEN %q: hash changed across round trip (%d != %d)", f, pos.Hash, again.Hash)
		}
		if again.board != pos.board {
			t.Errorf("FEN %q: piece placement changed across round trip", f)
		}
	}
}

// perft walks the legal move tree to the given depth, used only to check
// the recursive identity perft(depth) == sum over legal m of
// perft(depth-1 after m), and perft(1) == |legal moves| - never to assert a
// specific leaf count, since this board's geometry has no known-good
// published perft table to check against.
func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.DoMove(m)
		nodes += perft(pos, depth-1)
		pos.UndoMove(m)
	}
	return nodes
}

// TestPerftSelfConsistency checks perft's defining recursive identity
// (spec §8) rather than any specific leaf count.
func TestPerftSelfConsistency(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	if got, want := perft(pos, 1), uint64(pos.GenerateLegalMoves().Len()); got != want {
		t.Errorf("perft(1) = %d, want %d (|legal moves|)", got, want)
	}

	moves := pos.GenerateLegalMoves()
	var sum uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.DoMove(m)
		sum += perft(pos, 2)
		pos.UndoMove(m)
	}
	if got := perft(pos, 3); got != sum {
		t.Errorf("perft(3) = %d, want sum of perft(2) over every legal move = %d", got, sum)
	}
}

// TestTriplePushSetsEnPassantTargets covers spec §8 scenario 2: a pawn's
// triple push from its home rank must record both the en-passant square
// (the landing square) and the two squares an enemy pawn could land on to
// capture it.
func TestTriplePushSetsEnPassantTargets(t *testing.T) {
	pos, err := ParseFEN("4k5/55/55/55/55/55/55/55/4P5/4K5 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	from, _ := ParseSquare("e2")
	to, _ := ParseSquare("e5")
	if !pos.IsEmpty(to) {
		t.Fatal("e5 should be empty before the push")
	}

	m := NewMove(from, to)
	pos.DoMove(m)

	if pos.EnPassant != to {
		t.Errorf("EnPassant = %v, want %v", pos.EnPassant, to)
	}

	e3, _ := ParseSquare("e3")
	e4, _ := ParseSquare("e4")
	targets := pos.st().EnPassantTargets
	if !targets.IsSet(e3) || !targets.IsSet(e4) {
		t.Errorf("EnPassantTargets = %v, want e3 and e4 set", targets)
	}
	if targets.PopCount() != 2 {
		t.Errorf("EnPassantTargets has %d squares set, want exactly 2", targets.PopCount())
	}
}

// TestPrincessPromotionDuplicatesMoves covers spec §8 scenario 3: once a
// side's Queen is captured and it still holds Princess-promotion rights and
// a Princess, every legal move is duplicated with the promote-princess flag
// set.
func TestPrincessPromotionDuplicatesMoves(t *testing.T) {
	// Black: king d8, princess f8, queen d7. White: rook d1, king h1.
	// White plays Rd1xd7, capturing black's queen; black holds princess
	// rights ("s"); a queen on f8 would not attack white's king on h1, so
	// DoMove's check-after-promotion condition does not block promoting
	// black's princess.
	pos, err := ParseFEN("55/55/3k1s4/3q6/55/55/55/55/55/3R3K2 w - s - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	from, _ := ParseSquare("d1")
	to, _ := ParseSquare("d7")
	capture := NewMove(from, to)

	legalWhite := pos.GenerateLegalMoves()
	if !legalWhite.Contains(capture) {
		t.Fatal("Rd1xd7 should be a legal capture of black's queen")
	}

	pos.DoMove(capture)

	if !pos.PreviousMoveCapturedQueen(Black) {
		t.Fatal("expected PreviousMoveCapturedQueen(Black) after Rxd7")
	}
	if !pos.HasPrincess(Black) {
		t.Fatal("expected black to still hold its princess")
	}

	blackMoves := pos.GenerateLegalMoves()
	plain, promoted := 0, 0
	for i := 0; i < blackMoves.Len(); i++ {
		if blackMoves.Get(i).PromotesPrincess() {
			promoted++
		} else {
			plain++
		}
	}

	if promoted == 0 {
		t.Error("expected at least one princess-promotion-duplicated move")
	}
	if plain != promoted {
		t.Errorf("expected every plain move duplicated exactly once: plain=%d promoted=%d", plain, promoted)
	}
}

// TestPrinceActsAsSpareKing covers spec §8 scenario 4: with a Prince on the
// board, the King may step into a square Black attacks (the Prince would
// replace a captured King); without a Prince, the identical move is
// illegal.
func TestPrinceActsAsSpareKing(t *testing.T) {
	// Black queen on b8 attacks straight down the open b-file, including
	// b2. White king a1 stepping to b2 walks into that attack.
	kingFrom, _ := ParseSquare("a1")
	kingTo, _ := ParseSquare("b2")
	m := NewMove(kingFrom, kingTo)

	withPrince, err := ParseFEN("4k5/55/1q8/55/55/55/55/55/55/K1T7 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}
	if !withPrince.HasPrince(White) {
		t.Fatal("expected white to have a prince")
	}
	if !withPrince.GenerateLegalMoves().Contains(m) {
		t.Error("king move into an attacked square should be legal with a prince on the board")
	}

	withoutPrince, err := ParseFEN("4k5/55/1q8/55/55/55/55/55/55/K9 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}
	if withoutPrince.HasPrince(White) {
		t.Fatal("expected white to have no prince")
	}
	if withoutPrince.GenerateLegalMoves().Contains(m) {
		t.Error("king move into an attacked square should be illegal without a prince")
	}
}

// TestRoyalWallBlock covers spec §8 scenario 5: a Princess two squares
// along a file from the King checks only through the "wall" of in-between
// squares; with exactly one wall square empty, interposing there is a legal
// evasion.
func TestRoyalWallBlock(t *testing.T) {
	// White king e1, knight c1; pawns on d2 and f2 block two of the three
	// wall squares between the king and black's princess on e3, leaving
	// e2 - the direct one-step square the princess's two-step reach
	// requires to be empty for check in the first place - as the single
	// empty wall square. The knight on c1 can interpose there in one move.
	pos, err := ParseFEN("k9/55/55/55/55/55/55/4s5/3P1P4/2N1K5 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	if !pos.InCheck() {
		t.Fatal("expected white king to be in check from the princess two squares away")
	}

	block, _ := ParseSquare("e2")
	legal := pos.GenerateLegalMoves()

	blockFound := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).To() == block {
			blockFound = true
			break
		}
	}

	if !blockFound {
		t.Error("expected a legal move interposing on the single empty wall square e2")
	}
}

// TestRoyalWallAllSquaresEmptyNoBlock covers the other half of spec §8
// scenario 5: when more than one of the three wall squares is empty, the
// royal's pattern lets it reach the king through either opening, so there is
// no cheap block at all - not even on the straight-line square between
// checker and king, which a non-royal slider check would offer.
func TestRoyalWallAllSquaresEmptyNoBlock(t *testing.T) {
	// White king e1, knight c1; d2, e2, f2 are all empty, so all three wall
	// squares between the king and black's princess on e3 are empty.
	pos, err := ParseFEN("k9/55/55/55/55/55/55/4s5/55/2N1K5 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	if !pos.InCheck() {
		t.Fatal("expected white king to be in check from the princess two squares away")
	}

	e2, _ := ParseSquare("e2")
	legal := pos.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == C1 && m.To() == e2 {
			t.Error("knight to e2 should not be a legal evasion when more than one wall square is empty")
		}
	}
}

// TestRookCheckDoesNotOfferWallSquares ensures the royal-wall block rule
// only applies to a Prince/Princess checker: a same-distance Rook/Queen
// check along a file can only be blocked on the file itself, never on the
// off-file squares RoyalWallSquares would compute for a royal checker at the
// same geometric distance.
func TestRookCheckDoesNotOfferWallSquares(t *testing.T) {
	// White king e1, knight b1; black rook on e3 checks along the e-file.
	// The knight on b1 can reach d2 (an off-file "wall" square) but not
	// e2 (the on-file block), so d2 must not be offered as an evasion.
	pos, err := ParseFEN("k9/55/55/55/55/55/55/4r5/55/1N2K5 w - - - 0 1")
	if err != nil {
		t.Fatal("ParseFEN:", err)
	}

	if !pos.InCheck() {
		t.Fatal("expected white king to be in check from the rook on e3")
	}

	d2, _ := ParseSquare("d2")
	legal := pos.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == B1 && m.To() == d2 {
			t.Error("knight to d2 should not be a legal evasion of a rook check along the e-file")
		}
	}
}
