package board

// promotionPieces lists the four pawn-promotion targets, queen first since
// it dominates move ordering in practice.
var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func addPromotions(ml *MoveList, from, to Square) {
	for _, pt := range promotionPieces {
		ml.Add(NewPromotion(from, to, pt))
	}
}

// pawnHomeRank and pawnPromotionRank return the rank index (0-based) a
// color's pawns start on and promote on, respectively.
func pawnHomeRank(c Color) int {
	if c == White {
		return 1
	}
	return NumRanks - 2
}

func pawnPromotionRank(c Color) int {
	if c == White {
		return NumRanks - 1
	}
	return 0
}

func pawnForward(c Color) direction {
	if c == White {
		return direction{0, 1}
	}
	return direction{0, -1}
}

// generatePawnMoves appends every pseudo-legal pawn push, promotion,
// capture and en-passant capture for the side to move. Pawns on their true
// home rank may push one, two, or three squares provided every
// intervening square is empty (spec §4.2 / original movegen.cpp's chained
// b1/b2/b3 shift technique).
func (p *Position) generatePawnMoves(ml *MoveList, us Color, capturesOnly bool) {
	them := us.Other()
	fwd := pawnForward(us)
	promRank := pawnPromotionRank(us)
	homeRank := pawnHomeRank(us)

	for bb := p.Pieces[us][Pawn]; bb.More(); {
		from := bb.PopLSB()

		// Diagonal captures, including promotion captures.
		for _, d := range [2]direction{{fwd.df + 1, fwd.dr}, {fwd.df - 1, fwd.dr}} {
			to, ok := step(from, d)
			if !ok || !p.Occupied[them].IsSet(to) {
				continue
			}
			if to.Rank() == promRank {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}
		}

		if capturesOnly && from.Rank() != promRank-fwd.dr {
			continue // only promotion pushes matter in captures-only mode
		}

		one, ok := step(from, fwd)
		if !ok || !p.IsEmpty(one) {
			continue
		}
		if one.Rank() == promRank {
			addPromotions(ml, from, one)
			continue
		}
		if !capturesOnly {
			ml.Add(NewMove(from, one))
		}
		if from.Rank() != homeRank {
			continue
		}

		two, ok := step(one, fwd)
		if !ok || !p.IsEmpty(two) {
			continue
		}
		if !capturesOnly {
			ml.Add(NewMove(from, two))
		}

		three, ok := step(two, fwd)
		if !ok || !p.IsEmpty(three) {
			continue
		}
		if !capturesOnly {
			ml.Add(NewMove(from, three))
		}
	}

	// En passant: for every square the previous push passed through,
	// find our pawns that diagonally attack it.
	for bb := p.st().EnPassantTargets; bb.More(); {
		sq := bb.PopLSB()
		for a := pawnAttacks[them][sq].And(p.Pieces[us][Pawn]); a.More(); {
			ml.Add(NewEnPassant(a.PopLSB(), sq))
		}
	}
}

func (p *Position) generateKnightMoves(ml *MoveList, us Color, targets Bitboard) {
	for bb := p.Pieces[us][Knight]; bb.More(); {
		from := bb.PopLSB()
		for a := knightAttacks[from].And(targets); a.More(); {
			ml.Add(NewMove(from, a.PopLSB()))
		}
	}
}

func (p *Position) generateBishopMoves(ml *MoveList, us Color, targets Bitboard) {
	for bb := p.Pieces[us][Bishop]; bb.More(); {
		from := bb.PopLSB()
		for a := BishopAttacks(from, p.AllOccupied).And(targets); a.More(); {
			ml.Add(NewMove(from, a.PopLSB()))
		}
	}
}

func (p *Position) generateRookMoves(ml *MoveList, us Color, targets Bitboard) {
	for bb := p.Pieces[us][Rook]; bb.More(); {
		from := bb.PopLSB()
		for a := RookAttacks(from, p.AllOccupied).And(targets); a.More(); {
			ml.Add(NewMove(from, a.PopLSB()))
		}
	}
}

func (p *Position) generateQueenMoves(ml *MoveList, us Color, targets Bitboard) {
	for bb := p.Pieces[us][Queen]; bb.More(); {
		from := bb.PopLSB()
		for a := QueenAttacks(from, p.AllOccupied).And(targets); a.More(); {
			ml.Add(NewMove(from, a.PopLSB()))
		}
	}
}

// generateRoyalMoves generates Prince/Princess moves (spec §4.1's
// king-step-plus-gated-two-step attack pattern).
func (p *Position) generateRoyalMoves(ml *MoveList, us Color, pt PieceType, targets Bitboard) {
	for bb := p.Pieces[us][pt]; bb.More(); {
		from := bb.PopLSB()
		for a := RoyalAttacks(from, p.AllOccupied).And(targets); a.More(); {
			ml.Add(NewMove(from, a.PopLSB()))
		}
	}
}

func (p *Position) generateKingMoves(ml *MoveList, us Color, targets Bitboard) {
	kingBB := p.Pieces[us][King]
	if kingBB.Empty() {
		return
	}
	from := kingBB.LSB()
	for a := kingStepAttacks[from].And(targets); a.More(); {
		ml.Add(NewMove(from, a.PopLSB()))
	}
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	if p.InCheck() {
		return
	}
	them := us.Other()
	from := kingHomeSquare(us)
	if p.PieceAt(from).Type() != King {
		return
	}
	if p.CastlingRights.CanCastle(us, true) && p.AllOccupied.And(castlingEmptyPath(us, true)).Empty() {
		if !p.anySquareAttacked(castlingKingTransit(us, true), them) {
			ml.Add(NewCastling(from, kingDestKSquare(us)))
		}
	}
	if p.CastlingRights.CanCastle(us, false) && p.AllOccupied.And(castlingEmptyPath(us, false)).Empty() {
		if !p.anySquareAttacked(castlingKingTransit(us, false), them) {
			ml.Add(NewCastling(from, kingDestQSquare(us)))
		}
	}
}

func (p *Position) anySquareAttacked(squares []Square, by Color) bool {
	for _, s := range squares {
		if p.IsSquareAttacked(s, by) {
			return true
		}
	}
	return false
}

// generatePseudoLegal appends every pseudo-legal move for the side to
// move. When capturesOnly is set, only captures/promotions/en-passant are
// generated (spec's Captures mode); otherwise the full NonEvasions set.
func (p *Position) generatePseudoLegal(ml *MoveList, capturesOnly bool) {
	us := p.SideToMove
	them := us.Other()
	targets := p.Occupied[them]
	if !capturesOnly {
		targets = p.AllOccupied.Not().Or(p.Occupied[them])
	}

	p.generatePawnMoves(ml, us, capturesOnly)
	p.generateKnightMoves(ml, us, targets)
	p.generateBishopMoves(ml, us, targets)
	p.generateRookMoves(ml, us, targets)
	p.generateQueenMoves(ml, us, targets)
	p.generateRoyalMoves(ml, us, Princess, targets)
	p.generateRoyalMoves(ml, us, Prince, targets)
	p.generateKingMoves(ml, us, targets)
	if !capturesOnly {
		p.generateCastlingMoves(ml, us)
	}
}

// evasionTarget computes the set of squares a move may end on to evade a
// single checker on checker against our king on ksq (spec §4.2's "Evasion
// target"): the checker's square, plus either the straight-line between_bb
// block squares or, for a Prince/Princess checking along a rank/file at
// distance 2 via the royal wall, the one wall square currently empty — but
// only when exactly one of the three wall squares is empty (spec §4.1/§8
// scenario 5; zero or more than one empty leaves only capture-of-checker or
// king moves as evasions).
func (p *Position) evasionTarget(checker, ksq Square) Bitboard {
	target := SquareBB(checker)

	pt := p.PieceAt(checker).Type()
	if pt == Princess || pt == Prince {
		if wall, ok := RoyalWallSquares(checker, ksq); ok {
			emptyCount := 0
			var emptySq Square = NoSquare
			for _, s := range wall {
				if s != NoSquare && !p.AllOccupied.IsSet(s) {
					emptyCount++
					emptySq = s
				}
			}
			if emptyCount == 1 {
				return target.Set(emptySq)
			}
			return target
		}
	}

	return target.Or(Between(checker, ksq))
}

// generateEvasions appends moves that escape check: king moves plus, for a
// single checker, captures of the checker and blocks along the checking
// ray (including the royal-wall two-square evasion case).
func (p *Position) generateEvasions(ml *MoveList) {
	us := p.SideToMove
	ksq := p.KingSquare[us]

	p.generateKingMoves(ml, us, p.Occupied[us].Not())

	if p.Checkers.MoreThanOne() {
		return // double check: only the king may move
	}

	checker := p.Checkers.LSB()
	target := p.evasionTarget(checker, ksq)

	full := NewMoveList()
	p.generatePawnMoves(full, us, false)
	p.generateKnightMoves(full, us, target)
	p.generateBishopMoves(full, us, target)
	p.generateRookMoves(full, us, target)
	p.generateQueenMoves(full, us, target)
	p.generateRoyalMoves(full, us, Princess, target)
	p.generateRoyalMoves(full, us, Prince, target)

	for i := 0; i < full.Len(); i++ {
		m := full.Get(i)
		if target.IsSet(m.To()) || (m.IsEnPassant() && target.IsSet(p.st().EnPassant)) {
			ml.Add(m)
		}
	}
}

// generateQuietChecks appends non-capturing moves that give check.
func (p *Position) generateQuietChecks(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemyKing := p.KingSquare[them]
	empty := p.AllOccupied.Not()

	knightChecks := knightAttacks[enemyKing].And(empty)
	p.generateKnightMoves(ml, us, knightChecks)

	bishopChecks := BishopAttacks(enemyKing, p.AllOccupied).And(empty)
	p.generateBishopMoves(ml, us, bishopChecks)

	rookChecks := RookAttacks(enemyKing, p.AllOccupied).And(empty)
	p.generateRookMoves(ml, us, rookChecks)

	queenChecks := bishopChecks.Or(rookChecks)
	p.generateQueenMoves(ml, us, queenChecks)

	royalChecks := RoyalAttacks(enemyKing, p.AllOccupied).And(empty)
	p.generateRoyalMoves(ml, us, Princess, royalChecks)
	p.generateRoyalMoves(ml, us, Prince, royalChecks)
}

// duplicatePrincessPromotions appends a promote-princess twin of every
// move already in ml[from:ml.Len()), when the side to move holds an
// unspent princess-promotion right triggered by the previous ply's queen
// capture (spec §4.2).
func (p *Position) duplicatePrincessPromotions(ml *MoveList, from int) {
	us := p.SideToMove
	if !p.PreviousMoveCapturedQueen(us) || !p.st().PrincessRights[us] || !p.HasPrincess(us) {
		return
	}
	upto := ml.Len()
	for i := from; i < upto; i++ {
		ml.Add(ml.Get(i).WithPrincessPromotion())
	}
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave the
// king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		p.generateEvasions(ml)
	} else {
		p.generatePseudoLegal(ml, false)
	}
	p.duplicatePrincessPromotions(ml, 0)
	return ml
}

// GenerateCaptures generates legal captures, including promotion captures
// and en-passant. While in check this reduces to the capturing evasions.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		p.generateEvasions(ml)
		captures := NewMoveList()
		for i := 0; i < ml.Len(); i++ {
			m := ml.Get(i)
			if m.IsCapture(p) || m.IsPromotion() {
				captures.Add(m)
			}
		}
		ml = captures
	} else {
		p.generatePseudoLegal(ml, true)
	}
	p.duplicatePrincessPromotions(ml, 0)
	return p.filterLegal(ml)
}

// GenerateQuietChecks generates legal non-capturing moves that give check.
// Meaningless while already in check, where evasions take over instead.
func (p *Position) GenerateQuietChecks() *MoveList {
	ml := NewMoveList()
	if p.InCheck() {
		return ml
	}
	p.generateQuietChecks(ml)
	p.duplicatePrincessPromotions(ml, 0)
	return p.filterLegal(ml)
}

// GenerateLegalMoves generates every legal move for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.filterLegal(p.GeneratePseudoLegalMoves())
}

func (p *Position) filterLegal(ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.Legal(m) {
			result.Add(m)
		}
	}
	return result
}

// Legal reports whether a pseudo-legal move m is fully legal: it must not
// leave the mover's king attacked, must respect pins, and must honor the
// royal-capture and princess-promotion preconditions of spec §4.3.
func (p *Position) Legal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pc := p.PieceAt(from)
	if pc == NoPiece {
		return false
	}
	pt := pc.Type()

	if m.IsEnPassant() {
		ksq := p.KingSquare[us]
		capSq := p.st().EnPassant
		occupied := p.AllOccupied.Clear(from).Clear(capSq).Set(to)
		if RookAttacks(ksq, occupied).And(p.Pieces[them][Queen].Or(p.Pieces[them][Rook])).More() {
			return false
		}
		if BishopAttacks(ksq, occupied).And(p.Pieces[them][Queen].Or(p.Pieces[them][Bishop])).More() {
			return false
		}
		if p.Checkers.MoreThanOne() {
			return false
		}
		if p.Checkers.More() {
			checker := p.Checkers.LSB()
			if checker != capSq && !Between(checker, ksq).IsSet(capSq) {
				return false
			}
		}
		return true
	}

	if m.IsCastling() {
		kingSide := to.File() > from.File()
		if p.anySquareAttacked(castlingKingTransit(us, kingSide), them) {
			return false
		}
	} else if p.Occupied[us].IsSet(to) {
		return false
	}

	// If we are currently attacking the enemy king (a side-effect of the
	// royal mechanics), this move must be the one that captures it.
	if p.AttackingEnemyKing() && to != p.KingSquare[them] {
		return false
	}

	if pt == King && !p.HasPrince(us) {
		occ := p.AllOccupied.Clear(from)
		return p.AttackersByColor(to, them, occ).Empty()
	}

	// Queen-capture precondition: don't let our capture of their Queen hand
	// them an immediate princess-promotion check we can't survive.
	if target := p.PieceAt(to); target != NoPiece && target.Type() == Queen && target.Color() == them {
		if !p.Pieces[them][Princess].Empty() {
			princessSq := p.Pieces[them][Princess].LSB()
			occupied := p.AllOccupied.Clear(from)
			if QueenAttacks(princessSq, occupied).IsSet(p.KingSquare[us]) && !p.HasPrince(us) {
				return false
			}
		}
	}

	if m.PromotesPrincess() {
		if !p.PreviousMoveCapturedQueen(us) || !p.st().PrincessRights[us] {
			return false
		}
	}

	if p.st().BlockersForKing[us].IsSet(from) && !Aligned(from, to, p.KingSquare[us]) {
		return false
	}

	if p.Checkers.More() {
		checker := p.Checkers.LSB()
		if p.Checkers.MoreThanOne() {
			return false
		}
		target := p.evasionTarget(checker, p.KingSquare[us])
		return target.IsSet(to)
	}

	return true
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.Legal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

func clearCastlingRightsAt(st *StateInfo, sq Square) {
	for _, c := range [2]Color{White, Black} {
		if sq == kingHomeSquare(c) {
			if c == White {
				st.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
			} else {
				st.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
			}
		}
		if sq == rookKSquare(c) {
			if c == White {
				st.CastlingRights &^= WhiteKingSideCastle
			} else {
				st.CastlingRights &^= BlackKingSideCastle
			}
		}
		if sq == rookQSquare(c) {
			if c == White {
				st.CastlingRights &^= WhiteQueenSideCastle
			} else {
				st.CastlingRights &^= BlackQueenSideCastle
			}
		}
	}
}

// DoMove applies m to the position, pushing a new StateInfo frame (spec
// §4.3's incremental do_move).
func (p *Position) DoMove(m Move) {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)
	pt := piece.Type()

	prev := p.st()
	newSt := StateInfo{
		CastlingRights:   prev.CastlingRights,
		PrincessRights:   prev.PrincessRights,
		NonPawnMaterial:  prev.NonPawnMaterial,
		Rule50:           prev.Rule50 + 1,
		PliesFromNull:    prev.PliesFromNull + 1,
		EnPassant:        NoSquare,
		EnPassantTargets: Empty,
		CapturedPiece:    NoPiece,
		PrincessSquare:   NoSquare,
	}
	p.history = append(p.history, newSt)
	st := &p.history[len(p.history)-1]

	hash := p.Hash
	pawnKey := p.PawnKey
	matKey := p.MaterialKey

	hash ^= zobristSideToMove
	hash ^= zobristCastling[prev.CastlingRights]
	if prev.EnPassant != NoSquare {
		hash ^= zobristEnPassant[prev.EnPassant.File()]
	}

	switch {
	case m.IsCastling():
		kingSide := to.File() > from.File()
		var rookFrom, rookTo, kingTo Square
		if kingSide {
			rookFrom, rookTo, kingTo = rookKSquare(us), rookDestKSquare(us), kingDestKSquare(us)
		} else {
			rookFrom, rookTo, kingTo = rookQSquare(us), rookDestQSquare(us), kingDestQSquare(us)
		}
		p.removePiece(from)
		p.removePiece(rookFrom)
		p.setPiece(NewPiece(King, us), kingTo)
		p.setPiece(NewPiece(Rook, us), rookTo)
		hash ^= zobristPiece[us][King][from] ^ zobristPiece[us][King][kingTo]
		hash ^= zobristPiece[us][Rook][rookFrom] ^ zobristPiece[us][Rook][rookTo]

	case m.IsEnPassant():
		capSq := prev.EnPassant
		p.removePiece(capSq)
		hash ^= zobristPiece[them][Pawn][capSq]
		pawnKey ^= zobristPiece[them][Pawn][capSq]
		matKey ^= ZobristMaterial(them, Pawn, p.pieceCount[them][Pawn])
		st.CapturedPiece = NewPiece(Pawn, them)
		st.Rule50 = 0

		p.movePiece(from, to)
		hash ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][Pawn][to]
		pawnKey ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][Pawn][to]

	default:
		if captured := p.PieceAt(to); captured != NoPiece {
			st.CapturedPiece = captured
			st.Rule50 = 0
			if captured.Type() == King {
				p.removePiece(to)
				hash ^= zobristPiece[them][King][to]
				if p.HasPrince(them) {
					princeSq := p.Pieces[them][Prince].LSB()
					p.removePiece(princeSq)
					p.setPiece(NewPiece(King, them), princeSq)
					hash ^= zobristPiece[them][Prince][princeSq] ^ zobristPiece[them][King][princeSq]
					matKey ^= ZobristMaterial(them, Prince, p.pieceCount[them][Prince])
					st.NonPawnMaterial[them] -= PieceValue[Prince]
				}
			} else {
				p.removePiece(to)
				hash ^= zobristPiece[them][captured.Type()][to]
				if captured.Type() == Pawn {
					pawnKey ^= zobristPiece[them][Pawn][to]
				} else {
					st.NonPawnMaterial[them] -= PieceValue[captured.Type()]
				}
				matKey ^= ZobristMaterial(them, captured.Type(), p.pieceCount[them][captured.Type()])
			}
		}

		p.movePiece(from, to)
		hash ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]
		if pt == Pawn {
			pawnKey ^= zobristPiece[us][Pawn][from] ^ zobristPiece[us][Pawn][to]
		}

		if m.IsPromotion() {
			promoPt := m.Promotion()
			p.removePiece(to)
			p.setPiece(NewPiece(promoPt, us), to)
			hash ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promoPt][to]
			pawnKey ^= zobristPiece[us][Pawn][to]
			matKey ^= ZobristMaterial(us, Pawn, p.pieceCount[us][Pawn])
			matKey ^= ZobristMaterial(us, promoPt, p.pieceCount[us][promoPt]-1)
			st.NonPawnMaterial[us] += PieceValue[promoPt]
			st.Rule50 = 0
		} else if pt == Pawn {
			st.Rule50 = 0
			if d := to.Rank() - from.Rank(); d > 1 || -d > 1 {
				st.EnPassant = to
				st.EnPassantTargets = Between(from, to)
				hash ^= zobristEnPassant[to.File()]
			}
		}
	}

	// Princess promotion, triggered by the previous ply capturing our Queen.
	// prev is this move's own "previous state" frame, so check its captured
	// piece directly rather than through p.st() (which now points at the
	// frame just pushed for this move).
	prevCapturedOurQueen := prev.CapturedPiece != NoPiece && prev.CapturedPiece.Type() == Queen && prev.CapturedPiece.Color() == us
	if prevCapturedOurQueen {
		if m.PromotesPrincess() && prev.PrincessRights[us] && p.HasPrincess(us) {
			princessSq := p.Pieces[us][Princess].LSB()
			occupied := p.AllOccupied.Clear(from)
			if !QueenAttacks(princessSq, occupied).IsSet(p.KingSquare[them]) || p.HasPrince(them) {
				st.PrincessSquare = princessSq
				p.removePiece(princessSq)
				p.setPiece(NewPiece(Queen, us), princessSq)
				hash ^= zobristPiece[us][Princess][princessSq] ^ zobristPiece[us][Queen][princessSq]
				matKey ^= ZobristMaterial(us, Princess, p.pieceCount[us][Princess])
				matKey ^= ZobristMaterial(us, Queen, p.pieceCount[us][Queen]-1)
			}
		}
		if prev.PrincessRights[us] {
			hash ^= zobristPrincessRights[us]
		}
		st.PrincessRights[us] = false
	}

	clearCastlingRightsAt(st, from)
	clearCastlingRightsAt(st, to)
	hash ^= zobristCastling[st.CastlingRights]

	p.GamePly++
	p.SideToMove = them
	p.UpdateCheckers()
	st.CheckersBB = p.Checkers

	blockersThem, pinnersThem := p.computeBlockersAndPinners(them)
	st.BlockersForKing[them] = blockersThem
	st.Pinners[them] = pinnersThem
	blockersUs, pinnersUs := p.computeBlockersAndPinners(us)
	st.BlockersForKing[us] = blockersUs
	st.Pinners[us] = pinnersUs

	st.Key = hash
	st.PawnKey = pawnKey
	st.MaterialKey = matKey
	p.Hash = hash
	p.PawnKey = pawnKey
	p.MaterialKey = matKey
	p.EnPassant = st.EnPassant
	p.CastlingRights = st.CastlingRights
	p.HalfMoveClock = st.Rule50
	if us == Black {
		p.FullMoveNumber++
	}

	end := st.Rule50
	if st.PliesFromNull < end {
		end = st.PliesFromNull
	}
	st.Repetition = 0
	if end >= 4 {
		for d := 4; d <= end; d += 2 {
			idx := len(p.history) - 1 - d
			if idx < 0 {
				break
			}
			if p.history[idx].Key == hash {
				if p.history[idx].Repetition != 0 {
					st.Repetition = -d
				} else {
					st.Repetition = d
				}
				break
			}
		}
	}
}

// UndoMove reverses the most recent DoMove call.
func (p *Position) UndoMove(m Move) {
	them := p.SideToMove
	us := them.Other()
	st := p.st()
	prev := p.history[len(p.history)-2]
	from := m.From()
	to := m.To()

	if st.PrincessSquare != NoSquare {
		p.removePiece(st.PrincessSquare)
		p.setPiece(NewPiece(Princess, us), st.PrincessSquare)
	}

	switch {
	case m.IsCastling():
		kingSide := to.File() > from.File()
		var rookFrom, rookTo, kingTo Square
		if kingSide {
			rookFrom, rookTo, kingTo = rookKSquare(us), rookDestKSquare(us), kingDestKSquare(us)
		} else {
			rookFrom, rookTo, kingTo = rookQSquare(us), rookDestQSquare(us), kingDestQSquare(us)
		}
		p.removePiece(kingTo)
		p.removePiece(rookTo)
		p.setPiece(NewPiece(King, us), from)
		p.setPiece(NewPiece(Rook, us), rookFrom)

	case m.IsEnPassant():
		p.movePiece(to, from)
		p.setPiece(NewPiece(Pawn, them), prev.EnPassant)

	default:
		if m.IsPromotion() {
			p.removePiece(to)
			p.setPiece(NewPiece(Pawn, us), to)
		}
		p.movePiece(to, from)
		if st.CapturedPiece != NoPiece {
			if st.CapturedPiece.Type() == King {
				if !p.Pieces[them][King].Empty() {
					princeSq := p.Pieces[them][King].LSB()
					p.removePiece(princeSq)
					p.setPiece(NewPiece(Prince, them), princeSq)
				}
				p.setPiece(NewPiece(King, them), to)
			} else {
				p.setPiece(st.CapturedPiece, to)
			}
		}
	}

	p.history = p.history[:len(p.history)-1]
	p.Hash = prev.Key
	p.PawnKey = prev.PawnKey
	p.MaterialKey = prev.MaterialKey
	p.EnPassant = prev.EnPassant
	p.CastlingRights = prev.CastlingRights
	p.HalfMoveClock = prev.Rule50
	p.SideToMove = us
	p.Checkers = prev.CheckersBB
	p.GamePly--
	if us == Black {
		p.FullMoveNumber--
	}
}
