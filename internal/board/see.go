package board

// Static exchange evaluation: the material balance of the series of
// recaptures landing on one square, computed without search (spec §4.3,
// §9's glossary entry for SEE). Grounded on the teacher's SEE/seeSwap/
// getLeastValuableAttacker trio in eval.go, generalized from the
// teacher's ad hoc per-piece-type attacker scan to AttackersByColor
// (already built for check/pin detection) and widened with the
// Princess/Prince values, plus the pinned-piece exclusion spec §4.3
// requires and the teacher's version doesn't implement.

// SeeGE reports whether the static exchange evaluation of m is at least
// threshold, from the perspective of the side making the move. This is
// the "greater-or-equal" variant used by search pruning (spec §4.3); it
// computes the full SEE value with see and compares it to threshold.
func (p *Position) SeeGE(m Move, threshold int) bool {
	return p.see(m) >= threshold
}

// see computes the SEE value of m; a move that captures nothing scores 0.
func (p *Position) see(m Move) int {
	from := m.From()
	to := m.To()

	attacker := p.PieceAt(from)
	if attacker == NoPiece {
		return 0
	}

	var gain int
	if m.IsEnPassant() {
		gain = PieceValue[Pawn]
	} else {
		victim := p.PieceAt(to)
		if victim == NoPiece {
			return 0
		}
		gain = PieceValue[victim.Type()]
	}
	if m.IsPromotion() {
		gain += PieceValue[m.Promotion()] - PieceValue[Pawn]
	}

	return p.seeSwap(to, from, attacker, gain)
}

// seeSwap runs the classic swap-off algorithm: alternate sides capturing
// on target with their least valuable attacker, then negamax the running
// gain array back to the root to fold in "a side can always stop
// recapturing if it's not worth it".
func (p *Position) seeSwap(target, excludeFrom Square, firstAttacker Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := p.AllOccupied.Clear(excludeFrom)
	attackerValue := PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for d < 31 {
		d++
		gain[d] = attackerValue - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		sq, piece := p.leastValuableAttacker(target, side, occupied)
		if sq == NoSquare {
			break
		}

		occupied = occupied.Clear(sq)
		attackerValue = PieceValue[piece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of color side attacking
// target given occupied, excluding pieces pinned to their own king along
// a line that doesn't pass through target - as long as the pinning piece
// is still part of occupied (spec §4.3: "pinned pieces, except the king,
// are excluded from the swap while their pinner remains on the board").
func (p *Position) leastValuableAttacker(target Square, side Color, occupied Bitboard) (Square, Piece) {
	attackers := p.AttackersByColor(target, side, occupied)
	attackers = attackers.AndNot(p.excludedPinned(side, target, occupied))
	if attackers.Empty() {
		return NoSquare, NoPiece
	}

	for pt := Pawn; pt < King; pt++ {
		if pt == Princess || pt == Prince {
			continue
		}
		bb := attackers.And(p.Pieces[side][pt])
		if bb.More() {
			return bb.LSB(), NewPiece(pt, side)
		}
	}
	// Princess/Prince are Queen-or-better valued (spec §3's ordering
	// requirement); try them after every classical piece type but the
	// King, before falling back to the King itself.
	for _, pt := range [2]PieceType{Princess, Prince} {
		bb := attackers.And(p.Pieces[side][pt])
		if bb.More() {
			return bb.LSB(), NewPiece(pt, side)
		}
	}
	bb := attackers.And(p.Pieces[side][King])
	if bb.More() {
		return bb.LSB(), NewPiece(King, side)
	}
	return NoSquare, NoPiece
}

// excludedPinned returns the squares holding side's pieces that are
// pinned to side's own king and cannot usefully join the swap: still
// pinned (their pinner is present in occupied) and target lies off the
// pin line.
func (p *Position) excludedPinned(side Color, target Square, occupied Bitboard) Bitboard {
	kingSq := p.KingSquare[side]
	if kingSq == NoSquare {
		return Empty
	}

	blockers := p.st().BlockersForKing[side]
	pinners := p.st().Pinners[side].And(occupied)
	if blockers.Empty() || pinners.Empty() {
		return Empty
	}

	var excluded Bitboard
	bb := blockers
	for bb.More() {
		sq := bb.PopLSB()
		line := Line(kingSq, sq)
		if line.IsSet(target) {
			continue // capture stays on the pin line, still legal
		}
		if pinners.And(line).More() {
			excluded = excluded.Or(SquareBB(sq))
		}
	}
	return excluded
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
