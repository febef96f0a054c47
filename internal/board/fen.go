package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the starting position of the 10x10 variant: a standard
// back rank widened with the Princess (between Bishop and King) and the
// Prince (between Queen and the kingside Bishop), per spec §8 scenario 1.
const StartFEN = "rnbskqtbnr/pppppppppp/55/55/55/55/55/55/PPPPPPPPPP/RNBSKQTBNR w KQkq Ss - 0 1"

// ParseFEN parses an extended FEN string (10 ranks, S/T royal letters, a
// Princess-rights field after castling) and returns a Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid FEN: need at least 5 fields, got %d", len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare
	for i := range pos.board {
		pos.board[i] = NoPiece
	}

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	var princessRights [2]bool
	if err := parsePrincessRights(&princessRights, parts[3]); err != nil {
		return nil, err
	}

	field := 4
	if len(parts) > field && parts[field] != "-" {
		sq, err := ParseSquare(parts[field])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[field])
		}
		pos.EnPassant = sq
	}
	field++

	halfMove := 0
	if len(parts) > field {
		hmc, err := strconv.Atoi(parts[field])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[field])
		}
		halfMove = hmc
		pos.HalfMoveClock = hmc
	}
	field++

	if len(parts) > field {
		fmn, err := strconv.Atoi(parts[field])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[field])
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()

	st := StateInfo{
		CastlingRights: pos.CastlingRights,
		PrincessRights: princessRights,
		EnPassant:      pos.EnPassant,
		Rule50:         halfMove,
		PliesFromNull:  halfMove,
		CapturedPiece:  NoPiece,
		PrincessSquare: NoSquare,
	}
	if st.EnPassant != NoSquare {
		st.EnPassantTargets = computeEnPassantTargets(st.EnPassant, pos.SideToMove.Other())
	}
	for pt := Pawn; pt < King; pt++ {
		st.NonPawnMaterial[White] += pos.Pieces[White][pt].PopCount() * PieceValue[pt]
		st.NonPawnMaterial[Black] += pos.Pieces[Black][pt].PopCount() * PieceValue[pt]
	}
	st.NonPawnMaterial[White] -= pos.Pieces[White][Pawn].PopCount() * PieceValue[Pawn]
	st.NonPawnMaterial[Black] -= pos.Pieces[Black][Pawn].PopCount() * PieceValue[Pawn]

	pos.history = []StateInfo{st}

	blockersW, pinnersW := pos.computeBlockersAndPinners(White)
	blockersB, pinnersB := pos.computeBlockersAndPinners(Black)
	pos.st().BlockersForKing[White], pos.st().Pinners[White] = blockersW, pinnersW
	pos.st().BlockersForKing[Black], pos.st().Pinners[Black] = blockersB, pinnersB

	pos.UpdateCheckers()
	pos.st().CheckersBB = pos.Checkers

	pos.Hash = pos.ComputeHash()
	pos.PawnKey = pos.ComputePawnKey()
	pos.MaterialKey = pos.ComputeMaterialKey()
	pos.st().Key = pos.Hash
	pos.st().PawnKey = pos.PawnKey
	pos.st().MaterialKey = pos.MaterialKey

	return pos, nil
}

// computeEnPassantTargets infers the squares a capturing pawn may land on
// from the bare epSquare recorded in FEN, given only the pushing color: a
// landing square two ranks from home implies a double push (one pass-over
// square), three ranks implies a triple push (two pass-over squares) - the
// only two distances a home-rank pawn push can produce (spec §4.2).
func computeEnPassantTargets(epSquare Square, pusher Color) Bitboard {
	home := pawnHomeRank(pusher)
	origin := NewSquare(epSquare.File(), home)
	return Between(origin, epSquare)
}

// parsePiecePlacement parses the piece placement section of a FEN string:
// 10 ranks separated by '/', rank 10 first, with S/s (Princess) and T/t
// (Prince) accepted alongside the classical letters. Empty-square runs
// accumulate digit by digit, so "55" denotes ten consecutive empty squares.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != NumRanks {
		return fmt.Errorf("invalid piece placement: need %d ranks, got %d", NumRanks, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := NumRanks - 1 - i
		file := 0

		for _, c := range rankStr {
			if file >= NumFiles {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '9' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				pos.setPiece(piece, NewSquare(file, rank))
				file++
			}
		}

		if file != NumFiles {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// parsePrincessRights parses the Princess-promotion-rights field that
// follows castling rights in the extended FEN (spec §6): "S" and/or "s",
// or "-" for neither.
func parsePrincessRights(rights *[2]bool, field string) error {
	if field == "-" {
		return nil
	}
	for _, c := range field {
		switch c {
		case 'S':
			rights[White] = true
		case 's':
			rights[Black] = true
		default:
			return fmt.Errorf("invalid princess-rights character: %c", c)
		}
	}
	return nil
}

// ToFEN returns the extended FEN representation of the position. Empty
// squares are emitted one at a time as "1"s, per spec §6.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := NumRanks - 1; rank >= 0; rank-- {
		for file := 0; file < NumFiles; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				sb.WriteByte('1')
			} else {
				sb.WriteString(piece.String())
			}
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(princessRightsString(p.st().PrincessRights))

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

func princessRightsString(rights [2]bool) string {
	if !rights[White] && !rights[Black] {
		return "-"
	}
	s := ""
	if rights[White] {
		s += "S"
	}
	if rights[Black] {
		s += "s"
	}
	return s
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb.More() {
				sq := bb.PopLSB()
				hash ^= zobristPiece[c][pt][sq]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if len(p.history) > 0 {
		rights := p.st().PrincessRights
		if rights[White] {
			hash ^= zobristPrincessRights[White]
		}
		if rights[Black] {
			hash ^= zobristPrincessRights[Black]
		}
	}

	return hash
}

// ComputePawnKey computes the pawn hash key from scratch.
func (p *Position) ComputePawnKey() uint64 {
	var key uint64

	for c := White; c <= Black; c++ {
		bb := p.Pieces[c][Pawn]
		for bb.More() {
			sq := bb.PopLSB()
			key ^= zobristPiece[c][Pawn][sq]
		}
	}

	return key
}

// ComputeMaterialKey computes the material hash key from scratch, folding
// in each (color, piece type, count) triple via the ZobristMaterial table.
func (p *Position) ComputeMaterialKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt < NoPieceType; pt++ {
			for n := 1; n <= p.pieceCount[c][pt]; n++ {
				key ^= ZobristMaterial(c, pt, n-1)
			}
		}
	}
	return key
}
