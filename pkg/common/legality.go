package common

// MoveIsPseudoLegal checks that m can be played in the current position,
// ignoring whether it leaves the own king in check.
// Used to validate moves coming from the hash table or killer slots.
func (p *Position) MoveIsPseudoLegal(m Move) bool {
	if m == MoveEmpty {
		return false
	}

	var from, to, piece = m.From(), m.To(), m.Piece()
	var captured, promotion = m.Captured(), m.Promotion()
	var us = p.SideToMove()
	var pieceType = PieceType(piece)

	if piece == Empty || p.Board[from] != piece || PieceSide(piece) != us {
		return false
	}

	if m.IsEnPassant() {
		if pieceType != Pawn || to != p.EpSquare || captured != MakePiece(Pawn, us^1) ||
			PawnAttacks(from, us)&SquareMask[to] == 0 {
			return false
		}
		return promotion == Empty
	}

	if p.Board[to] != captured {
		return false
	}
	if captured != Empty && (PieceSide(captured) == us || PieceType(captured) == King) {
		return false
	}

	if promotion != Empty && (pieceType != Pawn || PieceSide(promotion) != us ||
		PieceType(promotion) < Knight || PieceType(promotion) > Queen) {
		return false
	}

	var allPieces = p.AllPieces()

	switch pieceType {
	case Pawn:
		if RelativeRank(to, us) == Rank8 && promotion == Empty ||
			RelativeRank(to, us) != Rank8 && promotion != Empty {
			return false
		}
		var push = pawnPush(us)
		if captured != Empty {
			if PawnAttacks(from, us)&SquareMask[to] == 0 || m.Ept() != 0 {
				return false
			}
		} else if to == from+push {
			if m.Ept() != 0 {
				return false
			}
		} else if to == from+2*push && RelativeRank(from, us) == Rank2 {
			if SquareMask[from+push]&allPieces != 0 || m.Ept() != p.doublePushEpt(from, to, us) {
				return false
			}
		} else {
			return false
		}
		return true
	case King:
		if m.Ept() != 0 {
			return false
		}
		if FileDistance(from, to) == 2 {
			return p.castlingIsPseudoLegal(from, to)
		}
		return KingAttacks[from]&SquareMask[to] != 0
	default:
		return m.Ept() == 0 && PieceAttacks(piece, from, allPieces)&SquareMask[to] != 0
	}
}

func (p *Position) castlingIsPseudoLegal(from, to int) bool {
	var us = p.SideToMove()
	var them = us ^ 1
	var allPieces = p.AllPieces()
	if p.Checkers != 0 || Rank(from) != Rank(to) {
		return false
	}
	switch {
	case us == SideWhite && from == SquareE1 && to == SquareG1:
		return p.State&WhiteKingSide != 0 && allPieces&f1g1Mask == 0 && !p.IsAttacked(SquareF1, them)
	case us == SideWhite && from == SquareE1 && to == SquareC1:
		return p.State&WhiteQueenSide != 0 && allPieces&b1d1Mask == 0 && !p.IsAttacked(SquareD1, them)
	case us == SideBlack && from == SquareE8 && to == SquareG8:
		return p.State&BlackKingSide != 0 && allPieces&f8g8Mask == 0 && !p.IsAttacked(SquareF8, them)
	case us == SideBlack && from == SquareE8 && to == SquareC8:
		return p.State&BlackQueenSide != 0 && allPieces&b8d8Mask == 0 && !p.IsAttacked(SquareD8, them)
	}
	return false
}

// MoveGivesCheck detects direct checks by the moving piece. Discovered checks are not detected.
func (p *Position) MoveGivesCheck(m Move) bool {
	var piece = m.Piece()
	var theirKing = p.KingSq[PieceSide(piece)^1]
	return PieceAttacks(piece, m.To(), p.AllPieces())&SquareMask[theirKing] != 0
}

// ShortMoveToFull rebuilds a move stored as from, to and promotion.
// It returns MoveEmpty when the result is not pseudo-legal here.
func (p *Position) ShortMoveToFull(sm uint16) Move {
	if sm == 0 {
		return MoveEmpty
	}
	var from = int(sm>>6) & 63
	var to = int(sm) & 63
	var piece = p.Board[from]
	if piece == Empty {
		return MoveEmpty
	}
	var captured = p.Board[to]
	var ept = 0
	if PieceType(piece) == Pawn {
		if File(from) != File(to) && captured == Empty {
			captured = piece ^ 1
			ept = epCaptureFlag
		} else if from^to == 16 {
			ept = p.doublePushEpt(from, to, PieceSide(piece))
		}
	}
	var m = Move(uint32(piece)<<28 | uint32(ept)<<20 | uint32(captured)<<16 | uint32(sm))
	if !p.MoveIsPseudoLegal(m) {
		return MoveEmpty
	}
	return m
}
