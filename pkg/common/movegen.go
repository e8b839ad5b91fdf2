package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

type moveList struct {
	ml    []OrderedMove
	count int
}

func (l *moveList) add(m Move) {
	l.ml[l.count] = OrderedMove{Move: m}
	l.count++
}

func (l *moveList) addPromotions(from, to, piece, capture int, queenOnly bool) {
	var side = PieceSide(piece)
	l.add(NewMove(from, to, piece, capture, MakePiece(Queen, side), 0))
	if queenOnly {
		return
	}
	l.add(NewMove(from, to, piece, capture, MakePiece(Rook, side), 0))
	l.add(NewMove(from, to, piece, capture, MakePiece(Bishop, side), 0))
	l.add(NewMove(from, to, piece, capture, MakePiece(Knight, side), 0))
}

func pawnPush(side int) int {
	return let(side == SideWhite, 8, -8)
}

// doublePushEpt is the ept field of a double push: the skipped square when an enemy pawn can reply en passant.
func (p *Position) doublePushEpt(from, to, side int) int {
	if epHelper[to]&p.PiecesByType(Pawn, side^1) != 0 {
		return (from + to) / 2
	}
	return 0
}

func (p *Position) generatePawnMoves(l *moveList, target uint64, quiets bool) {
	var us = p.SideToMove()
	var pawn = MakePiece(Pawn, us)
	var push = pawnPush(us)
	var allPieces = p.AllPieces()
	var oppPieces = p.Colours[us^1]

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, us^1) & p.Pieces[pawn]; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			l.add(NewMove(from, p.EpSquare, pawn, pawn^1, Empty, epCaptureFlag))
		}
	}

	for fromBB := p.Pieces[pawn]; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		var promotes = RelativeRank(from, us) == Rank7
		var to = from + push
		if SquareMask[to]&allPieces == 0 {
			if promotes {
				l.addPromotions(from, to, pawn, Empty, !quiets)
			} else if quiets {
				l.add(NewMove(from, to, pawn, Empty, Empty, 0))
				var to2 = to + push
				if RelativeRank(from, us) == Rank2 && SquareMask[to2]&allPieces == 0 {
					l.add(NewMove(from, to2, pawn, Empty, Empty, p.doublePushEpt(from, to2, us)))
				}
			}
		}
		for toBB := PawnAttacks(from, us) & oppPieces & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			if promotes {
				l.addPromotions(from, to, pawn, p.Board[to], !quiets)
			} else {
				l.add(NewMove(from, to, pawn, p.Board[to], Empty, 0))
			}
		}
	}
}

func (p *Position) generatePieceMoves(l *moveList, target uint64) {
	var us = p.SideToMove()
	var allPieces = p.AllPieces()
	for pt := Knight; pt <= Queen; pt++ {
		var piece = MakePiece(pt, us)
		for fromBB := p.Pieces[piece]; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			for toBB := PieceAttacks(piece, from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
				var to = FirstOne(toBB)
				l.add(NewMove(from, to, piece, p.Board[to], Empty, 0))
			}
		}
	}
}

func (p *Position) generateKingMoves(l *moveList, target uint64) {
	var us = p.SideToMove()
	var king = MakePiece(King, us)
	var from = p.KingSq[us]
	for toBB := KingAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		l.add(NewMove(from, to, king, p.Board[to], Empty, 0))
	}
}

func (p *Position) generateCastling(l *moveList) {
	if p.Checkers != 0 {
		return
	}
	var allPieces = p.AllPieces()
	if p.SideToMove() == SideWhite {
		if p.State&WhiteKingSide != 0 && allPieces&f1g1Mask == 0 && !p.IsAttacked(SquareF1, SideBlack) {
			l.add(NewMove(SquareE1, SquareG1, WhiteKing, Empty, Empty, 0))
		}
		if p.State&WhiteQueenSide != 0 && allPieces&b1d1Mask == 0 && !p.IsAttacked(SquareD1, SideBlack) {
			l.add(NewMove(SquareE1, SquareC1, WhiteKing, Empty, Empty, 0))
		}
	} else {
		if p.State&BlackKingSide != 0 && allPieces&f8g8Mask == 0 && !p.IsAttacked(SquareF8, SideWhite) {
			l.add(NewMove(SquareE8, SquareG8, BlackKing, Empty, Empty, 0))
		}
		if p.State&BlackQueenSide != 0 && allPieces&b8d8Mask == 0 && !p.IsAttacked(SquareD8, SideWhite) {
			l.add(NewMove(SquareE8, SquareC8, BlackKing, Empty, Empty, 0))
		}
	}
}

// GenerateMoves appends all pseudo-legal moves to ml[:0].
// In check only king moves and moves to the checking line are produced.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var l = moveList{ml: ml}
	var us = p.SideToMove()
	var target = ^p.Colours[us]
	if p.Checkers != 0 {
		var checker = FirstOne(p.Checkers)
		target = p.Checkers | betweenMask[checker][p.KingSq[us]]
	}
	p.generatePawnMoves(&l, target, true)
	p.generatePieceMoves(&l, target)
	p.generateKingMoves(&l, ^p.Colours[us])
	p.generateCastling(&l)
	return ml[:l.count]
}

// GenerateCaptures produces captures and queen promotions.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var l = moveList{ml: ml}
	var target = p.Colours[p.SideToMove()^1]
	p.generatePawnMoves(&l, target, false)
	p.generatePieceMoves(&l, target)
	p.generateKingMoves(&l, target)
	return ml[:l.count]
}

// GenerateLegalMoves filters GenerateMoves through PlayMove.
func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var result []Move
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.PlayMove(om.Move) {
			p.UnplayMove(om.Move)
			result = append(result, om.Move)
		}
	}
	return result
}
