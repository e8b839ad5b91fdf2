package common

func (p *Position) saveFrame(m Move) historyFrame {
	return historyFrame{
		move:        m,
		state:       p.State,
		epSquare:    p.EpSquare,
		rule50:      p.Rule50,
		fullMove:    p.FullMove,
		key:         p.Key,
		pawnKey:     p.PawnKey,
		materialKey: p.MaterialKey,
		checkers:    p.Checkers,
		kingSq:      p.KingSq,
	}
}

func (p *Position) restoreFrame(f *historyFrame) {
	p.State = f.state
	p.EpSquare = f.epSquare
	p.Rule50 = f.rule50
	p.FullMove = f.fullMove
	p.Key = f.key
	p.PawnKey = f.pawnKey
	p.MaterialKey = f.materialKey
	p.Checkers = f.checkers
	p.KingSq = f.kingSq
}

func epCaptureSquare(from, to int) int {
	return MakeSquare(File(to), Rank(from))
}

func castleRookSquares(kingTo int) (from, to int) {
	if File(kingTo) == FileG {
		return kingTo + 1, kingTo - 1
	}
	return kingTo - 2, kingTo + 1
}

// PlayMove plays a pseudo-legal move. If it leaves the own king attacked
// the position is restored and false is returned.
func (p *Position) PlayMove(m Move) bool {
	var from, to, piece = m.From(), m.To(), m.Piece()
	var captured, promotion = m.Captured(), m.Promotion()
	var us = p.SideToMove()

	assert(p.Board[from] == piece, "moving piece not on from square")
	assert(m.IsEnPassant() || p.Board[to] == captured, "captured piece not on to square")
	assert(promotion == Empty || (PieceType(piece) == Pawn && RelativeRank(to, us) == Rank8), "bad promotion")

	var frame = p.saveFrame(m)

	p.Rule50++

	if captured != Empty && !m.IsEnPassant() {
		p.Key ^= psqKey(captured, to)
		if PieceType(captured) == Pawn {
			p.PawnKey ^= psqKey(captured, to)
		}
		p.clearPiece(to, captured)
		p.MaterialKey ^= materialKey(captured, PopCount(p.Pieces[captured]))
		p.Rule50 = 0
	}

	if promotion == Empty {
		p.movePiece(from, to, piece)
	} else {
		p.clearPiece(from, piece)
		p.MaterialKey ^= materialKey(piece, PopCount(p.Pieces[piece]))
		p.MaterialKey ^= materialKey(promotion, PopCount(p.Pieces[promotion]))
		p.setPiece(to, promotion)
		// the pawn vanishes from the pawn hash; the pawn term below toggles it on to and off again
		p.PawnKey ^= psqKey(promotion, to)
	}

	p.Key ^= psqKey(p.Board[to], to) ^ psqKey(piece, from)

	switch PieceType(piece) {
	case Pawn:
		p.PawnKey ^= psqKey(p.Board[to], to) ^ psqKey(piece, from)
		p.Rule50 = 0
		if m.IsEnPassant() {
			var capSq = epCaptureSquare(from, to)
			p.clearPiece(capSq, captured)
			p.Key ^= psqKey(captured, capSq)
			p.PawnKey ^= psqKey(captured, capSq)
			p.MaterialKey ^= materialKey(captured, PopCount(p.Pieces[captured]))
		}
	case King:
		p.KingSq[us] = to
	}

	if p.IsAttacked(p.KingSq[us], us^1) {
		p.restoreFrame(&frame)
		p.undoBoard(m)
		return false
	}

	var oldCastle = p.State & CastleMask
	p.State &= (castleMask[from] & castleMask[to]) | 1
	if PieceType(piece) == King {
		p.PawnKey ^= psqKey(piece, from) ^ psqKey(piece, to)
		if m.IsCastle() {
			var rookFrom, rookTo = castleRookSquares(to)
			var rook = MakePiece(Rook, us)
			p.movePiece(rookFrom, rookTo, rook)
			p.Key ^= psqKey(rook, rookFrom) ^ psqKey(rook, rookTo)
		}
	}

	p.State ^= 1
	p.Key ^= sideKey
	p.Checkers = p.computeCheckers()
	if p.SideToMove() == SideWhite {
		p.FullMove++
	}

	if p.EpSquare != SquareNone {
		p.Key ^= epKey[p.EpSquare]
	}
	p.EpSquare = m.EpSquare()
	if p.EpSquare != SquareNone {
		p.Key ^= epKey[p.EpSquare]
	}

	p.Key ^= castleKey(oldCastle ^ p.State&CastleMask)

	p.Ply++
	p.repetitions.add(p.Key)
	p.history = append(p.history, frame)
	return true
}

// undoBoard reverts the piece placement of m.
func (p *Position) undoBoard(m Move) {
	var from, to, piece = m.From(), m.To(), m.Piece()
	var captured, promotion = m.Captured(), m.Promotion()

	if promotion != Empty {
		p.clearPiece(to, promotion)
		p.setPiece(from, piece)
	} else {
		p.movePiece(to, from, piece)
	}

	if captured != Empty {
		if m.IsEnPassant() {
			p.setPiece(epCaptureSquare(from, to), captured)
		} else {
			p.setPiece(to, captured)
		}
	}
}

// UnplayMove takes back m, which must be the last move played.
func (p *Position) UnplayMove(m Move) {
	assert(len(p.history) > 0 && p.history[len(p.history)-1].move == m, "unplay of a move not on top of history")

	p.repetitions.remove(p.Key)
	p.Ply--

	var frame = &p.history[len(p.history)-1]
	p.restoreFrame(frame)
	p.history = p.history[:len(p.history)-1]

	p.undoBoard(m)
	if m.IsCastle() {
		var rookFrom, rookTo = castleRookSquares(m.To())
		p.movePiece(rookTo, rookFrom, MakePiece(Rook, p.SideToMove()))
	}
}

// PlayNullMove passes the turn. The en passant square is dropped while the null move is on the board.
func (p *Position) PlayNullMove() {
	p.history = append(p.history, p.saveFrame(MoveEmpty))
	p.State ^= 1
	p.Key ^= sideKey
	if p.EpSquare != SquareNone {
		p.Key ^= epKey[p.EpSquare]
		p.EpSquare = SquareNone
	}
	p.Checkers = 0
	p.Ply++
}

func (p *Position) UnplayNullMove() {
	assert(len(p.history) > 0 && p.history[len(p.history)-1].move == MoveEmpty, "unplay null move")
	p.Ply--
	p.restoreFrame(&p.history[len(p.history)-1])
	p.history = p.history[:len(p.history)-1]
}
