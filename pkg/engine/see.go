package engine

import (
	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

// indexed by piece type
var seeValues = [King + 1]int{Empty: 0, Pawn: 100, Knight: 325, Bishop: 325, Rook: 500, Queen: 975, King: 20000}

func seeValue(piece int) int {
	return seeValues[PieceType(piece)]
}

// tacticalValue is the material won by the move itself.
func tacticalValue(m Move) int {
	var value = seeValue(m.Captured())
	if m.IsPromotion() {
		value += seeValue(m.Promotion()) - seeValues[Pawn]
	}
	return value
}

func seeGEZero(p *Position, m Move) bool {
	return SeeGE(p, m, 0)
}

// SeeGE reports whether the exchange started by m on its target square
// gains at least threshold. Based on Ethereal.
func SeeGE(p *Position, m Move, threshold int) bool {
	var from, to = m.From(), m.To()

	var balance = tacticalValue(m) - threshold
	if balance < 0 {
		return false
	}

	var nextVictim = m.Piece()
	if m.IsPromotion() {
		nextVictim = m.Promotion()
	}
	balance -= seeValue(nextVictim)
	if balance >= 0 {
		return true
	}

	var occupied = p.AllPieces()&^SquareMask[from] | SquareMask[to]
	if m.IsEnPassant() {
		occupied &^= SquareMask[MakeSquare(File(to), Rank(from))]
	}

	var bishops = p.Bishops()
	var rooks = p.Rooks()
	var attackers = p.AttackersTo(to, occupied) & occupied

	var us = p.SideToMove()
	var side = us ^ 1

	for {
		var myAttackers = attackers & p.Colours[side]
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = leastValuableAttacker(p, myAttackers, side)

		occupied &^= SquareMask[attackerFrom]

		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen || attackerType == King {
			attackers |= BishopAttacks(to, occupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen || attackerType == King {
			attackers |= RookAttacks(to, occupied) & rooks
		}

		attackers &= occupied

		side ^= 1

		balance = -balance - 1 - seeValues[attackerType]
		if balance >= 0 {
			// a king cannot recapture into a defended square
			if attackerType == King && attackers&p.Colours[side] != 0 {
				side ^= 1
			}
			break
		}
	}

	return side != us
}

func leastValuableAttacker(p *Position, attackers uint64, side int) (attacker, from int) {
	for pt := Pawn; pt <= King; pt++ {
		if b := attackers & p.PiecesByType(pt, side); b != 0 {
			return pt, FirstOne(b)
		}
	}
	return Empty, SquareNone
}

// BestPossibleCapture bounds the material the side to move can win with one move.
func BestPossibleCapture(p *Position) int {
	var us = p.SideToMove()
	var them = us ^ 1
	var value = 0
	switch {
	case p.PiecesByType(Queen, them) != 0:
		value = seeValues[Queen]
	case p.PiecesByType(Rook, them) != 0:
		value = seeValues[Rook]
	case p.PiecesByType(Knight, them)|p.PiecesByType(Bishop, them) != 0:
		value = seeValues[Knight]
	case p.PiecesByType(Pawn, them) != 0:
		value = seeValues[Pawn]
	}
	var rank7 = Rank7Mask
	if us == SideBlack {
		rank7 = Rank2Mask
	}
	if p.PiecesByType(Pawn, us)&rank7 != 0 {
		value += seeValues[Queen] - seeValues[Pawn]
	}
	return value
}
