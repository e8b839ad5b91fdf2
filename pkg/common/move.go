package common

import (
	"fmt"
	"strings"
)

// Move packs piece<<28 | ept<<20 | capture<<16 | promotion<<12 | from<<6 | to.
type Move uint32

const MoveEmpty = Move(0)

// epCaptureFlag marks an en-passant capture in the ept field.
const epCaptureFlag = 0x40

func NewMove(from, to, piece, capture, promotion, ept int) Move {
	return Move(piece<<28 | ept<<20 | capture<<16 | promotion<<12 | from<<6 | to)
}

func (m Move) From() int {
	return int(m>>6) & 63
}

func (m Move) To() int {
	return int(m) & 63
}

func (m Move) Piece() int {
	return int(m>>28) & 15
}

func (m Move) Captured() int {
	return int(m>>16) & 15
}

func (m Move) Promotion() int {
	return int(m>>12) & 15
}

func (m Move) Ept() int {
	return int(m>>20) & 0xff
}

func (m Move) IsEnPassant() bool {
	return m.Ept() == epCaptureFlag
}

// EpSquare is the square skipped by a double push that allows an en-passant reply.
func (m Move) EpSquare() int {
	if ept := m.Ept(); ept != 0 && ept != epCaptureFlag {
		return ept
	}
	return SquareNone
}

func (m Move) IsCapture() bool {
	return m.Captured() != Empty
}

func (m Move) IsPromotion() bool {
	return m.Promotion() != Empty
}

func (m Move) IsCaptureOrPromotion() bool {
	return m&0xff000 != 0
}

func (m Move) IsCastle() bool {
	return PieceType(m.Piece()) == King && FileDistance(m.From(), m.To()) == 2
}

// ShortMove keeps from, to and the promotion piece, as stored in the hash table.
func (m Move) ShortMove() uint16 {
	return uint16(m & 0xffff)
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "(none)"
	}
	var sPromotion = ""
	if m.IsPromotion() {
		sPromotion = string("nbrq"[PieceType(m.Promotion())-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMove finds the pseudo-legal move written in long algebraic notation.
func (p *Position) ParseMove(lan string) (Move, error) {
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		if strings.EqualFold(om.Move.String(), lan) {
			return om.Move, nil
		}
	}
	return MoveEmpty, fmt.Errorf("move %v not found", lan)
}

func MovesToString(moves []Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
