package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const pieceChars = "PpNnBbRrQqKk"

func pieceFromChar(ch rune) int {
	var i = strings.IndexRune(pieceChars, ch)
	if i < 0 {
		return Empty
	}
	return WhitePawn + i
}

func pieceToChar(piece int) string {
	return string(pieceChars[piece-WhitePawn])
}

func NewPositionFromFEN(fen string) (*Position, error) {
	var p = &Position{}
	if err := p.SetFEN(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// SetFEN replaces the position. On error p is left unchanged.
func (p *Position) SetFEN(fen string) error {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return fmt.Errorf("parse fen failed %v", fen)
	}

	var np = Position{EpSquare: SquareNone, FullMove: 1}

	var rank, file = Rank8, FileA
	for _, ch := range tokens[0] {
		switch {
		case ch == '/':
			rank--
			file = FileA
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
		default:
			var piece = pieceFromChar(ch)
			if piece == Empty || file > FileH || rank < Rank1 {
				return fmt.Errorf("parse fen failed %v", fen)
			}
			np.setPiece(MakeSquare(file, rank), piece)
			file++
		}
	}

	switch tokens[1] {
	case "w":
	case "b":
		np.State |= SideBlack
	default:
		return fmt.Errorf("parse fen failed %v: side to move", fen)
	}

	for _, ch := range tokens[2] {
		switch ch {
		case 'K':
			np.State |= WhiteKingSide
		case 'Q':
			np.State |= WhiteQueenSide
		case 'k':
			np.State |= BlackKingSide
		case 'q':
			np.State |= BlackQueenSide
		}
	}

	var epSquare, err = ParseSquare(tokens[3])
	if err != nil {
		return fmt.Errorf("parse fen failed %v: %w", fen, err)
	}

	if len(tokens) > 4 {
		np.Rule50, _ = strconv.Atoi(tokens[4])
	}
	if len(tokens) > 5 {
		if n, err := strconv.Atoi(tokens[5]); err == nil && n > 0 {
			np.FullMove = n
		}
	}

	for side := SideWhite; side <= SideBlack; side++ {
		var kings = np.PiecesByType(King, side)
		if kings == 0 || MoreThanOne(kings) {
			return fmt.Errorf("parse fen failed %v: kings", fen)
		}
		np.KingSq[side] = FirstOne(kings)
	}

	np.State &= castleRightsAllowed(&np)

	// keep en passant only when a capture is actually possible
	if epSquare != SquareNone {
		var us = np.SideToMove()
		var pushed = epSquare + let(us == SideWhite, -8, 8)
		if pushed >= 0 && pushed < 64 && np.Board[pushed] == MakePiece(Pawn, us^1) &&
			PawnAttacks(epSquare, us^1)&np.PiecesByType(Pawn, us) != 0 {
			np.EpSquare = epSquare
		}
	}

	np.Key, np.PawnKey, np.MaterialKey = np.ComputeKeys()
	np.Checkers = np.computeCheckers()

	if err := np.validate(); err != nil {
		return fmt.Errorf("parse fen failed %v: %w", fen, err)
	}

	np.repetitions.add(np.Key)
	np.history = p.history[:0]
	*p = np
	return nil
}

func castleRightsAllowed(p *Position) int {
	var allowed = ^CastleMask
	if p.Board[SquareE1] == WhiteKing {
		if p.Board[SquareH1] == WhiteRook {
			allowed |= WhiteKingSide
		}
		if p.Board[SquareA1] == WhiteRook {
			allowed |= WhiteQueenSide
		}
	}
	if p.Board[SquareE8] == BlackKing {
		if p.Board[SquareH8] == BlackRook {
			allowed |= BlackKingSide
		}
		if p.Board[SquareA8] == BlackRook {
			allowed |= BlackQueenSide
		}
	}
	return allowed
}

func (p *Position) validate() error {
	if (p.Pieces[WhitePawn]|p.Pieces[BlackPawn])&(Rank1Mask|Rank8Mask) != 0 {
		return errors.New("pawn on back rank")
	}
	var side = p.SideToMove()
	if p.IsAttacked(p.KingSq[side^1], side) {
		return errors.New("side not to move is in check")
	}
	var all uint64
	for piece := WhitePawn; piece < PieceNB; piece++ {
		if all&p.Pieces[piece] != 0 {
			return errors.New("pieces overlap")
		}
		all |= p.Pieces[piece]
		for x := p.Pieces[piece]; x != 0; x &= x - 1 {
			if p.Board[FirstOne(x)] != piece {
				return errors.New("board and bitboards disagree")
			}
		}
	}
	if all != p.AllPieces() || PopCount(all) > 32 {
		return errors.New("bad occupancy")
	}
	return nil
}

func (p *Position) String() string {
	var sb strings.Builder

	for rank := Rank8; rank >= Rank1; rank-- {
		var emptyCount = 0
		for file := FileA; file <= FileH; file++ {
			var piece = p.Board[MakeSquare(file, rank)]
			if piece == Empty {
				emptyCount++
				continue
			}
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(pieceToChar(piece))
		}
		if emptyCount != 0 {
			sb.WriteString(strconv.Itoa(emptyCount))
		}
		if rank != Rank1 {
			sb.WriteString("/")
		}
	}

	if p.SideToMove() == SideWhite {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights() == 0 {
		sb.WriteString("-")
	} else {
		if p.State&WhiteKingSide != 0 {
			sb.WriteString("K")
		}
		if p.State&WhiteQueenSide != 0 {
			sb.WriteString("Q")
		}
		if p.State&BlackKingSide != 0 {
			sb.WriteString("k")
		}
		if p.State&BlackQueenSide != 0 {
			sb.WriteString("q")
		}
	}

	sb.WriteString(" ")
	sb.WriteString(SquareName(p.EpSquare))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.Rule50))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.FullMove))
	return sb.String()
}
