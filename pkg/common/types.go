package common

import "time"

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	SideWhite = iota
	SideBlack
)

// piece types
const (
	Empty int = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// piece codes: type<<1 | side
const (
	WhitePawn   = Pawn<<1 | SideWhite
	BlackPawn   = Pawn<<1 | SideBlack
	WhiteKnight = Knight<<1 | SideWhite
	BlackKnight = Knight<<1 | SideBlack
	WhiteBishop = Bishop<<1 | SideWhite
	BlackBishop = Bishop<<1 | SideBlack
	WhiteRook   = Rook<<1 | SideWhite
	BlackRook   = Rook<<1 | SideBlack
	WhiteQueen  = Queen<<1 | SideWhite
	BlackQueen  = Queen<<1 | SideBlack
	WhiteKing   = King<<1 | SideWhite
	BlackKing   = King<<1 | SideBlack
	PieceNB     = BlackKing + 1
)

const (
	MaxMoves = 256
	// MaxGameLength bounds the history a position keeps for a single line.
	MaxGameLength = 1024
)

func MakePiece(pieceType, side int) int {
	return pieceType<<1 | side
}

func PieceType(piece int) int {
	return piece >> 1
}

func PieceSide(piece int) int {
	return piece & 1
}

type OrderedMove struct {
	Move Move
	Key  int32
}

type LimitsType struct {
	Ponder         bool
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	Mate           int
	SearchMoves    []string
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	Nodes    int64
	TbHits   int64
	Time     time.Duration
	MainLine []Move
}

type UciScore struct {
	Centipawns int
	Mate       int
}
