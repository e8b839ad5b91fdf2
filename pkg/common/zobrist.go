package common

import "math/rand"

var (
	// pieceSquareKey is indexed by sq<<4|piece; the material hash reuses it
	// with a piece count in place of the square.
	pieceSquareKey [64 << 4]uint64
	sideKey        uint64
	epKey          [64]uint64
	castlingKey    [CastleMask + 2]uint64
	castleMask     [64]int
)

func init() {
	var r = rand.New(rand.NewSource(0))
	for i := range pieceSquareKey {
		pieceSquareKey[i] = r.Uint64()
	}
	sideKey = r.Uint64()
	for i := range epKey {
		epKey[i] = r.Uint64()
	}
	for i := range castlingKey {
		castlingKey[i] = r.Uint64()
	}
	castlingKey[0] = 0

	for i := range castleMask {
		castleMask[i] = CastleMask
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}

func psqKey(piece, sq int) uint64 {
	return pieceSquareKey[sq<<4|piece]
}

// materialKey is the hash term for the count-th piece of its kind.
func materialKey(piece, count int) uint64 {
	return pieceSquareKey[count<<4|piece]
}

func castleKey(rights int) uint64 {
	var key uint64
	for x := rights & CastleMask; x != 0; x &= x - 1 {
		key ^= castlingKey[FirstOne(uint64(x))]
	}
	return key
}

// ComputeKeys recomputes the three hashes from scratch.
func (p *Position) ComputeKeys() (key, pawnKey, matKey uint64) {
	for sq := 0; sq < 64; sq++ {
		var piece = p.Board[sq]
		if piece == Empty {
			continue
		}
		key ^= psqKey(piece, sq)
		if pt := PieceType(piece); pt == Pawn || pt == King {
			pawnKey ^= psqKey(piece, sq)
		}
	}
	for piece := WhitePawn; piece < PieceNB; piece++ {
		for i := 0; i < PopCount(p.Pieces[piece]); i++ {
			matKey ^= materialKey(piece, i)
		}
	}
	if p.State&1 == SideBlack {
		key ^= sideKey
	}
	if p.EpSquare != SquareNone {
		key ^= epKey[p.EpSquare]
	}
	key ^= castleKey(p.State)
	return
}
