package common

const (
	WhiteKingSide  = 2
	WhiteQueenSide = 4
	BlackKingSide  = 8
	BlackQueenSide = 16
	CastleMask     = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

const repetitionMask = 1<<14 - 1

// repetitionTable counts occurrences of position keys by their low bits.
// Collisions are tolerated; SetPosition prunes entries a pawn move or capture made unreachable.
type repetitionTable [repetitionMask + 1]uint8

func (t *repetitionTable) add(key uint64) {
	t[key&repetitionMask]++
}

func (t *repetitionTable) remove(key uint64) {
	if t[key&repetitionMask] > 0 {
		t[key&repetitionMask]--
	}
}

func (t *repetitionTable) count(key uint64) int {
	return int(t[key&repetitionMask])
}

// historyFrame is the irreversible state saved before a move is played.
type historyFrame struct {
	move        Move
	state       int
	epSquare    int
	rule50      int
	fullMove    int
	key         uint64
	pawnKey     uint64
	materialKey uint64
	checkers    uint64
	kingSq      [2]int
}

type Position struct {
	Pieces      [PieceNB]uint64
	Colours     [2]uint64
	Board       [64]int
	State       int
	EpSquare    int
	Rule50      int
	FullMove    int
	Key         uint64
	PawnKey     uint64
	MaterialKey uint64
	Checkers    uint64
	KingSq      [2]int
	// Ply counts moves played since the root.
	Ply         int
	history     []historyFrame
	repetitions repetitionTable
}

func (p *Position) SideToMove() int {
	return p.State & 1
}

func (p *Position) CastleRights() int {
	return p.State & CastleMask
}

func (p *Position) AllPieces() uint64 {
	return p.Colours[SideWhite] | p.Colours[SideBlack]
}

func (p *Position) PiecesByType(pieceType, side int) uint64 {
	return p.Pieces[MakePiece(pieceType, side)]
}

func (p *Position) Bishops() uint64 {
	return p.Pieces[WhiteBishop] | p.Pieces[BlackBishop] | p.Pieces[WhiteQueen] | p.Pieces[BlackQueen]
}

func (p *Position) Rooks() uint64 {
	return p.Pieces[WhiteRook] | p.Pieces[BlackRook] | p.Pieces[WhiteQueen] | p.Pieces[BlackQueen]
}

// LastMove is the move that led to the current position, MoveEmpty at the root or after a null move.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return MoveEmpty
	}
	return p.history[len(p.history)-1].move
}

func (p *Position) setPiece(sq, piece int) {
	var b = SquareMask[sq]
	p.Pieces[piece] |= b
	p.Colours[PieceSide(piece)] |= b
	p.Board[sq] = piece
}

func (p *Position) clearPiece(sq, piece int) {
	var b = SquareMask[sq]
	p.Pieces[piece] &^= b
	p.Colours[PieceSide(piece)] &^= b
	p.Board[sq] = Empty
}

func (p *Position) movePiece(from, to, piece int) {
	var b = SquareMask[from] | SquareMask[to]
	p.Pieces[piece] ^= b
	p.Colours[PieceSide(piece)] ^= b
	p.Board[from] = Empty
	p.Board[to] = piece
}

// AttackersTo returns pieces of both sides attacking sq given the occupancy.
func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	return (PawnAttacks(sq, SideBlack) & p.Pieces[WhitePawn]) |
		(PawnAttacks(sq, SideWhite) & p.Pieces[BlackPawn]) |
		(KnightAttacks[sq] & (p.Pieces[WhiteKnight] | p.Pieces[BlackKnight])) |
		(KingAttacks[sq] & (p.Pieces[WhiteKing] | p.Pieces[BlackKing])) |
		(BishopAttacks(sq, occ) & p.Bishops()) |
		(RookAttacks(sq, occ) & p.Rooks())
}

func (p *Position) attackersBySide(sq, side int) uint64 {
	var occ = p.AllPieces()
	return ((PawnAttacks(sq, side^1) & p.PiecesByType(Pawn, side)) |
		(KnightAttacks[sq] & p.PiecesByType(Knight, side)) |
		(KingAttacks[sq] & p.PiecesByType(King, side)) |
		(BishopAttacks(sq, occ) & (p.PiecesByType(Bishop, side) | p.PiecesByType(Queen, side))) |
		(RookAttacks(sq, occ) & (p.PiecesByType(Rook, side) | p.PiecesByType(Queen, side))))
}

func (p *Position) IsAttacked(sq, bySide int) bool {
	return p.attackersBySide(sq, bySide) != 0
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

func (p *Position) computeCheckers() uint64 {
	var side = p.SideToMove()
	return p.attackersBySide(p.KingSq[side], side^1)
}

// RepetitionCount returns how often the current key was seen in the game and search line.
func (p *Position) RepetitionCount() int {
	return p.repetitions.count(p.Key)
}

// ForgetRepetitions removes keys that can no longer repeat.
func (p *Position) ForgetRepetitions(keys []uint64) {
	for _, key := range keys {
		p.repetitions.remove(key)
	}
}

// IsDraw reports 50-move rule, repetition and insufficient material draws.
func (p *Position) IsDraw() bool {
	if p.Rule50 >= 100 || p.RepetitionCount() >= 2 {
		return true
	}
	return p.insufficientMaterial()
}

func (p *Position) insufficientMaterial() bool {
	if p.Pieces[WhitePawn]|p.Pieces[BlackPawn]|p.Rooks() != 0 {
		return false
	}
	var minors = p.Pieces[WhiteKnight] | p.Pieces[BlackKnight] |
		p.Pieces[WhiteBishop] | p.Pieces[BlackBishop]
	return !MoreThanOne(minors)
}

// CopyFrom makes p an independent copy of src.
func (p *Position) CopyFrom(src *Position) {
	var history = p.history[:0]
	*p = *src
	p.history = append(history, src.history...)
}

// MarkRoot makes the current position the root of a search.
func (p *Position) MarkRoot() {
	p.history = p.history[:0]
	p.Ply = 0
}

// MaterialCount returns the number of pieces on the board, kings included.
func (p *Position) MaterialCount() int {
	return PopCount(p.AllPieces())
}

func (p *Position) Validate() error {
	return p.validate()
}
