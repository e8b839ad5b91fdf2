package engine

import (
	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

const pawnEntrySize = 32

type pawnEntry struct {
	key    uint64
	score  Score
	passed [2]uint64
}

// PawnTable caches pawn structure and king shelter terms by pawn key.
// Each worker owns one.
type PawnTable struct {
	megabytes int
	entries   []pawnEntry
	mask      uint64
}

func NewPawnTable(megabytes int) *PawnTable {
	var size = roundPowerOfTwo(megabytes * (1 << 20) / pawnEntrySize)
	return &PawnTable{
		megabytes: megabytes,
		entries:   make([]pawnEntry, size),
		mask:      uint64(size - 1),
	}
}

func (pt *PawnTable) Size() int {
	return pt.megabytes
}

func (pt *PawnTable) Clear() {
	for i := range pt.entries {
		pt.entries[i] = pawnEntry{}
	}
}

func (pt *PawnTable) probe(p *Position) *pawnEntry {
	var entry = &pt.entries[p.PawnKey&pt.mask]
	if entry.key != p.PawnKey || entry.key == 0 {
		evalPawns(p, entry)
		entry.key = p.PawnKey
	}
	return entry
}

var (
	pawnDoubled   = S(-10, -20)
	pawnIsolated  = S(-10, -10)
	pawnShield    = S(12, 0)
	pawnPassed    = [8]Score{S(0, 0), S(0, 5), S(0, 10), S(10, 20), S(20, 35), S(30, 60), S(50, 100), S(0, 0)}
	adjacentFiles [8]uint64
	fileMasks     = [8]uint64{FileAMask, FileBMask, FileCMask, FileDMask, FileEMask, FileFMask, FileGMask, FileHMask}
	// forwardMask[side][sq] holds the squares ahead of sq on its own and adjacent files
	forwardMask [2][64]uint64
)

func init() {
	for f := FileA; f <= FileH; f++ {
		if f > FileA {
			adjacentFiles[f] |= fileMasks[f-1]
		}
		if f < FileH {
			adjacentFiles[f] |= fileMasks[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		var files = fileMasks[File(sq)] | adjacentFiles[File(sq)]
		for r := Rank(sq) + 1; r <= Rank8; r++ {
			forwardMask[SideWhite][sq] |= files & (Rank1Mask << (8 * r))
		}
		for r := Rank(sq) - 1; r >= Rank1; r-- {
			forwardMask[SideBlack][sq] |= files & (Rank1Mask << (8 * r))
		}
	}
}

func evalPawns(p *Position, entry *pawnEntry) {
	var score Score
	for side := SideWhite; side <= SideBlack; side++ {
		var s Score
		var own = p.PiecesByType(Pawn, side)
		var opp = p.PiecesByType(Pawn, side^1)
		entry.passed[side] = 0
		for x := own; x != 0; x &= x - 1 {
			var sq = FirstOne(x)
			var file = File(sq)
			if MoreThanOne(own & fileMasks[file]) {
				s += pawnDoubled
			}
			if own&adjacentFiles[file] == 0 {
				s += pawnIsolated
			}
			if forwardMask[side][sq]&opp == 0 && forwardMask[side][sq]&fileMasks[file]&own == 0 {
				entry.passed[side] |= SquareMask[sq]
				s += pawnPassed[RelativeRank(sq, side)]
			}
		}
		var shield = KingAttacks[p.KingSq[side]] & forwardMask[side][p.KingSq[side]] & own
		s += pawnShield * Score(PopCount(shield))
		if side == SideWhite {
			score += s
		} else {
			score -= s
		}
	}
	entry.score = score
}
