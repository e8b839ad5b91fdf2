package engine

import (
	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

const (
	minorPhase = 4
	rookPhase  = 6
	queenPhase = 12
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

const (
	scaleDraw   = 0
	scaleHard   = 1
	scaleNormal = 2
)

const materialTableSize = 1 << 13

type materialEntry struct {
	key        uint64
	phase      int
	score      Score
	scale      [2]int
	pieceCount [2][King + 1]int
	force      [2]int
}

// MaterialTable caches material-only terms by material key.
type MaterialTable struct {
	entries [materialTableSize]materialEntry
}

func NewMaterialTable() *MaterialTable {
	return &MaterialTable{}
}

func (mt *MaterialTable) Clear() {
	mt.entries = [materialTableSize]materialEntry{}
}

func (mt *MaterialTable) probe(p *Position) *materialEntry {
	var entry = &mt.entries[p.MaterialKey&(materialTableSize-1)]
	if entry.key != p.MaterialKey || entry.key == 0 {
		evalMaterial(p, entry)
		entry.key = p.MaterialKey
	}
	return entry
}

var bishopPair = S(30, 50)

func evalMaterial(p *Position, e *materialEntry) {
	for side := SideWhite; side <= SideBlack; side++ {
		for pt := Pawn; pt <= King; pt++ {
			e.pieceCount[side][pt] = PopCount(p.PiecesByType(pt, side))
		}
		e.force[side] = minorPhase*(e.pieceCount[side][Knight]+e.pieceCount[side][Bishop]) +
			rookPhase*e.pieceCount[side][Rook] + queenPhase*e.pieceCount[side][Queen]
	}

	e.phase = Min(totalPhase, e.force[SideWhite]+e.force[SideBlack])

	e.score = 0
	if e.pieceCount[SideWhite][Bishop] >= 2 {
		e.score += bishopPair
	}
	if e.pieceCount[SideBlack][Bishop] >= 2 {
		e.score -= bishopPair
	}

	for side := SideWhite; side <= SideBlack; side++ {
		e.scale[side] = computeFactor(e, side)
	}
}

// computeFactor scales down the advantage of side in drawish material configurations.
func computeFactor(e *materialEntry, side int) int {
	if e.force[side] >= queenPhase+rookPhase {
		return scaleNormal
	}
	if e.pieceCount[side][Pawn] == 0 {
		if e.force[side] <= minorPhase {
			return scaleDraw
		}
		if e.force[side] == 2*minorPhase && e.pieceCount[side][Knight] == 2 && e.pieceCount[side^1][Pawn] == 0 {
			return scaleDraw
		}
		if e.force[side]-e.force[side^1] <= minorPhase {
			return scaleHard
		}
	} else if e.pieceCount[side][Pawn] == 1 {
		if e.force[side] <= minorPhase && e.pieceCount[side^1][Knight]+e.pieceCount[side^1][Bishop] != 0 {
			return scaleHard
		}
		if e.force[side] == e.force[side^1] && e.pieceCount[side^1][Knight]+e.pieceCount[side^1][Bishop] != 0 {
			return scaleHard
		}
	}
	return scaleNormal
}
