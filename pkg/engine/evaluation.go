package engine

import (
	"fmt"
	"strings"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

var pieceValues = [King + 1]Score{
	Pawn:   S(82, 94),
	Knight: S(337, 281),
	Bishop: S(365, 297),
	Rook:   S(477, 512),
	Queen:  S(1025, 936),
}

const tempo = 10

// psq[piece][sq] holds material plus placement, white positive.
var psq [PieceNB][64]Score

func centerDistance(sq int) int {
	var fileDist = Min(AbsDelta(File(sq), FileD), AbsDelta(File(sq), FileE))
	var rankDist = Min(AbsDelta(Rank(sq), Rank4), AbsDelta(Rank(sq), Rank5))
	return Max(fileDist, rankDist)
}

func init() {
	for sq := 0; sq < 64; sq++ {
		var center = 3 - centerDistance(sq)
		var placement [King + 1]Score
		placement[Knight] = S(8*center-10, 6*center-8)
		placement[Bishop] = S(4*center, 4*center)
		placement[Rook] = S(0, 2*center)
		placement[Queen] = S(2*center, 5*center)
		for side := SideWhite; side <= SideBlack; side++ {
			var rank = RelativeRank(sq, side)
			placement[Pawn] = S(4*rank+let(center >= 2, 8, 0), 6*rank)
			placement[King] = S(let(rank == Rank1, 20, -10*rank), 10*center)
			for pt := Pawn; pt <= King; pt++ {
				var s = pieceValues[pt] + placement[pt]
				if side == SideBlack {
					s = -s
				}
				psq[MakePiece(pt, side)][sq] = s
			}
		}
	}
}

func let(ok bool, yes, no int) int {
	if ok {
		return yes
	}
	return no
}

// Evaluator is a material, placement and pawn structure evaluation.
// Each worker owns one because its caches are not shared.
type Evaluator struct {
	pawnTable     *PawnTable
	materialTable *MaterialTable
}

func NewEvaluator(pawnTable *PawnTable, materialTable *MaterialTable) *Evaluator {
	return &Evaluator{
		pawnTable:     pawnTable,
		materialTable: materialTable,
	}
}

type evalTerms struct {
	psq      Score
	material *materialEntry
	pawns    *pawnEntry
	mixed    int
	scaled   int
	result   int
}

func (e *Evaluator) compute(p *Position) evalTerms {
	var t evalTerms
	for x := p.AllPieces(); x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		t.psq += psq[p.Board[sq]][sq]
	}
	t.material = e.materialTable.probe(p)
	t.pawns = e.pawnTable.probe(p)

	var s = t.psq + t.material.score + t.pawns.score
	var phase = t.material.phase
	t.mixed = (s.Mg()*phase + s.Eg()*(totalPhase-phase)) / totalPhase

	t.scaled = t.mixed
	if t.mixed > 0 {
		t.scaled = t.mixed * t.material.scale[SideWhite] / scaleNormal
	} else {
		t.scaled = t.mixed * t.material.scale[SideBlack] / scaleNormal
	}

	t.result = t.scaled
	if p.SideToMove() == SideBlack {
		t.result = -t.result
	}
	t.result += tempo
	return t
}

// Evaluate returns the score from the side to move's point of view.
func (e *Evaluator) Evaluate(p *Position) int {
	return e.compute(p).result
}

// Trace prints the evaluation terms, white positive unless noted.
func (e *Evaluator) Trace(p *Position) string {
	var t = e.compute(p)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s %v\n", "psq", t.psq)
	fmt.Fprintf(&sb, "%-12s %v\n", "material", t.material.score)
	fmt.Fprintf(&sb, "%-12s %v\n", "pawns", t.pawns.score)
	fmt.Fprintf(&sb, "%-12s %d/%d\n", "phase", t.material.phase, totalPhase)
	fmt.Fprintf(&sb, "%-12s %d %d\n", "scale", t.material.scale[SideWhite], t.material.scale[SideBlack])
	fmt.Fprintf(&sb, "%-12s %d\n", "mixed", t.mixed)
	fmt.Fprintf(&sb, "%-12s %d\n", "scaled", t.scaled)
	fmt.Fprintf(&sb, "%-12s %d (side to move)", "total", t.result)
	return sb.String()
}
