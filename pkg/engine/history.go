package engine

import . "github.com/ChizhovVadim/CounterSMP/pkg/common"

const historyMax = 1 << 14

type history struct {
	main         [2][64 * 64]int16
	continuation [PieceNB * 64][PieceNB * 64]int16
}

type historyContext struct {
	history *history
	side    int
	cont1   int
}

func (h *history) context(p *Position) historyContext {
	var cont1 = -1
	if prev := p.LastMove(); prev != MoveEmpty {
		cont1 = pieceSquareIndex(prev)
	}
	return historyContext{
		history: h,
		side:    p.SideToMove(),
		cont1:   cont1,
	}
}

func (h *historyContext) ReadTotal(m Move) int {
	var score = int(h.history.main[h.side][fromToIndex(m)])
	if h.cont1 != -1 {
		score += int(h.history.continuation[h.cont1][pieceSquareIndex(m)])
	}
	return score
}

func (h *historyContext) Update(quietsSearched []Move, bestMove Move, depth int) {
	var bonus = Min(depth*depth, 400)
	for _, m := range quietsSearched {
		var good = m == bestMove
		updateHistory(&h.history.main[h.side][fromToIndex(m)], bonus, good)
		if h.cont1 != -1 {
			updateHistory(&h.history.continuation[h.cont1][pieceSquareIndex(m)], bonus, good)
		}
		if good {
			break
		}
	}
}

// Exponential moving average
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	*v += int16((newVal - int(*v)) * bonus / 512)
}

func (h *history) Clear() {
	*h = history{}
}

func pieceSquareIndex(m Move) int {
	return m.Piece()<<6 | m.To()
}

func fromToIndex(m Move) int {
	return m.From()<<6 | m.To()
}
