package engine

import (
	"context"
	"sync/atomic"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

type pv struct {
	items [stackSize]Move
	size  int
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

// Worker is one search thread. It exclusively owns its position and evaluation caches.
type Worker struct {
	index         int
	engine        *Engine
	position      Position
	pawnTable     *PawnTable
	materialTable *MaterialTable
	evaluator     *Evaluator
	history       history
	rootMoves     RootMoves
	nodes         atomic.Int64
	tbHits        atomic.Int64
	ctx           context.Context
	stopped       bool
	nullMovePly   int
	nullMoveSide  int
	bestMove      Move
	bestScore     int
	depth         int
	stack         [stackSize + 1]struct {
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		staticEval     int
		killer1        Move
		killer2        Move
		excluded       Move
	}
}

func newWorker(e *Engine, index, pawnTableMegabytes int) *Worker {
	var w = &Worker{
		index:         index,
		engine:        e,
		pawnTable:     NewPawnTable(pawnTableMegabytes),
		materialTable: NewMaterialTable(),
	}
	w.evaluator = NewEvaluator(w.pawnTable, w.materialTable)
	w.position.SetFEN(InitialPositionFen)
	return w
}

// reset clears the per-search bookkeeping. Caches and history survive.
func (w *Worker) reset() {
	w.nodes.Store(0)
	w.tbHits.Store(0)
	w.stopped = false
	w.nullMovePly = 0
	w.nullMoveSide = 0
	w.bestMove = MoveEmpty
	w.bestScore = -valueInfinity
	w.depth = 0
	for h := range w.stack {
		w.stack[h].killer1 = MoveEmpty
		w.stack[h].killer2 = MoveEmpty
		w.stack[h].excluded = MoveEmpty
	}
}

func (w *Worker) clear() {
	w.history.Clear()
	w.pawnTable.Clear()
	w.materialTable.Clear()
}

func (w *Worker) Nodes() int64 {
	return w.nodes.Load()
}

func (w *Worker) incNodes() {
	var nodes = w.nodes.Add(1)
	if nodes&255 == 0 {
		if w.index == 0 {
			w.engine.timeManager.OnNodesChanged(w.engine.Nodes())
		}
		if w.ctx.Err() != nil {
			w.stopped = true
		}
	}
}

func (w *Worker) playMove(m Move) bool {
	if !w.position.PlayMove(m) {
		return false
	}
	w.incNodes()
	return true
}

func (w *Worker) unplayMove(m Move) {
	w.position.UnplayMove(m)
}

func (w *Worker) playNullMove() {
	w.position.PlayNullMove()
	w.incNodes()
}

func (w *Worker) unplayNullMove() {
	w.position.UnplayNullMove()
}

func (w *Worker) clearPV(height int) {
	w.stack[height].pv.clear()
}

func (w *Worker) assignPV(height int, m Move) {
	w.stack[height].pv.assign(m, &w.stack[height+1].pv)
}

func (w *Worker) updateKiller(move Move, height int) {
	if w.stack[height].killer1 != move {
		w.stack[height].killer2 = w.stack[height].killer1
		w.stack[height].killer1 = move
	}
}

// iterativeDeepening searches the root until ctx is cancelled or the depth runs out.
// Helpers start one ply deeper on odd indexes so threads spread over depths.
func (w *Worker) iterativeDeepening(ctx context.Context) error {
	w.ctx = ctx
	var score = 0
	for depth := 1 + w.index%2; depth <= maxHeight; depth++ {
		score = w.aspirationWindow(depth, score)
		if w.stopped || ctx.Err() != nil {
			break
		}
		var line = w.stack[0].pv.toSlice()
		if len(line) == 0 {
			line = []Move{w.rootMoves.Moves[0].Move}
		}
		w.bestMove = line[0]
		w.bestScore = score
		w.depth = depth
		w.engine.onIterationComplete(w, depth, score, line)
	}
	return nil
}
