package engine

import (
	"math"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/tablebase"
)

const pawnValue = 100

var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = int(0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25)
		}
	}
}

func lmr(depth, movesSearched int) int {
	return lmrTable[Min(depth, 63)][Min(movesSearched, 63)]
}

func (w *Worker) aspirationWindow(depth, prevScore int) int {
	if depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		const Window = 25
		var alpha = Max(-valueInfinity, prevScore-Window)
		var beta = Min(valueInfinity, prevScore+Window)
		var score = w.searchRoot(alpha, beta, depth)
		if w.stopped || score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = w.searchRoot(alpha, beta, depth)
		if w.stopped || score > alpha && score < beta {
			return score
		}
	}
	return w.searchRoot(-valueInfinity, valueInfinity, depth)
}

// searchRoot iterates the root move list instead of generating moves.
// The best move is moved to the front for the next iteration.
func (w *Worker) searchRoot(alpha, beta, depth int) int {
	const height = 0
	var p = &w.position
	w.clearPV(height)
	w.stack[height].excluded = MoveEmpty

	var best = -valueInfinity
	var bestMove = MoveEmpty
	var oldAlpha = alpha
	var movesSearched = 0

	for i := range w.rootMoves.Moves {
		var move = w.rootMoves.Moves[i].Move
		if !w.playMove(move) {
			continue
		}
		movesSearched++

		var newDepth = depth - 1
		if p.IsCheck() {
			newDepth++
		}

		var score = alpha + 1
		if movesSearched > 1 {
			var reduction = 0
			if depth >= 3 && !move.IsCaptureOrPromotion() && !p.IsCheck() {
				reduction = Max(0, Min(depth-2, lmr(depth, movesSearched)-1))
			}
			score = -w.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
			if score > alpha && reduction > 0 {
				score = -w.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
			}
		}
		if score > alpha {
			score = -w.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		w.unplayMove(move)
		if w.stopped {
			return 0
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			w.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if bestMove != MoveEmpty {
		w.rootMoves.moveToFront(bestMove)
	}

	var bound = 0
	if best > oldAlpha {
		bound |= boundLower
	}
	if best < beta {
		bound |= boundUpper
	}
	if bound != boundUpper {
		w.engine.transTable.Update(p.Key, depth, valueToTT(best, height), bound, bestMove.ShortMove())
	}
	return best
}

func tablebaseScore(wdl tablebase.WDL, height int, rule50 bool) int {
	switch {
	case wdl == tablebase.WDLWin || wdl == tablebase.WDLCursedWin && !rule50:
		return valueTablebaseWin - height
	case wdl == tablebase.WDLLoss || wdl == tablebase.WDLBlessedLoss && !rule50:
		return -valueTablebaseWin + height
	case wdl == tablebase.WDLCursedWin:
		return 1
	case wdl == tablebase.WDLBlessedLoss:
		return -1
	}
	return valueDraw
}

func (w *Worker) alphaBeta(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return w.quiescence(alpha, beta, height)
	}
	w.clearPV(height)

	var p = &w.position
	var pvNode = beta != alpha+1
	var isCheck = p.IsCheck()
	var excluded = w.stack[height].excluded

	if height >= maxHeight {
		return w.evaluator.Evaluate(p)
	}
	if p.IsDraw() {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta && !isCheck {
		return beta
	}

	var (
		ttDepth, ttValue, ttBound int
		ttMove                    Move
		ttHit                     bool
	)
	if excluded == MoveEmpty {
		var shortMove uint16
		ttDepth, ttValue, ttBound, shortMove, ttHit = w.engine.transTable.Read(p.Key)
		if ttHit {
			ttMove = p.ShortMoveToFull(shortMove)
			ttValue = valueFromTT(ttValue, height)
			if ttDepth >= depth && !pvNode {
				if ttValue >= beta && (ttBound&boundLower) != 0 {
					if ttMove != MoveEmpty && !ttMove.IsCaptureOrPromotion() {
						w.updateKiller(ttMove, height)
					}
					return ttValue
				}
				if ttValue <= alpha && (ttBound&boundUpper) != 0 {
					return ttValue
				}
			}
		}

		var prober = w.engine.prober
		if w.rootMoves.UseTablebase && p.Rule50 == 0 && p.MaterialCount() <= prober.MaxPieces() {
			if wdl, ok := prober.ProbeWDL(p); ok {
				w.tbHits.Add(1)
				var score = tablebaseScore(wdl, height, w.engine.config.Syzygy50MoveRule)
				w.engine.transTable.Update(p.Key, Min(maxHeight, depth+6), valueToTT(score, height), boundExact, 0)
				return score
			}
		}
	}

	var staticEval = w.evaluator.Evaluate(p)
	w.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > w.stack[height-2].staticEval

	if height+2 <= maxHeight {
		w.stack[height+2].killer1 = MoveEmpty
		w.stack[height+2].killer2 = MoveEmpty
	}

	var us = p.SideToMove()

	if excluded == MoveEmpty && !pvNode && !isCheck {
		// reverse futility pruning
		if depth <= 8 && beta > valueLoss && beta < valueWin &&
			staticEval-pawnValue*depth >= beta {
			return staticEval
		}

		// null-move pruning
		if depth >= 2 && p.LastMove() != MoveEmpty &&
			beta < valueWin && staticEval >= beta &&
			!(ttHit && ttValue < beta && (ttBound&boundUpper) != 0) &&
			!isLateEndgame(p, us) &&
			!(w.nullMoveSide == us && height < w.nullMovePly) {
			var reduction = 4 + depth/6 + Min(2, (staticEval-beta)/200)
			w.playNullMove()
			var score = -w.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1)
			w.unplayNullMove()
			if w.stopped {
				return 0
			}
			if score >= beta {
				if score >= valueWin {
					score = beta
				}
				if depth < 12 || w.nullMovePly != 0 {
					return score
				}
				// verification search with null moves disabled for this side
				w.nullMovePly = height + 3*(depth-reduction)/4
				w.nullMoveSide = us
				var verified = w.alphaBeta(beta-1, beta, depth-reduction, height)
				w.nullMovePly = 0
				if w.stopped {
					return 0
				}
				if verified >= beta {
					return score
				}
			}
		}
	}

	// singular extension
	var ttMoveIsSingular = false
	if excluded == MoveEmpty && depth >= 8 &&
		ttHit && ttMove != MoveEmpty &&
		(ttBound&boundLower) != 0 && ttDepth >= depth-3 &&
		ttValue > valueLoss && ttValue < valueWin {
		var singularBeta = Max(-valueInfinity, ttValue-depth)
		w.stack[height].excluded = ttMove
		var score = w.alphaBeta(singularBeta-1, singularBeta, depth/2, height)
		w.stack[height].excluded = MoveEmpty
		if w.stopped {
			return 0
		}
		ttMoveIsSingular = score < singularBeta
	}

	var killer1 = w.stack[height].killer1
	var killer2 = w.stack[height].killer2
	var historyContext = w.history.context(p)
	var mi = moveIterator{
		position:  p,
		buffer:    w.stack[height].moveList[:],
		history:   historyContext,
		transMove: ttMove,
		killer1:   killer1,
		killer2:   killer2,
	}
	mi.Init()

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0
	var quietsSearched = w.stack[height].quietsSearched[:0]
	var bestMove Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if move == excluded {
			continue
		}
		var isNoisy = move.IsCaptureOrPromotion()
		if !isNoisy {
			quietsSeen++
		}
		var isQuiet = !(isNoisy || move == killer1 || move == killer2 || p.MoveGivesCheck(move))

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck {
			// late-move pruning
			if isQuiet && quietsSeen > lmp {
				continue
			}

			// futility pruning
			if isQuiet && staticEval+100+pawnValue*depth <= alpha {
				continue
			}

			// SEE pruning
			var seeMargin int
			if isNoisy {
				seeMargin = Max(depth, (staticEval+pawnValue-alpha)/pawnValue)
			} else {
				seeMargin = depth / 2
			}
			if !SeeGE(p, move, -seeMargin*pawnValue) {
				continue
			}
		}

		if !w.playMove(move) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var givesCheck = p.IsCheck()
		var extension, reduction int
		if givesCheck && depth >= 3 {
			extension = 1
		}
		if move == ttMove && ttMoveIsSingular {
			extension = 1
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = lmr(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				reduction -= Max(-2, Min(2, historyContext.ReadTotal(move)/5000))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || givesCheck {
				reduction--
			}
			reduction = Max(0, Min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -w.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		// PVS
		if score > alpha && pvNode && movesSearched > 1 {
			score = -w.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		// full search
		if score > alpha {
			score = -w.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		w.unplayMove(move)
		if w.stopped {
			return 0
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			w.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck && excluded == MoveEmpty {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !bestMove.IsCaptureOrPromotion() {
		historyContext.Update(quietsSearched, bestMove, depth)
		w.updateKiller(bestMove, height)
	}

	if excluded == MoveEmpty {
		ttBound = 0
		if best > oldAlpha {
			ttBound |= boundLower
		}
		if best < beta {
			ttBound |= boundUpper
		}
		w.engine.transTable.Update(p.Key, depth, valueToTT(best, height), ttBound, bestMove.ShortMove())
	}

	return best
}

func (w *Worker) quiescence(alpha, beta, height int) int {
	w.clearPV(height)
	var p = &w.position
	if p.IsDraw() {
		return valueDraw
	}
	if height >= maxHeight {
		return w.evaluator.Evaluate(p)
	}

	var _, ttValue, ttBound, _, ttHit = w.engine.transTable.Read(p.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = p.IsCheck()
	var best = -valueInfinity
	var eval = 0
	if !isCheck {
		eval = w.evaluator.Evaluate(p)
		best = eval
		if eval > alpha {
			alpha = eval
			if alpha >= beta {
				return alpha
			}
		}
		// delta pruning: even the best capture cannot raise alpha
		const deltaMargin = 200
		if eval+BestPossibleCapture(p)+deltaMargin <= alpha {
			return best
		}
	}

	var mi = moveIteratorQS{
		position: p,
		buffer:   w.stack[height].moveList[:],
	}
	mi.Init()
	var hasLegalMove = false
	for {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !isCheck && !seeGEZero(p, move) {
			continue
		}
		if !w.playMove(move) {
			continue
		}
		hasLegalMove = true
		var score = -w.quiescence(-beta, -alpha, height+1)
		w.unplayMove(move)
		if w.stopped {
			return 0
		}
		best = Max(best, score)
		if score > alpha {
			alpha = score
			w.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}
