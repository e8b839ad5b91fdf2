package engine

import . "github.com/ChizhovVadim/CounterSMP/pkg/common"

// noisyScore orders captures and promotions by the material they win,
// the cheaper mover first among equal gains. Quiet moves score below any capture.
func noisyScore(m Move) int {
	return 16*tacticalValue(m) - PieceType(m.Piece())
}

const (
	stageTransMove = iota
	stageGenerate
	stageGoodNoisy
	stageKiller1
	stageKiller2
	stageQuiets
	stageBadNoisy
	stageDone
)

// moveIterator yields the hash move, winning or equal captures, killers,
// quiets by history and finally losing captures. Moves are generated only
// after the hash move has been tried.
type moveIterator struct {
	position  *Position
	buffer    []OrderedMove
	history   historyContext
	transMove Move
	killer1   Move
	killer2   Move
	stage     int
	index     int
	// buffer[:goodEnd] good noisy, [quietStart:quietEnd] quiets left, [quietEnd:count] bad noisy
	goodEnd    int
	quietStart int
	quietEnd   int
	count      int
}

func (mi *moveIterator) Init() {
	mi.stage = stageTransMove
	mi.index = 0
}

func (mi *moveIterator) generate() {
	var ml = mi.position.GenerateMoves(mi.buffer)
	var n = len(ml)
	for i := 0; i < n; {
		if ml[i].Move == mi.transMove {
			n--
			ml[i] = ml[n]
			continue
		}
		i++
	}

	var good = 0
	for i := 0; i < n; i++ {
		var m = ml[i].Move
		if m.IsCaptureOrPromotion() && SeeGE(mi.position, m, 0) {
			ml[i].Key = int32(noisyScore(m))
			ml[good], ml[i] = ml[i], ml[good]
			good++
		}
	}
	var quiet = good
	for i := good; i < n; i++ {
		var m = ml[i].Move
		if !m.IsCaptureOrPromotion() {
			ml[i].Key = int32(mi.history.ReadTotal(m))
			ml[quiet], ml[i] = ml[i], ml[quiet]
			quiet++
		} else {
			ml[i].Key = int32(noisyScore(m))
		}
	}

	mi.goodEnd = good
	mi.quietStart = good
	mi.quietEnd = quiet
	mi.count = n
}

// takeKiller moves the killer to the front of the remaining quiets if it was generated.
func (mi *moveIterator) takeKiller(killer Move) bool {
	if killer == MoveEmpty || killer == mi.transMove {
		return false
	}
	for i := mi.quietStart; i < mi.quietEnd; i++ {
		if mi.buffer[i].Move == killer {
			mi.buffer[i], mi.buffer[mi.quietStart] = mi.buffer[mi.quietStart], mi.buffer[i]
			mi.quietStart++
			return true
		}
	}
	return false
}

func (mi *moveIterator) Next() Move {
	for {
		switch mi.stage {
		case stageTransMove:
			mi.stage = stageGenerate
			if mi.transMove != MoveEmpty {
				return mi.transMove
			}
		case stageGenerate:
			mi.generate()
			mi.index = 0
			mi.stage = stageGoodNoisy
		case stageGoodNoisy:
			if mi.index < mi.goodEnd {
				return pickBest(mi.buffer, &mi.index, mi.goodEnd)
			}
			mi.stage = stageKiller1
		case stageKiller1:
			mi.stage = stageKiller2
			if mi.takeKiller(mi.killer1) {
				return mi.killer1
			}
		case stageKiller2:
			mi.stage = stageQuiets
			mi.index = mi.quietStart
			if mi.killer2 != mi.killer1 && mi.takeKiller(mi.killer2) {
				mi.index = mi.quietStart
				return mi.killer2
			}
		case stageQuiets:
			if mi.index < mi.quietEnd {
				return pickBest(mi.buffer, &mi.index, mi.quietEnd)
			}
			mi.stage = stageBadNoisy
		case stageBadNoisy:
			if mi.index < mi.count {
				return pickBest(mi.buffer, &mi.index, mi.count)
			}
			mi.stage = stageDone
		default:
			return MoveEmpty
		}
	}
}

// moveIteratorQS yields captures and promotions, or all evasions when in check.
type moveIteratorQS struct {
	position *Position
	buffer   []OrderedMove
	index    int
	count    int
}

func (mi *moveIteratorQS) Init() {
	var ml []OrderedMove
	if mi.position.IsCheck() {
		ml = mi.position.GenerateMoves(mi.buffer)
	} else {
		ml = mi.position.GenerateCaptures(mi.buffer)
	}
	for i := range ml {
		ml[i].Key = int32(noisyScore(ml[i].Move))
	}
	mi.index = 0
	mi.count = len(ml)
}

func (mi *moveIteratorQS) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	return pickBest(mi.buffer, &mi.index, mi.count)
}

// pickBest swaps the highest key of ml[*index:end] to *index and returns it.
func pickBest(ml []OrderedMove, index *int, end int) Move {
	var best = *index
	for i := best + 1; i < end; i++ {
		if ml[i].Key > ml[best].Key {
			best = i
		}
	}
	ml[*index], ml[best] = ml[best], ml[*index]
	var m = ml[*index].Move
	*index++
	return m
}

func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}
