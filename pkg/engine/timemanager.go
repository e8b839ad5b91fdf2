package engine

import (
	"context"
	"sync"
	"time"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

// timeManager cancels the search context when a limit is reached.
// While pondering no limit is armed until PonderHit.
type timeManager struct {
	mu        sync.Mutex
	start     time.Time
	limits    LimitsType
	softLimit time.Duration
	hardLimit time.Duration
	cancel    context.CancelFunc
	timer     *time.Timer
	pondering bool
}

func newTimeManager(ctx context.Context, start time.Time, limits LimitsType,
	side int, moveOverhead time.Duration) (context.Context, *timeManager) {

	var tm = &timeManager{
		start:     start,
		limits:    limits,
		pondering: limits.Ponder,
	}

	if limits.MoveTime > 0 {
		tm.hardLimit = Max(time.Millisecond, time.Duration(limits.MoveTime)*time.Millisecond-moveOverhead)
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if side == SideWhite {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.softLimit, tm.hardLimit = calcLimits(main, inc, limits.MovesToGo, moveOverhead)
	}

	ctx, tm.cancel = context.WithCancel(ctx)
	if !tm.pondering {
		tm.arm()
	}
	return ctx, tm
}

func (tm *timeManager) arm() {
	if tm.hardLimit != 0 && !tm.limits.Infinite {
		tm.timer = time.AfterFunc(tm.hardLimit-time.Since(tm.start), tm.cancel)
	}
}

// PonderHit starts the clock for a search that was pondering.
func (tm *timeManager) PonderHit() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if !tm.pondering {
		return
	}
	tm.pondering = false
	tm.start = time.Now()
	tm.arm()
}

func (tm *timeManager) OnNodesChanged(nodes int64) {
	if tm.limits.Nodes > 0 && nodes >= int64(tm.limits.Nodes) {
		tm.cancel()
	}
}

func (tm *timeManager) OnIterationComplete(line mainLine) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.limits.Infinite || tm.pondering {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if tm.limits.Mate != 0 && line.score >= winIn(2*tm.limits.Mate) {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if tm.softLimit != 0 &&
		time.Since(tm.start) >= tm.softLimit {
		tm.cancel()
		return
	}
}

func (tm *timeManager) Close() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.timer != nil {
		tm.timer.Stop()
	}
	tm.cancel()
}

func calcLimits(main, inc time.Duration, moves int, moveOverhead time.Duration) (soft, hard time.Duration) {
	const (
		DefaultMovesToGo = 40
		MinTimeLimit     = 1 * time.Millisecond
	)

	main -= moveOverhead
	if main < MinTimeLimit {
		main = MinTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = Min(moves, DefaultMovesToGo)
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = Clamp(hard, MinTimeLimit, main)
	soft = Clamp(soft, MinTimeLimit, main)

	return
}
