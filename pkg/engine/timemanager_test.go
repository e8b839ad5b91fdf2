package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

func TestCalcLimits(t *testing.T) {
	var tests = []struct {
		main, inc time.Duration
		moves     int
	}{
		{time.Minute, 0, 0},
		{time.Minute, time.Second, 0},
		{time.Minute, 0, 1},
		{time.Minute, 0, 30},
		{10 * time.Millisecond, 0, 0},
		{0, 0, 0},
	}
	for _, test := range tests {
		var soft, hard = calcLimits(test.main, test.inc, test.moves, 0)
		if soft <= 0 || soft > hard {
			t.Errorf("%+v: soft %v hard %v", test, soft, hard)
		}
		if hard > Max(test.main, time.Millisecond) {
			t.Errorf("%+v: hard %v exceeds clock", test, hard)
		}
	}
	var soft, _ = calcLimits(time.Minute, 0, 0, 0)
	var softOverhead, _ = calcLimits(time.Minute, 0, 0, 5*time.Second)
	if softOverhead >= soft {
		t.Errorf("move overhead ignored: %v %v", soft, softOverhead)
	}
}

func TestTimeManagerMoveTime(t *testing.T) {
	var start = time.Now()
	var ctx, tm = newTimeManager(context.Background(), start, LimitsType{MoveTime: 30}, SideWhite, 0)
	defer tm.Close()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("move time not enforced")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("stopped too early")
	}
}

func TestTimeManagerDepth(t *testing.T) {
	var ctx, tm = newTimeManager(context.Background(), time.Now(), LimitsType{Depth: 3}, SideBlack, 0)
	defer tm.Close()
	tm.OnIterationComplete(mainLine{depth: 2})
	if ctx.Err() != nil {
		t.Fatal("stopped before depth")
	}
	tm.OnIterationComplete(mainLine{depth: 3})
	if ctx.Err() == nil {
		t.Error("depth limit ignored")
	}
}

func TestTimeManagerPonder(t *testing.T) {
	var ctx, tm = newTimeManager(context.Background(), time.Now(), LimitsType{Ponder: true, MoveTime: 10}, SideWhite, 0)
	defer tm.Close()
	tm.OnIterationComplete(mainLine{depth: 1, score: winIn(1)})
	time.Sleep(30 * time.Millisecond)
	if ctx.Err() != nil {
		t.Fatal("pondering search stopped")
	}
	tm.PonderHit()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("ponderhit did not arm the clock")
	}
}

func TestTimeManagerNodes(t *testing.T) {
	var ctx, tm = newTimeManager(context.Background(), time.Now(), LimitsType{Nodes: 1000}, SideWhite, 0)
	defer tm.Close()
	tm.OnNodesChanged(999)
	if ctx.Err() != nil {
		t.Fatal("stopped early")
	}
	tm.OnNodesChanged(1000)
	if ctx.Err() == nil {
		t.Error("node limit ignored")
	}
}
