// Package tablebase defines how the engine consults endgame tablebases.
package tablebase

import (
	"github.com/ChizhovVadim/CounterSMP/pkg/common"
)

// WDL is a win/draw/loss result from the side to move's point of view.
// Cursed wins and blessed losses are decided by the 50-move rule.
type WDL int

const (
	WDLLoss        WDL = -2
	WDLBlessedLoss WDL = -1
	WDLDraw        WDL = 0
	WDLCursedWin   WDL = 1
	WDLWin         WDL = 2
)

// Prober answers tablebase queries. A false ok means the position is not covered.
type Prober interface {
	// MaxPieces is the largest piece count, kings included, that tables exist for.
	MaxPieces() int
	// ProbeRoot keeps the root moves that preserve the DTZ result, scored best first.
	ProbeRoot(p *common.Position, moves []common.OrderedMove, rule50 bool) (result []common.OrderedMove, ok bool)
	// ProbeRootWDL keeps the root moves that preserve the WDL result.
	ProbeRootWDL(p *common.Position, moves []common.OrderedMove, rule50 bool) (result []common.OrderedMove, ok bool)
	ProbeWDL(p *common.Position) (wdl WDL, ok bool)
}

// NoopProber is used when no tablebase path is configured.
type NoopProber struct{}

func (NoopProber) MaxPieces() int { return 0 }

func (NoopProber) ProbeRoot(p *common.Position, moves []common.OrderedMove, rule50 bool) ([]common.OrderedMove, bool) {
	return moves, false
}

func (NoopProber) ProbeRootWDL(p *common.Position, moves []common.OrderedMove, rule50 bool) ([]common.OrderedMove, bool) {
	return moves, false
}

func (NoopProber) ProbeWDL(p *common.Position) (WDL, bool) {
	return WDLDraw, false
}

// WDLScore ranks a WDL result as a move ordering key.
func WDLScore(wdl WDL) int32 {
	return int32(wdl) * 1000
}
