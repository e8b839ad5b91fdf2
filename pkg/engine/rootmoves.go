package engine

import (
	"strings"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/tablebase"
)

// RootMoves is the legal move list of the root position.
type RootMoves struct {
	Moves       []OrderedMove
	DefaultMove Move
	// UseTablebase allows probing inside the search; off when the root was resolved by DTZ tables
	UseTablebase  bool
	TablebaseRoot bool
}

// Generate collects the legal moves of p with their ordering scores.
// The best scored move becomes the default move.
func (rm *RootMoves) Generate(p *Position) {
	var buffer [MaxMoves]OrderedMove
	var ml = p.GenerateMoves(buffer[:])
	rm.Moves = rm.Moves[:0]
	rm.DefaultMove = MoveEmpty
	rm.TablebaseRoot = false
	var best = int32(-1 << 30)
	for i := range ml {
		var m = ml[i].Move
		if !p.PlayMove(m) {
			continue
		}
		p.UnplayMove(m)
		var key = int32(noisyScore(m))
		rm.Moves = append(rm.Moves, OrderedMove{Move: m, Key: key})
		if key > best {
			best = key
			rm.DefaultMove = m
		}
	}
}

// FilterTablebase restricts the root moves to those preserving the tablebase result.
func (rm *RootMoves) FilterTablebase(p *Position, prober tablebase.Prober, rule50 bool) bool {
	var maxPieces = prober.MaxPieces()
	rm.UseTablebase = maxPieces > 0
	rm.TablebaseRoot = false
	if len(rm.Moves) == 0 || p.MaterialCount() > maxPieces {
		return false
	}
	var moves, ok = prober.ProbeRoot(p, rm.Moves, rule50)
	if ok {
		rm.UseTablebase = false
	} else {
		moves, ok = prober.ProbeRootWDL(p, rm.Moves, rule50)
	}
	if !ok || len(moves) == 0 {
		return false
	}
	rm.Moves = moves
	sortMoves(rm.Moves)
	rm.DefaultMove = rm.Moves[0].Move
	rm.TablebaseRoot = true
	return true
}

// Restrict keeps only the moves named in lans. An empty or unmatched list leaves the moves unchanged.
func (rm *RootMoves) Restrict(lans []string) {
	if len(lans) == 0 {
		return
	}
	var result []OrderedMove
	for _, om := range rm.Moves {
		for _, lan := range lans {
			if strings.EqualFold(om.Move.String(), lan) {
				result = append(result, om)
				break
			}
		}
	}
	if len(result) == 0 {
		return
	}
	rm.Moves = result
	var found = false
	for _, om := range rm.Moves {
		if om.Move == rm.DefaultMove {
			found = true
		}
	}
	if !found {
		rm.DefaultMove = rm.Moves[0].Move
	}
}

func (rm *RootMoves) Clone() RootMoves {
	var result = *rm
	result.Moves = append([]OrderedMove(nil), rm.Moves...)
	return result
}

func (rm *RootMoves) moveToFront(m Move) {
	for i := range rm.Moves {
		if rm.Moves[i].Move == m {
			var item = rm.Moves[i]
			copy(rm.Moves[1:i+1], rm.Moves[:i])
			rm.Moves[0] = item
			return
		}
	}
}
