package engine

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/tablebase"
)

type fakeProber struct {
	maxPieces int
	dtz       []string
	wdl       []string
	probes    int
}

func (f *fakeProber) MaxPieces() int { return f.maxPieces }

func (f *fakeProber) filter(moves []OrderedMove, keep []string) ([]OrderedMove, bool) {
	if keep == nil {
		return moves, false
	}
	var result []OrderedMove
	for i, lan := range keep {
		for _, om := range moves {
			if om.Move.String() == lan {
				result = append(result, OrderedMove{Move: om.Move, Key: int32(i)})
			}
		}
	}
	return result, true
}

func (f *fakeProber) ProbeRoot(p *Position, moves []OrderedMove, rule50 bool) ([]OrderedMove, bool) {
	return f.filter(moves, f.dtz)
}

func (f *fakeProber) ProbeRootWDL(p *Position, moves []OrderedMove, rule50 bool) ([]OrderedMove, bool) {
	return f.filter(moves, f.wdl)
}

func (f *fakeProber) ProbeWDL(p *Position) (tablebase.WDL, bool) {
	f.probes++
	return tablebase.WDLDraw, true
}

func TestRootMovesGenerate(t *testing.T) {
	var tests = []struct {
		fen   string
		count int
	}{
		{InitialPositionFen, 20},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 48},
		{"6k1/8/8/b7/8/8/3P4/4K3 w - - 0 1", 4},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
	}
	for _, test := range tests {
		var p = mustPosition(t, test.fen)
		var rm RootMoves
		rm.Generate(p)
		if len(rm.Moves) != test.count {
			t.Errorf("%v: got %v moves want %v", test.fen, len(rm.Moves), test.count)
			continue
		}
		if test.count == 0 {
			if rm.DefaultMove != MoveEmpty {
				t.Errorf("%v: unexpected default move %v", test.fen, rm.DefaultMove)
			}
			continue
		}
		var found = false
		for _, om := range rm.Moves {
			if om.Move == rm.DefaultMove {
				found = true
			}
		}
		if !found {
			t.Errorf("%v: default move %v not in list", test.fen, rm.DefaultMove)
		}
		if p.String() != test.fen {
			t.Errorf("position changed: %v", p)
		}
	}
}

func TestRootMovesDefaultPrefersCapture(t *testing.T) {
	var p = mustPosition(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
	var rm RootMoves
	rm.Generate(p)
	if rm.DefaultMove.String() != "d1d5" {
		t.Errorf("default move %v", rm.DefaultMove)
	}
}

func TestFilterTablebase(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	var tests = []struct {
		name         string
		prober       *fakeProber
		ok           bool
		useTablebase bool
		moves        []string
	}{
		{"dtz", &fakeProber{maxPieces: 5, dtz: []string{"e2e4", "e2e3"}}, true, false, []string{"e2e3", "e2e4"}},
		{"wdl", &fakeProber{maxPieces: 5, wdl: []string{"e1d2"}}, true, true, []string{"e1d2"}},
		{"miss", &fakeProber{maxPieces: 5}, false, true, nil},
		{"too many pieces", &fakeProber{maxPieces: 2, dtz: []string{"e2e4"}}, false, true, nil},
	}
	for _, test := range tests {
		var p = mustPosition(t, fen)
		var rm RootMoves
		rm.Generate(p)
		var count = len(rm.Moves)
		var ok = rm.FilterTablebase(p, test.prober, true)
		if ok != test.ok || rm.UseTablebase != test.useTablebase || rm.TablebaseRoot != test.ok {
			t.Errorf("%v: ok %v useTablebase %v", test.name, ok, rm.UseTablebase)
			continue
		}
		if !ok {
			if len(rm.Moves) != count {
				t.Errorf("%v: moves changed", test.name)
			}
			continue
		}
		if len(rm.Moves) != len(test.moves) {
			t.Errorf("%v: got %v moves", test.name, len(rm.Moves))
			continue
		}
		for i := range test.moves {
			if rm.Moves[i].Move.String() != test.moves[i] {
				t.Errorf("%v: move %v is %v", test.name, i, rm.Moves[i].Move)
			}
		}
		if rm.DefaultMove != rm.Moves[0].Move {
			t.Errorf("%v: default move %v", test.name, rm.DefaultMove)
		}
	}
}

func TestFilterTablebaseNoop(t *testing.T) {
	var p = mustPosition(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	var rm RootMoves
	rm.Generate(p)
	if rm.FilterTablebase(p, tablebase.NoopProber{}, true) || rm.UseTablebase {
		t.Error("noop prober must not filter")
	}
}

func TestFilterTablebaseDirectory(t *testing.T) {
	var dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "KPvK.rtbw"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var d, err = tablebase.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	var p = mustPosition(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	var rm RootMoves
	rm.Generate(p)
	if rm.FilterTablebase(p, d, true) || rm.UseTablebase {
		t.Error("directory without decoder must not enable tablebase search")
	}
}

func TestRootMovesRestrict(t *testing.T) {
	var p = mustPosition(t, InitialPositionFen)
	var rm RootMoves
	rm.Generate(p)
	var clone = rm.Clone()
	clone.Restrict([]string{"e2e4", "d2d4", "a1a5"})
	if len(clone.Moves) != 2 {
		t.Fatalf("got %v moves", len(clone.Moves))
	}
	if clone.DefaultMove.String() != "e2e4" && clone.DefaultMove.String() != "d2d4" {
		t.Errorf("default move %v", clone.DefaultMove)
	}
	if len(rm.Moves) != 20 {
		t.Error("clone shares moves")
	}
	clone.Restrict([]string{"h1h8"})
	if len(clone.Moves) != 2 {
		t.Error("unmatched restriction must keep moves")
	}
}
