package engine

import (
	"testing"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
)

func mustPosition(t *testing.T, fen string) *Position {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustMove(t *testing.T, p *Position, lan string) Move {
	t.Helper()
	var m, err = p.ParseMove(lan)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSee(t *testing.T) {
	var tests = []struct {
		fen   string
		move  string
		value int
	}{
		{"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1", "e1e5", 100},
		{"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1", "d3e5", -225},
		{"4k3/8/3p4/4p3/3P4/8/8/4K3 w - - 0 1", "d4e5", 0},
		{"4k3/8/8/3p2N1/8/8/8/4K3 w - - 0 1", "g5e4", -325},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a7", 0},
	}
	for _, test := range tests {
		var p = mustPosition(t, test.fen)
		var m = mustMove(t, p, test.move)
		if !SeeGE(p, m, test.value) {
			t.Errorf("%v %v: expected see >= %v", test.fen, test.move, test.value)
		}
		if SeeGE(p, m, test.value+1) {
			t.Errorf("%v %v: expected see < %v", test.fen, test.move, test.value+1)
		}
	}
}

func TestSeeThresholdMonotonic(t *testing.T) {
	var p = mustPosition(t, "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateMoves(buffer[:]) {
		var prev = true
		for threshold := -1000; threshold <= 1000; threshold += 25 {
			var cur = SeeGE(p, om.Move, threshold)
			if cur && !prev {
				t.Fatalf("%v: see not monotonic at %v", om.Move, threshold)
			}
			prev = cur
		}
	}
}

func TestBestPossibleCapture(t *testing.T) {
	var tests = []struct {
		fen   string
		value int
	}{
		{InitialPositionFen, 975},
		{"4k3/P7/8/8/8/8/8/r3K3 w - - 0 1", 500 + 975 - 100},
		{"4k3/8/8/8/8/8/p7/4K3 b - - 0 1", 975 - 100},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
	}
	for _, test := range tests {
		var p = mustPosition(t, test.fen)
		if v := BestPossibleCapture(p); v != test.value {
			t.Errorf("%v: got %v want %v", test.fen, v, test.value)
		}
	}
}
