package common

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"lukechampine.com/frand"
)

var testFens = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
}

func mustPosition(t *testing.T, fen string) *Position {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func checkKeys(t *testing.T, p *Position) {
	t.Helper()
	var key, pawnKey, matKey = p.ComputeKeys()
	if key != p.Key || pawnKey != p.PawnKey || matKey != p.MaterialKey {
		t.Fatalf("hash mismatch in %v after %v", p, p.LastMove())
	}
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFens {
		var p = mustPosition(t, fen)
		if p.String() != fen {
			t.Error(fen, p.String())
		}
	}
}

func TestBadFen(t *testing.T) {
	var tests = []string{
		"",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"k6R/8/8/8/8/8/8/K7 w - - 0 1",
	}
	var p = mustPosition(t, InitialPositionFen)
	for _, fen := range tests {
		if err := p.SetFEN(fen); err == nil {
			t.Error("expected error", fen)
		}
	}
	if p.String() != InitialPositionFen {
		t.Error("position changed after bad fen", p)
	}
}

func TestRootMoveCount(t *testing.T) {
	var p = mustPosition(t, InitialPositionFen)
	if n := len(p.GenerateLegalMoves()); n != 20 {
		t.Error(n)
	}
}

func TestLegalMovesMatchReference(t *testing.T) {
	for _, fen := range testFens {
		var p = mustPosition(t, fen)
		var got []string
		for _, m := range p.GenerateLegalMoves() {
			got = append(got, m.String())
		}
		var board = dragontoothmg.ParseFen(fen)
		var want []string
		for _, m := range board.GenerateLegalMoves() {
			want = append(want, m.String())
		}
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Errorf("%v: got %v want %v", fen, got, want)
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%v: got %v want %v", fen, got, want)
				break
			}
		}
	}
}

func TestPlayUnplayRestores(t *testing.T) {
	for _, fen := range testFens {
		var p = mustPosition(t, fen)
		var before = *p
		var buffer [MaxMoves]OrderedMove
		for _, om := range p.GenerateMoves(buffer[:]) {
			if p.PlayMove(om.Move) {
				checkKeys(t, p)
				if p.Ply != before.Ply+1 {
					t.Fatal("ply not advanced", om.Move)
				}
				p.UnplayMove(om.Move)
			}
			if p.Board != before.Board || p.Pieces != before.Pieces || p.Colours != before.Colours ||
				p.State != before.State || p.EpSquare != before.EpSquare || p.Key != before.Key ||
				p.PawnKey != before.PawnKey || p.MaterialKey != before.MaterialKey ||
				p.Rule50 != before.Rule50 || p.Ply != before.Ply || p.repetitions != before.repetitions {
				t.Fatalf("%v: %v not restored", fen, om.Move)
			}
		}
	}
}

func TestIllegalMoveRollback(t *testing.T) {
	// the d2 pawn is pinned by the bishop on a5
	var p = mustPosition(t, "6k1/8/8/b7/8/8/3P4/4K3 w - - 0 1")
	var before = *p
	var m = NewMove(SquareD2, SquareD3, WhitePawn, Empty, Empty, 0)
	if !p.MoveIsPseudoLegal(m) {
		t.Fatal("expected pseudo-legal")
	}
	if p.PlayMove(m) {
		t.Fatal("pinned pawn moved")
	}
	if p.Board != before.Board || p.Key != before.Key || p.Ply != before.Ply ||
		len(p.history) != 0 || p.Rule50 != before.Rule50 {
		t.Fatal("position not restored")
	}
}

func TestRandomPlayoutKeys(t *testing.T) {
	for _, fen := range testFens {
		var p = mustPosition(t, fen)
		var played []Move
		for i := 0; i < 200; i++ {
			var moves = p.GenerateLegalMoves()
			if len(moves) == 0 || p.Rule50 >= 100 {
				break
			}
			var m = moves[frand.Intn(len(moves))]
			if !p.PlayMove(m) {
				t.Fatal("legal move rejected", m)
			}
			checkKeys(t, p)
			played = append(played, m)
		}
		for i := len(played) - 1; i >= 0; i-- {
			p.UnplayMove(played[i])
			checkKeys(t, p)
		}
		if p.String() != fen {
			t.Error(fen, p.String())
		}
	}
}

func TestDoublePushEnPassant(t *testing.T) {
	var p = mustPosition(t, InitialPositionFen)
	var m, err = p.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if m.EpSquare() != SquareNone || !p.PlayMove(m) || p.EpSquare != SquareNone {
		t.Error("en passant square set without an adjacent enemy pawn")
	}

	p = mustPosition(t, "rnbqkbnr/ppp1pppp/8/8/3p4/8/PPPPPPPP/RNBQKBNR w KQkq - 0 3")
	m, err = p.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if m.EpSquare() != SquareE3 || !p.PlayMove(m) || p.EpSquare != SquareE3 {
		t.Error("en passant square expected", m.EpSquare(), p.EpSquare)
	}
	checkKeys(t, p)
	ep, err := p.ParseMove("d4e3")
	if err != nil || !ep.IsEnPassant() {
		t.Fatal("en passant capture not generated", err)
	}
	if !p.PlayMove(ep) || p.Board[SquareE4] != Empty || p.Board[SquareE3] != BlackPawn {
		t.Error("en passant capture", p)
	}
	checkKeys(t, p)
}

func TestPseudoLegalAgreesWithGenerator(t *testing.T) {
	var positions []*Position
	for _, fen := range testFens {
		positions = append(positions, mustPosition(t, fen))
	}
	var buffer [MaxMoves]OrderedMove
	for _, p := range positions {
		var generated = make(map[Move]bool)
		for _, om := range p.GenerateMoves(buffer[:]) {
			generated[om.Move] = true
			if !p.MoveIsPseudoLegal(om.Move) {
				t.Errorf("%v: %v generated but not pseudo-legal", p, om.Move)
			}
			if p.ShortMoveToFull(om.Move.ShortMove()) != om.Move {
				t.Errorf("%v: short move %v not restored", p, om.Move)
			}
		}
		var legal = make(map[Move]bool)
		for _, m := range p.GenerateLegalMoves() {
			legal[m] = true
		}
		// moves from other positions are accepted only if the generator produces them
		for _, other := range positions {
			for _, om := range other.GenerateMoves(buffer[:]) {
				if p.MoveIsPseudoLegal(om.Move) && !generated[om.Move] && p.Checkers == 0 {
					t.Errorf("%v: foreign move %v accepted", p, om.Move)
				}
			}
		}
		for m := range legal {
			if !generated[m] {
				t.Errorf("%v: legal move %v missing", p, m)
			}
		}
	}
}

func TestMoveGivesCheck(t *testing.T) {
	var p = mustPosition(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	var check, _ = p.ParseMove("a1a8")
	var quiet, _ = p.ParseMove("a1b1")
	if !p.MoveGivesCheck(check) || p.MoveGivesCheck(quiet) {
		t.Error(check, quiet)
	}
	if !p.PlayMove(check) || !p.IsCheck() {
		t.Error("check not detected after move")
	}
}

func TestNullMove(t *testing.T) {
	var p = mustPosition(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	var before = *p
	p.PlayNullMove()
	if p.SideToMove() != SideBlack || p.EpSquare != SquareNone || p.Ply != 1 {
		t.Error("null move", p)
	}
	checkKeys(t, p)
	p.UnplayNullMove()
	if p.Key != before.Key || p.EpSquare != before.EpSquare || p.State != before.State || p.Ply != 0 {
		t.Error("null move not restored", p)
	}
}

func TestRepetition(t *testing.T) {
	var p = mustPosition(t, InitialPositionFen)
	for _, lan := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		var m, err = p.ParseMove(lan)
		if err != nil || !p.PlayMove(m) {
			t.Fatal(lan, err)
		}
	}
	if p.RepetitionCount() != 2 || !p.IsDraw() {
		t.Error("repetition not detected", p.RepetitionCount())
	}
}

func TestCopyFromIsDeep(t *testing.T) {
	var p = mustPosition(t, InitialPositionFen)
	var m, _ = p.ParseMove("e2e4")
	p.PlayMove(m)
	var q Position
	q.CopyFrom(p)
	var r, _ = q.ParseMove("e7e5")
	q.PlayMove(r)
	q.UnplayMove(r)
	q.UnplayMove(m)
	if p.LastMove() != m || p.Ply != 1 {
		t.Error("source changed by copy")
	}
}
