package uci

import (
	"bufio"
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/engine"
)

func newTestProtocol() (*Protocol, *engine.Engine, *bytes.Buffer) {
	var out = &bytes.Buffer{}
	var eng = engine.New(zerolog.Nop())
	return New("Counter", "Vadim Chizhov", "test", eng, out, zerolog.Nop()), eng, out
}

func outputLines(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func indexOfPrefix(lines []string, prefix string) int {
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}

func TestUciHandshake(t *testing.T) {
	var protocol, _, out = newTestProtocol()
	if err := protocol.Run(strings.NewReader("uci\nisready\nquit\n")); err != nil {
		t.Fatal(err)
	}
	var lines = outputLines(out)
	var expected = []string{
		"id name Counter test",
		"id author Vadim Chizhov",
		"option name Clear Hash type button",
		"option name Ponder type check default false",
		"option name MultiPV type spin default 1 min 1 max 64",
		"option name Threads type spin default 1 min 1 max 128",
		"option name Hash type spin default 16 min 1 max 1048576",
		"option name Move Overhead type spin default 50 min 0 max 5000",
		"option name SyzygyPath type string default <empty>",
		"option name Syzygy50MoveRule type check default true",
		"uciok",
		"readyok",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("got\n%v", out.String())
	}
}

func TestSearchCommand(t *testing.T) {
	var protocol, eng, out = newTestProtocol()
	var input = "setoption name Threads value 2\nposition startpos moves e2e4 e7e5\ngo depth 4\n"
	if err := protocol.Run(strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}
	if eng.Config().Threads != 2 {
		t.Errorf("threads %v", eng.Config().Threads)
	}
	var lines = outputLines(out)
	var last = lines[len(lines)-1]
	if !strings.HasPrefix(last, "bestmove ") {
		t.Fatalf("got\n%v", out.String())
	}
	var move, err = eng.Position().ParseMove(strings.Fields(last)[1])
	if err != nil || move == common.MoveEmpty {
		t.Errorf("bad best move %v", last)
	}
	if indexOfPrefix(lines, "info depth") == -1 {
		t.Error("no search info")
	}
}

func TestRunCommandsBlocks(t *testing.T) {
	var protocol, _, out = newTestProtocol()
	protocol.RunCommands([]string{
		"position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		"go depth 3",
	})
	var lines = outputLines(out)
	if lines[len(lines)-1] != "bestmove a1a8" {
		t.Errorf("got\n%v", out.String())
	}
	if !strings.Contains(out.String(), "score mate 1") {
		t.Errorf("no mate score\n%v", out.String())
	}
}

func TestPositionDuringSearch(t *testing.T) {
	var tests = []string{"go infinite", "go ponder wtime 1000 btime 1000"}
	for _, goCommand := range tests {
		var outReader, outWriter = io.Pipe()
		var eng = engine.New(zerolog.Nop())
		var protocol = New("Counter", "Vadim Chizhov", "test", eng, outWriter, zerolog.Nop())
		var lines = make(chan string)
		go func() {
			defer close(lines)
			var scanner = bufio.NewScanner(outReader)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		var reader, writer = io.Pipe()
		var done = make(chan error, 1)
		go func() {
			done <- protocol.Run(reader)
		}()
		go io.WriteString(writer, goCommand+"\nposition startpos moves e2e4\nisready\n")

		var bestmove, readyok = -1, -1
		var timeout = time.After(10 * time.Second)
		for i := 0; readyok == -1; i++ {
			select {
			case line := <-lines:
				if strings.HasPrefix(line, "bestmove") {
					bestmove = i
				} else if line == "readyok" {
					readyok = i
				}
			case <-timeout:
				t.Fatalf("%v: no readyok without stop", goCommand)
			}
		}
		if bestmove == -1 || bestmove > readyok {
			t.Errorf("%v: bestmove %v readyok %v", goCommand, bestmove, readyok)
		}
		const want = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
		if eng.Position().String() != want {
			t.Errorf("%v: position %v", goCommand, eng.Position())
		}
		if eng.IsRunning() {
			t.Errorf("%v: search still running", goCommand)
		}

		go func() {
			for range lines {
			}
		}()
		writer.Close()
		if err := <-done; err != nil {
			t.Fatal(err)
		}
		outWriter.Close()
	}
}

func TestQuitStopsSearch(t *testing.T) {
	var protocol, eng, out = newTestProtocol()
	protocol.execute("go infinite")
	protocol.RunCommands([]string{"quit", "isready"})
	if eng.IsRunning() {
		t.Error("search still running")
	}
	var lines = outputLines(out)
	if indexOfPrefix(lines, "bestmove") == -1 {
		t.Errorf("no bestmove\n%v", out.String())
	}
	if strings.Contains(out.String(), "unknown command") || indexOfPrefix(lines, "readyok") != -1 {
		t.Errorf("got\n%v", out.String())
	}
}

func TestCommandErrors(t *testing.T) {
	var tests = []string{
		"foo",
		"setoption name NoSuchOption value 1",
		"setoption name Threads value 1000",
		"position startpos moves e2e4 e2e4",
		"position nowhere",
		"go depth x",
		"debug maybe",
	}
	for _, command := range tests {
		var protocol, _, out = newTestProtocol()
		protocol.RunCommands([]string{command})
		if !strings.HasPrefix(out.String(), "info string ") {
			t.Errorf("%v: got %q", command, out.String())
		}
	}
}

func TestSetOptionWithSpaces(t *testing.T) {
	var protocol, eng, _ = newTestProtocol()
	protocol.RunCommands([]string{
		"setoption name Move Overhead value 120",
		"setoption name clear hash",
		"setoption name Hash value 0",
	})
	if eng.Config().MoveOverhead != 120 {
		t.Errorf("move overhead %v", eng.Config().MoveOverhead)
	}
	if eng.Config().Hash != 16 {
		t.Errorf("hash %v", eng.Config().Hash)
	}
}

func TestDebugAndDisplay(t *testing.T) {
	var protocol, _, out = newTestProtocol()
	protocol.RunCommands([]string{"debug on", "position startpos moves d2d4", "d", "eval"})
	var s = out.String()
	const fen = "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1"
	if !strings.Contains(s, "info string "+fen) || !strings.Contains(s, "info string fen "+fen) {
		t.Errorf("got\n%v", s)
	}
	if !strings.Contains(s, "materialkey") || !strings.Contains(s, "total") {
		t.Errorf("got\n%v", s)
	}
}

func TestParseLimits(t *testing.T) {
	var tests = []struct {
		args     string
		expected common.LimitsType
	}{
		{"wtime 1000 btime 2000 winc 10 binc 20 movestogo 5",
			common.LimitsType{WhiteTime: 1000, BlackTime: 2000, WhiteIncrement: 10, BlackIncrement: 20, MovesToGo: 5}},
		{"depth 7", common.LimitsType{Depth: 7}},
		{"nodes 1000 mate 3", common.LimitsType{Nodes: 1000, Mate: 3}},
		{"ponder movetime 500", common.LimitsType{Ponder: true, MoveTime: 500}},
		{"searchmoves e2e4 d2d4 infinite", common.LimitsType{SearchMoves: []string{"e2e4", "d2d4"}, Infinite: true}},
		{"", common.LimitsType{}},
	}
	for _, test := range tests {
		var limits, err = parseLimits(strings.Fields(test.args))
		if err != nil {
			t.Errorf("%q: %v", test.args, err)
			continue
		}
		if !reflect.DeepEqual(limits, test.expected) {
			t.Errorf("%q: got %+v", test.args, limits)
		}
	}
	for _, args := range []string{"depth", "wtime abc"} {
		if _, err := parseLimits(strings.Fields(args)); err == nil {
			t.Errorf("%q: expected error", args)
		}
	}
}

func TestSearchInfoToUci(t *testing.T) {
	var p, _ = common.NewPositionFromFEN(common.InitialPositionFen)
	var e2e4, _ = p.ParseMove("e2e4")
	var tests = []struct {
		si       common.SearchInfo
		info     string
		bestmove string
	}{
		{
			common.SearchInfo{Depth: 3, Score: common.UciScore{Centipawns: 25}, Nodes: 1000, Time: time.Second, MainLine: []common.Move{e2e4}},
			"info depth 3 score cp 25 nodes 1000 time 1000 nps 999 pv e2e4",
			"bestmove e2e4",
		},
		{
			common.SearchInfo{Depth: 5, Score: common.UciScore{Mate: -2}, TbHits: 7},
			"info depth 5 score mate -2 nodes 0 time 0 nps 0 tbhits 7",
			"bestmove (none)",
		},
	}
	for _, test := range tests {
		if s := searchInfoToUci(test.si); s != test.info {
			t.Errorf("got %q", s)
		}
		if s := bestMoveToUci(test.si); s != test.bestmove {
			t.Errorf("got %q", s)
		}
	}
}

func TestBench(t *testing.T) {
	var protocol, eng, out = newTestProtocol()
	protocol.RunCommands([]string{"bench 2"})
	if !strings.HasPrefix(out.String(), "info string bench nodes ") {
		t.Errorf("got %q", out.String())
	}
	if eng.IsRunning() {
		t.Error("engine still running")
	}
}
