package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/engine"
)

type Protocol struct {
	name    string
	author  string
	version string
	engine  *engine.Engine
	options []Option
	log     zerolog.Logger
	out     io.Writer
	outMu   sync.Mutex
	debug   bool
}

func New(name, author, version string, eng *engine.Engine, out io.Writer, log zerolog.Logger) *Protocol {
	return &Protocol{
		name:    name,
		author:  author,
		version: version,
		engine:  eng,
		options: engineOptions(eng.Config()),
		log:     log,
		out:     out,
	}
}

func (uci *Protocol) send(s string) {
	uci.outMu.Lock()
	defer uci.outMu.Unlock()
	fmt.Fprintln(uci.out, s)
}

// Run reads commands until quit or end of input. Search results are
// printed from the engine goroutine as they arrive.
func (uci *Protocol) Run(r io.Reader) error {
	var commands = make(chan string)
	var readErr = make(chan error, 1)

	go func() {
		defer close(commands)
		readErr <- readCommands(r, commands)
	}()

	for commandLine := range commands {
		uci.execute(commandLine)
	}
	uci.finishSearch()
	return <-readErr
}

// RunCommands executes commands one after another until quit. Each go
// command blocks until its search is finished.
func (uci *Protocol) RunCommands(commands []string) {
	for _, commandLine := range commands {
		uci.execute(commandLine)
		var name = strings.TrimSpace(commandLine)
		if name == "quit" {
			return
		}
		if strings.HasPrefix(name, "go") {
			uci.engine.Wait()
		}
	}
}

func readCommands(r io.Reader, commands chan<- string) error {
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "quit" {
			return nil
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
	return scanner.Err()
}

func (uci *Protocol) execute(commandLine string) {
	if err := uci.handle(commandLine); err != nil {
		uci.log.Warn().Err(err).Str("command", commandLine).Msg("command failed")
		uci.send("info string " + strings.ReplaceAll(err.Error(), "\n", "; "))
	}
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "ponderhit":
		h = uci.ponderhitCommand
	case "stop":
		h = uci.stopCommand
	case "eval":
		h = uci.evalCommand
	case "debug":
		h = uci.debugCommand
	case "d":
		h = uci.displayCommand
	case "bench":
		h = uci.benchCommand
	case "quit":
		h = uci.quitCommand
	}

	if h == nil {
		return fmt.Errorf("unknown command %v", commandName)
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	uci.send(fmt.Sprintf("id name %s %s", uci.name, uci.version))
	uci.send(fmt.Sprintf("id author %s", uci.author))
	for _, option := range uci.options {
		uci.send(option.UciString())
	}
	uci.send("uciok")
	return nil
}

func (uci *Protocol) setOptionCommand(fields []string) error {
	var nameIndex = findIndexString(fields, "name")
	if nameIndex != 0 || len(fields) < 2 {
		return errors.New("invalid setoption arguments")
	}
	var valueIndex = findIndexString(fields, "value")
	var name, value string
	if valueIndex == -1 {
		name = strings.Join(fields[1:], " ")
	} else {
		name = strings.Join(fields[1:valueIndex], " ")
		value = strings.Join(fields[valueIndex+1:], " ")
	}
	for _, option := range uci.options {
		if strings.EqualFold(option.UciName(), name) {
			if err := uci.engine.SetOption(option.UciName(), value); err != nil {
				return err
			}
			uci.log.Info().Str("name", option.UciName()).Str("value", value).Msg("option set")
			return nil
		}
	}
	return fmt.Errorf("unhandled option %v", name)
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.send("readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("invalid position arguments")
	}
	// a running search reports its best move for the old position first
	uci.finishSearch()
	return uci.setPosition(fields)
}

func (uci *Protocol) setPosition(args []string) error {
	var token = args[0]
	var fen string
	var movesIndex = findIndexString(args, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var moves []string
	if movesIndex >= 0 {
		moves = args[movesIndex+1:]
	}
	var err = uci.engine.SetPosition(fen, moves)
	if uci.debug {
		uci.send("info string " + uci.engine.Position().String())
	}
	return err
}

// finishSearch stops a running search and returns after its bestmove is sent.
func (uci *Protocol) finishSearch() {
	uci.engine.Stop()
	uci.engine.Wait()
}

func (uci *Protocol) goCommand(fields []string) error {
	var limits, err = parseLimits(fields)
	if err != nil {
		return err
	}
	uci.finishSearch()
	return uci.engine.Go(limits,
		func(si common.SearchInfo) {
			uci.send(searchInfoToUci(si))
		},
		func(si common.SearchInfo) {
			uci.send(searchInfoToUci(si))
			uci.send(bestMoveToUci(si))
		})
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.NewGame()
	return nil
}

func (uci *Protocol) ponderhitCommand(fields []string) error {
	uci.engine.PonderHit()
	return nil
}

func (uci *Protocol) quitCommand(fields []string) error {
	uci.finishSearch()
	return nil
}

func (uci *Protocol) stopCommand(fields []string) error {
	uci.engine.Stop()
	return nil
}

func (uci *Protocol) evalCommand(fields []string) error {
	if uci.engine.IsRunning() {
		return errors.New("search is running")
	}
	for _, line := range strings.Split(uci.engine.EvalTrace(), "\n") {
		uci.send("info string " + line)
	}
	return nil
}

func (uci *Protocol) debugCommand(fields []string) error {
	if len(fields) != 1 || fields[0] != "on" && fields[0] != "off" {
		return errors.New("invalid debug arguments")
	}
	uci.debug = fields[0] == "on"
	return nil
}

func (uci *Protocol) displayCommand(fields []string) error {
	if uci.engine.IsRunning() {
		return errors.New("search is running")
	}
	var p = uci.engine.Position()
	uci.send(fmt.Sprintf("info string fen %v", p))
	uci.send(fmt.Sprintf("info string key %016x pawnkey %016x materialkey %016x",
		p.Key, p.PawnKey, p.MaterialKey))
	return nil
}

func searchInfoToUci(si common.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if si.TbHits != 0 {
		fmt.Fprintf(sb, " tbhits %v", si.TbHits)
	}
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func bestMoveToUci(si common.SearchInfo) string {
	if len(si.MainLine) == 0 {
		return "bestmove " + common.MoveEmpty.String()
	}
	var s = "bestmove " + si.MainLine[0].String()
	if len(si.MainLine) >= 2 {
		s += " ponder " + si.MainLine[1].String()
	}
	return s
}

var goKeywords = map[string]bool{
	"searchmoves": true, "ponder": true, "wtime": true, "btime": true,
	"winc": true, "binc": true, "movestogo": true, "depth": true,
	"nodes": true, "mate": true, "movetime": true, "infinite": true,
}

func parseLimits(args []string) (result common.LimitsType, err error) {
	var intArg = func(i int) (int, error) {
		if i+1 >= len(args) {
			return 0, fmt.Errorf("missing value for %v", args[i])
		}
		var v, err = strconv.Atoi(args[i+1])
		if err != nil {
			return 0, fmt.Errorf("bad value for %v: %w", args[i], err)
		}
		return v, nil
	}
	for i := 0; i < len(args); i++ {
		var target *int
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		case "searchmoves":
			for i+1 < len(args) && !goKeywords[args[i+1]] {
				result.SearchMoves = append(result.SearchMoves, args[i+1])
				i++
			}
		case "wtime":
			target = &result.WhiteTime
		case "btime":
			target = &result.BlackTime
		case "winc":
			target = &result.WhiteIncrement
		case "binc":
			target = &result.BlackIncrement
		case "movestogo":
			target = &result.MovesToGo
		case "depth":
			target = &result.Depth
		case "nodes":
			target = &result.Nodes
		case "mate":
			target = &result.Mate
		case "movetime":
			target = &result.MoveTime
		}
		if target != nil {
			if *target, err = intArg(i); err != nil {
				return common.LimitsType{}, err
			}
			i++
		}
	}
	return result, nil
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
