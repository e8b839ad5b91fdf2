package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	. "github.com/ChizhovVadim/CounterSMP/pkg/common"
	"github.com/ChizhovVadim/CounterSMP/pkg/tablebase"
)

const (
	stateStopped int32 = iota
	stateRunning
	stateStopImmediately
)

const (
	MaxThreads      = 128
	MaxMultiPV      = 64
	MaxHash         = 1 << 20
	MaxMoveOverhead = 5000
)

var errSearchRunning = errors.New("search is running")

type Config struct {
	Hash             int
	Threads          int
	MultiPV          int
	Ponder           bool
	MoveOverhead     int
	SyzygyPath       string
	Syzygy50MoveRule bool
}

func NewConfig() Config {
	return Config{
		Hash:             16,
		Threads:          1,
		MultiPV:          1,
		MoveOverhead:     50,
		Syzygy50MoveRule: true,
	}
}

type mainLine struct {
	moves []Move
	score int
	depth int
}

// Engine owns the root position, the shared transposition table and the worker pool.
// Worker 0 holds the root position; helpers receive a copy when a search starts.
type Engine struct {
	config      Config
	log         zerolog.Logger
	transTable  *transTable
	prober      tablebase.Prober
	workers     []*Worker
	rootMoves   RootMoves
	state       atomic.Int32
	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	release     chan struct{}
	infinite    bool
	timeManager *timeManager
	mainLine    mainLine
	progress    func(SearchInfo)
	start       time.Time
}

func New(log zerolog.Logger) *Engine {
	var e = &Engine{
		config: NewConfig(),
		log:    log,
		prober: tablebase.NoopProber{},
	}
	e.realloc()
	var p = &e.workers[0].position
	p.MarkRoot()
	e.rootMoves.Generate(p)
	return e
}

func (e *Engine) Config() Config {
	return e.config
}

// SetProber replaces the tablebase prober, e.g. with a decoder built outside this module.
func (e *Engine) SetProber(prober tablebase.Prober) error {
	if e.state.Load() != stateStopped {
		return errSearchRunning
	}
	e.prober = prober
	e.rootMoves.Generate(&e.workers[0].position)
	e.rootMoves.FilterTablebase(&e.workers[0].position, e.prober, e.config.Syzygy50MoveRule)
	return nil
}

func parseIntOption(name, value string, min, max int) (int, error) {
	var v, err = strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("option %v: %w", name, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("option %v: value %v out of range [%v, %v]", name, v, min, max)
	}
	return v, nil
}

func parseBoolOption(name, value string) (bool, error) {
	var v, err = strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("option %v: %w", name, err)
	}
	return v, nil
}

// SetOption validates and applies one configuration value.
// Names are matched case-insensitively. A Hash below 1 MB is ignored.
func (e *Engine) SetOption(name, value string) error {
	if e.state.Load() != stateStopped {
		return errSearchRunning
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clear hash":
		e.transTable.Clear()
		e.log.Debug().Msg("hash cleared")
	case "ponder":
		var v, err = parseBoolOption(name, value)
		if err != nil {
			return err
		}
		e.config.Ponder = v
	case "multipv":
		var v, err = parseIntOption(name, value, 1, MaxMultiPV)
		if err != nil {
			return err
		}
		e.config.MultiPV = v
	case "threads":
		var v, err = parseIntOption(name, value, 1, MaxThreads)
		if err != nil {
			return err
		}
		if v != e.config.Threads {
			e.config.Threads = v
			e.realloc()
		}
	case "hash":
		var v, err = strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("option %v: %w", name, err)
		}
		if v < 1 {
			return nil
		}
		if v > MaxHash {
			return fmt.Errorf("option %v: value %v out of range [1, %v]", name, v, MaxHash)
		}
		if v != e.config.Hash {
			e.config.Hash = v
			e.realloc()
		}
	case "move overhead":
		var v, err = parseIntOption(name, value, 0, MaxMoveOverhead)
		if err != nil {
			return err
		}
		e.config.MoveOverhead = v
	case "syzygypath":
		var path = strings.TrimSpace(value)
		if path == "" || path == "<empty>" {
			e.config.SyzygyPath = ""
			e.prober = tablebase.NoopProber{}
		} else {
			var d, err = tablebase.Open(path)
			if err != nil {
				return err
			}
			e.config.SyzygyPath = path
			e.prober = d
			e.log.Info().
				Str("path", path).
				Int("tables", d.TableCount()).
				Int("maxPieces", d.TableMaxPieces()).
				Msg("tablebases found")
		}
		e.refreshRootMoves()
	case "syzygy50moverule":
		var v, err = parseBoolOption(name, value)
		if err != nil {
			return err
		}
		e.config.Syzygy50MoveRule = v
		e.refreshRootMoves()
	default:
		return fmt.Errorf("unknown option %v", name)
	}
	return nil
}

func (e *Engine) refreshRootMoves() {
	var p = &e.workers[0].position
	e.rootMoves.Generate(p)
	e.rootMoves.FilterTablebase(p, e.prober, e.config.Syzygy50MoveRule)
}

// realloc resizes the transposition table first. Whatever the power-of-two
// table could not use is split into per worker pawn tables.
func (e *Engine) realloc() {
	var granted int
	if e.transTable == nil {
		e.transTable = newTransTable(e.config.Hash)
		granted = e.transTable.Size()
	} else {
		var old = e.transTable.Size()
		granted = e.transTable.Resize(e.config.Hash)
		if granted != old {
			runtime.GC()
		}
	}
	var restMB = e.config.Hash - granted
	var pawnMB = Clamp(restMB/e.config.Threads, 16, 128)

	if len(e.workers) == e.config.Threads && e.workers[0].pawnTable.Size() == pawnMB {
		e.log.Debug().Int("hashMB", granted).Msg("realloc")
		return
	}

	var workers = make([]*Worker, e.config.Threads)
	for i := range workers {
		workers[i] = newWorker(e, i, pawnMB)
	}
	if len(e.workers) != 0 {
		workers[0].position.CopyFrom(&e.workers[0].position)
	}
	e.workers = workers
	runtime.GC()
	e.log.Debug().
		Int("hashMB", granted).
		Int("threads", len(workers)).
		Int("pawnMB", pawnMB).
		Msg("realloc")
}

// SetPosition sets the root from a FEN and a move list in long algebraic notation.
// A move that does not parse or is illegal is reported and skipped; the rest are still played.
func (e *Engine) SetPosition(fen string, moves []string) error {
	e.Stop()
	e.Wait()
	var p = &e.workers[0].position
	if err := p.SetFEN(fen); err != nil {
		return err
	}
	var errs []error
	var keys = []uint64{p.Key}
	for _, lan := range moves {
		var m, err = p.ParseMove(lan)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !p.PlayMove(m) {
			errs = append(errs, fmt.Errorf("illegal move %v", lan))
			continue
		}
		if p.Rule50 == 0 {
			p.ForgetRepetitions(keys)
			keys = keys[:0]
		}
		keys = append(keys, p.Key)
	}
	p.MarkRoot()
	e.refreshRootMoves()
	return errors.Join(errs...)
}

// prepareWorkers copies the root to every helper. Caches survive between searches.
func (e *Engine) prepareWorkers(searchMoves []string) {
	var rootMoves = e.rootMoves.Clone()
	rootMoves.Restrict(searchMoves)
	var root = &e.workers[0].position
	for _, w := range e.workers {
		if w.index != 0 {
			w.position.CopyFrom(root)
		}
		w.rootMoves = rootMoves.Clone()
		w.reset()
	}
}

// Go starts a search in the background. progress is called for every new main line,
// done once with the final result. A running search is stopped first.
func (e *Engine) Go(limits LimitsType, progress func(SearchInfo), done func(SearchInfo)) error {
	e.Stop()
	e.Wait()
	if !e.state.CompareAndSwap(stateStopped, stateRunning) {
		return errSearchRunning
	}
	e.start = time.Now()
	var ctx, cancel = context.WithCancel(context.Background())
	var side = e.workers[0].position.SideToMove()
	ctx, e.timeManager = newTimeManager(ctx, e.start, limits, side,
		time.Duration(e.config.MoveOverhead)*time.Millisecond)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.infinite = limits.Infinite
	e.progress = progress
	var hold = limits.Infinite || limits.Ponder
	var release chan struct{}
	if hold {
		release = make(chan struct{})
	}
	e.mu.Lock()
	e.release = release
	e.mainLine = mainLine{}
	e.mu.Unlock()
	go e.run(ctx, e.timeManager, limits.SearchMoves, release, e.done, done)
	return nil
}

func (e *Engine) run(ctx context.Context, tm *timeManager, searchMoves []string,
	release <-chan struct{}, finished chan struct{}, done func(SearchInfo)) {
	defer func() {
		e.state.Store(stateStopped)
		close(finished)
	}()

	e.transTable.IncDate()
	e.prepareWorkers(searchMoves)
	var rootMoves = &e.workers[0].rootMoves
	if rootMoves.DefaultMove != MoveEmpty {
		e.mu.Lock()
		e.mainLine = mainLine{moves: []Move{rootMoves.DefaultMove}}
		e.mu.Unlock()
	}
	if len(rootMoves.Moves) > 1 {
		if err := e.lazySmp(ctx); err != nil {
			e.log.Error().Err(err).Msg("search failed")
		}
	}
	tm.Close()
	if release != nil {
		<-release
	}

	var result = e.currentSearchResult()
	e.log.Debug().
		Int("depth", result.Depth).
		Int64("nodes", result.Nodes).
		Dur("time", result.Time).
		Msg("search finished")
	if done != nil {
		done(result)
	}
}

// Stop cancels a running search. The result is still delivered through the done callback.
func (e *Engine) Stop() {
	if e.state.CompareAndSwap(stateRunning, stateStopImmediately) {
		e.cancel()
		e.releaseResult()
	}
}

func (e *Engine) releaseResult() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.release != nil {
		close(e.release)
		e.release = nil
	}
}

// PonderHit switches a pondering search to normal time control.
func (e *Engine) PonderHit() {
	if e.state.Load() != stateRunning {
		return
	}
	e.timeManager.PonderHit()
	if !e.infinite {
		e.releaseResult()
	}
}

// Wait blocks until the current search, if any, has delivered its result.
func (e *Engine) Wait() {
	if e.done != nil {
		<-e.done
	}
}

func (e *Engine) IsRunning() bool {
	return e.state.Load() != stateStopped
}

func (e *Engine) NewGame() {
	e.Stop()
	e.Wait()
	e.transTable.Clear()
	for _, w := range e.workers {
		w.clear()
	}
}

// Nodes returns the node count of all workers for the current search.
func (e *Engine) Nodes() int64 {
	var nodes int64
	for _, w := range e.workers {
		nodes += w.Nodes()
	}
	return nodes
}

func (e *Engine) tbHits() int64 {
	var hits int64
	for _, w := range e.workers {
		hits += w.tbHits.Load()
	}
	return hits
}

// Position returns the root position. It must not be modified while a search runs.
func (e *Engine) Position() *Position {
	return &e.workers[0].position
}

func (e *Engine) RootMoves() RootMoves {
	return e.rootMoves.Clone()
}

func (e *Engine) EvalTrace() string {
	var w = e.workers[0]
	return w.evaluator.Trace(&w.position)
}

func (e *Engine) currentSearchResult() SearchInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchResultLocked()
}

func (e *Engine) searchResultLocked() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.Nodes(),
		TbHits:   e.tbHits(),
		Time:     time.Since(e.start),
	}
}

func (e *Engine) onIterationComplete(w *Worker, depth, score int, line []Move) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if depth <= e.mainLine.depth {
		return
	}
	e.mainLine = mainLine{
		depth: depth,
		score: score,
		moves: line,
	}
	e.timeManager.OnIterationComplete(e.mainLine)
	if e.progress != nil {
		e.progress(e.searchResultLocked())
	}
}
