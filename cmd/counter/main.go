package main

import (
	"flag"
	"os"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ChizhovVadim/CounterSMP/pkg/engine"
	"github.com/ChizhovVadim/CounterSMP/pkg/uci"
)

const (
	name   = "CounterSMP"
	author = "Vadim Chizhov"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
)

// With arguments every argument is executed as one command and go waits for
// its search, e.g. counter "position startpos" "go depth 12".
func main() {
	var flgLogLevel string
	var flgHash, flgThreads int
	var flgSyzygyPath string
	flag.StringVar(&flgLogLevel, "loglevel", "info", "log level written to stderr")
	flag.IntVar(&flgHash, "hash", 0, "hash size in MB")
	flag.IntVar(&flgThreads, "threads", 0, "number of search threads")
	flag.StringVar(&flgSyzygyPath, "syzygy", "", "syzygy tablebase path")
	flag.Parse()

	var level, err = zerolog.ParseLevel(flgLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	logger.Info().
		Str("name", name).
		Str("version", versionName).
		Str("buildDate", buildDate).
		Str("gitRevision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("numCPU", runtime.NumCPU()).
		Msg("started")

	var eng = engine.New(logger)
	var presets = []struct {
		name  string
		value string
		ok    bool
	}{
		{"Hash", strconv.Itoa(flgHash), flgHash > 0},
		{"Threads", strconv.Itoa(flgThreads), flgThreads > 0},
		{"SyzygyPath", flgSyzygyPath, flgSyzygyPath != ""},
	}
	for _, preset := range presets {
		if !preset.ok {
			continue
		}
		if err := eng.SetOption(preset.name, preset.value); err != nil {
			logger.Fatal().Err(err).Str("option", preset.name).Msg("bad flag")
		}
	}

	var protocol = uci.New(name, author, versionName, eng, os.Stdout, logger)
	if flag.NArg() > 0 {
		protocol.RunCommands(flag.Args())
		return
	}
	if err := protocol.Run(os.Stdin); err != nil {
		logger.Fatal().Err(err).Msg("read commands")
	}
}
