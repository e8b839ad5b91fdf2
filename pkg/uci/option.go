package uci

import (
	"fmt"

	"github.com/ChizhovVadim/CounterSMP/pkg/engine"
)

// Option describes a setting announced to the GUI. Values are validated by the engine.
type Option interface {
	UciName() string
	UciString() string
}

type ButtonOption struct {
	Name string
}

func (opt *ButtonOption) UciName() string {
	return opt.Name
}

func (opt *ButtonOption) UciString() string {
	return fmt.Sprintf("option name %v type button", opt.Name)
}

type BoolOption struct {
	Name  string
	Value bool
}

func (opt *BoolOption) UciName() string {
	return opt.Name
}

func (opt *BoolOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v",
		opt.Name, "check", opt.Value)
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value int
}

func (opt *IntOption) UciName() string {
	return opt.Name
}

func (opt *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v min %v max %v",
		opt.Name, "spin", opt.Value, opt.Min, opt.Max)
}

type StringOption struct {
	Name  string
	Value string
}

func (opt *StringOption) UciName() string {
	return opt.Name
}

func (opt *StringOption) UciString() string {
	var value = opt.Value
	if value == "" {
		value = "<empty>"
	}
	return fmt.Sprintf("option name %v type string default %v", opt.Name, value)
}

func engineOptions(c engine.Config) []Option {
	return []Option{
		&ButtonOption{Name: "Clear Hash"},
		&BoolOption{Name: "Ponder", Value: c.Ponder},
		&IntOption{Name: "MultiPV", Min: 1, Max: engine.MaxMultiPV, Value: c.MultiPV},
		&IntOption{Name: "Threads", Min: 1, Max: engine.MaxThreads, Value: c.Threads},
		&IntOption{Name: "Hash", Min: 1, Max: engine.MaxHash, Value: c.Hash},
		&IntOption{Name: "Move Overhead", Min: 0, Max: engine.MaxMoveOverhead, Value: c.MoveOverhead},
		&StringOption{Name: "SyzygyPath", Value: c.SyzygyPath},
		&BoolOption{Name: "Syzygy50MoveRule", Value: c.Syzygy50MoveRule},
	}
}
