package uci

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ChizhovVadim/CounterSMP/pkg/common"
)

var benchFens = []string{
	common.InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"2r3k1/pp3ppp/4p3/3pP3/3P4/P4N2/1P3PPP/2R3K1 w - - 0 25",
	"8/8/4k3/3p4/3P1K2/8/8/8 w - - 0 60",
}

// benchCommand searches a fixed set of positions to a fixed depth
// and reports the node count, which identifies a search version.
func (uci *Protocol) benchCommand(fields []string) error {
	var depth = 8
	if len(fields) > 0 {
		var v, err = strconv.Atoi(fields[0])
		if err != nil || v < 1 {
			return errors.New("invalid bench depth")
		}
		depth = v
	}
	var start = time.Now()
	var nodes int64
	for _, fen := range benchFens {
		if err := uci.engine.SetPosition(fen, nil); err != nil {
			return err
		}
		var result common.SearchInfo
		if err := uci.engine.Go(common.LimitsType{Depth: depth}, nil,
			func(si common.SearchInfo) { result = si }); err != nil {
			return err
		}
		uci.engine.Wait()
		nodes += result.Nodes
	}
	var elapsed = time.Since(start)
	uci.log.Info().Int("depth", depth).Int64("nodes", nodes).Dur("time", elapsed).Msg("bench")
	uci.send(fmt.Sprintf("info string bench nodes %v time %v nps %v",
		nodes, elapsed.Milliseconds(), nodes*1000/(elapsed.Milliseconds()+1)))
	return nil
}
