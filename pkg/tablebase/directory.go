package tablebase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChizhovVadim/CounterSMP/pkg/common"
)

const (
	wdlSuffix = ".rtbw"
	dtzSuffix = ".rtbz"
)

// Directory indexes Syzygy table files found on a search path.
// Table decoding is delegated to an external prober; Directory answers only
// which material signatures are available.
type Directory struct {
	wdl       map[string]string
	dtz       map[string]string
	maxPieces int
}

// Open scans every directory of a path list separated by os.PathListSeparator.
func Open(path string) (*Directory, error) {
	var d = &Directory{
		wdl: make(map[string]string),
		dtz: make(map[string]string),
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		var entries, err = os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("tablebase open %v: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			var name = entry.Name()
			var ext = filepath.Ext(name)
			var signature = strings.TrimSuffix(name, ext)
			var pieces, ok = signaturePieces(signature)
			if !ok {
				continue
			}
			switch ext {
			case wdlSuffix:
				d.wdl[signature] = filepath.Join(dir, name)
			case dtzSuffix:
				d.dtz[signature] = filepath.Join(dir, name)
			default:
				continue
			}
			d.maxPieces = common.Max(d.maxPieces, pieces)
		}
	}
	return d, nil
}

// signaturePieces parses names like KRPvKR.
func signaturePieces(signature string) (int, bool) {
	var sides = strings.Split(signature, "v")
	if len(sides) != 2 {
		return 0, false
	}
	var count = 0
	for _, side := range sides {
		if !strings.HasPrefix(side, "K") {
			return 0, false
		}
		for _, ch := range side {
			if !strings.ContainsRune("KQRBNP", ch) {
				return 0, false
			}
			count++
		}
	}
	return count, true
}

// MaxPieces is 0 because Directory cannot decode tables, so a search
// using it never asks for a WDL result.
func (d *Directory) MaxPieces() int {
	return 0
}

// TableMaxPieces is the largest piece count among the indexed files.
func (d *Directory) TableMaxPieces() int {
	return d.maxPieces
}

func (d *Directory) TableCount() int {
	return len(d.wdl) + len(d.dtz)
}

func (d *Directory) ProbeRoot(p *common.Position, moves []common.OrderedMove, rule50 bool) ([]common.OrderedMove, bool) {
	return moves, false
}

func (d *Directory) ProbeRootWDL(p *common.Position, moves []common.OrderedMove, rule50 bool) ([]common.OrderedMove, bool) {
	return moves, false
}

func (d *Directory) ProbeWDL(p *common.Position) (WDL, bool) {
	return WDLDraw, false
}
