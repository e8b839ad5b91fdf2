package engine

import (
	"sync/atomic"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const transEntrySize = 16

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

// 16 bytes
type transEntry struct {
	gate  int32
	key32 uint32
	move  uint16
	date  uint16
	score int16
	depth int8
	bound uint8
}

// transTable is shared by all workers. Each entry is guarded by a CAS gate;
// a busy entry is treated as a miss.
type transTable struct {
	megabytes int
	entries   []transEntry
	date      uint16
	mask      uint32
}

func newTransTable(megabytes int) *transTable {
	var tt = &transTable{}
	tt.Resize(megabytes)
	return tt
}

// Resize allocates the largest power-of-two table that fits into megabytes
// and returns the size granted.
func (tt *transTable) Resize(megabytes int) int {
	var size = roundPowerOfTwo(megabytes * (1 << 20) / transEntrySize)
	if size != len(tt.entries) {
		tt.entries = nil
		tt.entries = make([]transEntry, size)
		tt.mask = uint32(size - 1)
		tt.date = 0
	}
	tt.megabytes = size * transEntrySize >> 20
	return tt.megabytes
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) IncDate() {
	tt.date = (tt.date + 1) & 0x7ff
}

func (tt *transTable) Clear() {
	tt.date = 0
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

func (tt *transTable) Read(key uint64) (depth, score, bound int, move uint16, ok bool) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		if entry.key32 == uint32(key>>32) {
			entry.date = tt.date
			score = int(entry.score)
			move = entry.move
			depth = int(entry.depth)
			bound = int(entry.bound)
			ok = true
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
	return
}

func (tt *transTable) Update(key uint64, depth, score, bound int, move uint16) {
	var entry = &tt.entries[uint32(key)&tt.mask]
	if atomic.CompareAndSwapInt32(&entry.gate, 0, 1) {
		var replace bool
		if entry.key32 == uint32(key>>32) {
			replace = depth >= int(entry.depth)-3 || bound == boundExact
			if move == 0 {
				move = entry.move
			}
		} else {
			replace = entry.date != tt.date ||
				depth >= int(entry.depth)
		}
		if replace {
			entry.key32 = uint32(key >> 32)
			entry.score = int16(score)
			entry.depth = int8(depth)
			entry.bound = uint8(bound)
			entry.move = move
			entry.date = tt.date
		}
		atomic.StoreInt32(&entry.gate, 0)
	}
}
