package engine

import (
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// SharedHistory is a from/to history table shared across all Lazy SMP
// workers, so a cutoff one worker finds adjusts the late-move reductions of
// every other worker searching the same tree (move ordering uses each
// worker's own history). Updated and read with atomics
// since multiple workers touch it concurrently without a lock.
type SharedHistory struct {
	scores [board.NumSquares * board.NumSquares]atomic.Int64
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

func (sh *SharedHistory) index(from, to int) int {
	return from*board.NumSquares + to
}

// Get returns the current shared history score for a from/to pair.
func (sh *SharedHistory) Get(from, to int) int {
	return int(sh.scores[sh.index(from, to)].Load())
}

// Update adds bonus to the shared history score for a from/to pair,
// clamping to avoid unbounded growth across a long search.
func (sh *SharedHistory) Update(from, to, bonus int) {
	idx := sh.index(from, to)
	newVal := sh.scores[idx].Add(int64(bonus))
	if newVal > 400000 {
		sh.scores[idx].Store(400000)
	} else if newVal < -400000 {
		sh.scores[idx].Store(-400000)
	}
}

// Clear resets the shared history table for a new game.
func (sh *SharedHistory) Clear() {
	for i := range sh.scores {
		sh.scores[i].Store(0)
	}
}
