package engine

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessplay/internal/board"
)

// ThreadPool runs a Lazy SMP search: N workers each search the same
// position independently to (possibly) different depths, sharing a single
// transposition table, pawn hash table and history table; cutoffs found by
// one worker reach the others through the table and, via the shared
// history, their late-move reductions. Worker 0 is the
// "main" worker; its result is authoritative once all helpers have
// stopped.
type ThreadPool struct {
	tt            *TranspositionTable
	pawnTable     *PawnTable
	sharedHistory *SharedHistory
	stopFlag      atomic.Bool

	workers []*Worker
}

// NewThreadPool creates a pool of n workers sharing tt.
func NewThreadPool(n int, tt *TranspositionTable) *ThreadPool {
	if n < 1 {
		n = 1
	}
	p := &ThreadPool{
		tt:            tt,
		pawnTable:     NewPawnTable(1),
		sharedHistory: NewSharedHistory(),
	}
	p.workers = make([]*Worker, n)
	for i := 0; i < n; i++ {
		p.workers[i] = NewWorker(i, n, tt, p.pawnTable, p.sharedHistory, &p.stopFlag)
	}
	return p
}

// Threads returns the number of workers in the pool.
func (p *ThreadPool) Threads() int {
	return len(p.workers)
}

// Resize changes the number of workers, rebuilding the pool against the
// same shared transposition table, pawn table and history.
func (p *ThreadPool) Resize(n int) {
	if n < 1 {
		n = 1
	}
	p.workers = make([]*Worker, n)
	for i := 0; i < n; i++ {
		p.workers[i] = NewWorker(i, n, p.tt, p.pawnTable, p.sharedHistory, &p.stopFlag)
	}
}

// Stop signals every worker in the pool to stop searching.
func (p *ThreadPool) Stop() {
	p.stopFlag.Store(true)
}

// IsStopped returns true if the pool has been signaled to stop.
func (p *ThreadPool) IsStopped() bool {
	return p.stopFlag.Load()
}

// Reset clears per-search worker state (node counts, killer tables) ahead
// of a new search; the shared history and pawn table persist across
// searches on purpose, mirroring the teacher's single-worker Reset.
func (p *ThreadPool) Reset() {
	p.stopFlag.Store(false)
	for _, w := range p.workers {
		w.Reset()
	}
}

// SetRootHistory propagates the game's position history to every worker,
// so repetition detection sees moves played before the search started.
func (p *ThreadPool) SetRootHistory(hashes []uint64) {
	for _, w := range p.workers {
		w.SetRootHistory(hashes)
	}
}

// ClearOrderer clears every worker's move-ordering state (killers,
// history, counter-moves), used when the engine forgets a game entirely.
func (p *ThreadPool) ClearOrderer() {
	for _, w := range p.workers {
		w.orderer.Clear()
	}
	p.sharedHistory.Clear()
}

// Nodes returns the total node count across every worker.
func (p *ThreadPool) Nodes() uint64 {
	var total uint64
	for _, w := range p.workers {
		total += w.Nodes()
	}
	return total
}

// helperDepthOffset staggers helper-thread search depth relative to the main
// worker's depth, the same "search to different plies" trick used by the
// reference Lazy SMP driver: helpers search to the same depth or one or two
// plies deeper, so
// their transposition-table contributions are not simply redundant copies
// of the main search.
func helperDepthOffset(workerID int) int {
	return workerID % 3
}

// Search runs a Lazy SMP search to depth from pos: worker 0 searches
// exactly to depth within [alpha, beta] and is the result every caller
// should trust; workers 1..N-1 search the same position to a staggered
// depth purely to populate the shared transposition table and history
// with useful cutoffs before worker 0 reaches that depth itself. All
// helpers are stopped once worker 0 finishes, and their contribution is
// otherwise discarded.
func (p *ThreadPool) Search(ctx context.Context, pos *board.Position, depth, alpha, beta int) (board.Move, int) {
	if len(p.workers) == 1 {
		p.workers[0].InitSearch(pos)
		return p.workers[0].SearchDepth(depth, alpha, beta)
	}

	g := errgroup.Group{}

	watchDone := make(chan struct{})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			p.stopFlag.Store(true)
		case <-watchDone:
		}
		return nil
	})

	for i := 1; i < len(p.workers); i++ {
		w := p.workers[i]
		helperDepth := depth + helperDepthOffset(w.ID())
		if helperDepth < 1 {
			helperDepth = 1
		}
		g.Go(func() error {
			w.InitSearch(pos)
			w.SearchDepth(helperDepth, -Infinity, Infinity)
			return nil
		})
	}

	main := p.workers[0]
	main.InitSearch(pos)
	move, score := main.SearchDepth(depth, alpha, beta)

	p.stopFlag.Store(true)
	close(watchDone)
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("threadpool helper search returned error")
	}
	p.stopFlag.Store(false)

	return move, score
}

// SetExcludedMoves sets the root moves to exclude on every worker, used by
// Engine.SearchMultiPV between successive PV lines at the same depth.
func (p *ThreadPool) SetExcludedMoves(moves []board.Move) {
	for _, w := range p.workers {
		w.SetExcludedMoves(moves)
	}
}

// GetPV returns the principal variation from the main worker's last search.
func (p *ThreadPool) GetPV() []board.Move {
	return p.workers[0].GetPV()
}
