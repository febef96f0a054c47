package engine

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Node budget, checked between iterations: no new iteration starts once reached (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	MultiPV  int           // Number of PV lines to report (0 or 1 = single line)
}

// PVResult is one principal variation reported by a Multi-PV search,
// ranked best-first.
type PVResult struct {
	Move  board.Move
	Score int
	Depth int
	PV    []board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // ~2-3 ply, 500ms
	Medium                   // ~4-5 ply, 2s
	Hard                     // ~6+ ply, 5s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 5, MoveTime: 2 * time.Second},
	Hard:   {Depth: 7, MoveTime: 5 * time.Second},
}

// Engine is the chess AI engine.
type Engine struct {
	pool       *ThreadPool
	tt         *TranspositionTable
	difficulty Difficulty

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table
// size in MB, running a Lazy SMP pool sized to the host's CPU count (§4.5).
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		pool:       NewThreadPool(runtime.NumCPU(), tt),
		tt:         tt,
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetThreads resizes the engine's Lazy SMP thread pool.
func (e *Engine) SetThreads(n int) {
	e.pool.Resize(n)
}

// Search finds the best move for the given position.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(pos, limits)
}

// SearchWithLimits finds the best move with specific search limits, driving
// the engine's Lazy SMP thread pool (§4.5).
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	e.pool.Reset()
	e.tt.NewSearch()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int

	// Determine maximum depth
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	// Determine deadline
	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	// Aspiration window parameters
	const initialWindow = 50 // Start with Â±50 centipawns

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		// Check time before starting new iteration
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		var move board.Move
		var score int

		// Use aspiration windows after depth 4 and when we have a previous score
		if depth >= 5 && bestMove != board.NoMove {
			window := initialWindow
			alpha := bestScore - window
			beta := bestScore + window

			// Aspiration window search with widening
			for {
				move, score = e.pool.Search(ctx, pos, depth, alpha, beta)

				if e.pool.IsStopped() {
					break
				}

				if score <= alpha {
					// Fail low - widen window down
					alpha = -Infinity
				} else if score >= beta {
					// Fail high - widen window up
					beta = Infinity
				} else {
					// Score within window, we're done
					break
				}

				// If both bounds are infinite, we've done a full search
				if alpha == -Infinity && beta == Infinity {
					break
				}
			}
		} else {
			// Full window search for early depths
			move, score = e.pool.Search(ctx, pos, depth, -Infinity, Infinity)
		}

		// Check if search was stopped
		if e.pool.IsStopped() {
			break
		}

		// Update best move
		if move != board.NoMove {
			bestMove = move
			bestScore = score
		}

		// Report info
		if e.OnInfo != nil {
			elapsed := time.Since(startTime)
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    bestScore,
				Nodes:    e.pool.Nodes(),
				Time:     elapsed,
				PV:       e.pool.GetPV(),
				HashFull: e.tt.HashFull(),
			})
		}

		// Early termination: found mate
		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if limits.Nodes > 0 && e.pool.Nodes() >= limits.Nodes {
			break
		}

		// Check time after iteration
		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed

			// If we've used more than half the time, don't start another iteration
			if remaining < elapsed {
				break
			}
		}
	}

	return bestMove
}

// SearchMultiPV finds the limits.MultiPV best root moves, each with its own
// full alpha-beta search and aspiration window, per the engine's Multi-PV
// protocol (root moves already reported in a round are excluded from the
// next line via ThreadPool.SetExcludedMoves, applied to every worker).
// Results are sorted best-first. Every PV line is still searched by the
// full Lazy SMP pool (§4.5), not a single worker.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits) []PVResult {
	numPV := limits.MultiPV
	if numPV < 1 {
		numPV = 1
	}

	e.pool.Reset()
	e.tt.NewSearch()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	startTime := time.Now()
	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	var results []PVResult

	for depth := 1; depth <= maxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		var excluded []board.Move
		roundResults := make([]PVResult, 0, numPV)

		for pvIdx := 0; pvIdx < numPV; pvIdx++ {
			e.pool.SetExcludedMoves(excluded)

			var move board.Move
			var score int

			if depth >= 5 && pvIdx < len(results) {
				delta := 19
				alpha := results[pvIdx].Score - delta
				beta := results[pvIdx].Score + delta

				for {
					move, score = e.pool.Search(ctx, pos, depth, alpha, beta)
					if e.pool.IsStopped() {
						break
					}

					if score <= alpha {
						beta = (alpha + beta) / 2
						alpha -= delta
					} else if score >= beta {
						beta += delta
					} else {
						break
					}

					delta += delta/4 + 5
					if alpha < -Infinity {
						alpha = -Infinity
					}
					if beta > Infinity {
						beta = Infinity
					}
					if alpha <= -Infinity && beta >= Infinity {
						break
					}
				}
			} else {
				move, score = e.pool.Search(ctx, pos, depth, -Infinity, Infinity)
			}

			if e.pool.IsStopped() || move == board.NoMove {
				break
			}

			excluded = append(excluded, move)
			roundResults = append(roundResults, PVResult{
				Move:  move,
				Score: score,
				Depth: depth,
				PV:    e.pool.GetPV(),
			})
		}

		e.pool.SetExcludedMoves(nil)

		if len(roundResults) == 0 {
			break
		}
		results = roundResults

		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})

		if e.pool.IsStopped() {
			break
		}
		if limits.Nodes > 0 && e.pool.Nodes() >= limits.Nodes {
			break
		}
	}

	return results
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.pool.Stop()
}

// SetRootHistory propagates the game's move history (as Zobrist hashes) to
// every worker in the pool, so repetition detection during search sees
// positions reached before the search started.
func (e *Engine) SetRootHistory(hashes []uint64) {
	e.pool.SetRootHistory(hashes)
}

// Nodes returns the total node count across the pool's last search.
func (e *Engine) Nodes() uint64 {
	return e.pool.Nodes()
}

// SetHashSize rebuilds the transposition table at the given size in MB,
// resizing the thread pool around it (worker count is preserved).
func (e *Engine) SetHashSize(mb int) {
	threads := e.pool.Threads()
	e.tt = NewTranspositionTable(mb)
	e.pool = NewThreadPool(threads, e.tt)
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.pool.ClearOrderer()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		pos.DoMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UndoMove(move)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
