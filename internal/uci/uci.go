// Package uci implements the text protocol (spec §6) the core engine is
// driven through: a UCI-family command loop reading stdin and writing
// info/bestmove lines to stdout, with malformed input reported to stderr
// per the error-handling design in spec §7.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
)

// defaultBenchFENs mirrors the reference engine's setup_bench default list
// (benchmark.cpp), including the §8 seed position (entry 8, the "qqqk6/.../5KT3"
// Benchmark FEN #3). No recorded perft(3) value for that position is kept
// in this module.
var defaultBenchFENs = []string{
	"rnbskqtbnr/pppppppppp/55/55/55/55/55/55/PPPPPPPPPP/RNBSKQTBNR w KQkq Ss - 0 1",
	"5k4/55/55/55/55/55/55/55/p9/4K5 w - Ss - 0 1",
	"5q4/55/55/55/55/55/55/5k4/55/4K5 w - Ss - 0 1",
	"55/55/55/55/55/55/55/5sk4/55/4K5 w - Ss - 0 1",
	"55/55/55/55/55/55/55/5tk4/55/4K5 w - Ss - 0 1",
	"rnbsk1111r/pppppqtppp/11111ppn11/1111b11111/1111111111/1111111111/1111111111/PPPPPPP111/1111111PPP/RNBSKQTBNR b KQkq Ss - 0 7",
	"11kr1qtbnr/pppspppppp/11np111111/11111b1111/1111111111/1111111111/1111111111/PPPPP11111/11111PPPPP/RNBSKQTBNR w KQ Ss - 1 6",
	"qqqk6/55/55/55/55/55/55/55/55/5KT3 b - Ss - 0 1",
	"rnbskqtbnr/1111111111/11S1111111/1111111111/1111111111/1111111111/1111111111/1111111111/PPPPPPPPPP/RNB1KQTBNR w KQkq Ss - 0 1",
	"k8q/55/55/55/PPP7/55/55/55/55/KQ8 w - Ss - 0 1",
	"4skq3/55/55/55/37/55/55/55/55/4SKQ3 w - Ss - 0 1",
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	// Position history for repetition detection.
	positionHashes []uint64

	// multiPV is the number of PV lines to report, set via setoption.
	multiPV int

	// Pondering state: a "go ... ponder" search runs as an infinite search
	// until ponderhit or stop arrives (spec §6).
	pondering    bool
	ponderLimits engine.SearchLimits

	// Search state
	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool

	// CPU profiling
	profileFile *os.File
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		multiPV:  1,
	}
}

// Run starts the UCI main loop.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			u.handlePonderhit()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "bench":
			u.handleBench(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		default:
			log.Warn().Str("command", cmd).Msg("unrecognized UCI command")
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name ChessPlay Variant")
	fmt.Println("id author ChessPlay Team")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name Threads type spin default 1 min 1 max 128")
	fmt.Println("option name MultiPV type spin default 1 min 1 max 8")
	fmt.Println("option name Debug type check default false")
	fmt.Println("option name CPUProfile type string default <empty>")
	fmt.Println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen extension, §6>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	u.positionHashes = nil
	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			log.Warn().Err(err).Str("fen", fenStr).Msg("invalid FEN")
			return
		}
		u.position = pos

		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	default:
		return
	}

	u.positionHashes = append(u.positionHashes, u.position.Hash)

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart:] {
			move, err := u.parseAndValidate(moveStr)
			if err != nil {
				log.Warn().Err(err).Str("move", moveStr).Msg("invalid move in position command")
				return
			}
			u.position.DoMove(move)
			u.positionHashes = append(u.positionHashes, u.position.Hash)
		}
	}
}

// parseAndValidate parses a wire-format move (board.ParseMove) against the
// current position and confirms it is one of the position's legal moves,
// since ParseMove itself only decodes the token into a candidate Move.
func (u *UCI) parseAndValidate(moveStr string) (board.Move, error) {
	mv, err := board.ParseMove(moveStr, u.position)
	if err != nil {
		return board.NoMove, err
	}
	legal := u.position.GenerateLegalMoves()
	if !legal.Contains(mv) {
		return board.NoMove, fmt.Errorf("illegal move: %s", moveStr)
	}
	return mv, nil
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	Ponder    bool
	Perft     int
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	if opts.Perft > 0 {
		u.runPerft(opts.Perft)
		return
	}

	u.engine.SetRootHistory(u.positionHashes)
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	limits := u.calculateLimits(opts)
	limits.MultiPV = u.multiPV

	if opts.Ponder {
		u.pondering = true
		u.ponderLimits = limits
		limits = engine.SearchLimits{Infinite: true, MultiPV: u.multiPV}
	} else {
		u.pondering = false
	}

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	rootPos := u.position.Copy()

	go func() {
		defer close(u.searchDone)

		if limits.MultiPV > 1 {
			results := u.engine.SearchMultiPV(pos, limits)
			u.searching = false
			u.sendMultiPVInfo(results)
			u.finishSearch(rootPos, bestOf(results))
			return
		}

		bestMove := u.engine.SearchWithLimits(pos, limits)
		u.searching = false
		u.finishSearch(rootPos, bestMove)
	}()
}

// bestOf returns the top move of a Multi-PV result set, or NoMove if empty.
func bestOf(results []engine.PVResult) board.Move {
	if len(results) == 0 {
		return board.NoMove
	}
	return results[0].Move
}

// finishSearch validates bestMove against rootPos (a copy made before the
// search began, since the searched position may have been mutated) and
// emits the "bestmove" response, falling back to the first legal move if
// the search returned something illegal or nothing at all (spec §7: search
// cancellation discards the in-flight iteration, not an error).
func (u *UCI) finishSearch(rootPos *board.Position, bestMove board.Move) {
	legal := rootPos.GenerateLegalMoves()

	if bestMove != board.NoMove && legal.Contains(bestMove) {
		fmt.Printf("bestmove %s\n", bestMove.String())
		return
	}

	if bestMove != board.NoMove {
		log.Warn().Str("move", bestMove.String()).Msg("search returned illegal move, falling back")
	}

	if legal.Len() > 0 {
		fmt.Printf("bestmove %s\n", legal.Get(0).String())
	} else {
		fmt.Println("bestmove 0000")
	}
}

// runPerft runs "go perft N" synchronously, printing a divide-style report.
func (u *UCI) runPerft(depth int) {
	moves := u.position.GenerateLegalMoves()
	var total uint64
	start := time.Now()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		u.position.DoMove(m)
		var nodes uint64
		if depth > 1 {
			nodes = u.engine.Perft(u.position, depth-1)
		} else {
			nodes = 1
		}
		u.position.UndoMove(m)
		total += nodes
		fmt.Printf("%s: %d\n", m.String(), nodes)
	}
	elapsed := time.Since(start)
	fmt.Printf("\nNodes searched: %d\n", total)
	fmt.Printf("Time: %v\n", elapsed)
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "perft":
			if i+1 < len(args) {
				opts.Perft, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "ponder":
			opts.Ponder = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	limits := engine.SearchLimits{}

	if opts.Infinite {
		limits.Infinite = true
		return limits
	}

	if opts.Depth > 0 {
		limits.Depth = opts.Depth
	}

	if opts.Nodes > 0 {
		limits.Nodes = opts.Nodes
	}

	if opts.MoveTime > 0 {
		limits.MoveTime = opts.MoveTime
	} else if opts.WTime > 0 || opts.BTime > 0 {
		limits.MoveTime = u.calculateTimeForMove(opts)
	}

	return limits
}

// calculateTimeForMove determines how much time to spend on this move.
func (u *UCI) calculateTimeForMove(opts GoOptions) time.Duration {
	var ourTime, ourInc time.Duration

	if u.position.SideToMove == board.White {
		ourTime = opts.WTime
		ourInc = opts.WInc
	} else {
		ourTime = opts.BTime
		ourInc = opts.BInc
	}

	movesRemaining := opts.MovesToGo
	if movesRemaining == 0 {
		movesRemaining = u.estimateMovesRemaining()
	}

	baseTime := ourTime / time.Duration(movesRemaining)
	moveTime := baseTime + (ourInc * 90 / 100)

	maxTime := ourTime * 90 / 100
	if moveTime > maxTime {
		moveTime = maxTime
	}

	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}

	return moveTime
}

// estimateMovesRemaining estimates remaining moves based on piece count.
func (u *UCI) estimateMovesRemaining() int {
	totalPieces := u.position.AllOccupied.PopCount()

	if totalPieces > 24 {
		return 40
	} else if totalPieces > 12 {
		return 30
	}
	return 20
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := u.formatInfoParts(info.Depth, info.Score, info.Nodes, info.Time, info.HashFull, info.PV, 0)
	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// sendMultiPVInfo reports every PV line from a Multi-PV search, ranked
// best-first, each tagged with its "multipv N" index (1-based, per UCI).
func (u *UCI) sendMultiPVInfo(results []engine.PVResult) {
	sorted := make([]engine.PVResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	for i, r := range sorted {
		parts := u.formatInfoParts(r.Depth, r.Score, 0, 0, 0, r.PV, i+1)
		fmt.Printf("info %s\n", strings.Join(parts, " "))
	}
}

// formatInfoParts builds the space-joined fields of an "info" line;
// nodes/time/hashfull are omitted (left zero) when the caller has nothing
// meaningful to report for them, as with each individual Multi-PV line.
func (u *UCI) formatInfoParts(depth, score int, nodes uint64, elapsed time.Duration, hashFull int, pv []board.Move, multiPVIndex int) []string {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", depth))
	if multiPVIndex > 0 {
		parts = append(parts, fmt.Sprintf("multipv %d", multiPVIndex))
	}

	switch {
	case score > engine.MateScore-100:
		mateIn := (engine.MateScore - score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case score < -engine.MateScore+100:
		mateIn := -(engine.MateScore + score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", score))
	}

	if nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %d", nodes))
	}
	if elapsed > 0 {
		parts = append(parts, fmt.Sprintf("time %d", elapsed.Milliseconds()))
		nps := uint64(float64(nodes) / elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if hashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", hashFull))
	}

	if len(pv) > 0 {
		validPV := u.validatePV(pv)
		if len(validPV) > 0 {
			parts = append(parts, "pv "+strings.Join(validPV, " "))
		}
	}

	return parts
}

// validatePV replays pv against the current root position, stopping at the
// first move that is not legal there - a search race can otherwise report a
// PV referring to a position the engine never actually reached.
func (u *UCI) validatePV(pv []board.Move) []string {
	validPV := make([]string, 0, len(pv))
	testPos := u.position.Copy()
	for _, move := range pv {
		legal := testPos.GenerateLegalMoves()
		if !legal.Contains(move) {
			break
		}
		validPV = append(validPV, move.String())
		testPos.DoMove(move)
	}
	return validPV
}

// handleStop stops the current search.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.engine.Stop()
		<-u.searchDone
	}
}

// handlePonderhit converts an in-flight pondering search into a timed one,
// per spec §6's "ponderhit" command: the search keeps running against its
// original go options instead of indefinitely.
func (u *UCI) handlePonderhit() {
	if !u.pondering {
		return
	}
	u.pondering = false

	if u.ponderLimits.MoveTime > 0 {
		moveTime := u.ponderLimits.MoveTime
		time.AfterFunc(moveTime, func() {
			u.engine.Stop()
		})
	}
}

// handleQuit exits the program.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		log.Info().Msg("CPU profile saved")
	}
	os.Exit(0)
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb > 0 {
			u.engine.SetHashSize(mb)
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			u.engine.SetThreads(n)
		}
	case "multipv":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			u.multiPV = n
		}
	case "debug":
		if strings.ToLower(value) == "true" {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	case "cpuprofile":
		u.setCPUProfile(value)
	}
}

// setCPUProfile starts or stops CPU profiling depending on value.
func (u *UCI) setCPUProfile(value string) {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		log.Info().Msg("CPU profile stopped")
	}

	if value == "" || value == "stop" {
		return
	}

	f, err := os.Create(value)
	if err != nil {
		log.Error().Err(err).Str("path", value).Msg("failed to create CPU profile")
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		log.Error().Err(err).Msg("failed to start CPU profile")
		return
	}
	u.profileFile = f
	log.Info().Str("path", value).Msg("CPU profiling started")
}

// handlePerft runs a perft test against the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %.0f\n", nps)
	}
}

// handleBench runs the built-in benchmark (spec §6's "bench" command),
// mirroring the reference engine's setup_bench: "bench [ttMB threads limit
// fenFile {depth|nodes|movetime|perft|eval}]". A file-not-found fenFile is
// fatal per spec §7.
func (u *UCI) handleBench(args []string) {
	ttMB, threads, limit, fenFile, limitType := 16, 1, 13, "default", "depth"

	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			ttMB = n
		}
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			threads = n
		}
	}
	if len(args) > 2 {
		if n, err := strconv.Atoi(args[2]); err == nil {
			limit = n
		}
	}
	if len(args) > 3 {
		fenFile = args[3]
	}
	if len(args) > 4 {
		limitType = args[4]
	}

	var fens []string
	switch fenFile {
	case "default":
		fens = defaultBenchFENs
	case "current":
		fens = []string{u.position.ToFEN()}
	default:
		f, err := os.Open(fenFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", fenFile).Msg("unable to open FEN file for bench")
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			fen := strings.TrimSpace(scanner.Text())
			if fen != "" {
				fens = append(fens, fen)
			}
		}
	}

	u.engine.SetHashSize(ttMB)
	u.engine.SetThreads(threads)
	u.engine.Clear()

	var totalNodes uint64
	start := time.Now()

	for i, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			log.Warn().Err(err).Str("fen", fen).Msg("skipping invalid bench FEN")
			continue
		}

		fmt.Printf("\nPosition %d/%d: %s\n", i+1, len(fens), fen)

		switch limitType {
		case "perft":
			nodes := u.engine.Perft(pos, limit)
			totalNodes += nodes
			fmt.Printf("Nodes: %d\n", nodes)
		case "eval":
			fmt.Printf("Eval: %d\n", u.engine.Evaluate(pos))
		case "nodes":
			limits := engine.SearchLimits{Nodes: uint64(limit)}
			u.engine.SearchWithLimits(pos, limits)
			totalNodes += u.engine.Nodes()
		case "movetime":
			limits := engine.SearchLimits{MoveTime: time.Duration(limit) * time.Millisecond}
			u.engine.SearchWithLimits(pos, limits)
			totalNodes += u.engine.Nodes()
		default: // depth
			limits := engine.SearchLimits{Depth: limit}
			u.engine.SearchWithLimits(pos, limits)
			totalNodes += u.engine.Nodes()
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("\n===========================\n")
	fmt.Printf("Total time (ms) : %d\n", elapsed.Milliseconds())
	if limitType != "eval" {
		fmt.Printf("Nodes searched  : %d\n", totalNodes)
		if elapsed > 0 {
			fmt.Printf("Nodes/second    : %.0f\n", float64(totalNodes)/elapsed.Seconds())
		}
	}
}
