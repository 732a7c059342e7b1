package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	Snapshot() Board
	GetGrid() Grid
	SetGrid(grid Grid) error

	// Movement operations
	Move(dir Direction) TurnResult
	CanMove(dir Direction) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent use;
// callers serialize access to a single instance.
type GameEngine struct {
	grid   Grid
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewSeededRand returns a deterministic random source for the given seed
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine creates a new game engine with the provided rule set and random source.
// The starting tiles are placed immediately.
func NewEngine(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.start()

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rule set
func NewEngineWithDefaults(seed uint64) *GameEngine {
	engine := &GameEngine{
		config: DefaultConfig(),
		rng:    NewSeededRand(seed),
	}
	engine.start()
	return engine
}

// start empties the grid, resets state and places the starting tiles
func (e *GameEngine) start() {
	e.grid.Initialize()
	e.state = InitGameStateFromConfig(e.config)
	for i := 0; i < e.config.StartTiles; i++ {
		if _, ok := e.grid.PlaceRandom(e.rng, e.config.FourProbability); !ok {
			break
		}
	}
	e.state.GameOver = e.grid.IsGameOver()
}

// GetState returns a copy of the current game state with derived fields filled in
func (e *GameEngine) GetState() *GameState {
	state := *e.state
	state.Grid = e.grid
	state.Board = e.grid.Snapshot()
	state.HighestTile = e.grid.HighestTile()
	state.EmptyCells = e.grid.EmptyCount()
	state.PossibleMoves = e.GetPossibleMoves()
	state.MoveHistory = append([]MoveHistoryEntry(nil), e.state.MoveHistory...)
	state.CurrentMoves = append([]MoveHistoryEntry(nil), e.state.CurrentMoves...)
	return &state
}

// Reset starts a fresh game with the same rule set and random source.
// Cumulative history is preserved; the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.start()

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.GetState()
}

// IsGameOver returns whether no move is left
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// Snapshot returns the row-major board values
func (e *GameEngine) Snapshot() Board {
	return e.grid.Snapshot()
}

// GetGrid returns a copy of the grid
func (e *GameEngine) GetGrid() Grid {
	return e.grid
}

// SetGrid installs a grid after validating its tiles
func (e *GameEngine) SetGrid(grid Grid) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	e.grid = grid
	e.state.GameOver = e.grid.IsGameOver()
	if e.state.GameOver {
		e.state.Message = e.config.Messages.GameOver
	}
	return nil
}

// Move plays one turn: slide toward dir and, when anything moved, place a random tile.
// Once the game is over every move is a no-op.
func (e *GameEngine) Move(dir Direction) TurnResult {
	result := TurnResult{
		Direction: dir,
		Events:    []MoveEvent{},
	}

	if e.state.GameOver || !dir.Valid() {
		result.Board = e.grid.Snapshot()
		result.GameOver = e.state.GameOver
		return result
	}

	result.Events = e.grid.MergeAll(dir)
	if len(result.Events) > 0 {
		result.Moved = true
		if placement, ok := e.grid.PlaceRandom(e.rng, e.config.FourProbability); ok {
			result.Placement = &placement
		}
		e.state.Message = e.movedMessage(dir)
	} else {
		e.state.Message = e.config.Messages.NoMove
	}

	if e.grid.IsGameOver() {
		e.state.GameOver = true
		e.state.Message = e.config.Messages.GameOver
	}

	e.addMoveToHistory(dir, result)

	result.Board = e.grid.Snapshot()
	result.GameOver = e.state.GameOver
	return result
}

// CanMove checks whether a move in dir would change the board
func (e *GameEngine) CanMove(dir Direction) bool {
	if e.state.GameOver {
		return false
	}
	return e.grid.CanMove(dir)
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range AllDirections {
		if e.CanMove(dir) {
			possible = append(possible, dir.String())
		}
	}
	return possible
}

// GetConfig returns the current rule set
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new rule set and restarts the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.start()
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry(nil), e.state.MoveHistory...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	last := e.state.MoveHistory[len(e.state.MoveHistory)-1]
	return &last
}

// BulkMove plays several turns in sequence, stopping once the game is over
func (e *GameEngine) BulkMove(moves []Direction) []TurnResult {
	results := make([]TurnResult, 0, len(moves))

	for _, dir := range moves {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Move(dir))
	}

	return results
}

func (e *GameEngine) movedMessage(dir Direction) string {
	return strings.Replace(e.config.Messages.Moved, "%s", dir.String(), 1)
}

// addMoveToHistory appends a turn to the cumulative and current histories
func (e *GameEngine) addMoveToHistory(dir Direction, result TurnResult) {
	entry := MoveHistoryEntry{
		Action:     dir.String(),
		Moved:      result.Moved,
		Events:     len(result.Events),
		Merges:     CountMerges(result.Events),
		Placement:  result.Placement,
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.state.TotalMoves + 1,
	}
	e.state.MoveHistory = append(e.state.MoveHistory, entry)
	e.state.TotalMoves++

	e.state.CurrentMoves = append(e.state.CurrentMoves, entry)
	e.state.CurrentMovesCount++
}
