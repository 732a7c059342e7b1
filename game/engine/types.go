package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the side length of the board
	Size = 4
	// Cells is the number of cells on the board
	Cells = Size * Size

	// Validation constants
	MinStartTiles          = 0
	MaxStartTiles          = Cells
	DefaultStartTiles      = 2
	DefaultFourProbability = 0.1
	MaxBulkMoves           = 50
	WebSocketBufferSize    = 256
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidTile      = errors.New("invalid tile value")
)

// Direction is the direction tiles slide in during a move
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections lists every direction in a stable order
var AllDirections = []Direction{Up, Down, Left, Right}

// String returns the lowercase name used on the wire
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection converts a boundary string into a Direction.
// It accepts the names, the wasd keys and the arrow key names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w", "arrowup":
		return Up, nil
	case "down", "s", "arrowdown":
		return Down, nil
	case "left", "a", "arrowleft":
		return Left, nil
	case "right", "d", "arrowright":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q (expected up, down, left or right)", ErrInvalidDirection, s)
}

// MarshalJSON encodes the direction as its name
func (d Direction) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a direction name
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MoveEvent describes one tile leaving its cell during a single merge call
type MoveEvent struct {
	FromX   int  `json:"from_x"`
	FromY   int  `json:"from_y"`
	ToX     int  `json:"to_x"`
	ToY     int  `json:"to_y"`
	IsMerge bool `json:"is_merge"`
}

// PlacementResult is a newly placed random tile
type PlacementResult struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

// Board is a row-major snapshot of the grid, index = y*Size + x
type Board [Cells]int

// At returns the value stored for (x, y)
func (b Board) At(x, y int) int {
	return b[y*Size+x]
}

// GameConfig is a rule set loaded from a JSON or YAML file
type GameConfig struct {
	Name            string  `json:"name" yaml:"name"`
	Description     string  `json:"description" yaml:"description"`
	FourProbability float64 `json:"four_probability" yaml:"four_probability"`
	StartTiles      int     `json:"start_tiles" yaml:"start_tiles"`
	Messages        struct {
		Welcome  string `json:"welcome" yaml:"welcome"`
		Moved    string `json:"moved" yaml:"moved"`
		NoMove   string `json:"no_move" yaml:"no_move"`
		GameOver string `json:"game_over" yaml:"game_over"`
	} `json:"messages" yaml:"messages"`
}

// TurnResult is the outcome of one full turn: a merge and, if anything moved, a placement
type TurnResult struct {
	Direction Direction        `json:"direction"`
	Moved     bool             `json:"moved"`
	Events    []MoveEvent      `json:"events"`
	Placement *PlacementResult `json:"placement,omitempty"`
	Board     Board            `json:"board"`
	GameOver  bool             `json:"game_over"`
}

// GameState represents the complete game state of a session
type GameState struct {
	Grid          Grid               `json:"grid"`
	Board         Board              `json:"board"`
	GameOver      bool               `json:"game_over"`
	Message       string             `json:"message"`
	ConfigName    string             `json:"config_name"`
	HighestTile   int                `json:"highest_tile"`
	EmptyCells    int                `json:"empty_cells"`
	MoveHistory   []MoveHistoryEntry `json:"move_history"`
	TotalMoves    int                `json:"total_moves"`
	PossibleMoves []string           `json:"possible_moves,omitempty"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string           `json:"action"`
	Moved      bool             `json:"moved"`
	Events     int              `json:"events"`
	Merges     int              `json:"merges"`
	Placement  *PlacementResult `json:"placement,omitempty"`
	Timestamp  int64            `json:"timestamp"`
	MoveNumber int              `json:"move_number"`
}
