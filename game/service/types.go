package service

import (
	"errors"
	"time"

	"github.com/wricardo/tile-merge-game/game/engine"
)

// Error kinds shared by the session and config layers. Wrap them; match with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

// CreateSessionOptions selects the rule set and, optionally, the random seed of a new session
type CreateSessionOptions struct {
	ConfigName string  `json:"config_name,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           uint64             `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool                    `json:"success"` // true when the board changed
	Direction string                  `json:"direction"`
	GameState *engine.GameState       `json:"game_state"`
	Message   string                  `json:"message"`
	Events    []engine.MoveEvent      `json:"events"`
	Placement *engine.PlacementResult `json:"placement,omitempty"`
	Merges    int                     `json:"merges"`
	GameOver  bool                    `json:"game_over"`
	WasReset  bool                    `json:"was_reset,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	EffectiveMoves int               `json:"effective_moves"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that was not played
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	WasReset       bool              `json:"was_reset,omitempty"`

	// Start/end snapshot
	StartHighest int `json:"start_highest"`
	EndHighest   int `json:"end_highest"`
	TotalMerges  int `json:"total_merges"`

	// Per-step trace (only for this call)
	Steps []StepInfo `json:"steps"`

	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx       int                     `json:"idx"`
	Dir       string                  `json:"dir"`
	Moved     bool                    `json:"moved"`
	Events    []engine.MoveEvent      `json:"events"`
	Merges    int                     `json:"merges"`
	Placement *engine.PlacementResult `json:"placement,omitempty"`
	Board     engine.Board            `json:"board"`
	GameOver  bool                    `json:"game_over,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a rule set
type ConfigInfo struct {
	Filename        string  `json:"filename"`
	ConfigID        string  `json:"config_id"` // The identifier to use for session creation
	Name            string  `json:"name"`      // Display name
	Description     string  `json:"description"`
	FourProbability float64 `json:"four_probability"`
	StartTiles      int     `json:"start_tiles"`
}
