package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateGameConfig validates a rule set for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate spawn rules
	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %g", config.FourProbability)
	}
	if config.StartTiles < MinStartTiles || config.StartTiles > MaxStartTiles {
		return fmt.Errorf("config validation: start_tiles must be between %d and %d, got %d", MinStartTiles, MaxStartTiles, config.StartTiles)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Moved == "" {
		return fmt.Errorf("config validation: messages.moved is required")
	}
	if config.Messages.NoMove == "" {
		return fmt.Errorf("config validation: messages.no_move is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}
	if err := ValidateMovedMessage(config.Messages.Moved); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

// ValidateMovedMessage checks that a moved message has exactly one %s
// placeholder for the direction and no other % sequences
func ValidateMovedMessage(moved string) error {
	if strings.Count(moved, "%s") != 1 || strings.Count(moved, "%") != 1 {
		return fmt.Errorf("messages.moved must contain exactly one %%s for the direction")
	}
	return nil
}

// DecodeGameConfig parses a rule set, choosing YAML or JSON from the file extension
func DecodeGameConfig(filename string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	}
	return &config, nil
}

// EncodeGameConfig serializes a rule set, choosing YAML or JSON from the file extension
func EncodeGameConfig(filename string, config *GameConfig) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

// LoadGameConfig loads and validates a rule set file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(configPath, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigByName loads a rule set by name from the configs directory,
// trying the .json, .yaml and .yml extensions in that order
func LoadConfigByName(configName string) (*GameConfig, error) {
	if filepath.Base(configName) != configName {
		return nil, fmt.Errorf("config name must not contain a path: %q", configName)
	}
	for _, candidate := range ConfigFileCandidates(configName) {
		configPath := filepath.Join("configs", candidate)
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		config, err := LoadGameConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config '%s': %v", candidate, err)
		}
		return config, nil
	}
	return nil, fmt.Errorf("config file '%s' not found", configName)
}

// ConfigFileCandidates lists the file names a rule set name may be stored under
func ConfigFileCandidates(name string) []string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return []string{name}
	}
	return []string{name + ".json", name + ".yaml", name + ".yml"}
}

// DefaultConfig returns the built-in classic rule set
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:            "classic",
		Description:     "Classic 4x4 rules: two starting tiles, 10% chance of a 4",
		FourProbability: DefaultFourProbability,
		StartTiles:      DefaultStartTiles,
	}
	config.Messages.Welcome = "Join the tiles, get to 2048!"
	config.Messages.Moved = "Moved %s"
	config.Messages.NoMove = "Nothing moves that way"
	config.Messages.GameOver = "No moves left. Game over!"
	return config
}

// InitGameStateFromConfig creates an empty game state for the rule set
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	return &GameState{
		Message:           config.Messages.Welcome,
		ConfigName:        config.Name,
		EmptyCells:        Cells,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
}
