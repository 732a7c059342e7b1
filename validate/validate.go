// Command validate provides a small CLI that validates rule set files
// (*.json, *.yaml, *.yml) in the ../configs directory. It checks:
//   - JSON/YAML structure and unknown keys
//   - Required fields and spawn rules (four_probability, start_tiles)
//   - Required message keys and the single %s placeholder in messages.moved
//   - Playability: seeded starting boards leave at least one legal move
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/tile-merge-game/game/engine"
	"gopkg.in/yaml.v3"
)

// playabilitySeeds is how many seeded starting boards are checked per rule set
const playabilitySeeds = 20

var knownKeys = map[string]bool{
	"name":             true,
	"description":      true,
	"four_probability": true,
	"start_tiles":      true,
	"messages":         true,
}

var requiredMessages = []string{"welcome", "moved", "no_move", "game_over"}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// decodeRaw parses the file into a generic map so unknown keys can be reported
func decodeRaw(filePath string, data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("Invalid YAML: %v", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("Invalid JSON: %v", err)
		}
	}
	return raw, nil
}

// validateConfig loads and validates a single rule set file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	raw, err := decodeRaw(filePath, data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	var unknown []string
	for key := range raw {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.fail("Unknown key: %s", key)
	}

	config, err := engine.DecodeGameConfig(filePath, data)
	if err != nil {
		result.fail("Failed to decode rule set: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	if config.FourProbability < 0 || config.FourProbability > 1 {
		result.fail("four_probability must be between 0 and 1, got %g", config.FourProbability)
	}
	if config.StartTiles < engine.MinStartTiles || config.StartTiles > engine.MaxStartTiles {
		result.fail("start_tiles must be between %d and %d, got %d", engine.MinStartTiles, engine.MaxStartTiles, config.StartTiles)
	}

	messages := map[string]string{
		"welcome":   config.Messages.Welcome,
		"moved":     config.Messages.Moved,
		"no_move":   config.Messages.NoMove,
		"game_over": config.Messages.GameOver,
	}
	for _, msg := range requiredMessages {
		if messages[msg] == "" {
			result.fail("Missing required message: %s", msg)
		}
	}
	if config.Messages.Moved != "" {
		if err := engine.ValidateMovedMessage(config.Messages.Moved); err != nil {
			result.fail("%v", err)
		}
	}

	// Playability check only makes sense for an otherwise valid rule set
	if result.Valid {
		playable := validatePlayability(config)
		if !playable.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, playable.Errors...)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Start tiles: %d", config.StartTiles))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Chance of a 4: %.0f%%", config.FourProbability*100))
	}

	return result
}

// validatePlayability starts seeded games and reports boards that are
// already stuck before the first move.
func validatePlayability(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	stuck := 0
	for seed := uint64(1); seed <= playabilitySeeds; seed++ {
		game, err := engine.NewEngine(config, engine.NewSeededRand(seed))
		if err != nil {
			result.fail("Cannot start game: %v", err)
			return result
		}
		if game.IsGameOver() || len(game.GetPossibleMoves()) == 0 {
			stuck++
		}
	}

	if stuck > 0 {
		result.fail("Playability failure: %d/%d seeded starts have no legal move", stuck, playabilitySeeds)
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Playability: all %d seeded starts have a legal move", playabilitySeeds))
	}

	return result
}

// findConfigFiles returns every rule set file in dir, sorted by name
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// main scans ../configs for rule set files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := findConfigFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
