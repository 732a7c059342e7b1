// Package config provides rule set management for the tile merge game.
//
// The config package handles:
//   - Loading rule sets from JSON or YAML files
//   - Caching loaded rule sets
//   - Default rule set selection
//   - Rule set discovery, listing and saving
//
// Rule Set Format:
//
// A rule set tunes how new tiles appear and what the player is told:
//
//	name: hard
//	description: Crowded start
//	four_probability: 0.25
//	start_tiles: 4
//	messages:
//	  welcome: Good luck!
//	  moved: Pushed %s
//	  no_move: Nothing budges
//	  game_over: Locked up
//
// Files ending in .json are parsed as JSON, files ending in .yaml or .yml as
// YAML. A rule set is addressed by its file name without extension.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//
//	// classic, else the first valid file, else the built-in rules
//	defaultConfig := manager.GetDefault()
package config
